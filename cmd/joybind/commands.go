package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/muurk/joybind/internal/agent"
	"github.com/muurk/joybind/internal/binding"
	"github.com/muurk/joybind/internal/config"
	"github.com/muurk/joybind/internal/device"
	"github.com/muurk/joybind/internal/discovery"
	"github.com/muurk/joybind/internal/profile"
	"github.com/muurk/joybind/internal/ui"
	"github.com/muurk/joybind/internal/urls"
	"github.com/muurk/joybind/internal/wizard/tui"
)

// Command flags
var (
	agentAddr    string
	profilePath  string
	verbose      bool
	scanTimeout  int
	hideDefaults bool
	modifier     string
	devicePrefix string
)

func init() {
	// Common flags for agent-facing commands (persistent on root)
	rootCmd.PersistentFlags().StringVar(&agentAddr, "agent", "", "Agent address, host or host:port (skips discovery)")
	rootCmd.PersistentFlags().StringVar(&profilePath, "profile", "", "Bindings profile file (default: config dir)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show raw agent traffic and discovery records")

	// Add subcommands directly to root
	rootCmd.AddCommand(agentsCmd)
	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(bindingsCmd)
	rootCmd.AddCommand(wizardCmd)
}

// loadRegistry loads the user config, creating defaults on first run.
func loadRegistry() (*config.Registry, error) {
	reg, err := config.LoadRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return reg, nil
}

// openStore opens the bindings profile. Precedence: --profile flag, the
// profile_path preference, then bindings.yaml in the config directory.
func openStore(reg *config.Registry) (*profile.FileStore, error) {
	path := profilePath
	if path == "" && reg.Preferences != nil {
		path = reg.Preferences.ProfilePath
	}
	if path == "" {
		dir, err := config.GetConfigDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "bindings.yaml")
	}
	return profile.OpenFileStore(path)
}

// resolveAgentURL finds the agent to talk to. Precedence: --agent flag, the
// agent_url preference, then mDNS discovery requiring exactly one agent.
func resolveAgentURL(reg *config.Registry) (string, error) {
	if agentAddr != "" {
		return normalizeAgentURL(agentAddr), nil
	}
	if reg.Preferences != nil && reg.Preferences.AgentURL != "" {
		return normalizeAgentURL(reg.Preferences.AgentURL), nil
	}

	timeout := discovery.DefaultScanTimeout
	if reg.Preferences != nil && reg.Preferences.DiscoverTimeout > 0 {
		timeout = time.Duration(reg.Preferences.DiscoverTimeout) * time.Second
	}

	ui.PrintPleaseWait("No agent address given, scanning the network", fmt.Sprintf("up to %s", timeout))
	agents, err := discovery.ScanForAgents(timeout)
	if err != nil {
		return "", fmt.Errorf("discovery failed: %w", err)
	}

	if len(agents) == 0 {
		return "", fmt.Errorf("no agents found. Use --agent flag to specify the address manually")
	}

	if len(agents) > 1 {
		fmt.Printf("Found %d agents:\n", len(agents))
		for i, a := range agents {
			fmt.Printf("%d. %s (%s:%d)\n", i+1, a.Instance, a.IP, a.Port)
		}
		return "", fmt.Errorf("multiple agents found. Use --agent flag to specify which one")
	}

	a := agents[0]
	fmt.Printf("Found agent: %s (%s:%d)\n\n", a.Instance, a.IP, a.Port)
	return a.BaseURL(), nil
}

// normalizeAgentURL turns "host" or "host:port" into a base URL. Full URLs
// pass through untouched.
func normalizeAgentURL(addr string) string {
	if strings.HasPrefix(addr, "http://") || strings.HasPrefix(addr, "https://") {
		return addr
	}
	if !strings.Contains(addr, ":") {
		addr = fmt.Sprintf("%s:%d", addr, discovery.DefaultPort)
	}
	return "http://" + addr
}

// agentsCmd discovers agents on the network
var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "Scan for joybind agents on the network",
	Long: `Scan for joybind agents using mDNS/DNS-SD discovery.

This command listens for mDNS broadcasts from joybind agents and displays
all discovered agents with their addresses, versions, and device counts.`,
	Example: `  # Scan for 10 seconds (default)
  joybind agents

  # Quick 3-second scan
  joybind agents --timeout 3`,
	RunE: runAgents,
}

func init() {
	agentsCmd.Flags().IntVar(&scanTimeout, "timeout", 10, "Scan timeout in seconds")
}

func runAgents(cmd *cobra.Command, args []string) error {
	timeout := time.Duration(scanTimeout) * time.Second

	runner := ui.NewRunner(ui.RunnerConfig{
		Title:      "Agent Discovery",
		Command:    "joybind agents",
		Params:     map[string]string{"Timeout": timeout.String()},
		TotalSteps: 1,
		StepNames:  []string{"Scanning the network for agents"},
		Verbose:    verbose,
	})

	var agents []*discovery.Agent
	_, err := runner.RunWithResult(context.Background(), func(onStep ui.StepCallback) (map[string]string, error) {
		onStep(1, "", ui.StepRunning, "")
		found, err := discovery.ScanForAgents(timeout)
		if err != nil {
			onStep(1, "", ui.StepFailed, err.Error())
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		agents = found
		onStep(1, "", ui.StepComplete, fmt.Sprintf("%d agent(s)", len(found)))
		runner.SetAgentLog(agentScanLog(found))
		return map[string]string{"Agents": strconv.Itoa(len(found))}, nil
	})
	if err != nil {
		return err
	}

	if len(agents) == 0 {
		ui.PrintWarning("No agents found", map[string]string{
			"Hint": "ensure joybind-agent is running and the firewall allows mDNS (UDP 5353)",
			"Docs": urls.AgentSetup,
		})
		fmt.Println("\nUse the --agent flag to specify the address manually")
		return nil
	}

	fmt.Printf("Found %d agent(s):\n\n", len(agents))

	for i, a := range agents {
		fmt.Printf("%d. %s\n", i+1, a.Instance)
		fmt.Printf("   Address: %s:%d\n", a.IP, a.Port)
		if v := a.GetMetadata("version"); v != "" {
			fmt.Printf("   Version: %s\n", v)
		}
		if d := a.GetMetadata("devices"); d != "" {
			fmt.Printf("   Devices: %s\n", d)
		}
		fmt.Println()
	}

	fmt.Println("Use 'joybind devices --agent <addr>' to list an agent's devices")
	fmt.Println("Use 'joybind' to launch the interactive capture wizard")

	return nil
}

// agentScanLog flattens discovery records into one line per agent for the
// verbose traffic box.
func agentScanLog(agents []*discovery.Agent) string {
	if len(agents) == 0 {
		return "no mDNS responses for _joybind._tcp"
	}
	var b strings.Builder
	for i, a := range agents {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s %s:%d", a.Instance, a.IP, a.Port)
		if v := a.GetMetadata("version"); v != "" {
			fmt.Fprintf(&b, " version=%s", v)
		}
		if d := a.GetMetadata("devices"); d != "" {
			fmt.Fprintf(&b, " devices=%s", d)
		}
	}
	return b.String()
}

// devicesCmd lists devices and edits slot overrides
var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List input devices with their resolved slot prefixes",
	Long: `List the input devices the agent currently sees, with the slot prefix
each resolves to (js1, gp1, ...).

Auto-detected slots follow the agent's enumeration order, so replugging
hardware can shuffle them. Pin a device to a fixed slot with the
set-prefix subcommand; the override is stored by the device's stable
UUID and survives re-enumeration.`,
	Example: `  # List devices via auto-discovery
  joybind devices

  # List devices on a specific agent
  joybind devices --agent 192.168.1.20:7411

  # Pin a device to js2 regardless of enumeration order
  joybind devices set-prefix 231d:0200 js2

  # Return a device to auto-detection
  joybind devices clear-prefix 231d:0200`,
	RunE: runDevices,
}

var setPrefixCmd = &cobra.Command{
	Use:   "set-prefix <uuid> <prefix>",
	Short: "Pin a device to a logical slot",
	Args:  cobra.ExactArgs(2),
	RunE:  runSetPrefix,
}

var clearPrefixCmd = &cobra.Command{
	Use:   "clear-prefix <uuid>",
	Short: "Remove a device's slot override",
	Args:  cobra.ExactArgs(1),
	RunE:  runClearPrefix,
}

func init() {
	devicesCmd.AddCommand(setPrefixCmd)
	devicesCmd.AddCommand(clearPrefixCmd)
}

func runDevices(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}

	baseURL, err := resolveAgentURL(reg)
	if err != nil {
		return err
	}

	runner := ui.NewRunner(ui.RunnerConfig{
		Title:      "Device Enumeration",
		Command:    "joybind devices",
		Params:     map[string]string{"Agent": baseURL},
		TotalSteps: 2,
		StepNames:  []string{"Connecting to agent", "Enumerating input devices"},
		Verbose:    verbose,
	})

	var devices []device.Info
	_, err = runner.RunWithResult(context.Background(), func(onStep ui.StepCallback) (map[string]string, error) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		onStep(1, "", ui.StepRunning, "")
		client := agent.NewClient(baseURL)
		onStep(1, "", ui.StepComplete, baseURL)

		onStep(2, "", ui.StepRunning, "")
		found, err := client.Devices(ctx)
		if err != nil {
			onStep(2, "", ui.StepFailed, err.Error())
			return nil, fmt.Errorf("failed to enumerate devices: %w", err)
		}
		devices = found
		onStep(2, "", ui.StepComplete, fmt.Sprintf("%d device(s)", len(found)))
		return map[string]string{"Devices": strconv.Itoa(len(found))}, nil
	})
	if err != nil {
		return err
	}

	if len(devices) == 0 {
		ui.PrintWarning("The agent reports no input devices", map[string]string{
			"Agent": baseURL,
			"Hint":  "plug a controller in and rerun, or check the agent's backend",
		})
		return nil
	}

	if verbose {
		if raw, err := json.MarshalIndent(devices, "", "  "); err == nil {
			ui.PrintAgentLog(string(raw))
		}
	}

	resolver := device.NewResolver(devices, reg.PrefixOverrides())

	fmt.Printf("\nResolved slots:\n\n")

	for _, d := range devices {
		prefix := resolver.Resolve(d.UUID, "")
		marker := ""
		if _, ok := resolver.Override(d.UUID); ok {
			marker = " (pinned)"
		}
		fmt.Printf("  %-6s %s%s\n", prefix, d.Name, marker)
		fmt.Printf("         UUID: %s  Class: %s\n", d.UUID, d.Class)
		if nick := reg.GetDevice(d.UUID); nick != nil && nick.Nickname != "" {
			fmt.Printf("         Nickname: %s\n", nick.Nickname)
		}
		fmt.Println()
		reg.UpdateDeviceLastSeen(d.UUID)
	}

	if err := reg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println("Use 'joybind devices set-prefix <uuid> <prefix>' to pin a slot")

	return nil
}

func runSetPrefix(cmd *cobra.Command, args []string) error {
	uuid, prefix := args[0], strings.ToLower(args[1])

	if !validSlotPrefix(prefix) {
		return fmt.Errorf("invalid prefix %q (expected js<N> or gp<N>)", prefix)
	}

	reg, err := loadRegistry()
	if err != nil {
		return err
	}

	reg.SetPrefixOverride(uuid, prefix)
	if err := reg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	ui.PrintSuccess("Slot override saved", map[string]string{
		"Device": uuid,
		"Prefix": prefix,
	})
	return nil
}

func runClearPrefix(cmd *cobra.Command, args []string) error {
	uuid := args[0]

	reg, err := loadRegistry()
	if err != nil {
		return err
	}

	reg.SetPrefixOverride(uuid, "")
	if err := reg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	ui.PrintSuccess("Slot override removed", map[string]string{
		"Device": uuid,
		"Slot":   "auto-detected",
	})
	return nil
}

// validSlotPrefix accepts js<N> and gp<N> slot names.
func validSlotPrefix(p string) bool {
	var class string
	switch {
	case strings.HasPrefix(p, "js"):
		class = "js"
	case strings.HasPrefix(p, "gp"):
		class = "gp"
	default:
		return false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(p, class))
	return err == nil && n >= 1
}

// bindingsCmd looks up and edits bindings
var bindingsCmd = &cobra.Command{
	Use:   "bindings",
	Short: "Look up and edit action bindings",
	Long: `Look up which actions a physical control is bound to, clear bindings,
and reset actions to their defaults.

Controls are identified by a button number (3), a named descriptor
(rotz, axis2, hat1_up), or a key name (space, f5).`,
}

var findCmd = &cobra.Command{
	Use:   "find <control>",
	Short: "Find the actions bound to a control",
	Long: `Find every action bound to the given control on a device slot.

User bindings sort before defaults. A default axis binding stored on
slot 1 matches the same axis on any slot of the same class.`,
	Example: `  # What is button 3 on the first joystick bound to?
  joybind bindings find 3 --device-prefix js1

  # Look up the rotary Z axis, hiding default bindings
  joybind bindings find rotz --device-prefix js1 --hide-defaults

  # Only bindings that require lalt
  joybind bindings find 3 --device-prefix js1 --modifier lalt`,
	Args: cobra.ExactArgs(1),
	RunE: runFind,
}

var clearCmd = &cobra.Command{
	Use:   "clear <action-map> <action> <prefix>",
	Short: "Clear an action's binding on a device",
	Long: `Write an explicit cleared binding for the action on the given device
prefix. This suppresses the default binding without assigning an input.`,
	Example: `  # Unbind fire on the keyboard, suppressing its default
  joybind bindings clear spaceship_weapons fire kb1`,
	Args: cobra.ExactArgs(3),
	RunE: runClear,
}

var resetCmd = &cobra.Command{
	Use:   "reset <action-map> <action>",
	Short: "Remove an action's user bindings, restoring defaults",
	Args:  cobra.ExactArgs(2),
	RunE:  runReset,
}

func init() {
	findCmd.Flags().StringVar(&devicePrefix, "device-prefix", "js1", "Device slot prefix to match against")
	findCmd.Flags().BoolVar(&hideDefaults, "hide-defaults", false, "Hide default bindings from results")
	findCmd.Flags().StringVar(&modifier, "modifier", "", "Only matches requiring this modifier (lalt, rctrl, ...)")

	bindingsCmd.AddCommand(findCmd)
	bindingsCmd.AddCommand(clearCmd)
	bindingsCmd.AddCommand(resetCmd)
}

func runFind(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}
	store, err := openStore(reg)
	if err != nil {
		return fmt.Errorf("failed to open profile: %w", err)
	}

	var ref binding.ControlRef
	if n, err := strconv.Atoi(args[0]); err == nil {
		ref = binding.ByNumber(n)
	} else {
		ref = binding.ByString(args[0])
	}

	filters := binding.Filters{HideDefaults: hideDefaults, Modifier: modifier}
	if !cmd.Flags().Changed("hide-defaults") && reg.Preferences != nil {
		filters.HideDefaults = reg.Preferences.HideDefaults
	}

	params := map[string]string{
		"Control": args[0],
		"Device":  devicePrefix,
	}
	if filters.HideDefaults {
		params["Filter"] = "user bindings only"
	}
	if filters.Modifier != "" {
		params["Modifier"] = filters.Modifier
	}
	ui.PrintCommandHeader("Binding Lookup", "joybind bindings find "+args[0], params)

	matcher := binding.NewMatcher(store.Load)
	matches := matcher.Find(ref, devicePrefix, filters)

	if len(matches) == 0 {
		ui.PrintWarning("No bindings found", map[string]string{
			"Control": fmt.Sprint(ref),
			"Device":  devicePrefix,
			"Docs":    urls.DeviceSlots,
		})
		return nil
	}

	fmt.Printf("Found %d binding(s) for %s on %s:\n\n", len(matches), ref, devicePrefix)

	for _, m := range matches {
		provenance := "user"
		if m.IsDefault {
			provenance = "default"
		}
		fmt.Printf("  %s · %s  [%s]\n", m.ActionMapLabel, m.ActionLabel, provenance)
		fmt.Printf("    Input: %s\n", m.Input)
		if m.DisplayName != "" {
			fmt.Printf("    Name:  %s\n", m.DisplayName)
		}
		if len(m.Modifiers) > 0 {
			names := make([]string, len(m.Modifiers))
			for i, mod := range m.Modifiers {
				names[i] = string(mod)
			}
			fmt.Printf("    Modifiers: %s\n", strings.Join(names, "+"))
		}
		if m.MultiTap > 1 {
			fmt.Printf("    Multi-tap: %d\n", m.MultiTap)
		}
		if m.ActivationMode != "" {
			fmt.Printf("    Activation: %s\n", m.ActivationMode)
		}
		fmt.Println()
	}

	return nil
}

func runClear(cmd *cobra.Command, args []string) error {
	actionMap, action, prefix := args[0], args[1], strings.ToLower(args[2])

	reg, err := loadRegistry()
	if err != nil {
		return err
	}
	store, err := openStore(reg)
	if err != nil {
		return fmt.Errorf("failed to open profile: %w", err)
	}

	if err := store.ClearBinding(actionMap, action, prefix); err != nil {
		return fmt.Errorf("clear failed: %w", err)
	}

	ui.PrintSuccess("Binding cleared", map[string]string{
		"Action": fmt.Sprintf("%s.%s", actionMap, action),
		"Device": prefix,
		"Effect": "default binding suppressed",
	})
	return nil
}

func runReset(cmd *cobra.Command, args []string) error {
	actionMap, action := args[0], args[1]

	if !ui.ResetBindingConfirmation(actionMap, action) {
		fmt.Println("Reset cancelled.")
		return nil
	}

	reg, err := loadRegistry()
	if err != nil {
		return err
	}
	store, err := openStore(reg)
	if err != nil {
		return fmt.Errorf("failed to open profile: %w", err)
	}

	if err := store.ResetBinding(actionMap, action); err != nil {
		return fmt.Errorf("reset failed: %w", err)
	}

	ui.PrintSuccess("Bindings reset", map[string]string{
		"Action": fmt.Sprintf("%s.%s", actionMap, action),
		"Effect": "user bindings removed, defaults restored",
	})
	return nil
}

// wizardCmd launches the interactive capture wizard
var wizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Launch the interactive capture wizard",
	Long: `Launch an interactive TUI wizard for capturing bindings.

The wizard provides a user-friendly flow for:
- Discovering agents on the network
- Picking the action to bind
- Capturing a key, button, axis, or hat press live
- Reviewing conflicts and saving the binding

This is the recommended way to edit bindings for most users.`,
	Example: `  # Launch wizard with agent auto-discovery
  joybind wizard
  # Or simply (wizard is default):
  joybind

  # Launch wizard against a specific agent
  joybind wizard --agent 192.168.1.20:7411
  joybind --agent 192.168.1.20:7411`,
	RunE: runWizard,
}

func runWizard(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("the wizard needs an interactive terminal; use the bindings subcommands instead")
	}

	reg, err := loadRegistry()
	if err != nil {
		return err
	}
	store, err := openStore(reg)
	if err != nil {
		return fmt.Errorf("failed to open profile: %w", err)
	}

	agentURL := ""
	if agentAddr != "" {
		agentURL = normalizeAgentURL(agentAddr)
	} else if reg.Preferences != nil && reg.Preferences.AgentURL != "" {
		agentURL = normalizeAgentURL(reg.Preferences.AgentURL)
	}

	if err := tui.Run(tui.AppConfig{
		Store:    store,
		Registry: reg,
		AgentURL: agentURL,
	}); err != nil {
		ui.PrintFailure("Wizard exited with an error", err, []string{
			"Verify the agent is still running on the gaming machine",
			"Check the agent address with: joybind agents",
			"See: " + urls.CaptureGuide,
		})
		return fmt.Errorf("wizard failed")
	}
	return nil
}
