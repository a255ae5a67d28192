// Joybind-agent is the input agent for the joybind binding utility.
//
// It runs on the machine with the game controllers attached, enumerates
// input devices, and broadcasts detected-input events to binder clients
// over WebSocket. Agents announce themselves on the local network via
// mDNS so the joybind CLI can find them without configuration.
//
// Usage:
//
//	joybind-agent serve [flags]
//
// See 'joybind-agent serve --help' for available options.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/joybind/internal/agent"
	"github.com/muurk/joybind/internal/device"
	"github.com/muurk/joybind/internal/discovery"
	"github.com/muurk/joybind/internal/input"
	"github.com/muurk/joybind/internal/server"
	"github.com/muurk/joybind/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "joybind-agent",
	Short: "Joybind Input Agent",
	Long: `The agent half of the joybind binding utility.

Runs on the gaming machine, owns the input device backend, and serves
device enumeration plus the detection event stream to joybind clients.

Note: For binding lookup and the capture wizard, use the separate
'joybind' utility.`,
	Version: version.Version,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// Serve command and flags
var (
	host       string
	port       int
	logLevel   string
	replayPath string
	deviceFile string
	synthetic  bool
	noAnnounce bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the input agent",
	Long: `Start the joybind agent and serve input events to binder clients.

The agent needs a device backend. Two ship with it:

  --replay <file>   replay a JSONL capture of input events, looping
  --synthetic       emit a built-in demo script of events

The real HID/XInput backend is platform-specific and plugs in through
the same interface. Unless --no-announce is given, the agent registers
itself over mDNS so binders on the network can discover it.`,
	Example: `  # Serve a captured event log on the default port
  joybind-agent serve --replay capture.jsonl

  # Replay with the device list the capture was made against
  joybind-agent serve --replay capture.jsonl --devices devices.json

  # Demo mode with synthetic devices and events
  joybind-agent serve --synthetic --log-level debug

  # Bind to one interface without mDNS announcement
  joybind-agent serve --host 192.168.1.20 --port 7411 --no-announce`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&host, "host", "", "Listen address (empty = all interfaces)")
	serveCmd.Flags().IntVar(&port, "port", discovery.DefaultPort, "Listen port")
	serveCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	serveCmd.Flags().StringVar(&replayPath, "replay", "", "JSONL capture file to replay as the event source")
	serveCmd.Flags().StringVar(&deviceFile, "devices", "", "JSON file with the device list to advertise")
	serveCmd.Flags().BoolVar(&synthetic, "synthetic", false, "Use the built-in synthetic backend")
	serveCmd.Flags().BoolVar(&noAnnounce, "no-announce", false, "Do not advertise the agent over mDNS")
}

func runServe(cmd *cobra.Command, args []string) error {
	if replayPath == "" && !synthetic {
		return fmt.Errorf("a backend is required: use --replay <file> or --synthetic")
	}
	if replayPath != "" && synthetic {
		return fmt.Errorf("--replay and --synthetic are mutually exclusive")
	}

	devices, err := loadDevices()
	if err != nil {
		return err
	}

	var backend server.Backend
	if replayPath != "" {
		backend, err = server.NewReplayBackend(replayPath, devices)
		if err != nil {
			return fmt.Errorf("failed to load replay capture: %w", err)
		}
	} else {
		backend = server.NewSyntheticBackend(devices, demoScript())
	}

	config := &server.Config{
		Host:     host,
		Port:     port,
		LogLevel: logLevel,
		Announce: !noAnnounce,
	}

	srv, err := server.New(config, backend)
	if err != nil {
		return fmt.Errorf("failed to create agent: %w", err)
	}

	return srv.Start()
}

// loadDevices reads the device list to advertise, falling back to a sample
// pair when no file is given.
func loadDevices() ([]device.Info, error) {
	if deviceFile == "" {
		return sampleDevices(), nil
	}

	data, err := os.ReadFile(deviceFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read device file: %w", err)
	}

	var devices []device.Info
	if err := json.Unmarshal(data, &devices); err != nil {
		return nil, fmt.Errorf("failed to parse device file: %w", err)
	}
	if len(devices) == 0 {
		return nil, fmt.Errorf("device file %s lists no devices", deviceFile)
	}
	return devices, nil
}

// sampleDevices is the enumeration advertised when no device file is given.
// Slot order matters: the binder builds its auto prefix table from it.
func sampleDevices() []device.Info {
	return []device.Info{
		{
			UUID:  "231d:0200",
			Name:  "VKB-Sim Gladiator NXT",
			Class: input.ClassJoystick,
		},
		{
			UUID:  "xinput_0",
			Name:  "Xbox Controller",
			Class: input.ClassGamepad,
		},
	}
}

// demoScript is the event sequence the synthetic backend emits per
// detection pass.
func demoScript() []agent.DetectedInput {
	rotz := 0.82
	return []agent.DetectedInput{
		{
			Input:      "js1_button3",
			DeviceUUID: "231d:0200",
			DeviceName: "VKB-Sim Gladiator NXT",
		},
		{
			Input:       "js1_rotz_positive",
			DeviceUUID:  "231d:0200",
			HIDAxisName: "Rz",
			AxisValue:   &rotz,
			DeviceName:  "VKB-Sim Gladiator NXT",
		},
	}
}

// Version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("joybind-agent %s (commit: %s)\n", version.Version, version.Commit)
	},
}
