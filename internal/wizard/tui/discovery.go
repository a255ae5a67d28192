package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/joybind/internal/discovery"
)

// Messages for async operations
type scanStartMsg struct{}
type scanCompleteMsg struct {
	agents []*discovery.Agent
	err    error
}

// discoveryKeyMap defines key bindings for the agent discovery screen
type discoveryKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Rescan key.Binding
	Manual key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k discoveryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Enter, k.Rescan, k.Manual, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k discoveryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter},
		{k.Rescan, k.Manual, k.Quit},
	}
}

// manualModeKeyMap defines key bindings for manual address entry mode
type manualModeKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (m manualModeKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{m.Confirm, m.Cancel}
}

// FullHelp returns keybindings for the expanded help view
func (m manualModeKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.Confirm, m.Cancel},
	}
}

// scanningKeyMap defines key bindings for scanning mode
type scanningKeyMap struct {
	Manual key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (s scanningKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{s.Manual, s.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (s scanningKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{s.Manual, s.Quit},
	}
}

// emptyScreenKeyMap defines key bindings for empty results screen
type emptyScreenKeyMap struct {
	Rescan key.Binding
	Manual key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (e emptyScreenKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{e.Rescan, e.Manual, e.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (e emptyScreenKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{e.Rescan, e.Manual, e.Quit},
	}
}

// agentItem wraps an Agent for use with bubbles/list
type agentItem struct {
	agent *discovery.Agent
}

// Implement list.Item interface
func (a agentItem) FilterValue() string {
	// Filter by instance, IP, or hostname
	return a.agent.Instance + " " + a.agent.IP + " " + a.agent.Hostname
}

// Title returns the agent name for list display
func (a agentItem) Title() string {
	if a.agent.Instance == "manual" {
		return fmt.Sprintf("Manual: %s", a.agent.IP)
	}
	return a.agent.Instance
}

// Description returns agent details for list display
func (a agentItem) Description() string {
	devices := "?"
	if d := a.agent.GetMetadata("devices"); d != "" {
		devices = d
	}
	return fmt.Sprintf("%s:%d • Devices: %s • Ready", a.agent.IP, a.agent.Port, devices)
}

// agentDelegate is a custom list delegate for rendering agent cards
type agentDelegate struct {
	width int
}

func (d agentDelegate) Height() int { return 8 } // Card height including borders

func (d agentDelegate) Spacing() int { return 1 } // Spacing between cards

func (d agentDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d agentDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	agentItem, ok := item.(agentItem)
	if !ok {
		return
	}

	agent := agentItem.agent
	selected := index == m.Index()

	// Build agent name
	var agentName string
	if agent.Instance == "manual" {
		agentName = fmt.Sprintf("Manual: %s", agent.IP)
	} else {
		agentName = agent.Instance
	}

	// Get agent metadata
	agentVersion := "Unknown"
	if v := agent.GetMetadata("version"); v != "" {
		agentVersion = v
	}
	devices := "Unknown"
	if d := agent.GetMetadata("devices"); d != "" {
		devices = d
	}

	// Build content lines
	var content strings.Builder

	// Add selection indicator to agent name
	if selected {
		content.WriteString(SelectedMenuItemStyle.Render("→ " + agentName))
	} else {
		content.WriteString("  " + agentName)
	}
	content.WriteString("\n\n")

	// Agent details
	content.WriteString(fmt.Sprintf("  Address:  %s:%d\n", agent.IP, agent.Port))
	content.WriteString(fmt.Sprintf("  Version:  %s\n", agentVersion))
	content.WriteString(fmt.Sprintf("  Devices:  %s\n", devices))

	// Status with inline color styling (no border)
	statusStyle := lipgloss.NewStyle().Foreground(SecondaryColor).Bold(true)
	content.WriteString(fmt.Sprintf("  Status:   %s", statusStyle.Render("Ready")))

	// Create responsive card style
	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderColor).
		Padding(1, 2).
		MarginLeft(2)

	// Calculate card width (leave room for margins and borders)
	cardWidth := d.width - 6 // 2 for margin-left, 4 for border + padding
	if cardWidth < MinTerminalWidth-6 {
		cardWidth = MinTerminalWidth - 6
	}
	if cardWidth > MaxContentWidth-6 {
		cardWidth = MaxContentWidth - 6
	}

	cardStyle = cardStyle.Width(cardWidth)

	// Highlight selected card
	if selected {
		cardStyle = cardStyle.BorderForeground(HighlightColor)
	}

	fmt.Fprint(w, cardStyle.Render(content.String()))
}

// DiscoveryModel represents the agent discovery screen state
type DiscoveryModel struct {
	// Discovery state
	Scanning  bool
	AgentList list.Model
	Selected  bool
	Err       error

	// Manual address entry state
	ManualMode bool
	AddrInput  textinput.Model

	// UI state
	Width         int
	Height        int
	Spinner       spinner.Model
	ProgressBar   progress.Model
	ScanStartTime time.Time
	Help          help.Model
	Keys          discoveryKeyMap
	ManualKeys    manualModeKeyMap
	ScanningKeys  scanningKeyMap
	EmptyKeys     emptyScreenKeyMap
}

// NewDiscoveryModel creates a new agent discovery screen model
func NewDiscoveryModel() DiscoveryModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	// Initialize address input
	addrInput := textinput.New()
	addrInput.Placeholder = "192.168.1.20:7411"
	addrInput.CharLimit = 64
	addrInput.Width = 30

	// Initialize progress bar
	progressBar := progress.New(progress.WithDefaultGradient())
	progressBar.Width = 40

	// Initialize agent list with custom delegate
	delegate := agentDelegate{width: MinTerminalWidth}
	agentList := list.New([]list.Item{}, delegate, 0, 0)
	agentList.Title = "Discovered Agents"
	agentList.SetShowStatusBar(false)
	agentList.SetFilteringEnabled(true)
	agentList.Styles.Title = TitleStyle

	// Initialize help
	h := help.New()

	// Initialize key bindings for normal mode
	keys := discoveryKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "connect"),
		),
		Rescan: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rescan"),
		),
		Manual: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "manual address"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc"),
			key.WithHelp("q", "quit"),
		),
	}

	// Initialize key bindings for manual entry mode
	manualKeys := manualModeKeyMap{
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}

	// Initialize key bindings for scanning mode
	scanningKeys := scanningKeyMap{
		Manual: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "manual address"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
	}

	// Initialize key bindings for empty results
	emptyKeys := emptyScreenKeyMap{
		Rescan: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rescan"),
		),
		Manual: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "manual address"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
	}

	return DiscoveryModel{
		Scanning:     false,
		AgentList:    agentList,
		Selected:     false,
		ManualMode:   false,
		AddrInput:    addrInput,
		Spinner:      s,
		ProgressBar:  progressBar,
		Help:         h,
		Keys:         keys,
		ManualKeys:   manualKeys,
		ScanningKeys: scanningKeys,
		EmptyKeys:    emptyKeys,
	}
}

// Init initializes the discovery model
func (m DiscoveryModel) Init() tea.Cmd {
	// Start scanning immediately - send start message then begin scan
	return tea.Batch(
		func() tea.Msg { return scanStartMsg{} },
		scanAgents,
		m.Spinner.Tick,
	)
}

// Update handles messages and updates the model
func (m DiscoveryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.ManualMode {
			return m.updateManualMode(msg)
		}
		return m.updateNormalMode(msg)

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		// Update list size
		m.AgentList.SetWidth(msg.Width - 4)
		m.AgentList.SetHeight(msg.Height - 10) // Leave room for header/footer

	case scanStartMsg:
		m.Scanning = true
		m.ScanStartTime = time.Now()

	case scanCompleteMsg:
		m.Scanning = false
		m.Err = msg.err
		// Convert agents to list items
		items := make([]list.Item, len(msg.agents))
		for i, agent := range msg.agents {
			items[i] = agentItem{agent: agent}
		}
		m.AgentList.SetItems(items)

	case spinner.TickMsg:
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	// Update list if not in manual mode or scanning
	if !m.ManualMode && !m.Scanning {
		m.AgentList, cmd = m.AgentList.Update(msg)
	}

	return m, cmd
}

// updateNormalMode handles keyboard input in normal agent list mode
func (m DiscoveryModel) updateNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", " ":
		// Get selected agent from list
		if selectedItem := m.AgentList.SelectedItem(); selectedItem != nil {
			m.Selected = true
			return m, nil
		}

	case "r":
		// Rescan
		m.AgentList.SetItems([]list.Item{})
		m.Err = nil
		return m, tea.Batch(
			func() tea.Msg { return scanStartMsg{} },
			scanAgents,
			m.Spinner.Tick,
		)

	case "m":
		// Switch to manual address entry mode
		m.ManualMode = true
		m.AddrInput.SetValue("")
		m.AddrInput.Focus()
	}

	// Let the list handle up/down navigation
	return m, nil
}

// updateManualMode handles keyboard input in manual address entry mode
func (m DiscoveryModel) updateManualMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.String() {
	case "ctrl+c", "esc":
		// Cancel manual entry
		m.ManualMode = false
		m.AddrInput.SetValue("")
		m.AddrInput.Blur()
		return m, nil

	case "enter":
		value := strings.TrimSpace(m.AddrInput.Value())
		if value != "" {
			agent := agentFromAddress(value)
			// Add to list
			newItem := agentItem{agent: agent}
			items := append([]list.Item{newItem}, m.AgentList.Items()...)
			m.AgentList.SetItems(items)
			m.AgentList.Select(0) // Select the newly added item
			m.ManualMode = false
			m.AddrInput.SetValue("")
			m.AddrInput.Blur()
			return m, nil
		}
	}

	// Update the text input
	m.AddrInput, cmd = m.AddrInput.Update(msg)
	return m, cmd
}

// agentFromAddress builds a manual agent entry from "host" or "host:port".
func agentFromAddress(addr string) *discovery.Agent {
	host := addr
	port := discovery.DefaultPort
	if i := strings.LastIndex(addr, ":"); i > 0 {
		var p int
		if _, err := fmt.Sscanf(addr[i+1:], "%d", &p); err == nil && p > 0 {
			host = addr[:i]
			port = p
		}
	}
	return &discovery.Agent{
		Instance:     "manual",
		Hostname:     host,
		IP:           host,
		Port:         port,
		DiscoveredAt: time.Now(),
	}
}

// View renders the discovery screen
func (m DiscoveryModel) View() string {
	// Use default width if not set
	width := m.Width
	if width == 0 {
		width = MinTerminalWidth
	}

	// Build main content area
	var content string
	if m.ManualMode {
		content = m.renderManualEntry()
	} else if m.Scanning {
		content = m.renderScanning(width)
	} else {
		content = m.renderAgentResults()
	}

	// Determine context-sensitive help text using bubbles/help
	var helpText string
	if m.ManualMode {
		helpText = m.Help.View(m.ManualKeys)
	} else if m.Scanning {
		helpText = m.Help.View(m.ScanningKeys)
	} else if len(m.AgentList.Items()) > 0 {
		helpText = m.Help.View(m.Keys)
	} else {
		helpText = m.Help.View(m.EmptyKeys)
	}

	// Wrap with application container (full-screen layout with height)
	return RenderApplicationContainer(content, helpText, m.Width, m.Height)
}

// renderScanning renders a prominent, centered scanning progress display
func (m DiscoveryModel) renderScanning(width int) string {
	elapsed := time.Since(m.ScanStartTime)
	elapsedSec := int(elapsed.Seconds())

	// Calculate progress (simulate - 10 second scan)
	progressPercent := elapsedSec * 100 / 10
	if progressPercent > 100 {
		progressPercent = 100
	}
	progressFloat := float64(progressPercent) / 100.0

	// Build content components
	title := fmt.Sprintf("%s SEARCHING FOR AGENTS", m.Spinner.View())
	subtitle := "Scanning your network for joybind agents..."

	// Use bubbles/progress component (ViewAs already includes percentage display)
	progressBar := m.ProgressBar.ViewAs(progressFloat)
	elapsedText := fmt.Sprintf("Elapsed: %ds", elapsedSec)

	// Use lipgloss.JoinVertical for layout composition
	content := lipgloss.JoinVertical(lipgloss.Center,
		"", // Top spacing
		TitleStyle.Render(title),
		"",
		SubtitleStyle.Render(subtitle),
		"",
		progressBar,
		"",
		SubtitleStyle.Render(elapsedText),
		"", // Bottom spacing
	)

	// Use lipgloss.Place for centering (not manual padding!)
	// Height = 0 means "no vertical constraint" - let content determine height
	return lipgloss.Place(width, 0, lipgloss.Center, lipgloss.Top, content)
}

// renderAgentResults renders the agent list or "no agents found" message
func (m DiscoveryModel) renderAgentResults() string {
	var b strings.Builder

	b.WriteString("\n")

	if m.Err != nil {
		// Error state
		b.WriteString(RenderError(fmt.Sprintf("Scan failed: %v", m.Err)))
		b.WriteString("\n\n")

		// Troubleshooting hints
		b.WriteString("  Troubleshooting:\n")
		b.WriteString("    • Ensure the agent is running on the gaming machine\n")
		b.WriteString("    • Check that both machines are on the same network\n")
		b.WriteString("    • Verify the firewall allows mDNS (UDP port 5353)\n")
		b.WriteString("    • Use 'm' to enter the agent address manually\n")

	} else if len(m.AgentList.Items()) == 0 {
		// No agents found
		b.WriteString("  ")
		warningStyle := lipgloss.NewStyle().Foreground(WarningColor).Bold(true)
		b.WriteString(warningStyle.Render("⚠ No agents found on your network"))
		b.WriteString("\n\n")

		b.WriteString("  Troubleshooting:\n")
		b.WriteString("    • Ensure the agent is running on the gaming machine\n")
		b.WriteString("    • Check that both machines are on the same network\n")
		b.WriteString("    • Verify the firewall allows mDNS (UDP port 5353)\n")
		b.WriteString("    • Use 'm' to enter the agent address manually\n")
		b.WriteString("\n")

	} else {
		// Agents found - render the list
		b.WriteString(m.AgentList.View())
	}

	return b.String()
}

// renderManualEntry renders the manual address entry dialog
func (m DiscoveryModel) renderManualEntry() string {
	var b strings.Builder

	b.WriteString(RenderSubtitle("Enter agent address (host or host:port)"))
	b.WriteString("\n\n")

	// Input box using textinput component
	b.WriteString("  Address: ")
	b.WriteString(m.AddrInput.View())
	b.WriteString("\n\n")

	return b.String()
}

// GetSelectedAgent returns the selected agent (if any)
func (m DiscoveryModel) GetSelectedAgent() *discovery.Agent {
	if m.Selected {
		if selectedItem := m.AgentList.SelectedItem(); selectedItem != nil {
			if item, ok := selectedItem.(agentItem); ok {
				return item.agent
			}
		}
	}
	return nil
}

// scanAgents is a command that performs agent discovery
func scanAgents() tea.Msg {
	scanner := discovery.NewScanner()
	scanner.Timeout = 10 * time.Second

	agents, err := scanner.ScanForAgents()
	return scanCompleteMsg{
		agents: agents,
		err:    err,
	}
}
