package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/joybind/internal/agent"
	"github.com/muurk/joybind/internal/capture"
	"github.com/muurk/joybind/internal/config"
	"github.com/muurk/joybind/internal/device"
	"github.com/muurk/joybind/internal/input"
	"github.com/muurk/joybind/internal/profile"
)

// Screen represents the current screen in the wizard
type Screen int

const (
	ScreenDiscovery Screen = iota
	ScreenConnecting
	ScreenActions
	ScreenCapture
	ScreenFailure
)

// AppConfig carries the wizard's collaborators, built by the CLI layer.
type AppConfig struct {
	// Store is the bindings profile being edited.
	Store profile.Store

	// Registry supplies device slot overrides. May be nil.
	Registry *config.Registry

	// AgentURL, when set, connects straight to that agent and skips the
	// discovery screen.
	AgentURL string

	// Countdown overrides the capture countdown. Zero means the default.
	Countdown time.Duration
}

// Messages for app-level async operations
type agentConnectedMsg struct {
	agentURL string
	engine   *capture.Engine
	keyboard *capture.PushSource
	devices  int
	err      error
}

// AppModel is the top-level model that coordinates between screens
type AppModel struct {
	config AppConfig
	screen Screen

	// Screen models
	discovery DiscoveryModel
	actions   ActionsModel
	capture   CaptureModel

	// Session infrastructure, built once an agent is chosen
	agentURL    string
	engine      *capture.Engine
	keyboard    *capture.PushSource
	deviceCount int

	// UI state
	spinner spinner.Model
	err     error
	width   int
	height  int
}

// NewAppModel creates the top-level wizard model
func NewAppModel(cfg AppConfig) AppModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	screen := ScreenDiscovery
	if cfg.AgentURL != "" {
		screen = ScreenConnecting
	}

	return AppModel{
		config:    cfg,
		screen:    screen,
		discovery: NewDiscoveryModel(),
		spinner:   s,
	}
}

// Init initializes the app model
func (m AppModel) Init() tea.Cmd {
	if m.screen == ScreenConnecting {
		return tea.Batch(
			connectAgent(m.config, m.config.AgentURL),
			m.spinner.Tick,
		)
	}
	return m.discovery.Init()
}

// connectAgent enumerates the agent's devices and builds the capture engine
// around them. The engine listens on both the agent's event stream and the
// local terminal's keyboard and mouse.
func connectAgent(cfg AppConfig, baseURL string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		client := agent.NewClient(baseURL)
		devices, err := client.Devices(ctx)
		if err != nil {
			return agentConnectedMsg{agentURL: baseURL, err: err}
		}

		var overrides map[string]string
		if cfg.Registry != nil {
			overrides = cfg.Registry.PrefixOverrides()
		}
		resolver := device.NewResolver(devices, overrides)
		norm := input.NewNormalizer(resolver)

		keyboard := &capture.PushSource{}
		engine := capture.NewEngine(cfg.Store, norm,
			[]capture.Source{client, keyboard},
			capture.Config{Countdown: cfg.Countdown})

		return agentConnectedMsg{
			agentURL: baseURL,
			engine:   engine,
			keyboard: keyboard,
			devices:  len(devices),
		}
	}
}

// Update handles messages and routes them to the current screen
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Fall through so the active screen resizes too

	case tea.KeyMsg:
		// The capture screen owns the keyboard while a session is live
		if m.screen != ScreenCapture {
			switch msg.String() {
			case "ctrl+c":
				return m, tea.Quit
			case "q":
				if m.quitKeyAvailable() {
					return m, tea.Quit
				}
			case "esc":
				if m.screen == ScreenDiscovery && !m.discovery.ManualMode {
					return m, tea.Quit
				}
				if m.screen == ScreenFailure {
					return m.handleFailureKey("esc")
				}
			case "r", "enter":
				if m.screen == ScreenFailure {
					return m.handleFailureKey(msg.String())
				}
			}
		}

	case agentConnectedMsg:
		if msg.err != nil {
			m.err = fmt.Errorf("failed to connect to agent at %s: %w", msg.agentURL, msg.err)
			m.screen = ScreenFailure
			return m, nil
		}
		m.agentURL = msg.agentURL
		m.engine = msg.engine
		m.keyboard = msg.keyboard
		m.deviceCount = msg.devices
		m.actions = NewActionsModel(m.config.Store.Load())
		m.screen = ScreenActions
		return m.propagateSize(nil)
	}

	switch m.screen {
	case ScreenDiscovery:
		return m.updateDiscovery(msg)
	case ScreenConnecting:
		if tick, ok := msg.(spinner.TickMsg); ok {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(tick)
			return m, cmd
		}
		return m, nil
	case ScreenActions:
		return m.updateActions(msg)
	case ScreenCapture:
		return m.updateCapture(msg)
	}

	return m, nil
}

// quitKeyAvailable reports whether "q" quits on the current screen. It never
// does while a text input or list filter could be consuming it.
func (m AppModel) quitKeyAvailable() bool {
	switch m.screen {
	case ScreenDiscovery:
		return !m.discovery.ManualMode
	case ScreenFailure:
		return true
	}
	return false
}

// handleFailureKey handles keys on the failure screen
func (m AppModel) handleFailureKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "r", "enter":
		if m.config.AgentURL != "" {
			// Fixed agent address, retry the connection
			m.err = nil
			m.screen = ScreenConnecting
			return m, tea.Batch(connectAgent(m.config, m.config.AgentURL), m.spinner.Tick)
		}
		// Back to discovery for another pick
		m.err = nil
		m.discovery = NewDiscoveryModel()
		m.discovery.Width = m.width
		m.discovery.Height = m.height
		m.screen = ScreenDiscovery
		return m, m.discovery.Init()
	case "esc":
		return m, tea.Quit
	}
	return m, nil
}

// updateDiscovery delegates to the discovery screen and watches for selection
func (m AppModel) updateDiscovery(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := m.discovery.Update(msg)
	m.discovery = model.(DiscoveryModel)

	if chosen := m.discovery.GetSelectedAgent(); chosen != nil {
		m.screen = ScreenConnecting
		return m, tea.Batch(connectAgent(m.config, chosen.BaseURL()), m.spinner.Tick)
	}

	return m, cmd
}

// updateActions delegates to the action picker and watches for selection
func (m AppModel) updateActions(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := m.actions.Update(msg)
	m.actions = model.(ActionsModel)

	if m.actions.Back {
		if m.config.AgentURL != "" {
			return m, tea.Quit
		}
		// Back to agent discovery; the engine is rebuilt on reconnect
		m.discovery = NewDiscoveryModel()
		m.discovery.Width = m.width
		m.discovery.Height = m.height
		m.screen = ScreenDiscovery
		return m, m.discovery.Init()
	}

	if mapName, mapLabel, action := m.actions.GetSelectedAction(); action != nil {
		m.capture = NewCaptureModel(m.engine, m.keyboard, m.config.Countdown,
			mapName, mapLabel, action.Name, action.Label())
		m.capture.Width = m.width
		m.capture.Height = m.height
		m.screen = ScreenCapture
		return m, m.capture.Init()
	}

	return m, cmd
}

// updateCapture delegates to the capture screen and watches for completion
func (m AppModel) updateCapture(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Once saved, any key returns to the action picker
	if m.capture.Saved {
		if _, ok := msg.(tea.KeyMsg); ok {
			return m.backToActions()
		}
	}

	model, cmd := m.capture.Update(msg)
	m.capture = model.(CaptureModel)

	if m.capture.Back {
		return m.backToActions()
	}

	return m, cmd
}

// backToActions rebuilds the action picker from a fresh profile snapshot so
// the binding summaries reflect what was just saved.
func (m AppModel) backToActions() (tea.Model, tea.Cmd) {
	m.actions = NewActionsModel(m.config.Store.Load())
	m.screen = ScreenActions
	return m.propagateSize(nil)
}

// propagateSize re-sends the last known terminal size to the active screen
func (m AppModel) propagateSize(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	if m.width == 0 {
		return m, cmd
	}
	size := tea.WindowSizeMsg{Width: m.width, Height: m.height}
	switch m.screen {
	case ScreenActions:
		model, sizeCmd := m.actions.Update(size)
		m.actions = model.(ActionsModel)
		return m, tea.Batch(cmd, sizeCmd)
	case ScreenCapture:
		model, sizeCmd := m.capture.Update(size)
		m.capture = model.(CaptureModel)
		return m, tea.Batch(cmd, sizeCmd)
	}
	return m, cmd
}

// View renders the current screen
func (m AppModel) View() string {
	switch m.screen {
	case ScreenDiscovery:
		return m.discovery.View()
	case ScreenConnecting:
		return m.renderConnecting()
	case ScreenActions:
		return m.actions.View()
	case ScreenCapture:
		return m.capture.View()
	case ScreenFailure:
		return m.renderFailure()
	}
	return ""
}

// renderConnecting renders the interstitial while devices are enumerated
func (m AppModel) renderConnecting() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(TitleStyle.Render(fmt.Sprintf("%s CONNECTING", m.spinner.View())))
	b.WriteString("\n\n")
	b.WriteString(SubtitleStyle.Render("  Enumerating input devices on the agent..."))
	b.WriteString("\n")

	return RenderApplicationContainer(b.String(), "please wait", m.width, m.height)
}

// renderFailure renders a connection failure with recovery options
func (m AppModel) renderFailure() string {
	var b strings.Builder
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(RenderError(m.err.Error()))
	} else {
		b.WriteString(RenderError("something went wrong"))
	}
	b.WriteString("\n\n")
	b.WriteString("  Troubleshooting:\n")
	b.WriteString("    • Ensure the agent is running on the gaming machine\n")
	b.WriteString("    • Check the address and port are reachable from here\n")
	b.WriteString("\n")
	b.WriteString("  Press r to retry, esc to quit.\n")

	return RenderApplicationContainer(b.String(), "r retry • esc quit", m.width, m.height)
}

// Run starts the capture wizard and blocks until it exits. Mouse reporting
// is enabled so mouse buttons can be captured as bindings.
func Run(cfg AppConfig) error {
	p := tea.NewProgram(NewAppModel(cfg),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("wizard failed: %w", err)
	}
	return nil
}
