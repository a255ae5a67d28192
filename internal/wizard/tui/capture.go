package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/joybind/internal/binding"
	"github.com/muurk/joybind/internal/capture"
	"github.com/muurk/joybind/internal/input"
	"github.com/muurk/joybind/internal/profile"
)

// Messages for the capture screen
type sessionStartedMsg struct {
	sessionID string
	err       error
}

type captureUpdateMsg capture.Update

type captureTickMsg time.Time

type saveResultMsg struct {
	conflicts []binding.Conflict
	err       error
}

// captureKeyMap defines key bindings while listening for input.
// Every other key is treated as the input being captured.
type captureKeyMap struct {
	Cancel key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k captureKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Cancel}
}

// FullHelp returns keybindings for the expanded help view
func (k captureKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Cancel}}
}

// selectKeyMap defines key bindings for candidate selection
type selectKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Cancel key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k selectKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Enter, k.Cancel}
}

// FullHelp returns keybindings for the expanded help view
func (k selectKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Enter, k.Cancel},
	}
}

// resolvedKeyMap defines key bindings once a candidate is resolved
type resolvedKeyMap struct {
	Save   key.Binding
	Retry  key.Binding
	Cancel key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k resolvedKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Save, k.Retry, k.Cancel}
}

// FullHelp returns keybindings for the expanded help view
func (k resolvedKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Save, k.Retry, k.Cancel}}
}

// CaptureModel represents the interactive capture screen state. It drives a
// capture engine session and mirrors its state for rendering. Local keyboard
// and mouse input is forwarded into the session through a push source, so the
// binder machine's own keyboard can be bound alongside the agent's devices.
type CaptureModel struct {
	Engine   *capture.Engine
	Keyboard *capture.PushSource

	// Target action
	ActionMap      string
	ActionMapLabel string
	Action         string
	ActionLabel    string

	// Session mirror
	SessionID   string
	State       capture.State
	Candidates  []input.Detected
	SelectedIdx int
	Resolved    string
	Conflicts   []binding.Conflict
	NoInput     bool
	Err         error

	// Outcome flags read by the app coordinator
	Saved      bool
	SavedInput string
	Back       bool

	// Countdown display
	Countdown      time.Duration
	CountdownStart time.Time

	// UI state
	Width        int
	Height       int
	ProgressBar  progress.Model
	Spinner      spinner.Model
	Help         help.Model
	CaptureKeys  captureKeyMap
	SelectKeys   selectKeyMap
	ResolvedKeys resolvedKeyMap

	cancelled bool
}

// NewCaptureModel creates a capture screen for the given action. The engine
// must have been built with keyboard among its sources.
func NewCaptureModel(engine *capture.Engine, keyboard *capture.PushSource, countdown time.Duration, mapName, mapLabel, actionName, actionLabel string) CaptureModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 40

	if countdown <= 0 {
		countdown = capture.DefaultCountdown
	}

	captureKeys := captureKeyMap{
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
	selectKeys := selectKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "choose"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
	resolvedKeys := resolvedKeyMap{
		Save: key.NewBinding(
			key.WithKeys("enter", "s"),
			key.WithHelp("enter/s", "save"),
		),
		Retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "retry"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}

	return CaptureModel{
		Engine:         engine,
		Keyboard:       keyboard,
		ActionMap:      mapName,
		ActionMapLabel: mapLabel,
		Action:         actionName,
		ActionLabel:    actionLabel,
		State:          capture.StateIdle,
		Countdown:      countdown,
		ProgressBar:    bar,
		Spinner:        s,
		Help:           help.New(),
		CaptureKeys:    captureKeys,
		SelectKeys:     selectKeys,
		ResolvedKeys:   resolvedKeys,
	}
}

// Init starts the capture session
func (m CaptureModel) Init() tea.Cmd {
	return tea.Batch(
		m.startSession(),
		m.waitForUpdate(),
		m.Spinner.Tick,
		captureTick(),
	)
}

// startSession opens the engine session asynchronously
func (m CaptureModel) startSession() tea.Cmd {
	engine := m.Engine
	actionMap, action := m.ActionMap, m.Action
	return func() tea.Msg {
		id, err := engine.Start(actionMap, action)
		return sessionStartedMsg{sessionID: id, err: err}
	}
}

// waitForUpdate blocks on the engine's update channel
func (m CaptureModel) waitForUpdate() tea.Cmd {
	updates := m.Engine.Updates()
	return func() tea.Msg {
		u, ok := <-updates
		if !ok {
			return nil
		}
		return captureUpdateMsg(u)
	}
}

// captureTick drives the countdown bar
func captureTick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return captureTickMsg(t)
	})
}

// Update handles messages and updates the model
func (m CaptureModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case sessionStartedMsg:
		if msg.err != nil {
			m.Err = msg.err
			m.Back = true
			return m, nil
		}
		m.SessionID = msg.sessionID
		m.CountdownStart = time.Now()
		return m, nil

	case captureUpdateMsg:
		return m.applyUpdate(capture.Update(msg))

	case captureTickMsg:
		if m.State == capture.StateCollecting || m.State == capture.StateConfirming {
			return m, captureTick()
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case saveResultMsg:
		if msg.err != nil {
			// The session stays open on a persistence failure; surface the
			// error and let the user retry the save.
			m.Err = msg.err
			return m, nil
		}
		m.Saved = true
		m.SavedInput = m.Resolved
		m.Conflicts = msg.conflicts
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}

	return m, nil
}

// applyUpdate refreshes the session mirror from an engine notification
func (m CaptureModel) applyUpdate(u capture.Update) (tea.Model, tea.Cmd) {
	if u.SessionID != m.SessionID && m.SessionID != "" {
		// Stale notification from a previous session
		return m, m.waitForUpdate()
	}

	m.State = u.State
	if u.NoInput {
		m.NoInput = true
	}

	if cands, err := m.Engine.Candidates(m.SessionID); err == nil {
		m.Candidates = cands
		if m.SelectedIdx >= len(cands) {
			m.SelectedIdx = len(cands) - 1
		}
		if m.SelectedIdx < 0 {
			m.SelectedIdx = 0
		}
	}

	switch u.State {
	case capture.StateSelecting:
		// The engine pre-selects the newest candidate
		if sel, err := m.Engine.Selected(m.SessionID); err == nil {
			for i, c := range m.Candidates {
				if c.Canonical == sel {
					m.SelectedIdx = i
				}
			}
		}

	case capture.StateResolved:
		if sel, err := m.Engine.Selected(m.SessionID); err == nil {
			m.Resolved = sel
		}
		if conflicts, err := m.Engine.Conflicts(m.SessionID); err == nil {
			m.Conflicts = conflicts
		}

	case capture.StateClosed:
		// Timeout or external close. If we did not save or cancel ourselves,
		// return to the action picker.
		if !m.Saved && !m.cancelled {
			m.Back = true
		}
		return m, nil
	}

	return m, m.waitForUpdate()
}

// handleKey routes keyboard input by session state
func (m CaptureModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := msg.String()

	// Reserved keys in every state
	switch s {
	case "ctrl+c":
		m.cancel()
		return m, tea.Quit
	case "esc":
		m.cancel()
		m.Back = true
		return m, nil
	}

	switch m.State {
	case capture.StateCollecting, capture.StateConfirming:
		// Everything else is input to capture
		if ev, ok := keyEventFromTea(msg); ok {
			m.Keyboard.Key(ev)
		}
		return m, nil

	case capture.StateSelecting:
		switch s {
		case "up", "k":
			if m.SelectedIdx > 0 {
				m.SelectedIdx--
			}
			return m, nil
		case "down", "j":
			if m.SelectedIdx < len(m.Candidates)-1 {
				m.SelectedIdx++
			}
			return m, nil
		case "enter":
			if m.SelectedIdx < len(m.Candidates) {
				if err := m.Engine.Select(m.SessionID, m.Candidates[m.SelectedIdx].Canonical); err != nil {
					m.Err = err
				}
			}
			return m, nil
		}
		// Other keys keep feeding the session; listeners stay armed in
		// selection and later inputs join the candidate list.
		if ev, ok := keyEventFromTea(msg); ok {
			m.Keyboard.Key(ev)
		}
		return m, nil

	case capture.StateResolved:
		if m.Saved {
			return m, nil
		}
		switch s {
		case "enter", "s":
			return m, m.save()
		case "r":
			// Start over with a fresh session
			m.cancel()
			return m.restart()
		}
	}

	return m, nil
}

// handleMouse forwards mouse button presses into the session
func (m CaptureModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress {
		return m, nil
	}
	if m.State != capture.StateCollecting && m.State != capture.StateConfirming && m.State != capture.StateSelecting {
		return m, nil
	}

	var button int
	switch msg.Button {
	case tea.MouseButtonLeft:
		button = 0
	case tea.MouseButtonMiddle:
		button = 1
	case tea.MouseButtonRight:
		button = 2
	default:
		return m, nil
	}

	var held []input.Modifier
	if msg.Alt {
		held = append(held, input.ModLAlt)
	}
	if msg.Ctrl {
		held = append(held, input.ModLCtrl)
	}
	if msg.Shift {
		held = append(held, input.ModLShift)
	}
	m.Keyboard.Mouse(input.MouseEvent{Button: button, Held: held})
	return m, nil
}

// save commits the resolved candidate
func (m CaptureModel) save() tea.Cmd {
	engine := m.Engine
	sessionID := m.SessionID
	return func() tea.Msg {
		conflicts, err := engine.Save(sessionID, profile.Update{})
		return saveResultMsg{conflicts: conflicts, err: err}
	}
}

// restart opens a fresh session for the same action
func (m CaptureModel) restart() (tea.Model, tea.Cmd) {
	fresh := NewCaptureModel(m.Engine, m.Keyboard, m.Countdown, m.ActionMap, m.ActionMapLabel, m.Action, m.ActionLabel)
	fresh.Width = m.Width
	fresh.Height = m.Height
	return fresh, fresh.Init()
}

func (m *CaptureModel) cancel() {
	if m.SessionID != "" && !m.Saved {
		m.cancelled = true
		_ = m.Engine.Cancel(m.SessionID)
	}
}

// View renders the capture screen
func (m CaptureModel) View() string {
	var content string
	var helpText string

	switch {
	case m.Saved:
		content = m.renderSaved()
		helpText = "any key handled by the wizard"
	case m.NoInput:
		content = m.renderNoInput()
		helpText = m.Help.View(m.CaptureKeys)
	default:
		switch m.State {
		case capture.StateSelecting:
			content = m.renderSelecting()
			helpText = m.Help.View(m.SelectKeys)
		case capture.StateResolved:
			content = m.renderResolved()
			helpText = m.Help.View(m.ResolvedKeys)
		default:
			content = m.renderListening()
			helpText = m.Help.View(m.CaptureKeys)
		}
	}

	return RenderApplicationContainer(content, helpText, m.Width, m.Height)
}

// renderListening renders the countdown while waiting for input
func (m CaptureModel) renderListening() string {
	var b strings.Builder

	b.WriteString(RenderTitle(fmt.Sprintf("Binding %s · %s", m.ActionMapLabel, m.ActionLabel)))
	b.WriteString("\n\n")

	if m.State == capture.StateConfirming {
		b.WriteString(fmt.Sprintf("  %s Captured %s",
			m.Spinner.View(),
			CanonicalStyle.Render(m.latestCanonical())))
		b.WriteString("\n")
		b.WriteString(SubtitleStyle.Render("  Waiting briefly for a paired event from the same press..."))
		b.WriteString("\n\n")
	} else {
		b.WriteString(fmt.Sprintf("  %s Press the key, button, or axis you want to bind", m.Spinner.View()))
		b.WriteString("\n\n")

		remaining := m.Countdown - time.Since(m.CountdownStart)
		if remaining < 0 {
			remaining = 0
		}
		frac := 1.0
		if m.Countdown > 0 {
			frac = float64(remaining) / float64(m.Countdown)
		}
		b.WriteString("  " + m.ProgressBar.ViewAs(frac))
		b.WriteString("\n")
		b.WriteString(SubtitleStyle.Render(fmt.Sprintf("  %.0fs remaining", remaining.Seconds())))
		b.WriteString("\n\n")
	}

	b.WriteString(SubtitleStyle.Render("  Joystick and gamepad input is captured through the agent."))
	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render("  Keyboard and mouse input is captured right here."))
	b.WriteString("\n")

	return b.String()
}

// renderSelecting renders the candidate choice list
func (m CaptureModel) renderSelecting() string {
	var b strings.Builder

	b.WriteString(RenderTitle(fmt.Sprintf("Binding %s · %s", m.ActionMapLabel, m.ActionLabel)))
	b.WriteString("\n\n")
	b.WriteString("  Several inputs were detected. Which one did you mean?\n\n")

	for i, c := range m.Candidates {
		label := c.Canonical
		if c.DisplayName != "" {
			label = fmt.Sprintf("%s  (%s)", c.Canonical, c.DisplayName)
		}
		b.WriteString(RenderMenuItem(label, i == m.SelectedIdx))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render("  Still listening: pressing another input adds it to the list."))
	b.WriteString("\n")

	return b.String()
}

// renderResolved renders the resolved candidate with advisory conflicts
func (m CaptureModel) renderResolved() string {
	var b strings.Builder

	b.WriteString(RenderTitle(fmt.Sprintf("Binding %s · %s", m.ActionMapLabel, m.ActionLabel)))
	b.WriteString("\n\n")

	b.WriteString("  Captured input:\n\n")
	b.WriteString("    " + CanonicalStyle.Render(m.Resolved))
	if name := m.resolvedDisplayName(); name != "" {
		b.WriteString("  " + SubtitleStyle.Render("("+name+")"))
	}
	b.WriteString("\n\n")

	if len(m.Conflicts) > 0 {
		var lines []string
		lines = append(lines, fmt.Sprintf("⚠ Also bound to %d other action(s):", len(m.Conflicts)))
		for _, c := range m.Conflicts {
			lines = append(lines, fmt.Sprintf("  • %s · %s", c.ActionMapLabel, c.ActionLabel))
		}
		lines = append(lines, "")
		lines = append(lines, "Saving anyway is fine; the game allows shared inputs.")
		b.WriteString(WarningBoxStyle.Render(strings.Join(lines, "\n")))
		b.WriteString("\n\n")
	}

	if m.Err != nil {
		b.WriteString(RenderError(m.Err.Error()))
		b.WriteString("\n\n")
	}

	b.WriteString("  Press enter to save, r to capture again, esc to cancel.\n")

	return b.String()
}

// renderNoInput renders the timeout notice
func (m CaptureModel) renderNoInput() string {
	var b strings.Builder

	b.WriteString(RenderTitle(fmt.Sprintf("Binding %s · %s", m.ActionMapLabel, m.ActionLabel)))
	b.WriteString("\n\n")

	warningStyle := lipgloss.NewStyle().Foreground(WarningColor).Bold(true)
	b.WriteString("  " + warningStyle.Render("⚠ No input detected"))
	b.WriteString("\n\n")
	b.WriteString("  Nothing was pressed before the countdown ran out.\n")
	b.WriteString("  Returning to the action list...\n")

	return b.String()
}

// renderSaved renders the post-save confirmation
func (m CaptureModel) renderSaved() string {
	var b strings.Builder

	b.WriteString(RenderTitle("Binding saved"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("  %s · %s is now bound to %s\n",
		m.ActionMapLabel, m.ActionLabel, CanonicalStyle.Render(m.SavedInput)))

	return b.String()
}

func (m CaptureModel) latestCanonical() string {
	if len(m.Candidates) == 0 {
		return ""
	}
	return m.Candidates[len(m.Candidates)-1].Canonical
}

func (m CaptureModel) resolvedDisplayName() string {
	for _, c := range m.Candidates {
		if c.Canonical == m.Resolved {
			return c.DisplayName
		}
	}
	return ""
}
