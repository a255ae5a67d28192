package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/joybind/internal/profile"
)

// actionsKeyMap defines key bindings for the action picker screen
type actionsKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Filter key.Binding
	Back   key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k actionsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Enter, k.Filter, k.Back, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k actionsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter},
		{k.Filter, k.Back, k.Quit},
	}
}

// actionItem is one bindable action for the bubbles/list
type actionItem struct {
	mapName   string
	mapLabel  string
	action    profile.Action
}

// Implement list.Item interface
func (a actionItem) FilterValue() string {
	return a.mapLabel + " " + a.action.Name + " " + a.action.Label()
}

// Title returns the action label with its map for list display
func (a actionItem) Title() string {
	return fmt.Sprintf("%s · %s", a.mapLabel, a.action.Label())
}

// Description returns the action's current bindings for list display
func (a actionItem) Description() string {
	return FormatBindingSummary(a.action.Bindings)
}

// ActionsModel represents the action picker screen state
type ActionsModel struct {
	ActionList list.Model
	Selected   bool
	Back       bool

	Width  int
	Height int
	Help   help.Model
	Keys   actionsKeyMap
}

// NewActionsModel creates an action picker over the given profile snapshot.
func NewActionsModel(maps []*profile.ActionMap) ActionsModel {
	var items []list.Item
	for _, m := range maps {
		for _, a := range m.Actions {
			items = append(items, actionItem{
				mapName:  m.Name,
				mapLabel: m.Label(),
				action:   a,
			})
		}
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(HighlightColor).
		BorderForeground(HighlightColor)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(SubtleColor).
		BorderForeground(HighlightColor)

	actionList := list.New(items, delegate, 0, 0)
	actionList.Title = "Choose an action to bind"
	actionList.SetShowStatusBar(false)
	actionList.SetFilteringEnabled(true)
	actionList.Styles.Title = TitleStyle

	keys := actionsKeyMap{
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
			key.WithHelp("enter", "capture"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
	}

	return ActionsModel{
		ActionList: actionList,
		Help:       help.New(),
		Keys:       keys,
	}
}

// Init initializes the action picker
func (m ActionsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model
func (m ActionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.ActionList.SetWidth(msg.Width - 4)
		m.ActionList.SetHeight(msg.Height - 10)

	case tea.KeyMsg:
		// The list owns keys while filtering
		if m.ActionList.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "enter":
			if m.ActionList.SelectedItem() != nil {
				m.Selected = true
				return m, nil
			}
		case "esc":
			m.Back = true
			return m, nil
		}
	}

	m.ActionList, cmd = m.ActionList.Update(msg)
	return m, cmd
}

// View renders the action picker screen
func (m ActionsModel) View() string {
	content := "\n" + m.ActionList.View()
	helpText := m.Help.View(m.Keys)
	return RenderApplicationContainer(content, helpText, m.Width, m.Height)
}

// GetSelectedAction returns the chosen map and action names (if any)
func (m ActionsModel) GetSelectedAction() (mapName, mapLabel string, action *profile.Action) {
	if !m.Selected {
		return "", "", nil
	}
	if item, ok := m.ActionList.SelectedItem().(actionItem); ok {
		a := item.action
		return item.mapName, item.mapLabel, &a
	}
	return "", "", nil
}
