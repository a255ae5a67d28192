package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// AgentLog represents a box for displaying raw agent message traffic.
// Used in verbose mode to show the JSON messages exchanged with the agent.
type AgentLog struct {
	Title    string   // e.g., "Agent Messages"
	Content  string   // The raw message log
	Lines    []string // Parsed log lines (for filtering)
	Width    int      // Terminal width
	MaxLines int      // Maximum lines to display (0 = unlimited)
}

// NewAgentLog creates a new agent message box
func NewAgentLog(content string) *AgentLog {
	return &AgentLog{
		Title:    "Agent Messages",
		Content:  content,
		Lines:    strings.Split(content, "\n"),
		Width:    GetTerminalWidth(),
		MaxLines: 0,
	}
}

// SetWidth sets the terminal width for responsive rendering
func (a *AgentLog) SetWidth(width int) *AgentLog {
	a.Width = width
	return a
}

// SetTitle sets a custom title for the box
func (a *AgentLog) SetTitle(title string) *AgentLog {
	a.Title = title
	return a
}

// SetMaxLines limits the number of lines displayed
func (a *AgentLog) SetMaxLines(max int) *AgentLog {
	a.MaxLines = max
	return a
}

// FilterLines filters the log to only show lines matching the given patterns.
// Useful for extracting specific message types (e.g., "detected_input").
func (a *AgentLog) FilterLines(patterns ...string) *AgentLog {
	var filtered []string
	for _, line := range a.Lines {
		for _, pattern := range patterns {
			if strings.Contains(line, pattern) {
				filtered = append(filtered, line)
				break
			}
		}
	}
	a.Lines = filtered
	a.Content = strings.Join(filtered, "\n")
	return a
}

// Render returns the styled agent message box as a string
func (a *AgentLog) Render() string {
	width := a.Width
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	// Apply max lines limit
	lines := a.Lines
	if a.MaxLines > 0 && len(lines) > a.MaxLines {
		lines = lines[:a.MaxLines]
		lines = append(lines, "... (output truncated)")
	}

	// Title styled
	titleStyled := AgentLogTitleStyle.Render(a.Title)

	// Content styled (preserve monospace formatting)
	contentStyled := AgentLogContentStyle.Render(strings.Join(lines, "\n"))

	// Combine title and content
	inner := lipgloss.JoinVertical(lipgloss.Left, titleStyled, "", contentStyled)

	// Box with muted border
	boxWidth := width - 4
	if boxWidth < 40 {
		boxWidth = 40
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(MutedColor).
		Width(boxWidth).
		Padding(0, 1).
		MarginLeft(2).
		Render(inner)
}

// String implements fmt.Stringer
func (a *AgentLog) String() string {
	return a.Render()
}

// RenderAgentLog renders an agent message box with the given content
func RenderAgentLog(content string) string {
	return NewAgentLog(content).Render()
}
