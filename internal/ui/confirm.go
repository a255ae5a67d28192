package ui

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ConfirmDestructiveOperation displays a warning box and prompts the user to
// type "yes" to proceed with a destructive operation. Returns true if the user
// confirmed, false otherwise.
func ConfirmDestructiveOperation(title string, warnings []string, note string) bool {
	width := GetTerminalWidth()
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	var lines []string

	// Title with warning marker
	titleLine := lipgloss.NewStyle().
		Foreground(WarningColor).
		Bold(true).
		Render(fmt.Sprintf("   ⚠  WARNING  ─  %s", title))
	lines = append(lines, "")
	lines = append(lines, titleLine)
	lines = append(lines, "")

	// Warning bullet points
	for _, warning := range warnings {
		bulletStyle := lipgloss.NewStyle().Foreground(TextColor)
		lines = append(lines, bulletStyle.Render("   • "+warning))
	}
	lines = append(lines, "")

	// Note in muted text, word-wrapped
	if note != "" {
		noteStyle := lipgloss.NewStyle().
			Foreground(MutedColor).
			Italic(true).
			Width(width - 12).
			PaddingLeft(3)
		lines = append(lines, noteStyle.Render(note))
		lines = append(lines, "")
	}

	content := strings.Join(lines, "\n")

	// Double border in orange/warning color
	box := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(WarningColor).
		Width(width-2).
		Padding(0, 2).
		Render(content)

	fmt.Println(box)
	fmt.Println()

	// Prompt for confirmation
	promptStyle := lipgloss.NewStyle().
		Foreground(WarningColor).
		Bold(true)
	fmt.Print(promptStyle.Render("To proceed, type \"yes\" and press Enter: "))

	// Read user input
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		fmt.Println()
		return false
	}

	// Check if user typed "yes"
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "yes" {
		fmt.Println()
		return true
	}

	// User did not agree
	fmt.Println()
	cancelStyle := lipgloss.NewStyle().Foreground(MutedColor)
	fmt.Println(cancelStyle.Render("  Operation cancelled."))
	fmt.Println()
	return false
}

// ResetBindingConfirmation is a pre-configured confirmation for resetting an
// action's user bindings back to defaults.
func ResetBindingConfirmation(actionMap, action string) bool {
	return ConfirmDestructiveOperation(
		"RESET BINDING",
		[]string{
			fmt.Sprintf("This removes your custom bindings for %s / %s", actionMap, action),
			"The action reverts to its default bindings",
			"Cleared bindings are removed as well",
		},
		"The profile file is rewritten in place. Other actions are not affected.",
	)
}
