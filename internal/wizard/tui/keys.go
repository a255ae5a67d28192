package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/joybind/internal/input"
)

// teaKeyCodes maps Bubble Tea key names to the event codes the normalizer
// understands. Terminal input loses some fidelity compared to a raw device
// stream, so left-side modifiers stand in for both sides.
var teaKeyCodes = map[string]string{
	"enter":     "Enter",
	" ":         "Space",
	"space":     "Space",
	"tab":       "Tab",
	"backspace": "Backspace",
	"delete":    "Delete",
	"insert":    "Insert",
	"home":      "Home",
	"end":       "End",
	"pgup":      "PageUp",
	"pgdown":    "PageDown",
	"up":        "ArrowUp",
	"down":      "ArrowDown",
	"left":      "ArrowLeft",
	"right":     "ArrowRight",
	"f1":        "F1",
	"f2":        "F2",
	"f3":        "F3",
	"f4":        "F4",
	"f5":        "F5",
	"f6":        "F6",
	"f7":        "F7",
	"f8":        "F8",
	"f9":        "F9",
	"f10":       "F10",
	"f11":       "F11",
	"f12":       "F12",
}

// keyEventFromTea converts a terminal key press into a key event suitable
// for the capture normalizer. Returns false for keys that have no sensible
// mapping (bare modifier chords the terminal cannot report, unknown
// sequences).
func keyEventFromTea(msg tea.KeyMsg) (input.KeyEvent, bool) {
	var held []input.Modifier
	s := msg.String()

	for more := true; more; {
		switch {
		case strings.HasPrefix(s, "alt+"):
			held = append(held, input.ModLAlt)
			s = strings.TrimPrefix(s, "alt+")
		case strings.HasPrefix(s, "ctrl+"):
			held = append(held, input.ModLCtrl)
			s = strings.TrimPrefix(s, "ctrl+")
		case strings.HasPrefix(s, "shift+"):
			held = append(held, input.ModLShift)
			s = strings.TrimPrefix(s, "shift+")
		default:
			more = false
		}
	}

	if code, ok := teaKeyCodes[s]; ok {
		return input.KeyEvent{Code: code, Held: held}, true
	}

	r := []rune(s)
	if len(r) != 1 {
		return input.KeyEvent{}, false
	}

	ch := r[0]
	switch {
	case ch >= 'a' && ch <= 'z':
		return input.KeyEvent{Code: "Key" + strings.ToUpper(string(ch)), Held: held}, true
	case ch >= 'A' && ch <= 'Z':
		// Terminals report shifted letters as uppercase runes
		held = append(held, input.ModLShift)
		return input.KeyEvent{Code: "Key" + string(ch), Held: held}, true
	case ch >= '0' && ch <= '9':
		return input.KeyEvent{Code: "Digit" + string(ch), Held: held}, true
	case ch > ' ' && ch < 127:
		// Printable punctuation has no stable code, fall back to the name
		return input.KeyEvent{Name: string(ch), Held: held}, true
	}

	return input.KeyEvent{}, false
}
