package input

import "strings"

// keyCodeTable maps platform key codes (KeyboardEvent.code style) to
// canonical key tokens. Tokens follow the profile format the game expects:
// lower case, numpad keys as np_*, modifiers by side.
var keyCodeTable = map[string]string{
	// Modifiers
	"AltLeft":      "lalt",
	"AltRight":     "ralt",
	"ControlLeft":  "lctrl",
	"ControlRight": "rctrl",
	"ShiftLeft":    "lshift",
	"ShiftRight":   "rshift",

	// Whitespace and editing
	"Space":     "space",
	"Enter":     "enter",
	"Tab":       "tab",
	"Backspace": "backspace",
	"Escape":    "escape",
	"Delete":    "delete",
	"Insert":    "insert",
	"Home":      "home",
	"End":       "end",
	"PageUp":    "pgup",
	"PageDown":  "pgdown",
	"CapsLock":  "capslock",

	// Arrows
	"ArrowUp":    "up",
	"ArrowDown":  "down",
	"ArrowLeft":  "left",
	"ArrowRight": "right",

	// Punctuation
	"Minus":        "minus",
	"Equal":        "equals",
	"BracketLeft":  "lbracket",
	"BracketRight": "rbracket",
	"Backslash":    "backslash",
	"Semicolon":    "semicolon",
	"Quote":        "apostrophe",
	"Backquote":    "grave",
	"Comma":        "comma",
	"Period":       "period",
	"Slash":        "slash",

	// Numpad
	"Numpad0":        "np_0",
	"Numpad1":        "np_1",
	"Numpad2":        "np_2",
	"Numpad3":        "np_3",
	"Numpad4":        "np_4",
	"Numpad5":        "np_5",
	"Numpad6":        "np_6",
	"Numpad7":        "np_7",
	"Numpad8":        "np_8",
	"Numpad9":        "np_9",
	"NumpadAdd":      "np_add",
	"NumpadSubtract": "np_subtract",
	"NumpadMultiply": "np_multiply",
	"NumpadDivide":   "np_divide",
	"NumpadDecimal":  "np_period",
	"NumpadEnter":    "np_enter",
	"NumLock":        "numlock",
}

// KeyToken resolves a platform key code (and printable fallback) to the
// canonical key token. Returns false when the event carries nothing usable.
func KeyToken(code, name string) (string, bool) {
	if tok, ok := keyCodeTable[code]; ok {
		return tok, true
	}

	// Letter and digit codes: "KeyA".."KeyZ", "Digit0".."Digit9"
	if strings.HasPrefix(code, "Key") && len(code) == 4 {
		return strings.ToLower(code[3:]), true
	}
	if strings.HasPrefix(code, "Digit") && len(code) == 6 {
		return code[5:], true
	}

	// Function keys F1..F24 pass through lower-cased
	if len(code) >= 2 && len(code) <= 3 && code[0] == 'F' && isDigits(code[1:]) {
		return strings.ToLower(code), true
	}

	// Fallback: a single printable character from the key value
	name = strings.TrimSpace(name)
	if len(name) == 1 && name[0] > ' ' && name[0] <= '~' {
		return strings.ToLower(name), true
	}

	return "", false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
