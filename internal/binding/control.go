package binding

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ControlRef identifies the physical control a lookup is about. Exactly one
// of the two forms is set: a numeric button id, or an input descriptor
// string such as "rotz", "axis2", "hat1_up" or a key name.
type ControlRef struct {
	byNumber bool
	number   int
	str      string
}

// ByNumber builds a ControlRef for a numbered button.
func ByNumber(n int) ControlRef {
	return ControlRef{byNumber: true, number: n}
}

// ByString builds a ControlRef for a named input descriptor. The descriptor
// is lower-cased so lookups are case-insensitive.
func ByString(s string) ControlRef {
	return ControlRef{str: strings.ToLower(strings.TrimSpace(s))}
}

// IsZero reports whether the ref identifies nothing.
func (c ControlRef) IsZero() bool {
	return !c.byNumber && c.str == ""
}

func (c ControlRef) String() string {
	if c.byNumber {
		return fmt.Sprintf("button%d", c.number)
	}
	return c.str
}

// buttonNamePattern extracts a trailing number from a display name that
// literally mentions a button, e.g. "Button 12" or "Fire Button 2".
var buttonNamePattern = regexp.MustCompile(`button\s*([0-9]+)`)

// Control is the UI-side description of a physical control, as the template
// renderer knows it. Fields are optional; ExtractRef applies them in a fixed
// priority order.
type Control struct {
	// ButtonID is the explicit numeric id, when the control is a numbered
	// button. Zero means unset (ids are 1-based).
	ButtonID int

	// Descriptor is the explicit input descriptor, e.g. "rotz" or "axis2",
	// when the layout carries one.
	Descriptor string

	// DisplayName is the human-facing label, used only as a last resort.
	DisplayName string
}

// ExtractRef derives the control identifier from a Control. Priority order:
// explicit numeric id, then explicit descriptor, then a parse of the display
// name. The display name is consulted only when it literally contains
// "button", so a control labeled "Axis 2" never resolves as button 2.
func ExtractRef(c Control) ControlRef {
	if c.ButtonID > 0 {
		return ByNumber(c.ButtonID)
	}
	if d := strings.TrimSpace(c.Descriptor); d != "" {
		return ByString(d)
	}
	name := strings.ToLower(c.DisplayName)
	if strings.Contains(name, "button") {
		if m := buttonNamePattern.FindStringSubmatch(name); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				return ByNumber(n)
			}
		}
	}
	return ControlRef{}
}
