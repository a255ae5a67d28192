package input

import "strings"

// Modifier identifies one of the six keyboard modifier keys tracked by the
// binder. Values match the canonical-string segment spelling.
type Modifier string

const (
	ModLAlt   Modifier = "lalt"
	ModRAlt   Modifier = "ralt"
	ModLCtrl  Modifier = "lctrl"
	ModRCtrl  Modifier = "rctrl"
	ModLShift Modifier = "lshift"
	ModRShift Modifier = "rshift"
)

// modifierOrder is the fixed precedence used when joining modifier segments.
// Canonical strings must not depend on physical press order, so held
// modifiers are always emitted in this sequence.
var modifierOrder = []Modifier{ModLAlt, ModRAlt, ModLCtrl, ModRCtrl, ModLShift, ModRShift}

// ParseModifier converts a backend modifier name (any case, e.g. "LALT")
// to a Modifier. Returns false for unknown names.
func ParseModifier(s string) (Modifier, bool) {
	switch Modifier(strings.ToLower(strings.TrimSpace(s))) {
	case ModLAlt:
		return ModLAlt, true
	case ModRAlt:
		return ModRAlt, true
	case ModLCtrl:
		return ModLCtrl, true
	case ModRCtrl:
		return ModRCtrl, true
	case ModLShift:
		return ModLShift, true
	case ModRShift:
		return ModRShift, true
	}
	return "", false
}

// IsModifierToken reports whether a canonical base token names a modifier key.
func IsModifierToken(token string) bool {
	_, ok := ParseModifier(token)
	return ok
}

// SortModifiers returns the held modifiers deduplicated and ordered by the
// fixed precedence. The input slice is not modified.
func SortModifiers(held []Modifier) []Modifier {
	if len(held) == 0 {
		return nil
	}
	present := make(map[Modifier]bool, len(held))
	for _, m := range held {
		present[m] = true
	}
	out := make([]Modifier, 0, len(present))
	for _, m := range modifierOrder {
		if present[m] {
			out = append(out, m)
		}
	}
	return out
}

// ModifierSegment renders held modifiers as the canonical "lalt+rctrl+"
// prefix segment. Returns the empty string when no modifiers are held.
func ModifierSegment(held []Modifier) string {
	sorted := SortModifiers(held)
	if len(sorted) == 0 {
		return ""
	}
	var b strings.Builder
	for _, m := range sorted {
		b.WriteString(string(m))
		b.WriteByte('+')
	}
	return b.String()
}

// withoutModifier returns held with every occurrence of m removed.
func withoutModifier(held []Modifier, m Modifier) []Modifier {
	if len(held) == 0 {
		return nil
	}
	out := make([]Modifier, 0, len(held))
	for _, h := range held {
		if h != m {
			out = append(out, h)
		}
	}
	return out
}
