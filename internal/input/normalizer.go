package input

import (
	"fmt"
	"regexp"
	"strings"
)

// PrefixResolver maps a device UUID and the backend's enumeration-order
// prefix to the logical device prefix used in canonical strings. Implemented
// by the device package; the indirection keeps normalization pure and
// testable without hardware enumeration.
type PrefixResolver interface {
	Resolve(deviceUUID, backendPrefix string) string
}

// devicePrefixPattern matches a logical device prefix: class code plus slot.
var devicePrefixPattern = regexp.MustCompile(`^(kb|mouse|js|gp)([0-9]+)$`)

// hidAxisNames maps HID descriptor axis names to canonical axis tokens.
// Rotational axes become rot*; the hat switch is handled separately because
// it re-encodes as a directional token, not an axis.
var hidAxisNames = map[string]string{
	"X":      "x",
	"Y":      "y",
	"Z":      "z",
	"Rx":     "rotx",
	"Ry":     "roty",
	"Rz":     "rotz",
	"Slider": "slider",
	"Dial":   "dial",
	"Wheel":  "wheel",
}

// hidHatName is the HID descriptor name for the 8-way hat switch.
const hidHatName = "Hat switch"

// Normalizer converts raw platform and device events into canonical input
// strings. All methods are pure: the same event always yields the same
// canonical string, and malformed events yield ok=false rather than errors,
// because canonical-string equality is the only thing downstream matching
// trusts.
type Normalizer struct {
	resolver PrefixResolver
}

// NewNormalizer creates a Normalizer. resolver may be nil, in which case
// device events keep their backend prefixes.
func NewNormalizer(resolver PrefixResolver) *Normalizer {
	return &Normalizer{resolver: resolver}
}

// NormalizeKey converts a raw keyboard event to its canonical form.
//
// When the pressed key is itself a modifier, it becomes the base token:
// "kb1_lalt" binds Left Alt alone, which must stay distinct from "kb1_lalt+x".
// Other concurrently held modifiers still prefix it.
func (n *Normalizer) NormalizeKey(ev KeyEvent) (Detected, bool) {
	token, ok := KeyToken(ev.Code, ev.Name)
	if !ok {
		return Detected{}, false
	}

	held := ev.Held
	isModifier := false
	if m, modOK := ParseModifier(token); modOK {
		isModifier = true
		// The event key must not appear in its own modifier segment.
		held = withoutModifier(held, m)
	}

	mods := SortModifiers(held)
	canonical := "kb1_" + ModifierSegment(mods) + token
	return Detected{
		Canonical:   canonical,
		Modifiers:   mods,
		DisplayName: keyDisplayName(token, mods),
		Class:       ClassKeyboard,
		IsModifier:  isModifier,
	}, true
}

// NormalizeMouse converts a raw mouse button event to its canonical form.
// Button indices are zero-based on input and one-based in canonical strings.
func (n *Normalizer) NormalizeMouse(ev MouseEvent) (Detected, bool) {
	if ev.Button < 0 {
		return Detected{}, false
	}
	num := ev.Button + 1
	mods := SortModifiers(ev.Held)
	canonical := fmt.Sprintf("mouse1_%smouse%d", ModifierSegment(mods), num)
	return Detected{
		Canonical:   canonical,
		Modifiers:   mods,
		DisplayName: fmt.Sprintf("Mouse Button %d", num),
		Class:       ClassMouse,
	}, true
}

// NormalizeDevice converts a raw backend device event to its canonical form.
//
// The backend prefix reflects enumeration order, which is not stable across
// restarts; when the event carries a device UUID the prefix is re-resolved
// through the PrefixResolver. HID quirks are flattened here: named axes
// (Rx -> rotx) and hat switches delivered on generic axis channels both
// re-encode to their canonical tokens.
func (n *Normalizer) NormalizeDevice(ev DeviceEvent) (Detected, bool) {
	backendPrefix, rest, ok := splitPrefixed(ev.Raw)
	if !ok {
		return Detected{}, false
	}

	prefix := backendPrefix
	if n.resolver != nil && ev.DeviceUUID != "" {
		prefix = n.resolver.Resolve(ev.DeviceUUID, backendPrefix)
		if !devicePrefixPattern.MatchString(prefix) {
			prefix = backendPrefix
		}
	}

	base, ok := n.rewriteDeviceToken(rest, ev)
	if !ok {
		return Detected{}, false
	}

	mods := SortModifiers(ev.Held)
	canonical := prefix + "_" + ModifierSegment(mods) + base

	display := ev.DisplayName
	if display == "" {
		display = canonical
	}

	return Detected{
		Canonical:   canonical,
		DeviceUUID:  ev.DeviceUUID,
		Modifiers:   mods,
		AxisValue:   ev.AxisValue,
		DisplayName: display,
		Class:       classForPrefix(prefix),
	}, true
}

// rewriteDeviceToken normalizes the post-prefix token of a device event.
func (n *Normalizer) rewriteDeviceToken(rest string, ev DeviceEvent) (string, bool) {
	rest = strings.ToLower(strings.TrimSpace(rest))
	if rest == "" {
		return "", false
	}

	// Hat state delivered on a generic axis channel: re-encode as a hat
	// direction token. A hat is a physical selector, not an axis, and the
	// profile format only understands hatN_<direction>.
	if ev.HIDAxisName == hidHatName {
		if strings.HasPrefix(rest, "hat") {
			return rest, true
		}
		if ev.HatValue == nil {
			return "", false
		}
		dir, ok := HatDirection(*ev.HatValue)
		if !ok {
			return "", false
		}
		return "hat1_" + dir, true
	}

	// Named HID axis: replace the sequential axisN token with the canonical
	// axis name, keeping any direction suffix.
	if name, ok := hidAxisNames[ev.HIDAxisName]; ok {
		if idx := strings.Index(rest, "_"); idx >= 0 && strings.HasPrefix(rest, "axis") {
			return name + rest[idx:], true
		}
		if strings.HasPrefix(rest, "axis") {
			return name, true
		}
	}

	return rest, true
}

// HatDirection decodes a raw 8-way hat position into a canonical direction.
// Diagonals collapse onto their leading cardinal; 8 and 15 are the centered
// rest positions and decode to nothing.
func HatDirection(value int) (string, bool) {
	switch value {
	case 0, 1:
		return "up", true
	case 2, 3:
		return "right", true
	case 4, 5:
		return "down", true
	case 6, 7:
		return "left", true
	default:
		return "", false
	}
}

// SplitCanonical splits a canonical string into its device prefix and the
// remainder (modifier segment plus base token). Returns false when the
// string does not start with a recognizable prefix.
func SplitCanonical(canonical string) (prefix, rest string, ok bool) {
	return splitPrefixed(canonical)
}

// IsDevicePrefix reports whether s is a logical device prefix such as "js1".
func IsDevicePrefix(s string) bool {
	return devicePrefixPattern.MatchString(strings.ToLower(strings.TrimSpace(s)))
}

// ParsePrefix splits a logical device prefix into its class code and slot
// number, e.g. "js2" -> ("js", 2).
func ParsePrefix(prefix string) (class string, slot int, ok bool) {
	m := devicePrefixPattern.FindStringSubmatch(strings.ToLower(strings.TrimSpace(prefix)))
	if m == nil {
		return "", 0, false
	}
	slot = 0
	for _, c := range m[2] {
		slot = slot*10 + int(c-'0')
	}
	return m[1], slot, true
}

// IsCleared reports whether a canonical string denotes an explicitly cleared
// binding: a device prefix, an underscore, and nothing but whitespace after.
// A cleared binding is distinct from an absent one - it suppresses defaults.
func IsCleared(canonical string) bool {
	prefix, rest, ok := splitPrefixed(canonical)
	if !ok || prefix == "" {
		return false
	}
	return strings.TrimSpace(rest) == ""
}

func splitPrefixed(s string) (prefix, rest string, ok bool) {
	s = strings.TrimSpace(s)
	idx := strings.Index(s, "_")
	if idx <= 0 {
		return "", "", false
	}
	prefix = strings.ToLower(s[:idx])
	if !devicePrefixPattern.MatchString(prefix) {
		return "", "", false
	}
	return prefix, s[idx+1:], true
}

// classForPrefix derives the device class from a logical prefix.
func classForPrefix(prefix string) DeviceClass {
	m := devicePrefixPattern.FindStringSubmatch(prefix)
	if m == nil {
		return ClassUnknown
	}
	switch m[1] {
	case "kb":
		return ClassKeyboard
	case "mouse":
		return ClassMouse
	case "js":
		return ClassJoystick
	case "gp":
		return ClassGamepad
	}
	return ClassUnknown
}

func keyDisplayName(token string, mods []Modifier) string {
	if len(mods) == 0 {
		return "Key " + strings.ToUpper(token)
	}
	parts := make([]string, 0, len(mods)+1)
	for _, m := range mods {
		parts = append(parts, strings.ToUpper(string(m)))
	}
	parts = append(parts, strings.ToUpper(token))
	return "Key " + strings.Join(parts, "+")
}
