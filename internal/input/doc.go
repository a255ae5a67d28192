// Package input normalizes raw platform and device events into canonical
// input strings.
//
// A canonical string has the form
//
//	<devicePrefix>_<modifier+>*<baseToken>
//
// where the prefix names a device class and slot ("kb1", "mouse1", "js2",
// "gp1"), the optional modifier segment lists held modifiers in a fixed
// precedence order (lalt, ralt, lctrl, rctrl, lshift, rshift), and the base
// token is one of button<N>, <axisName>[_positive|_negative],
// hat<N>_<direction>, mouse<N>, or a named key.
//
// Examples:
//
//	kb1_space
//	kb1_lalt+x
//	mouse1_mouse2
//	js1_button3
//	js1_lalt+rctrl+button3
//	js2_rotz_positive
//	gp1_hat1_up
//
// Canonical-string equality is the sole criterion the binding matcher and
// conflict detector use, so every normalization rule exists to keep that
// equality honest: modifier order is fixed regardless of press order, HID
// axis names are flattened to one spelling, and hat switches re-encode as
// directions even when the hardware reports them on an axis channel.
//
// Malformed events normalize to ok=false and are dropped; nothing in this
// package returns an error.
package input
