package input

import (
	"testing"
)

// staticResolver maps UUIDs to fixed prefixes for tests.
type staticResolver map[string]string

func (r staticResolver) Resolve(uuid, backendPrefix string) string {
	if p, ok := r[uuid]; ok {
		return p
	}
	return backendPrefix
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestNormalizeKey(t *testing.T) {
	n := NewNormalizer(nil)

	tests := []struct {
		name          string
		ev            KeyEvent
		wantCanonical string
		wantOK        bool
		wantModifier  bool
	}{
		{
			name:          "plain letter",
			ev:            KeyEvent{Code: "KeyX"},
			wantCanonical: "kb1_x",
			wantOK:        true,
		},
		{
			name:          "letter with one modifier",
			ev:            KeyEvent{Code: "KeyX", Held: []Modifier{ModLAlt}},
			wantCanonical: "kb1_lalt+x",
			wantOK:        true,
		},
		{
			name:          "modifiers ordered by precedence not press order",
			ev:            KeyEvent{Code: "KeyX", Held: []Modifier{ModRCtrl, ModLAlt}},
			wantCanonical: "kb1_lalt+rctrl+x",
			wantOK:        true,
		},
		{
			name:          "modifier alone becomes base token",
			ev:            KeyEvent{Code: "AltLeft", Held: []Modifier{ModLAlt}},
			wantCanonical: "kb1_lalt",
			wantOK:        true,
			wantModifier:  true,
		},
		{
			name:          "modifier with other modifier held",
			ev:            KeyEvent{Code: "AltLeft", Held: []Modifier{ModLAlt, ModRCtrl}},
			wantCanonical: "kb1_rctrl+lalt",
			wantOK:        true,
			wantModifier:  true,
		},
		{
			name:          "numpad key",
			ev:            KeyEvent{Code: "Numpad1"},
			wantCanonical: "kb1_np_1",
			wantOK:        true,
		},
		{
			name:          "function key",
			ev:            KeyEvent{Code: "F12"},
			wantCanonical: "kb1_f12",
			wantOK:        true,
		},
		{
			name:          "printable fallback from key value",
			ev:            KeyEvent{Code: "IntlBackslash", Name: "<"},
			wantCanonical: "kb1_<",
			wantOK:        true,
		},
		{
			name:   "empty event is dropped",
			ev:     KeyEvent{},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := n.NormalizeKey(tt.ev)
			if ok != tt.wantOK {
				t.Fatalf("NormalizeKey() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if got.Canonical != tt.wantCanonical {
				t.Errorf("canonical = %q, want %q", got.Canonical, tt.wantCanonical)
			}
			if got.IsModifier != tt.wantModifier {
				t.Errorf("isModifier = %v, want %v", got.IsModifier, tt.wantModifier)
			}
			if got.Class != ClassKeyboard {
				t.Errorf("class = %q, want keyboard", got.Class)
			}
		})
	}
}

func TestNormalizeKeyIdempotent(t *testing.T) {
	n := NewNormalizer(nil)
	ev := KeyEvent{Code: "KeyX", Held: []Modifier{ModRShift, ModLCtrl}}

	first, ok1 := n.NormalizeKey(ev)
	second, ok2 := n.NormalizeKey(ev)

	if !ok1 || !ok2 {
		t.Fatal("NormalizeKey() failed")
	}
	if first.Canonical != second.Canonical {
		t.Errorf("normalization not idempotent: %q vs %q", first.Canonical, second.Canonical)
	}
}

func TestModifierOrderIndependence(t *testing.T) {
	n := NewNormalizer(nil)

	// RCTRL then LALT must normalize identically to LALT then RCTRL,
	// always as lalt+rctrl.
	a, _ := n.NormalizeKey(KeyEvent{Code: "KeyQ", Held: []Modifier{ModRCtrl, ModLAlt}})
	b, _ := n.NormalizeKey(KeyEvent{Code: "KeyQ", Held: []Modifier{ModLAlt, ModRCtrl}})

	if a.Canonical != b.Canonical {
		t.Errorf("press order leaked into canonical: %q vs %q", a.Canonical, b.Canonical)
	}
	if a.Canonical != "kb1_lalt+rctrl+q" {
		t.Errorf("canonical = %q, want kb1_lalt+rctrl+q", a.Canonical)
	}
}

func TestNormalizeMouse(t *testing.T) {
	n := NewNormalizer(nil)

	tests := []struct {
		name          string
		ev            MouseEvent
		wantCanonical string
		wantOK        bool
	}{
		{name: "left button", ev: MouseEvent{Button: 0}, wantCanonical: "mouse1_mouse1", wantOK: true},
		{name: "right button", ev: MouseEvent{Button: 2}, wantCanonical: "mouse1_mouse3", wantOK: true},
		{
			name:          "button with modifier",
			ev:            MouseEvent{Button: 0, Held: []Modifier{ModLShift}},
			wantCanonical: "mouse1_lshift+mouse1",
			wantOK:        true,
		},
		{name: "negative index dropped", ev: MouseEvent{Button: -1}, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := n.NormalizeMouse(tt.ev)
			if ok != tt.wantOK {
				t.Fatalf("NormalizeMouse() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got.Canonical != tt.wantCanonical {
				t.Errorf("canonical = %q, want %q", got.Canonical, tt.wantCanonical)
			}
		})
	}
}

func TestNormalizeDevice(t *testing.T) {
	resolver := staticResolver{"044f:b10a": "js1"}
	n := NewNormalizer(resolver)

	tests := []struct {
		name          string
		ev            DeviceEvent
		wantCanonical string
		wantOK        bool
	}{
		{
			name:          "button keeps backend prefix without uuid",
			ev:            DeviceEvent{Raw: "js2_button3"},
			wantCanonical: "js2_button3",
			wantOK:        true,
		},
		{
			name:          "uuid override remaps prefix",
			ev:            DeviceEvent{Raw: "js2_button3", DeviceUUID: "044f:b10a"},
			wantCanonical: "js1_button3",
			wantOK:        true,
		},
		{
			name:          "unknown uuid falls back to backend prefix",
			ev:            DeviceEvent{Raw: "js3_button1", DeviceUUID: "beef:beef"},
			wantCanonical: "js3_button1",
			wantOK:        true,
		},
		{
			name: "named rotation axis",
			ev: DeviceEvent{
				Raw:         "js2_axis5_positive",
				DeviceUUID:  "044f:b10a",
				HIDAxisName: "Rz",
				AxisValue:   floatPtr(0.8),
			},
			wantCanonical: "js1_rotz_positive",
			wantOK:        true,
		},
		{
			name: "named slider axis",
			ev: DeviceEvent{
				Raw:         "js2_axis6_positive",
				DeviceUUID:  "044f:b10a",
				HIDAxisName: "Slider",
				AxisValue:   floatPtr(0.6),
			},
			wantCanonical: "js1_slider_positive",
			wantOK:        true,
		},
		{
			name: "hat on generic axis channel re-encodes",
			ev: DeviceEvent{
				Raw:         "js2_axis7_positive",
				DeviceUUID:  "044f:b10a",
				HIDAxisName: "Hat switch",
				HatValue:    intPtr(2),
			},
			wantCanonical: "js1_hat1_right",
			wantOK:        true,
		},
		{
			name: "hat already encoded passes through",
			ev: DeviceEvent{
				Raw:         "js2_hat1_up",
				DeviceUUID:  "044f:b10a",
				HIDAxisName: "Hat switch",
			},
			wantCanonical: "js1_hat1_up",
			wantOK:        true,
		},
		{
			name: "centered hat is dropped",
			ev: DeviceEvent{
				Raw:         "js2_axis7_positive",
				DeviceUUID:  "044f:b10a",
				HIDAxisName: "Hat switch",
				HatValue:    intPtr(8),
			},
			wantOK: false,
		},
		{
			name: "modifiers prefix the base token",
			ev: DeviceEvent{
				Raw:        "js2_button3",
				DeviceUUID: "044f:b10a",
				Held:       []Modifier{ModRCtrl, ModLAlt},
			},
			wantCanonical: "js1_lalt+rctrl+button3",
			wantOK:        true,
		},
		{
			name:   "missing prefix dropped",
			ev:     DeviceEvent{Raw: "button3"},
			wantOK: false,
		},
		{
			name:   "empty raw dropped",
			ev:     DeviceEvent{Raw: ""},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := n.NormalizeDevice(tt.ev)
			if ok != tt.wantOK {
				t.Fatalf("NormalizeDevice() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got.Canonical != tt.wantCanonical {
				t.Errorf("canonical = %q, want %q", got.Canonical, tt.wantCanonical)
			}
		})
	}
}

func TestHatDirection(t *testing.T) {
	tests := []struct {
		value   int
		wantDir string
		wantOK  bool
	}{
		{0, "up", true},
		{1, "up", true},
		{2, "right", true},
		{3, "right", true},
		{4, "down", true},
		{5, "down", true},
		{6, "left", true},
		{7, "left", true},
		{8, "", false},
		{15, "", false},
		{-1, "", false},
	}

	for _, tt := range tests {
		dir, ok := HatDirection(tt.value)
		if dir != tt.wantDir || ok != tt.wantOK {
			t.Errorf("HatDirection(%d) = (%q, %v), want (%q, %v)",
				tt.value, dir, ok, tt.wantDir, tt.wantOK)
		}
	}
}

func TestIsCleared(t *testing.T) {
	tests := []struct {
		canonical string
		want      bool
	}{
		{"js1_", true},
		{"js1_ ", true},
		{"kb1_  ", true},
		{"js1_button1", false},
		{"", false},
		{"_", false},
		{"notaprefix_", false},
	}

	for _, tt := range tests {
		if got := IsCleared(tt.canonical); got != tt.want {
			t.Errorf("IsCleared(%q) = %v, want %v", tt.canonical, got, tt.want)
		}
	}
}

func TestSplitCanonical(t *testing.T) {
	tests := []struct {
		in         string
		wantPrefix string
		wantRest   string
		wantOK     bool
	}{
		{"js1_button3", "js1", "button3", true},
		{"kb1_lalt+x", "kb1", "lalt+x", true},
		{"mouse1_mouse2", "mouse1", "mouse2", true},
		{"bogus_button3", "", "", false},
		{"js1", "", "", false},
	}

	for _, tt := range tests {
		prefix, rest, ok := SplitCanonical(tt.in)
		if prefix != tt.wantPrefix || rest != tt.wantRest || ok != tt.wantOK {
			t.Errorf("SplitCanonical(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tt.in, prefix, rest, ok, tt.wantPrefix, tt.wantRest, tt.wantOK)
		}
	}
}
