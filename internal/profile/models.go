package profile

import (
	"strings"

	"github.com/muurk/joybind/internal/input"
)

// InputType categorizes which device class a binding's canonical string
// belongs to.
type InputType string

const (
	InputKeyboard InputType = "keyboard"
	InputMouse    InputType = "mouse"
	InputJoystick InputType = "joystick"
	InputGamepad  InputType = "gamepad"
	InputUnknown  InputType = "unknown"
)

// TypeForInput derives the input type from a canonical string's device
// prefix.
func TypeForInput(canonical string) InputType {
	prefix, _, ok := input.SplitCanonical(canonical)
	if !ok {
		return InputUnknown
	}
	switch {
	case strings.HasPrefix(prefix, "kb"):
		return InputKeyboard
	case strings.HasPrefix(prefix, "mouse"):
		return InputMouse
	case strings.HasPrefix(prefix, "js"):
		return InputJoystick
	case strings.HasPrefix(prefix, "gp"):
		return InputGamepad
	}
	return InputUnknown
}

// Binding is one concrete input mapped to an action. Default bindings come
// from the game's stock profile; user bindings replace or suppress them.
type Binding struct {
	// Input is the canonical input string, e.g. "js1_button3". A cleared
	// binding is a device prefix followed by whitespace only ("js1_ ") and
	// suppresses the default without adding a new input.
	Input string `yaml:"input"`

	InputType InputType `yaml:"input_type,omitempty"`

	// DisplayName is the human-readable form shown in listings.
	DisplayName string `yaml:"display_name,omitempty"`

	IsDefault bool `yaml:"is_default,omitempty"`

	// MultiTap is the number of taps required to activate, when >1.
	MultiTap int `yaml:"multi_tap,omitempty"`

	// ActivationMode is an opaque game-defined activation mode name
	// ("press", "hold", "double_tap", ...). Passed through unmodified.
	ActivationMode string `yaml:"activation_mode,omitempty"`
}

// IsCleared reports whether this binding explicitly clears a slot.
func (b Binding) IsCleared() bool {
	return input.IsCleared(b.Input)
}

// Action is one bindable game command.
type Action struct {
	Name     string    `yaml:"name"`
	UILabel  string    `yaml:"ui_label,omitempty"`
	Bindings []Binding `yaml:"bindings,omitempty"`
	OnHold   bool      `yaml:"on_hold,omitempty"`
}

// Label returns the UI label, falling back to the action name.
func (a Action) Label() string {
	if a.UILabel != "" {
		return a.UILabel
	}
	return a.Name
}

// ActionMap is a named group of related actions.
type ActionMap struct {
	Name    string   `yaml:"name"`
	UILabel string   `yaml:"ui_label,omitempty"`
	Actions []Action `yaml:"actions,omitempty"`
}

// Label returns the UI label, falling back to the map name.
func (m ActionMap) Label() string {
	if m.UILabel != "" {
		return m.UILabel
	}
	return m.Name
}

// FindAction returns the action with the given name, or nil.
func (m *ActionMap) FindAction(name string) *Action {
	for i := range m.Actions {
		if m.Actions[i].Name == name {
			return &m.Actions[i]
		}
	}
	return nil
}

// cloneMaps deep-copies an action map snapshot. Mutation always operates on
// a clone and publishes the result wholesale, so readers never observe a
// half-edited snapshot.
func cloneMaps(maps []*ActionMap) []*ActionMap {
	out := make([]*ActionMap, len(maps))
	for i, m := range maps {
		cm := &ActionMap{Name: m.Name, UILabel: m.UILabel}
		cm.Actions = make([]Action, len(m.Actions))
		for j, a := range m.Actions {
			ca := Action{Name: a.Name, UILabel: a.UILabel, OnHold: a.OnHold}
			ca.Bindings = make([]Binding, len(a.Bindings))
			copy(ca.Bindings, a.Bindings)
			cm.Actions[j] = ca
		}
		out[i] = cm
	}
	return out
}
