package binding

import (
	"testing"

	"github.com/muurk/joybind/internal/profile"
)

func snapshot() []*profile.ActionMap {
	return []*profile.ActionMap{
		{
			Name:    "spaceship_weapons",
			UILabel: "Vehicles - Weapons",
			Actions: []profile.Action{
				{
					Name:    "v_attack1",
					UILabel: "Fire Weapon Group 1",
					Bindings: []profile.Binding{
						{Input: "js1_button1", IsDefault: true},
						{Input: "js1_button2"},
					},
				},
				{
					Name:    "v_weapon_cycle",
					UILabel: "Cycle Weapons",
					Bindings: []profile.Binding{
						{Input: "js1_lalt+button2", IsDefault: true},
					},
				},
			},
		},
		{
			Name:    "spaceship_movement",
			UILabel: "Flight - Movement",
			Actions: []profile.Action{
				{
					Name:    "v_yaw",
					UILabel: "Yaw",
					Bindings: []profile.Binding{
						{Input: "js1_rotz", IsDefault: true},
					},
				},
				{
					Name:    "v_throttle_axis",
					UILabel: "Throttle",
					Bindings: []profile.Binding{
						{Input: "js1_axis2", IsDefault: true},
					},
				},
				{
					Name:    "v_brake",
					UILabel: "Space Brake",
					Bindings: []profile.Binding{
						// Legacy layout with the modifier ahead of the prefix.
						{Input: "lalt+js2_button3"},
					},
				},
				{
					Name:    "v_hat_look",
					UILabel: "Look Around",
					Bindings: []profile.Binding{
						{Input: "js1_hat1_up", IsDefault: true},
					},
				},
			},
		},
	}
}

func newTestMatcher() *Matcher {
	snap := snapshot()
	return NewMatcher(func() []*profile.ActionMap { return snap })
}

func TestExtractRef(t *testing.T) {
	tests := []struct {
		name    string
		control Control
		want    string
	}{
		{"numeric id wins", Control{ButtonID: 3, Descriptor: "rotz", DisplayName: "Button 9"}, "button3"},
		{"descriptor next", Control{Descriptor: "rotz", DisplayName: "Button 9"}, "rotz"},
		{"display name with button", Control{DisplayName: "Fire Button 12"}, "button12"},
		{"axis label never a button", Control{DisplayName: "Axis 2"}, ""},
		{"nothing", Control{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref := ExtractRef(tt.control)
			if tt.want == "" {
				if !ref.IsZero() {
					t.Errorf("ExtractRef() = %q, want zero ref", ref)
				}
				return
			}
			if ref.String() != tt.want {
				t.Errorf("ExtractRef() = %q, want %q", ref, tt.want)
			}
		})
	}
}

func TestFindByButtonNumber(t *testing.T) {
	m := newTestMatcher()

	got := m.Find(ByNumber(2), "js1", Filters{})
	if len(got) != 2 {
		t.Fatalf("Find(button2) = %d matches, want 2", len(got))
	}
	// User binding before the default, despite snapshot order.
	if got[0].Action != "v_attack1" || got[0].IsDefault {
		t.Errorf("first match = %s (default=%v), want user binding v_attack1", got[0].Action, got[0].IsDefault)
	}
	if got[1].Action != "v_weapon_cycle" || !got[1].IsDefault {
		t.Errorf("second match = %s (default=%v), want default v_weapon_cycle", got[1].Action, got[1].IsDefault)
	}
}

func TestButtonNumberNeverMatchesAxisOrHat(t *testing.T) {
	m := newTestMatcher()

	// js1_axis2 and js1_hat1_up exist; neither may answer to button 2 or 1.
	for _, n := range []int{1, 2} {
		for _, got := range m.Find(ByNumber(n), "js1", Filters{}) {
			if got.Action == "v_throttle_axis" || got.Action == "v_hat_look" {
				t.Errorf("button%d matched %s (%s)", n, got.Action, got.Input)
			}
		}
	}
}

func TestButtonNumberBoundary(t *testing.T) {
	snap := []*profile.ActionMap{{
		Name: "m",
		Actions: []profile.Action{
			{Name: "a1", Bindings: []profile.Binding{{Input: "js1_button1"}}},
			{Name: "a10", Bindings: []profile.Binding{{Input: "js1_button10"}}},
		},
	}}
	m := NewMatcher(func() []*profile.ActionMap { return snap })

	got := m.Find(ByNumber(1), "js1", Filters{})
	if len(got) != 1 || got[0].Action != "a1" {
		t.Fatalf("Find(button1) = %v, want only a1", got)
	}
}

func TestFindByDescriptor(t *testing.T) {
	m := newTestMatcher()

	got := m.Find(ByString("rotz"), "js1", Filters{})
	if len(got) != 1 || got[0].Action != "v_yaw" {
		t.Fatalf("Find(rotz) = %v, want v_yaw", got)
	}

	// A hat id matches all of its sub-directions.
	got = m.Find(ByString("hat1"), "js1", Filters{})
	if len(got) != 1 || got[0].Action != "v_hat_look" {
		t.Fatalf("Find(hat1) = %v, want v_hat_look", got)
	}
}

func TestLegacyModifierLayout(t *testing.T) {
	m := newTestMatcher()

	got := m.Find(ByNumber(3), "js2", Filters{})
	if len(got) != 1 || got[0].Action != "v_brake" {
		t.Fatalf("Find(js2 button3) = %v, want v_brake", got)
	}
	if len(got[0].Modifiers) != 1 || string(got[0].Modifiers[0]) != "lalt" {
		t.Errorf("modifiers = %v, want [lalt]", got[0].Modifiers)
	}
}

func TestDefaultAxisMatchesAnySlot(t *testing.T) {
	m := newTestMatcher()

	// js1_rotz is a default, so querying rotz on js2 still finds it.
	got := m.Find(ByString("rotz"), "js2", Filters{})
	if len(got) != 1 || got[0].Action != "v_yaw" {
		t.Fatalf("Find(js2 rotz) = %v, want default v_yaw", got)
	}

	// The rule never applies to button numbers.
	if got := m.Find(ByNumber(1), "js2", Filters{}); len(got) != 0 {
		t.Errorf("Find(js2 button1) = %v, want none", got)
	}

	// Nor to gamepad queries against a joystick default.
	if got := m.Find(ByString("rotz"), "gp1", Filters{}); len(got) != 0 {
		t.Errorf("Find(gp1 rotz) = %v, want none", got)
	}
}

func TestReflexivity(t *testing.T) {
	// Every binding must match its own canonical input with modifiers
	// stripped.
	m := newTestMatcher()
	for _, am := range snapshot() {
		for _, a := range am.Actions {
			for _, b := range a.Bindings {
				bound, ok := normalizeBound(b.Input)
				if !ok {
					t.Fatalf("normalizeBound(%q) failed", b.Input)
				}
				got := m.Find(ByString(bound.base), bound.prefix, Filters{})
				found := false
				for _, match := range got {
					if match.Action == a.Name {
						found = true
					}
				}
				if !found {
					t.Errorf("binding %q does not match itself", b.Input)
				}
			}
		}
	}
}

func TestFilters(t *testing.T) {
	m := newTestMatcher()

	got := m.Find(ByNumber(2), "js1", Filters{HideDefaults: true})
	if len(got) != 1 || got[0].IsDefault {
		t.Fatalf("HideDefaults left %v", got)
	}

	got = m.Find(ByNumber(2), "js1", Filters{Modifier: "lalt"})
	if len(got) != 1 || got[0].Action != "v_weapon_cycle" {
		t.Fatalf("Modifier filter left %v, want only v_weapon_cycle", got)
	}

	if got := m.Find(ByNumber(2), "js1", Filters{Modifier: "all"}); len(got) != 2 {
		t.Errorf("Modifier \"all\" = %d matches, want 2", len(got))
	}
}

func TestSortUserBeforeDefault(t *testing.T) {
	snap := []*profile.ActionMap{{
		Name: "m",
		Actions: []profile.Action{
			{Name: "a", Bindings: []profile.Binding{{Input: "js1_button5", IsDefault: true}}},
			{Name: "b", Bindings: []profile.Binding{{Input: "js1_button5"}}},
			{Name: "c", Bindings: []profile.Binding{{Input: "js1_button5", IsDefault: true}}},
		},
	}}
	m := NewMatcher(func() []*profile.ActionMap { return snap })

	got := m.Find(ByNumber(5), "js1", Filters{})
	if len(got) != 3 {
		t.Fatalf("matches = %d, want 3", len(got))
	}
	wantOrder := []string{"b", "a", "c"}
	for i, w := range wantOrder {
		if got[i].Action != w {
			t.Errorf("position %d = %s, want %s", i, got[i].Action, w)
		}
	}
}

func TestClearedBindingNeverMatches(t *testing.T) {
	snap := []*profile.ActionMap{{
		Name: "m",
		Actions: []profile.Action{
			{Name: "a", Bindings: []profile.Binding{{Input: "js1_ "}}},
		},
	}}
	m := NewMatcher(func() []*profile.ActionMap { return snap })

	if got := m.Find(ByNumber(1), "js1", Filters{}); len(got) != 0 {
		t.Errorf("cleared binding matched: %v", got)
	}
}

func TestFindConflicts(t *testing.T) {
	maps := []*profile.ActionMap{{
		Name: "m",
		Actions: []profile.Action{
			{Name: "target", Bindings: []profile.Binding{{Input: "js1_button4"}}},
			{Name: "other", Bindings: []profile.Binding{{Input: "js1_button4", IsDefault: true}}},
			{Name: "unrelated", Bindings: []profile.Binding{{Input: "js1_button5"}}},
		},
	}}

	got := FindConflicts(maps, "m", "target", "js1_button4")
	if len(got) != 1 {
		t.Fatalf("conflicts = %d, want 1", len(got))
	}
	if got[0].Action != "other" || !got[0].IsDefault {
		t.Errorf("conflict = %+v, want default binding on other", got[0])
	}

	// The action being bound never conflicts with itself.
	if got := FindConflicts(maps, "m", "other", "js1_button4"); len(got) != 1 || got[0].Action != "target" {
		t.Errorf("self-exclusion broken: %v", got)
	}
}
