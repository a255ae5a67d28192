package profile

import (
	"os"
	"path/filepath"
	"testing"
)

func testMaps() []*ActionMap {
	return []*ActionMap{
		{
			Name:    "spaceship_weapons",
			UILabel: "Vehicles - Weapons",
			Actions: []Action{
				{
					Name:    "v_attack1",
					UILabel: "Fire Weapon Group 1",
					Bindings: []Binding{
						{Input: "js1_button1", InputType: InputJoystick, IsDefault: true},
						{Input: "mouse1_mouse1", InputType: InputMouse, IsDefault: true},
					},
				},
				{
					Name:    "v_target_cycle",
					UILabel: "Cycle Targets",
					Bindings: []Binding{
						{Input: "js1_button5", InputType: InputJoystick, IsDefault: true},
					},
				},
			},
		},
	}
}

func TestUpdateBindingReplacesSameType(t *testing.T) {
	s := NewMemoryStore(testMaps())

	if err := s.UpdateBinding("spaceship_weapons", "v_attack1", "js1_button7", Update{}); err != nil {
		t.Fatalf("UpdateBinding() error = %v", err)
	}
	if err := s.UpdateBinding("spaceship_weapons", "v_attack1", "js1_button9", Update{MultiTap: 2}); err != nil {
		t.Fatalf("UpdateBinding() error = %v", err)
	}

	a := s.Load()[0].FindAction("v_attack1")
	var user []Binding
	for _, b := range a.Bindings {
		if !b.IsDefault {
			user = append(user, b)
		}
	}
	if len(user) != 1 {
		t.Fatalf("user bindings = %d, want 1 (second update must replace first)", len(user))
	}
	if user[0].Input != "js1_button9" {
		t.Errorf("user binding input = %q, want js1_button9", user[0].Input)
	}
	if user[0].MultiTap != 2 {
		t.Errorf("multiTap = %d, want 2", user[0].MultiTap)
	}
	// Defaults must survive untouched.
	if len(a.Bindings) != 3 {
		t.Errorf("total bindings = %d, want 3", len(a.Bindings))
	}
}

func TestUpdateBindingUnknownAction(t *testing.T) {
	s := NewMemoryStore(testMaps())

	if err := s.UpdateBinding("spaceship_weapons", "nope", "js1_button1", Update{}); err == nil {
		t.Error("UpdateBinding() with unknown action should fail")
	}
	if err := s.UpdateBinding("nope", "v_attack1", "js1_button1", Update{}); err == nil {
		t.Error("UpdateBinding() with unknown map should fail")
	}
	if err := s.UpdateBinding("spaceship_weapons", "v_attack1", "garbage", Update{}); err == nil {
		t.Error("UpdateBinding() with invalid canonical should fail")
	}
}

func TestClearBinding(t *testing.T) {
	s := NewMemoryStore(testMaps())

	if err := s.ClearBinding("spaceship_weapons", "v_target_cycle", "js1"); err != nil {
		t.Fatalf("ClearBinding() error = %v", err)
	}

	a := s.Load()[0].FindAction("v_target_cycle")
	found := false
	for _, b := range a.Bindings {
		if !b.IsDefault {
			if !b.IsCleared() {
				t.Errorf("user binding %q should be a cleared binding", b.Input)
			}
			found = true
		}
	}
	if !found {
		t.Error("ClearBinding() did not add a cleared binding")
	}
}

func TestResetBindingRestoresDefaults(t *testing.T) {
	s := NewMemoryStore(testMaps())

	if err := s.UpdateBinding("spaceship_weapons", "v_attack1", "kb1_lalt+x", Update{}); err != nil {
		t.Fatalf("UpdateBinding() error = %v", err)
	}
	if err := s.ResetBinding("spaceship_weapons", "v_attack1"); err != nil {
		t.Fatalf("ResetBinding() error = %v", err)
	}

	a := s.Load()[0].FindAction("v_attack1")
	if len(a.Bindings) != 2 {
		t.Fatalf("bindings after reset = %d, want 2 defaults", len(a.Bindings))
	}
	for _, b := range a.Bindings {
		if !b.IsDefault {
			t.Errorf("non-default binding %q survived reset", b.Input)
		}
	}
}

func TestSnapshotImmutability(t *testing.T) {
	s := NewMemoryStore(testMaps())

	before := s.Load()
	beforeCount := len(before[0].FindAction("v_attack1").Bindings)

	if err := s.UpdateBinding("spaceship_weapons", "v_attack1", "js1_button7", Update{}); err != nil {
		t.Fatalf("UpdateBinding() error = %v", err)
	}

	// The snapshot taken before the mutation must not have changed.
	if got := len(before[0].FindAction("v_attack1").Bindings); got != beforeCount {
		t.Errorf("old snapshot mutated: bindings = %d, want %d", got, beforeCount)
	}

	after := s.Load()
	if len(after[0].FindAction("v_attack1").Bindings) != beforeCount+1 {
		t.Error("new snapshot missing the update")
	}
}

func TestTypeForInput(t *testing.T) {
	tests := []struct {
		canonical string
		want      InputType
	}{
		{"kb1_space", InputKeyboard},
		{"mouse1_mouse2", InputMouse},
		{"js1_button3", InputJoystick},
		{"gp1_hat1_up", InputGamepad},
		{"garbage", InputUnknown},
	}
	for _, tt := range tests {
		if got := TypeForInput(tt.canonical); got != tt.want {
			t.Errorf("TypeForInput(%q) = %q, want %q", tt.canonical, got, tt.want)
		}
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bindings.yaml")

	fs, err := OpenFileStore(path)
	if err != nil {
		t.Fatalf("OpenFileStore() error = %v", err)
	}
	fs.Replace(testMaps())

	if err := fs.UpdateBinding("spaceship_weapons", "v_attack1", "js2_rotz_positive", Update{
		DisplayName: "Joystick 2 - Twist +",
	}); err != nil {
		t.Fatalf("UpdateBinding() error = %v", err)
	}

	// Reopen and verify the update persisted.
	reopened, err := OpenFileStore(path)
	if err != nil {
		t.Fatalf("OpenFileStore() reopen error = %v", err)
	}
	a := reopened.Load()[0].FindAction("v_attack1")
	if a == nil {
		t.Fatal("action missing after reload")
	}
	found := false
	for _, b := range a.Bindings {
		if b.Input == "js2_rotz_positive" && !b.IsDefault {
			found = true
			if b.DisplayName != "Joystick 2 - Twist +" {
				t.Errorf("display name = %q", b.DisplayName)
			}
		}
	}
	if !found {
		t.Error("updated binding not persisted")
	}
}

func TestFileStoreUnsupportedVersion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bindings.yaml")
	if err := os.WriteFile(path, []byte("version: 99\n"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := OpenFileStore(path); err == nil {
		t.Error("OpenFileStore() should reject unsupported version")
	}
}
