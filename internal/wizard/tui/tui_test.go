package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/joybind/internal/discovery"
	"github.com/muurk/joybind/internal/input"
	"github.com/muurk/joybind/internal/profile"
)

func TestAgentFromAddress(t *testing.T) {
	tests := []struct {
		name     string
		addr     string
		wantHost string
		wantPort int
	}{
		{
			name:     "host only uses default port",
			addr:     "192.168.1.20",
			wantHost: "192.168.1.20",
			wantPort: discovery.DefaultPort,
		},
		{
			name:     "host and port",
			addr:     "192.168.1.20:9000",
			wantHost: "192.168.1.20",
			wantPort: 9000,
		},
		{
			name:     "hostname and port",
			addr:     "gamingpc.local:7411",
			wantHost: "gamingpc.local",
			wantPort: 7411,
		},
		{
			name:     "bad port falls back to whole string as host",
			addr:     "gamingpc:abc",
			wantHost: "gamingpc:abc",
			wantPort: discovery.DefaultPort,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agent := agentFromAddress(tt.addr)
			if agent.IP != tt.wantHost {
				t.Errorf("host = %q, want %q", agent.IP, tt.wantHost)
			}
			if agent.Port != tt.wantPort {
				t.Errorf("port = %d, want %d", agent.Port, tt.wantPort)
			}
			if agent.Instance != "manual" {
				t.Errorf("instance = %q, want %q", agent.Instance, "manual")
			}
		})
	}
}

func TestKeyEventFromTea(t *testing.T) {
	tests := []struct {
		name     string
		msg      tea.KeyMsg
		wantOK   bool
		wantCode string
		wantName string
		wantHeld []input.Modifier
	}{
		{
			name:     "plain letter",
			msg:      tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")},
			wantOK:   true,
			wantCode: "KeyX",
		},
		{
			name:     "digit",
			msg:      tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("3")},
			wantOK:   true,
			wantCode: "Digit3",
		},
		{
			name:     "uppercase letter implies shift",
			msg:      tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("X")},
			wantOK:   true,
			wantCode: "KeyX",
			wantHeld: []input.Modifier{input.ModLShift},
		},
		{
			name:     "alt chord",
			msg:      tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x"), Alt: true},
			wantOK:   true,
			wantCode: "KeyX",
			wantHeld: []input.Modifier{input.ModLAlt},
		},
		{
			name:     "named key",
			msg:      tea.KeyMsg{Type: tea.KeyEnter},
			wantOK:   true,
			wantCode: "Enter",
		},
		{
			name:     "arrow key",
			msg:      tea.KeyMsg{Type: tea.KeyUp},
			wantOK:   true,
			wantCode: "ArrowUp",
		},
		{
			name:     "function key",
			msg:      tea.KeyMsg{Type: tea.KeyF5},
			wantOK:   true,
			wantCode: "F5",
		},
		{
			name:     "punctuation falls back to name",
			msg:      tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(";")},
			wantOK:   true,
			wantName: ";",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, ok := keyEventFromTea(tt.msg)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if ev.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", ev.Code, tt.wantCode)
			}
			if ev.Name != tt.wantName {
				t.Errorf("name = %q, want %q", ev.Name, tt.wantName)
			}
			if len(ev.Held) != len(tt.wantHeld) {
				t.Fatalf("held = %v, want %v", ev.Held, tt.wantHeld)
			}
			for i, mod := range tt.wantHeld {
				if ev.Held[i] != mod {
					t.Errorf("held[%d] = %q, want %q", i, ev.Held[i], mod)
				}
			}
		})
	}
}

func TestFormatBindingSummary(t *testing.T) {
	tests := []struct {
		name     string
		bindings []profile.Binding
		want     string
	}{
		{
			name:     "no bindings",
			bindings: nil,
			want:     "unbound",
		},
		{
			name: "user binding only",
			bindings: []profile.Binding{
				{Input: "js1_button3", InputType: "joystick"},
			},
			want: "js1_button3",
		},
		{
			name: "display name preferred",
			bindings: []profile.Binding{
				{Input: "js1_button3", InputType: "joystick", DisplayName: "Trigger"},
			},
			want: "Trigger",
		},
		{
			name: "default binding parenthesized",
			bindings: []profile.Binding{
				{Input: "kb1_space", InputType: "keyboard", IsDefault: true},
			},
			want: "(default: kb1_space)",
		},
		{
			name: "user before default",
			bindings: []profile.Binding{
				{Input: "kb1_space", InputType: "keyboard", IsDefault: true},
				{Input: "js1_button3", InputType: "joystick"},
			},
			want: "js1_button3 (default: kb1_space)",
		},
		{
			name: "cleared binding shown",
			bindings: []profile.Binding{
				{Input: "kb1_ ", InputType: "keyboard"},
			},
			want: "(cleared)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatBindingSummary(tt.bindings); got != tt.want {
				t.Errorf("FormatBindingSummary() = %q, want %q", got, tt.want)
			}
		})
	}
}
