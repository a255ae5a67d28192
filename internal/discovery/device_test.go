package discovery

import (
	"testing"
	"time"
)

func TestAgent_String(t *testing.T) {
	agent := &Agent{
		Instance: "joybind-gamingpc",
		Hostname: "gamingpc.local",
		IP:       "192.168.1.20",
		Port:     7411,
	}

	expected := "Joybind agent joybind-gamingpc (gamingpc.local) at 192.168.1.20:7411"
	if agent.String() != expected {
		t.Errorf("Agent.String() = %v, want %v", agent.String(), expected)
	}
}

func TestAgent_BaseURL(t *testing.T) {
	tests := []struct {
		name     string
		agent    *Agent
		expected string
	}{
		{
			name: "standard port",
			agent: &Agent{
				IP:   "192.168.1.20",
				Port: 7411,
			},
			expected: "http://192.168.1.20:7411",
		},
		{
			name: "custom port",
			agent: &Agent{
				IP:   "10.0.0.5",
				Port: 8080,
			},
			expected: "http://10.0.0.5:8080",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.agent.BaseURL(); got != tt.expected {
				t.Errorf("Agent.BaseURL() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestAgent_GetMetadata(t *testing.T) {
	agent := &Agent{
		Metadata: map[string]string{
			"version": "0.3.0",
			"devices": "2",
		},
	}

	tests := []struct {
		name     string
		key      string
		expected string
	}{
		{
			name:     "existing key",
			key:      "version",
			expected: "0.3.0",
		},
		{
			name:     "another existing key",
			key:      "devices",
			expected: "2",
		},
		{
			name:     "non-existent key",
			key:      "missing",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := agent.GetMetadata(tt.key); got != tt.expected {
				t.Errorf("Agent.GetMetadata(%v) = %v, want %v", tt.key, got, tt.expected)
			}
		})
	}
}

func TestAgent_GetMetadata_NilMap(t *testing.T) {
	agent := &Agent{
		Metadata: nil,
	}

	if got := agent.GetMetadata("anything"); got != "" {
		t.Errorf("Agent.GetMetadata() with nil map = %v, want empty string", got)
	}
}

func TestAgent_DiscoveredAt(t *testing.T) {
	now := time.Now()
	agent := &Agent{
		Instance:     "joybind-gamingpc",
		DiscoveredAt: now,
	}

	if agent.DiscoveredAt != now {
		t.Errorf("Agent.DiscoveredAt = %v, want %v", agent.DiscoveredAt, now)
	}
}
