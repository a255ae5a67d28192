package discovery

import (
	"net"
	"testing"
	"time"

	"github.com/grandcat/zeroconf"
)

func TestScanner_parseServiceEntry(t *testing.T) {
	scanner := NewScanner()

	tests := []struct {
		name         string
		entry        *zeroconf.ServiceEntry
		wantNil      bool
		wantInstance string
		wantIP       string
		wantPort     int
	}{
		{
			name: "valid agent with IPv4",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "joybind-gamingpc"},
				HostName:      "gamingpc.local.",
				Port:          7411,
				AddrIPv4:      []net.IP{net.ParseIP("192.168.1.20")},
				Text:          []string{"version=0.3.0", "devices=2"},
			},
			wantInstance: "joybind-gamingpc",
			wantIP:       "192.168.1.20",
			wantPort:     7411,
		},
		{
			name: "custom port",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "joybind-laptop"},
				HostName:      "laptop.local",
				Port:          8080,
				AddrIPv4:      []net.IP{net.ParseIP("10.0.0.5")},
			},
			wantInstance: "joybind-laptop",
			wantIP:       "10.0.0.5",
			wantPort:     8080,
		},
		{
			name: "no port specified (should default)",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "joybind-den"},
				HostName:      "den.local",
				Port:          0,
				AddrIPv4:      []net.IP{net.ParseIP("172.16.0.1")},
			},
			wantInstance: "joybind-den",
			wantIP:       "172.16.0.1",
			wantPort:     DefaultPort,
		},
		{
			name: "no IP address",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "joybind-ghost"},
				HostName:      "ghost.local",
				Port:          7411,
				AddrIPv4:      []net.IP{},
				AddrIPv6:      []net.IP{},
			},
			wantNil: true,
		},
		{
			name: "IPv6 only agent",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "joybind-v6"},
				HostName:      "v6host.local",
				Port:          7411,
				AddrIPv6:      []net.IP{net.ParseIP("fe80::1")},
			},
			wantInstance: "joybind-v6",
			wantIP:       "fe80::1",
			wantPort:     7411,
		},
		{
			name: "both IPv4 and IPv6 (should prefer IPv4)",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "joybind-dual"},
				HostName:      "dual.local",
				Port:          7411,
				AddrIPv4:      []net.IP{net.ParseIP("192.168.1.50")},
				AddrIPv6:      []net.IP{net.ParseIP("fe80::2")},
			},
			wantInstance: "joybind-dual",
			wantIP:       "192.168.1.50",
			wantPort:     7411,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agent := scanner.parseServiceEntry(tt.entry)

			if tt.wantNil {
				if agent != nil {
					t.Errorf("parseServiceEntry() = %v, want nil", agent)
				}
				return
			}

			if agent == nil {
				t.Fatal("parseServiceEntry() = nil, want non-nil agent")
			}

			if agent.Instance != tt.wantInstance {
				t.Errorf("agent.Instance = %v, want %v", agent.Instance, tt.wantInstance)
			}

			if agent.IP != tt.wantIP {
				t.Errorf("agent.IP = %v, want %v", agent.IP, tt.wantIP)
			}

			if agent.Port != tt.wantPort {
				t.Errorf("agent.Port = %v, want %v", agent.Port, tt.wantPort)
			}

			// Check that DiscoveredAt is recent (within last second)
			if time.Since(agent.DiscoveredAt) > time.Second {
				t.Errorf("agent.DiscoveredAt is not recent: %v", agent.DiscoveredAt)
			}
		})
	}
}

func TestScanner_parseServiceEntry_TrimsHostnameDot(t *testing.T) {
	scanner := NewScanner()

	agent := scanner.parseServiceEntry(&zeroconf.ServiceEntry{
		ServiceRecord: zeroconf.ServiceRecord{Instance: "joybind-gamingpc"},
		HostName:      "gamingpc.local.",
		Port:          7411,
		AddrIPv4:      []net.IP{net.ParseIP("192.168.1.20")},
	})
	if agent == nil {
		t.Fatal("parseServiceEntry() = nil, want agent")
	}
	if agent.Hostname != "gamingpc.local" {
		t.Errorf("agent.Hostname = %q, want trailing dot trimmed", agent.Hostname)
	}
}

func TestScanner_parseServiceEntry_Metadata(t *testing.T) {
	scanner := NewScanner()

	entry := &zeroconf.ServiceEntry{
		ServiceRecord: zeroconf.ServiceRecord{Instance: "joybind-gamingpc"},
		HostName:      "gamingpc.local",
		Port:          7411,
		AddrIPv4:      []net.IP{net.ParseIP("192.168.1.20")},
		Text:          []string{"version=0.3.0", "devices=2", "flag"},
	}

	agent := scanner.parseServiceEntry(entry)
	if agent == nil {
		t.Fatal("parseServiceEntry() = nil, want agent")
	}

	// Check metadata parsing
	expectedMetadata := map[string]string{
		"version": "0.3.0",
		"devices": "2",
		"flag":    "", // Key without value
	}

	if len(agent.Metadata) != len(expectedMetadata) {
		t.Errorf("agent.Metadata has %d entries, want %d", len(agent.Metadata), len(expectedMetadata))
	}

	for key, expectedValue := range expectedMetadata {
		if actualValue, ok := agent.Metadata[key]; !ok {
			t.Errorf("agent.Metadata missing key %q", key)
		} else if actualValue != expectedValue {
			t.Errorf("agent.Metadata[%q] = %q, want %q", key, actualValue, expectedValue)
		}
	}
}

func TestNewScanner(t *testing.T) {
	scanner := NewScanner()

	if scanner == nil {
		t.Fatal("NewScanner() = nil, want scanner")
	}

	if scanner.Timeout != DefaultScanTimeout {
		t.Errorf("scanner.Timeout = %v, want %v", scanner.Timeout, DefaultScanTimeout)
	}
}

// Note: Integration tests with live mDNS discovery require network access
// and should be run manually with:
// go test -tags=integration ./internal/discovery/
