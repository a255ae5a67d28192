package discovery

import (
	"fmt"
	"time"
)

// Agent represents a discovered joybind input agent on the network
type Agent struct {
	// Instance is the mDNS instance name (e.g., "joybind-gamingpc")
	Instance string

	// Hostname is the mDNS hostname (e.g., "gamingpc.local")
	Hostname string

	// IP is the IPv4 address (e.g., "192.168.1.20")
	IP string

	// Port is the HTTP port (typically 7411)
	Port int

	// Metadata contains additional mDNS TXT record data
	// Common fields: "version=0.3.0", "devices=2"
	Metadata map[string]string

	// DiscoveredAt is when the agent was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the agent
func (a *Agent) String() string {
	return fmt.Sprintf("Joybind agent %s (%s) at %s:%d", a.Instance, a.Hostname, a.IP, a.Port)
}

// BaseURL returns the HTTP base URL for the agent
func (a *Agent) BaseURL() string {
	return fmt.Sprintf("http://%s:%d", a.IP, a.Port)
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (a *Agent) GetMetadata(key string) string {
	if a.Metadata == nil {
		return ""
	}
	return a.Metadata[key]
}
