package discovery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/grandcat/zeroconf"
)

const (
	// ServiceType is the mDNS service type joybind agents advertise
	ServiceType = "_joybind._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for agent discovery
	DefaultScanTimeout = 10 * time.Second

	// DefaultPort is the default HTTP port for joybind agents
	DefaultPort = 7411
)

// Scanner handles mDNS agent discovery
type Scanner struct {
	// Timeout is the maximum time to wait for agent discovery
	Timeout time.Duration
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// ScanForAgents discovers all joybind agents on the local network
// Returns a list of discovered agents or an error
func (s *Scanner) ScanForAgents() ([]*Agent, error) {
	return s.ScanForAgentsWithContext(context.Background())
}

// ScanForAgentsWithContext discovers agents with a custom context
func (s *Scanner) ScanForAgentsWithContext(ctx context.Context) ([]*Agent, error) {
	// Create a context with timeout
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	// Channel to receive service entries
	entries := make(chan *zeroconf.ServiceEntry)
	agents := make([]*Agent, 0)

	// Start the resolver
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	// Browse for services in a goroutine
	go func() {
		for entry := range entries {
			agent := s.parseServiceEntry(entry)
			if agent != nil {
				agents = append(agents, agent)
			}
		}
	}()

	// Start browsing for joybind services
	err = resolver.Browse(ctx, ServiceType, ServiceDomain, entries)
	if err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	// Wait for context to complete (timeout or cancellation)
	<-ctx.Done()

	return agents, nil
}

// WaitForAgent waits for a specific agent by instance name
// Returns the agent or an error if not found within timeout
func (s *Scanner) WaitForAgent(instance string) (*Agent, error) {
	return s.WaitForAgentWithContext(context.Background(), instance)
}

// WaitForAgentWithContext waits for a specific agent with a custom context
func (s *Scanner) WaitForAgentWithContext(ctx context.Context, instance string) (*Agent, error) {
	// Create a context with timeout
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	// Channel to receive service entries
	entries := make(chan *zeroconf.ServiceEntry)
	agentChan := make(chan *Agent, 1)

	// Start the resolver
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	// Browse for services in a goroutine
	go func() {
		for entry := range entries {
			agent := s.parseServiceEntry(entry)
			if agent != nil && agent.Instance == instance {
				agentChan <- agent
				cancel() // Found the agent, cancel context
				return
			}
		}
	}()

	// Start browsing for joybind services
	err = resolver.Browse(ctx, ServiceType, ServiceDomain, entries)
	if err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	// Wait for agent or timeout
	select {
	case agent := <-agentChan:
		return agent, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("agent %s not found within timeout", instance)
	}
}

// parseServiceEntry converts a zeroconf service entry to an Agent
// Returns nil if the entry is unusable (no address)
func (s *Scanner) parseServiceEntry(entry *zeroconf.ServiceEntry) *Agent {
	// Get IP address (prefer IPv4)
	var ip string
	for _, addr := range entry.AddrIPv4 {
		ip = addr.String()
		break
	}

	// Fallback to IPv6 if no IPv4
	if ip == "" && len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}

	if ip == "" {
		return nil
	}

	// Get port (default if not specified)
	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	// Parse TXT records into metadata
	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		// TXT records are in "key=value" format
		parts := strings.SplitN(txt, "=", 2)
		if len(parts) == 2 {
			metadata[parts[0]] = parts[1]
		} else {
			// Key without value
			metadata[parts[0]] = ""
		}
	}

	return &Agent{
		Instance:     entry.Instance,
		Hostname:     strings.TrimSuffix(entry.HostName, "."),
		IP:           ip,
		Port:         port,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

// ScanForAgents is a convenience function to scan for agents with a custom timeout
func ScanForAgents(timeout time.Duration) ([]*Agent, error) {
	scanner := NewScanner()
	scanner.Timeout = timeout
	return scanner.ScanForAgents()
}

// QuickScan performs a fast scan with a 3-second timeout
func QuickScan() ([]*Agent, error) {
	scanner := NewScanner()
	scanner.Timeout = 3 * time.Second
	return scanner.ScanForAgents()
}

// FindAgent searches for a specific agent by instance name with default timeout
func FindAgent(instance string) (*Agent, error) {
	scanner := NewScanner()
	return scanner.WaitForAgent(instance)
}
