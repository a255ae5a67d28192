// Package discovery provides mDNS-based discovery of joybind input agents.
//
// This package implements multicast DNS (mDNS) service discovery to
// automatically locate agents on the local network. Agents advertise
// themselves using the "_joybind._tcp" service type; the binder browses for
// that type when no agent address is configured.
//
// # Discovery Process
//
// The discovery process works as follows:
//  1. Broadcasts mDNS queries on the local network
//  2. Listens for service advertisements from joybind agents
//  3. Collects agent information (instance name, IP, port, metadata)
//  4. Returns a list of discovered agents after the timeout period
//
// # Usage Example
//
//	// Discover agents with 10-second timeout
//	agents, err := discovery.ScanForAgents(10 * time.Second)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, agent := range agents {
//	    fmt.Printf("Found: %s at %s\n", agent.Instance, agent.BaseURL())
//	}
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Agents must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
//
// # Thread Safety
//
// This package is safe for concurrent use. Multiple discovery sessions can
// run simultaneously without interference.
package discovery
