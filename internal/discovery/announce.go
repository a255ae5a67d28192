package discovery

import (
	"fmt"
	"os"
	"strconv"

	"github.com/grandcat/zeroconf"
)

// Announce advertises a joybind agent over mDNS so binders on the network
// can find it without configuration. Returns the registration; callers must
// Shutdown it on exit.
func Announce(port, deviceCount int, version string) (*zeroconf.Server, error) {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "joybind"
	}
	instance := "joybind-" + hostname

	txt := []string{
		"version=" + version,
		"devices=" + strconv.Itoa(deviceCount),
	}

	srv, err := zeroconf.Register(instance, ServiceType, ServiceDomain, port, txt, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register mDNS service: %w", err)
	}
	return srv, nil
}
