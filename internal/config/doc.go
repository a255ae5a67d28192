// Package config provides user configuration management for joybind.
//
// This package manages a YAML-based configuration file that stores
// per-device metadata (nicknames, logical slot overrides) and application
// preferences. The configuration follows OS-specific conventions for storage
// location.
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/joybind/config.yaml or $HOME/.config/joybind/config.yaml
//   - macOS: $HOME/.config/joybind/config.yaml
//   - Windows: %LOCALAPPDATA%\joybind\config.yaml
//
// # Slot Overrides
//
// Devices are keyed by their stable hardware UUID. A device entry may pin
// the device to a logical slot ("js1", "gp2"); the slot resolver consults
// these overrides ahead of the enumeration-order auto table, so saved
// bindings keep pointing at the right stick after a reconnect shuffle.
//
// # Usage Example
//
//	// Load the global registry
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Pin the left stick to js2 regardless of enumeration order
//	registry.SetPrefixOverride("231d:0200", "js2")
//
//	// Save changes atomically
//	if err := registry.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// The global registry uses sync.Once for safe initialization across
// goroutines. File operations are protected by a mutex to ensure atomic
// writes.
package config
