package config

import "time"

// Registry represents the entire user configuration file.
// This stores device slot overrides and application preferences; the binding
// profile itself lives in its own file (see the profile package).
type Registry struct {
	Version     int                `yaml:"version"`
	Devices     map[string]*Device `yaml:"devices,omitempty"` // Keyed by device UUID
	Preferences *Preferences       `yaml:"preferences,omitempty"`
}

// Device represents user-defined metadata for a single input device,
// keyed by the device's stable UUID in the Registry. UUIDs survive
// re-enumeration; slot numbers do not, which is the whole point of the
// override table.
type Device struct {
	Nickname string    `yaml:"nickname,omitempty"`  // User-friendly name
	Prefix   string    `yaml:"prefix,omitempty"`    // Slot override, e.g. "js1"
	LastSeen time.Time `yaml:"last_seen,omitempty"` // Last enumeration time
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	AgentURL        string `yaml:"agent_url,omitempty"`       // Input agent address, empty = discover
	AutoDiscover    bool   `yaml:"auto_discover"`             // Enable mDNS agent discovery on startup
	DiscoverTimeout int    `yaml:"discover_timeout"`          // mDNS discovery timeout in seconds
	ProfilePath     string `yaml:"profile_path,omitempty"`    // Bindings file, empty = default location
	HideDefaults    bool   `yaml:"hide_defaults,omitempty"`   // Default lookup filter
	ModifierFilter  string `yaml:"modifier_filter,omitempty"` // Default modifier filter ("all" when empty)
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version: 1,
		Devices: make(map[string]*Device),
		Preferences: &Preferences{
			AutoDiscover:    true,
			DiscoverTimeout: 10,
		},
	}
}

// GetDevice retrieves device metadata by UUID.
// Returns nil if the device doesn't exist in the registry.
func (r *Registry) GetDevice(uuid string) *Device {
	return r.Devices[uuid]
}

// EnsureDevice ensures a device entry exists in the registry.
// If the device doesn't exist, creates a new entry with default values.
// Returns the device entry (existing or newly created).
func (r *Registry) EnsureDevice(uuid string) *Device {
	if r.Devices == nil {
		r.Devices = make(map[string]*Device)
	}

	if device, exists := r.Devices[uuid]; exists {
		return device
	}

	device := &Device{}
	r.Devices[uuid] = device
	return device
}

// UpdateDeviceLastSeen updates the last seen timestamp for a device.
func (r *Registry) UpdateDeviceLastSeen(uuid string) {
	r.EnsureDevice(uuid).LastSeen = time.Now()
}

// SetDeviceNickname sets a user-friendly nickname for a device.
func (r *Registry) SetDeviceNickname(uuid, nickname string) {
	r.EnsureDevice(uuid).Nickname = nickname
}

// SetPrefixOverride pins a device to a logical slot. An empty prefix removes
// the override, returning the device to auto-detection.
func (r *Registry) SetPrefixOverride(uuid, prefix string) {
	if prefix == "" {
		if d, ok := r.Devices[uuid]; ok {
			d.Prefix = ""
		}
		return
	}
	r.EnsureDevice(uuid).Prefix = prefix
}

// PrefixOverrides returns the UUID -> prefix override table consumed by the
// device slot resolver.
func (r *Registry) PrefixOverrides() map[string]string {
	out := make(map[string]string, len(r.Devices))
	for uuid, d := range r.Devices {
		if d.Prefix != "" {
			out[uuid] = d.Prefix
		}
	}
	return out
}
