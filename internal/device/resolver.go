package device

import (
	"fmt"

	"github.com/muurk/joybind/internal/input"
)

// Resolver maps device UUIDs to logical device prefixes.
//
// The auto table is built once from an enumeration snapshot: joystick and
// gamepad slots are numbered separately, 1-based, in enumeration order
// ("js1", "js2", ..., "gp1", ...). User overrides are keyed by UUID and
// replace the auto-detected prefix. Keying by UUID rather than enumeration
// order is the point of this type: enumeration order is not stable across
// process restarts, and a saved profile's js1/js2 references must keep
// pointing at the same physical hardware.
//
// Resolve is a pure lookup; a Resolver is immutable after construction.
// Rebuilding (on explicit refresh) means constructing a new Resolver.
type Resolver struct {
	auto      map[string]string
	overrides map[string]string
}

// NewResolver builds a Resolver from an enumeration snapshot and the user's
// persisted prefix overrides. The overrides map may be nil.
func NewResolver(devices []Info, overrides map[string]string) *Resolver {
	auto := make(map[string]string, len(devices))
	jsSlot, gpSlot := 0, 0

	for _, d := range devices {
		if d.UUID == "" {
			continue
		}
		// First enumeration of a UUID wins; a device that appears twice
		// (e.g. two HID interfaces) keeps its first slot.
		if _, seen := auto[d.UUID]; seen {
			continue
		}
		switch d.Class {
		case input.ClassGamepad:
			gpSlot++
			auto[d.UUID] = fmt.Sprintf("gp%d", gpSlot)
		default:
			jsSlot++
			auto[d.UUID] = fmt.Sprintf("js%d", jsSlot)
		}
	}

	return &Resolver{auto: auto, overrides: overrides}
}

// Resolve returns the logical prefix for a device. Lookup order: user
// override, auto-detected slot, then the backend's own prefix as the
// fallback for devices that were not present at enumeration time.
func (r *Resolver) Resolve(deviceUUID, backendPrefix string) string {
	if p, ok := r.overrides[deviceUUID]; ok && p != "" {
		return p
	}
	if p, ok := r.auto[deviceUUID]; ok {
		return p
	}
	return backendPrefix
}

// AutoPrefix returns the auto-detected prefix for a UUID, ignoring
// overrides. Used by the devices listing to show both values side by side.
func (r *Resolver) AutoPrefix(deviceUUID string) (string, bool) {
	p, ok := r.auto[deviceUUID]
	return p, ok
}

// Override returns the user override for a UUID, if any.
func (r *Resolver) Override(deviceUUID string) (string, bool) {
	p, ok := r.overrides[deviceUUID]
	return p, ok && p != ""
}
