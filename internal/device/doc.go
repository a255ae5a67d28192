// Package device models enumerated input hardware and resolves device slots.
//
// The central problem this package solves is that the backend's device
// enumeration order is not stable: unplugging a hub, a driver update, or a
// reboot can swap which stick enumerates first. Profiles, however, reference
// devices by slot prefix (js1, js2, gp1). The Resolver bridges the two by
// keying everything on the device's hardware UUID and letting the user pin a
// UUID to a specific slot.
//
// The same physical device can still report a different UUID after an OS or
// driver reinstall. That is an accepted limitation of the hardware
// enumeration this package sits on top of, not something it attempts to
// repair.
package device
