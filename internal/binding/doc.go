// Package binding answers "what is bound to this control". Given a control
// reference (a button number or a named descriptor) and a device prefix, the
// matcher scans an immutable action map snapshot and returns the bindings
// that target it, user bindings sorted ahead of defaults.
package binding
