// Package capture runs the interactive "press an input to bind it" flow.
//
// A session moves Idle -> Armed -> Collecting -> Confirming -> [Selecting]
// -> Resolved -> Closed, with cancel and timeout jumping straight to Closed
// from anywhere. Three listeners feed it in parallel (keyboard, mouse, and
// the device agent stream), all funneled through the normalizer into one
// insertion-ordered candidate set. The engine waits a bounded window after
// the first candidate because one physical motion can emit several raw
// events, then either auto-resolves or asks the user to pick.
package capture
