// Package server implements the joybind input agent.
//
// The agent is the process with device access. It wraps a Backend (the
// source of device enumeration and raw input events) and exposes it to
// binder clients over HTTP:
//
//	GET  /api/devices  - current enumeration, in enumeration order
//	GET  /api/health   - liveness probe
//	GET  /api/events   - websocket event stream
//
// # Detection Passes
//
// The event stream is command driven. A client sends start_detection with
// its capture session id; the agent then broadcasts every backend event as
// detected_input tagged with that id. A pass ends when the countdown
// elapses with no input, or one collection window after the first input,
// at which point the agent broadcasts detection_complete. stop_detection
// ends a pass early without a completion signal.
//
// Only one detection pass runs at a time; a new start_detection supersedes
// the previous pass. Events arriving outside a pass are dropped at the
// source rather than broadcast.
//
// # Backends
//
// Two backends ship with the agent: a replay backend that loops a JSONL
// capture file, and a synthetic backend driven by a script plus explicit
// Feed calls. Both exist so the binder can be developed and tested without
// joystick hardware; a hardware backend implements the same two-method
// interface.
//
// # Graceful Shutdown
//
// The agent handles SIGINT and SIGTERM: it stops the backend stream,
// disconnects event stream clients, and drains the HTTP server before
// exiting.
package server
