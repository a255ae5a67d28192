// Package agent defines the wire format spoken between the binder and the
// input agent, plus the client side of that conversation.
//
// The agent is a separate process with real device access. It exposes device
// enumeration over HTTP and a websocket event stream: the client asks it to
// start detection for a capture session, the agent answers with
// detected_input events tagged with that session id, and a
// detection_complete signal when its own collection pass ends.
package agent
