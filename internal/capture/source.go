package capture

import (
	"sync"

	"github.com/muurk/joybind/internal/input"
)

// RawEvent is the tagged union delivered by capture sources. Exactly one of
// Key, Mouse, Device, or Complete is set. Every event carries the session id
// it was produced for; the engine drops events whose id does not match the
// active session, which handles late hardware callbacks after a session
// turnover.
type RawEvent struct {
	SessionID string

	Key    *input.KeyEvent
	Mouse  *input.MouseEvent
	Device *input.DeviceEvent

	// Complete marks the device backend's detection-complete signal.
	Complete bool
}

// Source delivers raw events for one capture session. Implementations are
// listeners over some input channel: terminal key presses, mouse presses, or
// the device agent's event stream.
type Source interface {
	// Start arms the source for a session. Events are tagged with sessionID
	// and handed to sink, never synchronously from within Start itself. The
	// returned stop function releases the listener and must be idempotent;
	// the engine calls it on every path into Closed.
	Start(sessionID string, sink func(RawEvent)) (stop func(), err error)
}

// PushSource is a Source fed by explicit method calls. The capture wizard
// pushes terminal key and mouse events into one, the agent client pushes
// device events into another, and tests drive the engine with them directly.
type PushSource struct {
	mu        sync.Mutex
	sessionID string
	sink      func(RawEvent)
}

// Start implements Source.
func (p *PushSource) Start(sessionID string, sink func(RawEvent)) (func(), error) {
	p.mu.Lock()
	p.sessionID = sessionID
	p.sink = sink
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		if p.sessionID == sessionID {
			p.sessionID = ""
			p.sink = nil
		}
		p.mu.Unlock()
	}, nil
}

// Key pushes a keyboard event. A no-op when the source is not armed.
func (p *PushSource) Key(ev input.KeyEvent) {
	p.push(func(id string) RawEvent { return RawEvent{SessionID: id, Key: &ev} })
}

// Mouse pushes a mouse button event.
func (p *PushSource) Mouse(ev input.MouseEvent) {
	p.push(func(id string) RawEvent { return RawEvent{SessionID: id, Mouse: &ev} })
}

// Device pushes a backend device event.
func (p *PushSource) Device(ev input.DeviceEvent) {
	p.push(func(id string) RawEvent { return RawEvent{SessionID: id, Device: &ev} })
}

// Complete pushes the backend's detection-complete signal.
func (p *PushSource) Complete() {
	p.push(func(id string) RawEvent { return RawEvent{SessionID: id, Complete: true} })
}

func (p *PushSource) push(build func(sessionID string) RawEvent) {
	p.mu.Lock()
	sink, id := p.sink, p.sessionID
	p.mu.Unlock()
	if sink == nil {
		return
	}
	sink(build(id))
}
