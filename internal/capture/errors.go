package capture

import "errors"

var (
	// ErrSessionActive is returned by Start while another session is open.
	// The caller must close the active session first.
	ErrSessionActive = errors.New("a capture session is already active")

	// ErrNoSession is returned when the given session id does not name the
	// active session. Late calls against a closed session land here too.
	ErrNoSession = errors.New("no such capture session")

	// ErrNotSelectable is returned by Select outside the Selecting state.
	ErrNotSelectable = errors.New("session has no selectable candidates")

	// ErrUnknownCandidate is returned by Select for a canonical string that
	// was never collected.
	ErrUnknownCandidate = errors.New("not a collected candidate")

	// ErrNothingSelected is returned by Save before a candidate is resolved
	// or selected.
	ErrNothingSelected = errors.New("no candidate selected")
)
