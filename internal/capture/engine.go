package capture

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/muurk/joybind/internal/binding"
	"github.com/muurk/joybind/internal/input"
	"github.com/muurk/joybind/internal/logging"
	"github.com/muurk/joybind/internal/profile"
)

// State is a capture session's lifecycle phase. Transitions only move
// forward, except that cancel and timeout jump to Closed from anywhere.
type State string

const (
	StateIdle       State = "idle"
	StateArmed      State = "armed"
	StateCollecting State = "collecting"
	StateConfirming State = "confirming"
	StateSelecting  State = "selecting"
	StateResolved   State = "resolved"
	StateClosed     State = "closed"
)

// Timing defaults. The countdown bounds how long the user has to press
// something; the window bounds how long the engine waits for a second event
// from the same physical motion before committing to the first.
const (
	DefaultCountdown = 10 * time.Second
	DefaultWindow    = 1000 * time.Millisecond
	DefaultGrace     = 2 * time.Second
)

// Config tunes session timing. Zero values take the defaults; tests shrink
// them to keep scenarios fast.
type Config struct {
	Countdown time.Duration
	Window    time.Duration

	// Grace is how long a timed-out empty session lingers so the UI can
	// show "no input detected" before it closes itself.
	Grace time.Duration
}

func (c Config) withDefaults() Config {
	if c.Countdown <= 0 {
		c.Countdown = DefaultCountdown
	}
	if c.Window <= 0 {
		c.Window = DefaultWindow
	}
	if c.Grace <= 0 {
		c.Grace = DefaultGrace
	}
	return c
}

// Update notifies the UI of a session change. Sent on every state
// transition and candidate arrival.
type Update struct {
	SessionID string
	State     State

	// NoInput is set when the countdown elapsed with zero candidates.
	NoInput bool
}

type session struct {
	id        string
	actionMap string
	action    string
	state     State

	// candidates keeps insertion order; index deduplicates by canonical.
	candidates []input.Detected
	index      map[string]int

	selected  string
	conflicts []binding.Conflict
	noInput   bool

	stops     []func()
	countdown *time.Timer
	window    *time.Timer
	grace     *time.Timer
}

// Engine owns the single active capture session and its listeners. All
// mutation happens under one mutex; timers and source sinks re-enter
// through it and verify the session id before acting, so late callbacks
// from a previous session fall through harmlessly.
type Engine struct {
	mu      sync.Mutex
	cfg     Config
	store   profile.Store
	norm    *input.Normalizer
	sources []Source
	active  *session
	updates chan Update
}

// NewEngine creates a capture engine over the given store, normalizer, and
// event sources.
func NewEngine(store profile.Store, norm *input.Normalizer, sources []Source, cfg Config) *Engine {
	return &Engine{
		cfg:     cfg.withDefaults(),
		store:   store,
		norm:    norm,
		sources: sources,
		updates: make(chan Update, 16),
	}
}

// Updates returns the notification channel. Sends never block; a slow
// consumer loses intermediate updates, not the session itself.
func (e *Engine) Updates() <-chan Update {
	return e.updates
}

// Start opens a capture session for the given action. Only one session may
// be active; callers must cancel or save the current one first.
func (e *Engine) Start(actionMap, action string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active != nil {
		return "", ErrSessionActive
	}

	s := &session{
		id:        newSessionID(),
		actionMap: actionMap,
		action:    action,
		state:     StateIdle,
		index:     make(map[string]int),
	}
	e.active = s
	e.transition(s, StateArmed)

	// Arm all sources. A source that fails to start aborts the session and
	// releases the ones already armed.
	for _, src := range e.sources {
		stop, err := src.Start(s.id, e.ingest)
		if err != nil {
			e.close(s)
			return "", fmt.Errorf("failed to arm capture source: %w", err)
		}
		s.stops = append(s.stops, stop)
	}

	e.transition(s, StateCollecting)
	id := s.id
	s.countdown = time.AfterFunc(e.cfg.Countdown, func() { e.onCountdown(id) })
	return s.id, nil
}

// Candidates returns the session's collected candidates in insertion order.
func (e *Engine) Candidates(sessionID string) ([]input.Detected, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, err := e.session(sessionID)
	if err != nil {
		return nil, err
	}
	out := make([]input.Detected, len(s.candidates))
	copy(out, s.candidates)
	return out, nil
}

// State returns the session's current state.
func (e *Engine) State(sessionID string) (State, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, err := e.session(sessionID)
	if err != nil {
		return StateClosed, err
	}
	return s.state, nil
}

// Selected returns the canonical string the session has settled on, empty
// until Resolved (or pre-selected in Selecting).
func (e *Engine) Selected(sessionID string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, err := e.session(sessionID)
	if err != nil {
		return "", err
	}
	return s.selected, nil
}

// Conflicts returns the advisory conflicts found for the resolved candidate.
func (e *Engine) Conflicts(sessionID string) ([]binding.Conflict, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, err := e.session(sessionID)
	if err != nil {
		return nil, err
	}
	return s.conflicts, nil
}

// Select picks one collected candidate while the session is in Selecting.
func (e *Engine) Select(sessionID, canonical string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, err := e.session(sessionID)
	if err != nil {
		return err
	}
	if s.state != StateSelecting {
		return ErrNotSelectable
	}
	if _, ok := s.index[canonical]; !ok {
		return ErrUnknownCandidate
	}
	e.resolve(s, canonical)
	return nil
}

// Save commits the selected candidate through the profile store, closes the
// session, and returns the advisory conflicts. A store failure leaves the
// session open so the user can retry.
func (e *Engine) Save(sessionID string, upd profile.Update) ([]binding.Conflict, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, err := e.session(sessionID)
	if err != nil {
		return nil, err
	}
	if s.selected == "" {
		return nil, ErrNothingSelected
	}

	if upd.DisplayName == "" {
		if i, ok := s.index[s.selected]; ok {
			upd.DisplayName = s.candidates[i].DisplayName
		}
	}
	if err := e.store.UpdateBinding(s.actionMap, s.action, s.selected, upd); err != nil {
		return nil, fmt.Errorf("failed to save binding: %w", err)
	}

	conflicts := s.conflicts
	e.close(s)
	return conflicts, nil
}

// Cancel closes the session from any state.
func (e *Engine) Cancel(sessionID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, err := e.session(sessionID)
	if err != nil {
		return err
	}
	e.close(s)
	return nil
}

// ingest is the shared sink for all sources.
func (e *Engine) ingest(ev RawEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.active
	if s == nil || ev.SessionID != s.id {
		activeID := ""
		if s != nil {
			activeID = s.id
		}
		logging.LogStaleEvent(ev.SessionID, activeID, "")
		return
	}
	if s.noInput || s.state == StateResolved || s.state == StateClosed {
		return
	}

	if ev.Complete {
		// The backend finished its own collection pass. If we are waiting
		// out the disambiguation window, there is nothing more to wait for.
		if s.state == StateConfirming {
			e.resolve(s, s.candidates[len(s.candidates)-1].Canonical)
		}
		return
	}

	det, ok := e.normalize(ev)
	if !ok {
		return
	}
	e.accept(s, det)
}

func (e *Engine) normalize(ev RawEvent) (input.Detected, bool) {
	switch {
	case ev.Key != nil:
		return e.norm.NormalizeKey(*ev.Key)
	case ev.Mouse != nil:
		return e.norm.NormalizeMouse(*ev.Mouse)
	case ev.Device != nil:
		return e.norm.NormalizeDevice(*ev.Device)
	}
	return input.Detected{}, false
}

// accept adds a candidate and advances the state machine.
func (e *Engine) accept(s *session, det input.Detected) {
	if _, dup := s.index[det.Canonical]; dup {
		return
	}

	logging.LogDetectedInput(s.id, det.Canonical, det.DeviceUUID, modifierNames(det.Modifiers))
	s.index[det.Canonical] = len(s.candidates)
	s.candidates = append(s.candidates, det)

	switch s.state {
	case StateCollecting:
		// First candidate: stop the countdown and wait one bounded window
		// for a second event from the same physical motion. A hat switch
		// can report both a generic button and a hat code for one press;
		// committing to the first immediately would bind the wrong control.
		stopTimer(s.countdown)
		e.transition(s, StateConfirming)
		id := s.id
		s.window = time.AfterFunc(e.cfg.Window, func() { e.onWindow(id) })

	case StateConfirming:
		first := s.candidates[0]
		if first.IsModifier && heldIncludes(det, first.Canonical) {
			// The first candidate was a bare modifier still held when the
			// second input arrived: that is one chord, not an ambiguity.
			stopTimer(s.window)
			e.resolve(s, det.Canonical)
			return
		}
		stopTimer(s.window)
		e.transition(s, StateSelecting)
		s.selected = det.Canonical
		e.notify(s, false)

	case StateSelecting:
		// Listeners stay armed; later inputs join the choices with the
		// newest pre-selected.
		s.selected = det.Canonical
		e.notify(s, false)
	}
}

// onCountdown fires when the initial countdown elapses.
func (e *Engine) onCountdown(sessionID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.active
	if s == nil || s.id != sessionID || s.state != StateCollecting {
		return
	}
	// Nothing was pressed. Surface the status and linger briefly so the UI
	// can show it, then close.
	s.noInput = true
	e.notify(s, true)
	id := s.id
	s.grace = time.AfterFunc(e.cfg.Grace, func() { e.onGrace(id) })
}

// onWindow fires when the disambiguation window elapses with no second
// candidate: the sole candidate wins.
func (e *Engine) onWindow(sessionID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.active
	if s == nil || s.id != sessionID || s.state != StateConfirming {
		return
	}
	e.resolve(s, s.candidates[len(s.candidates)-1].Canonical)
}

func (e *Engine) onGrace(sessionID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.active
	if s == nil || s.id != sessionID {
		return
	}
	e.close(s)
}

// resolve settles the session on a candidate and runs the conflict scan.
// The scan happens once per resolution, not per keystroke.
func (e *Engine) resolve(s *session, canonical string) {
	s.selected = canonical
	s.conflicts = binding.FindConflicts(e.store.Load(), s.actionMap, s.action, canonical)
	e.transition(s, StateResolved)
}

// close releases every session resource. Idempotent: save, cancel, timeout,
// and error paths all funnel through here, and they can race.
func (e *Engine) close(s *session) {
	if s.state == StateClosed {
		return
	}
	for _, stop := range s.stops {
		stop()
	}
	s.stops = nil
	stopTimer(s.countdown)
	stopTimer(s.window)
	stopTimer(s.grace)
	e.transition(s, StateClosed)
	if e.active == s {
		e.active = nil
	}
}

func (e *Engine) session(sessionID string) (*session, error) {
	if e.active == nil || e.active.id != sessionID {
		return nil, ErrNoSession
	}
	return e.active, nil
}

func (e *Engine) transition(s *session, to State) {
	logging.LogSessionTransition(s.id, string(s.state), string(to))
	s.state = to
	e.notify(s, false)
}

func (e *Engine) notify(s *session, noInput bool) {
	select {
	case e.updates <- Update{SessionID: s.id, State: s.state, NoInput: noInput}:
	default:
	}
}

// heldIncludes reports whether the detected input's held modifiers include
// the modifier named by a bare-modifier canonical string such as "kb1_lalt".
func heldIncludes(det input.Detected, modifierCanonical string) bool {
	_, rest, ok := input.SplitCanonical(modifierCanonical)
	if !ok {
		return false
	}
	m, ok := input.ParseModifier(rest)
	if !ok {
		return false
	}
	for _, held := range det.Modifiers {
		if held == m {
			return true
		}
	}
	return false
}

func modifierNames(mods []input.Modifier) []string {
	out := make([]string, len(mods))
	for i, m := range mods {
		out[i] = string(m)
	}
	return out
}

func stopTimer(t *time.Timer) {
	if t != nil {
		t.Stop()
	}
}

func newSessionID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("s%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}
