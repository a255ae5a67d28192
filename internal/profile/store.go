package profile

import (
	"fmt"
	"sync"

	"github.com/muurk/joybind/internal/input"
)

// Update carries the optional attributes of a binding update.
type Update struct {
	DisplayName    string
	MultiTap       int
	ActivationMode string
}

// Store is the persistence collaborator for action maps. Implementations
// must treat the loaded snapshot as immutable: every mutation builds a new
// snapshot and publishes it wholesale, so Load callers can scan their copy
// without locking even while a capture session commits.
type Store interface {
	// Load returns the current snapshot. Callers must not modify it.
	Load() []*ActionMap

	// UpdateBinding sets the user binding for an action to the given
	// canonical input string, replacing any existing user binding of the
	// same input type.
	UpdateBinding(actionMap, action, canonical string, upd Update) error

	// ClearBinding writes an explicit cleared binding ("<prefix>_ ") for
	// the action, suppressing the default without adding an input.
	ClearBinding(actionMap, action, prefix string) error

	// ResetBinding removes all user bindings from the action, restoring
	// the defaults.
	ResetBinding(actionMap, action string) error
}

// MemoryStore is an in-memory Store. It backs tests and serves as the base
// for the file-backed store.
type MemoryStore struct {
	mu   sync.RWMutex
	maps []*ActionMap

	// onReplace, when set, is invoked with each newly published snapshot
	// while the write lock is held. The file store uses it to persist.
	onReplace func([]*ActionMap) error
}

// NewMemoryStore creates a store seeded with the given snapshot.
func NewMemoryStore(maps []*ActionMap) *MemoryStore {
	return &MemoryStore{maps: cloneMaps(maps)}
}

// Load returns the current snapshot.
func (s *MemoryStore) Load() []*ActionMap {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.maps
}

// Replace swaps in a whole new snapshot, e.g. after an external reload.
func (s *MemoryStore) Replace(maps []*ActionMap) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maps = cloneMaps(maps)
}

// UpdateBinding implements Store.
func (s *MemoryStore) UpdateBinding(actionMap, action, canonical string, upd Update) error {
	if _, _, ok := input.SplitCanonical(canonical); !ok {
		return fmt.Errorf("invalid canonical input %q", canonical)
	}
	return s.mutate(actionMap, action, func(a *Action) {
		b := Binding{
			Input:          canonical,
			InputType:      TypeForInput(canonical),
			DisplayName:    upd.DisplayName,
			MultiTap:       upd.MultiTap,
			ActivationMode: upd.ActivationMode,
		}
		a.Bindings = replaceUserBinding(a.Bindings, b)
	})
}

// ClearBinding implements Store.
func (s *MemoryStore) ClearBinding(actionMap, action, prefix string) error {
	cleared := prefix + "_ "
	if !input.IsCleared(cleared) {
		return fmt.Errorf("invalid device prefix %q", prefix)
	}
	return s.mutate(actionMap, action, func(a *Action) {
		b := Binding{Input: cleared, InputType: TypeForInput(cleared)}
		a.Bindings = replaceUserBinding(a.Bindings, b)
	})
}

// ResetBinding implements Store.
func (s *MemoryStore) ResetBinding(actionMap, action string) error {
	return s.mutate(actionMap, action, func(a *Action) {
		kept := a.Bindings[:0]
		for _, b := range a.Bindings {
			if b.IsDefault {
				kept = append(kept, b)
			}
		}
		a.Bindings = kept
	})
}

// mutate clones the snapshot, applies fn to the addressed action, and
// publishes the clone.
func (s *MemoryStore) mutate(actionMap, action string, fn func(*Action)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := cloneMaps(s.maps)
	var target *Action
	for _, m := range next {
		if m.Name != actionMap {
			continue
		}
		if a := m.FindAction(action); a != nil {
			target = a
		}
		break
	}
	if target == nil {
		return fmt.Errorf("action %s.%s not found", actionMap, action)
	}

	fn(target)

	if s.onReplace != nil {
		if err := s.onReplace(next); err != nil {
			// Persistence failed: keep the old snapshot so the caller can
			// retry without losing state.
			return err
		}
	}
	s.maps = next
	return nil
}

// replaceUserBinding inserts b among the action's bindings, replacing an
// existing non-default binding of the same input type. Defaults are never
// removed; they are suppressed by cleared bindings or shadowed by user ones.
func replaceUserBinding(bindings []Binding, b Binding) []Binding {
	for i, existing := range bindings {
		if !existing.IsDefault && existing.InputType == b.InputType {
			bindings[i] = b
			return bindings
		}
	}
	return append(bindings, b)
}
