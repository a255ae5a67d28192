package binding

import "github.com/muurk/joybind/internal/profile"

// Conflict reports another action already bound to the same canonical input.
// Conflicts are advisory: the game resolves duplicate bindings by context,
// so they are shown to the user but never block a save.
type Conflict struct {
	ActionMap      string
	ActionMapLabel string
	Action         string
	ActionLabel    string
	IsDefault      bool
}

// FindConflicts scans every action except the one being bound for bindings
// whose canonical input equals canonical. Equality of canonical strings is
// the sole conflict criterion.
func FindConflicts(maps []*profile.ActionMap, actionMap, action, canonical string) []Conflict {
	var out []Conflict
	for _, am := range maps {
		for _, a := range am.Actions {
			if am.Name == actionMap && a.Name == action {
				continue
			}
			for _, b := range a.Bindings {
				if b.Input != canonical || b.IsCleared() {
					continue
				}
				out = append(out, Conflict{
					ActionMap:      am.Name,
					ActionMapLabel: am.Label(),
					Action:         a.Name,
					ActionLabel:    a.Label(),
					IsDefault:      b.IsDefault,
				})
				break
			}
		}
	}
	return out
}
