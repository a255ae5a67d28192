package binding

import (
	"fmt"
	"sort"
	"strings"

	"github.com/muurk/joybind/internal/input"
	"github.com/muurk/joybind/internal/profile"
)

// Match is one binding found for a queried control.
type Match struct {
	ActionMap      string
	ActionMapLabel string
	Action         string
	ActionLabel    string

	// Input is the binding's canonical string as stored, before modifier
	// stripping. It records where the match came from.
	Input string

	DisplayName    string
	IsDefault      bool
	Modifiers      []input.Modifier
	MultiTap       int
	ActivationMode string
}

// Filters narrows Find results after matching.
type Filters struct {
	// HideDefaults drops default bindings from the results.
	HideDefaults bool

	// Modifier keeps only matches whose modifier set contains the named
	// modifier. Empty or "all" keeps everything.
	Modifier string
}

// Matcher looks up the bindings attached to a physical control. It reads an
// immutable snapshot on every query, so it is safe to call concurrently with
// an active capture session. Queries are a full linear scan; call frequency
// is human-paced and the data set is small.
type Matcher struct {
	load func() []*profile.ActionMap
}

// NewMatcher creates a Matcher over a snapshot source, typically
// profile.Store.Load.
func NewMatcher(load func() []*profile.ActionMap) *Matcher {
	return &Matcher{load: load}
}

// Find returns every binding matching the control ref on the given device
// prefix, sorted with user bindings before defaults and filtered per f.
func (m *Matcher) Find(ref ControlRef, devicePrefix string, f Filters) []Match {
	if ref.IsZero() {
		return nil
	}
	devicePrefix = strings.ToLower(strings.TrimSpace(devicePrefix))

	var out []Match
	for _, am := range m.load() {
		for _, a := range am.Actions {
			for _, b := range a.Bindings {
				bound, ok := normalizeBound(b.Input)
				if !ok {
					continue
				}
				if !matches(ref, devicePrefix, bound, b.IsDefault) {
					continue
				}
				out = append(out, Match{
					ActionMap:      am.Name,
					ActionMapLabel: am.Label(),
					Action:         a.Name,
					ActionLabel:    a.Label(),
					Input:          b.Input,
					DisplayName:    b.DisplayName,
					IsDefault:      b.IsDefault,
					Modifiers:      bound.modifiers,
					MultiTap:       b.MultiTap,
					ActivationMode: b.ActivationMode,
				})
			}
		}
	}

	// User bindings first, relative order preserved within each group.
	sort.SliceStable(out, func(i, j int) bool {
		return !out[i].IsDefault && out[j].IsDefault
	})

	return applyFilters(out, f)
}

// boundInput is a binding's canonical string decomposed for matching.
type boundInput struct {
	prefix    string
	base      string
	modifiers []input.Modifier
}

// normalizeBound prepares a stored canonical string for comparison:
// lower-case, modifier segment stripped, device prefix isolated. Cleared and
// malformed bindings yield ok=false and never match anything.
//
// Two layouts occur in the wild: the current "js1_lalt+button3" and a legacy
// "lalt+js1_button3" with the modifiers ahead of the device prefix. Whichever
// side fails the device-prefix pattern is the modifier segment.
func normalizeBound(in string) (boundInput, bool) {
	s := strings.ToLower(strings.TrimSpace(in))
	if s == "" {
		return boundInput{}, false
	}

	prefix, rest, ok := input.SplitCanonical(s)
	if !ok {
		// Legacy layout: peel leading modifier segments, then re-split.
		t := s
		for {
			idx := strings.Index(t, "+")
			if idx < 0 {
				break
			}
			if _, isMod := input.ParseModifier(t[:idx]); !isMod {
				break
			}
			t = t[idx+1:]
		}
		prefix, rest, ok = input.SplitCanonical(t)
		if !ok {
			return boundInput{}, false
		}
	}

	var mods []input.Modifier
	base := rest
	for {
		idx := strings.Index(base, "+")
		if idx < 0 {
			break
		}
		m, isMod := input.ParseModifier(base[:idx])
		if !isMod {
			break
		}
		mods = append(mods, m)
		base = base[idx+1:]
	}

	base = strings.TrimSpace(base)
	if base == "" {
		return boundInput{}, false
	}
	return boundInput{prefix: prefix, base: base, modifiers: input.SortModifiers(mods)}, true
}

// matches applies the per-binding match algorithm.
func matches(ref ControlRef, devicePrefix string, bound boundInput, isDefault bool) bool {
	if bound.prefix == devicePrefix {
		if ref.byNumber {
			return matchesButton(bound.base, ref.number)
		}
		return matchesString(bound.base, ref.str)
	}

	// Default bindings are recorded against slot 1 but apply to every slot
	// of the same device class. Axis names only; button numbers stay
	// slot-specific.
	if !isDefault || ref.byNumber {
		return false
	}
	bClass, bSlot, ok := input.ParsePrefix(bound.prefix)
	if !ok || bSlot != 1 {
		return false
	}
	qClass, _, ok := input.ParsePrefix(devicePrefix)
	if !ok || qClass != bClass {
		return false
	}
	ba, qa := axisName(bound.base), axisName(ref.str)
	return ba != "" && ba == qa
}

// matchesString compares an explicit descriptor against the bound base
// token, either exactly or up to a trailing "_"-suffix so a single hat id
// covers all of its sub-directions.
func matchesString(base, want string) bool {
	if base == want {
		return true
	}
	return strings.HasPrefix(base, want+"_")
}

// matchesButton reports whether the bound base token names button n. The
// token must read "button<n>" bounded by "_" or end of string, so button1
// never matches button10, and axis or hat tokens are excluded outright.
func matchesButton(base string, n int) bool {
	if strings.Contains(base, "axis") || strings.Contains(base, "hat") {
		return false
	}
	want := fmt.Sprintf("button%d", n)
	if base == want {
		return true
	}
	return strings.HasPrefix(base, want) && base[len(want)] == '_'
}

// axisName reduces a base token to its bare axis name, dropping a direction
// suffix. Button and hat tokens are not axes and reduce to "".
func axisName(base string) string {
	if base == "" || strings.HasPrefix(base, "button") || strings.HasPrefix(base, "hat") {
		return ""
	}
	base = strings.TrimSuffix(base, "_positive")
	base = strings.TrimSuffix(base, "_negative")
	return base
}

func applyFilters(matches []Match, f Filters) []Match {
	wantMod := strings.ToLower(strings.TrimSpace(f.Modifier))
	filterMod := wantMod != "" && wantMod != "all"
	if !f.HideDefaults && !filterMod {
		return matches
	}

	kept := matches[:0]
	for _, m := range matches {
		if f.HideDefaults && m.IsDefault {
			continue
		}
		if filterMod && !hasModifier(m.Modifiers, wantMod) {
			continue
		}
		kept = append(kept, m)
	}
	return kept
}

func hasModifier(mods []input.Modifier, want string) bool {
	for _, m := range mods {
		if string(m) == want {
			return true
		}
	}
	return false
}
