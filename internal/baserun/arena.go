// internal/baserun/arena.go
package baserun

import (
	"github.com/diamondsim/playres/pkg/core"
)

// processingOrder visits lead runners first so advancement decisions
// never collide with a trailing runner still occupying their base.
var processingOrder = []core.Base{core.BaseThird, core.BaseSecond, core.BaseFirst}

// Arena is the active-runner map owned by exactly one play resolution at
// a time. The base key is ground truth: a runner whose recorded base has
// drifted from its key is resynchronized on read rather than trusted.
type Arena struct {
	runners map[core.Base]*core.Runner
}

// NewArena builds an arena from a pre-play base->runner snapshot. The
// snapshot map is copied; the runner pointers are shared with the caller.
func NewArena(snapshot map[core.Base]*core.Runner) *Arena {
	a := &Arena{runners: make(map[core.Base]*core.Runner, len(snapshot))}
	for base, r := range snapshot {
		if r == nil || !base.Valid() || base == core.BaseHome {
			continue
		}
		a.runners[base] = r
	}
	return a
}

// At returns the runner on a base. The runner's recorded base is
// resynchronized to the map key before it is returned.
func (a *Arena) At(base core.Base) (*core.Runner, bool) {
	r, ok := a.runners[base]
	if !ok {
		return nil, false
	}
	if r.CurrentBase != base {
		r.CurrentBase = base
	}
	return r, true
}

// Occupied reports whether a base has a runner.
func (a *Arena) Occupied(base core.Base) bool {
	_, ok := a.runners[base]
	return ok
}

// Place puts a runner on a base, overwriting any prior occupant, and
// records the base on the runner.
func (a *Arena) Place(base core.Base, r *core.Runner) {
	r.CurrentBase = base
	a.runners[base] = r
}

// Remove takes a runner off a base (put out or scored).
func (a *Arena) Remove(base core.Base) {
	delete(a.runners, base)
}

// Move relocates a runner from one base to another.
func (a *Arena) Move(from, to core.Base) {
	r, ok := a.At(from)
	if !ok {
		return
	}
	a.Remove(from)
	a.Place(to, r)
}

// OccupiedBases returns the occupied bases lead-runner first
// (third, second, first).
func (a *Arena) OccupiedBases() []core.Base {
	out := make([]core.Base, 0, len(a.runners))
	for _, base := range processingOrder {
		if a.Occupied(base) {
			out = append(out, base)
		}
	}
	return out
}

// Len returns the number of active runners.
func (a *Arena) Len() int {
	return len(a.runners)
}

// Snapshot copies the current base->runner mapping.
func (a *Arena) Snapshot() map[core.Base]*core.Runner {
	out := make(map[core.Base]*core.Runner, len(a.runners))
	for base, r := range a.runners {
		out[base] = r
	}
	return out
}
