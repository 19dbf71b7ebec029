// internal/baserun/transit.go
package baserun

import (
	"errors"
	"fmt"

	"github.com/diamondsim/playres/internal/field"
	"github.com/diamondsim/playres/internal/players"
	"github.com/diamondsim/playres/pkg/core"
)

// ErrInvalidBasePath flags a transit request between bases with no legal
// forward path. This is corrupted runner state, not a gameplay outcome,
// and callers must not swallow it.
var ErrInvalidBasePath = errors.New("no base path defined")

// pathLegs returns the number of 90-foot legs from one base to the next
// in running order. The target home is the scoring target, so a runner
// starting at home (the batter) circling back to home runs four legs.
func pathLegs(from, to core.Base) (int, error) {
	if !from.Valid() {
		return 0, fmt.Errorf("%w: from %q", ErrInvalidBasePath, from)
	}
	if !to.Valid() {
		return 0, fmt.Errorf("%w: to %q", ErrInvalidBasePath, to)
	}
	start := from.Order()
	target := to.Order()
	if to == core.BaseHome {
		target = 4
	}
	if target <= start {
		return 0, fmt.Errorf("%w: %s -> %s is not a forward path", ErrInvalidBasePath, from, to)
	}
	return target - start, nil
}

// TransitOptions qualify one transit-time computation.
type TransitOptions struct {
	// Leadoff subtracts the standing lead from the first leg. Applies to
	// runners already on base, never the batter-runner.
	Leadoff bool
}

// TransitTime returns the simulated seconds a runner needs to travel from
// one base to another: a fixed reaction offset plus a two-phase
// (acceleration, constant-velocity) kinematic solve. Paths crossing an
// intermediate base pay a turn-retention penalty on top speed.
func TransitTime(r *core.Runner, from, to core.Base, opts TransitOptions) (float64, error) {
	legs, err := pathLegs(from, to)
	if err != nil {
		return 0, err
	}

	dist := float64(legs) * field.BasePathLength
	if opts.Leadoff {
		dist -= players.LeadoffDistance
	}

	topSpeed := players.TopRunSpeed(r)
	if legs >= 2 {
		topSpeed *= players.TurnRetention(r)
	}

	return players.RunReaction(r) + players.SprintTime(dist, players.RunAcceleration(r), topSpeed), nil
}
