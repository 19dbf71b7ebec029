// internal/baserun/advance.go
package baserun

import (
	"github.com/diamondsim/playres/internal/field"
	"github.com/diamondsim/playres/internal/players"
	"github.com/diamondsim/playres/pkg/core"
)

// ForcedBases returns the bases whose runners are forced to advance with
// the batter running, lead runner first. A runner on first is always
// forced; second and third only while every base behind them is occupied.
func ForcedBases(a *Arena) []core.Base {
	var forced []core.Base
	if a.Occupied(core.BaseFirst) {
		forced = append(forced, core.BaseFirst)
		if a.Occupied(core.BaseSecond) {
			forced = append(forced, core.BaseSecond)
			if a.Occupied(core.BaseThird) {
				forced = append(forced, core.BaseThird)
			}
		}
	}

	// Lead runner first: reverse into processing order.
	for i, j := 0, len(forced)-1; i < j; i, j = i+1, j-1 {
		forced[i], forced[j] = forced[j], forced[i]
	}
	return forced
}

// batterTargets maps hit outcomes to the batter-runner's base.
var batterTargets = map[core.Outcome]core.Base{
	core.OutcomeSingle: core.BaseFirst,
	core.OutcomeDouble: core.BaseSecond,
	core.OutcomeTriple: core.BaseThird,
}

// BatterTarget returns the base a batter reaches on a hit outcome.
func BatterTarget(o core.Outcome) (core.Base, bool) {
	b, ok := batterTargets[o]
	return b, ok
}

// aggressiveness blends the ratings that drive send/hold decisions.
func aggressiveness(r *core.Runner) float64 {
	return (float64(r.Ratings.SprintSpeed) + float64(r.Ratings.BaserunningIQ)) / 2
}

// DecideAdvance picks a runner's target base after a hit. The decision
// weighs the hit type, how deep the ball was struck, the retrieving
// fielder's arm, the runner's speed and baserunning IQ, and the out
// count (two-out runners go on contact).
func DecideAdvance(r *core.Runner, from core.Base, hit core.Outcome, ballLanding core.FieldPosition, retriever *core.Fielder, outs int) core.Base {
	ballDepth := field.DistanceFromHome(ballLanding)
	agg := aggressiveness(r)
	if outs == 2 {
		agg += 15 // running on contact
	}

	armPenalty := 0.0
	if retriever != nil {
		armPenalty = float64(retriever.Ratings.ArmStrength-50) / 5 // +-10
	}
	score := agg - armPenalty

	switch hit {
	case core.OutcomeTriple, core.OutcomeHomeRun:
		return core.BaseHome
	case core.OutcomeDouble:
		switch from {
		case core.BaseThird, core.BaseSecond:
			return core.BaseHome
		default: // first
			if score >= 65 && ballDepth > 250 {
				return core.BaseHome
			}
			return core.BaseThird
		}
	default: // single
		switch from {
		case core.BaseThird:
			return core.BaseHome
		case core.BaseSecond:
			if ballDepth > 200 && score >= 50 {
				return core.BaseHome
			}
			return core.BaseThird
		default: // first
			if ballDepth > 180 && score >= 55 {
				return core.BaseThird
			}
			return core.BaseSecond
		}
	}
}

// ArrivalAt estimates when the defense can have the ball at a base,
// given where and when the ball was retrieved and who retrieved it.
func ArrivalAt(retriever *core.Fielder, retrievedAt core.FieldPosition, retrievedTime float64, base core.Base) float64 {
	return retrievedTime + players.ThrowTime(retriever, retrievedAt, field.BasePosition(base))
}
