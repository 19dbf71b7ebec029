// internal/players/runner.go
package players

import (
	"math"

	"github.com/diamondsim/playres/pkg/core"
)

// LeadoffDistance is the head start in feet a runner already on base
// gets on their first leg. The batter-runner gets none.
const LeadoffDistance = 8.0

// TopRunSpeed returns the runner's top speed in ft/s.
// Rating 0 -> 24 ft/s, rating 100 -> 30 ft/s.
func TopRunSpeed(r *core.Runner) float64 {
	return 24 + 6*clampRating(r.Ratings.SprintSpeed)/100
}

// RunAcceleration returns the runner's acceleration in ft/s^2.
// Rating 0 -> 12, rating 100 -> 20.
func RunAcceleration(r *core.Runner) float64 {
	return 12 + 8*clampRating(r.Ratings.Acceleration)/100
}

// RunReaction returns the runner's jump delay in seconds; higher
// baserunning IQ reads the ball earlier.
func RunReaction(r *core.Runner) float64 {
	return 0.20 - 0.10*clampRating(r.Ratings.BaserunningIQ)/100
}

// TurnRetention returns the fraction of top speed kept while rounding a
// base mid-path.
func TurnRetention(r *core.Runner) float64 {
	return 0.85 + 0.10*clampRating(r.Ratings.TurnEfficiency)/100
}

// SprintTime solves the two-phase kinematic model for covering dist feet
// from a standstill: constant acceleration up to top speed, then constant
// velocity. topSpeed may already be turn-reduced by the caller.
func SprintTime(dist, accel, topSpeed float64) float64 {
	if dist <= 0 {
		return 0
	}
	accelDist := topSpeed * topSpeed / (2 * accel)
	if dist <= accelDist {
		return math.Sqrt(2 * dist / accel)
	}
	return topSpeed/accel + (dist-accelDist)/topSpeed
}
