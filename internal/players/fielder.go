// internal/players/fielder.go
package players

import (
	"math"

	"github.com/diamondsim/playres/internal/field"
	"github.com/diamondsim/playres/pkg/core"
)

// Rating scales convert 0-100 ratings to physical units. Derived values
// are computed on demand and never cached across plays.

// ReactionDelay returns the fielder's first-step delay in seconds.
// Rating 0 -> 0.45s, rating 100 -> 0.20s.
func ReactionDelay(f *core.Fielder) float64 {
	return 0.45 - 0.25*clampRating(f.Ratings.ReactionTime)/100
}

// SprintSpeed returns the fielder's top speed in ft/s.
// Rating 0 -> 23 ft/s, rating 100 -> 30 ft/s.
func SprintSpeed(f *core.Fielder) float64 {
	return 23 + 7*clampRating(f.Ratings.TopSpeed)/100
}

// RouteFactor returns the route-efficiency multiplier applied to sprint
// speed; a perfect route loses nothing, a poor route runs a longer
// effective path.
func RouteFactor(f *core.Fielder) float64 {
	return 0.85 + 0.15*clampRating(f.Ratings.RouteEfficiency)/100
}

// RangeFactor scales how quickly the fielder gains control of a ball
// once reached.
func RangeFactor(f *core.Fielder) float64 {
	return 0.8 + 0.4*clampRating(f.Ratings.FieldingRange)/100
}

// TimeToReach returns the simulated seconds the fielder needs to reach a
// ground point from their current location: reaction delay plus distance
// over route-adjusted sprint speed.
func TimeToReach(f *core.Fielder, target core.FieldPosition) float64 {
	dist := field.Distance(f.Location, target)
	return ReactionDelay(f) + dist/(SprintSpeed(f)*RouteFactor(f))
}

// ControlTime returns the seconds needed to secure a ground ball after
// arrival, clamped to a realistic window.
func ControlTime(f *core.Fielder) float64 {
	t := 0.5 / RangeFactor(f)
	return math.Min(math.Max(t, 0.25), 0.8)
}

// ThrowSpeed returns the fielder's throw velocity in ft/s.
// Rating 0 -> 70 mph, rating 100 -> 100 mph.
func ThrowSpeed(f *core.Fielder) float64 {
	mph := 70 + 30*clampRating(f.Ratings.ArmStrength)/100
	return mph * 5280 / 3600
}

// TransferTime returns the glove-to-release time in seconds.
// Rating 0 -> 0.9s, rating 100 -> 0.45s.
func TransferTime(f *core.Fielder) float64 {
	return 0.9 - 0.45*clampRating(f.Ratings.TransferTime)/100
}

// ThrowTime returns the total seconds from securing the ball to its
// arrival at the target: transfer plus flight time.
func ThrowTime(f *core.Fielder, from, to core.FieldPosition) float64 {
	return TransferTime(f) + field.Distance(from, to)/ThrowSpeed(f)
}

// CatchProbability is the pure probability model for an airborne catch
// attempt: a function of the fielder's time margin at the meeting point
// and the distance they had to cover. Long sprints with thin margins are
// the plays that get dropped.
func CatchProbability(margin, runDistance float64) float64 {
	p := 0.55 + 0.9*margin
	if runDistance > 80 && margin < 0.5 {
		p -= 0.15
	}
	if runDistance > 120 {
		p -= 0.10
	}
	return math.Min(math.Max(p, 0.05), 0.99)
}

func clampRating(r int) float64 {
	if r < 0 {
		return 0
	}
	if r > 100 {
		return 100
	}
	return float64(r)
}
