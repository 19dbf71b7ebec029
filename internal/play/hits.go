// internal/play/hits.go
package play

import (
	"math"
	"math/rand"

	"github.com/diamondsim/playres/internal/players"
	"github.com/diamondsim/playres/pkg/core"
)

// Hit classification thresholds, in feet / mph.
const (
	doubleDistance = 230.0
	tripleDistance = 300.0

	// The gap: spray angles where a triple can sneak between outfielders.
	gapMinSpray = 10.0
	gapMaxSpray = 50.0

	// Minimum exit velocity to leg out a triple at all.
	tripleMinExitVelocity = 88.0
)

// TripleProbability is the pure probability model for stretching a
// gap shot into a triple. It scales a distance-bracket base rate by the
// batter's speed, the converging fielder's speed, how long the ball
// takes to run down, and exit velocity. Clamped to [0, 0.95]; the random
// term is supplied by the caller's roll, not folded in here.
func TripleProbability(distance, exitVelocity, batterSpeed, fielderSpeed, retrievalTime float64) float64 {
	var base float64
	switch {
	case distance > 360:
		base = 0.55
	case distance > 330:
		base = 0.40
	case distance > tripleDistance:
		base = 0.25
	default:
		return 0
	}

	// Speed deltas from league-average ft/s.
	base += (batterSpeed - 27.0) * 0.06
	base -= (fielderSpeed - 26.5) * 0.04

	// Every extra second chasing the ball is bases for the batter.
	base += (retrievalTime - 4.0) * 0.05

	base += (exitVelocity - 95.0) * 0.005

	return math.Min(math.Max(base, 0), 0.95)
}

// classifier is the default hit classifier: contact-quality gates first,
// then distance brackets, with the probabilistic triple model on gap
// shots.
type classifier struct {
	rng *rand.Rand
}

// Classify buckets an uncaught ball into single/double/triple. Weak
// contact caps at a single no matter how far the ball rolls. Fence
// clearance is decided before classification ever runs, so home runs
// never reach here.
func (c *classifier) Classify(ball *core.BattedBall, batter *core.Runner, retriever *core.Fielder, retrievalTime float64) core.Outcome {
	if ball.Quality == core.ContactWeak {
		return core.OutcomeSingle
	}

	abs := math.Abs(ball.SprayAngle)
	inGap := abs > gapMinSpray && abs < gapMaxSpray

	if ball.Distance > tripleDistance && inGap && ball.ExitVelocity >= tripleMinExitVelocity {
		batterSpeed := players.TopRunSpeed(batter)
		fielderSpeed := 26.5
		if retriever != nil {
			fielderSpeed = players.SprintSpeed(retriever)
		}
		p := TripleProbability(ball.Distance, ball.ExitVelocity, batterSpeed, fielderSpeed, retrievalTime)
		if c.rng.Float64() < p {
			return core.OutcomeTriple
		}
	}

	if ball.Distance > doubleDistance {
		return core.OutcomeDouble
	}
	return core.OutcomeSingle
}
