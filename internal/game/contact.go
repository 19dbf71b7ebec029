// internal/game/contact.go
package game

import (
	"math"
	"math/rand"

	"github.com/diamondsim/playres/internal/trajectory"
	"github.com/diamondsim/playres/pkg/core"
)

// AtBatKind is the coarse plate-appearance result. Pitch sequencing is
// out of scope; the generator jumps straight to the outcome class.
type AtBatKind string

const (
	KindWalk       AtBatKind = "walk"
	KindStrikeout  AtBatKind = "strikeout"
	KindBallInPlay AtBatKind = "ball_in_play"
)

// AtBat is one generated plate appearance. Flight and Ball are set only
// for balls in play.
type AtBat struct {
	Kind   AtBatKind
	Flight *trajectory.Flight
	Ball   *core.BattedBall
}

// Plate-appearance rates and batted-ball physics calibration.
const (
	walkRate      = 0.09
	strikeoutRate = 0.22

	// Fraction of exit velocity surviving drag over the full flight.
	dragFactor = 0.80

	gravity = 32.174

	flightSamples = 50
	maxCarry      = 470.0
)

// ContactGenerator produces seeded plate appearances. Same seed, same
// sequence of at-bats.
type ContactGenerator struct {
	rng *rand.Rand
}

// NewContactGenerator creates a generator around an injected source.
func NewContactGenerator(rng *rand.Rand) *ContactGenerator {
	return &ContactGenerator{rng: rng}
}

// Next draws one plate appearance.
func (g *ContactGenerator) Next() (*AtBat, error) {
	roll := g.rng.Float64()
	switch {
	case roll < walkRate:
		return &AtBat{Kind: KindWalk}, nil
	case roll < walkRate+strikeoutRate:
		return &AtBat{Kind: KindStrikeout}, nil
	}
	return g.BallInPlay()
}

// BallInPlay draws batted-ball contact directly, bypassing the walk and
// strikeout rates. The game loop uses it to re-swing after foul balls.
func (g *ContactGenerator) BallInPlay() (*AtBat, error) {
	ev := 60 + 45*g.rng.Float64()  // mph
	la := -8 + 53*g.rng.Float64()  // degrees
	spray := -55 + 110*g.rng.Float64()

	ball := g.summarize(ev, la, spray)
	flight, err := trajectory.Synthesize(ball, flightSamples)
	if err != nil {
		return nil, err
	}
	ball.Landing = flight.End()
	return &AtBat{Kind: KindBallInPlay, Flight: flight, Ball: ball}, nil
}

// summarize turns contact parameters into scalar flight summaries with a
// drag-discounted ballistic model. Grounders get a short, flat hop.
func (g *ContactGenerator) summarize(ev, la, spray float64) *core.BattedBall {
	v := ev * 5280 / 3600 * dragFactor
	laRad := la * math.Pi / 180
	vh := v * math.Cos(laRad)

	ball := &core.BattedBall{
		ExitVelocity: ev,
		LaunchAngle:  la,
		SprayAngle:   spray,
		Quality:      core.ClassifyContact(ev),
	}

	if la < 3 {
		ball.HangTime = 0.3 + 0.3*g.rng.Float64()
		ball.PeakHeight = 1 + 2*g.rng.Float64()
		ball.Distance = vh * (0.7 + 0.8*g.rng.Float64()) * 0.9
		return ball
	}

	vz := v * math.Sin(laRad)
	ball.HangTime = 2 * vz / gravity
	ball.PeakHeight = vz * vz / (2 * gravity)
	ball.Distance = math.Min(vh*ball.HangTime, maxCarry)
	return ball
}
