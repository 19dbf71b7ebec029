// internal/intercept/searcher.go
package intercept

import (
	"math/rand"

	"github.com/diamondsim/playres/internal/field"
	"github.com/diamondsim/playres/internal/players"
	"github.com/diamondsim/playres/internal/trajectory"
	"github.com/diamondsim/playres/pkg/core"
)

// Search calibration. These are calibration constants, not tunables: they
// keep fielder assignment realistic at the extremes.
const (
	airSamples    = 50
	groundSamples = 40

	// The first slice of flight is excluded so nothing "catches" a ball
	// an instant after contact.
	earlySkipCap   = 0.15
	earlySkipShare = 0.10

	// Beyond this run distance a candidate needs spare time; inside it a
	// dead-even arrival is enough.
	farRunDistance = 200.0
	farRunMargin   = 0.05

	// Air-catch eligibility.
	grabHeight     = 2.5
	maxReachHeight = 10.0

	// Infielders never get credited with balls carrying deep.
	infielderCarryLimit = 250.0

	// A fielder standing on the landing spot makes the play every time.
	trivialDistance = 1.0

	// Balls stopping past this distance belong to the outfield.
	outfieldDepth = 180.0
)

// Searcher runs interception searches. The random source drives catch
// probability rolls only; fix the seed for reproducible plays.
type Searcher struct {
	rng *rand.Rand
}

// NewSearcher creates a searcher around an injected random source.
func NewSearcher(rng *rand.Rand) *Searcher {
	return &Searcher{rng: rng}
}

// SearchAir decides whether a ball in flight is caught, by whom, and
// when. It samples the flight at a fixed step, skipping the early window,
// and at each sample asks every eligible fielder whether they beat the
// ball to that point. Among candidates the largest time margin wins the
// sample; the winner still has to convert a probabilistic catch roll, and
// a dropped roll lets the scan continue to later samples and other
// fielders. Returns nil if the ball is not caught in flight.
func (s *Searcher) SearchAir(flight *trajectory.Flight, ball *core.BattedBall, defense map[core.DefensivePosition]*core.Fielder) *core.InterceptionResult {
	// Trivial interception: someone is already standing where the ball
	// comes down.
	landing := flight.End()
	for _, f := range defense {
		if f.Position.Infield() && ball.Distance > infielderCarryLimit {
			continue
		}
		if field.Distance(f.Location, landing) < trivialDistance {
			return &core.InterceptionResult{
				Fielder:   f,
				Time:      flight.EndTime(),
				Position:  landing,
				Mechanism: core.MechanismAirCatch,
				Margin:    flight.Duration(),
			}
		}
	}

	duration := flight.Duration()
	skip := earlySkipShare * duration
	if skip > earlySkipCap {
		skip = earlySkipCap
	}

	for i := 0; i < airSamples; i++ {
		t := flight.StartTime() + duration*float64(i)/float64(airSamples-1)
		if t-flight.StartTime() < skip {
			continue
		}

		pos := flight.PositionAt(t)
		if pos.Z < grabHeight {
			continue // below an air catch; the ground phase owns it
		}

		ground := core.FieldPosition{X: pos.X, Y: pos.Y}

		var best *core.Fielder
		var bestMargin, bestRun float64
		for _, f := range defense {
			if f.Position.Infield() {
				if ball.Distance > infielderCarryLimit {
					continue
				}
				if pos.Z > maxReachHeight {
					continue
				}
			}

			run := field.Distance(f.Location, ground)
			margin := t - players.TimeToReach(f, ground)

			minMargin := 0.0
			if run > farRunDistance {
				minMargin = farRunMargin
			}
			if margin < minMargin {
				continue
			}
			if best == nil || margin > bestMargin {
				best = f
				bestMargin = margin
				bestRun = run
			}
		}
		if best == nil {
			continue
		}

		if s.rng.Float64() < players.CatchProbability(bestMargin, bestRun) {
			return &core.InterceptionResult{
				Fielder:   best,
				Time:      t,
				Position:  pos,
				Mechanism: core.MechanismAirCatch,
				Margin:    bestMargin,
			}
		}
		// Dropped; keep scanning later samples.
	}
	return nil
}

// SearchGround decides whether a grounded ball is fielded before it gets
// through. It samples the post-landing path and evaluates, per fielder,
// a pickup at the landing spot or an intercept mid-roll, keeping the
// option with the best margin. When the ball is clearly through to the
// outfield, outfielders get first claim; earliest time then largest
// margin break remaining ties. Returns nil if nobody can cut it off.
//
// Catches on the descent never originate here: SearchAir has already
// scanned the full airborne path by the time this runs, so every
// candidate is a pickup or a roll intercept.
func (s *Searcher) SearchGround(path *trajectory.Flight, defense map[core.DefensivePosition]*core.Fielder) *core.InterceptionResult {
	stop := path.End()
	outfieldBall := field.DistanceFromHome(stop) > outfieldDepth

	pick := func(outfieldersOnly bool) *core.InterceptionResult {
		var best *core.InterceptionResult
		for i := 0; i < groundSamples; i++ {
			t := path.StartTime() + path.Duration()*float64(i)/float64(groundSamples-1)
			pos := path.PositionAt(t)
			ground := core.FieldPosition{X: pos.X, Y: pos.Y}

			for _, f := range defense {
				if outfieldersOnly && f.Position.Infield() {
					continue
				}
				margin := t - players.TimeToReach(f, ground)
				if margin < 0 {
					continue
				}

				mech := core.MechanismRollIntercept
				if i == 0 {
					mech = core.MechanismGroundPickup
				}
				cand := &core.InterceptionResult{
					Fielder:   f,
					Time:      t + players.ControlTime(f),
					Position:  ground,
					Mechanism: mech,
					Margin:    margin,
				}
				if best == nil || cand.Time < best.Time || (cand.Time == best.Time && cand.Margin > best.Margin) {
					best = cand
				}
			}
			if best != nil {
				// Earliest sample with any candidate wins; later samples
				// can only be later in time.
				break
			}
		}
		return best
	}

	if outfieldBall {
		if res := pick(true); res != nil {
			return res
		}
	}
	return pick(false)
}

// Retrieve finds who runs the ball down after it gets through, and when
// they have it. The ball is chased to its stopping point; the fielder
// with the earliest arrival gets it, no race involved.
func Retrieve(path *trajectory.Flight, defense map[core.DefensivePosition]*core.Fielder) (*core.Fielder, float64, core.FieldPosition) {
	stop := path.End()

	var best *core.Fielder
	bestTime := 0.0
	for _, f := range defense {
		arrival := players.TimeToReach(f, stop)
		if arrival < path.EndTime() {
			arrival = path.EndTime()
		}
		if best == nil || arrival < bestTime {
			best = f
			bestTime = arrival
		}
	}
	return best, bestTime, stop
}
