// internal/play/engine.go
package play

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/diamondsim/playres/internal/baserun"
	"github.com/diamondsim/playres/internal/field"
	"github.com/diamondsim/playres/internal/intercept"
	"github.com/diamondsim/playres/internal/players"
	"github.com/diamondsim/playres/internal/trajectory"
	"github.com/diamondsim/playres/pkg/core"
)

var (
	// ErrTooManyOuts flags a play started with the inning already over.
	ErrTooManyOuts = errors.New("play started with three outs")

	// ErrFoulBall is returned for balls landing in foul territory; the
	// at-bat continues and no play is resolved.
	ErrFoulBall = errors.New("foul ball")
)

// Interceptor finds fielder-ball meetings. The engine treats it as an
// optional collaborator: when absent, plays fall back to a conservative
// single.
type Interceptor interface {
	SearchAir(flight *trajectory.Flight, ball *core.BattedBall, defense map[core.DefensivePosition]*core.Fielder) *core.InterceptionResult
	SearchGround(path *trajectory.Flight, defense map[core.DefensivePosition]*core.Fielder) *core.InterceptionResult
}

// HitClassifier buckets uncaught balls into hit types. Also optional;
// absent, every uncaught ball is a single.
type HitClassifier interface {
	Classify(ball *core.BattedBall, batter *core.Runner, retriever *core.Fielder, retrievalTime float64) core.Outcome
}

// Engine calibration.
const (
	// Infield fly: high pop-up landing in the infield with first and
	// second occupied and fewer than two outs.
	infieldFlyHangTime = 3.5
	infieldFlyDistance = 140.0

	// A ball over the fence line needs to clear it strictly, or carry
	// well past it.
	fenceCarrySlack = 20.0

	// Launch angle below which a caught ball is a line out.
	lineDriveLaunchAngle = 18.0

	// Weak tappers in front of the plate.
	tapperDistance     = 15.0
	tapperExitVelocity = 65.0

	// Double-play chain: relay penalty and the smooth success window.
	relayPenalty     = 0.3
	relayThrowSpeed  = 130.0 // ft/s, covering fielder's turn
	dpClearMargin    = 0.2
	dpWindow         = 1.5
	dpMinProbability = 0.2

	// Spare time a batter needs to try for an inside-the-park home run.
	insideParkMargin = 1.5
)

// Config assembles an Engine.
type Config struct {
	// Seed drives every probabilistic roll in the play; two resolutions
	// with equal inputs and seeds produce identical results. Rand, when
	// set, overrides Seed.
	Seed int64
	Rand *rand.Rand

	// Race tolerances; zero values use the defaults.
	CloseTolerance float64
	SafeBias       float64

	Surface trajectory.Surface
	Logger  *slog.Logger
}

// Engine resolves one play at a time, synchronously. It owns no shared
// mutable state between plays; the runner arena is rebuilt per call.
type Engine struct {
	rng         *rand.Rand
	interceptor Interceptor
	classifier  HitClassifier
	races       *baserun.Resolver
	surface     trajectory.Surface
	logger      *slog.Logger
}

// New builds an engine with the default interception and classification
// stages wired in.
func New(cfg Config) *Engine {
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(cfg.Seed))
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	surface := cfg.Surface
	if surface == "" {
		surface = trajectory.SurfaceGrass
	}
	return &Engine{
		rng:         rng,
		interceptor: intercept.NewSearcher(rng),
		classifier:  &classifier{rng: rng},
		races:       baserun.NewResolver(cfg.CloseTolerance, cfg.SafeBias),
		surface:     surface,
		logger:      logger,
	}
}

// SetInterceptor swaps the interception stage; nil removes it and
// activates the fallback path.
func (e *Engine) SetInterceptor(i Interceptor) { e.interceptor = i }

// SetClassifier swaps the hit-classification stage; nil removes it.
func (e *Engine) SetClassifier(c HitClassifier) { e.classifier = c }

// ResolvePlay resolves one ball in play to a terminal outcome. The
// runner map is the pre-play snapshot (base -> runner, home excluded);
// the batter enters as a new runner at home. outs is the count entering
// the play and must be 0-2.
func (e *Engine) ResolvePlay(flight *trajectory.Flight, ball *core.BattedBall, defense map[core.DefensivePosition]*core.Fielder, runners map[core.Base]*core.Runner, batter *core.Runner, outs int) (*core.PlayResult, error) {
	if outs < 0 || outs > 2 {
		return nil, fmt.Errorf("%w: outs=%d", ErrTooManyOuts, outs)
	}
	if !field.IsFairTerritory(ball.Landing) {
		return nil, ErrFoulBall
	}

	batter.CurrentBase = core.BaseHome
	arena := baserun.NewArena(runners)
	result := &core.PlayResult{WallTime: time.Now()}
	result.AddEvent(0, "contact", fmt.Sprintf(
		"%s hits a %.0f mph ball at %.0f degrees toward %s",
		batter.Name, ball.ExitVelocity, ball.LaunchAngle, field.DescribeLocation(ball.Landing)))

	var err error
	if ball.Airborne() {
		err = e.resolveAir(flight, ball, defense, arena, batter, outs, result)
	} else {
		err = e.resolveGround(ball, defense, arena, batter, outs, result)
	}
	if err != nil {
		return nil, err
	}

	result.FinalRunners = arena.Snapshot()

	if total := outs + result.OutsMade; total > 3 {
		// Unreachable by construction; worth hearing about if it isn't.
		e.logger.Error("play produced more than three total outs",
			"outcome", result.Outcome, "outsBefore", outs, "outsMade", result.OutsMade)
	}
	e.logger.Debug("play resolved",
		"outcome", result.Outcome,
		"outsMade", result.OutsMade,
		"runsScored", result.RunsScored)
	return result, nil
}

func (e *Engine) resolveAir(flight *trajectory.Flight, ball *core.BattedBall, defense map[core.DefensivePosition]*core.Fielder, arena *baserun.Arena, batter *core.Runner, outs int, result *core.PlayResult) error {
	// Infield fly pre-empts everything else: batter is out by rule, the
	// runners hold, and no catch attempt is simulated.
	if ball.HangTime >= infieldFlyHangTime && ball.Distance <= infieldFlyDistance &&
		arena.Occupied(core.BaseFirst) && arena.Occupied(core.BaseSecond) && outs < 2 {
		result.OutsMade = 1
		result.AddEvent(ball.HangTime/2, "rule", "infield fly called, batter is out")
		result.AddAdvance(batter.Name, core.BaseHome, core.BaseFirst, false, true)
		result.Finalize(core.OutcomeInfieldFly)
		return nil
	}

	// Fence clearance short-circuits the interception search entirely.
	fence := field.FenceAt(ball.SprayAngle)
	if ball.Distance > fence.Distance {
		if heightAtDistance(flight, fence.Distance) > fence.Height || ball.Distance > fence.Distance+fenceCarrySlack {
			return e.homeRun(ball, arena, batter, result)
		}
	}

	if e.interceptor == nil {
		return e.fallbackSingle(arena, batter, result, "no interception stage wired")
	}

	if res := e.interceptor.SearchAir(flight, ball, defense); res != nil {
		outcome := core.OutcomeFlyOut
		if ball.LaunchAngle < lineDriveLaunchAngle {
			outcome = core.OutcomeLineOut
		}
		result.OutsMade = 1
		result.PrimaryFielder = res.Fielder
		result.AddEvent(res.Time, "catch", fmt.Sprintf(
			"%s (%s) catches the ball in %s",
			res.Fielder.Name, res.Fielder.Position, field.DescribeLocation(res.Position)))
		// Tag-up advancement is not modeled; runners hold.
		result.AddAdvance(batter.Name, core.BaseHome, core.BaseFirst, false, true)
		result.Finalize(outcome)
		return nil
	}

	result.AddEvent(ball.HangTime, "landing", fmt.Sprintf(
		"ball lands in %s", field.DescribeLocation(ball.Landing)))

	path := e.dropRoll(ball)
	return e.resolveHit(ball, path, defense, arena, batter, outs, result)
}

func (e *Engine) resolveGround(ball *core.BattedBall, defense map[core.DefensivePosition]*core.Fielder, arena *baserun.Arena, batter *core.Runner, outs int, result *core.PlayResult) error {
	if ball.Distance < tapperDistance && ball.ExitVelocity < tapperExitVelocity {
		return e.resolveTapper(ball, defense, arena, batter, outs, result)
	}

	if e.interceptor == nil {
		return e.fallbackSingle(arena, batter, result, "no interception stage wired")
	}

	path := e.dropRoll(ball)

	res := e.interceptor.SearchGround(path, defense)
	if res == nil {
		result.AddEvent(path.StartTime(), "ground", "ball gets through the infield")
		return e.resolveHit(ball, path, defense, arena, batter, outs, result)
	}

	result.PrimaryFielder = res.Fielder
	result.AddEvent(res.Time, "fielded", fmt.Sprintf(
		"%s (%s) fields the ball in %s",
		res.Fielder.Name, res.Fielder.Position, field.DescribeLocation(res.Position)))

	return e.resolveFielded(res, arena, batter, outs, result)
}

// resolveFielded runs the force/double-play chain, or the plain race to
// first when nothing is forced.
func (e *Engine) resolveFielded(res *core.InterceptionResult, arena *baserun.Arena, batter *core.Runner, outs int, result *core.PlayResult) error {
	forced := baserun.ForcedBases(arena)
	if len(forced) == 0 {
		return e.raceBatterToFirst(res, arena, batter, result, true)
	}

	leadBase := forced[0]
	target, err := leadBase.NextBase()
	if err != nil {
		return err
	}
	runner, _ := arena.At(leadBase)

	runnerTime, err := baserun.TransitTime(runner, leadBase, target, baserun.TransitOptions{Leadoff: true})
	if err != nil {
		return err
	}
	ballTime := res.Time + players.ThrowTime(res.Fielder, res.Position, field.BasePosition(target))

	verdict := e.races.Resolve(runnerTime, ballTime)
	result.AddRace(runner.Name, target, runnerTime, ballTime, string(verdict))
	if !verdict.RunnerOut() {
		// Lead runner beats the force; everyone moves up and the batter
		// takes first on the fielder's choice.
		result.AddEvent(runnerTime, "force", fmt.Sprintf(
			"%s beats the force at %s", runner.Name, target))
		e.advanceForced(arena, forced, result, ballTime)
		arena.Place(core.BaseFirst, batter)
		result.AddAdvance(batter.Name, core.BaseHome, core.BaseFirst, false, false)
		result.Finalize(core.OutcomeFieldersChoice)
		return nil
	}

	result.OutsMade = 1
	arena.Remove(leadBase)
	result.AddEvent(ballTime, "force", fmt.Sprintf(
		"force out: %s retired at %s (%s)", runner.Name, target, verdict))
	result.AddAdvance(runner.Name, leadBase, target, false, true)

	// Relay for two when the inning allows it.
	batterOut := false
	if outs+result.OutsMade < 3 {
		relayArrival := ballTime + relayPenalty +
			field.Distance(field.BasePosition(target), field.BasePosition(core.BaseFirst))/relayThrowSpeed
		batterTime, err := baserun.TransitTime(batter, core.BaseHome, core.BaseFirst, baserun.TransitOptions{})
		if err != nil {
			return err
		}
		margin := batterTime - relayArrival
		if e.rng.Float64() < DoublePlayProbability(margin) {
			result.OutsMade++
			batterOut = true
			result.AddEvent(relayArrival, "relay", "relay to first in time, batter retired")
			result.AddAdvance(batter.Name, core.BaseHome, core.BaseFirst, false, true)
		} else {
			result.AddEvent(relayArrival, "relay", "relay to first is late, batter safe")
		}
	}

	// Trailing runners: a force at third or home pushes everyone up a
	// base; a force at second freezes the others.
	if target == core.BaseHome || target == core.BaseThird {
		e.advanceAll(arena, result, ballTime)
	}
	if !batterOut {
		arena.Place(core.BaseFirst, batter)
		result.AddAdvance(batter.Name, core.BaseHome, core.BaseFirst, false, false)
	}

	switch result.OutsMade {
	case 2:
		result.Finalize(core.OutcomeDoublePlay)
	default:
		result.Finalize(core.OutcomeForceOut)
	}
	return nil
}

// resolveTapper handles balls dribbled a few feet in front of the plate:
// the nearest of the pitcher, catcher and corner infielders charges it
// and throws to first. The catcher stays home on balls well out in front.
func (e *Engine) resolveTapper(ball *core.BattedBall, defense map[core.DefensivePosition]*core.Fielder, arena *baserun.Arena, batter *core.Runner, outs int, result *core.PlayResult) error {
	candidates := []core.DefensivePosition{core.Pitcher, core.Catcher, core.FirstBase, core.ThirdBase}

	var fielder *core.Fielder
	bestDist := math.MaxFloat64
	for _, pos := range candidates {
		f, ok := defense[pos]
		if !ok {
			continue
		}
		if pos == core.Catcher && ball.Landing.Y > 5 {
			continue
		}
		if d := field.Distance(f.Location, ball.Landing); d < bestDist {
			fielder = f
			bestDist = d
		}
	}
	if fielder == nil {
		return e.fallbackSingle(arena, batter, result, "nobody home on the tapper")
	}

	fieldTime := 0.8 + bestDist/30
	result.PrimaryFielder = fielder
	result.AddEvent(fieldTime, "fielded", fmt.Sprintf(
		"%s (%s) charges the tapper", fielder.Name, fielder.Position))

	res := &core.InterceptionResult{
		Fielder:   fielder,
		Time:      fieldTime,
		Position:  ball.Landing,
		Mechanism: core.MechanismGroundPickup,
	}
	return e.raceBatterToFirst(res, arena, batter, result, false)
}

// raceBatterToFirst resolves the throw to first with nothing forced.
// advanceOnSingle lets runners take a base when the batter beats it out.
func (e *Engine) raceBatterToFirst(res *core.InterceptionResult, arena *baserun.Arena, batter *core.Runner, result *core.PlayResult, advanceOnSingle bool) error {
	batterTime, err := baserun.TransitTime(batter, core.BaseHome, core.BaseFirst, baserun.TransitOptions{})
	if err != nil {
		return err
	}
	ballTime := res.Time + players.ThrowTime(res.Fielder, res.Position, field.BasePosition(core.BaseFirst))

	verdict := e.races.Resolve(batterTime, ballTime)
	result.AddRace(batter.Name, core.BaseFirst, batterTime, ballTime, string(verdict))
	if verdict.RunnerOut() {
		result.OutsMade = 1
		result.AddEvent(ballTime, "putout", fmt.Sprintf(
			"throw beats %s to first (%s)", batter.Name, verdict))
		result.AddAdvance(batter.Name, core.BaseHome, core.BaseFirst, false, true)
		// Unforced runners hold on the routine ground out.
		result.Finalize(core.OutcomeGroundOut)
		return nil
	}

	result.AddEvent(batterTime, "safe", fmt.Sprintf(
		"%s beats the throw to first (%s)", batter.Name, verdict))
	if advanceOnSingle {
		e.advanceAll(arena, result, ballTime)
	}
	arena.Place(core.BaseFirst, batter)
	result.AddAdvance(batter.Name, core.BaseHome, core.BaseFirst, false, false)
	result.Finalize(core.OutcomeSingle)
	return nil
}

// resolveHit classifies an uncaught ball and runs every runner's
// independent advancement race against the ball's return.
func (e *Engine) resolveHit(ball *core.BattedBall, path *trajectory.Flight, defense map[core.DefensivePosition]*core.Fielder, arena *baserun.Arena, batter *core.Runner, outs int, result *core.PlayResult) error {
	retriever, retrievalTime, retrievedAt := intercept.Retrieve(path, defense)

	hit := core.OutcomeSingle
	if e.classifier != nil {
		hit = e.classifier.Classify(ball, batter, retriever, retrievalTime)
	} else {
		result.AddEvent(retrievalTime, "fallback", "no hit classifier wired, scoring a single")
	}

	if retriever != nil {
		result.AddEvent(retrievalTime, "retrieve", fmt.Sprintf(
			"%s (%s) runs the ball down in %s",
			retriever.Name, retriever.Position, field.DescribeLocation(retrievedAt)))
	}

	// A triple with the ball still in the gap can become four bases.
	if hit == core.OutcomeTriple && retriever != nil {
		around, err := baserun.TransitTime(batter, core.BaseHome, core.BaseHome, baserun.TransitOptions{})
		if err != nil {
			return err
		}
		if around+insideParkMargin < baserun.ArrivalAt(retriever, retrievedAt, retrievalTime, core.BaseHome) {
			result.AddEvent(around, "run", fmt.Sprintf("%s comes all the way around", batter.Name))
			return e.homeRun(ball, arena, batter, result)
		}
	}

	target, ok := baserun.BatterTarget(hit)
	if !ok {
		target = core.BaseFirst
		hit = core.OutcomeSingle
	}

	// Lead runners decide first so nobody runs into an occupied base.
	for _, base := range arena.OccupiedBases() {
		if outs+result.OutsMade >= 3 {
			break
		}
		runner, okAt := arena.At(base)
		if !okAt {
			continue
		}
		dest := baserun.DecideAdvance(runner, base, hit, ball.Landing, retriever, outs+result.OutsMade)
		runnerTime, err := baserun.TransitTime(runner, base, dest, baserun.TransitOptions{Leadoff: true})
		if err != nil {
			return err
		}

		safe := true
		if retriever != nil {
			ballTime := baserun.ArrivalAt(retriever, retrievedAt, retrievalTime, dest)
			verdict := e.races.Resolve(runnerTime, ballTime)
			result.AddRace(runner.Name, dest, runnerTime, ballTime, string(verdict))
			if verdict.RunnerOut() {
				safe = false
				result.OutsMade++
				arena.Remove(base)
				result.AddEvent(ballTime, "putout", fmt.Sprintf(
					"%s thrown out at %s (%s)", runner.Name, dest, verdict))
				result.AddAdvance(runner.Name, base, dest, false, true)
			}
		}
		if !safe {
			continue
		}

		if dest == core.BaseHome {
			result.RunsScored++
			arena.Remove(base)
			result.AddEvent(runnerTime, "run", fmt.Sprintf("%s scores", runner.Name))
			result.AddAdvance(runner.Name, base, core.BaseHome, true, false)
		} else if dest != base {
			arena.Move(base, dest)
			result.AddEvent(runnerTime, "advance", fmt.Sprintf(
				"%s advances to %s", runner.Name, dest))
			result.AddAdvance(runner.Name, base, dest, false, false)
		}
	}

	batterTime, err := baserun.TransitTime(batter, core.BaseHome, target, baserun.TransitOptions{})
	if err != nil {
		return err
	}
	arena.Place(target, batter)
	result.AddEvent(batterTime, "advance", fmt.Sprintf(
		"%s reaches %s with a %s", batter.Name, target, hit))
	result.AddAdvance(batter.Name, core.BaseHome, target, false, false)
	result.Finalize(hit)
	return nil
}

// homeRun clears the bases. Runs are the batter plus every runner on.
func (e *Engine) homeRun(ball *core.BattedBall, arena *baserun.Arena, batter *core.Runner, result *core.PlayResult) error {
	runs := 1 + arena.Len()
	for _, base := range arena.OccupiedBases() {
		runner, ok := arena.At(base)
		if !ok {
			continue
		}
		result.AddEvent(ball.HangTime, "run", fmt.Sprintf("%s scores from %s", runner.Name, base))
		result.AddAdvance(runner.Name, base, core.BaseHome, true, false)
		arena.Remove(base)
	}
	result.RunsScored = runs
	result.AddEvent(ball.HangTime, "run", fmt.Sprintf(
		"%s homers, %.0f feet", batter.Name, ball.Distance))
	result.AddAdvance(batter.Name, core.BaseHome, core.BaseHome, true, false)
	result.Finalize(core.OutcomeHomeRun)
	return nil
}

// fallbackSingle is the deterministic floor under every missing
// collaborator: batter to first, everyone else up one base.
func (e *Engine) fallbackSingle(arena *baserun.Arena, batter *core.Runner, result *core.PlayResult, reason string) error {
	result.AddEvent(0, "fallback", reason+", defaulting to a single")
	e.advanceAll(arena, result, 0)
	arena.Place(core.BaseFirst, batter)
	result.AddAdvance(batter.Name, core.BaseHome, core.BaseFirst, false, false)
	result.Finalize(core.OutcomeSingle)
	return nil
}

// advanceAll moves every runner up exactly one base, lead runner first;
// runners on third score.
func (e *Engine) advanceAll(arena *baserun.Arena, result *core.PlayResult, at float64) {
	e.advanceBases(arena, arena.OccupiedBases(), result, at)
}

// advanceForced moves only the forced runners up one base each.
func (e *Engine) advanceForced(arena *baserun.Arena, forced []core.Base, result *core.PlayResult, at float64) {
	e.advanceBases(arena, forced, result, at)
}

func (e *Engine) advanceBases(arena *baserun.Arena, bases []core.Base, result *core.PlayResult, at float64) {
	for _, base := range bases {
		runner, ok := arena.At(base)
		if !ok {
			continue
		}
		next, err := base.NextBase()
		if err != nil {
			continue
		}
		if next == core.BaseHome {
			result.RunsScored++
			arena.Remove(base)
			result.AddEvent(at, "run", fmt.Sprintf("%s scores", runner.Name))
			result.AddAdvance(runner.Name, base, core.BaseHome, true, false)
			continue
		}
		arena.Move(base, next)
		result.AddEvent(at, "advance", fmt.Sprintf("%s advances to %s", runner.Name, next))
		result.AddAdvance(runner.Name, base, next, false, false)
	}
}

// DoublePlayProbability is the pure success model for turning two.
// margin is the batter's arrival minus the relay's arrival at first;
// positive means the defense has time in hand. Success is certain past
// a clear margin and decays smoothly through the extended window rather
// than cutting off.
func DoublePlayProbability(margin float64) float64 {
	switch {
	case margin >= dpClearMargin:
		return 1
	case margin > dpClearMargin-dpWindow:
		return 1 - ((dpClearMargin-margin)/dpWindow)*(1-dpMinProbability)
	default:
		return 0
	}
}

// dropRoll continues an uncaught ball along the ground from its landing
// point. Touchdown velocity is reconstructed from the flight summaries.
func (e *Engine) dropRoll(ball *core.BattedBall) *trajectory.Flight {
	hang := ball.HangTime
	if hang < 0.25 {
		hang = 0.25
	}
	horizontal := ball.Distance / hang
	rad := ball.SprayAngle * math.Pi / 180
	vel := core.FieldPosition{
		X: horizontal * math.Sin(rad),
		Y: horizontal * math.Cos(rad),
		Z: -16.087 * hang, // half gravity: symmetric descent speed
	}
	return trajectory.SimulateRoll(ball.Landing, ball.HangTime, vel, 0, e.surface).Path
}

// heightAtDistance interpolates the ball's height when it first crosses
// a horizontal distance from home.
func heightAtDistance(flight *trajectory.Flight, dist float64) float64 {
	const steps = 100
	for i := 0; i <= steps; i++ {
		t := flight.StartTime() + flight.Duration()*float64(i)/steps
		p := flight.PositionAt(t)
		if field.DistanceFromHome(p) >= dist {
			return p.Z
		}
	}
	return 0
}
