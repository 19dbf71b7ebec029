package play

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diamondsim/playres/internal/trajectory"
	"github.com/diamondsim/playres/pkg/core"
)

// stubInterceptor pins the interception stage to fixed results so races
// and outcome selection can be tested deterministically.
type stubInterceptor struct {
	air    *core.InterceptionResult
	ground *core.InterceptionResult
}

func (s *stubInterceptor) SearchAir(*trajectory.Flight, *core.BattedBall, map[core.DefensivePosition]*core.Fielder) *core.InterceptionResult {
	return s.air
}

func (s *stubInterceptor) SearchGround(*trajectory.Flight, map[core.DefensivePosition]*core.Fielder) *core.InterceptionResult {
	return s.ground
}

type stubClassifier struct {
	outcome core.Outcome
}

func (s *stubClassifier) Classify(*core.BattedBall, *core.Runner, *core.Fielder, float64) core.Outcome {
	return s.outcome
}

func slowRunner(name string) *core.Runner {
	return &core.Runner{Name: name, Ratings: core.RunnerRatings{
		SprintSpeed: 30, Acceleration: 30, BaserunningIQ: 30, TurnEfficiency: 50,
	}}
}

func fastRunner(name string) *core.Runner {
	return &core.Runner{Name: name, Ratings: core.RunnerRatings{
		SprintSpeed: 99, Acceleration: 99, BaserunningIQ: 99, TurnEfficiency: 99,
	}}
}

func infielder(name string, pos core.DefensivePosition) *core.Fielder {
	return &core.Fielder{Name: name, Position: pos, Ratings: core.FielderRatings{
		ReactionTime: 80, Acceleration: 80, TopSpeed: 80, RouteEfficiency: 80,
		ArmStrength: 80, ArmAccuracy: 80, TransferTime: 80, FieldingRange: 90,
	}}
}

// airBall synthesizes a flight and its summaries for a fly ball.
func airBall(t *testing.T, ev, la, spray, hang, dist, peak float64) (*trajectory.Flight, *core.BattedBall) {
	t.Helper()
	ball := &core.BattedBall{
		ExitVelocity: ev,
		LaunchAngle:  la,
		SprayAngle:   spray,
		HangTime:     hang,
		Distance:     dist,
		PeakHeight:   peak,
		Quality:      core.ClassifyContact(ev),
	}
	f, err := trajectory.Synthesize(ball, 50)
	require.NoError(t, err)
	ball.Landing = f.End()
	require.True(t, ball.Airborne(), "fixture must read as airborne")
	return f, ball
}

// groundBall builds a low liner that routes to ground-ball handling.
func groundBall(t *testing.T, ev, spray, dist float64) (*trajectory.Flight, *core.BattedBall) {
	t.Helper()
	ball := &core.BattedBall{
		ExitVelocity: ev,
		LaunchAngle:  5,
		SprayAngle:   spray,
		HangTime:     0.4,
		Distance:     dist,
		PeakHeight:   3,
		Quality:      core.ClassifyContact(ev),
	}
	f, err := trajectory.Synthesize(ball, 20)
	require.NoError(t, err)
	ball.Landing = f.End()
	require.False(t, ball.Airborne(), "fixture must read as a grounder")
	return f, ball
}

func TestResolvePlay_RejectsThreeOuts(t *testing.T) {
	e := New(Config{Seed: 1})
	flight, ball := airBall(t, 90, 30, 0, 4.0, 250, 70)

	_, err := e.ResolvePlay(flight, ball, nil, nil, fastRunner("batter"), 3)
	assert.ErrorIs(t, err, ErrTooManyOuts)

	_, err = e.ResolvePlay(flight, ball, nil, nil, fastRunner("batter"), -1)
	assert.ErrorIs(t, err, ErrTooManyOuts)
}

func TestResolvePlay_FoulBall(t *testing.T) {
	e := New(Config{Seed: 1})
	flight, ball := airBall(t, 90, 30, 40, 3.0, 150, 50)
	ball.Landing = core.FieldPosition{X: 100, Y: 20} // well outside the lines

	_, err := e.ResolvePlay(flight, ball, nil, nil, fastRunner("batter"), 0)
	assert.ErrorIs(t, err, ErrFoulBall)
}

func TestResolvePlay_InfieldFly(t *testing.T) {
	e := New(Config{Seed: 1})
	flight, ball := airBall(t, 85, 45, 0, 4.0, 100, 60)

	runners := map[core.Base]*core.Runner{
		core.BaseFirst:  slowRunner("r1"),
		core.BaseSecond: slowRunner("r2"),
	}
	res, err := e.ResolvePlay(flight, ball, nil, runners, fastRunner("batter"), 0)
	require.NoError(t, err)

	assert.Equal(t, core.OutcomeInfieldFly, res.Outcome)
	assert.Equal(t, 1, res.OutsMade)
	assert.Equal(t, 0, res.RunsScored)
	// Runners hold; the batter never reaches.
	assert.Len(t, res.FinalRunners, 2)
	assert.Equal(t, "r1", res.FinalRunners[core.BaseFirst].Name)
	assert.Equal(t, "r2", res.FinalRunners[core.BaseSecond].Name)
}

func TestResolvePlay_NotAnInfieldFlyWithTwoOuts(t *testing.T) {
	e := New(Config{Seed: 1})
	e.SetInterceptor(&stubInterceptor{}) // nothing caught, nothing fielded
	e.SetClassifier(&stubClassifier{outcome: core.OutcomeSingle})
	flight, ball := airBall(t, 85, 45, 0, 4.0, 100, 60)

	runners := map[core.Base]*core.Runner{
		core.BaseFirst:  slowRunner("r1"),
		core.BaseSecond: slowRunner("r2"),
	}
	res, err := e.ResolvePlay(flight, ball, nil, runners, fastRunner("batter"), 2)
	require.NoError(t, err)
	assert.NotEqual(t, core.OutcomeInfieldFly, res.Outcome)
}

func TestResolvePlay_HomeRunClearsBases(t *testing.T) {
	e := New(Config{Seed: 1})
	flight, ball := airBall(t, 105, 28, 0, 5.0, 430, 120)

	runners := map[core.Base]*core.Runner{
		core.BaseFirst: slowRunner("r1"),
		core.BaseThird: slowRunner("r3"),
	}
	res, err := e.ResolvePlay(flight, ball, nil, runners, fastRunner("batter"), 0)
	require.NoError(t, err)

	assert.Equal(t, core.OutcomeHomeRun, res.Outcome)
	assert.Equal(t, 3, res.RunsScored)
	assert.Equal(t, 0, res.OutsMade)
	assert.Empty(t, res.FinalRunners)
}

func TestResolvePlay_LowWallBallStaysInPlay(t *testing.T) {
	// 405 feet but on a line: under the 10-foot wall at 400, and not far
	// enough past it to assume a carry-out.
	e := New(Config{Seed: 1})
	e.SetInterceptor(&stubInterceptor{})
	e.SetClassifier(&stubClassifier{outcome: core.OutcomeDouble})
	flight, ball := airBall(t, 105, 16, 0, 4.0, 405, 40)

	res, err := e.ResolvePlay(flight, ball, map[core.DefensivePosition]*core.Fielder{}, nil, fastRunner("batter"), 0)
	require.NoError(t, err)

	assert.Equal(t, core.OutcomeDouble, res.Outcome)
	assert.Equal(t, "batter", res.FinalRunners[core.BaseSecond].Name)
}

func TestResolvePlay_FlyOutRunnersHold(t *testing.T) {
	e := New(Config{Seed: 1})
	cf := infielder("cf", core.CenterField)
	e.SetInterceptor(&stubInterceptor{air: &core.InterceptionResult{
		Fielder:   cf,
		Time:      4.0,
		Position:  core.FieldPosition{X: 10, Y: 290, Z: 6},
		Mechanism: core.MechanismAirCatch,
		Margin:    0.8,
	}})
	flight, ball := airBall(t, 95, 35, 2, 4.5, 290, 90)

	runners := map[core.Base]*core.Runner{core.BaseSecond: slowRunner("r2")}
	res, err := e.ResolvePlay(flight, ball, nil, runners, fastRunner("batter"), 1)
	require.NoError(t, err)

	assert.Equal(t, core.OutcomeFlyOut, res.Outcome)
	assert.Equal(t, 1, res.OutsMade)
	assert.Equal(t, 0, res.RunsScored)
	assert.Equal(t, cf, res.PrimaryFielder)
	assert.Equal(t, "r2", res.FinalRunners[core.BaseSecond].Name)
}

func TestResolvePlay_LowCatchIsALineOut(t *testing.T) {
	e := New(Config{Seed: 1})
	ss := infielder("ss", core.Shortstop)
	e.SetInterceptor(&stubInterceptor{air: &core.InterceptionResult{
		Fielder:   ss,
		Time:      1.1,
		Position:  core.FieldPosition{X: -30, Y: 130, Z: 5},
		Mechanism: core.MechanismAirCatch,
		Margin:    0.3,
	}})
	flight, ball := airBall(t, 100, 12, -10, 2.0, 250, 20)

	res, err := e.ResolvePlay(flight, ball, nil, nil, fastRunner("batter"), 0)
	require.NoError(t, err)
	assert.Equal(t, core.OutcomeLineOut, res.Outcome)
	assert.Equal(t, 1, res.OutsMade)
}

func TestResolvePlay_GroundDoublePlay(t *testing.T) {
	// Slow runner, slow batter, ball fielded cleanly at 1.8s: the force at
	// second and the relay to first both arrive with over a half second in
	// hand, so the turn succeeds on every seed.
	flight, ball := groundBall(t, 92, -15, 110)
	ss := infielder("ss", core.Shortstop)
	stub := &stubInterceptor{ground: &core.InterceptionResult{
		Fielder:   ss,
		Time:      1.8,
		Position:  core.FieldPosition{X: -35, Y: 110},
		Mechanism: core.MechanismGroundPickup,
		Margin:    0.5,
	}}

	for seed := int64(0); seed < 5; seed++ {
		e := New(Config{Seed: seed})
		e.SetInterceptor(stub)

		runners := map[core.Base]*core.Runner{core.BaseFirst: slowRunner("r1")}
		res, err := e.ResolvePlay(flight, ball, nil, runners, slowRunner("batter"), 0)
		require.NoError(t, err)

		assert.Equal(t, core.OutcomeDoublePlay, res.Outcome, "seed %d", seed)
		assert.Equal(t, 2, res.OutsMade)
		assert.Equal(t, 0, res.RunsScored)
		assert.Empty(t, res.FinalRunners)
		assert.Equal(t, []core.RunnerAdvance{
			{Runner: "r1", From: core.BaseFirst, To: core.BaseSecond, Out: true},
			{Runner: "batter", From: core.BaseHome, To: core.BaseFirst, Out: true},
		}, res.Advances())
	}
}

func TestResolvePlay_NoRelayWithTwoOuts(t *testing.T) {
	// Same ball as the double play, but the force already ends the inning;
	// the defense never throws to first.
	flight, ball := groundBall(t, 92, -15, 110)
	ss := infielder("ss", core.Shortstop)
	e := New(Config{Seed: 1})
	e.SetInterceptor(&stubInterceptor{ground: &core.InterceptionResult{
		Fielder:   ss,
		Time:      1.8,
		Position:  core.FieldPosition{X: -35, Y: 110},
		Mechanism: core.MechanismGroundPickup,
		Margin:    0.5,
	}})

	runners := map[core.Base]*core.Runner{core.BaseFirst: slowRunner("r1")}
	res, err := e.ResolvePlay(flight, ball, nil, runners, slowRunner("batter"), 2)
	require.NoError(t, err)

	assert.Equal(t, core.OutcomeForceOut, res.Outcome)
	assert.Equal(t, 1, res.OutsMade)
	assert.Equal(t, "batter", res.FinalRunners[core.BaseFirst].Name)
}

func TestResolvePlay_FieldersChoice(t *testing.T) {
	// The ball is fielded late enough that a fast lead runner beats the
	// force; everyone is safe and the defense settles for nothing.
	flight, ball := groundBall(t, 92, -15, 110)
	ss := infielder("ss", core.Shortstop)
	e := New(Config{Seed: 1})
	e.SetInterceptor(&stubInterceptor{ground: &core.InterceptionResult{
		Fielder:   ss,
		Time:      3.2,
		Position:  core.FieldPosition{X: -35, Y: 110},
		Mechanism: core.MechanismRollIntercept,
		Margin:    0.1,
	}})

	runners := map[core.Base]*core.Runner{core.BaseFirst: fastRunner("r1")}
	res, err := e.ResolvePlay(flight, ball, nil, runners, fastRunner("batter"), 0)
	require.NoError(t, err)

	assert.Equal(t, core.OutcomeFieldersChoice, res.Outcome)
	assert.Equal(t, 0, res.OutsMade)
	assert.Equal(t, "r1", res.FinalRunners[core.BaseSecond].Name)
	assert.Equal(t, "batter", res.FinalRunners[core.BaseFirst].Name)
}

func TestResolvePlay_GroundOutNothingForced(t *testing.T) {
	flight, ball := groundBall(t, 92, -15, 110)
	ss := infielder("ss", core.Shortstop)
	e := New(Config{Seed: 1})
	e.SetInterceptor(&stubInterceptor{ground: &core.InterceptionResult{
		Fielder:   ss,
		Time:      2.0,
		Position:  core.FieldPosition{X: -35, Y: 110},
		Mechanism: core.MechanismGroundPickup,
		Margin:    0.4,
	}})

	runners := map[core.Base]*core.Runner{core.BaseSecond: slowRunner("r2")}
	res, err := e.ResolvePlay(flight, ball, nil, runners, slowRunner("batter"), 0)
	require.NoError(t, err)

	assert.Equal(t, core.OutcomeGroundOut, res.Outcome)
	assert.Equal(t, 1, res.OutsMade)
	// Unforced runner holds on the routine out.
	assert.Equal(t, "r2", res.FinalRunners[core.BaseSecond].Name)
	assert.Len(t, res.FinalRunners, 1)
}

func TestResolvePlay_InfieldSingleAdvancesRunners(t *testing.T) {
	// Fast batter beats the long throw; the runner on second takes third.
	flight, ball := groundBall(t, 92, -15, 110)
	ss := infielder("ss", core.Shortstop)
	e := New(Config{Seed: 1})
	e.SetInterceptor(&stubInterceptor{ground: &core.InterceptionResult{
		Fielder:   ss,
		Time:      3.2,
		Position:  core.FieldPosition{X: -35, Y: 110},
		Mechanism: core.MechanismRollIntercept,
		Margin:    0.1,
	}})

	runners := map[core.Base]*core.Runner{core.BaseSecond: slowRunner("r2")}
	res, err := e.ResolvePlay(flight, ball, nil, runners, fastRunner("batter"), 0)
	require.NoError(t, err)

	assert.Equal(t, core.OutcomeSingle, res.Outcome)
	assert.Equal(t, 0, res.OutsMade)
	assert.Equal(t, "r2", res.FinalRunners[core.BaseThird].Name)
	assert.Equal(t, "batter", res.FinalRunners[core.BaseFirst].Name)
}

func TestResolvePlay_SingleScoresRunnerFromThird(t *testing.T) {
	// Clean single to right with the ball run down deep: the runner from
	// third is home long before any throw.
	e := New(Config{Seed: 1})
	e.SetInterceptor(&stubInterceptor{}) // drops in, nothing fielded
	e.SetClassifier(&stubClassifier{outcome: core.OutcomeSingle})
	flight, ball := airBall(t, 92, 20, 20, 3.0, 240, 45)

	rf := infielder("rf", core.RightField)
	rf.Location = core.FieldPosition{X: 115, Y: 245}
	defense := map[core.DefensivePosition]*core.Fielder{core.RightField: rf}

	runners := map[core.Base]*core.Runner{core.BaseThird: slowRunner("r3")}
	res, err := e.ResolvePlay(flight, ball, defense, runners, fastRunner("batter"), 0)
	require.NoError(t, err)

	assert.Equal(t, core.OutcomeSingle, res.Outcome)
	assert.Equal(t, 1, res.RunsScored)
	assert.Equal(t, 0, res.OutsMade)
	assert.Equal(t, "batter", res.FinalRunners[core.BaseFirst].Name)
	assert.NotContains(t, res.FinalRunners, core.BaseThird)
}

func TestResolvePlay_FallbackSingleWithoutStages(t *testing.T) {
	e := New(Config{Seed: 1})
	e.SetInterceptor(nil)
	e.SetClassifier(nil)
	flight, ball := airBall(t, 90, 25, 0, 3.0, 200, 40)

	runners := map[core.Base]*core.Runner{core.BaseThird: slowRunner("r3")}
	res, err := e.ResolvePlay(flight, ball, nil, runners, fastRunner("batter"), 0)
	require.NoError(t, err)

	assert.Equal(t, core.OutcomeSingle, res.Outcome)
	assert.Equal(t, 1, res.RunsScored)
	assert.Equal(t, 0, res.OutsMade)
	assert.Equal(t, "batter", res.FinalRunners[core.BaseFirst].Name)
}

func TestResolvePlay_DeterministicUnderFixedSeed(t *testing.T) {
	defense := map[core.DefensivePosition]*core.Fielder{}
	for pos, loc := range map[core.DefensivePosition]core.FieldPosition{
		core.Shortstop:   {X: -35, Y: 125},
		core.SecondBase:  {X: 35, Y: 125},
		core.CenterField: {X: 0, Y: 300},
		core.LeftField:   {X: -115, Y: 245},
	} {
		f := infielder(string(pos), pos)
		f.Location = loc
		defense[pos] = f
	}

	run := func() *core.PlayResult {
		e := New(Config{Seed: 42})
		flight, ball := airBall(t, 96, 24, -12, 4.2, 310, 75)
		runners := map[core.Base]*core.Runner{core.BaseFirst: fastRunner("r1")}
		res, err := e.ResolvePlay(flight, ball, defense, runners, fastRunner("batter"), 1)
		require.NoError(t, err)
		return res
	}

	a, b := run(), run()
	assert.Equal(t, a.Outcome, b.Outcome)
	assert.Equal(t, a.OutsMade, b.OutsMade)
	assert.Equal(t, a.RunsScored, b.RunsScored)
	assert.Equal(t, len(a.Events()), len(b.Events()))
}

func TestResolvePlay_EventsAreChronological(t *testing.T) {
	e := New(Config{Seed: 3})
	flight, ball := airBall(t, 105, 28, 0, 5.0, 430, 120)

	res, err := e.ResolvePlay(flight, ball, nil, map[core.Base]*core.Runner{
		core.BaseSecond: slowRunner("r2"),
	}, fastRunner("batter"), 0)
	require.NoError(t, err)

	events := res.Events()
	require.NotEmpty(t, events)
	for i := 1; i < len(events); i++ {
		assert.LessOrEqual(t, events[i-1].Time, events[i].Time)
	}
}

func TestDoublePlayProbability(t *testing.T) {
	tests := []struct {
		name   string
		margin float64
		want   float64
	}{
		{"comfortable", 0.5, 1},
		{"exactly clear", 0.2, 1},
		{"dead even", 0, 0.89333},
		{"batter slightly ahead", -0.4, 0.68},
		{"window edge", -1.3, 0},
		{"hopeless", -2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, DoublePlayProbability(tt.margin), 1e-4)
		})
	}
	// Monotone in the defense's favor throughout.
	for m := -2.0; m < 1.0; m += 0.1 {
		assert.GreaterOrEqual(t, DoublePlayProbability(m+0.1), DoublePlayProbability(m))
	}
}
