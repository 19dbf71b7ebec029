package game

import (
	"context"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diamondsim/playres/pkg/core"
)

type recordingEmitter struct {
	mu     sync.Mutex
	events []string
	plays  []PlayResolved
	games  []GameEnd
}

func (r *recordingEmitter) Emit(_ context.Context, name string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, name)
	switch p := payload.(type) {
	case PlayResolved:
		r.plays = append(r.plays, p)
	case GameEnd:
		r.games = append(r.games, p)
	}
}

func demoTeam(name string) *Team {
	lineup := make([]*core.Runner, 0, 9)
	for i := 0; i < 9; i++ {
		lineup = append(lineup, LeagueRunner(name+"-batter", 40+i*6))
	}
	return &Team{Name: name, Lineup: lineup, Defense: DefaultDefense()}
}

func TestApplyWalk(t *testing.T) {
	r := func(name string, base core.Base) *core.Runner {
		return &core.Runner{Name: name, CurrentBase: base}
	}

	t.Run("bases empty", func(t *testing.T) {
		bases := map[core.Base]*core.Runner{}
		scored := ApplyWalk(bases, r("batter", core.BaseHome))
		assert.False(t, scored)
		assert.Equal(t, "batter", bases[core.BaseFirst].Name)
		assert.Len(t, bases, 1)
	})

	t.Run("runner on first is pushed", func(t *testing.T) {
		bases := map[core.Base]*core.Runner{core.BaseFirst: r("r1", core.BaseFirst)}
		scored := ApplyWalk(bases, r("batter", core.BaseHome))
		assert.False(t, scored)
		assert.Equal(t, "batter", bases[core.BaseFirst].Name)
		assert.Equal(t, "r1", bases[core.BaseSecond].Name)
		assert.Equal(t, core.BaseSecond, bases[core.BaseSecond].CurrentBase)
	})

	t.Run("runner on second alone is not forced", func(t *testing.T) {
		bases := map[core.Base]*core.Runner{core.BaseSecond: r("r2", core.BaseSecond)}
		scored := ApplyWalk(bases, r("batter", core.BaseHome))
		assert.False(t, scored)
		assert.Equal(t, "batter", bases[core.BaseFirst].Name)
		assert.Equal(t, "r2", bases[core.BaseSecond].Name)
	})

	t.Run("bases loaded forces in a run", func(t *testing.T) {
		bases := map[core.Base]*core.Runner{
			core.BaseFirst:  r("r1", core.BaseFirst),
			core.BaseSecond: r("r2", core.BaseSecond),
			core.BaseThird:  r("r3", core.BaseThird),
		}
		scored := ApplyWalk(bases, r("batter", core.BaseHome))
		assert.True(t, scored)
		assert.Equal(t, "batter", bases[core.BaseFirst].Name)
		assert.Equal(t, "r1", bases[core.BaseSecond].Name)
		assert.Equal(t, "r2", bases[core.BaseThird].Name)
		assert.Len(t, bases, 3)
	})
}

func TestTeam_NextBatterWraps(t *testing.T) {
	team := &Team{Name: "x", Lineup: []*core.Runner{
		{Name: "a"}, {Name: "b"}, {Name: "c"},
	}}
	got := []string{}
	for i := 0; i < 7; i++ {
		got = append(got, team.NextBatter().Name)
	}
	assert.Equal(t, []string{"a", "b", "c", "a", "b", "c", "a"}, got)
}

func TestContactGenerator_Deterministic(t *testing.T) {
	draw := func(seed int64, n int) []AtBatKind {
		g := NewContactGenerator(rand.New(rand.NewSource(seed)))
		kinds := make([]AtBatKind, 0, n)
		for i := 0; i < n; i++ {
			ab, err := g.Next()
			require.NoError(t, err)
			kinds = append(kinds, ab.Kind)
		}
		return kinds
	}
	assert.Equal(t, draw(9, 50), draw(9, 50))
}

func TestContactGenerator_ProducesAllKinds(t *testing.T) {
	g := NewContactGenerator(rand.New(rand.NewSource(2)))
	seen := map[AtBatKind]int{}
	for i := 0; i < 500; i++ {
		ab, err := g.Next()
		require.NoError(t, err)
		seen[ab.Kind]++
		if ab.Kind == KindBallInPlay {
			require.NotNil(t, ab.Flight)
			require.NotNil(t, ab.Ball)
			assert.GreaterOrEqual(t, ab.Ball.ExitVelocity, 60.0)
			assert.Less(t, ab.Ball.ExitVelocity, 105.0)
			assert.Greater(t, ab.Ball.Distance, 0.0)
		} else {
			assert.Nil(t, ab.Ball)
		}
	}
	assert.Positive(t, seen[KindWalk])
	assert.Positive(t, seen[KindStrikeout])
	assert.Positive(t, seen[KindBallInPlay])
	// Balls in play dominate at these rates.
	assert.Greater(t, seen[KindBallInPlay], seen[KindWalk]+seen[KindStrikeout])
}

func TestSimulator_RunCompletesAGame(t *testing.T) {
	emitter := &recordingEmitter{}
	sim, err := NewSeededSimulator(11, emitter, nil)
	require.NoError(t, err)

	g, err := sim.Run(context.Background(), demoTeam("home"), demoTeam("away"))
	require.NoError(t, err)

	assert.GreaterOrEqual(t, g.Innings, regulationInnings)
	assert.LessOrEqual(t, g.Innings, maxInnings)
	assert.GreaterOrEqual(t, g.HomeScore, 0)
	assert.GreaterOrEqual(t, g.AwayScore, 0)
	assert.False(t, g.EndTime.Before(g.StartTime))

	require.Len(t, emitter.games, 1)
	assert.Equal(t, g.HomeScore, emitter.games[0].Summary.HomeScore)

	require.NotEmpty(t, emitter.events)
	assert.Equal(t, EventGameStart, emitter.events[0])
	assert.Equal(t, EventGameEnd, emitter.events[len(emitter.events)-1])

	// At least one resolved play per game is a safe floor, and every play
	// record must carry a terminal outcome and a sane out count.
	require.NotEmpty(t, emitter.plays)
	for _, p := range emitter.plays {
		assert.NotEmpty(t, p.Record.Outcome)
		assert.GreaterOrEqual(t, p.Record.OutsMade, 0)
		assert.LessOrEqual(t, p.Record.OutsBefore+p.Record.OutsMade, 3)
		assert.NotEmpty(t, p.Events)
	}
}

func TestSimulator_RunIsDeterministic(t *testing.T) {
	run := func() *core.Game {
		sim, err := NewSeededSimulator(77, nil, nil)
		require.NoError(t, err)
		g, err := sim.Run(context.Background(), demoTeam("home"), demoTeam("away"))
		require.NoError(t, err)
		return g
	}
	a, b := run(), run()
	assert.Equal(t, a.HomeScore, b.HomeScore)
	assert.Equal(t, a.AwayScore, b.AwayScore)
	assert.Equal(t, a.Innings, b.Innings)
}

func TestSimulator_HonorsContextCancellation(t *testing.T) {
	sim, err := NewSeededSimulator(5, nil, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = sim.Run(ctx, demoTeam("home"), demoTeam("away"))
	assert.ErrorIs(t, err, context.Canceled)
}
