package convert

import (
	"math"
	"testing"
	"time"

	"github.com/diamondsim/playres/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionPointRoundTrip(t *testing.T) {
	pos := core.FieldPosition{X: -42.5, Y: 180.25, Z: 3.5}

	pt := PositionToPoint(pos)
	back := PointToPosition(pt)

	assert.Equal(t, pos, back)
}

func TestPositionToPoint_NonFinite(t *testing.T) {
	pt := PositionToPoint(core.FieldPosition{X: math.NaN(), Y: 100})

	assert.True(t, pt.IsEmpty())
	assert.Equal(t, core.FieldPosition{}, PointToPosition(pt))
}

func TestPlayToModel(t *testing.T) {
	now := time.Now()
	rec := core.PlayRecord{
		GameID:       3,
		HalfInningID: 7,
		Sequence:     12,
		Batter:       "Ramirez",
		Outcome:      core.OutcomeDouble,
		OutsMade:     0,
		RunsScored:   1,
		OutsBefore:   2,
		Fielder:      "LF",
		Runners: map[core.Base]string{
			core.BaseSecond: "Ramirez",
		},
		Time: now,
	}

	m := PlayToModel(rec)

	assert.Equal(t, uint(3), m.GameID)
	assert.Equal(t, uint(7), m.HalfInningID)
	assert.Equal(t, 12, m.Sequence)
	assert.Equal(t, "double", m.Outcome)
	assert.Equal(t, 2, m.OutsBefore)
	assert.Equal(t, now, m.Time)

	runners := RunnersFromJSON(m.Runners)
	require.Len(t, runners, 1)
	assert.Equal(t, "Ramirez", runners[core.BaseSecond])
}

func TestPlayToModel_EmptyRunners(t *testing.T) {
	m := PlayToModel(core.PlayRecord{Outcome: core.OutcomeHomeRun})

	assert.Equal(t, "{}", string(m.Runners))
	assert.Empty(t, RunnersFromJSON(m.Runners))
}

func TestRunnerAdvanceToModel(t *testing.T) {
	m := RunnerAdvanceToModel(core.RunnerAdvanceRecord{
		PlayID:   9,
		GameID:   2,
		Runner:   "Soto",
		FromBase: core.BaseThird,
		ToBase:   core.BaseHome,
		Scored:   true,
	})

	assert.Equal(t, "third", m.FromBase)
	assert.Equal(t, "home", m.ToBase)
	assert.True(t, m.Scored)
	assert.False(t, m.Out)
}

func TestBattedBallToModel(t *testing.T) {
	ball := core.BattedBall{
		ExitVelocity: 101.5,
		LaunchAngle:  27,
		SprayAngle:   -12,
		Distance:     396,
		HangTime:     5.1,
		PeakHeight:   92,
		Landing:      core.FieldPosition{X: -82, Y: 388},
		Quality:      core.ContactSolid,
	}

	m := BattedBallToModel(4, 1, ball)

	assert.Equal(t, uint(4), m.PlayID)
	assert.Equal(t, "solid", m.Quality)
	assert.Equal(t, ball.Landing, PointToPosition(m.Landing))
}
