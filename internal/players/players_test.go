package players

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/diamondsim/playres/pkg/core"
)

func fielderWith(ratings core.FielderRatings, loc core.FieldPosition) *core.Fielder {
	return &core.Fielder{Name: "test", Position: core.CenterField, Ratings: ratings, Location: loc}
}

func TestRatingScales_MonotoneInRating(t *testing.T) {
	slow := fielderWith(core.FielderRatings{TopSpeed: 10, ReactionTime: 10, RouteEfficiency: 10}, core.FieldPosition{})
	fast := fielderWith(core.FielderRatings{TopSpeed: 95, ReactionTime: 95, RouteEfficiency: 95}, core.FieldPosition{})

	assert.Greater(t, SprintSpeed(fast), SprintSpeed(slow))
	assert.Less(t, ReactionDelay(fast), ReactionDelay(slow))
	assert.Greater(t, RouteFactor(fast), RouteFactor(slow))

	target := core.FieldPosition{X: 0, Y: 100}
	assert.Less(t, TimeToReach(fast, target), TimeToReach(slow, target))
}

func TestRatingScales_ClampOutOfRange(t *testing.T) {
	under := fielderWith(core.FielderRatings{TopSpeed: -50}, core.FieldPosition{})
	over := fielderWith(core.FielderRatings{TopSpeed: 500}, core.FieldPosition{})
	assert.Equal(t, 23.0, SprintSpeed(under))
	assert.Equal(t, 30.0, SprintSpeed(over))
}

func TestTimeToReach_ZeroDistanceIsReactionOnly(t *testing.T) {
	loc := core.FieldPosition{X: 10, Y: 200}
	f := fielderWith(core.FielderRatings{ReactionTime: 50}, loc)
	assert.InDelta(t, ReactionDelay(f), TimeToReach(f, loc), 1e-9)
}

func TestControlTime_Clamped(t *testing.T) {
	poor := fielderWith(core.FielderRatings{FieldingRange: 0}, core.FieldPosition{})
	elite := fielderWith(core.FielderRatings{FieldingRange: 100}, core.FieldPosition{})
	assert.LessOrEqual(t, ControlTime(poor), 0.8)
	assert.GreaterOrEqual(t, ControlTime(elite), 0.25)
	assert.Less(t, ControlTime(elite), ControlTime(poor))
}

func TestThrowTime_StrongerArmIsFaster(t *testing.T) {
	weak := fielderWith(core.FielderRatings{ArmStrength: 20, TransferTime: 50}, core.FieldPosition{})
	strong := fielderWith(core.FielderRatings{ArmStrength: 90, TransferTime: 50}, core.FieldPosition{})
	from := core.FieldPosition{X: -35, Y: 125}
	to := core.FieldPosition{X: 63.64, Y: 63.64}
	assert.Less(t, ThrowTime(strong, from, to), ThrowTime(weak, from, to))
}

func TestCatchProbability(t *testing.T) {
	tests := []struct {
		name     string
		margin   float64
		distance float64
		check    func(t *testing.T, p float64)
	}{
		{"big margin short run", 1.5, 20, func(t *testing.T, p float64) {
			assert.Equal(t, 0.99, p)
		}},
		{"thin margin long run penalized", 0.1, 100, func(t *testing.T, p float64) {
			assert.Less(t, p, CatchProbability(0.1, 30))
		}},
		{"never below floor", -2.0, 150, func(t *testing.T, p float64) {
			assert.Equal(t, 0.05, p)
		}},
		{"monotone in margin", 0, 0, func(t *testing.T, p float64) {
			assert.Less(t, p, CatchProbability(0.3, 0))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, CatchProbability(tt.margin, tt.distance))
		})
	}
}

func TestSprintTime(t *testing.T) {
	t.Run("zero distance", func(t *testing.T) {
		assert.Equal(t, 0.0, SprintTime(0, 16, 27))
	})

	t.Run("short burst stays in acceleration phase", func(t *testing.T) {
		// accelDist = 27^2/(2*16) ≈ 22.8 ft; 10 ft is all acceleration.
		got := SprintTime(10, 16, 27)
		assert.InDelta(t, 1.118, got, 0.01)
	})

	t.Run("long run adds constant-velocity phase", func(t *testing.T) {
		short := SprintTime(90, 16, 27)
		long := SprintTime(180, 16, 27)
		// Second 90 feet are covered at full speed.
		assert.InDelta(t, 90.0/27.0, long-short, 1e-9)
	})

	t.Run("faster top speed wins over distance", func(t *testing.T) {
		assert.Less(t, SprintTime(90, 16, 30), SprintTime(90, 16, 24))
	})
}

func TestRunnerScales(t *testing.T) {
	slow := &core.Runner{Ratings: core.RunnerRatings{SprintSpeed: 10, Acceleration: 10, BaserunningIQ: 10, TurnEfficiency: 10}}
	fast := &core.Runner{Ratings: core.RunnerRatings{SprintSpeed: 90, Acceleration: 90, BaserunningIQ: 90, TurnEfficiency: 90}}

	assert.Greater(t, TopRunSpeed(fast), TopRunSpeed(slow))
	assert.Greater(t, RunAcceleration(fast), RunAcceleration(slow))
	assert.Less(t, RunReaction(fast), RunReaction(slow))
	assert.Greater(t, TurnRetention(fast), TurnRetention(slow))
}
