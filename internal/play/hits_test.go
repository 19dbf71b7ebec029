package play

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/diamondsim/playres/pkg/core"
)

func TestTripleProbability(t *testing.T) {
	tests := []struct {
		name                                                    string
		distance, exitVelocity, batterSpeed, fielderSpeed, retr float64
		want                                                    float64
	}{
		{"too short", 290, 95, 27, 26.5, 4, 0},
		{"base gap shot", 310, 95, 27, 26.5, 4, 0.25},
		{"deep gap", 340, 95, 27, 26.5, 4, 0.40},
		{"to the wall", 365, 95, 27, 26.5, 4, 0.55},
		{"fast batter slow chase", 340, 95, 30, 26.5, 6, 0.68},
		{"clamped high", 400, 120, 30, 24, 10, 0.95},
		{"clamped low", 310, 88, 24, 30, 2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TripleProbability(tt.distance, tt.exitVelocity, tt.batterSpeed, tt.fielderSpeed, tt.retr)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestClassify_WeakContactCapsAtSingle(t *testing.T) {
	c := &classifier{rng: rand.New(rand.NewSource(1))}
	ball := &core.BattedBall{
		ExitVelocity: 75,
		SprayAngle:   25,
		Distance:     320, // rolled a long way, still weak contact
		Quality:      core.ClassifyContact(75),
	}
	got := c.Classify(ball, fastRunner("batter"), nil, 6)
	assert.Equal(t, core.OutcomeSingle, got)
}

func TestClassify_DistanceBrackets(t *testing.T) {
	c := &classifier{rng: rand.New(rand.NewSource(1))}

	short := &core.BattedBall{ExitVelocity: 92, SprayAngle: 0, Distance: 180, Quality: core.ContactFair}
	assert.Equal(t, core.OutcomeSingle, c.Classify(short, fastRunner("b"), nil, 3))

	deep := &core.BattedBall{ExitVelocity: 92, SprayAngle: 0, Distance: 260, Quality: core.ContactFair}
	assert.Equal(t, core.OutcomeDouble, c.Classify(deep, fastRunner("b"), nil, 4))
}

func TestClassify_GapShotCanBecomeTriple(t *testing.T) {
	// Deep gap shot, burner at the plate, ball chased for ten seconds: the
	// model saturates at its 0.95 cap, and the first roll on this seed is
	// well under it.
	c := &classifier{rng: rand.New(rand.NewSource(1))}
	ball := &core.BattedBall{
		ExitVelocity: 120,
		SprayAngle:   30,
		Distance:     400,
		Quality:      core.ContactSolid,
	}
	assert.Equal(t, core.OutcomeTriple, c.Classify(ball, fastRunner("b"), nil, 10))
}

func TestClassify_StraightawayNeverTriples(t *testing.T) {
	// Same ball hit dead to center is out of the gap window and settles
	// for a double regardless of the roll.
	for seed := int64(0); seed < 10; seed++ {
		c := &classifier{rng: rand.New(rand.NewSource(seed))}
		ball := &core.BattedBall{
			ExitVelocity: 120,
			SprayAngle:   0,
			Distance:     400,
			Quality:      core.ContactSolid,
		}
		assert.Equal(t, core.OutcomeDouble, c.Classify(ball, fastRunner("b"), nil, 10))
	}
}
