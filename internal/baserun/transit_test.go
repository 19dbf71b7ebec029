package baserun

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diamondsim/playres/pkg/core"
)

func averageRunner() *core.Runner {
	return &core.Runner{
		Name: "runner",
		Ratings: core.RunnerRatings{
			SprintSpeed:    50,
			Acceleration:   50,
			BaserunningIQ:  50,
			TurnEfficiency: 50,
		},
	}
}

func TestTransitTime_SingleLeg(t *testing.T) {
	r := averageRunner()
	got, err := TransitTime(r, core.BaseHome, core.BaseFirst, TransitOptions{})
	require.NoError(t, err)
	// 90 feet from a standstill lands in the 3.5-5 second range.
	assert.Greater(t, got, 3.0)
	assert.Less(t, got, 5.0)
}

func TestTransitTime_LeadoffShortensFirstLeg(t *testing.T) {
	r := averageRunner()
	without, err := TransitTime(r, core.BaseFirst, core.BaseSecond, TransitOptions{})
	require.NoError(t, err)
	with, err := TransitTime(r, core.BaseFirst, core.BaseSecond, TransitOptions{Leadoff: true})
	require.NoError(t, err)
	assert.Less(t, with, without)
}

func TestTransitTime_TurnPenaltyOnMultiLegPaths(t *testing.T) {
	r := averageRunner()
	oneLeg, err := TransitTime(r, core.BaseSecond, core.BaseThird, TransitOptions{})
	require.NoError(t, err)
	twoLegs, err := TransitTime(r, core.BaseFirst, core.BaseThird, TransitOptions{})
	require.NoError(t, err)

	// The extra leg costs more than 90 feet at unpenalized top speed
	// because rounding second caps speed across the whole path.
	assert.Greater(t, twoLegs-oneLeg, 90.0/27.0)
}

func TestTransitTime_ThirdToHome(t *testing.T) {
	r := averageRunner()
	got, err := TransitTime(r, core.BaseThird, core.BaseHome, TransitOptions{Leadoff: true})
	require.NoError(t, err)
	assert.Greater(t, got, 2.5)
	assert.Less(t, got, 4.5)
}

func TestTransitTime_BatterAroundTheBases(t *testing.T) {
	r := averageRunner()
	got, err := TransitTime(r, core.BaseHome, core.BaseHome, TransitOptions{})
	require.NoError(t, err)
	// Inside-the-park trip is four legs.
	single, err := TransitTime(r, core.BaseHome, core.BaseFirst, TransitOptions{})
	require.NoError(t, err)
	assert.Greater(t, got, 3*single)
}

func TestTransitTime_InvalidPathsFailLoudly(t *testing.T) {
	r := averageRunner()
	tests := []struct {
		name     string
		from, to core.Base
	}{
		{"backward", core.BaseSecond, core.BaseFirst},
		{"same base", core.BaseFirst, core.BaseFirst},
		{"unknown from", core.Base("dugout"), core.BaseFirst},
		{"unknown to", core.BaseFirst, core.Base("dugout")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := TransitTime(r, tt.from, tt.to, TransitOptions{})
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidBasePath))
		})
	}
}
