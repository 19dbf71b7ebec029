package field

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diamondsim/playres/pkg/core"
)

func TestBasePosition_PathLengths(t *testing.T) {
	pairs := []struct {
		from, to core.Base
	}{
		{core.BaseHome, core.BaseFirst},
		{core.BaseFirst, core.BaseSecond},
		{core.BaseSecond, core.BaseThird},
		{core.BaseThird, core.BaseHome},
	}
	for _, p := range pairs {
		d := Distance(BasePosition(p.from), BasePosition(p.to))
		assert.InDelta(t, BasePathLength, d, 0.05, "distance %s->%s", p.from, p.to)
	}
}

func TestSprayAngle(t *testing.T) {
	tests := []struct {
		name string
		pos  core.FieldPosition
		want float64
	}{
		{"dead center", core.FieldPosition{X: 0, Y: 300}, 0},
		{"right field line", core.FieldPosition{X: 200, Y: 200}, 45},
		{"left field line", core.FieldPosition{X: -200, Y: 200}, -45},
		{"pulled left", core.FieldPosition{X: -100, Y: 173.2}, -30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, SprayAngle(tt.pos), 0.1)
		})
	}
}

func TestFenceAt_Brackets(t *testing.T) {
	tests := []struct {
		spray        float64
		wantDistance float64
		wantHeight   float64
	}{
		{0, 400, 10},
		{-9.9, 400, 10},
		{15, 380, 10},
		{-30, 360, 8},
		{44, 330, 8},
	}
	for _, tt := range tests {
		f := FenceAt(tt.spray)
		assert.Equal(t, tt.wantDistance, f.Distance, "spray %.1f", tt.spray)
		assert.Equal(t, tt.wantHeight, f.Height, "spray %.1f", tt.spray)
	}
}

func TestParseFenceTable(t *testing.T) {
	t.Run("empty selects stock outline", func(t *testing.T) {
		for _, data := range [][]byte{nil, []byte(`[]`)} {
			table, err := ParseFenceTable(data)
			require.NoError(t, err)
			assert.Equal(t, DefaultFenceTable(), table)
		}
	})

	t.Run("override replaces the wall", func(t *testing.T) {
		table, err := ParseFenceTable([]byte(`[{"maxSpray":45,"distance":310,"height":37}]`))
		require.NoError(t, err)

		f := table.At(30)
		assert.Equal(t, 310.0, f.Distance)
		assert.Equal(t, 37.0, f.Height)
	})

	t.Run("unsorted brackets rejected", func(t *testing.T) {
		_, err := ParseFenceTable([]byte(`[{"maxSpray":40,"distance":360,"height":8},{"maxSpray":10,"distance":400,"height":10}]`))
		assert.Error(t, err)
	})

	t.Run("bad dimensions rejected", func(t *testing.T) {
		_, err := ParseFenceTable([]byte(`[{"maxSpray":45,"distance":0,"height":8}]`))
		assert.Error(t, err)
	})

	t.Run("garbage rejected", func(t *testing.T) {
		_, err := ParseFenceTable([]byte(`{not json`))
		assert.Error(t, err)
	})
}

func TestFenceTableAt_CornersUseLastBracket(t *testing.T) {
	table := DefaultFenceTable()
	assert.Equal(t, FenceAt(50), table.At(50))
	assert.Equal(t, 330.0, table.At(50).Distance)
}

func TestIsFairTerritory(t *testing.T) {
	tests := []struct {
		name string
		pos  core.FieldPosition
		want bool
	}{
		{"straightaway center", core.FieldPosition{X: 0, Y: 250}, true},
		{"second base", core.FieldPosition{X: 0, Y: 127.28}, true},
		{"behind home plate", core.FieldPosition{X: 0, Y: -20}, false},
		{"foul right", core.FieldPosition{X: 150, Y: 50}, false},
		{"foul left", core.FieldPosition{X: -150, Y: 50}, false},
		{"down the right field line", core.FieldPosition{X: 140, Y: 145}, true},
		{"non-finite coordinates", core.FieldPosition{X: math.NaN(), Y: math.Inf(1)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsFairTerritory(tt.pos))
		})
	}
}

func TestFromTrajectory(t *testing.T) {
	// Solver x points toward the outfield, solver y is lateral with left
	// field positive. A ball hit toward left should land at negative field X.
	p := FromTrajectory(250, 80, 0)
	assert.Equal(t, -80.0, p.X)
	assert.Equal(t, 250.0, p.Y)
	assert.True(t, SprayAngle(p) < 0)
}

func TestParsePosition(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    core.FieldPosition
		wantErr bool
	}{
		{"two components", "10,20", core.FieldPosition{X: 10, Y: 20}, false},
		{"three components", "10, 20, 5.5", core.FieldPosition{X: 10, Y: 20, Z: 5.5}, false},
		{"negative values", "-63.64,63.64", core.FieldPosition{X: -63.64, Y: 63.64}, false},
		{"too few", "10", core.FieldPosition{}, true},
		{"too many", "1,2,3,4", core.FieldPosition{}, true},
		{"non-numeric", "a,b", core.FieldPosition{}, true},
		{"empty", "", core.FieldPosition{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePosition(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidCoordinates))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDescribeLocation(t *testing.T) {
	tests := []struct {
		name string
		pos  core.FieldPosition
		want string
	}{
		{"infield left", core.FieldPosition{X: -40, Y: 60}, "the left side of the infield"},
		{"shallow right", core.FieldPosition{X: 80, Y: 110}, "shallow right field"},
		{"center field", core.FieldPosition{X: 0, Y: 250}, "center field"},
		{"deep center", core.FieldPosition{X: 0, Y: 330}, "deep center field"},
		{"warning track", core.FieldPosition{X: 0, Y: 390}, "the warning track in center field"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DescribeLocation(tt.pos))
		})
	}
}

func TestDefaultAlignment_AllPositionsOnField(t *testing.T) {
	align := DefaultAlignment()
	require.Len(t, align, 9)
	for pos, loc := range align {
		if pos == core.Catcher {
			continue // catcher sets up behind the plate
		}
		assert.True(t, IsFairTerritory(loc), "position %s at (%.0f, %.0f)", pos, loc.X, loc.Y)
		assert.False(t, math.IsNaN(SprayAngle(loc)))
	}
}
