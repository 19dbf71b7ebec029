// internal/field/field.go
package field

import (
	"math"

	"github.com/diamondsim/playres/pkg/core"
)

// BasePathLength is the distance between consecutive bases in feet.
const BasePathLength = 90.0

// basePositions holds the fixed base coordinates. The diamond is rotated
// 45 degrees off the coordinate axes: first base sits down the right-field
// line, third down the left-field line.
var basePositions = map[core.Base]core.FieldPosition{
	core.BaseHome:   {X: 0, Y: 0, Z: 0},
	core.BaseFirst:  {X: 63.64, Y: 63.64, Z: 0},
	core.BaseSecond: {X: 0, Y: 127.28, Z: 0},
	core.BaseThird:  {X: -63.64, Y: 63.64, Z: 0},
}

// BasePosition returns the field coordinates of a base.
func BasePosition(b core.Base) core.FieldPosition {
	return basePositions[b]
}

// DefaultAlignment returns the standard defensive positioning for all nine
// fielders, in field coordinates.
func DefaultAlignment() map[core.DefensivePosition]core.FieldPosition {
	return map[core.DefensivePosition]core.FieldPosition{
		core.Pitcher:     {X: 0, Y: 60.5},
		core.Catcher:     {X: 0, Y: -5},
		core.FirstBase:   {X: 70, Y: 90},
		core.SecondBase:  {X: 35, Y: 125},
		core.Shortstop:   {X: -35, Y: 125},
		core.ThirdBase:   {X: -70, Y: 90},
		core.LeftField:   {X: -115, Y: 245},
		core.CenterField: {X: 0, Y: 300},
		core.RightField:  {X: 115, Y: 245},
	}
}

// FromTrajectory converts a point from trajectory-solver coordinates
// (x toward the outfield, y lateral with left field positive) into field
// coordinates (x lateral with right field positive, y toward center).
func FromTrajectory(x, y, z float64) core.FieldPosition {
	return core.FieldPosition{X: -y, Y: x, Z: z}
}

// Distance returns the horizontal distance between two points in feet.
func Distance(a, b core.FieldPosition) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Hypot(dx, dy)
}

// DistanceFromHome returns a point's horizontal distance from home plate.
func DistanceFromHome(p core.FieldPosition) float64 {
	return math.Hypot(p.X, p.Y)
}

// SprayAngle returns a point's horizontal angle off dead center in
// degrees, positive toward right field.
func SprayAngle(p core.FieldPosition) float64 {
	return math.Atan2(p.X, p.Y) * 180 / math.Pi
}
