// internal/field/describe.go
package field

import (
	"fmt"

	"github.com/diamondsim/playres/pkg/core"
)

// DescribeLocation renders a landing point as a broadcast-style location
// ("shallow left field", "deep center field") for the play event log.
func DescribeLocation(p core.FieldPosition) string {
	spray := SprayAngle(p)
	dist := DistanceFromHome(p)

	var sector string
	switch {
	case spray < -20:
		sector = "left"
	case spray > 20:
		sector = "right"
	default:
		sector = "center"
	}

	switch {
	case dist < 95:
		return fmt.Sprintf("the %s side of the infield", sector)
	case dist < 180:
		return fmt.Sprintf("shallow %s field", sector)
	case dist < 280:
		return fmt.Sprintf("%s field", sector)
	case dist < 360:
		return fmt.Sprintf("deep %s field", sector)
	default:
		return fmt.Sprintf("the warning track in %s field", sector)
	}
}
