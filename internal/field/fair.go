// internal/field/fair.go
package field

import (
	"fmt"
	"math"
	"strings"

	"github.com/peterstace/simplefeatures/geom"

	"github.com/diamondsim/playres/pkg/core"
)

// fairTerritory is the wedge between the foul lines, closed by an arc
// sampled just beyond the fence so that balls off the wall still test
// fair. Built once at package load.
var fairTerritory geom.Geometry

func init() {
	var sb strings.Builder
	sb.WriteString("POLYGON((0 0")
	for a := 45.0; a >= -45.0; a -= 5.0 {
		r := FenceAt(a).Distance + 30
		rad := a * math.Pi / 180
		fmt.Fprintf(&sb, ",%f %f", r*math.Sin(rad), r*math.Cos(rad))
	}
	sb.WriteString(",0 0))")

	g, err := geom.UnmarshalWKT(sb.String())
	if err != nil {
		panic(fmt.Sprintf("building fair territory polygon: %v", err))
	}
	fairTerritory = g
}

// IsFairTerritory reports whether a point is in fair territory. Points
// exactly on a foul line are fair; non-finite coordinates are foul.
func IsFairTerritory(p core.FieldPosition) bool {
	pt, err := geom.NewPoint(geom.Coordinates{XY: geom.XY{X: p.X, Y: p.Y}})
	if err != nil {
		return false
	}
	return geom.Intersects(fairTerritory, pt.AsGeometry())
}
