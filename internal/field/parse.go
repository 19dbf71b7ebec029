// internal/field/parse.go
package field

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/diamondsim/playres/pkg/core"
)

// ErrInvalidCoordinates is returned when a position string cannot be
// parsed into field coordinates.
var ErrInvalidCoordinates = errors.New("invalid coordinates")

// ParsePosition parses "x,y" or "x,y,z" (feet) into a FieldPosition.
func ParsePosition(s string) (core.FieldPosition, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 2 && len(parts) != 3 {
		return core.FieldPosition{}, fmt.Errorf("%w: expected 2 or 3 components, got %d", ErrInvalidCoordinates, len(parts))
	}

	vals := make([]float64, len(parts))
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return core.FieldPosition{}, fmt.Errorf("%w: component %d: %v", ErrInvalidCoordinates, i, err)
		}
		vals[i] = v
	}

	pos := core.FieldPosition{X: vals[0], Y: vals[1]}
	if len(vals) == 3 {
		pos.Z = vals[2]
	}
	return pos, nil
}
