// internal/field/fence.go
package field

import (
	"encoding/json"
	"fmt"
	"math"
)

// Fence is the wall segment facing a given spray angle.
type Fence struct {
	Distance float64 // feet from home plate
	Height   float64 // feet
}

// FenceBracket assigns a wall segment to spray angles below MaxSpray
// (absolute degrees).
type FenceBracket struct {
	MaxSpray float64 `json:"maxSpray"`
	Distance float64 `json:"distance"`
	Height   float64 `json:"height"`
}

// FenceTable is a park's fence outline as ascending spray-angle
// brackets; the last bracket covers the corners.
type FenceTable []FenceBracket

// defaultFences tapers from a deep center field to shorter corners.
var defaultFences = FenceTable{
	{MaxSpray: 10, Distance: 400, Height: 10},
	{MaxSpray: 25, Distance: 380, Height: 10},
	{MaxSpray: 40, Distance: 360, Height: 8},
	{MaxSpray: 45, Distance: 330, Height: 8},
}

// DefaultFenceTable returns the stock park outline.
func DefaultFenceTable() FenceTable {
	table := make(FenceTable, len(defaultFences))
	copy(table, defaultFences)
	return table
}

// ParseFenceTable parses a park's fence override column. An empty or
// `[]` value selects the stock outline.
func ParseFenceTable(data []byte) (FenceTable, error) {
	if len(data) == 0 {
		return DefaultFenceTable(), nil
	}
	var table FenceTable
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parsing fence table: %w", err)
	}
	if len(table) == 0 {
		return DefaultFenceTable(), nil
	}
	prev := 0.0
	for i, b := range table {
		if b.MaxSpray <= prev {
			return nil, fmt.Errorf("fence bracket %d: spray angles must ascend", i)
		}
		if b.Distance <= 0 || b.Height < 0 {
			return nil, fmt.Errorf("fence bracket %d: bad dimensions", i)
		}
		prev = b.MaxSpray
	}
	return table, nil
}

// At returns the wall segment at a spray angle in degrees.
func (t FenceTable) At(sprayAngleDeg float64) Fence {
	abs := math.Abs(sprayAngleDeg)
	for _, b := range t {
		if abs < b.MaxSpray {
			return Fence{Distance: b.Distance, Height: b.Height}
		}
	}
	last := t[len(t)-1]
	return Fence{Distance: last.Distance, Height: last.Height}
}

// FenceAt returns the stock park's fence distance and height at a spray
// angle in degrees.
func FenceAt(sprayAngleDeg float64) Fence {
	return defaultFences.At(sprayAngleDeg)
}
