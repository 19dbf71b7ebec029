// internal/trajectory/flight.go
package trajectory

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/diamondsim/playres/pkg/core"
)

// ErrInvalidSamples is returned when a sample set cannot form a flight.
var ErrInvalidSamples = errors.New("invalid trajectory samples")

// Flight is a time-sampled ball path in field coordinates. Times are
// strictly increasing, in seconds from contact; positions are in feet.
// Both air and ground phases use the same representation so the
// interception search can interpolate either.
type Flight struct {
	times  []float64
	points []core.FieldPosition
}

// NewFlight builds a flight from parallel time/position samples.
func NewFlight(times []float64, points []core.FieldPosition) (*Flight, error) {
	if len(times) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 samples, got %d", ErrInvalidSamples, len(times))
	}
	if len(times) != len(points) {
		return nil, fmt.Errorf("%w: %d times vs %d points", ErrInvalidSamples, len(times), len(points))
	}
	for i := 1; i < len(times); i++ {
		if times[i] <= times[i-1] {
			return nil, fmt.Errorf("%w: times not strictly increasing at index %d", ErrInvalidSamples, i)
		}
	}
	return &Flight{times: times, points: points}, nil
}

// StartTime returns the first sampled time.
func (f *Flight) StartTime() float64 { return f.times[0] }

// EndTime returns the last sampled time.
func (f *Flight) EndTime() float64 { return f.times[len(f.times)-1] }

// Duration returns the sampled time span.
func (f *Flight) Duration() float64 { return f.EndTime() - f.StartTime() }

// End returns the final sampled position.
func (f *Flight) End() core.FieldPosition { return f.points[len(f.points)-1] }

// PositionAt returns the interpolated ball position at time t. Times
// before the first sample clamp to the start, after the last to the end.
// Height never interpolates below the playing surface.
func (f *Flight) PositionAt(t float64) core.FieldPosition {
	if t <= f.times[0] {
		return f.points[0]
	}
	if t >= f.EndTime() {
		return f.End()
	}

	i := sort.SearchFloat64s(f.times, t)
	// t lies strictly between times[i-1] and times[i]
	t0, t1 := f.times[i-1], f.times[i]
	p0, p1 := f.points[i-1], f.points[i]
	frac := (t - t0) / (t1 - t0)

	pos := core.FieldPosition{
		X: p0.X + (p1.X-p0.X)*frac,
		Y: p0.Y + (p1.Y-p0.Y)*frac,
		Z: p0.Z + (p1.Z-p0.Z)*frac,
	}
	if pos.Z < 0 {
		pos.Z = 0
	}
	return pos
}

// Peak returns the maximum sampled height in feet.
func (f *Flight) Peak() float64 {
	peak := 0.0
	for _, p := range f.points {
		if p.Z > peak {
			peak = p.Z
		}
	}
	return peak
}

// Synthesize builds a ballistic flight path from a batted ball's scalar
// summaries: distance along the spray direction, a parabolic height
// profile matching the recorded peak, over the recorded hang time. Used
// when the upstream physics step supplies summaries without samples.
func Synthesize(ball *core.BattedBall, samples int) (*Flight, error) {
	if samples < 2 {
		samples = 50
	}
	if ball.HangTime <= 0 {
		return nil, fmt.Errorf("%w: hang time %.3f", ErrInvalidSamples, ball.HangTime)
	}

	rad := ball.SprayAngle * math.Pi / 180
	dirX, dirY := math.Sin(rad), math.Cos(rad)

	times := make([]float64, samples)
	points := make([]core.FieldPosition, samples)
	for i := 0; i < samples; i++ {
		frac := float64(i) / float64(samples-1)
		t := frac * ball.HangTime
		d := frac * ball.Distance
		z := 4 * ball.PeakHeight * frac * (1 - frac)
		times[i] = t
		points[i] = core.FieldPosition{X: d * dirX, Y: d * dirY, Z: z}
	}
	return NewFlight(times, points)
}
