// internal/trajectory/roll.go
package trajectory

import (
	"math"

	"github.com/diamondsim/playres/pkg/core"
)

// Surface identifies the playing surface a ball lands on.
type Surface string

const (
	SurfaceGrass Surface = "grass"
	SurfaceTurf  Surface = "turf"
	SurfaceDirt  Surface = "dirt"
)

type surfaceProps struct {
	cor      float64 // coefficient of restitution for vertical bounce
	friction float64 // rolling friction coefficient
}

var surfaces = map[Surface]surfaceProps{
	SurfaceGrass: {cor: 0.45, friction: 0.30},
	SurfaceTurf:  {cor: 0.55, friction: 0.22},
	SurfaceDirt:  {cor: 0.40, friction: 0.35},
}

const (
	gravity = 32.174 // ft/s^2

	// Bounce/roll simulation limits.
	maxBounces     = 8
	minBouncesRoll = 2
	rollTimeCap    = 5.0
	rollDT         = 0.01

	// Per-bounce horizontal speed retention and the vertical speed below
	// which the ball transitions to rolling.
	bounceRetention = 0.95
	rollVzCutoff    = 5.0

	// Rolling also fights air resistance, modeled as a constant decel.
	airRollDecel = 0.5
)

// RollResult is the post-landing ball path plus summary values.
type RollResult struct {
	Path      *Flight
	StopTime  float64 // seconds from contact when the ball stops
	StopPoint core.FieldPosition
	Bounces   int
}

// SimulateRoll produces the bounce-and-roll path of a ball after landing.
// landing is the touchdown point, t0 the touchdown time from contact,
// velocity the touchdown velocity in ft/s (Z negative, downward), and
// spinRPM the backspin at touchdown. Backspin above 100 rpm adds lift on
// early bounces and bleeds horizontal speed; spin decays each bounce.
func SimulateRoll(landing core.FieldPosition, t0 float64, velocity core.FieldPosition, spinRPM float64, surface Surface) *RollResult {
	props, ok := surfaces[surface]
	if !ok {
		props = surfaces[SurfaceGrass]
	}

	pos := landing
	pos.Z = 0
	t := t0
	vx, vy, vz := velocity.X, velocity.Y, velocity.Z
	spin := spinRPM

	times := []float64{t}
	points := []core.FieldPosition{pos}

	// Bounce phase. Each bounce inverts and damps the vertical component,
	// bleeds horizontal speed, and decays spin.
	bounces := 0
	for bounces < maxBounces {
		if bounces >= minBouncesRoll && math.Abs(vz) < rollVzCutoff {
			break
		}

		vz = -vz * props.cor
		if vz < 0 {
			vz = -vz
		}
		vx *= bounceRetention
		vy *= bounceRetention
		if spin > 100 {
			// Backspin lifts the bounce and costs carry.
			vz *= 1 + spin/20000
			vx *= 0.97
			vy *= 0.97
		}
		spin *= 0.7
		bounces++

		if vz <= 0.1 {
			break
		}

		// Ballistic hop until the next touchdown.
		hop := 2 * vz / gravity
		peak := vz * vz / (2 * gravity)
		half := t + hop/2
		pos.X += vx * hop / 2
		pos.Y += vy * hop / 2
		times = append(times, half)
		points = append(points, core.FieldPosition{X: pos.X, Y: pos.Y, Z: peak})

		pos.X += vx * hop / 2
		pos.Y += vy * hop / 2
		t += hop
		times = append(times, t)
		points = append(points, core.FieldPosition{X: pos.X, Y: pos.Y, Z: 0})
	}

	// Rolling phase: constant deceleration from friction plus air drag,
	// fixed step, hard time cap.
	speed := math.Hypot(vx, vy)
	decel := gravity*props.friction + airRollDecel
	rollStart := t
	for speed > 0.5 && t-rollStart < rollTimeCap {
		frac := rollDT
		heading := math.Atan2(vy, vx)
		pos.X += speed * math.Cos(heading) * frac
		pos.Y += speed * math.Sin(heading) * frac
		speed -= decel * frac
		if speed < 0 {
			speed = 0
		}
		scale := speed / math.Max(math.Hypot(vx, vy), 1e-9)
		vx *= scale
		vy *= scale
		t += rollDT
		times = append(times, t)
		points = append(points, core.FieldPosition{X: pos.X, Y: pos.Y, Z: 0})
	}

	path, err := NewFlight(times, points)
	if err != nil {
		// Degenerate roll (ball dead on landing): synthesize a two-point
		// stationary path so callers can still interpolate.
		path, _ = NewFlight(
			[]float64{t0, t0 + rollDT},
			[]core.FieldPosition{points[0], points[0]},
		)
	}

	return &RollResult{
		Path:      path,
		StopTime:  t,
		StopPoint: pos,
		Bounces:   bounces,
	}
}

// EstimateRollTime estimates when a rolling ball covers dist feet, given
// an initial ground speed in ft/s, using a fixed 12 ft/s^2 deceleration.
// Used to sanity-bound physics-derived arrival times for infield rollers.
func EstimateRollTime(dist, groundSpeed float64) float64 {
	const decel = 12.0
	if groundSpeed <= 0 {
		return rollTimeCap
	}
	// Solve dist = v*t - decel*t^2/2 for the earliest positive t.
	disc := groundSpeed*groundSpeed - 2*decel*dist
	var est float64
	if disc <= 0 {
		// Ball stops short; report the time to its stopping point.
		est = groundSpeed / decel
	} else {
		est = (groundSpeed - math.Sqrt(disc)) / decel
	}
	if est < 0.15 {
		est = 0.15
	}
	return est
}
