// pkg/core/ball.go
package core

// ContactQuality buckets a swing's contact by exit velocity.
type ContactQuality string

const (
	ContactWeak  ContactQuality = "weak"  // under 80 mph
	ContactFair  ContactQuality = "fair"  // 80-95 mph
	ContactSolid ContactQuality = "solid" // 95+ mph
)

// ClassifyContact buckets an exit velocity in mph.
func ClassifyContact(exitVelocity float64) ContactQuality {
	switch {
	case exitVelocity < 80:
		return ContactWeak
	case exitVelocity < 95:
		return ContactFair
	default:
		return ContactSolid
	}
}

// BattedBall summarizes the upstream physics result for one ball in play.
// It is immutable for the duration of the play; the sampled flight path
// itself lives alongside it and shares its lifetime.
type BattedBall struct {
	// Contact parameters.
	ExitVelocity float64 // mph
	LaunchAngle  float64 // degrees above horizontal
	SprayAngle   float64 // degrees off dead center, positive toward right

	// Scalar flight summaries.
	HangTime   float64       // seconds airborne
	Distance   float64       // carry in feet from home plate
	PeakHeight float64       // apex in feet
	Landing    FieldPosition // touchdown point, Z = 0

	Quality ContactQuality
}

// Airborne reports whether the ball should be treated as a fly ball or
// line drive rather than a ground ball. Low launch angles, weak taps and
// low-peak liners all route to ground-ball handling.
func (b *BattedBall) Airborne() bool {
	if b.LaunchAngle < 10 {
		return false
	}
	if b.Distance < 50 && b.HangTime < 1.0 && b.PeakHeight < 8 {
		return false
	}
	if b.LaunchAngle < 15 && b.PeakHeight < 15 {
		return false
	}
	if b.Distance > 0 && b.PeakHeight/b.Distance < 0.08 && b.PeakHeight < 12 {
		return b.PeakHeight > 8
	}
	return b.PeakHeight > 8 || b.HangTime > 1.5
}
