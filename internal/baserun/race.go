// internal/baserun/race.go
package baserun

// Verdict is the outcome of one runner-vs-ball race at a base.
type Verdict string

const (
	VerdictSafe  Verdict = "safe"
	VerdictClose Verdict = "close"
	VerdictOut   Verdict = "out"
)

// RunnerOut reports the binary outcome of the verdict: close plays go to
// the defense.
func (v Verdict) RunnerOut() bool {
	return v == VerdictClose || v == VerdictOut
}

// Default tolerance calibration, in seconds.
const (
	DefaultCloseTolerance = 0.25
	DefaultSafeBias       = 0.10
)

// Resolver compares runner arrival times against ball/throw arrival
// times. Tolerances are fixed at construction; resolution is fully
// deterministic.
type Resolver struct {
	// CloseTolerance bounds the window in which a play is contested at
	// all; beyond it one side wins outright.
	CloseTolerance float64

	// SafeBias extends the dead-heat window resolved in the runner's
	// favor (tie goes to the runner).
	SafeBias float64
}

// NewResolver returns a resolver with the given tolerances; non-positive
// values fall back to the defaults.
func NewResolver(closeTolerance, safeBias float64) *Resolver {
	if closeTolerance <= 0 {
		closeTolerance = DefaultCloseTolerance
	}
	if safeBias <= 0 {
		safeBias = DefaultSafeBias
	}
	return &Resolver{CloseTolerance: closeTolerance, SafeBias: safeBias}
}

// Resolve compares a runner's transit time against the ball's arrival
// time at the same base. Let delta = runnerTime - ballTime:
//
//	delta <= -CloseTolerance          runner clearly beats the play: safe
//	-CloseTolerance < delta <= SafeBias  dead heat, tie to the runner: safe
//	SafeBias < delta <= CloseTolerance   close play, defense wins: close
//	delta > CloseTolerance            defense wins outright: out
func (r *Resolver) Resolve(runnerTime, ballTime float64) Verdict {
	delta := runnerTime - ballTime
	switch {
	case delta <= -r.CloseTolerance:
		return VerdictSafe
	case delta <= r.SafeBias:
		return VerdictSafe
	case delta <= r.CloseTolerance:
		return VerdictClose
	default:
		return VerdictOut
	}
}
