// pkg/core/players.go
package core

// FielderRatings holds a fielder's capability ratings on a 0-100 scale.
// Physical quantities (ft/s, seconds) are derived on demand by the agent
// model; ratings are fixed for the duration of a play.
type FielderRatings struct {
	ReactionTime    int
	Acceleration    int
	TopSpeed        int
	RouteEfficiency int
	ArmStrength     int
	ArmAccuracy     int
	TransferTime    int
	FieldingRange   int
}

// Fielder is one defensive player: an assignment, ratings, and a current
// standing location.
type Fielder struct {
	Name     string
	Position DefensivePosition
	Ratings  FielderRatings
	Location FieldPosition
}

// RunnerRatings holds a baserunner's capability ratings on a 0-100 scale.
type RunnerRatings struct {
	SprintSpeed    int
	Acceleration   int
	BaserunningIQ  int
	SlidingAbility int
	TurnEfficiency int
}

// Runner is an active baserunner. CurrentBase is mutable during play
// resolution; the runner arena's base key is authoritative and runner
// state is resynchronized from it on read.
type Runner struct {
	Name        string
	Ratings     RunnerRatings
	CurrentBase Base

	// Forced marks a runner who must vacate their base because the
	// batter or a trailing runner is entitled to it.
	Forced bool
}
