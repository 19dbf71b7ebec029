// pkg/core/play.go
package core

import (
	"sort"
	"time"
)

// Outcome is the terminal result of one resolved play.
type Outcome string

const (
	OutcomeFlyOut         Outcome = "fly_out"
	OutcomeLineOut        Outcome = "line_out"
	OutcomeGroundOut      Outcome = "ground_out"
	OutcomeForceOut       Outcome = "force_out"
	OutcomeDoublePlay     Outcome = "double_play"
	OutcomeTriplePlay     Outcome = "triple_play"
	OutcomeInfieldFly     Outcome = "infield_fly"
	OutcomeSingle         Outcome = "single"
	OutcomeDouble         Outcome = "double"
	OutcomeTriple         Outcome = "triple"
	OutcomeHomeRun        Outcome = "home_run"
	OutcomeError          Outcome = "error"
	OutcomeFieldersChoice Outcome = "fielders_choice"
)

// Hit reports whether the outcome credits the batter with a hit.
func (o Outcome) Hit() bool {
	switch o {
	case OutcomeSingle, OutcomeDouble, OutcomeTriple, OutcomeHomeRun:
		return true
	default:
		return false
	}
}

// Mechanism describes how a fielder got to the ball.
type Mechanism string

const (
	MechanismAirCatch      Mechanism = "air_catch"
	MechanismGroundPickup  Mechanism = "ground_pickup"
	MechanismRollIntercept Mechanism = "roll_intercept"
)

// InterceptionResult describes which fielder, if any, reaches the ball.
// A nil Fielder means the ball got through.
type InterceptionResult struct {
	Fielder   *Fielder
	Time      float64 // simulated seconds after contact
	Position  FieldPosition
	Mechanism Mechanism

	// Margin is the fielder's spare time at the meeting point; positive
	// means the fielder arrives early.
	Margin float64
}

// RaceRecord is one timed base race: the runner's arrival against the
// ball's, and the verdict that settled it.
type RaceRecord struct {
	Runner     string
	Base       Base
	RunnerTime float64
	BallTime   float64
	Verdict    string
}

// Margin is runner time minus ball time; negative means the runner won
// the race outright.
func (r RaceRecord) Margin() float64 {
	return r.RunnerTime - r.BallTime
}

// PlayEvent is one entry in a play's chronological log.
type PlayEvent struct {
	Time        float64 // simulated seconds after contact
	Category    string
	Description string
}

// RunnerAdvance is one runner's structured movement during a play,
// batter-runner included. Scored and Out are mutually exclusive; both
// false means the runner stopped at To safely.
type RunnerAdvance struct {
	Runner string
	From   Base
	To     Base
	Scored bool
	Out    bool
}

// PlayResult is the single mutable aggregate built during play resolution.
// The outcome is set exactly once; events are appended in decision order
// and sorted by simulated time before being read.
type PlayResult struct {
	Outcome    Outcome
	OutsMade   int
	RunsScored int

	// FinalRunners is the base->runner mapping after the play, batter
	// included if they reached safely. Scored and retired runners are
	// absent.
	FinalRunners map[Base]*Runner

	// PrimaryFielder is the fielder credited with the play, if any.
	PrimaryFielder *Fielder

	events   []PlayEvent
	advances []RunnerAdvance
	races    []RaceRecord
	resolved bool

	WallTime time.Time
}

// Resolved reports whether a terminal outcome has been set.
func (r *PlayResult) Resolved() bool {
	return r.resolved
}

// Finalize sets the terminal outcome. The first call wins; later calls
// are ignored so no terminal branch can overwrite another.
func (r *PlayResult) Finalize(o Outcome) bool {
	if r.resolved {
		return false
	}
	r.Outcome = o
	r.resolved = true
	return true
}

// AddEvent appends an event in decision order.
func (r *PlayResult) AddEvent(t float64, category, description string) {
	r.events = append(r.events, PlayEvent{Time: t, Category: category, Description: description})
}

// AddAdvance records one runner movement.
func (r *PlayResult) AddAdvance(runner string, from, to Base, scored, out bool) {
	r.advances = append(r.advances, RunnerAdvance{
		Runner: runner, From: from, To: to, Scored: scored, Out: out,
	})
}

// AddRace records one timed base race.
func (r *PlayResult) AddRace(runner string, base Base, runnerTime, ballTime float64, verdict string) {
	r.races = append(r.races, RaceRecord{
		Runner: runner, Base: base,
		RunnerTime: runnerTime, BallTime: ballTime,
		Verdict: verdict,
	})
}

// Races returns the timed base races in decision order.
func (r *PlayResult) Races() []RaceRecord {
	out := make([]RaceRecord, len(r.races))
	copy(out, r.races)
	return out
}

// Advances returns the recorded runner movements in decision order.
func (r *PlayResult) Advances() []RunnerAdvance {
	out := make([]RunnerAdvance, len(r.advances))
	copy(out, r.advances)
	return out
}

// Events returns the event log sorted by simulated timestamp. Append
// order is not chronological order; consumers must read through here.
func (r *PlayResult) Events() []PlayEvent {
	out := make([]PlayEvent, len(r.events))
	copy(out, r.events)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time < out[j].Time
	})
	return out
}
