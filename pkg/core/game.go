// pkg/core/game.go
package core

import "time"

// Game is the summary record for one simulated game.
type Game struct {
	ID        uint
	HomeTeam  string
	AwayTeam  string
	Innings   int
	HomeScore int
	AwayScore int
	StartTime time.Time
	EndTime   time.Time
}

// HalfInning identifies one half-inning within a game.
type HalfInning struct {
	ID      uint
	GameID  uint
	Inning  int
	Top     bool
	Runs    int
	AtBats  int
	Batting string
}

// PlayRecord is the storable form of one resolved play.
type PlayRecord struct {
	ID           uint
	GameID       uint
	HalfInningID uint
	Sequence     int
	Batter       string
	Outcome      Outcome
	OutsMade     int
	RunsScored   int
	OutsBefore   int
	Fielder      string
	ExitVelocity float64
	LaunchAngle  float64
	SprayAngle   float64
	Distance     float64
	HangTime     float64
	Landing      FieldPosition
	Runners      map[Base]string // base label -> runner name after the play
	Time         time.Time
}

// PlayEventRecord is the storable form of one event-log entry.
type PlayEventRecord struct {
	ID          uint
	PlayID      uint
	GameID      uint
	SimTime     float64
	Category    string
	Description string
}

// BattedBallRecord is the storable form of one contact and flight
// summary, tied to the play it produced.
type BattedBallRecord struct {
	ID     uint
	PlayID uint
	GameID uint
	Ball   BattedBall
}

// RunnerAdvanceRecord captures one runner's movement during a play.
type RunnerAdvanceRecord struct {
	ID       uint
	PlayID   uint
	GameID   uint
	Runner   string
	FromBase Base
	ToBase   Base
	Scored   bool
	Out      bool
}
