package model

import (
	"time"

	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema
var DatabaseModels = []interface{}{
	&EngineInfo{},
	&Park{},
	&Game{},
	&HalfInning{},
	&Play{},
	&PlayEvent{},
	&RunnerAdvance{},
	&BattedBallRecord{},
	&SimPerformance{},
}

// DatabaseModelsSQLite mirrors DatabaseModels; SQLite stores geometry
// columns as WKB blobs so the same set migrates cleanly.
var DatabaseModelsSQLite = []interface{}{
	&EngineInfo{},
	&Park{},
	&Game{},
	&HalfInning{},
	&Play{},
	&PlayEvent{},
	&RunnerAdvance{},
	&BattedBallRecord{},
	&SimPerformance{},
}

////////////////////////
// SYSTEM MODELS
////////////////////////

// EngineInfo records which engine build and seed produced the rows in
// this database. One row per setup.
type EngineInfo struct {
	gorm.Model
	EngineVersion  string  `json:"engineVersion" gorm:"size:64"`
	Seed           int64   `json:"seed"`
	CloseTolerance float64 `json:"closeTolerance"`
	SafeBias       float64 `json:"safeBias"`
	Surface        string  `json:"surface" gorm:"size:16"`
}

func (*EngineInfo) TableName() string {
	return "engine_infos"
}

// SimPerformance is the model for simulator performance samples written
// by the status monitor.
type SimPerformance struct {
	Time                time.Time         `json:"time" gorm:"type:timestamptz;index:idx_simperf_time"`
	GameID              uint              `json:"gameId" gorm:"index:idx_simperf_game_id"`
	WriteQueueLengths   WriteQueueLengths `json:"writeQueueLengths" gorm:"embedded;embeddedPrefix:writequeue_"`
	LastWriteDurationMs float32           `json:"lastWriteDurationMs"`
}

func (*SimPerformance) TableName() string {
	return "sim_performances"
}

// WriteQueueLengths is the model for the write queue lengths
type WriteQueueLengths struct {
	Plays          uint16 `json:"plays"`
	PlayEvents     uint16 `json:"playEvents"`
	RunnerAdvances uint16 `json:"runnerAdvances"`
	BattedBalls    uint16 `json:"battedBalls"`
}

////////////////////////
// RECORDING MODELS
////////////////////////

// Park is the ballpark a game is played in. FenceTable holds the
// spray-angle fence brackets as JSON so non-default parks can override
// the stock dimensions.
type Park struct {
	gorm.Model
	Name       string         `json:"name" gorm:"size:127"`
	Surface    string         `json:"surface" gorm:"size:16;default:grass"`
	FenceTable datatypes.JSON `json:"fenceTable" gorm:"type:jsonb;default:'[]'"`
	Games      []Game
}

func (*Park) TableName() string {
	return "parks"
}

// GetOrInsert looks a park up by name, inserting it when absent.
func (p *Park) GetOrInsert(db *gorm.DB) (created bool, err error) {
	var existing Park
	err = db.Where("name = ?", p.Name).First(&existing).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			err = db.Create(p).Error
			return true, err
		}
		return false, err
	}
	*p = existing
	return false, nil
}

// Game is the summary row for one simulated game.
type Game struct {
	gorm.Model
	HomeTeam  string    `json:"homeTeam" gorm:"size:127"`
	AwayTeam  string    `json:"awayTeam" gorm:"size:127"`
	Innings   int       `json:"innings"`
	HomeScore int       `json:"homeScore"`
	AwayScore int       `json:"awayScore"`
	Seed      int64     `json:"seed"`
	StartTime time.Time `json:"startTime" gorm:"type:timestamptz;index:idx_game_start"`
	EndTime   time.Time `json:"endTime" gorm:"type:timestamptz"`

	ParkID uint `json:"parkId"`
	Park   Park `gorm:"foreignkey:ParkID"`

	HalfInnings    []HalfInning
	Plays          []Play
	PlayEvents     []PlayEvent
	RunnerAdvances []RunnerAdvance
	BattedBalls    []BattedBallRecord
}

func (*Game) TableName() string {
	return "games"
}

// HalfInning is one half inning's line: runs, at-bats, who batted.
type HalfInning struct {
	ID      uint   `json:"id" gorm:"primarykey;autoIncrement;"`
	GameID  uint   `json:"gameId" gorm:"index:idx_halfinning_game_id"`
	Game    Game   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:GameID;"`
	Inning  int    `json:"inning"`
	Top     bool   `json:"top"`
	Runs    int    `json:"runs"`
	AtBats  int    `json:"atBats"`
	Batting string `json:"batting" gorm:"size:127"`
}

func (*HalfInning) TableName() string {
	return "half_innings"
}

// Play is one resolved play: the terminal outcome, the box-score deltas,
// and the post-play base state as a JSON base->runner map.
type Play struct {
	ID           uint       `json:"id" gorm:"primarykey;autoIncrement;"`
	Time         time.Time  `json:"time" gorm:"type:timestamptz;"`
	GameID       uint       `json:"gameId" gorm:"index:idx_play_game_id"`
	Game         Game       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:GameID;"`
	HalfInningID uint       `json:"halfInningId" gorm:"index:idx_play_half_inning_id"`
	Sequence     int        `json:"sequence" gorm:"index:idx_play_sequence"` // ordinal within the game
	Batter       string     `json:"batter" gorm:"size:64"`
	Outcome      string     `json:"outcome" gorm:"size:32;index:idx_play_outcome"`
	OutsMade     int        `json:"outsMade"`
	RunsScored   int        `json:"runsScored"`
	OutsBefore   int        `json:"outsBefore"`
	Fielder      string     `json:"fielder" gorm:"size:64"` // primary fielder credited, empty if none

	Runners datatypes.JSON `json:"runners" gorm:"type:jsonb;default:'{}'"` // base label -> runner name after the play
}

func (*Play) TableName() string {
	return "plays"
}

// PlayEvent is one chronological event-log entry within a play.
type PlayEvent struct {
	ID          uint    `json:"id" gorm:"primarykey;autoIncrement;"`
	PlayID      uint    `json:"playId" gorm:"index:idx_playevent_play_id"`
	Play        Play    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:PlayID;"`
	GameID      uint    `json:"gameId" gorm:"index:idx_playevent_game_id"`
	SimTime     float64 `json:"simTime"` // simulated seconds after contact
	Category    string  `json:"category" gorm:"size:32"`
	Description string  `json:"description" gorm:"size:256"`
}

func (*PlayEvent) TableName() string {
	return "play_events"
}

// RunnerAdvance records one runner's movement during a play.
type RunnerAdvance struct {
	ID       uint   `json:"id" gorm:"primarykey;autoIncrement;"`
	PlayID   uint   `json:"playId" gorm:"index:idx_runneradvance_play_id"`
	Play     Play   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:PlayID;"`
	GameID   uint   `json:"gameId" gorm:"index:idx_runneradvance_game_id"`
	Runner   string `json:"runner" gorm:"size:64"`
	FromBase string `json:"fromBase" gorm:"size:16"`
	ToBase   string `json:"toBase" gorm:"size:16"`
	Scored   bool   `json:"scored"`
	Out      bool   `json:"out"`
}

func (*RunnerAdvance) TableName() string {
	return "runner_advances"
}

// BattedBallRecord stores the contact and flight summary behind a play.
// Landing is the touchdown point in field coordinates (feet).
type BattedBallRecord struct {
	ID           uint       `json:"id" gorm:"primarykey;autoIncrement;"`
	PlayID       uint       `json:"playId" gorm:"index:idx_battedball_play_id"`
	Play         Play       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:PlayID;"`
	GameID       uint       `json:"gameId" gorm:"index:idx_battedball_game_id"`
	ExitVelocity float64    `json:"exitVelocity"` // mph
	LaunchAngle  float64    `json:"launchAngle"`  // degrees
	SprayAngle   float64    `json:"sprayAngle"`   // degrees, positive toward right field
	Distance     float64    `json:"distance"`     // carry in feet
	HangTime     float64    `json:"hangTime"`     // seconds
	PeakHeight   float64    `json:"peakHeight"`   // feet
	Quality      string     `json:"quality" gorm:"size:16"`
	Landing      geom.Point `json:"landing"`
}

func (*BattedBallRecord) TableName() string {
	return "batted_ball_records"
}
