// Package convert maps core records to GORM models and back.
package convert

import (
	"encoding/json"

	"github.com/diamondsim/playres/internal/model"
	"github.com/diamondsim/playres/pkg/core"
	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"
)

// PositionToPoint converts a core.FieldPosition to a geom.Point. The Z
// coordinate (height) is carried so landing points round-trip. Non-finite
// coordinates yield the empty point.
func PositionToPoint(p core.FieldPosition) geom.Point {
	coords := geom.Coordinates{XY: geom.XY{X: p.X, Y: p.Y}, Z: p.Z}
	pt, err := geom.NewPoint(coords)
	if err != nil {
		return geom.Point{}
	}
	return pt
}

// PointToPosition converts a geom.Point back to a core.FieldPosition.
func PointToPosition(p geom.Point) core.FieldPosition {
	coord, ok := p.Coordinates()
	if !ok {
		return core.FieldPosition{}
	}
	return core.FieldPosition{X: coord.XY.X, Y: coord.XY.Y, Z: coord.Z}
}

// runnersToJSON serializes the post-play base->runner map.
func runnersToJSON(runners map[core.Base]string) datatypes.JSON {
	if len(runners) == 0 {
		return datatypes.JSON("{}")
	}
	data, _ := json.Marshal(runners)
	return datatypes.JSON(data)
}

// RunnersFromJSON deserializes a stored runner map. An empty or invalid
// column yields an empty map rather than an error.
func RunnersFromJSON(data datatypes.JSON) map[core.Base]string {
	runners := make(map[core.Base]string)
	if len(data) > 0 {
		_ = json.Unmarshal(data, &runners)
	}
	return runners
}

// GameToModel converts a core.Game summary to its GORM row.
func GameToModel(g core.Game) model.Game {
	return model.Game{
		HomeTeam:  g.HomeTeam,
		AwayTeam:  g.AwayTeam,
		Innings:   g.Innings,
		HomeScore: g.HomeScore,
		AwayScore: g.AwayScore,
		StartTime: g.StartTime,
		EndTime:   g.EndTime,
	}
}

// HalfInningToModel converts a core.HalfInning summary to its GORM row.
func HalfInningToModel(h core.HalfInning) model.HalfInning {
	return model.HalfInning{
		GameID:  h.GameID,
		Inning:  h.Inning,
		Top:     h.Top,
		Runs:    h.Runs,
		AtBats:  h.AtBats,
		Batting: h.Batting,
	}
}

// PlayToModel converts a core.PlayRecord to its GORM row.
func PlayToModel(p core.PlayRecord) model.Play {
	return model.Play{
		Time:         p.Time,
		GameID:       p.GameID,
		HalfInningID: p.HalfInningID,
		Sequence:     p.Sequence,
		Batter:       p.Batter,
		Outcome:      string(p.Outcome),
		OutsMade:     p.OutsMade,
		RunsScored:   p.RunsScored,
		OutsBefore:   p.OutsBefore,
		Fielder:      p.Fielder,
		Runners:      runnersToJSON(p.Runners),
	}
}

// PlayEventToModel converts a core.PlayEventRecord to its GORM row.
func PlayEventToModel(e core.PlayEventRecord) model.PlayEvent {
	return model.PlayEvent{
		PlayID:      e.PlayID,
		GameID:      e.GameID,
		SimTime:     e.SimTime,
		Category:    e.Category,
		Description: e.Description,
	}
}

// RunnerAdvanceToModel converts a core.RunnerAdvanceRecord to its GORM row.
func RunnerAdvanceToModel(a core.RunnerAdvanceRecord) model.RunnerAdvance {
	return model.RunnerAdvance{
		PlayID:   a.PlayID,
		GameID:   a.GameID,
		Runner:   a.Runner,
		FromBase: string(a.FromBase),
		ToBase:   string(a.ToBase),
		Scored:   a.Scored,
		Out:      a.Out,
	}
}

// BattedBallToModel converts a contact/flight summary to its GORM row.
func BattedBallToModel(playID, gameID uint, b core.BattedBall) model.BattedBallRecord {
	return model.BattedBallRecord{
		PlayID:       playID,
		GameID:       gameID,
		ExitVelocity: b.ExitVelocity,
		LaunchAngle:  b.LaunchAngle,
		SprayAngle:   b.SprayAngle,
		Distance:     b.Distance,
		HangTime:     b.HangTime,
		PeakHeight:   b.PeakHeight,
		Quality:      string(b.Quality),
		Landing:      PositionToPoint(b.Landing),
	}
}
