// internal/storage/memory/export.go
package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// GameExport is the root JSON structure of a game recap file
type GameExport struct {
	HomeTeam    string           `json:"homeTeam"`
	AwayTeam    string           `json:"awayTeam"`
	HomeScore   int              `json:"homeScore"`
	AwayScore   int              `json:"awayScore"`
	Innings     int              `json:"innings"`
	StartTime   time.Time        `json:"startTime"`
	EndTime     time.Time        `json:"endTime"`
	HalfInnings []HalfInningJSON `json:"halfInnings"`
	Plays       []PlayJSON       `json:"plays"`
}

// HalfInningJSON is one half-inning line of the recap
type HalfInningJSON struct {
	Inning  int    `json:"inning"`
	Top     bool   `json:"top"`
	Batting string `json:"batting"`
	Runs    int    `json:"runs"`
	AtBats  int    `json:"atBats"`
}

// PlayJSON is one resolved play with its event log and runner movements
type PlayJSON struct {
	Sequence   int             `json:"sequence"`
	Batter     string          `json:"batter"`
	Outcome    string          `json:"outcome"`
	OutsMade   int             `json:"outsMade"`
	RunsScored int             `json:"runsScored"`
	OutsBefore int             `json:"outsBefore"`
	Fielder    string          `json:"fielder,omitempty"`
	BattedBall *BattedBallJSON `json:"battedBall,omitempty"`
	Events     [][]any         `json:"events"`
	Advances   [][]any         `json:"advances"`
}

// BattedBallJSON summarizes contact and flight
type BattedBallJSON struct {
	ExitVelocity float64   `json:"exitVelocity"`
	LaunchAngle  float64   `json:"launchAngle"`
	SprayAngle   float64   `json:"sprayAngle"`
	Distance     float64   `json:"distance"`
	HangTime     float64   `json:"hangTime"`
	Quality      string    `json:"quality"`
	Landing      []float64 `json:"landing"`
}

// exportJSON writes the game recap to a JSON file
func (b *Backend) exportJSON() error {
	export := b.buildExport()

	// Build filename
	matchup := fmt.Sprintf("%s_at_%s", b.game.AwayTeam, b.game.HomeTeam)
	matchup = strings.ReplaceAll(matchup, " ", "_")
	timestamp := b.game.StartTime.Format("20060102_150405")

	var filename string
	if b.cfg.CompressOutput {
		filename = fmt.Sprintf("%s_%s.json.gz", matchup, timestamp)
	} else {
		filename = fmt.Sprintf("%s_%s.json", matchup, timestamp)
	}

	outputPath := filepath.Join(b.cfg.OutputDir, filename)

	// Ensure output directory exists
	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	// Write file
	if b.cfg.CompressOutput {
		if err := b.writeGzipJSON(outputPath, export); err != nil {
			return err
		}
	} else {
		if err := b.writeJSON(outputPath, export); err != nil {
			return err
		}
	}

	b.lastExportPath = outputPath
	return nil
}

func (b *Backend) buildExport() GameExport {
	export := GameExport{
		HomeTeam:    b.game.HomeTeam,
		AwayTeam:    b.game.AwayTeam,
		HomeScore:   b.game.HomeScore,
		AwayScore:   b.game.AwayScore,
		Innings:     b.game.Innings,
		StartTime:   b.game.StartTime,
		EndTime:     b.game.EndTime,
		HalfInnings: make([]HalfInningJSON, 0, len(b.halfInnings)),
		Plays:       make([]PlayJSON, 0, len(b.playOrder)),
	}

	for _, h := range b.halfInnings {
		export.HalfInnings = append(export.HalfInnings, HalfInningJSON{
			Inning:  h.Inning,
			Top:     h.Top,
			Batting: h.Batting,
			Runs:    h.Runs,
			AtBats:  h.AtBats,
		})
	}

	// Plays in resolution order
	for _, id := range b.playOrder {
		item := b.plays[id]

		play := PlayJSON{
			Sequence:   item.Play.Sequence,
			Batter:     item.Play.Batter,
			Outcome:    string(item.Play.Outcome),
			OutsMade:   item.Play.OutsMade,
			RunsScored: item.Play.RunsScored,
			OutsBefore: item.Play.OutsBefore,
			Fielder:    item.Play.Fielder,
			Events:     make([][]any, 0, len(item.Events)),
			Advances:   make([][]any, 0, len(item.Advances)),
		}

		if item.Ball != nil {
			play.BattedBall = &BattedBallJSON{
				ExitVelocity: item.Ball.ExitVelocity,
				LaunchAngle:  item.Ball.LaunchAngle,
				SprayAngle:   item.Ball.SprayAngle,
				Distance:     item.Ball.Distance,
				HangTime:     item.Ball.HangTime,
				Quality:      string(item.Ball.Quality),
				Landing:      []float64{item.Ball.Landing.X, item.Ball.Landing.Y},
			}
		}

		// Format: [simTime, category, description]
		for _, evt := range item.Events {
			play.Events = append(play.Events, []any{
				evt.SimTime,
				evt.Category,
				evt.Description,
			})
		}

		// Format: [runner, fromBase, toBase, scored, out]
		for _, adv := range item.Advances {
			play.Advances = append(play.Advances, []any{
				adv.Runner,
				string(adv.FromBase),
				string(adv.ToBase),
				boolToInt(adv.Scored),
				boolToInt(adv.Out),
			})
		}

		export.Plays = append(export.Plays, play)
	}

	return export
}

func (b *Backend) writeJSON(path string, data GameExport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	return encoder.Encode(data)
}

func (b *Backend) writeGzipJSON(path string, data GameExport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	gzWriter := gzip.NewWriter(f)
	defer gzWriter.Close()

	encoder := json.NewEncoder(gzWriter)
	return encoder.Encode(data)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
