package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/diamondsim/playres/internal/dispatcher"
	"github.com/diamondsim/playres/internal/game"
	"github.com/diamondsim/playres/pkg/core"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
)

// RegisterHandlers registers all event handlers with the dispatcher.
func (m *Manager) RegisterHandlers(d *dispatcher.Dispatcher) {
	// Game start - sync (the game row's ID must exist before plays arrive)
	d.Register(game.EventGameStart, m.handleGameStart, dispatcher.Logged())

	// Resolved plays dominate the event volume - buffered
	d.Register(game.EventPlayResolved, m.handlePlayResolved, dispatcher.Buffered(1000), dispatcher.Logged())

	// Half-inning summaries - buffered
	d.Register(game.EventInningEnd, m.handleInningEnd, dispatcher.Buffered(100), dispatcher.Logged())

	// Game end - sync (flushes the backend queues)
	d.Register(game.EventGameEnd, m.handleGameEnd, dispatcher.Logged())
}

func (m *Manager) handleGameStart(e dispatcher.Event) (any, error) {
	p, ok := e.Payload.(game.GameStart)
	if !ok {
		return nil, fmt.Errorf("unexpected payload %T for %s", e.Payload, e.Command)
	}

	m.mu.Lock()
	m.currentGameID = 0
	m.gameStarted = time.Now()
	m.playCount = 0
	m.mu.Unlock()

	if !m.hasBackend() {
		return nil, nil
	}

	summary := p.Summary
	if err := m.backend.StartGame(&summary); err != nil {
		return nil, fmt.Errorf("failed to start game: %w", err)
	}

	m.mu.Lock()
	m.currentGameID = summary.ID
	m.mu.Unlock()

	m.deps.LogManager.Logger().Info("game started",
		"gameID", summary.ID, "home", summary.HomeTeam, "away", summary.AwayTeam)
	return nil, nil
}

func (m *Manager) handlePlayResolved(e dispatcher.Event) (any, error) {
	p, ok := e.Payload.(game.PlayResolved)
	if !ok {
		return nil, fmt.Errorf("unexpected payload %T for %s", e.Payload, e.Command)
	}

	gameID := m.CurrentGameID()

	m.mu.Lock()
	m.playCount++
	m.mu.Unlock()

	if m.hasBackend() {
		rec := p.Record
		rec.GameID = gameID
		if err := m.backend.RecordPlay(&rec); err != nil {
			return nil, fmt.Errorf("failed to record play: %w", err)
		}

		for _, ev := range p.Events {
			m.backend.RecordPlayEvent(&core.PlayEventRecord{
				PlayID:      rec.ID,
				GameID:      gameID,
				SimTime:     ev.Time,
				Category:    ev.Category,
				Description: ev.Description,
			})
		}
		for _, adv := range p.Advances {
			m.backend.RecordRunnerAdvance(&core.RunnerAdvanceRecord{
				PlayID:   rec.ID,
				GameID:   gameID,
				Runner:   adv.Runner,
				FromBase: adv.From,
				ToBase:   adv.To,
				Scored:   adv.Scored,
				Out:      adv.Out,
			})
		}
		m.backend.RecordBattedBall(&core.BattedBallRecord{
			PlayID: rec.ID,
			GameID: gameID,
			Ball:   p.Ball,
		})

		m.writePlayPoints(gameID, &p, e.Timestamp)
	}

	return nil, nil
}

func (m *Manager) handleInningEnd(e dispatcher.Event) (any, error) {
	p, ok := e.Payload.(game.InningEnd)
	if !ok {
		return nil, fmt.Errorf("unexpected payload %T for %s", e.Payload, e.Command)
	}

	if !m.hasBackend() {
		return nil, nil
	}

	summary := p.Summary
	summary.GameID = m.CurrentGameID()
	if err := m.backend.RecordHalfInning(&summary); err != nil {
		return nil, fmt.Errorf("failed to record half inning: %w", err)
	}
	return nil, nil
}

func (m *Manager) handleGameEnd(e dispatcher.Event) (any, error) {
	p, ok := e.Payload.(game.GameEnd)
	if !ok {
		return nil, fmt.Errorf("unexpected payload %T for %s", e.Payload, e.Command)
	}

	summary := p.Summary
	summary.ID = m.CurrentGameID()

	if m.hasBackend() {
		if err := m.backend.EndGame(&summary); err != nil {
			return nil, fmt.Errorf("failed to end game: %w", err)
		}
	}

	m.mu.RLock()
	started := m.gameStarted
	plays := m.playCount
	m.mu.RUnlock()

	point := influxdb2.NewPoint("sim_timing",
		map[string]string{
			"home": summary.HomeTeam,
			"away": summary.AwayTeam,
		},
		map[string]any{
			"game_id":     int(summary.ID),
			"innings":     summary.Innings,
			"plays":       plays,
			"home_score":  summary.HomeScore,
			"away_score":  summary.AwayScore,
			"duration_ms": float64(time.Since(started).Milliseconds()),
		},
		e.Timestamp,
	)
	m.writePoint("sim_timings", point)

	m.deps.LogManager.Logger().Info("game recorded",
		"gameID", summary.ID,
		"home", summary.HomeTeam, "homeScore", summary.HomeScore,
		"away", summary.AwayTeam, "awayScore", summary.AwayScore)
	return nil, nil
}

// writePlayPoints emits one play_outcomes point per play and one
// race_margins point per timed base race.
func (m *Manager) writePlayPoints(gameID uint, p *game.PlayResolved, ts time.Time) {
	outcome := influxdb2.NewPoint("play_outcome",
		map[string]string{
			"outcome": string(p.Record.Outcome),
			"quality": string(p.Ball.Quality),
		},
		map[string]any{
			"game_id":       int(gameID),
			"exit_velocity": p.Ball.ExitVelocity,
			"launch_angle":  p.Ball.LaunchAngle,
			"spray_angle":   p.Ball.SprayAngle,
			"distance":      p.Ball.Distance,
			"hang_time":     p.Ball.HangTime,
			"outs_made":     p.Record.OutsMade,
			"runs_scored":   p.Record.RunsScored,
		},
		ts,
	)
	m.writePoint("play_outcomes", outcome)

	for _, race := range p.Races {
		point := influxdb2.NewPoint("race_margin",
			map[string]string{
				"base":    string(race.Base),
				"verdict": race.Verdict,
			},
			map[string]any{
				"game_id":     int(gameID),
				"margin":      race.Margin(),
				"runner_time": race.RunnerTime,
				"ball_time":   race.BallTime,
			},
			ts,
		)
		m.writePoint("race_margins", point)
	}
}

func (m *Manager) writePoint(bucket string, point *influxdb2_write.Point) {
	if m.deps.Influx == nil {
		return
	}
	if err := m.deps.Influx.WritePoint(context.Background(), bucket, point); err != nil {
		m.deps.LogManager.Logger().Warn("failed to write metric point",
			"bucket", bucket, "error", err)
	}
}
