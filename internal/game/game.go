// internal/game/game.go
package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/diamondsim/playres/internal/field"
	"github.com/diamondsim/playres/internal/play"
	"github.com/diamondsim/playres/pkg/core"
)

// Event names dispatched by the game loop.
const (
	EventGameStart    = "game.start"
	EventPlayResolved = "play.resolved"
	EventInningEnd    = "inning.end"
	EventGameEnd      = "game.end"
)

// Game-loop limits.
const (
	regulationInnings = 9

	// Extra innings until a decision, with a hard ceiling so a pathological
	// calibration cannot loop forever.
	maxInnings = 20

	// Defensive cap on at-bats per half inning.
	maxAtBats = 50

	// Fouls re-swing; this bounds the retry loop.
	maxFoulRetries = 25
)

// Emitter receives game-loop events. The dispatcher satisfies this
// through a thin adapter; tests use a recording stub.
type Emitter interface {
	Emit(ctx context.Context, name string, payload any)
}

// GameStart is dispatched before the first pitch; storage assigns the
// game its persistent ID from it.
type GameStart struct {
	Summary core.Game
}

// PlayResolved is the payload dispatched after every resolved play.
type PlayResolved struct {
	Record   core.PlayRecord
	Events   []core.PlayEvent
	Advances []core.RunnerAdvance
	Races    []core.RaceRecord
	Ball     core.BattedBall
}

// InningEnd is dispatched when a half inning closes.
type InningEnd struct {
	Summary core.HalfInning
}

// GameEnd is dispatched once per game with the final line.
type GameEnd struct {
	Summary core.Game
}

// Team is one side's lineup and defensive alignment.
type Team struct {
	Name    string
	Lineup  []*core.Runner
	Defense map[core.DefensivePosition]*core.Fielder

	next int
}

// NextBatter returns the next hitter in the order, wrapping around.
func (t *Team) NextBatter() *core.Runner {
	b := t.Lineup[t.next%len(t.Lineup)]
	t.next++
	return b
}

// DefaultDefense builds a league-average defense standing at the stock
// alignment, named by position.
func DefaultDefense() map[core.DefensivePosition]*core.Fielder {
	defense := make(map[core.DefensivePosition]*core.Fielder)
	for pos, loc := range field.DefaultAlignment() {
		defense[pos] = &core.Fielder{
			Name:     string(pos),
			Position: pos,
			Location: loc,
			Ratings: core.FielderRatings{
				ReactionTime: 60, Acceleration: 60, TopSpeed: 60,
				RouteEfficiency: 60, ArmStrength: 60, ArmAccuracy: 60,
				TransferTime: 60, FieldingRange: 60,
			},
		}
	}
	return defense
}

// Simulator drives whole games through the play engine, one synchronous
// at-bat at a time.
type Simulator struct {
	engine  *play.Engine
	contact *ContactGenerator
	emitter Emitter
	logger  *slog.Logger

	playSeq int
}

// Options assemble a Simulator. Engine and Contact are required; Emitter
// and Logger are optional.
type Options struct {
	Engine  *play.Engine
	Contact *ContactGenerator
	Emitter Emitter
	Logger  *slog.Logger
}

// NewSimulator wires a simulator from its collaborators.
func NewSimulator(opts Options) (*Simulator, error) {
	if opts.Engine == nil {
		return nil, errors.New("game: engine is required")
	}
	if opts.Contact == nil {
		return nil, errors.New("game: contact generator is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Simulator{
		engine:  opts.Engine,
		contact: opts.Contact,
		emitter: opts.Emitter,
		logger:  logger,
	}, nil
}

// NewSeededSimulator is the convenience constructor used by the CLI:
// one seed drives both contact generation and play resolution.
func NewSeededSimulator(seed int64, emitter Emitter, logger *slog.Logger) (*Simulator, error) {
	rng := rand.New(rand.NewSource(seed))
	return NewSimulator(Options{
		Engine:  play.New(play.Config{Rand: rng, Logger: logger}),
		Contact: NewContactGenerator(rng),
		Emitter: emitter,
		Logger:  logger,
	})
}

// Run simulates a full game: nine innings, home team skips the bottom of
// the ninth when already ahead, extra innings on a tie.
func (s *Simulator) Run(ctx context.Context, home, away *Team) (*core.Game, error) {
	g := &core.Game{
		HomeTeam:  home.Name,
		AwayTeam:  away.Name,
		StartTime: time.Now(),
	}

	s.emit(ctx, EventGameStart, GameStart{Summary: *g})

	inning := 1
	for ; inning <= maxInnings; inning++ {
		runs, err := s.halfInning(ctx, g, inning, true, away, home)
		if err != nil {
			return nil, err
		}
		g.AwayScore += runs

		// Home team bats only if the game is still live.
		walkOff := inning >= regulationInnings && g.HomeScore > g.AwayScore
		if !walkOff {
			runs, err = s.halfInning(ctx, g, inning, false, home, away)
			if err != nil {
				return nil, err
			}
			g.HomeScore += runs
		}

		if inning >= regulationInnings && g.HomeScore != g.AwayScore {
			break
		}
	}
	if inning > maxInnings {
		inning = maxInnings
	}
	g.Innings = inning
	g.EndTime = time.Now()

	s.emit(ctx, EventGameEnd, GameEnd{Summary: *g})
	s.logger.Info("game over",
		"away", g.AwayTeam, "awayScore", g.AwayScore,
		"home", g.HomeTeam, "homeScore", g.HomeScore,
		"innings", g.Innings)
	return g, nil
}

// halfInning runs one half inning and returns the runs scored in it.
func (s *Simulator) halfInning(ctx context.Context, g *core.Game, inning int, top bool, batting, fielding *Team) (int, error) {
	outs := 0
	runs := 0
	atBats := 0
	bases := map[core.Base]*core.Runner{}

	for outs < 3 && atBats < maxAtBats {
		if err := ctx.Err(); err != nil {
			return runs, err
		}
		batter := s.NewBatterRunner(batting.NextBatter())
		ab, err := s.contact.Next()
		if err != nil {
			return runs, err
		}
		atBats++

		switch ab.Kind {
		case KindWalk:
			if ApplyWalk(bases, batter) {
				runs++
			}
			s.logger.Debug("walk", "batter", batter.Name, "inning", inning)

		case KindStrikeout:
			outs++
			s.logger.Debug("strikeout", "batter", batter.Name, "inning", inning)

		case KindBallInPlay:
			res, err := s.resolveWithReswings(ab, fielding, bases, batter, outs)
			if err != nil {
				return runs, err
			}
			if res == nil {
				// Foul retries exhausted; score it a strikeout.
				outs++
				continue
			}

			outs += res.OutsMade
			runs += res.RunsScored
			bases = copyBases(res.FinalRunners)
			s.playSeq++
			s.emit(ctx, EventPlayResolved, s.playResolved(g, res, ab.Ball, batter, outs-res.OutsMade))
		}
	}
	if atBats >= maxAtBats {
		s.logger.Warn("half inning hit the at-bat cap", "inning", inning, "top", top)
	}

	s.emit(ctx, EventInningEnd, InningEnd{Summary: core.HalfInning{
		GameID:  g.ID,
		Inning:  inning,
		Top:     top,
		Runs:    runs,
		AtBats:  atBats,
		Batting: batting.Name,
	}})
	return runs, nil
}

// resolveWithReswings resolves a ball in play, regenerating contact on
// foul balls. Returns nil when the retry budget runs out.
func (s *Simulator) resolveWithReswings(ab *AtBat, fielding *Team, bases map[core.Base]*core.Runner, batter *core.Runner, outs int) (*core.PlayResult, error) {
	for try := 0; try < maxFoulRetries; try++ {
		res, err := s.engine.ResolvePlay(ab.Flight, ab.Ball, fielding.Defense, bases, batter, outs)
		if err == nil {
			return res, nil
		}
		if !errors.Is(err, play.ErrFoulBall) {
			return nil, fmt.Errorf("resolving play: %w", err)
		}
		if ab, err = s.contact.BallInPlay(); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

// NewBatterRunner resets a lineup entry's running state for a fresh trip
// around the bases. Lineup entries are reused every time through the
// order.
func (s *Simulator) NewBatterRunner(b *core.Runner) *core.Runner {
	return &core.Runner{Name: b.Name, Ratings: b.Ratings, CurrentBase: core.BaseHome}
}

// ApplyWalk pushes the forcing chain for a base on balls: the batter
// takes first and every runner with all bases behind them occupied moves
// up. Returns true when a run is forced in from third.
func ApplyWalk(bases map[core.Base]*core.Runner, batter *core.Runner) bool {
	scored := false
	if onFirst, ok := bases[core.BaseFirst]; ok {
		if onSecond, ok := bases[core.BaseSecond]; ok {
			if _, ok := bases[core.BaseThird]; ok {
				scored = true
				delete(bases, core.BaseThird)
			}
			onSecond.CurrentBase = core.BaseThird
			bases[core.BaseThird] = onSecond
		}
		onFirst.CurrentBase = core.BaseSecond
		bases[core.BaseSecond] = onFirst
	}
	batter.CurrentBase = core.BaseFirst
	bases[core.BaseFirst] = batter
	return scored
}

func (s *Simulator) playResolved(g *core.Game, res *core.PlayResult, ball *core.BattedBall, batter *core.Runner, outsBefore int) PlayResolved {
	runnerNames := make(map[core.Base]string, len(res.FinalRunners))
	for base, r := range res.FinalRunners {
		runnerNames[base] = r.Name
	}
	fielderName := ""
	if res.PrimaryFielder != nil {
		fielderName = res.PrimaryFielder.Name
	}
	return PlayResolved{
		Record: core.PlayRecord{
			GameID:       g.ID,
			Sequence:     s.playSeq,
			Batter:       batter.Name,
			Outcome:      res.Outcome,
			OutsMade:     res.OutsMade,
			RunsScored:   res.RunsScored,
			OutsBefore:   outsBefore,
			Fielder:      fielderName,
			ExitVelocity: ball.ExitVelocity,
			LaunchAngle:  ball.LaunchAngle,
			SprayAngle:   ball.SprayAngle,
			Distance:     ball.Distance,
			HangTime:     ball.HangTime,
			Landing:      ball.Landing,
			Runners:      runnerNames,
			Time:         res.WallTime,
		},
		Events:   res.Events(),
		Advances: res.Advances(),
		Races:    res.Races(),
		Ball:     *ball,
	}
}

func (s *Simulator) emit(ctx context.Context, name string, payload any) {
	if s.emitter == nil {
		return
	}
	s.emitter.Emit(ctx, name, payload)
}

func copyBases(in map[core.Base]*core.Runner) map[core.Base]*core.Runner {
	out := make(map[core.Base]*core.Runner, len(in))
	for b, r := range in {
		out[b] = r
	}
	return out
}

// LeagueRunner builds a lineup entry with uniform ratings; the CLI uses
// it to stock demo lineups.
func LeagueRunner(name string, rating int) *core.Runner {
	return &core.Runner{Name: name, Ratings: core.RunnerRatings{
		SprintSpeed:    rating,
		Acceleration:   rating,
		BaserunningIQ:  rating,
		SlidingAbility: rating,
		TurnEfficiency: rating,
	}}
}
