// cmd/playres/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/diamondsim/playres/internal/config"
	"github.com/diamondsim/playres/internal/database"
	"github.com/diamondsim/playres/internal/dispatcher"
	"github.com/diamondsim/playres/internal/game"
	"github.com/diamondsim/playres/internal/influx"
	"github.com/diamondsim/playres/internal/logging"
	"github.com/diamondsim/playres/internal/monitor"
	"github.com/diamondsim/playres/internal/otel"
	"github.com/diamondsim/playres/internal/play"
	"github.com/diamondsim/playres/internal/storage"
	"github.com/diamondsim/playres/internal/storage/factory"
	"github.com/diamondsim/playres/internal/trajectory"
	"github.com/diamondsim/playres/internal/worker"
	"github.com/diamondsim/playres/pkg/core"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

const (
	appName       = "playres"
	engineVersion = "1.0.0"
)

var (
	sessionStart = time.Now()

	logManager = logging.NewSlogManager()
	logFile    *os.File

	otelProvider *otel.Provider

	dbManager      *database.Manager
	influxManager  *influx.Manager
	backend        storage.Backend
	events         *dispatcher.Dispatcher
	workerManager  *worker.Manager
	monitorService *monitor.Service

	// The sqlite dump goroutine raises this while VACUUMing the
	// in-memory DB to disk so batch inserts don't race the copy.
	dbInsertsPaused atomic.Bool
)

// dispatcherEmitter routes simulator events into the dispatcher.
type dispatcherEmitter struct {
	d *dispatcher.Dispatcher
}

func (e dispatcherEmitter) Emit(ctx context.Context, name string, payload any) {
	if _, err := e.d.Dispatch(dispatcher.Event{
		Command:   name,
		Payload:   payload,
		Timestamp: time.Now(),
	}); err != nil {
		logManager.Logger().Error("event dispatch failed", "command", name, "error", err)
	}
}

// consoleZerolog builds the zerolog logger handed to the managers that
// predate the slog migration (database, influx, dispatcher).
func consoleZerolog() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()
}

// setupLogging loads config and stands up the session log file, the
// optional OTel pipeline, and the slog manager.
func setupLogging() error {
	if err := config.Load("."); err != nil {
		fmt.Fprintf(os.Stderr, "no config file, using defaults: %v\n", err)
	}

	logsDir := config.GetString("logsDir")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	var err error
	logFile, err = os.OpenFile(
		logging.LogFilePath(logsDir, appName, sessionStart),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644,
	)
	if err != nil {
		return fmt.Errorf("opening session log file: %w", err)
	}

	otelCfg := config.GetOTelConfig()
	otelProvider, err = otel.New(otel.Config{
		Enabled:      otelCfg.Enabled,
		ServiceName:  otelCfg.ServiceName,
		BatchTimeout: otelCfg.BatchTimeout,
		LogWriter:    logFile,
		Endpoint:     otelCfg.Endpoint,
		Insecure:     otelCfg.Insecure,
	})
	if err != nil {
		return fmt.Errorf("setting up otel: %w", err)
	}

	graylogAddr := ""
	if gl := config.GetGraylogConfig(); gl.Enabled {
		graylogAddr = gl.Address
	}

	// Every record carries the game in flight once the worker exists.
	logManager.SetContextProvider(func() []slog.Attr {
		if workerManager == nil {
			return nil
		}
		if id := workerManager.CurrentGameID(); id != 0 {
			return []slog.Attr{slog.Uint64("gameID", uint64(id))}
		}
		return nil
	})
	logManager.Setup(logFile, config.GetString("logLevel"), otelProvider.LoggerProvider(), graylogAddr)

	logManager.Logger().Info("session started",
		"app", appName, "version", engineVersion)
	return nil
}

// setupPipeline wires storage, metrics, the dispatcher, the worker and
// the status monitor. Called after setupLogging.
func setupPipeline() error {
	zl := consoleZerolog()
	dataDir := config.GetString("dataDir")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	// Storage backend. The postgres and sqlite types need a connected
	// DB; memory does not.
	storageCfg := config.GetStorageConfig()
	var db *gorm.DB
	if storageCfg.Type == "postgres" || storageCfg.Type == "sqlite" {
		dbManager = database.NewManager(zl)
		if err := dbManager.Connect(); err != nil {
			return fmt.Errorf("connecting database: %w", err)
		}
		if err := dbManager.Setup(); err != nil {
			return fmt.Errorf("migrating database: %w", err)
		}
		db = dbManager.DB

		if dbManager.ShouldSaveLocal {
			dbManager.SqliteFilePath = filepath.Join(dataDir,
				fmt.Sprintf("%s_%s.db", appName, sessionStart.Format("20060102_150405")))
			go sqliteDumpLoop(storageCfg.SQLite.DumpInterval)
		}
	}

	var err error
	backend, err = factory.NewBackend(storageCfg, db, dbInsertsPaused.Load)
	if err != nil {
		return fmt.Errorf("creating storage backend: %w", err)
	}
	if err := backend.Init(); err != nil {
		return fmt.Errorf("initializing storage backend: %w", err)
	}
	logManager.Logger().Info("storage backend ready", "type", storageCfg.Type)

	// Metrics sink. A dead Influx endpoint degrades to the gzip backup
	// writer inside the manager, so Connect errors are not fatal.
	if config.GetInfluxConfig().Enabled {
		influxManager = influx.NewManager(zl, filepath.Join(dataDir, "influx_backup.lp.gz"))
		if err := influxManager.Connect(); err != nil {
			logManager.Logger().Warn("metrics sink unavailable", "error", err)
			influxManager = nil
		}
	}

	events, err = dispatcher.New(logging.NewDispatcherLogger(zl))
	if err != nil {
		return fmt.Errorf("creating dispatcher: %w", err)
	}

	workerManager = worker.NewManager(worker.Dependencies{
		LogManager: logManager,
		Influx:     influxManager,
	}, backend)
	workerManager.RegisterHandlers(events)

	isDatabaseValid := func() bool { return false }
	var monitorDB *gorm.DB
	if dbManager != nil {
		monitorDB = dbManager.DB
		isDatabaseValid = func() bool { return dbManager.IsValid }
	}
	monitorService = monitor.NewService(monitor.Dependencies{
		DB:              monitorDB,
		LogManager:      logManager,
		WorkerManager:   workerManager,
		DataDir:         dataDir,
		IsDatabaseValid: isDatabaseValid,
	})
	return monitorService.Start()
}

// sqliteDumpLoop periodically dumps the in-memory sqlite DB to disk,
// pausing batch inserts for the duration of the VACUUM.
func sqliteDumpLoop(interval time.Duration) {
	if interval <= 0 {
		interval = 3 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		dbInsertsPaused.Store(true)
		if err := dbManager.DumpMemoryToDisk(); err != nil {
			logManager.Logger().Error("sqlite dump failed", "error", err)
		}
		dbInsertsPaused.Store(false)
	}
}

// teardown flushes and closes everything setupPipeline started.
func teardown() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if monitorService != nil {
		monitorService.Stop()
	}
	if backend != nil {
		if err := backend.Close(); err != nil {
			logManager.Logger().Error("closing storage backend", "error", err)
		}
	}
	if dbManager != nil && dbManager.ShouldSaveLocal {
		if err := dbManager.DumpMemoryToDisk(); err != nil {
			logManager.Logger().Error("final sqlite dump failed", "error", err)
		}
	}
	if err := logManager.Flush(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "log flush failed: %v\n", err)
	}
	if otelProvider != nil {
		otelProvider.Shutdown(ctx)
	}
	if logFile != nil {
		logFile.Close()
	}
}

// buildTeam stocks a demo side: a nine-man lineup with ratings spread
// around league average and the stock defensive alignment.
func buildTeam(name string, batters [9]string) *game.Team {
	lineup := make([]*core.Runner, 0, len(batters))
	for i, batter := range batters {
		lineup = append(lineup, game.LeagueRunner(batter, 52+(i*5)%17))
	}
	return &game.Team{
		Name:    name,
		Lineup:  lineup,
		Defense: game.DefaultDefense(),
	}
}

func runGame(args []string) error {
	if err := setupLogging(); err != nil {
		return err
	}
	if err := setupPipeline(); err != nil {
		return err
	}
	defer teardown()

	seed := config.GetEngineConfig().Seed
	if len(args) > 0 {
		parsed, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("bad seed %q: %w", args[0], err)
		}
		seed = parsed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	sim, err := game.NewSeededSimulator(seed, dispatcherEmitter{events}, logManager.Logger())
	if err != nil {
		return err
	}

	home := buildTeam("Pilots", [9]string{
		"Okafor", "Linden", "Vasquez", "Tanaka", "Reyes",
		"Bloom", "Carmichael", "Du", "Pruitt",
	})
	away := buildTeam("Giants", [9]string{
		"Alvarez", "Kowalski", "Finch", "Ogawa", "Mercer",
		"St. Clair", "Hutto", "Braithwaite", "Nunez",
	})

	logManager.Logger().Info("simulating game",
		"home", home.Name, "away", away.Name, "seed", seed)

	g, err := sim.Run(context.Background(), home, away)
	if err != nil {
		return fmt.Errorf("running game: %w", err)
	}

	// Buffered play handlers drain asynchronously; give them a beat
	// before teardown flushes the backend.
	time.Sleep(2 * time.Second)

	fmt.Printf("final: %s %d, %s %d (%d innings)\n",
		g.AwayTeam, g.AwayScore, g.HomeTeam, g.HomeScore, g.Innings)
	return nil
}

// runSimulate resolves standalone plays against the stock defense and
// prints each outcome. No persistence; this is the engine smoke test.
func runSimulate(args []string) error {
	if err := setupLogging(); err != nil {
		return err
	}
	defer teardown()

	engineCfg := config.GetEngineConfig()
	seed := engineCfg.Seed
	n := 10
	if len(args) > 0 {
		parsed, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("bad seed %q: %w", args[0], err)
		}
		seed = parsed
	}
	if len(args) > 1 {
		parsed, err := strconv.Atoi(args[1])
		if err != nil || parsed < 1 {
			return fmt.Errorf("bad play count %q", args[1])
		}
		n = parsed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	rng := rand.New(rand.NewSource(seed))
	engine := play.New(play.Config{
		Rand:           rng,
		CloseTolerance: engineCfg.CloseTolerance,
		SafeBias:       engineCfg.SafeBias,
		Surface:        trajectory.Surface(engineCfg.Surface),
		Logger:         logManager.Logger(),
	})
	contact := game.NewContactGenerator(rng)
	defense := game.DefaultDefense()

	for i := 0; i < n; i++ {
		ab, err := contact.BallInPlay()
		if err != nil {
			return err
		}
		batter := game.LeagueRunner(fmt.Sprintf("Batter %d", i+1), 60)
		batter.CurrentBase = core.BaseHome
		res, err := engine.ResolvePlay(ab.Flight, ab.Ball, defense, map[core.Base]*core.Runner{}, batter, 0)
		if err != nil {
			if errors.Is(err, play.ErrFoulBall) {
				fmt.Printf("%3d  foul ball (ev %.0f, la %.0f, spray %.0f)\n",
					i+1, ab.Ball.ExitVelocity, ab.Ball.LaunchAngle, ab.Ball.SprayAngle)
				continue
			}
			return fmt.Errorf("resolving play: %w", err)
		}
		fmt.Printf("%3d  %-16s ev %5.1f  la %5.1f  dist %5.1f  outs %d  runs %d\n",
			i+1, res.Outcome, ab.Ball.ExitVelocity, ab.Ball.LaunchAngle,
			ab.Ball.Distance, res.OutsMade, res.RunsScored)
	}
	return nil
}

func usage() {
	fmt.Fprintf(os.Stderr, `%s %s - baseball play resolution engine

usage:
  %[1]s game [seed]       simulate one game (default command)
  %[1]s simulate [seed [n]]  resolve n standalone plays and print the outcomes
  %[1]s setupdb           connect and migrate the database schema
  %[1]s export <ids>      export recorded games to recap JSON
  %[1]s migratebackups    push local sqlite backups into postgres
  %[1]s version           print the version
`, appName, engineVersion)
}

func main() {
	cmd := "game"
	args := []string{}
	if len(os.Args) > 1 {
		cmd = os.Args[1]
		args = os.Args[2:]
	}

	var err error
	switch cmd {
	case "game":
		err = runGame(args)
	case "simulate":
		err = runSimulate(args)
	case "setupdb":
		err = runSetupDB()
	case "export":
		err = runExport(args)
	case "migratebackups":
		err = runMigrateBackups()
	case "version":
		fmt.Printf("%s %s\n", appName, engineVersion)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", cmd, err)
		os.Exit(1)
	}
}
