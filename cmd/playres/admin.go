// cmd/playres/admin.go
package main

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/diamondsim/playres/internal/config"
	"github.com/diamondsim/playres/internal/database"
	"github.com/diamondsim/playres/internal/field"
	"github.com/diamondsim/playres/internal/model"
	"github.com/diamondsim/playres/internal/model/convert"
	"github.com/diamondsim/playres/internal/monitor"
	"github.com/diamondsim/playres/internal/storage/memory"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// hypertableSegments are the TimescaleDB compression segment columns for
// the tables that carry a time column.
var hypertableSegments = map[string][]string{
	"plays":            {"game_id"},
	"sim_performances": {"game_id"},
}

// runSetupDB connects, migrates the schema, and configures hypertables
// when running against TimescaleDB.
func runSetupDB() error {
	if err := setupLogging(); err != nil {
		return err
	}
	logger := logManager.Logger()

	m := database.NewManager(consoleZerolog())
	if err := m.Connect(); err != nil {
		return fmt.Errorf("connecting database: %w", err)
	}
	if err := m.Setup(); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	if !m.ShouldSaveLocal {
		svc := monitor.NewService(monitor.Dependencies{DB: m.DB, LogManager: logManager})
		if err := svc.ValidateHypertables(hypertableSegments); err != nil {
			// Plain postgres without the timescaledb extension still works.
			logger.Warn("hypertable setup skipped", "error", err)
		}
	}

	if err := seedDefaultPark(m.DB, logger); err != nil {
		return err
	}

	logger.Info("database ready", "local", m.ShouldSaveLocal)
	return nil
}

// seedDefaultPark inserts the stock park row when absent and checks
// that whatever fence table is stored there still parses.
func seedDefaultPark(db *gorm.DB, logger *slog.Logger) error {
	fences, err := json.Marshal(field.DefaultFenceTable())
	if err != nil {
		return fmt.Errorf("encoding fence table: %w", err)
	}

	park := model.Park{
		Name:       "Diamond Park",
		Surface:    config.GetEngineConfig().Surface,
		FenceTable: datatypes.JSON(fences),
	}
	created, err := park.GetOrInsert(db)
	if err != nil {
		return fmt.Errorf("seeding park: %w", err)
	}
	if created {
		logger.Info("seeded default park", "park", park.Name)
	}

	if _, err := field.ParseFenceTable(park.FenceTable); err != nil {
		logger.Warn("stored park fence table invalid, stock outline will be used",
			"park", park.Name, "error", err)
	}
	return nil
}

// runExport writes recap JSON files for recorded games, one per ID.
func runExport(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no game IDs given")
	}
	if err := setupLogging(); err != nil {
		return err
	}
	logger := logManager.Logger()

	m := database.NewManager(consoleZerolog())
	if err := m.Connect(); err != nil {
		return fmt.Errorf("connecting database: %w", err)
	}

	outputDir := config.GetStorageConfig().Memory.OutputDir
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	for _, arg := range args {
		id, err := strconv.ParseUint(arg, 10, 32)
		if err != nil {
			return fmt.Errorf("bad game ID %q: %w", arg, err)
		}
		path, err := exportGame(m.DB, uint(id), outputDir)
		if err != nil {
			return fmt.Errorf("exporting game %d: %w", id, err)
		}
		logger.Info("exported game", "gameID", id, "path", path)
		fmt.Println(path)
	}
	return nil
}

// exportGame reads one game's rows back out of the database and writes
// the same recap format the memory backend produces at game end.
func exportGame(db *gorm.DB, id uint, outputDir string) (string, error) {
	var gameRow model.Game
	if err := db.First(&gameRow, id).Error; err != nil {
		return "", fmt.Errorf("loading game: %w", err)
	}

	export := memory.GameExport{
		HomeTeam:  gameRow.HomeTeam,
		AwayTeam:  gameRow.AwayTeam,
		HomeScore: gameRow.HomeScore,
		AwayScore: gameRow.AwayScore,
		Innings:   gameRow.Innings,
		StartTime: gameRow.StartTime,
		EndTime:   gameRow.EndTime,
	}

	var halves []model.HalfInning
	if err := db.Where("game_id = ?", id).Order("id").Find(&halves).Error; err != nil {
		return "", fmt.Errorf("loading half innings: %w", err)
	}
	for _, h := range halves {
		export.HalfInnings = append(export.HalfInnings, memory.HalfInningJSON{
			Inning:  h.Inning,
			Top:     h.Top,
			Batting: h.Batting,
			Runs:    h.Runs,
			AtBats:  h.AtBats,
		})
	}

	var plays []model.Play
	if err := db.Where("game_id = ?", id).Order("sequence").Find(&plays).Error; err != nil {
		return "", fmt.Errorf("loading plays: %w", err)
	}
	for _, p := range plays {
		play := memory.PlayJSON{
			Sequence:   p.Sequence,
			Batter:     p.Batter,
			Outcome:    p.Outcome,
			OutsMade:   p.OutsMade,
			RunsScored: p.RunsScored,
			OutsBefore: p.OutsBefore,
			Fielder:    p.Fielder,
			Events:     [][]any{},
			Advances:   [][]any{},
		}

		var events []model.PlayEvent
		db.Where("play_id = ?", p.ID).Order("sim_time").Find(&events)
		for _, ev := range events {
			play.Events = append(play.Events, []any{ev.SimTime, ev.Category, ev.Description})
		}

		var advances []model.RunnerAdvance
		db.Where("play_id = ?", p.ID).Order("id").Find(&advances)
		for _, adv := range advances {
			play.Advances = append(play.Advances, []any{
				adv.Runner, adv.FromBase, adv.ToBase,
				boolToInt(adv.Scored), boolToInt(adv.Out),
			})
		}

		var ball model.BattedBallRecord
		if err := db.Where("play_id = ?", p.ID).First(&ball).Error; err == nil {
			landing := convert.PointToPosition(ball.Landing)
			play.BattedBall = &memory.BattedBallJSON{
				ExitVelocity: ball.ExitVelocity,
				LaunchAngle:  ball.LaunchAngle,
				SprayAngle:   ball.SprayAngle,
				Distance:     ball.Distance,
				HangTime:     ball.HangTime,
				Quality:      ball.Quality,
				Landing:      []float64{landing.X, landing.Y},
			}
		}

		export.Plays = append(export.Plays, play)
	}

	matchup := strings.ReplaceAll(
		fmt.Sprintf("%s_at_%s", gameRow.AwayTeam, gameRow.HomeTeam), " ", "_")
	filename := fmt.Sprintf("%s_%s.json.gz", matchup, gameRow.StartTime.Format("20060102_150405"))
	path := filepath.Join(outputDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating recap file: %w", err)
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	defer gz.Close()
	if err := json.NewEncoder(gz).Encode(export); err != nil {
		return "", fmt.Errorf("encoding recap: %w", err)
	}
	return path, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// runMigrateBackups pushes every local sqlite backup in the data dir
// into postgres, renaming each file once its rows are committed.
func runMigrateBackups() error {
	if err := setupLogging(); err != nil {
		return err
	}
	logger := logManager.Logger()

	pg, err := database.GetPostgresDBStandalone()
	if err != nil {
		return fmt.Errorf("connecting postgres: %w", err)
	}
	if err := pg.AutoMigrate(model.DatabaseModels...); err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}

	dataDir := config.GetString("dataDir")
	paths, err := database.GetBackupDBPaths(dataDir)
	if err != nil {
		return fmt.Errorf("listing backups: %w", err)
	}
	if len(paths) == 0 {
		logger.Info("no backup databases found", "dir", dataDir)
		return nil
	}

	for _, path := range paths {
		if err := migrateBackup(pg, path, logger); err != nil {
			logger.Error("backup migration failed", "path", path, "error", err)
			continue
		}
		if err := os.Rename(path, path+".migrated"); err != nil {
			logger.Error("failed to rename migrated backup", "path", path, "error", err)
		}
	}
	return nil
}

// migrateBackup copies one backup's rows into postgres in a single
// transaction, parents before children so foreign keys resolve.
func migrateBackup(pg *gorm.DB, path string, logger *slog.Logger) error {
	src, err := database.GetSqliteDBStandalone(path)
	if err != nil {
		return fmt.Errorf("opening backup: %w", err)
	}

	tx := pg.Begin()
	steps := []func() error{
		func() error { return migrateTable[model.EngineInfo](src, tx, "engine_infos") },
		func() error { return migrateTable[model.Park](src, tx, "parks") },
		func() error { return migrateTable[model.Game](src, tx, "games") },
		func() error { return migrateTable[model.HalfInning](src, tx, "half_innings") },
		func() error { return migrateTable[model.Play](src, tx, "plays") },
		func() error { return migrateTable[model.PlayEvent](src, tx, "play_events") },
		func() error { return migrateTable[model.RunnerAdvance](src, tx, "runner_advances") },
		func() error { return migrateTable[model.BattedBallRecord](src, tx, "batted_ball_records") },
		func() error { return migrateTable[model.SimPerformance](src, tx, "sim_performances") },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			tx.Rollback()
			return err
		}
	}
	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("committing migration: %w", err)
	}
	logger.Info("migrated backup", "path", path)
	return nil
}

// migrateTable copies every row of one table from the backup into the
// transaction.
func migrateTable[M any](src, tx *gorm.DB, tableName string) error {
	var rows []M
	if err := src.Table(tableName).Find(&rows).Error; err != nil {
		return fmt.Errorf("reading %s: %w", tableName, err)
	}
	if len(rows) == 0 {
		return nil
	}
	if err := tx.Table(tableName).CreateInBatches(rows, 2000).Error; err != nil {
		return fmt.Errorf("writing %s: %w", tableName, err)
	}
	return nil
}
