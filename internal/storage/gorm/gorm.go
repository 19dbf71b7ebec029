// Package gormstorage persists game records through GORM, shared by the
// postgres and sqlite storage types.
package gormstorage

import (
	"fmt"
	"sync"
	"time"

	"github.com/diamondsim/playres/internal/model"
	"github.com/diamondsim/playres/internal/model/convert"
	"github.com/diamondsim/playres/internal/queue"
	"github.com/diamondsim/playres/internal/storage"
	"github.com/diamondsim/playres/pkg/core"
	"gorm.io/gorm"
)

// writeInterval is how often the staging queues are drained to the DB.
const writeInterval = 500 * time.Millisecond

// Dependencies holds the backend's collaborators. DB may be nil in
// tests; records then stay queued and nothing is written.
type Dependencies struct {
	DB *gorm.DB

	// DBInsertsPaused, when set, suspends queue drains (the sqlite
	// manager pauses inserts while dumping the in-memory DB to disk).
	DBInsertsPaused func() bool
}

// writeQueues stage the high-volume child records between the play
// handlers and the batched DB writer.
type writeQueues struct {
	PlayEvents     *queue.Queue[core.PlayEventRecord]
	RunnerAdvances *queue.Queue[core.RunnerAdvanceRecord]
	BattedBalls    *queue.Queue[core.BattedBallRecord]
}

// Backend writes plays synchronously (their IDs anchor the child rows)
// and drains events, advances and batted balls in batches.
type Backend struct {
	deps   Dependencies
	queues *writeQueues

	stopChan chan struct{}
	wg       sync.WaitGroup

	mu                  sync.RWMutex
	lastDBWriteDuration time.Duration
}

// New creates a gorm storage backend.
func New(deps Dependencies) *Backend {
	return &Backend{deps: deps}
}

// Init creates the staging queues and starts the batch writer.
func (b *Backend) Init() error {
	b.queues = &writeQueues{
		PlayEvents:     queue.New[core.PlayEventRecord](),
		RunnerAdvances: queue.New[core.RunnerAdvanceRecord](),
		BattedBalls:    queue.New[core.BattedBallRecord](),
	}
	b.stopChan = make(chan struct{})

	b.wg.Add(1)
	go b.writeLoop()
	return nil
}

// Close stops the writer and drains whatever is still queued.
func (b *Backend) Close() error {
	if b.stopChan != nil {
		close(b.stopChan)
		b.wg.Wait()
		b.stopChan = nil
	}
	return b.flush()
}

func (b *Backend) writeLoop() {
	defer b.wg.Done()

	ticker := time.NewTicker(writeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.stopChan:
			return
		case <-ticker.C:
			if b.deps.DBInsertsPaused != nil && b.deps.DBInsertsPaused() {
				continue
			}
			b.flush()
		}
	}
}

// flush drains all staging queues into the database in one measured
// write cycle.
func (b *Backend) flush() error {
	if b.deps.DB == nil {
		return nil
	}

	events := b.queues.PlayEvents.GetAndEmpty()
	advances := b.queues.RunnerAdvances.GetAndEmpty()
	balls := b.queues.BattedBalls.GetAndEmpty()
	if len(events) == 0 && len(advances) == 0 && len(balls) == 0 {
		return nil
	}

	start := time.Now()

	if len(events) > 0 {
		rows := make([]model.PlayEvent, len(events))
		for i, e := range events {
			rows[i] = convert.PlayEventToModel(e)
		}
		if err := b.deps.DB.Create(&rows).Error; err != nil {
			return fmt.Errorf("writing play events: %w", err)
		}
	}

	if len(advances) > 0 {
		rows := make([]model.RunnerAdvance, len(advances))
		for i, a := range advances {
			rows[i] = convert.RunnerAdvanceToModel(a)
		}
		if err := b.deps.DB.Create(&rows).Error; err != nil {
			return fmt.Errorf("writing runner advances: %w", err)
		}
	}

	if len(balls) > 0 {
		rows := make([]model.BattedBallRecord, len(balls))
		for i, bb := range balls {
			rows[i] = convert.BattedBallToModel(bb.PlayID, bb.GameID, bb.Ball)
		}
		if err := b.deps.DB.Create(&rows).Error; err != nil {
			return fmt.Errorf("writing batted balls: %w", err)
		}
	}

	b.mu.Lock()
	b.lastDBWriteDuration = time.Since(start)
	b.mu.Unlock()
	return nil
}

// StartGame inserts the game row and assigns its ID to the pointer.
func (b *Backend) StartGame(g *core.Game) error {
	if b.deps.DB == nil {
		return nil
	}
	row := convert.GameToModel(*g)
	if err := b.deps.DB.Create(&row).Error; err != nil {
		return fmt.Errorf("creating game: %w", err)
	}
	g.ID = row.ID
	return nil
}

// EndGame writes the final line onto the game row and flushes the
// staging queues.
func (b *Backend) EndGame(g *core.Game) error {
	if b.deps.DB == nil {
		return nil
	}
	err := b.deps.DB.Model(&model.Game{}).Where("id = ?", g.ID).Updates(map[string]any{
		"innings":    g.Innings,
		"home_score": g.HomeScore,
		"away_score": g.AwayScore,
		"end_time":   g.EndTime,
	}).Error
	if err != nil {
		return fmt.Errorf("finalizing game: %w", err)
	}
	return b.flush()
}

// RecordHalfInning inserts the half-inning row and assigns its ID.
func (b *Backend) RecordHalfInning(h *core.HalfInning) error {
	if b.deps.DB == nil {
		return nil
	}
	row := convert.HalfInningToModel(*h)
	if err := b.deps.DB.Create(&row).Error; err != nil {
		return fmt.Errorf("creating half inning: %w", err)
	}
	h.ID = row.ID
	return nil
}

// RecordPlay inserts the play row synchronously so child records can
// reference its ID.
func (b *Backend) RecordPlay(p *core.PlayRecord) error {
	if b.deps.DB == nil {
		return nil
	}
	row := convert.PlayToModel(*p)
	if err := b.deps.DB.Create(&row).Error; err != nil {
		return fmt.Errorf("creating play: %w", err)
	}
	p.ID = row.ID
	return nil
}

// RecordPlayEvent stages an event-log entry for the next batch write.
func (b *Backend) RecordPlayEvent(e *core.PlayEventRecord) error {
	b.queues.PlayEvents.Push(*e)
	return nil
}

// RecordRunnerAdvance stages a runner movement for the next batch write.
func (b *Backend) RecordRunnerAdvance(a *core.RunnerAdvanceRecord) error {
	b.queues.RunnerAdvances.Push(*a)
	return nil
}

// RecordBattedBall stages a contact summary for the next batch write.
func (b *Backend) RecordBattedBall(r *core.BattedBallRecord) error {
	b.queues.BattedBalls.Push(*r)
	return nil
}

// GetLastDBWriteDuration returns the duration of the last write cycle.
func (b *Backend) GetLastDBWriteDuration() time.Duration {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastDBWriteDuration
}

// GetQueueDepths reports the staging queue lengths. Plays never queue;
// they write through synchronously.
func (b *Backend) GetQueueDepths() storage.QueueDepths {
	return storage.QueueDepths{
		PlayEvents:     b.queues.PlayEvents.Len(),
		RunnerAdvances: b.queues.RunnerAdvances.Len(),
		BattedBalls:    b.queues.BattedBalls.Len(),
	}
}
