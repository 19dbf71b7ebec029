// internal/storage/memory/memory.go
package memory

import (
	"sync"

	"github.com/diamondsim/playres/internal/config"
	"github.com/diamondsim/playres/pkg/core"
)

// PlayItem groups a play with all its child records
type PlayItem struct {
	Play     core.PlayRecord
	Events   []core.PlayEventRecord
	Advances []core.RunnerAdvanceRecord
	Ball     *core.BattedBall
}

// Backend stores game data in memory and exports to JSON
type Backend struct {
	cfg  config.MemoryConfig
	game *core.Game

	halfInnings []core.HalfInning
	plays       map[uint]*PlayItem // keyed by play ID
	playOrder   []uint

	idCounter      uint
	lastExportPath string
	mu             sync.RWMutex
}

// New creates a new memory backend
func New(cfg config.MemoryConfig) *Backend {
	return &Backend{
		cfg:   cfg,
		plays: make(map[uint]*PlayItem),
	}
}

// Init initializes the backend
func (b *Backend) Init() error {
	return nil
}

// Close cleans up resources
func (b *Backend) Close() error {
	return nil
}

// StartGame begins recording a new game
func (b *Backend) StartGame(g *core.Game) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.idCounter++
	g.ID = b.idCounter

	b.game = g

	// Reset all collections
	b.halfInnings = nil
	b.plays = make(map[uint]*PlayItem)
	b.playOrder = nil

	return nil
}

// EndGame finalizes and exports the game data
func (b *Backend) EndGame(g *core.Game) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.game = g
	return b.exportJSON()
}

// RecordHalfInning records a completed half-inning
func (b *Backend) RecordHalfInning(h *core.HalfInning) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.idCounter++
	h.ID = b.idCounter

	b.halfInnings = append(b.halfInnings, *h)
	return nil
}

// RecordPlay registers a resolved play
func (b *Backend) RecordPlay(p *core.PlayRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.idCounter++
	p.ID = b.idCounter

	b.plays[p.ID] = &PlayItem{
		Play:     *p,
		Events:   make([]core.PlayEventRecord, 0),
		Advances: make([]core.RunnerAdvanceRecord, 0),
	}
	b.playOrder = append(b.playOrder, p.ID)
	return nil
}

// RecordPlayEvent attaches an event-log entry to its play
func (b *Backend) RecordPlayEvent(e *core.PlayEventRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if item, ok := b.plays[e.PlayID]; ok {
		item.Events = append(item.Events, *e)
	}
	return nil // silently ignore if play not found
}

// RecordRunnerAdvance attaches a runner movement to its play
func (b *Backend) RecordRunnerAdvance(a *core.RunnerAdvanceRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if item, ok := b.plays[a.PlayID]; ok {
		item.Advances = append(item.Advances, *a)
	}
	return nil
}

// RecordBattedBall attaches a contact summary to its play
func (b *Backend) RecordBattedBall(r *core.BattedBallRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if item, ok := b.plays[r.PlayID]; ok {
		ball := r.Ball
		item.Ball = &ball
	}
	return nil
}

// GetPlayByID looks up a recorded play by its assigned ID
func (b *Backend) GetPlayByID(id uint) (*core.PlayRecord, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if item, ok := b.plays[id]; ok {
		return &item.Play, true
	}
	return nil, false
}

// GetExportedFilePath returns the path of the last written recap file
func (b *Backend) GetExportedFilePath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastExportPath
}
