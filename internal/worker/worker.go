package worker

import (
	"sync"
	"time"

	"github.com/diamondsim/playres/internal/influx"
	"github.com/diamondsim/playres/internal/logging"
	"github.com/diamondsim/playres/internal/storage"
)

// Dependencies holds all dependencies for the worker manager
type Dependencies struct {
	LogManager *logging.SlogManager

	// Influx is optional; when nil no metric points are written.
	Influx *influx.Manager
}

// Manager routes game-loop events into the storage backend and the
// metrics pipeline.
type Manager struct {
	deps    Dependencies
	backend storage.Backend

	mu            sync.RWMutex
	currentGameID uint
	gameStarted   time.Time
	playCount     int
}

// NewManager creates a new worker manager
func NewManager(deps Dependencies, backend storage.Backend) *Manager {
	return &Manager{
		deps:    deps,
		backend: backend,
	}
}

// DBWriteDurationProvider is an optional interface that backends can implement
// to expose their last DB write duration for monitoring.
type DBWriteDurationProvider interface {
	GetLastDBWriteDuration() time.Duration
}

// GetLastDBWriteDuration returns the duration of the last DB write cycle.
// Returns 0 if the backend doesn't support this metric.
func (m *Manager) GetLastDBWriteDuration() time.Duration {
	if p, ok := m.backend.(DBWriteDurationProvider); ok {
		return p.GetLastDBWriteDuration()
	}
	return 0
}

// GetQueueDepths returns the backend's staging queue depths, or zeros if
// the backend doesn't stage writes.
func (m *Manager) GetQueueDepths() storage.QueueDepths {
	if p, ok := m.backend.(storage.QueueDepthProvider); ok {
		return p.GetQueueDepths()
	}
	return storage.QueueDepths{}
}

// CurrentGameID returns the storage-assigned ID of the game in flight,
// or 0 before the first game.start event.
func (m *Manager) CurrentGameID() uint {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentGameID
}

func (m *Manager) hasBackend() bool {
	return m.backend != nil
}
