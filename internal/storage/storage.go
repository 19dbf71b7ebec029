// internal/storage/storage.go
package storage

import "github.com/diamondsim/playres/pkg/core"

// Backend is the interface all storage implementations must satisfy
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Game management. StartGame assigns an ID to the passed pointer;
	// EndGame writes the final line and flushes.
	StartGame(g *core.Game) error
	EndGame(g *core.Game) error

	// Record writing. RecordPlay assigns an ID to the passed pointer so
	// child records can reference it.
	RecordHalfInning(h *core.HalfInning) error
	RecordPlay(p *core.PlayRecord) error
	RecordPlayEvent(e *core.PlayEventRecord) error
	RecordRunnerAdvance(a *core.RunnerAdvanceRecord) error
	RecordBattedBall(b *core.BattedBallRecord) error
}

// Exportable is an optional interface for storage backends that produce
// a recap file at game end.
type Exportable interface {
	GetExportedFilePath() string
}

// QueueDepths reports how many records each staging queue is holding.
type QueueDepths struct {
	Plays          int
	PlayEvents     int
	RunnerAdvances int
	BattedBalls    int
}

// QueueDepthProvider is an optional interface for backends that stage
// writes through internal queues; the monitor reads depths through it.
type QueueDepthProvider interface {
	GetQueueDepths() QueueDepths
}
