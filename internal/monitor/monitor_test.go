package monitor

import (
	"testing"
	"time"

	"github.com/diamondsim/playres/internal/config"
	"github.com/diamondsim/playres/internal/logging"
	"github.com/diamondsim/playres/internal/storage/memory"
	"github.com/diamondsim/playres/internal/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	backend := memory.New(config.MemoryConfig{OutputDir: t.TempDir()})
	require.NoError(t, backend.Init())
	t.Cleanup(func() { backend.Close() })

	wm := worker.NewManager(worker.Dependencies{LogManager: logging.NewSlogManager()}, backend)
	return NewService(Dependencies{
		LogManager:      logging.NewSlogManager(),
		WorkerManager:   wm,
		DataDir:         t.TempDir(),
		IsDatabaseValid: func() bool { return false },
	})
}

func TestGetProgramStatus(t *testing.T) {
	svc := newTestService(t)

	output, perf := svc.GetProgramStatus(true, true)
	assert.Len(t, output, 2)
	assert.Zero(t, perf.GameID)
	assert.Zero(t, perf.WriteQueueLengths.PlayEvents)
	assert.WithinDuration(t, time.Now(), perf.Time, time.Minute)
}

func TestGetProgramStatus_NoSections(t *testing.T) {
	svc := newTestService(t)

	output, _ := svc.GetProgramStatus(false, false)
	assert.Empty(t, output)
}

func TestStartStop(t *testing.T) {
	svc := newTestService(t)

	require.NoError(t, svc.Start())
	assert.True(t, svc.IsRunning())

	// Starting twice is a no-op
	require.NoError(t, svc.Start())

	svc.Stop()
	assert.Eventually(t, func() bool { return !svc.IsRunning() },
		3*time.Second, 50*time.Millisecond)
}
