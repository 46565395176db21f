package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type blockingWorker struct {
	*BaseWorker
	started atomic.Bool
}

func (w *blockingWorker) Start(ctx context.Context) error {
	w.started.Store(true)
	select {
	case <-w.StopChan():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func TestWorkerManager_NoWorkers(t *testing.T) {
	m := NewWorkerManager(zap.NewNop())
	assert.Error(t, m.Start(context.Background()))
}

func TestWorkerManager_StartStop(t *testing.T) {
	m := NewWorkerManager(zap.NewNop())
	w := &blockingWorker{BaseWorker: NewBaseWorker("blocking", "group", zap.NewNop())}
	m.Register(w)

	require.NoError(t, m.Start(context.Background()))
	require.Eventually(t, w.started.Load, time.Second, 10*time.Millisecond)

	require.NoError(t, m.Stop(time.Second))
	assert.True(t, w.IsStopped())
}

type failingWorker struct {
	*BaseWorker
}

func (w *failingWorker) Start(ctx context.Context) error {
	return assert.AnError
}

func TestWorkerManager_ReportsFailures(t *testing.T) {
	m := NewWorkerManager(zap.NewNop())
	m.Register(&failingWorker{BaseWorker: NewBaseWorker("failing", "group", zap.NewNop())})

	require.NoError(t, m.Start(context.Background()))

	select {
	case err := <-m.Errors():
		assert.ErrorIs(t, err, assert.AnError)
	case <-time.After(time.Second):
		t.Fatal("expected worker failure")
	}

	require.NoError(t, m.Stop(time.Second))
}

func TestBaseWorker_Sleep(t *testing.T) {
	w := NewBaseWorker("sleepy", "group", zap.NewNop())
	assert.True(t, w.Sleep(context.Background(), time.Millisecond))

	require.NoError(t, w.Stop())
	assert.False(t, w.Sleep(context.Background(), time.Hour))
}
