package service

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/juju/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRefresher struct{ n atomic.Int32 }

func (c *countingRefresher) Refresh(context.Context) error {
	c.n.Add(1)
	return nil
}

func TestWatcherDebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	target := &countingRefresher{}
	w := NewWatcher(dir, "completedOrders.json", 150*time.Millisecond, target, clock.WallClock)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	time.Sleep(100 * time.Millisecond) // let the watch register

	require.NoError(t, os.WriteFile(filepath.Join(dir, "orders.json"), []byte(`{}`), 0o644))
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "completedOrders.json"), []byte(`{"completedOrders":[]}`), 0o644))
	}

	assert.Eventually(t, func() bool { return target.n.Load() == 1 }, 2*time.Second, 20*time.Millisecond)
	time.Sleep(400 * time.Millisecond)
	assert.Equal(t, int32(1), target.n.Load())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	target := &countingRefresher{}
	w := NewWatcher(dir, "completedOrders.json", 50*time.Millisecond, target, clock.WallClock)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "menu.json"), []byte(`{}`), 0o644))
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(0), target.n.Load())
}
