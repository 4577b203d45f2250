package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStoreWatcher_Relevant(t *testing.T) {
	w := NewStoreWatcher("/data/thoughts.db", time.Millisecond, zap.NewNop())

	assert.True(t, w.relevant(fsnotify.Event{Name: "/data/thoughts.db", Op: fsnotify.Write}))
	assert.True(t, w.relevant(fsnotify.Event{Name: "/data/thoughts.db-wal", Op: fsnotify.Write}))
	assert.False(t, w.relevant(fsnotify.Event{Name: "/data/other.db", Op: fsnotify.Write}))
	assert.False(t, w.relevant(fsnotify.Event{Name: "/data/thoughts.db", Op: fsnotify.Chmod}))
}

func TestStoreWatcher_DebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "thoughts.db")
	require.NoError(t, os.WriteFile(path, []byte("0"), 0o600))

	w := NewStoreWatcher(path, 50*time.Millisecond, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, func() { calls.Add(1) }) }()

	// give the watcher a moment to register the directory
	time.Sleep(100 * time.Millisecond)
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte{byte(i)}, 0o600))
	}

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}
