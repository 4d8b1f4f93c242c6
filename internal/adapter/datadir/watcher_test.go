package datadir

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/navaid-service/internal/registry"
)

type countingReloader struct {
	calls atomic.Int32
}

func (c *countingReloader) Load(context.Context) (registry.Stats, error) {
	c.calls.Add(1)
	return registry.Stats{}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWatcher_DebounceCollapsesBursts(t *testing.T) {
	clock := clockwork.NewFakeClock()
	r := &countingReloader{}
	w := NewWatcher(t.TempDir(), 2*time.Second, r, clock, testLogger())
	ctx := context.Background()

	w.schedule(ctx)
	clock.Advance(time.Second)
	w.schedule(ctx)
	w.schedule(ctx)
	clock.Advance(time.Second)
	assert.Zero(t, r.calls.Load(), "window restarts on every event")

	clock.Advance(time.Second)
	require.Eventually(t, func() bool { return r.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	clock.Advance(10 * time.Second)
	assert.Never(t, func() bool { return r.calls.Load() > 1 }, 100*time.Millisecond, 10*time.Millisecond)
}

func TestWatcher_CancelledContextSkipsReload(t *testing.T) {
	clock := clockwork.NewFakeClock()
	r := &countingReloader{}
	w := NewWatcher(t.TempDir(), time.Second, r, clock, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	w.schedule(ctx)
	cancel()
	clock.Advance(2 * time.Second)

	assert.Never(t, func() bool { return r.calls.Load() > 0 }, 100*time.Millisecond, 10*time.Millisecond)
}

func TestWatcher_Relevant(t *testing.T) {
	w := NewWatcher("/data", time.Second, &countingReloader{}, nil, testLogger())

	tests := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"write NAV", fsnotify.Event{Name: "/data/NAV.txt", Op: fsnotify.Write}, true},
		{"create APT", fsnotify.Event{Name: "/data/APT.txt", Op: fsnotify.Create}, true},
		{"rename FIX", fsnotify.Event{Name: "/data/FIX.txt", Op: fsnotify.Rename}, true},
		{"remove FIX", fsnotify.Event{Name: "/data/FIX.txt", Op: fsnotify.Remove}, true},
		{"chmod NAV", fsnotify.Event{Name: "/data/NAV.txt", Op: fsnotify.Chmod}, false},
		{"other file", fsnotify.Event{Name: "/data/AWOS.txt", Op: fsnotify.Write}, false},
		{"temp file", fsnotify.Event{Name: "/data/NAV.txt.tmp", Op: fsnotify.Create}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.relevant(tt.ev))
		})
	}
}

func TestWatcher_RunReloadsOnFileChange(t *testing.T) {
	dir := t.TempDir()
	r := &countingReloader{}
	w := NewWatcher(dir, 20*time.Millisecond, r, nil, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// The watch is registered asynchronously, so keep touching the file
	// until a reload is observed.
	require.Eventually(t, func() bool {
		_ = os.WriteFile(filepath.Join(dir, "NAV.txt"), []byte("NAV1\r\n"), 0o644)
		return r.calls.Load() > 0
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestWatcher_RunMissingDirectory(t *testing.T) {
	w := NewWatcher(filepath.Join(t.TempDir(), "absent"), time.Second, &countingReloader{}, nil, testLogger())
	err := w.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "absent")
}
