package docindex

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitRescan(t *testing.T, ch <-chan int) int {
	t.Helper()
	select {
	case n := <-ch:
		return n
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for rescan")
		return 0
	}
}

func TestWatcherRescansOnCreateAndRemove(t *testing.T) {
	root := writeTree(t, "私.md")
	opts := Options{Root: root, Extensions: DefaultExtensions, Recursive: true}
	store := NewStore(nil)
	_, err := Rescan(context.Background(), store, opts)
	require.NoError(t, err)

	w, err := NewWatcher(store, opts, 20*time.Millisecond)
	require.NoError(t, err)
	w.rescanned = make(chan int, 1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	// Give Run a moment to register the watches.
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(root, "Rustacean.md"), []byte("x"), 0o644))
	assert.Equal(t, 2, waitRescan(t, w.rescanned))

	snap, ok := store.Snapshot()
	require.True(t, ok)
	_, found := snap.Lookup("Rustacean")
	assert.True(t, found)

	require.NoError(t, os.Remove(filepath.Join(root, "私.md")))
	assert.Equal(t, 1, waitRescan(t, w.rescanned))
}

func TestWatcherStopsOnCancel(t *testing.T) {
	root := t.TempDir()
	w, err := NewWatcher(NewStore(nil), Options{Root: root}, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultDebounce, w.debounce)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcherMissingRoot(t *testing.T) {
	w, err := NewWatcher(NewStore(nil), Options{Root: filepath.Join(t.TempDir(), "nope")}, time.Millisecond)
	require.NoError(t, err)
	assert.Error(t, w.Run(context.Background()))
}

func TestWatcherIsRelevantEvent(t *testing.T) {
	root := writeTree(t, "sub/note.md")
	w, err := NewWatcher(NewStore(nil), Options{Root: root, Extensions: DefaultExtensions, Recursive: true}, time.Millisecond)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.fsWatcher.Close() })
	require.NoError(t, w.addTree(root))

	goneDir := filepath.Join(root, "sub")
	watchedGone := filepath.Join(root, "old")
	w.dirs[watchedGone] = true

	type tc struct {
		event fsnotify.Event
		want  bool
	}

	tests := map[string]tc{
		"note created":         {event: fsnotify.Event{Name: filepath.Join(root, "a.md"), Op: fsnotify.Create}, want: true},
		"note removed":         {event: fsnotify.Event{Name: filepath.Join(root, "a.txt"), Op: fsnotify.Remove}, want: true},
		"note renamed":         {event: fsnotify.Event{Name: filepath.Join(root, "A.MD"), Op: fsnotify.Rename}, want: true},
		"note written":         {event: fsnotify.Event{Name: filepath.Join(root, "a.md"), Op: fsnotify.Write}, want: false},
		"image created":        {event: fsnotify.Event{Name: filepath.Join(root, "a.png"), Op: fsnotify.Create}, want: false},
		"image removed":        {event: fsnotify.Event{Name: filepath.Join(root, "a.png"), Op: fsnotify.Remove}, want: false},
		"hidden note":          {event: fsnotify.Event{Name: filepath.Join(root, ".a.md"), Op: fsnotify.Create}, want: false},
		"directory created":    {event: fsnotify.Event{Name: goneDir, Op: fsnotify.Create}, want: true},
		"watched dir removed":  {event: fsnotify.Event{Name: watchedGone, Op: fsnotify.Remove}, want: true},
		"unknown path removed": {event: fsnotify.Event{Name: filepath.Join(root, "never"), Op: fsnotify.Remove}, want: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.isRelevantEvent(tt.event))
		})
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	root := writeTree(t, "私.md")
	opts := Options{Root: root, Extensions: DefaultExtensions, Recursive: true}
	store := NewStore(nil)

	w, err := NewWatcher(store, opts, 20*time.Millisecond)
	require.NoError(t, err)
	w.rescanned = make(chan int, 1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(root, "photo.png"), []byte("x"), 0o644))
	select {
	case n := <-w.rescanned:
		t.Fatalf("unexpected rescan (%d documents) for a non-note file", n)
	case <-time.After(200 * time.Millisecond):
	}

	require.NoError(t, os.WriteFile(filepath.Join(root, "Rustacean.md"), []byte("x"), 0o644))
	assert.Equal(t, 2, waitRescan(t, w.rescanned))
}

func TestWatcherMissingRootRecursive(t *testing.T) {
	w, err := NewWatcher(NewStore(nil), Options{Root: filepath.Join(t.TempDir(), "nope"), Recursive: true}, time.Millisecond)
	require.NoError(t, err)
	assert.Error(t, w.Run(context.Background()))
}
