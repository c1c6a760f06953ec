package docindex

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/grindlemire/memonoa/internal/log"
)

// DefaultDebounce is how long the watcher waits for filesystem events to
// settle before rescanning.
const DefaultDebounce = 500 * time.Millisecond

// Watcher rescans the notes root into a Store whenever notes are created,
// removed or renamed.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	store     *Store
	opts      Options
	debounce  time.Duration

	// dirs holds every directory added to fsWatcher. Only Run touches it.
	dirs map[string]bool

	// rescanned receives the document count after each rescan. Nil unless set by tests.
	rescanned chan int
}

// NewWatcher creates a watcher for opts.Root feeding store.
func NewWatcher(store *Store, opts Options, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	return &Watcher{
		fsWatcher: fsw,
		store:     store,
		opts:      opts,
		debounce:  debounce,
		dirs:      make(map[string]bool),
	}, nil
}

// Run watches until ctx is cancelled, then releases the fsnotify watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsWatcher.Close()

	if err := w.addTree(w.opts.Root); err != nil {
		return err
	}
	log.Watch("Watching %s (recursive=%v)", w.opts.Root, w.opts.Recursive)

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			if !w.isRelevantEvent(event) {
				continue
			}
			log.Watch("Event %s", event)
			if event.Has(fsnotify.Create) && w.opts.Recursive {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !skipDir(info.Name()) {
					if err := w.addTree(event.Name); err != nil {
						log.Watch("Failed to watch %s: %v", event.Name, err)
					}
				}
			}

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			pending = timer.C

		case <-pending:
			pending = nil
			n, err := Rescan(ctx, w.store, w.opts)
			if err != nil {
				log.Watch("Rescan failed: %v", err)
				continue
			}
			if w.rescanned != nil {
				select {
				case w.rescanned <- n:
				default:
				}
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			log.Watch("Watcher error: %v", err)
		}
	}
}

// addTree watches dir and, when recursive, every non-skipped directory below it.
func (w *Watcher) addTree(dir string) error {
	if !w.opts.Recursive {
		return w.addDir(dir)
	}
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return fmt.Errorf("watching directory %s: %w", dir, err)
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && skipDir(d.Name()) {
			return filepath.SkipDir
		}
		return w.addDir(path)
	})
}

func (w *Watcher) addDir(dir string) error {
	if err := w.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("watching directory %s: %w", dir, err)
	}
	w.dirs[dir] = true
	return nil
}

// isRelevantEvent reports whether the event can change the set of note names:
// a note file or a directory was created, removed or renamed.
func (w *Watcher) isRelevantEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	if matchesExt(event.Name, w.opts.Extensions) {
		return true
	}

	if event.Has(fsnotify.Create) {
		info, err := os.Stat(event.Name)
		return err == nil && info.IsDir()
	}
	// The entry is gone, so only a directory we were watching can tell us
	// it held notes.
	if w.dirs[event.Name] {
		delete(w.dirs, event.Name)
		return true
	}
	return false
}
