package docindex

import (
	"context"
	"sort"
	"sync"

	"github.com/samber/lo"

	"github.com/grindlemire/memonoa/internal/log"
)

// Store owns the document index. Writers swap the whole map; readers take
// immutable snapshots.
type Store struct {
	mu   sync.RWMutex
	docs map[string]string
}

// NewStore creates a store holding docs. The store takes ownership of the map.
func NewStore(docs map[string]string) *Store {
	if docs == nil {
		docs = make(map[string]string)
	}
	return &Store{docs: docs}
}

// Replace installs a new index. Snapshots taken earlier keep the old one.
func (s *Store) Replace(docs map[string]string) {
	if docs == nil {
		docs = make(map[string]string)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = docs
}

// Snapshot returns a point-in-time view of the index without blocking. It
// reports false when a writer holds the lock; callers then resolve no links.
func (s *Store) Snapshot() (Snapshot, bool) {
	if !s.mu.TryRLock() {
		return Snapshot{}, false
	}
	defer s.mu.RUnlock()
	return Snapshot{docs: s.docs}, true
}

// Len returns the number of indexed documents.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// Snapshot is an immutable view of the index. It implements notes.Index.
type Snapshot struct {
	docs map[string]string
}

// Lookup returns the path of the note whose stem is exactly name.
func (s Snapshot) Lookup(name string) (string, bool) {
	path, ok := s.docs[name]
	return path, ok
}

// Len returns the number of documents in the snapshot.
func (s Snapshot) Len() int {
	return len(s.docs)
}

// Names returns all stems in sorted order.
func (s Snapshot) Names() []string {
	names := lo.Keys(s.docs)
	sort.Strings(names)
	return names
}

// Rescan scans opts.Root and replaces the store's index with the result. On
// error the current index is left untouched.
func Rescan(ctx context.Context, store *Store, opts Options) (int, error) {
	docs, err := Scan(ctx, opts)
	if err != nil {
		return 0, err
	}
	store.Replace(docs)
	log.Index("Index replaced: %d documents", len(docs))
	return len(docs), nil
}
