// Package cache holds the latest scan results per resolved target for the
// lifetime of the serving process.
package cache

import (
	"sort"
	"sync"

	"github.com/nao1215/sitelens/internal/model"
	"github.com/nao1215/sitelens/internal/pathguard"
)

// Reader is the read side of the store, used by the report aggregator.
type Reader interface {
	Get(key pathguard.ResolvedPath) (model.ScanBucket, bool)
}

// Store maps resolved targets to scan buckets. Keys are compared as exact
// strings; a directory and a file below it are unrelated keys. There is no
// eviction and no expiry. The zero value is not usable; call New.
type Store struct {
	mu      sync.Mutex
	buckets map[pathguard.ResolvedPath]model.ScanBucket
}

// New creates an empty Store.
func New() *Store {
	return &Store{buckets: make(map[pathguard.ResolvedPath]model.ScanBucket)}
}

// Get returns a copy of the bucket stored under key.
func (s *Store) Get(key pathguard.ResolvedPath) (model.ScanBucket, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.buckets[key]
	if !ok {
		return model.ScanBucket{}, false
	}
	return b.Clone(), true
}

// Put merges the non-nil families of update into the bucket under key.
// Families absent from update keep their previous value.
func (s *Store) Put(key pathguard.ResolvedPath, update model.ScanBucket) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buckets[key] = s.buckets[key].Merge(update.Clone())
}

// Len returns the number of keys.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buckets)
}

// Keys returns every key, sorted.
func (s *Store) Keys() []pathguard.ResolvedPath {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]pathguard.ResolvedPath, 0, len(s.buckets))
	for k := range s.buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
