package v1

import (
	"context"
	"sync"
)

// SyncMap guards a Map with a sync.RWMutex. Lookups share the read lock,
// mutations and optimization take the write lock, so readers never see
// optimizer state that is being rebuilt.
type SyncMap struct {
	mu sync.RWMutex
	m  *Map
}

// NewSyncMap wraps m. The caller must not use m directly afterwards.
func NewSyncMap(m *Map) *SyncMap {
	return &SyncMap{m: m}
}

// Get is Map.Get under the read lock.
func (s *SyncMap) Get(arg any) ([]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.m.Get(arg)
}

// Has is Map.Has under the read lock.
func (s *SyncMap) Has(k Key) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.m.Has(k)
}

// Len is Map.Len under the read lock.
func (s *SyncMap) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.m.Len()
}

// Stats is Map.Stats under the read lock.
func (s *SyncMap) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.m.Stats()
}

// Echo is Map.Echo under the read lock.
func (s *SyncMap) Echo() EchoMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.m.Echo()
}

// Default is Map.Default under the read lock.
func (s *SyncMap) Default() any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.m.Default()
}

// Set is Map.Set under the write lock.
func (s *SyncMap) Set(k Key, v any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m.Set(k, v)
}

// Delete is Map.Delete under the write lock.
func (s *SyncMap) Delete(k Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m.Delete(k)
}

// SetEcho is Map.SetEcho under the write lock.
func (s *SyncMap) SetEcho(mode EchoMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.SetEcho(mode)
}

// SetDefault is Map.SetDefault under the write lock.
func (s *SyncMap) SetDefault(v any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m.SetDefault(v)
}

// Optimize is Map.OptimizeContext under the write lock.
func (s *SyncMap) Optimize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.OptimizeContext(ctx)
}

// Replace swaps in next, typically a freshly built and optimized map, and
// returns the previous one. A nil next is ignored.
func (s *SyncMap) Replace(next *Map) *Map {
	if next == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.m
	s.m = next
	return prev
}

// Snapshot returns the current map. It must only be read.
func (s *SyncMap) Snapshot() *Map {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.m
}
