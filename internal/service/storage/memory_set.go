package storage

import "sync"

// MemorySet - set guarded by a single mutex
type MemorySet[K comparable] struct {
	data  map[K]struct{}
	mutex sync.RWMutex
}

// NewMemorySet creates a new set
func NewMemorySet[K comparable]() *MemorySet[K] {
	return &MemorySet[K]{
		data: make(map[K]struct{}),
	}
}

// Add inserts a key
func (s *MemorySet[K]) Add(key K) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.data[key]; exists {
		return false
	}
	s.data[key] = struct{}{}
	return true
}

// Has checks if a key is present
func (s *MemorySet[K]) Has(key K) bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	_, exists := s.data[key]
	return exists
}

// Delete removes a key
func (s *MemorySet[K]) Delete(key K) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.data[key]; !exists {
		return false
	}
	delete(s.data, key)
	return true
}

// ForEach executes a function for each key on a copy of the set
func (s *MemorySet[K]) ForEach(fn func(key K) bool) {
	for k := range s.Snapshot() {
		if !fn(k) {
			return
		}
	}
}

// Snapshot returns a copy of all keys
func (s *MemorySet[K]) Snapshot() map[K]struct{} {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	result := make(map[K]struct{}, len(s.data))
	for k := range s.data {
		result[k] = struct{}{}
	}
	return result
}

// Count returns number of keys
func (s *MemorySet[K]) Count() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return len(s.data)
}
