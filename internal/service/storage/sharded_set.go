package storage

import (
	"fmt"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// ShardedSet - set split into independently locked shards
type ShardedSet[K comparable] struct {
	shards     []*shardData[K]
	shardCount int
	shardMask  int
	keyToShard func(K) int // Shard distribution function
}

// shardData - single shard data
type shardData[K comparable] struct {
	data  map[K]struct{}
	mutex sync.RWMutex
}

// NewShardedSet creates a new sharded set
func NewShardedSet[K comparable](shardCount int, keyToShardFunc func(K) int) *ShardedSet[K] {
	// Round up to power of two
	realShardCount := 1
	for realShardCount < shardCount {
		realShardCount *= 2
	}

	shards := make([]*shardData[K], realShardCount)
	for i := 0; i < realShardCount; i++ {
		shards[i] = &shardData[K]{
			data: make(map[K]struct{}),
		}
	}

	// If no distribution function provided, use standard one for string and numeric keys
	if keyToShardFunc == nil {
		keyToShardFunc = func(key K) int {
			switch k := any(key).(type) {
			case string:
				return int(xxhash.Sum64String(k)) & (realShardCount - 1)
			case int:
				return k & (realShardCount - 1)
			case int64:
				return int(k) & (realShardCount - 1)
			case uint64:
				return int(k) & (realShardCount - 1)
			default:
				return int(xxhash.Sum64String(fmt.Sprintf("%v", key))) & (realShardCount - 1)
			}
		}
	}

	return &ShardedSet[K]{
		shards:     shards,
		shardCount: realShardCount,
		shardMask:  realShardCount - 1,
		keyToShard: keyToShardFunc,
	}
}

// getShard returns shard for key
func (s *ShardedSet[K]) getShard(key K) *shardData[K] {
	return s.shards[s.keyToShard(key)&s.shardMask]
}

// Add inserts a key
func (s *ShardedSet[K]) Add(key K) bool {
	shard := s.getShard(key)

	shard.mutex.Lock()
	defer shard.mutex.Unlock()

	if _, exists := shard.data[key]; exists {
		return false
	}
	shard.data[key] = struct{}{}
	return true
}

// Has checks if a key is present
func (s *ShardedSet[K]) Has(key K) bool {
	shard := s.getShard(key)

	shard.mutex.RLock()
	defer shard.mutex.RUnlock()

	_, exists := shard.data[key]
	return exists
}

// Delete removes a key
func (s *ShardedSet[K]) Delete(key K) bool {
	shard := s.getShard(key)

	shard.mutex.Lock()
	defer shard.mutex.Unlock()

	if _, exists := shard.data[key]; !exists {
		return false
	}
	delete(shard.data, key)
	return true
}

// ForEach executes a function for each key, one shard copy at a time
func (s *ShardedSet[K]) ForEach(fn func(key K) bool) {
	for _, shard := range s.shards {
		shard.mutex.RLock()
		items := make([]K, 0, len(shard.data))
		for k := range shard.data {
			items = append(items, k)
		}
		shard.mutex.RUnlock()

		for _, k := range items {
			if !fn(k) {
				return
			}
		}
	}
}

// Snapshot returns all keys from all shards
func (s *ShardedSet[K]) Snapshot() map[K]struct{} {
	result := make(map[K]struct{}, s.Count())

	for _, shard := range s.shards {
		shard.mutex.RLock()
		for k := range shard.data {
			result[k] = struct{}{}
		}
		shard.mutex.RUnlock()
	}

	return result
}

// Count returns total number of keys
func (s *ShardedSet[K]) Count() int {
	count := 0
	for _, shard := range s.shards {
		shard.mutex.RLock()
		count += len(shard.data)
		shard.mutex.RUnlock()
	}
	return count
}
