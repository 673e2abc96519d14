package storage

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func sets() map[string]Set[string] {
	return map[string]Set[string]{
		"memory":  NewMemorySet[string](),
		"sharded": NewShardedSet[string](8, nil),
	}
}

func TestSet_AddHasDelete(t *testing.T) {
	for name, s := range sets() {
		t.Run(name, func(t *testing.T) {
			require.True(t, s.Add("u4pru"))
			require.False(t, s.Add("u4pru"))
			require.True(t, s.Has("u4pru"))
			require.False(t, s.Has("u4prv"))
			require.Equal(t, 1, s.Count())

			require.True(t, s.Delete("u4pru"))
			require.False(t, s.Delete("u4pru"))
			require.Zero(t, s.Count())
		})
	}
}

func TestSet_SnapshotAndForEach(t *testing.T) {
	for name, s := range sets() {
		t.Run(name, func(t *testing.T) {
			for i := 0; i < 100; i++ {
				s.Add(fmt.Sprintf("k%03d", i))
			}
			snap := s.Snapshot()
			require.Len(t, snap, 100)

			seen := 0
			s.ForEach(func(key string) bool {
				_, ok := snap[key]
				require.True(t, ok)
				seen++
				return true
			})
			require.Equal(t, 100, seen)

			stopped := 0
			s.ForEach(func(string) bool {
				stopped++
				return stopped < 10
			})
			require.Equal(t, 10, stopped)
		})
	}
}

func TestSet_ConcurrentAddIsExclusive(t *testing.T) {
	for name, s := range sets() {
		t.Run(name, func(t *testing.T) {
			var wins atomic.Int64
			var wg sync.WaitGroup
			for g := 0; g < 8; g++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for i := 0; i < 500; i++ {
						if s.Add(fmt.Sprintf("cell%d", i)) {
							wins.Add(1)
						}
					}
				}()
			}
			wg.Wait()
			require.EqualValues(t, 500, wins.Load())
			require.Equal(t, 500, s.Count())
		})
	}
}

func TestNewShardedSet_RoundsToPowerOfTwo(t *testing.T) {
	s := NewShardedSet[int](5, nil)
	require.Equal(t, 8, s.shardCount)
	require.Equal(t, 7, s.shardMask)

	for i := -3; i < 20; i++ {
		s.Add(i)
	}
	require.Equal(t, 23, s.Count())
}
