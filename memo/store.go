package memo

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/exp/maps"

	"functools/cache"
)

// Store holds memoized results.
type Store[K comparable, V any] interface {
	// Get returns the value stored for key.
	Get(key K) (value V, ok bool)

	// Add stores value for key, returns true if another entry was evicted to make room.
	Add(key K, value V) bool

	Len() int

	Purge()
}

var (
	_ Store[int, int] = (*MapStore[int, int])(nil)
	_ Store[int, int] = (*cache.LRU[int, int])(nil)
	_ Store[int, int] = (*lru.Cache[int, int])(nil)
)

// MapStore is an unbounded Store over a built-in map. It never evicts.
type MapStore[K comparable, V any] struct {
	m map[K]V
}

func NewMapStore[K comparable, V any]() *MapStore[K, V] {
	return &MapStore[K, V]{m: make(map[K]V)}
}

func (s *MapStore[K, V]) Get(key K) (value V, ok bool) {
	value, ok = s.m[key]
	return value, ok
}

func (s *MapStore[K, V]) Add(key K, value V) bool {
	s.m[key] = value
	return false
}

func (s *MapStore[K, V]) Len() int { return len(s.m) }

func (s *MapStore[K, V]) Purge() { maps.Clear(s.m) }

// NewLRUStore returns a Store keeping at most size results, dropping the
// least recently used one first. Not safe for concurrent use.
func NewLRUStore[K comparable, V any](size int) (Store[K, V], error) {
	c, err := cache.NewLRU[K, V](size, nil)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// NewSyncLRUStore is like NewLRUStore, but the returned Store may be
// shared between goroutines. size must be positive.
func NewSyncLRUStore[K comparable, V any](size int) (Store[K, V], error) {
	c, err := lru.New[K, V](size)
	if err != nil {
		return nil, err
	}
	return c, nil
}
