// Package cache implements a fixed-capacity LRU container.
//
// LRU is not safe for concurrent use. Callers sharing one between
// goroutines must serialize access themselves.
package cache

import (
	"errors"

	list "github.com/bahlo/generic-list-go"
	"golang.org/x/exp/maps"
)

// ErrNegativeCapacity is returned by NewLRU for a capacity below zero.
var ErrNegativeCapacity = errors.New("lru capacity must not be negative")

// EvictCallback is called with every entry leaving the cache.
type EvictCallback[K comparable, V any] func(key K, value V)

// Entry is a handle to a resident key. It stays valid and keeps
// referring to the same key until that key is evicted, removed or purged.
// Value may be modified in place.
type Entry[K comparable, V any] struct {
	key   K
	Value V
	elem  *list.Element[K]
}

// Key returns the key the entry was created for. It never changes.
func (e *Entry[K, V]) Key() K {
	return e.key
}

// LRU is a fixed-capacity container which evicts the least recently
// touched key when a new key does not fit. Inserting and finding a key
// both count as a touch.
type LRU[K comparable, V any] struct {
	capacity int
	order    order[K]
	items    map[K]*Entry[K, V]
	onEvict  EvictCallback[K, V]
}

// NewLRU creates an LRU holding at most capacity entries. A capacity of
// zero is valid and makes every insert a no-op. onEvict may be nil.
func NewLRU[K comparable, V any](capacity int, onEvict EvictCallback[K, V]) (*LRU[K, V], error) {
	if capacity < 0 {
		return nil, ErrNegativeCapacity
	}
	return &LRU[K, V]{
		capacity: capacity,
		order:    newOrder[K](),
		items:    make(map[K]*Entry[K, V], capacity),
		onEvict:  onEvict,
	}, nil
}

// Emplace inserts or updates key. It returns the entry of key and
// whether a new entry was created.
//
// An existing key gets the new value and becomes the most recently used.
// A new key is appended as the most recently used, evicting the least
// recently used entry first when the cache is full. With zero capacity
// Emplace returns (End(), false) and changes nothing.
func (c *LRU[K, V]) Emplace(key K, value V) (*Entry[K, V], bool) {
	if c.capacity == 0 {
		return c.End(), false
	}

	if ent := c.Find(key); ent != c.End() {
		ent.Value = value
		return ent, false
	}

	ent := &Entry[K, V]{key: key, Value: value}
	if c.order.len() == c.capacity {
		elem := c.order.oldest()
		old := c.items[elem.Value]
		delete(c.items, old.key)
		old.elem = nil

		c.order.recycle(elem, key)
		ent.elem = elem
		c.items[key] = ent
		c.evicted(old)
		return ent, true
	}

	ent.elem = c.order.pushBack(key)
	c.items[key] = ent
	return ent, true
}

// Find returns the entry of key or End() if key is absent.
//
// Find is not a pure read: a found key becomes the most recently used.
// Use Peek or Contains to look without touching.
func (c *LRU[K, V]) Find(key K) *Entry[K, V] {
	ent, ok := c.items[key]
	if !ok {
		return c.End()
	}
	c.order.touch(ent.elem)
	return ent
}

// End is the sentinel returned by Find and Emplace when there is no entry.
func (c *LRU[K, V]) End() *Entry[K, V] {
	return nil
}

// Add emplaces key and reports whether another entry was evicted for it.
func (c *LRU[K, V]) Add(key K, value V) (evicted bool) {
	full := c.order.len() == c.capacity
	_, inserted := c.Emplace(key, value)
	return inserted && full
}

// Get returns the value of key and marks key as the most recently used.
func (c *LRU[K, V]) Get(key K) (value V, ok bool) {
	if ent := c.Find(key); ent != c.End() {
		return ent.Value, true
	}
	return value, false
}

// Contains reports whether key is resident, without touching it.
func (c *LRU[K, V]) Contains(key K) bool {
	_, ok := c.items[key]
	return ok
}

// Peek returns the value of key without touching it.
func (c *LRU[K, V]) Peek(key K) (value V, ok bool) {
	if ent, ok := c.items[key]; ok {
		return ent.Value, true
	}
	return value, false
}

// Remove drops key and reports whether it was resident.
func (c *LRU[K, V]) Remove(key K) bool {
	ent, ok := c.items[key]
	if !ok {
		return false
	}
	c.removeEntry(ent)
	return true
}

// RemoveOldest drops the least recently used entry and returns it.
func (c *LRU[K, V]) RemoveOldest() (key K, value V, ok bool) {
	elem := c.order.oldest()
	if elem == nil {
		return key, value, false
	}
	ent := c.items[elem.Value]
	c.removeEntry(ent)
	return ent.key, ent.Value, true
}

// GetOldest returns the least recently used entry without touching it.
func (c *LRU[K, V]) GetOldest() (key K, value V, ok bool) {
	elem := c.order.oldest()
	if elem == nil {
		return key, value, false
	}
	ent := c.items[elem.Value]
	return ent.key, ent.Value, true
}

// Keys returns the resident keys from the least to the most recently used.
func (c *LRU[K, V]) Keys() []K {
	return c.order.keys()
}

// Len returns the number of resident entries.
func (c *LRU[K, V]) Len() int {
	return len(c.items)
}

// Cap returns the capacity given to NewLRU.
func (c *LRU[K, V]) Cap() int {
	return c.capacity
}

// Purge removes all entries. The capacity is kept.
func (c *LRU[K, V]) Purge() {
	removed := make([]*Entry[K, V], 0, len(c.items))
	for _, key := range c.order.keys() {
		ent := c.items[key]
		ent.elem = nil
		removed = append(removed, ent)
	}
	maps.Clear(c.items)
	c.order.reset()

	for _, ent := range removed {
		c.evicted(ent)
	}
}

func (c *LRU[K, V]) removeEntry(ent *Entry[K, V]) {
	c.order.remove(ent.elem)
	delete(c.items, ent.key)
	ent.elem = nil
	c.evicted(ent)
}

func (c *LRU[K, V]) evicted(ent *Entry[K, V]) {
	if c.onEvict != nil {
		c.onEvict(ent.key, ent.Value)
	}
}
