package cache

// LRUCache is a bounded key-value cache ordered by recency of use.
// Methods documented as touching a key make it the most recently used.
type LRUCache[K comparable, V any] interface {
	// Add stores value under key and touches key. It reports whether
	// another entry was evicted to make room.
	Add(key K, value V) bool

	// Get returns the value of key and touches key.
	Get(key K) (value V, ok bool)

	// Contains reports whether key is cached. It does not touch key.
	Contains(key K) (ok bool)

	// Peek returns the value of key without touching it.
	Peek(key K) (value V, ok bool)

	// Remove drops key and reports whether it was cached.
	Remove(key K) bool

	// RemoveOldest drops the least recently used entry and returns it.
	RemoveOldest() (K, V, bool)

	// GetOldest returns the least recently used entry.
	GetOldest() (K, V, bool)

	// Keys lists the cached keys from the least to the most recently used.
	Keys() []K

	Len() int

	// Cap is the fixed number of entries the cache can hold.
	Cap() int

	// Purge drops all entries.
	Purge()
}

var _ LRUCache[string, int] = (*LRU[string, int])(nil)
