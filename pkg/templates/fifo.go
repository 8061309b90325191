package templates

import (
	"container/list"
	"sync"
)

type fifoEntry[K comparable, V any] struct {
	key   K
	value V
}

// FIFOCache is a thread-safe bounded cache with insertion-order eviction.
// Templates are compiled once and reused for the process lifetime, so
// insertion order approximates recency well enough for this workload; Get
// deliberately does not reorder entries.
type FIFOCache[K comparable, V any] struct {
	capacity int
	items    map[K]*list.Element
	order    *list.List
	mu       sync.Mutex
}

// NewFIFOCache creates a FIFO cache with the specified capacity.
// The capacity must be positive, otherwise it panics.
func NewFIFOCache[K comparable, V any](capacity int) *FIFOCache[K, V] {
	if capacity <= 0 {
		panic("FIFO cache capacity must be positive")
	}
	return &FIFOCache[K, V]{
		capacity: capacity,
		items:    make(map[K]*list.Element),
		order:    list.New(),
	}
}

// Get retrieves a value from the cache.
func (c *FIFOCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		return elem.Value.(*fifoEntry[K, V]).value, true
	}

	var zero V
	return zero, false
}

// Put adds or updates a value. When the cache is at capacity the oldest
// inserted entry is evicted.
func (c *FIFOCache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		elem.Value.(*fifoEntry[K, V]).value = value
		return
	}

	elem := c.order.PushBack(&fifoEntry[K, V]{key: key, value: value})
	c.items[key] = elem

	if c.order.Len() > c.capacity {
		oldest := c.order.Front()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.items, oldest.Value.(*fifoEntry[K, V]).key)
		}
	}
}

func (c *FIFOCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
