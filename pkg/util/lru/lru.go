// Package lru provides a mutex-guarded, capacity-bounded cache with a
// least-recently-used eviction strategy. Entries can be pinned, in which
// case only an explicit Erase removes them.
package lru

import (
	"container/list"
	"sync"
)

type entry[K comparable, V any] struct {
	key   K
	value V
}

// Cache is safe for concurrent use. Capacity counts entries; pinned entries
// do not count against it.
type Cache[K comparable, V any] struct {
	mtx      sync.Mutex
	capacity int
	ll       *list.List // front = most recently used
	items    map[K]*list.Element
	pinned   map[K]V
}

// New returns an empty cache holding at most capacity unpinned entries.
func New[K comparable, V any](capacity int) *Cache[K, V] {
	return &Cache[K, V]{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[K]*list.Element),
		pinned:   make(map[K]V),
	}
}

// Get returns the value stored under key and marks it recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if v, ok := c.pinned[key]; ok {
		return v, true
	}
	if el, ok := c.items[key]; ok {
		c.ll.MoveToFront(el)
		return el.Value.(entry[K, V]).value, true
	}
	var zero V
	return zero, false
}

// TryEmplace returns the value stored under key, or inserts the value
// produced by factory if none exists. The second return value reports
// whether the entry already existed. The factory runs under the cache lock,
// so it must be cheap; expensive computations belong behind the returned
// value (e.g. a result table that is filled after emplacement).
func (c *Cache[K, V]) TryEmplace(key K, factory func() V) (V, bool) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if v, ok := c.pinned[key]; ok {
		return v, true
	}
	if el, ok := c.items[key]; ok {
		c.ll.MoveToFront(el)
		return el.Value.(entry[K, V]).value, true
	}
	v := factory()
	c.insertLocked(key, v)
	return v, false
}

// Put stores value under key, evicting the least recently used entry if the
// capacity is exceeded.
func (c *Cache[K, V]) Put(key K, value V) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if el, ok := c.items[key]; ok {
		el.Value = entry[K, V]{key: key, value: value}
		c.ll.MoveToFront(el)
		return
	}
	c.insertLocked(key, value)
}

// PutPinned stores value under key and protects it from eviction.
func (c *Cache[K, V]) PutPinned(key K, value V) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if el, ok := c.items[key]; ok {
		c.ll.Remove(el)
		delete(c.items, key)
	}
	c.pinned[key] = value
}

func (c *Cache[K, V]) insertLocked(key K, value V) {
	c.items[key] = c.ll.PushFront(entry[K, V]{key: key, value: value})
	for c.ll.Len() > c.capacity {
		back := c.ll.Back()
		c.ll.Remove(back)
		delete(c.items, back.Value.(entry[K, V]).key)
	}
}

// Contains reports whether an entry exists under key.
func (c *Cache[K, V]) Contains(key K) bool {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if _, ok := c.pinned[key]; ok {
		return true
	}
	_, ok := c.items[key]
	return ok
}

// Erase removes the entry under key, pinned or not.
func (c *Cache[K, V]) Erase(key K) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if _, ok := c.pinned[key]; ok {
		delete(c.pinned, key)
		return
	}
	if el, ok := c.items[key]; ok {
		c.ll.Remove(el)
		delete(c.items, key)
	}
}

// Clear removes all unpinned entries.
func (c *Cache[K, V]) Clear() {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	c.ll.Init()
	c.items = make(map[K]*list.Element)
}

// SetCapacity adjusts the capacity, evicting from the back as needed.
func (c *Cache[K, V]) SetCapacity(capacity int) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	c.capacity = capacity
	for c.ll.Len() > c.capacity {
		back := c.ll.Back()
		c.ll.Remove(back)
		delete(c.items, back.Value.(entry[K, V]).key)
	}
}

// Len returns the number of unpinned entries.
func (c *Cache[K, V]) Len() int {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.ll.Len()
}
