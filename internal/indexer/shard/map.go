// Package shard provides a fixed-shard concurrent map keyed by
// non-negative document ids. A key lives in shard key mod shard count and
// every shard has its own mutex, so writers touching different shards
// never block each other.
package shard

import (
	"cmp"
	"fmt"
	"slices"
	"sync"
)

type bucket[V any] struct {
	mu     sync.Mutex
	values map[int]V
}

// Map is safe for concurrent use by multiple goroutines. It is meant to
// live for a single aggregation: producers write through Update and
// Delete, then one consumer calls Snapshot after they have all finished.
type Map[V any] struct {
	buckets []bucket[V]
}

// Entry is one key/value pair produced by Snapshot.
type Entry[V any] struct {
	Key   int
	Value V
}

// NewMap creates a Map with numShards shards. numShards < 1 is treated
// as 1.
func NewMap[V any](numShards int) *Map[V] {
	if numShards < 1 {
		numShards = 1
	}
	m := &Map[V]{
		buckets: make([]bucket[V], numShards),
	}
	for i := range m.buckets {
		m.buckets[i].values = make(map[int]V)
	}
	return m
}

func (m *Map[V]) NumShards() int {
	return len(m.buckets)
}

func (m *Map[V]) bucketFor(key int) *bucket[V] {
	if key < 0 {
		panic(fmt.Sprintf("shard: negative key %d", key))
	}
	return &m.buckets[key%len(m.buckets)]
}

// Update runs fn on the value stored under key, creating the zero value
// first if the key is absent. fn runs with the key's shard locked and
// must not call back into m.
func (m *Map[V]) Update(key int, fn func(v *V)) {
	b := m.bucketFor(key)
	b.mu.Lock()
	defer b.mu.Unlock()
	v := b.values[key]
	fn(&v)
	b.values[key] = v
}

// Delete removes key if present.
func (m *Map[V]) Delete(key int) {
	b := m.bucketFor(key)
	b.mu.Lock()
	delete(b.values, key)
	b.mu.Unlock()
}

// Load returns the value under key and whether it was present.
func (m *Map[V]) Load(key int) (V, bool) {
	b := m.bucketFor(key)
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.values[key]
	return v, ok
}

// Snapshot drains every shard in turn, locking one shard at a time, and
// returns all entries ordered by key. The map is empty afterwards.
func (m *Map[V]) Snapshot() []Entry[V] {
	var entries []Entry[V]
	for i := range m.buckets {
		b := &m.buckets[i]
		b.mu.Lock()
		for k, v := range b.values {
			entries = append(entries, Entry[V]{Key: k, Value: v})
		}
		b.values = make(map[int]V)
		b.mu.Unlock()
	}
	slices.SortFunc(entries, func(a, b Entry[V]) int {
		return cmp.Compare(a.Key, b.Key)
	})
	return entries
}
