// Package capture implements RecordCache, a bounded cache of captured
// raw NBT subtree byte spans (see stream.Reader.CaptureRaw), keyed by
// the type they were parsed against plus a structural fingerprint of
// the bytes. It exists for callers that walk documents with many
// structurally repeated subtrees — every chunk section's block-state
// palette in a region file, every villager trade entry — and want to
// avoid paying for the same decode or the same storage twice.
package capture

import (
	"container/list"
	"sync"

	"github.com/arloliu/nbtgo/compress"
	"github.com/arloliu/nbtgo/internal/pool"
	"github.com/arloliu/nbtgo/typeinfo"
)

type entry struct {
	key    Key
	packed []byte
	size   int
}

// RecordCache is a bounded, LRU-evicted cache of captured byte spans,
// compressed with codec before storage. Safe for concurrent use.
type RecordCache struct {
	mu       sync.Mutex
	codec    compress.Codec
	capacity int
	entries  map[Key]*list.Element
	order    *list.List // front = most recently used
}

// NewRecordCache builds a cache bounded to capacity entries, compressing
// stored spans with codec. A capacity of zero or less means unbounded.
func NewRecordCache(codec compress.Codec, capacity int) *RecordCache {
	return &RecordCache{
		codec:    codec,
		capacity: capacity,
		entries:  make(map[Key]*list.Element),
		order:    list.New(),
	}
}

// Put compresses and stores raw under d's type and raw's structural
// fingerprint, evicting the least recently used entry if the cache is
// at capacity. It returns the Key so the caller can Get it back later.
func (c *RecordCache) Put(d typeinfo.Descriptor, raw []byte) (Key, error) {
	key := NewKey(d, raw)

	buf := pool.GetCaptureBuffer()
	defer pool.PutCaptureBuffer(buf)
	buf.MustWrite(raw)

	packed, err := c.codec.Compress(buf.Bytes())
	if err != nil {
		return key, err
	}

	// Compress may return a slice that aliases buf's backing array; copy
	// it out before buf goes back to the pool and gets reused.
	stored := make([]byte, len(packed))
	copy(stored, packed)

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		e := el.Value.(*entry)
		e.packed = stored
		e.size = len(raw)
		c.order.MoveToFront(el)

		return key, nil
	}

	el := c.order.PushFront(&entry{key: key, packed: stored, size: len(raw)})
	c.entries[key] = el

	if c.capacity > 0 && c.order.Len() > c.capacity {
		c.evictOldest()
	}

	return key, nil
}

// Get decompresses and returns the bytes stored under key, if present.
func (c *RecordCache) Get(key Key) ([]byte, bool) {
	c.mu.Lock()
	el, ok := c.entries[key]
	if !ok {
		c.mu.Unlock()
		return nil, false
	}

	c.order.MoveToFront(el)
	packed := el.Value.(*entry).packed
	c.mu.Unlock()

	raw, err := c.codec.Decompress(packed)
	if err != nil {
		return nil, false
	}

	return raw, true
}

// Len reports the number of entries currently cached.
func (c *RecordCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.order.Len()
}

// Clear empties the cache.
func (c *RecordCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[Key]*list.Element)
	c.order.Init()
}

// evictOldest removes the least recently used entry. Callers must hold
// c.mu.
func (c *RecordCache) evictOldest() {
	oldest := c.order.Back()
	if oldest == nil {
		return
	}

	c.order.Remove(oldest)
	delete(c.entries, oldest.Value.(*entry).key)
}
