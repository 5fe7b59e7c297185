// Copyright 2025, the Phrasepost contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package lru provides a thread-safe, fixed-capacity least-recently-used cache
with per-entry expiry. Keys are strings. When created with compression
enabled via [New], []byte values may be stored zstd-compressed and are
transparently decompressed on retrieval.
*/
package lru

import (
	"container/list"
	"errors"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

var ErrInvalidSize = errors.New("must provide a positive size")

// Cache is a fixed-capacity, least-recently-used cache that is safe for
// concurrent use. Instances must be constructed with [New]; the zero value
// is not ready for use.
type Cache struct {
	size      int
	evictList *list.List
	items     map[string]*list.Element
	lock      sync.Mutex

	compressEnabled bool
	zstdEnc         *zstd.Encoder
	zstdDec         *zstd.Decoder
}

// entry holds one cached value together with its expiry deadline.
type entry struct {
	key        string
	value      []byte
	compressed bool
	expiresAt  time.Time
}

// New creates a cache holding at most size entries.
//
// If compress is true, values are stored zstd-compressed when that reduces
// their size, and are transparently decompressed on retrieval.
func New(size int, compress bool) (*Cache, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	c := &Cache{
		size:            size,
		evictList:       list.New(),
		items:           make(map[string]*list.Element),
		compressEnabled: compress,
	}

	if compress {
		// A nil writer/reader lets us use EncodeAll/DecodeAll without streams.
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, err
		}

		dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
		if err != nil {
			return nil, err
		}

		c.zstdEnc = enc
		c.zstdDec = dec
	}

	return c, nil
}

// Add stores value under key with the given time to live.
//
// If the key exists, its value and deadline are replaced and it becomes the
// most recently used. If the cache is at capacity, the least recently used
// entry is evicted. Add reports whether an eviction occurred.
func (c *Cache) Add(key string, value []byte, ttl time.Duration) bool {
	// Compression happens before taking the lock; EncodeAll is safe for
	// concurrent use.
	stored, compressed := c.compress(value)
	expiresAt := time.Now().Add(ttl)

	c.lock.Lock()
	defer c.lock.Unlock()

	if elem, ok := c.items[key]; ok {
		c.evictList.MoveToFront(elem)

		if ent, ok := elem.Value.(*entry); ok {
			ent.value = stored
			ent.compressed = compressed
			ent.expiresAt = expiresAt
		}

		return false
	}

	c.items[key] = c.evictList.PushFront(&entry{
		key:        key,
		value:      stored,
		compressed: compressed,
		expiresAt:  expiresAt,
	})

	evicted := c.evictList.Len() > c.size
	if evicted {
		c.removeOldest()
	}

	return evicted
}

// Get retrieves the value for key and marks it as most recently used.
//
// Expired entries are removed on access and reported as a miss. The
// returned slice is a copy; callers may mutate it freely.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.lock.Lock()

	elem, ok := c.items[key]
	if !ok {
		c.lock.Unlock()

		return nil, false
	}

	ent, ok := elem.Value.(*entry)
	if !ok {
		c.lock.Unlock()

		return nil, false
	}

	if time.Now().After(ent.expiresAt) {
		c.removeElement(elem)
		c.lock.Unlock()

		return nil, false
	}

	c.evictList.MoveToFront(elem)

	// Copy what decompression needs and release the lock early.
	stored := ent.value
	compressed := ent.compressed

	c.lock.Unlock()

	return c.decompress(stored, compressed)
}

// Peek retrieves the value for key without refreshing its LRU position.
// Expired entries are reported as a miss but left for normal eviction.
func (c *Cache) Peek(key string) ([]byte, bool) {
	c.lock.Lock()

	elem, ok := c.items[key]
	if !ok {
		c.lock.Unlock()

		return nil, false
	}

	ent, ok := elem.Value.(*entry)
	if !ok || time.Now().After(ent.expiresAt) {
		c.lock.Unlock()

		return nil, false
	}

	stored := ent.value
	compressed := ent.compressed

	c.lock.Unlock()

	return c.decompress(stored, compressed)
}

// Remove deletes the entry associated with key.
// Remove reports whether the key was present.
func (c *Cache) Remove(key string) bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	if elem, ok := c.items[key]; ok {
		c.removeElement(elem)

		return true
	}

	return false
}

// Keys returns all keys in the cache, from the oldest to the newest.
func (c *Cache) Keys() []string {
	c.lock.Lock()
	defer c.lock.Unlock()

	keys := make([]string, 0, len(c.items))

	// The back of the list is the oldest entry.
	for elem := c.evictList.Back(); elem != nil; elem = elem.Prev() {
		if ent, ok := elem.Value.(*entry); ok {
			keys = append(keys, ent.key)
		}
	}

	return keys
}

// Len returns the current number of entries, including any not yet
// evicted expired ones.
func (c *Cache) Len() int {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.evictList.Len()
}

func (c *Cache) removeOldest() {
	if elem := c.evictList.Back(); elem != nil {
		c.removeElement(elem)
	}
}

func (c *Cache) removeElement(elem *list.Element) {
	c.evictList.Remove(elem)

	if ent, ok := elem.Value.(*entry); ok {
		delete(c.items, ent.key)
	}
}

// compress returns the bytes to store and whether they are compressed.
// Compression is only kept when it reduces size; otherwise a copy of the
// input is stored so callers cannot mutate cached data.
func (c *Cache) compress(value []byte) ([]byte, bool) {
	if len(value) == 0 {
		return value, false
	}

	if c.compressEnabled {
		compressed := c.zstdEnc.EncodeAll(value, nil)
		if len(compressed) < len(value) {
			return compressed, true
		}
	}

	copied := make([]byte, len(value))
	copy(copied, value)

	return copied, false
}

// decompress returns the value for callers, expanding it if needed. A
// failed decompression (which should be extremely rare) reads as a miss.
func (c *Cache) decompress(stored []byte, compressed bool) ([]byte, bool) {
	if !compressed {
		if stored == nil {
			return nil, true
		}

		copied := make([]byte, len(stored))
		copy(copied, stored)

		return copied, true
	}

	if c.zstdDec == nil {
		return nil, false
	}

	decoded, err := c.zstdDec.DecodeAll(stored, nil)
	if err != nil {
		return nil, false
	}

	return decoded, true
}
