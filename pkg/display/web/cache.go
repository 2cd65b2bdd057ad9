package web

import (
	"encoding/binary"

	"github.com/cespare/xxhash"
)

type cacheEntry struct {
	hash uint64
	data []byte
}

// cache is a fixed size ring of encoded frames, keyed by their
// xxhash. Clients hold a mirror of it, so a repeated frame only
// needs its index sent.
type cache struct {
	entries []cacheEntry
	idx     int
}

func newCache(size int) *cache {
	return &cache{entries: make([]cacheEntry, size)}
}

// lookup returns the index of data, adding it when it is not yet
// cached. hit reports whether it was already present.
func (c *cache) lookup(data []byte) (index int, hit bool) {
	hash := xxhash.Sum64(data)
	if i := c.index(hash); i != -1 {
		return i, true
	}

	i := c.idx
	c.entries[i] = cacheEntry{hash: hash, data: data}
	c.idx = (c.idx + 1) % len(c.entries)
	return i, false
}

func (c *cache) index(hash uint64) int {
	for i, e := range c.entries {
		if len(e.data) > 0 && e.hash == hash {
			return i
		}
	}

	return -1
}

// sync encodes every cached entry as [length, index, data...],
// with the length a little endian uint32 and the index a little
// endian uint16.
func (c *cache) sync() []byte {
	var data []byte
	for i, e := range c.entries {
		if len(e.data) == 0 {
			continue
		}

		var header [6]byte
		binary.LittleEndian.PutUint32(header[0:], uint32(len(e.data)))
		binary.LittleEndian.PutUint16(header[4:], uint16(i))
		data = append(data, header[:]...)
		data = append(data, e.data...)
	}
	return data
}
