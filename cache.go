package rawcstr

import (
	"runtime"
	"strings"
	"unsafe"
)

// Cache interns null-terminated string buffers for one unit of work.
//
// Converting the same text twice through a Cache returns the same pointer
// both times; the buffer behind it is allocated once, pinned so its address
// is stable across garbage collections, and released when the Cache is
// closed. The pointer a key maps to never changes after insertion, so
// callers may retain it across lookups for as long as the Cache is alive.
//
// A Cache is not safe for concurrent use. Each flow of control that needs
// foreign string pointers owns its own Cache, which is what keeps lookups
// and insertions free of locking.
type Cache struct {
	entries map[string]unsafe.Pointer
	pinner  runtime.Pinner
	stats   Stats
}

// Stats describes the allocation behavior of a Cache.
type Stats struct {
	// Entries is the number of distinct strings currently interned.
	Entries int

	// Bytes is the total size of all held buffers, terminators included.
	Bytes int

	// Hits and Misses count GetOrCreate calls that found an existing
	// entry versus ones that had to allocate.
	Hits   int
	Misses int

	// Allocs counts buffers allocated over the lifetime of the Cache;
	// Frees counts buffers released by Close. After Close the two are
	// equal: every allocation is released exactly once.
	Allocs int
	Frees  int
}

// NewCache creates an empty interning cache.
func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]unsafe.Pointer),
	}
}

// GetOrCreate returns a pointer to a null-terminated buffer holding the
// bytes of s.
//
// The first call for a given string allocates the buffer and transfers its
// ownership to the cache; every later call with an equal string returns the
// stored pointer without allocating. Strings containing an interior null
// byte cannot be null-terminated faithfully and fail with *EncodingError,
// leaving the cache untouched.
//
// The returned pointer is read-only and valid until Close.
func (c *Cache) GetOrCreate(s string) (unsafe.Pointer, error) {
	if p, ok := c.entries[s]; ok {
		c.stats.Hits++
		return p, nil
	}

	if i := strings.IndexByte(s, 0); i >= 0 {
		return nil, &EncodingError{Text: s, Pos: i}
	}

	buf := make([]byte, len(s)+1)
	copy(buf, s)

	// Pinning keeps the buffer reachable and its address stable, which is
	// what makes the pointer legal to hand across a foreign call boundary.
	// The matching unpin happens in Close.
	c.pinner.Pin(&buf[0])

	p := unsafe.Pointer(&buf[0])
	c.entries[s] = p

	c.stats.Misses++
	c.stats.Allocs++
	c.stats.Entries = len(c.entries)
	c.stats.Bytes += len(buf)

	return p, nil
}

// Close releases every buffer the cache owns and empties the mapping.
//
// Each buffer is released exactly once, after which all pointers previously
// returned by this cache are invalid. Closing an already-closed cache is a
// no-op. Run Close via defer so teardown happens even when the surrounding
// work unwinds with a panic.
func (c *Cache) Close() {
	c.pinner.Unpin()

	c.stats.Frees += len(c.entries)
	c.stats.Entries = 0
	c.stats.Bytes = 0

	clear(c.entries)
}

// Len returns the number of distinct strings currently interned.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Stats returns a snapshot of the cache's allocation counters.
func (c *Cache) Stats() Stats {
	return c.stats
}
