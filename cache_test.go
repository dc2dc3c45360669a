package rawcstr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestGetOrCreateDeduplicates(t *testing.T) {
	cache := NewCache()
	defer cache.Close()

	p1, err := cache.GetOrCreate("hello")
	assert.NoError(t, err)

	p2, err := cache.GetOrCreate("hello")
	assert.NoError(t, err)

	assert.True(t, p1 == p2, "equal strings should intern to the same pointer")
	assert.Equal(t, 1, cache.Len())
}

func TestGetOrCreateContentFidelity(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty string", input: ""},
		{name: "ascii", input: "hello"},
		{name: "multibyte", input: "héllo wörld"},
		{name: "emoji", input: "🎉 done"},
		{name: "long", input: "a very long string that will certainly not fit in any small-buffer optimization anywhere"},
	}

	cache := NewCache()
	defer cache.Close()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := cache.GetOrCreate(tt.input)
			assert.NoError(t, err)
			assert.Equal(t, tt.input, GoString(p))
		})
	}
}

func TestGetOrCreateDistinctKeys(t *testing.T) {
	cache := NewCache()
	defer cache.Close()

	p1, err := cache.GetOrCreate("hello")
	assert.NoError(t, err)

	p2, err := cache.GetOrCreate("world")
	assert.NoError(t, err)

	assert.True(t, p1 != p2, "distinct strings must not share a pointer")
	assert.Equal(t, 2, cache.Len())
}

func TestGetOrCreateRejectsInteriorNull(t *testing.T) {
	cache := NewCache()
	defer cache.Close()

	_, err := cache.GetOrCreate("bad\x00value")

	var encErr *EncodingError
	assert.True(t, errors.As(err, &encErr))
	assert.Equal(t, 3, encErr.Pos)
	assert.Equal(t, 0, cache.Len(), "failed conversion must not grow the cache")
}

func TestPointerStableAcrossInserts(t *testing.T) {
	cache := NewCache()
	defer cache.Close()

	first, err := cache.GetOrCreate("stable")
	assert.NoError(t, err)

	// Grow the cache well past the initial map size.
	for i := 0; i < 1000; i++ {
		_, err := cache.GetOrCreate(fmt.Sprintf("filler-%d", i))
		assert.NoError(t, err)
	}

	again, err := cache.GetOrCreate("stable")
	assert.NoError(t, err)
	assert.True(t, first == again, "pointer for a key must never change after insertion")
	assert.Equal(t, "stable", GoString(again))
}

func TestCloseReleasesEverything(t *testing.T) {
	cache := NewCache()

	for _, s := range []string{"one", "two", "three"} {
		_, err := cache.GetOrCreate(s)
		assert.NoError(t, err)
	}

	assert.Equal(t, 3, cache.Len())
	assert.Equal(t, 3, cache.Stats().Allocs)

	cache.Close()

	stats := cache.Stats()
	assert.Equal(t, 0, cache.Len())
	assert.Equal(t, 0, stats.Entries)
	assert.Equal(t, 0, stats.Bytes)
	assert.Equal(t, stats.Allocs, stats.Frees, "every allocation must be released exactly once")
}

func TestCloseIsIdempotent(t *testing.T) {
	cache := NewCache()

	_, err := cache.GetOrCreate("once")
	assert.NoError(t, err)

	cache.Close()
	cache.Close()

	stats := cache.Stats()
	assert.Equal(t, 1, stats.Allocs)
	assert.Equal(t, 1, stats.Frees, "a second Close must not visit entries again")
}

func TestCloseRunsOnPanicUnwind(t *testing.T) {
	cache := NewCache()

	func() {
		defer func() { _ = recover() }()
		defer cache.Close()

		_, err := cache.GetOrCreate("doomed")
		assert.NoError(t, err)

		panic("unwound")
	}()

	stats := cache.Stats()
	assert.Equal(t, 0, cache.Len())
	assert.Equal(t, stats.Allocs, stats.Frees)
}

func TestStatsCountsHitsAndMisses(t *testing.T) {
	cache := NewCache()
	defer cache.Close()

	for _, s := range []string{"a", "b", "a", "a", "b"} {
		_, err := cache.GetOrCreate(s)
		assert.NoError(t, err)
	}

	stats := cache.Stats()
	assert.Equal(t, 2, stats.Misses)
	assert.Equal(t, 3, stats.Hits)
	assert.Equal(t, 2, stats.Entries)
	assert.Equal(t, 4, stats.Bytes) // "a\x00" + "b\x00"
}

// The end-to-end shape: dedup on equal content, isolation across keys,
// rejection without partial state.
func TestConversionScenario(t *testing.T) {
	cache := NewCache()
	defer cache.Close()

	p1, err := cache.GetOrCreate("hello")
	assert.NoError(t, err)

	p1Again, err := cache.GetOrCreate("hello")
	assert.NoError(t, err)
	assert.True(t, p1 == p1Again)

	p2, err := cache.GetOrCreate("world")
	assert.NoError(t, err)
	assert.True(t, p2 != p1)

	_, err = cache.GetOrCreate("bad\x00value")
	var encErr *EncodingError
	assert.True(t, errors.As(err, &encErr))

	assert.Equal(t, 2, cache.Len())
	assert.Equal(t, "hello", GoString(p1))
	assert.Equal(t, "world", GoString(p2))
}
