package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Test Helpers
// ============================================================================

// newTestAllocator creates an allocator over [0, size) and fails the test on error.
func newTestAllocator(t testing.TB, size int, opts ...Option) *FreeList {
	t.Helper()
	fl, err := New(size, opts...)
	require.NoError(t, err)
	return fl
}

// mustAlloc allocates and fails the test on error.
func mustAlloc(t testing.TB, fl *FreeList, size int, policy Policy) int {
	t.Helper()
	addr, err := fl.Allocate(size, policy)
	require.NoError(t, err, "allocate %d (%s)", size, policy)
	return addr
}

// newTestAllocatorWithLayout builds an allocator whose free list is exactly
// the given blocks by allocating the whole arena and freeing them back.
func newTestAllocatorWithLayout(t testing.TB, size int, free []Block) *FreeList {
	t.Helper()
	fl := newTestAllocator(t, size)
	mustAlloc(t, fl, size, FirstFit)
	delete(fl.live, 0)

	// Each gap becomes one live allocation, and so does each block about to
	// be freed, so the Deallocate checks pass.
	cursor := 0
	for _, b := range free {
		if b.Start > cursor {
			fl.live[cursor] = b.Start - cursor
		}
		fl.live[b.Start] = b.Size
		cursor = b.End()
	}
	if cursor < size {
		fl.live[cursor] = size - cursor
	}

	for _, b := range free {
		require.NoError(t, fl.Deallocate(b.Start, b.Size))
	}
	require.Equal(t, free, fl.Blocks())
	fl.stats = Stats{}
	return fl
}

// assertInvariants checks the free list and arena accounting of fl.
func assertInvariants(t testing.TB, fl *FreeList) {
	t.Helper()

	total := 0
	for i, b := range fl.blocks {
		assert.Positive(t, b.Size, "block %d %s: size must be positive", i, b)
		assert.GreaterOrEqual(t, b.Start, 0, "block %d %s: starts before arena", i, b)
		assert.LessOrEqual(t, b.End(), fl.size, "block %d %s: ends past arena", i, b)
		if i > 0 {
			prev := fl.blocks[i-1]
			assert.Greater(t, b.Start, prev.End(),
				"block %d %s must start after block %d %s with a gap", i, b, i-1, prev)
		}
		total += b.Size
	}

	for start, size := range fl.live {
		region := Block{Start: start, Size: size}
		for _, b := range fl.blocks {
			assert.False(t, b.overlaps(region), "live %s overlaps free %s", region, b)
		}
		total += size
	}

	assert.Equal(t, fl.size, total, "free + allocated must equal arena size")
}
