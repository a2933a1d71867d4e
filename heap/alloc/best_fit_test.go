package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBestFit_PicksSmallest verifies that best-fit takes the smallest block
// that fits, not the first one in address order.
func TestBestFit_PicksSmallest(t *testing.T) {
	// Layout: [free 8][used][free 6][used][free 5][used]
	fl := newTestAllocatorWithLayout(t, 24, []Block{{Start: 0, Size: 8}, {Start: 10, Size: 6}, {Start: 18, Size: 5}})

	addr := mustAlloc(t, fl, 5, BestFit)

	assert.Equal(t, 18, addr, "should allocate from the 5-unit block (exact fit)")
	assert.Equal(t, []Block{{Start: 0, Size: 8}, {Start: 10, Size: 6}}, fl.Blocks())
	assertInvariants(t, fl)
}

// TestFirstFit_PicksFirst verifies that first-fit stops at the first block
// that fits, even when a tighter one exists later.
func TestFirstFit_PicksFirst(t *testing.T) {
	fl := newTestAllocatorWithLayout(t, 24, []Block{{Start: 0, Size: 8}, {Start: 10, Size: 6}, {Start: 18, Size: 5}})

	addr := mustAlloc(t, fl, 5, FirstFit)

	assert.Equal(t, 0, addr)
	assert.Equal(t, []Block{{Start: 5, Size: 3}, {Start: 10, Size: 6}, {Start: 18, Size: 5}}, fl.Blocks())
	assertInvariants(t, fl)
}

// TestFirstFit_SkipsTooSmall verifies that first-fit passes over blocks
// smaller than the request.
func TestFirstFit_SkipsTooSmall(t *testing.T) {
	fl := newTestAllocatorWithLayout(t, 24, []Block{{Start: 0, Size: 2}, {Start: 4, Size: 3}, {Start: 10, Size: 9}})

	addr := mustAlloc(t, fl, 3, FirstFit)

	assert.Equal(t, 4, addr)
	assert.Equal(t, []Block{{Start: 0, Size: 2}, {Start: 10, Size: 9}}, fl.Blocks())
}

// TestBestFit_TieKeepsFirstCandidate verifies deterministic tie-breaking:
// among equally small blocks the one met first in the scan wins.
func TestBestFit_TieKeepsFirstCandidate(t *testing.T) {
	fl := newTestAllocatorWithLayout(t, 32, []Block{{Start: 0, Size: 9}, {Start: 12, Size: 6}, {Start: 20, Size: 6}})

	addr := mustAlloc(t, fl, 4, BestFit)

	assert.Equal(t, 12, addr)
	assert.Equal(t, []Block{{Start: 0, Size: 9}, {Start: 16, Size: 2}, {Start: 20, Size: 6}}, fl.Blocks())
}

// TestBestFit_ScansWholeList verifies that the best candidate is found even
// when it is the last block.
func TestBestFit_ScansWholeList(t *testing.T) {
	free := make([]Block, 0, 10)
	for i := 0; i < 9; i++ {
		free = append(free, Block{Start: i * 10, Size: 8})
	}
	free = append(free, Block{Start: 90, Size: 5})
	fl := newTestAllocatorWithLayout(t, 100, free)

	addr := mustAlloc(t, fl, 4, BestFit)

	assert.Equal(t, 90, addr)
	assertInvariants(t, fl)
}

// TestPolicies_Diverge builds a trace where first-fit and best-fit return
// different addresses for the same call, and then one succeeds where the
// other runs out of memory.
func TestPolicies_Diverge(t *testing.T) {
	run := func(policy Policy) (d int, eErr error, fl *FreeList) {
		fl = newTestAllocator(t, 14)
		a := mustAlloc(t, fl, 6, policy) // [0,6)
		mustAlloc(t, fl, 4, policy)      // [6,10)
		c := mustAlloc(t, fl, 4, policy) // [10,14)
		require.NoError(t, fl.Deallocate(a, 6))
		require.NoError(t, fl.Deallocate(c, 4))
		require.Equal(t, []Block{{Start: 0, Size: 6}, {Start: 10, Size: 4}}, fl.Blocks())

		d = mustAlloc(t, fl, 4, policy)
		_, eErr = fl.Allocate(6, policy)
		return d, eErr, fl
	}

	ffAddr, ffErr, ff := run(FirstFit)
	bfAddr, bfErr, bf := run(BestFit)

	assert.Equal(t, 0, ffAddr, "first-fit splits the leading 6-unit block")
	assert.Equal(t, 10, bfAddr, "best-fit takes the exact 4-unit block")

	require.ErrorIs(t, ffErr, ErrOutOfMemory, "first-fit left only [4,6) and [10,14)")
	require.NoError(t, bfErr, "best-fit kept [0,6) intact")

	assert.Equal(t, []Block{{Start: 4, Size: 2}, {Start: 10, Size: 4}}, ff.Blocks())
	assert.Empty(t, bf.Blocks())
	assertInvariants(t, ff)
	assertInvariants(t, bf)
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in   string
		want Policy
	}{
		{"first", FirstFit},
		{"First-Fit", FirstFit},
		{" firstfit ", FirstFit},
		{"ff", FirstFit},
		{"best", BestFit},
		{"BEST-FIT", BestFit},
		{"bf", BestFit},
	}
	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParsePolicy("worst")
	require.ErrorIs(t, err, ErrUnknownPolicy)
}

func TestPolicy_String(t *testing.T) {
	assert.Equal(t, "first-fit", FirstFit.String())
	assert.Equal(t, "best-fit", BestFit.String())
	assert.Equal(t, "Policy(7)", Policy(7).String())
}
