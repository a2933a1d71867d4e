package verify

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapsim/heap/alloc"
)

// TestFreeList_Valid tests validation of a coalesced, sorted free list.
func TestFreeList_Valid(t *testing.T) {
	err := FreeList(16, []alloc.Block{{Start: 0, Size: 4}, {Start: 6, Size: 2}, {Start: 12, Size: 4}})
	require.NoError(t, err, "Valid free list should pass validation")
}

// TestFreeList_Empty tests that a fully allocated arena has a valid empty free list.
func TestFreeList_Empty(t *testing.T) {
	require.NoError(t, FreeList(8, nil))
}

func TestFreeList_Violations(t *testing.T) {
	tests := []struct {
		name   string
		arena  int
		blocks []alloc.Block
		want   string
	}{
		{"zero arena", 0, nil, "not positive"},
		{"zero size block", 8, []alloc.Block{{Start: 2, Size: 0}}, "non-positive size"},
		{"past arena end", 8, []alloc.Block{{Start: 6, Size: 4}}, "outside arena"},
		{"negative start", 8, []alloc.Block{{Start: -1, Size: 2}}, "outside arena"},
		{"unsorted", 16, []alloc.Block{{Start: 8, Size: 2}, {Start: 0, Size: 2}}, "precedes"},
		{"overlap", 16, []alloc.Block{{Start: 0, Size: 6}, {Start: 4, Size: 2}}, "overlaps"},
		{"adjacent", 16, []alloc.Block{{Start: 0, Size: 4}, {Start: 4, Size: 2}}, "not coalesced"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FreeList(tt.arena, tt.blocks)
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.want)

			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			require.Equal(t, "FreeList", ve.Type)
		})
	}
}

// TestAccounting_Valid tests that free blocks and allocations tiling the arena pass.
func TestAccounting_Valid(t *testing.T) {
	free := []alloc.Block{{Start: 0, Size: 4}, {Start: 5, Size: 6}}
	allocated := []alloc.Block{{Start: 4, Size: 1}}
	require.NoError(t, Accounting(11, free, allocated))
}

// TestAccounting_AdjacentAllocations tests that back-to-back allocations are fine.
func TestAccounting_AdjacentAllocations(t *testing.T) {
	allocated := []alloc.Block{{Start: 0, Size: 4}, {Start: 4, Size: 4}}
	require.NoError(t, Accounting(8, nil, allocated))
}

func TestAccounting_Violations(t *testing.T) {
	tests := []struct {
		name      string
		free      []alloc.Block
		allocated []alloc.Block
		want      string
	}{
		{
			name:      "gap",
			free:      []alloc.Block{{Start: 0, Size: 2}},
			allocated: []alloc.Block{{Start: 4, Size: 4}},
			want:      "neither free nor allocated",
		},
		{
			name:      "free overlaps allocation",
			free:      []alloc.Block{{Start: 0, Size: 5}},
			allocated: []alloc.Block{{Start: 4, Size: 4}},
			want:      "overlaps preceding region",
		},
		{
			name: "short of arena",
			free: []alloc.Block{{Start: 0, Size: 6}},
			want: "arena is [0,8)",
		},
		{
			name:      "bad allocation size",
			free:      []alloc.Block{{Start: 0, Size: 8}},
			allocated: []alloc.Block{{Start: 8, Size: 0}},
			want:      "non-positive size",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Accounting(8, tt.free, tt.allocated)
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.want)
		})
	}
}

// TestAllInvariants_LiveAllocator runs the checks against a real allocator
// through a short alloc/free sequence.
func TestAllInvariants_LiveAllocator(t *testing.T) {
	fl, err := alloc.New(32)
	require.NoError(t, err)
	require.NoError(t, AllInvariants(fl))

	a, err := fl.Allocate(8, alloc.FirstFit)
	require.NoError(t, err)
	b, err := fl.Allocate(8, alloc.FirstFit)
	require.NoError(t, err)
	_, err = fl.Allocate(8, alloc.BestFit)
	require.NoError(t, err)
	require.NoError(t, AllInvariants(fl))

	require.NoError(t, fl.Deallocate(a, 8))
	require.NoError(t, AllInvariants(fl))
	require.NoError(t, fl.Deallocate(b, 8))
	require.NoError(t, AllInvariants(fl))
	require.Equal(t, []alloc.Block{{Start: 0, Size: 16}, {Start: 24, Size: 8}}, fl.Blocks())
}

// TestAllInvariants_DetectsUncheckedCorruption shows the accounting check
// catching a double free accepted by an unchecked allocator.
func TestAllInvariants_DetectsUncheckedCorruption(t *testing.T) {
	fl, err := alloc.New(16, alloc.WithUncheckedFree())
	require.NoError(t, err)

	a, err := fl.Allocate(4, alloc.FirstFit)
	require.NoError(t, err)
	_, err = fl.Allocate(4, alloc.FirstFit)
	require.NoError(t, err)

	require.NoError(t, fl.Deallocate(a, 4))
	// Freeing [2,6) overlaps the free block [0,4) and the live [4,8).
	require.NoError(t, fl.Deallocate(2, 4))

	require.NoError(t, FreeList(fl.Size(), fl.Blocks()), "coalescing keeps the list itself well-formed")
	err = AllInvariants(fl)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Accounting")
}
