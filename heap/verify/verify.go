// Package verify provides validation functions for free-list allocator state.
// These helpers are used in tests and by the CLI to ensure allocator invariants hold.
package verify

import (
	"fmt"
	"sort"

	"github.com/joshuapare/heapsim/heap/alloc"
)

// ValidationError describes the first invariant violation found.
type ValidationError struct {
	Type    string
	Message string
	Offset  int
}

func (e *ValidationError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s at address %d: %s", e.Type, e.Offset, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// AllInvariants validates the free list and the arena accounting of in.
// Returns the first error encountered, or nil if all checks pass.
func AllInvariants(in alloc.Inspector) error {
	free := in.Blocks()
	if err := FreeList(in.Size(), free); err != nil {
		return err
	}
	return Accounting(in.Size(), free, in.Allocations())
}

// FreeList validates a free-list snapshot for an arena of the given size:
// positive sizes, within [0, arena), sorted by start, and neither
// overlapping nor adjacent.
func FreeList(arena int, blocks []alloc.Block) error {
	if arena <= 0 {
		return &ValidationError{
			Type:    "FreeList",
			Message: fmt.Sprintf("arena size %d is not positive", arena),
			Offset:  -1,
		}
	}

	for i, b := range blocks {
		if b.Size <= 0 {
			return &ValidationError{
				Type:    "FreeList",
				Message: fmt.Sprintf("block %d has non-positive size %d", i, b.Size),
				Offset:  b.Start,
			}
		}
		if b.Start < 0 || b.End() > arena {
			return &ValidationError{
				Type:    "FreeList",
				Message: fmt.Sprintf("block %d %s outside arena [0,%d)", i, b, arena),
				Offset:  b.Start,
			}
		}
		if i == 0 {
			continue
		}

		prev := blocks[i-1]
		switch {
		case b.Start < prev.Start:
			return &ValidationError{
				Type:    "FreeList",
				Message: fmt.Sprintf("block %d %s precedes block %d %s", i, b, i-1, prev),
				Offset:  b.Start,
			}
		case b.Start < prev.End():
			return &ValidationError{
				Type:    "FreeList",
				Message: fmt.Sprintf("block %d %s overlaps block %d %s", i, b, i-1, prev),
				Offset:  b.Start,
			}
		case b.Start == prev.End():
			return &ValidationError{
				Type:    "FreeList",
				Message: fmt.Sprintf("block %d %s is adjacent to block %d %s (not coalesced)", i, b, i-1, prev),
				Offset:  b.Start,
			}
		}
	}
	return nil
}

// Accounting validates that free blocks and live allocations tile the arena
// exactly: no gaps, no overlaps, and their sizes sum to arena.
func Accounting(arena int, free, allocated []alloc.Block) error {
	type region struct {
		alloc.Block
		free bool
	}

	regions := make([]region, 0, len(free)+len(allocated))
	for _, b := range free {
		regions = append(regions, region{Block: b, free: true})
	}
	for _, b := range allocated {
		regions = append(regions, region{Block: b})
	}
	sort.SliceStable(regions, func(i, j int) bool {
		return regions[i].Start < regions[j].Start
	})

	cursor := 0
	for _, r := range regions {
		kind := "allocation"
		if r.free {
			kind = "free block"
		}
		if r.Size <= 0 {
			return &ValidationError{
				Type:    "Accounting",
				Message: fmt.Sprintf("%s %s has non-positive size", kind, r.Block),
				Offset:  r.Start,
			}
		}
		if r.Start > cursor {
			return &ValidationError{
				Type:    "Accounting",
				Message: fmt.Sprintf("%d units before %s %s are neither free nor allocated", r.Start-cursor, kind, r.Block),
				Offset:  cursor,
			}
		}
		if r.Start < cursor {
			return &ValidationError{
				Type:    "Accounting",
				Message: fmt.Sprintf("%s %s overlaps preceding region ending at %d", kind, r.Block, cursor),
				Offset:  r.Start,
			}
		}
		cursor = r.End()
	}

	if cursor != arena {
		return &ValidationError{
			Type:    "Accounting",
			Message: fmt.Sprintf("regions cover [0,%d), arena is [0,%d)", cursor, arena),
			Offset:  -1,
		}
	}
	return nil
}
