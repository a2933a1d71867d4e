package alloc

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/joshuapare/heapsim/internal/logger"
)

// FreeList manages the arena [0, size) as a sorted list of free blocks.
//
// Between calls the free list holds pairwise non-overlapping, non-adjacent
// blocks with positive sizes, sorted by start. Every unit of the arena is
// either in exactly one free block or in exactly one live allocation.
type FreeList struct {
	size   int
	blocks []Block

	// live maps the start of each outstanding allocation to its size.
	live map[int]int

	unchecked bool

	log   *slog.Logger
	dt    Tracker // optional change notifications
	stats Stats
}

var (
	_ Allocator = (*FreeList)(nil)
	_ Inspector = (*FreeList)(nil)
)

// New creates an allocator whose free list is the single block [0, size).
func New(size int, opts ...Option) (*FreeList, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: arena size %d", ErrInvalidSize, size)
	}

	fl := &FreeList{
		size:   size,
		blocks: []Block{{Start: 0, Size: size}},
		live:   make(map[int]int),
		log:    logger.L,
	}
	for _, opt := range opts {
		opt(fl)
	}
	return fl, nil
}

// Size returns the arena size fixed at construction.
func (fl *FreeList) Size() int { return fl.size }

// Allocate reserves size units from the free block chosen by policy and
// returns its start address. The block is consumed from the front; an exact
// fit removes it. On error the free list is unchanged.
func (fl *FreeList) Allocate(size int, policy Policy) (int, error) {
	fl.stats.AllocCalls++

	if size <= 0 {
		fl.stats.AllocFailures++
		return 0, fmt.Errorf("%w: allocate %d", ErrInvalidSize, size)
	}

	idx, err := fl.find(size, policy)
	if err != nil {
		fl.stats.AllocFailures++
		fl.log.Debug("allocate failed",
			"op", "allocate",
			"policy", policy.String(),
			"size", size,
			"blocks", len(fl.blocks),
			"error", err,
		)
		return 0, err
	}

	selected := fl.blocks[idx]
	addr := selected.Start
	if selected.Size == size {
		fl.stats.ExactFits++
		fl.blocks = append(fl.blocks[:idx], fl.blocks[idx+1:]...)
	} else {
		fl.stats.Splits++
		fl.blocks[idx] = Block{Start: selected.Start + size, Size: selected.Size - size}
	}

	fl.live[addr] = size
	fl.stats.BytesAllocated += int64(size)
	if fl.dt != nil {
		fl.dt.Touch(addr, size)
	}

	fl.log.Debug("allocate",
		"op", "allocate",
		"policy", policy.String(),
		"size", size,
		"addr", addr,
		"blocks", len(fl.blocks),
	)
	return addr, nil
}

// find returns the index of the block chosen by policy.
func (fl *FreeList) find(size int, policy Policy) (int, error) {
	var idx int
	switch policy {
	case FirstFit:
		idx = firstFit(fl.blocks, size)
	case BestFit:
		idx = bestFit(fl.blocks, size)
	default:
		return -1, fmt.Errorf("%w: %d", ErrUnknownPolicy, uint8(policy))
	}
	if idx < 0 {
		return -1, fmt.Errorf("%w: need %d under %s, largest free %d",
			ErrOutOfMemory, size, policy, fl.largest())
	}
	return idx, nil
}

// firstFit returns the first block, in stored order, of at least size units.
func firstFit(blocks []Block, size int) int {
	for i, b := range blocks {
		if b.Size >= size {
			return i
		}
	}
	return -1
}

// bestFit returns the smallest block of at least size units. Ties keep the
// candidate met first.
func bestFit(blocks []Block, size int) int {
	best := -1
	for i, b := range blocks {
		if b.Size < size {
			continue
		}
		if best < 0 || b.Size < blocks[best].Size {
			best = i
			if b.Size == size {
				// nothing later can beat an exact fit
				break
			}
		}
	}
	return best
}

// Deallocate returns [start, start+size) to the free list and coalesces.
//
// Unless WithUncheckedFree was given, the region must exactly match a live
// allocation; anything else fails with ErrInvalidFree and changes nothing.
func (fl *FreeList) Deallocate(start, size int) error {
	fl.stats.FreeCalls++

	if size <= 0 {
		fl.stats.FreeFailures++
		return fmt.Errorf("%w: deallocate %d at %d", ErrInvalidSize, size, start)
	}

	region := Block{Start: start, Size: size}
	if !fl.unchecked {
		if err := fl.checkFree(region); err != nil {
			fl.stats.FreeFailures++
			fl.log.Debug("deallocate rejected",
				"op", "deallocate",
				"start", start,
				"size", size,
				"error", err,
			)
			return err
		}
	}
	if s, ok := fl.live[start]; ok && s == size {
		delete(fl.live, start)
	}

	fl.blocks = append(fl.blocks, region)
	before := len(fl.blocks)
	fl.coalesce()
	fl.stats.Merges += before - len(fl.blocks)
	fl.stats.BytesFreed += int64(size)
	if fl.dt != nil {
		fl.dt.Touch(start, size)
	}

	fl.log.Debug("deallocate",
		"op", "deallocate",
		"start", start,
		"size", size,
		"blocks", len(fl.blocks),
	)
	return nil
}

// checkFree reports why region cannot be freed, or nil if it is a live allocation.
func (fl *FreeList) checkFree(region Block) error {
	if s, ok := fl.live[region.Start]; ok {
		if s == region.Size {
			return nil
		}
		return fmt.Errorf("%w: %s does not match live allocation of size %d at %d",
			ErrInvalidFree, region, s, region.Start)
	}
	if region.Start < 0 || region.End() > fl.size {
		return fmt.Errorf("%w: %s outside arena [0,%d)", ErrInvalidFree, region, fl.size)
	}
	for _, b := range fl.blocks {
		if b.overlaps(region) {
			return fmt.Errorf("%w: %s overlaps free block %s", ErrInvalidFree, region, b)
		}
	}
	return fmt.Errorf("%w: nothing allocated at %d", ErrInvalidFree, region.Start)
}

// coalesce sorts the free list by start and merges touching or overlapping
// neighbours in a single pass.
func (fl *FreeList) coalesce() {
	if len(fl.blocks) < 2 {
		return
	}

	sort.Slice(fl.blocks, func(i, j int) bool {
		return fl.blocks[i].Start < fl.blocks[j].Start
	})

	// Merge in place; the write index never passes the read index.
	merged := fl.blocks[:1]
	for _, cur := range fl.blocks[1:] {
		prev := &merged[len(merged)-1]
		if prev.End() >= cur.Start {
			prev.Size = max(prev.Size, cur.End()-prev.Start)
			continue
		}
		merged = append(merged, cur)
	}
	fl.blocks = merged
}

// Blocks returns a copy of the free list sorted by start.
func (fl *FreeList) Blocks() []Block {
	out := make([]Block, len(fl.blocks))
	copy(out, fl.blocks)
	return out
}

// Allocations returns the live allocations sorted by start.
func (fl *FreeList) Allocations() []Block {
	out := make([]Block, 0, len(fl.live))
	for start, size := range fl.live {
		out = append(out, Block{Start: start, Size: size})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Start < out[j].Start
	})
	return out
}

func (fl *FreeList) largest() int {
	largest := 0
	for _, b := range fl.blocks {
		largest = max(largest, b.Size)
	}
	return largest
}
