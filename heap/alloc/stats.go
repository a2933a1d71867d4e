package alloc

import (
	"fmt"
	"io"
)

// Stats holds allocator counters since construction.
type Stats struct {
	AllocCalls     int   // Total Allocate() calls
	AllocFailures  int   // Allocate() calls that returned an error
	Splits         int   // Allocations carved from a larger block
	ExactFits      int   // Allocations that consumed a whole block
	FreeCalls      int   // Total Deallocate() calls
	FreeFailures   int   // Deallocate() calls that returned an error
	Merges         int   // Blocks absorbed by coalescing
	BytesAllocated int64 // Units handed out
	BytesFreed     int64 // Units returned
}

// Stats returns the current counters.
func (fl *FreeList) Stats() Stats {
	return fl.stats
}

// Usage summarises arena occupancy at one point in time.
type Usage struct {
	ArenaSize      int `json:"arena_size" yaml:"arena_size"`
	FreeBytes      int `json:"free_bytes" yaml:"free_bytes"`
	AllocatedBytes int `json:"allocated_bytes" yaml:"allocated_bytes"`
	FreeBlocks     int `json:"free_blocks" yaml:"free_blocks"`
	Allocations    int `json:"allocations" yaml:"allocations"`
	LargestFree    int `json:"largest_free" yaml:"largest_free"`

	// Fragmentation is 1 - LargestFree/FreeBytes: 0 when all free space is
	// one block, approaching 1 as it splinters. 0 when nothing is free.
	Fragmentation float64 `json:"fragmentation" yaml:"fragmentation"`
}

// Usage computes occupancy from the current free list.
func (fl *FreeList) Usage() Usage {
	return UsageOf(fl.size, fl.blocks, len(fl.live))
}

// UsageOf computes occupancy for an arena of the given size and free list.
func UsageOf(arena int, free []Block, allocations int) Usage {
	u := Usage{
		ArenaSize:   arena,
		FreeBlocks:  len(free),
		Allocations: allocations,
	}
	for _, b := range free {
		u.FreeBytes += b.Size
		u.LargestFree = max(u.LargestFree, b.Size)
	}
	u.AllocatedBytes = arena - u.FreeBytes
	if u.FreeBytes > 0 {
		u.Fragmentation = 1 - float64(u.LargestFree)/float64(u.FreeBytes)
	}
	return u
}

// PrintStats writes a human-readable summary of counters and occupancy.
func (fl *FreeList) PrintStats(w io.Writer) {
	s := fl.stats
	u := fl.Usage()
	fmt.Fprintf(w, "=== ALLOCATOR STATISTICS ===\n")
	fmt.Fprintf(w, "Alloc calls:        %d (failed: %d)\n", s.AllocCalls, s.AllocFailures)
	fmt.Fprintf(w, "  splits:           %d\n", s.Splits)
	fmt.Fprintf(w, "  exact fits:       %d\n", s.ExactFits)
	fmt.Fprintf(w, "Free calls:         %d (failed: %d)\n", s.FreeCalls, s.FreeFailures)
	fmt.Fprintf(w, "Blocks merged:      %d\n", s.Merges)
	fmt.Fprintf(w, "Units allocated:    %d\n", s.BytesAllocated)
	fmt.Fprintf(w, "Units freed:        %d\n", s.BytesFreed)
	fmt.Fprintf(w, "\nOccupancy:\n")
	fmt.Fprintf(w, "  Arena:            %d\n", u.ArenaSize)
	fmt.Fprintf(w, "  Allocated:        %d in %d regions\n", u.AllocatedBytes, u.Allocations)
	fmt.Fprintf(w, "  Free:             %d in %d blocks\n", u.FreeBytes, u.FreeBlocks)
	fmt.Fprintf(w, "  Largest free:     %d\n", u.LargestFree)
	fmt.Fprintf(w, "  Fragmentation:    %.1f%%\n", 100*u.Fragmentation)
	fmt.Fprintf(w, "============================\n")
}
