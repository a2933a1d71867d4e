// Package alloc provides a free-list allocator over a fixed-size simulated arena.
//
// # Overview
//
// The arena is the abstract address range [0, N). Nothing is stored in it; the
// allocator only hands out integer offsets. Unused space is kept as a list of
// disjoint, non-adjacent intervals sorted by start address.
//
// # Allocator Interface
//
// The core abstraction is the Allocator interface:
//
//   - Allocate(size, policy): Reserve size units and return the start address
//   - Deallocate(start, size): Return a previously allocated region
//   - Blocks(): Snapshot of the free list, sorted by start
//
// # Implementations
//
// FreeList: the allocator itself
//
//   - First-fit and best-fit selection, chosen per call
//   - Splitting from the front of an oversized block
//   - Sort-and-merge coalescing after every deallocation
//   - Live allocation tracking so bad frees are rejected
//
// Synchronized: mutex wrapper for callers sharing one allocator across goroutines
//
// # Usage Example
//
//	fl, err := alloc.New(1024)
//	if err != nil {
//	    return err
//	}
//
//	addr, err := fl.Allocate(64, alloc.BestFit)
//	if errors.Is(err, alloc.ErrOutOfMemory) {
//	    // try another policy, or give up
//	}
//
//	// Later, free exactly what was allocated
//	err = fl.Deallocate(addr, 64)
//
// # Placement Policies
//
// FirstFit takes the first free block, in address order, that is large enough.
// BestFit takes the smallest block that is large enough; among equal sizes the
// lowest address wins. When the chosen block is larger than the request, the
// allocation is carved from its front and the remainder stays free.
//
// # Deallocation Checks
//
// By default Deallocate requires (start, size) to match a live allocation
// exactly. Frees that overlap free space, were never allocated, or repeat an
// earlier free return ErrInvalidFree and leave the allocator untouched.
// WithUncheckedFree restores the trusting behaviour of the classic textbook
// allocator; overlapping frees are then absorbed by coalescing.
//
// # Thread Safety
//
// FreeList is not thread-safe. Wrap it with NewSynchronized when it is shared.
//
// # Related Packages
//
//   - github.com/joshuapare/heapsim/heap/verify: Free-list invariant checks
//   - github.com/joshuapare/heapsim/heap/replay: Script replay and policy comparison
package alloc
