// Package verify provides validation functions for free-list allocator state.
//
// # Overview
//
// The checks operate on snapshots, so they never hold a live reference to an
// allocator's internal list. They are used by the allocator tests after every
// step and by heapctl's --verify flag.
//
// Validation categories:
//   - Free list: positive sizes, arena bounds, sort order, no overlap, no adjacency
//   - Accounting: free blocks and live allocations tile [0, N) exactly
//
// # Quick Start
//
//	fl, _ := alloc.New(64)
//	addr, _ := fl.Allocate(16, alloc.FirstFit)
//	_ = fl.Deallocate(addr, 16)
//	if err := verify.AllInvariants(fl); err != nil {
//	    fmt.Printf("Validation failed: %v\n", err)
//	}
//
// # Error Types
//
// All functions return *ValidationError, which includes:
//   - Type: Category of validation failure
//   - Message: Human-readable description
//   - Offset: Arena address of the problem (-1 if not applicable)
package verify
