package alloc

import "errors"

var (
	// ErrInvalidSize indicates a non-positive arena, allocation or free size.
	ErrInvalidSize = errors.New("alloc: size must be positive")

	// ErrOutOfMemory indicates that no single free block is large enough.
	ErrOutOfMemory = errors.New("alloc: no free block large enough")

	// ErrInvalidFree indicates a free of a region that is not a live allocation.
	ErrInvalidFree = errors.New("alloc: region is not a live allocation")

	// ErrUnknownPolicy indicates a placement policy outside FirstFit and BestFit.
	ErrUnknownPolicy = errors.New("alloc: unknown placement policy")
)
