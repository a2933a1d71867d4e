package alloc

import (
	"fmt"
	"strings"
)

// Block is the half-open interval [Start, Start+Size) of arena space.
type Block struct {
	Start int `json:"start" yaml:"start"`
	Size  int `json:"size" yaml:"size"`
}

// End returns the first address past the block.
func (b Block) End() int { return b.Start + b.Size }

func (b Block) String() string {
	return fmt.Sprintf("[%d,%d)", b.Start, b.End())
}

func (b Block) overlaps(o Block) bool {
	return b.Start < o.End() && o.Start < b.End()
}

// Policy selects which free block satisfies an allocation.
type Policy uint8

const (
	FirstFit Policy = iota
	BestFit
)

func (p Policy) String() string {
	switch p {
	case FirstFit:
		return "first-fit"
	case BestFit:
		return "best-fit"
	default:
		return fmt.Sprintf("Policy(%d)", uint8(p))
	}
}

// ParsePolicy accepts "first", "first-fit", "firstfit", "best", "best-fit"
// and "bestfit", case-insensitively.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "first", "first-fit", "firstfit", "ff":
		return FirstFit, nil
	case "best", "best-fit", "bestfit", "bf":
		return BestFit, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}

// Policies lists every supported policy in a stable order.
func Policies() []Policy {
	return []Policy{FirstFit, BestFit}
}

// Allocator defines the interface for arena allocation and deallocation.
//
// Implementations:
//   - FreeList: free-list allocator with first-fit and best-fit selection
//   - Synchronized: mutex wrapper around another Allocator
type Allocator interface {
	// Allocate reserves size units and returns the start address.
	// The policy is chosen per call, not per allocator.
	Allocate(size int, policy Policy) (int, error)

	// Deallocate returns [start, start+size) to the free list and merges it
	// with any neighbouring free space.
	Deallocate(start, size int) error

	// Blocks returns a copy of the free list sorted by start.
	Blocks() []Block
}

// Inspector is the read-only view used by invariant checks.
type Inspector interface {
	Size() int
	Blocks() []Block
	Allocations() []Block
}
