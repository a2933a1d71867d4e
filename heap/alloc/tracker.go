package alloc

import "sort"

// defaultRangeCapacity is the pre-allocated capacity for recorded ranges.
const defaultRangeCapacity = 64

// Tracker is notified of every arena range whose state changed.
// Allocate reports the carved region, Deallocate the returned region.
type Tracker interface {
	Touch(start, size int)
}

// RangeTracker accumulates touched ranges and merges them on demand.
//
// NOT thread-safe.
type RangeTracker struct {
	ranges []Block
}

// NewRangeTracker creates an empty tracker.
func NewRangeTracker() *RangeTracker {
	return &RangeTracker{ranges: make([]Block, 0, defaultRangeCapacity)}
}

// Touch records a changed range. Empty ranges are ignored.
func (t *RangeTracker) Touch(start, size int) {
	if size <= 0 {
		return
	}
	t.ranges = append(t.ranges, Block{Start: start, Size: size})
}

// Len returns the number of recorded (unmerged) ranges.
func (t *RangeTracker) Len() int { return len(t.ranges) }

// Reset discards all recorded ranges.
func (t *RangeTracker) Reset() { t.ranges = t.ranges[:0] }

// Merged returns the recorded ranges sorted by start with overlapping and
// adjacent ranges merged.
func (t *RangeTracker) Merged() []Block {
	if len(t.ranges) == 0 {
		return nil
	}

	sorted := make([]Block, len(t.ranges))
	copy(sorted, t.ranges)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	merged := make([]Block, 0, len(sorted))
	current := sorted[0]
	for _, next := range sorted[1:] {
		if next.Start <= current.End() {
			current.Size = max(current.Size, next.End()-current.Start)
			continue
		}
		merged = append(merged, current)
		current = next
	}
	return append(merged, current)
}
