package alloc

import "log/slog"

// Option configures a FreeList at construction.
type Option func(*FreeList)

// WithLogger sets the logger used for per-operation debug records.
// A nil logger is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(fl *FreeList) {
		if l != nil {
			fl.log = l
		}
	}
}

// WithTracker registers a Tracker notified of every changed range.
func WithTracker(t Tracker) Option {
	return func(fl *FreeList) {
		fl.dt = t
	}
}

// WithUncheckedFree disables validation of Deallocate against live
// allocations. Overlapping frees are merged by coalescing instead of being
// rejected.
func WithUncheckedFree() Option {
	return func(fl *FreeList) {
		fl.unchecked = true
	}
}
