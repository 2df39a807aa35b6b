package streamtest

import (
	"slices"
	"sync"

	"github.com/a2y-d5l/forkjoin"
)

// EventRecorder records events for tests and diagnostics.
//
// EventRecorder is safe under concurrent HandleEvent calls.
type EventRecorder struct {
	events []forkjoin.Event
	mu     sync.Mutex
}

// NewEventRecorder constructs an EventRecorder.
func NewEventRecorder() *EventRecorder {
	return &EventRecorder{}
}

// HandleEvent appends the event to the recorder.
func (r *EventRecorder) HandleEvent(e forkjoin.Event) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

// Events returns a snapshot copy of recorded events.
func (r *EventRecorder) Events() []forkjoin.Event {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}

// OfType returns the recorded events of type t, in recorded order.
func (r *EventRecorder) OfType(t forkjoin.EventType) []forkjoin.Event {
	var out []forkjoin.Event
	for _, e := range r.Events() {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// LeafRanges returns the ranges of all processed leaves sorted by Start.
func (r *EventRecorder) LeafRanges() []forkjoin.Range {
	leaves := r.OfType(forkjoin.EventLeafProcessed)
	out := make([]forkjoin.Range, 0, len(leaves))
	for _, e := range leaves {
		out = append(out, e.Range)
	}
	slices.SortFunc(out, func(a, b forkjoin.Range) int {
		return a.Start - b.Start
	})
	return out
}

// Reset clears the recorder.
func (r *EventRecorder) Reset() {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}
