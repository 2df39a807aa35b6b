package forkjoin

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Range is a half-open interval [Start, End) of buffer indices.
type Range struct {
	Start int
	End   int
}

// Len returns the number of indices covered by r.
func (r Range) Len() int {
	return r.End - r.Start
}

// Split halves r at the floor midpoint. Both halves are non-empty when
// r.Len() >= 2.
func (r Range) Split() (Range, Range) {
	mid := (r.Start + r.End) / 2
	return Range{Start: r.Start, End: mid}, Range{Start: mid, End: r.End}
}

func (r Range) String() string {
	return "[" + strconv.Itoa(r.Start) + ", " + strconv.Itoa(r.End) + ")"
}

// RunSummary is the top-level result of a single Invoke.
type RunSummary struct {
	StartedAt   time.Time
	CompletedAt time.Time

	// RunID identifies the run in events and log records.
	RunID uuid.UUID

	// Range is the root task's range.
	Range Range

	// Threshold is the clamped threshold the run used.
	Threshold int

	// Leaves is the number of tasks that processed their range directly.
	Leaves int64

	// Forks is the number of tasks that split into two children.
	Forks int64

	// Elements is the total number of indices processed by leaves. It always
	// equals Range.Len() for a completed run.
	Elements int64

	// MaxDepth is the deepest level of the task tree reached (root is 0).
	MaxDepth int
}

// EventType describes the type of lifecycle event.
type EventType uint8

const (
	// EventRunStarted is emitted once before the root task is handed to the executor.
	EventRunStarted EventType = iota

	// EventTaskForked indicates a task split its range and forked a child.
	EventTaskForked

	// EventLeafProcessed indicates a leaf finished dividing its range.
	EventLeafProcessed

	// EventRunFinished is emitted once after every task in the run completed.
	EventRunFinished
)

func (t EventType) String() string {
	switch t {
	case EventRunStarted:
		return "run_started"
	case EventTaskForked:
		return "task_forked"
	case EventLeafProcessed:
		return "leaf_processed"
	case EventRunFinished:
		return "run_finished"
	default:
		return "unknown(" + strconv.Itoa(int(t)) + ")"
	}
}

// Event is a fire-and-forget notification about a run.
//
// Summary is set only on EventRunFinished and is a snapshot copy.
type Event struct {
	Time    time.Time
	Summary *RunSummary
	RunID   uuid.UUID
	Range   Range
	Depth   int
	Type    EventType
}

// Observer receives run events emitted by an executor.
//
// See package-level documentation in doc.go for concurrency and ordering
// guarantees.
type Observer interface {
	HandleEvent(Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

// HandleEvent calls f(e).
func (f ObserverFunc) HandleEvent(e Event) {
	f(e)
}

// MultiObserver fans out events to multiple observers.
//
// Nil observers are ignored.
func MultiObserver(obs ...Observer) Observer {
	// Copy to avoid surprises if caller mutates the input slice.
	cp := make([]Observer, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			cp = append(cp, o)
		}
	}
	if len(cp) == 0 {
		return ObserverFunc(func(Event) {})
	}
	if len(cp) == 1 {
		return cp[0]
	}

	return ObserverFunc(func(e Event) {
		for _, o := range cp {
			o.HandleEvent(e)
		}
	})
}
