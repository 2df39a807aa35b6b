package forkjoin

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRange reports a range that does not fit its buffer.
	ErrInvalidRange = errors.New("invalid range")

	// ErrPoolClosed is returned by Pool.Invoke after Close.
	ErrPoolClosed = errors.New("pool closed")

	// ErrTaskPanicked reports a task that panicked while running.
	ErrTaskPanicked = errors.New("task panicked")

	// ErrNilExecutor is returned when WithExecutor is given a nil executor.
	ErrNilExecutor = errors.New("nil executor")
)

// RangeError describes a rejected [Start, End) range.
type RangeError struct {
	Start int
	End   int
	Len   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("invalid range [%d, %d) for buffer of length %d", e.Start, e.End, e.Len)
}

func (e *RangeError) Unwrap() error {
	return ErrInvalidRange
}

// PanicError carries the value a task panicked with.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("task panicked: %v", e.Value)
}

func (e *PanicError) Unwrap() error {
	return ErrTaskPanicked
}

func checkRange(n, start, end int) error {
	if start < 0 || start > end || end > n {
		return &RangeError{Start: start, End: end, Len: n}
	}
	return nil
}
