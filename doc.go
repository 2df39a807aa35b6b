// Package forkjoin normalizes a float64 buffer in parallel by recursive
// range splitting.
//
// # Execution semantics
//
// A Task covers a half-open range [start, end) of a caller-owned buffer. A
// task whose range is shorter than its threshold, or holds at most one
// element, is a leaf: it divides each element by Divisor in place. Any other task splits its range at the floor
// midpoint, forks the left half to its Executor, computes the right half on
// the current goroutine and then joins the left half.
//
// Sibling tasks cover disjoint ranges, so the buffer is shared without locks.
// Every index of the root range is divided exactly once per run; the
// threshold only changes how the work is partitioned, never the result.
//
// # Executors
//
// Pool keeps a fixed set of worker goroutines and a shared queue; joining
// tasks help drain the queue. Spawner starts a goroutine per fork, bounded by
// a semaphore, and falls back to inline execution when saturated. Normalize
// uses the process-wide CommonPool unless WithExecutor selects another.
//
// # Errors
//
// Ranges are validated once, at the root. Invalid ranges are reported with a
// *RangeError wrapping ErrInvalidRange before any work starts. A panic inside
// a task is returned from Invoke as a *PanicError wrapping ErrTaskPanicked.
// Runs cannot be canceled once started.
//
// # Observer guarantees
//
// Executors emit events by calling Observer.HandleEvent(Event):
//
//   - HandleEvent MAY be called concurrently from several workers.
//   - EventRunStarted happens-before every other event of the same run, and
//     EventRunFinished happens-after every other event of the same run.
//   - No order is guaranteed between events of sibling tasks.
//   - A blocking Observer slows the run down.
//
// The stream package provides a channel-based Observer with explicit
// overflow policies.
package forkjoin
