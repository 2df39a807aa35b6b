package stream

import (
	"errors"
	"sync"

	"github.com/a2y-d5l/forkjoin"
)

// ErrNilHandle is returned by Wait on a nil *Handle.
var ErrNilHandle = errors.New("stream: nil handle")

// Handle is an asynchronous run handle that exposes channels for events and
// the run summary.
type Handle struct {
	err     error
	obs     *Observer
	done    chan struct{}
	summary forkjoin.RunSummary
	mu      sync.Mutex
}

// Start runs exec.Invoke(root) in a goroutine and returns a Handle.
//
// runOpts are passed to Invoke; an observer is attached automatically and
// closed when the run completes, after which Events and Summaries are closed
// too. obsOpts configure the underlying Observer.
func Start(
	exec forkjoin.Executor,
	root forkjoin.Task,
	runOpts []forkjoin.RunOption,
	obsOpts ...Option,
) *Handle {
	obs := NewObserver(obsOpts...)
	x := &Handle{
		obs:  obs,
		done: make(chan struct{}),
	}

	opts := make([]forkjoin.RunOption, 0, len(runOpts)+1)
	opts = append(opts, runOpts...)
	opts = append(opts, forkjoin.WithObserver(obs))

	go func() {
		defer close(x.done)
		defer obs.Close()

		sum, err := exec.Invoke(root, opts...)

		x.mu.Lock()
		x.summary = sum
		x.err = err
		x.mu.Unlock()
	}()

	return x
}

// Events returns a read-only channel of events for this run.
func (x *Handle) Events() <-chan forkjoin.Event {
	if x == nil {
		ch := make(chan forkjoin.Event)
		close(ch)
		return ch
	}
	return x.obs.Events()
}

// Summaries returns a read-only channel that carries the run summary.
func (x *Handle) Summaries() <-chan forkjoin.RunSummary {
	if x == nil {
		ch := make(chan forkjoin.RunSummary)
		close(ch)
		return ch
	}
	return x.obs.Summaries()
}

// Done returns a channel that closes when the run completes.
func (x *Handle) Done() <-chan struct{} {
	if x == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return x.done
}

// Wait blocks until the run completes and returns the summary and error.
func (x *Handle) Wait() (forkjoin.RunSummary, error) {
	if x == nil {
		return forkjoin.RunSummary{}, ErrNilHandle
	}
	<-x.done
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.summary, x.err
}

// Drops returns current drop counters for the underlying Observer.
func (x *Handle) Drops() Drops {
	if x == nil {
		return Drops{}
	}
	return x.obs.Drops()
}
