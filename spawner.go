package forkjoin

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Spawner runs each forked child on its own goroutine, bounded by a
// semaphore of MaxWorkers slots. When every slot is taken the child runs
// inline on the forking goroutine, so forks never wait for a slot and cannot
// deadlock.
//
// The root task runs on the goroutine that called Invoke and holds a slot
// while it does, so at most MaxWorkers goroutines compute at once. Invoke
// waits for that slot when concurrent runs have taken them all.
type Spawner struct {
	cfg config
	sem *semaphore.Weighted
}

// NewSpawner creates a Spawner. It holds no goroutines between runs and
// needs no Close.
func NewSpawner(opts ...Option) *Spawner {
	cfg := buildConfig(opts)
	return &Spawner{
		cfg: cfg,
		sem: semaphore.NewWeighted(int64(cfg.maxWorkers)),
	}
}

// Invoke runs root and blocks until it completes.
func (s *Spawner) Invoke(root Task, opts ...RunOption) (RunSummary, error) {
	r := newRun(s, s.cfg.logger, root, buildRunConfig(opts))
	return r.drive(func(fn func()) error {
		// Background never expires, so Acquire only fails on misuse.
		if err := s.sem.Acquire(context.Background(), 1); err != nil {
			return err
		}
		defer s.sem.Release(1)

		var (
			v        any
			panicked bool
		)
		recoverTo(fn, &v, &panicked)
		if panicked {
			return &PanicError{Value: v}
		}
		return nil
	})
}

// NumWorkers returns the maximum number of concurrently spawned children.
func (s *Spawner) NumWorkers() int {
	return s.cfg.maxWorkers
}

func (s *Spawner) fork(fn func()) func() {
	if !s.sem.TryAcquire(1) {
		fn()
		return func() {}
	}

	var g errgroup.Group
	g.Go(func() error {
		defer s.sem.Release(1)

		var (
			v        any
			panicked bool
		)
		recoverTo(fn, &v, &panicked)
		if panicked {
			return &PanicError{Value: v}
		}
		return nil
	})

	return func() {
		if err := g.Wait(); err != nil {
			var pe *PanicError
			if errors.As(err, &pe) {
				panic(pe.Value)
			}
			panic(err)
		}
	}
}
