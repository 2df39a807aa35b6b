package forkjoin

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Executor drives a root task to completion.
//
// Invoke blocks until every index of the root range has been processed. A
// panic inside any task is returned as a *PanicError.
type Executor interface {
	Invoke(root Task, opts ...RunOption) (RunSummary, error)
}

// scheduler is the fork half of an executor. fork hands fn to the executor
// and returns a function that blocks until fn has completed, re-raising any
// panic fn raised.
type scheduler interface {
	fork(fn func()) (join func())
}

// run holds per-Invoke state shared by every task of one tree.
type run struct {
	sched    scheduler
	observer Observer
	logger   *slog.Logger
	root     Task
	started  time.Time
	id       uuid.UUID

	leaves   atomic.Int64
	forks    atomic.Int64
	elements atomic.Int64
	maxDepth atomic.Int64
}

func newRun(sched scheduler, logger *slog.Logger, root Task, rc runConfig) *run {
	id := uuid.New()
	return &run{
		sched:    sched,
		observer: rc.observer,
		logger:   logger.With("run_id", id.String()),
		root:     root,
		id:       id,
	}
}

// drive runs the root task through exec and returns the run summary.
// exec must block until the root computation has returned.
func (r *run) drive(exec func(fn func()) error) (RunSummary, error) {
	r.started = time.Now()
	if err := r.emitRecover(Event{Type: EventRunStarted, Time: r.started, Range: r.root.rng}); err != nil {
		sum := r.summary()
		r.logger.Error("run failed", "err", err)
		return sum, err
	}
	r.logger.Debug("run started",
		"range", r.root.rng.String(),
		"threshold", r.root.threshold,
	)

	err := exec(func() { r.root.compute(r) })

	sum := r.summary()
	finErr := r.emitRecover(Event{
		Type:    EventRunFinished,
		Time:    sum.CompletedAt,
		Range:   r.root.rng,
		Summary: &sum,
	})
	if err == nil {
		err = finErr
	}
	if err != nil {
		r.logger.Error("run failed", "err", err)
		return sum, err
	}
	r.logger.Debug("run finished",
		"leaves", sum.Leaves,
		"forks", sum.Forks,
		"max_depth", sum.MaxDepth,
		"elapsed", sum.CompletedAt.Sub(sum.StartedAt),
	)
	return sum, nil
}

func (r *run) leaf(t Task) {
	r.leaves.Add(1)
	r.elements.Add(int64(t.rng.Len()))
	r.observeDepth(t.depth)
	r.emit(Event{Type: EventLeafProcessed, Time: time.Now(), Range: t.rng, Depth: t.depth})
	r.logger.Debug("leaf processed", "range", t.rng.String(), "depth", t.depth)
}

func (r *run) forked(t Task) {
	r.forks.Add(1)
	r.observeDepth(t.depth)
	r.emit(Event{Type: EventTaskForked, Time: time.Now(), Range: t.rng, Depth: t.depth})
}

func (r *run) observeDepth(d int) {
	for {
		cur := r.maxDepth.Load()
		if int64(d) <= cur || r.maxDepth.CompareAndSwap(cur, int64(d)) {
			return
		}
	}
}

func (r *run) emit(ev Event) {
	if r.observer == nil {
		return
	}
	ev.RunID = r.id
	r.observer.HandleEvent(ev)
}

// emitRecover emits ev outside of any task and reports an observer panic as
// a *PanicError.
func (r *run) emitRecover(ev Event) error {
	var (
		v        any
		panicked bool
	)
	recoverTo(func() { r.emit(ev) }, &v, &panicked)
	if panicked {
		return &PanicError{Value: v}
	}
	return nil
}

func (r *run) summary() RunSummary {
	return RunSummary{
		RunID:       r.id,
		Range:       r.root.rng,
		Threshold:   r.root.threshold,
		Leaves:      r.leaves.Load(),
		Forks:       r.forks.Load(),
		Elements:    r.elements.Load(),
		MaxDepth:    int(r.maxDepth.Load()),
		StartedAt:   r.started,
		CompletedAt: time.Now(),
	}
}

// recoverTo runs fn and stores any panic value in *v.
func recoverTo(fn func(), v *any, panicked *bool) {
	defer func() {
		if p := recover(); p != nil {
			*v = p
			*panicked = true
		}
	}()
	fn()
}
