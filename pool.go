package forkjoin

import (
	"sync"
	"sync/atomic"

	"github.com/eapache/queue"
	"golang.org/x/sys/cpu"
)

// Pool is a fixed set of worker goroutines sharing one FIFO work queue.
//
// Forked tasks are appended to the queue and picked up by any idle worker. A
// task that joins a child which has not finished yet helps by running queued
// tasks itself; it only blocks once the queue is empty, at which point the
// child is already running on another goroutine. This keeps the pool
// deadlock-free for any tree depth and any worker count.
//
// A Pool is safe for concurrent use; several Invoke calls may share it.
type Pool struct {
	cfg config

	mu     sync.Mutex
	cond   *sync.Cond
	queue  *queue.Queue // of *future
	closed bool
	shared bool

	wg sync.WaitGroup

	stats poolCounters
}

// poolCounters is written by every worker; each counter sits on its own
// cache line.
type poolCounters struct {
	_         cpu.CacheLinePad
	invoked   atomic.Int64
	_         cpu.CacheLinePad
	forked    atomic.Int64
	_         cpu.CacheLinePad
	byWorkers atomic.Int64
	_         cpu.CacheLinePad
	byJoiners atomic.Int64
	_         cpu.CacheLinePad
}

// PoolStats is a snapshot of Pool counters.
type PoolStats struct {
	// Workers is the number of worker goroutines.
	Workers int

	// Invoked counts root tasks accepted by Invoke.
	Invoked int64

	// Forked counts child tasks pushed onto the queue.
	Forked int64

	// RunByWorkers counts queued tasks run by idle workers.
	RunByWorkers int64

	// RunByJoiners counts queued tasks run by tasks waiting in a join.
	RunByJoiners int64

	// Pending is the current queue length.
	Pending int
}

// NewPool starts a pool. Worker count defaults to the number of CPUs
// available to the process.
func NewPool(opts ...Option) *Pool {
	p := &Pool{
		cfg:   buildConfig(opts),
		queue: queue.New(),
	}
	p.cond = sync.NewCond(&p.mu)

	for id := range p.cfg.maxWorkers {
		p.wg.Go(func() {
			p.worker(id)
		})
	}
	p.cfg.logger.Debug("pool started", "workers", p.cfg.maxWorkers)
	return p
}

// Invoke runs root on the pool and blocks until it completes.
func (p *Pool) Invoke(root Task, opts ...RunOption) (RunSummary, error) {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return RunSummary{}, ErrPoolClosed
	}

	r := newRun(p, p.cfg.logger, root, buildRunConfig(opts))
	return r.drive(func(fn func()) error {
		f := newFuture(fn)
		if !p.submit(f) {
			return ErrPoolClosed
		}
		p.stats.invoked.Add(1)
		<-f.done
		if f.panicked {
			return &PanicError{Value: f.panicValue}
		}
		return nil
	})
}

// NumWorkers returns the number of worker goroutines.
func (p *Pool) NumWorkers() int {
	return p.cfg.maxWorkers
}

// Stats returns a snapshot of the pool counters.
func (p *Pool) Stats() PoolStats {
	p.mu.Lock()
	pending := p.queue.Length()
	p.mu.Unlock()

	return PoolStats{
		Workers:      p.cfg.maxWorkers,
		Invoked:      p.stats.invoked.Load(),
		Forked:       p.stats.forked.Load(),
		RunByWorkers: p.stats.byWorkers.Load(),
		RunByJoiners: p.stats.byJoiners.Load(),
		Pending:      pending,
	}
}

// Close rejects further Invoke calls, lets queued work drain and waits for
// the workers to exit. Close is safe to call multiple times. Closing the
// common pool is a no-op.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.shared || p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	p.cond.Broadcast()
	p.wg.Wait()
	p.cfg.logger.Debug("pool closed")
}

// submit queues a root task. It fails once the pool is closed.
func (p *Pool) submit(f *future) bool {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return false
	}
	p.queue.Add(f)
	p.mu.Unlock()
	p.cond.Signal()
	return true
}

// fork queues a child task. Children are accepted after Close so that runs
// already in flight can finish.
func (p *Pool) fork(fn func()) func() {
	f := newFuture(fn)

	p.mu.Lock()
	p.queue.Add(f)
	p.mu.Unlock()
	p.cond.Signal()
	p.stats.forked.Add(1)

	return func() { p.join(f) }
}

func (p *Pool) join(f *future) {
	for {
		select {
		case <-f.done:
			if f.panicked {
				panic(f.panicValue)
			}
			return
		default:
		}

		if g, ok := p.tryPop(); ok {
			g.run()
			p.stats.byJoiners.Add(1)
			continue
		}

		// Queue is empty, so f has been taken and is running elsewhere.
		<-f.done
	}
}

func (p *Pool) tryPop() (*future, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.queue.Length() == 0 {
		return nil, false
	}
	return p.queue.Remove().(*future), true
}

func (p *Pool) worker(id int) {
	p.cfg.logger.Debug("worker started", "worker", id)
	defer p.cfg.logger.Debug("worker stopped", "worker", id)

	for {
		p.mu.Lock()
		for p.queue.Length() == 0 && !p.closed {
			p.cond.Wait()
		}
		if p.queue.Length() == 0 {
			// Closed and drained.
			p.mu.Unlock()
			return
		}
		f := p.queue.Remove().(*future)
		p.mu.Unlock()

		f.run()
		p.stats.byWorkers.Add(1)
	}
}

// future is a queued task and its completion signal.
type future struct {
	fn         func()
	done       chan struct{}
	panicValue any
	panicked   bool
}

func newFuture(fn func()) *future {
	return &future{fn: fn, done: make(chan struct{})}
}

// run executes fn exactly once. panicValue and panicked are written before
// done is closed.
func (f *future) run() {
	defer close(f.done)
	recoverTo(f.fn, &f.panicValue, &f.panicked)
}
