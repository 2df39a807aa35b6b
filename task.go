package forkjoin

// Divisor is the constant every element is divided by.
const Divisor = 100

// Task is an immutable descriptor of a range over a shared buffer.
//
// A Task is executed exactly once by an Executor. Tasks created by splitting
// cover disjoint ranges, so concurrently running tasks never touch the same
// index and the buffer needs no locking.
type Task struct {
	buf       []float64
	rng       Range
	threshold int
	depth     int
}

// NewTask validates [start, end) against buf and returns the root task for
// that range.
//
// Threshold values below 1 are clamped to 1.
func NewTask(buf []float64, start, end, threshold int) (Task, error) {
	if err := checkRange(len(buf), start, end); err != nil {
		return Task{}, err
	}
	return Task{
		buf:       buf,
		rng:       Range{Start: start, End: end},
		threshold: max(threshold, 1),
	}, nil
}

// Range returns the task's range.
func (t Task) Range() Range { return t.rng }

// Threshold returns the clamped split threshold.
func (t Task) Threshold() int { return t.threshold }

// Depth returns the task's depth in the task tree; the root is 0.
func (t Task) Depth() int { return t.depth }

// IsLeaf reports whether the task processes its range directly.
//
// Ranges shorter than the threshold are leaves. Empty and single-element
// ranges cannot be split and are leaves for every threshold.
func (t Task) IsLeaf() bool {
	n := t.rng.Len()
	return n <= 1 || n < t.threshold
}

func (t Task) split() (Task, Task) {
	l, r := t.rng.Split()
	left, right := t, t
	left.rng, right.rng = l, r
	left.depth++
	right.depth++
	return left, right
}

func (t Task) process() {
	for i := t.rng.Start; i < t.rng.End; i++ {
		t.buf[i] /= Divisor
	}
}

// compute runs t on the current goroutine. A branch forks its left child,
// computes the right child itself, then joins the left child.
//
// The left child is joined even when the right child panics, so a task never
// returns while part of its subtree is still running. The right child's panic
// wins over the left child's.
func (t Task) compute(r *run) {
	if t.IsLeaf() {
		t.process()
		r.leaf(t)
		return
	}

	left, right := t.split()
	r.forked(t)

	join := r.sched.fork(func() { left.compute(r) })

	var rv, lv any
	var rPanicked, lPanicked bool
	recoverTo(func() { right.compute(r) }, &rv, &rPanicked)
	recoverTo(join, &lv, &lPanicked)

	switch {
	case rPanicked:
		panic(rv)
	case lPanicked:
		panic(lv)
	}
}
