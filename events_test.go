package forkjoin_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a2y-d5l/forkjoin"
	"github.com/a2y-d5l/forkjoin/pkg/stream/streamtest"
)

func TestInvoke_EventsBracketTheRun(t *testing.T) {
	for name, exec := range executors(t) {
		t.Run(name, func(t *testing.T) {
			const n = 300
			task, err := forkjoin.NewTask(randomBuffer(n, 1), 0, n, 10)
			require.NoError(t, err)

			rec := streamtest.NewEventRecorder()
			sum, err := exec.Invoke(task, forkjoin.WithObserver(rec))
			require.NoError(t, err)

			evs := rec.Events()
			require.NotEmpty(t, evs)

			first, last := evs[0], evs[len(evs)-1]
			assert.Equal(t, forkjoin.EventRunStarted, first.Type)
			assert.Equal(t, forkjoin.EventRunFinished, last.Type)
			require.NotNil(t, last.Summary)
			assert.Equal(t, sum, *last.Summary)

			for _, e := range evs {
				assert.Equal(t, sum.RunID, e.RunID)
			}
			assert.Len(t, rec.OfType(forkjoin.EventRunStarted), 1)
			assert.Len(t, rec.OfType(forkjoin.EventRunFinished), 1)
			assert.Len(t, rec.OfType(forkjoin.EventTaskForked), int(sum.Forks))
			assert.Len(t, rec.OfType(forkjoin.EventLeafProcessed), int(sum.Leaves))
		})
	}
}

func TestInvoke_LeavesPartitionTheRange(t *testing.T) {
	for name, exec := range executors(t) {
		t.Run(name, func(t *testing.T) {
			const start, end = 13, 1013
			task, err := forkjoin.NewTask(make([]float64, 1100), start, end, 7)
			require.NoError(t, err)

			rec := streamtest.NewEventRecorder()
			_, err = exec.Invoke(task, forkjoin.WithObserver(rec))
			require.NoError(t, err)

			next := start
			for _, r := range rec.LeafRanges() {
				require.Equal(t, next, r.Start, "gap or overlap before %v", r)
				require.Positive(t, r.Len())
				require.Less(t, r.Len(), 7)
				next = r.End
			}
			assert.Equal(t, end, next)
		})
	}
}

func TestWithObserver_Combines(t *testing.T) {
	var a, b atomic.Int64
	count := func(c *atomic.Int64) forkjoin.Observer {
		return forkjoin.ObserverFunc(func(forkjoin.Event) { c.Add(1) })
	}

	buf := []float64{100, 200, 300, 400}
	require.NoError(t, forkjoin.Normalize(buf, 0, 4, 2,
		forkjoin.WithObserver(count(&a)),
		forkjoin.WithObserver(nil),
		forkjoin.WithObserver(count(&b)),
	))

	// started + 3 forks + 4 leaves + finished
	assert.EqualValues(t, 9, a.Load())
	assert.EqualValues(t, 9, b.Load())
}

func TestMultiObserver_IgnoresNil(t *testing.T) {
	var n int
	obs := forkjoin.MultiObserver(nil, forkjoin.ObserverFunc(func(forkjoin.Event) { n++ }), nil)
	obs.HandleEvent(forkjoin.Event{})
	assert.Equal(t, 1, n)

	forkjoin.MultiObserver().HandleEvent(forkjoin.Event{})
}

func TestEventType_String(t *testing.T) {
	assert.Equal(t, "run_started", forkjoin.EventRunStarted.String())
	assert.Equal(t, "task_forked", forkjoin.EventTaskForked.String())
	assert.Equal(t, "leaf_processed", forkjoin.EventLeafProcessed.String())
	assert.Equal(t, "run_finished", forkjoin.EventRunFinished.String())
	assert.Equal(t, "unknown(9)", forkjoin.EventType(9).String())
}

func TestInvoke_PanicStillJoinsEveryTask(t *testing.T) {
	pool := forkjoin.NewPool(forkjoin.WithMaxWorkers(2))
	t.Cleanup(pool.Close)
	execs := map[string]forkjoin.Executor{
		"pool":    pool,
		"spawner": forkjoin.NewSpawner(forkjoin.WithMaxWorkers(2)),
	}

	for name, exec := range execs {
		t.Run(name, func(t *testing.T) {
			const n = 1 << 16
			buf := make([]float64, n)
			for i := range buf {
				buf[i] = 100
			}
			task, err := forkjoin.NewTask(buf, 0, n, 1)
			require.NoError(t, err)

			// The last leaf is computed inline down the right spine, so every
			// forked subtree is still running when it panics.
			var leaves atomic.Int64
			boom := forkjoin.ObserverFunc(func(e forkjoin.Event) {
				if e.Type != forkjoin.EventLeafProcessed {
					return
				}
				leaves.Add(1)
				if e.Range.Start == n-1 {
					panic("boom")
				}
			})
			rec := streamtest.NewEventRecorder()

			_, err = exec.Invoke(task, forkjoin.WithObserver(boom), forkjoin.WithObserver(rec))
			require.ErrorIs(t, err, forkjoin.ErrTaskPanicked)

			countDone := func() int {
				var c int
				for _, v := range buf {
					if v == 1 {
						c++
					}
				}
				return c
			}
			leavesAtReturn, doneAtReturn := leaves.Load(), countDone()
			assert.EqualValues(t, n, leavesAtReturn)
			assert.Equal(t, n, doneAtReturn)

			time.Sleep(20 * time.Millisecond)
			assert.Equal(t, leavesAtReturn, leaves.Load())
			assert.Equal(t, doneAtReturn, countDone())

			evs := rec.Events()
			require.NotEmpty(t, evs)
			assert.Equal(t, forkjoin.EventRunFinished, evs[len(evs)-1].Type)
		})
	}
}

func TestInvoke_ObserverPanicOnRunEvents(t *testing.T) {
	panicOn := func(typ forkjoin.EventType) forkjoin.RunOption {
		return forkjoin.WithObserver(forkjoin.ObserverFunc(func(e forkjoin.Event) {
			if e.Type == typ {
				panic(typ.String())
			}
		}))
	}

	for name, exec := range executors(t) {
		t.Run(name, func(t *testing.T) {
			buf := []float64{100, 200, 300, 400}
			err := forkjoin.Normalize(buf, 0, 4, 2, forkjoin.WithExecutor(exec), panicOn(forkjoin.EventRunStarted))
			require.ErrorIs(t, err, forkjoin.ErrTaskPanicked)
			assert.Equal(t, []float64{100, 200, 300, 400}, buf, "no work after a failed start")

			err = forkjoin.Normalize(buf, 0, 4, 2, forkjoin.WithExecutor(exec), panicOn(forkjoin.EventRunFinished))
			require.ErrorIs(t, err, forkjoin.ErrTaskPanicked)
			var pe *forkjoin.PanicError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, "run_finished", pe.Value)
			assert.Equal(t, []float64{1, 2, 3, 4}, buf)
		})
	}
}
