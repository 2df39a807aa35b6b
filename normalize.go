package forkjoin

import (
	"fmt"
	"sync"
)

// DefaultThreshold is the split threshold used by the demo drivers.
const DefaultThreshold = 20

var (
	commonOnce sync.Once
	commonPool *Pool
)

// CommonPool returns the process-wide pool used by Normalize. It is created
// on first use with one worker per available CPU. Close on it is a no-op.
func CommonPool() *Pool {
	commonOnce.Do(func() {
		commonPool = NewPool()
		commonPool.shared = true
	})
	return commonPool
}

// Normalize divides every element of buf[start:end] by Divisor in place,
// splitting the range in parallel until sub-ranges are shorter than
// threshold.
//
// Normalize blocks until the whole range is processed. It returns an error
// wrapping ErrInvalidRange, without touching buf, when start < 0,
// start > end or end > len(buf).
func Normalize(buf []float64, start, end, threshold int, opts ...RunOption) error {
	_, err := NormalizeSummary(buf, start, end, threshold, opts...)
	return err
}

// NormalizeSummary is Normalize that also returns the run summary.
func NormalizeSummary(buf []float64, start, end, threshold int, opts ...RunOption) (RunSummary, error) {
	root, err := NewTask(buf, start, end, threshold)
	if err != nil {
		return RunSummary{}, fmt.Errorf("forkjoin: normalize: %w", err)
	}

	rc := buildRunConfig(opts)
	exec := Executor(CommonPool())
	if rc.executorSet {
		if rc.executor == nil {
			return RunSummary{}, fmt.Errorf("forkjoin: normalize: %w", ErrNilExecutor)
		}
		exec = rc.executor
	}

	sum, err := exec.Invoke(root, opts...)
	if err != nil {
		return sum, fmt.Errorf("forkjoin: normalize: %w", err)
	}
	return sum, nil
}
