//go:build linux

package forkjoin

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// availableCPUs counts the CPUs in the calling thread's affinity mask, which
// may be narrower than the machine when the process runs under taskset or a
// cgroup cpuset.
func availableCPUs() int {
	var set unix.CPUSet
	if err := unix.SchedGetaffinity(0, &set); err != nil {
		return runtime.NumCPU()
	}
	if n := set.Count(); n > 0 {
		return n
	}
	return runtime.NumCPU()
}
