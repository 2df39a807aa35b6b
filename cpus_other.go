//go:build !linux

package forkjoin

import "runtime"

func availableCPUs() int {
	return runtime.NumCPU()
}
