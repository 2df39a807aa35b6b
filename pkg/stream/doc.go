// Package stream provides channel-based observation of forkjoin runs.
//
// Executors emit forkjoin.Event values to a forkjoin.Observer, possibly from
// several workers at once. This package supplies an Observer that forwards
// events and run summaries into channels without baking channel semantics
// into the executors.
//
// # Observer
//
// Observer implements forkjoin.Observer. It supports explicit buffering and
// overflow policies:
//   - DropNewest: never blocks the run; drops newest items when buffers fill.
//   - DropOldest: never blocks the run; removes one buffered item to keep the newest.
//   - Block: blocks in HandleEvent until the consumer receives; best for tests/debug.
//
// Drop counts are exposed via Drops.
//
// # Start
//
// Start runs Executor.Invoke in a goroutine and exposes the channels via a
// Handle.
package stream
