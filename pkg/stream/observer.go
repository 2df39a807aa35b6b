package stream

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/a2y-d5l/forkjoin"
)

// Drops reports the number of items dropped by Observer due to overflow.
type Drops struct {
	// Events is the number of dropped forkjoin.Event values.
	Events uint64

	// Summaries is the number of dropped forkjoin.RunSummary values.
	Summaries uint64
}

// Observer implements forkjoin.Observer and forwards events into channels.
// The summary carried by each EventRunFinished is also sent on Summaries.
//
// It is safe under concurrent HandleEvent calls.
type Observer struct {
	events           chan forkjoin.Event
	summaries        chan forkjoin.RunSummary
	inbox            chan forkjoin.Event
	done             chan struct{}
	cfg              config
	wg               sync.WaitGroup
	droppedEvents    atomic.Uint64
	droppedSummaries atomic.Uint64
	closeOnce        sync.Once
}

func newInbox(evtBufSize, sumBufSize int) chan forkjoin.Event {
	const headroom = 256
	size := max(defaultInboxSize, max(evtBufSize, sumBufSize)*2+headroom)
	return make(chan forkjoin.Event, size)
}

// NewObserver constructs an Observer.
//
// Defaults:
//   - EventBuffer: 1024
//   - SummaryBuffer: 16
//   - OverflowPolicy: DropNewest
func NewObserver(opts ...Option) *Observer {
	c := config{
		eventBuf:   defaultEventBufSize,
		summaryBuf: defaultSummaryBufSize,
		policy:     DropNewest,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}
	c.eventBuf = max(c.eventBuf, 0)
	c.summaryBuf = max(c.summaryBuf, 0)

	obs := &Observer{
		cfg:       c,
		events:    make(chan forkjoin.Event, c.eventBuf),
		summaries: make(chan forkjoin.RunSummary, c.summaryBuf),
		inbox:     newInbox(c.eventBuf, c.summaryBuf),
		done:      make(chan struct{}),
	}

	obs.wg.Go(func() {
		obs.run()
	})

	return obs
}

// HandleEvent forwards e according to the overflow policy.
func (o *Observer) HandleEvent(e forkjoin.Event) {
	if o == nil {
		return
	}

	select {
	case <-o.done:
		return
	default:
	}

	switch o.cfg.policy {
	case Block:
		select {
		case o.inbox <- e:
		case <-o.done:
		}

	case DropOldest, DropNewest:
		select {
		case o.inbox <- e:
		default:
			o.droppedEvents.Add(1)
			if e.Summary != nil {
				o.droppedSummaries.Add(1)
			}
		}

	default:
		panic(fmt.Errorf("unknown overflow policy: %v", o.cfg.policy))
	}
}

// Events returns a read-only channel of events.
func (o *Observer) Events() <-chan forkjoin.Event {
	if o == nil {
		ch := make(chan forkjoin.Event)
		close(ch)
		return ch
	}
	return o.events
}

// Summaries returns a read-only channel of run summaries.
func (o *Observer) Summaries() <-chan forkjoin.RunSummary {
	if o == nil {
		ch := make(chan forkjoin.RunSummary)
		close(ch)
		return ch
	}
	return o.summaries
}

// Drops returns current drop counters.
func (o *Observer) Drops() Drops {
	if o == nil {
		return Drops{}
	}
	return Drops{
		Events:    o.droppedEvents.Load(),
		Summaries: o.droppedSummaries.Load(),
	}
}

// Close stops forwarding and closes the outbound channels. Events still in
// the inbox are forwarded first. Close is safe to call multiple times.
func (o *Observer) Close() {
	if o == nil {
		return
	}

	first := false
	o.closeOnce.Do(func() {
		first = true
		close(o.done)
	})
	if !first {
		return
	}

	o.wg.Wait()
	close(o.events)
	close(o.summaries)
}

func (o *Observer) run() {
	for {
		select {
		case msg := <-o.inbox:
			o.forward(msg)
		case <-o.done:
			o.drain()
			return
		}
	}
}

// drain forwards whatever is left in the inbox without blocking.
func (o *Observer) drain() {
	for {
		select {
		case msg := <-o.inbox:
			o.forward(msg)
		default:
			return
		}
	}
}

func (o *Observer) forward(e forkjoin.Event) {
	sendWithPolicy(o.cfg.policy, o.events, e, o.done, &o.droppedEvents)
	if e.Summary != nil {
		sendWithPolicy(o.cfg.policy, o.summaries, *e.Summary, o.done, &o.droppedSummaries)
	}
}

func sendWithPolicy[T any](policy OverflowPolicy, ch chan T, v T, done <-chan struct{}, dropped *atomic.Uint64) {
	switch policy {
	case Block:
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case ch <- v:
		case <-done:
			dropped.Add(1)
		}

	case DropOldest:
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case <-ch:
			dropped.Add(1)
		default:
		}
		select {
		case ch <- v:
		default:
			dropped.Add(1)
		}

	case DropNewest:
		select {
		case ch <- v:
		default:
			dropped.Add(1)
		}

	default:
		panic(fmt.Errorf("unknown overflow policy: %v", policy))
	}
}
