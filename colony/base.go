// Package colony broadcasts a fixed set of events to registered subscribers.
//
// A Base keeps its subscribers in registration order and delivers every
// published event to all of them synchronously. It does no filtering; each
// subscriber decides which events it reacts to. Base is meant to be driven
// from a single goroutine.
package colony

import (
	"log/slog"
)

// Subscriber receives events published by a Base.
type Subscriber interface {
	Update(Event)
}

// SubscriberFunc adapts a function to the Subscriber interface.
type SubscriberFunc func(Event)

// Update calls f(e).
func (f SubscriberFunc) Update(e Event) {
	f(e)
}

// Base is the publisher side: a list of subscribers and the last event.
type Base struct {
	logger      *slog.Logger
	subscribers []Subscriber
	current     Event
	published   bool
}

// NewBase creates an empty Base. A nil logger discards output.
func NewBase(logger *slog.Logger) *Base {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Base{logger: logger}
}

// Subscribe appends s. Nil subscribers are ignored; the same subscriber may
// be registered more than once and is then notified once per registration.
func (b *Base) Subscribe(s Subscriber) {
	if s == nil {
		return
	}
	b.subscribers = append(b.subscribers, s)
}

// Unsubscribe removes the first registration of s and reports whether one
// was found. Subscribers are compared with ==, so s must be comparable (a
// pointer, for example); a SubscriberFunc can never be removed.
func (b *Base) Unsubscribe(s Subscriber) bool {
	for i, cur := range b.subscribers {
		if sameSubscriber(cur, s) {
			b.subscribers = append(b.subscribers[:i], b.subscribers[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of registrations.
func (b *Base) Len() int {
	return len(b.subscribers)
}

// Current returns the last published event and whether any was published.
func (b *Base) Current() (Event, bool) {
	return b.current, b.published
}

// Publish records e as the current event and calls Update on every
// subscriber in registration order.
func (b *Base) Publish(e Event) {
	b.current = e
	b.published = true

	b.logger.Info("new event detected", "event", e.String(), "subscribers", len(b.subscribers))
	for _, s := range b.subscribers {
		s.Update(e)
	}
}

func sameSubscriber(a, b Subscriber) (same bool) {
	// Comparing interfaces holding uncomparable dynamic types panics.
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return a == b
}
