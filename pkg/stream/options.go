package stream

// OverflowPolicy controls how an Observer behaves when buffers are full.
type OverflowPolicy uint8

const (
	// DropNewest drops the newest item when the channel buffer is full.
	//
	// This policy never blocks the run and is the default.
	DropNewest OverflowPolicy = iota

	// DropOldest drops one buffered item to make room for the newest item.
	DropOldest

	// Block blocks in HandleEvent until the consumer receives.
	//
	// Leaf events arrive from every worker, so this policy serializes the run
	// on the consumer.
	Block
)

const (
	defaultEventBufSize   = 1024
	defaultSummaryBufSize = 16
	defaultInboxSize      = 64
)

// Option configures an Observer.
type Option func(*config)

type config struct {
	eventBuf   int
	summaryBuf int
	policy     OverflowPolicy
}

// WithEventBuffer sets the event channel buffer size.
func WithEventBuffer(n int) Option {
	return func(c *config) {
		c.eventBuf = n
	}
}

// WithSummaryBuffer sets the summary channel buffer size.
func WithSummaryBuffer(n int) Option {
	return func(c *config) {
		c.summaryBuf = n
	}
}

// WithOverflowPolicy sets the overflow policy.
func WithOverflowPolicy(p OverflowPolicy) Option {
	return func(c *config) {
		c.policy = p
	}
}
