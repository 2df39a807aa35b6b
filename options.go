package forkjoin

import (
	"log/slog"
)

// Option configures an executor at construction time.
type Option func(*config)

type config struct {
	logger     *slog.Logger
	maxWorkers int
}

// WithMaxWorkers sets the maximum number of concurrent workers.
//
// Values <= 0 are normalized to the number of CPUs available to the process.
func WithMaxWorkers(n int) Option {
	return func(c *config) {
		c.maxWorkers = n
	}
}

// WithLogger sets the logger used for debug records about workers and runs.
//
// A nil logger restores the default, which discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

func defaultConfig() config {
	return config{
		logger:     slog.New(slog.DiscardHandler),
		maxWorkers: availableCPUs(),
	}
}

func buildConfig(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.maxWorkers <= 0 {
		cfg.maxWorkers = defaultConfig().maxWorkers
	}
	if cfg.logger == nil {
		cfg.logger = defaultConfig().logger
	}
	return cfg
}

// RunOption configures a single run.
type RunOption func(*runConfig)

type runConfig struct {
	observer    Observer
	executor    Executor
	executorSet bool
}

// WithObserver attaches an observer to receive run events.
//
// Observers must be concurrency-safe; HandleEvent may be called concurrently.
func WithObserver(o Observer) RunOption {
	return func(c *runConfig) {
		if o == nil {
			return
		}
		if c.observer == nil {
			c.observer = o
			return
		}
		c.observer = MultiObserver(c.observer, o)
	}
}

// WithExecutor selects the executor used by Normalize and NormalizeSummary.
//
// Without it the common pool is used. Executor.Invoke ignores this option.
func WithExecutor(e Executor) RunOption {
	return func(c *runConfig) {
		c.executor = e
		c.executorSet = true
	}
}

func buildRunConfig(opts []RunOption) runConfig {
	var rc runConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&rc)
		}
	}
	return rc
}
