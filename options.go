package tempuscache

import (
	"time"

	"go.uber.org/zap"
)

/*
Option defines a functional configuration modifier for Cache.

DESIGN PATTERN

This file keeps Krishna8167-tempuscache's functional-options pattern
(options.go) verbatim as a pattern: New() accepts a variadic list of
Option functions so that adding a knob never changes New()'s signature.
What changes is the set of knobs — capacity, bin count, worker periods
and batch size, and a logger cover the tuning constants (§6) and
failure semantics (§4.1) the original TTL cache never had options for.
*/
type Option func(*cacheConfig)

type cacheConfig struct {
	capacity        int
	binCount        int
	drainPeriod     time.Duration
	drainInitWait   time.Duration
	evictPeriod     time.Duration
	evictInitWait   time.Duration
	batchSize       int
	shutdownTimeout time.Duration
	logger          *zap.SugaredLogger
}

// Default worker tuning constants from spec.md §6.
const (
	DefaultDrainPeriod     = 10 * time.Millisecond
	DefaultDrainInitWait   = 1 * time.Millisecond
	DefaultEvictPeriod     = 10 * time.Millisecond
	DefaultEvictInitWait   = 10 * time.Millisecond
	DefaultBatchSize       = 500
	DefaultShutdownTimeout = 60 * time.Second
)

func defaultConfig() cacheConfig {
	return cacheConfig{
		capacity:        0,
		binCount:        0, // resolved from runtime.NumCPU() by newStripe
		drainPeriod:     DefaultDrainPeriod,
		drainInitWait:   DefaultDrainInitWait,
		evictPeriod:     DefaultEvictPeriod,
		evictInitWait:   DefaultEvictInitWait,
		batchSize:       DefaultBatchSize,
		shutdownTimeout: DefaultShutdownTimeout,
		logger:          zap.NewNop().Sugar(),
	}
}

// WithCapacity sets the steady-state entry capacity (spec.md §6:
// "cache_capacity... required, > 0"). New panics if this option is
// never supplied or supplied with a non-positive value.
func WithCapacity(n int) Option {
	return func(c *cacheConfig) { c.capacity = n }
}

// WithBinCount overrides the requested stripe bin count B (spec.md §6
// default: CPU count). As with the default, newStripe rounds the
// request up to a power of two and clamps it to [4, 64].
func WithBinCount(n int) Option {
	return func(c *cacheConfig) { c.binCount = n }
}

// WithBatchSize overrides the evictor's batch size (spec.md §6 default
// 500).
func WithBatchSize(n int) Option {
	return func(c *cacheConfig) { c.batchSize = n }
}

// WithDrainPeriod overrides C6's tick interval (spec.md §6 default
// 10ms).
func WithDrainPeriod(d time.Duration) Option {
	return func(c *cacheConfig) { c.drainPeriod = d }
}

// WithEvictPeriod overrides C7's tick interval (spec.md §6 default
// 10ms).
func WithEvictPeriod(d time.Duration) Option {
	return func(c *cacheConfig) { c.evictPeriod = d }
}

// WithDrainInitWait overrides C6's initial delay before its first tick
// (spec.md §6 default 1ms). Tests shrink this to 0 to make the first
// drain run sooner.
func WithDrainInitWait(d time.Duration) Option {
	return func(c *cacheConfig) { c.drainInitWait = d }
}

// WithEvictInitWait overrides C7's initial delay before its first tick
// (spec.md §6 default 10ms).
func WithEvictInitWait(d time.Duration) Option {
	return func(c *cacheConfig) { c.evictInitWait = d }
}

// WithShutdownTimeout overrides how long Close waits for the workers
// to finish their current tick and exit before it stops waiting and
// returns (spec.md §4.1, default 60s).
func WithShutdownTimeout(d time.Duration) Option {
	return func(c *cacheConfig) { c.shutdownTimeout = d }
}

// WithLogger sets the logger workers use to record swallowed faults
// (spec.md §4.1: "Worker exceptions are logged and swallowed").
// A nil logger is replaced with a no-op one.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(c *cacheConfig) {
		if l == nil {
			l = zap.NewNop().Sugar()
		}
		c.logger = l
	}
}
