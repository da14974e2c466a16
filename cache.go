// Package tempuscache implements a bounded, concurrent, approximate-LRU
// in-memory key/value cache engine. Recency tracking is decoupled from
// the read/write hot path through a lock-free access log drained by a
// background worker, and eviction is performed in batches by a second
// background worker — the architecture spec.md §2 calls "the hard
// part": coupling concurrency control, approximate-LRU bookkeeping, and
// bounded-memory guarantees against a throughput-sensitive read/write
// mix.
package tempuscache

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

/*
Cache is the facade wiring C1–C7 together: a striped lock (stripe), a
sharded primary store, a lock-free access log, a recency index, an
eviction set, and the two background workers that bridge them. The
teacher's Cache (cache.go) bundled a single map, a single list, and a
single RWMutex directly; this facade instead owns a handful of small,
independently-lockable components, which is what lets get/put avoid a
cache-wide lock entirely (spec §5: "No global cache lock exists;
there is deliberately no way to take an atomic snapshot").
*/
type Cache struct {
	stripe  *stripe
	store   *store
	log     *accessLog
	recency *recencyIndex
	evicts  *evictSet

	drainer *drainer
	evictor *evictor

	stats   Stats
	metrics *metrics
	logger  *zap.SugaredLogger

	shutdownTimeout time.Duration
}

// New constructs and starts a Cache. WithCapacity must be supplied with
// a positive value — spec.md §6 lists cache_capacity as "required, >
// 0" — New panics otherwise, failing fast on misconfiguration rather
// than silently defaulting a required value (see
// calvinalkan-agent-task/config.go's validate-or-error convention,
// mirrored here at construction time instead of via a returned error
// since a cache with no capacity cannot exist).
func New(opts ...Option) *Cache {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.capacity <= 0 {
		panic("tempuscache: WithCapacity must be supplied with a positive value")
	}

	st := newStripe(cfg.binCount)
	c := &Cache{
		stripe:          st,
		store:           newStore(st),
		log:             newAccessLog(),
		recency:         newRecencyIndex(cfg.capacity),
		evicts:          newEvictSet(),
		metrics:         newMetrics(),
		logger:          cfg.logger,
		shutdownTimeout: cfg.shutdownTimeout,
	}

	c.drainer = newDrainer(c.log, c.recency, c.evicts, cfg.drainPeriod, cfg.drainInitWait, cfg.logger)
	c.evictor = newEvictor(c.evicts, c.store, &c.stats, c.metrics, cfg.batchSize, cfg.evictPeriod, cfg.evictInitWait, cfg.logger)

	c.drainer.start()
	c.evictor.start()

	return c
}

// Get returns the value for key and true if present, or (nil, false)
// on a miss. Per §4.1's concurrency protocol item 2, an access is only
// recorded on a hit — this avoids polluting recency with negative
// lookups, a deliberate property of the batched variant, not a bug.
func (c *Cache) Get(key string) ([]byte, bool) {
	if err := ValidateKey(key); err != nil {
		return nil, false
	}
	v, ok := c.store.get(key)
	if !ok {
		c.stats.recordMiss()
		c.metrics.misses.Inc()
		return nil, false
	}
	c.stats.recordHit()
	c.metrics.hits.Inc()
	c.log.offer(key)
	return v, true
}

// Put inserts or overwrites key's value and records an access
// unconditionally (spec §4.1 item 2 — the put path always records,
// unlike Get). ErrInvalidKey is returned for a nil/empty/malformed key;
// capacity overflow is never an error (spec §4.1: "Capacity overflow
// is not an error").
func (c *Cache) Put(key string, value []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	oldLen, replaced := c.store.put(key, value)
	delta := int64(len(value))
	if replaced {
		delta -= int64(oldLen)
	}
	c.stats.addBytes(delta)
	c.metrics.bytesStored.Add(float64(delta))
	c.log.offer(key)
	return nil
}

// Size returns the primary store's cardinality. Per spec §4.1 this may
// be stale by one drainer cycle and is never an exact, instantaneous
// count across the whole cache (§5: "there is deliberately no way to
// take an atomic snapshot").
func (c *Cache) Size() int {
	return c.store.size()
}

// Stats returns a snapshot of the cache's hit/miss/eviction counters.
func (c *Cache) Stats() Snapshot {
	return c.stats.snapshot()
}

// Collectors returns the Prometheus collectors backing this cache's
// metrics, for a caller to register against its own registry. Spec.md
// §1 treats "logging configuration" as an external collaborator's
// concern; exporting metrics is symmetric — the cache updates its own
// counters but never stands up an HTTP listener itself.
func (c *Cache) Collectors() []prometheus.Collector {
	return c.metrics.collectors()
}

// ConnectionsGauge exposes the active-connections gauge for a
// transport (server.Server) to increment/decrement per accepted
// connection. The cache has no notion of connections itself — this
// just hands out a gauge it already created and includes in
// Collectors(), so the count ends up alongside the cache's own metrics
// under one Collectors() call.
func (c *Cache) ConnectionsGauge() prometheus.Gauge {
	return c.metrics.connectionsActive
}

// Close initiates orderly shutdown of the drainer and evictor workers
// (spec §4.1: "close... initiates orderly shutdown of C6 and C7;
// drains nothing further"). It waits up to the configured
// ShutdownTimeout for both workers to finish their current tick and
// exit, one per errgroup goroutine so the two waits run concurrently
// rather than serially doubling the worst case — grounded on
// Voskan-arena-cache/nabbar-golib's use of errgroup to supervise a
// fixed set of long-running goroutines and wait on all of them. A
// worker that doesn't respond within the timeout is simply abandoned:
// its own goroutine still observes the closed stop channel and exits
// on its own, it just isn't waited on further — Close itself never
// blocks past ShutdownTimeout.
func (c *Cache) Close() {
	var g errgroup.Group
	g.Go(func() error {
		c.drainer.stopAndWait(c.shutdownTimeout)
		return nil
	})
	g.Go(func() error {
		c.evictor.stopAndWait(c.shutdownTimeout)
		return nil
	})
	_ = g.Wait()
}
