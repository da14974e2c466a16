package tempuscache

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

/*
evictor is C7: the background worker that moves batches out of the
eviction set (C4) and into real deletes against the primary store (C5).
Batching amortizes the per-key bin-lock acquisition cost (spec.md §4.1
item 5: "Batching amortizes lock acquisition and shrinks the proportion
of wall time workers spend in the critical section") — the evictor
acts once C4 holds at least BatchSize keys, gated by a size threshold
instead of acting unconditionally on every tick; the one exception is
the idle flush below, which drains a smaller remainder that has sat in
C4 for idleFlushAfter.

Shape grounded on Krishna8167-tempuscache's janitor.go ticker/stop
idiom, reused verbatim; the batching/threshold behavior is new, built
from §4.1 item 5 directly (that cache has no eviction worker at all —
its eviction is synchronous and inline with Set).
*/
// idleFlushAfter bounds how long a sub-batch-sized remainder may sit
// in C4 before the evictor flushes it anyway. Spec §4.1 item 5 only
// describes the batch-threshold path, but testable property P2 ("after
// quiescence, size() <= capacity") requires eviction to complete even
// when puts stop before a full batch accumulates — see DESIGN.md.
const idleFlushAfter = 500 * time.Millisecond

type evictor struct {
	evictions *evictSet
	store     *store
	stats     *Stats
	metrics   *metrics
	batchSize int
	period    time.Duration
	initWait  time.Duration
	logger    *zap.SugaredLogger

	pendingSince time.Time // zero when C4 was last observed empty

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

func newEvictor(evictions *evictSet, st *store, stats *Stats, m *metrics, batchSize int, period, initWait time.Duration, logger *zap.SugaredLogger) *evictor {
	return &evictor{
		evictions: evictions,
		store:     st,
		stats:     stats,
		metrics:   m,
		batchSize: batchSize,
		period:    period,
		initWait:  initWait,
		logger:    logger,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

func (e *evictor) start() {
	go e.run()
}

func (e *evictor) run() {
	defer close(e.done)

	if e.initWait > 0 {
		select {
		case <-time.After(e.initWait):
		case <-e.stop:
			return
		}
	}

	ticker := time.NewTicker(e.period)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			e.tick()
		case <-e.stop:
			return
		}
	}
}

func (e *evictor) tick() {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Errorw("evictor tick panicked, continuing", "panic", r)
		}
	}()

	keys := e.evictions.drainIfAtLeast(e.batchSize)
	if keys == nil {
		if e.evictions.len() == 0 {
			e.pendingSince = time.Time{}
		} else {
			if e.pendingSince.IsZero() {
				e.pendingSince = time.Now()
			} else if time.Since(e.pendingSince) >= idleFlushAfter {
				keys = e.evictions.drainAll()
				e.pendingSince = time.Time{}
			}
		}
	} else {
		e.pendingSince = time.Time{}
	}
	if len(keys) == 0 {
		return
	}
	for _, k := range keys {
		if n, removed := e.store.delete(k); removed {
			e.stats.addBytes(-int64(n))
			if e.metrics != nil {
				e.metrics.bytesStored.Add(-float64(n))
			}
		}
	}
	e.stats.recordEvict(len(keys))
	if e.metrics != nil {
		e.metrics.evictions.Add(float64(len(keys)))
	}
}

func (e *evictor) stopAndWait(timeout time.Duration) bool {
	e.once.Do(func() { close(e.stop) })
	select {
	case <-e.done:
		return true
	case <-time.After(timeout):
		return false
	}
}
