package tempuscache

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

/*
drainer is C6: the background worker that bulk-drains the access log
(C2) into the recency index (C3) on a fixed tick, then trims C3 down to
capacity and hands the overflow to the eviction set (C4). This is the
asynchronous bridge spec.md §2 describes between the hot path's
non-blocking record() calls and the eventually-consistent recency
ordering in C3.

Shape grounded on Krishna8167-tempuscache's janitor.go: a time.Ticker
plus a select on the ticker channel and a stop channel, run in its own
goroutine, stopped exactly once. New relative to that source is the
two-phase per-tick body (drain, then trim-and-handoff) §9 asks for as
an explicit step rather than an embedded "remove eldest" callback.
*/
type drainer struct {
	log       *accessLog
	recency   *recencyIndex
	evictions *evictSet
	period    time.Duration
	initWait  time.Duration
	logger    *zap.SugaredLogger

	stop chan struct{}
	done chan struct{}
	once sync.Once

	scratch []string // reused across ticks to avoid per-tick allocation
}

func newDrainer(log *accessLog, recency *recencyIndex, evictions *evictSet, period, initWait time.Duration, logger *zap.SugaredLogger) *drainer {
	return &drainer{
		log:       log,
		recency:   recency,
		evictions: evictions,
		period:    period,
		initWait:  initWait,
		logger:    logger,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

func (d *drainer) start() {
	go d.run()
}

func (d *drainer) run() {
	defer close(d.done)

	if d.initWait > 0 {
		select {
		case <-time.After(d.initWait):
		case <-d.stop:
			return
		}
	}

	ticker := time.NewTicker(d.period)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			d.tick()
		case <-d.stop:
			return
		}
	}
}

// tick runs one drain cycle. Spec §4.1's failure semantics require
// that "worker exceptions are logged and swallowed" and that "neither
// worker is allowed to die permanently" — recover here keeps the
// ticker loop alive even if a future change to touch/trimTo panics.
func (d *drainer) tick() {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Errorw("drainer tick panicked, continuing", "panic", r)
		}
	}()

	d.scratch = d.log.drainInto(d.scratch[:0])
	for _, key := range d.scratch {
		d.recency.touch(key)
	}

	victims := d.recency.trimTo(nil)
	d.evictions.add(victims)
}

// stopAndWait signals the worker to exit and blocks until it has, or
// until timeout elapses. Returns false on timeout.
func (d *drainer) stopAndWait(timeout time.Duration) bool {
	d.once.Do(func() { close(d.stop) })
	select {
	case <-d.done:
		return true
	case <-time.After(timeout):
		return false
	}
}
