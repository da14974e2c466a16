package tempuscache

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

/*
Stats tracks the cache's operational counters: hits, misses,
evictions, and the running total of stored value bytes. The teacher's struct (stats.go) used plain uint64 fields
mutated under the cache's single RWMutex; here there is no single
cache-wide lock to piggyback on (C1 is striped precisely so hot-path
operations never take a cache-wide lock), so the counters are atomic
instead — the minimal change that keeps Stats() non-blocking and
race-free without reintroducing the global lock striping was built to
remove.

Each counter is mirrored into a Prometheus collector (metrics, below) so
a process embedding this cache can export them alongside its own
metrics — an ambient concern SPEC_FULL.md §1 adds, grounded on
Voskan-arena-cache's use of prometheus/client_golang in the same
in-memory-cache domain.
*/
type Stats struct {
	hits        atomic.Uint64
	misses      atomic.Uint64
	evictions   atomic.Uint64
	bytesStored atomic.Int64
}

// Snapshot is a point-in-time copy of Stats, safe to read after the
// cache has moved on.
type Snapshot struct {
	Hits        uint64
	Misses      uint64
	Evictions   uint64
	BytesStored int64
}

func (s *Stats) recordHit()  { s.hits.Add(1) }
func (s *Stats) recordMiss() { s.misses.Add(1) }
func (s *Stats) recordEvict(n int) {
	if n > 0 {
		s.evictions.Add(uint64(n))
	}
}

// addBytes adjusts the running tally of live value bytes by delta,
// which may be negative (overwrite-shrink, delete). Approximate in the
// same sense store.size() is: no lock spans the whole cache, so a
// concurrent reader may observe a tally that doesn't match any single
// instant's true total exactly.
func (s *Stats) addBytes(delta int64) {
	if delta != 0 {
		s.bytesStored.Add(delta)
	}
}

func (s *Stats) snapshot() Snapshot {
	return Snapshot{
		Hits:        s.hits.Load(),
		Misses:      s.misses.Load(),
		Evictions:   s.evictions.Load(),
		BytesStored: s.bytesStored.Load(),
	}
}

// metrics bundles the Prometheus counters a Cache updates alongside
// its own atomic Stats. Registration is left to the caller (via
// Cache.Collectors) rather than done against the default registry,
// so embedding multiple caches in one process never collides on
// metric names.
type metrics struct {
	hits              prometheus.Counter
	misses            prometheus.Counter
	evictions         prometheus.Counter
	bytesStored       prometheus.Gauge
	connectionsActive prometheus.Gauge
}

func newMetrics() *metrics {
	return &metrics{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tempuscache_hits_total",
			Help: "Number of cache Get calls that found a live value.",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tempuscache_misses_total",
			Help: "Number of cache Get calls that found no value.",
		}),
		evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tempuscache_evictions_total",
			Help: "Number of keys removed by the evictor worker.",
		}),
		bytesStored: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tempuscache_bytes_stored",
			Help: "Approximate total size in bytes of all live values.",
		}),
		connectionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tempuscache_connections_active",
			Help: "Number of currently open client connections.",
		}),
	}
}

func (m *metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{m.hits, m.misses, m.evictions, m.bytesStored, m.connectionsActive}
}
