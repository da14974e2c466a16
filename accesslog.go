package tempuscache

import "sync/atomic"

/*
accessLog is C2: a bounded, lock-free, multi-producer / single-
consumer ring buffer of recently-touched keys (spec.md §3, §4.1 items 2
and 3). offer never blocks: it is a single CAS against a monotonically
increasing tail counter, and it silently drops the key if the ring is
full (spec §9: "implementers must bound C2... and accept drops" — this
is the intentional approximate-LRU signal, not a bug).

The head/tail CAS shape is ported from the lossy ring buffer in
maypok86/otter's internal/lossy package (vendored copy reachable via
grafana-tempo in the retrieval pack): producers race to reserve the
next slot with CompareAndSwap and publish into it; the drainer reads
slots from head to tail and republishes nil so that, after the ring
wraps around, it can tell a slot a producer has reserved but not yet
published (nil) from a published one. That package is
generic over otter's own node type and internal to it, so it isn't
importable here — this is the same technique, written directly against
a plain string payload instead.

capacity is fixed at accessLogCapacity (2^17, per SPEC_FULL.md §5 and
spec.md §6's "cap at e.g. 2^17 entries with silent drop") rather than
configurable: spec.md's CLI table (§6) names only two tunables and this
isn't one of them.
*/
const accessLogCapacity = 1 << 17

const accessLogMask = uint64(accessLogCapacity - 1)

type accessLog struct {
	head atomic.Uint64
	tail atomic.Uint64
	buf  [accessLogCapacity]atomic.Pointer[string]
}

func newAccessLog() *accessLog {
	return &accessLog{}
}

// offer is the hot-path, non-blocking enqueue. It never waits and
// never returns an error — a full ring simply drops the record, per
// spec §4.1: "If C2 is at capacity... the record is silently dropped."
func (l *accessLog) offer(key string) {
	for {
		tail := l.tail.Load()
		head := l.head.Load()
		if tail-head >= accessLogCapacity {
			return // full: drop, as specified
		}
		if l.tail.CompareAndSwap(tail, tail+1) {
			k := key
			l.buf[tail&accessLogMask].Store(&k)
			return
		}
		// CAS lost the race to another producer; retry against a
		// fresh tail rather than blocking.
	}
}

// drainInto bulk-drains every published record into dst and returns
// the extended slice. Single-consumer only (the drainer worker is the
// sole caller) — spec §4.1 item 3 requires a single bulk acquisition
// per cycle rather than one take-per-key.
func (l *accessLog) drainInto(dst []string) []string {
	head := l.head.Load()
	tail := l.tail.Load()
	for head != tail {
		slot := &l.buf[head&accessLogMask]
		ptr := slot.Load()
		if ptr == nil {
			break // producer reserved the slot but hasn't published yet
		}
		dst = append(dst, *ptr)
		slot.Store(nil)
		head++
	}
	l.head.Store(head)
	return dst
}
