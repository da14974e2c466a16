package tempuscache

import "sync"

/*
evictSet is C4: keys pending removal from the primary store, guarded by
its own lock (spec.md §3, §4.1 item 4). It sits between the drainer
(producer, appends trimmed keys) and the evictor (consumer, drains
batches into store.delete) — spec §4.1 item 6 requires C4's lock to
always be the inner-most lock with respect to bin locks, which is
exactly the order add/drain below observe: a caller never holds a bin
lock while taking this one.

Krishna8167-tempuscache has no equivalent component (its eviction is
synchronous, inline with Set); this is built directly from the §3/§4.1
description, reusing that repo's "struct{} uses zero memory" idiom
(main.go) for the set's value type.
*/
type evictSet struct {
	mu      sync.Mutex
	pending map[string]struct{}
}

func newEvictSet() *evictSet {
	return &evictSet{pending: make(map[string]struct{})}
}

// add enqueues keys for eviction. Called by the drainer after
// recencyIndex.trimTo.
func (e *evictSet) add(keys []string) {
	if len(keys) == 0 {
		return
	}
	e.mu.Lock()
	for _, k := range keys {
		e.pending[k] = struct{}{}
	}
	e.mu.Unlock()
}

func (e *evictSet) len() int {
	e.mu.Lock()
	n := len(e.pending)
	e.mu.Unlock()
	return n
}

// drainIfAtLeast removes and returns every pending key, but only if
// there are at least `threshold` of them — spec §4.1 item 5: "If |C4|
// >= BATCH_SIZE... acquires C4's lock... clears C4". Returns nil
// without touching the set's contents if below threshold, so a
// below-threshold call costs one uncontended lock/unlock.
func (e *evictSet) drainIfAtLeast(threshold int) []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.pending) < threshold {
		return nil
	}
	return e.drainAllLocked()
}

// drainAll unconditionally removes and returns every pending key,
// regardless of batch threshold. Used by the evictor's idle-flush path
// (evictor.go) so a sub-batch-sized remainder doesn't linger forever
// once puts have stopped — see DESIGN.md's resolution of P2 ("after
// quiescence, size() <= capacity") against §4.1 item 5's batch-only
// description.
func (e *evictSet) drainAll() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.pending) == 0 {
		return nil
	}
	return e.drainAllLocked()
}

func (e *evictSet) drainAllLocked() []string {
	keys := make([]string, 0, len(e.pending))
	for k := range e.pending {
		keys = append(keys, k)
	}
	e.pending = make(map[string]struct{})
	return keys
}
