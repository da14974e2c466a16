package tempuscache

import (
	"runtime"
	"sync"

	"github.com/cespare/xxhash/v2"
)

/*
stripe is C1: a fixed array of independent RW-locks, one per bin, that
serializes per-key store/delete against concurrent reads landing in the
*same* bin (spec.md §4.1, concurrency protocol item 1). Cross-bin
operations never contend with each other — that's the entire point of
striping, and why size() (spec §4.1) can only ever be approximate: there
is deliberately no lock that covers every bin at once.

Bin selection uses xxhash rather than a hand-rolled hash because §9
calls out that "poor distribution degrades to a global lock" — xxhash is
the stable, well-distributed, non-cryptographic hash used for exactly
this shape of bin/shard selection elsewhere in the retrieval pack
(HyperCache, Voskan-arena-cache, mevdschee-tqsession all reach for it to
key a shard or a consistent-hash ring).
*/
type stripe struct {
	locks []sync.RWMutex
	mask  uint64
}

// newStripe builds a stripe with a bin count equal to the CPU count,
// rounded up to the next power of two and clamped to [4, 64] — see
// SPEC_FULL.md §5 for why this default was chosen over a literal
// runtime.NumCPU().
func newStripe(requested int) *stripe {
	n := requested
	if n <= 0 {
		n = runtime.NumCPU()
	}
	n = nextPowerOfTwo(n)
	if n < 4 {
		n = 4
	}
	if n > 64 {
		n = 64
	}
	return &stripe{
		locks: make([]sync.RWMutex, n),
		mask:  uint64(n - 1),
	}
}

func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

func (s *stripe) bin(key string) uint64 {
	return xxhash.Sum64String(key) & s.mask
}

func (s *stripe) binCount() int {
	return len(s.locks)
}

func (s *stripe) rlock(bin uint64) {
	s.locks[bin].RLock()
}

func (s *stripe) runlock(bin uint64) {
	s.locks[bin].RUnlock()
}

func (s *stripe) lock(bin uint64) {
	s.locks[bin].Lock()
}

func (s *stripe) unlock(bin uint64) {
	s.locks[bin].Unlock()
}
