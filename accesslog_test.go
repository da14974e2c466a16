package tempuscache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAccessLogOfferAndDrain(t *testing.T) {
	l := newAccessLog()

	l.offer("a")
	l.offer("b")
	l.offer("c")

	drained := l.drainInto(nil)
	require.Equal(t, []string{"a", "b", "c"}, drained)

	// A second drain with nothing new offered should be empty.
	require.Empty(t, l.drainInto(nil))
}

func TestAccessLogDropsOnOverflow(t *testing.T) {
	l := newAccessLog()

	for i := 0; i < accessLogCapacity+100; i++ {
		l.offer(fmt.Sprintf("k%d", i))
	}

	drained := l.drainInto(nil)
	// Overflow records are silently dropped (spec §4.1 item 2) rather
	// than causing an error or blocking — the ring never holds more
	// than its capacity at once.
	require.LessOrEqual(t, len(drained), accessLogCapacity)
	require.Greater(t, len(drained), 0)
}

func TestAccessLogConcurrentOffer(t *testing.T) {
	l := newAccessLog()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				l.offer(fmt.Sprintf("g%d-%d", g, i))
			}
		}(g)
	}
	wg.Wait()

	drained := l.drainInto(nil)
	require.LessOrEqual(t, len(drained), 800)
}
