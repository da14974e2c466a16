package tempuscache

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStripeBinCountRoundsToPowerOfTwo(t *testing.T) {
	s := newStripe(5)
	require.Equal(t, 8, s.binCount())
}

func TestStripeBinCountClampedToRange(t *testing.T) {
	require.Equal(t, 4, newStripe(1).binCount())
	require.Equal(t, 64, newStripe(1000).binCount())
}

func TestStripeBinIsStable(t *testing.T) {
	s := newStripe(16)
	require.Equal(t, s.bin("hello"), s.bin("hello"))
}

func TestStripeBinWithinRange(t *testing.T) {
	s := newStripe(16)
	for _, k := range []string{"a", "b", "c", "some-longer-key-value"} {
		bin := s.bin(k)
		require.Less(t, bin, uint64(s.binCount()))
	}
}
