package tempuscache

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecencyTouchMovesToFront(t *testing.T) {
	r := newRecencyIndex(10)

	r.touch("a")
	r.touch("b")
	r.touch("a") // re-touch moves "a" back to the front

	require.Equal(t, "a", r.order.Front().Value.(string))
	require.Equal(t, "b", r.order.Back().Value.(string))
}

func TestRecencyTrimToCapacity(t *testing.T) {
	r := newRecencyIndex(2)

	r.touch("a")
	r.touch("b")
	r.touch("c") // over capacity by one

	victims := r.trimTo(nil)
	require.Equal(t, []string{"a"}, victims)
	require.Equal(t, 2, r.len())
}

func TestRecencyTrimToNoOverflow(t *testing.T) {
	r := newRecencyIndex(5)

	r.touch("a")
	r.touch("b")

	victims := r.trimTo(nil)
	require.Empty(t, victims)
}
