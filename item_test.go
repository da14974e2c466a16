package tempuscache

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateKey(t *testing.T) {
	require.NoError(t, ValidateKey("key1"))
	require.ErrorIs(t, ValidateKey(""), ErrInvalidKey)
	require.ErrorIs(t, ValidateKey("has space"), ErrInvalidKey)
	require.ErrorIs(t, ValidateKey("tab\ttab"), ErrInvalidKey)
	require.ErrorIs(t, ValidateKey(strings.Repeat("k", MaxKeyBytes+1)), ErrInvalidKey)
	require.NoError(t, ValidateKey(strings.Repeat("k", MaxKeyBytes)))
}
