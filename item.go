package tempuscache

/*
item.go holds the key validation spec.md §3's grammar describes. The
teacher's Item struct bundled a key, a value, and a per-entry expiration
timestamp behind one type; that fusion doesn't survive here; store.go
and recency.go each keep only the half of Item they need (a bare
[]byte in the shard map, a bare string in the recency list), and
exptime itself is gone — spec.md's Non-goals exclude exptime-based
expiration entirely.
*/

// MaxKeyBytes is the longest key the grammar in spec.md §3 allows.
const MaxKeyBytes = 250

/*
ValidateKey enforces spec.md §3's key grammar: non-empty, at most
MaxKeyBytes bytes, no whitespace. It is the only source of ErrInvalidKey
in the engine (spec §4.1: "Errors: only InvalidKey").
*/
func ValidateKey(key string) error {
	if len(key) == 0 || len(key) > MaxKeyBytes {
		return ErrInvalidKey
	}
	for i := 0; i < len(key); i++ {
		switch key[i] {
		case ' ', '\t', '\r', '\n':
			return ErrInvalidKey
		}
	}
	return nil
}
