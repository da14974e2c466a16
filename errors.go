package tempuscache

import "errors"

/*
ErrInvalidKey is the cache engine's single error kind (spec §4.1:
"Errors: only InvalidKey"). It is returned for a nil/empty key or a key
that violates the grammar in item.go's ValidateKey.

Capacity overflow is not an error — the cache is explicitly permitted
to run transiently over capacity (see I2 in spec.md §4.1) and callers
observe that only through Size(), never through an error return.
*/
var ErrInvalidKey = errors.New("tempuscache: invalid key")
