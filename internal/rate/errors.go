package rate

import "errors"

var (
	// ErrStoreUnavailable wraps Redis transport failures. The caller decides
	// whether to fail open or closed.
	ErrStoreUnavailable = errors.New("counter store unavailable")
)
