package dsca

type constError string

func (e constError) Error() string { return string(e) }

const (
	// ErrInvalidConfig is wrapped by every construction and parameter error.
	ErrInvalidConfig = constError("invalid cache configuration")
	// ErrNotFound is returned by Position for keys that are not cached.
	ErrNotFound = constError("key not found")
)
