package quiz

import "errors"

var (
	// ErrNotFound signals that a requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists signals a duplicate insert. For categories this is
	// the expected outcome of submitting a name twice, not a failure.
	ErrAlreadyExists = errors.New("already exists")

	// ErrUnavailable signals that the storage backend is not configured or
	// has been closed. Callers degrade instead of crashing.
	ErrUnavailable = errors.New("storage unavailable")
)
