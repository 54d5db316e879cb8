package slugs

import "errors"

var (
	// ErrTaken indicates the candidate slug collided with an existing one.
	// Commit functions return it for unique constraint violations so the
	// allocator moves on to the next candidate.
	ErrTaken = errors.New("slug already taken")

	// ErrAllocationFailed indicates no unique slug was found within the attempt budget
	ErrAllocationFailed = errors.New("unable to allocate a unique slug")
)
