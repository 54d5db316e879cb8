package subdocs

import "errors"

var (
	// ErrParentNotFound indicates the parent document does not exist in the given scope
	ErrParentNotFound = errors.New("parent document not found")

	// ErrItemNotFound indicates no embedded item has the requested id
	ErrItemNotFound = errors.New("embedded item not found")

	// ErrNotOwner indicates the embedded item exists but belongs to another user
	ErrNotOwner = errors.New("embedded item owned by another user")

	// ErrCapacityExceeded indicates the parent already holds the maximum number of items
	ErrCapacityExceeded = errors.New("embedded collection is full")

	// ErrInvariantViolation indicates a single-item mutation touched more than one item
	ErrInvariantViolation = errors.New("embedded collection invariant violated")
)
