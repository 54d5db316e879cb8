package content

import (
	"Inkwell/internal/core/membership"
	"Inkwell/internal/core/pagination"
	"Inkwell/internal/core/slugs"
	"Inkwell/internal/core/subdocs"
	"context"
	"errors"
	"fmt"
)

// Error taxonomy surfaced by the content service.
// Every error returned by Service matches one of these with errors.Is.
var (
	// ErrNotFound is returned when a resource is absent or outside the requested scope
	ErrNotFound = errors.New("not found")

	// ErrPermissionDenied is returned when the caller does not own the resource
	ErrPermissionDenied = errors.New("permission denied")

	// ErrCapacityExceeded is returned when a reply list or reaction set is full
	ErrCapacityExceeded = errors.New("capacity exceeded")

	// ErrAllocationFailed is returned when no unique slug could be allocated
	ErrAllocationFailed = errors.New("allocation failed")

	// ErrValidation is returned for malformed caller input
	ErrValidation = errors.New("validation error")

	// ErrStoreUnavailable is returned for infrastructure faults in the document store
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrInternal is returned when a store invariant is found broken
	ErrInternal = errors.New("internal error")
)

// Resource-specific not-found errors
var (
	ErrPostNotFound     = fmt.Errorf("post %w", ErrNotFound)
	ErrTopicNotFound    = fmt.Errorf("topic %w", ErrNotFound)
	ErrCommentNotFound  = fmt.Errorf("comment %w", ErrNotFound)
	ErrReplyNotFound    = fmt.Errorf("reply %w", ErrNotFound)
	ErrReactionNotFound = fmt.Errorf("reaction %w", ErrNotFound)
)

// ErrTopicNameTaken is returned by TopicRepository.Create when another topic
// already holds the name. The service treats it as a lost get-or-create race.
var ErrTopicNameTaken = errors.New("topic name already exists")

// FieldError attaches the offending field to a taxonomy error
type FieldError struct {
	Err     error
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%v (%s)", e.Err, e.Field)
	}
	return fmt.Sprintf("%v (%s): %s", e.Err, e.Field, e.Message)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a validation error for field
func NewValidationError(field, message string) error {
	return &FieldError{Err: ErrValidation, Field: field, Message: message}
}

// FieldOf returns the field named by err, or "" if none
func FieldOf(err error) string {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe.Field
	}
	return ""
}

// IsNotFound checks if error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsPermissionDenied checks if error is an ownership failure
func IsPermissionDenied(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}

// IsCapacityExceeded checks if error is a full collection
func IsCapacityExceeded(err error) bool {
	return errors.Is(err, ErrCapacityExceeded)
}

// IsAllocationFailed checks if error is an exhausted slug allocation
func IsAllocationFailed(err error) bool {
	return errors.Is(err, ErrAllocationFailed)
}

// IsValidationError checks if error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsStoreUnavailable checks if error is an infrastructure fault
func IsStoreUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}

// translate maps engine and repository errors onto the taxonomy.
// field names the input responsible for an allocation failure.
// Unknown errors become ErrStoreUnavailable and never NotFound.
func translate(err error, field string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrPermissionDenied),
		errors.Is(err, ErrCapacityExceeded),
		errors.Is(err, ErrAllocationFailed),
		errors.Is(err, ErrValidation),
		errors.Is(err, ErrStoreUnavailable),
		errors.Is(err, ErrInternal):
		return err

	case errors.Is(err, subdocs.ErrParentNotFound):
		return ErrCommentNotFound
	case errors.Is(err, subdocs.ErrItemNotFound):
		return ErrReplyNotFound
	case errors.Is(err, subdocs.ErrNotOwner):
		return ErrPermissionDenied
	case errors.Is(err, subdocs.ErrCapacityExceeded):
		return &FieldError{Err: ErrCapacityExceeded, Field: "replies", Message: err.Error()}
	case errors.Is(err, subdocs.ErrInvariantViolation):
		return fmt.Errorf("%w: %w", ErrInternal, err)

	case errors.Is(err, membership.ErrCapacityExceeded):
		return &FieldError{Err: ErrCapacityExceeded, Field: "user_ids", Message: err.Error()}

	case errors.Is(err, slugs.ErrAllocationFailed):
		return &FieldError{Err: ErrAllocationFailed, Field: field, Message: "could not generate a unique slug"}

	case errors.Is(err, pagination.ErrInvalidCursor):
		return &FieldError{Err: ErrValidation, Field: "after", Message: "malformed cursor"}
	case errors.Is(err, pagination.ErrInvalidLimit):
		return &FieldError{Err: ErrValidation, Field: "limit", Message: "limit must not be negative"}
	}

	return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
}
