package membership

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// DefaultCapacity is the maximum set size when none is configured
const DefaultCapacity = 100

// ErrCapacityExceeded indicates the set is full and the member is not already in it
var ErrCapacityExceeded = errors.New("membership set is full")

// Store is the document-store contract for a capacity-bounded set of member ids.
// One document per setID holds the members; it is created on first add.
type Store interface {
	// AddMember adds memberID to the set when it is absent and the set holds fewer
	// than capacity members, creating the set document if needed. Reports whether
	// the set changed. Must be a single atomic operation.
	AddMember(ctx context.Context, setID, memberID string, capacity int) (bool, error)

	// RemoveMember pulls memberID from the set and reports whether it was present
	RemoveMember(ctx context.Context, setID, memberID string) (bool, error)

	// IsMember reports whether memberID is currently in the set
	IsMember(ctx context.Context, setID, memberID string) (bool, error)
}

// Set is an idempotent membership set with an upper bound on its size
type Set struct {
	store    Store
	logger   *slog.Logger
	capacity int
}

// NewSet creates a set bounded to capacity members
func NewSet(store Store, capacity int, logger *slog.Logger) *Set {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Set{store: store, capacity: capacity, logger: logger}
}

// Add inserts memberID. Returns false with no error when it was already present.
// A full set returns ErrCapacityExceeded for new members only.
func (s *Set) Add(ctx context.Context, setID, memberID string) (bool, error) {
	added, err := s.store.AddMember(ctx, setID, memberID, s.capacity)
	if err != nil {
		return false, err
	}
	if added {
		return true, nil
	}

	// The conditional add refused: either already a member or the set is full
	present, err := s.store.IsMember(ctx, setID, memberID)
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	if present {
		return false, nil
	}
	return false, ErrCapacityExceeded
}

// Remove deletes memberID. Removing an absent member is not an error.
func (s *Set) Remove(ctx context.Context, setID, memberID string) (bool, error) {
	return s.store.RemoveMember(ctx, setID, memberID)
}

// Toggle adds memberID when absent and removes it when present.
// Returns whether the member is present afterwards and whether the set changed.
func (s *Set) Toggle(ctx context.Context, setID, memberID string) (present bool, changed bool, err error) {
	added, err := s.Add(ctx, setID, memberID)
	if err != nil {
		return false, false, err
	}
	if added {
		return true, true, nil
	}

	removed, err := s.store.RemoveMember(ctx, setID, memberID)
	if err != nil {
		return true, false, err
	}
	if !removed {
		// A concurrent remove beat us to it
		s.logger.Debug("toggle remove found no member",
			"set_id", setID,
			"member_id", memberID)
	}
	return false, removed, nil
}

// Delta converts a change into a counter adjustment for the given direction
func Delta(changed, present bool) int {
	switch {
	case !changed:
		return 0
	case present:
		return 1
	default:
		return -1
	}
}
