package subdocs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// DefaultCapacity is the per-parent item limit when none is configured
const DefaultCapacity = 100

// Scope narrows which parent documents a mutation may touch.
// Backends support the "post_id" key; an empty scope matches by parent id only.
type Scope map[string]string

// ScopePostID is the scope key that ties a comment to its post
const ScopePostID = "post_id"

// Match selects one embedded item by its id and owner
type Match struct {
	ItemID  string
	OwnerID string
}

// Store is the document-store contract for an embedded array of T patched with P.
// Every method must be a single atomic operation on the parent document.
type Store[T any, P any] interface {
	// Len returns the live number of embedded items. ErrParentNotFound if the parent is missing.
	Len(ctx context.Context, parentID string, scope Scope) (int, error)

	// Push appends item to the parent's array. Returns false if no parent matched.
	Push(ctx context.Context, parentID string, scope Scope, item T) (bool, error)

	// UpdateMatching applies patch to the item matching m and reports how many items changed
	UpdateMatching(ctx context.Context, parentID string, scope Scope, m Match, patch P) (int64, error)

	// RemoveMatching pulls the item matching m and reports how many items were removed
	RemoveMatching(ctx context.Context, parentID string, scope Scope, m Match) (int64, error)

	// Owner returns the owner of itemID.
	// Returns ErrParentNotFound or ErrItemNotFound when either is missing.
	Owner(ctx context.Context, parentID string, scope Scope, itemID string) (string, error)
}

// Collection enforces capacity and per-item ownership over a Store
type Collection[T any, P any] struct {
	store    Store[T, P]
	newID    func() (string, error)
	logger   *slog.Logger
	capacity int
}

// NewCollection creates a collection that admits at most capacity items per parent
func NewCollection[T any, P any](store Store[T, P], capacity int, logger *slog.Logger) *Collection[T, P] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Collection[T, P]{
		store:    store,
		capacity: capacity,
		newID:    newItemID,
		logger:   logger,
	}
}

// Append builds a new item with a fresh id and pushes it onto the parent.
//
// The length check and the push are separate operations. Concurrent appends
// that all observe capacity-1 can each succeed, so a parent may transiently
// exceed capacity by at most the number of racing writers.
func (c *Collection[T, P]) Append(ctx context.Context, parentID string, scope Scope, build func(id string) T) (T, error) {
	var zero T

	n, err := c.store.Len(ctx, parentID, scope)
	if err != nil {
		return zero, err
	}
	if n >= c.capacity {
		return zero, fmt.Errorf("%w: %d of %d", ErrCapacityExceeded, n, c.capacity)
	}

	id, err := c.newID()
	if err != nil {
		return zero, fmt.Errorf("failed to generate item id: %w", err)
	}

	item := build(id)
	ok, err := c.store.Push(ctx, parentID, scope, item)
	if err != nil {
		return zero, err
	}
	if !ok {
		return zero, ErrParentNotFound
	}
	return item, nil
}

// UpdateMatching applies patch to the matching item and returns the modified count
func (c *Collection[T, P]) UpdateMatching(ctx context.Context, parentID string, scope Scope, m Match, patch P) (int64, error) {
	return c.store.UpdateMatching(ctx, parentID, scope, m, patch)
}

// RemoveMatching removes the matching item and returns the removed count
func (c *Collection[T, P]) RemoveMatching(ctx context.Context, parentID string, scope Scope, m Match) (int64, error) {
	return c.store.RemoveMatching(ctx, parentID, scope, m)
}

// Resolve turns a modified count from UpdateMatching or RemoveMatching into an error.
// A zero count is disambiguated with an owner lookup so callers can tell a missing
// parent, a missing item and a foreign item apart. The lookup only runs on failure.
func (c *Collection[T, P]) Resolve(ctx context.Context, parentID string, scope Scope, m Match, modified int64) error {
	switch {
	case modified == 1:
		return nil
	case modified > 1:
		c.logger.Error("embedded mutation touched multiple items",
			"parent_id", parentID,
			"item_id", m.ItemID,
			"modified", modified)
		return fmt.Errorf("%w: %d items modified for %s", ErrInvariantViolation, modified, m.ItemID)
	}

	owner, err := c.store.Owner(ctx, parentID, scope, m.ItemID)
	if err != nil {
		if errors.Is(err, ErrParentNotFound) || errors.Is(err, ErrItemNotFound) {
			return err
		}
		return fmt.Errorf("failed to resolve item owner: %w", err)
	}
	if owner != m.OwnerID {
		return ErrNotOwner
	}
	// Owner matched but nothing changed: the item vanished between the two operations
	return ErrItemNotFound
}

// Update applies patch to the caller's item, failing unless exactly one item changed
func (c *Collection[T, P]) Update(ctx context.Context, parentID string, scope Scope, m Match, patch P) error {
	n, err := c.UpdateMatching(ctx, parentID, scope, m, patch)
	if err != nil {
		return err
	}
	return c.Resolve(ctx, parentID, scope, m, n)
}

// Remove deletes the caller's item, failing unless exactly one item was removed
func (c *Collection[T, P]) Remove(ctx context.Context, parentID string, scope Scope, m Match) error {
	n, err := c.RemoveMatching(ctx, parentID, scope, m)
	if err != nil {
		return err
	}
	return c.Resolve(ctx, parentID, scope, m, n)
}

func newItemID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
