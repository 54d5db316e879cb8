// Package pagination implements keyset pagination over time-ordered ids.
//
// Ids are UUIDv7 strings, so lexicographic order equals creation order.
// Pages are ordered by id descending and a cursor is the last id of the
// previous page: the next page holds ids strictly less than it.
package pagination

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

const (
	// DefaultLimit is used when a caller asks for no particular page size
	DefaultLimit = 20
	// MaxLimit caps any requested page size
	MaxLimit = 100
)

var (
	// ErrInvalidCursor indicates the after cursor is not a well-formed id
	ErrInvalidCursor = errors.New("invalid cursor")
	// ErrInvalidLimit indicates a negative page size
	ErrInvalidLimit = errors.New("invalid limit")
)

// Page is one slice of results plus the cursor for the next slice.
// Next is nil when the page came back short, meaning there is nothing more.
type Page[T any] struct {
	Next  *string `json:"after"`
	Items []T     `json:"results"`
}

// Fetcher loads up to limit items matching filter with ids strictly less than
// after (or from the newest when after is empty), newest first.
type Fetcher[T any, F any] func(ctx context.Context, filter F, limit int, after string) ([]T, error)

// Pager turns a Fetcher into cursor pages
type Pager[T any, F any] struct {
	fetch Fetcher[T, F]
	id    func(T) string
}

// NewPager creates a pager. id extracts the cursor key from an item.
func NewPager[T any, F any](fetch Fetcher[T, F], id func(T) string) *Pager[T, F] {
	return &Pager[T, F]{fetch: fetch, id: id}
}

// Page fetches one page. limit must already be normalized.
func (p *Pager[T, F]) Page(ctx context.Context, filter F, limit int, after string) (Page[T], error) {
	if limit <= 0 {
		return Page[T]{}, fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}
	if err := ValidateCursor(after); err != nil {
		return Page[T]{}, err
	}

	items, err := p.fetch(ctx, filter, limit, after)
	if err != nil {
		return Page[T]{}, err
	}
	return Build(items, limit, p.id), nil
}

// Build assembles a page from fetched items.
// Next is set only when the fetch filled the page.
func Build[T any](items []T, limit int, id func(T) string) Page[T] {
	if items == nil {
		items = []T{}
	}
	page := Page[T]{Items: items}
	if limit > 0 && len(items) == limit {
		next := id(items[len(items)-1])
		page.Next = &next
	}
	return page
}

// Drain walks every page in order and calls visit for each item.
// It stops at the first short page or the first error.
func Drain[T any, F any](ctx context.Context, p *Pager[T, F], filter F, limit int, visit func(T) error) error {
	after := ""
	for {
		page, err := p.Page(ctx, filter, limit, after)
		if err != nil {
			return err
		}
		for _, item := range page.Items {
			if err := visit(item); err != nil {
				return err
			}
		}
		if page.Next == nil {
			return nil
		}
		after = *page.Next
	}
}

// Params carries the raw paging inputs of a list request
type Params struct {
	After string
	Limit int
}

// Normalize applies the default page size and clamps to max.
// Negative limits are rejected; zero means "use the default".
func (p Params) Normalize(defaultLimit, maxLimit int) (Params, error) {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	if maxLimit <= 0 {
		maxLimit = MaxLimit
	}
	if p.Limit < 0 {
		return p, fmt.Errorf("%w: %d", ErrInvalidLimit, p.Limit)
	}
	if p.Limit == 0 {
		p.Limit = defaultLimit
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	if err := ValidateCursor(p.After); err != nil {
		return p, err
	}
	return p, nil
}

// ValidateCursor accepts an empty cursor or a UUID in canonical form.
// Ids are compared byte-wise, so other spellings uuid.Parse tolerates
// (uppercase, undashed, urn or braced) would page from the wrong place.
func ValidateCursor(after string) error {
	if after == "" {
		return nil
	}
	parsed, err := uuid.Parse(after)
	if err != nil || parsed.String() != after {
		return fmt.Errorf("%w: %q", ErrInvalidCursor, after)
	}
	return nil
}
