package counters

import (
	"context"
	"log/slog"
	"time"
)

// Field names a derived counter on a parent document
type Field string

const (
	// TotalComment tracks the number of comments on a post
	TotalComment Field = "total_comment"
	// TotalReaction tracks the number of users who reacted to a post
	TotalReaction Field = "total_reaction"
)

// DefaultTimeout bounds a single counter adjustment
const DefaultTimeout = 5 * time.Second

// Valid reports whether f is a known counter
func (f Field) Valid() bool {
	return f == TotalComment || f == TotalReaction
}

// Store applies an atomic increment to a counter field.
// Implementations floor the result at zero.
type Store interface {
	IncrementCounter(ctx context.Context, parentID string, field Field, delta int) error
}

// Ledger applies best-effort counter deltas after a child mutation commits.
// Counters are advisory: a failed adjustment is logged and left for the
// Reconciler to repair.
type Ledger struct {
	store   Store
	logger  *slog.Logger
	timeout time.Duration
}

// NewLedger creates a ledger that bounds each adjustment by timeout
func NewLedger(store Store, timeout time.Duration, logger *slog.Logger) *Ledger {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{store: store, timeout: timeout, logger: logger}
}

// Adjust adds delta to the parent's counter. It is detached from the caller's
// cancellation so a committed child mutation still gets its counter update.
func (l *Ledger) Adjust(ctx context.Context, parentID string, field Field, delta int) {
	if delta == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.timeout)
	defer cancel()

	if err := l.store.IncrementCounter(ctx, parentID, field, delta); err != nil {
		l.logger.Warn("failed to adjust counter",
			"error", err,
			"parent_id", parentID,
			"field", string(field),
			"delta", delta)
	}
}
