package counters

import (
	"Inkwell/internal/core/pagination"
	"context"
	"fmt"
	"log/slog"
)

// ParentLister pages through parent ids newest first, after the given cursor
type ParentLister func(ctx context.Context, limit int, after string) ([]string, error)

// Source computes the true value of a counter from the live child documents
type Source interface {
	LiveCount(ctx context.Context, parentID string, field Field) (int, error)
}

// Setter overwrites a counter and reports whether the stored value differed
type Setter interface {
	SetCounter(ctx context.Context, parentID string, field Field, value int) (bool, error)
}

// Result summarises one reconciliation pass
type Result struct {
	Scanned   int `json:"scanned"`
	Corrected int `json:"corrected"`
	Failed    int `json:"failed"`
}

// Reconciler recomputes counters from their sources so drift left by failed
// or reordered adjustments converges once writes quiesce.
type Reconciler struct {
	pager    *pagination.Pager[string, struct{}]
	source   Source
	setter   Setter
	logger   *slog.Logger
	fields   []Field
	pageSize int
}

// NewReconciler creates a reconciler over every parent returned by list
func NewReconciler(list ParentLister, source Source, setter Setter, pageSize int, logger *slog.Logger) *Reconciler {
	if pageSize <= 0 {
		pageSize = pagination.MaxLimit
	}
	if logger == nil {
		logger = slog.Default()
	}
	fetch := func(ctx context.Context, _ struct{}, limit int, after string) ([]string, error) {
		return list(ctx, limit, after)
	}
	return &Reconciler{
		pager:    pagination.NewPager(fetch, func(id string) string { return id }),
		source:   source,
		setter:   setter,
		logger:   logger,
		fields:   []Field{TotalComment, TotalReaction},
		pageSize: pageSize,
	}
}

// Run reconciles every counter of every parent.
// Per-parent failures are logged and counted; listing failures abort the pass.
func (r *Reconciler) Run(ctx context.Context) (Result, error) {
	var res Result

	err := pagination.Drain(ctx, r.pager, struct{}{}, r.pageSize, func(parentID string) error {
		res.Scanned++
		for _, field := range r.fields {
			if err := ctx.Err(); err != nil {
				return err
			}
			changed, err := r.reconcileOne(ctx, parentID, field)
			if err != nil {
				res.Failed++
				r.logger.Warn("failed to reconcile counter",
					"error", err,
					"parent_id", parentID,
					"field", string(field))
				continue
			}
			if changed {
				res.Corrected++
			}
		}
		return nil
	})
	if err != nil {
		return res, fmt.Errorf("reconciliation aborted after %d parents: %w", res.Scanned, err)
	}

	r.logger.Info("counter reconciliation complete",
		"scanned", res.Scanned,
		"corrected", res.Corrected,
		"failed", res.Failed)
	return res, nil
}

func (r *Reconciler) reconcileOne(ctx context.Context, parentID string, field Field) (bool, error) {
	live, err := r.source.LiveCount(ctx, parentID, field)
	if err != nil {
		return false, fmt.Errorf("failed to count %s: %w", field, err)
	}
	changed, err := r.setter.SetCounter(ctx, parentID, field, live)
	if err != nil {
		return false, fmt.Errorf("failed to set %s: %w", field, err)
	}
	if changed {
		r.logger.Info("counter drift corrected",
			"parent_id", parentID,
			"field", string(field),
			"value", live)
	}
	return changed, nil
}
