package postgres

import (
	"Inkwell/internal/core/content"
	"Inkwell/internal/core/subdocs"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

type postgresReplyRepo struct {
	db *sql.DB
}

// NewReplyRepository creates a reply store over the comments.replies JSONB array.
// Each method is a single statement on one comment row.
func NewReplyRepository(db *sql.DB) content.ReplyStore {
	return &postgresReplyRepo{db: db}
}

// commentMatch builds the WHERE clause selecting the parent comment.
// Further arguments are appended after the returned ones.
func commentMatch(parentID string, scope subdocs.Scope) (string, []any, error) {
	cond := "id = $1"
	args := []any{parentID}
	for key, value := range scope {
		if key != subdocs.ScopePostID {
			return "", nil, fmt.Errorf("unsupported reply scope key %q", key)
		}
		args = append(args, value)
		cond += fmt.Sprintf(" AND post_id = $%d", len(args))
	}
	return cond, args, nil
}

// Len returns the number of replies on a comment
func (r *postgresReplyRepo) Len(ctx context.Context, parentID string, scope subdocs.Scope) (int, error) {
	cond, args, err := commentMatch(parentID, scope)
	if err != nil {
		return 0, err
	}

	var n int
	err = r.db.QueryRowContext(ctx, `SELECT jsonb_array_length(replies) FROM comments WHERE `+cond, args...).Scan(&n)
	if err == sql.ErrNoRows {
		return 0, subdocs.ErrParentNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to count replies: %w", err)
	}
	return n, nil
}

// Push appends a reply to the comment's array
func (r *postgresReplyRepo) Push(ctx context.Context, parentID string, scope subdocs.Scope, item content.Reply) (bool, error) {
	cond, args, err := commentMatch(parentID, scope)
	if err != nil {
		return false, err
	}
	encoded, err := json.Marshal(item)
	if err != nil {
		return false, fmt.Errorf("failed to encode reply: %w", err)
	}

	args = append(args, string(encoded))
	query := fmt.Sprintf(`
		UPDATE comments
		SET replies = replies || jsonb_build_array($%d::jsonb)
		WHERE %s
	`, len(args), cond)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to push reply: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check push result: %w", err)
	}
	return rows > 0, nil
}

// UpdateMatching merges patch into the reply matching both id and owner,
// preserving the order of the array. It returns the number of array elements
// patched, not rows. Reply ids are unique within a comment, which is what keeps
// this to one element; the count lets the caller detect when that does not hold.
func (r *postgresReplyRepo) UpdateMatching(ctx context.Context, parentID string, scope subdocs.Scope, m subdocs.Match, patch content.ReplyPatch) (int64, error) {
	cond, args, err := commentMatch(parentID, scope)
	if err != nil {
		return 0, err
	}
	encoded, err := json.Marshal(patch)
	if err != nil {
		return 0, fmt.Errorf("failed to encode reply patch: %w", err)
	}

	args = append(args, m.ItemID, m.OwnerID, string(encoded))
	itemArg, ownerArg, patchArg := len(args)-2, len(args)-1, len(args)
	query := fmt.Sprintf(`
		UPDATE comments c
		SET replies = (
			SELECT jsonb_agg(
				CASE WHEN e.r->>'id' = $%[1]d AND e.r->>'user_id' = $%[2]d
					THEN e.r || $%[3]d::jsonb
					ELSE e.r
				END
				ORDER BY e.ord
			)
			FROM jsonb_array_elements(c.replies) WITH ORDINALITY AS e(r, ord)
		)
		WHERE %[4]s
		  AND c.replies @> jsonb_build_array(jsonb_build_object('id', $%[1]d::text, 'user_id', $%[2]d::text))
		RETURNING (
			SELECT count(*)
			FROM jsonb_array_elements(c.replies) AS e(r)
			WHERE e.r->>'id' = $%[1]d AND e.r->>'user_id' = $%[2]d
		)
	`, itemArg, ownerArg, patchArg, cond)

	var n int64
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&n)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to update reply: %w", err)
	}
	return n, nil
}

// RemoveMatching drops the reply matching both id and owner and returns the
// number of array elements removed. The row is locked while they are counted.
func (r *postgresReplyRepo) RemoveMatching(ctx context.Context, parentID string, scope subdocs.Scope, m subdocs.Match) (int64, error) {
	cond, args, err := commentMatch(parentID, scope)
	if err != nil {
		return 0, err
	}

	args = append(args, m.ItemID, m.OwnerID)
	itemArg, ownerArg := len(args)-1, len(args)
	query := fmt.Sprintf(`
		WITH target AS (
			SELECT c.id, (
				SELECT count(*)
				FROM jsonb_array_elements(c.replies) AS e(r)
				WHERE e.r->>'id' = $%[1]d AND e.r->>'user_id' = $%[2]d
			) AS removed
			FROM comments c
			WHERE %[3]s
			  AND c.replies @> jsonb_build_array(jsonb_build_object('id', $%[1]d::text, 'user_id', $%[2]d::text))
			FOR UPDATE
		)
		UPDATE comments c
		SET replies = COALESCE((
			SELECT jsonb_agg(e.r ORDER BY e.ord)
			FROM jsonb_array_elements(c.replies) WITH ORDINALITY AS e(r, ord)
			WHERE NOT (e.r->>'id' = $%[1]d AND e.r->>'user_id' = $%[2]d)
		), '[]'::jsonb)
		FROM target
		WHERE c.id = target.id
		RETURNING target.removed
	`, itemArg, ownerArg, cond)

	var n int64
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&n)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to remove reply: %w", err)
	}
	return n, nil
}

// Owner returns the user id of a reply
func (r *postgresReplyRepo) Owner(ctx context.Context, parentID string, scope subdocs.Scope, itemID string) (string, error) {
	cond, args, err := commentMatch(parentID, scope)
	if err != nil {
		return "", err
	}

	args = append(args, itemID)
	query := fmt.Sprintf(`
		SELECT (
			SELECT e.r->>'user_id'
			FROM jsonb_array_elements(c.replies) AS e(r)
			WHERE e.r->>'id' = $%d
			LIMIT 1
		)
		FROM comments c
		WHERE %s
	`, len(args), cond)

	var owner sql.NullString
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&owner)
	if err == sql.ErrNoRows {
		return "", subdocs.ErrParentNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up reply owner: %w", err)
	}
	if !owner.Valid {
		return "", subdocs.ErrItemNotFound
	}
	return owner.String, nil
}
