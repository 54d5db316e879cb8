package postgres

import (
	"Inkwell/internal/core/content"
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type postgresReactionRepo struct {
	db *sql.DB
}

// NewReactionRepository creates a new PostgreSQL reaction repository
func NewReactionRepository(db *sql.DB) content.ReactionRepository {
	return &postgresReactionRepo{db: db}
}

// AddMember adds userID to the post's reaction set in a single upsert.
// The ON CONFLICT predicate is evaluated against the locked row, so the
// membership and capacity checks cannot race with concurrent adds.
func (r *postgresReactionRepo) AddMember(ctx context.Context, postID, userID string, capacity int) (bool, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return false, fmt.Errorf("failed to generate reaction id: %w", err)
	}

	query := `
		INSERT INTO reactions (id, post_id, user_ids)
		VALUES ($1, $2, ARRAY[$3::text])
		ON CONFLICT (post_id) DO UPDATE
		SET user_ids = array_append(reactions.user_ids, $3::text)
		WHERE NOT ($3::text = ANY(reactions.user_ids))
		  AND cardinality(reactions.user_ids) < $4
	`
	result, err := r.db.ExecContext(ctx, query, id.String(), postID, userID, capacity)
	if err != nil {
		return false, fmt.Errorf("failed to add reaction: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check add result: %w", err)
	}
	return rows > 0, nil
}

// RemoveMember pulls userID from the post's reaction set
func (r *postgresReactionRepo) RemoveMember(ctx context.Context, postID, userID string) (bool, error) {
	query := `
		UPDATE reactions
		SET user_ids = array_remove(user_ids, $2::text)
		WHERE post_id = $1 AND $2::text = ANY(user_ids)
	`
	result, err := r.db.ExecContext(ctx, query, postID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to remove reaction: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check remove result: %w", err)
	}
	return rows > 0, nil
}

// IsMember reports whether userID has reacted to the post
func (r *postgresReactionRepo) IsMember(ctx context.Context, postID, userID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM reactions WHERE post_id = $1 AND $2::text = ANY(user_ids))`
	if err := r.db.QueryRowContext(ctx, query, postID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check reaction: %w", err)
	}
	return exists, nil
}

// GetByPost returns the reaction set of a post
func (r *postgresReactionRepo) GetByPost(ctx context.Context, postID string) (*content.Reaction, error) {
	var (
		reaction content.Reaction
		userIDs  pq.StringArray
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, post_id, user_ids FROM reactions WHERE post_id = $1`, postID,
	).Scan(&reaction.ID, &reaction.PostID, &userIDs)
	if err == sql.ErrNoRows {
		return nil, content.ErrReactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reactions: %w", err)
	}
	reaction.UserIDs = nonNil([]string(userIDs))
	return &reaction, nil
}

// DeleteByPost removes the reaction set of a post
func (r *postgresReactionRepo) DeleteByPost(ctx context.Context, postID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM reactions WHERE post_id = $1`, postID); err != nil {
		return fmt.Errorf("failed to delete post reactions: %w", err)
	}
	return nil
}

// Count returns the live number of reactions on a post
func (r *postgresReactionRepo) Count(ctx context.Context, postID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE((SELECT cardinality(user_ids) FROM reactions WHERE post_id = $1), 0)`, postID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count reactions: %w", err)
	}
	return count, nil
}
