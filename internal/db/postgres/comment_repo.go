package postgres

import (
	"Inkwell/internal/core/content"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

type postgresCommentRepo struct {
	db *sql.DB
}

// NewCommentRepository creates a new PostgreSQL comment repository
func NewCommentRepository(db *sql.DB) content.CommentRepository {
	return &postgresCommentRepo{db: db}
}

const commentColumns = `id, post_id, user_id, description, replies, created_at, updated_at`

// Create inserts a comment together with its (usually empty) reply array
func (r *postgresCommentRepo) Create(ctx context.Context, comment *content.Comment) error {
	replies := comment.Replies
	if replies == nil {
		replies = []content.Reply{}
	}
	repliesJSON, err := json.Marshal(replies)
	if err != nil {
		return fmt.Errorf("failed to encode replies: %w", err)
	}

	query := `
		INSERT INTO comments (id, post_id, user_id, description, replies, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = r.db.ExecContext(ctx, query,
		comment.ID, comment.PostID, comment.UserID, comment.Description,
		string(repliesJSON), comment.CreatedAt, comment.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert comment: %w", err)
	}
	return nil
}

// GetByID retrieves a comment scoped to its post
func (r *postgresCommentRepo) GetByID(ctx context.Context, id, postID string) (*content.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE id = $1 AND post_id = $2`
	comment, err := scanComment(r.db.QueryRowContext(ctx, query, id, postID))
	if err == sql.ErrNoRows {
		return nil, content.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return comment, nil
}

// UpdateDescription edits a comment only if id, post and owner all match
func (r *postgresCommentRepo) UpdateDescription(ctx context.Context, id, postID, userID, description string, updatedAt time.Time) (int64, error) {
	query := `
		UPDATE comments
		SET description = $4, updated_at = $5
		WHERE id = $1 AND post_id = $2 AND user_id = $3
	`
	result, err := r.db.ExecContext(ctx, query, id, postID, userID, description, updatedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to update comment: %w", err)
	}
	return result.RowsAffected()
}

// Delete removes a comment only if id, post and owner all match
func (r *postgresCommentRepo) Delete(ctx context.Context, id, postID, userID string) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM comments WHERE id = $1 AND post_id = $2 AND user_id = $3`,
		id, postID, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete comment: %w", err)
	}
	return result.RowsAffected()
}

// ListByPost pages a post's comments newest first
func (r *postgresCommentRepo) ListByPost(ctx context.Context, postID string, limit int, after string) ([]*content.Comment, error) {
	query := `
		SELECT ` + commentColumns + `
		FROM comments
		WHERE post_id = $1 AND ($2 = '' OR id < $2)
		ORDER BY id DESC
		LIMIT $3
	`
	rows, err := r.db.QueryContext(ctx, query, postID, after, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := []*content.Comment{}
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		result = append(result, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comments: %w", err)
	}
	return result, nil
}

// DeleteByPost removes every comment of a post
func (r *postgresCommentRepo) DeleteByPost(ctx context.Context, postID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE post_id = $1`, postID); err != nil {
		return fmt.Errorf("failed to delete post comments: %w", err)
	}
	return nil
}

// CountByPost returns the live number of comments on a post
func (r *postgresCommentRepo) CountByPost(ctx context.Context, postID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM comments WHERE post_id = $1`, postID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count comments: %w", err)
	}
	return count, nil
}

func scanComment(row rowScanner) (*content.Comment, error) {
	var (
		comment content.Comment
		replies []byte
	)
	err := row.Scan(
		&comment.ID, &comment.PostID, &comment.UserID, &comment.Description,
		&replies, &comment.CreatedAt, &comment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	comment.Replies = []content.Reply{}
	if len(replies) > 0 {
		if err := json.Unmarshal(replies, &comment.Replies); err != nil {
			return nil, fmt.Errorf("failed to decode replies: %w", err)
		}
	}
	return &comment, nil
}
