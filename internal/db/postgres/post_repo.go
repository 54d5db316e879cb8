package postgres

import (
	"Inkwell/internal/core/content"
	"Inkwell/internal/core/counters"
	"Inkwell/internal/core/slugs"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

type postgresPostRepo struct {
	db *sql.DB
}

// NewPostRepository creates a new PostgreSQL post repository
func NewPostRepository(db *sql.DB) content.PostRepository {
	return &postgresPostRepo{db: db}
}

const postColumns = `
	id, author_id, title, slug, short_description, description, cover_image,
	publish_at, topic_ids, total_comment, total_reaction, created_at, updated_at
`

// postListColumns omits the body, which list views never render
const postListColumns = `
	id, author_id, title, slug, short_description, NULL::jsonb, cover_image,
	publish_at, topic_ids, total_comment, total_reaction, created_at, updated_at
`

// Create inserts a post. The caller supplies the id and a placeholder slug.
func (r *postgresPostRepo) Create(ctx context.Context, post *content.Post) error {
	description, err := jsonbParam(post.Description)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO posts (
			id, author_id, title, slug, short_description, description, cover_image,
			publish_at, topic_ids, total_comment, total_reaction, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			$8, $9, $10, $11, $12, $13
		)
	`

	_, err = r.db.ExecContext(ctx, query,
		post.ID, post.AuthorID, post.Title, post.Slug, post.ShortDescription, description, post.CoverImage,
		post.PublishAt, pq.Array(nonNil(post.TopicIDs)), post.TotalComment, post.TotalReaction, post.CreatedAt, post.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "unique_post_slug") {
			return slugs.ErrTaken
		}
		return fmt.Errorf("failed to insert post: %w", err)
	}
	return nil
}

// SetSlug commits slug through the unique_post_slug constraint
func (r *postgresPostRepo) SetSlug(ctx context.Context, id, slug string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE posts SET slug = $2 WHERE id = $1`, id, slug)
	if err != nil {
		if isUniqueViolation(err, "unique_post_slug") {
			return slugs.ErrTaken
		}
		return fmt.Errorf("failed to set post slug: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check set slug result: %w", err)
	}
	if rows == 0 {
		return content.ErrPostNotFound
	}
	return nil
}

// GetByID retrieves a post by id
func (r *postgresPostRepo) GetByID(ctx context.Context, id string) (*content.Post, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
	post, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, content.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post by id: %w", err)
	}
	return post, nil
}

// GetBySlug retrieves a post by slug
func (r *postgresPostRepo) GetBySlug(ctx context.Context, slug string) (*content.Post, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE slug = $1`, slug)
	post, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, content.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post by slug: %w", err)
	}
	return post, nil
}

// Update writes the mutable fields. Slug and counters are never touched here.
func (r *postgresPostRepo) Update(ctx context.Context, post *content.Post) error {
	description, err := jsonbParam(post.Description)
	if err != nil {
		return err
	}

	query := `
		UPDATE posts
		SET title = $3,
			short_description = $4,
			description = $5,
			cover_image = $6,
			publish_at = $7,
			topic_ids = $8,
			updated_at = $9
		WHERE id = $1 AND author_id = $2
	`

	result, err := r.db.ExecContext(ctx, query,
		post.ID, post.AuthorID,
		post.Title, post.ShortDescription, description, post.CoverImage,
		post.PublishAt, pq.Array(nonNil(post.TopicIDs)), post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return content.ErrPostNotFound
	}
	return nil
}

// Delete removes a post. Deleting a missing post succeeds.
func (r *postgresPostRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}

// List returns posts matching filter, newest first, strictly before after
func (r *postgresPostRepo) List(ctx context.Context, f content.PostFilter, limit int, after string) ([]*content.Post, error) {
	var (
		conds []string
		args  []any
	)
	where := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.PublishedOnly {
		where("publish_at IS NOT NULL AND publish_at <= $%d", f.Now)
	}
	if f.AuthorID != "" {
		where("author_id = $%d", f.AuthorID)
	}
	if len(f.TopicIDs) > 0 {
		where("topic_ids && $%d::text[]", pq.Array(f.TopicIDs))
	}
	if f.Query != "" {
		where("to_tsvector('english', title || ' ' || COALESCE(short_description, '')) @@ plainto_tsquery('english', $%d)", f.Query)
	}
	if after != "" {
		where("id < $%d", after)
	}

	query := `SELECT ` + postListColumns + ` FROM posts`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	args = append(args, limit)
	query += fmt.Sprintf(` ORDER BY id DESC LIMIT $%d`, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := []*content.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		result = append(result, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posts: %w", err)
	}
	return result, nil
}

// ListIDs pages every post id newest first
func (r *postgresPostRepo) ListIDs(ctx context.Context, limit int, after string) ([]string, error) {
	query := `
		SELECT id FROM posts
		WHERE ($1 = '' OR id < $1)
		ORDER BY id DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, after, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list post ids: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan post id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// IncrementCounter adds delta to a counter column in one statement, flooring at zero
func (r *postgresPostRepo) IncrementCounter(ctx context.Context, id string, field counters.Field, delta int) error {
	column, err := counterColumn(field)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`UPDATE posts SET %[1]s = GREATEST(%[1]s + $2, 0) WHERE id = $1`, column)
	result, err := r.db.ExecContext(ctx, query, id, delta)
	if err != nil {
		return fmt.Errorf("failed to increment %s: %w", column, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check increment result: %w", err)
	}
	if rows == 0 {
		return content.ErrPostNotFound
	}
	return nil
}

// SetCounter overwrites a counter if it differs and reports whether it changed
func (r *postgresPostRepo) SetCounter(ctx context.Context, id string, field counters.Field, value int) (bool, error) {
	column, err := counterColumn(field)
	if err != nil {
		return false, err
	}

	query := fmt.Sprintf(`UPDATE posts SET %[1]s = $2 WHERE id = $1 AND %[1]s IS DISTINCT FROM $2`, column)
	result, err := r.db.ExecContext(ctx, query, id, value)
	if err != nil {
		return false, fmt.Errorf("failed to set %s: %w", column, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check set result: %w", err)
	}
	return rows > 0, nil
}

// counterColumn whitelists counter fields before they are spliced into SQL
func counterColumn(field counters.Field) (string, error) {
	switch field {
	case counters.TotalComment:
		return "total_comment", nil
	case counters.TotalReaction:
		return "total_reaction", nil
	}
	return "", fmt.Errorf("unknown counter field %q", field)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*content.Post, error) {
	var (
		post             content.Post
		shortDescription sql.NullString
		coverImage       sql.NullString
		publishAt        sql.NullTime
		description      []byte
		topicIDs         pq.StringArray
	)

	err := row.Scan(
		&post.ID, &post.AuthorID, &post.Title, &post.Slug,
		&shortDescription, &description, &coverImage,
		&publishAt, &topicIDs, &post.TotalComment, &post.TotalReaction,
		&post.CreatedAt, &post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if shortDescription.Valid {
		post.ShortDescription = &shortDescription.String
	}
	if coverImage.Valid {
		post.CoverImage = &coverImage.String
	}
	if publishAt.Valid {
		t := publishAt.Time.UTC()
		post.PublishAt = &t
	}
	if len(description) > 0 {
		if err := json.Unmarshal(description, &post.Description); err != nil {
			return nil, fmt.Errorf("failed to decode post description: %w", err)
		}
	}
	post.TopicIDs = nonNil([]string(topicIDs))
	return &post, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
