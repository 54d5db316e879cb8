package postgres

import (
	"Inkwell/internal/core/content"
	"Inkwell/internal/core/slugs"
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

type postgresTopicRepo struct {
	db *sql.DB
}

// NewTopicRepository creates a new PostgreSQL topic repository
func NewTopicRepository(db *sql.DB) content.TopicRepository {
	return &postgresTopicRepo{db: db}
}

const topicColumns = `id, name, slug, user_id, description, created_at`

// Create inserts a topic. The unique constraints decide races:
// unique_topic_name means another creator won, unique_topic_slug means try another slug.
func (r *postgresTopicRepo) Create(ctx context.Context, topic *content.Topic) error {
	query := `
		INSERT INTO topics (id, name, slug, user_id, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		topic.ID, topic.Name, topic.Slug, topic.UserID, topic.Description, topic.CreatedAt)
	if err != nil {
		switch {
		case isUniqueViolation(err, "unique_topic_name"):
			return content.ErrTopicNameTaken
		case isUniqueViolation(err, "unique_topic_slug"):
			return slugs.ErrTaken
		}
		return fmt.Errorf("failed to insert topic: %w", err)
	}
	return nil
}

// GetByName retrieves a topic by exact name
func (r *postgresTopicRepo) GetByName(ctx context.Context, name string) (*content.Topic, error) {
	return r.getOne(ctx, `SELECT `+topicColumns+` FROM topics WHERE name = $1`, name)
}

// GetBySlug retrieves a topic by slug
func (r *postgresTopicRepo) GetBySlug(ctx context.Context, slug string) (*content.Topic, error) {
	return r.getOne(ctx, `SELECT `+topicColumns+` FROM topics WHERE slug = $1`, slug)
}

// GetByIDs retrieves the topics with the given ids. Missing ids are skipped.
func (r *postgresTopicRepo) GetByIDs(ctx context.Context, ids []string) ([]*content.Topic, error) {
	if len(ids) == 0 {
		return []*content.Topic{}, nil
	}
	return r.getMany(ctx, `SELECT `+topicColumns+` FROM topics WHERE id = ANY($1) ORDER BY id`, pq.Array(ids))
}

// GetBySlugs retrieves the topics with the given slugs. Missing slugs are skipped.
func (r *postgresTopicRepo) GetBySlugs(ctx context.Context, slugList []string) ([]*content.Topic, error) {
	if len(slugList) == 0 {
		return []*content.Topic{}, nil
	}
	return r.getMany(ctx, `SELECT `+topicColumns+` FROM topics WHERE slug = ANY($1) ORDER BY id`, pq.Array(slugList))
}

// List pages topics newest first, optionally filtered by a text query on the name
func (r *postgresTopicRepo) List(ctx context.Context, f content.TopicFilter, limit int, after string) ([]*content.Topic, error) {
	query := `
		SELECT ` + topicColumns + `
		FROM topics
		WHERE ($1 = '' OR to_tsvector('english', name) @@ plainto_tsquery('english', $1))
		  AND ($2 = '' OR id < $2)
		ORDER BY id DESC
		LIMIT $3
	`
	return r.getMany(ctx, query, f.Query, after, limit)
}

func (r *postgresTopicRepo) getOne(ctx context.Context, query string, args ...any) (*content.Topic, error) {
	topic, err := scanTopic(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, content.ErrTopicNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get topic: %w", err)
	}
	return topic, nil
}

func (r *postgresTopicRepo) getMany(ctx context.Context, query string, args ...any) ([]*content.Topic, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query topics: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := []*content.Topic{}
	for rows.Next() {
		topic, err := scanTopic(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan topic: %w", err)
		}
		result = append(result, topic)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating topics: %w", err)
	}
	return result, nil
}

func scanTopic(row rowScanner) (*content.Topic, error) {
	var (
		topic       content.Topic
		userID      sql.NullString
		description sql.NullString
	)
	if err := row.Scan(&topic.ID, &topic.Name, &topic.Slug, &userID, &description, &topic.CreatedAt); err != nil {
		return nil, err
	}
	if userID.Valid {
		topic.UserID = &userID.String
	}
	if description.Valid {
		topic.Description = &description.String
	}
	return &topic, nil
}
