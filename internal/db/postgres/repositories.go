package postgres

import (
	"Inkwell/internal/core/content"
	"Inkwell/internal/db/migrations"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

// NewRepositories wires every content repository to one connection pool
func NewRepositories(db *sql.DB) content.Repositories {
	return content.Repositories{
		Posts:     NewPostRepository(db),
		Topics:    NewTopicRepository(db),
		Comments:  NewCommentRepository(db),
		Replies:   NewReplyRepository(db),
		Reactions: NewReactionRepository(db),
	}
}

// Migrate applies the embedded goose migrations
func Migrate(db *sql.DB) error {
	goose.SetBaseFS(migrations.FS)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
