// Package mongostore implements the content repositories on MongoDB.
// Replies are embedded in comment documents and reactions are one document
// per post, so every bounded mutation is a single-document update.
package mongostore

import (
	"Inkwell/internal/core/content"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names
const (
	PostCollection     = "posts"
	TopicCollection    = "topics"
	CommentCollection  = "comments"
	ReactionCollection = "reactions"
)

// Connect opens a client, verifies it with a ping and returns the named database
func Connect(ctx context.Context, uri, database string) (*mongo.Client, *mongo.Database, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	return client, client.Database(database), nil
}

// NewRepositories wires every content repository to one database
func NewRepositories(db *mongo.Database) content.Repositories {
	return content.Repositories{
		Posts:     NewPostRepository(db),
		Topics:    NewTopicRepository(db),
		Comments:  NewCommentRepository(db),
		Replies:   NewReplyRepository(db),
		Reactions: NewReactionRepository(db),
	}
}

// EnsureIndexes creates the unique and query indexes the repositories rely on.
// Slug and name uniqueness is enforced here, not in application code.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	desc := bson.D{{Key: "_id", Value: -1}}
	indexes := map[string][]mongo.IndexModel{
		PostCollection: {
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true).SetName("unique_post_slug")},
			{Keys: append(bson.D{{Key: "author_id", Value: 1}}, desc...), Options: options.Index().SetName("idx_posts_author")},
			{Keys: bson.D{{Key: "topic_ids", Value: 1}}, Options: options.Index().SetName("idx_posts_topic_ids")},
			{Keys: bson.D{{Key: "title", Value: "text"}, {Key: "short_description", Value: "text"}}, Options: options.Index().SetName("idx_posts_search")},
		},
		TopicCollection: {
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true).SetName("unique_topic_name")},
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true).SetName("unique_topic_slug")},
			{Keys: bson.D{{Key: "name", Value: "text"}}, Options: options.Index().SetName("idx_topics_search")},
		},
		CommentCollection: {
			{Keys: append(bson.D{{Key: "post_id", Value: 1}}, desc...), Options: options.Index().SetName("idx_comments_post")},
		},
		ReactionCollection: {
			{Keys: bson.D{{Key: "post_id", Value: 1}}, Options: options.Index().SetUnique(true).SetName("unique_reaction_post")},
		},
	}

	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", name, err)
		}
	}
	return nil
}

// isDuplicateKey reports whether err violates the named unique index.
// An empty index matches any duplicate key error.
func isDuplicateKey(err error, index string) bool {
	if !mongo.IsDuplicateKeyError(err) {
		return false
	}
	return index == "" || strings.Contains(err.Error(), index)
}

func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// pageFilter adds the keyset cursor to filter
func pageFilter(filter bson.M, after string) bson.M {
	if after != "" {
		filter["_id"] = bson.M{"$lt": after}
	}
	return filter
}

// pageOptions sorts newest first and bounds the page
func pageOptions(limit int) *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "_id", Value: -1}}).SetLimit(int64(limit))
}

// decodeAll drains cursor into a non-nil slice
func decodeAll[T any](ctx context.Context, cursor *mongo.Cursor) ([]*T, error) {
	defer func() { _ = cursor.Close(ctx) }()

	result := []*T{}
	for cursor.Next(ctx) {
		var v T
		if err := cursor.Decode(&v); err != nil {
			return nil, err
		}
		result = append(result, &v)
	}
	return result, cursor.Err()
}
