package mongostore

import (
	"Inkwell/internal/core/content"
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type mongoCommentRepo struct {
	coll *mongo.Collection
}

// NewCommentRepository creates a new MongoDB comment repository
func NewCommentRepository(db *mongo.Database) content.CommentRepository {
	return &mongoCommentRepo{coll: db.Collection(CommentCollection)}
}

func (r *mongoCommentRepo) Create(ctx context.Context, comment *content.Comment) error {
	if comment.Replies == nil {
		comment.Replies = []content.Reply{}
	}
	if _, err := r.coll.InsertOne(ctx, comment); err != nil {
		return fmt.Errorf("failed to insert comment: %w", err)
	}
	return nil
}

func (r *mongoCommentRepo) GetByID(ctx context.Context, id, postID string) (*content.Comment, error) {
	var comment content.Comment
	err := r.coll.FindOne(ctx, bson.M{"_id": id, "post_id": postID}).Decode(&comment)
	if err != nil {
		if isNoDocuments(err) {
			return nil, content.ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	if comment.Replies == nil {
		comment.Replies = []content.Reply{}
	}
	return &comment, nil
}

func (r *mongoCommentRepo) UpdateDescription(ctx context.Context, id, postID, userID, description string, updatedAt time.Time) (int64, error) {
	result, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "post_id": postID, "user_id": userID},
		bson.M{"$set": bson.M{"description": description, "updated_at": updatedAt}},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update comment: %w", err)
	}
	return result.MatchedCount, nil
}

func (r *mongoCommentRepo) Delete(ctx context.Context, id, postID, userID string) (int64, error) {
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id, "post_id": postID, "user_id": userID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete comment: %w", err)
	}
	return result.DeletedCount, nil
}

func (r *mongoCommentRepo) ListByPost(ctx context.Context, postID string, limit int, after string) ([]*content.Comment, error) {
	cursor, err := r.coll.Find(ctx, pageFilter(bson.M{"post_id": postID}, after), pageOptions(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	comments, err := decodeAll[content.Comment](ctx, cursor)
	if err != nil {
		return nil, fmt.Errorf("failed to decode comments: %w", err)
	}
	for _, c := range comments {
		if c.Replies == nil {
			c.Replies = []content.Reply{}
		}
	}
	return comments, nil
}

func (r *mongoCommentRepo) DeleteByPost(ctx context.Context, postID string) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{"post_id": postID}); err != nil {
		return fmt.Errorf("failed to delete post comments: %w", err)
	}
	return nil
}

func (r *mongoCommentRepo) CountByPost(ctx context.Context, postID string) (int, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"post_id": postID})
	if err != nil {
		return 0, fmt.Errorf("failed to count comments: %w", err)
	}
	return int(n), nil
}
