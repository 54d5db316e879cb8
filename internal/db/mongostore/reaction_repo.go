package mongostore

import (
	"Inkwell/internal/core/content"
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// addAttempts bounds the upsert retries when two first reactions race to create the document
const addAttempts = 2

type mongoReactionRepo struct {
	coll *mongo.Collection
}

// NewReactionRepository creates a new MongoDB reaction repository
func NewReactionRepository(db *mongo.Database) content.ReactionRepository {
	return &mongoReactionRepo{coll: db.Collection(ReactionCollection)}
}

// AddMember pushes userID when it is absent and the set has room, in one upsert.
// When the existing document fails the filter the upsert collides with
// unique_reaction_post, which means the set did not change.
func (r *mongoReactionRepo) AddMember(ctx context.Context, postID, userID string, capacity int) (bool, error) {
	filter := bson.M{
		"post_id":  postID,
		"user_ids": bson.M{"$ne": userID},
		fmt.Sprintf("user_ids.%d", capacity-1): bson.M{"$exists": false},
	}

	for attempt := 1; attempt <= addAttempts; attempt++ {
		id, err := uuid.NewV7()
		if err != nil {
			return false, fmt.Errorf("failed to generate reaction id: %w", err)
		}
		update := bson.M{
			"$push":        bson.M{"user_ids": userID},
			"$setOnInsert": bson.M{"_id": id.String()},
		}

		result, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
		if err == nil {
			return result.ModifiedCount > 0 || result.UpsertedCount > 0, nil
		}
		if !isDuplicateKey(err, "") {
			return false, fmt.Errorf("failed to add reaction: %w", err)
		}

		// The document exists: either a concurrent first add created it, or
		// this member is present or the set is full. Re-check before retrying.
		exists, err := r.coll.CountDocuments(ctx, bson.M{"post_id": postID})
		if err != nil {
			return false, fmt.Errorf("failed to check reaction document: %w", err)
		}
		if exists == 0 {
			return false, fmt.Errorf("failed to add reaction: unexpected duplicate key")
		}
	}
	return false, nil
}

func (r *mongoReactionRepo) RemoveMember(ctx context.Context, postID, userID string) (bool, error) {
	result, err := r.coll.UpdateOne(ctx,
		bson.M{"post_id": postID, "user_ids": userID},
		bson.M{"$pull": bson.M{"user_ids": userID}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to remove reaction: %w", err)
	}
	return result.ModifiedCount > 0, nil
}

func (r *mongoReactionRepo) IsMember(ctx context.Context, postID, userID string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"post_id": postID, "user_ids": userID}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check reaction: %w", err)
	}
	return n > 0, nil
}

func (r *mongoReactionRepo) GetByPost(ctx context.Context, postID string) (*content.Reaction, error) {
	var reaction content.Reaction
	if err := r.coll.FindOne(ctx, bson.M{"post_id": postID}).Decode(&reaction); err != nil {
		if isNoDocuments(err) {
			return nil, content.ErrReactionNotFound
		}
		return nil, fmt.Errorf("failed to get reactions: %w", err)
	}
	if reaction.UserIDs == nil {
		reaction.UserIDs = []string{}
	}
	return &reaction, nil
}

func (r *mongoReactionRepo) DeleteByPost(ctx context.Context, postID string) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{"post_id": postID}); err != nil {
		return fmt.Errorf("failed to delete post reactions: %w", err)
	}
	return nil
}

func (r *mongoReactionRepo) Count(ctx context.Context, postID string) (int, error) {
	var doc struct {
		N int `bson:"n"`
	}
	opts := options.FindOne().SetProjection(bson.M{"n": bson.M{"$size": bson.M{"$ifNull": bson.A{"$user_ids", bson.A{}}}}})
	if err := r.coll.FindOne(ctx, bson.M{"post_id": postID}, opts).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to count reactions: %w", err)
	}
	return doc.N, nil
}
