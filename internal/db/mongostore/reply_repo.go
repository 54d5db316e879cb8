package mongostore

import (
	"Inkwell/internal/core/content"
	"Inkwell/internal/core/subdocs"
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoReplyRepo struct {
	coll *mongo.Collection
}

// NewReplyRepository creates a reply store over the embedded comments.replies array
func NewReplyRepository(db *mongo.Database) content.ReplyStore {
	return &mongoReplyRepo{coll: db.Collection(CommentCollection)}
}

func commentFilter(parentID string, scope subdocs.Scope) (bson.M, error) {
	filter := bson.M{"_id": parentID}
	for key, value := range scope {
		if key != subdocs.ScopePostID {
			return nil, fmt.Errorf("unsupported reply scope key %q", key)
		}
		filter["post_id"] = value
	}
	return filter, nil
}

func ownedReply(m subdocs.Match) bson.M {
	return bson.M{"$elemMatch": bson.M{"id": m.ItemID, "user_id": m.OwnerID}}
}

func (r *mongoReplyRepo) Len(ctx context.Context, parentID string, scope subdocs.Scope) (int, error) {
	filter, err := commentFilter(parentID, scope)
	if err != nil {
		return 0, err
	}

	var doc struct {
		N int `bson:"n"`
	}
	opts := options.FindOne().SetProjection(bson.M{"n": bson.M{"$size": bson.M{"$ifNull": bson.A{"$replies", bson.A{}}}}})
	if err := r.coll.FindOne(ctx, filter, opts).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return 0, subdocs.ErrParentNotFound
		}
		return 0, fmt.Errorf("failed to count replies: %w", err)
	}
	return doc.N, nil
}

func (r *mongoReplyRepo) Push(ctx context.Context, parentID string, scope subdocs.Scope, item content.Reply) (bool, error) {
	filter, err := commentFilter(parentID, scope)
	if err != nil {
		return false, err
	}
	result, err := r.coll.UpdateOne(ctx, filter, bson.M{"$push": bson.M{"replies": item}})
	if err != nil {
		return false, fmt.Errorf("failed to push reply: %w", err)
	}
	return result.MatchedCount > 0, nil
}

// UpdateMatching patches the reply through the positional operator.
// The $elemMatch filter ties the match to both id and owner.
func (r *mongoReplyRepo) UpdateMatching(ctx context.Context, parentID string, scope subdocs.Scope, m subdocs.Match, patch content.ReplyPatch) (int64, error) {
	filter, err := commentFilter(parentID, scope)
	if err != nil {
		return 0, err
	}
	filter["replies"] = ownedReply(m)

	update := bson.M{"$set": bson.M{
		"replies.$.description": patch.Description,
		"replies.$.updated_at":  patch.UpdatedAt,
	}}
	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to update reply: %w", err)
	}
	return result.MatchedCount, nil
}

func (r *mongoReplyRepo) RemoveMatching(ctx context.Context, parentID string, scope subdocs.Scope, m subdocs.Match) (int64, error) {
	filter, err := commentFilter(parentID, scope)
	if err != nil {
		return 0, err
	}
	filter["replies"] = ownedReply(m)

	update := bson.M{"$pull": bson.M{"replies": bson.M{"id": m.ItemID, "user_id": m.OwnerID}}}
	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to remove reply: %w", err)
	}
	return result.ModifiedCount, nil
}

func (r *mongoReplyRepo) Owner(ctx context.Context, parentID string, scope subdocs.Scope, itemID string) (string, error) {
	filter, err := commentFilter(parentID, scope)
	if err != nil {
		return "", err
	}

	var doc struct {
		Replies []content.Reply `bson:"replies"`
	}
	opts := options.FindOne().SetProjection(bson.M{"replies": bson.M{"$elemMatch": bson.M{"id": itemID}}})
	if err := r.coll.FindOne(ctx, filter, opts).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return "", subdocs.ErrParentNotFound
		}
		return "", fmt.Errorf("failed to look up reply owner: %w", err)
	}
	if len(doc.Replies) == 0 {
		return "", subdocs.ErrItemNotFound
	}
	return doc.Replies[0].UserID, nil
}
