package mongostore

import (
	"Inkwell/internal/core/content"
	"Inkwell/internal/core/counters"
	"Inkwell/internal/core/slugs"
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoPostRepo struct {
	coll *mongo.Collection
}

// NewPostRepository creates a new MongoDB post repository
func NewPostRepository(db *mongo.Database) content.PostRepository {
	return &mongoPostRepo{coll: db.Collection(PostCollection)}
}

func (r *mongoPostRepo) Create(ctx context.Context, post *content.Post) error {
	if post.TopicIDs == nil {
		post.TopicIDs = []string{}
	}
	if _, err := r.coll.InsertOne(ctx, post); err != nil {
		if isDuplicateKey(err, "unique_post_slug") {
			return slugs.ErrTaken
		}
		return fmt.Errorf("failed to insert post: %w", err)
	}
	return nil
}

// SetSlug commits slug through the unique_post_slug index
func (r *mongoPostRepo) SetSlug(ctx context.Context, id, slug string) error {
	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"slug": slug}})
	if err != nil {
		if isDuplicateKey(err, "unique_post_slug") {
			return slugs.ErrTaken
		}
		return fmt.Errorf("failed to set post slug: %w", err)
	}
	if result.MatchedCount == 0 {
		return content.ErrPostNotFound
	}
	return nil
}

func (r *mongoPostRepo) GetByID(ctx context.Context, id string) (*content.Post, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoPostRepo) GetBySlug(ctx context.Context, slug string) (*content.Post, error) {
	return r.findOne(ctx, bson.M{"slug": slug})
}

func (r *mongoPostRepo) findOne(ctx context.Context, filter bson.M) (*content.Post, error) {
	var post content.Post
	if err := r.coll.FindOne(ctx, filter).Decode(&post); err != nil {
		if isNoDocuments(err) {
			return nil, content.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return &post, nil
}

// Update writes the mutable fields, matching on id and author
func (r *mongoPostRepo) Update(ctx context.Context, post *content.Post) error {
	topicIDs := post.TopicIDs
	if topicIDs == nil {
		topicIDs = []string{}
	}
	update := bson.M{"$set": bson.M{
		"title":             post.Title,
		"short_description": post.ShortDescription,
		"description":       post.Description,
		"cover_image":       post.CoverImage,
		"publish_at":        post.PublishAt,
		"topic_ids":         topicIDs,
		"updated_at":        post.UpdatedAt,
	}}

	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": post.ID, "author_id": post.AuthorID}, update)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	if result.MatchedCount == 0 {
		return content.ErrPostNotFound
	}
	return nil
}

func (r *mongoPostRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}

// List returns posts matching filter, newest first, without their body
func (r *mongoPostRepo) List(ctx context.Context, f content.PostFilter, limit int, after string) ([]*content.Post, error) {
	filter := bson.M{}
	if f.PublishedOnly {
		filter["publish_at"] = bson.M{"$ne": nil, "$lte": f.Now}
	}
	if f.AuthorID != "" {
		filter["author_id"] = f.AuthorID
	}
	if len(f.TopicIDs) > 0 {
		filter["topic_ids"] = bson.M{"$in": f.TopicIDs}
	}
	if f.Query != "" {
		filter["$text"] = bson.M{"$search": f.Query}
	}

	opts := pageOptions(limit).SetProjection(bson.M{"description": 0})
	cursor, err := r.coll.Find(ctx, pageFilter(filter, after), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	posts, err := decodeAll[content.Post](ctx, cursor)
	if err != nil {
		return nil, fmt.Errorf("failed to decode posts: %w", err)
	}
	return posts, nil
}

func (r *mongoPostRepo) ListIDs(ctx context.Context, limit int, after string) ([]string, error) {
	opts := pageOptions(limit).SetProjection(bson.M{"_id": 1})
	cursor, err := r.coll.Find(ctx, pageFilter(bson.M{}, after), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list post ids: %w", err)
	}
	defer func() { _ = cursor.Close(ctx) }()

	var ids []string
	for cursor.Next(ctx) {
		var doc struct {
			ID string `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode post id: %w", err)
		}
		ids = append(ids, doc.ID)
	}
	return ids, cursor.Err()
}

// IncrementCounter applies delta with a pipeline update that floors the result at zero
func (r *mongoPostRepo) IncrementCounter(ctx context.Context, id string, field counters.Field, delta int) error {
	if !field.Valid() {
		return fmt.Errorf("unknown counter field %q", field)
	}
	name := string(field)
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			name: bson.M{"$max": bson.A{bson.M{"$add": bson.A{bson.M{"$ifNull": bson.A{"$" + name, 0}}, delta}}, 0}},
		}}},
	}

	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, pipeline)
	if err != nil {
		return fmt.Errorf("failed to increment %s: %w", name, err)
	}
	if result.MatchedCount == 0 {
		return content.ErrPostNotFound
	}
	return nil
}

func (r *mongoPostRepo) SetCounter(ctx context.Context, id string, field counters.Field, value int) (bool, error) {
	if !field.Valid() {
		return false, fmt.Errorf("unknown counter field %q", field)
	}
	name := string(field)
	result, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, name: bson.M{"$ne": value}},
		bson.M{"$set": bson.M{name: value}},
		options.Update().SetUpsert(false),
	)
	if err != nil {
		return false, fmt.Errorf("failed to set %s: %w", name, err)
	}
	return result.ModifiedCount > 0, nil
}
