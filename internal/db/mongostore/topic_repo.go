package mongostore

import (
	"Inkwell/internal/core/content"
	"Inkwell/internal/core/slugs"
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoTopicRepo struct {
	coll *mongo.Collection
}

// NewTopicRepository creates a new MongoDB topic repository
func NewTopicRepository(db *mongo.Database) content.TopicRepository {
	return &mongoTopicRepo{coll: db.Collection(TopicCollection)}
}

// Create inserts a topic. A name collision means another creator won the race.
func (r *mongoTopicRepo) Create(ctx context.Context, topic *content.Topic) error {
	if _, err := r.coll.InsertOne(ctx, topic); err != nil {
		switch {
		case isDuplicateKey(err, "unique_topic_name"):
			return content.ErrTopicNameTaken
		case isDuplicateKey(err, "unique_topic_slug"):
			return slugs.ErrTaken
		}
		return fmt.Errorf("failed to insert topic: %w", err)
	}
	return nil
}

func (r *mongoTopicRepo) GetByName(ctx context.Context, name string) (*content.Topic, error) {
	return r.findOne(ctx, bson.M{"name": name})
}

func (r *mongoTopicRepo) GetBySlug(ctx context.Context, slug string) (*content.Topic, error) {
	return r.findOne(ctx, bson.M{"slug": slug})
}

func (r *mongoTopicRepo) GetByIDs(ctx context.Context, ids []string) ([]*content.Topic, error) {
	if len(ids) == 0 {
		return []*content.Topic{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
}

func (r *mongoTopicRepo) GetBySlugs(ctx context.Context, slugList []string) ([]*content.Topic, error) {
	if len(slugList) == 0 {
		return []*content.Topic{}, nil
	}
	return r.find(ctx, bson.M{"slug": bson.M{"$in": slugList}}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
}

func (r *mongoTopicRepo) List(ctx context.Context, f content.TopicFilter, limit int, after string) ([]*content.Topic, error) {
	filter := bson.M{}
	if f.Query != "" {
		filter["$text"] = bson.M{"$search": f.Query}
	}
	return r.find(ctx, pageFilter(filter, after), pageOptions(limit))
}

func (r *mongoTopicRepo) findOne(ctx context.Context, filter bson.M) (*content.Topic, error) {
	var topic content.Topic
	if err := r.coll.FindOne(ctx, filter).Decode(&topic); err != nil {
		if isNoDocuments(err) {
			return nil, content.ErrTopicNotFound
		}
		return nil, fmt.Errorf("failed to get topic: %w", err)
	}
	return &topic, nil
}

func (r *mongoTopicRepo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*content.Topic, error) {
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query topics: %w", err)
	}
	topics, err := decodeAll[content.Topic](ctx, cursor)
	if err != nil {
		return nil, fmt.Errorf("failed to decode topics: %w", err)
	}
	return topics, nil
}
