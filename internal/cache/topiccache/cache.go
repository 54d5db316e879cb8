// Package topiccache is a Redis read-through cache in front of a TopicRepository.
// Topics never change after creation, so entries are only written, never invalidated.
package topiccache

import (
	"Inkwell/internal/core/content"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL bounds how long a cached topic lives
const DefaultTTL = 30 * time.Minute

const (
	nameKeyPrefix = "topic:name:"
	slugKeyPrefix = "topic:slug:"
)

type cachedRepo struct {
	content.TopicRepository
	rdb    *redis.Client
	logger *slog.Logger
	ttl    time.Duration
}

// New wraps repo with a cache on rdb. Redis failures fall through to repo.
func New(repo content.TopicRepository, rdb *redis.Client, ttl time.Duration, logger *slog.Logger) content.TopicRepository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &cachedRepo{TopicRepository: repo, rdb: rdb, ttl: ttl, logger: logger}
}

// Create stores the topic and caches it once the store accepted it
func (c *cachedRepo) Create(ctx context.Context, topic *content.Topic) error {
	if err := c.TopicRepository.Create(ctx, topic); err != nil {
		return err
	}
	c.store(ctx, topic)
	return nil
}

func (c *cachedRepo) GetByName(ctx context.Context, name string) (*content.Topic, error) {
	return c.readThrough(ctx, nameKeyPrefix+name, func() (*content.Topic, error) {
		return c.TopicRepository.GetByName(ctx, name)
	})
}

func (c *cachedRepo) GetBySlug(ctx context.Context, slug string) (*content.Topic, error) {
	return c.readThrough(ctx, slugKeyPrefix+slug, func() (*content.Topic, error) {
		return c.TopicRepository.GetBySlug(ctx, slug)
	})
}

// readThrough serves key from Redis, loading and caching it on a miss.
// Not-found results are never cached; the topic may be created a moment later.
func (c *cachedRepo) readThrough(ctx context.Context, key string, load func() (*content.Topic, error)) (*content.Topic, error) {
	if topic, ok := c.lookup(ctx, key); ok {
		return topic, nil
	}

	topic, err := load()
	if err != nil {
		return nil, err
	}
	c.store(ctx, topic)
	return topic, nil
}

func (c *cachedRepo) lookup(ctx context.Context, key string) (*content.Topic, bool) {
	value, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("[TOPIC-CACHE] read failed", "key", key, "error", err)
		}
		return nil, false
	}

	var topic content.Topic
	if err := json.Unmarshal(value, &topic); err != nil {
		c.logger.Warn("[TOPIC-CACHE] dropping undecodable entry", "key", key, "error", err)
		_ = c.rdb.Del(ctx, key).Err()
		return nil, false
	}
	return &topic, true
}

func (c *cachedRepo) store(ctx context.Context, topic *content.Topic) {
	value, err := json.Marshal(topic)
	if err != nil {
		c.logger.Warn("[TOPIC-CACHE] encode failed", "topic_id", topic.ID, "error", err)
		return
	}

	pipe := c.rdb.Pipeline()
	pipe.Set(ctx, nameKeyPrefix+topic.Name, value, c.ttl)
	pipe.Set(ctx, slugKeyPrefix+topic.Slug, value, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		c.logger.Warn("[TOPIC-CACHE] write failed", "topic_id", topic.ID, "error", err)
	}
}
