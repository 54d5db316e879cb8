package content

import (
	"Inkwell/internal/core/pagination"
	"context"
	"errors"
	"fmt"
	"strings"
)

// GetOrCreateTopic returns the topic with the given name, creating it if needed.
// Two concurrent creators race on the unique name index; the loser re-reads
// and returns the winner's topic.
func (s *service) GetOrCreateTopic(ctx context.Context, req CreateTopicRequest) (*Topic, error) {
	name := strings.TrimSpace(req.Name)
	if err := validateText("name", name, true, maxTopicNameGraphemes); err != nil {
		return nil, err
	}

	existing, err := s.topics.GetByName(ctx, name)
	if err == nil {
		return existing, nil
	}
	if !IsNotFound(err) {
		return nil, translate(err, "")
	}

	id, err := s.newID()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to generate topic id: %w", ErrInternal, err)
	}

	topic := &Topic{
		ID:          id,
		Name:        name,
		Description: req.Description,
		CreatedAt:   s.now(),
	}
	if req.UserID != "" {
		userID := req.UserID
		topic.UserID = &userID
	}

	slug, err := s.topicSlugs.Allocate(ctx, name, func(ctx context.Context, candidate string) error {
		topic.Slug = candidate
		return s.topics.Create(ctx, topic)
	})
	if errors.Is(err, ErrTopicNameTaken) {
		s.logger.Debug("topic created concurrently, using existing", "name", name)
		winner, getErr := s.topics.GetByName(ctx, name)
		if getErr != nil {
			return nil, translate(getErr, "")
		}
		return winner, nil
	}
	if err != nil {
		return nil, translate(err, "name")
	}

	topic.Slug = slug
	s.logger.Info("topic created", "topic_id", id, "slug", slug, "name", name)
	return topic, nil
}

// GetTopic returns a topic by slug
func (s *service) GetTopic(ctx context.Context, slug string) (*Topic, error) {
	topic, err := s.topics.GetBySlug(ctx, slug)
	if err != nil {
		return nil, translate(err, "")
	}
	return topic, nil
}

// ListTopics pages topics newest first, optionally filtered by a text query
func (s *service) ListTopics(ctx context.Context, q TopicQuery) (pagination.Page[*Topic], error) {
	params, err := s.normalizePage(q.Params)
	if err != nil {
		return pagination.Page[*Topic]{}, err
	}

	page, err := s.topicPager.Page(ctx, TopicFilter{Query: strings.TrimSpace(q.Query)}, params.Limit, params.After)
	if err != nil {
		return pagination.Page[*Topic]{}, translate(err, "")
	}
	return page, nil
}
