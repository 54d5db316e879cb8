package content

import (
	"Inkwell/internal/core/pagination"
	"context"
	"errors"
	"fmt"
	"strings"
)

// CreatePost creates a post in two phases.
// Flow:
// 1. Validate input and resolve topics (get-or-create by name)
// 2. Insert the post with its id as a placeholder slug
// 3. Allocate a slug from the title against the unique slug index
// 4. If allocation fails, delete the post again and report the title field
func (s *service) CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error) {
	if req.AuthorID == "" {
		return nil, NewValidationError("author_id", "authentication required")
	}
	if err := validateText("title", req.Title, true, maxTitleGraphemes); err != nil {
		return nil, err
	}
	if err := validateOptionalText("short_description", req.ShortDescription, maxShortDescriptionGraphemes); err != nil {
		return nil, err
	}

	topics, err := s.resolveTopics(ctx, req.Topics, req.AuthorID)
	if err != nil {
		return nil, err
	}

	id, err := s.newID()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to generate post id: %w", ErrInternal, err)
	}

	now := s.now()
	post := &Post{
		ID:               id,
		AuthorID:         req.AuthorID,
		Title:            strings.TrimSpace(req.Title),
		Slug:             id,
		ShortDescription: req.ShortDescription,
		Description:      req.Description,
		CoverImage:       req.CoverImage,
		TopicIDs:         topicIDs(topics),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if req.PublishNow {
		post.PublishAt = &now
	}

	if err := s.posts.Create(ctx, post); err != nil {
		s.logger.Error("failed to create post", "error", err, "author_id", req.AuthorID)
		return nil, translate(err, "")
	}

	slug, err := s.postSlugs.Allocate(ctx, post.Title, func(ctx context.Context, candidate string) error {
		return s.posts.SetSlug(ctx, id, candidate)
	})
	if err != nil {
		s.compensateCreate(ctx, id, err)
		return nil, translate(err, "title")
	}

	post.Slug = slug
	post.Topics = topics
	s.logger.Info("post created", "post_id", id, "slug", slug, "author_id", req.AuthorID)
	return post, nil
}

// compensateCreate removes a post whose slug could not be committed.
// It runs detached from the request so a cancelled caller does not leave a draft behind.
func (s *service) compensateCreate(ctx context.Context, postID string, cause error) {
	ctx = context.WithoutCancel(ctx)
	if err := s.posts.Delete(ctx, postID); err != nil {
		s.logger.Error("failed to delete post after slug allocation failure",
			"error", err,
			"cause", cause,
			"post_id", postID)
		return
	}
	s.logger.Warn("post removed after slug allocation failure",
		"cause", cause,
		"post_id", postID)
}

// UpdatePost applies a partial update by the post's author.
// Title edits keep the existing slug.
func (s *service) UpdatePost(ctx context.Context, slug, userID string, req UpdatePostRequest) (*Post, error) {
	post, err := s.posts.GetBySlug(ctx, slug)
	if err != nil {
		return nil, translate(err, "")
	}
	if post.AuthorID != userID {
		return nil, ErrPermissionDenied
	}

	if req.Title != nil {
		if err := validateText("title", *req.Title, true, maxTitleGraphemes); err != nil {
			return nil, err
		}
		post.Title = strings.TrimSpace(*req.Title)
	}
	if err := validateOptionalText("short_description", req.ShortDescription, maxShortDescriptionGraphemes); err != nil {
		return nil, err
	}
	if req.ShortDescription != nil {
		post.ShortDescription = req.ShortDescription
	}
	if req.Description != nil {
		post.Description = req.Description
	}
	if req.CoverImage != nil {
		post.CoverImage = req.CoverImage
	}

	now := s.now()
	if req.PublishNow != nil {
		if *req.PublishNow {
			if post.PublishAt == nil {
				post.PublishAt = &now
			}
		} else {
			post.PublishAt = nil
		}
	}

	// An empty list leaves the post's topics as they are
	if len(req.Topics) > 0 {
		topics, err := s.resolveTopics(ctx, req.Topics, userID)
		if err != nil {
			return nil, err
		}
		post.TopicIDs = topicIDs(topics)
		post.Topics = topics
	}
	post.UpdatedAt = now

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, translate(err, "")
	}

	if post.Topics == nil {
		s.hydrateTopics(ctx, post)
	}
	return post, nil
}

// DeletePost removes the post and its children, children first.
// A failure part-way leaves empty or partial child collections and the post
// still in place, so the author can retry.
func (s *service) DeletePost(ctx context.Context, slug, userID string) error {
	post, err := s.posts.GetBySlug(ctx, slug)
	if err != nil {
		return translate(err, "")
	}
	if post.AuthorID != userID {
		return ErrPermissionDenied
	}

	if err := s.comments.DeleteByPost(ctx, post.ID); err != nil {
		s.logger.Error("failed to delete post comments", "error", err, "post_id", post.ID)
		return translate(err, "")
	}
	if err := s.reactions.DeleteByPost(ctx, post.ID); err != nil {
		s.logger.Error("failed to delete post reactions", "error", err, "post_id", post.ID)
		return translate(err, "")
	}
	if err := s.posts.Delete(ctx, post.ID); err != nil {
		s.logger.Error("failed to delete post", "error", err, "post_id", post.ID)
		return translate(err, "")
	}

	s.logger.Info("post deleted", "post_id", post.ID, "slug", slug)
	return nil
}

// GetPost returns the post with its topics if the viewer may see it
func (s *service) GetPost(ctx context.Context, slug, viewerID string) (*Post, error) {
	post, err := s.posts.GetBySlug(ctx, slug)
	if err != nil {
		return nil, translate(err, "")
	}
	if !post.VisibleTo(viewerID, s.now()) {
		return nil, ErrPostNotFound
	}
	s.hydrateTopics(ctx, post)
	return post, nil
}

// ListPosts pages posts newest first.
// Only published posts are listed unless the viewer filters by their own author id.
func (s *service) ListPosts(ctx context.Context, q PostQuery, viewerID string) (pagination.Page[*Post], error) {
	params, err := s.normalizePage(q.Params)
	if err != nil {
		return pagination.Page[*Post]{}, err
	}

	filter := PostFilter{
		Now:           s.now(),
		AuthorID:      q.AuthorID,
		Query:         strings.TrimSpace(q.Query),
		PublishedOnly: viewerID == "" || q.AuthorID != viewerID,
	}

	if len(q.TopicSlugs) > 0 {
		topics, err := s.topics.GetBySlugs(ctx, q.TopicSlugs)
		if err != nil {
			return pagination.Page[*Post]{}, translate(err, "")
		}
		if len(topics) == 0 {
			return pagination.Build[*Post](nil, params.Limit, nil), nil
		}
		filter.TopicIDs = topicIDs(topics)
	}

	page, err := s.postPager.Page(ctx, filter, params.Limit, params.After)
	if err != nil {
		return pagination.Page[*Post]{}, translate(err, "")
	}
	return page, nil
}

// resolveTopics get-or-creates each named topic, skipping blanks and duplicates
func (s *service) resolveTopics(ctx context.Context, names []string, userID string) ([]*Topic, error) {
	seen := make(map[string]struct{}, len(names))
	topics := make([]*Topic, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		topic, err := s.GetOrCreateTopic(ctx, CreateTopicRequest{Name: name, UserID: userID})
		if err != nil {
			var fe *FieldError
			if errors.As(err, &fe) {
				fe.Field = "topics"
			}
			return nil, err
		}
		topics = append(topics, topic)
	}
	return topics, nil
}

// hydrateTopics fills post.Topics. Failures are logged and leave Topics empty.
func (s *service) hydrateTopics(ctx context.Context, post *Post) {
	if len(post.TopicIDs) == 0 {
		post.Topics = []*Topic{}
		return
	}
	topics, err := s.topics.GetByIDs(ctx, post.TopicIDs)
	if err != nil {
		s.logger.Warn("failed to load post topics", "error", err, "post_id", post.ID)
		return
	}
	post.Topics = topics
}

func topicIDs(topics []*Topic) []string {
	ids := make([]string, 0, len(topics))
	for _, t := range topics {
		ids = append(ids, t.ID)
	}
	return ids
}
