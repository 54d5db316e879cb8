package content

import (
	"Inkwell/internal/core/counters"
	"Inkwell/internal/core/membership"
	"Inkwell/internal/core/pagination"
	"Inkwell/internal/core/slugs"
	"Inkwell/internal/core/subdocs"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rivo/uniseg"
)

const (
	// maxTitleGraphemes is the maximum length of a post title
	maxTitleGraphemes = 255

	// maxShortDescriptionGraphemes is the maximum length of a post summary
	maxShortDescriptionGraphemes = 512

	// maxTopicNameGraphemes is the maximum length of a topic name
	maxTopicNameGraphemes = 127

	// maxTextGraphemes is the maximum length of comment and reply text
	maxTextGraphemes = 10000
)

// service implements the Service interface.
// It holds no mutable state; all coordination happens in the document store.
type service struct {
	posts        PostRepository
	topics       TopicRepository
	comments     CommentRepository
	reactions    ReactionRepository
	replies      *subdocs.Collection[Reply, ReplyPatch]
	members      *membership.Set
	ledger       *counters.Ledger
	postSlugs    *slugs.Allocator
	topicSlugs   *slugs.Allocator
	postPager    *pagination.Pager[*Post, PostFilter]
	topicPager   *pagination.Pager[*Topic, TopicFilter]
	commentPager *pagination.Pager[*Comment, string]
	logger       *slog.Logger
	now          func() time.Time
	newID        func() (string, error)
	cfg          Config
}

// Option customises a service at construction
type Option func(*service)

// WithClock replaces time.Now, for tests that need fixed publish times
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

// WithSlugSuffix replaces the random slug suffix source
func WithSlugSuffix(suffix slugs.SuffixFunc) Option {
	return func(s *service) {
		s.postSlugs = slugs.NewAllocatorWithSuffix(s.cfg.PostSlugAttempts, suffix, s.logger)
		s.topicSlugs = slugs.NewAllocatorWithSuffix(s.cfg.TopicSlugAttempts, suffix, s.logger)
	}
}

// NewService creates the content service over one backend's repositories
func NewService(repos Repositories, cfg Config, logger *slog.Logger, opts ...Option) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid content config: %w", err)
	}
	if repos.Posts == nil || repos.Topics == nil || repos.Comments == nil || repos.Replies == nil || repos.Reactions == nil {
		return nil, fmt.Errorf("all repositories are required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &service{
		posts:      repos.Posts,
		topics:     repos.Topics,
		comments:   repos.Comments,
		reactions:  repos.Reactions,
		replies:    subdocs.NewCollection[Reply, ReplyPatch](repos.Replies, cfg.ReplyCapacity, logger),
		members:    membership.NewSet(repos.Reactions, cfg.ReactionCapacity, logger),
		ledger:     counters.NewLedger(repos.Posts, cfg.CounterTimeout, logger),
		postSlugs:  slugs.NewAllocator(cfg.PostSlugAttempts, logger),
		topicSlugs: slugs.NewAllocator(cfg.TopicSlugAttempts, logger),
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
		newID:      newID,
		cfg:        cfg,
	}
	s.postPager = pagination.NewPager(repos.Posts.List, func(p *Post) string { return p.ID })
	s.topicPager = pagination.NewPager(repos.Topics.List, func(t *Topic) string { return t.ID })
	s.commentPager = pagination.NewPager(repos.Comments.ListByPost, func(c *Comment) string { return c.ID })

	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ReconcileCounters recomputes total_comment and total_reaction for every post
func (s *service) ReconcileCounters(ctx context.Context) (counters.Result, error) {
	rec := counters.NewReconciler(s.posts.ListIDs, liveCounts{s}, s.posts, s.cfg.PageMaxLimit, s.logger)
	res, err := rec.Run(ctx)
	if err != nil {
		return res, translate(err, "")
	}
	return res, nil
}

// liveCounts reads authoritative child counts for the reconciler
type liveCounts struct {
	s *service
}

func (l liveCounts) LiveCount(ctx context.Context, postID string, field counters.Field) (int, error) {
	switch field {
	case counters.TotalComment:
		return l.s.comments.CountByPost(ctx, postID)
	case counters.TotalReaction:
		return l.s.reactions.Count(ctx, postID)
	}
	return 0, fmt.Errorf("unknown counter field %q", field)
}

// normalizePage applies configured limits to caller paging params
func (s *service) normalizePage(p pagination.Params) (pagination.Params, error) {
	p, err := p.Normalize(s.cfg.PageDefaultLimit, s.cfg.PageMaxLimit)
	if err != nil {
		return p, translate(err, "")
	}
	return p, nil
}

// visiblePost loads a post by id and hides it from viewers who may not read it
func (s *service) visiblePost(ctx context.Context, postID, viewerID string) (*Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, translate(err, "")
	}
	if !post.VisibleTo(viewerID, s.now()) {
		return nil, ErrPostNotFound
	}
	return post, nil
}

func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

func validateText(field, text string, required bool, max int) error {
	trimmed := strings.TrimSpace(text)
	if required && trimmed == "" {
		return NewValidationError(field, "must not be empty")
	}
	if uniseg.GraphemeClusterCount(text) > max {
		return NewValidationError(field, fmt.Sprintf("must be at most %d characters", max))
	}
	return nil
}

func validateOptionalText(field string, text *string, max int) error {
	if text == nil {
		return nil
	}
	return validateText(field, *text, false, max)
}
