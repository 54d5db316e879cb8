package content

import (
	"Inkwell/internal/core/counters"
	"Inkwell/internal/core/membership"
	"Inkwell/internal/core/pagination"
	"Inkwell/internal/core/subdocs"
	"context"
	"time"
)

// Service defines the content mutation and read verbs.
// Identity (userID, viewerID) comes from the auth middleware; an empty
// viewerID means an anonymous reader.
type Service interface {
	// CreatePost inserts the post with a placeholder slug, then allocates the real one.
	// On allocation failure the post is deleted again and a FieldError on "title" is returned.
	CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error)
	// UpdatePost applies a partial update. Author only.
	UpdatePost(ctx context.Context, slug, userID string, req UpdatePostRequest) (*Post, error)
	// DeletePost removes comments, then reactions, then the post. Author only.
	DeletePost(ctx context.Context, slug, userID string) error
	// GetPost returns a post with its topics. Unpublished posts are hidden from non-authors.
	GetPost(ctx context.Context, slug, viewerID string) (*Post, error)
	// ListPosts pages posts newest first. Drafts appear only when the viewer lists their own posts.
	ListPosts(ctx context.Context, q PostQuery, viewerID string) (pagination.Page[*Post], error)

	GetOrCreateTopic(ctx context.Context, req CreateTopicRequest) (*Topic, error)
	GetTopic(ctx context.Context, slug string) (*Topic, error)
	ListTopics(ctx context.Context, q TopicQuery) (pagination.Page[*Topic], error)

	CreateComment(ctx context.Context, postID, userID, description string) (*Comment, error)
	UpdateComment(ctx context.Context, postID, commentID, userID, description string) (*Comment, error)
	DeleteComment(ctx context.Context, postID, commentID, userID string) error
	GetComment(ctx context.Context, postID, commentID string) (*Comment, error)
	ListComments(ctx context.Context, postID string, p pagination.Params) (pagination.Page[*Comment], error)

	CreateReply(ctx context.Context, postID, commentID, userID, description string) (*Reply, error)
	UpdateReply(ctx context.Context, postID, commentID, replyID, userID, description string) (*ReplyPatch, error)
	DeleteReply(ctx context.Context, postID, commentID, replyID, userID string) error
	ListReplies(ctx context.Context, postID, commentID string) ([]Reply, error)

	AddReaction(ctx context.Context, postID, userID string) (*ReactionState, error)
	RemoveReaction(ctx context.Context, postID, userID string) (*ReactionState, error)
	ToggleReaction(ctx context.Context, postID, userID string) (*ReactionState, error)
	GetReactions(ctx context.Context, postID, viewerID string) (*ReactionSummary, error)

	// ReconcileCounters recomputes every post's counters from live data
	ReconcileCounters(ctx context.Context) (counters.Result, error)
}

// PostRepository defines data access for posts
type PostRepository interface {
	Create(ctx context.Context, post *Post) error

	// SetSlug commits slug for the post. Returns slugs.ErrTaken when another
	// post holds it and ErrPostNotFound when the post is gone.
	SetSlug(ctx context.Context, id, slug string) error

	GetByID(ctx context.Context, id string) (*Post, error)
	GetBySlug(ctx context.Context, slug string) (*Post, error)

	// Update writes the mutable fields of post, matching on ID and AuthorID
	Update(ctx context.Context, post *Post) error

	Delete(ctx context.Context, id string) error

	// List returns posts matching filter, newest first, without Description
	List(ctx context.Context, filter PostFilter, limit int, after string) ([]*Post, error)

	// ListIDs pages every post id newest first
	ListIDs(ctx context.Context, limit int, after string) ([]string, error)

	// IncrementCounter adds delta to a counter, flooring at zero
	IncrementCounter(ctx context.Context, id string, field counters.Field, delta int) error

	// SetCounter overwrites a counter and reports whether the value changed
	SetCounter(ctx context.Context, id string, field counters.Field, value int) (bool, error)
}

// TopicRepository defines data access for topics
type TopicRepository interface {
	// Create inserts topic. Returns slugs.ErrTaken for a slug collision and
	// ErrTopicNameTaken when the name already exists.
	Create(ctx context.Context, topic *Topic) error

	GetByName(ctx context.Context, name string) (*Topic, error)
	GetBySlug(ctx context.Context, slug string) (*Topic, error)
	GetByIDs(ctx context.Context, ids []string) ([]*Topic, error)
	GetBySlugs(ctx context.Context, slugs []string) ([]*Topic, error)
	List(ctx context.Context, filter TopicFilter, limit int, after string) ([]*Topic, error)
}

// CommentRepository defines data access for comment documents
type CommentRepository interface {
	Create(ctx context.Context, comment *Comment) error

	// GetByID returns the comment only if it belongs to postID
	GetByID(ctx context.Context, id, postID string) (*Comment, error)

	// UpdateDescription changes the text of a comment owned by userID and returns the matched count
	UpdateDescription(ctx context.Context, id, postID, userID, description string, updatedAt time.Time) (int64, error)

	// Delete removes a comment owned by userID and returns the deleted count
	Delete(ctx context.Context, id, postID, userID string) (int64, error)

	ListByPost(ctx context.Context, postID string, limit int, after string) ([]*Comment, error)
	DeleteByPost(ctx context.Context, postID string) error
	CountByPost(ctx context.Context, postID string) (int, error)
}

// ReplyStore is the embedded reply array inside comment documents
type ReplyStore = subdocs.Store[Reply, ReplyPatch]

// ReactionRepository defines data access for per-post reaction sets
type ReactionRepository interface {
	membership.Store

	// GetByPost returns ErrReactionNotFound when nobody has reacted yet
	GetByPost(ctx context.Context, postID string) (*Reaction, error)
	DeleteByPost(ctx context.Context, postID string) error
	Count(ctx context.Context, postID string) (int, error)
}

// Repositories bundles one backend's implementations
type Repositories struct {
	Posts     PostRepository
	Topics    TopicRepository
	Comments  CommentRepository
	Replies   ReplyStore
	Reactions ReactionRepository
}
