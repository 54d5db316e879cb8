package content

import (
	"Inkwell/internal/core/pagination"
	"time"
)

// Post is a published or draft article.
// Slug starts out equal to ID and is replaced once the allocator commits a
// human-readable one. TotalComment and TotalReaction are advisory counters.
type Post struct {
	CreatedAt        time.Time      `json:"created_at" db:"created_at" bson:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at" db:"updated_at" bson:"updated_at"`
	PublishAt        *time.Time     `json:"publish_at" db:"publish_at" bson:"publish_at"`
	ShortDescription *string        `json:"short_description,omitempty" db:"short_description" bson:"short_description,omitempty"`
	CoverImage       *string        `json:"cover_image,omitempty" db:"cover_image" bson:"cover_image,omitempty"`
	Description      map[string]any `json:"description,omitempty" db:"description" bson:"description,omitempty"`
	ID               string         `json:"id" db:"id" bson:"_id"`
	AuthorID         string         `json:"author_id" db:"author_id" bson:"author_id"`
	Title            string         `json:"title" db:"title" bson:"title"`
	Slug             string         `json:"slug" db:"slug" bson:"slug"`
	TopicIDs         []string       `json:"topic_ids" db:"topic_ids" bson:"topic_ids"`
	Topics           []*Topic       `json:"topics,omitempty" db:"-" bson:"-"`
	TotalComment     int            `json:"total_comment" db:"total_comment" bson:"total_comment"`
	TotalReaction    int            `json:"total_reaction" db:"total_reaction" bson:"total_reaction"`
}

// IsPublished reports whether the post is publicly visible at now
func (p *Post) IsPublished(now time.Time) bool {
	return p.PublishAt != nil && !p.PublishAt.After(now)
}

// VisibleTo reports whether viewerID may read the post at now.
// Authors always see their own drafts and scheduled posts.
func (p *Post) VisibleTo(viewerID string, now time.Time) bool {
	if viewerID != "" && viewerID == p.AuthorID {
		return true
	}
	return p.IsPublished(now)
}

// CreatePostRequest is the input for creating a post.
// Topics are names; missing topics are created on demand.
type CreatePostRequest struct {
	Description      map[string]any `json:"description,omitempty"`
	ShortDescription *string        `json:"short_description,omitempty"`
	CoverImage       *string        `json:"cover_image,omitempty"`
	Title            string         `json:"title"`
	AuthorID         string         `json:"-"`
	Topics           []string       `json:"topics,omitempty"`
	PublishNow       bool           `json:"publish_now"`
}

// UpdatePostRequest is a partial update. Nil fields are left unchanged;
// a non-nil Topics replaces the post's topics. The slug never changes.
type UpdatePostRequest struct {
	Description      map[string]any `json:"description,omitempty"`
	ShortDescription *string        `json:"short_description,omitempty"`
	CoverImage       *string        `json:"cover_image,omitempty"`
	Title            *string        `json:"title,omitempty"`
	PublishNow       *bool          `json:"publish_now,omitempty"`
	Topics           []string       `json:"topics,omitempty"`
}

// PostQuery holds the listing options accepted from callers
type PostQuery struct {
	Query      string
	AuthorID   string
	TopicSlugs []string
	pagination.Params
}

// PostFilter is the resolved filter handed to the repository
type PostFilter struct {
	Now           time.Time
	AuthorID      string
	Query         string
	TopicIDs      []string
	PublishedOnly bool
}
