package content

import (
	"Inkwell/internal/core/pagination"
	"time"
)

// Topic is a named tag attached to posts. Topics are immutable once created.
type Topic struct {
	CreatedAt   time.Time `json:"created_at" db:"created_at" bson:"created_at"`
	UserID      *string   `json:"user_id,omitempty" db:"user_id" bson:"user_id,omitempty"`
	Description *string   `json:"description,omitempty" db:"description" bson:"description,omitempty"`
	ID          string    `json:"id" db:"id" bson:"_id"`
	Name        string    `json:"name" db:"name" bson:"name"`
	Slug        string    `json:"slug" db:"slug" bson:"slug"`
}

// CreateTopicRequest is the input for the topic get-or-create verb
type CreateTopicRequest struct {
	Description *string `json:"description,omitempty"`
	Name        string  `json:"name"`
	UserID      string  `json:"-"`
}

// TopicQuery holds the topic listing options
type TopicQuery struct {
	Query string
	pagination.Params
}

// TopicFilter is the resolved filter handed to the repository
type TopicFilter struct {
	Query string
}
