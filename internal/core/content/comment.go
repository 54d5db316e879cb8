package content

import "time"

// Comment is a top-level response to a post. Replies are embedded in it
// and share its document, so every reply mutation is atomic on the comment.
type Comment struct {
	CreatedAt   time.Time `json:"created_at" db:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at" bson:"updated_at"`
	ID          string    `json:"id" db:"id" bson:"_id"`
	UserID      string    `json:"user_id" db:"user_id" bson:"user_id"`
	PostID      string    `json:"post_id" db:"post_id" bson:"post_id"`
	Description string    `json:"description" db:"description" bson:"description"`
	Replies     []Reply   `json:"replies" db:"replies" bson:"replies"`
}

// Reply is an item embedded in a comment
type Reply struct {
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
	ID          string    `json:"id" bson:"id"`
	UserID      string    `json:"user_id" bson:"user_id"`
	Description string    `json:"description" bson:"description"`
}

// ReplyPatch holds the mutable fields of a reply
type ReplyPatch struct {
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
	Description string    `json:"description" bson:"description"`
}
