package content

// Reaction is the per-post set of users who reacted. One document per post,
// created on the first reaction and emptied rather than deleted.
type Reaction struct {
	ID      string   `json:"id" db:"id" bson:"_id"`
	PostID  string   `json:"post_id" db:"post_id" bson:"post_id"`
	UserIDs []string `json:"user_ids" db:"user_ids" bson:"user_ids"`
}

// ReactionState is the outcome of a reaction mutation for one user
type ReactionState struct {
	PostID  string `json:"post_id"`
	Reacted bool   `json:"reacted"`
	Changed bool   `json:"changed"`
}

// ReactionSummary is the read view of a post's reactions
type ReactionSummary struct {
	PostID  string `json:"post_id"`
	Count   int    `json:"count"`
	Reacted bool   `json:"reacted"`
}
