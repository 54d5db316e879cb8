package content

import (
	"Inkwell/internal/core/subdocs"
	"context"
	"strings"
)

func commentScope(postID string) subdocs.Scope {
	return subdocs.Scope{subdocs.ScopePostID: postID}
}

// CreateReply appends a reply to a comment, subject to the reply capacity
func (s *service) CreateReply(ctx context.Context, postID, commentID, userID, description string) (*Reply, error) {
	if err := validateText("description", description, true, maxTextGraphemes); err != nil {
		return nil, err
	}
	if _, err := s.visiblePost(ctx, postID, userID); err != nil {
		return nil, err
	}

	now := s.now()
	text := strings.TrimSpace(description)
	reply, err := s.replies.Append(ctx, commentID, commentScope(postID), func(id string) Reply {
		return Reply{
			ID:          id,
			UserID:      userID,
			Description: text,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
	})
	if err != nil {
		return nil, translate(err, "")
	}
	return &reply, nil
}

// UpdateReply edits the caller's reply with one positional update
func (s *service) UpdateReply(ctx context.Context, postID, commentID, replyID, userID, description string) (*ReplyPatch, error) {
	if err := validateText("description", description, true, maxTextGraphemes); err != nil {
		return nil, err
	}

	patch := ReplyPatch{
		Description: strings.TrimSpace(description),
		UpdatedAt:   s.now(),
	}
	match := subdocs.Match{ItemID: replyID, OwnerID: userID}
	if err := s.replies.Update(ctx, commentID, commentScope(postID), match, patch); err != nil {
		return nil, translate(err, "")
	}
	return &patch, nil
}

// DeleteReply pulls the caller's reply from its comment
func (s *service) DeleteReply(ctx context.Context, postID, commentID, replyID, userID string) error {
	match := subdocs.Match{ItemID: replyID, OwnerID: userID}
	if err := s.replies.Remove(ctx, commentID, commentScope(postID), match); err != nil {
		return translate(err, "")
	}
	return nil
}

// ListReplies returns a comment's replies in insertion order
func (s *service) ListReplies(ctx context.Context, postID, commentID string) ([]Reply, error) {
	comment, err := s.comments.GetByID(ctx, commentID, postID)
	if err != nil {
		return nil, translate(err, "")
	}
	if comment.Replies == nil {
		return []Reply{}, nil
	}
	return comment.Replies, nil
}
