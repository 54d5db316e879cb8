package content

import (
	"Inkwell/internal/core/counters"
	"Inkwell/internal/core/pagination"
	"context"
	"fmt"
	"strings"
)

// CreateComment adds a comment to a visible post and bumps its comment counter
func (s *service) CreateComment(ctx context.Context, postID, userID, description string) (*Comment, error) {
	if err := validateText("description", description, true, maxTextGraphemes); err != nil {
		return nil, err
	}
	if _, err := s.visiblePost(ctx, postID, userID); err != nil {
		return nil, err
	}

	id, err := s.newID()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to generate comment id: %w", ErrInternal, err)
	}

	now := s.now()
	comment := &Comment{
		ID:          id,
		PostID:      postID,
		UserID:      userID,
		Description: strings.TrimSpace(description),
		Replies:     []Reply{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		s.logger.Error("failed to create comment", "error", err, "post_id", postID)
		return nil, translate(err, "")
	}

	s.ledger.Adjust(ctx, postID, counters.TotalComment, 1)
	return comment, nil
}

// UpdateComment changes the text of the caller's comment.
// The write is a single conditional update on id, post and owner.
func (s *service) UpdateComment(ctx context.Context, postID, commentID, userID, description string) (*Comment, error) {
	if err := validateText("description", description, true, maxTextGraphemes); err != nil {
		return nil, err
	}

	text := strings.TrimSpace(description)
	n, err := s.comments.UpdateDescription(ctx, commentID, postID, userID, text, s.now())
	if err != nil {
		return nil, translate(err, "")
	}
	if n == 0 {
		return nil, s.resolveCommentMiss(ctx, postID, commentID, userID)
	}

	comment, err := s.comments.GetByID(ctx, commentID, postID)
	if err != nil {
		return nil, translate(err, "")
	}
	return comment, nil
}

// DeleteComment removes the caller's comment and decrements the post's counter
func (s *service) DeleteComment(ctx context.Context, postID, commentID, userID string) error {
	n, err := s.comments.Delete(ctx, commentID, postID, userID)
	if err != nil {
		return translate(err, "")
	}
	if n == 0 {
		return s.resolveCommentMiss(ctx, postID, commentID, userID)
	}

	s.ledger.Adjust(ctx, postID, counters.TotalComment, -1)
	return nil
}

// GetComment returns a comment with its replies
func (s *service) GetComment(ctx context.Context, postID, commentID string) (*Comment, error) {
	comment, err := s.comments.GetByID(ctx, commentID, postID)
	if err != nil {
		return nil, translate(err, "")
	}
	return comment, nil
}

// ListComments pages a post's comments newest first
func (s *service) ListComments(ctx context.Context, postID string, p pagination.Params) (pagination.Page[*Comment], error) {
	params, err := s.normalizePage(p)
	if err != nil {
		return pagination.Page[*Comment]{}, err
	}

	page, err := s.commentPager.Page(ctx, postID, params.Limit, params.After)
	if err != nil {
		return pagination.Page[*Comment]{}, translate(err, "")
	}
	return page, nil
}

// resolveCommentMiss explains why a conditional comment write matched nothing
func (s *service) resolveCommentMiss(ctx context.Context, postID, commentID, userID string) error {
	comment, err := s.comments.GetByID(ctx, commentID, postID)
	if err != nil {
		return translate(err, "")
	}
	if comment.UserID != userID {
		return ErrPermissionDenied
	}
	// Owned by the caller yet unmatched: removed between the two calls
	return ErrCommentNotFound
}
