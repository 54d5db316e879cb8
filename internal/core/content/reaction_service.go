package content

import (
	"Inkwell/internal/core/counters"
	"Inkwell/internal/core/membership"
	"context"
)

// AddReaction records the user's reaction on a visible post.
// Repeating it is a no-op that reports Changed false.
func (s *service) AddReaction(ctx context.Context, postID, userID string) (*ReactionState, error) {
	if _, err := s.visiblePost(ctx, postID, userID); err != nil {
		return nil, err
	}

	added, err := s.members.Add(ctx, postID, userID)
	if err != nil {
		return nil, translate(err, "")
	}
	if added {
		s.ledger.Adjust(ctx, postID, counters.TotalReaction, 1)
	}
	return &ReactionState{PostID: postID, Reacted: true, Changed: added}, nil
}

// RemoveReaction withdraws the user's reaction. Removing a missing reaction is a no-op.
func (s *service) RemoveReaction(ctx context.Context, postID, userID string) (*ReactionState, error) {
	removed, err := s.members.Remove(ctx, postID, userID)
	if err != nil {
		return nil, translate(err, "")
	}
	if removed {
		s.ledger.Adjust(ctx, postID, counters.TotalReaction, -1)
	}
	return &ReactionState{PostID: postID, Reacted: false, Changed: removed}, nil
}

// ToggleReaction flips the user's reaction
func (s *service) ToggleReaction(ctx context.Context, postID, userID string) (*ReactionState, error) {
	if _, err := s.visiblePost(ctx, postID, userID); err != nil {
		return nil, err
	}

	present, changed, err := s.members.Toggle(ctx, postID, userID)
	if err != nil {
		return nil, translate(err, "")
	}
	s.ledger.Adjust(ctx, postID, counters.TotalReaction, membership.Delta(changed, present))
	return &ReactionState{PostID: postID, Reacted: present, Changed: changed}, nil
}

// GetReactions summarises a post's reactions for the viewer
func (s *service) GetReactions(ctx context.Context, postID, viewerID string) (*ReactionSummary, error) {
	if _, err := s.visiblePost(ctx, postID, viewerID); err != nil {
		return nil, err
	}

	summary := &ReactionSummary{PostID: postID}
	reaction, err := s.reactions.GetByPost(ctx, postID)
	if IsNotFound(err) {
		return summary, nil
	}
	if err != nil {
		return nil, translate(err, "")
	}

	summary.Count = len(reaction.UserIDs)
	for _, id := range reaction.UserIDs {
		if viewerID != "" && id == viewerID {
			summary.Reacted = true
			break
		}
	}
	return summary, nil
}
