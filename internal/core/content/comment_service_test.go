package content

import (
	"Inkwell/internal/core/pagination"
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateComment_IncrementsCounter(t *testing.T) {
	ctx := context.Background()
	svc, db := newTestService(t)
	post := publishedPost(t, svc, "author", "Post")

	comment, err := svc.CreateComment(ctx, post.ID, "reader", "  first!  ")
	require.NoError(t, err)

	assert.Equal(t, "first!", comment.Description)
	assert.Equal(t, post.ID, comment.PostID)
	assert.NotNil(t, comment.Replies)
	assert.Equal(t, 1, db.post(post.ID).TotalComment)
}

func TestCreateComment_PostMustBeVisible(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	draft, err := svc.CreatePost(ctx, CreatePostRequest{AuthorID: "author", Title: "Draft"})
	require.NoError(t, err)

	_, err = svc.CreateComment(ctx, draft.ID, "reader", "hi")
	assert.True(t, IsNotFound(err))

	_, err = svc.CreateComment(ctx, draft.ID, "author", "note to self")
	assert.NoError(t, err)

	_, err = svc.CreateComment(ctx, "missing", "reader", "hi")
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestCreateComment_CounterFailureDoesNotFailComment(t *testing.T) {
	ctx := context.Background()
	svc, db := newTestService(t)
	post := publishedPost(t, svc, "author", "Post")
	db.setFailure("posts.IncrementCounter", errStoreDown)

	comment, err := svc.CreateComment(ctx, post.ID, "reader", "still saved")
	require.NoError(t, err)
	assert.NotNil(t, db.comment(comment.ID))
	assert.Equal(t, 0, db.post(post.ID).TotalComment)
}

func TestCreateComment_Validation(t *testing.T) {
	svc, _ := newTestService(t)
	post := publishedPost(t, svc, "author", "Post")

	_, err := svc.CreateComment(context.Background(), post.ID, "reader", "   ")
	assert.True(t, IsValidationError(err))
	assert.Equal(t, "description", FieldOf(err))

	_, err = svc.CreateComment(context.Background(), post.ID, "reader", strings.Repeat("a", maxTextGraphemes+1))
	assert.True(t, IsValidationError(err))
}

func TestUpdateComment_OwnerAndScope(t *testing.T) {
	ctx := context.Background()
	svc, db := newTestService(t)
	post := publishedPost(t, svc, "author", "Post")
	other := publishedPost(t, svc, "author", "Other")
	comment, err := svc.CreateComment(ctx, post.ID, "reader", "orig")
	require.NoError(t, err)

	_, err = svc.UpdateComment(ctx, post.ID, comment.ID, "intruder", "hacked")
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = svc.UpdateComment(ctx, other.ID, comment.ID, "reader", "wrong post")
	assert.ErrorIs(t, err, ErrCommentNotFound, "comments are scoped by post")

	updated, err := svc.UpdateComment(ctx, post.ID, comment.ID, "reader", "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Description)
	assert.Equal(t, "edited", db.comment(comment.ID).Description)
}

func TestDeleteComment_DecrementsCounter(t *testing.T) {
	ctx := context.Background()
	svc, db := newTestService(t)
	post := publishedPost(t, svc, "author", "Post")
	comment, err := svc.CreateComment(ctx, post.ID, "reader", "bye")
	require.NoError(t, err)

	err = svc.DeleteComment(ctx, post.ID, comment.ID, "intruder")
	assert.True(t, IsPermissionDenied(err))
	assert.Equal(t, 1, db.post(post.ID).TotalComment)

	require.NoError(t, svc.DeleteComment(ctx, post.ID, comment.ID, "reader"))
	assert.Nil(t, db.comment(comment.ID))
	assert.Equal(t, 0, db.post(post.ID).TotalComment)

	err = svc.DeleteComment(ctx, post.ID, comment.ID, "reader")
	assert.True(t, IsNotFound(err))
	assert.Equal(t, 0, db.post(post.ID).TotalComment, "a repeated delete must not decrement again")
}

func TestListComments_Paging(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	post := publishedPost(t, svc, "author", "Post")

	for i := 0; i < 7; i++ {
		_, err := svc.CreateComment(ctx, post.ID, "reader", fmt.Sprintf("c%d", i))
		require.NoError(t, err)
	}

	page, err := svc.ListComments(ctx, post.ID, pagination.Params{Limit: 4})
	require.NoError(t, err)
	require.Len(t, page.Items, 4)
	require.NotNil(t, page.Next)
	assert.Equal(t, "c6", page.Items[0].Description)

	page, err = svc.ListComments(ctx, post.ID, pagination.Params{Limit: 4, After: *page.Next})
	require.NoError(t, err)
	assert.Len(t, page.Items, 3)
	assert.Nil(t, page.Next)
}

func TestReplies_Lifecycle(t *testing.T) {
	ctx := context.Background()
	svc, db := newTestService(t)
	post := publishedPost(t, svc, "author", "Post")
	comment, err := svc.CreateComment(ctx, post.ID, "reader", "root")
	require.NoError(t, err)

	reply, err := svc.CreateReply(ctx, post.ID, comment.ID, "u1", "reply text")
	require.NoError(t, err)
	assert.NotEmpty(t, reply.ID)

	patch, err := svc.UpdateReply(ctx, post.ID, comment.ID, reply.ID, "u1", "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", patch.Description)

	replies, err := svc.ListReplies(ctx, post.ID, comment.ID)
	require.NoError(t, err)
	require.Len(t, replies, 1)
	assert.Equal(t, "edited", replies[0].Description)

	require.NoError(t, svc.DeleteReply(ctx, post.ID, comment.ID, reply.ID, "u1"))
	assert.Empty(t, db.comment(comment.ID).Replies)

	err = svc.DeleteReply(ctx, post.ID, comment.ID, reply.ID, "u1")
	assert.ErrorIs(t, err, ErrReplyNotFound)
}

func TestCreateReply_PostMustBeVisible(t *testing.T) {
	ctx := context.Background()
	svc, db := newTestService(t)
	post := publishedPost(t, svc, "author", "Post")
	comment, err := svc.CreateComment(ctx, post.ID, "reader", "root")
	require.NoError(t, err)

	unpublish := false
	_, err = svc.UpdatePost(ctx, post.Slug, "author", UpdatePostRequest{PublishNow: &unpublish})
	require.NoError(t, err)

	_, err = svc.CreateReply(ctx, post.ID, comment.ID, "reader", "still here?")
	assert.ErrorIs(t, err, ErrPostNotFound)
	assert.Empty(t, db.comment(comment.ID).Replies)

	_, err = svc.CreateReply(ctx, post.ID, comment.ID, "author", "yes")
	require.NoError(t, err)

	_, err = svc.CreateReply(ctx, "missing", comment.ID, "reader", "hi")
	assert.ErrorIs(t, err, ErrPostNotFound)
}

// P2: replies of one user cannot be modified by another
func TestReplies_IsolationBetweenUsers(t *testing.T) {
	ctx := context.Background()
	svc, db := newTestService(t)
	post := publishedPost(t, svc, "author", "Post")
	comment, err := svc.CreateComment(ctx, post.ID, "reader", "root")
	require.NoError(t, err)

	mine, err := svc.CreateReply(ctx, post.ID, comment.ID, "u1", "mine")
	require.NoError(t, err)
	theirs, err := svc.CreateReply(ctx, post.ID, comment.ID, "u2", "theirs")
	require.NoError(t, err)

	_, err = svc.UpdateReply(ctx, post.ID, comment.ID, theirs.ID, "u1", "overwritten")
	assert.ErrorIs(t, err, ErrPermissionDenied)
	err = svc.DeleteReply(ctx, post.ID, comment.ID, theirs.ID, "u1")
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = svc.UpdateReply(ctx, post.ID, comment.ID, mine.ID, "u1", "mine edited")
	require.NoError(t, err)

	stored := db.comment(comment.ID).Replies
	require.Len(t, stored, 2)
	assert.Equal(t, "mine edited", stored[0].Description)
	assert.Equal(t, "theirs", stored[1].Description)
	assert.Equal(t, "u2", stored[1].UserID)
}

func TestReplies_ScopedByPost(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	post := publishedPost(t, svc, "author", "Post")
	other := publishedPost(t, svc, "author", "Other")
	comment, err := svc.CreateComment(ctx, post.ID, "reader", "root")
	require.NoError(t, err)

	_, err = svc.CreateReply(ctx, other.ID, comment.ID, "u1", "misrouted")
	assert.ErrorIs(t, err, ErrCommentNotFound)

	_, err = svc.CreateReply(ctx, post.ID, "missing", "u1", "orphan")
	assert.ErrorIs(t, err, ErrCommentNotFound)
}

// Scenario B: the 101st reply is rejected and the list stays at capacity
func TestReplies_ScenarioB_Capacity(t *testing.T) {
	ctx := context.Background()
	svc, db := newTestService(t)
	post := publishedPost(t, svc, "author", "Post")
	comment, err := svc.CreateComment(ctx, post.ID, "reader", "root")
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		_, err := svc.CreateReply(ctx, post.ID, comment.ID, fmt.Sprintf("u%d", i), "r")
		require.NoError(t, err)
	}

	_, err = svc.CreateReply(ctx, post.ID, comment.ID, "late", "r")
	require.Error(t, err)
	assert.True(t, IsCapacityExceeded(err))
	assert.Equal(t, "replies", FieldOf(err))
	assert.Len(t, db.comment(comment.ID).Replies, 100)
}

func TestReplies_ConcurrentAppendsKeepUniqueIDs(t *testing.T) {
	ctx := context.Background()
	svc, db := newTestService(t)
	post := publishedPost(t, svc, "author", "Post")
	comment, err := svc.CreateComment(ctx, post.ID, "reader", "root")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.CreateReply(ctx, post.ID, comment.ID, fmt.Sprintf("u%d", i), "r")
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	replies := db.comment(comment.ID).Replies
	require.Len(t, replies, 40)
	ids := map[string]bool{}
	for _, r := range replies {
		assert.False(t, ids[r.ID])
		ids[r.ID] = true
	}
}
