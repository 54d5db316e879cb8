package comments

import (
	"Inkwell/internal/api/middleware"
	"Inkwell/internal/core/content"
	"Inkwell/internal/core/pagination"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubService overrides only the methods a test needs
type stubService struct {
	content.Service
	createComment func(ctx context.Context, postID, userID, description string) (*content.Comment, error)
	updateComment func(ctx context.Context, postID, commentID, userID, description string) (*content.Comment, error)
	deleteComment func(ctx context.Context, postID, commentID, userID string) error
	listComments  func(ctx context.Context, postID string, p pagination.Params) (pagination.Page[*content.Comment], error)
	createReply   func(ctx context.Context, postID, commentID, userID, description string) (*content.Reply, error)
	updateReply   func(ctx context.Context, postID, commentID, replyID, userID, description string) (*content.ReplyPatch, error)
	deleteReply   func(ctx context.Context, postID, commentID, replyID, userID string) error
}

func (s *stubService) CreateComment(ctx context.Context, postID, userID, description string) (*content.Comment, error) {
	return s.createComment(ctx, postID, userID, description)
}

func (s *stubService) UpdateComment(ctx context.Context, postID, commentID, userID, description string) (*content.Comment, error) {
	return s.updateComment(ctx, postID, commentID, userID, description)
}

func (s *stubService) DeleteComment(ctx context.Context, postID, commentID, userID string) error {
	return s.deleteComment(ctx, postID, commentID, userID)
}

func (s *stubService) ListComments(ctx context.Context, postID string, p pagination.Params) (pagination.Page[*content.Comment], error) {
	return s.listComments(ctx, postID, p)
}

func (s *stubService) CreateReply(ctx context.Context, postID, commentID, userID, description string) (*content.Reply, error) {
	return s.createReply(ctx, postID, commentID, userID, description)
}

func (s *stubService) UpdateReply(ctx context.Context, postID, commentID, replyID, userID, description string) (*content.ReplyPatch, error) {
	return s.updateReply(ctx, postID, commentID, replyID, userID, description)
}

func (s *stubService) DeleteReply(ctx context.Context, postID, commentID, replyID, userID string) error {
	return s.deleteReply(ctx, postID, commentID, replyID, userID)
}

func newTestRouter(svc content.Service) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if user := req.Header.Get("X-Test-User"); user != "" {
				req = req.WithContext(middleware.SetTestUserID(req.Context(), user))
			}
			next.ServeHTTP(w, req)
		})
	})

	get := NewGetCommentsHandler(svc)
	replies := NewRepliesHandler(svc)
	r.Route("/posts/{postID}/comments", func(r chi.Router) {
		r.Get("/", get.HandleList)
		r.Post("/", NewCreateCommentHandler(svc).HandleCreate)
		r.Put("/{commentID}", NewUpdateCommentHandler(svc).HandleUpdate)
		r.Delete("/{commentID}", NewDeleteCommentHandler(svc).HandleDelete)
		r.Post("/{commentID}/replies", replies.HandleCreate)
		r.Put("/{commentID}/replies/{replyID}", replies.HandleUpdate)
		r.Delete("/{commentID}/replies/{replyID}", replies.HandleDelete)
	})
	return r
}

func serve(t *testing.T, h http.Handler, method, target, user, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestCreateComment(t *testing.T) {
	svc := &stubService{createComment: func(_ context.Context, postID, userID, description string) (*content.Comment, error) {
		return &content.Comment{ID: "c1", PostID: postID, UserID: userID, Description: description, Replies: []content.Reply{}}, nil
	}}
	h := newTestRouter(svc)

	w := serve(t, h, http.MethodPost, "/posts/p1/comments", "alice", `{"description":"nice"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var comment content.Comment
	require.NoError(t, json.NewDecoder(w.Body).Decode(&comment))
	assert.Equal(t, "p1", comment.PostID)
	assert.Equal(t, "alice", comment.UserID)
	assert.NotNil(t, comment.Replies)

	w = serve(t, h, http.MethodPost, "/posts/p1/comments", "", `{"description":"nice"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCommentOwnership(t *testing.T) {
	svc := &stubService{
		updateComment: func(_ context.Context, _, commentID, userID, description string) (*content.Comment, error) {
			if userID != "alice" {
				return nil, content.ErrPermissionDenied
			}
			return &content.Comment{ID: commentID, Description: description}, nil
		},
		deleteComment: func(_ context.Context, _, _, userID string) error {
			if userID != "alice" {
				return content.ErrPermissionDenied
			}
			return nil
		},
	}
	h := newTestRouter(svc)

	assert.Equal(t, http.StatusOK, serve(t, h, http.MethodPut, "/posts/p1/comments/c1", "alice", `{"description":"edit"}`).Code)
	assert.Equal(t, http.StatusForbidden, serve(t, h, http.MethodPut, "/posts/p1/comments/c1", "bob", `{"description":"edit"}`).Code)
	assert.Equal(t, http.StatusNoContent, serve(t, h, http.MethodDelete, "/posts/p1/comments/c1", "alice", "").Code)
	assert.Equal(t, http.StatusForbidden, serve(t, h, http.MethodDelete, "/posts/p1/comments/c1", "bob", "").Code)
}

func TestListComments_Pagination(t *testing.T) {
	var got pagination.Params
	svc := &stubService{listComments: func(_ context.Context, postID string, p pagination.Params) (pagination.Page[*content.Comment], error) {
		got = p
		if p.After == "bad" {
			return pagination.Page[*content.Comment]{}, content.NewValidationError("after", "invalid cursor")
		}
		return pagination.Page[*content.Comment]{Items: []*content.Comment{{ID: "c2"}}}, nil
	}}
	h := newTestRouter(svc)

	w := serve(t, h, http.MethodGet, "/posts/p1/comments?limit=2", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, got.Limit)
	assert.Contains(t, w.Body.String(), `"after":null`)

	w = serve(t, h, http.MethodGet, "/posts/p1/comments?after=bad", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"after"`)
}

func TestReplyHandlers(t *testing.T) {
	svc := &stubService{
		createReply: func(_ context.Context, _, commentID, userID, description string) (*content.Reply, error) {
			if commentID == "full" {
				return nil, &content.FieldError{Err: content.ErrCapacityExceeded, Field: "replies"}
			}
			return &content.Reply{ID: "r1", UserID: userID, Description: description}, nil
		},
		updateReply: func(_ context.Context, _, _, replyID, userID, description string) (*content.ReplyPatch, error) {
			if replyID == "gone" {
				return nil, content.ErrReplyNotFound
			}
			return &content.ReplyPatch{Description: description, UpdatedAt: time.Now()}, nil
		},
		deleteReply: func(_ context.Context, _, _, _, userID string) error {
			if userID != "alice" {
				return content.ErrPermissionDenied
			}
			return nil
		},
	}
	h := newTestRouter(svc)

	w := serve(t, h, http.MethodPost, "/posts/p1/comments/c1/replies", "alice", `{"description":"+1"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":"alice"`)

	w = serve(t, h, http.MethodPost, "/posts/p1/comments/full/replies", "alice", `{"description":"+1"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"replies"`)

	w = serve(t, h, http.MethodPut, "/posts/p1/comments/c1/replies/r1", "alice", `{"description":"edited"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"description":"edited"`)

	assert.Equal(t, http.StatusNotFound, serve(t, h, http.MethodPut, "/posts/p1/comments/c1/replies/gone", "alice", `{"description":"x"}`).Code)
	assert.Equal(t, http.StatusForbidden, serve(t, h, http.MethodDelete, "/posts/p1/comments/c1/replies/r1", "bob", "").Code)
	assert.Equal(t, http.StatusNoContent, serve(t, h, http.MethodDelete, "/posts/p1/comments/c1/replies/r1", "alice", "").Code)
}
