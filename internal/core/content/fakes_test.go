package content

import (
	"Inkwell/internal/core/counters"
	"Inkwell/internal/core/slugs"
	"Inkwell/internal/core/subdocs"
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// memDB is an in-memory document store. One mutex serialises every call,
// which models the per-document atomicity the real backends provide.
type memDB struct {
	posts     map[string]*Post
	topics    map[string]*Topic
	comments  map[string]*Comment
	reactions map[string]*Reaction

	// failures injected by tests, keyed by operation name
	fail map[string]error

	mu sync.Mutex
}

func newMemDB() *memDB {
	return &memDB{
		posts:     make(map[string]*Post),
		topics:    make(map[string]*Topic),
		comments:  make(map[string]*Comment),
		reactions: make(map[string]*Reaction),
		fail:      make(map[string]error),
	}
}

func (db *memDB) repos() Repositories {
	return Repositories{
		Posts:     &memPosts{db},
		Topics:    &memTopics{db},
		Comments:  &memComments{db},
		Replies:   &memReplies{db},
		Reactions: &memReactions{db},
	}
}

func (db *memDB) injected(op string) error {
	return db.fail[op]
}

func (db *memDB) setFailure(op string, err error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.fail[op] = err
}

func copyPost(p *Post) *Post {
	c := *p
	c.TopicIDs = append([]string(nil), p.TopicIDs...)
	return &c
}

func copyComment(c *Comment) *Comment {
	out := *c
	out.Replies = append([]Reply{}, c.Replies...)
	return &out
}

// descending pages by id, the contract every backend implements
func pageIDs[T any](items []T, id func(T) string, limit int, after string) []T {
	sort.Slice(items, func(i, j int) bool { return id(items[i]) > id(items[j]) })
	out := make([]T, 0, limit)
	for _, it := range items {
		if after != "" && id(it) >= after {
			continue
		}
		out = append(out, it)
		if len(out) == limit {
			break
		}
	}
	return out
}

type memPosts struct{ db *memDB }

func (r *memPosts) Create(_ context.Context, post *Post) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.injected("posts.Create"); err != nil {
		return err
	}
	for _, p := range r.db.posts {
		if p.Slug == post.Slug {
			return slugs.ErrTaken
		}
	}
	r.db.posts[post.ID] = copyPost(post)
	return nil
}

func (r *memPosts) SetSlug(_ context.Context, id, slug string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.injected("posts.SetSlug"); err != nil {
		return err
	}
	p, ok := r.db.posts[id]
	if !ok {
		return ErrPostNotFound
	}
	for otherID, other := range r.db.posts {
		if otherID != id && other.Slug == slug {
			return slugs.ErrTaken
		}
	}
	p.Slug = slug
	return nil
}

func (r *memPosts) GetByID(_ context.Context, id string) (*Post, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.injected("posts.GetByID"); err != nil {
		return nil, err
	}
	p, ok := r.db.posts[id]
	if !ok {
		return nil, ErrPostNotFound
	}
	return copyPost(p), nil
}

func (r *memPosts) GetBySlug(_ context.Context, slug string) (*Post, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, p := range r.db.posts {
		if p.Slug == slug {
			return copyPost(p), nil
		}
	}
	return nil, ErrPostNotFound
}

func (r *memPosts) Update(_ context.Context, post *Post) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.posts[post.ID]
	if !ok || p.AuthorID != post.AuthorID {
		return ErrPostNotFound
	}
	p.Title = post.Title
	p.ShortDescription = post.ShortDescription
	p.Description = post.Description
	p.CoverImage = post.CoverImage
	p.PublishAt = post.PublishAt
	p.TopicIDs = append([]string(nil), post.TopicIDs...)
	p.UpdatedAt = post.UpdatedAt
	return nil
}

func (r *memPosts) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.injected("posts.Delete"); err != nil {
		return err
	}
	delete(r.db.posts, id)
	return nil
}

func (r *memPosts) List(_ context.Context, f PostFilter, limit int, after string) ([]*Post, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var matched []*Post
	for _, p := range r.db.posts {
		if f.PublishedOnly && !p.IsPublished(f.Now) {
			continue
		}
		if f.AuthorID != "" && p.AuthorID != f.AuthorID {
			continue
		}
		if f.Query != "" && !strings.Contains(strings.ToLower(p.Title), strings.ToLower(f.Query)) {
			continue
		}
		if len(f.TopicIDs) > 0 && !overlaps(p.TopicIDs, f.TopicIDs) {
			continue
		}
		c := copyPost(p)
		c.Description = nil
		matched = append(matched, c)
	}
	return pageIDs(matched, func(p *Post) string { return p.ID }, limit, after), nil
}

func (r *memPosts) ListIDs(_ context.Context, limit int, after string) ([]string, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	ids := make([]string, 0, len(r.db.posts))
	for id := range r.db.posts {
		ids = append(ids, id)
	}
	return pageIDs(ids, func(s string) string { return s }, limit, after), nil
}

func (r *memPosts) IncrementCounter(_ context.Context, id string, field counters.Field, delta int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.injected("posts.IncrementCounter"); err != nil {
		return err
	}
	p, ok := r.db.posts[id]
	if !ok {
		return ErrPostNotFound
	}
	switch field {
	case counters.TotalComment:
		p.TotalComment = max(p.TotalComment+delta, 0)
	case counters.TotalReaction:
		p.TotalReaction = max(p.TotalReaction+delta, 0)
	}
	return nil
}

func (r *memPosts) SetCounter(_ context.Context, id string, field counters.Field, value int) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.posts[id]
	if !ok {
		return false, ErrPostNotFound
	}
	target := &p.TotalComment
	if field == counters.TotalReaction {
		target = &p.TotalReaction
	}
	if *target == value {
		return false, nil
	}
	*target = value
	return true, nil
}

func overlaps(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

type memTopics struct{ db *memDB }

func (r *memTopics) Create(_ context.Context, topic *Topic) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, t := range r.db.topics {
		if t.Name == topic.Name {
			return ErrTopicNameTaken
		}
		if t.Slug == topic.Slug {
			return slugs.ErrTaken
		}
	}
	c := *topic
	r.db.topics[topic.ID] = &c
	return nil
}

func (r *memTopics) find(match func(*Topic) bool) (*Topic, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, t := range r.db.topics {
		if match(t) {
			c := *t
			return &c, nil
		}
	}
	return nil, ErrTopicNotFound
}

func (r *memTopics) GetByName(_ context.Context, name string) (*Topic, error) {
	return r.find(func(t *Topic) bool { return t.Name == name })
}

func (r *memTopics) GetBySlug(_ context.Context, slug string) (*Topic, error) {
	return r.find(func(t *Topic) bool { return t.Slug == slug })
}

func (r *memTopics) collect(keep func(*Topic) bool) []*Topic {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []*Topic{}
	for _, t := range r.db.topics {
		if keep(t) {
			c := *t
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *memTopics) GetByIDs(_ context.Context, ids []string) ([]*Topic, error) {
	return r.collect(func(t *Topic) bool { return contains(ids, t.ID) }), nil
}

func (r *memTopics) GetBySlugs(_ context.Context, slugs []string) ([]*Topic, error) {
	return r.collect(func(t *Topic) bool { return contains(slugs, t.Slug) }), nil
}

func (r *memTopics) List(_ context.Context, f TopicFilter, limit int, after string) ([]*Topic, error) {
	all := r.collect(func(t *Topic) bool {
		return f.Query == "" || strings.Contains(strings.ToLower(t.Name), strings.ToLower(f.Query))
	})
	return pageIDs(all, func(t *Topic) string { return t.ID }, limit, after), nil
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

type memComments struct{ db *memDB }

func (r *memComments) Create(_ context.Context, c *Comment) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.injected("comments.Create"); err != nil {
		return err
	}
	r.db.comments[c.ID] = copyComment(c)
	return nil
}

func (r *memComments) GetByID(_ context.Context, id, postID string) (*Comment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.comments[id]
	if !ok || c.PostID != postID {
		return nil, ErrCommentNotFound
	}
	return copyComment(c), nil
}

func (r *memComments) UpdateDescription(_ context.Context, id, postID, userID, description string, updatedAt time.Time) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.comments[id]
	if !ok || c.PostID != postID || c.UserID != userID {
		return 0, nil
	}
	c.Description = description
	c.UpdatedAt = updatedAt
	return 1, nil
}

func (r *memComments) Delete(_ context.Context, id, postID, userID string) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.comments[id]
	if !ok || c.PostID != postID || c.UserID != userID {
		return 0, nil
	}
	delete(r.db.comments, id)
	return 1, nil
}

func (r *memComments) ListByPost(_ context.Context, postID string, limit int, after string) ([]*Comment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*Comment
	for _, c := range r.db.comments {
		if c.PostID == postID {
			out = append(out, copyComment(c))
		}
	}
	return pageIDs(out, func(c *Comment) string { return c.ID }, limit, after), nil
}

func (r *memComments) DeleteByPost(_ context.Context, postID string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.injected("comments.DeleteByPost"); err != nil {
		return err
	}
	for id, c := range r.db.comments {
		if c.PostID == postID {
			delete(r.db.comments, id)
		}
	}
	return nil
}

func (r *memComments) CountByPost(_ context.Context, postID string) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	n := 0
	for _, c := range r.db.comments {
		if c.PostID == postID {
			n++
		}
	}
	return n, nil
}

type memReplies struct{ db *memDB }

func (r *memReplies) parent(id string, scope subdocs.Scope) *Comment {
	c, ok := r.db.comments[id]
	if !ok {
		return nil
	}
	if want, ok := scope[subdocs.ScopePostID]; ok && want != c.PostID {
		return nil
	}
	return c
}

func (r *memReplies) Len(_ context.Context, parentID string, scope subdocs.Scope) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c := r.parent(parentID, scope)
	if c == nil {
		return 0, subdocs.ErrParentNotFound
	}
	return len(c.Replies), nil
}

func (r *memReplies) Push(_ context.Context, parentID string, scope subdocs.Scope, item Reply) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c := r.parent(parentID, scope)
	if c == nil {
		return false, nil
	}
	c.Replies = append(c.Replies, item)
	return true, nil
}

func (r *memReplies) UpdateMatching(_ context.Context, parentID string, scope subdocs.Scope, m subdocs.Match, patch ReplyPatch) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c := r.parent(parentID, scope)
	if c == nil {
		return 0, nil
	}
	var n int64
	for i := range c.Replies {
		if c.Replies[i].ID == m.ItemID && c.Replies[i].UserID == m.OwnerID {
			c.Replies[i].Description = patch.Description
			c.Replies[i].UpdatedAt = patch.UpdatedAt
			n++
		}
	}
	return n, nil
}

func (r *memReplies) RemoveMatching(_ context.Context, parentID string, scope subdocs.Scope, m subdocs.Match) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c := r.parent(parentID, scope)
	if c == nil {
		return 0, nil
	}
	kept := make([]Reply, 0, len(c.Replies))
	var n int64
	for _, rep := range c.Replies {
		if rep.ID == m.ItemID && rep.UserID == m.OwnerID {
			n++
			continue
		}
		kept = append(kept, rep)
	}
	c.Replies = kept
	return n, nil
}

func (r *memReplies) Owner(_ context.Context, parentID string, scope subdocs.Scope, itemID string) (string, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c := r.parent(parentID, scope)
	if c == nil {
		return "", subdocs.ErrParentNotFound
	}
	for _, rep := range c.Replies {
		if rep.ID == itemID {
			return rep.UserID, nil
		}
	}
	return "", subdocs.ErrItemNotFound
}

type memReactions struct{ db *memDB }

func (r *memReactions) AddMember(_ context.Context, postID, userID string, capacity int) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.injected("reactions.AddMember"); err != nil {
		return false, err
	}
	doc, ok := r.db.reactions[postID]
	if !ok {
		doc = &Reaction{ID: "reaction-" + postID, PostID: postID, UserIDs: []string{}}
		r.db.reactions[postID] = doc
	}
	if contains(doc.UserIDs, userID) || len(doc.UserIDs) >= capacity {
		return false, nil
	}
	doc.UserIDs = append(doc.UserIDs, userID)
	return true, nil
}

func (r *memReactions) RemoveMember(_ context.Context, postID, userID string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	doc, ok := r.db.reactions[postID]
	if !ok {
		return false, nil
	}
	for i, id := range doc.UserIDs {
		if id == userID {
			doc.UserIDs = append(doc.UserIDs[:i:i], doc.UserIDs[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *memReactions) IsMember(_ context.Context, postID, userID string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	doc, ok := r.db.reactions[postID]
	return ok && contains(doc.UserIDs, userID), nil
}

func (r *memReactions) GetByPost(_ context.Context, postID string) (*Reaction, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	doc, ok := r.db.reactions[postID]
	if !ok {
		return nil, ErrReactionNotFound
	}
	c := *doc
	c.UserIDs = append([]string(nil), doc.UserIDs...)
	return &c, nil
}

func (r *memReactions) DeleteByPost(_ context.Context, postID string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.injected("reactions.DeleteByPost"); err != nil {
		return err
	}
	delete(r.db.reactions, postID)
	return nil
}

func (r *memReactions) Count(_ context.Context, postID string) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if doc, ok := r.db.reactions[postID]; ok {
		return len(doc.UserIDs), nil
	}
	return 0, nil
}

var errStoreDown = errors.New("connection refused")

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// newTestService wires a service over a fresh memDB with a fixed clock
func newTestService(t *testing.T, opts ...Option) (Service, *memDB) {
	t.Helper()
	db := newMemDB()
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	svc, err := NewService(db.repos(), DefaultConfig(), nil, opts...)
	require.NoError(t, err)
	return svc, db
}

// publishedPost creates a published post authored by authorID
func publishedPost(t *testing.T, svc Service, authorID, title string) *Post {
	t.Helper()
	post, err := svc.CreatePost(context.Background(), CreatePostRequest{
		AuthorID:   authorID,
		Title:      title,
		PublishNow: true,
	})
	require.NoError(t, err)
	return post
}

func (db *memDB) post(id string) *Post {
	db.mu.Lock()
	defer db.mu.Unlock()
	if p, ok := db.posts[id]; ok {
		return copyPost(p)
	}
	return nil
}

func (db *memDB) comment(id string) *Comment {
	db.mu.Lock()
	defer db.mu.Unlock()
	if c, ok := db.comments[id]; ok {
		return copyComment(c)
	}
	return nil
}
