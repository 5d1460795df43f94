package store

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/chhengkhim/confessboard/pkg/api"
	"github.com/chhengkhim/confessboard/pkg/client"
	"github.com/chhengkhim/confessboard/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type routes struct {
	mu    sync.Mutex
	table map[string]string
	hits  map[string]int
}

func (r *routes) set(route, body string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.table[route] = body
}

func (r *routes) count(route string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hits[route]
}

func newTestStore(t *testing.T) (*Store, *routes) {
	t.Helper()
	r := &routes{table: map[string]string{}, hits: map[string]int{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		_, _ = io.Copy(io.Discard, req.Body)
		key := req.Method + " " + req.URL.Path
		r.mu.Lock()
		body, ok := r.table[key]
		r.hits[key]++
		r.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"success":false,"message":"Not found"}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	sess := session.New(session.Options{})
	require.NoError(t, sess.InitializeFromStorage(context.Background()))
	c := client.New(client.Options{BaseURL: srv.URL}, sess, nil)
	return New(api.New(c), Options{Debounce: 10 * time.Millisecond, PerPage: 10}), r
}

func TestLoginFillsAuthSlice(t *testing.T) {
	st, r := newTestStore(t)
	r.set("POST /api/auth/login", `{"success":true,"data":{"user":{"id":1,"name":"Admin","role":"admin"},"token":"tok"}}`)

	user, err := st.Auth.Login(context.Background(), api.LoginRequest{Email: "a@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "Admin", user.Name)

	snap := st.Auth.Snapshot()
	assert.True(t, snap.IsAuthenticated)
	assert.Equal(t, int64(1), snap.User.ID)
	assert.False(t, snap.Loading[OpFetch])
}

func TestFailedLoginRecordsError(t *testing.T) {
	st, _ := newTestStore(t)

	_, err := st.Auth.Login(context.Background(), api.LoginRequest{Email: "a@example.com"})
	require.Error(t, err)

	snap := st.Auth.Snapshot()
	assert.False(t, snap.IsAuthenticated)
	require.NotNil(t, snap.Error)
	assert.Equal(t, "Not found", snap.Error.Message)
}

func TestToggleLikeUpdatesCachedPost(t *testing.T) {
	st, r := newTestStore(t)
	r.set("GET /api/posts", `{"success":true,"data":[{"id":5,"likes_count":3,"is_liked":true}],"meta":{"current_page":1,"per_page":10,"total":1,"last_page":1}}`)
	r.set("POST /api/posts/5/like", `{"success":false,"message":"You have already liked this post"}`)
	r.set("DELETE /api/posts/5/like", `{"success":true,"data":{"liked":false,"likes_count":2}}`)
	ctx := context.Background()

	require.NoError(t, st.Posts.Fetch(ctx, api.ListQuery{Page: 1}))
	_, err := st.Likes.Toggle(ctx, 5)
	require.NoError(t, err)

	assert.Equal(t, 1, r.count("DELETE /api/posts/5/like"))
	post := st.Posts.Snapshot().Items[0]
	assert.False(t, post.IsLiked)
	assert.Equal(t, 2, post.LikesCount)
	assert.False(t, st.Likes.Snapshot().Posts[5].Liked)
	assert.Empty(t, st.Likes.Snapshot().Loading)
}

func TestLikeWithoutDataKeepsCachedCount(t *testing.T) {
	st, r := newTestStore(t)
	r.set("GET /api/posts", `{"success":true,"data":[{"id":5,"likes_count":3,"is_liked":false}],"meta":{"current_page":1,"per_page":10,"total":1,"last_page":1}}`)
	r.set("POST /api/posts/5/like", `{"success":true,"message":"Post liked successfully"}`)
	r.set("DELETE /api/posts/5/like", `{"success":true,"message":"Post unliked successfully"}`)
	ctx := context.Background()

	require.NoError(t, st.Posts.Fetch(ctx, api.ListQuery{Page: 1}))

	state, err := st.Likes.Like(ctx, 5)
	require.NoError(t, err)
	assert.True(t, state.Liked)
	assert.False(t, state.Counted)

	post := st.Posts.Snapshot().Items[0]
	assert.True(t, post.IsLiked)
	assert.Equal(t, 4, post.LikesCount)

	_, err = st.Likes.Unlike(ctx, 5)
	require.NoError(t, err)

	post = st.Posts.Snapshot().Items[0]
	assert.False(t, post.IsLiked)
	assert.Equal(t, 3, post.LikesCount)
}

func TestCommentsFollowTheLoadedPost(t *testing.T) {
	st, r := newTestStore(t)
	r.set("GET /api/posts/1/comments", `{"success":true,"data":[{"id":10,"post_id":1},{"id":11,"post_id":1}]}`)
	r.set("GET /api/posts/2/comments", `{"success":true,"data":[{"id":20,"post_id":2}]}`)
	r.set("POST /api/posts/2/comments", `{"success":true,"data":{"id":21,"post_id":2,"content":"hi"}}`)
	ctx := context.Background()

	require.NoError(t, st.Comments.Load(ctx, 1, api.ListQuery{}))
	assert.Len(t, st.Comments.Snapshot().Items, 2)

	require.NoError(t, st.Comments.Load(ctx, 2, api.ListQuery{}))
	assert.Equal(t, int64(2), st.Comments.PostID())
	assert.Len(t, st.Comments.Snapshot().Items, 1)

	_, err := st.Comments.Add(ctx, 2, api.CommentRequest{Content: "hi"})
	require.NoError(t, err)
	snap := st.Comments.Snapshot()
	assert.Equal(t, int64(21), snap.Items[0].ID)
	assert.Equal(t, 2, snap.Pagination.Total)
}

func TestNotificationUnreadCounter(t *testing.T) {
	st, r := newTestStore(t)
	r.set("GET /api/notifications", `{"success":true,"data":[{"id":1,"is_read":false},{"id":2,"is_read":false},{"id":3,"is_read":true}]}`)
	r.set("GET /api/notifications/unread-count", `{"success":true,"data":{"count":2}}`)
	r.set("PUT /api/notifications/1/read", `{"success":true}`)
	r.set("DELETE /api/notifications/2", `{"success":true}`)
	r.set("PUT /api/notifications/read-all", `{"success":true}`)
	ctx := context.Background()

	require.NoError(t, st.Notifications.Fetch(ctx, api.ListQuery{}))
	n, err := st.Notifications.RefreshUnread(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, st.Notifications.Unread())

	require.NoError(t, st.Notifications.MarkRead(ctx, 1))
	assert.Equal(t, 1, st.Notifications.Unread())
	assert.True(t, st.Notifications.Snapshot().Items[0].IsRead)

	// Marking it again does not count twice
	require.NoError(t, st.Notifications.MarkRead(ctx, 1))
	assert.Equal(t, 1, st.Notifications.Unread())

	require.NoError(t, st.Notifications.Delete(ctx, 2))
	assert.Equal(t, 0, st.Notifications.Unread())
	assert.Len(t, st.Notifications.Snapshot().Items, 2)

	require.NoError(t, st.Notifications.MarkAllRead(ctx))
	for _, item := range st.Notifications.Snapshot().Items {
		assert.True(t, item.IsRead)
	}
}

func TestMessageReply(t *testing.T) {
	st, r := newTestStore(t)
	r.set("GET /api/messages", `{"success":true,"data":[{"id":1,"status":"unread"},{"id":2,"status":"unread"}]}`)
	r.set("POST /api/messages/2/reply", `{"success":true,"data":{"id":2,"status":"replied","admin_reply":"ok"}}`)
	ctx := context.Background()

	require.NoError(t, st.Messages.Fetch(ctx, api.ListQuery{}))
	_, err := st.Messages.Reply(ctx, 2, api.ReplyRequest{Reply: "ok"})
	require.NoError(t, err)

	snap := st.Messages.Snapshot()
	assert.Equal(t, "replied", snap.Items[1].Status)
	assert.Equal(t, 2, len(snap.Items))
	assert.False(t, snap.IsLoading(OpReply))
}

func TestApproveDropsPostFromPendingQueue(t *testing.T) {
	st, r := newTestStore(t)
	r.set("GET /api/admin/confessions", `{"success":true,"data":[{"id":1,"status":"pending"},{"id":2,"status":"pending"}],"meta":{"current_page":1,"per_page":10,"total":2,"last_page":1}}`)
	r.set("POST /api/admin/confessions/1/approve", `{"success":true,"data":{"id":1,"status":"approved"}}`)
	r.set("GET /api/admin/stats", `{"success":true,"data":{"total_users":3}}`)
	ctx := context.Background()

	require.NoError(t, st.Admin.FetchPending(ctx, api.ListQuery{Page: 1}))
	_, err := st.Admin.Approve(ctx, 1)
	require.NoError(t, err)

	snap := st.Admin.Confessions.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, int64(2), snap.Items[0].ID)
	assert.Equal(t, 1, snap.Pagination.Total)

	_, err = st.Admin.LoadStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, st.Admin.Stats().Stats.TotalUsers)
}

func TestStoreLogoutResets(t *testing.T) {
	st, r := newTestStore(t)
	r.set("POST /api/auth/login", `{"success":true,"data":{"user":{"id":1},"token":"tok"}}`)
	r.set("GET /api/tags", `{"success":true,"data":[{"id":1}]}`)
	r.set("POST /api/auth/logout", `{"success":true}`)
	ctx := context.Background()

	_, err := st.Auth.Login(ctx, api.LoginRequest{})
	require.NoError(t, err)
	require.NoError(t, st.Tags.Fetch(ctx, api.ListQuery{}))

	require.NoError(t, st.Logout(ctx))
	assert.False(t, st.Auth.Snapshot().IsAuthenticated)
	assert.Empty(t, st.Tags.Snapshot().Items)
	assert.Equal(t, "", st.API.Client.Session().Credential())
}
