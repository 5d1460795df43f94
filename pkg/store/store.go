package store

import (
	"context"
	"time"

	"github.com/chhengkhim/confessboard/pkg/api"
)

// Options configures a Store
type Options struct {
	Debounce time.Duration
	PerPage  int
	// Context bounds debounced fetches
	Context context.Context
}

// Store is the root of every slice
type Store struct {
	API           *api.API
	Auth          *AuthSlice
	Posts         *PostsSlice
	Comments      *CommentsSlice
	Likes         *LikesSlice
	Notifications *NotificationsSlice
	Messages      *MessagesSlice
	Tags          *Slice[api.Tag]
	FAQs          *Slice[api.FAQ]
	Admin         *AdminSlice
}

func sliceOptions[T any](opts Options) SliceOptions[T] {
	return SliceOptions[T]{
		PerPage:  opts.PerPage,
		Debounce: NewDebouncer(opts.Debounce),
		Context:  opts.Context,
	}
}

// New builds a store over a
func New(a *api.API, opts Options) *Store {
	s := &Store{
		API:  a,
		Auth: newAuthSlice(a.Auth, a.Client.Session()),
		Posts: &PostsSlice{
			Slice: NewSlice[api.Post]("posts", a.Posts, sliceOptions[api.Post](opts)),
			svc:   a.Posts,
		},
		Comments: newCommentsSlice(a.Comments, sliceOptions[api.Comment](opts)),
		Likes:    newLikesSlice(a.Likes),
		Notifications: &NotificationsSlice{
			Slice: NewSlice[api.Notification]("notifications", a.Notifications, sliceOptions[api.Notification](opts)),
			svc:   a.Notifications,
		},
		Messages: &MessagesSlice{
			Slice: NewSlice[api.Message]("messages", a.Messages, sliceOptions[api.Message](opts)),
			svc:   a.Messages,
		},
		Tags: NewSlice[api.Tag]("tags", a.Tags, sliceOptions[api.Tag](opts)),
		FAQs: NewSlice[api.FAQ]("faqs", a.FAQs, sliceOptions[api.FAQ](opts)),
		Admin: &AdminSlice{
			svc:         a.Admin,
			Users:       NewSlice[api.User]("admin.users", a.Admin.Users, sliceOptions[api.User](opts)),
			Confessions: NewSlice[api.Post]("admin.confessions", a.Admin.Confessions, sliceOptions[api.Post](opts)),
		},
	}
	s.Likes.OnChange = s.Posts.ApplyLike
	return s
}

// Reset empties every slice, as after a logout
func (s *Store) Reset() {
	s.Auth.Clear()
	s.Posts.Reset()
	s.Comments.Reset()
	s.Likes.Clear()
	s.Notifications.Reset()
	s.Notifications.setUnread(0)
	s.Messages.Reset()
	s.Tags.Reset()
	s.FAQs.Reset()
	s.Admin.reset()
}

// Logout signs out and empties the store
func (s *Store) Logout(ctx context.Context) error {
	err := s.Auth.Logout(ctx)
	s.Reset()
	return err
}
