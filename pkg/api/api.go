// Package api wraps the REST backend. Each domain is a thin service over
// the generic Resource; all of them send through one session-aware
// client.
package api

import "github.com/chhengkhim/confessboard/pkg/client"

// API groups the domain services
type API struct {
	Client        *client.Client
	Auth          *AuthService
	Posts         *PostService
	Comments      *CommentService
	Likes         *LikeService
	Notifications *NotificationService
	Messages      *MessageService
	Tags          *Resource[Tag]
	FAQs          *Resource[FAQ]
	Admin         *AdminService
}

// New binds every service to c
func New(c *client.Client) *API {
	return &API{
		Client:        c,
		Auth:          &AuthService{client: c},
		Posts:         &PostService{NewResource[Post](c, "posts", "/api/posts")},
		Comments:      &CommentService{NewResource[Comment](c, "comments", "/api/comments")},
		Likes:         &LikeService{client: c},
		Notifications: &NotificationService{NewResource[Notification](c, "notifications", "/api/notifications")},
		Messages:      &MessageService{NewResource[Message](c, "messages", "/api/messages")},
		Tags:          NewResource[Tag](c, "tags", "/api/tags"),
		FAQs:          NewResource[FAQ](c, "faqs", "/api/faqs"),
		Admin: &AdminService{
			client:      c,
			Users:       NewResource[User](c, "users", "/api/admin/users"),
			Confessions: NewResource[Post](c, "confessions", "/api/admin/confessions"),
		},
	}
}
