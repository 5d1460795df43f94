package api

import (
	"strconv"

	"github.com/chhengkhim/confessboard/pkg/credentials"
)

// Entity is anything the backend keys by integer id.
type Entity interface {
	GetID() int64
}

// Meta is the pagination envelope
type Meta struct {
	CurrentPage int `json:"current_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
	LastPage    int `json:"last_page"`
}

// Page is one page of a list endpoint
type Page[T any] struct {
	Items []T `json:"items"`
	Meta  Meta `json:"meta"`
}

// ListQuery holds the common list parameters. Zero values are omitted.
type ListQuery struct {
	Page    int
	PerPage int
	Search  string
	Filters map[string]string
}

// Params renders the query as request parameters
func (q ListQuery) Params() map[string]string {
	params := make(map[string]string, len(q.Filters)+3)
	if q.Page > 0 {
		params["page"] = strconv.Itoa(q.Page)
	}
	if q.PerPage > 0 {
		params["per_page"] = strconv.Itoa(q.PerPage)
	}
	if q.Search != "" {
		params["search"] = q.Search
	}
	for k, v := range q.Filters {
		if v != "" {
			params[k] = v
		}
	}
	return params
}

// With returns a copy of q with one more filter
func (q ListQuery) With(key, value string) ListQuery {
	filters := make(map[string]string, len(q.Filters)+1)
	for k, v := range q.Filters {
		filters[k] = v
	}
	filters[key] = value
	q.Filters = filters
	return q
}

// Auth Types

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

type ProfileUpdate struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Bio   string `json:"bio,omitempty"`
}

// AuthResult is the data of a login or register response
type AuthResult struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type User struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	Avatar       string `json:"avatar,omitempty"`
	Bio          string `json:"bio,omitempty"`
	IsBanned     bool   `json:"is_banned"`
	BannedReason string `json:"banned_reason,omitempty"`
	PostsCount   int    `json:"posts_count"`
	CreatedAt    string `json:"created_at"`
}

func (u User) GetID() int64 { return u.ID }

// Identity is the summary the session keeps next to the token
func (u User) Identity() *credentials.User {
	return &credentials.User{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// Content Types

// Post is a confession
type Post struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	Content       string `json:"content"`
	Status        string `json:"status"`
	ImageURL      string `json:"image_url,omitempty"`
	IsAnonymous   bool   `json:"is_anonymous"`
	User          *User  `json:"user,omitempty"`
	Tags          []Tag  `json:"tags,omitempty"`
	LikesCount    int    `json:"likes_count"`
	CommentsCount int    `json:"comments_count"`
	IsLiked       bool   `json:"is_liked"`
	RejectReason  string `json:"reject_reason,omitempty"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

func (p Post) GetID() int64 { return p.ID }

// Post moderation statuses
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

type CreatePostRequest struct {
	Title       string  `json:"title"`
	Content     string  `json:"content"`
	IsAnonymous bool    `json:"is_anonymous"`
	TagIDs      []int64 `json:"tag_ids,omitempty"`
}

type UpdatePostRequest struct {
	Title   string  `json:"title,omitempty"`
	Content string  `json:"content,omitempty"`
	TagIDs  []int64 `json:"tag_ids,omitempty"`
}

type Comment struct {
	ID          int64  `json:"id"`
	PostID      int64  `json:"post_id"`
	UserID      int64  `json:"user_id"`
	User        *User  `json:"user,omitempty"`
	Content     string `json:"content"`
	IsAnonymous bool   `json:"is_anonymous"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func (c Comment) GetID() int64 { return c.ID }

type CommentRequest struct {
	Content     string `json:"content"`
	IsAnonymous bool   `json:"is_anonymous,omitempty"`
}

// LikeState is the like state of one post
type LikeState struct {
	PostID     int64  `json:"post_id"`
	Liked      bool   `json:"liked"`
	LikesCount int    `json:"likes_count"`
	Message    string `json:"-"`

	// Counted is false when the server answered without data, in which
	// case LikesCount is unknown and Liked follows from the request
	Counted bool `json:"-"`
}

type Notification struct {
	ID        int64                  `json:"id"`
	Type      string                 `json:"type"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	IsRead    bool                   `json:"is_read"`
	Data      map[string]interface{} `json:"data,omitempty"`
	CreatedAt string                 `json:"created_at"`
}

func (n Notification) GetID() int64 { return n.ID }

// Message is a user-to-admin message
type Message struct {
	ID         int64  `json:"id"`
	Subject    string `json:"subject"`
	Body       string `json:"message"`
	Status     string `json:"status"`
	IsRead     bool   `json:"is_read"`
	AdminReply string `json:"admin_reply,omitempty"`
	RepliedAt  string `json:"replied_at,omitempty"`
	User       *User  `json:"user,omitempty"`
	CreatedAt  string `json:"created_at"`
}

func (m Message) GetID() int64 { return m.ID }

type SendMessageRequest struct {
	Subject string `json:"subject"`
	Body    string `json:"message"`
}

type ReplyRequest struct {
	Reply string `json:"reply"`
}

type Tag struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Slug       string `json:"slug,omitempty"`
	PostsCount int    `json:"posts_count"`
}

func (t Tag) GetID() int64 { return t.ID }

type TagRequest struct {
	Name string `json:"name"`
}

type FAQ struct {
	ID          int64  `json:"id"`
	Question    string `json:"question"`
	Answer      string `json:"answer"`
	IsPublished bool   `json:"is_published"`
	SortOrder   int    `json:"sort_order"`
}

func (f FAQ) GetID() int64 { return f.ID }

type FAQRequest struct {
	Question    string `json:"question"`
	Answer      string `json:"answer"`
	IsPublished *bool  `json:"is_published,omitempty"`
	SortOrder   *int   `json:"sort_order,omitempty"`
}

// Admin Types

type UserUpdate struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

type ModerationRequest struct {
	Reason string `json:"reason,omitempty"`
}

// Stats is the admin analytics overview
type Stats struct {
	TotalUsers         int `json:"total_users"`
	BannedUsers        int `json:"banned_users"`
	TotalConfessions   int `json:"total_confessions"`
	PendingConfessions int `json:"pending_confessions"`
	ApprovedToday      int `json:"approved_today"`
	TotalComments      int `json:"total_comments"`
	TotalLikes         int `json:"total_likes"`
	UnreadMessages     int `json:"unread_messages"`
}
