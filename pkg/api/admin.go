package api

import (
	"context"
	"net/http"

	"github.com/chhengkhim/confessboard/pkg/client"
	"github.com/chhengkhim/confessboard/pkg/logger"
)

// AdminService wraps the moderation endpoints. Every call needs an admin
// token; anything else gets a 403.
type AdminService struct {
	client      *client.Client
	Users       *Resource[User]
	Confessions *Resource[Post]
}

// Ban suspends a user
func (s *AdminService) Ban(ctx context.Context, userID int64, reason string) (*User, error) {
	logger.Debug("Banning user", "user_id", userID)
	return s.Users.Do(ctx, http.MethodPost, s.Users.Member(userID, "ban"), ModerationRequest{Reason: reason})
}

// Unban lifts a suspension
func (s *AdminService) Unban(ctx context.Context, userID int64) (*User, error) {
	logger.Debug("Unbanning user", "user_id", userID)
	return s.Users.Do(ctx, http.MethodPost, s.Users.Member(userID, "unban"), nil)
}

// Pending lists confessions waiting for moderation
func (s *AdminService) Pending(ctx context.Context, q ListQuery) (*Page[Post], error) {
	return s.Confessions.List(ctx, q.With("status", StatusPending))
}

// Approve publishes a confession
func (s *AdminService) Approve(ctx context.Context, postID int64) (*Post, error) {
	logger.Debug("Approving confession", "post_id", postID)
	return s.Confessions.Do(ctx, http.MethodPost, s.Confessions.Member(postID, "approve"), nil)
}

// Reject declines a confession with an optional reason
func (s *AdminService) Reject(ctx context.Context, postID int64, reason string) (*Post, error) {
	logger.Debug("Rejecting confession", "post_id", postID)
	return s.Confessions.Do(ctx, http.MethodPost, s.Confessions.Member(postID, "reject"), ModerationRequest{Reason: reason})
}

// Stats returns the analytics overview
func (s *AdminService) Stats(ctx context.Context) (*Stats, error) {
	env, err := send(ctx, s.client, http.MethodGet, "/api/admin/stats", nil)
	if err != nil {
		return nil, err
	}
	return decodeOne[Stats](env)
}
