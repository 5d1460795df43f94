package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/chhengkhim/confessboard/pkg/api"
	cerrors "github.com/chhengkhim/confessboard/pkg/errors"
	"github.com/chhengkhim/confessboard/pkg/logger"
	"github.com/chhengkhim/confessboard/pkg/output"
)

// AdminService provides moderation and analytics operations
type AdminService struct {
	*Env
}

// NewAdminService creates a new admin service
func NewAdminService(env *Env) *AdminService {
	return &AdminService{Env: env}
}

// requireAdmin fails unless the session user is an admin. The server
// enforces this too; checking here saves a round trip.
func (s *AdminService) requireAdmin() error {
	if err := s.requireLogin(); err != nil {
		return err
	}
	if !s.Session().User().IsAdmin() {
		return cerrors.NewCLIError(cerrors.ErrorTypeForbidden, "admin role required", nil)
	}
	return nil
}

// ListUsers shows one page of users
func (s *AdminService) ListUsers(ctx context.Context, q api.ListQuery) error {
	if err := s.requireAdmin(); err != nil {
		return err
	}
	if err := s.Store.Admin.Users.Fetch(ctx, q); err != nil {
		return err
	}
	return listResult(s.Out, s.Store.Admin.Users.Snapshot(), []string{"ID", "Name", "Email", "Role", "Banned"}, func(u api.User) []string {
		return []string{fmt.Sprint(u.ID), u.Name, u.Email, u.Role, yesNo(u.IsBanned)}
	})
}

// Ban suspends a user
func (s *AdminService) Ban(ctx context.Context, userID int64, reason string, force bool) error {
	if err := s.requireAdmin(); err != nil {
		return err
	}
	ok, err := s.confirm(force, fmt.Sprintf("Ban user %d?", userID))
	if err != nil || !ok {
		return err
	}
	user, err := s.Store.Admin.Ban(ctx, userID, reason)
	if err != nil {
		return err
	}
	s.Out.Success("User %s banned", user.Email)
	return nil
}

// Unban lifts a suspension
func (s *AdminService) Unban(ctx context.Context, userID int64) error {
	if err := s.requireAdmin(); err != nil {
		return err
	}
	user, err := s.Store.Admin.Unban(ctx, userID)
	if err != nil {
		return err
	}
	s.Out.Success("User %s unbanned", user.Email)
	return nil
}

// Pending shows the moderation queue
func (s *AdminService) Pending(ctx context.Context, q api.ListQuery) error {
	if err := s.requireAdmin(); err != nil {
		return err
	}
	if err := s.Store.Admin.FetchPending(ctx, q); err != nil {
		return err
	}
	return listResult(s.Out, s.Store.Admin.Confessions.Snapshot(), []string{"ID", "Title", "Author", "Created"}, func(p api.Post) []string {
		return []string{fmt.Sprint(p.ID), output.Truncate(p.Title, 50), author(p.User, false), p.CreatedAt}
	})
}

// Approve publishes a confession
func (s *AdminService) Approve(ctx context.Context, postID int64) error {
	if err := s.requireAdmin(); err != nil {
		return err
	}
	post, err := s.Store.Admin.Approve(ctx, postID)
	if err != nil {
		return err
	}
	s.Out.Success("Confession %d approved", post.ID)
	return nil
}

// Reject declines a confession with an optional reason
func (s *AdminService) Reject(ctx context.Context, postID int64, reason string) error {
	if err := s.requireAdmin(); err != nil {
		return err
	}
	if reason == "" {
		var err error
		if reason, err = s.Prompt.String("Reason (optional): "); err != nil {
			return err
		}
	}
	post, err := s.Store.Admin.Reject(ctx, postID, reason)
	if err != nil {
		return err
	}
	s.Out.Success("Confession %d rejected", post.ID)
	return nil
}

// Stats shows the analytics overview
func (s *AdminService) Stats(ctx context.Context) error {
	if err := s.requireAdmin(); err != nil {
		return err
	}
	stats, err := s.Store.Admin.LoadStats(ctx)
	if err != nil {
		return err
	}
	return s.Out.Record("Overview", statsFields(stats))
}

func statsFields(st *api.Stats) []output.Field {
	return []output.Field{
		{Key: "users", Value: st.TotalUsers},
		{Key: "banned", Value: st.BannedUsers},
		{Key: "confessions", Value: st.TotalConfessions},
		{Key: "pending", Value: st.PendingConfessions},
		{Key: "approved_today", Value: st.ApprovedToday},
		{Key: "comments", Value: st.TotalComments},
		{Key: "likes", Value: st.TotalLikes},
		{Key: "unread_messages", Value: st.UnreadMessages},
	}
}

// Dashboard loads the overview, the moderation queue and the unread
// notification count at once. The first failure cancels the rest.
func (s *AdminService) Dashboard(ctx context.Context) error {
	if err := s.requireAdmin(); err != nil {
		return err
	}

	var (
		stats  *api.Stats
		unread int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats, err = s.Store.Admin.LoadStats(gctx)
		return err
	})
	g.Go(func() error {
		return s.Store.Admin.FetchPending(gctx, api.ListQuery{Page: 1})
	})
	g.Go(func() error {
		var err error
		unread, err = s.Store.Notifications.RefreshUnread(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		logger.Debug("Dashboard load failed", "error", err)
		return err
	}

	pending := s.Store.Admin.Confessions.Snapshot()
	if s.Out.Format == output.FormatJSON {
		return s.Out.Print("", map[string]interface{}{
			"stats":   stats,
			"pending": pending.Items,
			"unread":  unread,
		})
	}

	fields := append(statsFields(stats), output.Field{Key: "unread_notifications", Value: unread})
	if err := s.Out.Record("Overview", fields); err != nil {
		return err
	}
	fmt.Fprintln(s.Out.Out)
	return listResult(s.Out, pending, []string{"ID", "Pending confession", "Author"}, func(p api.Post) []string {
		return []string{fmt.Sprint(p.ID), output.Truncate(p.Title, 50), author(p.User, false)}
	})
}
