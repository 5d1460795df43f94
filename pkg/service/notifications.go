package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chhengkhim/confessboard/pkg/api"
	"github.com/chhengkhim/confessboard/pkg/logger"
	"github.com/chhengkhim/confessboard/pkg/output"
	"github.com/chhengkhim/confessboard/pkg/store"
)

// NotificationService provides notification operations
type NotificationService struct {
	*Env
}

// NewNotificationService creates a new notification service
func NewNotificationService(env *Env) *NotificationService {
	return &NotificationService{Env: env}
}

// List shows one page of notifications
func (s *NotificationService) List(ctx context.Context, q api.ListQuery) error {
	if err := s.requireLogin(); err != nil {
		return err
	}
	if err := s.Store.Notifications.Fetch(ctx, q); err != nil {
		return err
	}
	return listResult(s.Out, s.Store.Notifications.Snapshot(), []string{"ID", "", "Title", "Message", "Created"}, func(n api.Notification) []string {
		marker := " "
		if !n.IsRead {
			marker = "•"
		}
		return []string{fmt.Sprint(n.ID), marker, n.Title, output.Truncate(n.Message, 50), n.CreatedAt}
	})
}

// Unread shows the unread count
func (s *NotificationService) Unread(ctx context.Context) error {
	if err := s.requireLogin(); err != nil {
		return err
	}
	n, err := s.Store.Notifications.RefreshUnread(ctx)
	if err != nil {
		return err
	}
	if s.Out.Format == output.FormatJSON {
		return s.Out.Print("", map[string]int{"unread": n})
	}
	s.Out.Info("%d unread notification(s)", n)
	return nil
}

// MarkRead marks one notification read
func (s *NotificationService) MarkRead(ctx context.Context, id int64) error {
	if err := s.requireLogin(); err != nil {
		return err
	}
	if err := s.Store.Notifications.MarkRead(ctx, id); err != nil {
		return err
	}
	s.Out.Success("Notification %d marked as read", id)
	return nil
}

// MarkAllRead marks every notification read
func (s *NotificationService) MarkAllRead(ctx context.Context) error {
	if err := s.requireLogin(); err != nil {
		return err
	}
	if err := s.Store.Notifications.MarkAllRead(ctx); err != nil {
		return err
	}
	s.Out.Success("All notifications marked as read")
	return nil
}

// Delete removes a notification
func (s *NotificationService) Delete(ctx context.Context, id int64) error {
	if err := s.requireLogin(); err != nil {
		return err
	}
	if err := s.Store.Notifications.Delete(ctx, id); err != nil {
		return err
	}
	s.Out.Success("Notification %d deleted", id)
	return nil
}

// Watch polls for new notifications every interval and prints each one
// once, until ctx is done, and then returns ctx's error. Notifications
// present at start are not printed.
func (s *NotificationService) Watch(ctx context.Context, interval time.Duration) error {
	if err := s.requireLogin(); err != nil {
		return err
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}
	slice := s.Store.Notifications
	q := api.ListQuery{Page: 1}

	if err := slice.Fetch(ctx, q); err != nil {
		return err
	}
	seen := map[int64]bool{}
	for _, n := range slice.Snapshot().Items {
		seen[n.ID] = true
	}

	unsubscribe := slice.Subscribe(func(st store.State[api.Notification]) {
		if st.IsLoading(store.OpFetch) {
			return
		}
		// oldest first
		for i := len(st.Items) - 1; i >= 0; i-- {
			n := st.Items[i]
			if seen[n.ID] {
				continue
			}
			seen[n.ID] = true
			s.Out.Info("[%s] %s: %s", n.CreatedAt, n.Title, n.Message)
		}
	})
	defer unsubscribe()

	s.Out.Info("Watching for notifications every %s. Press Ctrl+C to stop.", interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := slice.Fetch(ctx, q); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("Notification poll failed", "error", err)
			}
		}
	}
}
