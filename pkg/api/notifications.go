package api

import (
	"context"
	"net/http"

	"github.com/chhengkhim/confessboard/pkg/logger"
)

// NotificationService reads and acknowledges notifications
type NotificationService struct {
	*Resource[Notification]
}

type unreadCount struct {
	Count       *int `json:"count"`
	UnreadCount *int `json:"unread_count"`
}

// UnreadCount returns the number of unread notifications
func (s *NotificationService) UnreadCount(ctx context.Context) (int, error) {
	env, err := send(ctx, s.client, http.MethodGet, s.Collection+"/unread-count", nil)
	if err != nil {
		return 0, err
	}
	body, err := decodeOne[unreadCount](env)
	if err != nil {
		return 0, err
	}

	switch {
	case body.Count != nil:
		return *body.Count, nil
	case body.UnreadCount != nil:
		return *body.UnreadCount, nil
	}
	return 0, nil
}

// MarkRead marks one notification as read
func (s *NotificationService) MarkRead(ctx context.Context, id int64) error {
	logger.Debug("Marking notification read", "id", id)

	_, err := send(ctx, s.client, http.MethodPut, s.Member(id, "read"), nil)
	return err
}

// MarkAllRead marks every notification as read
func (s *NotificationService) MarkAllRead(ctx context.Context) error {
	logger.Debug("Marking all notifications read")

	_, err := send(ctx, s.client, http.MethodPut, s.Collection+"/read-all", nil)
	return err
}
