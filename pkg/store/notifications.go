package store

import (
	"context"
	"sync/atomic"

	"github.com/chhengkhim/confessboard/pkg/api"
)

// NotificationsSlice is the notification list plus the unread counter
type NotificationsSlice struct {
	*Slice[api.Notification]
	svc    *api.NotificationService
	unread atomic.Int64
}

// Unread returns the last known unread count
func (s *NotificationsSlice) Unread() int {
	return int(s.unread.Load())
}

func (s *NotificationsSlice) setUnread(n int) {
	if n < 0 {
		n = 0
	}
	s.unread.Store(int64(n))
}

// RefreshUnread asks the server for the unread count
func (s *NotificationsSlice) RefreshUnread(ctx context.Context) (int, error) {
	return Dispatch(ctx, s.Slice, OpFetch, s.svc.UnreadCount, func(_ *State[api.Notification], n int) {
		s.setUnread(n)
	})
}

// MarkRead marks one notification read
func (s *NotificationsSlice) MarkRead(ctx context.Context, id int64) error {
	_, err := Dispatch(ctx, s.Slice, OpMarkRead, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.svc.MarkRead(ctx, id)
	}, func(st *State[api.Notification], _ struct{}) {
		if n, ok := st.Find(id); ok && !n.IsRead {
			n.IsRead = true
			st.Replace(n)
			s.setUnread(s.Unread() - 1)
		}
	})
	return err
}

// MarkAllRead marks every notification read
func (s *NotificationsSlice) MarkAllRead(ctx context.Context) error {
	_, err := Dispatch(ctx, s.Slice, OpMarkRead, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.svc.MarkAllRead(ctx)
	}, func(st *State[api.Notification], _ struct{}) {
		for i := range st.Items {
			st.Items[i].IsRead = true
		}
		s.setUnread(0)
	})
	return err
}

// Delete removes a notification, uncounting it if it was unread
func (s *NotificationsSlice) Delete(ctx context.Context, id int64) error {
	_, err := Dispatch(ctx, s.Slice, OpDelete, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.svc.Delete(ctx, id)
	}, func(st *State[api.Notification], _ struct{}) {
		if n, ok := st.Find(id); ok && !n.IsRead {
			s.setUnread(s.Unread() - 1)
		}
		st.Remove(id)
	})
	return err
}

// MessagesSlice holds user-to-admin messages
type MessagesSlice struct {
	*Slice[api.Message]
	svc *api.MessageService
}

// Send creates a message and prepends it
func (s *MessagesSlice) Send(ctx context.Context, req api.SendMessageRequest) (*api.Message, error) {
	return s.Create(ctx, req)
}

// Reply answers a message and splices the answered record in place
func (s *MessagesSlice) Reply(ctx context.Context, id int64, req api.ReplyRequest) (*api.Message, error) {
	return Dispatch(ctx, s.Slice, OpReply, func(ctx context.Context) (*api.Message, error) {
		return s.svc.Reply(ctx, id, req)
	}, func(st *State[api.Message], msg *api.Message) {
		st.Replace(*msg)
	})
}

// MarkRead marks a message read
func (s *MessagesSlice) MarkRead(ctx context.Context, id int64) error {
	_, err := Dispatch(ctx, s.Slice, OpMarkRead, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.svc.MarkRead(ctx, id)
	}, func(st *State[api.Message], _ struct{}) {
		if m, ok := st.Find(id); ok {
			m.IsRead = true
			st.Replace(m)
		}
	})
	return err
}
