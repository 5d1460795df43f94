package api

import (
	"context"
	"net/http"

	"github.com/chhengkhim/confessboard/pkg/logger"
)

// MessageService sends messages to the admins and handles their replies
type MessageService struct {
	*Resource[Message]
}

// Send creates a message
func (s *MessageService) Send(ctx context.Context, req SendMessageRequest) (*Message, error) {
	return s.Create(ctx, req)
}

// Reply answers a message (admin only)
func (s *MessageService) Reply(ctx context.Context, id int64, req ReplyRequest) (*Message, error) {
	logger.Debug("Replying to message", "id", id)
	return s.Do(ctx, http.MethodPost, s.Member(id, "reply"), req)
}

// MarkRead marks a message as read
func (s *MessageService) MarkRead(ctx context.Context, id int64) error {
	_, err := send(ctx, s.client, http.MethodPut, s.Member(id, "read"), nil)
	return err
}
