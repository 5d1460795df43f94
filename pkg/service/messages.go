package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/chhengkhim/confessboard/pkg/api"
	cerrors "github.com/chhengkhim/confessboard/pkg/errors"
	"github.com/chhengkhim/confessboard/pkg/output"
)

// MessageService handles messages between users and admins
type MessageService struct {
	*Env
}

// NewMessageService creates a new message service
func NewMessageService(env *Env) *MessageService {
	return &MessageService{Env: env}
}

// List shows one page of messages. Admins see every user's messages.
func (s *MessageService) List(ctx context.Context, q api.ListQuery) error {
	if err := s.requireLogin(); err != nil {
		return err
	}
	if err := s.Store.Messages.Fetch(ctx, q); err != nil {
		return err
	}
	return listResult(s.Out, s.Store.Messages.Snapshot(), []string{"ID", "From", "Subject", "Status", "Replied"}, func(m api.Message) []string {
		return []string{fmt.Sprint(m.ID), author(m.User, false), output.Truncate(m.Subject, 40), m.Status, yesNo(m.AdminReply != "")}
	})
}

// Show prints one message with its reply
func (s *MessageService) Show(ctx context.Context, id int64) error {
	if err := s.requireLogin(); err != nil {
		return err
	}
	m, err := s.Store.Messages.Select(ctx, id)
	if err != nil {
		return err
	}
	fields := []output.Field{
		{Key: "id", Value: m.ID},
		{Key: "from", Value: author(m.User, false)},
		{Key: "subject", Value: m.Subject},
		{Key: "status", Value: m.Status},
		{Key: "sent", Value: m.CreatedAt},
		{Key: "message", Value: m.Body},
	}
	if m.AdminReply != "" {
		fields = append(fields,
			output.Field{Key: "reply", Value: m.AdminReply},
			output.Field{Key: "replied", Value: m.RepliedAt},
		)
	}
	return s.Out.Record("Message", fields)
}

// Send writes a message to the admins
func (s *MessageService) Send(ctx context.Context, subject, body string) error {
	if err := s.requireLogin(); err != nil {
		return err
	}
	var err error
	if subject == "" {
		if subject, err = s.Prompt.String("Subject: "); err != nil {
			return err
		}
	}
	if body == "" {
		if body, err = s.Prompt.Multiline("Message", 30); err != nil {
			return err
		}
	}
	if strings.TrimSpace(subject) == "" || strings.TrimSpace(body) == "" {
		return cerrors.InvalidInputError("message", "subject and message are required")
	}

	msg, err := s.Store.Messages.Send(ctx, api.SendMessageRequest{Subject: subject, Body: body})
	if err != nil {
		return err
	}
	s.Out.Success("Message %d sent", msg.ID)
	return nil
}

// Reply answers a message as an admin
func (s *MessageService) Reply(ctx context.Context, id int64, reply string) error {
	if err := s.requireLogin(); err != nil {
		return err
	}
	if reply == "" {
		var err error
		if reply, err = s.Prompt.Multiline("Reply", 30); err != nil {
			return err
		}
	}
	if strings.TrimSpace(reply) == "" {
		return cerrors.InvalidInputError("reply", "reply cannot be empty")
	}

	if _, err := s.Store.Messages.Reply(ctx, id, api.ReplyRequest{Reply: reply}); err != nil {
		return err
	}
	s.Out.Success("Replied to message %d", id)
	return nil
}

// MarkRead marks a message read
func (s *MessageService) MarkRead(ctx context.Context, id int64) error {
	if err := s.requireLogin(); err != nil {
		return err
	}
	if err := s.Store.Messages.MarkRead(ctx, id); err != nil {
		return err
	}
	s.Out.Success("Message %d marked as read", id)
	return nil
}

// Delete removes a message
func (s *MessageService) Delete(ctx context.Context, id int64, force bool) error {
	if err := s.requireLogin(); err != nil {
		return err
	}
	ok, err := s.confirm(force, fmt.Sprintf("Delete message %d?", id))
	if err != nil || !ok {
		return err
	}
	if err := s.Store.Messages.Delete(ctx, id); err != nil {
		return err
	}
	s.Out.Success("Message %d deleted", id)
	return nil
}
