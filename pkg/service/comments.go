package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/chhengkhim/confessboard/pkg/api"
	cerrors "github.com/chhengkhim/confessboard/pkg/errors"
	"github.com/chhengkhim/confessboard/pkg/output"
)

const maxCommentLength = 2000

// CommentService provides operations for managing comments
type CommentService struct {
	*Env
}

// NewCommentService creates a new comment service
func NewCommentService(env *Env) *CommentService {
	return &CommentService{Env: env}
}

// List shows the comments of a confession
func (s *CommentService) List(ctx context.Context, postID int64, q api.ListQuery) error {
	if err := s.Store.Comments.Load(ctx, postID, q); err != nil {
		return err
	}
	return listResult(s.Out, s.Store.Comments.Snapshot(), []string{"ID", "Author", "Comment", "Created"}, func(c api.Comment) []string {
		return []string{fmt.Sprint(c.ID), author(c.User, c.IsAnonymous), output.Truncate(c.Content, 60), c.CreatedAt}
	})
}

// Create comments on a confession, prompting for the text if empty
func (s *CommentService) Create(ctx context.Context, postID int64, content string, anonymous bool) error {
	if err := s.requireLogin(); err != nil {
		return err
	}
	if content == "" {
		var err error
		if content, err = s.Prompt.String(fmt.Sprintf("Comment text (max %d chars): ", maxCommentLength)); err != nil {
			return err
		}
	}
	if err := validateComment(content); err != nil {
		return err
	}

	comment, err := s.Store.Comments.Add(ctx, postID, api.CommentRequest{Content: content, IsAnonymous: anonymous})
	if err != nil {
		return err
	}
	s.Out.Success("Comment %d added to confession %d", comment.ID, postID)
	return nil
}

func validateComment(content string) error {
	if strings.TrimSpace(content) == "" {
		return cerrors.InvalidInputError("content", "comment text cannot be empty")
	}
	if utf8.RuneCountInString(content) > maxCommentLength {
		return cerrors.InvalidInputError("content", fmt.Sprintf("comment text exceeds %d character limit", maxCommentLength))
	}
	return nil
}

// Update edits an own comment
func (s *CommentService) Update(ctx context.Context, id int64, content string) error {
	if err := s.requireLogin(); err != nil {
		return err
	}
	if err := validateComment(content); err != nil {
		return err
	}
	comment, err := s.Store.Comments.Update(ctx, id, api.CommentRequest{Content: content})
	if err != nil {
		return err
	}
	s.Out.Success("Comment %d updated", comment.ID)
	return nil
}

// Delete removes an own comment
func (s *CommentService) Delete(ctx context.Context, id int64, force bool) error {
	if err := s.requireLogin(); err != nil {
		return err
	}
	ok, err := s.confirm(force, fmt.Sprintf("Delete comment %d?", id))
	if err != nil || !ok {
		return err
	}
	if err := s.Store.Comments.Delete(ctx, id); err != nil {
		return err
	}
	s.Out.Success("Comment %d deleted", id)
	return nil
}
