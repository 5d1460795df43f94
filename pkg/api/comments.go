package api

import (
	"context"
	"fmt"
)

// CommentService manages comments. Lists and creation are nested under
// the post; edits and deletes address the comment directly.
type CommentService struct {
	*Resource[Comment]
}

func (s *CommentService) forPost(postID int64) *Resource[Comment] {
	return s.At(fmt.Sprintf("/api/posts/%d/comments", postID))
}

// ListComments fetches one page of a post's comments
func (s *CommentService) ListComments(ctx context.Context, postID int64, q ListQuery) (*Page[Comment], error) {
	return s.forPost(postID).List(ctx, q)
}

// CreateComment adds a comment to a post
func (s *CommentService) CreateComment(ctx context.Context, postID int64, req CommentRequest) (*Comment, error) {
	return s.forPost(postID).Create(ctx, req)
}

// UpdateComment edits a comment
func (s *CommentService) UpdateComment(ctx context.Context, id int64, req CommentRequest) (*Comment, error) {
	return s.Update(ctx, id, req)
}
