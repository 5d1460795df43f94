package service

import (
	"context"

	"github.com/chhengkhim/confessboard/pkg/api"
	"github.com/chhengkhim/confessboard/pkg/output"
)

// LikeService likes and unlikes confessions
type LikeService struct {
	*Env
}

// NewLikeService creates a new like service
func NewLikeService(env *Env) *LikeService {
	return &LikeService{Env: env}
}

// Like likes a confession
func (s *LikeService) Like(ctx context.Context, postID int64) error {
	return s.run(ctx, postID, s.Store.Likes.Like)
}

// Unlike removes a like
func (s *LikeService) Unlike(ctx context.Context, postID int64) error {
	return s.run(ctx, postID, s.Store.Likes.Unlike)
}

// Toggle flips the like. With checkFirst the current status is queried
// before deciding, otherwise a like is attempted and undone if the server
// says it already exists.
func (s *LikeService) Toggle(ctx context.Context, postID int64, checkFirst bool) error {
	if checkFirst {
		return s.run(ctx, postID, s.Store.Likes.ToggleByStatus)
	}
	return s.run(ctx, postID, s.Store.Likes.Toggle)
}

// Status shows whether the confession is liked
func (s *LikeService) Status(ctx context.Context, postID int64) error {
	state, err := s.Store.Likes.Status(ctx, postID)
	if err != nil {
		return err
	}
	return printLike(s.Out, state)
}

func (s *LikeService) run(ctx context.Context, postID int64, call func(context.Context, int64) (*api.LikeState, error)) error {
	if err := s.requireLogin(); err != nil {
		return err
	}
	state, err := call(ctx, postID)
	if err != nil {
		return err
	}
	verb := "Unliked"
	if state.Liked {
		verb = "Liked"
	}
	if state.Counted {
		s.Out.Success("%s confession %d (%d likes)", verb, postID, state.LikesCount)
	} else {
		s.Out.Success("%s confession %d", verb, postID)
	}
	return nil
}

func printLike(out *output.Printer, state *api.LikeState) error {
	return out.Record("Like", []output.Field{
		{Key: "post_id", Value: state.PostID},
		{Key: "liked", Value: state.Liked},
		{Key: "likes", Value: state.LikesCount},
	})
}
