package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/chhengkhim/confessboard/pkg/client"
	"github.com/chhengkhim/confessboard/pkg/logger"
)

// alreadyLikedMarker is what the backend says when liking twice.
const alreadyLikedMarker = "already liked"

// LikeService likes and unlikes posts
type LikeService struct {
	client *client.Client
}

func likePath(postID int64) string {
	return fmt.Sprintf("/api/posts/%d/like", postID)
}

func (s *LikeService) call(ctx context.Context, method, path string, postID int64) (*LikeState, error) {
	env, err := send(ctx, s.client, method, path, nil)
	if err != nil {
		return nil, err
	}

	state := &LikeState{Liked: method == http.MethodPost}
	if env.hasData() {
		decoded, err := decodeOne[LikeState](env)
		if err != nil {
			return nil, err
		}
		state = decoded
		state.Counted = true
	}
	state.PostID = postID
	state.Message = env.Message
	return state, nil
}

// Like likes a post
func (s *LikeService) Like(ctx context.Context, postID int64) (*LikeState, error) {
	logger.Debug("Liking post", "post_id", postID)
	return s.call(ctx, http.MethodPost, likePath(postID), postID)
}

// Unlike removes the like from a post
func (s *LikeService) Unlike(ctx context.Context, postID int64) (*LikeState, error) {
	logger.Debug("Unliking post", "post_id", postID)
	return s.call(ctx, http.MethodDelete, likePath(postID), postID)
}

// Status asks the server whether the current user likes the post
func (s *LikeService) Status(ctx context.Context, postID int64) (*LikeState, error) {
	return s.call(ctx, http.MethodGet, likePath(postID)+"/status", postID)
}

// IsAlreadyLiked reports whether err or message is the backend's
// "already liked" answer
func IsAlreadyLiked(err error, message string) bool {
	var f *client.Failure
	if errors.As(err, &f) {
		message = f.Message
	} else if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(message), alreadyLikedMarker)
}

// Toggle likes the post, and when the server answers "already liked"
// issues exactly one Unlike and returns its result.
func (s *LikeService) Toggle(ctx context.Context, postID int64) (*LikeState, error) {
	state, err := s.Like(ctx, postID)
	if err == nil && !IsAlreadyLiked(nil, state.Message) {
		return state, nil
	}
	if err != nil && !IsAlreadyLiked(err, "") {
		return nil, err
	}

	logger.Debug("Post already liked, unliking", "post_id", postID)
	return s.Unlike(ctx, postID)
}

// ToggleByStatus reads the like state first and then issues exactly one
// Like or Unlike.
func (s *LikeService) ToggleByStatus(ctx context.Context, postID int64) (*LikeState, error) {
	current, err := s.Status(ctx, postID)
	if err != nil {
		return nil, err
	}
	if current.Liked {
		return s.Unlike(ctx, postID)
	}
	return s.Like(ctx, postID)
}
