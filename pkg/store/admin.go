package store

import (
	"context"
	"sync"

	"github.com/chhengkhim/confessboard/pkg/api"
)

// AdminSlice groups the moderation state: users, the confession queue and
// the analytics overview.
type AdminSlice struct {
	svc         *api.AdminService
	Users       *Slice[api.User]
	Confessions *Slice[api.Post]

	mu           sync.Mutex
	stats        *api.Stats
	statsLoading bool
	statsErr     *ErrorState
}

// StatsState is the analytics part of the admin slice
type StatsState struct {
	Stats   *api.Stats  `json:"stats,omitempty"`
	Loading bool        `json:"loading"`
	Error   *ErrorState `json:"error,omitempty"`
}

// Ban suspends a user and splices the result in
func (s *AdminSlice) Ban(ctx context.Context, userID int64, reason string) (*api.User, error) {
	return Dispatch(ctx, s.Users, OpUpdate, func(ctx context.Context) (*api.User, error) {
		return s.svc.Ban(ctx, userID, reason)
	}, replaceUser)
}

// Unban lifts a suspension and splices the result in
func (s *AdminSlice) Unban(ctx context.Context, userID int64) (*api.User, error) {
	return Dispatch(ctx, s.Users, OpUpdate, func(ctx context.Context) (*api.User, error) {
		return s.svc.Unban(ctx, userID)
	}, replaceUser)
}

func replaceUser(st *State[api.User], u *api.User) {
	st.Replace(*u)
}

// FetchPending loads the moderation queue
func (s *AdminSlice) FetchPending(ctx context.Context, q api.ListQuery) error {
	return s.Confessions.Fetch(ctx, q.With("status", api.StatusPending))
}

// Approve publishes a confession
func (s *AdminSlice) Approve(ctx context.Context, postID int64) (*api.Post, error) {
	return Dispatch(ctx, s.Confessions, OpUpdate, func(ctx context.Context) (*api.Post, error) {
		return s.svc.Approve(ctx, postID)
	}, moderated)
}

// Reject declines a confession
func (s *AdminSlice) Reject(ctx context.Context, postID int64, reason string) (*api.Post, error) {
	return Dispatch(ctx, s.Confessions, OpUpdate, func(ctx context.Context) (*api.Post, error) {
		return s.svc.Reject(ctx, postID, reason)
	}, moderated)
}

// moderated splices a moderated post in, or drops it from a list
// filtered to another status
func moderated(st *State[api.Post], post *api.Post) {
	if want := st.Query.Filters["status"]; want != "" && post.Status != want {
		st.Remove(post.ID)
		return
	}
	st.Replace(*post)
}

// LoadStats fetches the analytics overview
func (s *AdminSlice) LoadStats(ctx context.Context) (*api.Stats, error) {
	s.mu.Lock()
	s.statsLoading = true
	s.statsErr = nil
	s.mu.Unlock()

	stats, err := s.svc.Stats(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.statsLoading = false
	if err != nil {
		s.statsErr = errorState(err)
		return nil, err
	}
	s.stats = stats
	return stats, nil
}

// Stats returns the analytics state
func (s *AdminSlice) Stats() StatsState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return StatsState{Stats: s.stats, Loading: s.statsLoading, Error: s.statsErr}
}

func (s *AdminSlice) reset() {
	s.Users.Reset()
	s.Confessions.Reset()
	s.mu.Lock()
	s.stats, s.statsErr, s.statsLoading = nil, nil, false
	s.mu.Unlock()
}
