package store

import (
	"context"
	"errors"
	"sync"

	"github.com/chhengkhim/confessboard/pkg/api"
	"github.com/chhengkhim/confessboard/pkg/session"
)

// AuthState is the auth slice's state
type AuthState struct {
	User            *api.User   `json:"user,omitempty"`
	IsAuthenticated bool        `json:"is_authenticated"`
	Loading         map[Op]bool `json:"loading"`
	Error           *ErrorState `json:"error,omitempty"`
}

// AuthSlice tracks the signed-in user. The token itself lives in the
// session; this slice only mirrors it.
type AuthSlice struct {
	svc     *api.AuthService
	session *session.Session

	mu    sync.Mutex
	state AuthState
}

func newAuthSlice(svc *api.AuthService, sess *session.Session) *AuthSlice {
	return &AuthSlice{svc: svc, session: sess, state: AuthState{Loading: map[Op]bool{}}}
}

// Snapshot returns a copy of the current state
func (s *AuthSlice) Snapshot() AuthState {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.state
	out.Loading = make(map[Op]bool, len(s.state.Loading))
	for op, v := range s.state.Loading {
		out.Loading[op] = v
	}
	if s.session != nil {
		out.IsAuthenticated = s.session.IsAuthenticated()
		if !out.IsAuthenticated {
			out.User = nil
		}
	}
	return out
}

func (s *AuthSlice) run(ctx context.Context, op Op, call func(context.Context) (*api.User, error)) (*api.User, error) {
	s.mu.Lock()
	s.state.Loading[op] = true
	s.state.Error = nil
	s.mu.Unlock()

	user, err := call(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading[op] = false
	switch {
	case err == nil:
		if user != nil {
			s.state.User = user
		}
	case errors.Is(err, context.Canceled):
	default:
		s.state.Error = errorState(err)
	}
	return user, err
}

// Login signs in and records the user
func (s *AuthSlice) Login(ctx context.Context, req api.LoginRequest) (*api.User, error) {
	return s.run(ctx, OpFetch, func(ctx context.Context) (*api.User, error) {
		result, err := s.svc.Login(ctx, req)
		if err != nil {
			return nil, err
		}
		return &result.User, nil
	})
}

// Register creates an account and records the user
func (s *AuthSlice) Register(ctx context.Context, req api.RegisterRequest) (*api.User, error) {
	return s.run(ctx, OpCreate, func(ctx context.Context) (*api.User, error) {
		result, err := s.svc.Register(ctx, req)
		if err != nil {
			return nil, err
		}
		return &result.User, nil
	})
}

// LoadMe refreshes the user from the server
func (s *AuthSlice) LoadMe(ctx context.Context) (*api.User, error) {
	return s.run(ctx, OpFetch, s.svc.Me)
}

// UpdateProfile saves profile changes
func (s *AuthSlice) UpdateProfile(ctx context.Context, req api.ProfileUpdate) (*api.User, error) {
	return s.run(ctx, OpUpdate, func(ctx context.Context) (*api.User, error) {
		return s.svc.UpdateProfile(ctx, req)
	})
}

// Logout signs out and forgets the user
func (s *AuthSlice) Logout(ctx context.Context) error {
	_, err := s.run(ctx, OpDelete, func(ctx context.Context) (*api.User, error) {
		return nil, s.svc.Logout(ctx)
	})
	s.Clear()
	return err
}

// Clear forgets the user without a request
func (s *AuthSlice) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.User = nil
	s.state.IsAuthenticated = false
}
