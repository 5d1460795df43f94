package api

import (
	"context"
	"net/http"

	"github.com/chhengkhim/confessboard/pkg/client"
	"github.com/chhengkhim/confessboard/pkg/logger"
	"github.com/go-resty/resty/v2"
)

// AuthService covers login, registration and the current user's profile.
// The client's response hook stores the token; these calls only return
// what the server said.
type AuthService struct {
	client *client.Client
}

// Login authenticates user with email and password
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	logger.Debug("Attempting login", "email", req.Email)

	env, err := send(ctx, s.client, http.MethodPost, "/api/auth/login", func(r *resty.Request) {
		r.SetBody(req)
	})
	if err != nil {
		return nil, err
	}

	result, err := decodeOne[AuthResult](env)
	if err != nil {
		return nil, err
	}
	logger.Debug("Login successful", "user_id", result.User.ID)
	return result, nil
}

// Register creates an account and signs it in
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	logger.Debug("Registering account", "email", req.Email)

	if req.PasswordConfirmation == "" {
		req.PasswordConfirmation = req.Password
	}
	env, err := send(ctx, s.client, http.MethodPost, "/api/auth/register", func(r *resty.Request) {
		r.SetBody(req)
	})
	if err != nil {
		return nil, err
	}
	return decodeOne[AuthResult](env)
}

// Logout revokes the token server-side and tears the session down
// locally. The local teardown happens even when the server call fails.
func (s *AuthService) Logout(ctx context.Context) error {
	logger.Debug("Logging out")

	_, serverErr := send(ctx, s.client, http.MethodPost, "/api/auth/logout", nil)
	if err := s.client.Session().Logout(context.WithoutCancel(ctx)); err != nil {
		logger.Warn("Local logout incomplete", "error", err)
	}

	// An already-expired token is as logged out as it gets
	if serverErr != nil && !client.IsUnauthorized(serverErr) {
		return serverErr
	}
	return nil
}

// Me returns the authenticated user
func (s *AuthService) Me(ctx context.Context) (*User, error) {
	env, err := send(ctx, s.client, http.MethodGet, "/api/auth/me", nil)
	if err != nil {
		return nil, err
	}
	return decodeOne[User](env)
}

// UpdateProfile changes the authenticated user's profile
func (s *AuthService) UpdateProfile(ctx context.Context, req ProfileUpdate) (*User, error) {
	logger.Debug("Updating profile")

	env, err := send(ctx, s.client, http.MethodPut, "/api/auth/profile", func(r *resty.Request) {
		r.SetBody(req)
	})
	if err != nil {
		return nil, err
	}
	return decodeOne[User](env)
}

// UploadAvatar replaces the profile picture
func (s *AuthService) UploadAvatar(ctx context.Context, file Upload) (*User, error) {
	logger.Debug("Uploading avatar", "file", file.FileName)

	env, err := send(ctx, s.client, http.MethodPost, "/api/auth/avatar", func(r *resty.Request) {
		multipart(r, "avatar", &file, nil)
	})
	if err != nil {
		return nil, err
	}
	return decodeOne[User](env)
}
