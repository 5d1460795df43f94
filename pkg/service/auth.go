package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chhengkhim/confessboard/pkg/api"
	"github.com/chhengkhim/confessboard/pkg/credentials"
	cerrors "github.com/chhengkhim/confessboard/pkg/errors"
	"github.com/chhengkhim/confessboard/pkg/logger"
	"github.com/chhengkhim/confessboard/pkg/output"
)

// AuthService provides login, registration and profile operations
type AuthService struct {
	*Env
}

// NewAuthService creates a new auth service
func NewAuthService(env *Env) *AuthService {
	return &AuthService{Env: env}
}

// Login signs in, prompting for anything not given
func (s *AuthService) Login(ctx context.Context, email, password string) error {
	var err error
	if email == "" {
		if email, err = s.Prompt.String("Email: "); err != nil {
			return err
		}
	}
	if email == "" {
		return cerrors.InvalidInputError("email", "email cannot be empty")
	}
	if password == "" {
		if password, err = s.Prompt.Password("Password: "); err != nil {
			return err
		}
	}
	if password == "" {
		return cerrors.InvalidInputError("password", "password cannot be empty")
	}

	user, err := s.Store.Auth.Login(ctx, api.LoginRequest{Email: email, Password: password})
	if err != nil {
		return err
	}

	logger.Info("Logged in", "user", user.Email)
	s.Out.Success("Logged in as %s", user.Name)
	return nil
}

// RegisterInput holds the fields of a new account
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates an account and signs in
func (s *AuthService) Register(ctx context.Context, in RegisterInput) error {
	var err error
	if in.Name == "" {
		if in.Name, err = s.Prompt.String("Name: "); err != nil {
			return err
		}
	}
	if in.Email == "" {
		if in.Email, err = s.Prompt.String("Email: "); err != nil {
			return err
		}
	}
	if in.Password == "" {
		if in.Password, err = s.Prompt.Password("Password: "); err != nil {
			return err
		}
		confirm, err := s.Prompt.Password("Confirm password: ")
		if err != nil {
			return err
		}
		if confirm != in.Password {
			return cerrors.InvalidInputError("password", "passwords do not match")
		}
	}
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return cerrors.InvalidInputError("register", "name, email and password are required")
	}

	user, err := s.Store.Auth.Register(ctx, api.RegisterRequest{
		Name:     in.Name,
		Email:    in.Email,
		Password: in.Password,
	})
	if err != nil {
		return err
	}
	s.Out.Success("Welcome, %s! Your account has been created.", user.Name)
	return nil
}

// Logout signs out. The local session is cleared even if the server
// call fails.
func (s *AuthService) Logout(ctx context.Context) error {
	if !s.Session().IsAuthenticated() {
		s.Out.Info("Not logged in.")
		return nil
	}
	if err := s.Store.Logout(ctx); err != nil {
		logger.Warn("Server logout failed", "error", err)
		s.Out.Warning("Server logout failed, local session cleared anyway")
		return nil
	}
	s.Out.Success("Logged out")
	return nil
}

// Me shows the signed-in user as the server knows it
func (s *AuthService) Me(ctx context.Context) error {
	if err := s.requireLogin(); err != nil {
		return err
	}
	user, err := s.Store.Auth.LoadMe(ctx)
	if err != nil {
		return err
	}
	return printUser(s.Out, user)
}

// Status shows where the session came from and how old it is
func (s *AuthService) Status(ctx context.Context) error {
	sess := s.Session()
	fields := []output.Field{
		{Key: "state", Value: sess.State().String()},
		{Key: "authenticated", Value: yesNo(sess.IsAuthenticated())},
		{Key: "source", Value: string(sess.Source())},
	}
	if u := sess.User(); u != nil {
		fields = append(fields,
			output.Field{Key: "user", Value: fmt.Sprintf("%s <%s>", u.Name, u.Email)},
			output.Field{Key: "role", Value: u.Role},
		)
	}
	if savedAt, ok := sess.SavedAt(ctx); ok {
		fields = append(fields, output.Field{Key: "saved", Value: ago(time.Since(savedAt))})
	}
	if exp, ok := credentials.TokenExpiry(sess.Credential()); ok {
		state := "expires " + exp.Local().Format(time.RFC1123)
		if time.Now().After(exp) {
			state = "expired " + ago(time.Since(exp))
		}
		fields = append(fields, output.Field{Key: "token", Value: state})
	}
	return s.Out.Record("Session", fields)
}

// UpdateProfile saves changed profile fields
func (s *AuthService) UpdateProfile(ctx context.Context, req api.ProfileUpdate) error {
	if err := s.requireLogin(); err != nil {
		return err
	}
	if req == (api.ProfileUpdate{}) {
		return cerrors.InvalidInputError("profile", "nothing to update")
	}
	user, err := s.Store.Auth.UpdateProfile(ctx, req)
	if err != nil {
		return err
	}
	s.Out.Success("Profile updated")
	return printUser(s.Out, user)
}

// UploadAvatar replaces the profile picture with the file at path
func (s *AuthService) UploadAvatar(ctx context.Context, path string) error {
	if err := s.requireLogin(); err != nil {
		return err
	}
	upload, closeFn, err := openUpload(path)
	if err != nil {
		return err
	}
	defer closeFn()

	user, err := s.Store.API.Auth.UploadAvatar(ctx, *upload)
	if err != nil {
		return err
	}
	s.Out.Success("Avatar updated: %s", user.Avatar)
	return nil
}

func printUser(out *output.Printer, u *api.User) error {
	fields := []output.Field{
		{Key: "id", Value: u.ID},
		{Key: "name", Value: u.Name},
		{Key: "email", Value: u.Email},
		{Key: "role", Value: u.Role},
		{Key: "posts", Value: u.PostsCount},
	}
	if u.Bio != "" {
		fields = append(fields, output.Field{Key: "bio", Value: u.Bio})
	}
	if u.IsBanned {
		fields = append(fields, output.Field{Key: "banned", Value: strings.TrimSpace("yes " + u.BannedReason)})
	}
	return out.Record("User", fields)
}

func ago(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 48*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
