package cmd

import (
	"github.com/spf13/cobra"

	"github.com/chhengkhim/confessboard/pkg/api"
	"github.com/chhengkhim/confessboard/pkg/service"
)

var (
	loginEmail    string
	loginPassword string

	registerName     string
	registerEmail    string
	registerPassword string

	profileName  string
	profileEmail string
	profileBio   string
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  "Manage your Confessboard session",
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login to Confessboard",
	Long:  "Authenticate with email and password. Missing values are prompted for.",
	RunE: run(func(cmd *cobra.Command, env *service.Env, args []string) error {
		return service.NewAuthService(env).Login(cmd.Context(), loginEmail, loginPassword)
	}),
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new Confessboard account",
	RunE: run(func(cmd *cobra.Command, env *service.Env, args []string) error {
		return service.NewAuthService(env).Register(cmd.Context(), service.RegisterInput{
			Name:     registerName,
			Email:    registerEmail,
			Password: registerPassword,
		})
	}),
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Logout from Confessboard",
	RunE: run(func(cmd *cobra.Command, env *service.Env, args []string) error {
		return service.NewAuthService(env).Logout(cmd.Context())
	}),
}

var meCmd = &cobra.Command{
	Use:   "me",
	Short: "Display current authenticated user",
	RunE: run(func(cmd *cobra.Command, env *service.Env, args []string) error {
		return service.NewAuthService(env).Me(cmd.Context())
	}),
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show where the current session came from",
	Long:  "Show the session state, the storage tier the token was restored from, its age and its expiry.",
	RunE: run(func(cmd *cobra.Command, env *service.Env, args []string) error {
		return service.NewAuthService(env).Status(cmd.Context())
	}),
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Update your profile",
	RunE: run(func(cmd *cobra.Command, env *service.Env, args []string) error {
		return service.NewAuthService(env).UpdateProfile(cmd.Context(), api.ProfileUpdate{
			Name:  profileName,
			Email: profileEmail,
			Bio:   profileBio,
		})
	}),
}

var avatarCmd = &cobra.Command{
	Use:   "avatar <image-file>",
	Short: "Upload a new profile picture",
	Args:  cobra.ExactArgs(1),
	RunE: run(func(cmd *cobra.Command, env *service.Env, args []string) error {
		return service.NewAuthService(env).UploadAvatar(cmd.Context(), args[0])
	}),
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password (prompted when omitted)")

	registerCmd.Flags().StringVar(&registerName, "name", "", "Display name")
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "Account email")
	registerCmd.Flags().StringVar(&registerPassword, "password", "", "Account password (prompted when omitted)")

	profileCmd.Flags().StringVar(&profileName, "name", "", "New display name")
	profileCmd.Flags().StringVar(&profileEmail, "email", "", "New email")
	profileCmd.Flags().StringVar(&profileBio, "bio", "", "New bio")

	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(registerCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(meCmd)
	authCmd.AddCommand(statusCmd)
	authCmd.AddCommand(profileCmd)
	authCmd.AddCommand(avatarCmd)
}
