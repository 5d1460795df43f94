package cmd

import (
	"github.com/spf13/cobra"

	"github.com/chhengkhim/confessboard/pkg/service"
)

var (
	adminReason string
	adminForce  bool
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Admin commands",
	Long:  "Administrative and moderation commands (admin-only)",
}

// Users
var adminUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage users",
}

var adminUsersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	RunE: run(func(cmd *cobra.Command, env *service.Env, args []string) error {
		return service.NewAdminService(env).ListUsers(cmd.Context(), listQuery(cmd))
	}),
}

var adminUsersBanCmd = &cobra.Command{
	Use:   "ban <user-id>",
	Short: "Ban a user",
	Args:  cobra.ExactArgs(1),
	RunE: run(func(cmd *cobra.Command, env *service.Env, args []string) error {
		id, err := idArg(args, 0, "user id")
		if err != nil {
			return err
		}
		return service.NewAdminService(env).Ban(cmd.Context(), id, adminReason, adminForce)
	}),
}

var adminUsersUnbanCmd = &cobra.Command{
	Use:   "unban <user-id>",
	Short: "Lift a ban",
	Args:  cobra.ExactArgs(1),
	RunE: run(func(cmd *cobra.Command, env *service.Env, args []string) error {
		id, err := idArg(args, 0, "user id")
		if err != nil {
			return err
		}
		return service.NewAdminService(env).Unban(cmd.Context(), id)
	}),
}

// Moderation queue
var adminConfessionsCmd = &cobra.Command{
	Use:   "confessions",
	Short: "Moderate confessions",
}

var adminPendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List confessions awaiting moderation",
	RunE: run(func(cmd *cobra.Command, env *service.Env, args []string) error {
		return service.NewAdminService(env).Pending(cmd.Context(), listQuery(cmd))
	}),
}

var adminApproveCmd = &cobra.Command{
	Use:   "approve <post-id>",
	Short: "Publish a confession",
	Args:  cobra.ExactArgs(1),
	RunE: run(func(cmd *cobra.Command, env *service.Env, args []string) error {
		id, err := idArg(args, 0, "post id")
		if err != nil {
			return err
		}
		return service.NewAdminService(env).Approve(cmd.Context(), id)
	}),
}

var adminRejectCmd = &cobra.Command{
	Use:   "reject <post-id>",
	Short: "Reject a confession",
	Args:  cobra.ExactArgs(1),
	RunE: run(func(cmd *cobra.Command, env *service.Env, args []string) error {
		id, err := idArg(args, 0, "post id")
		if err != nil {
			return err
		}
		return service.NewAdminService(env).Reject(cmd.Context(), id, adminReason)
	}),
}

// Analytics
var adminStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show platform statistics",
	RunE: run(func(cmd *cobra.Command, env *service.Env, args []string) error {
		return service.NewAdminService(env).Stats(cmd.Context())
	}),
}

var adminDashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show statistics, the moderation queue and unread notifications",
	RunE: run(func(cmd *cobra.Command, env *service.Env, args []string) error {
		return service.NewAdminService(env).Dashboard(cmd.Context())
	}),
}

func init() {
	addListFlags(adminUsersListCmd)
	addListFlags(adminPendingCmd)
	adminUsersBanCmd.Flags().StringVar(&adminReason, "reason", "", "Reason shown to the user")
	adminUsersBanCmd.Flags().BoolVarP(&adminForce, "force", "f", false, "Skip confirmation")
	adminRejectCmd.Flags().StringVar(&adminReason, "reason", "", "Reason shown to the author")

	adminUsersCmd.AddCommand(adminUsersListCmd)
	adminUsersCmd.AddCommand(adminUsersBanCmd)
	adminUsersCmd.AddCommand(adminUsersUnbanCmd)

	adminConfessionsCmd.AddCommand(adminPendingCmd)
	adminConfessionsCmd.AddCommand(adminApproveCmd)
	adminConfessionsCmd.AddCommand(adminRejectCmd)

	adminCmd.AddCommand(adminUsersCmd)
	adminCmd.AddCommand(adminConfessionsCmd)
	adminCmd.AddCommand(adminStatsCmd)
	adminCmd.AddCommand(adminDashboardCmd)
}
