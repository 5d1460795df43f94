package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/chhengkhim/confessboard/pkg/service"
)

var notificationsCmd = &cobra.Command{
	Use:     "notifications",
	Aliases: []string{"notif"},
	Short:   "Read your notifications",
}

var notificationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notifications",
	RunE: run(func(cmd *cobra.Command, env *service.Env, args []string) error {
		return service.NewNotificationService(env).List(cmd.Context(), listQuery(cmd))
	}),
}

var notificationsUnreadCmd = &cobra.Command{
	Use:   "unread",
	Short: "Show the unread count",
	RunE: run(func(cmd *cobra.Command, env *service.Env, args []string) error {
		return service.NewNotificationService(env).Unread(cmd.Context())
	}),
}

var notificationsReadCmd = &cobra.Command{
	Use:   "read <notification-id>",
	Short: "Mark a notification as read",
	Args:  cobra.ExactArgs(1),
	RunE: run(func(cmd *cobra.Command, env *service.Env, args []string) error {
		id, err := idArg(args, 0, "notification id")
		if err != nil {
			return err
		}
		return service.NewNotificationService(env).MarkRead(cmd.Context(), id)
	}),
}

var notificationsReadAllCmd = &cobra.Command{
	Use:   "read-all",
	Short: "Mark every notification as read",
	RunE: run(func(cmd *cobra.Command, env *service.Env, args []string) error {
		return service.NewNotificationService(env).MarkAllRead(cmd.Context())
	}),
}

var notificationsDeleteCmd = &cobra.Command{
	Use:   "delete <notification-id>",
	Short: "Delete a notification",
	Args:  cobra.ExactArgs(1),
	RunE: run(func(cmd *cobra.Command, env *service.Env, args []string) error {
		id, err := idArg(args, 0, "notification id")
		if err != nil {
			return err
		}
		return service.NewNotificationService(env).Delete(cmd.Context(), id)
	}),
}

var watchInterval time.Duration

var notificationsWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print new notifications as they arrive",
	RunE: run(func(cmd *cobra.Command, env *service.Env, args []string) error {
		return service.NewNotificationService(env).Watch(cmd.Context(), watchInterval)
	}),
}

func init() {
	addListFlags(notificationsListCmd)
	notificationsWatchCmd.Flags().DurationVar(&watchInterval, "interval", 30*time.Second, "Polling interval")

	notificationsCmd.AddCommand(notificationsListCmd)
	notificationsCmd.AddCommand(notificationsUnreadCmd)
	notificationsCmd.AddCommand(notificationsReadCmd)
	notificationsCmd.AddCommand(notificationsReadAllCmd)
	notificationsCmd.AddCommand(notificationsDeleteCmd)
	notificationsCmd.AddCommand(notificationsWatchCmd)
}
