package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/chhengkhim/confessboard/pkg/service"
)

var (
	messageSubject string
	messageBody    string
	messageForce   bool
)

var messagesCmd = &cobra.Command{
	Use:     "messages",
	Aliases: []string{"message", "msg"},
	Short:   "Message the admins",
}

var messagesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List messages",
	RunE: run(func(cmd *cobra.Command, env *service.Env, args []string) error {
		return service.NewMessageService(env).List(cmd.Context(), listQuery(cmd))
	}),
}

var messagesShowCmd = &cobra.Command{
	Use:   "show <message-id>",
	Short: "Show a message and its reply",
	Args:  cobra.ExactArgs(1),
	RunE: run(func(cmd *cobra.Command, env *service.Env, args []string) error {
		id, err := idArg(args, 0, "message id")
		if err != nil {
			return err
		}
		return service.NewMessageService(env).Show(cmd.Context(), id)
	}),
}

var messagesSendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send a message to the admins",
	RunE: run(func(cmd *cobra.Command, env *service.Env, args []string) error {
		return service.NewMessageService(env).Send(cmd.Context(), messageSubject, messageBody)
	}),
}

var messagesReplyCmd = &cobra.Command{
	Use:   "reply <message-id> [text]",
	Short: "Reply to a message (admin)",
	Args:  cobra.MinimumNArgs(1),
	RunE: run(func(cmd *cobra.Command, env *service.Env, args []string) error {
		id, err := idArg(args, 0, "message id")
		if err != nil {
			return err
		}
		return service.NewMessageService(env).Reply(cmd.Context(), id, strings.Join(args[1:], " "))
	}),
}

var messagesReadCmd = &cobra.Command{
	Use:   "read <message-id>",
	Short: "Mark a message as read",
	Args:  cobra.ExactArgs(1),
	RunE: run(func(cmd *cobra.Command, env *service.Env, args []string) error {
		id, err := idArg(args, 0, "message id")
		if err != nil {
			return err
		}
		return service.NewMessageService(env).MarkRead(cmd.Context(), id)
	}),
}

var messagesDeleteCmd = &cobra.Command{
	Use:   "delete <message-id>",
	Short: "Delete a message",
	Args:  cobra.ExactArgs(1),
	RunE: run(func(cmd *cobra.Command, env *service.Env, args []string) error {
		id, err := idArg(args, 0, "message id")
		if err != nil {
			return err
		}
		return service.NewMessageService(env).Delete(cmd.Context(), id, messageForce)
	}),
}

func init() {
	addListFlags(messagesListCmd)
	messagesSendCmd.Flags().StringVar(&messageSubject, "subject", "", "Subject")
	messagesSendCmd.Flags().StringVar(&messageBody, "message", "", "Message body (prompted when omitted)")
	messagesDeleteCmd.Flags().BoolVarP(&messageForce, "force", "f", false, "Skip confirmation")

	messagesCmd.AddCommand(messagesListCmd)
	messagesCmd.AddCommand(messagesShowCmd)
	messagesCmd.AddCommand(messagesSendCmd)
	messagesCmd.AddCommand(messagesReplyCmd)
	messagesCmd.AddCommand(messagesReadCmd)
	messagesCmd.AddCommand(messagesDeleteCmd)
}
