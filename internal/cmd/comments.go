package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/chhengkhim/confessboard/pkg/service"
)

var (
	commentAnonymous bool
	commentForce     bool
)

var commentsCmd = &cobra.Command{
	Use:     "comments",
	Aliases: []string{"comment"},
	Short:   "Comment on confessions",
}

var commentsListCmd = &cobra.Command{
	Use:   "list <post-id>",
	Short: "List the comments of a confession",
	Args:  cobra.ExactArgs(1),
	RunE: run(func(cmd *cobra.Command, env *service.Env, args []string) error {
		postID, err := idArg(args, 0, "post id")
		if err != nil {
			return err
		}
		return service.NewCommentService(env).List(cmd.Context(), postID, listQuery(cmd))
	}),
}

var commentsAddCmd = &cobra.Command{
	Use:   "add <post-id> [text]",
	Short: "Comment on a confession",
	Args:  cobra.MinimumNArgs(1),
	RunE: run(func(cmd *cobra.Command, env *service.Env, args []string) error {
		postID, err := idArg(args, 0, "post id")
		if err != nil {
			return err
		}
		return service.NewCommentService(env).Create(cmd.Context(), postID, strings.Join(args[1:], " "), commentAnonymous)
	}),
}

var commentsEditCmd = &cobra.Command{
	Use:   "edit <comment-id> <text>",
	Short: "Edit one of your comments",
	Args:  cobra.MinimumNArgs(2),
	RunE: run(func(cmd *cobra.Command, env *service.Env, args []string) error {
		id, err := idArg(args, 0, "comment id")
		if err != nil {
			return err
		}
		return service.NewCommentService(env).Update(cmd.Context(), id, strings.Join(args[1:], " "))
	}),
}

var commentsDeleteCmd = &cobra.Command{
	Use:   "delete <comment-id>",
	Short: "Delete one of your comments",
	Args:  cobra.ExactArgs(1),
	RunE: run(func(cmd *cobra.Command, env *service.Env, args []string) error {
		id, err := idArg(args, 0, "comment id")
		if err != nil {
			return err
		}
		return service.NewCommentService(env).Delete(cmd.Context(), id, commentForce)
	}),
}

func init() {
	addListFlags(commentsListCmd)
	commentsAddCmd.Flags().BoolVar(&commentAnonymous, "anonymous", false, "Hide your name")
	commentsDeleteCmd.Flags().BoolVarP(&commentForce, "force", "f", false, "Skip confirmation")

	commentsCmd.AddCommand(commentsListCmd)
	commentsCmd.AddCommand(commentsAddCmd)
	commentsCmd.AddCommand(commentsEditCmd)
	commentsCmd.AddCommand(commentsDeleteCmd)
}
