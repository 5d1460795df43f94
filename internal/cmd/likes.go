package cmd

import (
	"github.com/spf13/cobra"

	"github.com/chhengkhim/confessboard/pkg/service"
)

var likeCheckFirst bool

var likesCmd = &cobra.Command{
	Use:   "likes",
	Short: "Like and unlike confessions",
}

// likeCommand builds a subcommand taking a single post id
func likeCommand(use, short string, fn func(svc *service.LikeService, cmd *cobra.Command, postID int64) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <post-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: run(func(cmd *cobra.Command, env *service.Env, args []string) error {
			postID, err := idArg(args, 0, "post id")
			if err != nil {
				return err
			}
			return fn(service.NewLikeService(env), cmd, postID)
		}),
	}
}

var likesToggleCmd = likeCommand("toggle", "Like a confession, or unlike it if already liked",
	func(svc *service.LikeService, cmd *cobra.Command, postID int64) error {
		return svc.Toggle(cmd.Context(), postID, likeCheckFirst)
	})

func init() {
	likesToggleCmd.Flags().BoolVar(&likeCheckFirst, "check", false, "Query the like status before toggling")

	likesCmd.AddCommand(likeCommand("add", "Like a confession", func(svc *service.LikeService, cmd *cobra.Command, postID int64) error {
		return svc.Like(cmd.Context(), postID)
	}))
	likesCmd.AddCommand(likeCommand("remove", "Unlike a confession", func(svc *service.LikeService, cmd *cobra.Command, postID int64) error {
		return svc.Unlike(cmd.Context(), postID)
	}))
	likesCmd.AddCommand(likeCommand("status", "Show whether you like a confession", func(svc *service.LikeService, cmd *cobra.Command, postID int64) error {
		return svc.Status(cmd.Context(), postID)
	}))
	likesCmd.AddCommand(likesToggleCmd)
}
