package cmd

import (
	"github.com/spf13/cobra"

	"github.com/chhengkhim/confessboard/pkg/api"
	"github.com/chhengkhim/confessboard/pkg/service"
)

var (
	postsTag    string
	postsStatus string

	postTitle     string
	postContent   string
	postTags      string
	postImage     string
	postAnonymous bool
	postForce     bool
)

var postsCmd = &cobra.Command{
	Use:     "posts",
	Aliases: []string{"post", "confessions"},
	Short:   "Browse and manage confessions",
}

var postsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List confessions",
	RunE: run(func(cmd *cobra.Command, env *service.Env, args []string) error {
		q := api.PostQuery{ListQuery: listQuery(cmd), Tag: postsTag, Status: postsStatus}
		return service.NewPostService(env).List(cmd.Context(), q)
	}),
}

var postsSearchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search confessions interactively",
	Long:  "Read search terms one per line and print the matching confessions. An empty line ends the search.",
	RunE: run(func(cmd *cobra.Command, env *service.Env, args []string) error {
		q := api.PostQuery{ListQuery: listQuery(cmd), Tag: postsTag, Status: postsStatus}
		return service.NewPostService(env).Search(cmd.Context(), q)
	}),
}

var postsShowCmd = &cobra.Command{
	Use:   "show <post-id>",
	Short: "Show one confession",
	Args:  cobra.ExactArgs(1),
	RunE: run(func(cmd *cobra.Command, env *service.Env, args []string) error {
		id, err := idArg(args, 0, "post id")
		if err != nil {
			return err
		}
		return service.NewPostService(env).Show(cmd.Context(), id)
	}),
}

var postsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Submit a confession for moderation",
	Long:  "Submit a confession. Title and content are prompted for when omitted; --image attaches a picture.",
	RunE: run(func(cmd *cobra.Command, env *service.Env, args []string) error {
		return service.NewPostService(env).Create(cmd.Context(), service.CreateInput{
			Title:     postTitle,
			Content:   postContent,
			Anonymous: postAnonymous,
			Tags:      postTags,
			ImagePath: postImage,
		})
	}),
}

var postsUpdateCmd = &cobra.Command{
	Use:   "update <post-id>",
	Short: "Edit one of your confessions",
	Args:  cobra.ExactArgs(1),
	RunE: run(func(cmd *cobra.Command, env *service.Env, args []string) error {
		id, err := idArg(args, 0, "post id")
		if err != nil {
			return err
		}
		return service.NewPostService(env).Update(cmd.Context(), id, postTitle, postContent, postTags)
	}),
}

var postsDeleteCmd = &cobra.Command{
	Use:   "delete <post-id>",
	Short: "Delete one of your confessions",
	Args:  cobra.ExactArgs(1),
	RunE: run(func(cmd *cobra.Command, env *service.Env, args []string) error {
		id, err := idArg(args, 0, "post id")
		if err != nil {
			return err
		}
		return service.NewPostService(env).Delete(cmd.Context(), id, postForce)
	}),
}

func init() {
	addListFlags(postsListCmd)
	postsListCmd.Flags().StringVar(&postsTag, "tag", "", "Only confessions with this tag")
	postsListCmd.Flags().StringVar(&postsStatus, "status", "", "Filter by status: pending, approved, rejected")
	postsSearchCmd.Flags().StringVar(&postsTag, "tag", "", "Only confessions with this tag")
	postsSearchCmd.Flags().StringVar(&postsStatus, "status", "", "Filter by status: pending, approved, rejected")

	for _, c := range []*cobra.Command{postsCreateCmd, postsUpdateCmd} {
		c.Flags().StringVar(&postTitle, "title", "", "Title")
		c.Flags().StringVar(&postContent, "content", "", "Content")
		c.Flags().StringVar(&postTags, "tags", "", "Comma-separated tag IDs")
	}
	postsCreateCmd.Flags().BoolVar(&postAnonymous, "anonymous", false, "Hide your name")
	postsCreateCmd.Flags().StringVar(&postImage, "image", "", "Image file to attach")
	postsDeleteCmd.Flags().BoolVarP(&postForce, "force", "f", false, "Skip confirmation")

	postsCmd.AddCommand(postsListCmd)
	postsCmd.AddCommand(postsSearchCmd)
	postsCmd.AddCommand(postsShowCmd)
	postsCmd.AddCommand(postsCreateCmd)
	postsCmd.AddCommand(postsUpdateCmd)
	postsCmd.AddCommand(postsDeleteCmd)
}
