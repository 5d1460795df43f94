package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/chhengkhim/confessboard/pkg/api"
	"github.com/chhengkhim/confessboard/pkg/service"
)

var (
	catalogForce bool

	faqQuestion  string
	faqAnswer    string
	faqPublished bool
	faqOrder     int
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Browse and manage tags",
}

var tagsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tags",
	RunE: run(func(cmd *cobra.Command, env *service.Env, args []string) error {
		return service.NewCatalogService(env).ListTags(cmd.Context(), listQuery(cmd))
	}),
}

var tagsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a tag (admin)",
	Args:  cobra.MinimumNArgs(1),
	RunE: run(func(cmd *cobra.Command, env *service.Env, args []string) error {
		return service.NewCatalogService(env).CreateTag(cmd.Context(), strings.Join(args, " "))
	}),
}

var tagsRenameCmd = &cobra.Command{
	Use:   "rename <tag-id> <name>",
	Short: "Rename a tag (admin)",
	Args:  cobra.MinimumNArgs(2),
	RunE: run(func(cmd *cobra.Command, env *service.Env, args []string) error {
		id, err := idArg(args, 0, "tag id")
		if err != nil {
			return err
		}
		return service.NewCatalogService(env).RenameTag(cmd.Context(), id, strings.Join(args[1:], " "))
	}),
}

var tagsDeleteCmd = &cobra.Command{
	Use:   "delete <tag-id>",
	Short: "Delete a tag (admin)",
	Args:  cobra.ExactArgs(1),
	RunE: run(func(cmd *cobra.Command, env *service.Env, args []string) error {
		id, err := idArg(args, 0, "tag id")
		if err != nil {
			return err
		}
		return service.NewCatalogService(env).DeleteTag(cmd.Context(), id, catalogForce)
	}),
}

var faqsCmd = &cobra.Command{
	Use:     "faqs",
	Aliases: []string{"faq"},
	Short:   "Read and manage the FAQ",
}

var faqsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List FAQs",
	RunE: run(func(cmd *cobra.Command, env *service.Env, args []string) error {
		return service.NewCatalogService(env).ListFAQs(cmd.Context(), listQuery(cmd))
	}),
}

var faqsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Add an FAQ (admin)",
	RunE: run(func(cmd *cobra.Command, env *service.Env, args []string) error {
		return service.NewCatalogService(env).SaveFAQ(cmd.Context(), 0, faqRequest(cmd))
	}),
}

var faqsUpdateCmd = &cobra.Command{
	Use:   "update <faq-id>",
	Short: "Edit an FAQ (admin)",
	Args:  cobra.ExactArgs(1),
	RunE: run(func(cmd *cobra.Command, env *service.Env, args []string) error {
		id, err := idArg(args, 0, "faq id")
		if err != nil {
			return err
		}
		return service.NewCatalogService(env).SaveFAQ(cmd.Context(), id, faqRequest(cmd))
	}),
}

var faqsDeleteCmd = &cobra.Command{
	Use:   "delete <faq-id>",
	Short: "Delete an FAQ (admin)",
	Args:  cobra.ExactArgs(1),
	RunE: run(func(cmd *cobra.Command, env *service.Env, args []string) error {
		id, err := idArg(args, 0, "faq id")
		if err != nil {
			return err
		}
		return service.NewCatalogService(env).DeleteFAQ(cmd.Context(), id, catalogForce)
	}),
}

// faqRequest sends only the optional fields that were given
func faqRequest(cmd *cobra.Command) api.FAQRequest {
	req := api.FAQRequest{Question: faqQuestion, Answer: faqAnswer}
	if cmd.Flags().Changed("published") {
		req.IsPublished = &faqPublished
	}
	if cmd.Flags().Changed("order") {
		req.SortOrder = &faqOrder
	}
	return req
}

func init() {
	addListFlags(tagsListCmd)
	addListFlags(faqsListCmd)
	tagsDeleteCmd.Flags().BoolVarP(&catalogForce, "force", "f", false, "Skip confirmation")
	faqsDeleteCmd.Flags().BoolVarP(&catalogForce, "force", "f", false, "Skip confirmation")

	for _, c := range []*cobra.Command{faqsCreateCmd, faqsUpdateCmd} {
		c.Flags().StringVar(&faqQuestion, "question", "", "Question")
		c.Flags().StringVar(&faqAnswer, "answer", "", "Answer")
		c.Flags().BoolVar(&faqPublished, "published", true, "Show on the public FAQ")
		c.Flags().IntVar(&faqOrder, "order", 0, "Sort position")
	}

	tagsCmd.AddCommand(tagsListCmd)
	tagsCmd.AddCommand(tagsCreateCmd)
	tagsCmd.AddCommand(tagsRenameCmd)
	tagsCmd.AddCommand(tagsDeleteCmd)

	faqsCmd.AddCommand(faqsListCmd)
	faqsCmd.AddCommand(faqsCreateCmd)
	faqsCmd.AddCommand(faqsUpdateCmd)
	faqsCmd.AddCommand(faqsDeleteCmd)
}
