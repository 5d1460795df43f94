package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chhengkhim/confessboard/pkg/api"
	"github.com/chhengkhim/confessboard/pkg/client"
	"github.com/chhengkhim/confessboard/pkg/config"
	cerrors "github.com/chhengkhim/confessboard/pkg/errors"
	"github.com/chhengkhim/confessboard/pkg/logger"
	"github.com/chhengkhim/confessboard/pkg/output"
	"github.com/chhengkhim/confessboard/pkg/prompter"
	"github.com/chhengkhim/confessboard/pkg/service"
	"github.com/chhengkhim/confessboard/pkg/session"
	"github.com/chhengkhim/confessboard/pkg/storage"
	"github.com/chhengkhim/confessboard/pkg/store"
)

var (
	verbose    bool
	configPath string
	outputFmt  string
	asUser     string
)

// app is built on first use so that help, version and completion never
// touch the session stores
var (
	app     *service.Env
	closers []func() error
)

var rootCmd = &cobra.Command{
	Use:   "confessboard",
	Short: "Confessboard CLI - anonymous confessions from the terminal",
	Long: `Confessboard CLI is a command-line client for the Confessboard
confession platform. Browse and post confessions, comment, like,
message the admins and moderate the queue directly from the terminal.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize config and logger
		if err := config.Init(configPath); err != nil {
			return fmt.Errorf("initializing config: %w", err)
		}

		logger.Init(verbose)

		if cmd.Flags().Changed("output") {
			if !output.ValidateOutputFormat(outputFmt) {
				return cerrors.InvalidInputError("output", fmt.Sprintf("%q is not one of text, json, table", outputFmt))
			}
			return config.SetString("output.format", outputFmt)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		for _, closeFn := range closers {
			if err := closeFn(); err != nil {
				logger.Debug("Failed to close store", "error", err)
			}
		}
		closers = nil
	},
}

// Execute runs the root command with ctx, which is cancelled on interrupt
func Execute(ctx context.Context) int {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprint(os.Stderr, cerrors.FormatError(err))
	}
	return exitCode(err)
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return 130
	default:
		return 1
	}
}

// cliNavigator turns the session's login redirect into a hint
type cliNavigator struct {
	route string
}

func (n *cliNavigator) CurrentRoute() string {
	return n.route
}

func (n *cliNavigator) Redirect(route string) {
	output.New(os.Stderr, output.FormatText).Warning("Your session has expired. Run `confessboard %s` to sign in again.", route)
}

func commandRoute(cmd *cobra.Command) string {
	return strings.TrimPrefix(cmd.CommandPath(), cmd.Root().Name()+" ")
}

func openStore(ctx context.Context, tier string) (storage.Store, error) {
	st, err := storage.Open(ctx, storage.Options{
		Driver:      config.GetString("storage." + tier + ".driver"),
		Path:        config.GetString("storage." + tier + ".path"),
		RedisAddr:   config.GetString("storage.redis.addr"),
		RedisDB:     config.GetInt("storage.redis.db"),
		RedisPrefix: config.GetString("storage.redis.prefix"),
	})
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", tier, err)
	}
	closers = append(closers, st.Close)
	return st, nil
}

// environment wires storage, session, client and store for cmd
func environment(cmd *cobra.Command) (*service.Env, error) {
	if app != nil {
		return app, nil
	}
	ctx := cmd.Context()

	primary, err := openStore(ctx, "primary")
	if err != nil {
		return nil, err
	}
	backup, err := openStore(ctx, "backup")
	if err != nil {
		// The backup tier is a fallback; run without it
		logger.Warn("Backup store unavailable", "error", err)
		backup = storage.NewMemoryStore()
	}

	sess := session.New(session.Options{
		Primary:    primary,
		Backup:     backup,
		BackupTTL:  config.GetDuration("session.backup_ttl"),
		ClearedTTL: config.GetDuration("session.cleared_ttl"),
	})

	c := client.New(client.Options{
		BaseURL:     config.GetString("api.base_url"),
		Timeout:     config.GetDuration("api.timeout"),
		UserAgent:   config.GetString("api.user_agent"),
		InitTimeout: config.GetDuration("session.init_timeout"),
		Tracing:     config.GetBool("telemetry.enabled"),
	}, sess, &cliNavigator{route: commandRoute(cmd)})

	if err := sess.InitializeFromStorage(ctx); err != nil {
		logger.Warn("Session restore incomplete", "error", err)
	}

	// Validate impersonation usage
	if asUser != "" {
		if !sess.IsAuthenticated() {
			return nil, cerrors.NotLoggedInError().WithSuggestion("Log in as an admin to use --as-user")
		}
		if !sess.User().IsAdmin() {
			return nil, cerrors.NewCLIError(cerrors.ErrorTypeForbidden, "Only admin users can impersonate other users", nil)
		}
		c.SetImpersonateUser(asUser)
	}

	app = &service.Env{
		Store: store.New(api.New(c), store.Options{
			Debounce: config.GetDuration("store.debounce"),
			PerPage:  config.GetInt("store.per_page"),
			Context:  ctx,
		}),
		Prompt: prompter.New(os.Stdin, os.Stdout),
		Out:    output.Default(),
	}
	return app, nil
}

// run adapts a service call into a cobra RunE
func run(fn func(cmd *cobra.Command, env *service.Env, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		env, err := environment(cmd)
		if err != nil {
			return err
		}
		return fn(cmd, env, args)
	}
}

// idArg parses args[i] as an id
func idArg(args []string, i int, field string) (int64, error) {
	return service.ParseID(field, args[i])
}

func addListFlags(cmd *cobra.Command) {
	cmd.Flags().Int("page", 1, "Page number")
	cmd.Flags().Int("per-page", 0, "Results per page (default from config)")
	cmd.Flags().String("search", "", "Search text")
}

func listQuery(cmd *cobra.Command) api.ListQuery {
	page, _ := cmd.Flags().GetInt("page")
	perPage, _ := cmd.Flags().GetInt("per-page")
	search, _ := cmd.Flags().GetString("search")
	if perPage == 0 {
		perPage = config.GetInt("store.per_page")
	}
	return api.ListQuery{Page: page, PerPage: perPage, Search: search}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: ~/.config/confessboard/config.toml)")
	rootCmd.PersistentFlags().StringVar(&outputFmt, "output", "text", "Output format: text, json, table")
	rootCmd.PersistentFlags().StringVar(&asUser, "as-user", "", "Admin impersonation: run commands as another user (requires admin account)")

	// Add subcommands
	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(postsCmd)
	rootCmd.AddCommand(commentsCmd)
	rootCmd.AddCommand(likesCmd)
	rootCmd.AddCommand(notificationsCmd)
	rootCmd.AddCommand(messagesCmd)
	rootCmd.AddCommand(tagsCmd)
	rootCmd.AddCommand(faqsCmd)
	rootCmd.AddCommand(adminCmd)
	rootCmd.AddCommand(versionCmd)
}
