package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for bash, zsh, fish, or powershell.

To load completions in your shell session, run:

Bash:
  source <(confessboard completion bash)

Zsh:
  source <(confessboard completion zsh)

Fish:
  confessboard completion fish | source

PowerShell:
  confessboard completion powershell | Out-String | Invoke-Expression

To load completions for every new session, execute once:

Bash:
  confessboard completion bash > /etc/bash_completion.d/confessboard

Zsh:
  confessboard completion zsh > /usr/local/share/zsh/site-functions/_confessboard

Fish:
  confessboard completion fish > ~/.config/fish/completions/confessboard.fish

PowerShell:
  confessboard completion powershell >> $PROFILE
`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
		case "zsh":
			return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
		case "fish":
			return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
		case "powershell":
			return cmd.Root().GenPowerShellCompletion(cmd.OutOrStdout())
		}
		return fmt.Errorf("unknown shell: %s", args[0])
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
