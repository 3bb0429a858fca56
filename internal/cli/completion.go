package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for accumap.

The plot command completes input files by extension (.bam, .sam, .fastq, .fq,
.gz) and the values of --color, --background and --accuracy.

Bash:
  $ source <(accumap completion bash)

  # Load for every session:
  $ accumap completion bash > /etc/bash_completion.d/accumap

Zsh:
  # Completion must be enabled once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  $ accumap completion zsh > "${fpath[1]}/_accumap"

Fish:
  $ accumap completion fish > ~/.config/fish/completions/accumap.fish

PowerShell:
  PS> accumap completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(w, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(w)
			case "fish":
				return cmd.Root().GenFishCompletion(w, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(w)
			}
			return nil
		},
	}

	return cmd
}
