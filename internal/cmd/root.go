// Package cmd contains the CLI command definitions for diffcommit.
package cmd

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for the diffcommit CLI.
func NewRootCmd(version, commitHash, date string) *cobra.Command {
	flags := &GenerateFlags{}

	rootCmd := &cobra.Command{
		Use:   "diffcommit",
		Short: "LLM-generated git commit messages",
		Long: `diffcommit writes a Conventional Commits message for your pending
changes using a hosted model (Anthropic, OpenAI-compatible) or a local
Ollama server.

It reads the staged diff, sends it to the configured provider in one
request, cleans up the response and writes it to the repository's commit
message file, prints it, or commits with it.

Run 'diffcommit config init' to choose a provider.`,
		Version: version,
		Args:    cobra.NoArgs,
		// Default action is to run the generate command
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, flags)
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.SetVersionTemplate(`diffcommit {{.Version}}
Commit: ` + commitHash + `
Built:  ` + date + "\n")

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().String("config", "", "Config file path (default: ~/.diffcommit/config.yaml)")
	rootCmd.PersistentFlags().String("provider", "", "Provider to use (anthropic, openai, ollama)")
	rootCmd.PersistentFlags().String("model", "", "Model to use with the selected provider")
	rootCmd.PersistentFlags().String("repo", "", "Repository directory (default: current directory)")

	// Generate flags on the root command for the default action
	addGenerateFlags(rootCmd, flags)

	rootCmd.AddCommand(NewGenerateCmd())
	rootCmd.AddCommand(NewCommitCmd())
	rootCmd.AddCommand(NewPreviewCmd())
	rootCmd.AddCommand(NewKeyCmd())
	rootCmd.AddCommand(NewModelCmd())
	rootCmd.AddCommand(NewConfigCmd())
	rootCmd.AddCommand(NewHistoryCmd())
	rootCmd.AddCommand(NewHookCmd())

	return rootCmd
}
