package cmd

import (
	"github.com/spf13/cobra"
)

// NewCommitCmd creates the commit command as an alias for generate --commit.
func NewCommitCmd() *cobra.Command {
	flags := &GenerateFlags{
		Commit: true,
	}

	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Generate a message and commit the staged changes with it",
		Long: `Generate a commit message from your staged changes, write it to the
commit message file and run 'git commit' with it.

This is equivalent to running 'diffcommit generate --commit'.

Examples:
  diffcommit commit              # Generate and commit
  diffcommit commit --yes        # Never prompt (CI, scripts)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.Yes, "yes", "y", false, "Never prompt; fail instead of asking for input")

	return cmd
}
