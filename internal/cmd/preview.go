package cmd

import (
	"github.com/spf13/cobra"
)

// NewPreviewCmd creates the preview command.
func NewPreviewCmd() *cobra.Command {
	var unstaged bool

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Generate a message and review it before it is written",
		Long: `Generate a commit message and open it in an interactive preview.

Save writes the message to the commit message file. Edit opens $EDITOR
(or an inline editor) on the message. Close discards the preview, but an
edited message is still written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(cmd, false)
			if err != nil {
				return err
			}

			ctx, cancel := signalContext()
			defer cancel()

			return env.commitService("").Preview(ctx, env.cfg.Git.Staged && !unstaged)
		},
	}

	cmd.Flags().BoolVar(&unstaged, "unstaged", false, "Diff the working tree instead of the index")

	return cmd
}
