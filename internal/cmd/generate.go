package cmd

import (
	"github.com/spf13/cobra"

	"github.com/diffcommit/diffcommit/internal/app"
	apperrors "github.com/diffcommit/diffcommit/internal/pkg/errors"
)

// GenerateFlags holds the flags for the generate command.
type GenerateFlags struct {
	Hook       string
	OutputFile string
	Stdout     bool
	Commit     bool
	Unstaged   bool
	Yes        bool
}

// Validate rejects flag combinations that name more than one destination.
func (f *GenerateFlags) Validate() error {
	destinations := 0
	for _, set := range []bool{f.Hook != "", f.OutputFile != "", f.Stdout} {
		if set {
			destinations++
		}
	}
	if destinations > 1 {
		return apperrors.New(apperrors.ErrInvalidArguments, "--hook, --output and --stdout are mutually exclusive")
	}
	if f.Commit && destinations > 0 {
		return apperrors.New(apperrors.ErrInvalidArguments, "--commit cannot be combined with --hook, --output or --stdout")
	}
	return nil
}

// NewGenerateCmd creates the generate command.
func NewGenerateCmd() *cobra.Command {
	flags := &GenerateFlags{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a commit message for the pending changes",
		Long: `Generate a commit message from your staged changes and write it to the
commit message file of the repository.

The diff is sent to the configured provider in a single request. The
response is cleaned up (code fences and bullet markers are removed) and
written back without committing, unless --commit is given.

Examples:
  diffcommit generate                 # Write the message to .git/DIFFCOMMIT_EDITMSG
  diffcommit generate --stdout        # Print the message
  diffcommit generate -o msg.txt      # Save the message to a file
  diffcommit generate --commit        # Commit with the generated message
  diffcommit generate --unstaged      # Describe the working tree instead of the index`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, flags)
		},
	}

	addGenerateFlags(cmd, flags)

	return cmd
}

// addGenerateFlags registers the generate flags on cmd.
func addGenerateFlags(cmd *cobra.Command, flags *GenerateFlags) {
	cmd.Flags().StringVar(&flags.Hook, "hook", "", "Write the message to this commit message file (used by the prepare-commit-msg hook)")
	cmd.Flags().StringVarP(&flags.OutputFile, "output", "o", "", "Write the message to a file instead of the repository")
	cmd.Flags().BoolVar(&flags.Stdout, "stdout", false, "Print the message instead of writing it")
	cmd.Flags().BoolVar(&flags.Commit, "commit", false, "Commit the staged changes with the generated message")
	cmd.Flags().BoolVar(&flags.Unstaged, "unstaged", false, "Diff the working tree instead of the index")
	cmd.Flags().BoolVarP(&flags.Yes, "yes", "y", false, "Never prompt; fail instead of asking for input")
}

// runGenerate executes the generate command logic.
func runGenerate(cmd *cobra.Command, flags *GenerateFlags) error {
	if err := flags.Validate(); err != nil {
		return err
	}

	env, err := loadEnvironment(cmd, flags.Yes || flags.Hook != "")
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	service := env.commitService(flags.Hook)

	opts := app.GenerateOptions{
		Staged:     env.cfg.Git.Staged && !flags.Unstaged,
		OutputFile: flags.OutputFile,
		Stdout:     flags.Stdout,
		Commit:     flags.Commit,
	}

	return service.Generate(ctx, opts)
}
