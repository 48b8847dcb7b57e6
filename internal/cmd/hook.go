package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	apperrors "github.com/diffcommit/diffcommit/internal/pkg/errors"
	"github.com/diffcommit/diffcommit/internal/pkg/git"
)

// executablePath is a variable to allow mocking in tests.
var executablePath = func() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(exe)
}

// NewHookCmd creates the hook command and its subcommands.
func NewHookCmd() *cobra.Command {
	hookCmd := &cobra.Command{
		Use:   "hook",
		Short: "Generate messages from plain 'git commit'",
		Long: `Install a prepare-commit-msg hook that fills the commit message
editor with a generated message whenever you run 'git commit' without -m.

A failed generation never blocks the commit.`,
	}

	hookCmd.AddCommand(&cobra.Command{
		Use:   "install",
		Short: "Install the prepare-commit-msg hook",
		Args:  cobra.NoArgs,
		RunE:  runHookInstall,
	})
	hookCmd.AddCommand(&cobra.Command{
		Use:   "uninstall",
		Short: "Remove the prepare-commit-msg hook",
		Args:  cobra.NoArgs,
		RunE:  runHookUninstall,
	})

	return hookCmd
}

func runHookInstall(cmd *cobra.Command, args []string) error {
	repoDir, _ := cmd.Flags().GetString("repo")
	repo, err := git.OpenRepository(repoDir)
	if err != nil {
		return err
	}

	exe, err := executablePath()
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrFileSystemError, "failed to locate the diffcommit executable")
	}

	path, err := git.InstallHook(repo, exe)
	if errors.Is(err, git.ErrHookExists) {
		return apperrors.Wrap(err, apperrors.ErrInvalidArguments,
			fmt.Sprintf("a prepare-commit-msg hook already exists at %s", path)).
			WithSuggestion("Remove it or chain it to 'diffcommit generate --yes --hook \"$1\"' manually")
	}
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrFileSystemError, "failed to install hook")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Installed %s\n", path)
	return nil
}

func runHookUninstall(cmd *cobra.Command, args []string) error {
	repoDir, _ := cmd.Flags().GetString("repo")
	repo, err := git.OpenRepository(repoDir)
	if err != nil {
		return err
	}

	path, err := git.UninstallHook(repo)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		fmt.Fprintln(cmd.OutOrStdout(), "No prepare-commit-msg hook installed.")
		return nil
	case errors.Is(err, git.ErrHookNotOwned):
		return apperrors.Wrap(err, apperrors.ErrInvalidArguments,
			fmt.Sprintf("%s was not installed by diffcommit; leaving it in place", path))
	case err != nil:
		return apperrors.Wrap(err, apperrors.ErrFileSystemError, "failed to remove hook")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", path)
	return nil
}
