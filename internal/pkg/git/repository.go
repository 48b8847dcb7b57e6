package git

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/storage/filesystem"

	apperrors "github.com/diffcommit/diffcommit/internal/pkg/errors"
)

// Repository describes the repository that contains a working directory.
type Repository struct {
	// Root is the top-level directory of the working tree.
	Root string
	// GitDir is the repository's .git directory.
	GitDir string

	repo *gogit.Repository
}

// OpenRepository finds the repository containing workDir, walking up parent
// directories. An empty workDir means the current directory.
func OpenRepository(workDir string) (*Repository, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, apperrors.NewNoWorkspaceError(err)
		}
		workDir = wd
	}

	info, err := os.Stat(workDir)
	if err != nil {
		return nil, apperrors.NewNoWorkspaceError(err)
	}
	if !info.IsDir() {
		return nil, apperrors.NewNoWorkspaceError(fmt.Errorf("%s is not a directory", workDir))
	}

	repo, err := gogit.PlainOpenWithOptions(workDir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return nil, apperrors.NewNoRepositoryError(err)
		}
		return nil, apperrors.NewNoRepositoryError(fmt.Errorf("failed to open repository at %s: %w", workDir, err))
	}

	wt, err := repo.Worktree()
	if err != nil {
		// bare repositories have nothing to diff
		return nil, apperrors.NewNoRepositoryError(err)
	}

	r := &Repository{
		Root: wt.Filesystem.Root(),
		repo: repo,
	}
	if fs, ok := repo.Storer.(*filesystem.Storage); ok {
		r.GitDir = fs.Filesystem().Root()
	} else {
		r.GitDir = filepath.Join(r.Root, ".git")
	}

	return r, nil
}

// Branch returns the short name of the checked out branch, or "HEAD" when detached.
// It works before the first commit.
func (r *Repository) Branch() (string, error) {
	ref, err := r.repo.Reference(plumbing.HEAD, false)
	if err != nil {
		return "", fmt.Errorf("failed to read HEAD: %w", err)
	}
	if ref.Type() == plumbing.SymbolicReference {
		return ref.Target().Short(), nil
	}
	return plumbing.HEAD.String(), nil
}

// HooksDir returns the directory Git reads hooks from.
func (r *Repository) HooksDir() string {
	return filepath.Join(r.GitDir, "hooks")
}
