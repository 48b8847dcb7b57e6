package git

import (
	"bufio"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/diffcommit/diffcommit/internal/pkg/errors"
)

// DefaultMessageFile is the sink file created inside the .git directory.
const DefaultMessageFile = "DIFFCOMMIT_EDITMSG"

// Source reads the pending diff of a repository and receives the generated message.
type Source interface {
	// Diff returns the raw diff. An empty diff is ErrNoStagedChanges.
	Diff(ctx context.Context, staged bool) (string, error)
	// SetMessage replaces the message held by the sink.
	SetMessage(text string) error
	// MessagePath returns the sink file.
	MessagePath() string
	// Commit records the staged changes with the message in the sink.
	Commit(ctx context.Context) error
	// Root returns the top-level directory of the working tree.
	Root() string
	// Branch returns the checked out branch.
	Branch() string
}

// RepoSource is a Source backed by a local repository.
type RepoSource struct {
	repo   *Repository
	client *Client
	sink   string
	branch string
}

// OpenSource acquires the repository containing workDir. sinkPath may be
// empty for <gitdir>/DIFFCOMMIT_EDITMSG.
func OpenSource(workDir, sinkPath string) (*RepoSource, error) {
	repo, err := OpenRepository(workDir)
	if err != nil {
		return nil, err
	}

	if sinkPath == "" {
		sinkPath = filepath.Join(repo.GitDir, DefaultMessageFile)
	} else if !filepath.IsAbs(sinkPath) {
		base := workDir
		if base == "" {
			base, _ = os.Getwd()
		}
		sinkPath = filepath.Join(base, sinkPath)
	}

	branch, err := repo.Branch()
	if err != nil {
		apperrors.Debug("could not resolve branch: %v", err)
	}

	return &RepoSource{
		repo:   repo,
		client: NewClient(repo.Root),
		sink:   sinkPath,
		branch: branch,
	}, nil
}

// Diff returns the raw diff of the index (staged) or the working tree.
func (s *RepoSource) Diff(ctx context.Context, staged bool) (string, error) {
	diff, err := s.client.Diff(ctx, staged)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(diff) == "" {
		return "", apperrors.NewNoStagedChangesError()
	}

	stats := Summarize(diff)
	apperrors.Debug("diff: %d files, +%d -%d, %d bytes",
		stats.TotalFiles(), stats.TotalAdditions, stats.TotalDeletions, len(diff))

	return diff, nil
}

// SetMessage writes text to the sink followed by any '#' comment lines
// already in it, so Git's own commit template survives.
func (s *RepoSource) SetMessage(text string) error {
	comments, err := readComments(s.sink)
	if err != nil {
		return apperrors.NewWriteBackError(err)
	}

	var sb strings.Builder
	sb.WriteString(text)
	sb.WriteString("\n")
	if len(comments) > 0 {
		sb.WriteString("\n")
		sb.WriteString(strings.Join(comments, "\n"))
		sb.WriteString("\n")
	}

	if err := os.MkdirAll(filepath.Dir(s.sink), 0755); err != nil {
		return apperrors.NewWriteBackError(err)
	}
	if err := os.WriteFile(s.sink, []byte(sb.String()), 0644); err != nil {
		return apperrors.NewWriteBackError(err)
	}
	return nil
}

func readComments(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var comments []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := scanner.Text(); strings.HasPrefix(line, "#") {
			comments = append(comments, line)
		}
	}
	return comments, scanner.Err()
}

// MessagePath returns the sink file.
func (s *RepoSource) MessagePath() string {
	return s.sink
}

// Commit records the staged changes with the message in the sink.
func (s *RepoSource) Commit(ctx context.Context) error {
	return s.client.Commit(ctx, s.sink)
}

// Root returns the top-level directory of the working tree.
func (s *RepoSource) Root() string {
	return s.repo.Root
}

// Branch returns the checked out branch, or "" when it could not be read.
func (s *RepoSource) Branch() string {
	return s.branch
}
