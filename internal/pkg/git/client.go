// Package git reads diffs from and writes commit messages to a Git repository.
package git

import (
	"context"
	"errors"
	"os/exec"
	"strings"

	apperrors "github.com/diffcommit/diffcommit/internal/pkg/errors"
)

// ChangeType represents the type of change in a diff.
type ChangeType int

const (
	ChangeTypeAdded ChangeType = iota
	ChangeTypeModified
	ChangeTypeDeleted
	ChangeTypeRenamed
)

// String returns the string representation of ChangeType.
func (c ChangeType) String() string {
	switch c {
	case ChangeTypeAdded:
		return "added"
	case ChangeTypeModified:
		return "modified"
	case ChangeTypeDeleted:
		return "deleted"
	case ChangeTypeRenamed:
		return "renamed"
	default:
		return "unknown"
	}
}

// FileChange summarizes one file of a unified diff.
type FileChange struct {
	Path       string
	OldPath    string // set for renames
	ChangeType ChangeType
	Additions  int
	Deletions  int
	IsBinary   bool
}

// DiffStats summarizes a unified diff.
type DiffStats struct {
	Files          []FileChange
	TotalAdditions int
	TotalDeletions int
}

// TotalFiles returns the number of files touched by the diff.
func (s DiffStats) TotalFiles() int {
	return len(s.Files)
}

// Client runs git commands in a working directory.
type Client struct {
	// workDir is the working directory for git commands.
	// If empty, uses the current directory.
	workDir string
}

// NewClient creates a Client for workDir.
func NewClient(workDir string) *Client {
	return &Client{workDir: workDir}
}

func (c *Client) command(ctx context.Context, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, "git", args...)
	if c.workDir != "" {
		cmd.Dir = c.workDir
	}
	return cmd
}

// Diff returns the raw unified diff of the index (staged) or the working tree.
// The output is returned unmodified, including trailing whitespace.
func (c *Client) Diff(ctx context.Context, staged bool) (string, error) {
	args := []string{"diff", "--no-color", "--no-ext-diff"}
	if staged {
		args = append(args, "--cached")
	}

	output, err := c.command(ctx, args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", apperrors.NewGitError(err, string(exitErr.Stderr))
		}
		return "", apperrors.NewGitError(err, "")
	}
	return string(output), nil
}

// Commit records the staged changes with the message stored in messageFile.
func (c *Client) Commit(ctx context.Context, messageFile string) error {
	output, err := c.command(ctx, "commit", "-F", messageFile, "--cleanup=strip").CombinedOutput()
	if err != nil {
		return apperrors.NewGitError(err, string(output))
	}
	return nil
}

// Summarize parses a unified diff into per-file statistics.
func Summarize(diff string) DiffStats {
	var stats DiffStats

	for _, fileDiff := range splitByFileDiff(diff) {
		fc := parseFileDiff(fileDiff)
		stats.TotalAdditions += fc.Additions
		stats.TotalDeletions += fc.Deletions
		stats.Files = append(stats.Files, fc)
	}

	return stats
}

// splitByFileDiff splits the diff output by file boundaries.
func splitByFileDiff(diff string) []string {
	var result []string
	var current strings.Builder

	for _, line := range strings.SplitAfter(diff, "\n") {
		if strings.HasPrefix(line, "diff --git ") && current.Len() > 0 {
			result = append(result, current.String())
			current.Reset()
		}
		if current.Len() == 0 && !strings.HasPrefix(line, "diff --git ") {
			continue
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		result = append(result, current.String())
	}
	return result
}

// parseFileDiff parses a single file's diff section.
func parseFileDiff(fileDiff string) FileChange {
	fc := FileChange{ChangeType: ChangeTypeModified}
	inHunk := false

	for _, line := range strings.Split(fileDiff, "\n") {
		switch {
		case strings.HasPrefix(line, "diff --git "):
			fc.Path = extractFilePath(line)
		case strings.HasPrefix(line, "@@"):
			inHunk = true
		case inHunk && strings.HasPrefix(line, "+"):
			fc.Additions++
		case inHunk && strings.HasPrefix(line, "-"):
			fc.Deletions++
		case inHunk:
			// context line or "\ No newline at end of file"
		case strings.HasPrefix(line, "new file mode"):
			fc.ChangeType = ChangeTypeAdded
		case strings.HasPrefix(line, "deleted file mode"):
			fc.ChangeType = ChangeTypeDeleted
		case strings.HasPrefix(line, "rename from "):
			fc.OldPath = strings.TrimPrefix(line, "rename from ")
			fc.ChangeType = ChangeTypeRenamed
		case strings.HasPrefix(line, "rename to "):
			fc.Path = strings.TrimPrefix(line, "rename to ")
		case strings.HasPrefix(line, "Binary files"), strings.HasPrefix(line, "GIT binary patch"):
			fc.IsBinary = true
		}
	}

	return fc
}

// extractFilePath extracts the file path from a diff header line.
// Format: "diff --git a/path/to/file b/path/to/file"
func extractFilePath(line string) string {
	line = strings.TrimPrefix(line, "diff --git ")

	if parts := strings.SplitN(line, " b/", 2); len(parts) == 2 {
		return parts[1]
	}
	if strings.HasPrefix(line, "a/") {
		return strings.TrimPrefix(strings.SplitN(line, " ", 2)[0], "a/")
	}
	return line
}
