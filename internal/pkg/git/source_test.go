package git

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/diffcommit/diffcommit/internal/pkg/errors"
)

func TestOpenRepository(t *testing.T) {
	tmpDir := setupTestRepo(t)
	writeFile(t, tmpDir, "pkg/sub/file.go", "package sub\n")

	repo, err := OpenRepository(filepath.Join(tmpDir, "pkg", "sub"))
	require.NoError(t, err)

	assert.Equal(t, tmpDir, repo.Root)
	assert.Equal(t, filepath.Join(tmpDir, ".git"), repo.GitDir)
	assert.Equal(t, filepath.Join(tmpDir, ".git", "hooks"), repo.HooksDir())

	branch, err := repo.Branch()
	require.NoError(t, err)
	assert.Equal(t, "main", branch, "branch resolves before the first commit")
}

func TestOpenRepository_DetachedHead(t *testing.T) {
	tmpDir := setupTestRepo(t)
	writeFile(t, tmpDir, "a.txt", "a\n")
	runGit(t, tmpDir, "add", ".")
	runGit(t, tmpDir, "commit", "-m", "initial commit")
	runGit(t, tmpDir, "checkout", "--detach")

	repo, err := OpenRepository(tmpDir)
	require.NoError(t, err)

	branch, err := repo.Branch()
	require.NoError(t, err)
	assert.Equal(t, "HEAD", branch)
}

func TestOpenRepository_Errors(t *testing.T) {
	tests := []struct {
		name string
		dir  func(t *testing.T) string
		code apperrors.ErrorCode
	}{
		{
			name: "missing directory",
			dir:  func(t *testing.T) string { return filepath.Join(t.TempDir(), "does-not-exist") },
			code: apperrors.ErrNoWorkspace,
		},
		{
			name: "file instead of directory",
			dir: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "file.txt", "x")
				return filepath.Join(dir, "file.txt")
			},
			code: apperrors.ErrNoWorkspace,
		},
		{
			name: "not a repository",
			dir:  func(t *testing.T) string { return t.TempDir() },
			code: apperrors.ErrNoRepository,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := OpenRepository(tt.dir(t))
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, tt.code), "got %v", err)
		})
	}
}

func TestOpenSource_DefaultSink(t *testing.T) {
	tmpDir := setupTestRepo(t)

	src, err := OpenSource(tmpDir, "")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(tmpDir, ".git", DefaultMessageFile), src.MessagePath())
	assert.Equal(t, tmpDir, src.Root())
	assert.Equal(t, "main", src.Branch())
}

func TestOpenSource_RelativeSink(t *testing.T) {
	tmpDir := setupTestRepo(t)

	src, err := OpenSource(tmpDir, ".git/COMMIT_EDITMSG")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, ".git", "COMMIT_EDITMSG"), src.MessagePath())
}

func TestRepoSource_Diff(t *testing.T) {
	tmpDir := setupTestRepo(t)
	writeFile(t, tmpDir, "README.md", "# Test\n")
	runGit(t, tmpDir, "add", ".")
	runGit(t, tmpDir, "commit", "-m", "initial commit")

	src, err := OpenSource(tmpDir, "")
	require.NoError(t, err)

	_, err = src.Diff(context.Background(), true)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrNoStagedChanges), "got %v", err)
	assert.Equal(t, "No changes detected", apperrors.UserMessage(err))

	writeFile(t, tmpDir, "README.md", "# Test\nmore\n")
	runGit(t, tmpDir, "add", ".")

	diff, err := src.Diff(context.Background(), true)
	require.NoError(t, err)
	assert.Contains(t, diff, "+more")
}

func TestRepoSource_SetMessage(t *testing.T) {
	tmpDir := setupTestRepo(t)
	src, err := OpenSource(tmpDir, "")
	require.NoError(t, err)

	require.NoError(t, src.SetMessage("feat(x): add foo\n\n- bullet"))
	data, err := os.ReadFile(src.MessagePath())
	require.NoError(t, err)
	assert.Equal(t, "feat(x): add foo\n\n- bullet\n", string(data))

	require.NoError(t, src.SetMessage("fix: replace"))
	data, err = os.ReadFile(src.MessagePath())
	require.NoError(t, err)
	assert.Equal(t, "fix: replace\n", string(data), "the previous message is replaced")
}

func TestRepoSource_SetMessage_KeepsComments(t *testing.T) {
	tmpDir := setupTestRepo(t)
	sink := filepath.Join(tmpDir, ".git", "COMMIT_EDITMSG")
	writeFile(t, tmpDir, ".git/COMMIT_EDITMSG", "\n# Please enter the commit message for your changes.\n# On branch main\n")

	src, err := OpenSource(tmpDir, sink)
	require.NoError(t, err)
	require.NoError(t, src.SetMessage("docs: update readme"))

	data, err := os.ReadFile(sink)
	require.NoError(t, err)
	assert.Equal(t, "docs: update readme\n\n# Please enter the commit message for your changes.\n# On branch main\n", string(data))
}

func TestRepoSource_SetMessage_Failure(t *testing.T) {
	tmpDir := setupTestRepo(t)
	blocker := filepath.Join(tmpDir, "blocker")
	writeFile(t, tmpDir, "blocker", "x")

	src, err := OpenSource(tmpDir, filepath.Join(blocker, "MSG"))
	require.NoError(t, err)

	err = src.SetMessage("fix: x")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrWriteBack))
	assert.True(t, strings.HasPrefix(apperrors.UserMessage(err), "Failed to write commit message: "))
}

func TestRepoSource_Commit(t *testing.T) {
	tmpDir := setupTestRepo(t)
	writeFile(t, tmpDir, "a.txt", "a\n")
	runGit(t, tmpDir, "add", ".")

	src, err := OpenSource(tmpDir, "")
	require.NoError(t, err)
	require.NoError(t, src.SetMessage("chore(repo): seed"))
	require.NoError(t, src.Commit(context.Background()))

	assert.Equal(t, "chore(repo): seed", strings.TrimSpace(runGit(t, tmpDir, "log", "-1", "--format=%s")))
}
