package git

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// HookName is the Git hook diffcommit installs.
const HookName = "prepare-commit-msg"

// hookMarker identifies hooks written by InstallHook.
const hookMarker = "# installed by diffcommit"

// ErrHookExists is returned when a foreign hook is already installed.
var ErrHookExists = errors.New("a prepare-commit-msg hook already exists")

// ErrHookNotOwned is returned when removing a hook diffcommit did not write.
var ErrHookNotOwned = errors.New("prepare-commit-msg hook was not installed by diffcommit")

// hookScript returns a hook that fills Git's message file for plain
// `git commit`. Messages passed with -m, -F, merges and amends are left alone.
// A failed generation never blocks the commit.
func hookScript(executable string) string {
	return fmt.Sprintf(`#!/bin/sh
%s
case "$2" in
  message|template|merge|squash|commit) exit 0 ;;
esac
%q generate --yes --hook "$1" || true
`, hookMarker, executable)
}

// InstallHook writes the prepare-commit-msg hook into the repository.
func InstallHook(repo *Repository, executable string) (string, error) {
	path := filepath.Join(repo.HooksDir(), HookName)

	if _, err := os.Stat(path); err == nil {
		return path, ErrHookExists
	} else if !errors.Is(err, fs.ErrNotExist) {
		return path, err
	}

	if err := os.MkdirAll(repo.HooksDir(), 0755); err != nil {
		return path, fmt.Errorf("failed to create hooks directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(hookScript(executable)), 0755); err != nil {
		return path, fmt.Errorf("failed to write hook: %w", err)
	}
	return path, nil
}

// UninstallHook removes a hook previously written by InstallHook.
func UninstallHook(repo *Repository) (string, error) {
	path := filepath.Join(repo.HooksDir(), HookName)

	data, err := os.ReadFile(path)
	if err != nil {
		return path, err
	}
	if !strings.Contains(string(data), hookMarker) {
		return path, ErrHookNotOwned
	}
	return path, os.Remove(path)
}
