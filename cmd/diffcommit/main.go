// Package main is the entry point for the diffcommit CLI application.
// diffcommit generates Conventional Commits messages for pending git
// changes with a hosted or local language model.
package main

import (
	"fmt"
	"os"

	"github.com/diffcommit/diffcommit/internal/cmd"
	apperrors "github.com/diffcommit/diffcommit/internal/pkg/errors"
)

// Version information - set via ldflags during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := cmd.NewRootCmd(version, commit, date)
	if err := rootCmd.Execute(); err != nil {
		// Errors already shown as notifications only set the exit code.
		if !apperrors.IsReported(err) {
			if apperrors.IsVerbose() {
				fmt.Fprintln(os.Stderr, apperrors.FormatErrorVerbose(err))
			} else {
				fmt.Fprintln(os.Stderr, apperrors.FormatError(err))
			}
		}
		os.Exit(apperrors.GetExitCode(err))
	}
}
