package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	apperrors "github.com/diffcommit/diffcommit/internal/pkg/errors"
	"github.com/diffcommit/diffcommit/internal/pkg/history"
)

const (
	// DefaultHistoryLimit is the default number of history entries to display.
	DefaultHistoryLimit = 20
)

// NewHistoryCmd creates the history command and its subcommands.
func NewHistoryCmd() *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "View generated commit message history",
		Long: `View the history of generated commit messages.

By default, displays the most recent 20 entries. Use --limit to change the number of entries shown.

Examples:
  diffcommit history           # Show last 20 entries
  diffcommit history --limit 5 # Show last 5 entries
  diffcommit history clear     # Clear all history`,
		Args: cobra.NoArgs,
		RunE: runHistoryList,
	}

	historyCmd.Flags().IntP("limit", "l", DefaultHistoryLimit, "Number of entries to display")

	historyCmd.AddCommand(newHistoryClearCmd())

	return historyCmd
}

// loadHistory returns the history manager, or nil when history is disabled.
func loadHistory(cmd *cobra.Command) (history.Manager, error) {
	mgr, err := newConfigManager(cmd)
	if err != nil {
		return nil, err
	}

	cfg, err := mgr.Load()
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInvalidConfig, "failed to load config")
	}

	if !cfg.History.Enabled {
		return nil, nil
	}
	return history.NewFileManager(cfg.History.FilePath, cfg.History.MaxEntries), nil
}

// runHistoryList displays the history entries.
func runHistoryList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	out := cmd.OutOrStdout()

	historyMgr, err := loadHistory(cmd)
	if err != nil {
		return err
	}
	if historyMgr == nil {
		fmt.Fprintln(out, "History is disabled. Enable it with: diffcommit config set history.enabled true")
		return nil
	}

	entries, err := historyMgr.List(limit)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrFileSystemError, "failed to load history")
	}

	if len(entries) == 0 {
		fmt.Fprintln(out, "No history entries found.")
		return nil
	}

	fmt.Fprintf(out, "Showing %d most recent entries:\n\n", len(entries))

	// Most recent first
	for i := len(entries) - 1; i >= 0; i-- {
		printHistoryEntry(out, entries[i], len(entries)-i)
	}

	return nil
}

// printHistoryEntry formats and prints a single history entry.
func printHistoryEntry(out io.Writer, entry *history.Entry, index int) {
	timestamp := entry.Timestamp.Format(time.RFC3339)

	status := "not committed"
	if entry.Committed {
		status = "committed"
	}
	if entry.Incomplete {
		status += ", incomplete"
	}

	fmt.Fprintf(out, "[%d] %s (%s)\n", index, timestamp, status)

	if entry.Repository != "" {
		fmt.Fprintf(out, "    Repository: %s", entry.Repository)
		if entry.Branch != "" {
			fmt.Fprintf(out, " (%s)", entry.Branch)
		}
		fmt.Fprintln(out)
	}

	if entry.Provider != "" || entry.Model != "" {
		fmt.Fprintf(out, "    Provider: %s", entry.Provider)
		if entry.Model != "" {
			fmt.Fprintf(out, " (%s)", entry.Model)
		}
		fmt.Fprintln(out)
	}

	if entry.InputTokens > 0 || entry.OutputTokens > 0 {
		fmt.Fprintf(out, "    Tokens: %d in, %d out\n", entry.InputTokens, entry.OutputTokens)
	}

	fmt.Fprintln(out, "    Message:")
	for _, line := range strings.Split(entry.Message, "\n") {
		fmt.Fprintf(out, "      %s\n", line)
	}

	if entry.DiffSummary != "" {
		fmt.Fprintf(out, "    Diff Summary: %s\n", entry.DiffSummary)
	}

	fmt.Fprintln(out)
}

// newHistoryClearCmd creates the 'history clear' subcommand.
func newHistoryClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all history entries",
		Long: `Delete all entries from the history file.

This action cannot be undone.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			historyMgr, err := loadHistory(cmd)
			if err != nil {
				return err
			}
			if historyMgr == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "History is disabled.")
				return nil
			}

			if err := historyMgr.Clear(); err != nil {
				return apperrors.Wrap(err, apperrors.ErrFileSystemError, "failed to clear history")
			}

			fmt.Fprintln(cmd.OutOrStdout(), "History cleared successfully.")
			return nil
		},
	}
}
