// Package app contains the application layer with business orchestration logic.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/diffcommit/diffcommit/internal/pkg/ai"
	"github.com/diffcommit/diffcommit/internal/pkg/config"
	apperrors "github.com/diffcommit/diffcommit/internal/pkg/errors"
	"github.com/diffcommit/diffcommit/internal/pkg/git"
	"github.com/diffcommit/diffcommit/internal/pkg/history"
	"github.com/diffcommit/diffcommit/internal/pkg/message"
	"github.com/diffcommit/diffcommit/internal/pkg/ui"
)

// writeFile is a variable to allow mocking in tests.
var writeFile = os.WriteFile

// IncompleteWarning is shown when the backend stopped before finishing.
const IncompleteWarning = "Commit message may be incomplete. Review it before committing."

// EmptyMessageWarning is shown when a preview is saved with no text.
const EmptyMessageWarning = "Commit message is empty. Nothing was written."

// SourceOpener acquires the repository a generation reads from.
type SourceOpener func() (git.Source, error)

// BackendFactory builds the backend for one generation.
type BackendFactory func(cfg config.GenerationConfig, credential string) (ai.Backend, error)

// GenerateOptions contains options for the generate workflow.
type GenerateOptions struct {
	// Staged diffs the index; otherwise the working tree.
	Staged bool
	// OutputFile receives the message instead of the sink.
	OutputFile string
	// Stdout prints the message instead of writing it.
	Stdout bool
	// Commit runs `git commit` with the message once it is in the sink.
	Commit bool
}

// Generation is one generated message and where it came from.
type Generation struct {
	Message string
	Result  *ai.Result
	Source  git.Source
	EntryID string
}

// CommitService orchestrates commit message generation:
// diff → credential → config → backend → normalize → write-back.
type CommitService struct {
	openSource  SourceOpener
	credentials *CredentialManager
	uiManager   ui.Manager
	historyMgr  history.Manager
	config      *config.Config
	newBackend  BackendFactory
	stdout      io.Writer
}

// NewCommitService creates a new CommitService with the given dependencies.
// historyMgr may be nil when history is disabled.
func NewCommitService(
	openSource SourceOpener,
	credentials *CredentialManager,
	uiManager ui.Manager,
	historyMgr history.Manager,
	cfg *config.Config,
) *CommitService {
	return &CommitService{
		openSource:  openSource,
		credentials: credentials,
		uiManager:   uiManager,
		historyMgr:  historyMgr,
		config:      cfg,
		newBackend: func(gen config.GenerationConfig, credential string) (ai.Backend, error) {
			return ai.NewBackend(gen, credential)
		},
		stdout: os.Stdout,
	}
}

// GenerateMessage produces a normalized commit message for the pending diff.
// Every failure except a malformed backend configuration has already been
// shown to the user when it is returned.
func (s *CommitService) GenerateMessage(ctx context.Context, staged bool) (*Generation, error) {
	source, err := s.openSource()
	if err != nil {
		return nil, s.report(err)
	}

	diff, err := source.Diff(ctx, staged)
	if err != nil {
		return nil, s.report(err)
	}

	gen := s.config.Generation()

	var credential string
	if gen.Provider.IsHosted() {
		credential, err = s.credentials.Resolve(gen.Provider)
		if err != nil {
			return nil, err
		}
	}

	backend, err := s.newBackend(gen, credential)
	if err != nil {
		return nil, err
	}

	spinner := s.uiManager.ShowSpinner(fmt.Sprintf("Generating commit message with %s...", backend.Name()))
	spinner.Start()
	result, err := backend.Generate(ctx, diff, gen)
	spinner.Stop()
	if err != nil {
		return nil, s.report(err)
	}

	switch result.Outcome {
	case ai.OutcomeEmpty:
		return nil, s.report(apperrors.NewNoResultError())
	case ai.OutcomeIncomplete:
		s.uiManager.ShowWarning(IncompleteWarning)
	}

	for _, issue := range message.Lint(result.Message, gen.AllowedTypes) {
		apperrors.Debug("lint: %s", issue)
	}

	g := &Generation{
		Message: result.Message,
		Result:  result,
		Source:  source,
	}
	g.EntryID = s.record(g, diff, gen)

	return g, nil
}

// record appends the generation to the history and returns the entry ID.
// History failures are logged only.
func (s *CommitService) record(g *Generation, diff string, gen config.GenerationConfig) string {
	if s.historyMgr == nil {
		return ""
	}

	stats := git.Summarize(diff)
	model := gen.Model
	if gen.Provider == config.ProviderOllama {
		model = gen.LocalModel
	}

	entry := &history.Entry{
		Message:      g.Message,
		Repository:   g.Source.Root(),
		Branch:       g.Source.Branch(),
		DiffSummary:  fmt.Sprintf("%d files, +%d -%d", stats.TotalFiles(), stats.TotalAdditions, stats.TotalDeletions),
		Provider:     string(gen.Provider),
		Model:        model,
		StopReason:   g.Result.StopReason,
		InputTokens:  g.Result.InputTokens,
		OutputTokens: g.Result.OutputTokens,
		Incomplete:   g.Result.Outcome == ai.OutcomeIncomplete,
	}
	if err := s.historyMgr.Save(entry); err != nil {
		apperrors.Warn("failed to save history: %v", err)
		return ""
	}
	return entry.ID
}

// Generate generates a message and delivers it according to opts.
func (s *CommitService) Generate(ctx context.Context, opts GenerateOptions) error {
	g, err := s.GenerateMessage(ctx, opts.Staged)
	if err != nil {
		return err
	}

	switch {
	case opts.Stdout:
		if _, err := fmt.Fprintln(s.stdout, g.Message); err != nil {
			return s.report(apperrors.NewWriteBackError(err))
		}
		return nil

	case opts.OutputFile != "":
		if err := writeFile(opts.OutputFile, []byte(g.Message+"\n"), 0644); err != nil {
			return s.report(apperrors.NewWriteBackError(err))
		}
		s.uiManager.ShowSuccess(fmt.Sprintf("Commit message written to %s", opts.OutputFile))
		return nil
	}

	if err := g.Source.SetMessage(g.Message); err != nil {
		return s.report(err)
	}

	if !opts.Commit {
		s.uiManager.ShowSuccess(fmt.Sprintf("Commit message written to %s", displayPath(g.Source)))
		return nil
	}

	return s.commit(ctx, g)
}

// commit records the staged changes with the message already in the sink.
func (s *CommitService) commit(ctx context.Context, g *Generation) error {
	spinner := s.uiManager.ShowSpinner("Committing changes...")
	spinner.Start()
	err := g.Source.Commit(ctx)
	spinner.Stop()
	if err != nil {
		return s.report(err)
	}

	if s.historyMgr != nil && g.EntryID != "" {
		if err := s.historyMgr.MarkCommitted(g.EntryID); err != nil {
			apperrors.Warn("failed to update history: %v", err)
		}
	}

	s.uiManager.ShowSuccess("Successfully committed!")
	return nil
}

// Preview generates a message and opens it in an interactive preview.
// Saving writes it to the sink.
func (s *CommitService) Preview(ctx context.Context, staged bool) error {
	g, err := s.GenerateMessage(ctx, staged)
	if err != nil {
		return err
	}

	session := OpenPreview(g.Message, g.Source)
	for {
		if err := s.uiManager.DisplayMessage(session.Content()); err != nil {
			session.Close()
			return s.report(apperrors.NewPreviewError(err))
		}

		action, err := s.uiManager.PromptPreviewAction()
		if err != nil {
			session.Close()
			return s.report(apperrors.NewPreviewError(err))
		}

		switch action {
		case ui.ActionEdit:
			edited, err := s.uiManager.EditMessage(session.Content())
			if err != nil {
				session.Close()
				return s.report(apperrors.NewPreviewError(err))
			}
			if err := session.Update(edited); err != nil {
				return s.report(apperrors.NewPreviewError(err))
			}

		case ui.ActionSave:
			written, err := session.Save()
			if err != nil {
				session.Close()
				return s.report(err)
			}
			if err := session.Close(); err != nil {
				return s.report(err)
			}
			if !written {
				s.uiManager.ShowWarning(EmptyMessageWarning)
				return nil
			}
			s.uiManager.ShowSuccess("Commit message updated")
			return nil

		default:
			changed := session.Modified()
			if err := session.Close(); err != nil {
				return s.report(err)
			}
			if changed {
				s.uiManager.ShowSuccess("Commit message updated")
			}
			return nil
		}
	}
}

// report shows err to the user once and marks it as shown.
func (s *CommitService) report(err error) error {
	return report(s.uiManager, err)
}

func report(uiManager ui.Manager, err error) error {
	if err == nil || apperrors.IsReported(err) {
		return err
	}
	if appErr := apperrors.GetAppError(err); appErr != nil && appErr.Code.IsWarning() {
		uiManager.ShowWarning(apperrors.UserMessage(err))
	} else {
		uiManager.ShowError(err)
	}
	return apperrors.MarkReported(err)
}

// displayPath shortens the sink path relative to the repository root.
func displayPath(source git.Source) string {
	path := source.MessagePath()
	if rel, err := filepath.Rel(source.Root(), path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}
