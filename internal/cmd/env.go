package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/diffcommit/diffcommit/internal/app"
	"github.com/diffcommit/diffcommit/internal/pkg/ai"
	"github.com/diffcommit/diffcommit/internal/pkg/config"
	apperrors "github.com/diffcommit/diffcommit/internal/pkg/errors"
	"github.com/diffcommit/diffcommit/internal/pkg/git"
	"github.com/diffcommit/diffcommit/internal/pkg/history"
	"github.com/diffcommit/diffcommit/internal/pkg/security"
	"github.com/diffcommit/diffcommit/internal/pkg/ui"
)

// newSecretStore and newModelLister are variables to allow swapping in tests.
var (
	newSecretStore = func() security.SecretStore { return security.NewKeyringStore() }
	newModelLister = func() ai.ModelLister { return ai.NewModelDirectory(nil) }
	newUIManager   = ui.NewManager
)

// environment is everything a command needs after flags and config are resolved.
type environment struct {
	cfgMgr  *config.ViperManager
	cfg     *config.Config
	ui      ui.Manager
	repoDir string
}

// loadEnvironment applies the global flags and loads the configuration.
// Priority: flags > env > .env > file > defaults.
func loadEnvironment(cmd *cobra.Command, nonInteractive bool) (*environment, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	configPath, _ := cmd.Flags().GetString("config")
	providerOverride, _ := cmd.Flags().GetString("provider")
	modelOverride, _ := cmd.Flags().GetString("model")
	repoDir, _ := cmd.Flags().GetString("repo")

	apperrors.SetVerbose(verbose)

	dotEnvDir := repoDir
	if dotEnvDir == "" {
		dotEnvDir, _ = os.Getwd()
	}
	if err := config.LoadDotEnv(dotEnvDir); err != nil {
		apperrors.Warn("%v", err)
	}

	cfgMgr, err := config.NewManager(configPath)
	if err != nil {
		apperrors.Error("Failed to create config manager: %v", err)
		return nil, apperrors.Wrap(err, apperrors.ErrInvalidConfig, "failed to create config manager")
	}
	if configPath != "" {
		apperrors.Debug("Using custom config path: %s", configPath)
	}

	// Overrides are set before Load and never persist.
	if providerOverride != "" {
		if !config.Provider(providerOverride).Valid() {
			return nil, apperrors.New(apperrors.ErrInvalidArguments,
				"unknown provider "+providerOverride+" (expected anthropic, openai or ollama)")
		}
		cfgMgr.SetOverride("provider", providerOverride)
		apperrors.Debug("Provider overridden via flag: %s", providerOverride)
	}

	cfg, err := cfgMgr.Load()
	if err != nil {
		apperrors.Error("Failed to load config: %v", err)
		return nil, apperrors.Wrap(err, apperrors.ErrInvalidConfig, "failed to load config")
	}

	if modelOverride != "" {
		key := config.ModelKey(cfg.Generation().Provider)
		cfgMgr.SetOverride(key, modelOverride)
		apperrors.Debug("Model overridden via flag: %s=%s", key, modelOverride)
		if cfg, err = cfgMgr.Load(); err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrInvalidConfig, "failed to load config")
		}
	}

	nonInteractive = nonInteractive || !ui.IsInteractive()

	return &environment{
		cfgMgr:  cfgMgr,
		cfg:     cfg,
		ui:      newUIManager(nonInteractive, cfg.UI.ColorEnabled, cfg.UI.Editor),
		repoDir: repoDir,
	}, nil
}

func (e *environment) credentials() *app.CredentialManager {
	return app.NewCredentialManager(newSecretStore(), e.ui)
}

func (e *environment) models() *app.ModelService {
	return app.NewModelService(newModelLister(), e.cfgMgr, e.cfg, e.ui)
}

// commitService wires a CommitService whose sink is sinkPath, or the
// configured message file when sinkPath is empty.
func (e *environment) commitService(sinkPath string) *app.CommitService {
	if sinkPath == "" {
		sinkPath = e.cfg.Git.MessageFile
	}

	var historyMgr history.Manager
	if e.cfg.History.Enabled {
		historyMgr = history.NewFileManager(e.cfg.History.FilePath, e.cfg.History.MaxEntries)
	}

	openSource := func() (git.Source, error) {
		source, err := git.OpenSource(e.repoDir, sinkPath)
		if err != nil {
			return nil, err
		}
		return source, nil
	}

	return app.NewCommitService(openSource, e.credentials(), e.ui, historyMgr, e.cfg)
}

// signalContext returns a context cancelled on interrupt.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}
