package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/diffcommit/diffcommit/internal/pkg/config"
	apperrors "github.com/diffcommit/diffcommit/internal/pkg/errors"
	"github.com/diffcommit/diffcommit/internal/pkg/ui"
)

// NewConfigCmd creates the config command and its subcommands.
func NewConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage diffcommit configuration",
		Long: `Manage diffcommit configuration settings.

Use subcommands to initialize, view, or modify configuration values.
Configuration is stored in ~/.diffcommit/config.yaml by default. Every key
can also be set with a DIFFCOMMIT_ environment variable, e.g.
DIFFCOMMIT_OLLAMA_MODEL for ollama.model.`,
	}

	configCmd.AddCommand(newConfigInitCmd())
	configCmd.AddCommand(newConfigSetCmd())
	configCmd.AddCommand(newConfigGetCmd())
	configCmd.AddCommand(newConfigListCmd())

	return configCmd
}

// newConfigManager creates the config manager named by the --config flag.
func newConfigManager(cmd *cobra.Command) (*config.ViperManager, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	apperrors.SetVerbose(verbose)

	configPath, _ := cmd.Flags().GetString("config")
	mgr, err := config.NewManager(configPath)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInvalidConfig, "failed to create config manager")
	}
	return mgr, nil
}

// newConfigInitCmd creates the 'config init' subcommand.
func newConfigInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the configuration file and choose a provider",
		Long: `Create ~/.diffcommit/config.yaml with default values, then choose a
provider. Hosted providers prompt for an API key; Ollama prompts for the
server and a model.

The configuration file is created with permissions 0600 (user read/write only).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(cmd, false)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !env.cfgMgr.ConfigExists() {
				if err := env.cfgMgr.Init(); err != nil {
					return apperrors.NewConfigWriteError(err)
				}
				fmt.Fprintf(out, "Configuration file created at %s\n", env.cfgMgr.GetConfigPath())
			}

			if !ui.IsInteractive() {
				fmt.Fprintln(out, "Run 'diffcommit key set' or 'diffcommit model select' to finish the setup.")
				return nil
			}

			ctx, cancel := signalContext()
			defer cancel()

			return runSetup(ctx, env)
		},
	}
}

// runSetup asks for a provider and then for what that provider needs.
func runSetup(ctx context.Context, env *environment) error {
	provider, err := env.ui.PromptProvider(env.cfg.Generation().Provider)
	if err != nil {
		return err
	}
	if provider == "" {
		return nil
	}

	if provider == config.ProviderOllama {
		_, err := env.models().SelectModel(ctx)
		return err
	}

	if err := env.cfgMgr.SetMany(map[string]interface{}{"provider": string(provider)}); err != nil {
		return apperrors.NewConfigWriteError(err)
	}
	env.cfg.Provider = string(provider)

	credentials := env.credentials()
	key, err := credentials.Get(provider)
	if err != nil || key != "" {
		return err
	}
	_, err = credentials.Set(provider)
	return err
}

// newConfigSetCmd creates the 'config set' subcommand.
func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value by key.

Supports nested keys using dot notation (e.g., "ollama.model", "git.staged").
List values such as allowed_types are comma separated.

Examples:
  diffcommit config set provider openai
  diffcommit config set openai.model gpt-4o-mini
  diffcommit config set ollama.hostname http://gpu-box:11434
  diffcommit config set allowed_types feat,fix,chore
  diffcommit config set git.staged false`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value := args[1]

			if key == "provider" && !config.Provider(value).Valid() {
				return apperrors.New(apperrors.ErrInvalidArguments,
					fmt.Sprintf("unknown provider %s (expected anthropic, openai or ollama)", value))
			}

			mgr, err := newConfigManager(cmd)
			if err != nil {
				return err
			}

			if err := mgr.Set(key, value); err != nil {
				return apperrors.NewConfigWriteError(err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
			return nil
		},
	}
}

// newConfigGetCmd creates the 'config get' subcommand.
func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := newConfigManager(cmd)
			if err != nil {
				return err
			}

			value, err := mgr.Get(args[0])
			if err != nil {
				return apperrors.Wrap(err, apperrors.ErrInvalidArguments, err.Error())
			}

			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}
}

// newConfigListCmd creates the 'config list' subcommand.
func newConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration values",
		Long: `Display all current configuration values as YAML, including
defaults and environment overrides. API keys are never part of the
configuration; see 'diffcommit key get'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := newConfigManager(cmd)
			if err != nil {
				return err
			}

			data, err := yaml.Marshal(mgr.List())
			if err != nil {
				return apperrors.Wrap(err, apperrors.ErrConfigCorruption, "failed to render configuration")
			}

			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
