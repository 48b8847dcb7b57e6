package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diffcommit/diffcommit/internal/pkg/config"
	apperrors "github.com/diffcommit/diffcommit/internal/pkg/errors"
	"github.com/diffcommit/diffcommit/internal/pkg/security"
)

// NewKeyCmd creates the key command and its subcommands.
func NewKeyCmd() *cobra.Command {
	keyCmd := &cobra.Command{
		Use:   "key",
		Short: "Manage the API key of a hosted provider",
		Long: `Store, show or remove the API key used for a hosted provider.

Keys live in the operating system keyring, never in the config file.
The provider defaults to the configured one (anthropic when the local
provider is configured).

Examples:
  diffcommit key set             # Prompt for the key of the configured provider
  diffcommit key set openai      # Prompt for the OpenAI key
  diffcommit key get             # Show the stored key, masked
  diffcommit key delete          # Remove the stored key`,
	}

	keyCmd.AddCommand(newKeySetCmd())
	keyCmd.AddCommand(newKeyGetCmd())
	keyCmd.AddCommand(newKeyDeleteCmd())

	return keyCmd
}

func newKeySetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set [provider]",
		Short: "Store an API key",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(cmd, false)
			if err != nil {
				return err
			}
			provider, err := keyProvider(env.cfg, args)
			if err != nil {
				return err
			}
			_, err = env.credentials().Set(provider)
			return err
		},
	}
}

func newKeyGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [provider]",
		Short: "Show the stored API key, masked",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(cmd, true)
			if err != nil {
				return err
			}
			provider, err := keyProvider(env.cfg, args)
			if err != nil {
				return err
			}

			key, err := env.credentials().Get(provider)
			if err != nil {
				return err
			}
			if key == "" {
				env.ui.ShowWarning(fmt.Sprintf("No API Key stored for %s", provider.DisplayName()))
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", provider, security.MaskAPIKey(key))
			return nil
		},
	}
}

func newKeyDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [provider]",
		Short: "Remove the stored API key",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(cmd, true)
			if err != nil {
				return err
			}
			provider, err := keyProvider(env.cfg, args)
			if err != nil {
				return err
			}
			return env.credentials().Delete(provider)
		},
	}
}

// keyProvider picks the hosted provider a key command acts on.
func keyProvider(cfg *config.Config, args []string) (config.Provider, error) {
	var provider config.Provider
	if len(args) > 0 {
		provider = config.Provider(args[0])
	} else {
		provider = cfg.Generation().Provider
		if !provider.IsHosted() {
			provider = config.DefaultProvider
		}
	}

	if !provider.Valid() {
		return "", apperrors.New(apperrors.ErrInvalidArguments,
			fmt.Sprintf("unknown provider %s (expected anthropic or openai)", provider))
	}
	if !provider.IsHosted() {
		return "", apperrors.New(apperrors.ErrInvalidArguments,
			fmt.Sprintf("%s does not use an API key", provider.DisplayName()))
	}
	return provider, nil
}
