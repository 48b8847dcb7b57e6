package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diffcommit/diffcommit/internal/app"
	apperrors "github.com/diffcommit/diffcommit/internal/pkg/errors"
)

// NewModelCmd creates the model command and its subcommands.
func NewModelCmd() *cobra.Command {
	modelCmd := &cobra.Command{
		Use:   "model",
		Short: "Choose the local Ollama model",
		Long: `Choose which model on an Ollama server generates commit messages.

Examples:
  diffcommit model select        # Pick a server and a model, switch to Ollama
  diffcommit model change        # Pick another model on the configured server
  diffcommit model list          # List the models on the configured server`,
	}

	modelCmd.AddCommand(newModelSelectCmd())
	modelCmd.AddCommand(newModelChangeCmd())
	modelCmd.AddCommand(newModelListCmd())

	return modelCmd
}

func newModelSelectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "select",
		Short: "Select an Ollama server and model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(cmd, false)
			if err != nil {
				return err
			}

			ctx, cancel := signalContext()
			defer cancel()

			_, err = env.models().SelectModel(ctx)
			return err
		},
	}
}

func newModelChangeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "change",
		Short: "Change the model on the configured Ollama server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(cmd, false)
			if err != nil {
				return err
			}

			ctx, cancel := signalContext()
			defer cancel()

			_, err = env.models().ChangeModel(ctx)
			return err
		},
	}
}

func newModelListCmd() *cobra.Command {
	var hostname string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the models on an Ollama server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(cmd, true)
			if err != nil {
				return err
			}

			if hostname == "" {
				hostname = env.cfg.Generation().LocalHostname
			}
			if err := app.ValidateHostname(hostname); err != nil {
				return apperrors.New(apperrors.ErrInvalidArguments, err.Error())
			}

			ctx, cancel := signalContext()
			defer cancel()

			models, err := env.models().ListModels(ctx, app.NormalizeHostname(hostname))
			if err != nil {
				return err
			}
			if len(models) == 0 {
				env.ui.ShowWarning(app.NoModelsMessage)
				return nil
			}

			out := cmd.OutOrStdout()
			for _, m := range models {
				marker := " "
				if m == env.cfg.Ollama.Model {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %s\n", marker, m)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&hostname, "hostname", "", "Ollama server URL (default: the configured one)")

	return cmd
}
