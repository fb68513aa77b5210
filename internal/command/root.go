// Package command contains the CLI command constructors.
package command

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/stolasapp/albumtest/internal/config"
	"github.com/stolasapp/albumtest/internal/observability"
)

// RootCommand instantiates the root command, with all sub-commands bound.
func RootCommand() *cobra.Command {
	configFilePath := config.DefaultPath()
	cmd := &cobra.Command{
		Use:          "albumtest [command] [flags]",
		Short:        "End-to-end scenarios for the photo album",
		Version:      version(),
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadOrDefault(configFilePath)
			if err != nil {
				return fmt.Errorf("failed to load configuration file: %w", err)
			}
			logger := observability.InitSlog(cfg)
			logger.DebugContext(cmd.Context(), "configuration loaded",
				slog.String("path", configFilePath),
				slog.String("base_url", cfg.BaseURL),
				slog.String("backend", cfg.Backend),
				slog.String("browser", cfg.Browser),
			)
			slog.SetDefault(logger)
			ctx := context.WithValue(cmd.Context(), configKey{}, cfg)
			cmd.SetContext(context.WithValue(ctx, configPathKey{}, configFilePath))
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(
		&configFilePath,
		"config", "c",
		configFilePath,
		"path to the configuration file",
	)

	cmd.AddCommand(
		runCommand(),
		listCommand(),
		serveCommand(),
		userCommand(),
		configCommand(),
	)

	return cmd
}
