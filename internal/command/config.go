package command

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/stolasapp/albumtest/internal/config"
)

func configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration commands",
	}
	cmd.AddCommand(
		configInitCommand(),
		configShowCommand(),
	)
	return cmd
}

func configInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with the default values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, ok := cmd.Context().Value(configPathKey{}).(string)
			if !ok {
				return errors.New("config file resolution failed")
			}
			data, err := yaml.Marshal(config.Default())
			if err != nil {
				return fmt.Errorf("failed to marshal config to YAML: %w", err)
			}
			if err = os.MkdirAll(filepath.Dir(path), 0o700); err != nil { //nolint:mnd // owner only
				return err
			}
			f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600) //nolint:mnd // owner rw access
			if err != nil {
				return fmt.Errorf("failed to create config file: %w", err)
			}
			_, err = f.Write(data)
			if err = errors.Join(err, f.Close()); err != nil {
				return fmt.Errorf("failed to write config file to %s: %w", path, err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	}
}

func configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			shown := *cfg
			if shown.Password != "" {
				shown.Password = "********"
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			if err = enc.Encode(&shown); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}
