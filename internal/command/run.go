package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/stolasapp/albumtest/internal/config"
	"github.com/stolasapp/albumtest/internal/driver"
	"github.com/stolasapp/albumtest/internal/scenario"
)

func runCommand() *cobra.Command {
	var names []string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the scenarios against the album application",
		Long: "Runs every scenario, or those named with --scenario, each in a browser\n" +
			"session of its own. Exits non-zero if any scenario fails.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (runErr error) {
			cfg, logger, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			scenarios, err := scenario.Lookup(names...)
			if err != nil {
				return err
			}
			if err = resolveCredentials(cfg); err != nil {
				return err
			}

			photos, cleanup, err := resolvePhotos(cfg)
			if err != nil {
				return err
			}
			defer func() {
				runErr = errors.Join(runErr, cleanup())
			}()

			opts := cfg.DriverOptions()
			logger = logger.With(
				slog.String("backend", string(opts.Backend)),
				slog.String("profile", string(opts.Profile)),
			)
			suite := &scenario.Suite{
				Open: func(ctx context.Context) (driver.Session, error) {
					return driver.Open(ctx, opts, logger)
				},
				BaseURL:  cfg.BaseURL,
				Login:    cfg.Login,
				Password: cfg.Password,
				Photos:   photos,
				Logger:   logger,
			}

			report := suite.Run(cmd.Context(), scenarios...)
			if err = writeReport(cmd.OutOrStdout(), report); err != nil {
				return err
			}
			if !report.OK() {
				return fmt.Errorf("%d of %d scenarios failed, %d skipped",
					report.Failed(), len(report.Results), report.Skipped())
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&names, "scenario", "s", nil, "run only the named scenarios")
	return cmd
}

// resolvePhotos returns the configured upload fixtures, or the bundled ones
// written to a temporary directory that cleanup removes.
func resolvePhotos(cfg *config.Config) (photos scenario.Photos, cleanup func() error, err error) {
	if cfg.PhotosDir != "" {
		photos, err = scenario.PhotosIn(cfg.PhotosDir)
		return photos, func() error { return nil }, err
	}
	dir, err := os.MkdirTemp("", "albumtest-photos-")
	if err != nil {
		return photos, nil, err
	}
	cleanup = func() error { return os.RemoveAll(dir) }
	if photos, err = scenario.WritePhotos(dir); err != nil {
		return photos, nil, errors.Join(err, cleanup())
	}
	return photos, cleanup, nil
}

func writeReport(w io.Writer, report scenario.Report) error {
	for _, res := range report.Results {
		status := "PASS"
		switch {
		case res.Skipped:
			status = "SKIP"
		case res.Failed:
			status = "FAIL"
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\n", status, res.Name, res.Duration.Round(time.Millisecond)); err != nil {
			return err
		}
		for _, msg := range res.Errors {
			if _, err := fmt.Fprintf(w, "\t%s\n", msg); err != nil {
				return err
			}
		}
	}
	return nil
}

func listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the scenario names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, sc := range scenario.All {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), sc.Name); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
