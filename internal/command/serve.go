package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/stolasapp/albumtest/internal/app"
	"github.com/stolasapp/albumtest/internal/app/devservice"
	"github.com/stolasapp/albumtest/internal/config"
	"github.com/stolasapp/albumtest/internal/sec"
	"github.com/stolasapp/albumtest/internal/server"
	"github.com/stolasapp/albumtest/internal/storage"
	"github.com/stolasapp/albumtest/internal/storage/db"
)

func serveCommand() *cobra.Command {
	var decoys int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the stand-in album application",
		Long: "Serves the stand-in album application on the configured web address. The\n" +
			"configured login is created if it does not exist yet.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (runErr error) {
			cfg, logger, store, err := loadStore(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				if err := store.Close(); err != nil {
					runErr = errors.Join(runErr, err)
				}
			}()

			user, err := ensureUser(cmd.Context(), logger, store, cfg)
			if err != nil {
				return err
			}
			if decoys > 0 {
				seed := devservice.Seed()
				logger.InfoContext(cmd.Context(), "seeding decoy albums",
					slog.Int("count", decoys),
					slog.Uint64("seed", seed),
				)
				if err = devservice.Populate(cmd.Context(), logger, store, user.ID, seed, decoys); err != nil {
					return err
				}
			}

			grp, ctx := errgroup.WithContext(cmd.Context())
			if err = serveApp(ctx, grp, cfg, logger, app.New(cfg, logger, store)); err != nil {
				return err
			}
			return grp.Wait()
		},
	}
	cmd.Flags().IntVar(&decoys, "seed", 0, "number of decoy albums to create for the user")
	return cmd
}

// ensureUser creates the configured user if absent, and resets its password
// to the configured one otherwise.
func ensureUser(ctx context.Context, logger *slog.Logger, store storage.Users, cfg *config.Config) (db.User, error) {
	if err := resolveCredentials(cfg); err != nil {
		return db.User{}, err
	}
	hash, err := sec.HashPassword([]byte(cfg.Password))
	if err != nil {
		return db.User{}, err
	}

	user, err := store.GetUserByName(ctx, cfg.Login)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		user = db.User{Name: cfg.Login}
	case err != nil:
		return db.User{}, err
	}
	user.PasswordHash = hash
	if user.ID, err = store.UpsertUser(ctx, user); err != nil {
		return db.User{}, fmt.Errorf("failed to save user %q: %w", cfg.Login, err)
	}
	logger.InfoContext(ctx, "user ready", slog.String("name", user.Name))
	return user, nil
}

func serveApp(
	ctx context.Context,
	grp *errgroup.Group,
	cfg *config.Config,
	logger *slog.Logger,
	srv *echo.Echo,
) error {
	baseURL, err := server.Start(ctx, grp, srv, cfg.WebAddress)
	if err != nil {
		return err
	}
	logger.InfoContext(ctx,
		"starting app server...",
		slog.String("url", baseURL),
	)
	return nil
}
