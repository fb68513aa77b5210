package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/stolasapp/albumtest/internal/config"
	"github.com/stolasapp/albumtest/internal/sec"
	"github.com/stolasapp/albumtest/internal/storage"
	"github.com/stolasapp/albumtest/internal/storage/db"
)

// errEmptyPassword rejects accounts nobody could sign in to.
var errEmptyPassword = errors.New("password must not be empty")

func userCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts of the stand-in application",
	}
	cmd.AddCommand(
		userCreateCommand(),
		userDeleteCommand(),
	)
	return cmd
}

func userCreateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create NAME",
		Short: "Register a scenario account",
		Long: "Registers NAME with the stand-in application so scenarios can sign in as it.\n" +
			"The password comes from the PASSWORD variable or the config file, and is\n" +
			"otherwise read from stdin. Existing accounts are left untouched; serve\n" +
			"resets the password of the configured account instead.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(cfg *config.Config, logger *slog.Logger, store storage.Store) error {
				passwd := []byte(cfg.Password)
				if len(passwd) == 0 {
					var err error
					if passwd, err = prompt("password: ", true); err != nil {
						return err
					}
				}
				user, err := createUser(cmd.Context(), store, args[0], passwd)
				if err != nil {
					return err
				}
				logger.InfoContext(cmd.Context(), "registered account",
					slog.String("name", user.Name),
					slog.Uint64("id", user.ID),
				)
				return nil
			})
		},
	}
}

func userDeleteCommand() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "delete NAME",
		Short: "Remove a scenario account",
		Long: "Permanently deletes the user with their albums, photos and likes. " +
			"This operation is permanent and irreversible.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(_ *config.Config, logger *slog.Logger, store storage.Store) error {
				logger = logger.With(slog.String("name", args[0]))
				if !force {
					resp, err := prompt("Delete "+args[0]+" and all their albums? [y|N] ", false)
					if !bytes.Equal(resp, []byte{'y'}) || err != nil {
						logger.InfoContext(cmd.Context(), "kept account")
						return err
					}
				}
				if err := deleteUser(cmd.Context(), store, args[0]); err != nil {
					return err
				}
				logger.InfoContext(cmd.Context(), "removed account")
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&force, "yes", "y", false, "delete without asking for confirmation")
	return cmd
}

// withStore runs fn against the configured database and closes it after.
func withStore(ctx context.Context, fn func(*config.Config, *slog.Logger, storage.Store) error) (err error) {
	cfg, logger, store, err := loadStore(ctx)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, store.Close())
	}()
	return fn(cfg, logger, store)
}

// createUser registers a new account. Taken names fail with
// [storage.ErrAlreadyExists].
func createUser(ctx context.Context, store storage.Users, name string, passwd []byte) (db.User, error) {
	if len(passwd) == 0 {
		return db.User{}, errEmptyPassword
	}
	hash, err := sec.HashPassword(passwd)
	if err != nil {
		return db.User{}, err
	}
	user := db.User{Name: name, PasswordHash: hash}
	if user.ID, err = store.UpsertUser(ctx, user); err != nil {
		return db.User{}, fmt.Errorf("failed to register %q: %w", name, err)
	}
	return user, nil
}

func deleteUser(ctx context.Context, store storage.Users, name string) error {
	user, err := store.GetUserByName(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to find %q: %w", name, err)
	}
	return store.DeleteUser(ctx, user.ID)
}
