// Package apptest runs the stand-in album application in-process for tests.
package apptest

import (
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stolasapp/albumtest/internal/app"
	"github.com/stolasapp/albumtest/internal/config"
	"github.com/stolasapp/albumtest/internal/sec"
	"github.com/stolasapp/albumtest/internal/storage"
	"github.com/stolasapp/albumtest/internal/storage/db"
)

// Credentials of the user every [Server] starts with.
const (
	Login    = "tester"
	Password = "correct-horse"
)

// Server is a running application with an empty in-memory store.
type Server struct {
	*httptest.Server

	Store storage.Store
	User  db.User
}

// Start launches an application that is shut down when the test ends.
func Start(t testing.TB) *Server {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)
	store, err := storage.NewDB(t.Context(), db.MemoryPath, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	hash, err := sec.HashPassword(Password)
	require.NoError(t, err)
	user := db.User{Name: Login, PasswordHash: hash}
	user.ID, err = store.UpsertUser(t.Context(), user)
	require.NoError(t, err)

	srv := httptest.NewServer(app.New(config.Default(), logger, store))
	t.Cleanup(srv.Close)
	return &Server{Server: srv, Store: store, User: user}
}
