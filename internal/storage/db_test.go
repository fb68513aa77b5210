package storage

import (
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stolasapp/albumtest/internal/storage/db"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	store, err := NewDB(t.Context(), filepath.Join(t.TempDir(), "db.sqlite"), slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func newTestUser(t *testing.T, store *DB, name string) uint64 {
	t.Helper()
	id, err := store.UpsertUser(t.Context(), db.User{Name: name, PasswordHash: []byte("x")})
	require.NoError(t, err)
	require.NotZero(t, id)
	return id
}

func TestDB_Users(t *testing.T) {
	t.Parallel()

	store := newTestDB(t)
	id := newTestUser(t, store, "alice")

	user, err := store.GetUserByName(t.Context(), "alice")
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)

	_, err = store.GetUser(t.Context(), id+1)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = store.UpsertUser(t.Context(), db.User{Name: "alice", PasswordHash: []byte("y")})
	require.ErrorIs(t, err, ErrAlreadyExists)

	_, err = store.UpsertUser(t.Context(), db.User{Name: "a!", PasswordHash: []byte("y")})
	require.ErrorIs(t, err, ErrInvalidUsername)

	// updating in place keeps the ID
	updated, err := store.UpsertUser(t.Context(), db.User{ID: id, Name: "alice", PasswordHash: []byte("z")})
	require.NoError(t, err)
	assert.Equal(t, id, updated)

	require.NoError(t, store.DeleteUser(t.Context(), id))
	_, err = store.GetUser(t.Context(), id)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDB_Sessions(t *testing.T) {
	t.Parallel()

	store := newTestDB(t)
	id := newTestUser(t, store, "bob")

	require.NoError(t, store.CreateSession(t.Context(), "token", id))
	user, err := store.GetSessionUser(t.Context(), "token")
	require.NoError(t, err)
	assert.Equal(t, "bob", user.Name)

	require.NoError(t, store.DeleteSession(t.Context(), "token"))
	_, err = store.GetSessionUser(t.Context(), "token")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDB_Albums(t *testing.T) {
	t.Parallel()

	store := newTestDB(t)
	owner := newTestUser(t, store, "owner")
	other := newTestUser(t, store, "other")

	first, err := store.CreateAlbum(t.Context(), owner, "First")
	require.NoError(t, err)
	second, err := store.CreateAlbum(t.Context(), owner, "Second")
	require.NoError(t, err)
	_, err = store.CreateAlbum(t.Context(), owner, "  ")
	require.ErrorIs(t, err, ErrInvalidName)

	t.Run("ListNewestFirst", func(t *testing.T) {
		albums, err := store.ListAlbums(t.Context(), owner)
		require.NoError(t, err)
		require.Len(t, albums, 2)
		assert.Equal(t, second.ID, albums[0].ID)
		assert.Equal(t, first.ID, albums[1].ID)

		albums, err = store.ListAlbums(t.Context(), other)
		require.NoError(t, err)
		assert.Empty(t, albums)
	})

	t.Run("LikeToggles", func(t *testing.T) {
		liked, err := store.ToggleAlbumLike(t.Context(), first.ID, owner)
		require.NoError(t, err)
		assert.True(t, liked)
		_, err = store.ToggleAlbumLike(t.Context(), first.ID, other)
		require.NoError(t, err)

		view, err := store.GetAlbum(t.Context(), owner, first.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), view.Likes)
		assert.True(t, view.Liked)

		liked, err = store.ToggleAlbumLike(t.Context(), first.ID, owner)
		require.NoError(t, err)
		assert.False(t, liked)

		view, err = store.GetAlbum(t.Context(), owner, first.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), view.Likes)
		assert.False(t, view.Liked)

		_, err = store.ToggleAlbumLike(t.Context(), 42, owner)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Rename", func(t *testing.T) {
		require.NoError(t, store.RenameAlbum(t.Context(), second.ID, "Renamed"))
		view, err := store.GetAlbum(t.Context(), owner, second.ID)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", view.Name)

		require.ErrorIs(t, store.RenameAlbum(t.Context(), 42, "x"), ErrNotFound)
	})

	t.Run("DeleteCascades", func(t *testing.T) {
		album, err := store.CreateAlbum(t.Context(), owner, "Doomed")
		require.NoError(t, err)
		photo, err := store.AddPhoto(t.Context(), album.ID, "image/jpeg", []byte{1})
		require.NoError(t, err)

		require.NoError(t, store.DeleteAlbum(t.Context(), album.ID))
		_, err = store.GetAlbum(t.Context(), owner, album.ID)
		require.ErrorIs(t, err, ErrNotFound)
		_, err = store.GetPhoto(t.Context(), owner, photo.ID)
		require.ErrorIs(t, err, ErrNotFound)

		require.ErrorIs(t, store.DeleteAlbum(t.Context(), album.ID), ErrNotFound)
	})
}

func TestDB_Photos(t *testing.T) {
	t.Parallel()

	store := newTestDB(t)
	owner := newTestUser(t, store, "owner")
	album, err := store.CreateAlbum(t.Context(), owner, "Photos")
	require.NoError(t, err)

	a, err := store.AddPhoto(t.Context(), album.ID, "image/jpeg", []byte("a"))
	require.NoError(t, err)
	b, err := store.AddPhoto(t.Context(), album.ID, "image/png", []byte("b"))
	require.NoError(t, err)

	_, err = store.AddPhoto(t.Context(), 42, "image/png", []byte("c"))
	require.ErrorIs(t, err, ErrNotFound)

	photos, err := store.ListPhotos(t.Context(), album.ID)
	require.NoError(t, err)
	require.Len(t, photos, 2)
	assert.Equal(t, a.ID, photos[0].ID, "upload order")
	assert.Equal(t, b.ID, photos[1].ID)

	view, err := store.GetAlbum(t.Context(), owner, album.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), view.PhotoCount)
	assert.Zero(t, view.CoverID)

	img, err := store.GetImage(t.Context(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.ContentType)
	assert.Equal(t, []byte("b"), img.Data)

	require.NoError(t, store.SetPhotoDescription(t.Context(), a.ID, "Photo description."))

	require.NoError(t, store.LikePhoto(t.Context(), a.ID, owner))
	require.NoError(t, store.LikePhoto(t.Context(), a.ID, owner))
	photo, err := store.GetPhoto(t.Context(), owner, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Photo description.", photo.Description)
	assert.Equal(t, int64(1), photo.Likes, "liking twice counts once")
	assert.True(t, photo.Liked)

	require.NoError(t, store.UnlikePhoto(t.Context(), a.ID, owner))
	photo, err = store.GetPhoto(t.Context(), owner, a.ID)
	require.NoError(t, err)
	assert.Zero(t, photo.Likes)

	// last cover wins
	require.NoError(t, store.SetAlbumCover(t.Context(), album.ID, a.ID))
	require.NoError(t, store.SetAlbumCover(t.Context(), album.ID, b.ID))
	view, err = store.GetAlbum(t.Context(), owner, album.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, view.CoverID)
}
