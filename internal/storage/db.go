package storage

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"math/rand/v2"
	"regexp"
	"strings"
	"time"

	"github.com/influxdata/influxdb/pkg/snowflake"

	"github.com/stolasapp/albumtest/internal/storage/db"
)

// SessionTTL is how long a login session stays valid.
const SessionTTL = 24 * time.Hour

// Username validation constraints.
const (
	minUsernameLen = 3
	maxUsernameLen = 64
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// validateUsername validates that a username meets the requirements:
// 3-64 characters, alphanumeric and underscores only.
func validateUsername(name string) bool {
	return len(name) >= minUsernameLen &&
		len(name) <= maxUsernameLen &&
		usernameRegex.MatchString(name)
}

// DB is a [Store] backed by a SQLite database.
type DB struct {
	ids     *snowflake.Generator
	db      *sql.DB
	queries *db.Queries
	now     func() time.Time
}

// NewDB opens the database at dbPath; use [db.MemoryPath] for a private
// in-memory database.
func NewDB(ctx context.Context, dbPath string, logger *slog.Logger) (*DB, error) {
	handle, err := db.Open(ctx, logger, dbPath)
	if err != nil {
		return nil, err
	}
	return &DB{
		ids:     snowflake.New(rand.IntN(1023)), //nolint:gosec,mnd // this isn't for crypto
		db:      handle,
		queries: db.New(handle),
		now:     func() time.Time { return time.Now().UTC() },
	}, nil
}

// Close satisfies the [Store] interface.
func (d *DB) Close() error {
	return d.db.Close()
}

// GetUser satisfies the [Users] interface.
func (d *DB) GetUser(ctx context.Context, userID uint64) (db.User, error) {
	user, err := d.queries.GetUser(ctx, userID)
	return user, notFound(err)
}

// GetUserByName satisfies the [Users] interface.
func (d *DB) GetUserByName(ctx context.Context, name string) (db.User, error) {
	user, err := d.queries.GetUserByName(ctx, name)
	return user, notFound(err)
}

// UpsertUser satisfies the [Users] interface.
func (d *DB) UpsertUser(ctx context.Context, user db.User) (uint64, error) {
	if !validateUsername(user.Name) {
		return 0, ErrInvalidUsername
	}
	if user.ID == 0 {
		user.ID = d.ids.Next()
	}
	switch id, err := d.queries.UpsertUser(ctx, user); {
	case errors.Is(err, sql.ErrNoRows):
		return 0, ErrAlreadyExists
	default:
		return id, err
	}
}

// DeleteUser satisfies the [Users] interface.
func (d *DB) DeleteUser(ctx context.Context, userID uint64) error {
	return d.queries.DeleteUser(ctx, userID)
}

// CreateSession satisfies the [Sessions] interface.
func (d *DB) CreateSession(ctx context.Context, token string, userID uint64) error {
	return d.queries.InsertSession(ctx, db.Session{
		Token:      token,
		UserID:     userID,
		CreateTime: d.now(),
	})
}

// GetSessionUser satisfies the [Sessions] interface.
func (d *DB) GetSessionUser(ctx context.Context, token string) (db.User, error) {
	user, err := d.queries.GetSessionUser(ctx, token, d.now().Add(-SessionTTL))
	return user, notFound(err)
}

// DeleteSession satisfies the [Sessions] interface.
func (d *DB) DeleteSession(ctx context.Context, token string) error {
	return d.queries.DeleteSession(ctx, token)
}

// CreateAlbum satisfies the [Albums] interface.
func (d *DB) CreateAlbum(ctx context.Context, ownerID uint64, name string) (db.Album, error) {
	if strings.TrimSpace(name) == "" {
		return db.Album{}, ErrInvalidName
	}
	album := db.Album{
		ID:         d.ids.Next(),
		UserID:     ownerID,
		Name:       name,
		CreateTime: d.now(),
	}
	return album, d.queries.InsertAlbum(ctx, album)
}

// GetAlbum satisfies the [Albums] interface.
func (d *DB) GetAlbum(ctx context.Context, viewerID, albumID uint64) (db.AlbumView, error) {
	album, err := d.queries.GetAlbum(ctx, viewerID, albumID)
	return album, notFound(err)
}

// ListAlbums satisfies the [Albums] interface.
func (d *DB) ListAlbums(ctx context.Context, ownerID uint64) ([]db.AlbumView, error) {
	return d.queries.ListAlbums(ctx, ownerID)
}

// RenameAlbum satisfies the [Albums] interface.
func (d *DB) RenameAlbum(ctx context.Context, albumID uint64, name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidName
	}
	return affected(d.queries.RenameAlbum(ctx, albumID, name))
}

// DeleteAlbum satisfies the [Albums] interface.
func (d *DB) DeleteAlbum(ctx context.Context, albumID uint64) error {
	return affected(d.queries.DeleteAlbum(ctx, albumID))
}

// ToggleAlbumLike satisfies the [Albums] interface.
func (d *DB) ToggleAlbumLike(ctx context.Context, albumID, userID uint64) (liked bool, err error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, tx.Rollback())
		}
	}()

	queries := d.queries.WithTx(tx)
	removed, err := queries.DeleteAlbumLike(ctx, albumID, userID)
	if err != nil {
		return false, err
	}
	if removed == 0 {
		if err = queries.InsertAlbumLike(ctx, albumID, userID); err != nil {
			return false, foreignKey(err)
		}
	}
	return removed == 0, tx.Commit()
}

// SetAlbumCover satisfies the [Albums] interface.
func (d *DB) SetAlbumCover(ctx context.Context, albumID, photoID uint64) error {
	return affected(d.queries.SetAlbumCover(ctx, albumID, photoID))
}

// AddPhoto satisfies the [Photos] interface.
func (d *DB) AddPhoto(ctx context.Context, albumID uint64, contentType string, data []byte) (db.Photo, error) {
	photo := db.Photo{
		ID:          d.ids.Next(),
		AlbumID:     albumID,
		ContentType: contentType,
		CreateTime:  d.now(),
	}
	return photo, foreignKey(d.queries.InsertPhoto(ctx, photo, data))
}

// GetPhoto satisfies the [Photos] interface.
func (d *DB) GetPhoto(ctx context.Context, viewerID, photoID uint64) (db.PhotoView, error) {
	photo, err := d.queries.GetPhoto(ctx, viewerID, photoID)
	return photo, notFound(err)
}

// ListPhotos satisfies the [Photos] interface.
func (d *DB) ListPhotos(ctx context.Context, albumID uint64) ([]db.Photo, error) {
	return d.queries.ListPhotos(ctx, albumID)
}

// GetImage satisfies the [Photos] interface.
func (d *DB) GetImage(ctx context.Context, photoID uint64) (db.Image, error) {
	img, err := d.queries.GetImage(ctx, photoID)
	return img, notFound(err)
}

// SetPhotoDescription satisfies the [Photos] interface.
func (d *DB) SetPhotoDescription(ctx context.Context, photoID uint64, description string) error {
	return affected(d.queries.SetPhotoDescription(ctx, photoID, description))
}

// LikePhoto satisfies the [Photos] interface.
func (d *DB) LikePhoto(ctx context.Context, photoID, userID uint64) error {
	return foreignKey(d.queries.InsertPhotoLike(ctx, photoID, userID))
}

// UnlikePhoto satisfies the [Photos] interface.
func (d *DB) UnlikePhoto(ctx context.Context, photoID, userID uint64) error {
	return d.queries.DeletePhotoLike(ctx, photoID, userID)
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// affected maps an update that touched no row to [ErrNotFound].
func affected(n int64, err error) error {
	if err == nil && n == 0 {
		return ErrNotFound
	}
	return err
}

// foreignKey maps a violated reference (a missing album, photo or user) to
// [ErrNotFound].
func foreignKey(err error) error {
	if err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
		return ErrNotFound
	}
	return err
}

var _ Store = (*DB)(nil)
