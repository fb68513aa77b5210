// Package storage provides the state of the stand-in album application:
// users, login sessions, albums, photos and likes.
package storage

import (
	"context"

	"github.com/stolasapp/albumtest/internal/storage/db"
)

const (
	// ErrNotFound is returned when a user, session, album or photo cannot be
	// found.
	ErrNotFound Error = "not found"
	// ErrAlreadyExists is returned if a unique user name is already in use.
	ErrAlreadyExists Error = "already exists"
	// ErrInvalidUsername is returned when a username fails validation.
	ErrInvalidUsername Error = "username must be 3-64 characters, alphanumeric and underscores only"
	// ErrInvalidName is returned for an empty album name.
	ErrInvalidName Error = "album name must not be empty"
)

// Error is an error type returned by the storage implementation.
type Error string

// Error satisfies [error].
func (e Error) Error() string { return string(e) }

// Users are the methods responsible for accounts.
type Users interface {
	// GetUser returns a single user with the specified ID. An [ErrNotFound] is
	// returned if the user ID does not exist.
	GetUser(ctx context.Context, userID uint64) (db.User, error)
	// GetUserByName returns a single user with the specified name. An
	// [ErrNotFound] is returned if the user name does not exist.
	GetUserByName(ctx context.Context, name string) (db.User, error)
	// UpsertUser creates or updates the user and returns its ID. An
	// [ErrAlreadyExists] error is returned if the username is already in use.
	UpsertUser(ctx context.Context, user db.User) (uint64, error)
	// DeleteUser removes a user with all their albums, photos and likes.
	DeleteUser(ctx context.Context, userID uint64) error
}

// Sessions are the methods responsible for login sessions.
type Sessions interface {
	// CreateSession stores a new session token for the user.
	CreateSession(ctx context.Context, token string, userID uint64) error
	// GetSessionUser resolves an unexpired session token. An [ErrNotFound] is
	// returned for unknown or expired tokens.
	GetSessionUser(ctx context.Context, token string) (db.User, error)
	DeleteSession(ctx context.Context, token string) error
}

// Albums are the methods responsible for albums and album likes. Views are
// computed for a viewer, who is also the owner for listing.
type Albums interface {
	CreateAlbum(ctx context.Context, ownerID uint64, name string) (db.Album, error)
	GetAlbum(ctx context.Context, viewerID, albumID uint64) (db.AlbumView, error)
	// ListAlbums returns the owner's albums, newest first.
	ListAlbums(ctx context.Context, ownerID uint64) ([]db.AlbumView, error)
	RenameAlbum(ctx context.Context, albumID uint64, name string) error
	// DeleteAlbum removes the album with its photos and likes.
	DeleteAlbum(ctx context.Context, albumID uint64) error
	// ToggleAlbumLike adds the user's like, or removes it if present, and
	// reports whether the album is liked afterwards.
	ToggleAlbumLike(ctx context.Context, albumID, userID uint64) (bool, error)
	// SetAlbumCover replaces the album's cover photo.
	SetAlbumCover(ctx context.Context, albumID, photoID uint64) error
}

// Photos are the methods responsible for photos and photo likes.
type Photos interface {
	AddPhoto(ctx context.Context, albumID uint64, contentType string, data []byte) (db.Photo, error)
	GetPhoto(ctx context.Context, viewerID, photoID uint64) (db.PhotoView, error)
	// ListPhotos returns the album's photos in upload order.
	ListPhotos(ctx context.Context, albumID uint64) ([]db.Photo, error)
	GetImage(ctx context.Context, photoID uint64) (db.Image, error)
	SetPhotoDescription(ctx context.Context, photoID uint64, description string) error
	// LikePhoto adds the user's like; liking twice has no further effect.
	LikePhoto(ctx context.Context, photoID, userID uint64) error
	// UnlikePhoto removes the user's like if present.
	UnlikePhoto(ctx context.Context, photoID, userID uint64) error
}

// Store is the combination of all storage interfaces.
type Store interface {
	Users
	Sessions
	Albums
	Photos
	// Close releases any resources held by the store. An error is returned if
	// the store cannot be cleanly closed.
	Close() error
}
