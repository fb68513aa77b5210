package db

import "time"

// User is an account of the album application.
type User struct {
	ID           uint64
	Name         string
	PasswordHash []byte
}

// Session is a login session held in a cookie.
type Session struct {
	Token      string
	UserID     uint64
	CreateTime time.Time
}

// Album is an album row.
type Album struct {
	ID     uint64
	UserID uint64
	Name   string
	// CoverID is zero while no cover photo is set.
	CoverID    uint64
	CreateTime time.Time
}

// AlbumView is an album as seen by one viewer.
type AlbumView struct {
	Album

	Likes      int64
	Liked      bool
	PhotoCount int64
}

// Photo is a photo row without its image data.
type Photo struct {
	ID          uint64
	AlbumID     uint64
	Description string
	ContentType string
	CreateTime  time.Time
}

// PhotoView is a photo as seen by one viewer.
type PhotoView struct {
	Photo

	Likes int64
	Liked bool
}

// Image is the stored content of a photo.
type Image struct {
	ContentType string
	Data        []byte
}
