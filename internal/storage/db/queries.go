package db

import (
	"context"
	"database/sql"
	"time"
)

// DBTX is satisfied by [sql.DB] and [sql.Tx].
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Queries holds the statements used by the storage package.
type Queries struct {
	db DBTX
}

// New wraps a connection or transaction.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns a copy of the queries bound to tx.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

const getUser = `SELECT id, name, password_hash FROM users WHERE id = ?`

func (q *Queries) GetUser(ctx context.Context, id uint64) (User, error) {
	var u User
	err := q.db.QueryRowContext(ctx, getUser, id).Scan(&u.ID, &u.Name, &u.PasswordHash)
	return u, err
}

const getUserByName = `SELECT id, name, password_hash FROM users WHERE name = ?`

func (q *Queries) GetUserByName(ctx context.Context, name string) (User, error) {
	var u User
	err := q.db.QueryRowContext(ctx, getUserByName, name).Scan(&u.ID, &u.Name, &u.PasswordHash)
	return u, err
}

// upsertUser returns no row when the name belongs to another user.
const upsertUser = `
INSERT INTO users (id, name, password_hash) VALUES (?, ?, ?)
ON CONFLICT (id) DO UPDATE SET name = excluded.name, password_hash = excluded.password_hash
ON CONFLICT (name) DO NOTHING
RETURNING id`

func (q *Queries) UpsertUser(ctx context.Context, u User) (uint64, error) {
	var id uint64
	err := q.db.QueryRowContext(ctx, upsertUser, u.ID, u.Name, u.PasswordHash).Scan(&id)
	return id, err
}

const deleteUser = `DELETE FROM users WHERE id = ?`

func (q *Queries) DeleteUser(ctx context.Context, id uint64) error {
	_, err := q.db.ExecContext(ctx, deleteUser, id)
	return err
}

const insertSession = `INSERT INTO sessions (token, user_id, create_time) VALUES (?, ?, ?)`

func (q *Queries) InsertSession(ctx context.Context, s Session) error {
	_, err := q.db.ExecContext(ctx, insertSession, s.Token, s.UserID, s.CreateTime)
	return err
}

const getSessionUser = `
SELECT u.id, u.name, u.password_hash
FROM sessions s JOIN users u ON u.id = s.user_id
WHERE s.token = ? AND s.create_time > ?`

// GetSessionUser resolves a session token created after notBefore.
func (q *Queries) GetSessionUser(ctx context.Context, token string, notBefore time.Time) (User, error) {
	var u User
	err := q.db.QueryRowContext(ctx, getSessionUser, token, notBefore).Scan(&u.ID, &u.Name, &u.PasswordHash)
	return u, err
}

const deleteSession = `DELETE FROM sessions WHERE token = ?`

func (q *Queries) DeleteSession(ctx context.Context, token string) error {
	_, err := q.db.ExecContext(ctx, deleteSession, token)
	return err
}

const insertAlbum = `INSERT INTO albums (id, user_id, name, cover_id, create_time) VALUES (?, ?, ?, NULL, ?)`

func (q *Queries) InsertAlbum(ctx context.Context, a Album) error {
	_, err := q.db.ExecContext(ctx, insertAlbum, a.ID, a.UserID, a.Name, a.CreateTime)
	return err
}

const selectAlbumView = `
SELECT a.id, a.user_id, a.name, COALESCE(a.cover_id, 0), a.create_time,
       (SELECT COUNT(*) FROM album_likes l WHERE l.album_id = a.id),
       EXISTS (SELECT 1 FROM album_likes l WHERE l.album_id = a.id AND l.user_id = ?),
       (SELECT COUNT(*) FROM photos p WHERE p.album_id = a.id)
FROM albums a`

const getAlbum = selectAlbumView + ` WHERE a.id = ?`

func (q *Queries) GetAlbum(ctx context.Context, viewerID, albumID uint64) (AlbumView, error) {
	return scanAlbumView(q.db.QueryRowContext(ctx, getAlbum, viewerID, albumID))
}

const listAlbums = selectAlbumView + ` WHERE a.user_id = ? ORDER BY a.create_time DESC, a.id DESC`

// ListAlbums returns an owner's albums, newest first.
func (q *Queries) ListAlbums(ctx context.Context, ownerID uint64) ([]AlbumView, error) {
	rows, err := q.db.QueryContext(ctx, listAlbums, ownerID, ownerID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []AlbumView
	for rows.Next() {
		view, err := scanAlbumView(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, view)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAlbumView(row scanner) (AlbumView, error) {
	var v AlbumView
	err := row.Scan(
		&v.ID, &v.UserID, &v.Name, &v.CoverID, &v.CreateTime,
		&v.Likes, &v.Liked, &v.PhotoCount,
	)
	return v, err
}

const renameAlbum = `UPDATE albums SET name = ? WHERE id = ?`

func (q *Queries) RenameAlbum(ctx context.Context, albumID uint64, name string) (int64, error) {
	return rowsAffected(q.db.ExecContext(ctx, renameAlbum, name, albumID))
}

const setAlbumCover = `UPDATE albums SET cover_id = ? WHERE id = ?`

func (q *Queries) SetAlbumCover(ctx context.Context, albumID, photoID uint64) (int64, error) {
	return rowsAffected(q.db.ExecContext(ctx, setAlbumCover, photoID, albumID))
}

const deleteAlbum = `DELETE FROM albums WHERE id = ?`

func (q *Queries) DeleteAlbum(ctx context.Context, albumID uint64) (int64, error) {
	return rowsAffected(q.db.ExecContext(ctx, deleteAlbum, albumID))
}

const deleteAlbumLike = `DELETE FROM album_likes WHERE album_id = ? AND user_id = ?`

func (q *Queries) DeleteAlbumLike(ctx context.Context, albumID, userID uint64) (int64, error) {
	return rowsAffected(q.db.ExecContext(ctx, deleteAlbumLike, albumID, userID))
}

const insertAlbumLike = `INSERT OR IGNORE INTO album_likes (album_id, user_id) VALUES (?, ?)`

func (q *Queries) InsertAlbumLike(ctx context.Context, albumID, userID uint64) error {
	_, err := q.db.ExecContext(ctx, insertAlbumLike, albumID, userID)
	return err
}

const insertPhoto = `
INSERT INTO photos (id, album_id, description, content_type, data, create_time)
VALUES (?, ?, ?, ?, ?, ?)`

func (q *Queries) InsertPhoto(ctx context.Context, p Photo, data []byte) error {
	_, err := q.db.ExecContext(ctx, insertPhoto,
		p.ID, p.AlbumID, p.Description, p.ContentType, data, p.CreateTime)
	return err
}

const getPhoto = `
SELECT p.id, p.album_id, p.description, p.content_type, p.create_time,
       (SELECT COUNT(*) FROM photo_likes l WHERE l.photo_id = p.id),
       EXISTS (SELECT 1 FROM photo_likes l WHERE l.photo_id = p.id AND l.user_id = ?)
FROM photos p WHERE p.id = ?`

func (q *Queries) GetPhoto(ctx context.Context, viewerID, photoID uint64) (PhotoView, error) {
	var v PhotoView
	err := q.db.QueryRowContext(ctx, getPhoto, viewerID, photoID).Scan(
		&v.ID, &v.AlbumID, &v.Description, &v.ContentType, &v.CreateTime,
		&v.Likes, &v.Liked,
	)
	return v, err
}

const listPhotos = `
SELECT id, album_id, description, content_type, create_time
FROM photos WHERE album_id = ? ORDER BY id`

// ListPhotos returns an album's photos in upload order.
func (q *Queries) ListPhotos(ctx context.Context, albumID uint64) ([]Photo, error) {
	rows, err := q.db.QueryContext(ctx, listPhotos, albumID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []Photo
	for rows.Next() {
		var p Photo
		if err = rows.Scan(&p.ID, &p.AlbumID, &p.Description, &p.ContentType, &p.CreateTime); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

const getImage = `SELECT content_type, data FROM photos WHERE id = ?`

func (q *Queries) GetImage(ctx context.Context, photoID uint64) (Image, error) {
	var img Image
	err := q.db.QueryRowContext(ctx, getImage, photoID).Scan(&img.ContentType, &img.Data)
	return img, err
}

const setPhotoDescription = `UPDATE photos SET description = ? WHERE id = ?`

func (q *Queries) SetPhotoDescription(ctx context.Context, photoID uint64, description string) (int64, error) {
	return rowsAffected(q.db.ExecContext(ctx, setPhotoDescription, description, photoID))
}

const insertPhotoLike = `INSERT OR IGNORE INTO photo_likes (photo_id, user_id) VALUES (?, ?)`

func (q *Queries) InsertPhotoLike(ctx context.Context, photoID, userID uint64) error {
	_, err := q.db.ExecContext(ctx, insertPhotoLike, photoID, userID)
	return err
}

const deletePhotoLike = `DELETE FROM photo_likes WHERE photo_id = ? AND user_id = ?`

func (q *Queries) DeletePhotoLike(ctx context.Context, photoID, userID uint64) error {
	_, err := q.db.ExecContext(ctx, deletePhotoLike, photoID, userID)
	return err
}

func rowsAffected(res sql.Result, err error) (int64, error) {
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
