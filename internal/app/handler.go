package app

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/gregjones/httpcache"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/stolasapp/albumtest/internal/pages"
	"github.com/stolasapp/albumtest/internal/sec"
	"github.com/stolasapp/albumtest/internal/storage"
	"github.com/stolasapp/albumtest/internal/storage/db"
	"github.com/stolasapp/albumtest/internal/usertext"
)

const maxUploadBytes = 16 << 20

type handler struct {
	store  storage.Store
	thumbs httpcache.Cache
	logger *slog.Logger
}

func (h handler) register(e *echo.Echo) {
	auth := h.requireLogin

	e.GET("/", h.index)
	e.GET(pages.PathLogin, h.loginForm)
	e.POST(pages.PathLogin, h.login)
	e.POST("/logout", h.logout, auth)

	e.GET(pages.PathAlbums, h.albums, auth)
	e.POST(pages.PathAlbums, h.createAlbum, auth)
	e.GET(pages.PathNewAlbum, h.newAlbum, auth)

	album := e.Group(pages.PathAlbums + "/:album")
	album.GET("", h.album, auth)
	album.GET("/edit", h.editAlbum, auth)
	album.POST("/edit", h.renameAlbum, auth)
	album.POST("/delete", h.deleteAlbum, auth)
	album.POST("/like", h.likeAlbum, auth)
	album.GET("/photos/new", h.newPhoto, auth)
	album.POST("/photos", h.uploadPhoto, auth)

	photo := e.Group("/photos/:photo")
	photo.GET("", h.photo, auth)
	photo.GET("/edit", h.editPhoto, auth)
	photo.POST("/edit", h.savePhoto, auth)
	photo.POST("/like", h.likePhoto, auth)
	photo.POST("/unlike", h.unlikePhoto, auth)
	photo.POST("/cover", h.makeCover, auth)
	photo.GET("/image", h.image, auth)
	photo.GET("/thumb", h.thumb, auth)
}

// requireLogin resolves the session cookie, redirecting to the login view
// when there is no valid session.
func (h handler) requireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		user, err := sec.ResolveSession(req.Context(), h.store, req)
		if err != nil {
			if connect.CodeOf(err) == connect.CodeUnauthenticated {
				return c.Redirect(http.StatusSeeOther, pages.PathLogin)
			}
			return err
		}
		c.SetRequest(req.WithContext(sec.SetAuthenticatedUser(req.Context(), user)))
		return next(c)
	}
}

func (h handler) view(c echo.Context) view {
	token, _ := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string)
	return view{
		User: sec.GetAuthenticatedUser(c.Request().Context()),
		CSRF: token,
	}
}

func (h handler) index(c echo.Context) error {
	return c.Redirect(http.StatusSeeOther, pages.PathAlbums)
}

func (h handler) loginForm(c echo.Context) error {
	req := c.Request()
	if _, err := sec.ResolveSession(req.Context(), h.store, req); err == nil {
		return c.Redirect(http.StatusSeeOther, pages.PathAlbums)
	}
	return c.Render(http.StatusOK, tmplLogin, h.view(c))
}

func (h handler) login(c echo.Context) error {
	ctx := c.Request().Context()
	login := strings.TrimSpace(c.FormValue("login"))
	user, err := sec.Authenticate(ctx, h.store, login, c.FormValue("password"))
	if err != nil {
		if connect.CodeOf(err) != connect.CodeUnauthenticated {
			return err
		}
		data := h.view(c)
		data.Login = login
		data.Error = "Invalid login or password."
		return c.Render(http.StatusUnauthorized, tmplLogin, data)
	}
	cookie, err := sec.Login(ctx, h.store, user)
	if err != nil {
		return err
	}
	c.SetCookie(cookie)
	h.logger.DebugContext(ctx, "user logged in", slog.String("user", user.Name))
	return c.Redirect(http.StatusSeeOther, pages.PathAlbums)
}

func (h handler) logout(c echo.Context) error {
	if cookie, err := c.Cookie(sec.CookieName); err == nil {
		if err = h.store.DeleteSession(c.Request().Context(), cookie.Value); err != nil {
			return err
		}
	}
	c.SetCookie(&http.Cookie{
		Name:    sec.CookieName,
		Path:    "/",
		MaxAge:  -1,
		Expires: time.Unix(0, 0),
	})
	return c.Redirect(http.StatusSeeOther, pages.PathLogin)
}

func (h handler) albums(c echo.Context) error {
	data := h.view(c)
	albums, err := h.store.ListAlbums(c.Request().Context(), data.User.ID)
	if err != nil {
		return err
	}
	data.Albums = albums
	return c.Render(http.StatusOK, tmplAlbums, data)
}

func (h handler) newAlbum(c echo.Context) error {
	data := h.view(c)
	data.Action = pages.PathAlbums
	return c.Render(http.StatusOK, tmplAlbumEdit, data)
}

func (h handler) createAlbum(c echo.Context) error {
	data := h.view(c)
	data.Action = pages.PathAlbums
	name, err := usertext.String(usertext.Name, c.FormValue("name"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	album, err := h.store.CreateAlbum(c.Request().Context(), data.User.ID, name)
	if errors.Is(err, storage.ErrInvalidName) {
		data.Error = "Enter an album name."
		return c.Render(http.StatusUnprocessableEntity, tmplAlbumEdit, data)
	} else if err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, pages.AlbumPath(formatID(album.ID)))
}

func (h handler) album(c echo.Context) error {
	data := h.view(c)
	album, err := h.loadAlbum(c, data.User)
	if err != nil {
		return err
	}
	photos, err := h.store.ListPhotos(c.Request().Context(), album.ID)
	if err != nil {
		return err
	}
	data.Album = album
	data.Photos = photos
	return c.Render(http.StatusOK, tmplAlbum, data)
}

func (h handler) editAlbum(c echo.Context) error {
	data := h.view(c)
	album, err := h.loadAlbum(c, data.User)
	if err != nil {
		return err
	}
	data.Album = album
	data.Name = album.Name
	data.Action = pages.EditAlbumPath(formatID(album.ID))
	return c.Render(http.StatusOK, tmplAlbumEdit, data)
}

func (h handler) renameAlbum(c echo.Context) error {
	data := h.view(c)
	album, err := h.loadAlbum(c, data.User)
	if err != nil {
		return err
	}
	name, err := usertext.String(usertext.Name, c.FormValue("name"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	err = h.store.RenameAlbum(c.Request().Context(), album.ID, name)
	if errors.Is(err, storage.ErrInvalidName) {
		data.Album = album
		data.Action = pages.EditAlbumPath(formatID(album.ID))
		data.Error = "Enter an album name."
		return c.Render(http.StatusUnprocessableEntity, tmplAlbumEdit, data)
	} else if err != nil {
		return toHTTPError(err)
	}
	return c.Redirect(http.StatusSeeOther, pages.AlbumPath(formatID(album.ID)))
}

func (h handler) deleteAlbum(c echo.Context) error {
	album, err := h.loadAlbum(c, sec.GetAuthenticatedUser(c.Request().Context()))
	if err != nil {
		return err
	}
	if err = h.store.DeleteAlbum(c.Request().Context(), album.ID); err != nil {
		return toHTTPError(err)
	}
	return c.Redirect(http.StatusSeeOther, pages.PathAlbums)
}

func (h handler) likeAlbum(c echo.Context) error {
	user := sec.GetAuthenticatedUser(c.Request().Context())
	album, err := h.loadAlbum(c, user)
	if err != nil {
		return err
	}
	if _, err = h.store.ToggleAlbumLike(c.Request().Context(), album.ID, user.ID); err != nil {
		return toHTTPError(err)
	}
	return c.Redirect(http.StatusSeeOther, pages.PathAlbums)
}

func (h handler) newPhoto(c echo.Context) error {
	data := h.view(c)
	album, err := h.loadAlbum(c, data.User)
	if err != nil {
		return err
	}
	data.Album = album
	return c.Render(http.StatusOK, tmplUpload, data)
}

func (h handler) uploadPhoto(c echo.Context) error {
	data := h.view(c)
	album, err := h.loadAlbum(c, data.User)
	if err != nil {
		return err
	}
	data.Album = album

	content, status, err := readUpload(c)
	if err != nil {
		data.Error = err.Error()
		return c.Render(status, tmplUpload, data)
	}
	photo, err := h.store.AddPhoto(c.Request().Context(), album.ID, http.DetectContentType(content), content)
	if err != nil {
		return toHTTPError(err)
	}
	h.logger.DebugContext(c.Request().Context(), "photo uploaded",
		slog.Uint64("album", album.ID),
		slog.Uint64("photo", photo.ID),
		slog.Int("bytes", len(content)),
	)
	return c.Redirect(http.StatusSeeOther, pages.EditPhotoPath(formatID(photo.ID)))
}

// readUpload returns the uploaded image, or a user-facing error with the
// status to render it with.
func readUpload(c echo.Context) ([]byte, int, error) {
	header, err := c.FormFile("photo")
	if err != nil {
		return nil, http.StatusBadRequest, errors.New("choose a photo to upload")
	}
	file, err := header.Open()
	if err != nil {
		return nil, http.StatusBadRequest, fmt.Errorf("failed to read upload: %w", err)
	}
	defer func() { _ = file.Close() }()

	content, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	switch {
	case err != nil:
		return nil, http.StatusBadRequest, fmt.Errorf("failed to read upload: %w", err)
	case len(content) > maxUploadBytes:
		return nil, http.StatusRequestEntityTooLarge, errors.New("photo is larger than 16 MiB")
	case !strings.HasPrefix(http.DetectContentType(content), "image/"):
		return nil, http.StatusUnsupportedMediaType, errors.New("file is not an image")
	}
	return content, http.StatusOK, nil
}

func (h handler) editPhoto(c echo.Context) error {
	data := h.view(c)
	photo, err := h.loadPhoto(c, data.User)
	if err != nil {
		return err
	}
	data.Photo = photo
	return c.Render(http.StatusOK, tmplPhotoEdit, data)
}

func (h handler) savePhoto(c echo.Context) error {
	photo, err := h.loadPhoto(c, sec.GetAuthenticatedUser(c.Request().Context()))
	if err != nil {
		return err
	}
	description, err := usertext.String(usertext.Description, c.FormValue("description"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err = h.store.SetPhotoDescription(c.Request().Context(), photo.ID, description); err != nil {
		return toHTTPError(err)
	}
	return c.Redirect(http.StatusSeeOther, pages.AlbumPath(formatID(photo.AlbumID)))
}

func (h handler) photo(c echo.Context) error {
	data := h.view(c)
	photo, err := h.loadPhoto(c, data.User)
	if err != nil {
		return err
	}
	data.Photo = photo
	return c.Render(http.StatusOK, tmplPhoto, data)
}

func (h handler) likePhoto(c echo.Context) error {
	return h.photoOp(c, func(photo db.PhotoView, user db.User) error {
		return h.store.LikePhoto(c.Request().Context(), photo.ID, user.ID)
	})
}

func (h handler) unlikePhoto(c echo.Context) error {
	return h.photoOp(c, func(photo db.PhotoView, user db.User) error {
		return h.store.UnlikePhoto(c.Request().Context(), photo.ID, user.ID)
	})
}

func (h handler) makeCover(c echo.Context) error {
	return h.photoOp(c, func(photo db.PhotoView, _ db.User) error {
		return h.store.SetAlbumCover(c.Request().Context(), photo.AlbumID, photo.ID)
	})
}

// photoOp applies op to the photo in the path and returns to its view.
func (h handler) photoOp(c echo.Context, op func(db.PhotoView, db.User) error) error {
	user := sec.GetAuthenticatedUser(c.Request().Context())
	photo, err := h.loadPhoto(c, user)
	if err != nil {
		return err
	}
	if err = op(photo, user); err != nil {
		return toHTTPError(err)
	}
	return c.Redirect(http.StatusSeeOther, pages.PhotoPath(formatID(photo.ID)))
}

// loadAlbum resolves the album in the path, which must belong to user.
func (h handler) loadAlbum(c echo.Context, user db.User) (db.AlbumView, error) {
	id, err := parseID(c, "album")
	if err != nil {
		return db.AlbumView{}, err
	}
	album, err := h.store.GetAlbum(c.Request().Context(), user.ID, id)
	if err != nil {
		return db.AlbumView{}, toHTTPError(err)
	}
	if album.UserID != user.ID {
		return db.AlbumView{}, echo.ErrNotFound
	}
	return album, nil
}

// loadPhoto resolves the photo in the path, whose album must belong to user.
func (h handler) loadPhoto(c echo.Context, user db.User) (db.PhotoView, error) {
	id, err := parseID(c, "photo")
	if err != nil {
		return db.PhotoView{}, err
	}
	ctx := c.Request().Context()
	photo, err := h.store.GetPhoto(ctx, user.ID, id)
	if err != nil {
		return db.PhotoView{}, toHTTPError(err)
	}
	album, err := h.store.GetAlbum(ctx, user.ID, photo.AlbumID)
	if err != nil {
		return db.PhotoView{}, toHTTPError(err)
	}
	if album.UserID != user.ID {
		return db.PhotoView{}, echo.ErrNotFound
	}
	return photo, nil
}

func parseID(c echo.Context, param string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.ErrNotFound
	}
	return id, nil
}

// toHTTPError converts storage errors to an Echo HTTPError with the
// appropriate HTTP status code; other errors pass through unchanged.
func toHTTPError(err error) error {
	var httpErr *echo.HTTPError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &httpErr):
		return err
	case errors.Is(err, storage.ErrNotFound):
		return echo.ErrNotFound
	case errors.Is(err, storage.ErrAlreadyExists):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, storage.ErrInvalidName), errors.Is(err, storage.ErrInvalidUsername):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return err
	}
}
