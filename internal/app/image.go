package app

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif" // decoders for uploaded photos
	"image/jpeg"
	_ "image/png"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfnt/resize"

	"github.com/stolasapp/albumtest/internal/sec"
)

// Thumbnail settings.
const (
	thumbSize    = 320
	thumbQuality = 85
	cacheControl = "private, max-age=3600"
)

func (h handler) image(c echo.Context) error {
	photo, err := h.loadPhoto(c, sec.GetAuthenticatedUser(c.Request().Context()))
	if err != nil {
		return err
	}
	if notModified(c, imageETag(photo.ID, "image")) {
		return c.NoContent(http.StatusNotModified)
	}
	img, err := h.store.GetImage(c.Request().Context(), photo.ID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.Blob(http.StatusOK, img.ContentType, img.Data)
}

func (h handler) thumb(c echo.Context) error {
	photo, err := h.loadPhoto(c, sec.GetAuthenticatedUser(c.Request().Context()))
	if err != nil {
		return err
	}
	if notModified(c, imageETag(photo.ID, "thumb")) {
		return c.NoContent(http.StatusNotModified)
	}

	key := formatID(photo.ID)
	if data, ok := h.thumbs.Get(key); ok {
		return c.Blob(http.StatusOK, "image/jpeg", data)
	}

	img, err := h.store.GetImage(c.Request().Context(), photo.ID)
	if err != nil {
		return toHTTPError(err)
	}
	data, err := thumbnail(img.Data)
	if err != nil {
		// serve the original rather than a broken image
		h.logger.WarnContext(c.Request().Context(), "failed to create thumbnail",
			slog.Uint64("photo", photo.ID),
			slog.Any("error", err),
		)
		return c.Blob(http.StatusOK, img.ContentType, img.Data)
	}
	h.thumbs.Set(key, data)
	return c.Blob(http.StatusOK, "image/jpeg", data)
}

// imageETag identifies one rendition of a photo. Uploaded images never
// change, so the ID is a strong validator.
func imageETag(id uint64, rendition string) string {
	return `"` + formatID(id) + "-" + rendition + `"`
}

// notModified sets the caching headers for etag and reports whether the
// request already holds that version.
func notModified(c echo.Context, etag string) bool {
	header := c.Response().Header()
	header.Set("Cache-Control", cacheControl)
	header.Set("ETag", etag)
	return c.Request().Header.Get("If-None-Match") == etag
}

// thumbnail scales an image to fit a thumbSize square, preserving its aspect
// ratio, and encodes it as JPEG.
func thumbnail(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	thumb := resize.Thumbnail(thumbSize, thumbSize, img, resize.Lanczos3)

	var buf bytes.Buffer
	if err = jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: thumbQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
