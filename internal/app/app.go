// Package app contains the stand-in album web application. It renders the
// screens the page objects in the pages package drive, backed by the storage
// package.
package app

import (
	"embed"
	"log/slog"
	"net/http"
	"time"

	"github.com/die-net/lrucache"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/stolasapp/albumtest/internal/config"
	"github.com/stolasapp/albumtest/internal/storage"
)

//go:embed static
var staticFiles embed.FS

// Thumbnail cache limits.
const (
	maxThumbCacheBytes = 32 * 1024 * 1024 // 32 MiB
	maxThumbCacheAge   = 0                // unlimited
)

// csrfField is the form field carrying the CSRF token.
const csrfField = "_csrf"

// maxBodySize admits a full-size upload plus form overhead.
const maxBodySize = "17M"

// New creates the album application.
func New(
	cfg *config.Config,
	logger *slog.Logger,
	store storage.Store,
) *echo.Echo {
	srv := echo.New()

	srv.HideBanner = true
	srv.HidePort = true
	srv.Logger.SetLevel(log.OFF)
	srv.Renderer = newRenderer()

	if cfg.DevMode {
		srv.Debug = true
	}

	srv.Use(
		logRequests(logger),
		middleware.Recover(),
		middleware.BodyLimit(maxBodySize),
		middleware.Decompress(),
		middleware.Gzip(),
		middleware.Secure(),
		middleware.CSRFWithConfig(middleware.CSRFConfig{
			TokenLookup:    "form:" + csrfField,
			CookiePath:     "/",
			CookieHTTPOnly: true,
			CookieSameSite: http.SameSiteLaxMode,
		}),
		middleware.RequestID(),
	)

	handler{
		store:  store,
		thumbs: lrucache.New(maxThumbCacheBytes, maxThumbCacheAge),
		logger: logger,
	}.register(srv)
	staticFS := echo.MustSubFS(staticFiles, "static")
	srv.StaticFS("/static/", staticFS)
	srv.FileFS("/robots.txt", "robots.txt", staticFS)
	return srv
}

func logRequests(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			latency := time.Since(start)

			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			attrs := []slog.Attr{
				slog.String("method", req.Method),
				slog.String("uri", req.RequestURI),
				slog.String("route", c.Path()),
				slog.Duration("latency", latency),
				slog.Int("status", res.Status),
			}
			if err != nil {
				attrs = append(attrs, slog.Any("error", err))
			}
			logger.LogAttrs(
				req.Context(),
				slog.LevelDebug,
				"request handled",
				attrs...,
			)
			return err
		}
	}
}
