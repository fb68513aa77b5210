package app

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/stolasapp/albumtest/internal/pages"
	"github.com/stolasapp/albumtest/internal/storage/db"
)

//go:embed templates
var templateFiles embed.FS

// Page template names.
const (
	tmplLogin     = "login"
	tmplAlbums    = "albums"
	tmplAlbumEdit = "album_edit"
	tmplAlbum     = "album"
	tmplUpload    = "upload"
	tmplPhotoEdit = "photo_edit"
	tmplPhoto     = "photo"
)

var templateFuncs = template.FuncMap{
	"id":            formatID,
	"albumPath":     func(id uint64) string { return pages.AlbumPath(formatID(id)) },
	"editAlbumPath": func(id uint64) string { return pages.EditAlbumPath(formatID(id)) },
	"addPhotoPath":  func(id uint64) string { return pages.AddPhotoPath(formatID(id)) },
	"photoPath":     func(id uint64) string { return pages.PhotoPath(formatID(id)) },
	"editPhotoPath": func(id uint64) string { return pages.EditPhotoPath(formatID(id)) },
}

// formatID renders an ID as the decimal string used in paths and data
// attributes. Zero renders as the empty string.
func formatID(id uint64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatUint(id, 10)
}

// view is the data passed to every page template.
type view struct {
	User db.User
	CSRF string

	Error string
	Login string
	// Name is the album name being edited, Action where the form posts.
	Name   string
	Action string

	Albums []db.AlbumView
	Album  db.AlbumView
	Photos []db.Photo
	Photo  db.PhotoView
}

// renderer is an [echo.Renderer] over one template set per page, each
// combining the shared layout with the page's content.
type renderer struct {
	pages map[string]*template.Template
}

func newRenderer() *renderer {
	r := &renderer{pages: make(map[string]*template.Template)}
	for _, name := range []string{
		tmplLogin, tmplAlbums, tmplAlbumEdit, tmplAlbum, tmplUpload, tmplPhotoEdit, tmplPhoto,
	} {
		r.pages[name] = template.Must(
			template.New(name).Funcs(templateFuncs).ParseFS(
				templateFiles,
				"templates/layout.html",
				"templates/"+name+".html",
			),
		)
	}
	return r
}

// Render satisfies [echo.Renderer].
func (r *renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page template %q", name)
	}
	return tmpl.ExecuteTemplate(w, "layout", data)
}
