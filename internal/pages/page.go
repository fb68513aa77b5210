// Package pages models the screens of the mobile photo-album application as
// page objects. Each page exposes navigation and the components of one
// screen; components resolve their elements from the live page on every
// call, so nothing read through them is cached.
package pages

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/stolasapp/albumtest/internal/driver"
)

// Application paths.
const (
	PathLogin    = "/login"
	PathAlbums   = "/albums"
	PathNewAlbum = "/albums/new"
)

// AlbumPath returns the path of the album view.
func AlbumPath(albumID string) string { return PathAlbums + "/" + albumID }

// EditAlbumPath returns the path of the rename view of an album.
func EditAlbumPath(albumID string) string { return AlbumPath(albumID) + "/edit" }

// AddPhotoPath returns the path of the upload view scoped to an album.
func AddPhotoPath(albumID string) string { return AlbumPath(albumID) + "/photos/new" }

// PhotoPath returns the path of the photo view.
func PhotoPath(photoID string) string { return "/photos/" + photoID }

// EditPhotoPath returns the path of the edit-metadata view of a photo.
func EditPhotoPath(photoID string) string { return PhotoPath(photoID) + "/edit" }

// Opener is a page that can navigate to itself.
type Opener interface {
	Open() error
}

var (
	_ Opener = (*AuthPage)(nil)
	_ Opener = (*AlbumEditPage)(nil)
	_ Opener = (*AlbumsPage)(nil)
	_ Opener = (*AlbumPage)(nil)
	_ Opener = (*AddPhotoPage)(nil)
)

// finder is satisfied by both [driver.Session] and [driver.Element].
type finder interface {
	Find(selector string) (driver.Element, error)
	FindAll(selector string) ([]driver.Element, error)
}

// page is embedded by every page object.
type page struct {
	session driver.Session
	baseURL string
}

func newPage(session driver.Session, baseURL string) page {
	return page{session: session, baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (p page) navigate(path string) error {
	return p.session.Navigate(p.baseURL + path)
}

func click(f finder, selector string) error {
	el, err := f.Find(selector)
	if err != nil {
		return err
	}
	return el.Click()
}

// fill replaces the value of a text control.
func fill(f finder, selector, value string) error {
	el, err := f.Find(selector)
	if err != nil {
		return err
	}
	if err = el.Clear(); err != nil {
		return err
	}
	return el.Type(value)
}

func text(f finder, selector string) (string, error) {
	el, err := f.Find(selector)
	if err != nil {
		return "", err
	}
	val, err := el.Text()
	return strings.TrimSpace(val), err
}

func attr(f finder, selector, name string) (string, error) {
	el, err := f.Find(selector)
	if err != nil {
		return "", err
	}
	return el.Attribute(name)
}

// number reads an integer counter. An empty counter reads as zero.
func number(f finder, selector string) (int, error) {
	val, err := text(f, selector)
	if err != nil {
		return 0, err
	}
	return parseCount(val)
}

func parseCount(val string) (int, error) {
	if val == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid counter %q: %w", val, err)
	}
	return n, nil
}
