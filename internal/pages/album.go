package pages

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"

	"github.com/stolasapp/albumtest/internal/driver"
)

var albumPathRegex = regexp.MustCompile(`/albums/(\d+)(?:/|$)`)

// ErrNoAlbumID is returned when the current page does not identify an album.
var ErrNoAlbumID = errors.New("no album identifier on the current page")

// AlbumPage is the album screen. It binds to one album the first time the
// album's identifier is parsed, and reopens that album afterwards.
type AlbumPage struct {
	page

	albumID string
}

func NewAlbumPage(session driver.Session, baseURL string) *AlbumPage {
	return &AlbumPage{page: newPage(session, baseURL)}
}

// Open navigates to the bound album, binding to the album in the current
// location first if necessary.
func (p *AlbumPage) Open() error {
	if p.albumID == "" {
		if _, err := p.ParseAlbumID(); err != nil {
			return err
		}
	}
	return p.navigate(AlbumPath(p.albumID))
}

// ParseAlbumID extracts the album identifier from the current location,
// falling back to the album header, and binds the page to it.
func (p *AlbumPage) ParseAlbumID() (string, error) {
	current, err := p.session.CurrentURL()
	if err != nil {
		return "", err
	}
	if u, err := url.Parse(current); err == nil {
		if m := albumPathRegex.FindStringSubmatch(u.Path); m != nil {
			p.albumID = m[1]
			return p.albumID, nil
		}
	}
	id, err := attr(p.session, SelectorAlbumHeader, DataAttrAlbumID)
	if errors.Is(err, driver.ErrNotFound) || (err == nil && id == "") {
		return "", fmt.Errorf("%w: %s", ErrNoAlbumID, current)
	} else if err != nil {
		return "", err
	}
	p.albumID = id
	return id, nil
}

// EmptyAlbum returns the block shown while the album has no photos.
func (p *AlbumPage) EmptyAlbum() EmptyAlbum { return EmptyAlbum{session: p.session} }

func (p *AlbumPage) Toolbar() AlbumToolbar { return AlbumToolbar{session: p.session} }

func (p *AlbumPage) ConfirmationModal() DeleteConfirmation {
	return DeleteConfirmation{session: p.session}
}

func (p *AlbumPage) AlbumHeader() AlbumHeader { return AlbumHeader{session: p.session} }

// PhotosList returns the album's photos in upload order.
func (p *AlbumPage) PhotosList() List[PhotoItem] {
	return newList(p.session, SelectorPhotoItem, newPhotoItem)
}

// EmptyAlbum is the empty-album template of the album screen.
type EmptyAlbum struct {
	session driver.Session
}

// Title returns the album name. It is only rendered while the album is empty.
func (a EmptyAlbum) Title() (string, error) { return text(a.session, SelectorEmptyAlbumTitle) }

// AlbumHeader is the album screen's header.
type AlbumHeader struct {
	session driver.Session
}

func (h AlbumHeader) Title() (string, error) { return text(h.session, SelectorAlbumHeaderTitle) }

// CoverID returns the identifier of the current cover photo, or "" when
// none is set.
func (h AlbumHeader) CoverID() (string, error) {
	return attr(h.session, SelectorAlbumHeader, DataAttrCoverID)
}

// AlbumToolbar is the album action menu. It must be opened before its
// actions can be used.
type AlbumToolbar struct {
	session driver.Session
}

func (t AlbumToolbar) Open() error { return click(t.session, SelectorAlbumToolbarToggle) }

// Edit leads to the album edit view.
func (t AlbumToolbar) Edit() error { return click(t.session, SelectorAlbumToolbarEdit) }

// Delete shows the delete confirmation; nothing is deleted until it is
// confirmed.
func (t AlbumToolbar) Delete() error { return click(t.session, SelectorAlbumToolbarDelete) }

// DeleteConfirmation is the modal guarding album deletion.
type DeleteConfirmation struct {
	session driver.Session
}

// Delete confirms the deletion; the application returns to the albums list.
func (c DeleteConfirmation) Delete() error { return click(c.session, SelectorAlbumDeleteConfirm) }

// PhotoItem is one photo as shown in the album.
type PhotoItem struct {
	el driver.Element
}

func newPhotoItem(el driver.Element) PhotoItem { return PhotoItem{el: el} }

func (i PhotoItem) ImageID() (string, error) { return i.el.Attribute(DataAttrImageID) }

// Click opens the photo screen.
func (i PhotoItem) Click() error { return click(i.el, SelectorPhotoItemLink) }
