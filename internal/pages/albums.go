package pages

import (
	"errors"
	"fmt"
	"strings"

	"github.com/stolasapp/albumtest/internal/driver"
)

// AlbumsPage lists the user's albums.
type AlbumsPage struct {
	page
}

func NewAlbumsPage(session driver.Session, baseURL string) *AlbumsPage {
	return &AlbumsPage{page: newPage(session, baseURL)}
}

// Open navigates to the albums list.
func (p *AlbumsPage) Open() error { return p.navigate(PathAlbums) }

// AlbumsList returns the list of albums on the current page.
func (p *AlbumsPage) AlbumsList() AlbumsList {
	return AlbumsList{List: newList(p.session, SelectorAlbumItem, newAlbumItem)}
}

// AlbumsList is the collection of album entries.
type AlbumsList struct {
	List[AlbumItem]
}

// Find returns the first entry, in document order, whose title is exactly
// name. Callers relying on a particular entry should use unique names.
func (l AlbumsList) Find(name string) (AlbumItem, error) {
	items, err := l.All()
	if err != nil {
		return AlbumItem{}, err
	}
	for _, item := range items {
		title, err := item.Title()
		if err != nil {
			return AlbumItem{}, err
		}
		if title == name {
			return item, nil
		}
	}
	return AlbumItem{}, fmt.Errorf("%w: album %q", driver.ErrNotFound, name)
}

// Includes reports whether an entry titled name is listed.
func (l AlbumsList) Includes(name string) (bool, error) {
	_, err := l.Find(name)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, driver.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// AlbumItem is one album as shown in the list.
type AlbumItem struct {
	el driver.Element
}

func newAlbumItem(el driver.Element) AlbumItem { return AlbumItem{el: el} }

func (i AlbumItem) Title() (string, error) { return text(i.el, SelectorAlbumItemTitle) }

// AlbumID returns the album's identifier.
func (i AlbumItem) AlbumID() (string, error) { return i.el.Attribute(DataAttrAlbumID) }

// ImageID returns the identifier of the album's cover photo, or "" when no
// cover is set.
func (i AlbumItem) ImageID() (string, error) {
	id, err := i.el.Attribute(DataAttrCoverID)
	return strings.TrimSpace(id), err
}

// Like toggles the user's like on the album: a second call withdraws it.
// The list is reloaded, so the item must be looked up again afterwards.
func (i AlbumItem) Like() error { return click(i.el, SelectorAlbumItemLike) }

func (i AlbumItem) LikesCount() (int, error) { return number(i.el, SelectorAlbumItemLikes) }
