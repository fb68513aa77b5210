package pages

import "github.com/stolasapp/albumtest/internal/driver"

// AlbumEditPage is the album create/edit screen. Whether it creates or
// renames depends on how it was reached: [AlbumEditPage.Open] leads to the
// create view, the album toolbar's edit action to the edit view.
type AlbumEditPage struct {
	page
}

func NewAlbumEditPage(session driver.Session, baseURL string) *AlbumEditPage {
	return &AlbumEditPage{page: newPage(session, baseURL)}
}

// Open navigates to the create view.
func (p *AlbumEditPage) Open() error { return p.navigate(PathNewAlbum) }

func (p *AlbumEditPage) Form() AlbumForm { return AlbumForm{session: p.session} }

// AlbumForm edits an album's name.
type AlbumForm struct {
	session driver.Session
}

// SetName replaces the name in the form.
func (f AlbumForm) SetName(value string) error {
	return fill(f.session, SelectorAlbumFormName, value)
}

// Submit saves the album and lands on its album screen.
func (f AlbumForm) Submit() error {
	return click(f.session, SelectorAlbumFormSubmit)
}
