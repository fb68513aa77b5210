package pages

import "github.com/stolasapp/albumtest/internal/driver"

// AddPhotoPage is the upload screen of one album.
type AddPhotoPage struct {
	page

	albumID string
}

func NewAddPhotoPage(session driver.Session, baseURL, albumID string) *AddPhotoPage {
	return &AddPhotoPage{page: newPage(session, baseURL), albumID: albumID}
}

func (p *AddPhotoPage) Open() error { return p.navigate(AddPhotoPath(p.albumID)) }

func (p *AddPhotoPage) Form() UploadForm { return UploadForm{session: p.session} }

// UploadForm uploads a photo into the album.
type UploadForm struct {
	session driver.Session
}

// UploadPhoto sends the file at path and lands on the photo metadata view.
func (f UploadForm) UploadPhoto(path string) error {
	input, err := f.session.Find(SelectorUploadFile)
	if err != nil {
		return err
	}
	if err = input.Upload(path); err != nil {
		return err
	}
	return click(f.session, SelectorUploadSubmit)
}

// EditPhotoPage is the photo metadata screen shown after an upload.
type EditPhotoPage struct {
	page
}

func NewEditPhotoPage(session driver.Session, baseURL string) *EditPhotoPage {
	return &EditPhotoPage{page: newPage(session, baseURL)}
}

func (p *EditPhotoPage) Form() PhotoForm { return PhotoForm{session: p.session} }

// PhotoForm edits a photo's metadata.
type PhotoForm struct {
	session driver.Session
}

func (f PhotoForm) SetDescription(value string) error {
	return fill(f.session, SelectorPhotoFormDescription, value)
}

// Save stores the metadata and returns to the album screen.
func (f PhotoForm) Save() error { return click(f.session, SelectorPhotoFormSave) }

// PhotoPage is the single photo screen.
type PhotoPage struct {
	page
}

func NewPhotoPage(session driver.Session, baseURL string) *PhotoPage {
	return &PhotoPage{page: newPage(session, baseURL)}
}

func (p *PhotoPage) Photo() Photo { return Photo{session: p.session} }

func (p *PhotoPage) Toolbar() PhotoToolbar { return PhotoToolbar{session: p.session} }

func (p *PhotoPage) Confirmation() CoverConfirmation {
	return CoverConfirmation{session: p.session}
}

// Photo is the photo shown on the photo screen.
type Photo struct {
	session driver.Session
}

func (p Photo) ImageID() (string, error) { return attr(p.session, SelectorPhoto, DataAttrImageID) }

func (p Photo) Description() (string, error) { return text(p.session, SelectorPhotoDescription) }

func (p Photo) LikesCount() (int, error) { return number(p.session, SelectorPhotoLikes) }

// Like adds the user's like. Unlike album likes this is not a toggle; use
// [Photo.CancelLike] to withdraw it.
func (p Photo) Like() error { return click(p.session, SelectorPhotoLike) }

// CancelLike withdraws the user's like.
func (p Photo) CancelLike() error { return click(p.session, SelectorPhotoUnlike) }

// PhotoToolbar is the photo action menu.
type PhotoToolbar struct {
	session driver.Session
}

func (t PhotoToolbar) Open() error { return click(t.session, SelectorPhotoToolbarToggle) }

// MakeCover asks to make the photo the album cover; see [CoverConfirmation].
func (t PhotoToolbar) MakeCover() error { return click(t.session, SelectorPhotoToolbarCover) }

// CoverConfirmation is the modal guarding the cover change.
type CoverConfirmation struct {
	session driver.Session
}

func (c CoverConfirmation) Yes() error { return click(c.session, SelectorCoverConfirm) }
