package scenario

import "github.com/stolasapp/albumtest/internal/pages"

// auth logs in with the configured credentials.
func (s *steps) auth() {
	s.t.Helper()
	page := pages.NewAuthPage(s.env.Session, s.env.BaseURL)
	s.must.NoError(page.Open())

	form := page.Form()
	s.must.NoError(form.SetLogin(s.env.Login))
	s.must.NoError(form.SetPassword(s.env.Password))
	s.must.NoError(form.Submit())
}

// createAlbum creates an album and lands on its album screen.
func (s *steps) createAlbum(name string) {
	s.t.Helper()
	page := pages.NewAlbumEditPage(s.env.Session, s.env.BaseURL)
	s.must.NoError(page.Open())

	form := page.Form()
	s.must.NoError(form.SetName(name))
	s.must.NoError(form.Submit())
}

// likeAlbum toggles the like of the named album from the albums list.
func (s *steps) likeAlbum(name string) {
	s.t.Helper()
	page := pages.NewAlbumsPage(s.env.Session, s.env.BaseURL)
	s.must.NoError(page.Open())

	item, err := page.AlbumsList().Find(name)
	s.must.NoError(err)
	s.must.NoError(item.Like())
}

// uploadPhoto uploads a photo into the album and lands on the photo's
// metadata view.
func (s *steps) uploadPhoto(albumID, photo string) {
	s.t.Helper()
	page := pages.NewAddPhotoPage(s.env.Session, s.env.BaseURL, albumID)
	s.must.NoError(page.Open())
	s.must.NoError(page.Form().UploadPhoto(photo))
}

// uploadPhotoAndOpen uploads the first fixture into the album on screen and
// opens it on the photo screen.
func (s *steps) uploadPhotoAndOpen() {
	s.t.Helper()
	album := pages.NewAlbumPage(s.env.Session, s.env.BaseURL)
	albumID, err := album.ParseAlbumID()
	s.must.NoError(err)

	s.uploadPhoto(albumID, s.env.Photos.First)

	s.must.NoError(album.Open())
	first, err := album.PhotosList().First()
	s.must.NoError(err)
	s.must.NoError(first.Click())
}

// makePhotoCover makes the photo on screen its album's cover.
func (s *steps) makePhotoCover() {
	s.t.Helper()
	page := pages.NewPhotoPage(s.env.Session, s.env.BaseURL)
	toolbar := page.Toolbar()
	s.must.NoError(toolbar.Open())
	s.must.NoError(toolbar.MakeCover())
	s.must.NoError(page.Confirmation().Yes())
}
