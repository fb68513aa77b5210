package scenario

import "github.com/stolasapp/albumtest/internal/pages"

// CreateAlbum creates an album and expects its name on the empty album.
func CreateAlbum(t T, env *Env) {
	t.Helper()
	s := newSteps(t, env)
	s.auth()

	name := "Created test album #" + timestamp()
	s.createAlbum(name)

	title, err := pages.NewAlbumPage(env.Session, env.BaseURL).EmptyAlbum().Title()
	s.must.NoError(err)
	s.must.Equal(name, title)
}

// RemoveAlbum deletes a fresh album and expects it gone from the list.
func RemoveAlbum(t T, env *Env) {
	t.Helper()
	s := newSteps(t, env)
	s.auth()

	name := "Test album #" + timestamp() + " for remove"
	s.createAlbum(name)

	album := pages.NewAlbumPage(env.Session, env.BaseURL)
	toolbar := album.Toolbar()
	s.must.NoError(toolbar.Open())
	s.must.NoError(toolbar.Delete())
	s.must.NoError(album.ConfirmationModal().Delete())

	included, err := pages.NewAlbumsPage(env.Session, env.BaseURL).AlbumsList().Includes(name)
	s.must.NoError(err)
	s.must.False(included, "album %q still listed", name)
}

// RenameAlbum renames a fresh album through its toolbar.
func RenameAlbum(t T, env *Env) {
	t.Helper()
	s := newSteps(t, env)
	s.auth()
	s.createAlbum(defaultAlbumName())

	album := pages.NewAlbumPage(env.Session, env.BaseURL)
	toolbar := album.Toolbar()
	s.must.NoError(toolbar.Open())
	s.must.NoError(toolbar.Edit())

	name := "Renamed test album #" + timestamp()
	form := pages.NewAlbumEditPage(env.Session, env.BaseURL).Form()
	s.must.NoError(form.SetName(name))
	s.must.NoError(form.Submit())

	title, err := album.EmptyAlbum().Title()
	s.must.NoError(err)
	s.must.Equal(name, title)
}

// LikeAlbum likes a fresh album and expects one like, also after a reload.
func LikeAlbum(t T, env *Env) {
	t.Helper()
	s := newSteps(t, env)
	s.auth()

	name := "Liked test album #" + timestamp()
	s.createAlbum(name)
	s.likeAlbum(name)

	s.expectAlbumLikes(name, 1)
	s.must.NoError(env.Session.Refresh())
	s.expectAlbumLikes(name, 1)
}

// CancelAlbumLike likes a fresh album twice and expects no likes, also
// after a reload.
func CancelAlbumLike(t T, env *Env) {
	t.Helper()
	s := newSteps(t, env)
	s.auth()

	name := "Liked test album #" + timestamp()
	s.createAlbum(name)
	s.likeAlbum(name)
	s.likeAlbum(name)

	s.expectAlbumLikes(name, 0)
	s.must.NoError(env.Session.Refresh())
	s.expectAlbumLikes(name, 0)
}

// expectAlbumLikes reads the like count of the named album from the albums
// list on screen.
func (s *steps) expectAlbumLikes(name string, want int) {
	s.t.Helper()
	item, err := pages.NewAlbumsPage(s.env.Session, s.env.BaseURL).AlbumsList().Find(name)
	s.must.NoError(err)
	count, err := item.LikesCount()
	s.must.NoError(err)
	s.must.Equal(want, count)
}

// AddPhoto uploads a photo and expects it in the album.
func AddPhoto(t T, env *Env) {
	t.Helper()
	s := newSteps(t, env)
	s.auth()
	s.createAlbum(defaultAlbumName())

	album := pages.NewAlbumPage(env.Session, env.BaseURL)
	albumID, err := album.ParseAlbumID()
	s.must.NoError(err)

	s.uploadPhoto(albumID, env.Photos.First)

	s.must.NoError(pages.NewEditPhotoPage(env.Session, env.BaseURL).Form().Save())
	count, err := album.PhotosList().Count()
	s.must.NoError(err)
	s.must.Equal(1, count)
}

// AddPhotoWithDescription uploads a described photo and reads the
// description back on the photo screen.
func AddPhotoWithDescription(t T, env *Env) {
	t.Helper()
	s := newSteps(t, env)
	s.auth()
	s.createAlbum(defaultAlbumName())

	album := pages.NewAlbumPage(env.Session, env.BaseURL)
	albumID, err := album.ParseAlbumID()
	s.must.NoError(err)

	s.uploadPhoto(albumID, env.Photos.First)

	const description = "Photo description."
	form := pages.NewEditPhotoPage(env.Session, env.BaseURL).Form()
	s.must.NoError(form.SetDescription(description))
	s.must.NoError(form.Save())

	photos := album.PhotosList()
	count, err := photos.Count()
	s.must.NoError(err)
	s.must.Equal(1, count)

	first, err := photos.First()
	s.must.NoError(err)
	s.must.NoError(first.Click())

	got, err := pages.NewPhotoPage(env.Session, env.BaseURL).Photo().Description()
	s.must.NoError(err)
	s.must.Equal(description, got)
}

// LikePhoto likes a fresh photo and expects one like, also after a reload.
func LikePhoto(t T, env *Env) {
	t.Helper()
	s := newSteps(t, env)
	s.auth()
	s.createAlbum(defaultAlbumName())
	s.uploadPhotoAndOpen()

	photo := pages.NewPhotoPage(env.Session, env.BaseURL).Photo()
	s.must.NoError(photo.Like())
	s.expectPhotoLikes(photo, 1)

	s.must.NoError(env.Session.Refresh())
	s.expectPhotoLikes(photo, 1)
}

// CancelPhotoLike withdraws a like and expects no likes, also after a
// reload.
func CancelPhotoLike(t T, env *Env) {
	t.Helper()
	s := newSteps(t, env)
	s.auth()
	s.createAlbum(defaultAlbumName())
	s.uploadPhotoAndOpen()

	photo := pages.NewPhotoPage(env.Session, env.BaseURL).Photo()
	s.must.NoError(photo.Like())
	s.must.NoError(env.Session.Refresh())

	s.must.NoError(photo.CancelLike())
	s.expectPhotoLikes(photo, 0)

	s.must.NoError(env.Session.Refresh())
	s.expectPhotoLikes(photo, 0)
}

func (s *steps) expectPhotoLikes(photo pages.Photo, want int) {
	s.t.Helper()
	count, err := photo.LikesCount()
	s.must.NoError(err)
	s.must.Equal(want, count)
}

// MakePhotoAlbumCover makes each of two photos the cover in turn and
// expects the album header to follow.
func MakePhotoAlbumCover(t T, env *Env) {
	t.Helper()
	s := newSteps(t, env)
	s.auth()
	s.createAlbum(defaultAlbumName())

	album := pages.NewAlbumPage(env.Session, env.BaseURL)
	albumID, err := album.ParseAlbumID()
	s.must.NoError(err)

	s.uploadPhoto(albumID, env.Photos.First)
	s.uploadPhoto(albumID, env.Photos.Second)

	s.must.NoError(album.Open())
	for index := range 2 {
		item, err := album.PhotosList().Get(index)
		s.must.NoError(err)
		photoID, err := item.ImageID()
		s.must.NoError(err)

		s.must.NoError(item.Click())
		s.makePhotoCover()

		s.must.NoError(album.Open())
		coverID, err := album.AlbumHeader().CoverID()
		s.must.NoError(err)
		s.must.Equal(photoID, coverID, "cover after choosing photo %d", index)
	}
}
