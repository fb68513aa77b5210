package pages_test

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stolasapp/albumtest/internal/app/apptest"
	"github.com/stolasapp/albumtest/internal/driver"
	"github.com/stolasapp/albumtest/internal/driver/drivertest"
	"github.com/stolasapp/albumtest/internal/pages"
)

func setup(t *testing.T) (*drivertest.Session, string) {
	t.Helper()
	srv := apptest.Start(t)
	session := drivertest.New()
	t.Cleanup(func() { _ = session.Quit() })

	auth := pages.NewAuthPage(session, srv.URL)
	require.NoError(t, auth.Open())
	require.NoError(t, auth.Form().SetLogin(apptest.Login))
	require.NoError(t, auth.Form().SetPassword(apptest.Password))
	require.NoError(t, auth.Form().Submit())
	return session, srv.URL
}

func createAlbum(t *testing.T, session driver.Session, baseURL, name string) *pages.AlbumPage {
	t.Helper()
	edit := pages.NewAlbumEditPage(session, baseURL)
	require.NoError(t, edit.Open())
	require.NoError(t, edit.Form().SetName(name))
	require.NoError(t, edit.Form().Submit())
	return pages.NewAlbumPage(session, baseURL)
}

func writePhoto(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	img.Set(8, 8, color.RGBA{B: 0xff, A: 0xff})
	path := filepath.Join(t.TempDir(), "photo.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestAuthPage(t *testing.T) {
	t.Parallel()
	session, baseURL := setup(t)

	current, err := session.CurrentURL()
	require.NoError(t, err)
	assert.Equal(t, baseURL+pages.PathAlbums, current)

	count, err := pages.NewAlbumsPage(session, baseURL).AlbumsList().Count()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestAlbumPage(t *testing.T) {
	t.Parallel()
	session, baseURL := setup(t)
	album := createAlbum(t, session, baseURL, "Page objects")

	id, err := album.ParseAlbumID()
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	title, err := album.EmptyAlbum().Title()
	require.NoError(t, err)
	assert.Equal(t, "Page objects", title)

	header, err := album.AlbumHeader().Title()
	require.NoError(t, err)
	assert.Equal(t, "Page objects", header)

	cover, err := album.AlbumHeader().CoverID()
	require.NoError(t, err)
	assert.Empty(t, cover)

	count, err := album.PhotosList().Count()
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = album.PhotosList().First()
	require.ErrorIs(t, err, driver.ErrNotFound)

	t.Run("rename", func(t *testing.T) {
		require.NoError(t, album.Toolbar().Open())
		require.NoError(t, album.Toolbar().Edit())
		form := pages.NewAlbumEditPage(session, baseURL).Form()
		require.NoError(t, form.SetName("Renamed"))
		require.NoError(t, form.Submit())

		title, err := album.EmptyAlbum().Title()
		require.NoError(t, err)
		assert.Equal(t, "Renamed", title)
	})

	t.Run("reopen from elsewhere", func(t *testing.T) {
		require.NoError(t, pages.NewAlbumsPage(session, baseURL).Open())
		require.NoError(t, album.Open())
		reopened, err := album.ParseAlbumID()
		require.NoError(t, err)
		assert.Equal(t, id, reopened)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, album.Toolbar().Open())
		require.NoError(t, album.Toolbar().Delete())
		require.NoError(t, album.ConfirmationModal().Delete())

		included, err := pages.NewAlbumsPage(session, baseURL).AlbumsList().Includes("Renamed")
		require.NoError(t, err)
		assert.False(t, included)
	})
}

func TestAlbumPage_NoAlbum(t *testing.T) {
	t.Parallel()
	session, baseURL := setup(t)

	album := pages.NewAlbumPage(session, baseURL)
	_, err := album.ParseAlbumID()
	require.ErrorIs(t, err, pages.ErrNoAlbumID)
	require.ErrorIs(t, album.Open(), pages.ErrNoAlbumID)
}

func TestAlbumsPage(t *testing.T) {
	t.Parallel()
	session, baseURL := setup(t)
	createAlbum(t, session, baseURL, "Older")
	createAlbum(t, session, baseURL, "Newer")

	albums := pages.NewAlbumsPage(session, baseURL)
	require.NoError(t, albums.Open())

	first, err := albums.AlbumsList().First()
	require.NoError(t, err)
	title, err := first.Title()
	require.NoError(t, err)
	assert.Equal(t, "Newer", title, "newest first")

	_, err = albums.AlbumsList().Find("Missing")
	require.ErrorIs(t, err, driver.ErrNotFound)

	likes := func() int {
		t.Helper()
		item, err := albums.AlbumsList().Find("Older")
		require.NoError(t, err)
		n, err := item.LikesCount()
		require.NoError(t, err)
		return n
	}

	item, err := albums.AlbumsList().Find("Older")
	require.NoError(t, err)
	require.NoError(t, item.Like())
	assert.Equal(t, 1, likes())

	require.NoError(t, session.Refresh())
	assert.Equal(t, 1, likes())

	item, err = albums.AlbumsList().Find("Older")
	require.NoError(t, err)
	require.NoError(t, item.Like())
	assert.Equal(t, 0, likes())
}

func TestAlbumsList_FindDuplicateNames(t *testing.T) {
	t.Parallel()
	session, baseURL := setup(t)

	var ids []string
	for range 2 {
		id, err := createAlbum(t, session, baseURL, "Twin").ParseAlbumID()
		require.NoError(t, err)
		ids = append(ids, id)
	}
	require.NotEqual(t, ids[0], ids[1])

	albums := pages.NewAlbumsPage(session, baseURL)
	require.NoError(t, albums.Open())

	count, err := albums.AlbumsList().Count()
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// first match in document order, which lists the newest album first
	item, err := albums.AlbumsList().Find("Twin")
	require.NoError(t, err)
	id, err := item.AlbumID()
	require.NoError(t, err)
	assert.Equal(t, ids[1], id)
}

func TestPhotoPages(t *testing.T) {
	t.Parallel()
	session, baseURL := setup(t)
	album := createAlbum(t, session, baseURL, "With photos")
	albumID, err := album.ParseAlbumID()
	require.NoError(t, err)

	photo := writePhoto(t)
	for range 2 {
		upload := pages.NewAddPhotoPage(session, baseURL, albumID)
		require.NoError(t, upload.Open())
		require.NoError(t, upload.Form().UploadPhoto(photo))
	}

	// the second upload lands on its metadata view
	edit := pages.NewEditPhotoPage(session, baseURL)
	require.NoError(t, edit.Form().SetDescription("Photo description."))
	require.NoError(t, edit.Form().Save())

	count, err := album.PhotosList().Count()
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	second, err := album.PhotosList().Get(1)
	require.NoError(t, err)
	secondID, err := second.ImageID()
	require.NoError(t, err)
	require.NoError(t, second.Click())

	view := pages.NewPhotoPage(session, baseURL)
	imageID, err := view.Photo().ImageID()
	require.NoError(t, err)
	assert.Equal(t, secondID, imageID)

	description, err := view.Photo().Description()
	require.NoError(t, err)
	assert.Equal(t, "Photo description.", description)

	t.Run("likes", func(t *testing.T) {
		require.NoError(t, view.Photo().Like())
		require.NoError(t, view.Photo().Like())
		n, err := view.Photo().LikesCount()
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		require.NoError(t, view.Photo().CancelLike())
		n, err = view.Photo().LikesCount()
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("cover", func(t *testing.T) {
		require.NoError(t, view.Toolbar().Open())
		require.NoError(t, view.Toolbar().MakeCover())
		require.NoError(t, view.Confirmation().Yes())

		require.NoError(t, album.Open())
		cover, err := album.AlbumHeader().CoverID()
		require.NoError(t, err)
		assert.Equal(t, secondID, cover)

		require.NoError(t, pages.NewAlbumsPage(session, baseURL).Open())
		item, err := pages.NewAlbumsPage(session, baseURL).AlbumsList().Find("With photos")
		require.NoError(t, err)
		cover, err = item.ImageID()
		require.NoError(t, err)
		assert.Equal(t, secondID, cover)
	})
}
