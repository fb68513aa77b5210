package pages

import "fmt"

// CSS selectors for the mobile album screens. The stand-in application
// renders the same structure; its tests check every selector below against
// the rendered HTML so the two stay in sync.

// Data attributes carrying identifiers.
const (
	DataAttrAlbumID = "data-album-id"
	DataAttrImageID = "data-image-id"
	DataAttrCoverID = "data-cover-id"
)

// Auth screen.
var (
	// SelectorAuthForm selects the login form by ID.
	SelectorAuthForm = "form#auth-form"

	SelectorAuthLogin    = SelectorAuthForm + " input[name='login']"
	SelectorAuthPassword = SelectorAuthForm + " input[name='password']"
	SelectorAuthSubmit   = SelectorAuthForm + " button[type='submit']"
)

// Album create/edit screen.
var (
	// SelectorAlbumForm selects the album name form by ID.
	SelectorAlbumForm = "form#album-form"

	SelectorAlbumFormName   = SelectorAlbumForm + " input[name='name']"
	SelectorAlbumFormSubmit = SelectorAlbumForm + " button[type='submit']"
)

// Albums list screen.
var (
	// SelectorAlbumsList selects the albums list container by ID.
	SelectorAlbumsList = "ul#albums-list"

	// SelectorAlbumItem selects each album entry in the list.
	SelectorAlbumItem = SelectorAlbumsList + " > li.album-item"

	// Relative to an album item.
	SelectorAlbumItemTitle = "a.album-item__title"
	SelectorAlbumItemLike  = "button.album-item__like"
	SelectorAlbumItemLikes = "span.album-item__likes"
)

// Album screen.
var (
	// SelectorAlbumHeader selects the album header carrying the cover ID.
	SelectorAlbumHeader = "header.album-header"

	SelectorAlbumHeaderTitle = SelectorAlbumHeader + " .album-header__title"

	// SelectorEmptyAlbum selects the block shown in place of the photo list
	// when an album has no photos.
	SelectorEmptyAlbum      = "section.empty-album"
	SelectorEmptyAlbumTitle = SelectorEmptyAlbum + " .empty-album__title"

	SelectorAlbumToolbar       = "details.album-toolbar"
	SelectorAlbumToolbarToggle = SelectorAlbumToolbar + " > summary"
	SelectorAlbumToolbarEdit   = SelectorAlbumToolbar + " a.album-toolbar__edit"
	SelectorAlbumToolbarDelete = SelectorAlbumToolbar + " a.album-toolbar__delete"

	SelectorAlbumDeleteModal   = "#confirm-delete"
	SelectorAlbumDeleteConfirm = modalButton(SelectorAlbumDeleteModal, "delete")

	// SelectorPhotosList selects the album's photo list container.
	SelectorPhotosList = "ul.photos-list"
	// SelectorPhotoItem selects each photo entry in the album.
	SelectorPhotoItem = SelectorPhotosList + " > li.photo-item"
	// SelectorPhotoItemLink is relative to a photo item.
	SelectorPhotoItemLink = "a"
)

// Photo upload and metadata screens.
var (
	SelectorUploadForm   = "form#upload-form"
	SelectorUploadFile   = SelectorUploadForm + " input[type='file']"
	SelectorUploadSubmit = SelectorUploadForm + " button[type='submit']"

	SelectorPhotoForm            = "form#photo-form"
	SelectorPhotoFormDescription = SelectorPhotoForm + " textarea[name='description']"
	SelectorPhotoFormSave        = SelectorPhotoForm + " button[type='submit']"
)

// Photo screen.
var (
	// SelectorPhoto selects the photo article carrying the image ID.
	SelectorPhoto            = "article.photo"
	SelectorPhotoDescription = SelectorPhoto + " .photo__description"
	SelectorPhotoLikes       = SelectorPhoto + " .photo__likes"
	SelectorPhotoLike        = SelectorPhoto + " button.photo__like"
	SelectorPhotoUnlike      = SelectorPhoto + " button.photo__unlike"

	SelectorPhotoToolbar       = "details.photo-toolbar"
	SelectorPhotoToolbarToggle = SelectorPhotoToolbar + " > summary"
	SelectorPhotoToolbarCover  = SelectorPhotoToolbar + " a.photo-toolbar__cover"

	SelectorCoverModal   = "#confirm-cover"
	SelectorCoverConfirm = modalButton(SelectorCoverModal, "yes")
)

// modalButton returns a selector for an action button inside a modal.
func modalButton(modal, action string) string {
	return fmt.Sprintf("%s button.modal__%s", modal, action)
}
