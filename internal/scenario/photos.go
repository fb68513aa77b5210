package scenario

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
)

// Upload fixture file names.
const (
	FirstPhoto  = "test_photo.jpg"
	SecondPhoto = "test_photo2.jpeg"
)

//go:embed photos
var fixtures embed.FS

// Photos are absolute paths of the upload fixtures.
type Photos struct {
	First  string
	Second string
}

// PhotosIn locates the fixtures in dir, which must hold both files.
func PhotosIn(dir string) (Photos, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return Photos{}, err
	}
	photos := Photos{
		First:  filepath.Join(abs, FirstPhoto),
		Second: filepath.Join(abs, SecondPhoto),
	}
	for _, path := range []string{photos.First, photos.Second} {
		if _, err = os.Stat(path); err != nil {
			return Photos{}, fmt.Errorf("missing upload fixture: %w", err)
		}
	}
	return photos, nil
}

// WritePhotos copies the embedded fixtures into dir.
func WritePhotos(dir string) (Photos, error) {
	for _, name := range []string{FirstPhoto, SecondPhoto} {
		data, err := fixtures.ReadFile("photos/" + name)
		if err != nil {
			return Photos{}, err
		}
		if err = os.WriteFile(filepath.Join(dir, name), data, 0o600); err != nil {
			return Photos{}, fmt.Errorf("failed to write upload fixture: %w", err)
		}
	}
	return PhotosIn(dir)
}
