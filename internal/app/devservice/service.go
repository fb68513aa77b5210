// Package devservice seeds the stand-in application with decoy albums so the
// scenarios run against a list that is not empty.
package devservice

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"strconv"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/stolasapp/albumtest/internal/storage"
)

// Corpus generation constants.
const (
	minPhotos        = 0
	maxExtraPhotos   = 4 // 0-3 photos per album
	likeProbability  = 0.4
	coverProbability = 0.5
)

// Seed returns the dev service seed from the DEV_SERVICE_SEED environment
// variable, or a random value if not set.
func Seed() uint64 {
	if env := os.Getenv("DEV_SERVICE_SEED"); env != "" {
		if seed, err := strconv.ParseUint(env, 10, 64); err == nil {
			return seed
		}
	}
	return rand.Uint64() //nolint:gosec // intentionally weak random for test data
}

// Populate creates count decoy albums owned by ownerID, with a few generated
// photos, descriptions and likes.
func Populate(
	ctx context.Context,
	logger *slog.Logger,
	store storage.Store,
	ownerID uint64,
	seed uint64,
	count int,
) error {
	faker := gofakeit.New(seed)
	for range count {
		album, err := store.CreateAlbum(ctx, ownerID, generateAlbumName(faker))
		if err != nil {
			return fmt.Errorf("failed to create decoy album: %w", err)
		}

		numPhotos := minPhotos + faker.IntN(maxExtraPhotos)
		var lastPhoto uint64
		for range numPhotos {
			photo, err := store.AddPhoto(ctx, album.ID, "image/png", generatePhoto(faker))
			if err != nil {
				return fmt.Errorf("failed to add decoy photo: %w", err)
			}
			if err = store.SetPhotoDescription(ctx, photo.ID, generateDescription(faker)); err != nil {
				return err
			}
			if faker.Float64() < likeProbability {
				if err = store.LikePhoto(ctx, photo.ID, ownerID); err != nil {
					return err
				}
			}
			lastPhoto = photo.ID
		}

		if lastPhoto != 0 && faker.Float64() < coverProbability {
			if err = store.SetAlbumCover(ctx, album.ID, lastPhoto); err != nil {
				return err
			}
		}
		if faker.Float64() < likeProbability {
			if _, err = store.ToggleAlbumLike(ctx, album.ID, ownerID); err != nil {
				return err
			}
		}
		logger.DebugContext(ctx, "seeded decoy album",
			slog.String("name", album.Name),
			slog.Int("photos", numPhotos),
		)
	}
	return nil
}
