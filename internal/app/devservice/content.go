package devservice

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"

	"github.com/brianvoe/gofakeit/v7"
)

// Photo generation constants.
const (
	minPhotoSize    = 64
	maxExtraSize    = 192 // 64-255 pixels per side
	minSentences    = 1
	maxExtraSent    = 2 // 1-2 sentences total
	minWords        = 4
	maxExtraWords   = 8
	bareProbability = 0.3 // album names without a place
)

func generateAlbumName(faker *gofakeit.Faker) string {
	patterns := []func(*gofakeit.Faker) string{
		func(f *gofakeit.Faker) string { return fmt.Sprintf("%s %d", f.City(), f.Year()) },
		func(f *gofakeit.Faker) string { return fmt.Sprintf("%s in %s", titleCase(f.Noun()), f.Country()) },
		func(f *gofakeit.Faker) string { return fmt.Sprintf("The %s %s", f.Adjective(), f.Noun()) },
		func(f *gofakeit.Faker) string { return fmt.Sprintf("%s's %s", f.FirstName(), f.Noun()) },
	}
	if faker.Float64() < bareProbability {
		return titleCase(faker.Hobby())
	}
	return patterns[faker.IntN(len(patterns))](faker)
}

func generateDescription(faker *gofakeit.Faker) string {
	numSentences := minSentences + faker.IntN(maxExtraSent)
	sentences := make([]string, numSentences)
	for i := range numSentences {
		sentences[i] = faker.Sentence(minWords + faker.IntN(maxExtraWords))
	}
	return strings.Join(sentences, " ")
}

// generatePhoto renders a two-color gradient PNG.
func generatePhoto(faker *gofakeit.Faker) []byte {
	width := minPhotoSize + faker.IntN(maxExtraSize)
	height := minPhotoSize + faker.IntN(maxExtraSize)
	from := randomColor(faker)
	to := randomColor(faker)

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			img.Set(x, y, blend(from, to, float64(x+y)/float64(width+height)))
		}
	}

	var buf bytes.Buffer
	_ = png.Encode(&buf, img) // in-memory writes cannot fail
	return buf.Bytes()
}

func randomColor(faker *gofakeit.Faker) color.RGBA {
	return color.RGBA{R: faker.Uint8(), G: faker.Uint8(), B: faker.Uint8(), A: 0xff}
}

func blend(from, to color.RGBA, t float64) color.RGBA {
	mix := func(a, b uint8) uint8 { return uint8(float64(a) + (float64(b)-float64(a))*t) }
	return color.RGBA{R: mix(from.R, to.R), G: mix(from.G, to.G), B: mix(from.B, to.B), A: 0xff}
}

func titleCase(s string) string {
	if len(s) == 0 {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
