package pages

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "", want: 0},
		{in: "0", want: 0},
		{in: "12", want: 12},
		{in: "many", wantErr: true},
	}
	for _, test := range tests {
		t.Run(test.in, func(t *testing.T) {
			t.Parallel()
			got, err := parseCount(test.in)
			if test.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.want, got)
		})
	}
}

func TestPaths(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/albums/7", AlbumPath("7"))
	assert.Equal(t, "/albums/7/edit", EditAlbumPath("7"))
	assert.Equal(t, "/albums/7/photos/new", AddPhotoPath("7"))
	assert.Equal(t, "/photos/9", PhotoPath("9"))
	assert.Equal(t, "/photos/9/edit", EditPhotoPath("9"))
	assert.Equal(t, "#confirm-cover button.modal__yes", SelectorCoverConfirm)
}

func TestAlbumPathRegex(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"/albums/123":            "123",
		"/albums/123/":           "123",
		"/albums/123/photos/new": "123",
		"/albums/new":            "",
		"/albums":                "",
		"/albums/123abc":         "",
	}
	for path, want := range tests {
		m := albumPathRegex.FindStringSubmatch(path)
		if want == "" {
			assert.Nil(t, m, path)
			continue
		}
		require.Len(t, m, 2, path)
		assert.Equal(t, want, m[1], path)
	}
}
