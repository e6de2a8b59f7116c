package ytlink

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractID(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"watch page", "https://www.youtube.com/watch?v=abc123XYZ_0", "abc123XYZ_0"},
		{"short link", "https://youtu.be/abc123XYZ_0", "abc123XYZ_0"},
		{"embed", "https://www.youtube.com/embed/abc123XYZ_0", "abc123XYZ_0"},
		{"watch with trailing params", "https://www.youtube.com/watch?v=abc123XYZ_0&t=42s", "abc123XYZ_0"},
		{"watch with v not first", "https://www.youtube.com/watch?t=42s&v=abc123XYZ_0", "abc123XYZ_0"},
		{"short link with params", "https://youtu.be/abc123XYZ_0?si=share", "abc123XYZ_0"},
		{"no scheme", "youtube.com/watch?v=abc123XYZ_0", "abc123XYZ_0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractID(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractIDInvalid(t *testing.T) {
	for _, url := range []string{
		"https://example.com/not-youtube",
		"https://vimeo.com/12345",
		"not a url at all",
		"",
	} {
		_, err := ExtractID(url)
		assert.ErrorIs(t, err, ErrInvalidReference, url)
	}
}
