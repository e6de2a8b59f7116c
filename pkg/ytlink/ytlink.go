// Package ytlink derives canonical YouTube video ids from the URL shapes
// users paste: watch pages, youtu.be short links and embed links.
package ytlink

import (
	"errors"
	"regexp"
)

var ErrInvalidReference = errors.New("unrecognized video link")

var patterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([^&?/]+)`),
	regexp.MustCompile(`youtube\.com/watch\?.*v=([^&]+)`),
}

// ExtractID returns the canonical video id for a YouTube locator, or
// ErrInvalidReference if the locator matches none of the known shapes.
func ExtractID(rawURL string) (string, error) {
	for _, p := range patterns {
		if m := p.FindStringSubmatch(rawURL); len(m) > 1 && m[1] != "" {
			return m[1], nil
		}
	}

	return "", ErrInvalidReference
}
