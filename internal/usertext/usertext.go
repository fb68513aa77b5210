// Package usertext contains transformers that clean up text entered by users
// (album names and photo descriptions) before it is stored.
package usertext

import (
	"bytes"
	"errors"
	"html"
	"regexp"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/unicode/norm"
)

// ErrInvalidUTF8 is returned for input that is not valid UTF-8.
var ErrInvalidUTF8 = errors.New("text is not valid UTF-8")

var (
	// Individual transformers.
	validateUTF8   = ValidateUTF8()
	normalizeNBSP  = NormalizeNBSP()
	normalizeEOL   = NormalizeLineEndings()
	stripMarkup    = StripMarkup()
	normalizeForm  = NormalizeUnicode()
	trimWhitespace = TrimWhitespace()
	collapseToLine = CollapseWhitespace()

	// Name cleans up a single-line value such as an album name.
	Name = Chain(validateUTF8, normalizeNBSP, stripMarkup, normalizeForm, collapseToLine, trimWhitespace)
	// Description cleans up a multi-line value such as a photo description.
	Description = Chain(validateUTF8, normalizeNBSP, normalizeEOL, stripMarkup, normalizeForm, trimWhitespace)
)

// String applies transformer to s.
func String(transformer Transformer, s string) (string, error) {
	out, err := transformer.Transform([]byte(s))
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// ValidateUTF8 rejects input that is not valid UTF-8.
func ValidateUTF8() TransformerFunc {
	return func(input []byte) ([]byte, error) {
		if !utf8.Valid(input) {
			return nil, ErrInvalidUTF8
		}
		return input, nil
	}
}

var (
	// nbspPattern matches both the HTML entity &nbsp; (case insensitive) and
	// the actual unicode non-breaking space character (U+00A0).
	nbspPattern = regexp.MustCompile("(?i)&nbsp;|\xc2\xa0")

	whitespaceRun = regexp.MustCompile(`\s+`)
)

// NormalizeNBSP replaces non-breaking space entities and characters with
// regular spaces.
func NormalizeNBSP() TransformerFunc {
	return func(input []byte) ([]byte, error) {
		return nbspPattern.ReplaceAll(input, []byte{' '}), nil
	}
}

// NormalizeLineEndings converts CRLF and CR line endings to LF. Browsers
// submit textarea values with CRLF.
func NormalizeLineEndings() TransformerFunc {
	return func(input []byte) ([]byte, error) {
		input = bytes.ReplaceAll(input, []byte("\r\n"), []byte("\n"))
		return bytes.ReplaceAll(input, []byte("\r"), []byte("\n")), nil
	}
}

// StripMarkup removes all HTML tags, keeping their text. The result is plain
// text, not HTML: entities are decoded again after sanitization.
func StripMarkup() TransformerFunc {
	policy := bluemonday.StrictPolicy()
	return func(input []byte) ([]byte, error) {
		return []byte(html.UnescapeString(policy.Sanitize(string(input)))), nil
	}
}

// NormalizeUnicode converts text to Unicode normalization form C, so that
// visually identical names compare equal.
func NormalizeUnicode() TransformerFunc {
	return func(input []byte) ([]byte, error) {
		return norm.NFC.Bytes(input), nil
	}
}

// CollapseWhitespace replaces every run of whitespace, line breaks included,
// with a single space.
func CollapseWhitespace() TransformerFunc {
	return func(input []byte) ([]byte, error) {
		return whitespaceRun.ReplaceAll(input, []byte{' '}), nil
	}
}

// TrimWhitespace removes leading and trailing whitespace.
func TrimWhitespace() TransformerFunc {
	return func(input []byte) ([]byte, error) {
		return bytes.TrimSpace(input), nil
	}
}
