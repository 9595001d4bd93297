package render

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// ToWinAnsi transcodes a UTF-8 string to Windows-1252, the single-byte
// encoding the document format requires. Text must be transcoded before
// width measurement: the byte-per-glyph metric of the output encoding is
// what the layout arithmetic operates on.
func ToWinAnsi(text string) (string, error) {
	out, err := charmap.Windows1252.NewEncoder().String(text)
	if err != nil {
		return "", fmt.Errorf("transcode to windows-1252: %w", err)
	}
	return out, nil
}

// StripTags removes markup tags from free-text input before it is transcoded
// and drawn. Unclosed tags swallow the remainder of the string.
func StripTags(s string) string {
	if !strings.ContainsRune(s, '<') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	inTag := false
	for _, r := range s {
		switch {
		case inTag:
			if r == '>' {
				inTag = false
			}
		case r == '<':
			inTag = true
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
