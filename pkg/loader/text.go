package loader

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// parseText treats the content as a single-page plain-text document.
// Invalid UTF-8 falls back to a Latin-1 interpretation, which covers the
// usual legacy exports without silently mangling bytes.
func parseText(content []byte) ([]Page, error) {
	var text string
	if utf8.Valid(content) {
		text = string(content)
	} else {
		var sb strings.Builder
		sb.Grow(len(content))
		for _, b := range content {
			sb.WriteRune(rune(b))
		}
		text = sb.String()
	}

	text = normalizeText(text)
	if text == "" {
		return nil, fmt.Errorf("no extractable text in document")
	}
	return []Page{{Number: 1, Text: text}}, nil
}
