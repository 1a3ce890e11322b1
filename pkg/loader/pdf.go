package loader

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

var reExcessNewlines = regexp.MustCompile(`\n{3,}`)

func parsePDF(content []byte) ([]Page, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	numPages := reader.NumPage()
	pages := make([]Page, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := extractPageText(page)
		if err != nil {
			// A single damaged page should not sink the document.
			continue
		}
		pages = append(pages, Page{Number: i, Text: normalizeText(text)})
	}

	pages = dropBlankPages(pages)
	if len(pages) == 0 {
		return nil, fmt.Errorf("no extractable text in pdf (%d pages)", numPages)
	}
	return pages, nil
}

// extractPageText recovers from panics because the upstream parser is not
// hardened against malformed content streams.
func extractPageText(page pdf.Page) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf content stream: %v", r)
		}
	}()

	texts := page.Content().Text

	var sb strings.Builder
	var lastY float64
	for i, t := range texts {
		if i > 0 && t.Y != lastY {
			sb.WriteByte('\n')
		}
		sb.WriteString(t.S)
		lastY = t.Y
	}
	return sb.String(), nil
}

func normalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = reExcessNewlines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
