package loader

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Page is one extracted unit of document text. For PDFs pages map to
// physical pages; for other formats the whole document is a single page.
type Page struct {
	Number int
	Text   string
}

// Load extracts the text pages of a document from its raw bytes. The format
// is chosen by file extension; unknown extensions are treated as plain text.
// Pages with no extractable text are dropped, so the returned page numbers
// may have gaps.
func Load(filename string, content []byte) ([]Page, error) {
	if len(content) == 0 {
		return nil, fmt.Errorf("empty document: %s", filename)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return parsePDF(content)
	case ".docx":
		pages, err := parseDocx(content)
		if err != nil {
			// Mislabeled plain-text uploads are common enough to tolerate.
			return parseText(content)
		}
		return pages, nil
	default:
		return parseText(content)
	}
}

func dropBlankPages(pages []Page) []Page {
	out := make([]Page, 0, len(pages))
	for _, p := range pages {
		if strings.TrimSpace(p.Text) == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
