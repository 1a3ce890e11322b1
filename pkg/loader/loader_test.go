package loader

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"
)

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestLoadPlainText(t *testing.T) {
	pages, err := Load("notes.txt", []byte("Acme Corp targets the SMB market.\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(pages))
	}
	if pages[0].Number != 1 {
		t.Errorf("page number = %d, want 1", pages[0].Number)
	}
	if !strings.Contains(pages[0].Text, "Acme Corp") {
		t.Errorf("unexpected text: %q", pages[0].Text)
	}
}

func TestLoadLatin1Fallback(t *testing.T) {
	// "Übersicht" in Latin-1, invalid as UTF-8.
	content := []byte{0xDC, 'b', 'e', 'r', 's', 'i', 'c', 'h', 't'}
	pages, err := Load("legacy.txt", content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pages[0].Text != "Übersicht" {
		t.Errorf("text = %q, want %q", pages[0].Text, "Übersicht")
	}
}

func TestLoadUnknownExtensionTreatedAsText(t *testing.T) {
	pages, err := Load("report.dat", []byte("quarterly revenue grew 20%"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(pages))
	}
}

func TestLoadEmptyDocument(t *testing.T) {
	if _, err := Load("empty.txt", nil); err == nil {
		t.Fatal("expected error for empty document")
	}
	if _, err := Load("blank.txt", []byte("   \n\t  ")); err == nil {
		t.Fatal("expected error for whitespace-only document")
	}
}

func TestLoadDocx(t *testing.T) {
	doc := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Acme Corp operates in logistics.</w:t></w:r></w:p>
    <w:p><w:r><w:t>Fleet routing is a core capability.</w:t></w:r></w:p>
  </w:body>
</w:document>`
	pages, err := Load("overview.docx", buildDocx(t, doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(pages))
	}
	if !strings.Contains(pages[0].Text, "Acme Corp operates in logistics.") {
		t.Errorf("missing first paragraph: %q", pages[0].Text)
	}
	if !strings.Contains(pages[0].Text, "Fleet routing is a core capability.") {
		t.Errorf("missing second paragraph: %q", pages[0].Text)
	}
}

func TestLoadDocxSkipsDeletedRuns(t *testing.T) {
	doc := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>kept text</w:t></w:r></w:p>
    <w:p><w:del><w:r><w:t>removed text</w:t></w:r></w:del></w:p>
  </w:body>
</w:document>`
	pages, err := Load("tracked.docx", buildDocx(t, doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(pages[0].Text, "removed text") {
		t.Errorf("deleted run leaked into output: %q", pages[0].Text)
	}
}

func TestLoadDocxFallsBackToText(t *testing.T) {
	// Not a zip archive at all, but carries a docx extension.
	pages, err := Load("mislabeled.docx", []byte("plain text pretending to be docx"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pages[0].Text != "plain text pretending to be docx" {
		t.Errorf("unexpected text: %q", pages[0].Text)
	}
}

func TestLoadCorruptPDF(t *testing.T) {
	if _, err := Load("broken.pdf", []byte("not a pdf at all")); err == nil {
		t.Fatal("expected error for corrupt pdf")
	}
}

func TestDropBlankPages(t *testing.T) {
	pages := dropBlankPages([]Page{
		{Number: 1, Text: "content"},
		{Number: 2, Text: "   \n"},
		{Number: 3, Text: "more"},
	})
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pages))
	}
	if pages[0].Number != 1 || pages[1].Number != 3 {
		t.Errorf("unexpected page numbers: %+v", pages)
	}
}
