package pdfsplit

import (
	"fmt"
	"io"
	"os"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// PageText is the extracted text of one PDF page.
type PageText struct {
	// Page is the 1-based page number.
	Page int

	// Text is the page's plain text, trimmed of surrounding whitespace.
	Text string
}

// LoadFile extracts per-page text from the PDF at path.
// Pages that yield no text (scans, images) are skipped.
func LoadFile(path string) ([]PageText, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var pages []PageText
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// Unextractable pages are skipped, not fatal.
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		pages = append(pages, PageText{Page: i, Text: text})
	}

	return pages, nil
}

// Load extracts per-page text from a PDF read from r.
// The library needs random access and the file size, so the stream is
// spooled to a temporary file first.
func Load(r io.Reader) ([]PageText, error) {
	tmp, err := os.CreateTemp("", "webscrap-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close temp file: %w", err)
	}

	return LoadFile(tmpPath)
}
