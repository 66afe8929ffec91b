package source

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/dgallion1/docshelf/internal/article"
)

// PDFDecoder handles PDF files. Each page with text becomes a "Page N"
// section. It tries the Go library first, then pdftotext when enabled.
type PDFDecoder struct {
	FallbackPdftotext bool
}

func (d *PDFDecoder) Decode(data []byte, filename string) (Document, error) {
	text, err := extractPDFText(data)
	if err != nil && d.FallbackPdftotext {
		text, err = extractPdftotext(data)
	}
	if err != nil {
		return Document{}, fmt.Errorf("extract pdf text: %w", err)
	}
	return Document{Body: pagesToMarkdown(splitPages(text)), Format: article.FormatMarkdown}, nil
}

func pagesToMarkdown(pages []string) string {
	var b strings.Builder
	for i, page := range pages {
		page = strings.TrimSpace(page)
		if page == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "## Page %d\n\n%s\n", i+1, page)
	}
	return b.String()
}

func extractPDFText(data []byte) (string, error) {
	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		if i > 1 {
			buf.WriteString("\f") // page separator
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		buf.WriteString(text)
	}
	return buf.String(), nil
}

// pdftotext reads from a path, so the bytes go through a temp file.
func extractPdftotext(data []byte) (string, error) {
	tmp, err := os.CreateTemp("", "docshelf-pdf-*.pdf")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	out, err := exec.Command("pdftotext", "-layout", tmp.Name(), "-").Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w", err)
	}
	return string(out), nil
}

func splitPages(text string) []string {
	return strings.Split(text, "\f")
}
