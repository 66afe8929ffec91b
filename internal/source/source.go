// Package source decodes article files into the text the reader renders.
//
// Markdown, plain text and HTML may open with a front-matter block; binary
// formats (PDF, DOCX) and CSV are converted to markdown and carry no metadata.
package source

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docshelf/internal/article"
	"github.com/dgallion1/docshelf/internal/frontmatter"
)

// Document is a decoded article file.
type Document struct {
	Meta   frontmatter.Metadata
	Body   string
	Format article.Format
}

// Decoder converts raw file bytes into a Document.
type Decoder interface {
	Decode(data []byte, filename string) (Document, error)
}

// SupportedExtensions lists file extensions the reader can decode.
var SupportedExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".txt":      true,
	".html":     true,
	".htm":      true,
	".csv":      true,
	".pdf":      true,
	".docx":     true,
}

// Options tunes decoder construction.
type Options struct {
	// PDFToTextFallback shells out to pdftotext when the PDF library fails.
	PDFToTextFallback bool
}

// ForFile returns the decoder for a filename using default options.
func ForFile(filename string) (Decoder, error) {
	return Options{}.ForFile(filename)
}

// ForFile returns the decoder for a filename.
func (o Options) ForFile(filename string) (Decoder, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".md", ".markdown":
		return &MarkdownDecoder{}, nil
	case ".txt":
		return &TextDecoder{}, nil
	case ".html", ".htm":
		return &HTMLDecoder{}, nil
	case ".csv":
		return &CSVDecoder{}, nil
	case ".pdf":
		return &PDFDecoder{FallbackPdftotext: o.PDFToTextFallback}, nil
	case ".docx":
		return &DOCXDecoder{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %q", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// Decode picks a decoder for filename and runs it.
func (o Options) Decode(data []byte, filename string) (Document, error) {
	d, err := o.ForFile(filename)
	if err != nil {
		return Document{}, err
	}
	return d.Decode(data, filename)
}

func stem(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
