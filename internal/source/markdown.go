package source

import (
	"github.com/dgallion1/docshelf/internal/article"
	"github.com/dgallion1/docshelf/internal/frontmatter"
)

// MarkdownDecoder handles markdown files. The body is passed through
// unchanged once the front-matter block is removed.
type MarkdownDecoder struct{}

func (d *MarkdownDecoder) Decode(data []byte, filename string) (Document, error) {
	meta, body := frontmatter.Parse(string(data))
	return Document{Meta: meta, Body: body, Format: article.FormatMarkdown}, nil
}
