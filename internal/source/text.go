package source

import (
	"bufio"
	"strings"

	"github.com/dgallion1/docshelf/internal/article"
	"github.com/dgallion1/docshelf/internal/frontmatter"
)

// TextDecoder handles plain text files. Paragraphs are separated by single
// blank lines and rendered as markdown.
type TextDecoder struct{}

func (d *TextDecoder) Decode(data []byte, filename string) (Document, error) {
	meta, body := frontmatter.Parse(string(data))

	scanner := bufio.NewScanner(strings.NewReader(body))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var paragraphs []string
	var current strings.Builder

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r")
		if line == "" {
			if current.Len() > 0 {
				paragraphs = append(paragraphs, current.String())
				current.Reset()
			}
			continue
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		paragraphs = append(paragraphs, current.String())
	}
	if err := scanner.Err(); err != nil {
		return Document{}, err
	}

	text := strings.Join(paragraphs, "\n\n")
	if text != "" {
		text += "\n"
	}
	return Document{Meta: meta, Body: text, Format: article.FormatMarkdown}, nil
}
