package source

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dgallion1/docshelf/internal/article"
	"github.com/dgallion1/docshelf/internal/frontmatter"
)

// HTMLDecoder handles HTML files. The markup is kept as-is; a <title>
// element supplies the title when front matter does not.
type HTMLDecoder struct{}

func (d *HTMLDecoder) Decode(data []byte, filename string) (Document, error) {
	meta, body := frontmatter.Parse(string(data))

	if meta["title"] == "" {
		// html.Parse only fails on reader errors.
		if doc, err := html.Parse(strings.NewReader(body)); err == nil {
			if title := findTitle(doc); title != "" {
				if meta == nil {
					meta = frontmatter.Metadata{}
				}
				meta["title"] = title
			}
		}
	}
	return Document{Meta: meta, Body: body, Format: article.FormatHTML}, nil
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.DataAtom == atom.Title {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}
