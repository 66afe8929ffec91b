// Package render converts article bodies to HTML and derives their outline.
package render

import (
	"bufio"
	"bytes"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"

	"github.com/dgallion1/docshelf/internal/article"
	"github.com/dgallion1/docshelf/internal/toc"
)

// Options configures a Renderer.
type Options struct {
	CollapseAfter int
	// ReservedIDs are identifiers already used by the surrounding page.
	ReservedIDs []string
	UnsafeHTML  bool
	CacheSize   int
	CacheTTL    time.Duration
}

// Document is a rendered article.
type Document struct {
	Article        article.Record `json:"article"`
	HTML           string         `json:"html"`
	Headings       []toc.Heading  `json:"headings"`
	Outline        *toc.Outline   `json:"outline"`
	ReadingMinutes int            `json:"reading_minutes"`
	// Err is set when the body could not be rendered; HTML then holds an
	// inline error notice.
	Err string `json:"render_error,omitempty"`
}

// Copy returns a document with its own outline expansion state.
func (d *Document) Copy() *Document {
	c := *d
	c.Outline = d.Outline.Copy()
	return &c
}

// OutlineHTML renders the document outline, or "" when it has none.
func (d *Document) OutlineHTML() string {
	return d.Outline.HTML()
}

type converter func(body string) (string, []toc.Heading, error)

// Renderer turns records into Documents. It is safe for concurrent use.
type Renderer struct {
	md    goldmark.Markdown
	opts  Options
	log   *slog.Logger
	cache *Cache

	convert map[article.Format]converter
}

func New(opts Options, log *slog.Logger) *Renderer {
	if opts.CollapseAfter <= 0 {
		opts.CollapseAfter = toc.DefaultCollapseAfter
	}
	rendererOpts := []goldmark.Option{}
	if opts.UnsafeHTML {
		rendererOpts = append(rendererOpts, goldmark.WithRendererOptions(gmhtml.WithUnsafe()))
	}
	r := &Renderer{
		md: goldmark.New(append(rendererOpts,
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAttribute(), parser.WithHeadingAttribute()),
		)...),
		opts: opts,
		log:  log,
	}
	if opts.CacheSize > 0 {
		r.cache = NewCache(opts.CacheSize, opts.CacheTTL)
	}
	r.convert = map[article.Format]converter{
		article.FormatMarkdown: r.Markdown,
		article.FormatHTML:     r.HTML,
	}
	return r
}

// Render converts a record. Results are cached by identifier and content hash;
// each call returns its own copy.
func (r *Renderer) Render(rec article.Record) *Document {
	key := rec.ID + ":" + rec.ContentHash
	if r.cache != nil {
		if doc, ok := r.cache.Get(key); ok {
			return doc.Copy()
		}
	}
	doc := r.render(rec)
	if r.cache != nil && doc.Err == "" {
		r.cache.Put(key, doc)
	}
	return doc.Copy()
}

func (r *Renderer) render(rec article.Record) *Document {
	doc := &Document{
		Article:        rec,
		ReadingMinutes: article.ReadingMinutes(rec.Body),
	}

	convert, ok := r.convert[rec.Format]
	if !ok {
		convert = r.Markdown
	}
	markup, headings, err := convert(rec.Body)
	if err != nil {
		r.log.Error("render failed", "article_id", rec.ID, "title", rec.Title, "error", err)
		doc.Err = err.Error()
		doc.HTML = ErrorNotice(err)
		return doc
	}

	doc.Headings = headings
	doc.Outline = toc.Build(headings, r.opts.CollapseAfter)
	doc.HTML = markup
	if toc.HasPlaceholder(markup) {
		doc.HTML = toc.Substitute(markup, doc.Outline.HTML())
	}
	return doc
}

// ErrorNotice is the inline markup shown in place of a body that failed to render.
func ErrorNotice(err error) string {
	return fmt.Sprintf(`<div class="error-content"><p>Failed to render article content.</p><p class="error-detail">%s</p></div>`,
		html.EscapeString(err.Error()))
}

// Markdown renders a markdown body. Headings get anchors assigned on the
// syntax tree before rendering, so the ids land in the markup.
func (r *Renderer) Markdown(body string) (string, []toc.Heading, error) {
	source := []byte(body)
	root := r.md.Parser().Parse(text.NewReader(source))

	var nodes []*ast.Heading
	var headings []toc.Heading
	reserved := append([]string(nil), r.opts.ReservedIDs...)

	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		id := attrString(n, "id")
		h, ok := n.(*ast.Heading)
		if !ok {
			if id != "" {
				reserved = append(reserved, id)
			}
			return ast.WalkContinue, nil
		}
		nodes = append(nodes, h)
		headings = append(headings, toc.Heading{
			Level: h.Level,
			Text:  normalizeSpace(inlineText(h, source)),
			ID:    id,
		})
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return "", nil, fmt.Errorf("walk markdown: %w", err)
	}

	toc.AssignAnchors(headings, reserved)
	for i, h := range nodes {
		h.SetAttributeString("id", []byte(headings[i].ID))
	}

	var buf bytes.Buffer
	if err := r.md.Renderer().Render(&buf, source, root); err != nil {
		return "", nil, fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), headings, nil
}

// HTML scans ready-made markup for headings, assigns their anchors and
// returns the updated markup.
func (r *Renderer) HTML(markup string) (string, []toc.Heading, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return "", nil, fmt.Errorf("parse html: %w", err)
	}

	reserved := append([]string(nil), r.opts.ReservedIDs...)
	doc.Find("[id]").Not("h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		if id, _ := s.Attr("id"); id != "" {
			reserved = append(reserved, id)
		}
	})

	sel := doc.Find("h1, h2, h3, h4, h5, h6")
	headings := make([]toc.Heading, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		id, _ := s.Attr("id")
		headings = append(headings, toc.Heading{
			Level: int(goquery.NodeName(s)[1] - '0'),
			Text:  normalizeSpace(s.Text()),
			ID:    id,
		})
	})

	toc.AssignAnchors(headings, reserved)
	sel.Each(func(i int, s *goquery.Selection) {
		s.SetAttr("id", headings[i].ID)
	})

	out, err := doc.Find("body").Html()
	if err != nil {
		return "", nil, fmt.Errorf("render html: %w", err)
	}
	return out, headings, nil
}

func attrString(n ast.Node, name string) string {
	v, ok := n.AttributeString(name)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case []byte:
		return string(t)
	case string:
		return t
	}
	return ""
}

// inlineText collects the visible text of a node's inline children:
// backslash escapes and character references are resolved the same way the
// html renderer resolves them, while code spans stay literal.
func inlineText(n ast.Node, source []byte) string {
	var buf strings.Builder
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			switch t := c.(type) {
			case *ast.Text:
				value := t.Segment.Value(source)
				if t.IsRaw() {
					buf.Write(value)
				} else {
					buf.WriteString(visibleText(value))
				}
				if t.SoftLineBreak() || t.HardLineBreak() {
					buf.WriteByte(' ')
				}
			case *ast.String:
				if t.IsCode() || t.IsRaw() {
					buf.Write(t.Value)
				} else {
					buf.WriteString(visibleText(t.Value))
				}
			case *ast.AutoLink:
				buf.Write(t.Label(source))
			case *ast.RawHTML:
				// markup, not text
			default:
				walk(c)
			}
		}
	}
	walk(n)
	return buf.String()
}

// visibleText runs inline source through the html writer and decodes the
// result back to plain text.
func visibleText(src []byte) string {
	var out bytes.Buffer
	w := bufio.NewWriter(&out)
	gmhtml.DefaultWriter.Write(w, src)
	w.Flush()
	return html.UnescapeString(out.String())
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
