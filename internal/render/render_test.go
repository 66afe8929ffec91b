package render

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dgallion1/docshelf/internal/article"
	"github.com/dgallion1/docshelf/internal/toc"
)

func newRenderer(opts Options) *Renderer {
	return New(opts, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func ids(hs []toc.Heading) []string {
	out := make([]string, len(hs))
	for i, h := range hs {
		out[i] = h.ID
	}
	return out
}

func TestMarkdown_AssignsAnchors(t *testing.T) {
	r := newRenderer(Options{ReservedIDs: []string{"articleBody"}})
	body := "# Intro\n\ntext\n\n## Setup\n\n## Intro\n\n### Article Body\n\n## !!!\n"

	markup, hs, err := r.Markdown(body)
	require.NoError(t, err)
	require.Equal(t, []string{"intro", "setup", "heading-2", "article-body", "heading-4"}, ids(hs))
	require.Equal(t, []int{1, 2, 2, 3, 2}, []int{hs[0].Level, hs[1].Level, hs[2].Level, hs[3].Level, hs[4].Level})
	require.Contains(t, markup, `<h1 id="intro">Intro</h1>`)
	require.Contains(t, markup, `<h2 id="heading-2">Intro</h2>`)
	require.Contains(t, markup, `<h2 id="heading-4">!!!</h2>`)
}

func TestMarkdown_ReservedIDsForceFallback(t *testing.T) {
	r := newRenderer(Options{ReservedIDs: []string{"pagination"}})
	_, hs, err := r.Markdown("## Pagination\n")
	require.NoError(t, err)
	require.Equal(t, []string{"heading-0"}, ids(hs))
}

func TestMarkdown_KeepsExplicitIDs(t *testing.T) {
	r := newRenderer(Options{})
	markup, hs, err := r.Markdown("## Setup {#install}\n\n## Install\n")
	require.NoError(t, err)
	require.Equal(t, []string{"install", "heading-1"}, ids(hs))
	require.Equal(t, "Setup", hs[0].Text)
	require.Contains(t, markup, `<h2 id="install">Setup</h2>`)
}

func TestMarkdown_HeadingTextIsPlain(t *testing.T) {
	r := newRenderer(Options{})
	_, hs, err := r.Markdown("## Hello *big* `code`   world\n")
	require.NoError(t, err)
	require.Equal(t, "Hello big code world", hs[0].Text)
	require.Equal(t, "hello-big-code-world", hs[0].ID)
}

func TestMarkdown_HeadingTextResolvesEscapesAndEntities(t *testing.T) {
	r := newRenderer(Options{})
	body := "## Q&amp;A\n\n## 1\\. Intro\n\n## Tom &amp; Jerry\n\n## Caf&#233;\n\n## Use `a\\.b`\n"

	markup, hs, err := r.Markdown(body)
	require.NoError(t, err)
	texts := make([]string, len(hs))
	for i, h := range hs {
		texts[i] = h.Text
	}
	require.Equal(t, []string{"Q&A", "1. Intro", "Tom & Jerry", "Café", `Use a\.b`}, texts)
	require.Equal(t, []string{"qa", "1-intro", "tom-jerry", "café", "use-ab"}, ids(hs))
	require.Contains(t, markup, `<h2 id="qa">Q&amp;A</h2>`)
	require.Contains(t, markup, `<h2 id="1-intro">1. Intro</h2>`)
}

func TestRender_OutlineLabelsEscapedOnce(t *testing.T) {
	doc := newRenderer(Options{}).Render(article.Record{ID: "1", Body: "[TOC]\n\n## Q&amp;A\n"})
	require.Contains(t, doc.HTML, `>Q&amp;A</a>`)
	require.NotContains(t, doc.HTML, "&amp;amp;")
}

func TestRender_PlaceholderInCodeIsLiteral(t *testing.T) {
	doc := newRenderer(Options{}).Render(article.Record{ID: "1", Body: "Write `[TOC]` to get an outline.\n\n```\n[TOC]\n```\n\n## A\n"})
	require.Contains(t, doc.HTML, "<code>[TOC]</code>")
	require.Contains(t, doc.HTML, "<pre><code>[TOC]\n</code></pre>")
	require.NotContains(t, doc.HTML, "<nav")
}

func TestMarkdown_RawHTML(t *testing.T) {
	body := "<div id=\"box\">x</div>\n\n# Title\n"

	markup, _, err := newRenderer(Options{}).Markdown(body)
	require.NoError(t, err)
	require.NotContains(t, markup, `<div id="box">`)

	markup, _, err = newRenderer(Options{UnsafeHTML: true}).Markdown(body)
	require.NoError(t, err)
	require.Contains(t, markup, `<div id="box">`)
}

func TestHTML_ScansHeadings(t *testing.T) {
	r := newRenderer(Options{})
	markup, hs, err := r.HTML(`<h2>Alpha</h2><p id="alpha">x</p><h3 id="keep">Kept  one</h3><h6>Deep</h6>`)
	require.NoError(t, err)
	require.Equal(t, []string{"heading-0", "keep", "deep"}, ids(hs))
	require.Equal(t, "Kept one", hs[1].Text)
	require.Equal(t, 6, hs[2].Level)
	require.Equal(t, `<h2 id="heading-0">Alpha</h2><p id="alpha">x</p><h3 id="keep">Kept  one</h3><h6 id="deep">Deep</h6>`, markup)
}

func TestRender_TOCPlaceholder(t *testing.T) {
	r := newRenderer(Options{})
	doc := r.Render(article.Record{
		ID:     "1",
		Body:   "[TOC]\n\n# A\n\n## B\n",
		Format: article.FormatMarkdown,
	})
	require.Empty(t, doc.Err)
	require.NotNil(t, doc.Outline)
	require.Equal(t, 2, doc.Outline.Count)
	require.NotContains(t, doc.HTML, "[TOC]")
	require.True(t, strings.HasPrefix(doc.HTML, `<nav class="toc">`), doc.HTML)
	require.Contains(t, doc.HTML, `<a href="#b">B</a>`)
}

func TestRender_NoPlaceholderNoInlineOutline(t *testing.T) {
	doc := newRenderer(Options{}).Render(article.Record{ID: "1", Body: "# A\n", Format: article.FormatMarkdown})
	require.NotNil(t, doc.Outline)
	require.NotContains(t, doc.HTML, "<nav")
	require.Contains(t, doc.OutlineHTML(), `<nav class="toc">`)
}

func TestRender_NoHeadings(t *testing.T) {
	doc := newRenderer(Options{}).Render(article.Record{ID: "1", Body: "[TOC]\n\njust text\n", Format: article.FormatMarkdown})
	require.Nil(t, doc.Outline)
	require.Empty(t, doc.OutlineHTML())
	require.Equal(t, "\n<p>just text</p>\n", doc.HTML)
}

func TestRender_CollapsesLongOutline(t *testing.T) {
	var b strings.Builder
	for i := range 7 {
		b.WriteString("## Section " + string(rune('A'+i)) + "\n\n")
	}
	doc := newRenderer(Options{CollapseAfter: 5}).Render(article.Record{ID: "1", Body: b.String()})
	require.True(t, doc.Outline.Collapsible)
	require.Equal(t, 2, strings.Count(doc.OutlineHTML(), `hidden=""`))
}

func TestRender_HTMLFormat(t *testing.T) {
	doc := newRenderer(Options{}).Render(article.Record{
		ID:     "9",
		Body:   "<html><head><title>T</title></head><body><h1>Top</h1><p>[TOC]</p></body></html>",
		Format: article.FormatHTML,
	})
	require.Empty(t, doc.Err)
	require.Equal(t, []string{"top"}, ids(doc.Headings))
	require.True(t, strings.HasPrefix(doc.HTML, `<h1 id="top">Top</h1><nav class="toc">`), doc.HTML)
}

func TestRender_ReadingMinutes(t *testing.T) {
	body := strings.Repeat("word ", 401)
	doc := newRenderer(Options{}).Render(article.Record{ID: "1", Body: body})
	require.Equal(t, 3, doc.ReadingMinutes)
}

func TestRender_ErrorNotice(t *testing.T) {
	r := newRenderer(Options{})
	r.convert[article.FormatMarkdown] = func(string) (string, []toc.Heading, error) {
		return "", nil, errors.New("bad <input>")
	}
	doc := r.Render(article.Record{ID: "1", Body: "# A", Format: article.FormatMarkdown})
	require.Equal(t, "bad <input>", doc.Err)
	require.Contains(t, doc.HTML, `<div class="error-content">`)
	require.Contains(t, doc.HTML, "bad &lt;input&gt;")
	require.Nil(t, doc.Outline)
}

func TestRender_CachesByContentHash(t *testing.T) {
	r := newRenderer(Options{CacheSize: 4, CacheTTL: time.Minute})
	rec := article.Merge(article.Entry{ID: "1"}, nil, "# A\n\n## B\n\n## C\n\n## D\n\n## E\n\n## F\n", article.FormatMarkdown)

	first := r.Render(rec)
	first.Outline.Toggle()

	second := r.Render(rec)
	require.Equal(t, first.HTML, second.HTML)
	require.False(t, second.Outline.Expanded, "cached outline state must not leak between copies")
	require.Equal(t, 1, r.cache.Len())

	edited := article.Merge(article.Entry{ID: "1"}, nil, "# Changed\n", article.FormatMarkdown)
	third := r.Render(edited)
	require.Contains(t, third.HTML, "Changed")
	require.Equal(t, 2, r.cache.Len())
}

func TestRender_DoesNotCacheFailures(t *testing.T) {
	r := newRenderer(Options{CacheSize: 4})
	r.convert[article.FormatMarkdown] = func(string) (string, []toc.Heading, error) {
		return "", nil, errors.New("boom")
	}
	r.Render(article.Record{ID: "1", Body: "x", Format: article.FormatMarkdown})
	require.Equal(t, 0, r.cache.Len())
}
