package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/dgallion1/docshelf/internal/article"
	"github.com/dgallion1/docshelf/internal/reader"
	"github.com/dgallion1/docshelf/internal/render"
	"github.com/dgallion1/docshelf/internal/toc"
)

const maxTitleWidth = 48

type column struct {
	title string
	max   int // 0 means unbounded
}

var listColumns = []column{
	{title: "ID"},
	{title: "DATE"},
	{title: "CATEGORY", max: 16},
	{title: "TITLE", max: maxTitleWidth},
	{title: "MIN"},
}

// printList writes the current page as a table, followed by a pager line.
func printList(w io.Writer, sess *reader.Session) {
	win := sess.Window()
	if len(win.Items) == 0 {
		if q := sess.Query(); q != "" {
			fmt.Fprintf(w, "No articles match %q.\n", q)
		} else {
			fmt.Fprintln(w, "No articles.")
		}
		return
	}

	rows := make([][]string, 0, len(win.Items))
	for _, rec := range win.Items {
		title := rec.Title
		if rec.LoadError != "" {
			title += " (failed to load)"
		}
		rows = append(rows, []string{
			rec.ID,
			rec.Date,
			rec.Category,
			title,
			strconv.Itoa(article.ReadingMinutes(rec.Body)),
		})
	}
	writeTable(w, listColumns, rows)

	if win.ShowPagination() {
		fmt.Fprintf(w, "\n%s  page %d of %d, %d articles\n",
			pager(sess.PageNumbers(), win.Page), win.Page, win.TotalPages, win.Total)
	}
}

// writeTable pads cells by display width so wide runes stay aligned.
func writeTable(w io.Writer, cols []column, rows [][]string) {
	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = runewidth.StringWidth(c.title)
	}
	for _, row := range rows {
		for i := range cols {
			if cols[i].max > 0 {
				row[i] = runewidth.Truncate(row[i], cols[i].max, "…")
			}
			widths[i] = max(widths[i], runewidth.StringWidth(row[i]))
		}
	}

	line := func(cells []string) {
		var b strings.Builder
		for i, cell := range cells {
			if i == len(cells)-1 {
				b.WriteString(cell)
				break
			}
			b.WriteString(runewidth.FillRight(cell, widths[i]))
			b.WriteString("  ")
		}
		fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
	}

	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.title
	}
	line(header)
	for _, row := range rows {
		line(row)
	}
}

// pager renders page buttons with the current page bracketed.
func pager(pages []int, current int) string {
	parts := make([]string, 0, len(pages))
	for _, p := range pages {
		if p == current {
			parts = append(parts, "["+strconv.Itoa(p)+"]")
			continue
		}
		parts = append(parts, strconv.Itoa(p))
	}
	return strings.Join(parts, " ")
}

func printHeader(w io.Writer, doc *render.Document) {
	a := doc.Article
	fmt.Fprintln(w, a.Title)
	var meta []string
	for _, v := range []string{a.Date, a.Author, a.Category} {
		if v != "" {
			meta = append(meta, v)
		}
	}
	meta = append(meta, fmt.Sprintf("%d min read", doc.ReadingMinutes))
	fmt.Fprintln(w, strings.Join(meta, " · "))
	fmt.Fprintln(w)
}

// printOutline writes the outline as an indented tree. Collapsed items are
// left out until the outline is expanded.
func printOutline(w io.Writer, o *toc.Outline) {
	if o == nil {
		fmt.Fprintln(w, "(no headings)")
		return
	}
	var walk func(nodes []*toc.Node, depth int)
	walk = func(nodes []*toc.Node, depth int) {
		for _, n := range nodes {
			if o.Hidden(n) {
				continue
			}
			fmt.Fprintf(w, "%s- %s  #%s\n", strings.Repeat("  ", depth), n.Text, n.ID)
			walk(n.Children, depth+1)
		}
	}
	walk(o.Roots, 0)
	if o.Collapsible && !o.Expanded {
		fmt.Fprintf(w, "(%d items, use --expand to show all)\n", o.Count)
	}
}
