package reader_test

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dgallion1/docshelf/internal/article"
	"github.com/dgallion1/docshelf/internal/catalog"
	"github.com/dgallion1/docshelf/internal/reader"
	"github.com/dgallion1/docshelf/internal/render"
)

func newSession(t *testing.T, n int) *reader.Session {
	t.Helper()
	records := make([]article.Record, n)
	for i := range records {
		id := fmt.Sprint(i + 1)
		body := "# Article " + id + "\n\n" + strings.Repeat("## Part\n\n", 7)
		cat := "General"
		if (i+1)%3 == 0 {
			cat = "Go"
		}
		records[i] = article.Merge(article.Entry{ID: article.ID(id), Title: "Title " + id, Category: cat}, nil, body, article.FormatMarkdown)
	}
	c := catalog.New()
	c.Load(records)
	r := render.New(render.Options{CacheSize: 8}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return reader.NewSession(c.Fork(), r, 5)
}

func TestSession_Paging(t *testing.T) {
	s := newSession(t, 12)
	w := s.Window()
	require.Equal(t, 1, w.Page)
	require.Equal(t, 3, w.TotalPages)
	require.Equal(t, "12", w.Items[0].ID)

	require.Equal(t, 1, s.PrevPage().Page)
	require.Equal(t, 2, s.NextPage().Page)
	require.Equal(t, 3, s.NextPage().Page)
	require.Equal(t, 3, s.NextPage().Page)
	require.Equal(t, []int{1, 2, 3}, s.PageNumbers())

	w = s.GoToPage(42)
	require.Equal(t, 3, w.Page)
	require.Len(t, w.Items, 2)
}

func TestSession_SearchAndClear(t *testing.T) {
	s := newSession(t, 12)
	s.GoToPage(2)

	w := s.Search("GO")
	require.Equal(t, "go", s.Query())
	require.Equal(t, 1, w.Page)
	require.Equal(t, 4, w.Total)
	require.False(t, w.ShowPagination())

	w = s.ClearQuery()
	require.Equal(t, "", s.Query())
	require.Equal(t, 12, w.Total)
	require.Equal(t, 1, w.Page)
}

func TestSession_OpenAndToggleOutline(t *testing.T) {
	s := newSession(t, 3)
	require.Nil(t, s.Current())
	require.False(t, s.ToggleOutline())

	doc, err := s.Open("2")
	require.NoError(t, err)
	require.Equal(t, "Title 2", doc.Article.Title)
	require.True(t, s.IsOpen("2"))
	require.False(t, s.IsOpen("1"))
	require.True(t, doc.Outline.Collapsible)

	require.True(t, s.ToggleOutline())
	require.True(t, s.Current().Outline.Expanded)
	require.False(t, s.ToggleOutline())

	// Reopening starts collapsed again.
	s.ToggleOutline()
	doc, err = s.Open("2")
	require.NoError(t, err)
	require.False(t, doc.Outline.Expanded)
}

func TestSession_OpenIgnoresFilter(t *testing.T) {
	s := newSession(t, 6)
	s.Search("no match at all")
	doc, err := s.Open("1")
	require.NoError(t, err)
	require.Equal(t, "1", doc.Article.ID)
}

func TestSession_OpenUnknown(t *testing.T) {
	s := newSession(t, 2)
	_, err := s.Open("99")
	require.ErrorIs(t, err, reader.ErrNotFound)
	require.Nil(t, s.Current())
}
