package catalog_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dgallion1/docshelf/internal/article"
	"github.com/dgallion1/docshelf/internal/catalog"
)

func rec(id, title, body, category string) article.Record {
	return article.Record{ID: id, Title: title, Body: body, Category: category}
}

func ids(rs []article.Record) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.ID
	}
	return out
}

func numbered(n int) []article.Record {
	rs := make([]article.Record, n)
	for i := range rs {
		id := fmt.Sprint(i + 1)
		rs[i] = rec(id, "Article "+id, "body", "General")
	}
	return rs
}

func TestLoad_SortsDescendingByNumericID(t *testing.T) {
	c := catalog.New()
	c.Load([]article.Record{
		rec("2", "b", "", ""),
		rec("10", "c", "", ""),
		rec("1", "a", "", ""),
	})
	require.Equal(t, []string{"10", "2", "1"}, ids(c.Records()))
	require.Equal(t, 1, c.CurrentPage())
	require.Equal(t, "", c.Query())
	require.NotEmpty(t, c.Generation())
}

func TestLoad_NonNumericIDsOrderAsZero(t *testing.T) {
	c := catalog.New()
	c.Load([]article.Record{
		rec("draft", "", "", ""),
		rec("3", "", "", ""),
		rec("-1", "", "", ""),
		rec("notes", "", "", ""),
	})
	// Ties keep input order.
	require.Equal(t, []string{"3", "draft", "notes", "-1"}, ids(c.Records()))
}

func TestLoad_ResetsQueryAndPage(t *testing.T) {
	c := catalog.New()
	c.Load(numbered(12))
	c.SetQuery("article")
	c.Page(3, 5)
	require.Equal(t, 3, c.CurrentPage())

	c.Load(numbered(4))
	require.Equal(t, "", c.Query())
	require.Equal(t, 1, c.CurrentPage())
	require.Len(t, c.Filtered(), 4)
}

func TestLoad_DoesNotRetainCallerSlice(t *testing.T) {
	in := numbered(3)
	c := catalog.New()
	c.Load(in)
	in[0].Title = "changed"
	for _, r := range c.Records() {
		require.NotEqual(t, "changed", r.Title)
	}
}

func TestSetQuery_MatchesTitleBodyCategory(t *testing.T) {
	c := catalog.New()
	c.Load([]article.Record{
		rec("1", "Alpha", "nothing", "Misc"),
		rec("2", "Beta", "nothing", "Misc"),
		rec("3", "Gamma", "all about ALPHA particles", "Misc"),
		rec("4", "Delta", "nothing", "alphabet"),
	})

	c.SetQuery("AlPhA")
	require.Equal(t, "alpha", c.Query())
	require.Equal(t, []string{"4", "3", "1"}, ids(c.Filtered()))
}

func TestSetQuery_EmptyRestoresFullSet(t *testing.T) {
	c := catalog.New()
	c.Load(numbered(6))
	c.SetQuery("zzz")
	require.Empty(t, c.Filtered())

	c.SetQuery("")
	require.Equal(t, ids(c.Records()), ids(c.Filtered()))
}

func TestSetQuery_ResetsPage(t *testing.T) {
	c := catalog.New()
	c.Load(numbered(20))
	c.Page(4, 5)
	c.SetQuery("article")
	require.Equal(t, 1, c.CurrentPage())
}

func TestSetQuery_FilteredIsSubsequence(t *testing.T) {
	c := catalog.New()
	c.Load(numbered(30))
	c.SetQuery("1")

	all := ids(c.Records())
	j := 0
	for _, id := range ids(c.Filtered()) {
		for j < len(all) && all[j] != id {
			j++
		}
		require.Less(t, j, len(all), "filtered id %s out of catalog order", id)
		j++
	}
}

func TestPage_Windows(t *testing.T) {
	c := catalog.New()
	c.Load(numbered(12))

	w := c.Page(1, 5)
	require.Equal(t, []string{"12", "11", "10", "9", "8"}, ids(w.Items))
	require.Equal(t, 3, w.TotalPages)
	require.Equal(t, 12, w.Total)
	require.False(t, w.HasPrev)
	require.True(t, w.HasNext)
	require.True(t, w.ShowPagination())

	w = c.Page(3, 5)
	require.Equal(t, []string{"2", "1"}, ids(w.Items))
	require.Equal(t, 10, w.Start)
	require.Equal(t, 12, w.End)
	require.True(t, w.HasPrev)
	require.False(t, w.HasNext)
}

func TestPage_Clamps(t *testing.T) {
	c := catalog.New()
	c.Load(numbered(7))

	w := c.Page(99, 5)
	require.Equal(t, 2, w.Page)
	require.Equal(t, 2, c.CurrentPage())

	w = c.Page(-3, 5)
	require.Equal(t, 1, w.Page)
	require.Len(t, w.Items, 5)
}

func TestPage_EmptyView(t *testing.T) {
	c := catalog.New()
	c.Load(numbered(3))
	c.SetQuery("no such text")

	w := c.Page(2, 5)
	require.Equal(t, 1, w.Page)
	require.Equal(t, 1, w.TotalPages)
	require.Empty(t, w.Items)
	require.False(t, w.HasPrev)
	require.False(t, w.HasNext)
	require.False(t, w.ShowPagination())
}

func TestPage_ExactMultiple(t *testing.T) {
	c := catalog.New()
	c.Load(numbered(10))
	w := c.Page(2, 5)
	require.Equal(t, 2, w.TotalPages)
	require.Len(t, w.Items, 5)
	require.False(t, w.HasNext)
}

func TestPage_ConcatenationReconstructsView(t *testing.T) {
	for l := 0; l <= 13; l++ {
		for p := 1; p <= 6; p++ {
			c := catalog.New()
			c.Load(numbered(l))

			var got []string
			total := c.Page(1, p).TotalPages
			for n := 1; n <= total; n++ {
				got = append(got, ids(c.Page(n, p).Items)...)
			}
			want := ids(c.Filtered())
			if l == 0 {
				require.Empty(t, got)
				continue
			}
			require.Equal(t, want, got, "L=%d P=%d", l, p)
		}
	}
}

func TestFork_IndependentState(t *testing.T) {
	base := catalog.New()
	base.Load(numbered(12))

	a := base.Fork()
	b := base.Fork()
	a.SetQuery("article 1")
	b.Page(2, 5)

	require.Equal(t, "", base.Query())
	require.Equal(t, 1, base.CurrentPage())
	require.Equal(t, 1, a.CurrentPage())
	require.Equal(t, "", b.Query())
	require.Equal(t, 2, b.CurrentPage())
	require.Len(t, a.Filtered(), 4) // 12, 11, 10, 1
	require.Equal(t, base.Generation(), a.Generation())
}

func TestLookup(t *testing.T) {
	c := catalog.New()
	c.Load(numbered(3))

	r, ok := c.Lookup("2")
	require.True(t, ok)
	require.Equal(t, "Article 2", r.Title)

	_, ok = c.Lookup("9")
	require.False(t, ok)
}

func TestNumericID(t *testing.T) {
	require.Equal(t, 42.0, catalog.NumericID("42"))
	require.Equal(t, 1.5, catalog.NumericID(" 1.5 "))
	require.Equal(t, 0.0, catalog.NumericID("abc"))
	require.Equal(t, 0.0, catalog.NumericID(""))
	require.Equal(t, 0.0, catalog.NumericID("NaN"))
	require.Equal(t, 0.0, catalog.NumericID("Inf"))
}

func TestPageNumbers(t *testing.T) {
	tests := []struct {
		current, total int
		want           []int
	}{
		{1, 1, []int{1}},
		{1, 3, []int{1, 2, 3}},
		{1, 10, []int{1, 2, 3, 4, 5}},
		{5, 10, []int{3, 4, 5, 6, 7}},
		{10, 10, []int{6, 7, 8, 9, 10}},
		{9, 10, []int{6, 7, 8, 9, 10}},
		{2, 0, nil},
	}
	for _, tt := range tests {
		got := catalog.PageNumbers(tt.current, tt.total, catalog.DefaultVisiblePages)
		require.Equal(t, tt.want, got, "current=%d total=%d", tt.current, tt.total)
	}
}
