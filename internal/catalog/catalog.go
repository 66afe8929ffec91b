package catalog

import (
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dgallion1/docshelf/internal/article"
)

// Catalog owns the full article set plus the filtered view and current page
// derived from it. A Catalog is not safe for concurrent use; share a loaded
// catalog between goroutines by giving each one its own Fork.
type Catalog struct {
	records  []article.Record
	filtered []article.Record
	query    string
	page     int

	generation string
	loadedAt   time.Time
}

// Window is one page of the filtered view.
type Window struct {
	Items      []article.Record
	Page       int
	PageSize   int
	TotalPages int
	Total      int // records in the filtered view
	Start      int // offset of Items[0] in the filtered view
	End        int // exclusive
	HasPrev    bool
	HasNext    bool
}

// ShowPagination reports whether the filtered view spans more than one page.
func (w Window) ShowPagination() bool {
	return w.TotalPages > 1
}

// New returns an empty catalog on page 1.
func New() *Catalog {
	return &Catalog{page: 1}
}

// Load replaces the full record set, sorted by descending numeric identifier.
// The filtered view is reset to every record, the query cleared and the page
// set to 1. The caller's slice is not retained.
func (c *Catalog) Load(records []article.Record) {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b article.Record) int {
		na, nb := NumericID(a.ID), NumericID(b.ID)
		switch {
		case na > nb:
			return -1
		case na < nb:
			return 1
		}
		return 0
	})
	c.records = sorted
	c.filtered = sorted
	c.query = ""
	c.page = 1
	c.generation = uuid.NewString()
	c.loadedAt = time.Now()
}

// Fork returns a catalog sharing this one's records with a fresh query and
// page. Records are never mutated, so forks can be used independently.
func (c *Catalog) Fork() *Catalog {
	return &Catalog{
		records:    c.records,
		filtered:   c.records,
		page:       1,
		generation: c.generation,
		loadedAt:   c.loadedAt,
	}
}

// SetQuery stores the lower-cased query and recomputes the filtered view:
// every record whose title, body or category contains it. The page resets to 1.
func (c *Catalog) SetQuery(text string) {
	c.query = strings.ToLower(text)
	c.page = 1
	if c.query == "" {
		c.filtered = c.records
		return
	}
	var out []article.Record
	for _, r := range c.records {
		if Matches(r, c.query) {
			out = append(out, r)
		}
	}
	c.filtered = out
}

// Matches reports whether r contains the lower-cased query in its title,
// body or category.
func Matches(r article.Record, query string) bool {
	return strings.Contains(strings.ToLower(r.Title), query) ||
		strings.Contains(strings.ToLower(r.Body), query) ||
		strings.Contains(strings.ToLower(r.Category), query)
}

// Page moves to page n of the filtered view and returns it. n is clamped into
// [1, TotalPages]; a page size below 1 is treated as 1.
func (c *Catalog) Page(n, pageSize int) Window {
	if pageSize < 1 {
		pageSize = 1
	}
	total := len(c.filtered)
	pages := TotalPages(total, pageSize)
	n = max(1, min(n, pages))
	c.page = n

	start := min((n-1)*pageSize, total)
	end := min(start+pageSize, total)

	return Window{
		Items:      slices.Clone(c.filtered[start:end]),
		Page:       n,
		PageSize:   pageSize,
		TotalPages: pages,
		Total:      total,
		Start:      start,
		End:        end,
		HasPrev:    n > 1,
		HasNext:    n < pages,
	}
}

// TotalPages is max(1, ceil(count/pageSize)).
func TotalPages(count, pageSize int) int {
	if pageSize < 1 {
		pageSize = 1
	}
	return max(1, (count+pageSize-1)/pageSize)
}

// Query returns the current lower-cased query.
func (c *Catalog) Query() string { return c.query }

// CurrentPage returns the page last returned by Page.
func (c *Catalog) CurrentPage() int { return c.page }

// Len returns the number of records in the full set.
func (c *Catalog) Len() int { return len(c.records) }

// Records returns a copy of the full, sorted set.
func (c *Catalog) Records() []article.Record { return slices.Clone(c.records) }

// Filtered returns a copy of the current filtered view.
func (c *Catalog) Filtered() []article.Record { return slices.Clone(c.filtered) }

// Generation identifies the load that produced this catalog.
func (c *Catalog) Generation() string { return c.generation }

// LoadedAt returns when the records were loaded.
func (c *Catalog) LoadedAt() time.Time { return c.loadedAt }

// Lookup finds a record in the full set by identifier.
func (c *Catalog) Lookup(id string) (article.Record, bool) {
	for _, r := range c.records {
		if r.ID == id {
			return r, true
		}
	}
	return article.Record{}, false
}

// NumericID converts an identifier for ordering. Identifiers that are not
// finite numbers order as 0.
func NumericID(id string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(id), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
