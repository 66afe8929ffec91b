// Package reader holds the state of one reading session: the catalog view,
// query, current page and the open article.
package reader

import (
	"errors"

	"github.com/dgallion1/docshelf/internal/catalog"
	"github.com/dgallion1/docshelf/internal/render"
)

// ErrNotFound is returned by Open for an unknown article identifier.
var ErrNotFound = errors.New("article not found")

// DefaultPageSize matches the reader's list length.
const DefaultPageSize = 5

// Session owns a private catalog fork. It is not safe for concurrent use.
type Session struct {
	catalog  *catalog.Catalog
	renderer *render.Renderer
	pageSize int

	window  catalog.Window
	current *render.Document
}

// NewSession starts a session on page 1 with no query and nothing open.
func NewSession(c *catalog.Catalog, r *render.Renderer, pageSize int) *Session {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	s := &Session{catalog: c, renderer: r, pageSize: pageSize}
	s.window = c.Page(1, pageSize)
	return s
}

// Window returns the page currently shown.
func (s *Session) Window() catalog.Window { return s.window }

// Query returns the active lower-cased query.
func (s *Session) Query() string { return s.catalog.Query() }

// PageNumbers returns the page buttons for the current window.
func (s *Session) PageNumbers() []int {
	return catalog.PageNumbers(s.window.Page, s.window.TotalPages, catalog.DefaultVisiblePages)
}

// Search filters the catalog and shows the first page of matches.
func (s *Session) Search(query string) catalog.Window {
	s.catalog.SetQuery(query)
	s.window = s.catalog.Page(1, s.pageSize)
	return s.window
}

// ClearQuery drops the query and shows the first page of all articles.
func (s *Session) ClearQuery() catalog.Window {
	return s.Search("")
}

// GoToPage shows page n, clamped into range.
func (s *Session) GoToPage(n int) catalog.Window {
	s.window = s.catalog.Page(n, s.pageSize)
	return s.window
}

// NextPage advances one page; on the last page it stays put.
func (s *Session) NextPage() catalog.Window {
	if !s.window.HasNext {
		return s.window
	}
	return s.GoToPage(s.window.Page + 1)
}

// PrevPage goes back one page; on the first page it stays put.
func (s *Session) PrevPage() catalog.Window {
	if !s.window.HasPrev {
		return s.window
	}
	return s.GoToPage(s.window.Page - 1)
}

// Open renders the article with the given identifier and makes it current.
// The article need not be on the current page or match the query.
func (s *Session) Open(id string) (*render.Document, error) {
	rec, ok := s.catalog.Lookup(id)
	if !ok {
		return nil, ErrNotFound
	}
	s.current = s.renderer.Render(rec)
	return s.current, nil
}

// Current returns the open article, or nil.
func (s *Session) Current() *render.Document { return s.current }

// IsOpen reports whether id is the open article.
func (s *Session) IsOpen(id string) bool {
	return s.current != nil && s.current.Article.ID == id
}

// ToggleOutline flips the open article's outline between collapsed and
// expanded and reports whether it is now expanded.
func (s *Session) ToggleOutline() bool {
	if s.current == nil || s.current.Outline == nil {
		return false
	}
	s.current.Outline.Toggle()
	return s.current.Outline.Expanded
}
