package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/docshelf/internal/article"
	"github.com/dgallion1/docshelf/internal/reader"
	"github.com/dgallion1/docshelf/internal/toc"
)

type articleSummary struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	Date           string         `json:"date"`
	Author         string         `json:"author"`
	Category       string         `json:"category"`
	Format         article.Format `json:"format"`
	ReadingMinutes int            `json:"reading_minutes"`
	Active         bool           `json:"active,omitempty"`
	LoadError      string         `json:"load_error,omitempty"`
}

type articleList struct {
	Generation     string           `json:"generation"`
	LoadedAt       time.Time        `json:"loaded_at"`
	Query          string           `json:"query"`
	Page           int              `json:"page"`
	PageSize       int              `json:"page_size"`
	TotalPages     int              `json:"total_pages"`
	Total          int              `json:"total"`
	HasPrev        bool             `json:"has_prev"`
	HasNext        bool             `json:"has_next"`
	ShowPagination bool             `json:"show_pagination"`
	PageNumbers    []int            `json:"page_numbers"`
	Articles       []articleSummary `json:"articles"`
}

type articleDetail struct {
	Article        article.Record `json:"article"`
	ReadingMinutes int            `json:"reading_minutes"`
	HTML           string         `json:"html"`
	Outline        *toc.Outline   `json:"outline"`
	OutlineHTML    string         `json:"outline_html,omitempty"`
	RenderError    string         `json:"render_error,omitempty"`
}

// handleListArticles serves one page of the catalog. Query parameters:
// q (search text), page (1-based, clamped), size (clamped to MAX_PAGE_SIZE)
// and open (identifier of the article to flag as active).
func (s *Server) handleListArticles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, err := intParam(q.Get("page"), 1)
	if err != nil {
		jsonError(w, "page must be an integer", http.StatusBadRequest)
		return
	}
	size, err := intParam(q.Get("size"), s.cfg.PageSize)
	if err != nil {
		jsonError(w, "size must be an integer", http.StatusBadRequest)
		return
	}
	size = s.clampPageSize(size)

	c := s.library.Catalog()
	sess := reader.NewSession(c, s.renderer, size)
	sess.Search(q.Get("q"))
	win := sess.GoToPage(page)

	open := q.Get("open")
	summaries := make([]articleSummary, 0, len(win.Items))
	for _, rec := range win.Items {
		summaries = append(summaries, articleSummary{
			ID:             rec.ID,
			Title:          rec.Title,
			Date:           rec.Date,
			Author:         rec.Author,
			Category:       rec.Category,
			Format:         rec.Format,
			ReadingMinutes: article.ReadingMinutes(rec.Body),
			Active:         open != "" && rec.ID == open,
			LoadError:      rec.LoadError,
		})
	}

	writeJSON(w, http.StatusOK, articleList{
		Generation:     c.Generation(),
		LoadedAt:       c.LoadedAt(),
		Query:          sess.Query(),
		Page:           win.Page,
		PageSize:       win.PageSize,
		TotalPages:     win.TotalPages,
		Total:          win.Total,
		HasPrev:        win.HasPrev,
		HasNext:        win.HasNext,
		ShowPagination: win.ShowPagination(),
		PageNumbers:    sess.PageNumbers(),
		Articles:       summaries,
	})
}

// handleGetArticle renders one article. With expand=true the outline is
// returned expanded.
func (s *Server) handleGetArticle(w http.ResponseWriter, r *http.Request) {
	sess := reader.NewSession(s.library.Catalog(), s.renderer, s.cfg.PageSize)
	doc, err := sess.Open(chi.URLParam(r, "id"))
	if errors.Is(err, reader.ErrNotFound) {
		jsonError(w, "article not found", http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if expandParam(r) {
		sess.ToggleOutline()
	}

	writeJSON(w, http.StatusOK, articleDetail{
		Article:        doc.Article,
		ReadingMinutes: doc.ReadingMinutes,
		HTML:           doc.HTML,
		Outline:        doc.Outline,
		OutlineHTML:    doc.OutlineHTML(),
		RenderError:    doc.Err,
	})
}

func (s *Server) handleGetOutline(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess := reader.NewSession(s.library.Catalog(), s.renderer, s.cfg.PageSize)
	doc, err := sess.Open(id)
	if errors.Is(err, reader.ErrNotFound) {
		jsonError(w, "article not found", http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if expandParam(r) {
		sess.ToggleOutline()
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":           id,
		"outline":      doc.Outline,
		"outline_html": doc.OutlineHTML(),
	})
}

func (s *Server) clampPageSize(size int) int {
	if size < 1 {
		size = s.cfg.PageSize
	}
	if s.cfg.MaxPageSize > 0 && size > s.cfg.MaxPageSize {
		size = s.cfg.MaxPageSize
	}
	if size < 1 {
		size = reader.DefaultPageSize
	}
	return size
}

func intParam(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}

func expandParam(r *http.Request) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get("expand"))
	return v
}
