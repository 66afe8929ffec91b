package article

import (
	"crypto/sha256"
	"fmt"
	"math"
	"strings"

	"github.com/dgallion1/docshelf/internal/frontmatter"
)

// Format identifies how a record body is rendered.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// PlaceholderTitle is used when an entry declares no title at all.
const PlaceholderTitle = "Untitled article"

const wordsPerMinute = 200

// Entry is one declared catalog item from the manifest.
type Entry struct {
	ID       ID     `yaml:"id" json:"id"`
	Title    string `yaml:"title" json:"title"`
	Date     string `yaml:"date" json:"date"`
	Author   string `yaml:"author" json:"author"`
	Category string `yaml:"category" json:"category"`
	File     string `yaml:"file" json:"file"`
}

// Record is a normalized article: declared defaults merged with the
// metadata block of its source file. Records are never modified after load.
type Record struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Date     string `json:"date"`
	Author   string `json:"author"`
	Category string `json:"category"`
	Body     string `json:"-"`
	File     string `json:"file"`
	Format   Format `json:"format"`

	ContentHash string `json:"content_hash,omitempty"`
	// LoadError is set when Body is a synthesized error notice.
	LoadError string `json:"load_error,omitempty"`
}

// Merge builds a record from a declared entry and the parsed metadata of its
// source. A metadata value wins when present and non-empty.
func Merge(e Entry, meta frontmatter.Metadata, body string, format Format) Record {
	if format == "" {
		format = FormatMarkdown
	}
	return Record{
		ID:          string(e.ID),
		Title:       pick(meta, "title", e.Title),
		Date:        pick(meta, "date", e.Date),
		Author:      pick(meta, "author", e.Author),
		Category:    pick(meta, "category", e.Category),
		Body:        body,
		File:        e.File,
		Format:      format,
		ContentHash: ContentHashHex([]byte(body)),
	}
}

func pick(meta frontmatter.Metadata, key, fallback string) string {
	if v := meta[key]; v != "" {
		return v
	}
	return fallback
}

// Failed synthesizes a record for an entry whose source could not be
// retrieved or parsed. The record stays in the catalog with an error body.
func Failed(e Entry, err error) Record {
	title := e.Title
	if title == "" {
		title = PlaceholderTitle
	}
	reason := "unknown error"
	if err != nil {
		reason = err.Error()
	}
	body := fmt.Sprintf("# %s\n\nFailed to load article: %s", title, reason)
	return Record{
		ID:          string(e.ID),
		Title:       title,
		Date:        e.Date,
		Author:      e.Author,
		Category:    e.Category,
		Body:        body,
		File:        e.File,
		Format:      FormatMarkdown,
		ContentHash: ContentHashHex([]byte(body)),
		LoadError:   reason,
	}
}

// Placeholder is the single record served when the whole catalog fails to load.
func Placeholder() Record {
	body := "# Welcome\n\n## No articles yet\n\nThe article catalog could not be loaded. " +
		"Check the manifest and content store configuration, then reload."
	return Record{
		ID:          "1",
		Title:       "Welcome",
		Date:        "",
		Author:      "docshelf",
		Category:    "General",
		Body:        body,
		Format:      FormatMarkdown,
		ContentHash: ContentHashHex([]byte(body)),
	}
}

// ReadingMinutes estimates reading time at 200 words per minute, never below one.
func ReadingMinutes(body string) int {
	words := len(strings.Fields(body))
	minutes := int(math.Ceil(float64(words) / wordsPerMinute))
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
