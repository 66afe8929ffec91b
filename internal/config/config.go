package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultReservedIDs are the element ids of the reader page shell.
var DefaultReservedIDs = []string{
	"articleTitle", "articleMeta", "articleBody", "articlesList",
	"pagination", "searchInput", "toggleSidebar", "backToTop",
}

type Config struct {
	Port     string
	LogLevel string

	// Content store
	ContentDir    string
	ContentURL    string
	ContentAPIKey string
	ManifestPath  string
	FetchTimeout  time.Duration

	// Auth
	DocshelfAPIKey string

	// Catalog
	PageSize           int
	MaxPageSize        int
	MaxConcurrentFetch int

	// Reload
	ReloadInterval time.Duration
	WatchContent   bool
	WatchDebounce  time.Duration

	// Rendering
	TOCCollapseAfter int
	RenderCacheSize  int
	RenderCacheTTL   time.Duration
	RenderUnsafeHTML bool
	ReservedIDs      []string

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port:     envOr("PORT", "8090"),
		LogLevel: envOr("LOG_LEVEL", "info"),

		ContentDir:    envOr("CONTENT_DIR", "articles"),
		ContentURL:    os.Getenv("CONTENT_URL"),
		ContentAPIKey: os.Getenv("CONTENT_API_KEY"),
		ManifestPath:  envOr("MANIFEST_PATH", "articles.json"),
		FetchTimeout:  envDuration("FETCH_TIMEOUT", 30*time.Second),

		DocshelfAPIKey: os.Getenv("DOCSHELF_API_KEY"),

		PageSize:           envInt("PAGE_SIZE", 5),
		MaxPageSize:        envInt("MAX_PAGE_SIZE", 50),
		MaxConcurrentFetch: envInt("MAX_CONCURRENT_FETCH", 8),

		ReloadInterval: envDuration("RELOAD_INTERVAL", 0),
		WatchContent:   envBool("WATCH_CONTENT", true),
		WatchDebounce:  envDuration("WATCH_DEBOUNCE", 500*time.Millisecond),

		TOCCollapseAfter: envInt("TOC_COLLAPSE_AFTER", 5),
		RenderCacheSize:  envInt("RENDER_CACHE_SIZE", 256),
		RenderCacheTTL:   envDuration("RENDER_CACHE_TTL", 1*time.Hour),
		RenderUnsafeHTML: envBool("RENDER_UNSAFE_HTML", false),
		ReservedIDs:      envList("RESERVED_IDS", DefaultReservedIDs),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", false),
	}

	if cfg.PageSize <= 0 {
		cfg.PageSize = 5
	}
	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = 50
	}
	if cfg.MaxConcurrentFetch <= 0 {
		cfg.MaxConcurrentFetch = 8
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 30 * time.Second
	}
	if cfg.ReloadInterval < 0 {
		cfg.ReloadInterval = 0
	}
	if cfg.WatchDebounce <= 0 {
		cfg.WatchDebounce = 500 * time.Millisecond
	}
	if cfg.TOCCollapseAfter <= 0 {
		cfg.TOCCollapseAfter = 5
	}
	if cfg.RenderCacheTTL <= 0 {
		cfg.RenderCacheTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.ContentDir == "" && c.ContentURL == "" {
		return fmt.Errorf("one of CONTENT_DIR or CONTENT_URL is required")
	}
	if c.ManifestPath == "" {
		return fmt.Errorf("MANIFEST_PATH is required")
	}
	if c.PageSize > c.MaxPageSize {
		return fmt.Errorf("PAGE_SIZE (%d) exceeds MAX_PAGE_SIZE (%d)", c.PageSize, c.MaxPageSize)
	}
	if c.RenderCacheSize < 0 {
		return fmt.Errorf("RENDER_CACHE_SIZE must not be negative")
	}
	return nil
}

// Remote reports whether content comes from CONTENT_URL rather than CONTENT_DIR.
func (c Config) Remote() bool {
	return c.ContentURL != ""
}

// SlogLevel maps LOG_LEVEL to a slog level; unknown values mean info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// envList splits a comma-separated value, dropping empty items.
func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return append([]string(nil), fallback...)
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
