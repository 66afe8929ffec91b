package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var allKeys = []string{
	"PORT", "LOG_LEVEL", "CONTENT_DIR", "CONTENT_URL", "CONTENT_API_KEY", "MANIFEST_PATH",
	"FETCH_TIMEOUT", "DOCSHELF_API_KEY", "PAGE_SIZE", "MAX_PAGE_SIZE", "MAX_CONCURRENT_FETCH",
	"RELOAD_INTERVAL", "WATCH_CONTENT", "WATCH_DEBOUNCE", "TOC_COLLAPSE_AFTER",
	"RENDER_CACHE_SIZE", "RENDER_CACHE_TTL", "RENDER_UNSAFE_HTML", "RESERVED_IDS",
	"PDF_FALLBACK_PDFTOTEXT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg := Load()

	require.Equal(t, "8090", cfg.Port)
	require.Equal(t, "articles", cfg.ContentDir)
	require.Equal(t, "articles.json", cfg.ManifestPath)
	require.Equal(t, 5, cfg.PageSize)
	require.Equal(t, 50, cfg.MaxPageSize)
	require.Equal(t, 8, cfg.MaxConcurrentFetch)
	require.Equal(t, 30*time.Second, cfg.FetchTimeout)
	require.Equal(t, time.Duration(0), cfg.ReloadInterval)
	require.True(t, cfg.WatchContent)
	require.Equal(t, 500*time.Millisecond, cfg.WatchDebounce)
	require.Equal(t, 5, cfg.TOCCollapseAfter)
	require.Equal(t, 256, cfg.RenderCacheSize)
	require.Equal(t, time.Hour, cfg.RenderCacheTTL)
	require.False(t, cfg.RenderUnsafeHTML)
	require.Equal(t, DefaultReservedIDs, cfg.ReservedIDs)
	require.False(t, cfg.Remote())
	require.NoError(t, cfg.Validate())
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("CONTENT_URL", "https://cdn.example.com/articles")
	t.Setenv("CONTENT_API_KEY", "k")
	t.Setenv("PAGE_SIZE", "10")
	t.Setenv("RELOAD_INTERVAL", "5m")
	t.Setenv("WATCH_CONTENT", "false")
	t.Setenv("RENDER_UNSAFE_HTML", "true")
	t.Setenv("RESERVED_IDS", " header, ,footer ")

	cfg := Load()
	require.Equal(t, "9000", cfg.Port)
	require.True(t, cfg.Remote())
	require.Equal(t, "k", cfg.ContentAPIKey)
	require.Equal(t, 10, cfg.PageSize)
	require.Equal(t, 5*time.Minute, cfg.ReloadInterval)
	require.False(t, cfg.WatchContent)
	require.True(t, cfg.RenderUnsafeHTML)
	require.Equal(t, []string{"header", "footer"}, cfg.ReservedIDs)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("PAGE_SIZE", "-3")
	t.Setenv("MAX_CONCURRENT_FETCH", "lots")
	t.Setenv("FETCH_TIMEOUT", "soon")
	t.Setenv("WATCH_CONTENT", "maybe")
	t.Setenv("RELOAD_INTERVAL", "-1m")

	cfg := Load()
	require.Equal(t, 5, cfg.PageSize)
	require.Equal(t, 8, cfg.MaxConcurrentFetch)
	require.Equal(t, 30*time.Second, cfg.FetchTimeout)
	require.True(t, cfg.WatchContent)
	require.Equal(t, time.Duration(0), cfg.ReloadInterval)
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	cfg := Load()
	cfg.PageSize = 60
	require.Error(t, cfg.Validate())

	cfg = Load()
	cfg.ContentDir = ""
	require.Error(t, cfg.Validate())

	cfg.ContentURL = "http://localhost:9999"
	require.NoError(t, cfg.Validate())

	cfg.ManifestPath = ""
	require.Error(t, cfg.Validate())
}

func TestSlogLevel(t *testing.T) {
	for raw, want := range map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"verbose": slog.LevelInfo,
	} {
		require.Equal(t, want, Config{LogLevel: raw}.SlogLevel(), raw)
	}
}
