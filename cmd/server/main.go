package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/docshelf/internal/api"
	"github.com/dgallion1/docshelf/internal/config"
	"github.com/dgallion1/docshelf/internal/contentstore"
	"github.com/dgallion1/docshelf/internal/pipeline"
	"github.com/dgallion1/docshelf/internal/render"
	"github.com/dgallion1/docshelf/internal/source"
)

func main() {
	cfg := config.Load()
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the content store.
	var store contentstore.Store
	var httpStore *contentstore.HTTPStore
	watchDir := ""
	if cfg.Remote() {
		httpStore = contentstore.NewHTTPStore(cfg.ContentURL, cfg.ContentAPIKey, cfg.FetchTimeout)
		store = httpStore
	} else {
		dirStore := contentstore.NewDirStore(cfg.ContentDir)
		store = dirStore
		if cfg.WatchContent {
			watchDir = dirStore.Root()
		}
	}

	// Initialize the catalog pipeline.
	builder := pipeline.NewBuilder(store, pipeline.BuilderConfig{
		Manifest:      cfg.ManifestPath,
		MaxConcurrent: cfg.MaxConcurrentFetch,
		Decode:        source.Options{PDFToTextFallback: cfg.PDFFallbackPdftotext},
	}, pipeline.NewFetchStats(time.Hour), log)
	lib := pipeline.NewLibrary(builder, log)
	lib.Reload(ctx, "startup")
	watch := pipeline.WatchOptions{
		Interval: cfg.ReloadInterval,
		Dir:      watchDir,
		Debounce: cfg.WatchDebounce,
	}
	if err := lib.Start(ctx, watch); err != nil {
		log.Warn("content watch unavailable, continuing without it", "dir", watchDir, "error", err)
		watch.Dir = ""
		if err := lib.Start(ctx, watch); err != nil {
			log.Error("failed to start reloads", "error", err)
			os.Exit(1)
		}
	}

	renderer := render.New(render.Options{
		CollapseAfter: cfg.TOCCollapseAfter,
		ReservedIDs:   cfg.ReservedIDs,
		UnsafeHTML:    cfg.RenderUnsafeHTML,
		CacheSize:     cfg.RenderCacheSize,
		CacheTTL:      cfg.RenderCacheTTL,
	}, log)

	// Initialize HTTP server.
	srv := api.NewServer(lib, renderer, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		lib.Stop()
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		if httpStore != nil {
			httpStore.Close()
		}
	}()

	log.Info("starting docshelf", "port", cfg.Port, "content", cfg.ContentDir, "remote", cfg.Remote())
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
