package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	cli "github.com/urfave/cli/v3"

	"github.com/dgallion1/docshelf/internal/article"
	"github.com/dgallion1/docshelf/internal/config"
	"github.com/dgallion1/docshelf/internal/contentstore"
	"github.com/dgallion1/docshelf/internal/pipeline"
	"github.com/dgallion1/docshelf/internal/reader"
	"github.com/dgallion1/docshelf/internal/render"
	"github.com/dgallion1/docshelf/internal/source"
)

func main() {
	app := &cli.Command{
		Name:  "docshelf",
		Usage: "Browse an article catalog from the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "content-dir", Usage: "Content directory (overrides CONTENT_DIR)"},
			&cli.StringFlag{Name: "content-url", Usage: "Content base URL (overrides CONTENT_URL)"},
			&cli.StringFlag{Name: "manifest", Usage: "Manifest path inside the content store (overrides MANIFEST_PATH)"},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error (overrides LOG_LEVEL)"},
		},
		Commands: []*cli.Command{
			listCmd(),
			showCmd(),
			tocCmd(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func listCmd() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List one page of articles",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "query", Aliases: []string{"q"}, Usage: "Only articles whose title, body or category contain this text"},
			&cli.IntFlag{Name: "page", Value: 1, Usage: "Page to show (1-indexed, clamped)"},
			&cli.IntFlag{Name: "size", Usage: "Articles per page (defaults to PAGE_SIZE)"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, log, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			size := cfg.PageSize
			if cmd.IsSet("size") {
				size = min(cmd.Int("size"), cfg.MaxPageSize)
			}

			sess, err := openSession(ctx, cfg, log, size)
			if err != nil {
				return err
			}
			if q := cmd.String("query"); q != "" {
				sess.Search(q)
			}
			sess.GoToPage(cmd.Int("page"))

			printList(os.Stdout, sess)
			return nil
		},
	}
}

func showCmd() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Render one article",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "outline", Usage: "Print the outline instead of the body"},
			&cli.BoolFlag{Name: "expand", Usage: "Show collapsed outline items"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			id := cmd.Args().First()
			if id == "" {
				return fmt.Errorf("id argument is required")
			}

			cfg, log, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			sess, err := openSession(ctx, cfg, log, cfg.PageSize)
			if err != nil {
				return err
			}

			doc, err := sess.Open(id)
			if errors.Is(err, reader.ErrNotFound) {
				return fmt.Errorf("article %q not found", id)
			}
			if err != nil {
				return err
			}
			if cmd.Bool("expand") {
				sess.ToggleOutline()
			}

			printHeader(os.Stdout, doc)
			if cmd.Bool("outline") {
				printOutline(os.Stdout, doc.Outline)
				return nil
			}
			fmt.Fprintln(os.Stdout, doc.HTML)
			return nil
		},
	}
}

func tocCmd() *cli.Command {
	return &cli.Command{
		Name:      "toc",
		Usage:     "Print the outline of a local file",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "html", Usage: "Print the outline markup instead of a tree"},
			&cli.BoolFlag{Name: "expand", Usage: "Show collapsed outline items"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := cmd.Args().First()
			if path == "" {
				return fmt.Errorf("file argument is required")
			}

			cfg, log, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			src, err := source.Options{PDFToTextFallback: cfg.PDFFallbackPdftotext}.Decode(data, path)
			if err != nil {
				return err
			}

			entry := article.Entry{ID: article.ID(filepath.Base(path)), Title: filepath.Base(path), File: path}
			rec := article.Merge(entry, src.Meta, src.Body, src.Format)
			doc := newRenderer(cfg, log).Render(rec)
			if doc.Err != "" {
				return fmt.Errorf("rendering %s: %s", path, doc.Err)
			}

			if cmd.Bool("expand") {
				doc.Outline.Toggle()
			}
			if cmd.Bool("html") {
				fmt.Fprintln(os.Stdout, doc.OutlineHTML())
				return nil
			}
			printOutline(os.Stdout, doc.Outline)
			return nil
		},
	}
}

// loadConfig reads the environment config and applies the global flag
// overrides. The CLI logs as text to stderr.
func loadConfig(cmd *cli.Command) (config.Config, *slog.Logger, error) {
	cfg := config.Load()
	if cmd.IsSet("content-dir") {
		cfg.ContentDir = cmd.String("content-dir")
		cfg.ContentURL = ""
	}
	if cmd.IsSet("content-url") {
		cfg.ContentURL = cmd.String("content-url")
	}
	if cmd.IsSet("manifest") {
		cfg.ManifestPath = cmd.String("manifest")
	}
	if cmd.IsSet("log-level") {
		cfg.LogLevel = cmd.String("log-level")
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	if err := cfg.Validate(); err != nil {
		return cfg, log, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, log, nil
}

// openSession loads the catalog once and starts a reading session on it.
func openSession(ctx context.Context, cfg config.Config, log *slog.Logger, pageSize int) (*reader.Session, error) {
	var store contentstore.Store
	if cfg.Remote() {
		hs := contentstore.NewHTTPStore(cfg.ContentURL, cfg.ContentAPIKey, cfg.FetchTimeout)
		defer hs.Close()
		store = hs
	} else {
		store = contentstore.NewDirStore(cfg.ContentDir)
	}

	builder := pipeline.NewBuilder(store, pipeline.BuilderConfig{
		Manifest:      cfg.ManifestPath,
		MaxConcurrent: cfg.MaxConcurrentFetch,
		Decode:        source.Options{PDFToTextFallback: cfg.PDFFallbackPdftotext},
	}, nil, log)
	lib := pipeline.NewLibrary(builder, log)

	snap := lib.Reload(ctx, "cli")
	if snap.Status == pipeline.StatusCanceled {
		return nil, ctx.Err()
	}
	for _, msg := range snap.Errors {
		log.Warn("catalog load problem", "error", msg)
	}
	return reader.NewSession(lib.Catalog(), newRenderer(cfg, log), pageSize), nil
}

func newRenderer(cfg config.Config, log *slog.Logger) *render.Renderer {
	return render.New(render.Options{
		CollapseAfter: cfg.TOCCollapseAfter,
		ReservedIDs:   cfg.ReservedIDs,
		UnsafeHTML:    cfg.RenderUnsafeHTML,
	}, log)
}
