package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/docshelf/internal/article"
	"github.com/dgallion1/docshelf/internal/contentstore"
	"github.com/dgallion1/docshelf/internal/source"
)

var errNoFile = errors.New("no content file declared")

// BuilderConfig tunes catalog builds.
type BuilderConfig struct {
	Manifest      string
	MaxConcurrent int
	Decode        source.Options
}

// Builder turns a manifest plus its content files into article records.
type Builder struct {
	store contentstore.Store
	stats *FetchStats
	log   *slog.Logger
	cfg   BuilderConfig

	backoff func(attempt int) time.Duration
}

func NewBuilder(store contentstore.Store, cfg BuilderConfig, stats *FetchStats, log *slog.Logger) *Builder {
	if cfg.MaxConcurrent < 1 {
		cfg.MaxConcurrent = 1
	}
	if stats == nil {
		stats = NewFetchStats(time.Hour)
	}
	return &Builder{
		store:   store,
		stats:   stats,
		log:     log,
		cfg:     cfg,
		backoff: Backoff,
	}
}

// Stats returns the fetch latency tracker.
func (b *Builder) Stats() *FetchStats {
	return b.stats
}

// Build fetches the manifest and every declared article. Entry failures become
// error records; a manifest failure yields the single placeholder record. The
// returned records follow manifest order, and Build returns only after every
// entry has settled.
func (b *Builder) Build(ctx context.Context, rep *Report) ([]article.Record, ReloadStatus) {
	log := b.log.With("reload_id", rep.ID, "manifest", b.cfg.Manifest)

	data, err := b.fetch(ctx, log, b.cfg.Manifest)
	if err != nil {
		return b.fallback(log, rep, fmt.Errorf("fetch manifest: %w", err))
	}
	items, err := article.DecodeManifest(data)
	if err != nil {
		return b.fallback(log, rep, err)
	}
	rep.SetEntries(len(items))

	type entryResult struct {
		record article.Record
		err    error
		idx    int
	}
	results := make(chan entryResult, len(items))
	sem := make(chan struct{}, b.cfg.MaxConcurrent)

	for i, item := range items {
		sem <- struct{}{}
		go func(i int, item article.ManifestItem) {
			defer func() { <-sem }()
			if item.Err != nil {
				results <- entryResult{err: item.Err, idx: i}
				return
			}
			rec, err := b.buildEntry(ctx, log, item.Entry)
			results <- entryResult{record: rec, err: err, idx: i}
		}(i, item)
	}

	records := make([]article.Record, len(items))
	hadErrors := false
	for range items {
		r := <-results
		rep.RecordEntry(r.err == nil)
		if r.err != nil {
			entry := items[r.idx].Entry
			log.Error("article load failed", "article_id", string(entry.ID), "title", entry.Title, "file", entry.File, "error", r.err)
			rep.AddError(fmt.Sprintf("article %q: %s", entry.ID, r.err))
			records[r.idx] = article.Failed(entry, r.err)
			hadErrors = true
			continue
		}
		records[r.idx] = r.record
	}

	warnDuplicateIDs(log, records)

	status := StatusReady
	if hadErrors {
		status = StatusPartial
	}
	log.Info("catalog built", "entries", len(items), "status", status)
	return records, status
}

func (b *Builder) fallback(log *slog.Logger, rep *Report, err error) ([]article.Record, ReloadStatus) {
	log.Error("manifest unusable, serving placeholder", "error", err)
	rep.AddError(err.Error())
	return []article.Record{article.Placeholder()}, StatusFallback
}

func (b *Builder) buildEntry(ctx context.Context, log *slog.Logger, e article.Entry) (article.Record, error) {
	if e.File == "" {
		return article.Record{}, errNoFile
	}
	dec, err := b.cfg.Decode.ForFile(e.File)
	if err != nil {
		return article.Record{}, err
	}
	data, err := b.fetch(ctx, log, e.File)
	if err != nil {
		return article.Record{}, err
	}
	doc, err := dec.Decode(data, e.File)
	if err != nil {
		return article.Record{}, err
	}
	return article.Merge(e, doc.Meta, doc.Body, doc.Format), nil
}

// fetch retries transient store failures with backoff.
func (b *Builder) fetch(ctx context.Context, log *slog.Logger, name string) ([]byte, error) {
	var data []byte
	var lastErr error
	for attempt := range MaxRetries {
		start := time.Now()
		data, lastErr = b.store.Fetch(ctx, name)
		b.stats.Record(name, time.Since(start), lastErr)
		if lastErr == nil || !IsRetryable(lastErr) || attempt == MaxRetries-1 {
			break
		}
		log.Warn("retryable fetch error", "file", name, "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(retryDelay(lastErr, attempt, b.backoff)):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return data, lastErr
}

func warnDuplicateIDs(log *slog.Logger, records []article.Record) {
	seen := make(map[string]bool, len(records))
	for _, r := range records {
		if seen[r.ID] {
			log.Warn("duplicate article id", "article_id", r.ID, "title", r.Title)
		}
		seen[r.ID] = true
	}
}
