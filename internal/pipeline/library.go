package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgallion1/docshelf/internal/catalog"
)

// WatchOptions configures background reloads.
type WatchOptions struct {
	Interval time.Duration // periodic reload; 0 disables
	Dir      string        // content directory to watch; "" disables
	Debounce time.Duration
}

// Library publishes the current catalog and rebuilds it on demand. Readers get
// a Fork of the published catalog, so a reload never changes a catalog that
// is already in use.
type Library struct {
	builder *Builder
	log     *slog.Logger

	current atomic.Pointer[catalog.Catalog]
	report  atomic.Pointer[Report]
	loaded  atomic.Bool // a manifest has been read successfully

	reloadMu sync.Mutex

	cancel   context.CancelFunc
	wg       sync.WaitGroup
	watcher  *contentWatcher
	debounce *Debouncer
}

// NewLibrary returns a library serving an empty catalog until the first Reload.
func NewLibrary(builder *Builder, log *slog.Logger) *Library {
	l := &Library{builder: builder, log: log}
	empty := catalog.New()
	empty.Load(nil)
	l.current.Store(empty)
	return l
}

// Catalog returns a private fork of the published catalog.
func (l *Library) Catalog() *catalog.Catalog {
	return l.current.Load().Fork()
}

// Report returns the state of the latest reload, which may still be running.
func (l *Library) Report() (ReportSnapshot, bool) {
	rep := l.report.Load()
	if rep == nil {
		return ReportSnapshot{}, false
	}
	return rep.Snapshot(), true
}

// Stats returns the fetch latency tracker.
func (l *Library) Stats() *FetchStats {
	return l.builder.Stats()
}

// Reload builds a new catalog and publishes it. Concurrent calls are
// serialized. When the manifest fails after an earlier successful load, the
// previous catalog stays published.
func (l *Library) Reload(ctx context.Context, trigger string) ReportSnapshot {
	l.reloadMu.Lock()
	defer l.reloadMu.Unlock()

	rep := NewReport(trigger)
	l.report.Store(rep)
	log := l.log.With("reload_id", rep.ID, "trigger", trigger)

	records, status := l.builder.Build(ctx, rep)
	if err := ctx.Err(); err != nil {
		rep.AddError(err.Error())
		rep.Finish(StatusCanceled, l.current.Load().Generation())
		log.Warn("reload canceled, catalog unchanged")
		return rep.Snapshot()
	}
	if status == StatusFallback && l.loaded.Load() {
		prev := l.current.Load()
		rep.Finish(StatusKept, prev.Generation())
		log.Warn("reload failed, keeping previous catalog", "generation", prev.Generation())
		return rep.Snapshot()
	}

	c := catalog.New()
	c.Load(records)
	l.current.Store(c)
	if status != StatusFallback {
		l.loaded.Store(true)
	}
	rep.Finish(status, c.Generation())

	snap := rep.Snapshot()
	log.Info("catalog published", "generation", c.Generation(), "status", status,
		"articles", c.Len(), "failed", snap.Failed, "duration_ms", snap.DurationMs)
	return snap
}

// Start launches periodic and file-watch reloads.
func (l *Library) Start(ctx context.Context, opts WatchOptions) error {
	workerCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel

	if opts.Dir != "" {
		l.debounce = NewDebouncer(opts.Debounce, func() {
			if workerCtx.Err() != nil {
				return
			}
			l.Reload(workerCtx, "watch")
		})
		w, err := newContentWatcher(opts.Dir, l.log, l.debounce.Trigger)
		if err != nil {
			cancel()
			return fmt.Errorf("watch content: %w", err)
		}
		l.watcher = w
		l.log.Info("watching content", "dir", opts.Dir, "debounce", opts.Debounce.String())
	}

	if opts.Interval > 0 {
		l.wg.Add(1)
		go func() {
			defer l.wg.Done()
			ticker := time.NewTicker(opts.Interval)
			defer ticker.Stop()
			for {
				select {
				case <-workerCtx.Done():
					return
				case <-ticker.C:
					l.Reload(workerCtx, "interval")
				}
			}
		}()
	}
	return nil
}

// Stop halts background reloads and waits for running ones to exit,
// including a debounced watch reload that has already fired.
func (l *Library) Stop() {
	if l.cancel != nil {
		l.cancel()
	}
	if l.watcher != nil {
		l.watcher.Close()
	}
	if l.debounce != nil {
		l.debounce.Stop()
	}
	l.wg.Wait()
}
