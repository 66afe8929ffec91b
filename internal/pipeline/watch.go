package pipeline

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/fsnotify.v1"

	"github.com/dgallion1/docshelf/internal/source"
)

// contentWatcher reports changes to article and manifest files under a
// directory tree.
type contentWatcher struct {
	watcher  *fsnotify.Watcher
	log      *slog.Logger
	onChange func()
	stopChan chan struct{}
	done     chan struct{}
}

func newContentWatcher(dir string, log *slog.Logger, onChange func()) (*contentWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching directory %s: %w", dir, err)
	}

	w := &contentWatcher{
		watcher:  watcher,
		log:      log,
		onChange: onChange,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

func (w *contentWatcher) loop() {
	defer close(w.done)
	for {
		select {
		case <-w.stopChan:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Create == fsnotify.Create {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.watcher.Add(event.Name); err != nil {
						w.log.Warn("watch new directory failed", "dir", event.Name, "error", err)
					}
					continue
				}
			}
			if event.Op == fsnotify.Chmod || !isContentFile(event.Name) {
				continue
			}
			w.log.Debug("content changed", "file", event.Name, "op", event.Op.String())
			w.onChange()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("content watcher error", "error", err)
		}
	}
}

func (w *contentWatcher) Close() {
	close(w.stopChan)
	w.watcher.Close()
	<-w.done
}

// isContentFile matches article sources and manifests.
func isContentFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return source.IsSupportedExtension(name)
}
