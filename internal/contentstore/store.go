// Package contentstore fetches manifest and article bytes from a content
// directory or a remote HTTP origin.
package contentstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
	"time"
	"unicode/utf8"
)

// ErrNotFound is returned when the named content does not exist.
var ErrNotFound = errors.New("content not found")

// Store fetches named content.
type Store interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// RetryableError indicates a transient failure that can be retried.
type RetryableError struct {
	StatusCode int
	Message    string
	// RetryAfter is the server's requested wait, zero when it sent none.
	RetryAfter time.Duration
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}

// CleanName normalizes a slash-separated content name. Names with ".."
// segments are rejected so fetches stay under the content root.
func CleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	for _, seg := range strings.Split(name, "/") {
		if seg == ".." {
			return "", fmt.Errorf("invalid content name %q", name)
		}
	}
	clean := strings.TrimPrefix(path.Clean("/"+name), "/")
	if clean == "" || !fs.ValidPath(clean) {
		return "", fmt.Errorf("invalid content name %q", name)
	}
	return clean, nil
}

// DirStore reads content from a local directory.
type DirStore struct {
	root string
	fsys fs.FS
}

// NewDirStore returns a store rooted at dir.
func NewDirStore(dir string) *DirStore {
	return &DirStore{root: dir, fsys: os.DirFS(dir)}
}

// Root returns the directory the store reads from.
func (s *DirStore) Root() string { return s.root }

func (s *DirStore) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	clean, err := CleanName(name)
	if err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(s.fsys, clean)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", clean, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", clean, err)
	}
	return data, nil
}
