// Package filesystem reads local files and folders into ingestion items
// and watches folders for new or changed files.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gabriel-vasile/mimetype"

	"github.com/custodia-labs/ragdrive/internal/core/domain"
	"github.com/custodia-labs/ragdrive/internal/logger"
)

// Defaults.
const (
	DefaultMaxFileSize = 50 * 1024 * 1024
	DefaultDebounce    = 500 * time.Millisecond
)

// ErrClosed is returned when the connector has been closed.
var ErrClosed = errors.New("connector closed")

// Connector reads files under a root path. The root may be a single file
// or a directory.
type Connector struct {
	rootPath    string
	maxFileSize int64
	debounce    time.Duration

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	closed  bool
}

// Option configures a Connector.
type Option func(*Connector)

// WithMaxFileSize skips files larger than n bytes.
func WithMaxFileSize(n int64) Option {
	return func(c *Connector) {
		if n > 0 {
			c.maxFileSize = n
		}
	}
}

// WithDebounce sets how long Watch waits for further events before
// emitting a batch.
func WithDebounce(d time.Duration) Option {
	return func(c *Connector) {
		if d >= 0 {
			c.debounce = d
		}
	}
}

// New creates a connector for rootPath. Relative paths are made absolute.
func New(rootPath string, opts ...Option) *Connector {
	if rootPath != "" {
		if abs, err := filepath.Abs(rootPath); err == nil {
			rootPath = abs
		}
	}
	c := &Connector{
		rootPath:    rootPath,
		maxFileSize: DefaultMaxFileSize,
		debounce:    DefaultDebounce,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RootPath returns the configured root.
func (c *Connector) RootPath() string {
	return c.rootPath
}

// Validate checks that the root exists.
func (c *Connector) Validate() error {
	if c.rootPath == "" {
		return fmt.Errorf("%w: empty path", domain.ErrInvalidInput)
	}
	if _, err := os.Stat(c.rootPath); err != nil {
		return fmt.Errorf("root path error: %w", err)
	}
	return nil
}

// Collect reads every visible file under the root, in lexical order.
// Relative paths start with the root directory's name, or are the file
// name when the root is a single file.
func (c *Connector) Collect(ctx context.Context) ([]domain.IngestItem, error) {
	info, err := os.Stat(c.rootPath)
	if err != nil {
		return nil, fmt.Errorf("root path error: %w", err)
	}

	if !info.IsDir() {
		item, ok, err := c.readItem(c.rootPath, info.Name())
		if err != nil || !ok {
			return nil, err
		}
		return []domain.IngestItem{item}, nil
	}

	var items []domain.IngestItem
	err = filepath.WalkDir(c.rootPath, func(path string, d fs.DirEntry, walkErr error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if walkErr != nil {
			logger.Warn("Skipping %s: %v", path, walkErr)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if path != c.rootPath && isHidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		item, ok, err := c.readItem(path, c.relativePath(path))
		if err != nil {
			logger.Warn("Skipping %s: %v", path, err)
			return nil
		}
		if ok {
			items = append(items, item)
		}
		return nil
	})
	if err != nil {
		return items, err
	}

	logger.Debug("Collected %d files under %s", len(items), c.rootPath)
	return items, nil
}

// relativePath returns path relative to the root's parent, slash separated.
func (c *Connector) relativePath(path string) string {
	rel, err := filepath.Rel(filepath.Dir(filepath.Clean(c.rootPath)), path)
	if err != nil {
		return filepath.Base(path)
	}
	return filepath.ToSlash(rel)
}

// readItem loads one file. ok is false for files that are skipped.
func (c *Connector) readItem(path, relPath string) (domain.IngestItem, bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return domain.IngestItem{}, false, err
	}
	if info.Size() > c.maxFileSize {
		logger.Warn("Skipping %s: %d bytes exceeds limit of %d", path, info.Size(), c.maxFileSize)
		return domain.IngestItem{}, false, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.IngestItem{}, false, err
	}

	return domain.IngestItem{
		RelativePath: relPath,
		Name:         info.Name(),
		Size:         info.Size(),
		ModTime:      info.ModTime(),
		Data:         data,
		MIMEType:     detectMIMEType(path, data),
	}, true, nil
}

// Watch emits batches of created or modified files until ctx is done.
// Events arriving within the debounce window are emitted together. The
// returned channel is closed when watching stops.
func (c *Connector) Watch(ctx context.Context) (<-chan []domain.IngestItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrClosed
	}

	info, err := os.Stat(c.rootPath)
	if err != nil {
		return nil, fmt.Errorf("root path error: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: watch requires a directory", domain.ErrInvalidInput)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := addDirs(watcher, c.rootPath); err != nil {
		watcher.Close()
		return nil, err
	}
	c.watcher = watcher

	out := make(chan []domain.IngestItem)
	go c.watchLoop(ctx, watcher, out)
	return out, nil
}

func (c *Connector) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, out chan<- []domain.IngestItem) {
	defer close(out)
	defer watcher.Close()

	pending := make(map[string]bool)
	var timer *time.Timer
	var fire <-chan time.Time

	flush := func() bool {
		items := c.readPending(pending)
		clear(pending)
		if len(items) == 0 {
			return true
		}
		select {
		case out <- items:
			return true
		case <-ctx.Done():
			return false
		}
	}

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			path, watch := c.handleFsEvent(event)
			if watch {
				if err := addDirs(watcher, path); err != nil {
					logger.Warn("Cannot watch %s: %v", path, err)
				}
				continue
			}
			if path == "" {
				continue
			}
			pending[path] = true
			if timer == nil {
				timer = time.NewTimer(c.debounce)
			} else {
				timer.Reset(c.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if !flush() {
				return
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// handleFsEvent returns the file to ingest for an event, or a new
// directory to start watching.
func (c *Connector) handleFsEvent(event fsnotify.Event) (path string, newDir bool) {
	if isHidden(filepath.Base(event.Name)) {
		return "", false
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		return "", false
	}
	if info.IsDir() {
		return event.Name, event.Has(fsnotify.Create)
	}
	if !info.Mode().IsRegular() {
		return "", false
	}
	return event.Name, false
}

func (c *Connector) readPending(pending map[string]bool) []domain.IngestItem {
	paths := make([]string, 0, len(pending))
	for path := range pending {
		paths = append(paths, path)
	}
	slices.Sort(paths)

	items := make([]domain.IngestItem, 0, len(paths))
	for _, path := range paths {
		item, ok, err := c.readItem(path, c.relativePath(path))
		if err != nil {
			logger.Debug("Skipping %s: %v", path, err)
			continue
		}
		if ok {
			items = append(items, item)
		}
	}
	return items
}

// Close stops any running watch. Safe to call more than once.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	if c.watcher != nil {
		return c.watcher.Close()
	}
	return nil
}

// addDirs watches dir and every visible directory below it.
func addDirs(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && isHidden(d.Name()) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

// isHidden reports whether any element of path starts with a dot.
// "." and ".." are not hidden.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if len(part) > 1 && part[0] == '.' && part != ".." {
			return true
		}
	}
	return false
}

// fallbackMIMETypes covers extensions the system MIME table often lacks.
var fallbackMIMETypes = map[string]string{
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".yaml":     "text/yaml",
	".yml":      "text/yaml",
	".toml":     "text/toml",
	".csv":      "text/csv",
	".tsv":      "text/tab-separated-values",
	".eml":      "message/rfc822",
	".docx":     "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xlsx":     "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// detectMIMEType guesses a file's type from its extension, then from its
// content. Parameters such as charset are stripped.
func detectMIMEType(path string, data []byte) string {
	ext := strings.ToLower(filepath.Ext(path))
	if t, ok := fallbackMIMETypes[ext]; ok {
		return t
	}
	if ext != "" {
		if t := mime.TypeByExtension(ext); t != "" {
			if base, _, err := mime.ParseMediaType(t); err == nil {
				return base
			}
			return t
		}
	}
	if len(data) == 0 {
		return "text/plain"
	}
	t := mimetype.Detect(data).String()
	if base, _, err := mime.ParseMediaType(t); err == nil {
		return base
	}
	return t
}
