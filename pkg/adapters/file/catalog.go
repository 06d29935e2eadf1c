package file

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/workshop/internal/dto"
	"github.com/aretw0/workshop/internal/logging"
	"github.com/aretw0/workshop/pkg/adapters/memory"
	"github.com/aretw0/workshop/pkg/domain"
	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// DecodeCatalog parses a catalog document. The format is chosen by extension:
// ".json" is JSON, anything else is YAML. Every exercise is converted and validated.
func DecodeCatalog(data []byte, ext string) ([]domain.Exercise, error) {
	var raw dto.Catalog
	switch strings.ToLower(ext) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCatalog, err)
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&raw); err != nil && err != io.EOF {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCatalog, err)
		}
	}

	exercises := make([]domain.Exercise, 0, len(raw.Exercises))
	for _, e := range raw.Exercises {
		ex, err := e.ToDomain()
		if err != nil {
			return nil, err
		}
		exercises = append(exercises, ex)
	}
	return exercises, nil
}

// DefaultDebounce coalesces bursts of write events from editors.
const DefaultDebounce = 100 * time.Millisecond

// Catalog implements ports.CatalogLoader and ports.Watchable over a single catalog file.
type Catalog struct {
	*memory.Catalog

	path     string
	logger   *slog.Logger
	debounce time.Duration
}

// CatalogOption configures a file Catalog.
type CatalogOption func(*Catalog)

// WithLogger sets the logger used to report failed reloads.
func WithLogger(logger *slog.Logger) CatalogOption {
	return func(c *Catalog) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) CatalogOption {
	return func(c *Catalog) {
		c.debounce = d
	}
}

// NewCatalog loads the catalog at path.
func NewCatalog(path string, opts ...CatalogOption) (*Catalog, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve catalog path: %w", err)
	}
	c := &Catalog{
		path:     abs,
		logger:   logging.NewNop(),
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(c)
	}

	exercises, err := c.read()
	if err != nil {
		return nil, err
	}
	if c.Catalog, err = memory.NewCatalog(exercises...); err != nil {
		return nil, err
	}
	return c, nil
}

// Path returns the absolute path of the catalog file.
func (c *Catalog) Path() string {
	return c.path
}

func (c *Catalog) read() ([]domain.Exercise, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCatalog, err)
	}
	return DecodeCatalog(data, filepath.Ext(c.path))
}

// Reload re-reads the file. On error the previous content stays in place.
func (c *Catalog) Reload() error {
	exercises, err := c.read()
	if err != nil {
		return err
	}
	return c.Replace(exercises...)
}

// Watch implements ports.Watchable. It watches the parent directory so that editors
// which replace the file by rename are still observed. The channel receives the file
// path after every successful reload and is closed when ctx is done.
func (c *Catalog) Watch(ctx context.Context) (<-chan string, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to start catalog watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(c.path)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", c.path, err)
	}

	ch := make(chan string, 1)
	go func() {
		defer close(ch)
		defer watcher.Close()

		var pending <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(evt.Name) != c.path || (evt.Has(fsnotify.Chmod) && !evt.Has(fsnotify.Write)) {
					continue
				}
				pending = time.After(c.debounce)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				c.logger.Warn("Catalog watcher error", "path", c.path, "err", err)
			case <-pending:
				pending = nil
				if err := c.Reload(); err != nil {
					c.logger.Error("Catalog reload failed", "path", c.path, "err", err)
					continue
				}
				c.logger.Info("Catalog reloaded", "path", c.path)
				select {
				case ch <- c.path:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}
