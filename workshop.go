package workshop

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/aretw0/loam"
	"github.com/aretw0/workshop/internal/content"
	"github.com/aretw0/workshop/internal/dto"
	"github.com/aretw0/workshop/internal/logging"
	"github.com/aretw0/workshop/internal/runtime"
	"github.com/aretw0/workshop/pkg/adapters/file"
	loamAdapter "github.com/aretw0/workshop/pkg/adapters/loam"
	"github.com/aretw0/workshop/pkg/domain"
	"github.com/aretw0/workshop/pkg/ports"
)

// Workshop is the high-level entry point for the library.
// It owns the exercise catalog and starts sessions wired to the configured capabilities.
type Workshop struct {
	loader      ports.CatalogLoader
	catalogPath string
	sink        ports.CueSink
	scheduler   ports.Scheduler
	hooks       domain.LifecycleHooks
	logger      *slog.Logger

	seeded  bool
	seed    uint64
	started atomic.Uint64
}

// Option defines a functional option for configuring the Workshop.
type Option func(*Workshop)

// WithLoader injects a custom CatalogLoader, bypassing the embedded catalog.
func WithLoader(l ports.CatalogLoader) Option {
	return func(w *Workshop) {
		w.loader = l
	}
}

// WithCatalogPath loads exercises from disk: a YAML/JSON catalog file, or a
// directory of exercise documents read through Loam. Empty keeps the embedded catalog.
func WithCatalogPath(path string) Option {
	return func(w *Workshop) {
		w.catalogPath = path
	}
}

// WithCueSink sets the default sink for sessions started without one.
func WithCueSink(sink ports.CueSink) Option {
	return func(w *Workshop) {
		w.sink = sink
	}
}

// WithScheduler sets the clock used for revert timers.
func WithScheduler(s ports.Scheduler) Option {
	return func(w *Workshop) {
		w.scheduler = s
	}
}

// WithLifecycleHooks registers observability hooks on every session.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(w *Workshop) {
		w.hooks = hooks
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Workshop) {
		w.logger = logger
	}
}

// WithSeed makes bank shuffling reproducible. Each started session derives its
// own stream from the seed and its start order.
func WithSeed(seed uint64) Option {
	return func(w *Workshop) {
		w.seeded = true
		w.seed = seed
	}
}

// New initializes a Workshop.
// Without WithLoader or WithCatalogPath it serves the embedded default catalog.
func New(opts ...Option) (*Workshop, error) {
	w := &Workshop{}
	for _, opt := range opts {
		opt(w)
	}

	if w.logger == nil {
		w.logger = logging.NewNop()
	}

	if w.loader == nil {
		loader, err := openCatalog(w.catalogPath, w.logger)
		if err != nil {
			return nil, err
		}
		w.loader = loader
	}

	return w, nil
}

func openCatalog(path string, logger *slog.Logger) (ports.CatalogLoader, error) {
	if path == "" {
		return content.Default()
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCatalog, err)
	}
	if !info.IsDir() {
		return file.NewCatalog(absPath, file.WithLogger(logger))
	}

	// Strict mode keeps numbers consistent across JSON and Markdown documents.
	// ReadOnly avoids Loam's sandbox behaviour; exercises are never written back.
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return loamAdapter.New(loam.NewTypedRepository[dto.Exercise](repo)), nil
}

// Exercises returns the catalog in navigation order.
func (w *Workshop) Exercises(ctx context.Context) ([]domain.Exercise, error) {
	ids, err := w.loader.ListExercises(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Exercise, 0, len(ids))
	for _, id := range ids {
		ex, err := w.loader.GetExercise(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, ex)
	}
	return out, nil
}

// Exercise returns one exercise by ID.
func (w *Workshop) Exercise(ctx context.Context, id string) (domain.Exercise, error) {
	return w.loader.GetExercise(ctx, id)
}

// Start begins a session on the given exercise. A nil sink falls back to the
// Workshop default, which is silent unless WithCueSink was used.
func (w *Workshop) Start(ctx context.Context, exerciseID string, sink ports.CueSink) (ports.Session, error) {
	ex, err := w.loader.GetExercise(ctx, exerciseID)
	if err != nil {
		return nil, err
	}
	if sink == nil {
		sink = w.sink
	}

	opts := []runtime.Option{
		runtime.WithCueSink(sink),
		runtime.WithScheduler(w.scheduler),
		runtime.WithLifecycleHooks(w.hooks),
		runtime.WithLogger(w.logger.With("exercise", ex.ID)),
	}
	n := w.started.Add(1)
	if w.seeded {
		opts = append(opts, runtime.WithRand(rand.New(rand.NewPCG(w.seed, n))))
	}

	s, err := runtime.NewSession(ex, opts...)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Watch returns a channel that signals when the catalog changes.
// Returns error if the loader does not support watching.
func (w *Workshop) Watch(ctx context.Context) (<-chan string, error) {
	if wl, ok := w.loader.(ports.Watchable); ok {
		return wl.Watch(ctx)
	}
	return nil, fmt.Errorf("current loader does not support watching")
}

// Loader returns the underlying CatalogLoader.
func (w *Workshop) Loader() ports.CatalogLoader {
	return w.loader
}
