// Package cli assembles the workshop components from configuration for the commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/workshop"
	"github.com/aretw0/workshop/internal/config"
	"github.com/aretw0/workshop/internal/logging"
	"github.com/aretw0/workshop/pkg/adapters/file"
	httpAdapter "github.com/aretw0/workshop/pkg/adapters/http"
	"github.com/aretw0/workshop/pkg/adapters/memory"
	"github.com/aretw0/workshop/pkg/adapters/redis"
	"github.com/aretw0/workshop/pkg/observability"
	"github.com/aretw0/workshop/pkg/ports"
	"github.com/aretw0/workshop/pkg/session"
	"github.com/aretw0/workshop/pkg/sound"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// App holds the components shared by the commands.
type App struct {
	Config   config.Config
	Logger   *slog.Logger
	Workshop *workshop.Workshop
	Sessions *session.Manager
	Store    ports.SnapshotStore
	Mute     *sound.Mute
	Registry *prometheus.Registry
	// Player is set when a sound backend was configured.
	Player *sound.Player
	// Streams is set when the app serves HTTP.
	Streams *httpAdapter.StreamManager

	closers []func() error
}

// AppOption configures NewApp.
type AppOption func(*appOptions)

type appOptions struct {
	backend   sound.Backend
	streams   bool
	logWriter io.Writer
}

// WithSound plays cues on backend.
func WithSound(backend sound.Backend) AppOption {
	return func(o *appOptions) {
		o.backend = backend
	}
}

// WithStreams creates an HTTP StreamManager and wires it into the session registry.
func WithStreams() AppOption {
	return func(o *appOptions) {
		o.streams = true
	}
}

// WithLogWriter sends logs to w instead of stderr.
func WithLogWriter(w io.Writer) AppOption {
	return func(o *appOptions) {
		o.logWriter = w
	}
}

// NewApp builds the catalog, snapshot store, metrics and session registry described by cfg.
func NewApp(ctx context.Context, cfg config.Config, opts ...AppOption) (*App, error) {
	o := appOptions{logWriter: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	app := &App{
		Config: cfg,
		Logger: logging.NewWithWriter(o.logWriter, level),
		Mute:   sound.NewMute(cfg.Sound.Muted),
	}

	hooks := observability.LoggingHooks(app.Logger)
	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		app.Registry = prometheus.NewRegistry()
		app.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics = observability.NewMetrics(app.Registry)
		hooks = observability.Chain(hooks, metrics.Hooks())
	}

	wsOpts := []workshop.Option{
		workshop.WithCatalogPath(cfg.Catalog.Path),
		workshop.WithLifecycleHooks(hooks),
		workshop.WithLogger(app.Logger),
	}
	if o.backend != nil {
		app.Player = sound.NewPlayer(o.backend, sound.WithMute(app.Mute), sound.WithLogger(app.Logger))
		wsOpts = append(wsOpts, workshop.WithCueSink(app.Player))
	}
	app.Workshop, err = workshop.New(wsOpts...)
	if err != nil {
		return nil, err
	}

	store, closeStore, err := OpenStore(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	app.Store = store
	app.closers = append(app.closers, closeStore)

	sessOpts := []session.Option{
		session.WithStore(app.Store),
		session.WithLogger(app.Logger),
	}
	if metrics != nil {
		sessOpts = append(sessOpts, session.WithObserver(metrics))
	}
	if o.streams {
		app.Streams = httpAdapter.NewStreamManager(app.Logger)
		var next ports.CueSink
		if app.Player != nil {
			next = app.Player
		}
		sessOpts = append(sessOpts,
			session.WithListener(app.Streams.Publish),
			session.WithSinkFactory(app.Streams.SinkFactory(app.Mute, next)),
		)
	}
	app.Sessions = session.NewManager(app.Workshop, sessOpts...)
	return app, nil
}

// OpenStore opens the snapshot store selected by c. The returned close function
// releases its connections.
func OpenStore(ctx context.Context, c config.StoreConfig) (ports.SnapshotStore, func() error, error) {
	switch c.Driver {
	case config.StoreFile:
		return file.NewStore(c.Path), noopClose, nil
	case config.StoreRedis:
		store := redis.New(c.Redis.Addr, c.Redis.Password, c.Redis.DB,
			redis.WithPrefix(c.Redis.Prefix),
			redis.WithTTL(c.Redis.TTL),
		)
		if err := store.Ping(ctx); err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("failed to reach redis at %s: %w", c.Redis.Addr, err)
		}
		return store, store.Close, nil
	default:
		return memory.NewStore(), noopClose, nil
	}
}

func noopClose() error { return nil }

// Close ends every live session and releases the store.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.Sessions != nil {
		errs = append(errs, a.Sessions.CloseAll(ctx))
	}
	if a.Player != nil {
		a.Player.Wait()
	}
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}
