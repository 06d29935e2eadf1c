package session

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/workshop/internal/logging"
	"github.com/aretw0/workshop/pkg/domain"
	"github.com/aretw0/workshop/pkg/ports"
	"github.com/google/uuid"
)

// Starter creates sessions. *workshop.Workshop satisfies it.
type Starter interface {
	Start(ctx context.Context, exerciseID string, sink ports.CueSink) (ports.Session, error)
}

// Observer is told when sessions open and close.
type Observer interface {
	SessionOpened(exerciseID string)
	SessionClosed(exerciseID string)
}

// Listener receives every projection of every managed session.
type Listener func(sessionID string, snap domain.Snapshot)

// Info describes a live session.
type Info struct {
	ID         string    `json:"id"`
	ExerciseID string    `json:"exercise_id"`
	OpenedAt   time.Time `json:"opened_at"`
}

// entry holds a live session and serializes the persistence of its snapshots.
type entry struct {
	info        Info
	session     ports.Session
	unsubscribe func()

	saveMu sync.Mutex
	saved  uint64
	closed bool
}

// Manager owns the live sessions of a host.
type Manager struct {
	starter Starter
	store   ports.SnapshotStore

	mu       sync.RWMutex
	sessions map[string]*entry

	sinks       func(sessionID string) ports.CueSink
	listeners   []Listener
	observer    Observer
	saveTimeout time.Duration
	logger      *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithStore records every projection in store.
func WithStore(store ports.SnapshotStore) Option {
	return func(m *Manager) {
		m.store = store
	}
}

// WithSinkFactory builds a cue sink for each opened session.
func WithSinkFactory(f func(sessionID string) ports.CueSink) Option {
	return func(m *Manager) {
		m.sinks = f
	}
}

// WithListener adds a listener for session projections.
func WithListener(l Listener) Option {
	return func(m *Manager) {
		m.listeners = append(m.listeners, l)
	}
}

// WithObserver registers an open/close observer, such as observability.Metrics.
func WithObserver(o Observer) Option {
	return func(m *Manager) {
		m.observer = o
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates a session Manager.
func NewManager(starter Starter, opts ...Option) *Manager {
	m := &Manager{
		starter:     starter,
		sessions:    make(map[string]*entry),
		saveTimeout: 5 * time.Second,
		logger:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Open starts a session on the exercise and registers it under a new ID.
func (m *Manager) Open(ctx context.Context, exerciseID string) (string, ports.Session, error) {
	id := uuid.NewString()

	var sink ports.CueSink
	if m.sinks != nil {
		sink = m.sinks(id)
	}
	s, err := m.starter.Start(ctx, exerciseID, sink)
	if err != nil {
		return "", nil, fmt.Errorf("failed to start session: %w", err)
	}

	e := &entry{
		info:    Info{ID: id, ExerciseID: exerciseID, OpenedAt: time.Now()},
		session: s,
	}
	e.unsubscribe = s.Subscribe(func(snap domain.Snapshot) {
		m.publish(e, snap)
	})

	m.mu.Lock()
	m.sessions[id] = e
	m.mu.Unlock()

	if m.observer != nil {
		m.observer.SessionOpened(exerciseID)
	}
	m.logger.Info("Session opened", "session_id", id, "exercise", exerciseID)

	m.publish(e, s.Snapshot())
	return id, s, nil
}

// Get returns a live session.
func (m *Manager) Get(id string) (ports.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	return e.session, nil
}

// Info returns the description of a live session.
func (m *Manager) Info(id string) (Info, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.sessions[id]
	if !ok {
		return Info{}, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	return e.info, nil
}

// List returns the live sessions ordered by opening time.
func (m *Manager) List() []Info {
	m.mu.RLock()
	out := make([]Info, 0, len(m.sessions))
	for _, e := range m.sessions {
		out = append(out, e.info)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].OpenedAt.Equal(out[j].OpenedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].OpenedAt.Before(out[j].OpenedAt)
	})
	return out
}

// Close ends a session, cancelling its pending reverts and removing its stored snapshot.
func (m *Manager) Close(ctx context.Context, id string) error {
	m.mu.Lock()
	e, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}

	e.unsubscribe()
	e.session.Close()

	e.saveMu.Lock()
	e.closed = true
	e.saveMu.Unlock()

	if m.observer != nil {
		m.observer.SessionClosed(e.info.ExerciseID)
	}
	m.logger.Info("Session closed", "session_id", id, "exercise", e.info.ExerciseID)

	if m.store != nil {
		if err := m.store.Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete snapshot: %w", err)
		}
	}
	return nil
}

// CloseAll ends every live session. It returns the first error encountered.
func (m *Manager) CloseAll(ctx context.Context) error {
	var first error
	for _, info := range m.List() {
		if err := m.Close(ctx, info.ID); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Store returns the configured snapshot store, if any.
func (m *Manager) Store() ports.SnapshotStore {
	return m.store
}

// publish saves the snapshot and fans it out. Snapshots older than the last saved
// one are dropped, so concurrent reverts and drops never move the stored view backwards.
func (m *Manager) publish(e *entry, snap domain.Snapshot) {
	e.saveMu.Lock()
	defer e.saveMu.Unlock()
	if e.closed || (e.saved != 0 && snap.Version <= e.saved) {
		return
	}
	e.saved = snap.Version

	if m.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), m.saveTimeout)
		if err := m.store.Save(ctx, e.info.ID, snap); err != nil {
			m.logger.Warn("Failed to save snapshot", "session_id", e.info.ID, "err", err)
		}
		cancel()
	}
	for _, l := range m.listeners {
		l(e.info.ID, snap)
	}
}
