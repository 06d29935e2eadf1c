package sound

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/aretw0/workshop/internal/logging"
	"github.com/aretw0/workshop/pkg/domain"
	"github.com/aretw0/workshop/pkg/ports"
)

// Backend renders a cue on some device.
type Backend interface {
	Play(ctx context.Context, cue domain.Cue) error
}

// BackendFunc adapts a function to Backend.
type BackendFunc func(ctx context.Context, cue domain.Cue) error

// Play calls f(ctx, cue).
func (f BackendFunc) Play(ctx context.Context, cue domain.Cue) error { return f(ctx, cue) }

// Mute is a process-wide mute toggle shared by players.
type Mute struct {
	v atomic.Bool
}

// NewMute returns a toggle in the given state.
func NewMute(muted bool) *Mute {
	m := &Mute{}
	m.v.Store(muted)
	return m
}

// Muted reports the current state.
func (m *Mute) Muted() bool { return m.v.Load() }

// Set changes the state.
func (m *Mute) Set(muted bool) { m.v.Store(muted) }

// Toggle flips the state and returns the new value.
func (m *Mute) Toggle() bool {
	for {
		old := m.v.Load()
		if m.v.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

// Player dispatches cues to a Backend.
type Player struct {
	backend     Backend
	mute        *Mute
	logger      *slog.Logger
	synchronous bool
	wg          sync.WaitGroup
}

var _ ports.CueSink = (*Player)(nil)

// Option configures a Player.
type Option func(*Player)

// WithMute shares a mute toggle with the player.
func WithMute(m *Mute) Option {
	return func(p *Player) {
		if m != nil {
			p.mute = m
		}
	}
}

// WithLogger configures where playback failures are reported.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Player) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithSynchronous plays cues on the caller's goroutine. Meant for tests and for
// backends that are already non-blocking.
func WithSynchronous() Option {
	return func(p *Player) {
		p.synchronous = true
	}
}

// NewPlayer creates a player for the given backend.
func NewPlayer(backend Backend, opts ...Option) *Player {
	p := &Player{
		backend: backend,
		mute:    NewMute(false),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Mute returns the toggle consulted by the player.
func (p *Player) Mute() *Mute { return p.mute }

// Play implements ports.CueSink. It never blocks on the backend and never fails.
func (p *Player) Play(cue domain.Cue) {
	if p.mute.Muted() || p.backend == nil {
		return
	}
	if p.synchronous {
		p.play(cue)
		return
	}
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.play(cue)
	}()
}

// Wait blocks until cues already handed to the backend have finished.
func (p *Player) Wait() { p.wg.Wait() }

func (p *Player) play(cue domain.Cue) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Warn("sound backend panicked", "cue", cue, "err", fmt.Errorf("panic: %v", r))
		}
	}()
	if err := p.backend.Play(context.Background(), cue); err != nil {
		p.logger.Warn("failed to play sound", "cue", cue, "err", err)
	}
}
