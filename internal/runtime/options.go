package runtime

import (
	"log/slog"
	"math/rand/v2"

	"github.com/aretw0/workshop/pkg/domain"
	"github.com/aretw0/workshop/pkg/ports"
)

// Option configures a Session.
type Option func(*Session)

// WithCueSink sets the audio capability used for drag, drop and verification cues.
func WithCueSink(sink ports.CueSink) Option {
	return func(s *Session) {
		if sink != nil {
			s.sink = sink
		}
	}
}

// WithScheduler sets the clock used for revert timers.
func WithScheduler(clock ports.Scheduler) Option {
	return func(s *Session) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithRand sets the random source used to shuffle the bank.
func WithRand(rng *rand.Rand) Option {
	return func(s *Session) {
		s.rng = rng
	}
}

// WithLifecycleHooks registers observability callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Session) {
		s.hooks = hooks
	}
}

// WithLogger sets the logger for rejected drops and reverts.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}
