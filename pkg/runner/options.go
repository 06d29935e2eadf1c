package runner

import (
	"io"
	"log/slog"

	"github.com/aretw0/workshop/pkg/sound"
)

// ContentRenderer transforms markdown before it is written, e.g. to ANSI for a terminal.
type ContentRenderer func(string) (string, error)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithIO sets the input and output streams.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(r *Runner) {
		if in != nil {
			r.in = in
		}
		if out != nil {
			r.out = out
		}
	}
}

// WithRenderer configures the markdown renderer used for the board.
func WithRenderer(renderer ContentRenderer) Option {
	return func(r *Runner) {
		r.renderer = renderer
	}
}

// WithMute connects the mute command to a sound toggle.
func WithMute(m *sound.Mute) Option {
	return func(r *Runner) {
		r.mute = m
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}
