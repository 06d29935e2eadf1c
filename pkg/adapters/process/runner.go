package process

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/workshop/pkg/domain"
	"github.com/aretw0/workshop/pkg/sound"
)

// DefaultTimeout bounds a single playback command.
const DefaultTimeout = 5 * time.Second

// Runner is a sound.Backend that plays cues by running allow-listed local commands,
// such as paplay or afplay with a sound file.
type Runner struct {
	mu       sync.RWMutex
	registry map[domain.Cue]RegisteredProcess
	baseDir  string
	timeout  time.Duration
}

var _ sound.Backend = (*Runner)(nil)

// RegisteredProcess defines the command run for a cue.
type RegisteredProcess struct {
	Command string
	Args    []string
	Env     map[string]string
}

// RunnerOption configures the runner.
type RunnerOption func(*Runner)

// WithRegistry populates the allow-list from a loaded config.
func WithRegistry(cues map[domain.Cue]CueConfig) RunnerOption {
	return func(r *Runner) {
		for cue, c := range cues {
			r.registry[cue] = RegisteredProcess{Command: c.Command, Args: c.Args, Env: c.Environment}
		}
	}
}

// WithBaseDir sets the working directory for executed processes.
func WithBaseDir(dir string) RunnerOption {
	return func(r *Runner) {
		r.baseDir = dir
	}
}

// WithTimeout kills commands that run longer than d.
func WithTimeout(d time.Duration) RunnerOption {
	return func(r *Runner) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// NewRunner creates a new Process Runner.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		registry: make(map[domain.Cue]RegisteredProcess),
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register sets the command played for cue.
func (r *Runner) Register(cue domain.Cue, command string, args ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.registry[cue] = RegisteredProcess{
		Command: command,
		Args:    args,
	}
}

// Play implements sound.Backend. Unregistered cues are silent.
// The cue name is passed to the command as WORKSHOP_CUE.
func (r *Runner) Play(ctx context.Context, cue domain.Cue) error {
	r.mu.RLock()
	proc, ok := r.registry[cue]
	r.mu.RUnlock()
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, proc.Command, proc.Args...)
	cmd.Dir = r.baseDir
	cmd.Env = append(cmd.Environ(), "WORKSHOP_CUE="+string(cue))
	for k, v := range proc.Env {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", k, v))
	}

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("cue %s: %w: %s", cue, err, msg)
		}
		return fmt.Errorf("cue %s: %w", cue, err)
	}
	return nil
}
