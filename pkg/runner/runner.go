package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/aretw0/workshop/internal/logging"
	"github.com/aretw0/workshop/pkg/domain"
	"github.com/aretw0/workshop/pkg/ports"
	"github.com/aretw0/workshop/pkg/sound"
)

// ErrQuit is returned by a command that ends the loop.
var ErrQuit = errors.New("quit")

// Runner drives one session from line-based input.
type Runner struct {
	session  ports.Session
	in       io.Reader
	out      io.Writer
	renderer ContentRenderer
	mute     *sound.Mute
	logger   *slog.Logger

	last domain.Snapshot
	// restarted is set by commands that rebuild the board, whose bank returns are not reverts.
	restarted bool
}

// NewRunner creates a Runner for session, reading stdin and writing stdout by default.
func NewRunner(session ports.Session, opts ...Option) *Runner {
	r := &Runner{
		session: session,
		in:      os.Stdin,
		out:     os.Stdout,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type line struct {
	text string
	err  error
}

// pump reads lines on its own goroutine so the loop can also react to reverts.
func pump(ctx context.Context, in io.Reader) <-chan line {
	ch := make(chan line)
	go func() {
		defer close(ch)
		reader := bufio.NewReader(in)
		for {
			text, err := reader.ReadString('\n')
			if text != "" {
				select {
				case ch <- line{text: text}:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				if err != io.EOF {
					select {
					case ch <- line{err: err}:
					case <-ctx.Done():
					}
				}
				return
			}
		}
	}()
	return ch
}

// Run shows the board and processes commands until quit, end of input or ctx is done.
func (r *Runner) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	updates := make(chan domain.Snapshot, 16)
	unsubscribe := r.session.Subscribe(func(snap domain.Snapshot) {
		select {
		case updates <- snap:
		default:
			// The loop re-reads the session after every command, so dropping here only
			// delays an announcement.
		}
	})
	defer unsubscribe()

	r.last = r.session.Snapshot()
	r.render(r.last)
	r.prompt()

	lines := pump(ctx, r.in)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case snap := <-updates:
			if snap.Version <= r.last.Version {
				continue
			}
			r.announce(r.last, snap)
			r.last = snap
			r.prompt()

		case l, ok := <-lines:
			if !ok {
				fmt.Fprintln(r.out)
				return nil
			}
			if l.err != nil {
				return fmt.Errorf("failed to read input: %w", l.err)
			}

			text, err := SanitizeInput(strings.TrimSpace(l.text))
			if err != nil {
				r.say("Input rejected: %v", err)
				r.prompt()
				continue
			}
			if err := r.run(ctx, text); err != nil {
				if errors.Is(err, ErrQuit) {
					return nil
				}
				return err
			}
			r.prompt()
		}
	}
}

// run executes one command and then reports reverts that fired since the last
// snapshot the runner saw, including those that landed while the command ran.
func (r *Runner) run(ctx context.Context, input string) error {
	prev := r.last
	r.restarted = false
	err := r.Execute(ctx, input)
	cur := r.session.Snapshot()
	if !r.restarted {
		r.announce(prev, cur)
	}
	r.last = cur
	return err
}

// announce reports placements that went back to the bank on their own.
func (r *Runner) announce(old, cur domain.Snapshot) {
	if old.ProblemID != cur.ProblemID {
		return
	}
	inBank := make(map[domain.ItemID]bool, len(cur.Bank))
	for _, it := range cur.Bank {
		inBank[it.ID] = true
	}
	for _, p := range old.Placed() {
		if p.Outcome == domain.OutcomeIncorrect && inBank[p.Item.ID] {
			r.say("\n%q went back to the bank.", p.Item.Text)
			r.logger.Debug("revert announced", "item", p.Item.ID, "zone", p.Zone)
		}
	}
}

func (r *Runner) render(snap domain.Snapshot) {
	md := RenderMarkdown(snap)
	if r.renderer != nil {
		if rendered, err := r.renderer(md); err == nil {
			md = rendered
		} else {
			r.logger.Warn("failed to render board", "err", err)
		}
	}
	fmt.Fprintln(r.out, strings.TrimRight(md, "\n"))
}

func (r *Runner) say(format string, args ...any) {
	fmt.Fprintf(r.out, format+"\n", args...)
}

func (r *Runner) prompt() {
	fmt.Fprint(r.out, "> ")
}
