package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aretw0/workshop"
	"github.com/aretw0/workshop/internal/presentation/tui"
	"github.com/aretw0/workshop/pkg/domain"
	"github.com/aretw0/workshop/pkg/runner"
)

// PlayOptions configures an interactive terminal session.
type PlayOptions struct {
	ExerciseID string
	In         io.Reader
	Out        io.Writer
	// TTY enables the banner and rich markdown rendering.
	TTY   bool
	Width int
}

// Play runs one exercise in the terminal until the learner quits or ctx is done.
// Without an exercise ID the learner picks one from the catalog first.
func Play(ctx context.Context, app *App, opts PlayOptions) error {
	in := bufio.NewReader(opts.In)
	if opts.TTY {
		tui.PrintBanner(opts.Out, workshop.Version)
	}

	exerciseID := opts.ExerciseID
	if exerciseID == "" {
		exs, err := app.Workshop.Exercises(ctx)
		if err != nil {
			return err
		}
		exerciseID, err = chooseExercise(in, opts.Out, exs)
		if err != nil {
			return err
		}
	}

	id, sess, err := app.Sessions.Open(ctx, exerciseID)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Sessions.Close(context.WithoutCancel(ctx), id); err != nil {
			app.Logger.Warn("Failed to close session", "session_id", id, "err", err)
		}
	}()

	runOpts := []runner.Option{
		runner.WithIO(in, opts.Out),
		runner.WithMute(app.Mute),
		runner.WithLogger(app.Logger),
	}
	if opts.TTY {
		render, err := tui.NewRenderer(opts.Width)
		if err != nil {
			app.Logger.Warn("Falling back to plain output", "err", err)
		} else {
			runOpts = append(runOpts, runner.WithRenderer(render))
		}
	}

	app.Logger.Debug("Playing", "session_id", id, "exercise", exerciseID)
	err = runner.NewRunner(sess, runOpts...).Run(ctx)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// chooseExercise lists the catalog and reads the learner's pick by number or ID.
func chooseExercise(in *bufio.Reader, out io.Writer, exs []domain.Exercise) (string, error) {
	if len(exs) == 0 {
		return "", fmt.Errorf("%w: no exercises", domain.ErrInvalidCatalog)
	}
	fmt.Fprintln(out, "Exercises:")
	for i, ex := range exs {
		fmt.Fprintf(out, "  %d. %s (%s)\n", i+1, ex.Title, ex.ID)
	}

	for {
		fmt.Fprint(out, "Pick one: ")
		line, err := in.ReadString('\n')
		choice := strings.TrimSpace(line)
		if choice != "" {
			if n, convErr := strconv.Atoi(choice); convErr == nil && n >= 1 && n <= len(exs) {
				return exs[n-1].ID, nil
			}
			for _, ex := range exs {
				if ex.ID == choice {
					return ex.ID, nil
				}
			}
			fmt.Fprintf(out, "No exercise %q.\n", choice)
		}
		if err != nil {
			if err == io.EOF {
				return "", fmt.Errorf("no exercise chosen")
			}
			return "", fmt.Errorf("failed to read choice: %w", err)
		}
	}
}

// WatchCatalog logs catalog reloads until ctx is done. It is a no-op for catalogs
// that cannot be watched.
func WatchCatalog(ctx context.Context, app *App) {
	reloads, err := app.Workshop.Watch(ctx)
	if err != nil {
		app.Logger.Warn("Catalog watch unavailable", "err", err)
		return
	}
	go func() {
		for path := range reloads {
			app.Logger.Info("Catalog reloaded; new sessions use the new content", "path", path)
		}
	}()
}
