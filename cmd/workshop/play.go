package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/aretw0/workshop/internal/cli"
	"github.com/aretw0/workshop/pkg/adapters/process"
	"github.com/aretw0/workshop/pkg/sound"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var playCmd = &cobra.Command{
	Use:   "play [exercise-id]",
	Short: "Play an exercise in the terminal",
	Long: `Starts an interactive session. Without an exercise ID the catalog is listed
and you pick one. Type help once inside for the list of commands.

On a terminal, informational logs are hidden unless --log-level is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().Bool("mute", false, "Start with sound cues muted")
	playCmd.Flags().String("cues", "", "cues.yaml file mapping cues to playback commands")
	playCmd.Flags().BoolP("watch", "w", false, "Reload the catalog file when it changes")
	rootCmd.RunE = runPlay
	rootCmd.Args = cobra.MaximumNArgs(1)
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx := cli.NewSignalContext(cmd.Context())
	defer ctx.Cancel()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	fd := int(os.Stdout.Fd())
	tty := term.IsTerminal(fd)
	width := 0
	if tty {
		if w, _, err := term.GetSize(fd); err == nil {
			width = w
		}
		if !cmd.Flags().Changed("log-level") && cfg.Log.Level == "info" {
			cfg.Log.Level = "warn"
		}
	}

	var backend sound.Backend = sound.NewBell(os.Stdout)
	if cfg.Sound.Cues != "" {
		cues, err := process.LoadCues(cfg.Sound.Cues)
		if err != nil {
			return err
		}
		backend = process.NewRunner(process.WithRegistry(cues), process.WithBaseDir(filepath.Dir(cfg.Sound.Cues)))
	}

	app, err := cli.NewApp(ctx, cfg, cli.WithSound(backend))
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(context.WithoutCancel(ctx)); err != nil {
			app.Logger.Warn("Shutdown incomplete", "err", err)
		}
	}()

	if app.Config.Catalog.Watch {
		cli.WatchCatalog(ctx, app)
	}

	var exerciseID string
	if len(args) > 0 {
		exerciseID = args[0]
	}
	return cli.Play(ctx, app, cli.PlayOptions{
		ExerciseID: exerciseID,
		In:         os.Stdin,
		Out:        os.Stdout,
		TTY:        tty,
		Width:      width,
	})
}
