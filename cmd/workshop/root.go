package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/workshop/internal/cli"
	"github.com/aretw0/workshop/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "workshop",
	Short: "Workshop is a drag-and-drop grammar tutor",
	Long: `Workshop drills phrase and clause grammar through exercises where learners
place words and phrases into zones or build sentences from tiles.

Run without a command to play in the terminal.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to a workshop.yaml config file")
	pf.String("log-level", "info", "Log level: debug, info, warn or error")
	pf.String("catalog", "", "Catalog file (YAML or JSON); the built-in catalog is used when empty")
	pf.String("store", config.StoreMemory, "Snapshot store: memory, file or redis")
	pf.String("store-path", "", "Directory of the file snapshot store")
	pf.String("redis-addr", "", "Address of the redis snapshot store")
	pf.String("redis-prefix", "", "Key prefix of the redis snapshot store")
	pf.Duration("redis-ttl", 0, "Expiry of redis snapshots")
}

// loadConfig merges defaults, the config file, the environment and the command's flags.
// Flags left unset never shadow file or environment values.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path, cmd.Flags())
}

// newApp loads the configuration and builds the application for cmd.
func newApp(ctx context.Context, cmd *cobra.Command, logs io.Writer, opts ...cli.AppOption) (*cli.App, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return cli.NewApp(ctx, cfg, append([]cli.AppOption{cli.WithLogWriter(logs)}, opts...)...)
}
