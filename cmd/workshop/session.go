package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aretw0/workshop/internal/cli"
	"github.com/aretw0/workshop/internal/config"
	"github.com/aretw0/workshop/pkg/ports"
	"github.com/aretw0/workshop/pkg/runner"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Inspect recorded session snapshots",
	Long: `List, inspect and remove the board snapshots a running server records in
the file or redis store. Snapshots show what learners currently see; they cannot
be resumed.`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List recorded sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(store ports.SnapshotStore) error {
			ids, err := store.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list sessions: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(ids) == 0 {
				fmt.Fprintln(out, "No active sessions found.")
				return nil
			}
			fmt.Fprintln(out, "Active Sessions:")
			for _, id := range ids {
				snap, err := store.Load(cmd.Context(), id)
				if err != nil {
					fmt.Fprintf(out, "- %s (unreadable: %v)\n", id, err)
					continue
				}
				fmt.Fprintf(out, "- %s  %s  %d/%d\n", id, snap.ExerciseID, snap.Progress.Correct, snap.Progress.Total)
			}
			return nil
		})
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <session-id>",
	Short: "Show the board of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(store ports.SnapshotStore) error {
			snap, err := store.Load(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to load session %q: %w", args[0], err)
			}
			out := cmd.OutOrStdout()
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(snap)
			}
			fmt.Fprint(out, runner.RenderMarkdown(snap))
			return nil
		})
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <session-id>...",
	Short: "Remove one or more recorded sessions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(store ports.SnapshotStore) error {
			var errs []error
			for _, id := range args {
				if err := store.Delete(cmd.Context(), id); err != nil {
					errs = append(errs, fmt.Errorf("failed to remove %q: %w", id, err))
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed session '%s'\n", id)
			}
			return errors.Join(errs...)
		})
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionInspectCmd)
	sessionCmd.AddCommand(sessionRmCmd)

	sessionInspectCmd.Flags().Bool("json", false, "Print the raw snapshot as JSON")
}

func withStore(cmd *cobra.Command, fn func(ports.SnapshotStore) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Store.Driver == config.StoreMemory {
		return fmt.Errorf("the memory store only lives inside a running server; use --store file or --store redis")
	}
	store, closeStore, err := cli.OpenStore(cmd.Context(), cfg.Store)
	if err != nil {
		return err
	}
	defer closeStore()
	return fn(store)
}
