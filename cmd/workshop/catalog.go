package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/aretw0/workshop"
	"github.com/aretw0/workshop/pkg/adapters/file"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect and validate exercise catalogs",
}

var catalogLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List the exercises",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkshop(cmd)
		if err != nil {
			return err
		}
		exercises, err := ws.Exercises(cmd.Context())
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTITLE\tLAYOUT\tPROBLEMS")
		for _, ex := range exercises {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", ex.ID, ex.Title, ex.Rules.Layout, len(ex.Problems))
		}
		return tw.Flush()
	},
}

var catalogShowCmd = &cobra.Command{
	Use:   "show <exercise-id>",
	Short: "Print an exercise and its rules",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkshop(cmd)
		if err != nil {
			return err
		}
		ex, err := ws.Exercise(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(ex)
		}

		fmt.Fprintf(out, "%s (%s)\n", ex.Title, ex.ID)
		if ex.Description != "" {
			fmt.Fprintf(out, "%s\n", ex.Description)
		}
		r := ex.Rules
		fmt.Fprintf(out, "\nLayout: %s\nVerification: %s\nAnswer: %s\nExplanations: %s\n",
			r.Layout, r.Verification, r.Answer, r.ExplanationFrom)
		if r.RevertDelay > 0 {
			fmt.Fprintf(out, "Revert delay: %s\n", r.RevertDelay)
		}
		fmt.Fprintf(out, "Shuffled: %t\n\nProblems:\n", r.Shuffle)
		for i, p := range ex.Problems {
			fmt.Fprintf(out, "  %d. %s  (%d items, %d zones)\n", i+1, p.ID, len(p.Items), len(p.Zones))
		}
		return nil
	},
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Check a catalog file for consistency",
	Long: `Loads the catalog file (or the configured one) and reports unknown fields,
inconsistent rules, answers that reference missing items or zones, and duplicate IDs.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) > 0 {
			path = args[0]
		} else {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			path = cfg.Catalog.Path
		}
		if path == "" {
			return fmt.Errorf("no catalog file given; the built-in catalog is validated by its tests")
		}

		c, err := file.NewCatalog(path)
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		ids, err := c.ListExercises(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Catalog is valid! %d exercises ✅\n", len(ids))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogLsCmd)
	catalogCmd.AddCommand(catalogShowCmd)
	catalogCmd.AddCommand(catalogValidateCmd)

	catalogShowCmd.Flags().Bool("json", false, "Print the exercise as JSON")
}

func openWorkshop(cmd *cobra.Command) (*workshop.Workshop, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return workshop.New(workshop.WithCatalogPath(cfg.Catalog.Path))
}
