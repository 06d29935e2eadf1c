package main

import (
	"fmt"

	"github.com/aretw0/workshop"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of workshop",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "workshop version %s\n", workshop.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
