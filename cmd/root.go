// Package cmd defines and implements the CLI commands for the catalog
// scraper executable.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog-scraper",
		Short: "Scrapes a university course catalog into Postgres.",
		Long: `catalog-scraper walks a university bulletin site from its course-description
index: category pages, then subject pages, then individual course blocks. Each
course is parsed into a record and new records are batch-inserted into the
Classes table, skipping codes that are already present.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	cmd.AddCommand(newScrapeCmd())

	return cmd
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
