// Package main provides the entry point for the webscrap CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for webscrap.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webscrap",
		Short: "Crawl governance pages and segment them into text chunks",
		Long: `webscrap crawls corporate governance and IR pages within a single domain,
segments their content into structured text chunks with section, chapter,
and article context, and writes text, JSON, or Markdown reports.

Crawl results are stored in a local SQLite database so successive runs of
the same site can be compared with 'webscrap diff'.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewDiffCmd())
	cmd.AddCommand(NewPDFCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
