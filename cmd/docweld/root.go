package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for docweld.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docweld",
		Short: "Weld a documentation site into a single bookmarked PDF",
		Long: `docweld crawls a hierarchically organized documentation website and
assembles every reachable page into one PDF document. The site's
navigation hierarchy is preserved as a nested bookmark tree; sections
that turn out to be empty never appear in it.

Rendering is delegated to a headless Chrome binary, one page at a time,
with a politeness delay between requests. Interrupting a crawl is safe:
pages rendered so far are merged and written out, and a later run with
--recover reuses them instead of rendering again.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewHistoryCmd())
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
