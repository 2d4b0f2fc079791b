package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/docweld/docweld/internal/config"
	"github.com/docweld/docweld/internal/database"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past crawls recorded in the history database",
		Long: `List past crawls recorded in the history database, most recent
first. With --crawl, show the pages of one recorded crawl in the order
they were merged into the output document.`,
		Example: `  docweld history
  docweld history --limit 5
  docweld history --crawl 3`,
		RunE: runHistory,
	}

	cmd.Flags().IntP("limit", "l", 20, "Maximum number of crawls to list (0 for all)")
	cmd.Flags().Int64("crawl", 0, "Show the page list of the crawl with this ID")
	cmd.Flags().BoolP("json", "j", false, "Output in JSON format")

	return cmd
}

// runHistory lists stored crawls or the pages of one crawl.
func runHistory(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	crawlID, err := cmd.Flags().GetInt64("crawl")
	if err != nil {
		return err
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	opts := database.DefaultOptions()
	opts.CreateIfNotExists = false

	hdb, err := database.Open(config.XDGDataDir(), opts)
	if err != nil {
		return fmt.Errorf("no crawl history yet: %w", err)
	}
	defer hdb.Close()

	if crawlID > 0 {
		return showPages(cmd, hdb, crawlID, asJSON)
	}
	return showCrawls(cmd, hdb, limit, asJSON)
}

// showCrawls prints stored crawl summaries.
func showCrawls(cmd *cobra.Command, hdb *database.HistoryDB, limit int, asJSON bool) error {
	crawls, err := hdb.ListCrawls(cmd.Context(), limit)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(crawls)
	}

	if len(crawls) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No crawls recorded yet.")
		return nil
	}

	for _, c := range crawls {
		status := "complete"
		if c.Interrupted {
			status = "interrupted"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "[%d] %s\n", c.ID, c.RootURL)
		fmt.Fprintf(cmd.OutOrStdout(), "    started %s, took %s, %s\n",
			c.StartedAt.Local().Format("2006-01-02 15:04:05"),
			c.Duration.Round(time.Millisecond),
			status)
		fmt.Fprintf(cmd.OutOrStdout(), "    %d rendered, %d recovered, %d skipped, %d failed -> %s\n",
			c.PagesRendered, c.PagesRecovered, c.PagesSkipped, c.RenderFailures, c.OutputFile)
	}
	return nil
}

// showPages prints the page list of one stored crawl.
func showPages(cmd *cobra.Command, hdb *database.HistoryDB, crawlID int64, asJSON bool) error {
	pages, err := hdb.ListPages(cmd.Context(), crawlID)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(pages)
	}

	if len(pages) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No pages recorded for crawl %d.\n", crawlID)
		return nil
	}

	for _, p := range pages {
		marker := ""
		if p.Recovered {
			marker = " (recovered)"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "p.%-5d %s%s\n", p.Position+1, p.URL, marker)
		fmt.Fprintf(cmd.OutOrStdout(), "        %s\n", p.Title)
	}
	return nil
}
