package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/docweld/docweld/internal/bookmark"
	"github.com/docweld/docweld/internal/model"
)

// SimpleWriter outputs a human-readable text summary of a crawl.
// This is the default report format.
type SimpleWriter struct {
	baseWriter
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer) *SimpleWriter {
	return &SimpleWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the report as plain text.
func (w *SimpleWriter) Write(report *model.CrawlReport) (int, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "docweld crawl report\n")
	fmt.Fprintf(&b, "====================\n\n")
	fmt.Fprintf(&b, "Site:      %s\n", report.RootURL)
	fmt.Fprintf(&b, "Output:    %s\n", report.OutputFile)
	fmt.Fprintf(&b, "Started:   %s\n", report.StartedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "Duration:  %s\n", report.Duration.Round(time.Millisecond))
	fmt.Fprintf(&b, "Status:    %s\n\n", statusText(report))

	if report.DryRun {
		fmt.Fprintf(&b, "Pages planned:   %d\n", report.PagesPlanned)
	} else {
		fmt.Fprintf(&b, "Pages rendered:  %d\n", report.PagesRendered)
		fmt.Fprintf(&b, "Pages recovered: %d\n", report.PagesRecovered)
	}
	fmt.Fprintf(&b, "Pages skipped:   %d\n", report.PagesSkipped)
	fmt.Fprintf(&b, "Render failures: %d\n", len(report.Failures))

	if report.HasFailures() {
		fmt.Fprintf(&b, "\nFailed pages:\n")
		for _, f := range report.Failures {
			fmt.Fprintf(&b, "  %s: %s\n", f.URL, f.Reason)
		}
	}

	if len(report.Outline) > 0 {
		fmt.Fprintf(&b, "\nTable of contents:\n")
		writeOutlineText(&b, report.Outline, 1)
	}

	return io.WriteString(w.output, b.String())
}

// statusText summarizes the run state.
func statusText(report *model.CrawlReport) string {
	switch {
	case report.DryRun:
		return "dry run (nothing rendered or written)"
	case report.Interrupted:
		return "interrupted (partial document written)"
	default:
		return "complete"
	}
}

// writeOutlineText prints the realized bookmark tree, one entry per
// line, indented by depth, with one-based page numbers.
func writeOutlineText(b *strings.Builder, nodes []*bookmark.Node, depth int) {
	for _, n := range nodes {
		fmt.Fprintf(b, "%s%s (p. %d)\n", strings.Repeat("  ", depth), n.Title, n.Page+1)
		writeOutlineText(b, n.Children, depth+1)
	}
}
