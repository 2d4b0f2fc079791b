package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"

	"github.com/docweld/docweld/internal/bookmark"
	"github.com/docweld/docweld/internal/model"
)

// MarkdownWriter outputs the crawl report as GitHub-flavored Markdown,
// suitable for sharing or archiving alongside the produced document.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.CrawlReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("docweld Crawl Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Site", "`" + report.RootURL + "`"},
			{"Output", "`" + report.OutputFile + "`"},
			{"Started", report.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", report.Duration.String()},
			{"Status", statusText(report)},
			{"Pages rendered", strconv.Itoa(report.PagesRendered)},
			{"Pages recovered", strconv.Itoa(report.PagesRecovered)},
			{"Pages skipped", strconv.Itoa(report.PagesSkipped)},
		},
	})
	md.PlainText("")

	if report.HasFailures() {
		w.writeFailures(md, report)
	}

	if len(report.Outline) > 0 {
		w.writeOutline(md, report)
	}

	return len(md.String()), md.Build()
}

// writeFailures writes the render-failure table.
func (w *MarkdownWriter) writeFailures(md *markdown.Markdown, report *model.CrawlReport) {
	md.H2("Render Failures")
	md.PlainText("")

	rows := make([][]string, 0, len(report.Failures))
	for _, f := range report.Failures {
		rows = append(rows, []string{"`" + f.URL + "`", f.Reason})
	}

	md.Table(markdown.TableSet{
		Header: []string{"URL", "Reason"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeOutline writes the realized bookmark tree as a nested list.
func (w *MarkdownWriter) writeOutline(md *markdown.Markdown, report *model.CrawlReport) {
	md.H2("Table of Contents")
	md.PlainText("")

	var b strings.Builder
	writeOutlineMarkdown(&b, report.Outline, 0)
	md.PlainText(strings.TrimRight(b.String(), "\n"))
	md.PlainText("")
}

// writeOutlineMarkdown renders outline nodes as an indented bullet list.
func writeOutlineMarkdown(b *strings.Builder, nodes []*bookmark.Node, depth int) {
	for _, n := range nodes {
		fmt.Fprintf(b, "%s- %s (p. %d)\n", strings.Repeat("  ", depth), n.Title, n.Page+1)
		writeOutlineMarkdown(b, n.Children, depth+1)
	}
}
