// Package report renders crawl summaries in human-readable text,
// Markdown, and JSON formats.
package report
