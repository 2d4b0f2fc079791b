package model

import (
	"time"

	"github.com/docweld/docweld/internal/bookmark"
)

// PageRecord describes one page merged into the assembled document.
type PageRecord struct {
	// Position is the zero-based page index at which the page's first
	// sheet was recorded in the assembled document.
	Position int `json:"position"`

	// Identifier is the allocated filesystem-safe identifier of the page.
	Identifier string `json:"identifier"`

	// URL is the source URL of the page.
	URL string `json:"url"`

	// Title is the bookmark label used for the page.
	Title string `json:"title"`

	// Recovered reports whether the page was reused from a previously
	// rendered artifact instead of being rendered again.
	Recovered bool `json:"recovered"`
}

// RenderFailure describes a page that could not be rendered.
// Failed pages are skipped; they contribute neither content nor bookmarks.
type RenderFailure struct {
	// URL is the page that failed to render.
	URL string `json:"url"`

	// Label is the bookmark label the page would have received.
	Label string `json:"label"`

	// Reason is the renderer's error message.
	Reason string `json:"reason"`
}

// CrawlReport summarizes one crawl run. It is written as the crawl
// report (text, Markdown, or JSON) and persisted to the history database.
type CrawlReport struct {
	// RootURL is the documentation site root that was crawled.
	RootURL string `json:"root_url"`

	// OutputFile is the path of the assembled document.
	OutputFile string `json:"output_file"`

	// StartedAt is when the crawl began.
	StartedAt time.Time `json:"started_at"`

	// Duration is the total crawl wall-clock time.
	Duration time.Duration `json:"duration"`

	// DryRun reports whether the crawl only logged intended actions.
	DryRun bool `json:"dry_run"`

	// Interrupted reports whether the crawl was cut short by a signal.
	// An interrupted crawl still writes the pages assembled so far.
	Interrupted bool `json:"interrupted"`

	// PagesRendered is the number of pages rendered by the external renderer.
	PagesRendered int `json:"pages_rendered"`

	// PagesRecovered is the number of pages reused from on-disk artifacts.
	PagesRecovered int `json:"pages_recovered"`

	// PagesSkipped is the number of leaves skipped because their URL
	// already denotes a finished document.
	PagesSkipped int `json:"pages_skipped"`

	// PagesPlanned is the number of pages a dry run would have rendered.
	PagesPlanned int `json:"pages_planned"`

	// Failures lists pages whose render failed and was skipped.
	Failures []RenderFailure `json:"failures,omitempty"`

	// Pages lists the merged pages in visitation order.
	Pages []PageRecord `json:"pages,omitempty"`

	// Outline is the realized bookmark tree of the assembled document.
	Outline []*bookmark.Node `json:"outline,omitempty"`
}

// TotalPages returns the number of pages merged into the output.
func (r *CrawlReport) TotalPages() int {
	return r.PagesRendered + r.PagesRecovered
}

// HasFailures reports whether any page render failed.
func (r *CrawlReport) HasFailures() bool {
	return len(r.Failures) > 0
}
