package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/docweld/docweld/internal/ident"
	"github.com/docweld/docweld/internal/model"
	"github.com/docweld/docweld/internal/render"
)

// renderedExt is the extension of rendered artifacts. A leaf whose URL
// already ends in it denotes a finished document and is skipped.
const renderedExt = ".pdf"

// maxTabDepth bounds how many tab levels are followed before a page is
// treated as a leaf. Documentation sites with the supported layout have
// upper and lower tabs; anything deeper is content.
const maxTabDepth = 2

// Output is the document assembler as seen by the traversal.
type Output interface {
	// PushHeading opens a pending table-of-contents heading.
	PushHeading(label string, nesting bool)

	// PopHeading closes the current heading.
	PopHeading()

	// Append merges the artifact at the next position, realizing
	// pending headings first; returns the zero-based position.
	Append(path, label string, asBookmark bool) (int, error)
}

// Stats collects per-crawl counters and page records.
type Stats struct {
	// PagesRendered counts pages rendered by the external renderer.
	PagesRendered int

	// PagesRecovered counts pages reused from on-disk artifacts.
	PagesRecovered int

	// PagesSkipped counts leaves skipped as already-final documents.
	PagesSkipped int

	// PagesPlanned counts pages a dry run would have rendered.
	PagesPlanned int

	// Failures lists pages whose render failed and was skipped.
	Failures []model.RenderFailure

	// Pages lists merged pages in visitation order.
	Pages []model.PageRecord
}

// Walker performs the depth-first site traversal: it pulls navigation
// structure from the extractor, opens and closes headings on the
// assembler as it enters and leaves groups, and renders leaves in the
// exact order they appear in the source navigation.
//
// The traversal is strictly sequential. All mutation is ordered by the
// recursion's call stack; the only suspension points are the politeness
// delay and the render invocation itself.
type Walker struct {
	extractor Extractor
	renderer  render.Renderer
	output    Output
	idents    *ident.Allocator

	workDir     string
	delay       time.Duration
	recoverMode bool
	dryRun      bool
	failFast    bool
	logger      *slog.Logger

	stats Stats
}

// WalkerOption configures a Walker.
type WalkerOption func(*Walker)

// WithWorkDir sets the directory holding per-page artifacts.
func WithWorkDir(dir string) WalkerOption {
	return func(w *Walker) {
		if dir != "" {
			w.workDir = dir
		}
	}
}

// WithDelay sets the politeness delay applied before each render.
func WithDelay(d time.Duration) WalkerOption {
	return func(w *Walker) {
		w.delay = d
	}
}

// WithRecovery enables the recovery fast path: an artifact already on
// disk under its allocated identifier is reused instead of re-rendered.
func WithRecovery(enabled bool) WalkerOption {
	return func(w *Walker) {
		w.recoverMode = enabled
	}
}

// WithDryRun makes the walker log intended renders without invoking
// the renderer or appending output.
func WithDryRun(enabled bool) WalkerOption {
	return func(w *Walker) {
		w.dryRun = enabled
	}
}

// WithFailFast turns render failures into crawl aborts.
func WithFailFast(enabled bool) WalkerOption {
	return func(w *Walker) {
		w.failFast = enabled
	}
}

// WithWalkerLogger sets the traversal logger.
func WithWalkerLogger(logger *slog.Logger) WalkerOption {
	return func(w *Walker) {
		w.logger = logger
	}
}

// NewWalker creates a Walker over the given collaborators.
func NewWalker(extractor Extractor, renderer render.Renderer, output Output, opts ...WalkerOption) *Walker {
	w := &Walker{
		extractor: extractor,
		renderer:  renderer,
		output:    output,
		idents:    ident.NewAllocator(),
		workDir:   ".",
		delay:     time.Second,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Walk crawls the site from rootURL. The root page itself is always
// included first, without a bookmark of its own, under a heading named
// after the root page's title; then each top-level section is visited
// in document order.
//
// A retrieval failure aborts the walk with an error. Context
// cancellation is observed between steps and returns ctx.Err(); the
// caller is expected to still finish the assembler so that pages
// merged so far are written out rather than orphaned.
func (w *Walker) Walk(ctx context.Context, rootURL string) error {
	ext, err := w.extractor.Extract(ctx, rootURL)
	if err != nil {
		return fmt.Errorf("fetch site root: %w", err)
	}

	w.output.PushHeading(strings.TrimSpace(ext.Title), true)

	if err := w.renderLeaf(ctx, rootURL, rootURL, false); err != nil {
		return err
	}

	switch {
	case len(ext.Tabs) > 0:
		for _, tab := range ext.Tabs {
			if err := w.walkTab(ctx, tab, 1); err != nil {
				return err
			}
		}
	case len(ext.Menu) > 0:
		if err := w.walkNodes(ctx, ext.Menu); err != nil {
			return err
		}
	}

	w.output.PopHeading()
	return nil
}

// Stats returns a copy of the crawl counters collected so far.
func (w *Walker) Stats() Stats {
	return w.stats
}

// walkTab visits one section tab. The tab's page is fetched to discover
// its sub-navigation: nested tabs (up to maxTabDepth) and side menus
// become headings over their children; a page with neither is rendered
// as a single leaf labeled by its own title.
func (w *Walker) walkTab(ctx context.Context, tab Tab, depth int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ext, err := w.extractor.Extract(ctx, tab.URL)
	if err != nil {
		return fmt.Errorf("fetch section %q: %w", tab.Label, err)
	}

	if depth < maxTabDepth && len(ext.Tabs) > 0 {
		w.output.PushHeading(tab.Label, true)
		for _, sub := range ext.Tabs {
			if err := w.walkTab(ctx, sub, depth+1); err != nil {
				return err
			}
		}
		w.output.PopHeading()
		return nil
	}

	if len(ext.Menu) > 0 {
		w.output.PushHeading(tab.Label, true)
		if err := w.walkNodes(ctx, ext.Menu); err != nil {
			return err
		}
		w.output.PopHeading()
		return nil
	}

	return w.renderLeaf(ctx, tab.URL, BookmarkLabel(ext.Title), true)
}

// walkNodes visits fully-known navigation nodes depth-first, in
// document order. Groups become headings around their children; leaves
// are rendered and appended.
func (w *Walker) walkNodes(ctx context.Context, nodes []model.NavigationNode) error {
	for _, node := range nodes {
		if err := ctx.Err(); err != nil {
			return err
		}

		if node.IsGroup() {
			w.output.PushHeading(node.Label, node.Nesting)
			if err := w.walkNodes(ctx, node.Children); err != nil {
				return err
			}
			w.output.PopHeading()
			continue
		}

		if err := w.renderLeaf(ctx, node.URL, node.Label, true); err != nil {
			return err
		}
	}
	return nil
}

// renderLeaf renders one page and appends it to the output.
//
// Leaves that already denote finished documents are skipped entirely:
// they contribute no page and no bookmark. In recovery mode an artifact
// already on disk under the allocated identifier is reused without
// invoking the renderer. A render failure skips the single leaf (or
// aborts, in fail-fast mode); an append failure is always fatal.
func (w *Walker) renderLeaf(ctx context.Context, pageURL, label string, asBookmark bool) error {
	if strings.HasSuffix(strings.ToLower(pageURL), renderedExt) {
		w.logger.Debug("skipping already-final document", "url", pageURL)
		w.stats.PagesSkipped++
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	id := w.idents.Allocate(pageURL)
	artifact := filepath.Join(w.workDir, id+renderedExt)

	recovered := false
	switch {
	case w.dryRun:
		if w.recoverMode && fileExists(artifact) {
			w.logger.Info("dry run: would reuse rendered artifact", "url", pageURL, "artifact", artifact)
		} else {
			w.logger.Info("dry run: would render", "url", pageURL, "artifact", artifact)
		}
		w.stats.PagesPlanned++
		return nil

	case w.recoverMode && fileExists(artifact):
		w.logger.Info("reusing rendered artifact", "url", pageURL, "artifact", artifact)
		recovered = true

	default:
		if err := w.sleep(ctx); err != nil {
			return err
		}
		if err := w.renderer.Render(ctx, pageURL, artifact); err != nil {
			if w.failFast {
				return fmt.Errorf("render failed: %w", err)
			}
			w.logger.Warn("render failed; skipping page", "url", pageURL, "error", err)
			w.stats.Failures = append(w.stats.Failures, model.RenderFailure{
				URL:    pageURL,
				Label:  label,
				Reason: err.Error(),
			})
			return nil
		}
	}

	pos, err := w.output.Append(artifact, label, asBookmark)
	if err != nil {
		return fmt.Errorf("append page %s: %w", pageURL, err)
	}

	w.stats.Pages = append(w.stats.Pages, model.PageRecord{
		Position:   pos,
		Identifier: id,
		URL:        pageURL,
		Title:      label,
		Recovered:  recovered,
	})
	if recovered {
		w.stats.PagesRecovered++
	} else {
		w.stats.PagesRendered++
	}
	return nil
}

// sleep waits for the politeness delay or until the context is done.
func (w *Walker) sleep(ctx context.Context) error {
	if w.delay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(w.delay):
		return nil
	}
}

// fileExists reports whether path exists as a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
