package assemble

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/docweld/docweld/internal/bookmark"
)

// Engine abstracts the document-format mechanics the assembler needs:
// counting the pages of an artifact and writing the merged output with
// its outline. Production code uses the pdfcpu engine; tests substitute
// a fake so the assembler's position and bookmark accounting can be
// exercised without real PDF files.
type Engine interface {
	// PageCount returns the number of pages in the artifact at path.
	PageCount(path string) (int, error)

	// WriteMerged concatenates the artifacts in order into outPath and
	// attaches the outline. Called at most once per assembler.
	WriteMerged(paths []string, outline []*bookmark.Node, outPath string) error
}

// Assembler owns the growing output document. It appends rendered page
// artifacts in visitation order, realizes pending headings at each
// append, and performs the single final write followed by artifact
// cleanup.
type Assembler struct {
	engine   Engine
	outPath  string
	headings *bookmark.Hierarchy

	// artifacts are the merged artifact paths, in append order. Every
	// tracked artifact is deleted (best effort) after the final write.
	artifacts []string

	// pages is the running page count of the assembled document; the
	// next append records its content at this position.
	pages int

	logger *slog.Logger
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithLogger sets the logger used for cleanup warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Assembler) {
		a.logger = logger
	}
}

// New creates an Assembler that writes the merged document to outPath.
func New(engine Engine, outPath string, opts ...Option) *Assembler {
	a := &Assembler{
		engine:   engine,
		outPath:  outPath,
		headings: bookmark.New(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// PushHeading opens a pending table-of-contents heading. It gains a
// position only when content is appended while it is open.
func (a *Assembler) PushHeading(label string, nesting bool) {
	a.headings.Push(label, nesting)
}

// PopHeading closes the current heading. Headings popped while still
// pending leave no trace in the output.
func (a *Assembler) PopHeading() {
	a.headings.Pop()
}

// Append records the artifact's content at the next position of the
// assembled document. Pending ancestor headings are realized at that
// position first, so they point at the first page of their subtree;
// then, if asBookmark, a leaf bookmark with the given label is added at
// the same position under the nearest realized ancestor. The artifact
// is tracked for cleanup after the final write.
//
// Append returns the zero-based position the content was recorded at.
func (a *Assembler) Append(path, label string, asBookmark bool) (int, error) {
	n, err := a.engine.PageCount(path)
	if err != nil {
		return 0, fmt.Errorf("read artifact %s: %w", path, err)
	}

	pos := a.pages
	a.headings.RealizePending(pos)
	if asBookmark {
		a.headings.AddLeaf(label, pos)
	}

	a.artifacts = append(a.artifacts, path)
	a.pages += n
	return pos, nil
}

// Finish writes the assembled document to its final destination exactly
// once and then deletes every tracked artifact. Artifact deletion is
// best effort: individual failures are logged, not fatal. If the final
// write fails, artifacts are left in place so a later run can recover
// them.
func (a *Assembler) Finish() error {
	if len(a.artifacts) == 0 {
		a.logger.Warn("no pages assembled; skipping output write", "output", a.outPath)
		return nil
	}

	if err := a.engine.WriteMerged(a.artifacts, a.headings.Outline(), a.outPath); err != nil {
		return fmt.Errorf("write merged document %s: %w", a.outPath, err)
	}

	for _, path := range a.artifacts {
		if err := os.Remove(path); err != nil {
			a.logger.Warn("failed to remove artifact", "path", path, "error", err)
		}
	}
	return nil
}

// PageCount returns the current page count of the assembled document.
func (a *Assembler) PageCount() int {
	return a.pages
}

// ArtifactCount returns the number of artifacts tracked for cleanup.
func (a *Assembler) ArtifactCount() int {
	return len(a.artifacts)
}

// Outline returns the realized bookmark tree assembled so far.
func (a *Assembler) Outline() []*bookmark.Node {
	return a.headings.Outline()
}
