package assemble

import (
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"

	"github.com/docweld/docweld/internal/bookmark"
)

// PDFEngine implements Engine on top of pdfcpu. The merged document is
// created in a single pass at Finish time and the outline is attached
// afterwards, replacing any bookmarks carried over from the artifacts.
type PDFEngine struct{}

// NewPDFEngine creates a PDFEngine with pdfcpu's default configuration.
func NewPDFEngine() *PDFEngine {
	return &PDFEngine{}
}

// PageCount returns the page count of the PDF at path.
func (e *PDFEngine) PageCount(path string) (int, error) {
	return api.PageCountFile(path)
}

// WriteMerged concatenates the artifacts into outPath and writes the
// outline as the document's bookmark tree.
func (e *PDFEngine) WriteMerged(paths []string, outline []*bookmark.Node, outPath string) error {
	if err := api.MergeCreateFile(paths, outPath, false, nil); err != nil {
		return err
	}
	if len(outline) == 0 {
		return nil
	}
	return api.AddBookmarksFile(outPath, "", toPDFBookmarks(outline), true, nil)
}

// toPDFBookmarks converts the realized outline into pdfcpu bookmarks.
// Outline positions are zero-based; pdfcpu pages are one-based.
func toPDFBookmarks(nodes []*bookmark.Node) []pdfcpu.Bookmark {
	bms := make([]pdfcpu.Bookmark, 0, len(nodes))
	for _, n := range nodes {
		bms = append(bms, pdfcpu.Bookmark{
			Title:    n.Title,
			PageFrom: n.Page + 1,
			Kids:     toPDFBookmarks(n.Children),
		})
	}
	return bms
}
