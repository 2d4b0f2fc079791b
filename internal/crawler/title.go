package crawler

import "strings"

// titleSeparator splits a page title from the site-wide suffix that
// documentation sites append ("Some Page | Android Developers").
const titleSeparator = "|"

// BookmarkLabel derives a bookmark label from a page title by cutting
// the site suffix off at the first separator. A title without a
// separator is returned whole, and so is a title that begins with the
// separator: truncating at position zero would yield an empty label.
func BookmarkLabel(title string) string {
	idx := strings.Index(title, titleSeparator)
	if idx <= 0 {
		return strings.TrimSpace(title)
	}
	return strings.TrimSpace(title[:idx])
}
