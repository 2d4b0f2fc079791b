// Package crawler walks a documentation site's navigation hierarchy
// depth-first and drives the document assembler: headings are pushed
// and popped around navigation groups, and leaves are rendered and
// appended in source order. Navigation extraction is selector-driven
// and site-specific; the traversal itself is not.
package crawler
