// Package assemble merges rendered per-page artifacts into the single
// output document, maintaining page positions, the lazily realized
// bookmark outline, and the cleanup list of temporary artifacts.
package assemble
