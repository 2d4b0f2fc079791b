// Package database persists crawl history to SQLite. The history is
// informational: recovery after a crash is driven by artifact files on
// disk, not by database state.
package database
