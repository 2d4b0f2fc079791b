package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/docweld/docweld/internal/model"
)

// dbFileName is the SQLite database file inside the data directory.
const dbFileName = "docweld.db"

// HistoryDB stores completed crawl summaries and their page lists for
// later inspection with the history command. It is bookkeeping only:
// crash recovery is keyed on artifact files, never on this database.
type HistoryDB struct {
	db     *sql.DB
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the history database in dbDir.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, dbFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite DSN: mode=rw prevents creating new files.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports only one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// createTables creates the schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	-- One row per completed (or interrupted) crawl run
	CREATE TABLE IF NOT EXISTS crawls (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		root_url TEXT NOT NULL,
		output_file TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		duration_ms INTEGER NOT NULL,
		interrupted INTEGER NOT NULL DEFAULT 0,
		pages_rendered INTEGER NOT NULL DEFAULT 0,
		pages_recovered INTEGER NOT NULL DEFAULT 0,
		pages_skipped INTEGER NOT NULL DEFAULT 0,
		render_failures INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_crawls_root ON crawls(root_url);
	CREATE INDEX IF NOT EXISTS idx_crawls_started ON crawls(started_at);

	-- Pages merged into the output, in visitation order
	CREATE TABLE IF NOT EXISTS pages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		crawl_id INTEGER NOT NULL REFERENCES crawls(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		identifier TEXT NOT NULL,
		url TEXT NOT NULL,
		title TEXT,
		recovered INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_pages_crawl ON pages(crawl_id);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// CrawlSummary is one stored crawl run.
type CrawlSummary struct {
	ID             int64
	RootURL        string
	OutputFile     string
	StartedAt      time.Time
	Duration       time.Duration
	Interrupted    bool
	PagesRendered  int
	PagesRecovered int
	PagesSkipped   int
	RenderFailures int
}

// SaveCrawl persists a crawl report and its page records.
// Returns the new crawl's ID.
func (hdb *HistoryDB) SaveCrawl(ctx context.Context, report *model.CrawlReport) (int64, error) {
	tx, err := hdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit

	result, err := tx.ExecContext(ctx, `
		INSERT INTO crawls (root_url, output_file, started_at, duration_ms,
			interrupted, pages_rendered, pages_recovered, pages_skipped, render_failures)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		report.RootURL,
		report.OutputFile,
		report.StartedAt.UTC().Format(time.RFC3339),
		report.Duration.Milliseconds(),
		boolToInt(report.Interrupted),
		report.PagesRendered,
		report.PagesRecovered,
		report.PagesSkipped,
		len(report.Failures),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert crawl: %w", err)
	}

	crawlID, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, page := range report.Pages {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO pages (crawl_id, position, identifier, url, title, recovered)
			VALUES (?, ?, ?, ?, ?, ?)`,
			crawlID, page.Position, page.Identifier, page.URL, page.Title, boolToInt(page.Recovered),
		); err != nil {
			return 0, fmt.Errorf("failed to insert page record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit crawl: %w", err)
	}
	return crawlID, nil
}

// ListCrawls returns stored crawls, most recent first, up to limit.
// A non-positive limit returns all crawls.
func (hdb *HistoryDB) ListCrawls(ctx context.Context, limit int) ([]CrawlSummary, error) {
	query := `
	SELECT id, root_url, output_file, started_at, duration_ms, interrupted,
		pages_rendered, pages_recovered, pages_skipped, render_failures
	FROM crawls
	ORDER BY started_at DESC, id DESC`

	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list crawls: %w", err)
	}
	defer rows.Close()

	var crawls []CrawlSummary
	for rows.Next() {
		var c CrawlSummary
		var startedAt string
		var durationMs int64
		var interrupted int

		if err := rows.Scan(&c.ID, &c.RootURL, &c.OutputFile, &startedAt, &durationMs,
			&interrupted, &c.PagesRendered, &c.PagesRecovered, &c.PagesSkipped, &c.RenderFailures); err != nil {
			return nil, fmt.Errorf("failed to scan crawl: %w", err)
		}

		c.StartedAt = parseTimestamp(startedAt)
		c.Duration = time.Duration(durationMs) * time.Millisecond
		c.Interrupted = interrupted != 0
		crawls = append(crawls, c)
	}
	return crawls, rows.Err()
}

// ListPages returns the page records of a stored crawl, in visitation order.
func (hdb *HistoryDB) ListPages(ctx context.Context, crawlID int64) ([]model.PageRecord, error) {
	rows, err := hdb.db.QueryContext(ctx, `
		SELECT position, identifier, url, title, recovered
		FROM pages
		WHERE crawl_id = ?
		ORDER BY position`, crawlID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}
	defer rows.Close()

	var pages []model.PageRecord
	for rows.Next() {
		var p model.PageRecord
		var recovered int
		if err := rows.Scan(&p.Position, &p.Identifier, &p.URL, &p.Title, &recovered); err != nil {
			return nil, fmt.Errorf("failed to scan page record: %w", err)
		}
		p.Recovered = recovered != 0
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// parseTimestamp parses the timestamp formats SQLite may return.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05Z07:00"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
