package config

import (
	"net/url"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values. These mirror the behavior of polite,
// sequential documentation crawling: one request at a time with a
// one-second pause before each render.
const (
	// DefaultDelay is the pause applied before each page render.
	// This is a politeness setting; documentation sites are crawled
	// strictly sequentially, so the delay is the only rate limiter.
	DefaultDelay = 1 * time.Second

	// DefaultFetchTimeout bounds a single navigation/page fetch.
	DefaultFetchTimeout = 30 * time.Second

	// DefaultRenderTimeout bounds a single external render invocation.
	// Rendering large reference pages in a headless browser can take
	// tens of seconds; two minutes is generous without hanging forever.
	DefaultRenderTimeout = 2 * time.Minute

	// DefaultOutputFile is the merged document written at the end.
	DefaultOutputFile = "docweld.pdf"

	// DefaultUserAgent identifies docweld in HTTP requests so that
	// site operators can recognize crawler traffic in their logs.
	DefaultUserAgent = "docweld/1.0 (+https://github.com/docweld/docweld)"

	// DefaultFDLimit is the file-descriptor limit requested before
	// traversal begins. Large sites open thousands of short-lived
	// artifact handles in sequence.
	DefaultFDLimit = 10000

	// AppName is the application name used for XDG directory paths.
	AppName = "docweld"
)

// Config holds all options for one crawl. It is populated from CLI
// flags and passed explicitly through the traversal and assembler, not
// held as process-wide state, so repeated in-process runs (tests
// included) do not interfere with each other.
type Config struct {
	// RootURL is the documentation site root to crawl.
	RootURL string

	// OutputFile is the path of the merged output document.
	OutputFile string

	// WorkDir is the directory holding per-page rendered artifacts.
	// In recovery mode, an artifact already present here is reused
	// instead of re-rendered.
	WorkDir string

	// Delay is the pause before each render. Zero disables it.
	Delay time.Duration

	// FetchTimeout bounds each navigation/page fetch.
	FetchTimeout time.Duration

	// RenderTimeout bounds each external render invocation.
	RenderTimeout time.Duration

	// ChromeBinary is the headless browser binary used for rendering.
	// Empty means the renderer's default.
	ChromeBinary string

	// UserAgent is sent with navigation fetches.
	UserAgent string

	// Recover enables the recovery fast path: artifacts already on
	// disk under their allocated identifier are reused without
	// invoking the renderer.
	Recover bool

	// DryRun walks the site and logs intended actions without
	// invoking the renderer or writing output.
	DryRun bool

	// FailFast turns a single render failure into a crawl abort
	// instead of a skipped page.
	FailFast bool

	// Verbose enables slog.LevelDebug output.
	Verbose bool

	// JSONReport outputs the crawl report as JSON.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport outputs the crawl report as Markdown.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile writes the crawl report to this path instead of stdout.
	ReportFile string

	// ConfigFilePath is the site-profile configuration file. If empty,
	// .docweld is searched in the current and home directories.
	ConfigFilePath string

	// Profiles holds site profiles loaded from the config file.
	Profiles *File

	// SaveToDB persists the crawl summary to the history database.
	SaveToDB bool

	// DBDir is the directory of the SQLite history database.
	DBDir string
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		OutputFile:    DefaultOutputFile,
		WorkDir:       ".",
		Delay:         DefaultDelay,
		FetchTimeout:  DefaultFetchTimeout,
		RenderTimeout: DefaultRenderTimeout,
		UserAgent:     DefaultUserAgent,
	}
}

// XDGDataDir returns the XDG data directory for docweld.
// On Linux: ~/.local/share/docweld
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Validate checks the configuration and returns the first problem
// found. It runs once after CLI parsing, before the crawl begins.
func (c *Config) Validate() error {
	if c.RootURL == "" {
		return ErrNoRootURL
	}

	u, err := url.Parse(c.RootURL)
	if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") {
		return ErrInvalidRootURL
	}

	if c.OutputFile == "" {
		return ErrNoOutputFile
	}

	if c.Delay < 0 {
		return ErrInvalidDelay
	}

	if c.FetchTimeout <= 0 || c.RenderTimeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	return nil
}
