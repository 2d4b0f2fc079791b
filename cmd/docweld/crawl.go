package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/docweld/docweld/internal/assemble"
	"github.com/docweld/docweld/internal/config"
	"github.com/docweld/docweld/internal/crawler"
	"github.com/docweld/docweld/internal/database"
	"github.com/docweld/docweld/internal/fdlimit"
	"github.com/docweld/docweld/internal/log"
	"github.com/docweld/docweld/internal/model"
	"github.com/docweld/docweld/internal/render"
	"github.com/docweld/docweld/internal/report"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [url]",
		Short: "Crawl a documentation site into one bookmarked PDF",
		Long: `Crawl a documentation site starting at the given root URL, render
every reachable page with headless Chrome, and weld the renders into a
single PDF whose bookmark tree mirrors the site's navigation.

Pages are visited strictly one at a time, with a politeness delay
before each render. Ctrl-C finishes the document with the pages
rendered so far. If a crawl aborts, rerun it with --recover to reuse
the per-page artifacts left in the work directory.`,
		Example: `  docweld crawl https://developer.android.com
  docweld crawl -o android.pdf -w ./work https://developer.android.com
  docweld crawl --recover https://developer.android.com
  docweld crawl --dry-run https://developer.android.com`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildCrawlConfig(cmd, args)
			if err != nil {
				return err
			}
			return runCrawl(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringP("output", "o", config.DefaultOutputFile, "Path of the merged output document")
	cmd.Flags().StringP("work-dir", "w", ".", "Directory for per-page rendered artifacts")
	cmd.Flags().Duration("delay", config.DefaultDelay, "Politeness delay before each render")
	cmd.Flags().DurationP("timeout", "t", config.DefaultFetchTimeout, "Timeout for each navigation fetch")
	cmd.Flags().Duration("render-timeout", config.DefaultRenderTimeout, "Timeout for each page render")
	cmd.Flags().String("chrome", "", "Headless browser binary (default \""+render.DefaultBinary+"\")")
	cmd.Flags().String("user-agent", config.DefaultUserAgent, "User-Agent header for navigation fetches")
	cmd.Flags().BoolP("recover", "r", false, "Reuse artifacts already present in the work directory")
	cmd.Flags().BoolP("dry-run", "n", false, "Walk the site and log intended renders without rendering")
	cmd.Flags().Bool("fail-fast", false, "Abort the crawl on the first render failure")
	cmd.Flags().StringP("config", "c", "", "Site-profile configuration file (default \""+config.DefaultConfigFile+"\")")
	cmd.Flags().BoolP("json", "j", false, "Output the crawl report in JSON format")
	cmd.Flags().BoolP("markdown", "m", false, "Output the crawl report in Markdown format")
	cmd.Flags().String("report-file", "", "Write the crawl report to a file instead of stdout")
	cmd.Flags().Bool("no-db", false, "Do not record the crawl in the history database")

	return cmd
}

// buildCrawlConfig creates a crawl configuration from command flags.
func buildCrawlConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.RootURL = args[0]

	var err error
	if cfg.OutputFile, err = cmd.Flags().GetString("output"); err != nil {
		return nil, err
	}
	if cfg.WorkDir, err = cmd.Flags().GetString("work-dir"); err != nil {
		return nil, err
	}
	if cfg.Delay, err = cmd.Flags().GetDuration("delay"); err != nil {
		return nil, err
	}
	if cfg.FetchTimeout, err = cmd.Flags().GetDuration("timeout"); err != nil {
		return nil, err
	}
	if cfg.RenderTimeout, err = cmd.Flags().GetDuration("render-timeout"); err != nil {
		return nil, err
	}
	if cfg.ChromeBinary, err = cmd.Flags().GetString("chrome"); err != nil {
		return nil, err
	}
	if cfg.UserAgent, err = cmd.Flags().GetString("user-agent"); err != nil {
		return nil, err
	}
	if cfg.Recover, err = cmd.Flags().GetBool("recover"); err != nil {
		return nil, err
	}
	if cfg.DryRun, err = cmd.Flags().GetBool("dry-run"); err != nil {
		return nil, err
	}
	if cfg.FailFast, err = cmd.Flags().GetBool("fail-fast"); err != nil {
		return nil, err
	}
	cfg.Verbose = getVerboseFlag(cmd)
	if cfg.JSONReport, err = cmd.Flags().GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = cmd.Flags().GetString("report-file"); err != nil {
		return nil, err
	}
	if cfg.ConfigFilePath, err = cmd.Flags().GetString("config"); err != nil {
		return nil, err
	}

	noDB, err := cmd.Flags().GetBool("no-db")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noDB
	cfg.DBDir = config.XDGDataDir()

	if err := loadProfiles(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// loadProfiles loads the site-profile file into cfg. A missing file is
// an error only when its path was given explicitly.
func loadProfiles(cfg *config.Config) error {
	path := config.FindConfigFile(cfg.ConfigFilePath)
	if path == "" {
		if cfg.ConfigFilePath != "" {
			return fmt.Errorf("config file %s: %w", cfg.ConfigFilePath, config.ErrConfigNotFound)
		}
		cfg.Profiles = &config.File{}
		return nil
	}

	profiles, err := config.LoadConfigFile(path)
	if err != nil {
		return fmt.Errorf("load config file %s: %w", path, err)
	}
	cfg.Profiles = profiles
	return nil
}

// runCrawl executes one crawl: traversal, assembly, report, history.
func runCrawl(ctx context.Context, cfg *config.Config) error {
	logger := log.NewSecureLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Large sites open thousands of short-lived artifact handles.
	if err := fdlimit.Raise(config.DefaultFDLimit); err != nil {
		logger.Warn("could not raise file-descriptor limit", "error", err)
	}

	if err := os.MkdirAll(cfg.WorkDir, 0750); err != nil {
		return fmt.Errorf("create work directory %s: %w", cfg.WorkDir, err)
	}

	rootURL, err := url.Parse(cfg.RootURL)
	if err != nil {
		return fmt.Errorf("parse root URL: %w", err)
	}
	profile := cfg.Profiles.GetProfile(rootURL.Host)

	extractor := crawler.NewSiteExtractor(profile,
		crawler.WithHTTPClient(&http.Client{Timeout: cfg.FetchTimeout}),
		crawler.WithUserAgent(cfg.UserAgent),
		crawler.WithExtractorLogger(logger),
	)
	renderer := render.NewChrome(
		render.WithBinary(cfg.ChromeBinary),
		render.WithTimeout(cfg.RenderTimeout),
		render.WithLogger(logger),
	)
	asm := assemble.New(assemble.NewPDFEngine(), cfg.OutputFile,
		assemble.WithLogger(logger),
	)
	walker := crawler.NewWalker(extractor, renderer, asm,
		crawler.WithWorkDir(cfg.WorkDir),
		crawler.WithDelay(cfg.Delay),
		crawler.WithRecovery(cfg.Recover),
		crawler.WithDryRun(cfg.DryRun),
		crawler.WithFailFast(cfg.FailFast),
		crawler.WithWalkerLogger(logger),
	)

	started := time.Now()
	logger.Info("starting crawl", "url", cfg.RootURL, "output", cfg.OutputFile, "dry_run", cfg.DryRun)

	walkErr := walker.Walk(ctx, cfg.RootURL)
	interrupted := errors.Is(walkErr, context.Canceled)

	if walkErr != nil && !interrupted {
		// Artifacts stay in the work directory so a rerun with
		// --recover skips the pages already rendered.
		if asm.ArtifactCount() > 0 {
			logger.Error("crawl aborted; artifacts kept for recovery",
				"work_dir", cfg.WorkDir, "artifacts", asm.ArtifactCount())
			return fmt.Errorf("%w (rerun with --recover to reuse %d rendered pages)", walkErr, asm.ArtifactCount())
		}
		return walkErr
	}

	if interrupted {
		logger.Warn("crawl interrupted; finishing with pages rendered so far",
			"pages", asm.PageCount())
	}

	if !cfg.DryRun {
		if err := asm.Finish(); err != nil {
			return err
		}
	}

	stats := walker.Stats()
	crawlReport := &model.CrawlReport{
		RootURL:        cfg.RootURL,
		OutputFile:     cfg.OutputFile,
		StartedAt:      started,
		Duration:       time.Since(started),
		DryRun:         cfg.DryRun,
		Interrupted:    interrupted,
		PagesRendered:  stats.PagesRendered,
		PagesRecovered: stats.PagesRecovered,
		PagesSkipped:   stats.PagesSkipped,
		PagesPlanned:   stats.PagesPlanned,
		Failures:       stats.Failures,
		Pages:          stats.Pages,
		Outline:        asm.Outline(),
	}

	if err := outputReport(cfg, crawlReport); err != nil {
		return fmt.Errorf("write crawl report: %w", err)
	}

	if cfg.SaveToDB && !cfg.DryRun {
		saveCrawlHistory(ctx, cfg, crawlReport, logger)
	}
	return nil
}

// outputReport writes the crawl report in the configured format.
func outputReport(cfg *config.Config, crawlReport *model.CrawlReport) error {
	var output io.Writer = os.Stdout
	if cfg.ReportFile != "" {
		if dir := filepath.Dir(cfg.ReportFile); dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("create report directory: %w", err)
			}
		}
		f, err := os.Create(cfg.ReportFile) //nolint:gosec // User-provided report path is intentional
		if err != nil {
			return fmt.Errorf("create report file: %w", err)
		}
		defer f.Close()
		output = f
	}

	switch {
	case cfg.JSONReport:
		_, err := report.NewJSONWriter(output, report.WithPrettyPrint()).Write(crawlReport)
		return err
	case cfg.MarkdownReport:
		_, err := report.NewMarkdownWriter(output).Write(crawlReport)
		return err
	default:
		_, err := report.NewSimpleWriter(output).Write(crawlReport)
		return err
	}
}

// saveCrawlHistory records the crawl in the history database.
// History is bookkeeping only, so failures are logged, not fatal.
func saveCrawlHistory(ctx context.Context, cfg *config.Config, crawlReport *model.CrawlReport, logger *slog.Logger) {
	hdb, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		logger.Warn("could not open history database", "dir", cfg.DBDir, "error", err)
		return
	}
	defer hdb.Close()

	// A signal may already have canceled ctx; history still gets written.
	id, err := hdb.SaveCrawl(context.WithoutCancel(ctx), crawlReport)
	if err != nil {
		logger.Warn("could not save crawl history", "error", err)
		return
	}
	logger.Info("crawl recorded", "crawl_id", id)
}
