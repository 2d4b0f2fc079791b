package main

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/docweld/docweld/internal/config"
)

// findSubcommand returns the named subcommand of root.
func findSubcommand(t *testing.T, root *cobra.Command, name string) *cobra.Command {
	t.Helper()

	for _, sub := range root.Commands() {
		if sub.Name() == name {
			return sub
		}
	}
	t.Fatalf("subcommand %q not registered", name)
	return nil
}

// TestNewCrawlCmd tests the crawl command definition.
func TestNewCrawlCmd(t *testing.T) {
	t.Parallel()

	cmd := NewCrawlCmd()

	t.Run("requires exactly one URL argument", func(t *testing.T) {
		t.Parallel()
		if err := cmd.Args(cmd, []string{}); err == nil {
			t.Error("expected error for missing URL")
		}
		if err := cmd.Args(cmd, []string{"https://a.example", "https://b.example"}); err == nil {
			t.Error("expected error for two URLs")
		}
		if err := cmd.Args(cmd, []string{"https://a.example"}); err != nil {
			t.Errorf("expected one URL to be accepted, got %v", err)
		}
	})

	t.Run("has expected flags", func(t *testing.T) {
		t.Parallel()
		for _, name := range []string{
			"output", "work-dir", "delay", "timeout", "render-timeout",
			"chrome", "user-agent", "recover", "dry-run", "fail-fast",
			"config", "json", "markdown", "report-file", "no-db",
		} {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("expected flag %q", name)
			}
		}
	})

	t.Run("default output file", func(t *testing.T) {
		t.Parallel()
		if got := cmd.Flags().Lookup("output").DefValue; got != config.DefaultOutputFile {
			t.Errorf("expected default %q, got %q", config.DefaultOutputFile, got)
		}
	})
}

// TestBuildCrawlConfig tests flag-to-config translation.
func TestBuildCrawlConfig(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		cmd := NewCrawlCmd()
		if err := cmd.ParseFlags([]string{}); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildCrawlConfig(cmd, []string{"https://developer.android.com"})
		if err != nil {
			t.Fatalf("buildCrawlConfig returned error: %v", err)
		}

		if cfg.RootURL != "https://developer.android.com" {
			t.Errorf("unexpected root URL %q", cfg.RootURL)
		}
		if cfg.OutputFile != config.DefaultOutputFile {
			t.Errorf("unexpected output file %q", cfg.OutputFile)
		}
		if cfg.Delay != config.DefaultDelay {
			t.Errorf("unexpected delay %v", cfg.Delay)
		}
		if !cfg.SaveToDB {
			t.Error("expected history saving on by default")
		}
		if cfg.Profiles == nil {
			t.Error("expected profiles to be populated")
		}
	})

	t.Run("flags override defaults", func(t *testing.T) {
		t.Parallel()

		cmd := NewCrawlCmd()
		args := []string{
			"--output", "android.pdf",
			"--work-dir", t.TempDir(),
			"--delay", "250ms",
			"--recover",
			"--fail-fast",
			"--no-db",
		}
		if err := cmd.ParseFlags(args); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildCrawlConfig(cmd, []string{"https://developer.android.com"})
		if err != nil {
			t.Fatalf("buildCrawlConfig returned error: %v", err)
		}

		if cfg.OutputFile != "android.pdf" {
			t.Errorf("unexpected output file %q", cfg.OutputFile)
		}
		if cfg.Delay != 250*time.Millisecond {
			t.Errorf("unexpected delay %v", cfg.Delay)
		}
		if !cfg.Recover || !cfg.FailFast {
			t.Error("expected recover and fail-fast to be set")
		}
		if cfg.SaveToDB {
			t.Error("expected --no-db to disable history saving")
		}
	})

	t.Run("invalid URL is rejected", func(t *testing.T) {
		t.Parallel()

		cmd := NewCrawlCmd()
		if err := cmd.ParseFlags([]string{}); err != nil {
			t.Fatal(err)
		}

		_, err := buildCrawlConfig(cmd, []string{"not-a-url"})
		if !errors.Is(err, config.ErrInvalidRootURL) {
			t.Errorf("expected ErrInvalidRootURL, got %v", err)
		}
	})

	t.Run("conflicting report formats are rejected", func(t *testing.T) {
		t.Parallel()

		cmd := NewCrawlCmd()
		if err := cmd.ParseFlags([]string{"--json", "--markdown"}); err != nil {
			t.Fatal(err)
		}

		_, err := buildCrawlConfig(cmd, []string{"https://developer.android.com"})
		if !errors.Is(err, config.ErrConflictingReportFormats) {
			t.Errorf("expected ErrConflictingReportFormats, got %v", err)
		}
	})

	t.Run("explicit missing config file is an error", func(t *testing.T) {
		t.Parallel()

		cmd := NewCrawlCmd()
		if err := cmd.ParseFlags([]string{"--config", "/no/such/file"}); err != nil {
			t.Fatal(err)
		}

		_, err := buildCrawlConfig(cmd, []string{"https://developer.android.com"})
		if !errors.Is(err, config.ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})
}

// TestGetVerboseFlag tests the verbose flag retrieval through the
// command hierarchy.
func TestGetVerboseFlag(t *testing.T) {
	t.Parallel()

	t.Run("default is false", func(t *testing.T) {
		t.Parallel()
		if getVerboseFlag(NewCrawlCmd()) {
			t.Error("expected false without the flag")
		}
	})

	t.Run("reads the root persistent flag", func(t *testing.T) {
		t.Parallel()

		root := NewRootCmd()
		crawl := findSubcommand(t, root, "crawl")
		if err := root.PersistentFlags().Set("verbose", "true"); err != nil {
			t.Fatal(err)
		}

		if !getVerboseFlag(crawl) {
			t.Error("expected true from the root verbose flag")
		}
	})
}

// TestRunCrawlValidation verifies that an unusable configuration fails
// before any network activity.
func TestRunCrawlValidation(t *testing.T) {
	t.Parallel()

	root := NewRootCmd()
	root.SetArgs([]string{"crawl", "ftp://example.com/docs"})

	err := root.Execute()
	if err == nil {
		t.Fatal("expected error for non-http root URL")
	}
	if !strings.Contains(err.Error(), "root URL") {
		t.Errorf("unexpected error %v", err)
	}
}
