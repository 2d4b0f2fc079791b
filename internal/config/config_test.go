package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestNewConfig verifies that NewConfig returns a Config with all
// expected default values. This serves as living documentation of the
// defaults; changes to them must be intentional.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default OutputFile is docweld.pdf", func(t *testing.T) {
		t.Parallel()
		if cfg.OutputFile != "docweld.pdf" {
			t.Errorf("expected OutputFile to be 'docweld.pdf', got '%s'", cfg.OutputFile)
		}
	})

	t.Run("default WorkDir is the current directory", func(t *testing.T) {
		t.Parallel()
		if cfg.WorkDir != "." {
			t.Errorf("expected WorkDir to be '.', got '%s'", cfg.WorkDir)
		}
	})

	t.Run("default Delay is 1 second", func(t *testing.T) {
		t.Parallel()
		if cfg.Delay != time.Second {
			t.Errorf("expected Delay to be 1s, got %v", cfg.Delay)
		}
	})

	t.Run("default FetchTimeout is 30 seconds", func(t *testing.T) {
		t.Parallel()
		if cfg.FetchTimeout != 30*time.Second {
			t.Errorf("expected FetchTimeout to be 30s, got %v", cfg.FetchTimeout)
		}
	})

	t.Run("default RenderTimeout is 2 minutes", func(t *testing.T) {
		t.Parallel()
		if cfg.RenderTimeout != 2*time.Minute {
			t.Errorf("expected RenderTimeout to be 2m, got %v", cfg.RenderTimeout)
		}
	})

	t.Run("default Recover is false", func(t *testing.T) {
		t.Parallel()
		if cfg.Recover {
			t.Error("expected Recover to be false")
		}
	})

	t.Run("default UserAgent identifies docweld", func(t *testing.T) {
		t.Parallel()
		if cfg.UserAgent != DefaultUserAgent {
			t.Errorf("expected UserAgent to be %q, got %q", DefaultUserAgent, cfg.UserAgent)
		}
	})
}

// TestConfigValidate tests the Validate method with various
// configurations. Each case exercises one validation rule.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	// validConfig returns a minimal valid configuration.
	// Tests modify specific fields to exercise validation rules.
	validConfig := func() *Config {
		return &Config{
			RootURL:       "https://developer.android.com",
			OutputFile:    "out.pdf",
			Delay:         time.Second,
			FetchTimeout:  30 * time.Second,
			RenderTimeout: 2 * time.Minute,
		}
	}

	t.Run("valid config returns nil", func(t *testing.T) {
		t.Parallel()
		if err := validConfig().Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("zero delay is valid", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Delay = 0
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("empty root URL returns ErrNoRootURL", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.RootURL = ""
		if err := cfg.Validate(); !errors.Is(err, ErrNoRootURL) {
			t.Errorf("expected ErrNoRootURL, got %v", err)
		}
	})

	t.Run("relative root URL returns ErrInvalidRootURL", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.RootURL = "developer.android.com/guide"
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidRootURL) {
			t.Errorf("expected ErrInvalidRootURL, got %v", err)
		}
	})

	t.Run("non-http scheme returns ErrInvalidRootURL", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.RootURL = "ftp://example.com/docs"
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidRootURL) {
			t.Errorf("expected ErrInvalidRootURL, got %v", err)
		}
	})

	t.Run("empty output file returns ErrNoOutputFile", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.OutputFile = ""
		if err := cfg.Validate(); !errors.Is(err, ErrNoOutputFile) {
			t.Errorf("expected ErrNoOutputFile, got %v", err)
		}
	})

	t.Run("negative delay returns ErrInvalidDelay", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Delay = -time.Second
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidDelay) {
			t.Errorf("expected ErrInvalidDelay, got %v", err)
		}
	})

	t.Run("zero fetch timeout returns ErrInvalidTimeout", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.FetchTimeout = 0
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidTimeout) {
			t.Errorf("expected ErrInvalidTimeout, got %v", err)
		}
	})

	t.Run("zero render timeout returns ErrInvalidTimeout", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.RenderTimeout = 0
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidTimeout) {
			t.Errorf("expected ErrInvalidTimeout, got %v", err)
		}
	})

	t.Run("json and markdown together return ErrConflictingReportFormats", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.JSONReport = true
		cfg.MarkdownReport = true
		if err := cfg.Validate(); !errors.Is(err, ErrConflictingReportFormats) {
			t.Errorf("expected ErrConflictingReportFormats, got %v", err)
		}
	})
}

// TestLoadConfigFile tests loading site profiles from a YAML file.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("loads profiles and defaults", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		content := `defaults:
  navText: span.nav-label
profiles:
  docs.example.com:
    menu: nav.sidebar ul.toc
    cookie: session=abc
`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("LoadConfigFile returned error: %v", err)
		}

		if cf.Defaults.NavText != "span.nav-label" {
			t.Errorf("unexpected defaults %+v", cf.Defaults)
		}
		p, ok := cf.Profiles["docs.example.com"]
		if !ok {
			t.Fatalf("expected profile for docs.example.com, got %+v", cf.Profiles)
		}
		if p.Menu != "nav.sidebar ul.toc" || p.Cookie != "session=abc" {
			t.Errorf("unexpected profile %+v", p)
		}
	})

	t.Run("missing file returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("invalid YAML returns an error", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte("profiles: [not a map"), 0600); err != nil {
			t.Fatal(err)
		}

		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})
}

// TestFindConfigFile tests the config file search order.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("explicit existing path wins", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "custom.yml")
		if err := os.WriteFile(path, []byte("{}"), 0600); err != nil {
			t.Fatal(err)
		}

		if got := FindConfigFile(path); got != path {
			t.Errorf("expected %q, got %q", path, got)
		}
	})

	t.Run("explicit missing path returns empty", func(t *testing.T) {
		t.Parallel()

		if got := FindConfigFile(filepath.Join(t.TempDir(), "missing")); got != "" {
			t.Errorf("expected empty result, got %q", got)
		}
	})
}
