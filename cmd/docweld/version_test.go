package main

import (
	"bytes"
	"strings"
	"testing"
)

// TestGetVersion tests version string retrieval.
func TestGetVersion(t *testing.T) {
	t.Run("returns ldflags version when set", func(t *testing.T) {
		orig := version
		defer func() { version = orig }()

		version = "v1.2.3"
		if got := getVersion(); got != "v1.2.3" {
			t.Errorf("expected 'v1.2.3', got %q", got)
		}
	})

	t.Run("returns non-empty fallback", func(t *testing.T) {
		orig := version
		defer func() { version = orig }()

		version = ""
		if got := getVersion(); got == "" {
			t.Error("expected non-empty version")
		}
	})
}

// TestGetCommit tests commit hash retrieval.
func TestGetCommit(t *testing.T) {
	t.Run("returns ldflags commit when set", func(t *testing.T) {
		orig := commit
		defer func() { commit = orig }()

		commit = "abc1234"
		if got := getCommit(); got != "abc1234" {
			t.Errorf("expected 'abc1234', got %q", got)
		}
	})
}

// TestGetDate tests build date retrieval.
func TestGetDate(t *testing.T) {
	t.Run("returns ldflags date when set", func(t *testing.T) {
		orig := date
		defer func() { date = orig }()

		date = "2026-08-30"
		if got := getDate(); got != "2026-08-30" {
			t.Errorf("expected '2026-08-30', got %q", got)
		}
	})
}

// TestVersionCmd tests the version command output.
func TestVersionCmd(t *testing.T) {
	cmd := NewVersionCmd()

	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "docweld version") {
		t.Errorf("expected version line, got:\n%s", out)
	}
	if !strings.Contains(out, "commit ") || !strings.Contains(out, "built ") {
		t.Errorf("expected commit and build date in output, got:\n%s", out)
	}
}
