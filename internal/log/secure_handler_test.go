package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// newBufferLogger returns a masked logger writing to the buffer at
// debug level.
func newBufferLogger(buf *bytes.Buffer) *slog.Logger {
	handler := slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(NewSecureHandler(handler))
}

// TestSecureHandlerMasksSensitiveKeys verifies that attributes with
// credential-bearing key names never reach the log output.
func TestSecureHandlerMasksSensitiveKeys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "cookie", key: "cookie", value: "session=abc123"},
		{name: "authorization", key: "authorization", value: "secret-value"},
		{name: "password", key: "password", value: "hunter2"},
		{name: "token", key: "token", value: "tok_12345"},
		{name: "api key with underscore", key: "api_key", value: "key-value"},
		{name: "mixed case key", key: "Cookie", value: "session=abc123"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := newBufferLogger(&buf)

			logger.Info("fetching page", tt.key, tt.value)

			out := buf.String()
			if strings.Contains(out, tt.value) {
				t.Errorf("sensitive value %q leaked into log output: %s", tt.value, out)
			}
			if !strings.Contains(out, MaskValue) {
				t.Errorf("expected mask value in output: %s", out)
			}
		})
	}
}

// TestSecureHandlerMasksSensitiveValues verifies that credential-shaped
// values are masked regardless of their attribute key.
func TestSecureHandlerMasksSensitiveValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
	}{
		{name: "bearer token", value: "Bearer abc.def.ghi"},
		{name: "basic auth", value: "Basic dXNlcjpwYXNz"},
		{name: "jwt", value: "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxIn0.sig"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := newBufferLogger(&buf)

			logger.Info("request prepared", "header", tt.value)

			if out := buf.String(); strings.Contains(out, tt.value) {
				t.Errorf("credential-shaped value leaked into log output: %s", out)
			}
		})
	}
}

// TestSecureHandlerPassesOrdinaryAttrs verifies that ordinary values
// are logged unchanged.
func TestSecureHandlerPassesOrdinaryAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := newBufferLogger(&buf)

	logger.Info("rendering page", "url", "https://example.com/guide", "pages", 12)

	out := buf.String()
	if !strings.Contains(out, "https://example.com/guide") {
		t.Errorf("expected URL in output: %s", out)
	}
	if strings.Contains(out, MaskValue) {
		t.Errorf("ordinary attributes must not be masked: %s", out)
	}
}

// TestSecureHandlerMasksGroups verifies that masking recurses into
// attribute groups.
func TestSecureHandlerMasksGroups(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := newBufferLogger(&buf)

	logger.Info("request prepared",
		slog.Group("headers",
			slog.String("cookie", "session=abc123"),
			slog.String("accept", "text/html"),
		),
	)

	out := buf.String()
	if strings.Contains(out, "session=abc123") {
		t.Errorf("grouped sensitive value leaked into log output: %s", out)
	}
	if !strings.Contains(out, "text/html") {
		t.Errorf("expected ordinary grouped value in output: %s", out)
	}
}

// TestSecureHandlerWithAttrs verifies that attributes added via With
// are masked as well.
func TestSecureHandlerWithAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := newBufferLogger(&buf).With("cookie", "session=abc123")

	logger.Info("fetching page")

	if out := buf.String(); strings.Contains(out, "session=abc123") {
		t.Errorf("With-attached sensitive value leaked into log output: %s", out)
	}
}

// TestNewSecureLogger verifies the level selection of the CLI logger.
func TestNewSecureLogger(t *testing.T) {
	t.Parallel()

	t.Run("quiet logger suppresses info", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewSecureLogger(&buf, false)

		logger.Info("should not appear")
		logger.Warn("should appear")

		out := buf.String()
		if strings.Contains(out, "should not appear") {
			t.Errorf("expected info to be suppressed: %s", out)
		}
		if !strings.Contains(out, "should appear") {
			t.Errorf("expected warning in output: %s", out)
		}
	})

	t.Run("verbose logger includes debug", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewSecureLogger(&buf, true)

		logger.Debug("debug detail")

		if !strings.Contains(buf.String(), "debug detail") {
			t.Errorf("expected debug output, got: %s", buf.String())
		}
	})
}
