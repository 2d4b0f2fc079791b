package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Renderer produces a page-document for a URL at a destination path.
// On failure it must leave no output behind. Renders are independent:
// the same renderer is invoked once per page, sequentially.
type Renderer interface {
	Render(ctx context.Context, pageURL, destPath string) error
}

// Default renderer settings.
const (
	// DefaultBinary is the headless browser binary used for rendering.
	DefaultBinary = "google-chrome"

	// DefaultTimeout bounds a single render. The timeout is enforced
	// here, by the caller of the external process, not by the browser.
	DefaultTimeout = 2 * time.Minute
)

// Chrome renders pages to PDF by invoking a headless Chrome binary with
// --print-to-pdf. The browser is treated as a black box: it either
// produces a readable PDF at the destination path or the invocation
// fails and any partial output is removed.
type Chrome struct {
	binary    string
	timeout   time.Duration
	extraArgs []string
	logger    *slog.Logger
}

// Option configures a Chrome renderer.
type Option func(*Chrome)

// WithBinary sets the browser binary to invoke.
func WithBinary(binary string) Option {
	return func(c *Chrome) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// WithTimeout sets the per-render timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Chrome) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithExtraArgs appends additional browser flags before the URL.
func WithExtraArgs(args ...string) Option {
	return func(c *Chrome) {
		c.extraArgs = append(c.extraArgs, args...)
	}
}

// WithLogger sets the logger for render diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Chrome) {
		c.logger = logger
	}
}

// NewChrome creates a Chrome renderer.
func NewChrome(opts ...Option) *Chrome {
	c := &Chrome{
		binary:  DefaultBinary,
		timeout: DefaultTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Render saves the URL as a PDF at destPath. The render is bounded by
// the configured timeout; on any failure the partial destination file
// is removed so that its presence remains a reliable recovery marker.
func (c *Chrome) Render(ctx context.Context, pageURL, destPath string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	target := rewriteWaybackURL(pageURL)
	args := c.buildArgs(destPath, target)

	c.logger.Debug("rendering page", "url", target, "dest", destPath)

	cmd := exec.CommandContext(ctx, c.binary, args...)
	if err := cmd.Run(); err != nil {
		// A failed render must leave no output behind.
		_ = os.Remove(destPath)

		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("render %s: timed out after %s", pageURL, c.timeout)
		}
		return fmt.Errorf("render %s: %w", pageURL, err)
	}
	return nil
}

// buildArgs assembles the browser command line for one render.
func (c *Chrome) buildArgs(destPath, pageURL string) []string {
	args := []string{"--headless", "--disable-gpu", "--print-to-pdf=" + destPath}
	args = append(args, c.extraArgs...)
	return append(args, pageURL)
}

// rewriteWaybackURL inserts the Wayback Machine's "if_" infix so that
// archived pages render without the archive toolbar. Non-archive URLs
// are returned unchanged.
func rewriteWaybackURL(pageURL string) string {
	if !strings.Contains(pageURL, "web.archive.org") {
		return pageURL
	}

	i := strings.Index(pageURL, "/http")
	if i < 0 || strings.HasSuffix(pageURL[:i], "if_") {
		return pageURL
	}
	return pageURL[:i] + "if_" + pageURL[i:]
}
