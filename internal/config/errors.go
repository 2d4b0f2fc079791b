package config

import "errors"

// Configuration validation errors.
var (
	// ErrNoRootURL is returned when no site root URL was provided.
	ErrNoRootURL = errors.New("no root URL provided")

	// ErrInvalidRootURL is returned when the root URL is not an
	// absolute http(s) URL.
	ErrInvalidRootURL = errors.New("root URL must be an absolute http or https URL")

	// ErrNoOutputFile is returned when the output path is empty.
	ErrNoOutputFile = errors.New("output file path must not be empty")

	// ErrInvalidDelay is returned when the inter-request delay is negative.
	ErrInvalidDelay = errors.New("delay must not be negative")

	// ErrInvalidTimeout is returned when a timeout is zero or negative.
	ErrInvalidTimeout = errors.New("timeouts must be positive")

	// ErrConflictingReportFormats is returned when both JSON and
	// Markdown report output are requested.
	ErrConflictingReportFormats = errors.New("--json and --markdown are mutually exclusive")
)
