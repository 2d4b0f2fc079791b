// Package log provides docweld's structured logging setup: a slog
// handler wrapper that masks cookies, authorization headers, and other
// credential-shaped values before they reach the log output.
package log
