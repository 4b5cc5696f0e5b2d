// Package logging provides a minimal logging interface and adapters for hrflow.
//
// The Logger interface defines the standard logging methods (Debug, Info,
// Warn, Error) that the graph engine and the business nodes use for
// observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	final, err := compiled.Invoke(ctx, initial, graph.WithLogger(logger))
//
// The design intentionally keeps the interface minimal to avoid vendor lock-in
// while supporting structured logging where available.
package logging
