// Package log captures browse activity as a machine-readable event trace.
//
// It is separate from operational logging (slog): every change event a
// session publishes, and every session state transition, is recorded as an
// Event that tools can replay, filter and summarize.
//
// # Basic Usage
//
//	// For development: log to console via slog
//	cfg.EventLogger = log.NewSlogAdapter(slog.Default())
//
//	// For production: write to binary file
//	cfg.EventLogger, _ = log.NewFileLogger("/var/log/svcwatch/browse.clog")
//
//	// Both: use MultiLogger
//	cfg.EventLogger = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # File Format
//
// Log files are a stream of CBOR-encoded events with integer keys
// (.clog extension). The svcwatch-log CLI views, exports and summarizes
// them.
package log
