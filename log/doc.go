// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("parse complete", slog.Int("bytes", n))
//
// The zero [Logger] discards everything, so library types can hold one
// without requiring callers to configure logging.
//
// # Configuration
//
// Configure the logger using functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//
// [Logger.Wrap] derives a logger with further options applied, and [Config]
// does the same for the package default used by [Info], [Debug], and the
// other package-level functions.
//
// # Levels
//
// Five levels are defined: [LevelTrace], [LevelDebug], [LevelInfo],
// [LevelWarn], and [LevelError]. [Level] implements
// [encoding.TextUnmarshaler] so it can be bound directly to a flag.
//
// # Output Formats
//
// [FormatJSON] (default) and [FormatText] are supported. With
// [WithPretty], both are colorized for terminals; pretty JSON places one
// field per line.
//
// # Context-Aware Logging
//
// Each level has a context-aware variant. Context-unaware variants use
// [DefaultContextProvider], which returns [context.TODO] by default.
package log
