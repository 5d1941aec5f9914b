// Package cli contains the command line interface for ajson.
//
// # Usage
//
// With no command, ajson formats its inputs:
//
//	ajson < doc.json
//	ajson fmt -i 2 a.json b.json
//	ajson query 'filter(readings, # > 1)' -f sensor.json
//
// # Configuration
//
// Flag defaults are read from config.json, config.yaml or config.yml in the
// user configuration directory (for example ~/.config/ajson). Each file holds
// a single object keyed by flag name:
//
//	{"log-level": "debug", "precision": 3, "max-depth": 32}
//
// Nested objects are flattened by joining keys with '-', so the following is
// equivalent to setting --log-level and --log-format:
//
//	{"log": {"level": "debug", "format": "text"}}
//
// Command-line flags always override configuration values. The init command
// writes the current flag values to config.json.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, none, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize text output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o ajson .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default: ~/.cache/ajson/pprof)
package cli
