// Package cmd implements the ajson subcommands.
//
// Every command reads JSON through the parser configured by [Options], which
// the root command stores in the context with [WithOptions]. Sources are
// file paths, with "-" meaning stdin.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path
	// of the JSON configuration file.
	ConfigIdentifier = "config"
)
