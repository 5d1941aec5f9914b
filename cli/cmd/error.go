package cmd

import "github.com/ardnew/ajson/pkg"

var (
	ErrOpenSource  = pkg.NewError("open source")
	ErrParse       = pkg.NewError("parse document")
	ErrWrite       = pkg.NewError("write output")
	ErrYAMLMarshal = pkg.NewError("marshal YAML")
	ErrIndent      = pkg.NewError("indent JSON")
	ErrTruncated   = pkg.NewError("output truncated")
	ErrListen      = pkg.NewError("listen")
	ErrWriteConfig = pkg.NewError("write configuration file")
	ErrFileExists  = pkg.NewError("file exists (use --force to overwrite)")
)
