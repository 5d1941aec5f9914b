package repl

import "github.com/ardnew/ajson/pkg"

// Sentinel errors.
var (
	ErrOutOfBounds  = pkg.NewError("index out of range")
	ErrEditDeclined = pkg.NewError("decline edit")
	ErrNoSource     = pkg.NewError("no source document")
	ErrHistory      = pkg.NewError("history entry")
)
