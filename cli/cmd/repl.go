package cmd

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/ajson/cli/cmd/repl"
	"github.com/ardnew/ajson/log"
)

// Repl starts an interactive session for evaluating expressions against a
// document.
type Repl struct {
	Source string `arg:"" default:"-" help:"Source input file or '-' for stdin." name:"source" optional:""`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	doc, err := readDocument(ctx, r.Source)
	if err != nil {
		return err
	}

	var cacheDir string
	if ktx := kongContextFrom(ctx); ktx != nil {
		cacheDir = ktx.Model.Vars()[CacheIdentifier]
	}

	var progOpts []tea.ProgramOption

	// The document was read from stdin, so keystrokes must come from the
	// terminal instead.
	if r.Source == stdinSource {
		progOpts = append(progOpts, tea.WithInputTTY())
	}

	logger := log.With(slog.String("command", "repl"))

	return repl.Run(ctx, doc, cacheDir, logger, optionsFrom(ctx).print(), progOpts...)
}
