package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/ajson/json"
	"github.com/ardnew/ajson/query"
	"github.com/ardnew/ajson/stream"
)

// Query evaluates an expression against a document and prints the result
// as JSON.
type Query struct {
	Expr string `arg:"" help:"Expression to evaluate; the document is bound to doc." name:"expr"`

	Source string `default:"-" help:"Source input file or '-' for stdin." short:"f"`
}

// Run executes the query command.
func (q *Query) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	doc, err := readDocument(ctx, q.Source)
	if err != nil {
		return err
	}

	opts := optionsFrom(ctx)

	result, err := query.Eval(ctx, doc, q.Expr, opts.print()...)
	if err != nil {
		return err
	}

	w := stream.NewWriter(stdout)

	if _, err := json.Println(result, w, opts.print()...); err != nil {
		return ErrWrite.Wrap(err).With(slog.String("expr", q.Expr))
	}

	if err := w.Flush(); err != nil {
		return ErrWrite.Wrap(err)
	}

	return nil
}
