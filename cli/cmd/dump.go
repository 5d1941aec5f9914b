package cmd

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ardnew/ajson/json"
	"github.com/ardnew/ajson/log"
)

// Dump prints a document into a fixed-size buffer, as a device with a
// bounded transmit buffer would, and reports whether it fit.
type Dump struct {
	Size int `default:"256" help:"Capacity of the output buffer in bytes." short:"n"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for stdin." name:"source" optional:""`
}

// Run executes the dump command.
func (d *Dump) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	v, err := readDocument(ctx, d.Source)
	if err != nil {
		return err
	}

	opts := optionsFrom(ctx)
	buf := make([]byte, max(d.Size, 0))

	n, dumpErr := json.Dump(v, buf, opts.print()...)

	if _, err := stdout.Write(append(buf[:n:n], '\n')); err != nil {
		return ErrWrite.Wrap(err)
	}

	if errors.Is(dumpErr, json.ErrTruncated) {
		need := json.Measure(v, opts.print()...)

		log.WarnContext(ctx, "dump truncated",
			slog.Int("size", len(buf)),
			slog.Int("written", n),
			slog.Int("need", need))

		return ErrTruncated.Wrap(dumpErr).
			With(slog.Int("size", len(buf)), slog.Int("need", need))
	}

	return dumpErr
}
