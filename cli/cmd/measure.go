package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/ajson/json"
	"github.com/ardnew/ajson/log"
)

// Measure reports the length of each source's printed form without
// producing it.
type Measure struct {
	Digest bool `help:"Also print the xxh3 digest of the printed form." short:"d"`

	Sources []string `arg:"" default:"-" help:"Source input files or '-' for stdin." name:"source" optional:""`
}

// Run executes the measure command.
func (m *Measure) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	opts := optionsFrom(ctx)
	named := len(m.Sources) > 1

	return eachDocument(ctx, m.Sources, func(name string, v json.Value) error {
		n := json.Measure(v, opts.print()...)
		line := fmt.Sprint(n)

		if m.Digest {
			sum, err := json.Fingerprint(v, opts.print()...)
			if err != nil {
				return ErrWrite.Wrap(err).With(slog.String("source", name))
			}

			line += fmt.Sprintf(" %016x", sum)
		}

		if named {
			line += "\t" + name
		}

		log.DebugContext(ctx, "measured", slog.String("source", name), slog.Int("bytes", n))

		if _, err := fmt.Fprintln(stdout, line); err != nil {
			return ErrWrite.Wrap(err)
		}

		return nil
	})
}
