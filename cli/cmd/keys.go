package cmd

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/ajson/json"
	"github.com/ardnew/ajson/query"
)

// Keys lists the path of every member and element in a document, optionally
// filtered by a fuzzy pattern.
type Keys struct {
	Pattern string `arg:"" help:"Fuzzy pattern to filter paths." optional:""`

	Source string `default:"-" help:"Source input file or '-' for stdin." short:"f"`
	Values bool   `help:"Print the value at each path."                   short:"v"`
}

// Run executes the keys command.
func (k *Keys) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	doc, err := readDocument(ctx, k.Source)
	if err != nil {
		return err
	}

	var (
		paths  []string
		values []json.Value
	)

	for path, val := range query.Paths(doc) {
		paths = append(paths, path)
		values = append(values, val)
	}

	opts := optionsFrom(ctx)
	style := lipgloss.NewRenderer(stdout).NewStyle().Bold(true).Underline(true)

	emit := func(i int, line string) error {
		if k.Values {
			var sb strings.Builder

			_, _ = json.Print(values[i], &sb, opts.print()...)
			line += " = " + sb.String()
		}

		_, err := fmt.Fprintln(stdout, line)

		return err
	}

	if k.Pattern == "" {
		for i, path := range paths {
			if err := emit(i, path); err != nil {
				return ErrWrite.Wrap(err)
			}
		}

		return nil
	}

	for _, match := range fuzzy.Find(k.Pattern, paths) {
		if err := emit(match.Index, highlight(match.Str, match.MatchedIndexes, style)); err != nil {
			return ErrWrite.Wrap(err)
		}
	}

	return nil
}

// highlight renders the bytes of s at the given indexes with style.
func highlight(s string, indexes []int, style lipgloss.Style) string {
	var sb strings.Builder

	for i := range len(s) {
		if slices.Contains(indexes, i) {
			sb.WriteString(style.Render(s[i : i+1]))
		} else {
			sb.WriteByte(s[i])
		}
	}

	return sb.String()
}
