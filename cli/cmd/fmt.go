package cmd

import (
	"bufio"
	"bytes"
	"context"
	"log/slog"
	"strings"

	gojson "github.com/goccy/go-json"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/ajson/json"
	"github.com/ardnew/ajson/stream"
)

// defaultYAMLIndent is used for YAML output when no indent is given.
const defaultYAMLIndent = 2

// Fmt parses each source and prints it in canonical form.
type Fmt struct {
	YAML   bool `help:"Write YAML instead of JSON."                              short:"y"`
	Indent int  `help:"Indent nested JSON by this many spaces (0 for compact)." short:"i"`

	Sources []string `arg:"" default:"-" help:"Source input files or '-' for stdin." name:"source" optional:""`
}

// Run executes the fmt command.
func (f *Fmt) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	opts := optionsFrom(ctx)
	w := stream.NewWriter(stdout)

	defer func() {
		if ferr := w.Flush(); err == nil && ferr != nil {
			err = ErrWrite.Wrap(ferr)
		}
	}()

	docs := 0

	return eachDocument(ctx, f.Sources, func(name string, v json.Value) error {
		docs++

		switch {
		case f.YAML:
			return f.writeYAML(w, v, docs > 1)
		case f.Indent > 0:
			return f.writeIndented(w, v, opts)
		}

		if _, err := json.Println(v, w, opts.print()...); err != nil {
			return ErrWrite.Wrap(err).With(slog.String("source", name))
		}

		return nil
	})
}

func (f *Fmt) writeIndented(w *bufio.Writer, v json.Value, opts Options) error {
	var compact, indented bytes.Buffer

	if _, err := json.Print(v, &compact, opts.print()...); err != nil {
		return ErrWrite.Wrap(err)
	}

	err := gojson.Indent(&indented, compact.Bytes(), "", strings.Repeat(" ", f.Indent))
	if err != nil {
		return ErrIndent.Wrap(err)
	}

	indented.WriteByte('\n')

	if _, err := indented.WriteTo(w); err != nil {
		return ErrWrite.Wrap(err)
	}

	return nil
}

func (f *Fmt) writeYAML(w *bufio.Writer, v json.Value, separate bool) error {
	indent := f.Indent
	if indent <= 0 {
		indent = defaultYAMLIndent
	}

	out, err := yaml.MarshalWithOptions(yamlValue(v), yaml.Indent(indent))
	if err != nil {
		return ErrYAMLMarshal.Wrap(err)
	}

	if separate {
		_, _ = w.WriteString("---\n")
	}

	if _, err := w.Write(out); err != nil {
		return ErrWrite.Wrap(err)
	}

	return nil
}

// yamlValue converts v to a form the YAML encoder accepts, keeping object
// members in document order.
func yamlValue(v json.Value) any {
	switch v.Kind() {
	case json.KindArray:
		arr, _ := v.AsArray()
		out := make([]any, 0, arr.Len())

		for elem := range arr.Values() {
			if !elem.IsInvalid() {
				out = append(out, yamlValue(elem))
			}
		}

		return out

	case json.KindObject:
		obj, _ := v.AsObject()
		out := make(yaml.MapSlice, 0, obj.Len())

		for key, val := range obj.All() {
			if !val.IsInvalid() {
				out = append(out, yaml.MapItem{Key: key, Value: yamlValue(val)})
			}
		}

		return out
	}

	return v.ToNative()
}
