package cmd

import (
	"bytes"
	"context"
	"encoding"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	gojson "github.com/goccy/go-json"

	"github.com/ardnew/ajson/json"
	"github.com/ardnew/ajson/log"
	"github.com/ardnew/ajson/profile"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = "  "

// Init generates a default configuration file with current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file." short:"F"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	var compact, indented bytes.Buffer

	if _, err := json.Println(configDocument(ktx), &compact); err != nil {
		return ErrWriteConfig.With(slog.String("file", confPath)).Wrap(err)
	}

	if err := gojson.Indent(&indented, compact.Bytes(), "", defaultConfigIndent); err != nil {
		return ErrWriteConfig.With(slog.String("file", confPath)).Wrap(err)
	}

	if err := os.WriteFile(confPath, indented.Bytes(), 0o600); err != nil {
		return ErrWriteConfig.With(slog.String("file", confPath)).Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file", slog.String("path", confPath))

	return nil
}

// configDocument builds a configuration object from the current value of
// every visible flag, keyed by flag name.
func configDocument(ktx *kong.Context) json.Value {
	obj := json.NewObject()
	prefixIgnore := []string{"help", profile.Tag}

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(prefixIgnore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		if v := flagValue(ktx.FlagValue(flag)); !v.IsInvalid() {
			obj.Set(flag.Name, v)
		}
	}

	return json.ObjectOf(obj)
}

// flagValue converts a parsed flag value to a JSON value, or the invalid
// value if it is unset.
func flagValue(val any) json.Value {
	switch v := val.(type) {
	case nil:
		return json.Invalid()

	case string:
		if v == "" {
			return json.Invalid()
		}

		return json.String(v)

	case time.Duration:
		return json.String(v.String())

	case encoding.TextMarshaler:
		text, err := v.MarshalText()
		if err != nil || len(text) == 0 {
			return json.Invalid()
		}

		return json.String(string(text))

	case fmt.Stringer:
		return json.String(v.String())

	case []string:
		if len(v) == 0 {
			return json.Invalid()
		}

		arr := json.NewArray()
		for _, s := range v {
			arr.Append(json.String(s))
		}

		return json.ArrayOf(arr)
	}

	out, err := json.FromNative(val)
	if err != nil {
		return json.String(fmt.Sprint(val))
	}

	return out
}
