// Package query evaluates expr-lang expressions against parsed JSON
// documents.
//
// The document is bound to the variable doc. When the document is an object,
// each of its members is also bound under its own key, so for the document
// {"temp": 21.5} the expressions doc.temp and temp are equivalent.
//
// Besides the expr-lang builtins, expressions may call measure(v), which
// returns the printed length of v, and fingerprint(v), which returns the
// xxh3 digest of its printed form as a hex string.
package query

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/expr-lang/expr"

	"github.com/ardnew/ajson/json"
	"github.com/ardnew/ajson/pkg"
)

// DocIdentifier is the variable name bound to the whole document.
const DocIdentifier = "doc"

var (
	ErrCompile = pkg.NewError("compile expression")
	ErrEval    = pkg.NewError("evaluate expression")
	ErrResult  = pkg.NewError("convert result")
)

// Env returns the evaluation environment for doc.
func Env(doc json.Value) map[string]any {
	env := map[string]any{DocIdentifier: doc.ToNative()}

	if obj, err := doc.AsObject(); err == nil {
		for key, val := range obj.All() {
			if _, reserved := env[key]; !reserved && IsIdentifier(key) {
				env[key] = val.ToNative()
			}
		}
	}

	return env
}

// Eval compiles src against doc's environment, runs it, and converts the
// result back to a [json.Value]. Print options in opts apply to the
// measure and fingerprint functions.
func Eval(ctx context.Context, doc json.Value, src string, opts ...json.Option) (json.Value, error) {
	if err := context.Cause(ctx); err != nil {
		return json.Invalid(), ErrEval.Wrap(err)
	}

	env := Env(doc)

	program, err := expr.Compile(src, append([]expr.Option{expr.Env(env)}, functions(opts)...)...)
	if err != nil {
		return json.Invalid(), ErrCompile.Wrap(err).With(slog.String("expr", src))
	}

	out, err := expr.Run(program, env)
	if err != nil {
		return json.Invalid(), ErrEval.Wrap(err).With(slog.String("expr", src))
	}

	v, err := json.FromNative(out)
	if err != nil {
		return json.Invalid(), ErrResult.Wrap(err).With(slog.String("expr", src))
	}

	return v, nil
}

func functions(opts []json.Option) []expr.Option {
	return []expr.Option{
		expr.Function("measure",
			func(params ...any) (any, error) {
				v, err := json.FromNative(params[0])
				if err != nil {
					return nil, err
				}

				return json.Measure(v, opts...), nil
			},
			new(func(any) int),
		),
		expr.Function("fingerprint",
			func(params ...any) (any, error) {
				v, err := json.FromNative(params[0])
				if err != nil {
					return nil, err
				}

				sum, err := json.Fingerprint(v, opts...)
				if err != nil {
					return nil, err
				}

				return strconv.FormatUint(sum, 16), nil
			},
			new(func(any) string),
		),
	}
}

// Functions lists the functions available to expressions in addition to the
// expr-lang builtins, mapped to their signatures.
var Functions = map[string]string{
	"measure":     "measure(v)",
	"fingerprint": "fingerprint(v)",
}
