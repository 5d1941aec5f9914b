package cli

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/ajson/json"
	"github.com/ardnew/ajson/log"
)

// loadJSON is a [kong.ConfigurationLoader] that reads a JSON object of flag
// values.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(loadJSON, "/path/to/config.json")
//
// The object is converted as follows:
//   - Keys name flags; either "log-level" or "log_level" matches --log-level
//   - Nested objects are flattened by joining keys with '-'
//   - Numbers are passed to kong in decimal text form
//   - Arrays are joined with ',' for slice flags
//   - Null members are ignored
//
// Example config file:
//
//	{
//	  "log": {"level": "debug", "format": "text"},
//	  "precision": 3
//	}
//
// Command-line flags override config file values. A file that cannot be
// parsed is logged and ignored.
func loadJSON(r io.Reader) (kong.Resolver, error) {
	doc, err := json.ParseReader(context.Background(), r, json.WithTimeout(0))
	if err != nil {
		log.Warn("ignoring configuration", slog.Any("error", err))

		return config{}, nil
	}

	return makeConfig(doc), nil
}

// loadYAML is a [kong.ConfigurationLoader] that reads the same structure as
// [loadJSON] from a YAML mapping.
func loadYAML(r io.Reader) (kong.Resolver, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var native any

	if err := yaml.Unmarshal(data, &native); err != nil {
		log.Warn("ignoring configuration", slog.Any("error", err))

		return config{}, nil
	}

	doc, err := json.FromNative(native)
	if err != nil {
		log.Warn("ignoring configuration", slog.Any("error", err))

		return config{}, nil
	}

	return makeConfig(doc), nil
}

// config implements [kong.Resolver] for flat flag-value maps.
type config map[string]any

// makeConfig flattens the members of doc. Anything other than an object
// yields an empty config.
func makeConfig(doc json.Value) config {
	cfg := config{}

	if obj, err := doc.AsObject(); err == nil {
		cfg.flatten("", obj)
	}

	return cfg
}

func (r config) flatten(prefix string, obj *json.Object) {
	for key, val := range obj.All() {
		name := key
		if prefix != "" {
			name = prefix + "-" + key
		}

		if sub, err := val.AsObject(); err == nil {
			r.flatten(name, sub)

			continue
		}

		if v, ok := flagText(val); ok {
			r[name] = v
		}
	}
}

// flagText converts v to the form kong expects for a flag value. Kong
// requires numbers as strings for parsing.
func flagText(v json.Value) (any, bool) {
	switch v.Kind() {
	case json.KindBool:
		b, _ := v.AsBool()

		return b, true

	case json.KindInt:
		n, _ := v.AsInt()

		return strconv.FormatInt(n, 10), true

	case json.KindFloat:
		f, _ := v.AsFloat()

		return strconv.FormatFloat(f, 'f', -1, 64), true

	case json.KindString:
		s, _ := v.AsString()

		return s, true

	case json.KindArray:
		arr, _ := v.AsArray()
		elems := make([]string, 0, arr.Len())

		for elem := range arr.Values() {
			if s, ok := flagText(elem); ok {
				elems = append(elems, strings.TrimSpace(toString(s)))
			}
		}

		return strings.Join(elems, ","), true
	}

	return nil, false
}

func toString(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	}

	return ""
}

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	// Flags use hyphens but config keys may use underscores. Try both forms.
	name := flag.Name

	if value, ok := r[name]; ok {
		return value, nil
	}

	if value, ok := r[strings.ReplaceAll(name, "-", "_")]; ok {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}
