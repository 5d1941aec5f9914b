package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"github.com/ardnew/ajson/json"
	"github.com/ardnew/ajson/log"
	"github.com/ardnew/ajson/stream"
)

// Standard streams used by commands; tests replace them.
var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// Options are the parser and printer settings shared by all commands.
type Options struct {
	Precision int           `default:"5"     help:"Fractional digits printed for floats."                 short:"P"`
	MaxString int           `default:"0"     help:"Maximum decoded string length in bytes (0 is no limit)."`
	MaxDepth  int           `default:"100"   help:"Maximum container nesting depth."`
	Timeout   time.Duration `default:"500ms" help:"Longest wait for each input byte (0 waits forever)."`
}

// Group returns the help group for [Options] flags.
func (Options) Group() kong.Group {
	return kong.Group{Key: "json", Title: "Parser and printer options"}
}

type optionsKey struct{}

// WithOptions returns a new context.Context carrying opts.
func WithOptions(ctx context.Context, opts Options) context.Context {
	return context.WithValue(ctx, optionsKey{}, opts)
}

// optionsFrom returns the Options stored in ctx, or the defaults.
func optionsFrom(ctx context.Context) Options {
	if opts, ok := ctx.Value(optionsKey{}).(Options); ok {
		return opts
	}

	return Options{
		Precision: json.DefaultPrecision,
		MaxDepth:  json.DefaultMaxDepth,
		Timeout:   stream.DefaultTimeout,
	}
}

// parse returns the parser options, including a logger derived from the
// default logger.
func (o Options) parse(attrs ...slog.Attr) []json.Option {
	return []json.Option{
		json.WithMaxStringLength(o.MaxString),
		json.WithMaxDepth(o.MaxDepth),
		json.WithTimeout(o.Timeout),
		json.WithLogger(log.With(attrs...)),
	}
}

// print returns the printer options.
func (o Options) print() []json.Option {
	return []json.Option{json.WithPrecision(o.Precision)}
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// source is one named input.
type source struct {
	name string
	io.ReadCloser
}

// fileKey uniquely identifies a file by its device and inode numbers.
type fileKey struct {
	dev uint64
	ino uint64
}

// openSources opens each named source once. Paths naming the same file
// through symlinks or relative forms are opened only at their first
// occurrence. All occurrences of "-", or of a path that resolves to stdin,
// collapse into a single stdin source placed last.
//
// On error every source already opened is closed.
func openSources(paths []string) ([]source, error) {
	if len(paths) == 0 {
		paths = []string{stdinSource}
	}

	srcs := make([]source, 0, len(paths))
	seen := make(map[fileKey]struct{})

	var (
		stdinKey fileKey
		hasStdin bool
		keyed    bool
	)

	if f, ok := stdin.(*os.File); ok {
		if info, err := f.Stat(); err == nil {
			stdinKey, keyed = makeFileKey(info)
		}
	}

	for _, path := range paths {
		if path == stdinSource {
			hasStdin = true

			continue
		}

		f, key, err := openUnique(path, seen)
		if err != nil {
			closeSources(srcs)

			return nil, ErrOpenSource.Wrap(err).With(slog.String("source", path))
		}

		if keyed && key == stdinKey {
			if f != nil {
				_ = f.Close()
			}

			hasStdin = true

			continue
		}

		if f != nil {
			srcs = append(srcs, source{name: path, ReadCloser: f})
		}
	}

	if hasStdin {
		srcs = append(srcs, source{name: stdinSource, ReadCloser: io.NopCloser(stdin)})
	}

	return srcs, nil
}

func closeSources(srcs []source) {
	for _, src := range srcs {
		_ = src.Close()
	}
}

// openUnique opens path unless a file with the same device and inode was
// already seen, in which case it returns a nil file.
func openUnique(path string, seen map[fileKey]struct{}) (*os.File, fileKey, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return nil, fileKey{}, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, fileKey{}, err
	}

	key, ok := makeFileKey(info)
	if ok {
		if _, dup := seen[key]; dup {
			return nil, key, nil
		}

		seen[key] = struct{}{}
	}

	f, err := os.Open(resolved)

	return f, key, err
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}

// parseSource parses a single document from src.
func parseSource(ctx context.Context, src source, opts Options) (json.Value, error) {
	v, err := json.ParseReader(ctx, src, opts.parse(slog.String("source", src.name))...)
	if err != nil {
		return json.Invalid(), ErrParse.Wrap(err).With(slog.String("source", src.name))
	}

	return v, nil
}

// eachDocument parses every source in paths and calls fn for each document.
func eachDocument(
	ctx context.Context,
	paths []string,
	fn func(name string, v json.Value) error,
) error {
	srcs, err := openSources(paths)
	if err != nil {
		return err
	}
	defer closeSources(srcs)

	opts := optionsFrom(ctx)

	for _, src := range srcs {
		v, err := parseSource(ctx, src, opts)
		if err != nil {
			return err
		}

		if err := fn(src.name, v); err != nil {
			return err
		}
	}

	return nil
}

// readDocument parses the single source at path.
func readDocument(ctx context.Context, path string) (json.Value, error) {
	var doc json.Value

	err := eachDocument(ctx, []string{path}, func(_ string, v json.Value) error {
		doc = v

		return nil
	})

	return doc, err
}
