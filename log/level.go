package log

import (
	"iter"
	"log/slog"
	"strings"

	"github.com/ardnew/ajson/pkg"
)

// ErrUnknownLevel is returned when text does not name a [Level].
var ErrUnknownLevel = pkg.NewError("unknown log level")

// ErrUnknownFormat is returned when text does not name a [Format].
var ErrUnknownFormat = pkg.NewError("unknown log format")

// Level represents the severity of a log message.
type Level slog.Level

const (
	LevelTrace = Level(slog.LevelDebug - 4)
	LevelDebug = Level(slog.LevelDebug)
	LevelInfo  = Level(slog.LevelInfo)
	LevelWarn  = Level(slog.LevelWarn)
	LevelError = Level(slog.LevelError)
)

// DefaultLevel is the default log level.
const DefaultLevel = LevelInfo

var levels = []Level{LevelTrace, LevelDebug, LevelInfo, LevelWarn, LevelError}

// Levels returns an iterator over the names of all defined log levels.
func Levels() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, level := range levels {
			if !yield(level.String()) {
				return
			}
		}
	}
}

func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "trace"
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	}

	return strings.ToLower(slog.Level(l).String())
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. It accepts the names
// returned by [Levels] in any case, plus the offsets understood by
// [slog.Level.UnmarshalText] such as "debug+2".
func (l *Level) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))

	if strings.EqualFold(s, LevelTrace.String()) {
		*l = LevelTrace

		return nil
	}

	var sl slog.Level
	if err := sl.UnmarshalText([]byte(s)); err != nil {
		return ErrUnknownLevel.Wrap(err).With(slog.String("level", s))
	}

	*l = Level(sl)

	return nil
}

// ParseLevel parses a level name, returning [DefaultLevel] if s is not
// recognized.
func ParseLevel(s string) Level {
	var l Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return DefaultLevel
	}

	return l
}

// Format represents the output format for log messages.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

// DefaultFormat is the default log message format.
const DefaultFormat = FormatJSON

// Formats returns an iterator over the names of all defined log formats.
func Formats() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, format := range []Format{FormatJSON, FormatText} {
			if !yield(format.String()) {
				return
			}
		}
	}
}

func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatJSON:
		return "json"
	}

	return "format(" + slog.IntValue(int(f)).String() + ")"
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Format) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))

	for _, format := range []Format{FormatJSON, FormatText} {
		if s == format.String() {
			*f = format

			return nil
		}
	}

	return ErrUnknownFormat.With(slog.String("format", s))
}

// ParseFormat parses a format name, returning [DefaultFormat] if s is not
// recognized.
func ParseFormat(s string) Format {
	var f Format
	if err := f.UnmarshalText([]byte(s)); err != nil {
		return DefaultFormat
	}

	return f
}
