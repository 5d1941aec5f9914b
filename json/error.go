package json

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/ardnew/ajson/pkg"
)

// Predefined errors (sentinel values).
var (
	ErrSyntax           = pkg.NewError("syntax error")
	ErrUnexpectedEOF    = pkg.NewError("unexpected end of input")
	ErrUnexpectedChar   = pkg.NewError("unexpected character")
	ErrLiteral          = pkg.NewError("invalid literal")
	ErrStringTooLong    = pkg.NewError("string too long")
	ErrNumberRange      = pkg.NewError("number out of range")
	ErrMaxDepthExceeded = pkg.NewError("maximum nesting depth exceeded")
	ErrTrailingData     = pkg.NewError("unexpected data after value")
	ErrTypeMismatch     = pkg.NewError("type mismatch")
	ErrTruncated        = pkg.NewError("output truncated")
	ErrInvalidValue     = pkg.NewError("invalid value")
	ErrUnsupportedType  = pkg.NewError("unsupported type")
)

// Position identifies a byte in the input.
// Line and Column are 1-based; Column counts bytes.
type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return "line " + strconv.Itoa(p.Line) + ", column " + strconv.Itoa(p.Column)
}

// SyntaxError describes why and where parsing stopped.
//
// It matches [ErrSyntax] with [errors.Is], and unwraps to the specific
// sentinel (such as [ErrUnexpectedEOF]) along with any error reported by the
// source that caused it.
type SyntaxError struct {
	Pos    Position
	Reason string
	Err    error
}

func (e *SyntaxError) Error() string {
	var sb strings.Builder

	sb.WriteString(ErrSyntax.Error())
	sb.WriteString(" at ")
	sb.WriteString(e.Pos.String())

	if e.Reason != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Reason)
	}

	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}

	return sb.String()
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *SyntaxError) Unwrap() error { return e.Err }

// Is reports whether target is [ErrSyntax].
func (e *SyntaxError) Is(target error) bool { return target == error(ErrSyntax) }

// LogValue implements slog.LogValuer for rich structured logging.
func (e *SyntaxError) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("offset", e.Pos.Offset),
		slog.Int("line", e.Pos.Line),
		slog.Int("column", e.Pos.Column),
	}

	if e.Reason != "" {
		attrs = append(attrs, slog.String("reason", e.Reason))
	}

	if e.Err != nil {
		attrs = append(attrs, slog.Any("error", e.Err))
	}

	return slog.GroupValue(attrs...)
}
