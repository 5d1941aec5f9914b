package log

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
)

// ANSI color codes for pretty printing.
const (
	colorReset   = "\033[0m"
	colorGray    = "\033[90m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
)

// layout describes how a prettyHandler arranges the fields of a record.
type layout struct {
	open, close string // record delimiters
	lead, sep   string // field prefix and key/value separator
	join        string // between fields
}

var (
	textLayout = layout{sep: "=", join: " "}
	jsonLayout = layout{open: "{\n", close: "\n}", lead: "  ", sep: ": ", join: ",\n"}
)

// prettyHandler writes colorized records in either a flat key=value layout
// or an indented object layout. Attributes added with WithAttrs are rendered
// once and reused for every record.
type prettyHandler struct {
	opts       slog.HandlerOptions
	formatTime FormatTime
	layout     layout
	mu         *sync.Mutex
	w          io.Writer
	prefix     string // dotted group path for keys
	preformat  []byte // rendered WithAttrs fields, each preceded by join
}

func newPrettyHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
	lay layout,
) *prettyHandler {
	return &prettyHandler{
		opts:       *opts,
		formatTime: formatTime,
		layout:     lay,
		mu:         &sync.Mutex{},
		w:          w,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)
	buf.WriteString(h.layout.open)

	n := 0
	field := func(key string, write func()) {
		if n > 0 {
			buf.WriteString(h.layout.join)
		}

		n++

		buf.WriteString(h.layout.lead)
		buf.WriteString(colorGray)
		buf.WriteString(key)
		buf.WriteString(colorReset)
		buf.WriteString(h.layout.sep)
		write()
	}

	if !r.Time.IsZero() {
		if s := h.formatTime(r.Time); s != "" {
			field(slog.TimeKey, func() { paint(buf, colorBlue, s) })
		}
	}

	field(slog.LevelKey, func() { writeLevel(buf, Level(r.Level)) })

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			field(slog.SourceKey, func() {
				paint(buf, colorCyan, src.File+":"+strconv.Itoa(src.Line))
			})
		}
	}

	field(slog.MessageKey, func() { paint(buf, colorCyan, r.Message) })

	if len(h.preformat) > 0 {
		buf.Write(h.preformat)
	}

	r.Attrs(func(a slog.Attr) bool {
		h.appendAttr(buf, h.prefix, a, &n)

		return true
	})

	buf.WriteString(h.layout.close)
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	c := *h
	buf := bytes.NewBuffer(append([]byte(nil), h.preformat...))

	n := 1 // the message field always precedes
	for _, a := range attrs {
		c.appendAttr(buf, c.prefix, a, &n)
	}

	c.preformat = buf.Bytes()

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.prefix = joinKey(h.prefix, name)

	return &c
}

// appendAttr writes a, flattening groups into dotted keys.
func (h *prettyHandler) appendAttr(buf *bytes.Buffer, prefix string, a slog.Attr, n *int) {
	if rep := h.opts.ReplaceAttr; rep != nil && a.Value.Kind() != slog.KindGroup {
		var groups []string
		if prefix != "" {
			groups = strings.Split(prefix, ".")
		}

		a = rep(groups, a)
	}

	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		if len(group) == 0 {
			return
		}

		sub := prefix
		if a.Key != "" {
			sub = joinKey(prefix, a.Key)
		}

		for _, ga := range group {
			h.appendAttr(buf, sub, ga, n)
		}

		return
	}

	if *n > 0 {
		buf.WriteString(h.layout.join)
	}

	*n++

	buf.WriteString(h.layout.lead)
	buf.WriteString(colorGray)
	buf.WriteString(joinKey(prefix, a.Key))
	buf.WriteString(colorReset)
	buf.WriteString(h.layout.sep)
	writeValue(buf, a.Value)
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}

	return prefix + "." + key
}

func paint(buf *bytes.Buffer, color, s string) {
	buf.WriteString(color)
	buf.WriteString(s)
	buf.WriteString(colorReset)
}

func writeLevel(buf *bytes.Buffer, level Level) {
	color := colorBlue

	switch {
	case level >= LevelError:
		color = colorRed
	case level >= LevelWarn:
		color = colorYellow
	case level >= LevelInfo:
		color = colorGreen
	}

	paint(buf, color, strings.ToUpper(level.String()))
}

func writeValue(buf *bytes.Buffer, v slog.Value) {
	switch v.Kind() {
	case slog.KindInt64:
		paint(buf, colorYellow, strconv.FormatInt(v.Int64(), 10))
	case slog.KindUint64:
		paint(buf, colorYellow, strconv.FormatUint(v.Uint64(), 10))
	case slog.KindFloat64:
		paint(buf, colorYellow, strconv.FormatFloat(v.Float64(), 'g', -1, 64))
	case slog.KindBool:
		if v.Bool() {
			paint(buf, colorGreen, "true")
		} else {
			paint(buf, colorRed, "false")
		}
	case slog.KindDuration:
		paint(buf, colorMagenta, v.Duration().String())
	case slog.KindTime:
		paint(buf, colorBlue, v.Time().String())
	case slog.KindAny:
		switch x := v.Any().(type) {
		case nil:
			paint(buf, colorGray, "null")
		case slog.Level:
			writeLevel(buf, Level(x))
		case error:
			paint(buf, colorRed, x.Error())
		default:
			paint(buf, colorCyan, v.String())
		}
	default:
		paint(buf, colorCyan, v.String())
	}
}
