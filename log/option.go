package log

import (
	"io"
	"sync"
)

// Option applies a configuration option to config.
type Option func(config) config

func apply(cfg config, opts ...Option) config {
	for _, opt := range opts {
		if opt != nil {
			cfg = opt(cfg)
		}
	}

	return cfg
}

// update returns an Option that runs set on the config while holding its
// write lock.
func update(set func(*config)) Option {
	return func(c config) config {
		if c.mutex == nil {
			c.mutex = &sync.RWMutex{}
		} else {
			c.mutex.Lock()
			defer c.mutex.Unlock()
		}

		set(&c)

		return c
	}
}

// WithDefaults resets every setting to its default and directs output to w.
// A nil w discards output.
func WithDefaults(w io.Writer) Option {
	return update(func(c *config) {
		if w == nil {
			w = io.Discard
		}

		c.output = w
		c.formatTime = makeFormatTimeFunc(DefaultTimeLayout)
		c.level = DefaultLevel
		c.format = DefaultFormat
		c.caller = DefaultCaller
		c.pretty = DefaultPretty
	})
}

// WithOutput directs log output to w. A nil w discards output.
func WithOutput(w io.Writer) Option {
	return update(func(c *config) {
		if w == nil {
			w = io.Discard
		}

		c.output = w
	})
}

// WithLevel sets the minimum level; records below it are discarded.
func WithLevel(level Level) Option {
	return update(func(c *config) { c.level = level })
}

// WithFormat sets the output format.
func WithFormat(format Format) Option {
	return update(func(c *config) { c.format = format })
}

// WithTimeLayout sets the timestamp layout.
//
// The layout may name one of the layouts in the [time] package, such as
// "RFC3339" or "Kitchen", or be a layout string passed to
// [time.Time.Format]. A blank layout or "none" omits timestamps.
func WithTimeLayout(layout string) Option {
	format := makeFormatTimeFunc(layout)

	return update(func(c *config) { c.formatTime = format })
}

// WithCaller controls whether the calling file and line are logged.
func WithCaller(enable bool) Option {
	return update(func(c *config) { c.caller = enable })
}

// WithPretty controls colorized output. Pretty text drops quoting and
// colors keys and values; pretty JSON is indented one member per line.
func WithPretty(enable bool) Option {
	return update(func(c *config) { c.pretty = enable })
}
