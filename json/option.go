package json

import (
	"time"

	"github.com/ardnew/ajson/log"
	"github.com/ardnew/ajson/stream"
)

const (
	// DefaultMaxDepth is the default limit on nested arrays and objects.
	DefaultMaxDepth = 100

	// DefaultPrecision is the default number of fractional digits printed
	// for floats.
	DefaultPrecision = 5

	// ConstrainedMaxStringLength is a string length limit suited to small
	// fixed buffers. Pass it to [WithMaxStringLength] on targets that cannot
	// afford unbounded strings.
	ConstrainedMaxStringLength = 255
)

// Option configures parsing and printing.
type Option func(*config)

type config struct {
	maxString int
	maxDepth  int
	precision int
	timeout   time.Duration
	logger    log.Logger
}

func makeConfig(opts ...Option) config {
	cfg := config{
		maxDepth:  DefaultMaxDepth,
		precision: DefaultPrecision,
		timeout:   stream.DefaultTimeout,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}

// WithMaxStringLength limits decoded strings and object keys to n bytes.
// Parsing a longer string fails with [ErrStringTooLong]. Zero, the default,
// means unlimited.
func WithMaxStringLength(n int) Option {
	return func(c *config) {
		c.maxString = max(n, 0)
	}
}

// WithMaxDepth limits how deeply arrays and objects may nest. Exceeding it
// fails with [ErrMaxDepthExceeded]. Values below 1 restore
// [DefaultMaxDepth].
func WithMaxDepth(n int) Option {
	return func(c *config) {
		if n < 1 {
			n = DefaultMaxDepth
		}

		c.maxDepth = n
	}
}

// WithPrecision sets the most fractional digits printed for floats.
// Values below 1 print one digit.
func WithPrecision(p int) Option {
	return func(c *config) {
		c.precision = max(p, 1)
	}
}

// WithTimeout sets how long [ParseReader] waits for each byte. Zero or a
// negative duration waits indefinitely.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = max(d, 0)
	}
}

// WithLogger sets the logger that traces parsing.
func WithLogger(logger log.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}
