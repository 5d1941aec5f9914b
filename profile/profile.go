package profile

import (
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/ardnew/ajson/pkg"
)

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`

// ErrUnknownMode is returned by [Profiler.Start] for a mode not listed by
// [Modes].
var ErrUnknownMode = pkg.NewError("unknown profiling mode")

// Stopper ends a profiling session and flushes its output.
type Stopper interface{ Stop() }

// Profiler describes a single profiling session.
type Profiler struct {
	Mode  string // one of [Modes]; empty disables profiling
	Path  string // output directory; empty uses the working directory
	Quiet bool   // suppress the profiler's own start/stop messages
}

// Enabled reports whether the binary was built with profiling support.
func Enabled() bool { return len(modes) > 0 }

// Modes returns the sorted names of the supported profiling modes. It is
// empty when built without the pprof tag.
func Modes() []string {
	return slices.Sorted(maps.Keys(modes))
}

// Start begins profiling. A blank mode, or a binary built without the pprof
// tag, yields a no-op [Stopper]. Stop is always safe to call.
func (p Profiler) Start() (Stopper, error) {
	name := strings.ToLower(strings.TrimSpace(p.Mode))
	if name == "" || !Enabled() {
		return ignore{}, nil
	}

	if _, ok := modes[name]; !ok {
		return ignore{}, ErrUnknownMode.With(slog.String("mode", p.Mode))
	}

	return start(name, p.Path, p.Quiet), nil
}

type ignore struct{}

func (ignore) Stop() {}
