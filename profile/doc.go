// Package profile provides optional runtime profiling for the ajson
// command.
//
// Profiling is compiled in only with the "pprof" build tag, using
// [github.com/pkg/profile]. Without the tag, [Modes] is empty and
// [Profiler.Start] always returns a no-op [Stopper].
//
// Supported modes are allocs, block, clock, cpu, goroutine, heap, mem,
// mutex, thread, and trace. Each session writes one file named after its
// mode (cpu.pprof, mem.pprof, and so on) into [Profiler.Path]:
//
//	stop, err := profile.Profiler{Mode: "cpu", Path: dir}.Start()
//	if err != nil {
//		return err
//	}
//	defer stop.Stop()
//
// # Command-Line Usage
//
// The ajson command supports profiling through command-line flags when built
// with the pprof tag:
//
//	# Enable CPU profiling (writes to default cache directory)
//	./ajson --pprof-mode cpu
//
//	# Enable heap profiling with custom output directory
//	./ajson --pprof-mode heap --pprof-dir ./profiles
//
//	# List available profiling modes
//	./ajson -h
//
// The default output directory is:
//
//	$XDG_CACHE_HOME/ajson/pprof   (Linux/Unix)
//	~/Library/Caches/ajson/pprof  (macOS)
//	%LocalAppData%\ajson\pprof    (Windows)
//
// Analyze the output with go tool pprof, for example:
//
//	go tool pprof -http=: ./ajson ~/.cache/ajson/pprof/cpu.pprof
//
// Builds with the pprof tag also register the [net/http/pprof] handlers on
// [net/http.DefaultServeMux] for programs that serve it.
package profile
