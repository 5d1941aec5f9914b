package cli

import (
	"context"
	"log/slog"

	"github.com/alecthomas/kong"

	"github.com/ardnew/ajson/cli/cmd"
	"github.com/ardnew/ajson/log"
	"github.com/ardnew/ajson/pkg"
)

// CLI is the top-level command-line interface for ajson.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`
	JSON  cmd.Options `embed:"" group:"json"`

	Init    cmd.Init    `cmd:"" help:"Write current flag values to the configuration file."`
	Fmt     cmd.Fmt     `cmd:"" help:"Print documents in canonical form."                     default:"withargs"`
	Measure cmd.Measure `cmd:"" help:"Print the length of each document's printed form."`
	Dump    cmd.Dump    `cmd:"" help:"Print a document into a fixed-size buffer."`
	Query   cmd.Query   `cmd:"" help:"Evaluate an expression against a document."`
	Keys    cmd.Keys    `cmd:"" help:"List the member paths of a document."`
	Recv    cmd.Recv    `cmd:"" help:"Print documents received over a TCP connection."`
	Repl    cmd.Repl    `cmd:"" help:"Explore a document interactively."`
}

// Run executes the ajson CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	vars := kong.Vars{
		cmd.ConfigIdentifier: configPath(baseConfig + ".json"),
		cmd.CacheIdentifier:  cacheDir(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags so configuration loading and parse errors
	// are already logged the requested way.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group(), cli.JSON.Group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(loadJSON, configPath(baseConfig+".json")),
		kong.Configuration(loadYAML, configPath(baseConfig+".yaml"), configPath(baseConfig+".yml")),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Stuff additional context values for use by commands.
	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithOptions(ctx, cli.JSON)

	// Apply the fully parsed logger configuration, including values read
	// from configuration files.
	cli.Log.start(ctx)

	stop, err := cli.Pprof.start(ctx)
	if err != nil {
		return err
	}
	defer stop()

	log.DebugContext(ctx, "command start", slog.String("command", ktx.Command()))

	err = ktx.Run()

	log.DebugContext(ctx, "command finish",
		slog.String("command", ktx.Command()),
		slog.Bool("ok", err == nil))

	return err
}
