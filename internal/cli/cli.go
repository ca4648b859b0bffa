// Package cli implements the jdl command tree on top of kong.
package cli

import (
	"context"
	"io"
	"os"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/jacoelho/jdl/internal/config"
	"github.com/jacoelho/jdl/internal/eval"
	"github.com/jacoelho/jdl/internal/interp"
)

const (
	name        = "jdl"
	description = "Transform JSON Lines files with a small declarative script."
)

// CLI is the top-level command-line interface for jdl.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Config       kong.ConfigFlag `help:"YAML file providing default flag values."                  placeholder:"FILE"`
	BaseDir      string          `help:"Resolve relative input/output paths against this directory." type:"path"`
	SerialStart  int64           `default:"${serialStart}"  help:"First value returned by serial()."`
	RateLimit    float64         `default:"0"               help:"Maximum records written per second (0 for unlimited)."`
	MaxLineBytes int             `default:"${maxLineBytes}" help:"Longest accepted input line in bytes."`

	Run   RunCmd   `cmd:"" default:"withargs" help:"Transform the script's input file into its output file."`
	Check CheckCmd `cmd:""                    help:"Parse a script and report problems without touching data."`
	Watch WatchCmd `cmd:""                    help:"Run a script, then re-run it whenever the script or its input changes."`
}

// settings collects the run flags into a validated config.Config.
func (c *CLI) settings() (*config.Config, error) {
	cfg := &config.Config{
		BaseDir:      c.BaseDir,
		SerialStart:  c.SerialStart,
		RateLimit:    c.RateLimit,
		MaxLineBytes: c.MaxLineBytes,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Run executes the jdl CLI with the given context and arguments.
// The exit function is called by kong for --help and usage errors.
func Run(ctx context.Context, exit func(code int), args ...string) error {
	return run(ctx, exit, os.Stdout, os.Stderr, args...)
}

func run(ctx context.Context, exit func(code int), stdout, stderr io.Writer, args ...string) error {
	var cli CLI

	vars := kong.Vars{
		"serialStart":  strconv.FormatInt(eval.DefaultSerialStart, 10),
		"maxLineBytes": strconv.Itoa(interp.DefaultMaxLineBytes),
	}.CloneWith(cli.Pprof.vars())

	// Pre-scan for logger flags so the logger is configured regardless of
	// flag position.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(name),
		kong.Description(description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.Writers(stdout, stderr),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindTo(ctx, (*context.Context)(nil)),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(config.Loader),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Finalize logger configuration with all parsed values, including those
	// read from --config.
	cli.Log.start()

	stop, err := cli.Pprof.start()
	if err != nil {
		return err
	}
	defer stop()

	return ktx.Run(&cli)
}
