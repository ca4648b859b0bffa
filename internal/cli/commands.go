package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/jacoelho/jdl/internal/config"
	"github.com/jacoelho/jdl/internal/eval"
	"github.com/jacoelho/jdl/internal/interp"
	"github.com/jacoelho/jdl/internal/log"
	"github.com/jacoelho/jdl/internal/syntax"
	"github.com/jacoelho/jdl/internal/watch"
)

// RunCmd transforms a script's input file once.
type RunCmd struct {
	Script string `arg:"" help:"Script file (.jdl)." type:"path"`
}

// Run executes the run command.
func (r *RunCmd) Run(ctx context.Context, cli *CLI, ktx *kong.Context) error {
	cfg, err := cli.settings()
	if err != nil {
		return err
	}
	return execute(ctx, r.Script, cfg, ktx.Stdout)
}

// CheckCmd parses a script and validates its declarations and names.
type CheckCmd struct {
	Format string `default:"text" enum:"text,json,yaml" help:"Report format; json and yaml dump the syntax tree." short:"f"`

	Script string `arg:"" help:"Script file (.jdl)." type:"path"`
}

// Run executes the check command.
func (c *CheckCmd) Run(cli *CLI, ktx *kong.Context) error {
	cfg, err := cli.settings()
	if err != nil {
		return err
	}

	script, err := readScript(c.Script)
	if err != nil {
		return err
	}

	in, err := interp.New(script, cfg.Options()...)
	if err != nil {
		return err
	}
	if err := in.Check(); err != nil {
		return err
	}

	switch c.Format {
	case "json":
		return syntax.Dump(ktx.Stdout, script, syntax.DumpJSON)
	case "yaml":
		return syntax.Dump(ktx.Stdout, script, syntax.DumpYAML)
	default:
		return report(ktx.Stdout, c.Script, in)
	}
}

// report writes a human-readable summary of a valid script.
func report(w io.Writer, path string, in *interp.Interpreter) error {
	var b strings.Builder

	fmt.Fprintf(&b, "%s: ok\n", path)
	fmt.Fprintf(&b, "  input:  %s\n", in.InputPath())
	fmt.Fprintf(&b, "  output: %s\n", in.OutputPath())

	assignments := in.Assignments()
	if len(assignments) == 0 {
		b.WriteString("  records copied unchanged\n")
	}
	for _, a := range assignments {
		fields := eval.Names(a.Value)
		if len(fields) == 0 {
			fmt.Fprintf(&b, "  %s\n", a.Field)
			continue
		}
		fmt.Fprintf(&b, "  %s <- @%s\n", a.Field, strings.Join(fields, ", @"))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WatchCmd re-runs a script when it or its input file changes.
type WatchCmd struct {
	Script string `arg:"" help:"Script file (.jdl)." type:"path"`
}

// Run executes the watch command until interrupted.
func (w *WatchCmd) Run(ctx context.Context, cli *CLI, ktx *kong.Context) error {
	cfg, err := cli.settings()
	if err != nil {
		return err
	}

	files := []string{w.Script}
	if script, err := readScript(w.Script); err == nil {
		if in, err := interp.New(script, cfg.Options()...); err == nil {
			files = append(files, in.InputPath())
		}
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("watching", slog.Any("files", files))

	return watch.Watch(ctx, files, func(ctx context.Context) error {
		return execute(ctx, w.Script, cfg, ktx.Stdout)
	})
}

// execute parses the script at path and runs it once.
func execute(ctx context.Context, path string, cfg *config.Config, stdout io.Writer) error {
	script, err := readScript(path)
	if err != nil {
		return err
	}

	logger := log.Default().With(slog.String("script", path))
	logger.DebugContext(ctx, "script parsed", slog.Int("statements", len(script.Statements)))

	opts := append(cfg.Options(),
		interp.WithLogger(logger),
		interp.WithDiagnostics(stdout),
	)

	in, err := interp.New(script, opts...)
	if err != nil {
		return err
	}

	_, err = in.Run(ctx)
	return err
}

func readScript(path string) (*syntax.Script, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read script: %w", interp.ErrIO, err)
	}
	return syntax.ParseString(string(source))
}
