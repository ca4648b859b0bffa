package interp

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jacoelho/jdl/internal/eval"
	"github.com/jacoelho/jdl/internal/log"
	"github.com/jacoelho/jdl/internal/ratelimit"
	"github.com/jacoelho/jdl/internal/syntax"
)

// DefaultMaxLineBytes bounds the length of a single input line.
const DefaultMaxLineBytes = 16 * 1024 * 1024

// Stats summarizes a completed run.
type Stats struct {
	Records  int
	Skipped  int
	Duration time.Duration
}

// Interpreter executes one parsed script. It owns the serial counter, so a
// fresh Interpreter restarts numbering.
type Interpreter struct {
	inputPath    string
	outputPath   string
	outputPos    syntax.Pos
	baseDir      string
	transform    *syntax.Transform
	lets         []*syntax.Let
	prints       []syntax.Statement
	state        *eval.State
	stateOpts    []eval.Option
	limiter      *ratelimit.Limiter
	logger       log.Logger
	diagnostics  io.Writer
	maxLineBytes int
	retainAll    bool
	retainMax    int
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithBaseDir resolves relative input and output paths against dir.
func WithBaseDir(dir string) Option {
	return func(in *Interpreter) {
		in.baseDir = dir
	}
}

// WithStateOptions configures the evaluation state, e.g. the serial start.
func WithStateOptions(opts ...eval.Option) Option {
	return func(in *Interpreter) {
		in.stateOpts = append(in.stateOpts, opts...)
	}
}

// WithRateLimit throttles emission to recordsPerSecond; 0 disables it.
func WithRateLimit(recordsPerSecond float64) Option {
	return func(in *Interpreter) {
		in.limiter = ratelimit.New(recordsPerSecond)
	}
}

// WithLogger sets the logger used for run progress.
func WithLogger(logger log.Logger) Option {
	return func(in *Interpreter) {
		in.logger = logger
	}
}

// WithDiagnostics sets where print statements write. Defaults to stdout.
func WithDiagnostics(w io.Writer) Option {
	return func(in *Interpreter) {
		if w == nil {
			w = io.Discard
		}
		in.diagnostics = w
	}
}

// WithMaxLineBytes bounds the size of one input line.
func WithMaxLineBytes(n int) Option {
	return func(in *Interpreter) {
		if n > 0 {
			in.maxLineBytes = n
		}
	}
}

// New checks that script declares exactly one input and one output (and at
// most one transform) and prepares it for Run.
func New(script *syntax.Script, opts ...Option) (*Interpreter, error) {
	in := &Interpreter{
		logger:       log.Default(),
		diagnostics:  os.Stdout,
		maxLineBytes: DefaultMaxLineBytes,
	}
	for _, opt := range opts {
		opt(in)
	}

	var (
		input  *syntax.Input
		output *syntax.Output
	)
	for _, stmt := range script.Statements {
		switch s := stmt.(type) {
		case *syntax.Input:
			if input != nil {
				return nil, &DeclarationError{Err: ErrDuplicateDeclaration, Statement: "input", Pos: s.Pos}
			}
			input = s
		case *syntax.Output:
			if output != nil {
				return nil, &DeclarationError{Err: ErrDuplicateDeclaration, Statement: "output", Pos: s.Pos}
			}
			output = s
		case *syntax.Transform:
			if in.transform != nil {
				return nil, &DeclarationError{Err: ErrDuplicateDeclaration, Statement: "transform", Pos: s.Pos}
			}
			in.transform = s
		case *syntax.Let:
			in.lets = append(in.lets, s)
		case *syntax.PrintLine:
			in.prints = append(in.prints, s)
			in.retainMax = max(in.retainMax, s.Line)
		case *syntax.PrintAll:
			in.prints = append(in.prints, s)
			in.retainAll = true
		}
	}

	if input == nil {
		return nil, &DeclarationError{Err: ErrMissingDeclaration, Statement: "input"}
	}
	if output == nil {
		return nil, &DeclarationError{Err: ErrMissingDeclaration, Statement: "output"}
	}

	in.inputPath = in.resolve(input.Path)
	in.outputPath = in.resolve(output.Path)
	if samePath(in.inputPath, in.outputPath) {
		return nil, &DeclarationError{Err: ErrSameInputOutput, Statement: "output", Pos: output.Pos}
	}
	in.outputPos = output.Pos
	in.state = eval.NewState(in.stateOpts...)

	return in, nil
}

// samePath reports whether a and b name the same file once cleaned and made
// absolute.
func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

func (in *Interpreter) resolve(path string) string {
	if in.baseDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(in.baseDir, path)
}

// InputPath returns the resolved input file path.
func (in *Interpreter) InputPath() string {
	return in.inputPath
}

// OutputPath returns the resolved output file path.
func (in *Interpreter) OutputPath() string {
	return in.outputPath
}

// Run reads every input record, writes one transformed line per non-blank
// input line, then executes print statements. On the first failure it
// stops; lines already produced stay in the output file.
func (in *Interpreter) Run(ctx context.Context) (stats Stats, err error) {
	start := time.Now()
	logger := in.logger.With(
		slog.String("input", in.inputPath),
		slog.String("output", in.outputPath),
	)
	logger.DebugContext(ctx, "run started", slog.Float64("rate_limit", in.limiter.Limit()))

	src, err := os.Open(in.inputPath)
	if err != nil {
		return stats, fmt.Errorf("%w: open input: %w", ErrIO, err)
	}
	defer src.Close()

	// A link may still make output the input file.
	if srcInfo, statErr := src.Stat(); statErr == nil {
		if dstInfo, statErr := os.Stat(in.outputPath); statErr == nil && os.SameFile(srcInfo, dstInfo) {
			return stats, &DeclarationError{Err: ErrSameInputOutput, Statement: "output", Pos: in.outputPos}
		}
	}

	dst, err := os.Create(in.outputPath)
	if err != nil {
		return stats, fmt.Errorf("%w: create output: %w", ErrIO, err)
	}

	w := bufio.NewWriter(dst)
	defer func() {
		if flushErr := w.Flush(); flushErr != nil && err == nil {
			err = fmt.Errorf("%w: write output: %w", ErrIO, flushErr)
		}
		if closeErr := dst.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("%w: close output: %w", ErrIO, closeErr)
		}
	}()

	var retained []string

	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, min(64*1024, in.maxLineBytes)), in.maxLineBytes)

	lineNo := 0
	for scanner.Scan() {
		lineNo++

		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			stats.Skipped++
			continue
		}

		out, err := in.transformLine(line, lineNo)
		if err != nil {
			logger.DebugContext(ctx, "record failed", slog.Int("line", lineNo), slog.Any("error", err))
			return stats, err
		}

		if err := in.limiter.Wait(ctx); err != nil {
			return stats, &RecordError{Line: lineNo, Err: err}
		}

		if _, err := w.Write(out); err != nil {
			return stats, fmt.Errorf("%w: write output: %w", ErrIO, err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return stats, fmt.Errorf("%w: write output: %w", ErrIO, err)
		}

		stats.Records++
		if in.retainAll || stats.Records <= in.retainMax {
			retained = append(retained, string(out))
		}
	}

	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return stats, &RecordError{Line: lineNo + 1, Err: fmt.Errorf("%w: %w", ErrIO, err)}
		}
		return stats, fmt.Errorf("%w: read input: %w", ErrIO, err)
	}

	in.runPrints(ctx, logger, retained, stats.Records)

	stats.Duration = time.Since(start)
	logger.InfoContext(ctx, "run finished",
		slog.Int("records", stats.Records),
		slog.Int("skipped", stats.Skipped),
		slog.Duration("duration", stats.Duration),
	)

	return stats, nil
}

// transformLine decodes one input line and builds its output line.
func (in *Interpreter) transformLine(line []byte, lineNo int) ([]byte, error) {
	rec, err := eval.DecodeRecord(line)
	if err != nil {
		return nil, &RecordError{Line: lineNo, Err: fmt.Errorf("%w: %w", ErrMalformedRecord, err)}
	}

	in.state.ClearBindings()
	for _, let := range in.lets {
		value, err := eval.Evaluate(let.Value, rec, in.state)
		if err != nil {
			return nil, &RecordError{Line: lineNo, Err: err}
		}
		in.state.Bind(let.Name, value)
	}

	if in.transform == nil {
		return rec.Raw, nil
	}

	obj := newObject(len(in.transform.Assignments))
	for _, assignment := range in.transform.Assignments {
		value, err := eval.Evaluate(assignment.Value, rec, in.state)
		if err != nil {
			return nil, &RecordError{Line: lineNo, Err: err}
		}
		obj.set(assignment.Field, value)
	}

	out, err := obj.MarshalJSON()
	if err != nil {
		return nil, &RecordError{Line: lineNo, Err: err}
	}
	return out, nil
}

// runPrints echoes retained output lines. A line number past the end of the
// output is reported as a notice, not an error.
func (in *Interpreter) runPrints(ctx context.Context, logger log.Logger, lines []string, total int) {
	for _, stmt := range in.prints {
		switch s := stmt.(type) {
		case *syntax.PrintLine:
			if s.Line > total {
				fmt.Fprintf(in.diagnostics, "notice: print line %d: output has %d lines\n", s.Line, total)
				logger.WarnContext(ctx, "print line out of range",
					slog.Int("line", s.Line),
					slog.Int("records", total),
				)
				continue
			}
			fmt.Fprintln(in.diagnostics, lines[s.Line-1])
		case *syntax.PrintAll:
			for _, line := range lines {
				fmt.Fprintln(in.diagnostics, line)
			}
		}
	}
}

// Check reports unknown functions and variables in the script without
// reading any record. A let binding is visible to later lets and to every
// assignment.
func (in *Interpreter) Check() error {
	var (
		errs []error
		vars []string
	)

	for _, let := range in.lets {
		if err := eval.Check(let.Value, vars); err != nil {
			errs = append(errs, err)
		}
		vars = append(vars, let.Name)
	}

	if in.transform != nil {
		for _, assignment := range in.transform.Assignments {
			if err := eval.Check(assignment.Value, vars); err != nil {
				errs = append(errs, err)
			}
		}
	}

	return errors.Join(errs...)
}

// Assignments returns the transform's assignments in source order.
func (in *Interpreter) Assignments() []syntax.Assignment {
	if in.transform == nil {
		return nil
	}
	return in.transform.Assignments
}
