package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/jacoelho/jdl/internal/eval"
	"github.com/jacoelho/jdl/internal/interp"
)

var (
	ErrNegativeRateLimit = errors.New("rate limit cannot be negative")
	ErrNegativeLineLimit = errors.New("max line bytes cannot be negative")
	ErrBaseDirNotDir     = errors.New("base dir is not a directory")
	ErrInvalidConfigFile = errors.New("invalid config file")
)

// Config represents the run settings shared by every jdl command.
type Config struct {
	BaseDir      string  // Relative input/output paths resolve against it
	SerialStart  int64   // First value returned by serial()
	RateLimit    float64 // Records per second (0 = unlimited)
	MaxLineBytes int     // Longest accepted input line (0 = default)
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if c.RateLimit < 0 {
		return fmt.Errorf("%w, got: %v", ErrNegativeRateLimit, c.RateLimit)
	}

	if c.MaxLineBytes < 0 {
		return fmt.Errorf("%w, got: %d", ErrNegativeLineLimit, c.MaxLineBytes)
	}

	if c.BaseDir != "" {
		info, err := os.Stat(c.BaseDir)
		if err != nil {
			return fmt.Errorf("base dir %s not found: %w", c.BaseDir, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("%w: %s", ErrBaseDirNotDir, c.BaseDir)
		}
	}

	return nil
}

// Options translates the configuration into interpreter options.
func (c *Config) Options() []interp.Option {
	opts := []interp.Option{
		interp.WithStateOptions(eval.WithSerialStart(c.SerialStart)),
		interp.WithMaxLineBytes(c.MaxLineBytes),
	}

	if c.BaseDir != "" {
		opts = append(opts, interp.WithBaseDir(c.BaseDir))
	}

	if c.RateLimit > 0 {
		opts = append(opts, interp.WithRateLimit(c.RateLimit))
	}

	return opts
}

// Values is a flattened YAML config file. It implements [kong.Resolver] so
// that flags given on the command line override file values.
//
// Nested mappings are joined with hyphens, so both of these set --log-level:
//
//	log-level: debug
//
//	log:
//	  level: debug
type Values map[string]any

// Loader is a [kong.ConfigurationLoader] for YAML config files.
func Loader(r io.Reader) (kong.Resolver, error) {
	return Decode(r)
}

// Decode parses a YAML mapping into Values.
func Decode(r io.Reader) (Values, error) {
	var doc map[string]any
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return Values{}, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfigFile, err)
	}

	values := make(Values, len(doc))
	flatten(values, "", doc)
	return values, nil
}

func flatten(dst Values, prefix string, src map[string]any) {
	for key, value := range src {
		name := strings.ReplaceAll(key, "_", "-")
		if prefix != "" {
			name = prefix + "-" + name
		}

		switch v := value.(type) {
		case map[string]any:
			flatten(dst, name, v)
		case bool, string, nil:
			dst[name] = v
		case float64:
			// Kong parses numeric flags from strings.
			dst[name] = strconv.FormatFloat(v, 'f', -1, 64)
		default:
			dst[name] = fmt.Sprint(v)
		}
	}
}

// Validate implements [kong.Resolver].
func (v Values) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (v Values) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	if value, ok := v[flag.Name]; ok && value != nil {
		return value, nil
	}
	return nil, nil
}
