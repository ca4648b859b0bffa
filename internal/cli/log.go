package cli

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/jacoelho/jdl/internal/log"
)

// logLevel configures the logger as a side effect of parsing so that errors
// raised later during parsing are already logged at the requested level.
type logLevel string

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *logLevel) UnmarshalText(text []byte) error {
	*l = logLevel(text)
	log.Config(log.WithLevel(log.ParseLevel(string(*l))))

	return nil
}

// logFormat configures the logger format as a side effect of parsing.
type logFormat string

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *logFormat) UnmarshalText(text []byte) error {
	*f = logFormat(text)
	log.Config(log.WithFormat(log.ParseFormat(string(*f))))

	return nil
}

type logConfig struct {
	Level  logLevel  `default:"info" enum:"debug,info,warn,error" help:"Set log level."`
	Format logFormat `default:"text" enum:"json,text"             help:"Set log format."`
	Caller bool      `default:"false"                             help:"Include caller information."       negatable:""`
	Pretty bool      `default:"false"                             help:"Enable colorized pretty printing." negatable:""`
}

func (*logConfig) group() kong.Group {
	var group kong.Group

	group.Key = "log"
	group.Title = "Logging options"

	return group
}

func (f *logConfig) start() {
	log.Config(
		log.WithLevel(log.ParseLevel(string(f.Level))),
		log.WithFormat(log.ParseFormat(string(f.Format))),
		log.WithCaller(f.Caller),
		log.WithPretty(f.Pretty),
	)

	log.Debug("logger initialized",
		slog.String("level", string(f.Level)),
		slog.String("format", string(f.Format)),
		slog.Bool("caller", f.Caller),
		slog.Bool("pretty", f.Pretty),
	)
}

// scan applies log flags before kong parses anything, so the logger is
// configured regardless of where the flags appear. Boolean flags do not go
// through UnmarshalText, hence the pre-scan.
func (f *logConfig) scan(args []string) {
	for i := 0; i < len(args); i++ {
		name, value, assigned := strings.Cut(args[i], "=")

		switch name {
		case "--log-level", "--log-format":
			if !assigned && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				value = args[i+1]
				i++
			}
			if name == "--log-level" {
				_ = f.Level.UnmarshalText([]byte(value))
			} else {
				_ = f.Format.UnmarshalText([]byte(value))
			}

		case "--log-pretty", "--no-log-pretty":
			if v, ok := boolFlag(value, assigned, name == "--no-log-pretty"); ok {
				f.Pretty = v
				log.Config(log.WithPretty(v))
			}

		case "--log-caller", "--no-log-caller":
			if v, ok := boolFlag(value, assigned, name == "--no-log-caller"); ok {
				f.Caller = v
				log.Config(log.WithCaller(v))
			}
		}
	}
}

// boolFlag resolves a boolean flag that is only given a value with "=".
func boolFlag(value string, assigned, negated bool) (bool, bool) {
	v := true
	if assigned {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return false, false
		}
		v = parsed
	}
	if negated {
		v = !v
	}
	return v, true
}
