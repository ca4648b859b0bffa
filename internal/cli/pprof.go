package cli

import (
	"log/slog"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/jacoelho/jdl/internal/log"
	"github.com/jacoelho/jdl/internal/profile"
)

type pprofConfig struct {
	Mode string `default:"" enum:",${pprofModeEnum}" help:"Enable profiling." placeholder:"${enum}"`
	Dir  string `                                    help:"Profile output directory (default: a temp dir)." type:"path"`
}

func (pprofConfig) vars() kong.Vars {
	return kong.Vars{
		"pprofModeEnum": strings.Join(profile.Modes(), ","),
	}
}

func (pprofConfig) group() kong.Group {
	var group kong.Group

	group.Key = "pprof"
	group.Title = "Profiling (pprof)"

	return group
}

// start starts profiling if configured. The returned stop is always safe to
// call.
func (f pprofConfig) start() (stop func(), err error) {
	if f.Mode == "" {
		return func() {}, nil
	}

	log.Debug("pprof start",
		slog.String("mode", f.Mode),
		slog.String("dir", f.Dir),
	)

	profiler, err := profile.Start(f.Mode, f.Dir)
	if err != nil {
		return func() {}, err
	}

	return func() {
		log.Debug("pprof stop",
			slog.String("mode", f.Mode),
			slog.String("dir", f.Dir),
		)
		profiler.Stop()
	}, nil
}
