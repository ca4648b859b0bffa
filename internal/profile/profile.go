// Package profile starts optional runtime profiling of a jdl run using
// [github.com/pkg/profile].
package profile

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/pkg/profile"
)

var ErrUnknownMode = errors.New("unknown profiling mode")

// Modes returns the supported profiling modes, sorted.
var Modes = sync.OnceValue(
	func() []string {
		return slices.Sorted(maps.Keys(mode))
	},
)

var mode = map[string]func(*profile.Profile){
	"block":     profile.BlockProfile,
	"cpu":       profile.CPUProfile,
	"clock":     profile.ClockProfile,
	"goroutine": profile.GoroutineProfile,
	"mem":       profile.MemProfile,
	"allocs":    profile.MemProfileAllocs,
	"heap":      profile.MemProfileHeap,
	"mutex":     profile.MutexProfile,
	"thread":    profile.ThreadcreationProfile,
	"trace":     profile.TraceProfile,
}

// Stopper ends a profiling session and writes its output.
type Stopper interface {
	Stop()
}

type ignore struct{}

func (ignore) Stop() {}

// Start begins profiling in the named mode, writing into dir. An empty mode
// returns a no-op Stopper. The signal hook of pkg/profile is disabled; the
// caller owns interrupt handling.
func Start(m, dir string) (Stopper, error) {
	if m == "" {
		return ignore{}, nil
	}

	fn, ok := mode[m]
	if !ok {
		return nil, fmt.Errorf("%w %q, want one of %v", ErrUnknownMode, m, Modes())
	}

	opts := []func(*profile.Profile){fn, profile.Quiet, profile.NoShutdownHook}
	if dir != "" {
		opts = append(opts, profile.ProfilePath(dir))
	}

	return profile.Start(opts...), nil
}
