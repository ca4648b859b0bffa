// Package watch re-runs a job whenever one of a set of files changes.
package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jacoelho/jdl/internal/log"
)

// DefaultDebounce coalesces the burst of events a single save produces.
const DefaultDebounce = 100 * time.Millisecond

type options struct {
	debounce time.Duration
	logger   log.Logger
}

// Option configures Watch.
type Option func(*options)

// WithDebounce sets how long to wait after the last event before re-running.
func WithDebounce(d time.Duration) Option {
	return func(o *options) {
		o.debounce = d
	}
}

// WithLogger sets the logger used for change and failure messages.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Watch calls run once, then again each time one of files is written,
// created or renamed into place, until ctx is done. Failures of run are
// logged and do not stop watching.
//
// Parent directories are watched rather than the files themselves so that
// editors replacing a file atomically are still noticed.
func Watch(ctx context.Context, files []string, run func(context.Context) error, opts ...Option) error {
	o := options{debounce: DefaultDebounce, logger: log.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	targets := make(map[string]struct{}, len(files))
	dirs := make(map[string]struct{}, len(files))
	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			return err
		}
		targets[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}

	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return err
		}
	}

	o.rerun(ctx, run, "")

	var pending <-chan time.Time
	var changed string

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event, targets) {
				continue
			}
			changed = event.Name
			pending = time.After(o.debounce)
		case <-pending:
			pending = nil
			o.rerun(ctx, run, changed)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			o.logger.WarnContext(ctx, "watcher error", slog.Any("error", err))
		}
	}
}

func relevant(event fsnotify.Event, targets map[string]struct{}) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}

	name, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	_, ok := targets[name]
	return ok
}

func (o options) rerun(ctx context.Context, run func(context.Context) error, changed string) {
	if changed != "" {
		o.logger.InfoContext(ctx, "file changed", slog.String("file", changed))
	}

	if err := run(ctx); err != nil {
		o.logger.ErrorContext(ctx, "run failed", slog.Any("error", err))
		return
	}
	o.logger.DebugContext(ctx, "run complete")
}
