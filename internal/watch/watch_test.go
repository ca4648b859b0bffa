package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jacoelho/jdl/internal/log"
)

func waitRun(t *testing.T, runs <-chan struct{}, what string) {
	t.Helper()

	select {
	case <-runs:
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

func TestWatchRerunsOnChange(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "script.jdl")
	other := filepath.Join(dir, "out.jsonl")
	if err := os.WriteFile(file, []byte("initial"), 0o600); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runs := make(chan struct{}, 16)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, []string{file}, func(context.Context) error {
			runs <- struct{}{}
			return errors.New("failures keep watching")
		}, WithDebounce(10*time.Millisecond), WithLogger(log.Discard()))
	}()

	waitRun(t, runs, "initial run")

	// Give the watcher time to register before the first change.
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(other, []byte("ignored"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(file, []byte("changed"), 0o600); err != nil {
		t.Fatal(err)
	}
	waitRun(t, runs, "rerun after change")

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Watch() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Watch() did not return after cancel")
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "missing", "script.jdl")

	err := Watch(context.Background(), []string{file}, func(context.Context) error {
		t.Fatal("run called for unwatchable file")
		return nil
	}, WithLogger(log.Discard()))
	if err == nil {
		t.Fatal("Watch() error = nil, want error for missing directory")
	}
}
