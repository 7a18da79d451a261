package watch_test

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/n4rclss/classfabric/watch"
)

func TestNew_RunsInitialReloadSynchronously(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "servers.json")
	if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
		t.Fatalf("failed to seed file: %v", err)
	}

	var calls atomic.Int32
	w, err := watch.New(context.Background(), path, func(context.Context) error {
		calls.Add(1)
		return nil
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer w.Close()

	if calls.Load() != 1 {
		t.Fatalf("expected exactly one synchronous reload call, got %d", calls.Load())
	}
}

func TestNew_ReloadsOnFileWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "servers.json")
	if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
		t.Fatalf("failed to seed file: %v", err)
	}

	var calls atomic.Int32
	w, err := watch.New(context.Background(), path, func(context.Context) error {
		calls.Add(1)
		return nil
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer w.Close()

	if err = os.WriteFile(path, []byte(`[{"host":"a","port":1}]`), 0o644); err != nil {
		t.Fatalf("failed to rewrite file: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if calls.Load() >= 2 {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("expected a reload triggered by the file write, got %d calls", calls.Load())
}
