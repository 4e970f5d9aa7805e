package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNew_Validation(t *testing.T) {
	if _, err := New(Config{}, func(context.Context, []string) error { return nil }); err != ErrContentDirRequired {
		t.Fatalf("expected ErrContentDirRequired, got %v", err)
	}
	if _, err := New(Config{ContentDir: t.TempDir()}, nil); err != ErrRebuildRequired {
		t.Fatalf("expected ErrRebuildRequired, got %v", err)
	}
}

func TestRun_RebuildsOnChange(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "types"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	rebuilt := make(chan []string, 1)
	watcher, err := New(Config{ContentDir: dir, Debounce: 50 * time.Millisecond}, func(_ context.Context, changed []string) error {
		select {
		case rebuilt <- changed:
		default:
		}
		return nil
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- watcher.Run(ctx) }()

	// Give the watcher time to register directories before writing.
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(dir, "types", "null-safety.md"), []byte("# Null Safety\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case changed := <-rebuilt:
		if len(changed) != 1 || changed[0] != "types/null-safety.md" {
			t.Fatalf("unexpected change set: %v", changed)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for rebuild")
	}

	cancel()
	if err := <-done; err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRun_IgnoresNonMatchingFiles(t *testing.T) {
	dir := t.TempDir()

	rebuilt := make(chan []string, 4)
	watcher, err := New(Config{ContentDir: dir, Debounce: 50 * time.Millisecond}, func(_ context.Context, changed []string) error {
		rebuilt <- changed
		return nil
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = watcher.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("scratch"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case changed := <-rebuilt:
		t.Fatalf("expected no rebuild for non-markdown file, got %v", changed)
	case <-time.After(300 * time.Millisecond):
	}
}
