package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestRunFiresOnStartAndOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prog.imperat")
	if err := os.WriteFile(path, []byte("{ skip }"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, path, 20*time.Millisecond, func() {
			if calls.Add(1) == 2 {
				cancel()
			}
		})
	}()

	deadline := time.Now().Add(4 * time.Second)
	for calls.Load() < 1 {
		if time.Now().After(deadline) {
			t.Fatalf("initial callback never ran")
		}
		time.Sleep(5 * time.Millisecond)
	}
	for calls.Load() < 2 && time.Now().Before(deadline) {
		if err := os.WriteFile(path, []byte("{ int x; x := 1 }"), 0o644); err != nil {
			t.Fatalf("rewrite: %v", err)
		}
		time.Sleep(50 * time.Millisecond)
	}

	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}
	if calls.Load() < 2 {
		t.Fatalf("expected a change callback, got %d calls", calls.Load())
	}
}

func TestRunMissingFile(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	missing := filepath.Join(t.TempDir(), "nope", "prog.imperat")
	if err := Run(ctx, missing, time.Millisecond, func() {}); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}

func TestPollDetectsSizeChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f")
	if err := os.WriteFile(path, []byte("a"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, err := poll(ctx, path, 5*time.Millisecond)
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	if err := os.WriteFile(path, []byte("abc"), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	select {
	case <-events:
	case <-time.After(2 * time.Second):
		t.Fatalf("no event after size change")
	}
}
