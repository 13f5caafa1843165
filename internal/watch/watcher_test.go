package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherBootstrapAndPoll(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "clip.mp4")
	if err := os.WriteFile(input, []byte("old"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	w := NewWatcher(input, time.Second)
	if err := w.Bootstrap(); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}

	now := time.Now()
	changed, err := w.Poll(now)
	if err != nil {
		t.Fatalf("poll failed: %v", err)
	}
	if changed {
		t.Fatalf("expected no change after bootstrap")
	}

	if err := os.WriteFile(input, []byte("new-content"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	changed, _ = w.Poll(now.Add(100 * time.Millisecond))
	if changed {
		t.Fatalf("expected no change before settle")
	}

	changed, _ = w.Poll(now.Add(2 * time.Second))
	if !changed {
		t.Fatalf("expected change after settle")
	}

	changed, _ = w.Poll(now.Add(3 * time.Second))
	if changed {
		t.Fatalf("expected change to be reported once")
	}
}

func TestWatcherRemovedAndRecreated(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "clip.mp4")
	if err := os.WriteFile(input, []byte("a"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	w := NewWatcher(input, 500*time.Millisecond)
	if err := w.Bootstrap(); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}

	if err := os.Remove(input); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	base := time.Now()
	if changed, err := w.Poll(base); err != nil || changed {
		t.Fatalf("removal must not be reported: %v %v", changed, err)
	}

	if err := os.WriteFile(input, []byte("a"), 0644); err != nil {
		t.Fatalf("rewrite failed: %v", err)
	}
	if changed, _ := w.Poll(base.Add(100 * time.Millisecond)); changed {
		t.Fatalf("expected no change before settle")
	}
	if changed, _ := w.Poll(base.Add(2 * time.Second)); !changed {
		t.Fatalf("expected recreated file to be reported")
	}
}

func TestEventWatcherSignals(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "clip.mp4")
	if err := os.WriteFile(input, []byte("a"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	engine, err := NewAdaptiveWatcher(input, 10*time.Millisecond)
	if err != nil {
		t.Skipf("fsnotify unavailable: %v", err)
	}
	defer engine.Close()
	if err := engine.Bootstrap(); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	if engine.Mode() != "event+polling" {
		t.Fatalf("unexpected mode %s", engine.Mode())
	}

	if err := os.WriteFile(input, []byte("changed"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	select {
	case <-engine.Events():
	case <-time.After(5 * time.Second):
		t.Fatalf("expected fsnotify signal")
	}
}
