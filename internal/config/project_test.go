package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadProjectConfigFindsParent(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}

	cfgPath := filepath.Join(root, projectConfigFileName)
	content := `
on_conflict: Overwrite
ffmpeg_path: /opt/ffmpeg/bin/ffmpeg
packet_scan_limit: 48
preview_workers: 4
log_level: debug
watch_input: false
`
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	cfg, foundPath, err := LoadProjectConfig(nested)
	if err != nil {
		t.Fatalf("LoadProjectConfig failed: %v", err)
	}
	if foundPath != cfgPath {
		t.Fatalf("unexpected config path: %s", foundPath)
	}
	if cfg.OnConflict != "overwrite" {
		t.Fatalf("unexpected on_conflict: %s", cfg.OnConflict)
	}
	if cfg.FFmpegPath != "/opt/ffmpeg/bin/ffmpeg" || cfg.FFprobePath != "" {
		t.Fatalf("unexpected tool paths: %q %q", cfg.FFmpegPath, cfg.FFprobePath)
	}
	if cfg.PacketScanLimit != 48 || cfg.PreviewWorkers != 4 {
		t.Fatalf("unexpected limits: %d %d", cfg.PacketScanLimit, cfg.PreviewWorkers)
	}
	if cfg.LogLevel != "debug" || cfg.WatchInput {
		t.Fatalf("unexpected log/watch: %s %v", cfg.LogLevel, cfg.WatchInput)
	}
}

func TestLoadProjectConfigPartialKeepsDefaults(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, projectConfigFileName), []byte("preview_workers: 1\n"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	cfg, _, err := LoadProjectConfig(root)
	if err != nil {
		t.Fatalf("LoadProjectConfig failed: %v", err)
	}
	if cfg.PreviewWorkers != 1 || cfg.PacketScanLimit != 24 || !cfg.WatchInput || cfg.OnConflict != "versioned" {
		t.Fatalf("defaults not kept: %+v", cfg)
	}
}

func TestLoadProjectConfigMissingFile(t *testing.T) {
	cfg, path, err := LoadProjectConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadProjectConfig failed: %v", err)
	}
	if path != "" {
		t.Fatalf("expected empty path, got: %s", path)
	}
	if *cfg != *DefaultProjectConfig() {
		t.Fatalf("expected defaults for missing file, got %+v", cfg)
	}
}

func TestLoadProjectConfigInvalidValue(t *testing.T) {
	tests := []string{
		"packet_scan_limit: 5000",
		"on_conflict: rename",
		"log_level: loud",
		"preview_workers: [1, 2]",
	}
	for _, content := range tests {
		root := t.TempDir()
		if err := os.WriteFile(filepath.Join(root, projectConfigFileName), []byte(content), 0644); err != nil {
			t.Fatalf("write failed: %v", err)
		}
		if _, _, err := LoadProjectConfig(root); err == nil {
			t.Fatalf("expected error for %q", content)
		}
	}
}

func TestAppConfigRoundTrip(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	if !IsFirstRun() {
		t.Fatalf("expected first run on empty home")
	}
	if err := MarkFirstRunDone(); err != nil {
		t.Fatalf("MarkFirstRunDone failed: %v", err)
	}
	if IsFirstRun() {
		t.Fatalf("expected first run to be recorded")
	}

	media := filepath.Join(home, "videos")
	if err := os.MkdirAll(media, 0755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	if err := RememberInput(filepath.Join(media, "clip.mp4")); err != nil {
		t.Fatalf("RememberInput failed: %v", err)
	}
	if got := LastInputDir(); got != media {
		t.Fatalf("expected %s, got %s", media, got)
	}

	if _, err := os.Stat(filepath.Join(home, ".trimview", "config.json")); err != nil {
		t.Fatalf("expected config file: %v", err)
	}
}
