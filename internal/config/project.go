package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mlihgenel/trimview-cli/internal/logging"
)

const projectConfigFileName = ".trimview.yaml"

// ProjectConfig proje bazlı varsayılanlar
type ProjectConfig struct {
	OnConflict      string `yaml:"on_conflict"`
	FFmpegPath      string `yaml:"ffmpeg_path"`
	FFprobePath     string `yaml:"ffprobe_path"`
	PacketScanLimit int    `yaml:"packet_scan_limit"`
	PreviewWorkers  int    `yaml:"preview_workers"`
	LogLevel        string `yaml:"log_level"`
	WatchInput      bool   `yaml:"watch_input"`
}

// DefaultProjectConfig dosya bulunamadığında kullanılan değerler
func DefaultProjectConfig() *ProjectConfig {
	return &ProjectConfig{
		OnConflict:      "versioned",
		PacketScanLimit: 24,
		PreviewWorkers:  2,
		LogLevel:        "info",
		WatchInput:      true,
	}
}

// LoadProjectConfig currentDir'den yukarı doğru .trimview.yaml arar.
// Dosya yoksa varsayılanlar ve boş yol döner.
func LoadProjectConfig(currentDir string) (*ProjectConfig, string, error) {
	path, err := findProjectConfigPath(currentDir)
	if err != nil {
		return nil, "", err
	}
	if path == "" {
		return DefaultProjectConfig(), "", nil
	}

	cfg, err := parseProjectConfig(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func findProjectConfigPath(startDir string) (string, error) {
	if strings.TrimSpace(startDir) == "" {
		return "", errors.New("gecersiz calisma dizini")
	}

	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		candidate := filepath.Join(dir, projectConfigFileName)
		info, statErr := os.Stat(candidate)
		if statErr == nil && !info.IsDir() {
			return candidate, nil
		}
		if statErr != nil && !errors.Is(statErr, os.ErrNotExist) {
			return "", statErr
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func parseProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("proje ayarları okunamadı: %w", err)
	}

	cfg := DefaultProjectConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate değer aralıklarını kontrol eder
func (c *ProjectConfig) Validate() error {
	c.OnConflict = strings.ToLower(strings.TrimSpace(c.OnConflict))
	switch c.OnConflict {
	case "", "overwrite", "skip", "versioned":
	default:
		return fmt.Errorf("gecersiz on_conflict: %s", c.OnConflict)
	}
	if c.PacketScanLimit < 0 || c.PacketScanLimit > 1000 {
		return fmt.Errorf("packet_scan_limit 0-1000 araliginda olmali")
	}
	if c.PreviewWorkers < 0 {
		return fmt.Errorf("preview_workers 0 veya daha buyuk olmali")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}
