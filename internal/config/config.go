package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// AppConfig kullanıcıya ait kalıcı uygulama durumunu tutar
type AppConfig struct {
	FirstRunCompleted bool   `json:"first_run_completed"`
	LastInputDir      string `json:"last_input_dir,omitempty"`
	DefaultOutputDir  string `json:"default_output_dir,omitempty"`
}

// Dir uygulama dizinini döner (~/.trimview)
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".trimview"), nil
}

// LogPath etkileşimli moddaki log dosyasının yolu
func LogPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "trimview.log"), nil
}

func configPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadConfig yapılandırmayı dosyadan okur.
// Dosya yoksa ya da bozuksa varsayılan değerler döner.
func LoadConfig() *AppConfig {
	path, err := configPath()
	if err != nil {
		return &AppConfig{}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return &AppConfig{}
	}

	var cfg AppConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return &AppConfig{}
	}
	return &cfg
}

// SaveConfig yapılandırmayı dosyaya kaydeder
func SaveConfig(cfg *AppConfig) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// IsFirstRun uygulamanın ilk kez çalıştırılıp çalıştırılmadığını kontrol eder
func IsFirstRun() bool {
	return !LoadConfig().FirstRunCompleted
}

// MarkFirstRunDone ilk çalıştırmayı tamamlandı olarak işaretler
func MarkFirstRunDone() error {
	cfg := LoadConfig()
	cfg.FirstRunCompleted = true
	return SaveConfig(cfg)
}

// RememberInput son açılan girdinin dizinini kaydeder
func RememberInput(inputPath string) error {
	abs, err := filepath.Abs(inputPath)
	if err != nil {
		return err
	}
	cfg := LoadConfig()
	cfg.LastInputDir = filepath.Dir(abs)
	return SaveConfig(cfg)
}

// LastInputDir dosya tarayıcısının başlangıç dizini
func LastInputDir() string {
	dir := LoadConfig().LastInputDir
	if dir == "" {
		return ""
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return ""
	}
	return dir
}

// DefaultOutputDir dışa aktarılan görsel ve raporların varsayılan dizini.
// Boşsa girdinin dizini kullanılır.
func DefaultOutputDir() string {
	return LoadConfig().DefaultOutputDir
}
