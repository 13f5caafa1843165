package media

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/mlihgenel/trimview-cli/internal/logging"
)

// Tools ffmpeg ve ffprobe çalıştırılabilir yollarını tutar
type Tools struct {
	FFmpeg  string
	FFprobe string
}

// FindTools ffmpeg/ffprobe yollarını çözer.
// Sıra: açık yol, çevre değişkeni (FFMPEG_PATH/FFPROBE_PATH), PATH, bilinen dizinler.
func FindTools(ffmpegPath, ffprobePath string) Tools {
	return Tools{
		FFmpeg:  findTool("ffmpeg", ffmpegPath, "FFMPEG_PATH"),
		FFprobe: findTool("ffprobe", ffprobePath, "FFPROBE_PATH"),
	}
}

// Available her iki aracın da bulunup bulunmadığını söyler
func (t Tools) Available() bool {
	return t.FFmpeg != "" && t.FFprobe != ""
}

// Missing eksik araçların isimlerini döner
func (t Tools) Missing() []string {
	var missing []string
	if t.FFmpeg == "" {
		missing = append(missing, "ffmpeg")
	}
	if t.FFprobe == "" {
		missing = append(missing, "ffprobe")
	}
	return missing
}

func findTool(name, explicit, envKey string) string {
	// 1. Açık yol (config/flag)
	if p := strings.TrimSpace(explicit); p != "" {
		if path, err := exec.LookPath(p); err == nil {
			return path
		}
	}

	// 2. Çevre değişkeni
	if envPath := strings.TrimSpace(os.Getenv(envKey)); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	// 3. PATH ve işletim sistemine göre bilinen yollar
	paths := []string{name}
	switch runtime.GOOS {
	case "darwin":
		paths = append(paths, "/opt/homebrew/bin/"+name, "/usr/local/bin/"+name)
	case "linux":
		paths = append(paths, "/usr/bin/"+name, "/usr/local/bin/"+name)
	case "windows":
		paths = append(paths, `C:\ffmpeg\bin\`+name+".exe")
	}

	for _, p := range paths {
		if path, err := exec.LookPath(p); err == nil {
			return path
		}
	}
	return ""
}

// runTool aracı çalıştırır, stdout'u döner. Hata durumunda stderr mesaja eklenir.
// ctx iptal edilirse süreç öldürülür.
func runTool(ctx context.Context, bin string, args ...string) ([]byte, error) {
	if bin == "" {
		return nil, fmt.Errorf("harici araç bulunamadı")
	}

	log := logging.L()
	log.Debugln(bin, strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, bin, args...)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		msg := strings.TrimSpace(stderr.String())
		log.WithError(err).Debugf("%s hata verdi: %s", bin, msg)
		if msg != "" {
			return nil, fmt.Errorf("%s: %s", err.Error(), msg)
		}
		return nil, err
	}
	return stdout.Bytes(), nil
}
