package installer

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"strings"
)

const ffmpegManualURL = "https://ffmpeg.org/download.html"

// InstallInfo kurulum bilgisini tutar
type InstallInfo struct {
	ToolName    string
	Command     string
	Args        []string
	Description string
	ManualURL   string
	Supported   bool // Otomatik kurulum destekleniyor mu
}

// İşletim sistemine göre denenecek paket yöneticileri, öncelik sırasıyla
var packageManagers = map[string][]string{
	"darwin":  {"brew"},
	"linux":   {"apt", "dnf", "yum", "pacman"},
	"windows": {"choco", "winget"},
}

// ffmpeg (ffprobe dahil) kurulum komutları
var ffmpegCommands = map[string][]string{
	"brew":   {"brew", "install", "ffmpeg"},
	"apt":    {"sudo", "apt", "install", "-y", "ffmpeg"},
	"dnf":    {"sudo", "dnf", "install", "-y", "ffmpeg"},
	"yum":    {"sudo", "yum", "install", "-y", "ffmpeg"},
	"pacman": {"sudo", "pacman", "-S", "--noconfirm", "ffmpeg"},
	"choco":  {"choco", "install", "ffmpeg", "-y"},
	"winget": {"winget", "install", "Gyan.FFmpeg"},
}

// DetectPackageManager mevcut paket yöneticisini tespit eder
func DetectPackageManager() string {
	return detectPackageManager(runtime.GOOS, exec.LookPath)
}

func detectPackageManager(goos string, lookPath func(string) (string, error)) string {
	for _, pm := range packageManagers[goos] {
		if _, err := lookPath(pm); err == nil {
			return pm
		}
	}
	return ""
}

// FFmpegInstallInfo verilen paket yöneticisi için ffmpeg kurulum bilgisini döner
func FFmpegInstallInfo(pm string) InstallInfo {
	info := InstallInfo{
		ToolName:  "FFmpeg",
		ManualURL: ffmpegManualURL,
	}
	cmd, ok := ffmpegCommands[pm]
	if !ok {
		return info
	}
	info.Command = cmd[0]
	info.Args = cmd[1:]
	info.Description = strings.Join(cmd, " ")
	info.Supported = true
	return info
}

// InstallFFmpeg ffmpeg'i sistem paket yöneticisiyle kurar.
// Kurulum çıktısı out'a, kullanıcı girdisi in'den okunur.
func InstallFFmpeg(ctx context.Context, in io.Reader, out io.Writer) (string, error) {
	info := FFmpegInstallInfo(DetectPackageManager())
	if !info.Supported {
		return "", fmt.Errorf(
			"%s otomatik olarak kurulamıyor.\nManuel kurulum: %s",
			info.ToolName, info.ManualURL,
		)
	}

	cmd := exec.CommandContext(ctx, info.Command, info.Args...)
	cmd.Stdin = in
	cmd.Stdout = out
	cmd.Stderr = out

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s kurulumu başarısız: %w", info.ToolName, err)
	}
	return info.Description, nil
}
