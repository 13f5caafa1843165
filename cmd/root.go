package cmd

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mlihgenel/trimview-cli/internal/config"
	"github.com/mlihgenel/trimview-cli/internal/logging"
	"github.com/mlihgenel/trimview-cli/internal/media"
	"github.com/mlihgenel/trimview-cli/internal/trim"
)

var (
	verbose    bool
	logLevel   string
	onConflict string

	appVersion = "dev"
	appCommit  = ""
	appDate    = ""

	// PersistentPreRunE içinde doldurulur
	projectCfg     = config.DefaultProjectConfig()
	tools          media.Tools
	conflictPolicy = trim.ConflictVersioned
)

// SetVersionInfo build-time version bilgisini ayarlar
func SetVersionInfo(version, commit, date string) {
	if strings.TrimSpace(version) != "" {
		appVersion = version
	}
	appCommit = strings.TrimSpace(commit)
	if appCommit == "none" {
		appCommit = ""
	}
	appDate = strings.TrimSpace(date)
	if appDate == "" || appDate == "unknown" {
		appDate = time.Now().Format("2006-01-02 15:04:05")
	}
	rootCmd.Version = appVersion
	rootCmd.SetVersionTemplate(versionTemplate())
}

func versionTemplate() string {
	commit := appCommit
	if commit == "" {
		commit = "-"
	}
	return fmt.Sprintf(
		"TrimView CLI v%s\nCommit: %s\nTarih:  %s\nGo:     %s\nOS:     %s/%s\n",
		appVersion, commit, appDate, runtime.Version(), runtime.GOOS, runtime.GOARCH,
	)
}

var rootCmd = &cobra.Command{
	Use:   "trimview-cli [video-dosyası]",
	Short: "TrimView CLI - ön izlemeli kayıpsız video kırpma",
	Long: `TrimView CLI: Videolarınızı yeniden kodlamadan, kare ön izlemesiyle kırpın.

Başlangıç ve bitiş noktalarını seçerken her iki noktanın karesi terminalde
gösterilir. Kırpma işlemi ffmpeg stream-copy ile yapılır; kalite kaybı olmaz.

İnteraktif editör kısayolları:
  ←/→         Seçili noktayı adım kadar kaydır
  [ / ]       Adımı küçült / büyüt
  Tab         Başlangıç / bitiş arasında geç
  e           Süreyi elle yaz (saniye, MM:SS veya HH:MM:SS)
  v a s o     Video / ses / altyazı / diğer track'leri aç-kapat
  ctrl+s      Kırp
  q / Esc     Çıkış

Örnekler:
  trimview-cli klip.mp4
  trimview-cli probe klip.mp4
  trimview-cli preview klip.mp4 --start 00:12 --end 01:30 --format webp
  trimview-cli trim klip.mp4 --start 5 --end 00:00:42.5
  trimview-cli report klip.mp4 --start 5 --end 42
  trimview-cli doctor`,
	Version:           appVersion,
	Args:              cobra.MaximumNArgs(1),
	PersistentPreRunE: setupRuntime,
	RunE: func(cmd *cobra.Command, args []string) error {
		input := ""
		if len(args) == 1 {
			input = args[0]
		}
		return RunInteractive(input)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logging.Close()
	},
}

// Execute CLI'ı çalıştırır
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "V", false, "Detaylı çıktı modu (loglar stderr'e yazılır)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log seviyesi: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&onConflict, "on-conflict", "", "Çıktı çakışma politikası: overwrite, skip, versioned")

	SetVersionInfo(appVersion, appCommit, appDate)

	// Hata mesajlarını özelleştir
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		fmt.Fprintf(os.Stderr, "Hata: %s\n\n", err.Error())
		cmd.Usage()
		return err
	})
}

// setupRuntime proje ayarlarını, logger'ı ve ffmpeg araçlarını hazırlar.
// Öncelik: flag > .trimview.yaml > varsayılan.
func setupRuntime(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	cfg, cfgPath, err := config.LoadProjectConfig(cwd)
	if err != nil {
		return err
	}
	projectCfg = cfg

	level := cfg.LogLevel
	if cmd.Flags().Changed("log-level") {
		level = logLevel
	}
	if verbose && !cmd.Flags().Changed("log-level") {
		level = "debug"
	}

	// Editör stdout'u kullandığı için loglar dosyaya gider
	switch {
	case !cmd.HasParent():
		logPath, err := config.LogPath()
		if err != nil {
			return err
		}
		err = logging.Setup(level, logPath, nil)
		if err != nil {
			return err
		}
	case verbose:
		if err := logging.Setup(level, "", os.Stderr); err != nil {
			return err
		}
	default:
		if err := logging.Setup(level, "", nil); err != nil {
			return err
		}
	}

	rawPolicy := cfg.OnConflict
	if cmd.Flags().Changed("on-conflict") {
		rawPolicy = onConflict
	}
	conflictPolicy, err = trim.ParseConflictPolicy(rawPolicy)
	if err != nil {
		return err
	}

	tools = media.FindTools(cfg.FFmpegPath, cfg.FFprobePath)

	log := logging.L()
	if cfgPath != "" {
		log.WithField("path", cfgPath).Debug("proje ayarları yüklendi")
	}
	if missing := tools.Missing(); len(missing) > 0 {
		log.WithField("missing", strings.Join(missing, ", ")).Warn("harici araçlar eksik")
	}
	return nil
}

// requireTools ffmpeg/ffprobe yoksa kullanıcıya doctor komutunu önerir
func requireTools() error {
	if missing := tools.Missing(); len(missing) > 0 {
		return fmt.Errorf("%s bulunamadı; kurulum için: trimview-cli doctor", strings.Join(missing, ", "))
	}
	return nil
}

func newDecoder() *media.Decoder {
	return media.NewDecoder(media.NewFFmpegDemuxer(tools, projectCfg.PacketScanLimit))
}
