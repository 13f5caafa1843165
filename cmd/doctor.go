package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mlihgenel/trimview-cli/internal/config"
	"github.com/mlihgenel/trimview-cli/internal/installer"
	"github.com/mlihgenel/trimview-cli/internal/media"
	"github.com/mlihgenel/trimview-cli/internal/ui"
)

var doctorInstall bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "ffmpeg/ffprobe kurulumunu kontrol eder",
	Long: `Kırpma ve ön izleme için gereken ffmpeg ve ffprobe araçlarını arar.
Eksikse sistem paket yöneticisiyle kurmayı önerir.

Araç yolları sırasıyla .trimview.yaml (ffmpeg_path, ffprobe_path),
FFMPEG_PATH/FFPROBE_PATH çevre değişkenleri ve PATH üzerinden çözülür.

Örnekler:
  trimview-cli doctor
  trimview-cli doctor --install`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ui.PrintBanner()
		ui.PrintTable([]string{"Araç", "Durum", "Yol"}, [][]string{
			toolRow("ffmpeg", tools.FFmpeg),
			toolRow("ffprobe", tools.FFprobe),
		})
		fmt.Println()

		if dir, err := config.Dir(); err == nil {
			ui.PrintInfo(fmt.Sprintf("Ayar dizini: %s", dir))
		}
		if tools.Available() {
			ui.PrintSuccess("Tüm araçlar hazır")
			return nil
		}

		info := installer.FFmpegInstallInfo(installer.DetectPackageManager())
		if !info.Supported {
			ui.PrintWarning(fmt.Sprintf("Otomatik kurulum desteklenmiyor. Manuel kurulum: %s", info.ManualURL))
			return requireTools()
		}
		ui.PrintInfo(fmt.Sprintf("Kurulum komutu: %s", info.Description))

		if !doctorInstall && !confirm("Şimdi kurulsun mu? [e/H] ") {
			return requireTools()
		}

		desc, err := installer.InstallFFmpeg(cmd.Context(), os.Stdin, os.Stdout)
		if err != nil {
			ui.PrintError(err.Error())
			return err
		}
		tools = media.FindTools(projectCfg.FFmpegPath, projectCfg.FFprobePath)
		if err := requireTools(); err != nil {
			return err
		}
		ui.PrintSuccess(fmt.Sprintf("Kuruldu: %s", desc))
		return nil
	},
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorInstall, "install", false, "Onay sormadan kur")
	rootCmd.AddCommand(doctorCmd)
}

func toolRow(name, path string) []string {
	if path == "" {
		return []string{name, "yok", "-"}
	}
	return []string{name, "hazır", path}
}

func confirm(prompt string) bool {
	fmt.Print(prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "e" || answer == "evet" || answer == "y" || answer == "yes"
}
