package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mlihgenel/trimview-cli/internal/media"
	"github.com/mlihgenel/trimview-cli/internal/report"
	"github.com/mlihgenel/trimview-cli/internal/trim"
	"github.com/mlihgenel/trimview-cli/internal/ui"
)

var (
	trimWindow    windowFlags
	trimVideo     bool
	trimAudio     bool
	trimSubtitles bool
	trimOther     bool
	trimReport    string
	trimReportOut string
)

var trimCmd = &cobra.Command{
	Use:   "trim <video-dosyası>",
	Short: "Videoyu yeniden kodlamadan kırpar",
	Long: `Seçilen aralığı ffmpeg stream-copy ile yeni bir dosyaya yazar.
Kalite kaybı olmaz; başlangıç en yakın keyframe'e denk gelir.

Track bayrakları verilmezse girdide bulunan video, ses ve altyazı track'leri
kopyalanır, diğer track'ler (data, ek) atlanır.

Çıktı varsayılan olarak girdinin yanına "<isim>_edited.<uzantı>" adıyla yazılır.

Örnekler:
  trimview-cli trim klip.mp4 --start 5 --end 42
  trimview-cli trim klip.mp4 --start 00:01:10 --audio=false
  trimview-cli trim film.mkv --end 10:00 --other --output kisa.mkv --on-conflict overwrite
  trimview-cli trim klip.mp4 --start 5 --report json --report-file sonuc.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireTools(); err != nil {
			return err
		}
		if report.NormalizeRunFormat(trimReport) == "" {
			return fmt.Errorf("gecersiz report formati: %s", trimReport)
		}

		s, err := openSession(cmd.Context(), args[0], trimWindow)
		if err != nil {
			ui.PrintError(err.Error())
			return err
		}
		s.coord.CancelAll()

		toggles := []struct {
			flag string
			want bool
			kind media.Kind
		}{
			{"video", trimVideo, media.KindVideo},
			{"audio", trimAudio, media.KindAudio},
			{"subtitles", trimSubtitles, media.KindSubtitle},
			{"other", trimOther, media.KindData},
		}
		for _, tg := range toggles {
			if cmd.Flags().Changed(tg.flag) && copyFlag(s.rec.Params(), tg.kind) != tg.want {
				s.rec.Toggle(tg.kind)
			}
		}

		params := s.rec.Params()
		ui.PrintTrim(params.InputPath, params.OutputPath, params.Start, params.End)

		startedAt := time.Now()
		exec := trim.Executor{FFmpeg: tools.FFmpeg, Policy: conflictPolicy}
		outcome, err := exec.Execute(cmd.Context(), params)
		if reportErr := writeRunReport(report.Run{
			Params:    params,
			Outcome:   outcome,
			Err:       err,
			StartedAt: startedAt,
			EndedAt:   time.Now(),
		}); reportErr != nil {
			ui.PrintWarning(reportErr.Error())
		}
		if err != nil {
			ui.PrintError(err.Error())
			return err
		}
		if outcome.Skipped {
			ui.PrintWarning(fmt.Sprintf("Çıktı zaten var, atlandı: %s", outcome.OutputPath))
			return nil
		}
		ui.PrintSuccess(fmt.Sprintf("Kırpıldı → %s", outcome.OutputPath))
		ui.PrintDuration(outcome.Elapsed)
		return nil
	},
}

func init() {
	trimCmd.Flags().StringVar(&trimWindow.start, "start", "", "Başlangıç zamanı (saniye, MM:SS, HH:MM:SS)")
	trimCmd.Flags().StringVar(&trimWindow.end, "end", "", "Bitiş zamanı (varsayılan: video sonu)")
	trimCmd.Flags().StringVar(&trimWindow.output, "output", "", "Çıktı dosyası (varsayılan: <isim>_edited.<uzantı>)")
	trimCmd.Flags().BoolVar(&trimVideo, "video", true, "Video track'lerini kopyala")
	trimCmd.Flags().BoolVar(&trimAudio, "audio", true, "Ses track'lerini kopyala")
	trimCmd.Flags().BoolVar(&trimSubtitles, "subtitles", true, "Altyazı track'lerini kopyala")
	trimCmd.Flags().BoolVar(&trimOther, "other", false, "Diğer track'leri (data, ek) kopyala")
	trimCmd.Flags().StringVar(&trimReport, "report", report.RunOff, "Rapor formatı: off, txt, json")
	trimCmd.Flags().StringVar(&trimReportOut, "report-file", "", "Raporu dosyaya yaz (varsayılan: stdout)")
	rootCmd.AddCommand(trimCmd)
}

// copyFlag bir track türünün güncel kopyalama bayrağı
func copyFlag(p trim.Params, kind media.Kind) bool {
	switch kind {
	case media.KindVideo:
		return p.CopyVideo
	case media.KindAudio:
		return p.CopyAudio
	case media.KindSubtitle:
		return p.CopySubtitles
	default:
		return p.CopyOtherTracks
	}
}

func writeRunReport(run report.Run) error {
	text, err := report.RenderRun(trimReport, run)
	if err != nil || text == "" {
		return err
	}
	if trimReportOut == "" {
		fmt.Println(text)
		return nil
	}
	if err := os.WriteFile(trimReportOut, []byte(text), 0644); err != nil {
		return fmt.Errorf("rapor yazılamadı: %w", err)
	}
	ui.PrintInfo(fmt.Sprintf("Rapor: %s", trimReportOut))
	return nil
}
