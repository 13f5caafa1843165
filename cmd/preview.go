package cmd

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/mlihgenel/trimview-cli/internal/config"
	"github.com/mlihgenel/trimview-cli/internal/preview"
	"github.com/mlihgenel/trimview-cli/internal/ui"
)

var (
	previewWindow  windowFlags
	previewFormat  string
	previewOutDir  string
	previewQuality int
)

var previewCmd = &cobra.Command{
	Use:   "preview <video-dosyası>",
	Short: "Başlangıç ve bitiş karelerini görsel olarak kaydeder",
	Long: `Kırpma penceresinin başlangıç ve bitiş noktalarındaki kareleri çözer ve
görsel dosyası olarak kaydeder. Kareler en yakın keyframe'den alınır.

Desteklenen formatlar: png, jpg, bmp, tif, webp

Örnekler:
  trimview-cli preview klip.mp4
  trimview-cli preview klip.mp4 --start 00:12 --end 01:30
  trimview-cli preview klip.mp4 --start 5 --format jpg --quality 90 --out-dir ./kareler`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireTools(); err != nil {
			return err
		}
		format, err := ui.NormalizeImageFormat(previewFormat)
		if err != nil {
			return err
		}

		started := time.Now()
		input := args[0]
		s, err := openSession(cmd.Context(), input, previewWindow)
		if err != nil {
			ui.PrintError(err.Error())
			return err
		}
		info, _ := s.rec.TrackInfo()
		if !info.HasVideo {
			return fmt.Errorf("girdide video stream yok: %s", input)
		}

		params := s.rec.Params()
		ui.PrintTrim(input, params.OutputPath, params.Start, params.End)

		jobs := s.jobs()
		bar := ui.NewProgressBar(len(jobs), "Kareler")
		var mu sync.Mutex
		shown := 0
		deliveries := s.renderPreviews(cmd.Context(), func(completed, total int) {
			mu.Lock()
			defer mu.Unlock()
			if completed > shown {
				shown = completed
				bar.Update(shown)
			}
		})

		outDir := exportDir(previewOutDir, input)
		stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))

		failed := 0
		for _, slot := range []preview.Slot{preview.SlotStart, preview.SlotEnd} {
			d, ok := deliveries[slot]
			if !ok || d.Frame == nil {
				failed++
				msg := fmt.Sprintf("%s karesi alınamadı", slot)
				if ok && d.Err != nil {
					msg += ": " + d.Err.Error()
				}
				ui.PrintError(msg)
				continue
			}
			at := slotTime(params, info, slot)
			path := filepath.Join(outDir, fmt.Sprintf("%s_%s.%s", stem, slot, format))
			if err := ui.SaveImage(path, d.Frame.Image(), format, previewQuality); err != nil {
				failed++
				ui.PrintError(err.Error())
				continue
			}
			ui.PrintSuccess(fmt.Sprintf("%s (%s, %dx%d) → %s",
				slot, ui.FormatClock(at), d.Frame.Width, d.Frame.Height, path))
		}

		ui.PrintDuration(time.Since(started))
		if failed > 0 {
			return fmt.Errorf("%d kare kaydedilemedi", failed)
		}
		return nil
	},
}

func init() {
	previewCmd.Flags().StringVar(&previewWindow.start, "start", "", "Başlangıç zamanı (saniye, MM:SS, HH:MM:SS)")
	previewCmd.Flags().StringVar(&previewWindow.end, "end", "", "Bitiş zamanı (varsayılan: video sonu)")
	previewCmd.Flags().StringVarP(&previewFormat, "format", "f", "png", "Görsel formatı: "+strings.Join(ui.ImageFormats, ", "))
	previewCmd.Flags().StringVar(&previewOutDir, "out-dir", "", "Görsellerin yazılacağı dizin (varsayılan: ayarlardaki default_output_dir ya da girdi dizini)")
	previewCmd.Flags().IntVarP(&previewQuality, "quality", "q", 0, "JPEG kalitesi (1-100)")
	rootCmd.AddCommand(previewCmd)
}

// exportDir açık dizin > config default_output_dir > girdinin dizini
func exportDir(explicit, input string) string {
	if explicit != "" {
		return explicit
	}
	if dir := config.DefaultOutputDir(); dir != "" {
		return dir
	}
	return filepath.Dir(input)
}
