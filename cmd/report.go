package cmd

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mlihgenel/trimview-cli/internal/preview"
	"github.com/mlihgenel/trimview-cli/internal/report"
	"github.com/mlihgenel/trimview-cli/internal/ui"
)

var (
	reportWindow windowFlags
	reportPath   string
)

var reportCmd = &cobra.Command{
	Use:   "report <video-dosyası>",
	Short: "Kırpma penceresinin PDF özetini üretir",
	Long: `Pencere bilgisini ve başlangıç/bitiş karelerini tek sayfalık bir PDF'e yazar.
Kareleri alınamayan girdilerde hata mesajı sayfaya eklenir.

Örnekler:
  trimview-cli report klip.mp4
  trimview-cli report klip.mp4 --start 5 --end 42 --pdf ozet.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireTools(); err != nil {
			return err
		}

		input := args[0]
		s, err := openSession(cmd.Context(), input, reportWindow)
		if err != nil {
			ui.PrintError(err.Error())
			return err
		}
		params := s.rec.Params()
		info, _ := s.rec.TrackInfo()

		deliveries := s.renderPreviews(cmd.Context(), nil)
		sheet := report.Sheet{Params: params, Info: info, CreatedAt: time.Now()}
		for _, slot := range []preview.Slot{preview.SlotStart, preview.SlotEnd} {
			frame := report.Frame{Label: slotLabel(slot), At: slotTime(params, info, slot)}
			if !info.HasVideo {
				frame.Err = fmt.Errorf("girdide video stream yok")
			} else if d, ok := deliveries[slot]; ok {
				frame.Err = d.Err
				if d.Frame != nil {
					frame.Image = d.Frame.Image()
				}
			}
			sheet.Frames = append(sheet.Frames, frame)
		}

		path := reportPath
		if path == "" {
			stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
			path = filepath.Join(exportDir("", input), stem+"_trim.pdf")
		}
		pages, err := report.Write(path, sheet)
		if err != nil {
			ui.PrintError(err.Error())
			return err
		}
		if err := report.Verify(path, pages); err != nil {
			ui.PrintError(err.Error())
			return err
		}
		ui.PrintSuccess(fmt.Sprintf("Rapor yazıldı → %s (%d sayfa)", path, pages))
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportWindow.start, "start", "", "Başlangıç zamanı (saniye, MM:SS, HH:MM:SS)")
	reportCmd.Flags().StringVar(&reportWindow.end, "end", "", "Bitiş zamanı (varsayılan: video sonu)")
	reportCmd.Flags().StringVar(&reportWindow.output, "output", "", "Rapora yazılacak kırpma çıktısı yolu")
	reportCmd.Flags().StringVar(&reportPath, "pdf", "", "PDF dosyası (varsayılan: <isim>_trim.pdf)")
	rootCmd.AddCommand(reportCmd)
}

func slotLabel(slot preview.Slot) string {
	if slot == preview.SlotEnd {
		return "Bitiş"
	}
	return "Başlangıç"
}
