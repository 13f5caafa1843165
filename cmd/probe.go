package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mlihgenel/trimview-cli/internal/media"
	"github.com/mlihgenel/trimview-cli/internal/ui"
)

var probeCmd = &cobra.Command{
	Use:   "probe <video-dosyası>",
	Short: "Girdinin süresini ve stream'lerini gösterir",
	Long: `Girdiyi ffprobe ile okur; süreyi, hangi track türlerinin bulunduğunu ve
stream listesini tablo olarak yazdırır.

Örnekler:
  trimview-cli probe klip.mp4
  trimview-cli probe film.mkv --verbose`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireTools(); err != nil {
			return err
		}

		details, err := media.NewProber(tools).ProbeDetails(cmd.Context(), args[0])
		if err != nil {
			ui.PrintError(err.Error())
			return err
		}
		info, err := details.TrackInfo()
		if err != nil {
			ui.PrintError(err.Error())
			return err
		}

		fmt.Println()
		ui.PrintInfo(fmt.Sprintf("Dosya:  %s", args[0]))
		ui.PrintInfo(fmt.Sprintf("Format: %s", details.Format.FormatLongName))
		ui.PrintInfo(fmt.Sprintf("Süre:   %s", ui.FormatClock(info.DurationSeconds)))
		ui.PrintInfo(fmt.Sprintf("Track:  video=%s ses=%s altyazı=%s diğer=%s",
			yesNo(info.HasVideo), yesNo(info.HasAudio), yesNo(info.HasSubtitles), yesNo(info.HasOtherTracks)))
		fmt.Println()

		rows := make([][]string, 0, len(details.Streams))
		for _, s := range details.Streams {
			rows = append(rows, streamRow(s))
		}
		ui.PrintTable([]string{"#", "Tür", "Codec", "Detay", "Dil", "Varsayılan"}, rows)
		fmt.Println()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(probeCmd)
}

func streamRow(s media.Stream) []string {
	detail := "-"
	switch s.Kind() {
	case media.KindVideo:
		detail = fmt.Sprintf("%dx%d %s", s.Width, s.Height, s.PixFmt)
		if s.Disposition.AttachedPic == 1 {
			detail += " (kapak)"
		}
	case media.KindAudio:
		detail = fmt.Sprintf("%d kanal %s Hz", s.Channels, s.SampleRate)
	}
	codec := s.CodecName
	if codec == "" {
		codec = "-"
	}
	lang := s.Tags.Language
	if lang == "" {
		lang = "-"
	}
	return []string{
		strconv.Itoa(s.Index),
		s.Kind().String(),
		codec,
		detail,
		lang,
		yesNo(s.Disposition.Default == 1),
	}
}

func yesNo(v bool) string {
	if v {
		return "evet"
	}
	return "hayır"
}
