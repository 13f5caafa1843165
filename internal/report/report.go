package report

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"path/filepath"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/ledongthuc/pdf"

	"github.com/mlihgenel/trimview-cli/internal/media"
	"github.com/mlihgenel/trimview-cli/internal/trim"
	"github.com/mlihgenel/trimview-cli/internal/ui"
)

// Frame sayfadaki tek ön izleme karesi
type Frame struct {
	Label string
	At    float64
	Image image.Image
	Err   error
}

// Sheet kırpma penceresinin PDF özeti
type Sheet struct {
	Params    trim.Params
	Info      media.TrackInfo
	Frames    []Frame
	CreatedAt time.Time
}

// Standart PDF fontu Türkçe karakterleri taşımıyor
var latin = strings.NewReplacer(
	"ı", "i", "İ", "I", "ş", "s", "Ş", "S", "ğ", "g", "Ğ", "G",
	"ü", "u", "Ü", "U", "ö", "o", "Ö", "O", "ç", "c", "Ç", "C",
	"→", "->",
)

const sheetTitle = "TrimView - Kirpma Ozeti"

// ErrInvalidSheet yazılan PDF geri okunduğunda beklenenle uyuşmuyor
var ErrInvalidSheet = errors.New("PDF doğrulanamadı")

// Write özeti A4 PDF olarak yazar ve oluşan sayfa sayısını döner
func Write(path string, sheet Sheet) (int, error) {
	p := gofpdf.New("P", "mm", "A4", "")
	p.SetMargins(20, 20, 20)
	p.SetAutoPageBreak(true, 20)
	p.SetTitle("TrimView", false)
	p.AddPage()

	p.SetFont("Helvetica", "B", 18)
	p.CellFormat(0, 10, sheetTitle, "", 1, "L", false, 0, "")
	p.SetFont("Helvetica", "", 9)
	created := sheet.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	p.CellFormat(0, 6, created.Format("2006-01-02 15:04:05"), "", 1, "L", false, 0, "")
	p.Ln(4)

	rows := [][2]string{
		{"Girdi", sheet.Params.InputPath},
		{"Çıktı", sheet.Params.OutputPath},
		{"Toplam süre", ui.FormatClock(sheet.Info.DurationSeconds)},
		{"Başlangıç", ui.FormatClock(sheet.Params.Start)},
		{"Bitiş", ui.FormatClock(sheet.Params.End)},
		{"Seçim süresi", ui.FormatClock(sheet.Params.Duration())},
		{"Kopyalanan", trackSummary(sheet.Params)},
	}
	for _, row := range rows {
		p.SetFont("Helvetica", "B", 10)
		p.CellFormat(40, 7, latin.Replace(row[0]), "1", 0, "L", false, 0, "")
		p.SetFont("Helvetica", "", 10)
		p.CellFormat(0, 7, latin.Replace(row[1]), "1", 1, "L", false, 0, "")
	}
	p.Ln(6)

	pageWidth, _ := p.GetPageSize()
	left, _, right, _ := p.GetMargins()
	imgWidth := pageWidth - left - right

	for i, frame := range sheet.Frames {
		p.SetFont("Helvetica", "B", 12)
		title := fmt.Sprintf("%s (%s)", frame.Label, ui.FormatClock(frame.At))
		p.CellFormat(0, 8, latin.Replace(title), "", 1, "L", false, 0, "")

		if frame.Err != nil || frame.Image == nil {
			msg := "Ön izleme yok"
			if frame.Err != nil {
				msg = frame.Err.Error()
			}
			p.SetFont("Helvetica", "I", 10)
			p.MultiCell(0, 6, latin.Replace(msg), "", "L", false)
			p.Ln(4)
			continue
		}

		var buf bytes.Buffer
		if err := png.Encode(&buf, frame.Image); err != nil {
			return 0, fmt.Errorf("kare encode edilemedi: %w", err)
		}
		name := fmt.Sprintf("frame-%d", i)
		opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
		p.RegisterImageOptionsReader(name, opts, &buf)

		b := frame.Image.Bounds()
		h := imgWidth * float64(b.Dy()) / float64(max(b.Dx(), 1))
		p.ImageOptions(name, left, p.GetY(), imgWidth, h, true, opts, 0, "")
		p.Ln(6)
	}

	pages := p.PageNo()
	if err := p.OutputFileAndClose(path); err != nil {
		return 0, fmt.Errorf("PDF yazılamadı (%s): %w", filepath.Base(path), err)
	}
	return pages, nil
}

func trackSummary(p trim.Params) string {
	var parts []string
	if p.CopyVideo {
		parts = append(parts, "video")
	}
	if p.CopyAudio {
		parts = append(parts, "ses")
	}
	if p.CopySubtitles {
		parts = append(parts, "altyazı")
	}
	if p.CopyOtherTracks {
		parts = append(parts, "diğer")
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}

// Verify PDF'i geri okur: sayfa sayısı wantPages olmalı ve ilk sayfa
// başlığı taşımalı.
func Verify(path string, wantPages int) error {
	f, r, err := pdf.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSheet, err)
	}
	defer f.Close()

	got := r.NumPage()
	if got == 0 || got != wantPages {
		return fmt.Errorf("%w: %d sayfa (beklenen %d)", ErrInvalidSheet, got, wantPages)
	}
	text, err := r.Page(1).GetPlainText(nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSheet, err)
	}
	if !strings.Contains(text, "TrimView") {
		return fmt.Errorf("%w: başlık bulunamadı", ErrInvalidSheet)
	}
	return nil
}
