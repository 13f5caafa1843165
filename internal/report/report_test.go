package report

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mlihgenel/trimview-cli/internal/media"
	"github.com/mlihgenel/trimview-cli/internal/trim"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestWriteSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheet.pdf")
	sheet := Sheet{
		Params: trim.Params{
			Start:      1.5,
			End:        8,
			InputPath:  "/videos/çekim.mp4",
			OutputPath: "/videos/çekim_edited.mp4",
			CopyVideo:  true,
			CopyAudio:  true,
		},
		Info: media.TrackInfo{DurationSeconds: 12.5, HasVideo: true, HasAudio: true},
		Frames: []Frame{
			{Label: "Başlangıç", At: 1.5, Image: solid(64, 36, color.RGBA{R: 200, A: 0xFF})},
			{Label: "Bitiş", At: 8, Err: errors.New("kullanılabilir kare bulunamadı")},
		},
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	pages, err := Write(path, sheet)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if pages != 1 {
		t.Fatalf("expected 1 page, got %d", pages)
	}
	if err := Verify(path, pages); err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if err := Verify(path, 2); !errors.Is(err, ErrInvalidSheet) {
		t.Fatalf("expected page count mismatch, got %v", err)
	}
}

func TestTrackSummary(t *testing.T) {
	if got := trackSummary(trim.Params{}); got != "-" {
		t.Fatalf("expected dash for no tracks, got %q", got)
	}
	got := trackSummary(trim.Params{CopyVideo: true, CopySubtitles: true})
	if got != "video, altyazı" {
		t.Fatalf("unexpected summary %q", got)
	}
}

func TestVerifyRejectsBrokenFile(t *testing.T) {
	dir := t.TempDir()
	if err := Verify(filepath.Join(dir, "none.pdf"), 1); !errors.Is(err, ErrInvalidSheet) {
		t.Fatalf("expected error for missing file, got %v", err)
	}

	path := filepath.Join(dir, "short.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.3\n1 0 obj"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := Verify(path, 1); !errors.Is(err, ErrInvalidSheet) {
		t.Fatalf("expected error for truncated file, got %v", err)
	}
}
