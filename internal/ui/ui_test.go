package ui

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 20), G: uint8(y * 20), B: 128, A: 0xFF})
		}
	}
	return img
}

func TestFitSize(t *testing.T) {
	tests := []struct {
		sw, sh, mw, mh int
		w, h           int
	}{
		{1920, 1080, 80, 80, 80, 45},
		{1000, 2000, 80, 40, 20, 40},
		{10, 10, 100, 50, 50, 50},
		{0, 10, 100, 50, 0, 0},
	}
	for _, tt := range tests {
		w, h := FitSize(tt.sw, tt.sh, tt.mw, tt.mh)
		if w != tt.w || h != tt.h {
			t.Fatalf("FitSize(%d,%d,%d,%d) = %d,%d want %d,%d", tt.sw, tt.sh, tt.mw, tt.mh, w, h, tt.w, tt.h)
		}
	}
}

func TestRenderHalfBlocks(t *testing.T) {
	out := RenderHalfBlocks(testImage(16, 8), 8, 10)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 rows for an 8x4 fit, got %d", len(lines))
	}
	for _, line := range lines {
		if n := strings.Count(line, halfBlock); n != 8 {
			t.Fatalf("expected 8 cells per row, got %d", n)
		}
	}
	if RenderHalfBlocks(nil, 10, 10) != "" {
		t.Fatalf("nil image must render empty")
	}
}

func TestSaveImageFormats(t *testing.T) {
	dir := t.TempDir()
	img := testImage(8, 6)

	for _, format := range ImageFormats {
		path := filepath.Join(dir, "frame."+format)
		if err := SaveImage(path, img, "", 90); err != nil {
			t.Fatalf("SaveImage %s failed: %v", format, err)
		}
		info, err := os.Stat(path)
		if err != nil || info.Size() == 0 {
			t.Fatalf("expected non-empty %s output", format)
		}
	}

	f, err := os.Open(filepath.Join(dir, "frame.bmp"))
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer f.Close()
	decoded, err := bmp.Decode(f)
	if err != nil {
		t.Fatalf("bmp decode failed: %v", err)
	}
	if decoded.Bounds().Dx() != 8 || decoded.Bounds().Dy() != 6 {
		t.Fatalf("unexpected bmp size %v", decoded.Bounds())
	}

	tf, err := os.Open(filepath.Join(dir, "frame.tif"))
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer tf.Close()
	if _, err := tiff.Decode(tf); err != nil {
		t.Fatalf("tiff decode failed: %v", err)
	}

	if err := SaveImage(filepath.Join(dir, "frame.gif"), img, "", 0); err == nil {
		t.Fatalf("expected unsupported format error")
	}
}

func TestFormatClock(t *testing.T) {
	tests := map[float64]string{
		0:       "00:00:00.000",
		1.5:     "00:00:01.500",
		3725.25: "01:02:05.250",
		-2:      "00:00:00.000",
	}
	for in, want := range tests {
		if got := FormatClock(in); got != want {
			t.Fatalf("%v: expected %s, got %s", in, want, got)
		}
	}
}
