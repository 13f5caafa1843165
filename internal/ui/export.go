package ui

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// ImageFormats ön izleme dışa aktarımında desteklenen formatlar
var ImageFormats = []string{"png", "jpg", "bmp", "tif", "webp"}

// NormalizeImageFormat uzantı ya da format adını standart ada çevirir
func NormalizeImageFormat(format string) (string, error) {
	f := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), "."))
	switch f {
	case "png", "bmp", "webp":
		return f, nil
	case "jpg", "jpeg":
		return "jpg", nil
	case "tif", "tiff":
		return "tif", nil
	default:
		return "", fmt.Errorf("desteklenmeyen görsel formatı: %s", format)
	}
}

// SaveImage görseli formatına göre encode edip dosyaya yazar.
// format boşsa dosya uzantısı kullanılır.
func SaveImage(path string, img image.Image, format string, quality int) error {
	if format == "" {
		format = filepath.Ext(path)
	}
	format, err := NormalizeImageFormat(format)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("çıktı dizini oluşturulamadı: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("çıktı dosyası oluşturulamadı: %w", err)
	}
	defer f.Close()

	switch format {
	case "png":
		err = png.Encode(f, img)
	case "jpg":
		q := 85 // varsayılan JPEG kalitesi
		if quality > 0 && quality <= 100 {
			q = quality
		}
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: q})
	case "bmp":
		err = bmp.Encode(f, img)
	case "tif":
		err = tiff.Encode(f, img, nil)
	case "webp":
		err = nativewebp.Encode(f, img, nil)
	}
	if err != nil {
		return fmt.Errorf("görsel encode hatası (%s): %w", format, err)
	}
	return f.Close()
}
