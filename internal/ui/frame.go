package ui

import (
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xdraw "golang.org/x/image/draw"
)

const halfBlock = "▀"

// FitSize kaynak boyutu en/boy oranını koruyarak hedef kutuya sığdırır
func FitSize(srcWidth, srcHeight, maxWidth, maxHeight int) (int, int) {
	if srcWidth <= 0 || srcHeight <= 0 || maxWidth <= 0 || maxHeight <= 0 {
		return 0, 0
	}
	scale := math.Min(float64(maxWidth)/float64(srcWidth), float64(maxHeight)/float64(srcHeight))
	w := max(int(math.Round(float64(srcWidth)*scale)), 1)
	h := max(int(math.Round(float64(srcHeight)*scale)), 1)
	return min(w, maxWidth), min(h, maxHeight)
}

// Scale görseli verilen boyuta ölçekler
func Scale(src image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, max(width, 1), max(height, 1)))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

// RenderHalfBlocks görseli terminal hücrelerine çizer. Her hücre iki dikey
// pikseli taşır: üst piksel ön plan, alt piksel arka plan rengidir.
func RenderHalfBlocks(img image.Image, cols, rows int) string {
	if img == nil {
		return ""
	}
	b := img.Bounds()
	w, h := FitSize(b.Dx(), b.Dy(), cols, rows*2)
	if w == 0 || h == 0 {
		return ""
	}
	// Tek satırlık artık olmasın
	if h%2 == 1 {
		h++
	}
	scaled := Scale(img, w, h)

	var sb strings.Builder
	for y := 0; y < h; y += 2 {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < w; x++ {
			top := scaled.RGBAAt(x, y)
			bottom := scaled.RGBAAt(x, y+1)
			style := lipgloss.NewStyle().
				Foreground(lipgloss.Color(hexColor(top.R, top.G, top.B))).
				Background(lipgloss.Color(hexColor(bottom.R, bottom.G, bottom.B)))
			sb.WriteString(style.Render(halfBlock))
		}
	}
	return sb.String()
}

func hexColor(r, g, b uint8) string {
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}
