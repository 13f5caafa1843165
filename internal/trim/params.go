package trim

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/mlihgenel/trimview-cli/internal/media"
)

// Endpoint düzenlenen kırpma ucu
type Endpoint int

const (
	EndpointStart Endpoint = iota
	EndpointEnd
)

func (e Endpoint) String() string {
	if e == EndpointEnd {
		return "end"
	}
	return "start"
}

// ErrEmptyWindow başlangıç ve bitiş arasında süre kalmadığında döner
var ErrEmptyWindow = errors.New("kırpma aralığı boş: bitiş başlangıçtan büyük olmalıdır")

// Params kırpma parametreleri
type Params struct {
	Start                 float64
	End                   float64
	InputPath             string
	OutputPath            string
	OutputPathIsGenerated bool
	CopyVideo             bool
	CopyAudio             bool
	CopySubtitles         bool
	CopyOtherTracks       bool
}

// Duration seçili aralığın uzunluğu
func (p Params) Duration() float64 {
	return p.End - p.Start
}

// Validate parametrelerin kırpma için yeterli olup olmadığını kontrol eder
func (p Params) Validate() error {
	if strings.TrimSpace(p.InputPath) == "" {
		return errors.New("girdi dosyası seçilmedi")
	}
	if strings.TrimSpace(p.OutputPath) == "" {
		return errors.New("çıktı dosyası belirtilmedi")
	}
	if filepath.Clean(p.InputPath) == filepath.Clean(p.OutputPath) {
		return errors.New("çıktı dosyası girdi ile aynı olamaz")
	}
	if p.Start < 0 || p.End <= p.Start {
		return ErrEmptyWindow
	}
	return nil
}

func (p *Params) applyTrackInfo(info media.TrackInfo) {
	p.CopyVideo = info.HasVideo
	p.CopyAudio = info.HasAudio
	p.CopySubtitles = info.HasSubtitles
	p.CopyOtherTracks = info.HasOtherTracks
}

// Clamp değerleri sırayla düzeltir: negatifler sıfırlanır, bitiş süreye
// indirilir, başlangıç bitişi geçiyorsa bitişe çekilir, ardından bitiş
// başlangıcın altındaysa başlangıca itilir. Tek geçişte sabit noktaya ulaşır.
func Clamp(start, end, duration float64) (float64, float64) {
	start = max(start, 0)
	end = max(end, 0)
	if duration > 0 && end > duration {
		end = duration
	}
	if start > end {
		start = end
	}
	if end < start {
		end = start
	}
	return start, end
}

// GenerateOutputPath girdiyle aynı dizinde "<isim>_edited.<uzantı>" üretir.
// Uzantısız girdilerde mkv kullanılır.
func GenerateOutputPath(input string) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	base := filepath.Base(input)
	ext := filepath.Ext(base)
	// ".hidden" gibi adlarda nokta uzantı değil, adın parçası
	if ext == base {
		ext = ""
	}
	stem := strings.TrimSuffix(base, ext)
	if ext == "" || ext == "." {
		ext = ".mkv"
	}
	return filepath.Join(filepath.Dir(input), stem+"_edited"+ext)
}
