package media

import (
	"errors"
	"image"
	"math"
)

// Kind bir stream'in medya türü
type Kind int

const (
	KindUnknown Kind = iota
	KindVideo
	KindAudio
	KindSubtitle
	KindData
	KindAttachment
)

func (k Kind) String() string {
	switch k {
	case KindVideo:
		return "video"
	case KindAudio:
		return "audio"
	case KindSubtitle:
		return "subtitle"
	case KindData:
		return "data"
	case KindAttachment:
		return "attachment"
	default:
		return "unknown"
	}
}

// KindFromCodecType ffprobe codec_type alanını Kind'e çevirir
func KindFromCodecType(codecType string) Kind {
	switch codecType {
	case "video":
		return KindVideo
	case "audio":
		return KindAudio
	case "subtitle":
		return KindSubtitle
	case "data":
		return KindData
	case "attachment":
		return KindAttachment
	default:
		return KindUnknown
	}
}

// Prober hataları
var (
	ErrOpenFailed = errors.New("medya açılamadı")
	ErrNoDuration = errors.New("medya süresi okunamadı")
)

// Decoder hataları
var (
	ErrOpen          = errors.New("kapsayıcı açılamadı")
	ErrNoVideoStream = errors.New("video stream bulunamadı")
	ErrDecoderInit   = errors.New("decoder başlatılamadı")
	ErrSeekFailed    = errors.New("konuma gidilemedi")
	ErrUnchanged     = errors.New("kare içeriği değişmedi")
	ErrDecode        = errors.New("kare çözülemedi")
	ErrNoUsableFrame = errors.New("kullanılabilir kare bulunamadı")
)

// TrackInfo bir girdinin süresi ve hangi track türlerini içerdiği.
// Probe sonrası değişmez.
type TrackInfo struct {
	DurationSeconds float64
	HasVideo        bool
	HasAudio        bool
	HasSubtitles    bool
	HasOtherTracks  bool
}

// DurationMicros süreyi mikro saniye cinsinden döner
func (t TrackInfo) DurationMicros() int64 {
	return SecondsToMicros(t.DurationSeconds)
}

// PreviewRequest tek karelik ön izleme isteği.
// SeekMicros çağıran tarafından [0, süre] aralığına sıkıştırılmış olmalıdır.
type PreviewRequest struct {
	SeekMicros       int64
	InputPath        string
	PriorContentHash uint64
}

// SameTarget iki isteğin aynı işi tarif edip etmediğini söyler.
// PriorContentHash karşılaştırmaya dahil değildir.
func (r PreviewRequest) SameTarget(other PreviewRequest) bool {
	return r.SeekMicros == other.SeekMicros && r.InputPath == other.InputPath
}

// PreviewResult çözülmüş ve RGBA'ya paketlenmiş kare.
// ContentHash kareyi üreten sıkıştırılmış paketin hash'idir, piksellerin değil.
type PreviewResult struct {
	Pixels      []byte
	Width       uint32
	Height      uint32
	ContentHash uint64
}

// Image sonucu kopyalamadan image.RGBA olarak sarar
func (r PreviewResult) Image() *image.RGBA {
	w, h := int(r.Width), int(r.Height)
	return &image.RGBA{
		Pix:    r.Pixels,
		Stride: w * 4,
		Rect:   image.Rect(0, 0, w, h),
	}
}

// SecondsToMicros saniyeyi en yakın mikro saniyeye yuvarlar
func SecondsToMicros(seconds float64) int64 {
	return int64(math.Round(seconds * 1_000_000))
}

// MicrosToSeconds mikro saniyeyi saniyeye çevirir
func MicrosToSeconds(micros int64) float64 {
	return float64(micros) / 1_000_000
}
