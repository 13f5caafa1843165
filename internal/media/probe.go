package media

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Stream ffprobe'un bildirdiği tek bir stream
type Stream struct {
	Index       int         `json:"index"`
	CodecName   string      `json:"codec_name"`
	CodecType   string      `json:"codec_type"`
	Width       int         `json:"width,omitempty"`
	Height      int         `json:"height,omitempty"`
	PixFmt      string      `json:"pix_fmt,omitempty"`
	TimeBase    string      `json:"time_base,omitempty"`
	Channels    int         `json:"channels,omitempty"`
	SampleRate  string      `json:"sample_rate,omitempty"`
	Disposition Disposition `json:"disposition"`
	Tags        StreamTags  `json:"tags"`
}

// Disposition stream bayrakları (yalnızca kullanılanlar)
type Disposition struct {
	Default     int `json:"default"`
	AttachedPic int `json:"attached_pic"`
}

// StreamTags stream etiketleri
type StreamTags struct {
	Language string `json:"language,omitempty"`
	Title    string `json:"title,omitempty"`
}

// Kind stream'in medya türü
func (s Stream) Kind() Kind {
	return KindFromCodecType(s.CodecType)
}

// Format kapsayıcı bilgisi
type Format struct {
	Filename       string `json:"filename"`
	FormatName     string `json:"format_name"`
	FormatLongName string `json:"format_long_name"`
	StartTime      string `json:"start_time"`
	Duration       string `json:"duration"`
	Size           string `json:"size"`
	BitRate        string `json:"bit_rate"`
}

// ProbeResult ffprobe JSON çıktısının ilgili alanları
type ProbeResult struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// ParseProbeOutput ffprobe JSON çıktısını çözer
func ParseProbeOutput(data []byte) (*ProbeResult, error) {
	var result ProbeResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("ffprobe çıktısı okunamadı: %w", err)
	}
	return &result, nil
}

// DurationSeconds format süresini saniye olarak döner
func (r *ProbeResult) DurationSeconds() (float64, error) {
	raw := strings.TrimSpace(r.Format.Duration)
	if raw == "" || raw == "N/A" {
		return 0, ErrNoDuration
	}
	dur, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: '%s'", ErrNoDuration, raw)
	}
	if dur <= 0 {
		return 0, fmt.Errorf("%w: %s", ErrNoDuration, raw)
	}
	return dur, nil
}

// StartMicros kapsayıcının ilk zaman damgasını döner; yoksa sıfır.
// Paket zamanları bu değerden başlar, önizleme hedefleri ise sıfırdan.
func (r *ProbeResult) StartMicros() int64 {
	raw := strings.TrimSpace(r.Format.StartTime)
	if raw == "" || raw == "N/A" {
		return 0
	}
	sec, err := strconv.ParseFloat(raw, 64)
	if err != nil || sec <= 0 {
		return 0
	}
	return SecondsToMicros(sec)
}

// TrackInfo stream listesini bir kez tarayıp TrackInfo üretir
func (r *ProbeResult) TrackInfo() (TrackInfo, error) {
	dur, err := r.DurationSeconds()
	if err != nil {
		return TrackInfo{}, err
	}

	info := TrackInfo{DurationSeconds: dur}
	for _, s := range r.Streams {
		switch s.Kind() {
		case KindVideo:
			// Kapak resimleri diğer track sayılır
			if s.Disposition.AttachedPic == 0 {
				info.HasVideo = true
			}
		case KindAudio:
			info.HasAudio = true
		case KindSubtitle:
			info.HasSubtitles = true
		}
	}

	typed := 0
	for _, has := range []bool{info.HasVideo, info.HasAudio, info.HasSubtitles} {
		if has {
			typed++
		}
	}
	info.HasOtherTracks = len(r.Streams) > typed
	return info, nil
}

// Prober ffprobe ile kapsayıcı bilgisini okur
type Prober struct {
	Tools Tools
}

// NewProber yeni bir Prober oluşturur
func NewProber(tools Tools) *Prober {
	return &Prober{Tools: tools}
}

// Probe girdinin süresini ve track türlerini döner.
// Açılamayan girdiler ErrOpenFailed, süresizler ErrNoDuration ile sarılır.
func (p *Prober) Probe(ctx context.Context, path string) (TrackInfo, error) {
	result, err := p.ProbeDetails(ctx, path)
	if err != nil {
		return TrackInfo{}, err
	}
	info, err := result.TrackInfo()
	if err != nil {
		return TrackInfo{}, fmt.Errorf("%s: %w", path, err)
	}
	return info, nil
}

// ProbeDetails ham ffprobe sonucunu döner
func (p *Prober) ProbeDetails(ctx context.Context, path string) (*ProbeResult, error) {
	return probeFile(ctx, p.Tools.FFprobe, path)
}

func probeFile(ctx context.Context, ffprobe string, path string) (*ProbeResult, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: dosya yolu boş", ErrOpenFailed)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpenFailed, err)
	}
	if ffprobe == "" {
		return nil, fmt.Errorf("%w: ffprobe bulunamadı", ErrOpenFailed)
	}

	out, err := runTool(ctx, ffprobe,
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrOpenFailed, path, err)
	}

	result, err := ParseProbeOutput(out)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpenFailed, err)
	}
	return result, nil
}
