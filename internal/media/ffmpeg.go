package media

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// DefaultPacketScanLimit bir seek sonrası okunacak en fazla paket sayısı
const DefaultPacketScanLimit = 24

// FFmpegDemuxer kapsayıcıları ffprobe/ffmpeg alt süreçleri ile okur.
// Geçici dosya yazmaz; iptal edilen context süreci öldürür.
type FFmpegDemuxer struct {
	Tools           Tools
	PacketScanLimit int
}

// NewFFmpegDemuxer yeni bir FFmpegDemuxer oluşturur
func NewFFmpegDemuxer(tools Tools, packetScanLimit int) *FFmpegDemuxer {
	if packetScanLimit <= 0 {
		packetScanLimit = DefaultPacketScanLimit
	}
	return &FFmpegDemuxer{Tools: tools, PacketScanLimit: packetScanLimit}
}

// Open kapsayıcıyı ffprobe ile açar
func (d *FFmpegDemuxer) Open(ctx context.Context, path string) (Container, error) {
	result, err := probeFile(ctx, d.Tools.FFprobe, path)
	if err != nil {
		return nil, err
	}
	limit := d.PacketScanLimit
	if limit <= 0 {
		limit = DefaultPacketScanLimit
	}
	return &ffmpegContainer{
		path:   path,
		tools:  d.Tools,
		probe:  result,
		limit:  limit,
		stream: -1,
	}, nil
}

type ffmpegContainer struct {
	path    string
	tools   Tools
	probe   *ProbeResult
	limit   int
	stream  int
	packets []Packet
	pos     int
	closed  bool
}

func (c *ffmpegContainer) Streams() []Stream {
	return c.probe.Streams
}

func (c *ffmpegContainer) BestStream(kind Kind) (Stream, bool) {
	return bestStream(c.probe.Streams, kind)
}

// bestStream kapak resimlerini atlar; default bayraklı stream'i, sonra en büyük
// çözünürlüğü, eşitlikte en küçük index'i seçer.
func bestStream(streams []Stream, kind Kind) (Stream, bool) {
	var best Stream
	found := false
	for _, s := range streams {
		if s.Kind() != kind || s.Disposition.AttachedPic != 0 {
			continue
		}
		if !found || betterStream(s, best) {
			best = s
			found = true
		}
	}
	return best, found
}

func betterStream(a, b Stream) bool {
	aDefault := a.Disposition.Default != 0
	bDefault := b.Disposition.Default != 0
	if aDefault != bDefault {
		return aDefault
	}
	aArea := a.Width * a.Height
	bArea := b.Width * b.Height
	if aArea != bArea {
		return aArea > bArea
	}
	return a.Index < b.Index
}

func (c *ffmpegContainer) NewFrameDecoder(stream Stream, format PixelFormat) (FrameDecoder, error) {
	if format != PixelFormatRGB24 {
		return nil, fmt.Errorf("desteklenmeyen piksel formatı: %d", format)
	}
	if c.tools.FFmpeg == "" {
		return nil, fmt.Errorf("ffmpeg bulunamadı")
	}
	if strings.TrimSpace(stream.CodecName) == "" {
		return nil, fmt.Errorf("stream #%d: codec desteklenmiyor", stream.Index)
	}
	if stream.Width <= 0 || stream.Height <= 0 {
		return nil, fmt.Errorf("stream #%d: geçersiz boyut %dx%d", stream.Index, stream.Width, stream.Height)
	}
	c.stream = stream.Index
	return &ffmpegFrameDecoder{
		ffmpeg: c.tools.FFmpeg,
		path:   c.path,
		stream: stream,
	}, nil
}

// Seek hedef zamandan itibaren seçili stream'in paketlerini ffprobe ile okur.
// ffprobe en yakın önceki keyframe'e konumlanır.
func (c *ffmpegContainer) Seek(ctx context.Context, micros int64) error {
	if c.closed {
		return fmt.Errorf("kapsayıcı kapalı")
	}
	if micros < 0 {
		return fmt.Errorf("negatif hedef: %d", micros)
	}
	if c.tools.FFprobe == "" {
		return fmt.Errorf("ffprobe bulunamadı")
	}

	out, err := runTool(ctx, c.tools.FFprobe, c.seekArgs(micros)...)
	if err != nil {
		return err
	}
	packets, err := parsePacketList(out)
	if err != nil {
		return err
	}
	c.packets = packets
	c.pos = 0
	return nil
}

// seekArgs sıfırdan başlayan hedefi kapsayıcının zaman çizgisine taşır
func (c *ffmpegContainer) seekArgs(micros int64) []string {
	return packetArgs(c.path, c.stream, c.probe.StartMicros()+micros, c.limit)
}

// packetArgs ffprobe paket okuma argümanlarını üretir. at kapsayıcının
// mutlak zamanıdır (start_time dahil).
func packetArgs(path string, stream int, at int64, limit int) []string {
	args := []string{"-v", "error"}
	if stream >= 0 {
		args = append(args, "-select_streams", strconv.Itoa(stream))
	}
	return append(args,
		"-read_intervals", fmt.Sprintf("%s%%+#%d", FormatSeconds(MicrosToSeconds(at)), limit),
		"-show_packets",
		"-show_data",
		"-of", "json",
		path,
	)
}

func (c *ffmpegContainer) ReadPacket(ctx context.Context) (Packet, error) {
	if err := ctx.Err(); err != nil {
		return Packet{}, err
	}
	if c.pos >= len(c.packets) {
		return Packet{}, io.EOF
	}
	pkt := c.packets[c.pos]
	c.pos++
	return pkt, nil
}

func (c *ffmpegContainer) Close() error {
	c.closed = true
	c.packets = nil
	return nil
}

type ffmpegFrameDecoder struct {
	ffmpeg string
	path   string
	stream Stream
}

// Decode paketin zamanına konumlanıp tek kareyi rgb24 olarak çıkarır
func (d *ffmpegFrameDecoder) Decode(ctx context.Context, pkt Packet) (Frame, error) {
	if !pkt.HasPTS {
		return Frame{}, ErrFrameNotReady
	}

	out, err := runTool(ctx, d.ffmpeg, frameArgs(d.path, d.stream.Index, pkt.PTSMicros)...)
	if err != nil {
		return Frame{}, err
	}
	if len(out) == 0 {
		return Frame{}, ErrFrameNotReady
	}

	want := d.stream.Width * d.stream.Height * 3
	if len(out) != want {
		return Frame{}, fmt.Errorf("beklenmeyen kare boyutu: %d bayt (beklenen %d)", len(out), want)
	}
	return Frame{
		Width:  d.stream.Width,
		Height: d.stream.Height,
		Stride: d.stream.Width * 3,
		Format: PixelFormatRGB24,
		Data:   out,
	}, nil
}

// frameArgs tek kare çıkarma argümanlarını üretir. -seek_timestamp ile
// -ss, paket zamanı gibi mutlak zaman olarak yorumlanır.
func frameArgs(path string, stream int, pts int64) []string {
	return []string{
		"-hide_banner",
		"-loglevel", "error",
		"-nostdin",
		"-seek_timestamp", "1",
		"-ss", FormatSeconds(MicrosToSeconds(pts)),
		"-noaccurate_seek",
		"-noautorotate",
		"-i", path,
		"-map", fmt.Sprintf("0:%d", stream),
		"-frames:v", "1",
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"pipe:1",
	}
}

type packetJSON struct {
	StreamIndex int    `json:"stream_index"`
	PTSTime     string `json:"pts_time"`
	DTSTime     string `json:"dts_time"`
	Size        string `json:"size"`
	Flags       string `json:"flags"`
	Data        string `json:"data"`
}

type packetListJSON struct {
	Packets []packetJSON `json:"packets"`
}

func parsePacketList(data []byte) ([]Packet, error) {
	var list packetListJSON
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("paket listesi okunamadı: %w", err)
	}

	packets := make([]Packet, 0, len(list.Packets))
	for _, p := range list.Packets {
		payload, err := parseHexDump(p.Data)
		if err != nil {
			return nil, err
		}
		if size, err := strconv.Atoi(strings.TrimSpace(p.Size)); err == nil && size != len(payload) {
			return nil, fmt.Errorf("paket boyutu uyuşmuyor: %d != %d", len(payload), size)
		}

		pkt := Packet{
			StreamIndex: p.StreamIndex,
			Keyframe:    strings.HasPrefix(p.Flags, "K"),
			Data:        payload,
		}
		if ts, ok := parseTimestamp(p.PTSTime); ok {
			pkt.PTSMicros, pkt.HasPTS = ts, true
		} else if ts, ok := parseTimestamp(p.DTSTime); ok {
			pkt.PTSMicros, pkt.HasPTS = ts, true
		}
		packets = append(packets, pkt)
	}
	return packets, nil
}

func parseTimestamp(raw string) (int64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "N/A" {
		return 0, false
	}
	sec, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return SecondsToMicros(sec), true
}

// hexdump satırı: "%08x: " öneki, 41 karakterlik hex alanı, ardından ASCII
const (
	hexDumpPrefix = 10
	hexDumpEnd    = hexDumpPrefix + 40
)

var errBadHexDump = errors.New("paket verisi çözülemedi")

// parseHexDump ffprobe -show_data çıktısını ham baytlara çevirir
func parseHexDump(dump string) ([]byte, error) {
	var out []byte
	for _, line := range strings.Split(dump, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if len(line) <= hexDumpPrefix || line[8] != ':' {
			return nil, fmt.Errorf("%w: %q", errBadHexDump, line)
		}
		end := min(len(line), hexDumpEnd)
		digits := strings.ReplaceAll(line[hexDumpPrefix:end], " ", "")
		chunk, err := hex.DecodeString(digits)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errBadHexDump, err)
		}
		out = append(out, chunk...)
	}
	return out, nil
}

// FormatSeconds ffmpeg argümanları için saniyeyi sabit noktalı yazar
func FormatSeconds(v float64) string {
	if v < 0 {
		v = 0
	}
	s := strconv.FormatFloat(v, 'f', 6, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "" {
		return "0"
	}
	return s
}
