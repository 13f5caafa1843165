package media

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"io"
)

// PixelFormat decoder çıkış piksel düzeni
type PixelFormat int

const (
	// PixelFormatRGB24 paketlenmiş 8 bit RGB
	PixelFormatRGB24 PixelFormat = iota + 1
)

// ErrFrameNotReady codec'in kare üretmek için daha fazla pakete ihtiyacı olduğunu bildirir.
// Hata değildir; döngü bir sonraki paketle devam eder.
var ErrFrameNotReady = errors.New("kare henüz hazır değil")

// Packet tek bir stream'e ait sıkıştırılmış veri parçası
type Packet struct {
	StreamIndex int
	PTSMicros   int64
	HasPTS      bool
	Keyframe    bool
	Data        []byte
}

// Frame decoder'ın ürettiği, dönüştürülmüş kare
type Frame struct {
	Width  int
	Height int
	Stride int
	Format PixelFormat
	Data   []byte
}

// Demuxer kapsayıcı açar. Her çağrı kendi Container'ını döner.
type Demuxer interface {
	Open(ctx context.Context, path string) (Container, error)
}

// Container açık bir kapsayıcı. Eşzamanlı kullanım için güvenli değildir.
type Container interface {
	Streams() []Stream
	// BestStream kapsayıcının kendi sezgisine göre en iyi stream'i seçer
	BestStream(kind Kind) (Stream, bool)
	// NewFrameDecoder stream için, çıktıyı format'a dönüştüren bir decoder kurar
	NewFrameDecoder(stream Stream, format PixelFormat) (FrameDecoder, error)
	// Seek okuma imlecini micros'a (kapsayıcı zaman tabanında) taşır.
	// Hedef aralığı sınırsızdır; en yakın önceki keyframe'e düşebilir.
	Seek(ctx context.Context, micros int64) error
	// ReadPacket sıradaki paketi döner; paketler bittiğinde io.EOF
	ReadPacket(ctx context.Context) (Packet, error)
	Close() error
}

// FrameDecoder paketleri karelere çevirir
type FrameDecoder interface {
	Decode(ctx context.Context, pkt Packet) (Frame, error)
}

// Decoder tek bir ön izleme karesi üretir
type Decoder struct {
	demuxer Demuxer
}

// NewDecoder verilen demuxer ile çalışan bir Decoder oluşturur
func NewDecoder(demuxer Demuxer) *Decoder {
	return &Decoder{demuxer: demuxer}
}

// HashPacket sıkıştırılmış paket içeriğinin sıraya duyarlı 64 bit hash'i (FNV-1a)
func HashPacket(data []byte) uint64 {
	h := fnv.New64a()
	_, _ = h.Write(data)
	return h.Sum64()
}

// DecodeFrame req.SeekMicros civarındaki ilk kullanılabilir kareyi çözer.
// İlk paket req.PriorContentHash ile aynıysa ErrUnchanged döner.
func (d *Decoder) DecodeFrame(ctx context.Context, req PreviewRequest) (PreviewResult, error) {
	container, err := d.demuxer.Open(ctx, req.InputPath)
	if err != nil {
		return PreviewResult{}, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	defer container.Close()

	stream, ok := container.BestStream(KindVideo)
	if !ok {
		return PreviewResult{}, ErrNoVideoStream
	}

	frameDecoder, err := container.NewFrameDecoder(stream, PixelFormatRGB24)
	if err != nil {
		return PreviewResult{}, fmt.Errorf("%w: %w", ErrDecoderInit, err)
	}

	if err := container.Seek(ctx, req.SeekMicros); err != nil {
		if ctx.Err() != nil {
			return PreviewResult{}, ctx.Err()
		}
		return PreviewResult{}, fmt.Errorf("%w: %w", ErrSeekFailed, err)
	}

	for {
		if err := ctx.Err(); err != nil {
			return PreviewResult{}, err
		}

		pkt, err := container.ReadPacket(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if ctx.Err() != nil {
				return PreviewResult{}, ctx.Err()
			}
			return PreviewResult{}, fmt.Errorf("%w: %w", ErrDecode, err)
		}
		if pkt.StreamIndex != stream.Index {
			continue
		}
		// Dolgu paketleri deneme sayılmaz
		if len(pkt.Data) == 0 {
			continue
		}

		hash := HashPacket(pkt.Data)
		if hash == req.PriorContentHash {
			return PreviewResult{}, ErrUnchanged
		}

		frame, err := frameDecoder.Decode(ctx, pkt)
		if errors.Is(err, ErrFrameNotReady) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return PreviewResult{}, ctx.Err()
			}
			return PreviewResult{}, fmt.Errorf("%w: %w", ErrDecode, err)
		}

		pixels, err := PackRGBA(frame)
		if err != nil {
			return PreviewResult{}, fmt.Errorf("%w: %w", ErrDecode, err)
		}
		return PreviewResult{
			Pixels:      pixels,
			Width:       uint32(frame.Width),
			Height:      uint32(frame.Height),
			ContentHash: hash,
		}, nil
	}

	return PreviewResult{}, ErrNoUsableFrame
}

// PackRGBA satır adımlı RGB24 kareyi sıkı paketlenmiş RGBA'ya çevirir.
// Her üç renk baytından sonra tam opak alfa eklenir.
func PackRGBA(frame Frame) ([]byte, error) {
	if frame.Format != PixelFormatRGB24 {
		return nil, fmt.Errorf("desteklenmeyen piksel formatı: %d", frame.Format)
	}
	if frame.Width <= 0 || frame.Height <= 0 {
		return nil, fmt.Errorf("geçersiz kare boyutu: %dx%d", frame.Width, frame.Height)
	}
	stride := frame.Stride
	if stride == 0 {
		stride = frame.Width * 3
	}
	if stride < frame.Width*3 {
		return nil, fmt.Errorf("geçersiz satır adımı: %d", stride)
	}
	need := stride*(frame.Height-1) + frame.Width*3
	if len(frame.Data) < need {
		return nil, fmt.Errorf("kare verisi eksik: %d/%d bayt", len(frame.Data), need)
	}

	out := make([]byte, 0, frame.Width*frame.Height*4)
	for y := 0; y < frame.Height; y++ {
		row := frame.Data[y*stride : y*stride+frame.Width*3]
		for x := 0; x < len(row); x += 3 {
			out = append(out, row[x], row[x+1], row[x+2], 0xFF)
		}
	}
	return out, nil
}
