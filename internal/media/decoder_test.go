package media

import (
	"context"
	"errors"
	"io"
	"testing"
)

type fakeDemuxer struct {
	container *fakeContainer
	openErr   error
	opened    int
}

func (d *fakeDemuxer) Open(ctx context.Context, path string) (Container, error) {
	d.opened++
	if d.openErr != nil {
		return nil, d.openErr
	}
	d.container.pos = 0
	return d.container, nil
}

type fakeContainer struct {
	streams  []Stream
	packets  []Packet
	pos      int
	seekErr  error
	initErr  error
	seekedTo int64
	closed   bool
	decode   func(pkt Packet) (Frame, error)
	decoded  int
}

func (c *fakeContainer) Streams() []Stream { return c.streams }

func (c *fakeContainer) BestStream(kind Kind) (Stream, bool) {
	return bestStream(c.streams, kind)
}

func (c *fakeContainer) NewFrameDecoder(stream Stream, format PixelFormat) (FrameDecoder, error) {
	if c.initErr != nil {
		return nil, c.initErr
	}
	return fakeFrameDecoder{c: c}, nil
}

func (c *fakeContainer) Seek(ctx context.Context, micros int64) error {
	c.seekedTo = micros
	c.pos = 0
	return c.seekErr
}

func (c *fakeContainer) ReadPacket(ctx context.Context) (Packet, error) {
	if c.pos >= len(c.packets) {
		return Packet{}, io.EOF
	}
	p := c.packets[c.pos]
	c.pos++
	return p, nil
}

func (c *fakeContainer) Close() error {
	c.closed = true
	return nil
}

type fakeFrameDecoder struct {
	c *fakeContainer
}

func (d fakeFrameDecoder) Decode(ctx context.Context, pkt Packet) (Frame, error) {
	d.c.decoded++
	return d.c.decode(pkt)
}

func solidFrame(pkt Packet) (Frame, error) {
	return Frame{
		Width:  2,
		Height: 1,
		Stride: 6,
		Format: PixelFormatRGB24,
		Data:   []byte{1, 2, 3, 4, 5, 6},
	}, nil
}

func videoStreams() []Stream {
	return []Stream{
		{Index: 0, CodecType: "audio", CodecName: "aac"},
		{Index: 1, CodecType: "video", CodecName: "h264", Width: 2, Height: 1},
	}
}

func TestDecodeFrameReturnsFirstFrame(t *testing.T) {
	c := &fakeContainer{
		streams: videoStreams(),
		packets: []Packet{
			{StreamIndex: 0, Data: []byte("audio")},
			{StreamIndex: 1, Data: nil},
			{StreamIndex: 1, Data: []byte("video-1"), HasPTS: true},
		},
		decode: solidFrame,
	}
	dec := NewDecoder(&fakeDemuxer{container: c})

	res, err := dec.DecodeFrame(context.Background(), PreviewRequest{SeekMicros: 1_500_000, InputPath: "clip.mp4"})
	if err != nil {
		t.Fatalf("DecodeFrame failed: %v", err)
	}
	if c.seekedTo != 1_500_000 {
		t.Fatalf("expected seek to 1500000, got %d", c.seekedTo)
	}
	if c.decoded != 1 {
		t.Fatalf("expected one decode attempt, got %d", c.decoded)
	}
	if !c.closed {
		t.Fatalf("expected container to be closed")
	}
	if res.Width != 2 || res.Height != 1 {
		t.Fatalf("unexpected size %dx%d", res.Width, res.Height)
	}
	want := []byte{1, 2, 3, 0xFF, 4, 5, 6, 0xFF}
	if string(res.Pixels) != string(want) {
		t.Fatalf("unexpected pixels %v", res.Pixels)
	}
	if res.ContentHash != HashPacket([]byte("video-1")) {
		t.Fatalf("content hash must come from compressed packet")
	}
}

func TestDecodeFrameHashShortCircuit(t *testing.T) {
	c := &fakeContainer{
		streams: videoStreams(),
		packets: []Packet{{StreamIndex: 1, Data: []byte("key"), HasPTS: true}},
		decode:  solidFrame,
	}
	dec := NewDecoder(&fakeDemuxer{container: c})
	req := PreviewRequest{SeekMicros: 2_000_000, InputPath: "clip.mp4"}

	first, err := dec.DecodeFrame(context.Background(), req)
	if err != nil {
		t.Fatalf("first decode failed: %v", err)
	}

	req.PriorContentHash = first.ContentHash
	_, err = dec.DecodeFrame(context.Background(), req)
	if !errors.Is(err, ErrUnchanged) {
		t.Fatalf("expected ErrUnchanged, got %v", err)
	}
	if c.decoded != 1 {
		t.Fatalf("second call must not decode, decoded=%d", c.decoded)
	}
}

func TestDecodeFrameSkipsNotReady(t *testing.T) {
	calls := 0
	c := &fakeContainer{
		streams: videoStreams(),
		packets: []Packet{
			{StreamIndex: 1, Data: []byte("p1"), HasPTS: true},
			{StreamIndex: 1, Data: []byte("p2"), HasPTS: true},
		},
		decode: func(pkt Packet) (Frame, error) {
			calls++
			if calls == 1 {
				return Frame{}, ErrFrameNotReady
			}
			return solidFrame(pkt)
		},
	}
	dec := NewDecoder(&fakeDemuxer{container: c})

	res, err := dec.DecodeFrame(context.Background(), PreviewRequest{InputPath: "clip.mp4"})
	if err != nil {
		t.Fatalf("DecodeFrame failed: %v", err)
	}
	if res.ContentHash != HashPacket([]byte("p2")) {
		t.Fatalf("expected hash of second packet")
	}
}

func TestDecodeFrameErrors(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name  string
		demux *fakeDemuxer
		want  error
	}{
		{
			name:  "open",
			demux: &fakeDemuxer{openErr: boom, container: &fakeContainer{}},
			want:  ErrOpen,
		},
		{
			name: "no video",
			demux: &fakeDemuxer{container: &fakeContainer{
				streams: []Stream{{Index: 0, CodecType: "audio"}},
			}},
			want: ErrNoVideoStream,
		},
		{
			name: "attached picture only",
			demux: &fakeDemuxer{container: &fakeContainer{
				streams: []Stream{{Index: 0, CodecType: "video", Width: 10, Height: 10, Disposition: Disposition{AttachedPic: 1}}},
			}},
			want: ErrNoVideoStream,
		},
		{
			name:  "decoder init",
			demux: &fakeDemuxer{container: &fakeContainer{streams: videoStreams(), initErr: boom}},
			want:  ErrDecoderInit,
		},
		{
			name:  "seek",
			demux: &fakeDemuxer{container: &fakeContainer{streams: videoStreams(), seekErr: boom}},
			want:  ErrSeekFailed,
		},
		{
			name: "decode",
			demux: &fakeDemuxer{container: &fakeContainer{
				streams: videoStreams(),
				packets: []Packet{{StreamIndex: 1, Data: []byte("x"), HasPTS: true}},
				decode:  func(Packet) (Frame, error) { return Frame{}, boom },
			}},
			want: ErrDecode,
		},
		{
			name: "no usable frame",
			demux: &fakeDemuxer{container: &fakeContainer{
				streams: videoStreams(),
				packets: []Packet{
					{StreamIndex: 0, Data: []byte("audio")},
					{StreamIndex: 1, Data: []byte{}},
					{StreamIndex: 1, Data: []byte("x"), HasPTS: true},
				},
				decode: func(Packet) (Frame, error) { return Frame{}, ErrFrameNotReady },
			}},
			want: ErrNoUsableFrame,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDecoder(tt.demux).DecodeFrame(context.Background(), PreviewRequest{InputPath: "clip.mp4"})
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestDecodeFrameCancelled(t *testing.T) {
	c := &fakeContainer{
		streams: videoStreams(),
		packets: []Packet{{StreamIndex: 1, Data: []byte("x"), HasPTS: true}},
		decode:  solidFrame,
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewDecoder(&fakeDemuxer{container: c}).DecodeFrame(ctx, PreviewRequest{InputPath: "clip.mp4"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if c.decoded != 0 {
		t.Fatalf("cancelled decode must not reach the codec")
	}
}

func TestPackRGBAWithStride(t *testing.T) {
	frame := Frame{
		Width:  1,
		Height: 2,
		Stride: 4,
		Format: PixelFormatRGB24,
		Data:   []byte{10, 20, 30, 0, 40, 50, 60},
	}
	got, err := PackRGBA(frame)
	if err != nil {
		t.Fatalf("PackRGBA failed: %v", err)
	}
	want := []byte{10, 20, 30, 0xFF, 40, 50, 60, 0xFF}
	if string(got) != string(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	frame.Data = frame.Data[:5]
	if _, err := PackRGBA(frame); err == nil {
		t.Fatalf("expected error for short buffer")
	}
}

func TestHashPacketOrderSensitive(t *testing.T) {
	if HashPacket([]byte("ab")) == HashPacket([]byte("ba")) {
		t.Fatalf("hash must depend on byte order")
	}
	if HashPacket([]byte("ab")) != HashPacket([]byte("ab")) {
		t.Fatalf("hash must be stable")
	}
}
