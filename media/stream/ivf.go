package stream

import (
	"fmt"
	"io"
	"time"

	"github.com/pion/webrtc/v4"
	"github.com/pion/webrtc/v4/pkg/media"
	"github.com/pion/webrtc/v4/pkg/media/ivfreader"
)

const defaultFrameDuration = 33 * time.Millisecond

// IVF reads VP8 frames.
type IVF struct {
	closer   io.Closer
	reader   *ivfreader.IVFReader
	timebase time.Duration
	last     uint64
	started  bool
}

// NewIVF parses the IVF header from r.
func NewIVF(r io.ReadCloser) (*IVF, error) {
	reader, header, err := ivfreader.NewWith(r)
	if err != nil {
		return nil, fmt.Errorf("read ivf header: %w", err)
	}
	if header.FourCC != "VP80" {
		return nil, fmt.Errorf("unsupported ivf codec %q", header.FourCC)
	}
	var timebase time.Duration
	if header.TimebaseDenominator != 0 {
		timebase = time.Duration(header.TimebaseNumerator) * time.Second / time.Duration(header.TimebaseDenominator)
	}
	return &IVF{closer: r, reader: reader, timebase: timebase}, nil
}

// Codec implements Source.
func (v *IVF) Codec() webrtc.RTPCodecCapability {
	return webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeVP8, ClockRate: 90000}
}

// NextSample returns the next frame. The duration is the distance from the previous frame.
func (v *IVF) NextSample() (media.Sample, error) {
	frame, header, err := v.reader.ParseNextFrame()
	if err != nil {
		return media.Sample{}, err
	}
	d := v.timebase
	if v.started && header.Timestamp > v.last {
		d = time.Duration(header.Timestamp-v.last) * v.timebase
	}
	v.last = header.Timestamp
	v.started = true
	return media.Sample{Data: frame, Duration: clampDuration(d, defaultFrameDuration)}, nil
}

// Close implements Source.
func (v *IVF) Close() error {
	return v.closer.Close()
}
