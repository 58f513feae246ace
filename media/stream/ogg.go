package stream

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/pion/webrtc/v4"
	"github.com/pion/webrtc/v4/pkg/media"
	"github.com/pion/webrtc/v4/pkg/media/oggreader"
)

const (
	opusClockRate     = 48000
	oggPageDuration   = 20 * time.Millisecond
	opusTagsSignature = "OpusTags"
)

// Ogg reads Opus packets page by page.
type Ogg struct {
	closer  io.Closer
	reader  *oggreader.OggReader
	granule uint64
	started bool
}

// NewOgg parses the Ogg header from r.
func NewOgg(r io.ReadCloser) (*Ogg, error) {
	reader, _, err := oggreader.NewWith(r)
	if err != nil {
		return nil, fmt.Errorf("read ogg header: %w", err)
	}
	return &Ogg{closer: r, reader: reader}, nil
}

// Codec implements Source.
func (o *Ogg) Codec() webrtc.RTPCodecCapability {
	return webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeOpus, ClockRate: opusClockRate, Channels: 2}
}

// NextSample returns the next page as a sample. The duration follows the granule position.
func (o *Ogg) NextSample() (media.Sample, error) {
	for {
		page, header, err := o.reader.ParseNextPage()
		if err != nil {
			return media.Sample{}, err
		}
		if bytes.HasPrefix(page, []byte(opusTagsSignature)) {
			continue
		}

		var d time.Duration
		if o.started && header.GranulePosition > o.granule {
			d = time.Duration(header.GranulePosition-o.granule) * time.Second / opusClockRate
		}
		o.granule = header.GranulePosition
		o.started = true
		return media.Sample{Data: page, Duration: clampDuration(d, oggPageDuration)}, nil
	}
}

// Close implements Source.
func (o *Ogg) Close() error {
	return o.closer.Close()
}
