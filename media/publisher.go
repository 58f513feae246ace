package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/pion/interceptor"
	"github.com/pion/rtcp"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
	"tavern/media/janus"
	"tavern/media/stream"
)

const (
	connectTimeout  = 20 * time.Second
	teardownTimeout = 5 * time.Second
)

// SourceOpener opens the sample sources of a request.
type SourceOpener func(ctx context.Context, req Request) ([]stream.Source, error)

// JanusPublisher publishes files into Janus VideoRoom rooms over WebRTC.
type JanusPublisher struct {
	config Config
	janus  *janus.Client
	api    *webrtc.API
	open   SourceOpener
}

// NewJanusPublisher creates a publisher with its own pion API.
func NewJanusPublisher(config Config) (*JanusPublisher, error) {
	if config.Bitrate == 0 {
		config.Bitrate = DefaultBitrate
	}

	m := &webrtc.MediaEngine{}
	if err := m.RegisterDefaultCodecs(); err != nil {
		return nil, fmt.Errorf("register codecs: %w", err)
	}
	registry := &interceptor.Registry{}
	if err := webrtc.RegisterDefaultInterceptors(m, registry); err != nil {
		return nil, fmt.Errorf("register interceptors: %w", err)
	}
	s := webrtc.SettingEngine{}
	if err := config.SetPortRange(&s); err != nil {
		return nil, err
	}

	p := &JanusPublisher{
		config: config,
		janus:  janus.New(config.JanusURL, nil),
		api:    webrtc.NewAPI(webrtc.WithMediaEngine(m), webrtc.WithInterceptorRegistry(registry), webrtc.WithSettingEngine(s)),
	}
	p.open = p.openFFmpeg
	return p, nil
}

// openFFmpeg opens Opus audio for audio files, VP8 video plus Opus audio for video files.
func (p *JanusPublisher) openFFmpeg(ctx context.Context, req Request) ([]stream.Source, error) {
	switch req.Kind {
	case Audio:
		src, err := stream.OpenAudio(ctx, p.config.FFmpegPath, req.URL, req.Volume)
		if err != nil {
			return nil, err
		}
		return []stream.Source{src}, nil
	case Video:
		video, err := stream.OpenVideo(ctx, p.config.FFmpegPath, req.URL, p.config.Bitrate)
		if err != nil {
			return nil, err
		}
		// clips without sound only get the video track
		audio, err := stream.OpenAudio(ctx, p.config.FFmpegPath, req.URL, req.Volume)
		if err != nil {
			log.Debug().Err(err).Str("url", req.URL).Msg("video has no audio track")
			return []stream.Source{video}, nil
		}
		return []stream.Source{video, audio}, nil
	default:
		return nil, fmt.Errorf("unknown playback kind %q", req.Kind)
	}
}

// Publish joins the room, publishes the sources and tears everything down when
// the sources end, the duration elapses or ctx is cancelled.
func (p *JanusPublisher) Publish(ctx context.Context, req Request) error {
	if req.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Duration)
		defer cancel()
	}

	session, err := p.janus.CreateSession(ctx)
	if err != nil {
		return err
	}
	defer func() {
		tctx, cancel := context.WithTimeout(context.Background(), teardownTimeout)
		defer cancel()
		if err := session.Destroy(tctx); err != nil {
			log.Warn().Err(err).Msg("failed to destroy janus session")
		}
	}()
	go session.KeepAlive(ctx)

	handle, err := session.Attach(ctx, janus.VideoRoomPlugin)
	if err != nil {
		return err
	}
	defer func() {
		tctx, cancel := context.WithTimeout(context.Background(), teardownTimeout)
		defer cancel()
		if err := handle.Leave(tctx); err != nil {
			log.Debug().Err(err).Msg("failed to leave room")
		}
		if err := handle.Detach(tctx); err != nil {
			log.Debug().Err(err).Msg("failed to detach handle")
		}
	}()

	if _, err := handle.JoinPublisher(ctx, req.RoomID, req.Display); err != nil {
		return err
	}

	sources, err := p.open(ctx, req)
	if err != nil {
		return fmt.Errorf("open %s: %w", req.URL, err)
	}
	defer func() {
		for _, src := range sources {
			_ = src.Close()
		}
	}()

	conn, err := p.api.NewPeerConnection(webrtc.Configuration{ICEServers: p.config.ICEServers()})
	if err != nil {
		return fmt.Errorf("failed to create peer connection: %w", err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			log.Debug().Err(err).Msg("failed to close peer connection")
		}
	}()

	connected := make(chan struct{})
	failed := make(chan struct{})
	var connectedOnce, failedOnce sync.Once
	conn.OnConnectionStateChange(func(state webrtc.PeerConnectionState) {
		log.Printf("Playback %s: connection state has changed to %s", req.Key(), state.String())
		switch state {
		case webrtc.PeerConnectionStateConnected:
			connectedOnce.Do(func() { close(connected) })
		case webrtc.PeerConnectionStateFailed, webrtc.PeerConnectionStateClosed:
			failedOnce.Do(func() { close(failed) })
		}
	})

	tracks := make([]*webrtc.TrackLocalStaticSample, len(sources))
	var hasAudio, hasVideo bool
	for i, src := range sources {
		codec := src.Codec()
		kind := "audio"
		if codec.MimeType == webrtc.MimeTypeVP8 {
			kind = "video"
			hasVideo = true
		} else {
			hasAudio = true
		}
		track, err := webrtc.NewTrackLocalStaticSample(codec, kind, "tavern-"+req.FileID)
		if err != nil {
			return fmt.Errorf("failed to create %s track: %w", kind, err)
		}
		sender, err := conn.AddTrack(track)
		if err != nil {
			return fmt.Errorf("failed to add track: %w", err)
		}
		go readRTCP(sender, req.Key())
		tracks[i] = track
	}

	offer, err := conn.CreateOffer(nil)
	if err != nil {
		return fmt.Errorf("failed to create offer: %w", err)
	}
	gathered := webrtc.GatheringCompletePromise(conn)
	if err := conn.SetLocalDescription(offer); err != nil {
		return fmt.Errorf("failed to set local description: %w", err)
	}
	select {
	case <-gathered:
	case <-ctx.Done():
		return ctx.Err()
	}

	answer, err := handle.Configure(ctx, conn.LocalDescription().SDP, hasAudio, hasVideo, p.config.Bitrate)
	if err != nil {
		return err
	}
	if err := conn.SetRemoteDescription(webrtc.SessionDescription{Type: webrtc.SDPTypeAnswer, SDP: answer}); err != nil {
		return fmt.Errorf("failed to set remote description: %w", err)
	}

	select {
	case <-connected:
	case <-failed:
		return errors.New("peer connection failed")
	case <-time.After(connectTimeout):
		return errors.New("peer connection timed out")
	case <-ctx.Done():
		return ctx.Err()
	}

	errs := make(chan error, len(sources))
	for i := range sources {
		go func(src stream.Source, track *webrtc.TrackLocalStaticSample) {
			errs <- pump(ctx, src, track)
		}(sources[i], tracks[i])
	}

	var pumpErr error
	for range sources {
		if err := <-errs; err != nil && pumpErr == nil {
			pumpErr = err
		}
	}
	if ctx.Err() != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			// the configured duration elapsed
			return nil
		}
		return ctx.Err()
	}
	return pumpErr
}

// pump writes samples paced by their duration until the source ends.
func pump(ctx context.Context, src stream.Source, track *webrtc.TrackLocalStaticSample) error {
	next := time.Now()
	for {
		sample, err := src.NextSample()
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read sample: %w", err)
		}
		if err := track.WriteSample(sample); err != nil && !errors.Is(err, io.ErrClosedPipe) {
			return fmt.Errorf("write sample: %w", err)
		}

		next = next.Add(sample.Duration)
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}

// readRTCP drains the sender and logs keyframe requests.
func readRTCP(sender *webrtc.RTPSender, key string) {
	for {
		packets, _, err := sender.ReadRTCP()
		if err != nil {
			return
		}
		for _, pkt := range packets {
			switch pkt.(type) {
			case *rtcp.PictureLossIndication, *rtcp.FullIntraRequest:
				log.Debug().Str("key", key).Msg("keyframe requested")
			}
		}
	}
}
