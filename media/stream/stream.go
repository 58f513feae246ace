// Package stream reads encoded media samples produced by ffmpeg.
package stream

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"sync"
	"time"

	"github.com/pion/webrtc/v4"
	"github.com/pion/webrtc/v4/pkg/media"
	"github.com/rs/zerolog/log"
)

// DefaultFFmpegPath is used when no ffmpeg binary is configured.
const DefaultFFmpegPath = "ffmpeg"

// Source yields media samples of a single track.
type Source interface {
	Codec() webrtc.RTPCodecCapability
	NextSample() (media.Sample, error)
	Close() error
}

// AudioArgs returns the ffmpeg arguments that transcode url into Opus in Ogg on stdout.
func AudioArgs(url string, volume float64) []string {
	args := []string{"-hide_banner", "-loglevel", "error", "-i", url, "-vn"}
	if volume != 1 {
		args = append(args, "-af", "volume="+strconv.FormatFloat(volume, 'f', -1, 64))
	}
	return append(args,
		"-c:a", "libopus", "-b:a", "128k", "-ar", "48000", "-ac", "2",
		"-page_duration", "20000",
		"-f", "ogg", "pipe:1",
	)
}

// VideoArgs returns the ffmpeg arguments that transcode url into VP8 in IVF on stdout.
func VideoArgs(url string, bitrate int) []string {
	return []string{
		"-hide_banner", "-loglevel", "error", "-i", url, "-an",
		"-c:v", "libvpx", "-b:v", strconv.Itoa(bitrate),
		"-deadline", "realtime", "-cpu-used", "8", "-auto-alt-ref", "0",
		"-f", "ivf", "pipe:1",
	}
}

// process is a running ffmpeg whose stdout feeds a reader.
type process struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr *bytes.Buffer

	once sync.Once
	err  error
}

func start(ctx context.Context, path string, args []string) (*process, error) {
	if path == "" {
		path = DefaultFFmpegPath
	}
	cmd := exec.CommandContext(ctx, path, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg stdout: %w", err)
	}
	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start ffmpeg: %w", err)
	}
	return &process{cmd: cmd, stdout: stdout, stderr: stderr}, nil
}

func (p *process) Read(b []byte) (int, error) {
	return p.stdout.Read(b)
}

// Close stops ffmpeg and waits for it.
func (p *process) Close() error {
	p.once.Do(func() {
		_ = p.stdout.Close()
		if p.cmd.Process != nil {
			_ = p.cmd.Process.Kill()
		}
		err := p.cmd.Wait()
		var exitErr *exec.ExitError
		if err != nil && !errors.As(err, &exitErr) {
			p.err = err
		}
		if p.stderr.Len() > 0 {
			log.Debug().Str("stderr", p.stderr.String()).Msg("ffmpeg exited")
		}
	})
	return p.err
}

// OpenAudio starts ffmpeg for the audio of url.
func OpenAudio(ctx context.Context, ffmpeg, url string, volume float64) (*Ogg, error) {
	p, err := start(ctx, ffmpeg, AudioArgs(url, volume))
	if err != nil {
		return nil, err
	}
	src, err := NewOgg(p)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	return src, nil
}

// OpenVideo starts ffmpeg for the video of url.
func OpenVideo(ctx context.Context, ffmpeg, url string, bitrate int) (*IVF, error) {
	p, err := start(ctx, ffmpeg, VideoArgs(url, bitrate))
	if err != nil {
		return nil, err
	}
	src, err := NewIVF(p)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	return src, nil
}

func clampDuration(d, fallback time.Duration) time.Duration {
	if d <= 0 || d > time.Second {
		return fallback
	}
	return d
}
