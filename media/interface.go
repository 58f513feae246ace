package media

import "context"

// Player starts and stops playbacks.
//
//go:generate mockgen -destination=mock_media.go -package=media . Player
type Player interface {
	Play(req Request) error
	Stop(kind Kind, gameID, fileID string) bool
}

// Publisher publishes a single playback. It blocks until the playback ends
// or ctx is cancelled.
//
//go:generate mockgen -destination=mock_publisher.go -package=media . Publisher
type Publisher interface {
	Publish(ctx context.Context, req Request) error
}

// Recorder receives playback statistics.
type Recorder interface {
	PlaybackStarted(kind string)
	PlaybackStopped(kind string)
}

type nopRecorder struct{}

func (nopRecorder) PlaybackStarted(string) {}
func (nopRecorder) PlaybackStopped(string) {}
