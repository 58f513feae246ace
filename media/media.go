package media

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Kind of a playback.
type Kind string

// Playback kinds.
const (
	Audio Kind = "audio"
	Video Kind = "video"
)

// Errors returned by Play.
var (
	ErrInvalidVolume = errors.New("volume must be between 0.0 and 1.0")
	ErrNoRoom        = errors.New("game has no video room")
)

// Request describes a file to play into the room of a game.
type Request struct {
	Kind     Kind
	GameID   string // external id of the game
	FileID   string // external id of the file
	RoomID   int64
	URL      string
	Display  string
	Volume   float64
	Duration time.Duration // zero plays until the stream ends or Stop is called
}

// Key identifies the playback among the active ones.
func (r Request) Key() string {
	return key(r.GameID, r.FileID)
}

func key(gameID, fileID string) string {
	return gameID + ":" + fileID
}

// Validate checks the request before a playback is started.
func (r Request) Validate() error {
	if r.Volume < 0 || r.Volume > 1 {
		return fmt.Errorf("given %v: %w", r.Volume, ErrInvalidVolume)
	}
	if r.RoomID == 0 {
		return ErrNoRoom
	}
	if r.Kind != Audio && r.Kind != Video {
		return fmt.Errorf("unknown playback kind %q", r.Kind)
	}
	return nil
}

type playback struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Manager runs playbacks in the background. Each game plays a file at most once at a time.
type Manager struct {
	publisher Publisher
	recorder  Recorder

	mu        sync.Mutex
	playbacks map[Kind]map[string]*playback
	wg        sync.WaitGroup
}

// NewManager creates a Manager that publishes with p.
func NewManager(p Publisher, r Recorder) *Manager {
	if r == nil {
		r = nopRecorder{}
	}
	return &Manager{
		publisher: p,
		recorder:  r,
		playbacks: map[Kind]map[string]*playback{
			Audio: {},
			Video: {},
		},
	}
}

// Play starts the playback. The playback is registered before Play returns, so a
// Stop issued right after finds it. A playback of the same file replaces the old one.
func (m *Manager) Play(req Request) error {
	if err := req.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	pb := &playback{cancel: cancel, done: make(chan struct{})}

	m.mu.Lock()
	old := m.playbacks[req.Kind][req.Key()]
	m.playbacks[req.Kind][req.Key()] = pb
	m.wg.Add(1)
	m.mu.Unlock()

	if old != nil {
		log.Info().Str("key", req.Key()).Str("kind", string(req.Kind)).Msg("replacing active playback")
		old.cancel()
		<-old.done
	}

	go m.run(ctx, pb, req)
	return nil
}

func (m *Manager) run(ctx context.Context, pb *playback, req Request) {
	defer m.wg.Done()
	defer close(pb.done)
	defer m.remove(req.Kind, req.Key(), pb)

	m.recorder.PlaybackStarted(string(req.Kind))
	defer m.recorder.PlaybackStopped(string(req.Kind))

	logger := log.With().Str("key", req.Key()).Str("kind", string(req.Kind)).Int64("room", req.RoomID).Logger()
	logger.Info().Str("url", req.URL).Float64("volume", req.Volume).Msg("playback started")

	err := m.publisher.Publish(ctx, req)
	switch {
	case err == nil:
		logger.Info().Msg("playback finished")
	case errors.Is(err, context.Canceled):
		logger.Info().Msg("playback cancelled")
	default:
		logger.Error().Err(err).Msg("playback failed")
	}
}

// remove drops the playback unless it was already replaced.
func (m *Manager) remove(kind Kind, k string, pb *playback) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.playbacks[kind][k] == pb {
		delete(m.playbacks[kind], k)
	}
}

// Stop cancels the playback and waits for its teardown. It reports whether
// the playback was active.
func (m *Manager) Stop(kind Kind, gameID, fileID string) bool {
	k := key(gameID, fileID)

	m.mu.Lock()
	pb, ok := m.playbacks[kind][k]
	if ok {
		delete(m.playbacks[kind], k)
	}
	m.mu.Unlock()

	if !ok {
		return false
	}
	pb.cancel()
	<-pb.done
	return true
}

// Active reports whether the playback is running.
func (m *Manager) Active(kind Kind, gameID, fileID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.playbacks[kind][key(gameID, fileID)]
	return ok
}

// Close stops every playback.
func (m *Manager) Close() {
	m.mu.Lock()
	for _, byKey := range m.playbacks {
		for k, pb := range byKey {
			pb.cancel()
			delete(byKey, k)
		}
	}
	m.mu.Unlock()
	m.wg.Wait()
}

var _ Player = (*Manager)(nil)
