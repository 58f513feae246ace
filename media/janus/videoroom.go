package janus

import (
	"context"
	"fmt"
)

// VideoRoomPlugin is the package name of the VideoRoom plugin.
const VideoRoomPlugin = "janus.plugin.videoroom"

// RoomOptions describes a VideoRoom room to create.
type RoomOptions struct {
	Room        int64  `json:"room"`
	Permanent   bool   `json:"permanent"`
	Description string `json:"description,omitempty"`
	Publishers  int    `json:"publishers,omitempty"`
	Bitrate     int    `json:"bitrate,omitempty"`
	FIRFreq     int    `json:"fir_freq,omitempty"`
}

type videoRoomData struct {
	VideoRoom string `json:"videoroom"`
	Room      int64  `json:"room"`
	ID        int64  `json:"id"`
}

// JoinPublisher joins the room as a publisher and returns the publisher id.
func (h *Handle) JoinPublisher(ctx context.Context, room int64, display string) (int64, error) {
	msg, err := h.Message(ctx, map[string]any{
		"request": "join",
		"ptype":   "publisher",
		"room":    room,
		"display": display,
	}, nil)
	if err != nil {
		return 0, fmt.Errorf("join room %d: %w", room, err)
	}
	var data videoRoomData
	if err := msg.Decode(&data); err != nil {
		return 0, fmt.Errorf("join room %d: %w", room, err)
	}
	if data.VideoRoom != "joined" {
		return 0, fmt.Errorf("join room %d: unexpected %q", room, data.VideoRoom)
	}
	return data.ID, nil
}

// Configure publishes the offer at the given bitrate and returns the answer.
func (h *Handle) Configure(ctx context.Context, offer string, audio, video bool, bitrate int) (string, error) {
	msg, err := h.Message(ctx, map[string]any{
		"request": "configure",
		"audio":   audio,
		"video":   video,
		"bitrate": bitrate,
	}, &JSEP{Type: "offer", SDP: offer})
	if err != nil {
		return "", fmt.Errorf("configure: %w", err)
	}
	if msg.JSEP == nil || msg.JSEP.Type != "answer" {
		return "", fmt.Errorf("configure: no answer")
	}
	return msg.JSEP.SDP, nil
}

// Leave leaves the room.
func (h *Handle) Leave(ctx context.Context) error {
	if _, err := h.Message(ctx, map[string]any{"request": "leave"}, nil); err != nil {
		return fmt.Errorf("leave: %w", err)
	}
	return nil
}

// CreateRoom creates a room. It reports false when Janus refused, for example
// because the room already exists; the refusal is returned as *Error.
func (h *Handle) CreateRoom(ctx context.Context, opts RoomOptions) (bool, error) {
	msg, err := h.Message(ctx, struct {
		Request string `json:"request"`
		RoomOptions
	}{Request: "create", RoomOptions: opts}, nil)
	if err != nil {
		return false, err
	}
	var data videoRoomData
	if err := msg.Decode(&data); err != nil {
		return false, fmt.Errorf("create room %d: %w", opts.Room, err)
	}
	return data.VideoRoom == "created", nil
}
