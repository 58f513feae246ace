package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tavern/types/message"
)

func TestStreamURL(t *testing.T) {
	tests := []struct {
		name    string
		server  string
		want    string
		wantErr bool
	}{
		{name: "given host and port when built then ws scheme", server: "localhost:8080", want: "ws://localhost:8080/ws/game/g1/get"},
		{name: "given ip and port when built then ws scheme", server: "127.0.0.1:8080", want: "ws://127.0.0.1:8080/ws/game/g1/get"},
		{name: "given http url when built then ws scheme", server: "http://example.com", want: "ws://example.com/ws/game/g1/get"},
		{name: "given https url when built then wss scheme", server: "https://example.com", want: "wss://example.com/ws/game/g1/get"},
		{name: "given ftp url when built then error", server: "ftp://example.com", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New(tt.server, "g1").StreamURL()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvents(t *testing.T) {
	ev, err := message.New(message.DiceStart, message.DiceStarted{DiceID: "d4"})
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ws/game/g1/get", r.URL.Path)
		conn, err := (&websocket.Upgrader{}).Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		_ = conn.WriteJSON(ev)
		_ = conn.WriteJSON(ev)
	}))
	defer srv.Close()

	c := New(srv.URL, "g1")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, c.Dial(ctx))
	defer c.Close()

	var got []message.Event
	for e := range c.Events(ctx) {
		got = append(got, e)
	}
	require.Len(t, got, 2)
	assert.Equal(t, message.DiceStart, got[0].Topic)
	assert.JSONEq(t, `{"dice_id":"d4"}`, string(got[0].Data))
}

func TestNextWithoutDial(t *testing.T) {
	_, err := New("localhost:1", "g").Next()
	assert.Error(t, err)
}
