// Package client is a websocket client of the game event stream. It is used by
// tests and tooling.
package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/gorilla/websocket"
	"tavern/types/message"
)

// Client reads the event stream of a single game.
type Client struct {
	gameID    string
	serverURL string
	socket    *websocket.Conn
}

// New creates a client for the server at serverURL ("host:port" or a ws/wss/http/https URL).
func New(serverURL, gameID string) *Client {
	return &Client{
		serverURL: serverURL,
		gameID:    gameID,
	}
}

// StreamURL returns the websocket URL of the game event stream.
func (c *Client) StreamURL() (string, error) {
	u, err := url.Parse(c.serverURL)
	if err != nil || u.Host == "" {
		u = &url.URL{Scheme: "ws", Host: c.serverURL}
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	u.Path = "/ws/game/" + url.PathEscape(c.gameID) + "/get"
	return u.String(), nil
}

// Dial connects to the event stream.
func (c *Client) Dial(ctx context.Context) error {
	u, err := c.StreamURL()
	if err != nil {
		return err
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return fmt.Errorf("failed to dial: %w", err)
	}
	c.socket = conn
	return nil
}

// Next blocks until the next event arrives.
func (c *Client) Next() (message.Event, error) {
	var ev message.Event
	if c.socket == nil {
		return ev, fmt.Errorf("not connected")
	}
	if err := c.socket.ReadJSON(&ev); err != nil {
		return ev, fmt.Errorf("failed to read event: %w", err)
	}
	return ev, nil
}

// Events streams events until the connection fails or ctx is done. The returned
// channel is closed afterwards.
func (c *Client) Events(ctx context.Context) <-chan message.Event {
	out := make(chan message.Event)
	go func() {
		defer close(out)
		for {
			ev, err := c.Next()
			if err != nil {
				return
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Close closes the connection.
func (c *Client) Close() error {
	if c.socket == nil {
		return nil
	}
	return c.socket.Close()
}
