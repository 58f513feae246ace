// Package socket provides an interface for managing socket.
package socket

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// WebSocket wraps the gorilla/websocket connection. Writes are serialized.
type WebSocket struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

// New creates a new WebSocket connection by upgrading the HTTP request.
func New(w http.ResponseWriter, r *http.Request) (*WebSocket, error) {
	ug := websocket.Upgrader{
		CheckOrigin: func(_ *http.Request) bool {
			return true
		},
	}

	conn, err := ug.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}
	return Wrap(conn), nil
}

// Wrap wraps an established connection.
func Wrap(conn *websocket.Conn) *WebSocket {
	return &WebSocket{
		conn: conn,
	}
}

// Close closes the WebSocket connection.
func (s *WebSocket) Close() error {
	return s.conn.Close()
}

// WriteJSON sends a JSON text message to the WebSocket connection.
func (s *WebSocket) WriteJSON(data any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return s.conn.WriteJSON(data)
}

// ReadMessage reads the next data message.
func (s *WebSocket) ReadMessage() ([]byte, error) {
	_, data, err := s.conn.ReadMessage()
	return data, err
}
