// Package janus is a client of the Janus WebRTC server REST API.
package janus

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/lithammer/shortuuid/v4"
	"github.com/rs/zerolog/log"
)

// KeepAliveInterval is shorter than the default Janus session timeout of 60s.
const KeepAliveInterval = 25 * time.Second

// ErrSessionClosed is returned for requests made after the session was destroyed.
var ErrSessionClosed = errors.New("janus session closed")

// Client talks to a single Janus server.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the Janus REST endpoint, for example http://janus:8088/janus.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 70 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

func (c *Client) post(ctx context.Context, path string, req request) (*Message, error) {
	if req.Transaction == "" {
		req.Transaction = shortuuid.New()
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", req.Janus, err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	return c.do(httpReq)
}

func (c *Client) do(req *http.Request) (*Message, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read janus response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("janus responded %d: %s", resp.StatusCode, bytes.TrimSpace(data))
	}
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("decode janus response: %w", err)
	}
	if err := msg.err(); err != nil {
		return &msg, err
	}
	return &msg, nil
}

// CreateSession creates a session and starts polling its events.
func (c *Client) CreateSession(ctx context.Context) (*Session, error) {
	msg, err := c.post(ctx, "", request{Janus: "create"})
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	if msg.Janus != kindSuccess || msg.Data == nil {
		return nil, fmt.Errorf("create session: unexpected %q", msg.Janus)
	}

	pollCtx, cancel := context.WithCancel(context.Background())
	s := &Session{
		client:  c,
		id:      msg.Data.ID,
		pending: map[string]chan *Message{},
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	go s.poll(pollCtx)
	return s, nil
}

// Session is a Janus session. Asynchronous plugin events are delivered by long polling.
type Session struct {
	client *Client
	id     int64

	mu      sync.Mutex
	pending map[string]chan *Message
	closed  bool

	cancel context.CancelFunc
	done   chan struct{}
}

// ID returns the session id.
func (s *Session) ID() int64 {
	return s.id
}

func (s *Session) path() string {
	return "/" + strconv.FormatInt(s.id, 10)
}

// Attach attaches the plugin to the session.
func (s *Session) Attach(ctx context.Context, plugin string) (*Handle, error) {
	msg, err := s.client.post(ctx, s.path(), request{Janus: "attach", Plugin: plugin})
	if err != nil {
		return nil, fmt.Errorf("attach %s: %w", plugin, err)
	}
	if msg.Janus != kindSuccess || msg.Data == nil {
		return nil, fmt.Errorf("attach %s: unexpected %q", plugin, msg.Janus)
	}
	return &Handle{session: s, id: msg.Data.ID}, nil
}

// KeepAlive pings the session every KeepAliveInterval until ctx is done.
func (s *Session) KeepAlive(ctx context.Context) {
	ticker := time.NewTicker(KeepAliveInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case <-ticker.C:
			if _, err := s.client.post(ctx, s.path(), request{Janus: "keepalive"}); err != nil && ctx.Err() == nil {
				log.Warn().Err(err).Int64("session", s.id).Msg("janus keepalive failed")
			}
		}
	}
}

// Destroy destroys the session and stops polling.
func (s *Session) Destroy(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	for tx, ch := range s.pending {
		close(ch)
		delete(s.pending, tx)
	}
	s.mu.Unlock()

	s.cancel()
	<-s.done

	if _, err := s.client.post(ctx, s.path(), request{Janus: "destroy"}); err != nil {
		return fmt.Errorf("destroy session %d: %w", s.id, err)
	}
	return nil
}

func (s *Session) register(tx string) (chan *Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrSessionClosed
	}
	ch := make(chan *Message, 1)
	s.pending[tx] = ch
	return ch, nil
}

func (s *Session) unregister(tx string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, tx)
}

func (s *Session) dispatch(msg *Message) {
	s.mu.Lock()
	ch, ok := s.pending[msg.Transaction]
	if ok {
		delete(s.pending, msg.Transaction)
	}
	s.mu.Unlock()

	if ok {
		ch <- msg
		return
	}
	log.Debug().Int64("session", s.id).Str("janus", msg.Janus).Int64("sender", msg.Sender).Msg("janus event")
}

func (s *Session) poll(ctx context.Context) {
	defer close(s.done)
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.client.baseURL+s.path()+"?rid="+strconv.FormatInt(time.Now().UnixNano(), 10), nil)
		if err != nil {
			return
		}
		msg, err := s.client.do(req)
		if ctx.Err() != nil {
			return
		}
		if err != nil && msg == nil {
			log.Warn().Err(err).Int64("session", s.id).Msg("janus long poll failed")
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}
		if msg.Janus == kindKeepAlive {
			continue
		}
		s.dispatch(msg)
	}
}

// Handle is a plugin handle.
type Handle struct {
	session *Session
	id      int64
}

// ID returns the handle id.
func (h *Handle) ID() int64 {
	return h.id
}

func (h *Handle) path() string {
	return h.session.path() + "/" + strconv.FormatInt(h.id, 10)
}

// Message sends a plugin message. Synchronous requests return the success
// response. Acknowledged requests wait for the event of the same transaction.
func (h *Handle) Message(ctx context.Context, body any, jsep *JSEP) (*Message, error) {
	tx := shortuuid.New()
	events, err := h.session.register(tx)
	if err != nil {
		return nil, err
	}
	defer h.session.unregister(tx)

	msg, err := h.session.client.post(ctx, h.path(), request{Janus: "message", Transaction: tx, Body: body, JSEP: jsep})
	if err != nil {
		return msg, err
	}
	if msg.Janus != kindAck {
		return msg, nil
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case ev, ok := <-events:
		if !ok {
			return nil, ErrSessionClosed
		}
		if err := ev.err(); err != nil {
			return ev, err
		}
		return ev, nil
	}
}

// Detach detaches the plugin handle.
func (h *Handle) Detach(ctx context.Context) error {
	if _, err := h.session.client.post(ctx, h.path(), request{Janus: "detach"}); err != nil {
		return fmt.Errorf("detach handle %d: %w", h.id, err)
	}
	return nil
}
