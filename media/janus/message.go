package janus

import (
	"encoding/json"
	"fmt"
)

// Janus message kinds.
const (
	kindSuccess   = "success"
	kindAck       = "ack"
	kindError     = "error"
	kindEvent     = "event"
	kindKeepAlive = "keepalive"
)

// JSEP is a session description attached to a plugin message.
type JSEP struct {
	Type string `json:"type"`
	SDP  string `json:"sdp"`
}

// Error is an error reported by Janus or by a plugin.
type Error struct {
	Code   int    `json:"code"`
	Reason string `json:"reason"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("janus error %d: %s", e.Code, e.Reason)
}

type request struct {
	Janus       string `json:"janus"`
	Transaction string `json:"transaction"`
	Plugin      string `json:"plugin,omitempty"`
	Body        any    `json:"body,omitempty"`
	JSEP        *JSEP  `json:"jsep,omitempty"`
}

// PluginData is the payload a plugin attaches to a response or event.
type PluginData struct {
	Plugin string          `json:"plugin"`
	Data   json.RawMessage `json:"data"`
}

// Message is a response or an asynchronous event.
type Message struct {
	Janus       string      `json:"janus"`
	Transaction string      `json:"transaction,omitempty"`
	SessionID   int64       `json:"session_id,omitempty"`
	Sender      int64       `json:"sender,omitempty"`
	Data        *idData     `json:"data,omitempty"`
	PluginData  *PluginData `json:"plugindata,omitempty"`
	JSEP        *JSEP       `json:"jsep,omitempty"`
	Error       *Error      `json:"error,omitempty"`
}

type idData struct {
	ID int64 `json:"id"`
}

// err returns the Janus error or the plugin error carried by the message.
func (m *Message) err() error {
	if m.Janus == kindError && m.Error != nil {
		return m.Error
	}
	if m.PluginData == nil || len(m.PluginData.Data) == 0 {
		return nil
	}
	var pe struct {
		Code   int    `json:"error_code"`
		Reason string `json:"error"`
	}
	if err := json.Unmarshal(m.PluginData.Data, &pe); err == nil && pe.Code != 0 {
		return &Error{Code: pe.Code, Reason: pe.Reason}
	}
	return nil
}

// Decode decodes the plugin data into v.
func (m *Message) Decode(v any) error {
	if m.PluginData == nil {
		return fmt.Errorf("message %q has no plugin data", m.Janus)
	}
	return json.Unmarshal(m.PluginData.Data, v)
}
