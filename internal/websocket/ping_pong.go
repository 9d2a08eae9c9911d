// Package websocket provides WebSocket message handling utilities.
package websocket

import (
	"encoding/json"

	"github.com/kyiku/wordsearch-back/internal/model"
)

// Client message types
const (
	TypePing    = "ping"
	TypePong    = "pong"
	TypeRefresh = "refresh"
	TypeError   = "error"
)

// Message is the envelope of every client message.
type Message struct {
	Type string `json:"type"`
}

// ParseMessage decodes the envelope of a client message. ok is false for
// invalid JSON or a missing type.
func ParseMessage(data []byte) (msg Message, ok bool) {
	if err := json.Unmarshal(data, &msg); err != nil {
		return Message{}, false
	}
	return msg, msg.Type != ""
}

// PingHandler handles ping/pong messages for WebSocket connections.
type PingHandler struct {
	conn model.WebSocketConn
}

// NewPingHandler creates a new PingHandler.
func NewPingHandler(conn model.WebSocketConn) *PingHandler {
	return &PingHandler{
		conn: conn,
	}
}

// Handle processes a message and returns true if it was a ping message.
func (h *PingHandler) Handle(message []byte) bool {
	if !IsPingMessage(message) {
		return false
	}

	_ = h.conn.WriteJSON(Message{Type: TypePong})
	return true
}

// IsPingMessage checks if a message is a ping message without processing it.
func IsPingMessage(message []byte) bool {
	msg, ok := ParseMessage(message)
	return ok && msg.Type == TypePing
}
