// Package queue tracks the WebSocket subscribers of each puzzle and fans
// out updates to them.
package queue

import (
	"sync"

	"github.com/kyiku/wordsearch-back/internal/model"
)

// Message types
const (
	TypePuzzleUpdate  = "puzzleUpdate"
	TypePuzzleDeleted = "puzzleDeleted"
)

// Subscriber is a connection watching one puzzle.
type Subscriber struct {
	ID   string
	Conn model.WebSocketConn // WebSocket connection
}

// Hub manages the subscribers of every puzzle in join order.
type Hub struct {
	subscribers map[string][]*Subscriber
	mu          sync.RWMutex
}

// NewHub creates a new empty hub.
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string][]*Subscriber),
	}
}

// Subscribe adds a subscriber to the end of a puzzle's list.
func (h *Hub) Subscribe(puzzleID string, sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subscribers[puzzleID] = append(h.subscribers[puzzleID], sub)
}

// Unsubscribe removes a subscriber from a puzzle by ID.
func (h *Hub) Unsubscribe(puzzleID, subscriberID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.remove(puzzleID, subscriberID)
}

func (h *Hub) remove(puzzleID, subscriberID string) {
	subs := h.subscribers[puzzleID]
	for i, s := range subs {
		if s.ID == subscriberID {
			subs = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	if len(subs) == 0 {
		delete(h.subscribers, puzzleID)
		return
	}
	h.subscribers[puzzleID] = subs
}

// Len returns the number of subscribers of a puzzle.
func (h *Hub) Len(puzzleID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[puzzleID])
}

// Broadcast sends msg to every subscriber of a puzzle. Subscribers whose
// connection fails are closed and dropped. The number of successful sends
// is returned.
func (h *Hub) Broadcast(puzzleID string, msg interface{}) int {
	h.mu.RLock()
	subs := append([]*Subscriber(nil), h.subscribers[puzzleID]...)
	h.mu.RUnlock()

	sent := 0
	var failed []string
	for _, sub := range subs {
		if sub.Conn == nil {
			continue
		}
		if err := sub.Conn.WriteJSON(msg); err != nil {
			_ = sub.Conn.Close()
			failed = append(failed, sub.ID)
			continue
		}
		sent++
	}

	if len(failed) > 0 {
		h.mu.Lock()
		for _, id := range failed {
			h.remove(puzzleID, id)
		}
		h.mu.Unlock()
	}
	return sent
}

// BroadcastPuzzle sends the new state of a puzzle to its subscribers.
func (h *Hub) BroadcastPuzzle(view model.PuzzleView) int {
	return h.Broadcast(view.ID, map[string]interface{}{
		"type":        TypePuzzleUpdate,
		"puzzle":      view,
		"subscribers": h.Len(view.ID),
	})
}

// ClosePuzzle notifies and disconnects every subscriber of a deleted
// puzzle.
func (h *Hub) ClosePuzzle(puzzleID string) {
	h.mu.Lock()
	subs := h.subscribers[puzzleID]
	delete(h.subscribers, puzzleID)
	h.mu.Unlock()

	for _, sub := range subs {
		if sub.Conn == nil {
			continue
		}
		_ = sub.Conn.WriteJSON(map[string]interface{}{
			"type": TypePuzzleDeleted,
			"id":   puzzleID,
		})
		_ = sub.Conn.Close()
	}
}
