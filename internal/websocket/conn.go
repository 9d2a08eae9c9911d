package websocket

import (
	"sync"
	"time"

	gws "github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// Conn wraps a gorilla connection. gorilla allows one concurrent writer, and
// puzzle updates are broadcast from request goroutines while the read loop
// answers pings, so every write goes through mu.
type Conn struct {
	conn *gws.Conn
	mu   sync.Mutex
}

// NewConn wraps c.
func NewConn(c *gws.Conn) *Conn {
	return &Conn{conn: c}
}

// WriteMessage writes a single frame.
func (c *Conn) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(messageType, data)
}

// WriteJSON writes v as a JSON text frame.
func (c *Conn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(v)
}

// ReadMessage reads the next frame. Only the read loop may call it.
func (c *Conn) ReadMessage() (int, []byte, error) {
	return c.conn.ReadMessage()
}

// Close closes the underlying connection.
func (c *Conn) Close() error {
	return c.conn.Close()
}
