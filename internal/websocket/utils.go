package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait = 10 * time.Second
	readWait  = 5 * time.Minute
)

// Conn serializes writes: the tick pusher and the action reader share one
// connection and gorilla allows a single concurrent writer.
type Conn struct {
	raw *websocket.Conn
	mu  sync.Mutex
}

// NewConn wraps an upgraded connection.
func NewConn(raw *websocket.Conn) *Conn {
	return &Conn{raw: raw}
}

// WriteTyped sends a strongly-typed response payload.
func (c *Conn) WriteTyped(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.raw.SetWriteDeadline(time.Now().Add(writeWait))
	return c.raw.WriteJSON(v)
}

// WriteError sends a typed ErrorResponse.
func (c *Conn) WriteError(code, msg string) error {
	return c.WriteTyped(ErrorResponse{
		Event:   EventError,
		Code:    code,
		Message: msg,
	})
}

// ReadJSON reads and decodes one message, extending the read deadline.
func (c *Conn) ReadJSON(v interface{}) error {
	c.raw.SetReadDeadline(time.Now().Add(readWait))
	return c.raw.ReadJSON(v)
}

// Close closes the underlying connection.
func (c *Conn) Close() error {
	return c.raw.Close()
}
