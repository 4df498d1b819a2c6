package realtime

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// ErrBackpressure is returned by TrySend when the outbound queue is full.
// Relays drop the frame rather than block on a slow reader.
var ErrBackpressure = errors.New("backpressure")

const (
	sendBufferSize = 32
	writeTimeout   = 5 * time.Second
)

// Sender is the outbound half of a websocket connection. Registries and
// relays hold Senders so tests can substitute fakes.
type Sender interface {
	ID() string
	TrySend(data []byte) error
}

// Conn wraps a websocket connection with a buffered outbound queue drained
// by a single writer goroutine.
type Conn struct {
	id     string
	userID string
	ws     *websocket.Conn
	send   chan []byte

	mu     sync.RWMutex
	closed bool
}

func newConn(ws *websocket.Conn, userID string) *Conn {
	return &Conn{
		id:     uuid.NewString(),
		userID: userID,
		ws:     ws,
		send:   make(chan []byte, sendBufferSize),
	}
}

func (c *Conn) ID() string     { return c.id }
func (c *Conn) UserID() string { return c.userID }

// TrySend queues a frame without blocking.
func (c *Conn) TrySend(data []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- data:
	default:
		return ErrBackpressure
	}
	return nil
}

// Close shuts the send channel and the underlying socket. Safe to call
// more than once.
func (c *Conn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.ws.Close()
	c.mu.Unlock()
}

func (c *Conn) writePump() {
	for data := range c.send {
		if err := c.ws.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
			return
		}
		if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
}
