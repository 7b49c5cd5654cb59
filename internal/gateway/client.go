package gateway

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const maxFrameSize = 4096

// Config holds per-connection tunables.
type Config struct {
	// SendQueueSize bounds each client's outbound queue; a client whose
	// queue overflows is disconnected rather than slowing the room.
	SendQueueSize int

	// WriteTimeout caps a single frame write.
	WriteTimeout time.Duration

	// PingInterval is the keepalive cadence.
	PingInterval time.Duration

	// ReadTimeout is how long to wait for any frame (pongs included)
	// before treating the connection as dead.
	ReadTimeout time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		SendQueueSize: 64,
		WriteTimeout:  10 * time.Second,
		PingInterval:  25 * time.Second,
		ReadTimeout:   60 * time.Second,
	}
}

// Client is one WebSocket connection.
type Client struct {
	id   string
	conn *websocket.Conn
	send chan []byte

	closeOnce sync.Once
	done      chan struct{}
}

func newClient(id string, conn *websocket.Conn, queueSize int) *Client {
	if queueSize <= 0 {
		queueSize = DefaultConfig().SendQueueSize
	}
	return &Client{
		id:   id,
		conn: conn,
		send: make(chan []byte, queueSize),
		done: make(chan struct{}),
	}
}

// ID returns the client's connection id.
func (c *Client) ID() string {
	return c.id
}

// enqueue queues a frame for delivery. Returns false when the send
// queue is full; the caller decides what to do with the slow client.
func (c *Client) enqueue(frame []byte) bool {
	select {
	case c.send <- frame:
		return true
	case <-c.done:
		return true
	default:
		return false
	}
}

// close tears the connection down. Idempotent.
func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		c.conn.Close()
	})
}

// writePump drains the send queue onto the connection and keeps the
// connection alive with periodic pings. It is the only goroutine that
// writes to the connection.
func (c *Client) writePump(cfg Config) {
	ticker := time.NewTicker(cfg.PingInterval)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case <-c.done:
			return
		case frame := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(cfg.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(cfg.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
