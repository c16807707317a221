package notifications

import (
	"sync"
	"time"

	"skillswap/internal/middleware"
	"skillswap/internal/observability"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// DefaultMaxMessageSize is the inbound frame limit when none is configured.
	DefaultMaxMessageSize = 16384

	sendBuffer = 256
)

// WSHub is implemented by hubs that own clients.
type WSHub interface {
	UnregisterClient(c *Client)
	Name() string
}

// Client is a middleman between one websocket connection and a hub.
type Client struct {
	// ID distinguishes connections of the same user.
	ID  string
	Hub WSHub

	Conn *websocket.Conn

	// Buffered channel of outbound messages.
	Send chan []byte

	// UserID is zero and Username empty for anonymous connections.
	UserID   uint
	Username string

	// Group is the chat group the client joined, if any.
	Group string

	// ReadLimit caps inbound frame size; larger frames close the connection.
	ReadLimit int64

	// IncomingHandler is called for every inbound frame.
	IncomingHandler func(*Client, []byte)

	done     chan struct{}
	stopOnce sync.Once
}

// NewClient creates a new Client instance
func NewClient(hub WSHub, conn *websocket.Conn, userID uint) *Client {
	return &Client{
		ID:        uuid.NewString(),
		Hub:       hub,
		Conn:      conn,
		UserID:    userID,
		Send:      make(chan []byte, sendBuffer),
		ReadLimit: DefaultMaxMessageSize,
		done:      make(chan struct{}),
	}
}

// Stop ends WritePump. Hubs call it when the client is unregistered; it is
// safe to call more than once.
func (c *Client) Stop() {
	c.stopOnce.Do(func() { close(c.done) })
}

// Done is closed once the client has been stopped.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// ReadPump pumps messages from the websocket connection to IncomingHandler
// and unregisters the client when the connection ends.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.UnregisterClient(c)
		_ = c.Conn.Close()
	}()

	c.Conn.SetReadLimit(c.ReadLimit)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { _ = c.Conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				middleware.Logger.Warn("websocket read failed",
					"hub", c.Hub.Name(), "client_id", c.ID, "user_id", c.UserID, "error", err)
			}
			break
		}

		if c.IncomingHandler != nil {
			c.IncomingHandler(c, message)
		}
	}
}

// WritePump pumps messages from Send to the websocket connection and keeps
// it alive with pings. It returns once the client is stopped.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			_, _ = w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-c.done:
			return

		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// TrySend queues message without blocking. When the buffer is full or the
// client is gone the message is dropped; delivery is best-effort.
func (c *Client) TrySend(message []byte) {
	defer func() {
		if r := recover(); r != nil {
			observability.WebSocketBackpressureDrops.WithLabelValues(c.Hub.Name(), "closed").Inc()
		}
	}()

	select {
	case c.Send <- message:
	default:
		observability.WebSocketBackpressureDrops.WithLabelValues(c.Hub.Name(), "full").Inc()
		middleware.Logger.Warn("websocket buffer full, dropped message",
			"hub", c.Hub.Name(), "client_id", c.ID, "user_id", c.UserID)
	}
}
