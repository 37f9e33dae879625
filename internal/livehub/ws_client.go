package livehub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"civictrack/backend/internal/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// WebSocketClient implements Client over a gorilla/websocket connection.
// The connection is authenticated before construction and receives broadcasts
// as soon as it attaches; presence registration happens only when the client
// sends its explicit registerUser message.
type WebSocketClient struct {
	ID   string
	Conn *websocket.Conn
	Hub  *Hub
	Send chan models.Event
	Log  zerolog.Logger

	mu     sync.Mutex
	closed bool
}

func (c *WebSocketClient) UserID() string { return c.ID }

// Deliver queues ev without blocking. The mutex orders it against Close so a
// concurrent shutdown can never race a send onto the closed channel.
func (c *WebSocketClient) Deliver(ev models.Event) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.Send <- ev:
		return true
	default:
		return false
	}
}

// Run attaches the connection to the hub and starts the read and write pumps.
func (c *WebSocketClient) Run() {
	c.Hub.AttachCh <- c
	go c.writePump()
	go c.readPump()
}

// Close closes the Send channel, which stops the write pump. Idempotent.
func (c *WebSocketClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
}

// readPump consumes inbound frames. The only meaningful inbound message is
// registerUser; everything else is ignored. On disconnect the hub detaches
// the connection and cleans up the registry by handle.
func (c *WebSocketClient) readPump() {
	defer func() {
		c.Hub.UnregisterCh <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Log.Error().Err(err).Str("user", c.ID).Msg("websocket read failed")
			}
			break
		}

		var msg models.RegisterMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			c.Log.Warn().Err(err).Str("user", c.ID).Msg("dropping malformed client message")
			continue
		}

		if msg.Event != "registerUser" {
			continue
		}
		if msg.UserID != "" && msg.UserID != c.ID {
			// Identity comes from the authenticated token, not the message body.
			c.Log.Warn().Str("user", c.ID).Str("claimed", msg.UserID).
				Msg("registerUser id mismatch, using authenticated id")
		}
		c.Hub.RegisterCh <- Registration{UserID: c.ID, Client: c}
	}
}

// writePump drains Send into the websocket and keeps the connection alive
// with pings.
func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case ev, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := json.Marshal(ev)
			if err != nil {
				c.Log.Error().Err(err).Str("user", c.ID).Msg("encoding live event failed")
				continue
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(data)

			// Flush anything already queued in the same frame.
			n := len(c.Send)
			for i := 0; i < n; i++ {
				next := <-c.Send
				extra, _ := json.Marshal(next)
				w.Write(extra)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
