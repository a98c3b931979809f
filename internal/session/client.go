package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/linealab/linea/internal/engine"
)

const (
	pingPeriod = 30 * time.Second
	maxMsgSize = 256 * 1024
)

// Client is the websocket connection of one attached editor.
type Client struct {
	ID      string
	conn    *websocket.Conn
	send    chan []byte
	session *Session
}

func NewClient(conn *websocket.Conn) *Client {
	return &Client{
		ID:   uuid.New().String(),
		conn: conn,
		send: make(chan []byte, 256),
	}
}

// Send queues a message for the write pump. Messages are dropped when the
// editor cannot keep up.
func (c *Client) Send(msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("marshal message", "error", err)
		return
	}
	select {
	case c.send <- data:
	default:
		slog.Warn("editor send buffer full, dropping message", "type", msg.Type)
	}
}

// ReadPump parses inbound messages and feeds events to the session. It
// returns when the connection closes, detaching the session.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		if c.session != nil {
			c.session.Detach()
		}
		close(c.send)
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	c.conn.SetReadLimit(maxMsgSize)

	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
				websocket.CloseStatus(err) == websocket.StatusGoingAway {
				return
			}
			slog.Debug("read error", "error", err, "client", c.ID)
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			slog.Warn("invalid message", "error", err)
			continue
		}

		switch msg.Type {
		case TypeEvent:
			var ev engine.Event
			if err := json.Unmarshal(msg.Payload, &ev); err != nil {
				slog.Warn("invalid event payload", "error", err)
				continue
			}
			c.session.HandleEvent(ev)
		default:
			slog.Warn("unknown message type", "type", msg.Type)
		}
	}
}

// WritePump drains the send queue to the socket and keeps the connection
// alive with pings.
func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.Write(ctx, websocket.MessageText, data); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.Ping(ctx); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
