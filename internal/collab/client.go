package collab

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/websocket"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	maxMsgSize = 256 * 1024 // boards with many shapes sync in one message

	outboxDepth = 256
)

// Client is one websocket connection bound to a room. Identity fields are
// fixed at connect time from the authenticated request; incoming message
// bodies can never override them.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	outbox chan []byte

	mu     sync.Mutex // guards closed and the outbox send in Send
	closed bool

	UserID      string
	DisplayName string
	BoardID     string
	ClientID    string
}

func NewClient(hub *Hub, conn *websocket.Conn, userID, displayName, boardID, clientID string) *Client {
	return &Client{
		hub:         hub,
		conn:        conn,
		outbox:      make(chan []byte, outboxDepth),
		UserID:      userID,
		DisplayName: displayName,
		BoardID:     boardID,
		ClientID:    clientID,
	}
}

// ReadPump consumes messages from the socket until it closes, stamping each
// one with the client's identity before handing it to the hub. It must run
// on the connection's goroutine; WritePump runs concurrently.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	c.conn.SetReadLimit(maxMsgSize)

	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			if !expectedClose(err) {
				slog.Debug("read error", "error", err, "user", c.UserID)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			slog.Warn("invalid message", "error", err, "user", c.UserID)
			continue
		}

		msg.UserID = c.UserID
		msg.ClientID = c.ClientID
		msg.BoardID = c.BoardID

		c.hub.handleMessage(c, &msg)
	}
}

// WritePump drains the outbox to the socket and keeps the connection alive
// with periodic pings.
func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case data, ok := <-c.outbox:
			if !ok {
				return
			}
			if err := c.write(ctx, data); err != nil {
				slog.Debug("write error", "error", err, "user", c.UserID)
				return
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

// Send queues a message for delivery. Slow consumers lose messages rather
// than stall the room; a dropped message is recovered by the next board.sync.
// Sends after the client left its room are dropped, not panics: a broadcast
// may hold a client snapshot taken just before removal.
func (c *Client) Send(msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("marshal message", "error", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.outbox <- data:
	default:
		slog.Warn("client outbox full, dropping message", "user", c.UserID)
	}
}

// closeOutbox shuts the outbox exactly once. Serialized with Send so a
// late broadcast can never hit a closed channel.
func (c *Client) closeOutbox() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.outbox)
}

func (c *Client) write(ctx context.Context, data []byte) error {
	writeCtx, cancel := context.WithTimeout(ctx, writeWait)
	defer cancel()
	return c.conn.Write(writeCtx, websocket.MessageText, data)
}

func expectedClose(err error) bool {
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		return true
	}
	return false
}
