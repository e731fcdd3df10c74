package websocket

import (
	"context"
	"time"

	ws "github.com/coder/websocket"
)

const (
	// outboxSize bounds the events queued per client. A display that
	// stops draining loses events rather than stalling the hub.
	outboxSize = 32

	keepAliveInterval = 45 * time.Second
)

// Client is one connected dashboard screen. Clients are listen-only;
// mutations arrive over the HTTP API, never the socket.
type Client struct {
	hub    *Hub
	conn   *ws.Conn
	outbox chan []byte
}

func NewClient(hub *Hub, conn *ws.Conn) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		outbox: make(chan []byte, outboxSize),
	}
}

// Run serves the connection until it closes: register with the hub,
// pump queued events out, drain anything the client sends, unregister.
func (c *Client) Run(ctx context.Context) {
	c.hub.Register(c)
	defer c.hub.Unregister(c)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go c.sendLoop(ctx)
	c.receiveLoop(ctx)
}

// receiveLoop discards inbound frames. A read error means the
// connection is gone and Run can clean up.
func (c *Client) receiveLoop(ctx context.Context) {
	for {
		if _, _, err := c.conn.Read(ctx); err != nil {
			return
		}
	}
}

// sendLoop writes queued events and pings idle connections so dead
// screens are detected and dropped instead of lingering in the hub.
func (c *Client) sendLoop(ctx context.Context) {
	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.outbox:
			if !ok {
				// Hub closed the outbox on unregister.
				return
			}
			if err := c.conn.Write(ctx, ws.MessageText, msg); err != nil {
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
