package realtime

import (
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024

	sendBuffer = 64
)

// Client is one WebSocket connection owned by a signed-in profile. The server
// only pushes; inbound frames are read solely to detect disconnects and
// service pong control messages.
type Client struct {
	profileID string
	hub       *Hub
	conn      *websocket.Conn
	send      chan Event
	log       *zap.Logger
}

// NewClient wraps an upgraded connection for the given profile.
func NewClient(hub *Hub, conn *websocket.Conn, profileID string, logger *zap.Logger) *Client {
	return &Client{
		profileID: profileID,
		hub:       hub,
		conn:      conn,
		send:      make(chan Event, sendBuffer),
		log:       logger,
	}
}

// Start registers the client and launches its pumps.
func (c *Client) Start() {
	c.hub.Register(c)
	go c.writePump()
	go c.readPump()
}

// readPump drains the connection until it closes, keeping the read deadline
// fresh via pong handling.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.log.Debug("unexpected websocket close",
					zap.String("profile_id", c.profileID),
					zap.Error(err))
			}
			return
		}
	}
}

// writePump serializes queued events onto the connection and keeps it alive
// with periodic pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case ev, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if !ok {
				// Hub closed the channel.
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(ev); err != nil {
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
