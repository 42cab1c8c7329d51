package hub

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 1024
)

// Client is one admitted websocket connection inside a room.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	roomID uint64
	userID uint64
	send   chan []byte
}

// NewClient wraps an upgraded connection for the given room and user.
func NewClient(h *Hub, conn *websocket.Conn, roomID, userID uint64) *Client {
	return &Client{
		hub:    h,
		conn:   conn,
		roomID: roomID,
		userID: userID,
		send:   make(chan []byte, 256),
	}
}

// RoomID returns the room the client was admitted into.
func (c *Client) RoomID() uint64 { return c.roomID }

// UserID returns the authenticated user behind the connection.
func (c *Client) UserID() uint64 { return c.userID }

// Run starts the read and write pumps. It returns immediately; the
// pumps unregister the client from the hub when the peer goes away.
func (c *Client) Run() {
	go c.writePump()
	go c.readPump()
}

// readPump consumes frames from the peer until the connection drops.
// Incoming document operations are read and discarded: the edit
// exchange is not part of this service, but frames still have to be
// drained so pong handling and read deadlines keep the connection
// healthy.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, _, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.WithFields(logrus.Fields{
					"room_id": c.roomID,
					"user_id": c.userID,
				}).WithError(err).Warn("websocket read failed")
			}
			return
		}
	}
}

// writePump moves queued messages from the send channel onto the wire
// and keeps the connection alive with periodic pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel during unregister.
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
