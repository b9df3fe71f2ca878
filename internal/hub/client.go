package hub

import (
	"encoding/json"
	"sync/atomic"

	"github.com/gorilla/websocket"
)

// PadSelector switches the pad a client is watching.
type PadSelector interface {
	SelectPad(c *Client, pad int) bool
}

// Client represents a connected WebSocket client.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	pad  atomic.Int32 // 1-based pad this client is watching
}

// NewClient creates a new Client attached to the hub. It watches pad 1.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	c := &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 256),
	}
	c.pad.Store(1)
	return c
}

func (c *Client) Pad() int {
	return int(c.pad.Load())
}

// SetPad sets the 1-based pad this client is watching.
func (c *Client) SetPad(pad int) {
	c.pad.Store(int32(pad))
}

// Send queues msg without blocking. Returns false if the buffer is full.
func (c *Client) Send(msg []byte) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// WritePump sends messages from the send channel to the WebSocket connection.
func (c *Client) WritePump() {
	defer func() {
		c.conn.Close()
	}()

	for msg := range c.send {
		err := c.conn.WriteMessage(websocket.TextMessage, msg)
		if err != nil {
			break
		}
	}
}

// ReadPump reads messages from the WebSocket and handles client commands.
func (c *Client) ReadPump(selector PadSelector) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			break
		}
		c.handle(message, selector)
	}
}

func (c *Client) handle(message []byte, selector PadSelector) {
	var clientMsg ClientMessage
	if err := json.Unmarshal(message, &clientMsg); err != nil {
		c.hub.log.Warn("error parsing client message: %v", err)
		return
	}

	switch clientMsg.Type {
	case TypeSelectPad:
		if !selector.SelectPad(c, clientMsg.Pad) {
			c.hub.log.Warn("failed to switch to pad %d: invalid index", clientMsg.Pad)
			return
		}
		c.hub.log.Info("client switched to pad %d", clientMsg.Pad)
	}
}
