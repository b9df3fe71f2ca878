package hub

import (
	"time"

	"github.com/soar/padstate/internal/gamepad"
)

// Message types sent from server to client.
const (
	TypeFull        = "full"
	TypeDelta       = "delta"
	TypeEvent       = "event"
	TypePadSelected = "pad_selected"
)

// Client message types.
const TypeSelectPad = "select_pad"

// Event names for type "event".
const (
	EventConnected    = "connected"
	EventDisconnected = "disconnected"
)

// WSMessage represents a WebSocket message sent from server to client.
type WSMessage struct {
	Type      string                `json:"type"`              // Message type: "full", "delta", "event", "pad_selected"
	Seq       int64                 `json:"seq"`               // Sequence number for ordering
	Timestamp int64                 `json:"timestamp"`         // Unix timestamp in milliseconds
	Event     string                `json:"event,omitempty"`   // Event name for type "event"
	Data      *gamepad.PadState     `json:"data,omitempty"`    // Full pad state for type "full" or "event"
	Changes   *gamepad.DeltaChanges `json:"changes,omitempty"` // Delta changes for type "delta"
	Pad       int                   `json:"pad,omitempty"`     // 1-based pad the message is about
}

// NewFullMessage creates a "full" type message containing complete pad state.
func NewFullMessage(seq int64, state *gamepad.PadState) *WSMessage {
	return &WSMessage{
		Type:      TypeFull,
		Seq:       seq,
		Timestamp: time.Now().UnixMilli(),
		Data:      state,
		Pad:       state.Pad,
	}
}

// NewDeltaMessage creates a "delta" type message containing only changed fields.
func NewDeltaMessage(seq int64, pad int, changes *gamepad.DeltaChanges) *WSMessage {
	return &WSMessage{
		Type:      TypeDelta,
		Seq:       seq,
		Timestamp: time.Now().UnixMilli(),
		Changes:   changes,
		Pad:       pad,
	}
}

// NewEventMessage creates an "event" type message for special events.
func NewEventMessage(seq int64, event string, state *gamepad.PadState) *WSMessage {
	return &WSMessage{
		Type:      TypeEvent,
		Seq:       seq,
		Timestamp: time.Now().UnixMilli(),
		Event:     event,
		Data:      state,
		Pad:       state.Pad,
	}
}

// NewPadSelectedMessage confirms a "select_pad" request.
func NewPadSelectedMessage(pad int) *WSMessage {
	return &WSMessage{
		Type:      TypePadSelected,
		Timestamp: time.Now().UnixMilli(),
		Pad:       pad,
	}
}

// ClientMessage represents a message sent from the client to the server.
type ClientMessage struct {
	Type string `json:"type"`
	Pad  int    `json:"pad,omitempty"`
}
