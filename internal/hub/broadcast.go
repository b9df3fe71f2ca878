package hub

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/soar/padstate/internal/gamepad"
)

const (
	fullSyncInterval = 5 * time.Second
	deltaCountSync   = 100
)

// Broadcaster listens for pool state and broadcasts per-pad changes to the
// hub.
type Broadcaster struct {
	hub    *Hub
	states <-chan []gamepad.PadState

	mu         sync.Mutex
	last       []gamepad.PadState
	deltaCount []int
	seq        int64
}

func NewBroadcaster(h *Hub, states <-chan []gamepad.PadState) *Broadcaster {
	return &Broadcaster{
		hub:    h,
		states: states,
	}
}

// Run starts the broadcaster loop until ctx is done or the state channel
// closes. Should be run in a goroutine.
func (b *Broadcaster) Run(ctx context.Context) {
	ticker := time.NewTicker(fullSyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case states, ok := <-b.states:
			if !ok {
				return
			}
			b.apply(states)

		case <-ticker.C:
			b.syncConnected()
		}
	}
}

// apply diffs each pad against its previous state. The first state of a
// pad, a connection change and every deltaCountSync-th delta go out in full.
func (b *Broadcaster) apply(states []gamepad.PadState) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for len(b.last) < len(states) {
		b.last = append(b.last, gamepad.PadState{})
		b.deltaCount = append(b.deltaCount, 0)
	}

	for i, state := range states {
		prev := b.last[i]
		b.last[i] = state

		if prev.Pad == 0 {
			b.seq++
			b.send(NewFullMessage(b.seq, &state), state.Pad)
			continue
		}

		if prev.Connected != state.Connected {
			event := EventDisconnected
			if state.Connected {
				event = EventConnected
			}
			b.seq++
			b.deltaCount[i] = 0
			b.send(NewEventMessage(b.seq, event, &state), state.Pad)
			continue
		}

		delta := gamepad.ComputeDelta(prev, state)
		if delta.IsEmpty() {
			continue
		}

		b.seq++
		b.deltaCount[i]++

		// Send full sync periodically
		if b.deltaCount[i] >= deltaCountSync {
			b.deltaCount[i] = 0
			b.send(NewFullMessage(b.seq, &state), state.Pad)
		} else {
			b.send(NewDeltaMessage(b.seq, state.Pad, delta), state.Pad)
		}
	}
}

func (b *Broadcaster) syncConnected() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.last {
		if b.last[i].Connected {
			b.seq++
			b.send(NewFullMessage(b.seq, &b.last[i]), b.last[i].Pad)
		}
	}
}

// SendInitialState sends the current full state of the client's pad to a
// newly connected client.
func (b *Broadcaster) SendInitialState(c *Client) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sendStateTo(c, c.Pad())
}

// SelectPad implements PadSelector. The pad is 1-based.
func (b *Broadcaster) SelectPad(c *Client, pad int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if pad < 1 || pad > len(b.last) {
		return false
	}
	c.SetPad(pad)
	if data, err := json.Marshal(NewPadSelectedMessage(pad)); err == nil {
		c.Send(data)
	}
	b.sendStateTo(c, pad)
	return true
}

func (b *Broadcaster) sendStateTo(c *Client, pad int) {
	state := gamepad.PadState{Pad: pad, RawIndex: -1}
	if pad >= 1 && pad <= len(b.last) && b.last[pad-1].Pad != 0 {
		state = b.last[pad-1]
	}

	b.seq++
	data, err := json.Marshal(NewFullMessage(b.seq, &state))
	if err != nil {
		b.hub.log.Error("error marshaling initial state: %v", err)
		return
	}
	c.Send(data)
}

func (b *Broadcaster) send(msg *WSMessage, pad int) {
	data, err := json.Marshal(msg)
	if err != nil {
		b.hub.log.Error("error marshaling %s message: %v", msg.Type, err)
		return
	}
	b.hub.BroadcastToPad(data, pad)
}
