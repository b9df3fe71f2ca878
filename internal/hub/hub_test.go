package hub

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soar/padstate/internal/gamepad"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go h.Run(ctx)
	return h
}

func addClient(t *testing.T, h *Hub, pad int) *Client {
	t.Helper()
	c := NewClient(h, nil)
	c.SetPad(pad)
	n := h.Len()
	h.Register(c)
	require.Eventually(t, func() bool { return h.Len() == n+1 }, time.Second, time.Millisecond)
	return c
}

func receive(t *testing.T, c *Client) WSMessage {
	t.Helper()
	select {
	case data := <-c.send:
		var msg WSMessage
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	case <-time.After(time.Second):
		t.Fatal("no message")
	}
	return WSMessage{}
}

func pool(n int) []gamepad.PadState {
	states := make([]gamepad.PadState, n)
	for i := range states {
		states[i] = gamepad.PadState{
			Pad:      i + 1,
			RawIndex: -1,
			Buttons:  make([]gamepad.ButtonView, gamepad.StandardButtons),
			Axes:     make([]float64, gamepad.StandardAxes),
		}
	}
	return states
}

func TestBroadcastToPad(t *testing.T) {
	h := startHub(t)
	one := addClient(t, h, 1)
	two := addClient(t, h, 2)

	h.BroadcastToPad([]byte(`{"type":"x"}`), 2)

	assert.Len(t, two.send, 1)
	assert.Len(t, one.send, 0)
}

func TestUnregisterClosesSend(t *testing.T) {
	h := startHub(t)
	c := addClient(t, h, 1)

	h.Unregister(c)
	require.Eventually(t, func() bool { return h.Len() == 0 }, time.Second, time.Millisecond)

	_, ok := <-c.send
	assert.False(t, ok)
}

func TestBroadcasterMessages(t *testing.T) {
	h := startHub(t)
	c := addClient(t, h, 1)
	b := NewBroadcaster(h, nil)

	states := pool(2)
	b.apply(states)
	msg := receive(t, c)
	assert.Equal(t, TypeFull, msg.Type)
	assert.Equal(t, 1, msg.Pad)

	// unchanged state sends nothing
	b.apply(pool(2))
	assert.Len(t, c.send, 0)

	states = pool(2)
	states[0].Connected = true
	states[0].RawIndex = 0
	b.apply(states)
	msg = receive(t, c)
	assert.Equal(t, TypeEvent, msg.Type)
	assert.Equal(t, EventConnected, msg.Event)
	require.NotNil(t, msg.Data)
	assert.True(t, msg.Data.Connected)

	states = pool(2)
	states[0].Connected = true
	states[0].RawIndex = 0
	states[0].Buttons[gamepad.ButtonA] = gamepad.ButtonView{Pressed: true, Value: 1}
	b.apply(states)
	msg = receive(t, c)
	assert.Equal(t, TypeDelta, msg.Type)
	require.NotNil(t, msg.Changes)
	assert.True(t, msg.Changes.Buttons[gamepad.ButtonA].Pressed)
	assert.Nil(t, msg.Changes.Connected)
}

func TestBroadcasterPeriodicFull(t *testing.T) {
	h := startHub(t)
	c := addClient(t, h, 1)
	b := NewBroadcaster(h, nil)

	b.apply(pool(1))
	receive(t, c)

	for i := 1; i <= deltaCountSync; i++ {
		states := pool(1)
		states[0].Axes[0] = float64(i%2) * 0.5
		b.apply(states)
		msg := receive(t, c)
		if i < deltaCountSync {
			require.Equal(t, TypeDelta, msg.Type, "message %d", i)
		} else {
			assert.Equal(t, TypeFull, msg.Type)
		}
	}
}

func TestSelectPad(t *testing.T) {
	h := startHub(t)
	c := addClient(t, h, 1)
	b := NewBroadcaster(h, nil)

	states := pool(3)
	states[2].Name = "third"
	b.apply(states)
	receive(t, c)

	assert.False(t, b.SelectPad(c, 0))
	assert.False(t, b.SelectPad(c, 4))
	assert.Equal(t, 1, c.Pad())

	c.handle([]byte(`{"type":"select_pad","pad":3}`), b)
	assert.Equal(t, 3, c.Pad())

	msg := receive(t, c)
	assert.Equal(t, TypePadSelected, msg.Type)
	assert.Equal(t, 3, msg.Pad)

	msg = receive(t, c)
	assert.Equal(t, TypeFull, msg.Type)
	require.NotNil(t, msg.Data)
	assert.Equal(t, "third", msg.Data.Name)

	c.handle([]byte(`not json`), b)
	assert.Equal(t, 3, c.Pad())
}

func TestSendInitialStateBeforeFirstPoll(t *testing.T) {
	h := NewHub(nil)
	c := NewClient(h, nil)
	b := NewBroadcaster(h, nil)

	b.SendInitialState(c)
	msg := receive(t, c)
	assert.Equal(t, TypeFull, msg.Type)
	require.NotNil(t, msg.Data)
	assert.Equal(t, 1, msg.Data.Pad)
	assert.False(t, msg.Data.Connected)
}
