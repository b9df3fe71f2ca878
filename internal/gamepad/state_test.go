package gamepad

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePadState() PadState {
	return PadState{
		Pad:       1,
		Connected: true,
		RawIndex:  0,
		Name:      "pad",
		Buttons:   make([]ButtonView, StandardButtons),
		Axes:      make([]float64, StandardAxes),
	}
}

func TestComputeDeltaNoChange(t *testing.T) {
	s := samplePadState()
	assert.True(t, ComputeDelta(s, s).IsEmpty())
}

func TestComputeDeltaIgnoresJitter(t *testing.T) {
	old := samplePadState()
	cur := samplePadState()
	cur.Axes = []float64{0.005, 0, 0, 0}
	cur.Sticks.Left.Position.X = 0.005

	assert.True(t, ComputeDelta(old, cur).IsEmpty())
}

func TestComputeDeltaFields(t *testing.T) {
	old := samplePadState()
	cur := samplePadState()
	cur.Connected = false
	cur.RawIndex = -1
	cur.Buttons = make([]ButtonView, StandardButtons)
	cur.Buttons[ButtonStart] = ButtonView{Pressed: true, Value: 1}
	cur.Axes = []float64{0, 0, 0.5, 0}
	cur.Sticks.Right.Position.X = 0.5

	d := ComputeDelta(old, cur)
	require.False(t, d.IsEmpty())
	require.NotNil(t, d.Connected)
	assert.False(t, *d.Connected)
	require.NotNil(t, d.RawIndex)
	assert.Equal(t, -1, *d.RawIndex)
	assert.Nil(t, d.Name)
	assert.True(t, d.Buttons[ButtonStart].Pressed)
	assert.Equal(t, cur.Axes, d.Axes)
	require.NotNil(t, d.Sticks)
	assert.Equal(t, 0.5, d.Sticks.Right.Position.X)
}

func TestDeltaOmitsUnchangedFields(t *testing.T) {
	old := samplePadState()
	cur := samplePadState()
	cur.Name = "other"

	data, err := json.Marshal(ComputeDelta(old, cur))
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"other"}`, string(data))
}

func TestStateOfUnboundPad(t *testing.T) {
	p, _ := newTestPlugin(t, &fakeSource{})
	s := p.Pad(5).State()

	assert.Equal(t, 6, s.Pad)
	assert.False(t, s.Connected)
	assert.Equal(t, -1, s.RawIndex)
	assert.Len(t, s.Buttons, StandardButtons)
	assert.Len(t, s.Axes, StandardAxes)
}
