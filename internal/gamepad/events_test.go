package gamepad

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombineCallsInOrder(t *testing.T) {
	rec := &recorder{}
	l := Combine(rec.listeners("a"), Listeners{}, rec.listeners("b"))

	l.OnDown(ButtonEvent{Code: 1})
	l.OnAxis(AxisEvent{Axis: 2})

	assert.Equal(t, []string{"a:down:1", "b:down:1", "a:axis:2", "b:axis:2"}, rec.log)
}

func TestCombineEmpty(t *testing.T) {
	l := Combine()
	assert.Nil(t, l.OnDown)
	assert.Nil(t, l.OnAxis)
}

func TestTransitionListeners(t *testing.T) {
	src := &fakeSource{}
	src.Set(RawSnapshot{Index: 0, Buttons: buttons(2, map[int]float64{1: 1}), Axes: []float64{0.9, 0}})
	p, clock := newTestPlugin(t, src)

	var got []Transition
	p.SetListeners(TransitionListeners(func(tr Transition) { got = append(got, tr) }))
	p.Start()
	now := tick(t, p, clock)

	require.Len(t, got, 3)
	assert.Equal(t, Transition{Kind: KindDown, Pad: 1, Code: 1, Value: 1, Time: now}, got[0])
	assert.Equal(t, KindAxis, got[1].Kind)
	assert.Equal(t, AxisLeftX, got[1].Code)
	assert.Equal(t, KindAxis, got[2].Kind)
	assert.Equal(t, AxisLeftY, got[2].Code)
	assert.Equal(t, 0.0, got[2].Value)
	assert.WithinDuration(t, now, got[2].Time, time.Nanosecond)
}
