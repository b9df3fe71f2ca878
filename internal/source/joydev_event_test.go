package source

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeJSEvent(e jsEvent) []byte {
	b := make([]byte, jsEventSize)
	binary.LittleEndian.PutUint32(b[0:4], e.Timestamp)
	binary.LittleEndian.PutUint16(b[4:6], uint16(e.Value))
	b[6] = e.Type
	b[7] = e.Index
	return b
}

func TestDecodeJSEvent(t *testing.T) {
	want := jsEvent{Timestamp: 123456, Value: -300, Type: jsEventAxis, Index: 3}
	assert.Equal(t, want, decodeJSEvent(encodeJSEvent(want)))
}

func TestJoydevStateApply(t *testing.T) {
	var s joydevState

	s.apply(jsEvent{Type: jsEventButton | jsEventInit, Index: 2, Value: 0})
	s.apply(jsEvent{Type: jsEventAxis | jsEventInit, Index: 1, Value: 0})
	require.Len(t, s.buttons, 3)
	require.Len(t, s.axes, 2)

	s.apply(jsEvent{Type: jsEventButton, Index: 2, Value: 1})
	s.apply(jsEvent{Type: jsEventAxis, Index: 1, Value: -32767})
	s.apply(jsEvent{Type: 0x7f, Index: 40, Value: 1})

	f := s.frame()
	assert.Equal(t, []bool{false, false, true}, f.Buttons)
	assert.Equal(t, []int16{0, -32767}, f.Axes)

	f.Buttons[2] = false
	assert.True(t, s.buttons[2], "frame must not alias the live state")
}

func TestJSNumber(t *testing.T) {
	n, ok := jsNumber("js3")
	assert.True(t, ok)
	assert.Equal(t, 3, n)

	for _, name := range []string{"js", "event3", "jsx", "mouse0", "js-1"} {
		_, ok := jsNumber(name)
		assert.False(t, ok, name)
	}
}
