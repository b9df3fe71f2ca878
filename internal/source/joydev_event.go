package source

import (
	"encoding/binary"
	"strconv"
	"strings"
)

// js_event types from linux/joystick.h
const (
	jsEventButton uint8 = 0x01
	jsEventAxis   uint8 = 0x02
	jsEventInit   uint8 = 0x80
)

const jsEventSize = 8

type jsEvent struct {
	Timestamp uint32
	Value     int16
	Type      uint8
	Index     uint8
}

func decodeJSEvent(b []byte) jsEvent {
	return jsEvent{
		Timestamp: binary.LittleEndian.Uint32(b[0:4]),
		Value:     int16(binary.LittleEndian.Uint16(b[4:6])),
		Type:      b[6],
		Index:     b[7],
	}
}

// joydevState accumulates js events into the latest reading of a device.
type joydevState struct {
	axes    []int16
	buttons []bool
}

func (s *joydevState) apply(e jsEvent) {
	i := int(e.Index)
	switch e.Type &^ jsEventInit {
	case jsEventButton:
		if i >= len(s.buttons) {
			s.buttons = append(s.buttons, make([]bool, i+1-len(s.buttons))...)
		}
		s.buttons[i] = e.Value != 0
	case jsEventAxis:
		if i >= len(s.axes) {
			s.axes = append(s.axes, make([]int16, i+1-len(s.axes))...)
		}
		s.axes[i] = e.Value
	}
}

func (s *joydevState) frame() Frame {
	return Frame{
		Axes:    append([]int16(nil), s.axes...),
		Buttons: append([]bool(nil), s.buttons...),
	}
}

// jsNumber parses the N of a /dev/input/jsN node name.
func jsNumber(name string) (int, bool) {
	rest, ok := strings.CutPrefix(name, "js")
	if !ok || rest == "" {
		return -1, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return -1, false
	}
	return n, true
}
