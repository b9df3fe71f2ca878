package gamepad

import (
	"math"
	"slices"
)

type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type StickState struct {
	Position Vector `json:"position"`
	Pressed  bool   `json:"pressed"`
}

type SticksState struct {
	Left  StickState `json:"left"`
	Right StickState `json:"right"`
}

type ButtonView struct {
	Pressed bool    `json:"pressed"`
	Value   float64 `json:"value"`
}

// PadState is the JSON view of one pad sent to viewers.
type PadState struct {
	Pad       int          `json:"pad"` // 1-based
	Connected bool         `json:"connected"`
	RawIndex  int          `json:"rawIndex"`
	Name      string       `json:"name"`
	Buttons   []ButtonView `json:"buttons"`
	Axes      []float64    `json:"axes"`
	Sticks    SticksState  `json:"sticks"`
}

type DeltaChanges struct {
	Connected *bool        `json:"connected,omitempty"`
	RawIndex  *int         `json:"rawIndex,omitempty"`
	Name      *string      `json:"name,omitempty"`
	Buttons   []ButtonView `json:"buttons,omitempty"`
	Axes      []float64    `json:"axes,omitempty"`
	Sticks    *SticksState `json:"sticks,omitempty"`
}

func (d *DeltaChanges) IsEmpty() bool {
	return d.Connected == nil &&
		d.RawIndex == nil &&
		d.Name == nil &&
		d.Buttons == nil &&
		d.Axes == nil &&
		d.Sticks == nil
}

const analogThreshold = 0.01

func floatEqual(a, b float64) bool {
	return math.Abs(a-b) < analogThreshold
}

// State builds the view of the pad.
func (p *Pad) State() PadState {
	s := PadState{
		Pad:       p.index + 1,
		Connected: p.connected,
		RawIndex:  p.rawIndex,
		Name:      p.raw.Name,
	}

	nb := min(max(len(p.raw.Buttons), StandardButtons), MaxButtons)
	s.Buttons = make([]ButtonView, nb)
	for i := range s.Buttons {
		if b := p.buttons[i]; b != nil {
			s.Buttons[i] = ButtonView{Pressed: b.IsDown, Value: b.Value}
		}
	}

	na := min(max(len(p.raw.Axes), StandardAxes), MaxAxes)
	s.Axes = make([]float64, na)
	for i := range s.Axes {
		s.Axes[i], _ = p.Axis(i)
	}

	s.Sticks.Left = StickState{
		Position: Vector{X: s.Axes[AxisLeftX], Y: s.Axes[AxisLeftY]},
		Pressed:  p.IsDown(ButtonL3),
	}
	s.Sticks.Right = StickState{
		Position: Vector{X: s.Axes[AxisRightX], Y: s.Axes[AxisRightY]},
		Pressed:  p.IsDown(ButtonR3),
	}

	return s
}

// States returns the view of every pad in the pool.
func (p *Plugin) States() []PadState {
	out := make([]PadState, len(p.pads))
	for i, pad := range p.pads {
		out[i] = pad.State()
	}
	return out
}

func ComputeDelta(old, new_ PadState) *DeltaChanges {
	d := &DeltaChanges{}

	if old.Connected != new_.Connected {
		d.Connected = &new_.Connected
	}
	if old.RawIndex != new_.RawIndex {
		d.RawIndex = &new_.RawIndex
	}
	if old.Name != new_.Name {
		d.Name = &new_.Name
	}
	if !slices.Equal(old.Buttons, new_.Buttons) {
		d.Buttons = new_.Buttons
	}
	if !slices.EqualFunc(old.Axes, new_.Axes, floatEqual) {
		d.Axes = new_.Axes
	}

	if !floatEqual(old.Sticks.Left.Position.X, new_.Sticks.Left.Position.X) ||
		!floatEqual(old.Sticks.Left.Position.Y, new_.Sticks.Left.Position.Y) ||
		old.Sticks.Left.Pressed != new_.Sticks.Left.Pressed ||
		!floatEqual(old.Sticks.Right.Position.X, new_.Sticks.Right.Position.X) ||
		!floatEqual(old.Sticks.Right.Position.Y, new_.Sticks.Right.Position.Y) ||
		old.Sticks.Right.Pressed != new_.Sticks.Right.Pressed {
		d.Sticks = &new_.Sticks
	}

	return d
}
