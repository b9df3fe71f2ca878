package gamepad

import "time"

// ButtonEvent describes a button transition. Pad is the logical pad index.
type ButtonEvent struct {
	Pad   int
	Code  int
	Value float64
	Time  time.Time
}

// AxisEvent describes a change of a normalized axis value.
type AxisEvent struct {
	Pad   int
	Axis  int
	Value float64
	Time  time.Time
}

// Listeners holds one optional callback per event kind. The caller's context
// travels in the closures.
type Listeners struct {
	OnDown  func(ButtonEvent)
	OnUp    func(ButtonEvent)
	OnFloat func(ButtonEvent)
	OnAxis  func(AxisEvent)
}

// Combine returns listeners that call each of ls in order.
func Combine(ls ...Listeners) Listeners {
	var out Listeners
	for _, l := range ls {
		out.OnDown = chainButton(out.OnDown, l.OnDown)
		out.OnUp = chainButton(out.OnUp, l.OnUp)
		out.OnFloat = chainButton(out.OnFloat, l.OnFloat)
		out.OnAxis = chainAxis(out.OnAxis, l.OnAxis)
	}
	return out
}

func chainButton(a, b func(ButtonEvent)) func(ButtonEvent) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ev ButtonEvent) { a(ev); b(ev) }
}

func chainAxis(a, b func(AxisEvent)) func(AxisEvent) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ev AxisEvent) { a(ev); b(ev) }
}

// Transition kinds.
const (
	KindDown  = "down"
	KindUp    = "up"
	KindFloat = "float"
	KindAxis  = "axis"
)

// Transition is a flattened button or axis event, the shape consumers
// outside the loop thread store and ship. Pad is 1-based.
type Transition struct {
	Kind  string    `json:"kind"`
	Pad   int       `json:"pad"`
	Code  int       `json:"code"`
	Value float64   `json:"value"`
	Time  time.Time `json:"time"`
}

// TransitionListeners reports every event to fn as a Transition.
func TransitionListeners(fn func(Transition)) Listeners {
	button := func(kind string) func(ButtonEvent) {
		return func(ev ButtonEvent) {
			fn(Transition{Kind: kind, Pad: ev.Pad + 1, Code: ev.Code, Value: ev.Value, Time: ev.Time})
		}
	}
	return Listeners{
		OnDown:  button(KindDown),
		OnUp:    button(KindUp),
		OnFloat: button(KindFloat),
		OnAxis: func(ev AxisEvent) {
			fn(Transition{Kind: KindAxis, Pad: ev.Pad + 1, Code: ev.Axis, Value: ev.Value, Time: ev.Time})
		},
	}
}

func fireButton(ev ButtonEvent, fns ...func(ButtonEvent)) {
	for _, fn := range fns {
		if fn != nil {
			fn(ev)
		}
	}
}

func fireAxis(ev AxisEvent, fns ...func(AxisEvent)) {
	for _, fn := range fns {
		if fn != nil {
			fn(ev)
		}
	}
}
