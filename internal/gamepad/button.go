package gamepad

import "time"

// ButtonState is the history of one button on one pad.
type ButtonState struct {
	IsDown   bool
	TimeDown time.Time
	TimeUp   time.Time
	Duration time.Duration // time held, refreshed every poll while down
	Value    float64
}

// Hotkey is bound to a button code and follows that button's transitions.
type Hotkey interface {
	ButtonDown(value float64)
	ButtonUp(value float64)
	ButtonFloat(value float64)
}
