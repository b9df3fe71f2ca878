package gamepad

import "errors"

var (
	// ErrInvalidDeadZone is returned for a dead zone outside [0, 1). A dead
	// zone of 1 would divide by zero during stick normalization.
	ErrInvalidDeadZone = errors.New("dead zone must be in [0, 1)")
	ErrInvalidCapacity = errors.New("pad capacity must be at least 1")
	ErrNilSource       = errors.New("snapshot source is nil")
)
