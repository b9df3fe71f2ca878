package gamepad

import (
	"time"

	"github.com/spf13/cast"

	"github.com/soar/padstate/internal/logger"
)

// Setting keys accepted by Plugin.SetSettings.
const (
	KeyPollingRate = "POLLINGRATE" // milliseconds
	KeyDeadZone    = "DEADZONE"
)

const (
	DefaultPollingRate = 140 * time.Millisecond
	DefaultDeadZone    = 0.26
)

// Settings holds the runtime-tunable values of a Plugin.
type Settings struct {
	PollingRate time.Duration
	DeadZone    float64
}

// DefaultSettings returns the defaults every key is validated against.
func DefaultSettings() Settings {
	return Settings{
		PollingRate: DefaultPollingRate,
		DeadZone:    DefaultDeadZone,
	}
}

// Map returns the settings keyed the way SetSettings accepts them.
func (s Settings) Map() map[string]any {
	return map[string]any{
		KeyPollingRate: s.PollingRate.Milliseconds(),
		KeyDeadZone:    s.DeadZone,
	}
}

// apply updates only keys that exist in the defaults. Unknown keys are
// ignored silently, values that cannot be converted are ignored with a
// warning. Reports whether the dead zone was changed.
func (s *Settings) apply(opts map[string]any, log logger.Logger) (deadZone bool) {
	for k, v := range opts {
		switch k {
		case KeyPollingRate:
			ms, err := cast.ToInt64E(v)
			if err != nil || ms < 0 {
				log.Warn("ignoring %s=%v", k, v)
				continue
			}
			s.PollingRate = time.Duration(ms) * time.Millisecond
		case KeyDeadZone:
			dz, err := cast.ToFloat64E(v)
			if err != nil || validateDeadZone(dz) != nil {
				log.Warn("ignoring %s=%v", k, v)
				continue
			}
			s.DeadZone = dz
			deadZone = true
		}
	}
	return deadZone
}

func validateDeadZone(dz float64) error {
	if dz < 0 || dz >= 1 {
		return ErrInvalidDeadZone
	}
	return nil
}
