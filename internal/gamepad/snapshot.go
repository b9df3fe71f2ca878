package gamepad

import "time"

// RawSnapshot is one device's hardware state for a single tick. Sources
// replace snapshots wholesale every tick and never mutate one after handing
// it out.
type RawSnapshot struct {
	// Index is the device-assigned slot. It may be non-contiguous and may
	// change across hotplug events.
	Index   int
	Name    string
	Buttons []float64 // 0..1, 1 = fully pressed
	Axes    []float64 // -1..1, pairs (0,1) and (2,3) are the two sticks
}

// Source exposes the devices currently present. A nil result means the
// underlying API is unavailable this tick; an empty result means no device
// is present.
type Source interface {
	Snapshots() []RawSnapshot
}

// HotplugHandler receives connect and disconnect notifications. Calls may
// arrive from any goroutine.
type HotplugHandler interface {
	Connected(index int)
	Disconnected(index int)
}

// Hotplugger is implemented by sources that can push hotplug notifications.
type Hotplugger interface {
	Subscribe(h HotplugHandler) (unsubscribe func())
}

// Clock is the time source used for button timestamps and queries.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
