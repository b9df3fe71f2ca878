package gamepad

import "github.com/soar/padstate/internal/logger"

// connections binds present devices to pads. Bindings of devices that stay
// present are never touched, so unrelated pads don't reshuffle when another
// device comes or goes.
type connections struct {
	pads []*Pad
	log  logger.Logger

	// present[i] records whether raw index i was reported last tick. A full
	// rescan only runs when this changes, unless rescanAlways is set.
	present      []bool
	rescanAlways bool

	// dirty forces a rescan on the next tick after a hotplug notification
	dirty bool

	clearOnDisconnect bool
}

func newConnections(pads []*Pad, log logger.Logger) *connections {
	return &connections{
		pads:              pads,
		log:               log,
		present:           make([]bool, len(pads)),
		clearOnDisconnect: true,
	}
}

// scan applies the devices reported this tick. Devices with an index beyond
// the pool capacity are dropped, as are repeats of an index already seen
// this tick.
func (c *connections) scan(snaps []RawSnapshot) {
	if snaps == nil {
		return
	}

	current := make([]RawSnapshot, 0, len(snaps))
	seen := make([]bool, len(c.present))
	for _, s := range snaps {
		if s.Index < 0 || s.Index >= len(seen) || seen[s.Index] {
			continue
		}
		seen[s.Index] = true
		current = append(current, s)
	}

	changed := c.dirty || c.rescanAlways
	for i := range c.present {
		if c.present[i] != seen[i] {
			c.present[i] = seen[i]
			changed = true
		}
	}
	c.dirty = false

	if changed {
		c.rebind(current)
	}
	c.refresh(current)
}

func (c *connections) rebind(current []RawSnapshot) {
	kept := make(map[int]bool, len(current))

	for _, p := range c.pads {
		if !p.connected {
			continue
		}
		if !kept[p.rawIndex] && findSnapshot(current, p.rawIndex) >= 0 {
			kept[p.rawIndex] = true
			continue
		}
		c.log.Info("pad %d disconnected (raw %d)", p.index+1, p.rawIndex)
		p.disconnect(c.clearOnDisconnect)
	}

	for _, s := range current {
		if kept[s.Index] {
			continue
		}
		p := c.lowestFree()
		if p == nil {
			return
		}
		p.connect(s)
		kept[s.Index] = true
		c.log.Info("pad %d connected: %q (raw %d)", p.index+1, s.Name, s.Index)
	}
}

// refresh hands every bound pad its snapshot for this tick.
func (c *connections) refresh(current []RawSnapshot) {
	for _, p := range c.pads {
		if !p.connected {
			continue
		}
		if i := findSnapshot(current, p.rawIndex); i >= 0 {
			p.raw = current[i]
		}
	}
}

func (c *connections) lowestFree() *Pad {
	for _, p := range c.pads {
		if !p.connected {
			return p
		}
	}
	return nil
}

func (c *connections) boundTo(rawIndex int) *Pad {
	for _, p := range c.pads {
		if p.connected && p.rawIndex == rawIndex {
			return p
		}
	}
	return nil
}

// connected handles a hotplug connect. A device that is already bound is
// ignored, so duplicate notifications are harmless.
func (c *connections) connected(rawIndex int) {
	if rawIndex < 0 || rawIndex >= len(c.present) {
		return
	}
	c.dirty = true

	if c.boundTo(rawIndex) != nil {
		return
	}
	p := c.lowestFree()
	if p == nil {
		return
	}
	p.connect(RawSnapshot{Index: rawIndex})
	c.log.Info("pad %d connected (raw %d)", p.index+1, rawIndex)
}

func (c *connections) disconnected(rawIndex int) {
	c.dirty = true

	if p := c.boundTo(rawIndex); p != nil {
		p.disconnect(c.clearOnDisconnect)
		c.log.Info("pad %d disconnected (raw %d)", p.index+1, rawIndex)
	}
}

func findSnapshot(snaps []RawSnapshot, rawIndex int) int {
	for i := range snaps {
		if snaps[i].Index == rawIndex {
			return i
		}
	}
	return -1
}
