package gamepad

import (
	"fmt"
	"sync"
	"time"

	"github.com/soar/padstate/internal/logger"
)

// DefaultCapacity is the number of logical pads in the pool.
const DefaultCapacity = 11

// Option configures a Plugin at construction.
type Option func(*Plugin)

// WithCapacity sets the fixed number of logical pads.
func WithCapacity(n int) Option {
	return func(p *Plugin) { p.capacity = n }
}

func WithClock(c Clock) Option {
	return func(p *Plugin) { p.clock = c }
}

func WithLogger(l logger.Logger) Option {
	return func(p *Plugin) { p.log = l }
}

// WithSettings overrides the default settings. Only keys known to
// DefaultSettings are applied.
func WithSettings(opts map[string]any) Option {
	return func(p *Plugin) { p.initial = opts }
}

// WithRescanAlways disables the fast path that skips rebinding on ticks with
// no device arriving or leaving.
func WithRescanAlways(v bool) Option {
	return func(p *Plugin) { p.rescanAlways = v }
}

// WithClearOnDisconnect chooses whether a pad forgets its button and axis
// history when its device goes away. Defaults to true.
func WithClearOnDisconnect(v bool) Option {
	return func(p *Plugin) { p.clearOnDisconnect = v }
}

type hotplugEvent struct {
	index     int
	connected bool
}

// Plugin owns the pad pool and drives it from a host's per-frame update.
// Apart from Connected and Disconnected, which may be called from any
// goroutine, a Plugin must only be used from the host loop.
type Plugin struct {
	source   Source
	clock    Clock
	log      logger.Logger
	settings Settings
	initial  map[string]any

	capacity          int
	rescanAlways      bool
	clearOnDisconnect bool

	pads      []*Pad
	conn      *connections
	listeners Listeners

	active      bool
	lastPoll    time.Time
	unsubscribe func()

	// hotplug notifications queued for the next poll
	mu      sync.Mutex
	pending []hotplugEvent
}

// NewPlugin creates the pad pool for src. No polling happens until Start.
func NewPlugin(src Source, opts ...Option) (*Plugin, error) {
	if src == nil {
		return nil, ErrNilSource
	}

	p := &Plugin{
		source:            src,
		clock:             SystemClock{},
		log:               logger.Discard{},
		settings:          DefaultSettings(),
		capacity:          DefaultCapacity,
		clearOnDisconnect: true,
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.capacity < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, p.capacity)
	}
	if p.initial != nil {
		p.settings.apply(p.initial, p.log)
		p.initial = nil
	}

	p.pads = make([]*Pad, p.capacity)
	for i := range p.pads {
		p.pads[i] = newPad(i, p.clock, p.settings.DeadZone, &p.listeners)
	}

	p.conn = newConnections(p.pads, p.log)
	p.conn.rescanAlways = p.rescanAlways
	p.conn.clearOnDisconnect = p.clearOnDisconnect

	return p, nil
}

// Start subscribes to hotplug notifications, binds the devices already
// present and enables polling.
func (p *Plugin) Start() {
	if hp, ok := p.source.(Hotplugger); ok && p.unsubscribe == nil {
		p.unsubscribe = hp.Subscribe(p)
	}

	p.active = true
	p.drainHotplug()
	p.conn.scan(p.source.Snapshots())
	p.lastPoll = p.clock.Now()

	p.log.Info("started with %d pads, polling every %v", len(p.pads), p.settings.PollingRate)
}

// Stop unsubscribes from hotplug notifications and disables polling.
func (p *Plugin) Stop() {
	p.active = false
	if p.unsubscribe != nil {
		p.unsubscribe()
		p.unsubscribe = nil
	}
	p.log.Info("stopped")
}

// Update is the per-frame driver. A poll runs only when more than the
// polling rate has elapsed since the previous one. Returns true if a poll
// ran.
func (p *Plugin) Update(now time.Time) bool {
	if !p.active {
		return false
	}
	if !(p.settings.PollingRate < now.Sub(p.lastPoll)) {
		return false
	}

	p.drainHotplug()
	p.conn.scan(p.source.Snapshots())
	for _, pad := range p.pads {
		if pad.connected {
			pad.Poll(now)
		}
	}
	p.lastPoll = now

	return true
}

// Connected implements HotplugHandler.
func (p *Plugin) Connected(index int) {
	p.mu.Lock()
	p.pending = append(p.pending, hotplugEvent{index: index, connected: true})
	p.mu.Unlock()
}

// Disconnected implements HotplugHandler.
func (p *Plugin) Disconnected(index int) {
	p.mu.Lock()
	p.pending = append(p.pending, hotplugEvent{index: index})
	p.mu.Unlock()
}

func (p *Plugin) drainHotplug() {
	p.mu.Lock()
	pending := p.pending
	p.pending = nil
	p.mu.Unlock()

	for _, ev := range pending {
		if ev.connected {
			p.conn.connected(ev.index)
		} else {
			p.conn.disconnected(ev.index)
		}
	}
}

// Settings returns a copy of the current settings.
func (p *Plugin) Settings() Settings {
	return p.settings
}

// SetSettings updates keys already present in DefaultSettings and ignores
// the rest. An accepted DEADZONE overrides every pad's own dead zone.
func (p *Plugin) SetSettings(opts map[string]any) {
	if !p.settings.apply(opts, p.log) {
		return
	}
	for _, pad := range p.pads {
		pad.deadZone = p.settings.DeadZone
	}
}

// SetListeners replaces the plugin-level callbacks. They fire for every pad,
// before the pad's own callbacks.
func (p *Plugin) SetListeners(l Listeners) {
	p.listeners = l
}

// Capacity returns the number of logical pads.
func (p *Plugin) Capacity() int {
	return len(p.pads)
}

// Pad returns the pad at index i, starting at 0, or nil if out of range.
func (p *Plugin) Pad(i int) *Pad {
	if i < 0 || i >= len(p.pads) {
		return nil
	}
	return p.pads[i]
}

// ConnectedCount returns the number of pads bound to a device.
func (p *Plugin) ConnectedCount() int {
	n := 0
	for _, pad := range p.pads {
		if pad.connected {
			n++
		}
	}
	return n
}

// IsDown is true if the button is held on any connected pad.
func (p *Plugin) IsDown(code int) bool {
	for _, pad := range p.pads {
		if pad.connected && pad.IsDown(code) {
			return true
		}
	}
	return false
}

// JustPressed is true if any connected pad reports the button as just
// pressed within d.
func (p *Plugin) JustPressed(code int, d time.Duration) bool {
	for _, pad := range p.pads {
		if pad.connected && pad.JustPressed(code, d) {
			return true
		}
	}
	return false
}

// JustReleased is true if any connected pad reports the button as just
// released within d.
func (p *Plugin) JustReleased(code int, d time.Duration) bool {
	for _, pad := range p.pads {
		if pad.connected && pad.JustReleased(code, d) {
			return true
		}
	}
	return false
}

// Axis returns the value of the lowest-index connected pad whose axis is
// available. Values are not merged across pads.
func (p *Plugin) Axis(code int) (float64, bool) {
	for _, pad := range p.pads {
		if !pad.connected {
			continue
		}
		if v, ok := pad.Axis(code); ok {
			return v, true
		}
	}
	return 0, false
}
