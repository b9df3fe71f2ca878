package gamepad

import "time"

const (
	// MaxButtons and MaxAxes size the per-pad tables. Higher indices reported
	// by a device are ignored.
	MaxButtons = 32
	MaxAxes    = 16

	// DefaultWindow is used by JustPressed and JustReleased when called with
	// a non-positive duration.
	DefaultWindow = 250 * time.Millisecond
)

// Pad is one logical controller slot. Its index never changes; the device
// bound to it comes and goes.
type Pad struct {
	index     int
	clock     Clock
	connected bool
	deadZone  float64

	rawIndex int // -1 when unbound
	raw      RawSnapshot

	// last seen raw button values, used to detect transitions
	rawButtons [MaxButtons]float64

	buttons [MaxButtons]*ButtonState
	axes    [MaxAxes]float64
	axisSet [MaxAxes]bool

	hotkeys   map[int]Hotkey
	listeners Listeners

	// listeners registered on the owning plugin, fired before our own
	parent *Listeners
}

func newPad(index int, clock Clock, deadZone float64, parent *Listeners) *Pad {
	return &Pad{
		index:    index,
		clock:    clock,
		deadZone: deadZone,
		rawIndex: -1,
		hotkeys:  make(map[int]Hotkey),
		parent:   parent,
	}
}

// Index returns the pad's fixed position in the pool, starting at 0.
func (p *Pad) Index() int {
	return p.index
}

func (p *Pad) Connected() bool {
	return p.connected
}

// RawIndex returns the device index currently bound to the pad.
func (p *Pad) RawIndex() (int, bool) {
	return p.rawIndex, p.rawIndex >= 0
}

// Name returns the device name reported by the source, if any.
func (p *Pad) Name() string {
	return p.raw.Name
}

func (p *Pad) DeadZone() float64 {
	return p.deadZone
}

// SetDeadZone changes the radial dead zone used for both sticks.
func (p *Pad) SetDeadZone(dz float64) error {
	if err := validateDeadZone(dz); err != nil {
		return err
	}
	p.deadZone = dz
	return nil
}

// SetListeners replaces the pad's own callbacks.
func (p *Pad) SetListeners(l Listeners) {
	p.listeners = l
}

// BindHotkey attaches h to a button code, replacing any previous binding.
func (p *Pad) BindHotkey(code int, h Hotkey) {
	if h == nil {
		delete(p.hotkeys, code)
		return
	}
	p.hotkeys[code] = h
}

func (p *Pad) UnbindHotkey(code int) {
	delete(p.hotkeys, code)
}

func (p *Pad) connect(raw RawSnapshot) {
	p.connected = true
	p.rawIndex = raw.Index
	p.raw = raw
}

// disconnect unbinds the device and forgets its raw values. Button and axis
// history is only dropped when clearHistory is set.
func (p *Pad) disconnect(clearHistory bool) {
	p.connected = false
	p.rawIndex = -1
	p.raw = RawSnapshot{}
	p.rawButtons = [MaxButtons]float64{}

	if clearHistory {
		p.buttons = [MaxButtons]*ButtonState{}
		p.axes = [MaxAxes]float64{}
		p.axisSet = [MaxAxes]bool{}
	}
}

// Poll diffs the bound snapshot against the previous one and fires
// transitions. It does nothing for an unconnected pad.
func (p *Pad) Poll(now time.Time) {
	if !p.connected {
		return
	}

	for i, v := range p.raw.Buttons {
		if i >= MaxButtons {
			break
		}
		if p.rawButtons[i] == v {
			continue
		}

		switch {
		case v == 1:
			p.buttonDown(i, v, now)
		case v == 0:
			p.buttonUp(i, v, now)
		default:
			p.buttonFloat(i, v, now)
		}

		p.rawButtons[i] = v
	}

	for _, b := range p.buttons {
		if b != nil && b.IsDown {
			b.Duration = now.Sub(b.TimeDown)
		}
	}

	for i, v := range normalizeAxes(p.raw.Axes, p.deadZone) {
		if i >= MaxAxes {
			break
		}
		p.axisChange(i, v, now)
	}
}

func (p *Pad) buttonDown(code int, value float64, now time.Time) {
	fireButton(ButtonEvent{Pad: p.index, Code: code, Value: value, Time: now}, p.parent.OnDown, p.listeners.OnDown)

	b := p.buttons[code]
	switch {
	case b != nil && b.IsDown:
		// still down, only the hold time moves
		b.Duration = now.Sub(b.TimeDown)
	case b == nil:
		p.buttons[code] = &ButtonState{IsDown: true, TimeDown: now, Value: value}
	default:
		b.IsDown = true
		b.TimeDown = now
		b.Duration = 0
		b.Value = value
	}

	if h, ok := p.hotkeys[code]; ok {
		h.ButtonDown(value)
	}
}

func (p *Pad) buttonUp(code int, value float64, now time.Time) {
	fireButton(ButtonEvent{Pad: p.index, Code: code, Value: value, Time: now}, p.parent.OnUp, p.listeners.OnUp)

	if h, ok := p.hotkeys[code]; ok {
		h.ButtonUp(value)
	}

	if b := p.buttons[code]; b != nil {
		b.IsDown = false
		b.TimeUp = now
		b.Value = value
	} else {
		p.buttons[code] = &ButtonState{TimeDown: now, TimeUp: now, Value: value}
	}
}

func (p *Pad) buttonFloat(code int, value float64, now time.Time) {
	fireButton(ButtonEvent{Pad: p.index, Code: code, Value: value, Time: now}, p.parent.OnFloat, p.listeners.OnFloat)

	if b := p.buttons[code]; b != nil {
		b.Value = value
	} else {
		p.buttons[code] = &ButtonState{Value: value}
	}

	if h, ok := p.hotkeys[code]; ok {
		h.ButtonFloat(value)
	}
}

func (p *Pad) axisChange(axis int, value float64, now time.Time) {
	if p.axisSet[axis] && p.axes[axis] == value {
		return
	}
	p.axes[axis] = value
	p.axisSet[axis] = true

	fireAxis(AxisEvent{Pad: p.index, Axis: axis, Value: value, Time: now}, p.parent.OnAxis, p.listeners.OnAxis)
}

func (p *Pad) button(code int) *ButtonState {
	if code < 0 || code >= MaxButtons {
		return nil
	}
	return p.buttons[code]
}

// Button returns a copy of the stored state of a button.
func (p *Pad) Button(code int) (ButtonState, bool) {
	if b := p.button(code); b != nil {
		return *b, true
	}
	return ButtonState{}, false
}

// IsDown is true if the button has been seen and is currently held.
func (p *Pad) IsDown(code int) bool {
	b := p.button(code)
	return b != nil && b.IsDown
}

// JustPressed is true if the button is held and went down no longer than d
// ago. A non-positive d means DefaultWindow.
func (p *Pad) JustPressed(code int, d time.Duration) bool {
	if d <= 0 {
		d = DefaultWindow
	}
	b := p.button(code)
	return b != nil && b.IsDown && p.clock.Now().Sub(b.TimeDown) <= d
}

// JustReleased is true if the button is up and was released no longer than
// d ago. A non-positive d means DefaultWindow.
func (p *Pad) JustReleased(code int, d time.Duration) bool {
	if d <= 0 {
		d = DefaultWindow
	}
	b := p.button(code)
	return b != nil && !b.IsDown && !b.TimeUp.IsZero() && p.clock.Now().Sub(b.TimeUp) <= d
}

// Axis returns the last normalized value of an axis. The second result is
// false if the axis has never reported or holds a value above 1.
func (p *Pad) Axis(code int) (float64, bool) {
	if code < 0 || code >= MaxAxes || !p.axisSet[code] {
		return 0, false
	}
	v := p.axes[code]
	if v > 1 {
		return 0, false
	}
	return v, true
}
