// Package sdlsource reads controllers through SDL3. Importing it registers
// the "sdl" kind with the source package.
package sdlsource

import (
	"fmt"

	"github.com/jupiterrider/purego-sdl3/sdl"

	"github.com/soar/padstate/internal/gamepad"
	"github.com/soar/padstate/internal/logger"
	"github.com/soar/padstate/internal/source"
)

func init() {
	source.Register(source.KindSDL, func(log logger.Logger) (source.Source, error) {
		return newSDL(log), nil
	})
}

type sdlJoystick struct {
	joystick *sdl.Joystick
	mapping  *source.DeviceMapping
	name     string
	id       sdl.JoystickID
}

// sdlSource reads joysticks through SDL3. SDL instance ids grow with every
// hotplug, so each opened joystick is given the lowest free raw slot.
type sdlSource struct {
	source.Notifier
	log    logger.Logger
	opened bool
	slots  source.Slots[sdl.JoystickID]
	byslot [source.MaxSlots]*sdlJoystick
}

func newSDL(log logger.Logger) *sdlSource {
	return &sdlSource{log: log}
}

func (s *sdlSource) Open() error {
	if !sdl.Init(sdl.InitJoystick) {
		return fmt.Errorf("%w: SDL: %s", source.ErrInit, sdl.GetError())
	}
	s.opened = true
	s.log.Info("SDL3 Joystick subsystem initialized")

	// Check for already-connected joysticks
	for _, id := range sdl.GetJoysticks() {
		s.openJoystick(id)
	}
	return nil
}

func (s *sdlSource) Close() error {
	if !s.opened {
		return nil
	}
	for slot, info := range s.byslot {
		if info != nil {
			sdl.CloseJoystick(info.joystick)
			s.byslot[slot] = nil
			s.slots.Release(info.id)
		}
	}
	sdl.Quit()
	s.opened = false
	return nil
}

// Pump drains the SDL event queue and forwards joystick hotplug.
func (s *sdlSource) Pump() {
	if !s.opened {
		return
	}
	var event sdl.Event
	for sdl.PollEvent(&event) {
		switch event.Type() {
		case sdl.EventJoystickAdded:
			if slot, ok := s.openJoystick(event.JDevice().Which); ok {
				s.NotifyConnected(slot)
			}
		case sdl.EventJoystickRemoved:
			if slot, ok := s.removeJoystick(event.JDevice().Which); ok {
				s.NotifyDisconnected(slot)
			}
		}
	}
}

func (s *sdlSource) openJoystick(instanceID sdl.JoystickID) (int, bool) {
	if _, exists := s.slots.Find(instanceID); exists {
		return -1, false
	}

	js := sdl.OpenJoystick(instanceID)
	if js == nil {
		s.log.Warn("failed to open joystick %d: %s", instanceID, sdl.GetError())
		return -1, false
	}

	jsID := sdl.GetJoystickID(js)
	slot, ok := s.slots.Take(jsID)
	if !ok {
		s.log.Warn("no free slot for joystick %d", jsID)
		sdl.CloseJoystick(js)
		return -1, false
	}

	vendorID := sdl.GetJoystickVendor(js)
	productID := sdl.GetJoystickProduct(js)
	info := &sdlJoystick{
		joystick: js,
		mapping:  source.GetMapping(vendorID, productID),
		name:     sdl.GetJoystickName(js),
		id:       jsID,
	}
	s.byslot[slot] = info

	s.log.Info("joystick connected: %s (VID=%04X PID=%04X) mapping=%s axes=%d buttons=%d hats=%d slot=%d",
		info.name, vendorID, productID, info.mapping.Name,
		sdl.GetNumJoystickAxes(js), sdl.GetNumJoystickButtons(js), sdl.GetNumJoystickHats(js), slot)

	return slot, true
}

func (s *sdlSource) removeJoystick(instanceID sdl.JoystickID) (int, bool) {
	slot, ok := s.slots.Release(instanceID)
	if !ok {
		return -1, false
	}
	info := s.byslot[slot]
	s.byslot[slot] = nil

	s.log.Info("joystick disconnected: %s (slot %d)", info.name, slot)
	sdl.CloseJoystick(info.joystick)
	return slot, true
}

// Snapshots implements gamepad.Source.
func (s *sdlSource) Snapshots() []gamepad.RawSnapshot {
	if !s.opened {
		return nil
	}

	out := []gamepad.RawSnapshot{}
	for slot, info := range s.byslot {
		if info == nil || !sdl.JoystickConnected(info.joystick) {
			continue
		}
		buttons, axes := info.mapping.Apply(readFrame(info.joystick))
		out = append(out, gamepad.RawSnapshot{
			Index:   slot,
			Name:    info.name,
			Buttons: buttons,
			Axes:    axes,
		})
	}
	return out
}

func readFrame(js *sdl.Joystick) source.Frame {
	var f source.Frame

	f.Axes = make([]int16, max(sdl.GetNumJoystickAxes(js), 0))
	for i := range f.Axes {
		f.Axes[i] = sdl.GetJoystickAxis(js, int32(i))
	}

	f.Buttons = make([]bool, max(sdl.GetNumJoystickButtons(js), 0))
	for i := range f.Buttons {
		f.Buttons[i] = sdl.GetJoystickButton(js, int32(i))
	}

	if sdl.GetNumJoystickHats(js) > 0 {
		f.Hat = sdl.GetJoystickHat(js, 0)
	}
	return f
}
