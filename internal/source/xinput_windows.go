package source

import (
	"fmt"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/soar/padstate/internal/gamepad"
	"github.com/soar/padstate/internal/logger"
)

var (
	xinput             = windows.NewLazySystemDLL("xinput1_4.dll")
	procXInputGetState = xinput.NewProc("XInputGetState")
)

// xinputSource polls XInput user indices 0..3. XInput has no hotplug
// notification; arrivals show up as a changed snapshot set.
type xinputSource struct {
	log       logger.Logger
	opened    bool
	connected [xinputUsers]bool
}

func newXInput(log logger.Logger) (Source, error) {
	return &xinputSource{log: log}, nil
}

func (s *xinputSource) Open() error {
	if err := procXInputGetState.Find(); err != nil {
		return fmt.Errorf("%w: %v", ErrInit, err)
	}
	s.opened = true
	return nil
}

func (s *xinputSource) Close() error {
	s.opened = false
	return nil
}

// XInputGetState calls the Windows API directly.
func XInputGetState(index uint32) (*XInputState, error) {
	var state XInputState
	r, _, _ := procXInputGetState.Call(uintptr(index), uintptr(unsafe.Pointer(&state)))
	if r != 0 {
		return nil, syscall.Errno(r)
	}
	return &state, nil
}

// Snapshots implements gamepad.Source.
func (s *xinputSource) Snapshots() []gamepad.RawSnapshot {
	if !s.opened {
		return nil
	}

	out := []gamepad.RawSnapshot{}
	for i := range uint32(xinputUsers) {
		state, err := XInputGetState(i)
		if err != nil {
			if s.connected[i] {
				s.log.Info("xinput user %d disconnected", i)
				s.connected[i] = false
			}
			continue
		}
		if !s.connected[i] {
			s.log.Info("xinput user %d connected", i)
			s.connected[i] = true
		}

		buttons, axes := gamepadMapping.Apply(state.Gamepad.frame())
		out = append(out, gamepad.RawSnapshot{
			Index:   int(i),
			Name:    fmt.Sprintf("XInput Controller #%d", i+1),
			Buttons: buttons,
			Axes:    axes,
		})
	}
	return out
}
