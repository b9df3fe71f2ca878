//go:build glfw

package source

import (
	"fmt"
	"math"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/soar/padstate/internal/gamepad"
	"github.com/soar/padstate/internal/logger"
)

// glfwGamepadMapping reads GLFW's own gamepad layout. Its first eleven
// buttons match gamepadMapping, the d-pad follows as buttons, Y points down
// and triggers rest at -1.
var glfwGamepadMapping = &DeviceMapping{
	Name: "glfw",
	Axes: []AxisMapping{
		{Index: 0, Target: gamepad.AxisLeftX},
		{Index: 1, Target: gamepad.AxisLeftY},
		{Index: 2, Target: gamepad.AxisRightX},
		{Index: 3, Target: gamepad.AxisRightY},
		{Index: 4, Target: gamepad.ButtonLT, IsTrigger: true, RawMin: -32767, RawMax: 32767},
		{Index: 5, Target: gamepad.ButtonRT, IsTrigger: true, RawMin: -32767, RawMax: 32767},
	},
	Buttons: append(append([]ButtonMapping(nil), gamepadMapping.Buttons...),
		ButtonMapping{Index: 11, Target: gamepad.ButtonDpadUp},
		ButtonMapping{Index: 12, Target: gamepad.ButtonDpadRight},
		ButtonMapping{Index: 13, Target: gamepad.ButtonDpadDown},
		ButtonMapping{Index: 14, Target: gamepad.ButtonDpadLeft},
	),
}

// glfwSource reads joysticks through GLFW. The raw index is the GLFW
// joystick id.
type glfwSource struct {
	Notifier
	log    logger.Logger
	opened bool
}

func newGLFW(log logger.Logger) (Source, error) {
	return &glfwSource{log: log}, nil
}

func (s *glfwSource) Open() error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("%w: GLFW: %v", ErrInit, err)
	}
	glfw.SetJoystickCallback(func(joy glfw.Joystick, event glfw.PeripheralEvent) {
		switch event {
		case glfw.Connected:
			s.log.Info("joystick connected: %s (%d)", joy.GetName(), int(joy))
			s.NotifyConnected(int(joy))
		case glfw.Disconnected:
			s.log.Info("joystick disconnected (%d)", int(joy))
			s.NotifyDisconnected(int(joy))
		}
	})
	s.opened = true
	return nil
}

func (s *glfwSource) Close() error {
	if !s.opened {
		return nil
	}
	glfw.SetJoystickCallback(nil)
	glfw.Terminate()
	s.opened = false
	return nil
}

// Pump runs the GLFW event loop so joystick callbacks fire.
func (s *glfwSource) Pump() {
	if s.opened {
		glfw.PollEvents()
	}
}

// Snapshots implements gamepad.Source.
func (s *glfwSource) Snapshots() []gamepad.RawSnapshot {
	if !s.opened {
		return nil
	}

	out := []gamepad.RawSnapshot{}
	for jid := glfw.Joystick1; jid <= glfw.Joystick16; jid++ {
		if !jid.Present() {
			continue
		}

		var buttons, axes []float64
		if jid.IsGamepad() {
			buttons, axes = glfwGamepadMapping.Apply(glfwGamepadFrame(jid.GetGamepadState()))
		} else {
			buttons, axes = genericMapping.Apply(glfwJoystickFrame(jid))
		}

		out = append(out, gamepad.RawSnapshot{
			Index:   int(jid),
			Name:    jid.GetName(),
			Buttons: buttons,
			Axes:    axes,
		})
	}
	return out
}

func glfwGamepadFrame(st *glfw.GamepadState) Frame {
	var f Frame
	if st == nil {
		return f
	}
	for _, v := range st.Axes {
		f.Axes = append(f.Axes, floatToAxis(v))
	}
	for _, a := range st.Buttons {
		f.Buttons = append(f.Buttons, a == glfw.Press)
	}
	return f
}

func glfwJoystickFrame(jid glfw.Joystick) Frame {
	var f Frame
	for _, v := range jid.GetAxes() {
		f.Axes = append(f.Axes, floatToAxis(v))
	}
	for _, a := range jid.GetButtons() {
		f.Buttons = append(f.Buttons, a == glfw.Press)
	}
	if hats := jid.GetHats(); len(hats) > 0 {
		f.Hat = uint8(hats[0])
	}
	return f
}

func floatToAxis(v float32) int16 {
	return int16(math.Round(float64(max(-1, min(v, 1))) * math.MaxInt16))
}
