package source

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/soar/padstate/internal/gamepad"
)

func TestXInputFrame(t *testing.T) {
	g := XInputGamepad{
		Buttons:      xinputA | xinputStart | xinputDpadDown | xinputRightThumb,
		LeftTrigger:  255,
		RightTrigger: 0,
		ThumbLY:      32767,
	}
	buttons, axes := gamepadMapping.Apply(g.frame())

	assert.Equal(t, 1.0, buttons[gamepad.ButtonA])
	assert.Equal(t, 1.0, buttons[gamepad.ButtonStart])
	assert.Equal(t, 1.0, buttons[gamepad.ButtonDpadDown])
	assert.Equal(t, 1.0, buttons[gamepad.ButtonR3])
	assert.Equal(t, 0.0, buttons[gamepad.ButtonL3])
	assert.Equal(t, 1.0, buttons[gamepad.ButtonLT])
	assert.Equal(t, 0.0, buttons[gamepad.ButtonRT])
	assert.Equal(t, -1.0, axes[gamepad.AxisLeftY])
}

func TestTriggerToAxis(t *testing.T) {
	assert.Equal(t, int16(0), triggerToAxis(0))
	assert.Equal(t, int16(32767), triggerToAxis(255))
}
