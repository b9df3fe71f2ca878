package source

// XInput button bits.
const (
	xinputDpadUp        uint16 = 0x0001
	xinputDpadDown      uint16 = 0x0002
	xinputDpadLeft      uint16 = 0x0004
	xinputDpadRight     uint16 = 0x0008
	xinputStart         uint16 = 0x0010
	xinputBack          uint16 = 0x0020
	xinputLeftThumb     uint16 = 0x0040
	xinputRightThumb    uint16 = 0x0080
	xinputLeftShoulder  uint16 = 0x0100
	xinputRightShoulder uint16 = 0x0200
	xinputGuide         uint16 = 0x0400
	xinputA             uint16 = 0x1000
	xinputB             uint16 = 0x2000
	xinputX             uint16 = 0x4000
	xinputY             uint16 = 0x8000
)

// xinputUsers is the number of controllers XInput can report.
const xinputUsers = 4

type XInputState struct {
	PacketNumber uint32
	Gamepad      XInputGamepad
}

type XInputGamepad struct {
	Buttons      uint16
	LeftTrigger  byte
	RightTrigger byte
	ThumbLX      int16
	ThumbLY      int16
	ThumbRX      int16
	ThumbRY      int16
}

// frame lays the pad out in gamepadMapping order.
func (g XInputGamepad) frame() Frame {
	bit := func(mask uint16) bool { return g.Buttons&mask != 0 }

	f := Frame{
		Axes: []int16{
			g.ThumbLX, g.ThumbLY, g.ThumbRX, g.ThumbRY,
			triggerToAxis(g.LeftTrigger), triggerToAxis(g.RightTrigger),
		},
		Buttons: []bool{
			bit(xinputA), bit(xinputB), bit(xinputX), bit(xinputY),
			bit(xinputLeftShoulder), bit(xinputRightShoulder),
			bit(xinputBack), bit(xinputStart), bit(xinputGuide),
			bit(xinputLeftThumb), bit(xinputRightThumb),
		},
	}
	if bit(xinputDpadUp) {
		f.Hat |= hatUp
	}
	if bit(xinputDpadDown) {
		f.Hat |= hatDown
	}
	if bit(xinputDpadLeft) {
		f.Hat |= hatLeft
	}
	if bit(xinputDpadRight) {
		f.Hat |= hatRight
	}
	return f
}

func triggerToAxis(v byte) int16 {
	return int16(int(v) * 32767 / 255)
}
