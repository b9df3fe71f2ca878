package source

import (
	"math"

	"github.com/soar/padstate/internal/gamepad"
)

// triggerDeadZone keeps resting triggers from reporting noise as analog
// presses.
const triggerDeadZone = 0.05

const (
	hatUp    uint8 = 0x01
	hatRight uint8 = 0x02
	hatDown  uint8 = 0x04
	hatLeft  uint8 = 0x08
)

// Frame is one read of a device in its own numbering.
type Frame struct {
	Axes    []int16
	Buttons []bool
	Hat     uint8
}

// AxisMapping defines how a raw axis index maps to the standard layout.
// Sticks target a standard axis, triggers target a standard button.
type AxisMapping struct {
	Index     int32
	Target    int
	IsTrigger bool
	Invert    bool
	// For triggers: raw range. Some devices use -32768..32767, others 0..32767.
	RawMin int16
	RawMax int16
}

// ButtonMapping defines how a raw button index maps to a standard button.
type ButtonMapping struct {
	Index  int32
	Target int
}

// DeviceMapping holds the complete mapping for a specific device type.
type DeviceMapping struct {
	Name    string
	Axes    []AxisMapping
	Buttons []ButtonMapping
	HasHat  bool

	// DpadAxes names the raw axes carrying the d-pad on devices that report
	// it as a pair of axes (x, y) instead of a hat.
	DpadAxes []int32
}

// Apply converts a frame into standard buttons and axes.
func (m *DeviceMapping) Apply(f Frame) (buttons, axes []float64) {
	buttons = make([]float64, gamepad.StandardButtons)
	axes = make([]float64, gamepad.StandardAxes)

	for _, am := range m.Axes {
		if int(am.Index) >= len(f.Axes) {
			continue
		}
		raw := f.Axes[am.Index]
		if am.IsTrigger {
			buttons[am.Target] = ApplyDeadzone(NormalizeTrigger(raw, am.RawMin, am.RawMax), triggerDeadZone)
			continue
		}
		v := NormalizeAxis(raw)
		if am.Invert {
			v = -v
		}
		axes[am.Target] = v
	}

	for _, bm := range m.Buttons {
		if int(bm.Index) < len(f.Buttons) && f.Buttons[bm.Index] {
			buttons[bm.Target] = 1
		}
	}

	hat := uint8(0)
	if m.HasHat {
		hat = f.Hat
	}
	if len(m.DpadAxes) == 2 {
		hat |= axesToHat(f.Axes, m.DpadAxes[0], m.DpadAxes[1])
	}
	if hat&hatUp != 0 {
		buttons[gamepad.ButtonDpadUp] = 1
	}
	if hat&hatDown != 0 {
		buttons[gamepad.ButtonDpadDown] = 1
	}
	if hat&hatLeft != 0 {
		buttons[gamepad.ButtonDpadLeft] = 1
	}
	if hat&hatRight != 0 {
		buttons[gamepad.ButtonDpadRight] = 1
	}

	return buttons, axes
}

func axesToHat(axes []int16, x, y int32) uint8 {
	var hat uint8
	if int(x) < len(axes) {
		switch {
		case axes[x] < 0:
			hat |= hatLeft
		case axes[x] > 0:
			hat |= hatRight
		}
	}
	if int(y) < len(axes) {
		switch {
		case axes[y] < 0:
			hat |= hatUp
		case axes[y] > 0:
			hat |= hatDown
		}
	}
	return hat
}

// NormalizeAxis converts a raw axis value (-32768..32767) to -1.0..1.0.
func NormalizeAxis(raw int16) float64 {
	v := float64(raw) / math.MaxInt16
	if v < -1.0 {
		v = -1.0
	}
	return v
}

// NormalizeTrigger converts a raw trigger value to 0.0..1.0.
func NormalizeTrigger(raw int16, rawMin, rawMax int16) float64 {
	if rawMax == rawMin {
		return 0
	}
	v := (float64(raw) - float64(rawMin)) / (float64(rawMax) - float64(rawMin))
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return v
}

// ApplyDeadzone returns 0 if the value is within the deadzone threshold.
func ApplyDeadzone(v float64, threshold float64) float64 {
	if math.Abs(v) < threshold {
		return 0
	}
	return v
}

// Built-in mappings for common controllers.

var xboxMapping = &DeviceMapping{
	Name: "xbox",
	Axes: []AxisMapping{
		{Index: 0, Target: gamepad.AxisLeftX},
		{Index: 1, Target: gamepad.AxisLeftY},
		{Index: 2, Target: gamepad.AxisRightX},
		{Index: 3, Target: gamepad.AxisRightY},
		{Index: 4, Target: gamepad.ButtonLT, IsTrigger: true, RawMin: -32768, RawMax: 32767},
		{Index: 5, Target: gamepad.ButtonRT, IsTrigger: true, RawMin: -32768, RawMax: 32767},
	},
	Buttons: []ButtonMapping{
		{Index: 0, Target: gamepad.ButtonA},
		{Index: 1, Target: gamepad.ButtonB},
		{Index: 2, Target: gamepad.ButtonX},
		{Index: 3, Target: gamepad.ButtonY},
		{Index: 4, Target: gamepad.ButtonLB},
		{Index: 5, Target: gamepad.ButtonRB},
		{Index: 6, Target: gamepad.ButtonSelect},
		{Index: 7, Target: gamepad.ButtonStart},
		{Index: 8, Target: gamepad.ButtonL3},
		{Index: 9, Target: gamepad.ButtonR3},
		{Index: 10, Target: gamepad.ButtonHome},
	},
	HasHat: true,
}

var playstationMapping = &DeviceMapping{
	Name: "playstation",
	Axes: []AxisMapping{
		{Index: 0, Target: gamepad.AxisLeftX},
		{Index: 1, Target: gamepad.AxisLeftY},
		{Index: 2, Target: gamepad.AxisRightX},
		{Index: 3, Target: gamepad.AxisRightY},
		{Index: 4, Target: gamepad.ButtonLT, IsTrigger: true, RawMin: -32768, RawMax: 32767},
		{Index: 5, Target: gamepad.ButtonRT, IsTrigger: true, RawMin: -32768, RawMax: 32767},
	},
	Buttons: []ButtonMapping{
		{Index: 0, Target: gamepad.ButtonA}, // Cross
		{Index: 1, Target: gamepad.ButtonB}, // Circle
		{Index: 2, Target: gamepad.ButtonX}, // Square
		{Index: 3, Target: gamepad.ButtonY}, // Triangle
		{Index: 4, Target: gamepad.ButtonSelect},
		{Index: 5, Target: gamepad.ButtonHome},
		{Index: 6, Target: gamepad.ButtonStart},
		{Index: 7, Target: gamepad.ButtonL3},
		{Index: 8, Target: gamepad.ButtonR3},
		{Index: 9, Target: gamepad.ButtonLB},
		{Index: 10, Target: gamepad.ButtonRB},
	},
	HasHat: true,
}

var switchProMapping = &DeviceMapping{
	Name: "switch_pro",
	Axes: []AxisMapping{
		{Index: 0, Target: gamepad.AxisLeftX},
		{Index: 1, Target: gamepad.AxisLeftY},
		{Index: 2, Target: gamepad.AxisRightX},
		{Index: 3, Target: gamepad.AxisRightY},
	},
	Buttons: []ButtonMapping{
		{Index: 0, Target: gamepad.ButtonA},
		{Index: 1, Target: gamepad.ButtonB},
		{Index: 2, Target: gamepad.ButtonX},
		{Index: 3, Target: gamepad.ButtonY},
		{Index: 4, Target: gamepad.ButtonLB},
		{Index: 5, Target: gamepad.ButtonRB},
		{Index: 6, Target: gamepad.ButtonSelect},
		{Index: 7, Target: gamepad.ButtonStart},
		{Index: 8, Target: gamepad.ButtonL3},
		{Index: 9, Target: gamepad.ButtonR3},
		{Index: 10, Target: gamepad.ButtonHome},
	},
	HasHat: true,
}

var genericMapping = &DeviceMapping{
	Name:    "generic",
	Axes:    xboxMapping.Axes,
	Buttons: xboxMapping.Buttons,
	HasHat:  true,
}

// joydevMapping follows the Linux xpad driver: triggers sit between the
// sticks and the d-pad is the last axis pair.
var joydevMapping = &DeviceMapping{
	Name: "joydev",
	Axes: []AxisMapping{
		{Index: 0, Target: gamepad.AxisLeftX},
		{Index: 1, Target: gamepad.AxisLeftY},
		{Index: 2, Target: gamepad.ButtonLT, IsTrigger: true, RawMin: -32767, RawMax: 32767},
		{Index: 3, Target: gamepad.AxisRightX},
		{Index: 4, Target: gamepad.AxisRightY},
		{Index: 5, Target: gamepad.ButtonRT, IsTrigger: true, RawMin: -32767, RawMax: 32767},
	},
	Buttons: []ButtonMapping{
		{Index: 0, Target: gamepad.ButtonA},
		{Index: 1, Target: gamepad.ButtonB},
		{Index: 2, Target: gamepad.ButtonX},
		{Index: 3, Target: gamepad.ButtonY},
		{Index: 4, Target: gamepad.ButtonLB},
		{Index: 5, Target: gamepad.ButtonRB},
		{Index: 6, Target: gamepad.ButtonSelect},
		{Index: 7, Target: gamepad.ButtonStart},
		{Index: 8, Target: gamepad.ButtonHome},
		{Index: 9, Target: gamepad.ButtonL3},
		{Index: 10, Target: gamepad.ButtonR3},
	},
	DpadAxes: []int32{6, 7},
}

// gamepadMapping covers sources that already report a gamepad layout:
// XInput frames and GLFW gamepad state are converted into this order.
// Y axes point up there, so they are inverted.
var gamepadMapping = &DeviceMapping{
	Name: "gamepad",
	Axes: []AxisMapping{
		{Index: 0, Target: gamepad.AxisLeftX},
		{Index: 1, Target: gamepad.AxisLeftY, Invert: true},
		{Index: 2, Target: gamepad.AxisRightX},
		{Index: 3, Target: gamepad.AxisRightY, Invert: true},
		{Index: 4, Target: gamepad.ButtonLT, IsTrigger: true, RawMin: 0, RawMax: 32767},
		{Index: 5, Target: gamepad.ButtonRT, IsTrigger: true, RawMin: 0, RawMax: 32767},
	},
	Buttons: []ButtonMapping{
		{Index: 0, Target: gamepad.ButtonA},
		{Index: 1, Target: gamepad.ButtonB},
		{Index: 2, Target: gamepad.ButtonX},
		{Index: 3, Target: gamepad.ButtonY},
		{Index: 4, Target: gamepad.ButtonLB},
		{Index: 5, Target: gamepad.ButtonRB},
		{Index: 6, Target: gamepad.ButtonSelect},
		{Index: 7, Target: gamepad.ButtonStart},
		{Index: 8, Target: gamepad.ButtonHome},
		{Index: 9, Target: gamepad.ButtonL3},
		{Index: 10, Target: gamepad.ButtonR3},
	},
	HasHat: true,
}

// Known vendor/product IDs.
type deviceKey struct {
	VendorID  uint16
	ProductID uint16
}

var knownDevices = map[deviceKey]*DeviceMapping{
	// Microsoft Xbox controllers
	{0x045E, 0x028E}: xboxMapping, // Xbox 360
	{0x045E, 0x02FF}: xboxMapping, // Xbox One
	{0x045E, 0x0B12}: xboxMapping, // Xbox Series X|S
	{0x045E, 0x0B13}: xboxMapping, // Xbox Series X|S (wireless)
	// Sony PlayStation controllers
	{0x054C, 0x0CE6}: playstationMapping, // DualSense
	{0x054C, 0x09CC}: playstationMapping, // DualShock 4 v2
	{0x054C, 0x05C4}: playstationMapping, // DualShock 4 v1
	// Nintendo Switch Pro Controller
	{0x057E, 0x2009}: switchProMapping,
}

// GetMapping returns the appropriate mapping for a device identified by vendor/product ID.
// Falls back to generic mapping if no specific mapping is found.
func GetMapping(vendorID, productID uint16) *DeviceMapping {
	key := deviceKey{VendorID: vendorID, ProductID: productID}
	if m, ok := knownDevices[key]; ok {
		return m
	}
	return genericMapping
}
