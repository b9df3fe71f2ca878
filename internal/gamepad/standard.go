package gamepad

// Button and axis indices of the standard gamepad layout produced by the
// sources in this module.
const (
	ButtonA = iota
	ButtonB
	ButtonX
	ButtonY
	ButtonLB
	ButtonRB
	ButtonLT // analog
	ButtonRT // analog
	ButtonSelect
	ButtonStart
	ButtonL3
	ButtonR3
	ButtonDpadUp
	ButtonDpadDown
	ButtonDpadLeft
	ButtonDpadRight
	ButtonHome

	StandardButtons
)

const (
	AxisLeftX = iota
	AxisLeftY
	AxisRightX
	AxisRightY

	StandardAxes
)
