package gamepad

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeStickDeadZoneBoundary(t *testing.T) {
	x, y := NormalizeStick(0.2, 0, 0.2)
	assert.Equal(t, 0.0, x)
	assert.Equal(t, 0.0, y)

	x, y = NormalizeStick(0.12, 0.16, 0.2)
	assert.False(t, math.IsNaN(x))
	assert.InDelta(t, 0, math.Hypot(x, y), 1e-12)
}

func TestNormalizeStickInsideDeadZoneIsZero(t *testing.T) {
	x, y := NormalizeStick(0.05, -0.1, 0.2)
	assert.Equal(t, 0.0, math.Hypot(x, y))
}

func TestNormalizeStickZeroMagnitude(t *testing.T) {
	x, y := NormalizeStick(0, 0, 0.26)
	assert.Equal(t, 0.0, x)
	assert.Equal(t, 0.0, y)
}

func TestNormalizeStickKeepsDirection(t *testing.T) {
	x, y := NormalizeStick(0.6, 0.8, 0.2)
	assert.InDelta(t, 1.0, math.Hypot(x, y), 1e-9)
	assert.InDelta(t, 0.6, x, 1e-9)
	assert.InDelta(t, 0.8, y, 1e-9)

	x, y = NormalizeStick(-0.6, 0, 0.2)
	assert.InDelta(t, -0.5, x, 1e-9)
	assert.Equal(t, 0.0, y)
}

func TestNormalizeAxes(t *testing.T) {
	out := normalizeAxes([]float64{1, 0, 0.1, 0, 0.7, 3}, 0.2)
	assert.Len(t, out, 6)
	assert.InDelta(t, 1.0, out[0], 1e-9)
	assert.Equal(t, 0.0, out[2])
	// non-stick axes pass through, gated at the sanity bound
	assert.Equal(t, 0.7, out[4])
	assert.Equal(t, 0.0, out[5])
}

func TestGateAxis(t *testing.T) {
	assert.Equal(t, 1.05, gateAxis(1.05))
	assert.Equal(t, 0.0, gateAxis(1.2))
	assert.Equal(t, -1.2, gateAxis(-1.2))
	assert.Equal(t, 0.0, gateAxis(math.NaN()))
}

func TestNormalizeAxesPassesNegativeExtraAxes(t *testing.T) {
	out := normalizeAxes([]float64{0, 0, 0, 0, -1.5, 1.5}, 0.2)
	assert.Equal(t, -1.5, out[4])
	assert.Equal(t, 0.0, out[5])
}
