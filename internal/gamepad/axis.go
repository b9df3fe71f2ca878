package gamepad

import "math"

// axisSanityBound rejects values a healthy stick cannot produce.
const axisSanityBound = 1.1

// NormalizeStick applies a radial dead zone to one stick. Magnitudes at or
// below the dead zone map to 0, magnitudes approaching 1 map to values
// approaching 1, direction is preserved. A zero vector reports 0.
func NormalizeStick(x, y, deadZone float64) (float64, float64) {
	mag := math.Hypot(x, y)
	if mag == 0 || math.IsNaN(mag) {
		return 0, 0
	}

	n := (mag - deadZone) / (1 - deadZone)
	if n < 0 {
		n = 0
	}

	return x / mag * n, y / mag * n
}

// gateAxis reports 0 for NaN and for values above the sanity bound.
// Negative values pass through.
func gateAxis(v float64) float64 {
	if math.IsNaN(v) || v > axisSanityBound {
		return 0
	}
	return v
}

// normalizeAxes returns the reportable axis values for a raw axis list.
// Axes 0/1 and 2/3 are treated as sticks, anything else passes through.
func normalizeAxes(raw []float64, deadZone float64) []float64 {
	out := make([]float64, len(raw))
	copy(out, raw)

	for i := 0; i+1 < len(out) && i < 4; i += 2 {
		out[i], out[i+1] = NormalizeStick(out[i], out[i+1], deadZone)
	}

	for i := range out {
		out[i] = gateAxis(out[i])
	}
	return out
}
