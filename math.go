package spriter

import "math"

// Deg2Rad converts degrees to radians.
func Deg2Rad(deg float64) float64 {
	return deg * math.Pi / 180
}

// Rad2Deg converts radians to degrees.
func Rad2Deg(rad float64) float64 {
	return rad * 180 / math.Pi
}

// Lerp returns a + (b-a)*t.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// WrapAngle maps an angle in radians into (-π, π].
func WrapAngle(rad float64) float64 {
	r := math.Mod(rad+math.Pi, 2*math.Pi)
	if r <= 0 {
		r += 2 * math.Pi
	}
	return r - math.Pi
}

// TweenAngle interpolates from a toward b honoring the authored spin.
// A positive spin sweeps counter-clockwise (b is treated as b+2π when a > b),
// a negative spin sweeps clockwise (b-2π when a < b). The result is not
// wrapped.
func TweenAngle(a, b, t float64, spin int) float64 {
	switch {
	case spin > 0 && a > b:
		return a + (b+2*math.Pi-a)*t
	case spin < 0 && a < b:
		return a + (b-2*math.Pi-a)*t
	}
	return a + (b-a)*t
}

// WrapTime folds t into [lo, hi) for any overshoot in either direction.
// A degenerate range returns lo; an inverted range returns t unchanged.
func WrapTime(t, lo, hi float64) float64 {
	switch {
	case lo < hi:
		span := hi - lo
		r := math.Mod(t-lo, span)
		if r < 0 {
			r += span
		}
		return lo + r
	case lo == hi:
		return lo
	default:
		return t
	}
}
