package spriter

// EvaluateCurve maps the query time t between boundary times t1 and t2 to a
// tween factor using the given curve kind and control values. c holds the
// authored controls in order (c1, c2, ...); missing controls read as zero.
//
// A degenerate span (t1 == t2) returns 0. The caller is responsible for
// wrapping t2 past the animation length when the next keyframe lies in the
// following loop.
func EvaluateCurve(kind CurveKind, c [4]float64, t1, t2, t float64) float64 {
	if t1 == t2 {
		return 0
	}
	if kind == CurveInstant {
		return 0
	}
	u := (t - t1) / (t2 - t1)
	switch kind {
	case CurveLinear:
		return u
	case CurveQuadratic:
		return bezier(u, 0, c[0], 1)
	case CurveCubic:
		return bezier(u, 0, c[0], c[1], 1)
	case CurveQuartic:
		return bezier(u, 0, c[0], c[1], c[2], 1)
	case CurveQuintic:
		return bezier(u, 0, c[0], c[1], c[2], c[3], 1)
	}
	return 0
}

// bezier evaluates a one-dimensional Bezier curve over the given control
// values by repeated linear interpolation (de Casteljau). For three points
// this is lerp(lerp(p0,p1,u), lerp(p1,p2,u), u); for four it nests two such
// quadratic evaluations.
func bezier(u float64, p ...float64) float64 {
	var buf [6]float64
	pts := buf[:copy(buf[:], p)]
	for n := len(pts) - 1; n > 0; n-- {
		for i := 0; i < n; i++ {
			pts[i] = Lerp(pts[i], pts[i+1], u)
		}
	}
	return pts[0]
}
