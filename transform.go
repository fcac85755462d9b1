package spriter

import "math"

// Transform is a 2D pose: position, rotation (radians), and non-uniform scale.
// Scale components may be negative (reflection) or zero (degenerate).
//
// Unlike a general affine matrix, a Transform never carries skew: composing
// two Transforms multiplies scales component-wise and adds (or, under an odd
// reflection, subtracts) rotations.
type Transform struct {
	Position Vec2
	Rotation float64
	Scale    Vec2
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{Scale: Vec2{1, 1}}
}

// reflected reports whether t flips orientation (odd number of negative scales).
func (t Transform) reflected() bool {
	return t.Scale.X*t.Scale.Y < 0
}

// rotate rotates (x, y) by rad.
func rotate(rad, x, y float64) (float64, float64) {
	sin, cos := math.Sincos(rad)
	return cos*x - sin*y, sin*x + cos*y
}

// Compose returns the world transform of a child with local transform local
// attached to parent.
//
//	scale    = parent.Scale * local.Scale
//	position = parent.Position + Rotate(parent.Rotation, parent.Scale * local.Position)
//	rotation = parent.Rotation ± local.Rotation  (minus under reflection)
func Compose(parent, local Transform) Transform {
	x, y := rotate(parent.Rotation,
		local.Position.X*parent.Scale.X,
		local.Position.Y*parent.Scale.Y)

	var rot float64
	if parent.reflected() {
		rot = WrapAngle(parent.Rotation - local.Rotation)
	} else {
		rot = WrapAngle(parent.Rotation + local.Rotation)
	}
	return Transform{
		Position: Vec2{x + parent.Position.X, y + parent.Position.Y},
		Rotation: rot,
		Scale:    local.Scale.Mul(parent.Scale),
	}
}

// Extract recovers the local transform that, composed with parent, yields
// combined. It is the inverse of Compose for any non-degenerate parent.
func Extract(combined, parent Transform) Transform {
	var rot float64
	if parent.reflected() {
		rot = WrapAngle(parent.Rotation - combined.Rotation)
	} else {
		rot = WrapAngle(combined.Rotation - parent.Rotation)
	}
	x, y := rotate(-parent.Rotation,
		combined.Position.X-parent.Position.X,
		combined.Position.Y-parent.Position.Y)
	return Transform{
		Position: Vec2{x / parent.Scale.X, y / parent.Scale.Y},
		Rotation: rot,
		Scale:    Vec2{combined.Scale.X / parent.Scale.X, combined.Scale.Y / parent.Scale.Y},
	}
}

// Invert returns the inverse transform: reciprocal scale, negated rotation,
// and position Rotate(-rotation, -position) scaled by the reciprocal scale.
func Invert(t Transform) Transform {
	invX := 1 / t.Scale.X
	invY := 1 / t.Scale.Y
	x, y := rotate(-t.Rotation, -t.Position.X, -t.Position.Y)
	return Transform{
		Position: Vec2{x * invX, y * invY},
		Rotation: -t.Rotation,
		Scale:    Vec2{invX, invY},
	}
}

// TransformPoint maps a point from t's local space into its parent space:
// scale, then rotate, then translate.
func TransformPoint(t Transform, p Vec2) Vec2 {
	x, y := rotate(t.Rotation, p.X*t.Scale.X, p.Y*t.Scale.Y)
	return Vec2{x + t.Position.X, y + t.Position.Y}
}

// UntransformPoint is the inverse of TransformPoint.
func UntransformPoint(t Transform, p Vec2) Vec2 {
	x, y := rotate(-t.Rotation, p.X-t.Position.X, p.Y-t.Position.Y)
	return Vec2{x / t.Scale.X, y / t.Scale.Y}
}

// Interpolate blends a toward b by tw. Position and scale are linear per
// component; rotation follows TweenAngle with the given spin. The rotation is
// left unwrapped.
func Interpolate(a, b Transform, tw float64, spin int) Transform {
	return Transform{
		Position: a.Position.Lerp(b.Position, tw),
		Rotation: TweenAngle(a.Rotation, b.Rotation, tw, spin),
		Scale:    a.Scale.Lerp(b.Scale, tw),
	}
}

// Translate moves t by (x, y) expressed in t's own rotated and scaled frame.
func (t Transform) Translate(x, y float64) Transform {
	dx, dy := rotate(t.Rotation, x*t.Scale.X, y*t.Scale.Y)
	t.Position.X += dx
	t.Position.Y += dy
	return t
}

// Rotate adds rad to t's rotation, keeping it wrapped.
func (t Transform) Rotate(rad float64) Transform {
	t.Rotation = WrapAngle(t.Rotation + rad)
	return t
}

// ScaleBy multiplies t's scale component-wise.
func (t Transform) ScaleBy(x, y float64) Transform {
	t.Scale.X *= x
	t.Scale.Y *= y
	return t
}

// Equal reports whether every component of t and o differs by at most eps.
func (t Transform) Equal(o Transform, eps float64) bool {
	return math.Abs(t.Position.X-o.Position.X) <= eps &&
		math.Abs(t.Position.Y-o.Position.Y) <= eps &&
		math.Abs(t.Rotation-o.Rotation) <= eps &&
		math.Abs(t.Scale.X-o.Scale.X) <= eps &&
		math.Abs(t.Scale.Y-o.Scale.Y) <= eps
}

// Matrix returns t as an affine matrix [a, b, c, d, tx, ty]:
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
//
// Composition order is Scale -> Rotate -> Translate, matching TransformPoint.
func (t Transform) Matrix() [6]float64 {
	sin, cos := math.Sincos(t.Rotation)
	return [6]float64{
		cos * t.Scale.X,
		sin * t.Scale.X,
		-sin * t.Scale.Y,
		cos * t.Scale.Y,
		t.Position.X,
		t.Position.Y,
	}
}

// applyAffine applies an affine matrix to a point.
func applyAffine(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}
