package spriter

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertNearEps(t *testing.T, name string, got, want, eps float64) {
	t.Helper()
	if math.Abs(got-want) > eps {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertTransform(t *testing.T, name string, got, want Transform, eps float64) {
	t.Helper()
	if !got.Equal(want, eps) {
		t.Errorf("%s = %+v, want %+v", name, got, want)
	}
}

func assertMatrix(t *testing.T, name string, got, want [6]float64) {
	t.Helper()
	for i := range got {
		if math.Abs(got[i]-want[i]) > epsilon {
			t.Errorf("%s[%d] = %v, want %v (full: %v vs %v)", name, i, got[i], want[i], got, want)
		}
	}
}

func tf(x, y, deg, sx, sy float64) Transform {
	return Transform{Position: Vec2{x, y}, Rotation: Deg2Rad(deg), Scale: Vec2{sx, sy}}
}

// sampleTransforms covers translation, rotation, non-uniform scale, and
// reflection on either axis.
var sampleTransforms = []Transform{
	tf(0, 0, 0, 1, 1),
	tf(10, -20, 30, 1, 1),
	tf(3, 4, -135, 2, 0.5),
	tf(-7, 1.5, 170, -1, 1),
	tf(100, 50, 90, 1, -3),
	tf(0.25, 8, 45, -2, -2),
}

// --- Compose ---

func TestComposeIdentity(t *testing.T) {
	for _, tr := range sampleTransforms {
		assertTransform(t, "compose(T, identity)", Compose(tr, Identity()), tr, 1e-6)
		assertTransform(t, "compose(identity, T)", Compose(Identity(), tr), tr, 1e-6)
	}
}

func TestComposeTranslateRotate(t *testing.T) {
	parent := tf(10, 0, 90, 1, 1)
	child := Compose(parent, tf(5, 0, 0, 1, 1))
	// The child's local x axis points along the parent's +y.
	assertNear(t, "x", child.Position.X, 10)
	assertNear(t, "y", child.Position.Y, 5)
	assertNear(t, "rotation", child.Rotation, math.Pi/2)
}

func TestComposeParentScale(t *testing.T) {
	parent := tf(0, 0, 0, 2, 3)
	child := Compose(parent, tf(1, 1, 0, 0.5, 2))
	assertNear(t, "x", child.Position.X, 2)
	assertNear(t, "y", child.Position.Y, 3)
	assertNear(t, "scale x", child.Scale.X, 1)
	assertNear(t, "scale y", child.Scale.Y, 6)
}

func TestComposeReflectionSubtractsRotation(t *testing.T) {
	parent := tf(0, 0, 30, -1, 1)
	child := Compose(parent, tf(0, 0, 20, 1, 1))
	assertNear(t, "rotation", child.Rotation, Deg2Rad(10))

	// An even number of reflections adds.
	parent = tf(0, 0, 30, -1, -1)
	child = Compose(parent, tf(0, 0, 20, 1, 1))
	assertNear(t, "rotation", child.Rotation, Deg2Rad(50))
}

func TestComposeWrapsRotation(t *testing.T) {
	child := Compose(tf(0, 0, 170, 1, 1), tf(0, 0, 20, 1, 1))
	assertNear(t, "rotation", child.Rotation, Deg2Rad(-170))
}

// --- Extract ---

func TestExtractInvertsCompose(t *testing.T) {
	for _, parent := range sampleTransforms {
		for _, local := range sampleTransforms {
			got := Extract(Compose(parent, local), parent)
			assertTransform(t, "extract(compose(a, b), a)", got, local, 1e-6)
		}
	}
}

// --- Invert ---

func TestInvertTwice(t *testing.T) {
	// Double inversion is exact for uniform scale or zero rotation; a
	// rotated non-uniform scale carries skew a Transform cannot hold.
	cases := []Transform{
		tf(0, 0, 0, 1, 1),
		tf(10, -20, 30, 1, 1),
		tf(3, 4, -135, 2, 2),
		tf(-7, 1.5, 0, -1, 4),
		tf(100, 50, 90, 0.5, 0.5),
		tf(8, 9, 0, 2, 0.25),
	}
	for _, tr := range cases {
		assertTransform(t, "invert(invert(T))", Invert(Invert(tr)), tr, 1e-6)
	}
}

func TestInvertUndoesPoint(t *testing.T) {
	tr := tf(5, -3, 60, 2, 2)
	p := Vec2{7, 11}
	q := TransformPoint(Invert(tr), TransformPoint(tr, p))
	assertNearEps(t, "x", q.X, p.X, 1e-9)
	assertNearEps(t, "y", q.Y, p.Y, 1e-9)
}

// --- Points ---

func TestTransformPointRoundtrip(t *testing.T) {
	p := Vec2{3, -4}
	for _, tr := range sampleTransforms {
		q := UntransformPoint(tr, TransformPoint(tr, p))
		assertNearEps(t, "x", q.X, p.X, 1e-9)
		assertNearEps(t, "y", q.Y, p.Y, 1e-9)
	}
}

func TestTransformPointMatchesCompose(t *testing.T) {
	parent := tf(10, 20, 45, 2, 3)
	local := tf(4, -1, 0, 1, 1)
	p := TransformPoint(parent, local.Position)
	c := Compose(parent, local)
	assertNear(t, "x", p.X, c.Position.X)
	assertNear(t, "y", p.Y, c.Position.Y)
}

// --- Interpolate ---

func TestInterpolateLinear(t *testing.T) {
	a := tf(0, 0, 0, 1, 1)
	b := tf(10, 20, 90, 3, 5)
	got := Interpolate(a, b, 0.5, 1)
	assertTransform(t, "midpoint", got, tf(5, 10, 45, 2, 3), 1e-9)
}

func TestInterpolateSpinForwardThroughZero(t *testing.T) {
	a := tf(0, 0, 350, 1, 1)
	b := tf(0, 0, 10, 1, 1)
	got := Interpolate(a, b, 0.5, 1)
	assertNearEps(t, "wrapped rotation", WrapAngle(got.Rotation), 0, 1e-9)
}

func TestInterpolateSpinClockwise(t *testing.T) {
	a := tf(0, 0, 10, 1, 1)
	b := tf(0, 0, 90, 1, 1)
	got := Interpolate(a, b, 0.5, -1)
	// 10° → 90° clockwise sweeps through -90°, midpoint at -130°.
	assertNearEps(t, "wrapped rotation", WrapAngle(got.Rotation), Deg2Rad(-130), 1e-9)
}

func TestInterpolateNoSpin(t *testing.T) {
	a := tf(0, 0, 350, 1, 1)
	b := tf(0, 0, 10, 1, 1)
	got := Interpolate(a, b, 0.5, 0)
	assertNearEps(t, "rotation", got.Rotation, Deg2Rad(180), 1e-9)
}

// --- Helpers ---

func TestTranslateInOwnFrame(t *testing.T) {
	tr := tf(1, 1, 90, 2, 1).Translate(5, 0)
	assertNear(t, "x", tr.Position.X, 1)
	assertNear(t, "y", tr.Position.Y, 11)
}

func TestRotateWraps(t *testing.T) {
	tr := tf(3, 4, 170, 1, 1).Rotate(Deg2Rad(20))
	assertNear(t, "rotation", tr.Rotation, Deg2Rad(-170))
	assertNear(t, "x unchanged", tr.Position.X, 3)
}

func TestScaleBy(t *testing.T) {
	tr := tf(0, 0, 0, 2, 3).ScaleBy(-1, 0.5)
	assertNear(t, "scale x", tr.Scale.X, -2)
	assertNear(t, "scale y", tr.Scale.Y, 1.5)
}

func TestMatrix(t *testing.T) {
	assertMatrix(t, "identity", Identity().Matrix(), [6]float64{1, 0, 0, 1, 0, 0})
	assertMatrix(t, "scale+translate", tf(10, 20, 0, 2, 3).Matrix(), [6]float64{2, 0, 0, 3, 10, 20})

	m := tf(0, 0, 90, 1, 1).Matrix()
	// cos(90)=0, sin(90)=1 → a=0, b=1, c=-1, d=0
	assertMatrix(t, "rot90", m, [6]float64{0, 1, -1, 0, 0, 0})

	tr := tf(3, -2, 33, 1.5, 0.5)
	p := Vec2{4, 7}
	x, y := applyAffine(tr.Matrix(), p.X, p.Y)
	q := TransformPoint(tr, p)
	assertNear(t, "matrix x", x, q.X)
	assertNear(t, "matrix y", y, q.Y)
}

func BenchmarkCompose(b *testing.B) {
	parent := tf(10, 20, 30, 2, 2)
	local := tf(5, 5, 45, 1, 1)
	for i := 0; i < b.N; i++ {
		_ = Compose(parent, local)
	}
}
