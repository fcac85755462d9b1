package spriter

import (
	"math"
	"testing"
)

func TestWrapAngleRange(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{math.Pi, math.Pi},
		{-math.Pi, math.Pi},
		{2 * math.Pi, 0},
		{Deg2Rad(190), Deg2Rad(-170)},
		{Deg2Rad(-190), Deg2Rad(170)},
		{Deg2Rad(720 + 45), Deg2Rad(45)},
	}
	for _, tt := range tests {
		got := WrapAngle(tt.in)
		assertNearEps(t, "WrapAngle", got, tt.want, 1e-9)
		if got <= -math.Pi || got > math.Pi {
			t.Errorf("WrapAngle(%v) = %v, outside (-π, π]", tt.in, got)
		}
	}
}

func TestWrapAngleIdempotent(t *testing.T) {
	for deg := -1080.0; deg <= 1080; deg += 37.5 {
		once := WrapAngle(Deg2Rad(deg))
		if twice := WrapAngle(once); math.Abs(twice-once) > 1e-12 {
			t.Errorf("WrapAngle(WrapAngle(%v°)) = %v, want %v", deg, twice, once)
		}
	}
}

func TestDegRadRoundtrip(t *testing.T) {
	assertNear(t, "90°", Deg2Rad(90), math.Pi/2)
	assertNear(t, "π", Rad2Deg(math.Pi), 180)
	assertNear(t, "roundtrip", Rad2Deg(Deg2Rad(33.3)), 33.3)
}

func TestTweenAngle(t *testing.T) {
	// Counter-clockwise from 350° to 10° passes through 360°.
	assertNear(t, "ccw", TweenAngle(Deg2Rad(350), Deg2Rad(10), 0.5, 1), 2*math.Pi)
	// Clockwise from 10° to 350° passes through 0°.
	assertNear(t, "cw", TweenAngle(Deg2Rad(10), Deg2Rad(350), 0.5, -1), 0)
	// Spin 0 takes the direct numeric path.
	assertNear(t, "none", TweenAngle(Deg2Rad(10), Deg2Rad(350), 0.5, 0), Deg2Rad(180))
	// Spin that already agrees with the direction needs no adjustment.
	assertNear(t, "ccw no wrap", TweenAngle(0, math.Pi/2, 0.5, 1), math.Pi/4)
}

func TestWrapTime(t *testing.T) {
	tests := []struct {
		t, lo, hi, want float64
	}{
		{500, 0, 1000, 500},
		{1500, 0, 1000, 500},
		{1000, 0, 1000, 0},
		{-250, 0, 1000, 750},
		{3250, 0, 1000, 250},
		{7, 5, 5, 5},
		{7, 10, 5, 7},
		{150, 100, 200, 150},
		{250, 100, 200, 150},
	}
	for _, tt := range tests {
		if got := WrapTime(tt.t, tt.lo, tt.hi); got != tt.want {
			t.Errorf("WrapTime(%v, %v, %v) = %v, want %v", tt.t, tt.lo, tt.hi, got, tt.want)
		}
	}
}
