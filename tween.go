package spriter

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup eases up to 4 float64 fields of an Entity simultaneously:
// its placement (Root), opacity (Alpha) or playback rate (Speed). Create one
// via the constructors below and call Update(dt) each frame.
//
// There is no global tween manager; users call Update themselves.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float64
	Done   bool
}

// Update advances all tweens by dt seconds and writes values to the target
// fields. Done is set once every tween has finished.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
}

func (g *TweenGroup) add(field *float64, to float64, duration float32, fn ease.TweenFunc) {
	g.tweens[g.count] = gween.New(float32(*field), float32(to), duration, fn)
	g.fields[g.count] = field
	g.count++
}

// TweenPosition moves e.Root to (toX, toY).
func TweenPosition(e *Entity, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{}
	g.add(&e.Root.Position.X, toX, duration, fn)
	g.add(&e.Root.Position.Y, toY, duration, fn)
	return g
}

// TweenScale scales e.Root to (toSX, toSY).
func TweenScale(e *Entity, toSX, toSY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{}
	g.add(&e.Root.Scale.X, toSX, duration, fn)
	g.add(&e.Root.Scale.Y, toSY, duration, fn)
	return g
}

// TweenRotation rotates e.Root to the given angle in radians. The angle is
// eased numerically, without wrapping.
func TweenRotation(e *Entity, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{}
	g.add(&e.Root.Rotation, to, duration, fn)
	return g
}

// TweenAlpha fades e.Alpha to the target value.
func TweenAlpha(e *Entity, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{}
	g.add(&e.Alpha, to, duration, fn)
	return g
}

// TweenSpeed ramps e.Speed to the target playback rate, for slow-motion
// and speed-up effects.
func TweenSpeed(e *Entity, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{}
	g.add(&e.Speed, to, duration, fn)
	return g
}
