package spriter

import (
	"errors"
	"fmt"
)

// Vec2 is a 2D vector used for positions, scale factors, and normalized
// pivot fractions throughout the API.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Mul returns the component-wise product of v and o.
func (v Vec2) Mul(o Vec2) Vec2 { return Vec2{v.X * o.X, v.Y * o.Y} }

// Lerp linearly interpolates each component from v toward o by t.
func (v Vec2) Lerp(o Vec2, t float64) Vec2 {
	return Vec2{Lerp(v.X, o.X, t), Lerp(v.Y, o.Y, t)}
}

// Rect is an axis-aligned rectangle with its origin at the top-left.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// LoopMode is the authored looping behavior of an Animation.
type LoopMode uint8

const (
	LoopForward  LoopMode = iota // wrap back to the start ("true")
	LoopOnce                     // play once and hold the last frame ("false")
	LoopPingPong                 // bounce between start and end ("ping_pong")
)

// String returns the SCON spelling of the mode.
func (m LoopMode) String() string {
	switch m {
	case LoopForward:
		return "true"
	case LoopOnce:
		return "false"
	case LoopPingPong:
		return "ping_pong"
	default:
		return fmt.Sprintf("LoopMode(%d)", m)
	}
}

// CurveKind selects the easing applied between two timeline keyframes.
type CurveKind uint8

const (
	CurveInstant   CurveKind = iota // hold the start value until the next key
	CurveLinear                     // straight interpolation
	CurveQuadratic                  // degree-2 Bezier ease through C1
	CurveCubic                      // degree-3 Bezier ease through C1, C2
	CurveQuartic                    // degree-4 Bezier ease through C1..C3
	CurveQuintic                    // degree-5 Bezier ease through C1..C4
)

// String returns the SCON spelling of the curve kind.
func (k CurveKind) String() string {
	switch k {
	case CurveInstant:
		return "instant"
	case CurveLinear:
		return "linear"
	case CurveQuadratic:
		return "quadratic"
	case CurveCubic:
		return "cubic"
	case CurveQuartic:
		return "quartic"
	case CurveQuintic:
		return "quintic"
	default:
		return fmt.Sprintf("CurveKind(%d)", k)
	}
}

// TimelineKind distinguishes what a Timeline's keyframes animate.
type TimelineKind uint8

const (
	TimelineSprite      TimelineKind = iota // keyframes carry Element poses
	TimelineBone                            // keyframes carry Bone poses
	TimelineUnsupported                     // box, point, sound, entity, variable
)

// SlotKind tags which variant a mainline slot holds.
type SlotKind uint8

const (
	SlotLiteral SlotKind = iota + 1 // the slot carries its pose inline
	SlotRef                         // the slot dereferences a timeline keyframe
)

// PlaybackState is the playback state of an Entity.
type PlaybackState uint8

const (
	StateStopped PlaybackState = iota // no animation has been played yet
	StatePlaying                      // time advances on Update
	StateEnded                        // clamped at MaxTime after a stop-at-end run
)

// String returns the state name used by playback scripts.
func (s PlaybackState) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StatePlaying:
		return "playing"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Sentinel errors. Returned errors wrap one of these; test with errors.Is.
var (
	// ErrMalformedDocument reports document data that cannot be loaded.
	ErrMalformedDocument = errors.New("malformed document")
	// ErrUnresolvedReference reports a slot that names a missing timeline or keyframe.
	ErrUnresolvedReference = errors.New("unresolved reference")
	// ErrUnknownSlot reports a mainline slot with an unrecognized variant tag.
	ErrUnknownSlot = errors.New("unknown slot kind")
	// ErrUnknownAnimation reports a Play call for an animation the entity lacks.
	ErrUnknownAnimation = errors.New("unknown animation")
	// ErrUnknownEntity reports a lookup for an entity the document lacks.
	ErrUnknownEntity = errors.New("unknown entity")
	// ErrUnknownDocument reports a Library lookup for an unregistered key.
	ErrUnknownDocument = errors.New("unknown document")
)
