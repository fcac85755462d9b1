package spriter

import (
	"fmt"
	"math"
)

// Entity is one playing instance of an EntityDef. It owns its playback state
// and pose buffers; the definition and its Document are shared read-only.
//
// An Entity is not safe for concurrent use. Distinct Entities may be advanced
// from different goroutines.
type Entity struct {
	// Name is copied from the definition and reported in events.
	Name string

	// Root places the whole entity for rendering bridges. It does not affect
	// sampled poses.
	Root Transform
	// Alpha multiplies every element's alpha when drawn.
	Alpha float64
	// Speed scales dt in Update. Negative values play backwards.
	Speed float64

	// OnLoop is called with the animation name each time playback wraps.
	OnLoop func(animation string)
	// OnEnd is called with the animation name when a stop-at-end run
	// reaches its end.
	OnEnd func(animation string)

	def   *EntityDef
	files FileResolver
	sink  EventSink
	diag  *diagnostics

	anim      *Animation
	time      float64
	elapsed   float64
	stopAtEnd bool
	reverse   bool
	state     PlaybackState
	dirty     bool

	pose    Pose
	scratch Pose
	samples int
}

// NewEntity creates a stopped Entity for def. def must belong to a Document
// (LoadDocument or Document.AddEntity), which resolves element files.
func NewEntity(def *EntityDef) *Entity {
	if def == nil {
		panic("spriter: cannot create entity from nil definition")
	}
	e := &Entity{
		Name:  def.Name,
		Root:  Identity(),
		Alpha: 1,
		Speed: 1,
		def:   def,
		dirty: true,
	}
	if def.doc != nil {
		e.files = def.doc
		e.diag = def.doc.diag
	}
	return e
}

// Definition returns the entity's shared definition.
func (e *Entity) Definition() *EntityDef { return e.def }

// SetEventSink sets an optional receiver for playback events.
func (e *Entity) SetEventSink(sink EventSink) {
	e.sink = sink
}

// Play selects the named animation and restarts it from MinTime. When
// stopAtEnd is true playback clamps at MaxTime and emits one end event;
// otherwise it loops.
func (e *Entity) Play(name string, stopAtEnd bool) error {
	a, ok := e.def.Animations[name]
	if !ok {
		return fmt.Errorf("spriter: entity %q animation %q: %w", e.Name, name, ErrUnknownAnimation)
	}
	e.anim = a
	e.stopAtEnd = stopAtEnd
	e.reverse = false
	e.time = float64(a.MinTime)
	e.elapsed = 0
	e.state = StatePlaying
	e.dirty = true
	return nil
}

// PlayAuthored plays the named animation with stop-at-end derived from its
// authored looping mode: LoopOnce stops, the other modes loop.
func (e *Entity) PlayAuthored(name string) error {
	a, ok := e.def.Animations[name]
	if !ok {
		return fmt.Errorf("spriter: entity %q animation %q: %w", e.Name, name, ErrUnknownAnimation)
	}
	return e.Play(name, a.Looping == LoopOnce)
}

// Animation returns the current animation, or nil before the first Play.
func (e *Entity) Animation() *Animation { return e.anim }

// Time returns the current animation-local time in milliseconds.
func (e *Entity) Time() float64 { return e.time }

// Elapsed returns the milliseconds accumulated by Update since the time
// last changed. It grows while playback is clamped at the end.
func (e *Entity) Elapsed() float64 { return e.elapsed }

// State returns the playback state.
func (e *Entity) State() PlaybackState { return e.state }

// Dirty reports whether the next Sample will recompute the pose.
func (e *Entity) Dirty() bool { return e.dirty }

// SampleCount returns how many times the sampler has run.
func (e *Entity) SampleCount() int { return e.samples }

// Pose returns the last successfully sampled pose. The returned pointer
// stays valid, but its contents change on the next successful Sample.
func (e *Entity) Pose() *Pose { return &e.pose }

// Update advances playback by dt milliseconds (scaled by Speed).
func (e *Entity) Update(dt float64) {
	a := e.anim
	if a == nil {
		return
	}
	e.elapsed += dt
	step := dt * e.Speed

	if a.Looping == LoopPingPong && !e.stopAtEnd {
		e.bounce(step)
		return
	}
	e.SetTime(e.time + step)
}

// SetTime moves playback to t milliseconds, applying the end-of-animation
// rules: with stop-at-end the time clamps to MaxTime and the first arrival
// emits an end event; otherwise the time wraps into [MinTime, MaxTime) and a
// loop event is emitted.
func (e *Entity) SetTime(t float64) {
	if a := e.anim; a != nil {
		lo, hi := float64(a.MinTime), float64(a.MaxTime)
		switch {
		case t >= hi && e.stopAtEnd:
			t = hi
			if e.state != StateEnded {
				e.state = StateEnded
				e.setTime(t)
				e.emit(EventEnd)
				return
			}
		case t < lo && e.stopAtEnd:
			t = lo
		case t >= hi || t < lo:
			t = WrapTime(t, lo, hi)
			e.setTime(t)
			e.emit(EventLoop)
			return
		}
	}
	e.setTime(t)
}

func (e *Entity) setTime(t float64) {
	if e.time != t {
		e.time = t
		e.elapsed = 0
		e.dirty = true
	}
}

// bounce advances a ping-pong animation. Position is tracked as a phase in
// [0, 2*span): the first half plays forward, the second half backward.
func (e *Entity) bounce(step float64) {
	a := e.anim
	lo, hi := float64(a.MinTime), float64(a.MaxTime)
	span := hi - lo
	if span <= 0 {
		e.setTime(lo)
		return
	}
	phase := e.time - lo
	if e.reverse {
		phase = 2*span - phase
	}
	next := phase + step
	crossed := math.Floor(next/span) != math.Floor(phase/span)

	q := math.Mod(next, 2*span)
	if q < 0 {
		q += 2 * span
	}
	if q < span {
		e.reverse = false
		e.setTime(lo + q)
	} else {
		e.reverse = true
		e.setTime(lo + 2*span - q)
	}
	if crossed {
		e.emit(EventLoop)
	}
}

func (e *Entity) emit(typ EventType) {
	name := e.anim.Name
	switch typ {
	case EventLoop:
		if e.OnLoop != nil {
			e.OnLoop(name)
		}
	case EventEnd:
		if e.OnEnd != nil {
			e.OnEnd(name)
		}
	}
	if e.sink != nil {
		e.sink.EmitEvent(PlaybackEvent{Type: typ, Entity: e.Name, Animation: name, Time: e.time})
	}
}

// Sample recomputes the pose if the time changed since the last successful
// sample; otherwise it does nothing. On error the previous pose is kept and
// the entity stays dirty, so a later Sample retries.
func (e *Entity) Sample() error {
	if !e.dirty || e.anim == nil {
		return nil
	}
	if err := SamplePose(e.anim, e.files, e.time, &e.scratch); err != nil {
		e.diag.warnf("entity %q: sample %q at %vms: %v", e.Name, e.anim.Name, e.time, err)
		return err
	}
	e.pose, e.scratch = e.scratch, e.pose
	e.dirty = false
	e.samples++
	return nil
}

// Advance is Update followed by Sample.
func (e *Entity) Advance(dt float64) error {
	e.Update(dt)
	return e.Sample()
}
