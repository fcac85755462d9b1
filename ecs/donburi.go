package ecs

import (
	"errors"

	"github.com/phanxgames/spriter"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"
)

// AnimationEvent is a playback event tagged with the Donburi entity whose
// animator produced it. Owner is donburi.Null for sinks created without one.
type AnimationEvent struct {
	Owner donburi.Entity
	spriter.PlaybackEvent
}

// AnimationEventType is the Donburi event type for spriter playback events.
var AnimationEventType = events.NewEventType[AnimationEvent]()

// AnimatorData is the component state of an animated entity.
type AnimatorData struct {
	Entity *spriter.Entity
	// Paused animators are skipped by UpdateAnimators.
	Paused bool
}

// Animator is the component type holding an AnimatorData.
var Animator = donburi.NewComponentType[AnimatorData]()

var animators = donburi.NewQuery(filter.Contains(Animator))

type donburiSink struct {
	world donburi.World
	owner donburi.Entity
}

// NewDonburiSink creates an EventSink that publishes to AnimationEventType.
// Events are queued until ProcessEvents runs.
func NewDonburiSink(world donburi.World, owner donburi.Entity) spriter.EventSink {
	return &donburiSink{world: world, owner: owner}
}

func (s *donburiSink) EmitEvent(event spriter.PlaybackEvent) {
	AnimationEventType.Publish(s.world, AnimationEvent{Owner: s.owner, PlaybackEvent: event})
}

// Attach stores e in entry's Animator component, adding the component if
// needed, and routes e's playback events into the world.
func Attach(world donburi.World, entry *donburi.Entry, e *spriter.Entity) {
	if !entry.HasComponent(Animator) {
		entry.AddComponent(Animator)
	}
	Animator.SetValue(entry, AnimatorData{Entity: e})
	e.SetEventSink(NewDonburiSink(world, entry.Entity()))
}

// UpdateAnimators advances every unpaused animator by dt milliseconds and
// samples its pose. Sampling errors are joined; a failing entity keeps its
// previous pose.
func UpdateAnimators(world donburi.World, dt float64) error {
	var errs []error
	animators.Each(world, func(entry *donburi.Entry) {
		a := Animator.Get(entry)
		if a.Entity == nil || a.Paused {
			return
		}
		if err := a.Entity.Advance(dt); err != nil {
			errs = append(errs, err)
		}
	})
	return errors.Join(errs...)
}
