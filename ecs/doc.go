// Package ecs provides ECS adapters for spriter playback.
//
// [NewDonburiSink] bridges playback events (loop, end) into a [Donburi]
// world as typed events. Subscribe to [AnimationEventType] in your ECS
// systems to receive them. The [Animator] component carries a playing
// entity, and [UpdateAnimators] advances every one of them each tick.
//
// Usage:
//
//	entry := world.Entry(world.Create(ecs.Animator))
//	ecs.Attach(world, entry, spriterEntity)
//	...
//	ecs.UpdateAnimators(world, dtMillis)
//	ecs.AnimationEventType.ProcessEvents(world)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
