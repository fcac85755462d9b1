// Package spriter samples Spriter skeletal and sprite-swap animations and
// draws them with [Ebitengine].
//
// A [Document] is loaded once from SCON (JSON) data and shared read-only.
// Each playing instance is an [Entity], which owns its own time, playback
// state and pose buffers.
//
// # Quick start
//
//	doc, err := spriter.LoadDocument(sconData, spriter.LoadOptions{})
//	if err != nil { ... }
//	def, err := doc.Entity("player")
//	if err != nil { ... }
//	e := spriter.NewEntity(def)
//	if err := e.Play("walk", false); err != nil { ... }
//
//	// each frame:
//	e.Advance(dt)                          // milliseconds
//	spriter.DrawEntity(screen, e, atlas, nil)
//
// A [Library] maps document keys to documents and atlases for applications
// that load several files.
//
// # Poses
//
// [Entity.Sample] recomputes the [Pose] only when the time moved since the
// last successful sample. Bones come out in id order with world transforms
// composed down the hierarchy. Elements carry a world transform centered on
// their image, so a renderer anchors every sprite at (0.5, 0.5).
//
// Animation data is authored y-up with counter-clockwise rotation. Poses
// keep that convention; [DrawEntity] flips the y axis for the screen unless
// [DrawOptions].NoFlipY is set.
//
// # Playback
//
// Looping animations wrap into [MinTime, MaxTime) and fire a loop event.
// Stop-at-end playback clamps at MaxTime and fires one end event.
// Ping-pong animations bounce between the ends. Events arrive through the
// OnLoop/OnEnd callbacks and an optional [EventSink]; the ecs sub-module
// publishes them as [Donburi] events.
//
// Root placement, alpha and speed can be eased with [TweenGroup] (via [gween]).
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
// [Donburi]: https://github.com/yohamta/donburi
package spriter
