package spriter

// EventType identifies a playback notification.
type EventType uint8

const (
	EventLoop EventType = iota // fires when playback wraps (or bounces) past an end
	EventEnd                   // fires once when a stop-at-end run reaches MaxTime
)

// String returns the event name.
func (t EventType) String() string {
	switch t {
	case EventLoop:
		return "loop"
	case EventEnd:
		return "end"
	default:
		return "unknown"
	}
}

// PlaybackEvent carries a loop or end notification.
type PlaybackEvent struct {
	Type      EventType
	Entity    string
	Animation string
	// Time is the entity's time (ms) after the event was applied.
	Time float64
}

// EventSink receives playback events in addition to the OnLoop/OnEnd
// callbacks. The ecs sub-module provides a Donburi-backed sink.
type EventSink interface {
	EmitEvent(event PlaybackEvent)
}
