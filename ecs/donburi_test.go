package ecs

import (
	"os"
	"testing"

	"github.com/phanxgames/spriter"

	"github.com/yohamta/donburi"
)

func loadPlayer(t *testing.T) *spriter.Entity {
	t.Helper()
	data, err := os.ReadFile("../testdata/player.scon")
	if err != nil {
		t.Fatal(err)
	}
	doc, err := spriter.LoadDocument(data, spriter.LoadOptions{})
	if err != nil {
		t.Fatal(err)
	}
	def, err := doc.Entity("player")
	if err != nil {
		t.Fatal(err)
	}
	return spriter.NewEntity(def)
}

func TestNewDonburiSink(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world, donburi.Null)
	if sink == nil {
		t.Fatal("NewDonburiSink returned nil")
	}
}

func TestDonburiSink_EmitEvent(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world, donburi.Null)

	var received []AnimationEvent
	AnimationEventType.Subscribe(world, func(w donburi.World, e AnimationEvent) {
		received = append(received, e)
	})

	sink.EmitEvent(spriter.PlaybackEvent{Type: spriter.EventLoop, Entity: "player", Animation: "idle", Time: 250})
	sink.EmitEvent(spriter.PlaybackEvent{Type: spriter.EventEnd, Entity: "player", Animation: "wave", Time: 400})

	// Events are queued until processed.
	if len(received) != 0 {
		t.Fatalf("expected no events before ProcessEvents, got %d", len(received))
	}
	AnimationEventType.ProcessEvents(world)

	if len(received) != 2 {
		t.Fatalf("expected 2 events, got %d", len(received))
	}
	if e := received[0]; e.Type != spriter.EventLoop || e.Animation != "idle" || e.Time != 250 {
		t.Errorf("event 0: %+v", e)
	}
	if e := received[1]; e.Type != spriter.EventEnd || e.Animation != "wave" {
		t.Errorf("event 1: %+v", e)
	}
}

func TestUpdateAnimators(t *testing.T) {
	world := donburi.NewWorld()
	entry := world.Entry(world.Create(Animator))

	e := loadPlayer(t)
	if err := e.Play("idle", false); err != nil {
		t.Fatal(err)
	}
	Attach(world, entry, e)

	var received []AnimationEvent
	AnimationEventType.Subscribe(world, func(w donburi.World, ev AnimationEvent) {
		received = append(received, ev)
	})

	for i := 0; i < 3; i++ {
		if err := UpdateAnimators(world, 500); err != nil {
			t.Fatal(err)
		}
	}
	AnimationEventType.ProcessEvents(world)

	if e.Time() != 500 {
		t.Errorf("Time = %v, want 500", e.Time())
	}
	if len(received) != 1 {
		t.Fatalf("expected 1 loop event, got %d", len(received))
	}
	if received[0].Owner != entry.Entity() || received[0].Type != spriter.EventLoop {
		t.Errorf("event: %+v", received[0])
	}
	if e.Dirty() {
		t.Error("entity should be sampled after UpdateAnimators")
	}
}

func TestUpdateAnimators_Paused(t *testing.T) {
	world := donburi.NewWorld()
	entry := world.Entry(world.Create(Animator))

	e := loadPlayer(t)
	if err := e.Play("idle", false); err != nil {
		t.Fatal(err)
	}
	Attach(world, entry, e)
	Animator.Get(entry).Paused = true

	if err := UpdateAnimators(world, 250); err != nil {
		t.Fatal(err)
	}
	if e.Time() != 0 {
		t.Errorf("paused animator advanced to %v", e.Time())
	}
}
