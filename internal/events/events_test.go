package events

import "testing"

func TestSimpleBusDeliversToEverySubscriber(t *testing.T) {
	bus := NewSimpleBus()
	var a, b Recorder
	bus.Subscribe("a", a.Handle)
	bus.Subscribe("b", b.Handle)

	bus.Publish(Event{Type: EventMoved, Player: 1})
	bus.Publish(Event{Type: EventGameOver})

	if got := a.Types(); len(got) != 2 || got[0] != EventMoved || got[1] != EventGameOver {
		t.Fatalf("subscriber a saw %v", got)
	}
	if got := b.Events(); len(got) != 2 || got[0].Timestamp.IsZero() {
		t.Fatalf("subscriber b saw %v", got)
	}

	bus.Unsubscribe("a")
	bus.Publish(Event{Type: EventWeather})
	if len(a.Events()) != 2 {
		t.Fatalf("unsubscribed handler still called")
	}
	if len(b.Events()) != 3 {
		t.Fatalf("remaining handler missed an event")
	}
}

func TestEventTypeText(t *testing.T) {
	text, err := EventCaptured.MarshalText()
	if err != nil || string(text) != "captured" {
		t.Fatalf("unexpected text %q (%v)", text, err)
	}
	if EventType(99).String() != "unknown" {
		t.Fatalf("unknown types should say so")
	}
}
