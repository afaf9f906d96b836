package mqtt

import (
	"testing"
)

func TestOutboxEmptyDrain(t *testing.T) {
	o := newOutbox(10)
	got, dropped := o.drain()
	if got != nil || dropped != 0 {
		t.Errorf("expected empty drain, got %d items, %d dropped", len(got), dropped)
	}
}

func TestOutboxPushAndDrain(t *testing.T) {
	o := newOutbox(10)
	for i := 0; i < 5; i++ {
		if !o.push(message{topic: "t", payload: []byte{byte(i)}}) {
			t.Fatalf("push %d reported a drop", i)
		}
	}

	got, dropped := o.drain()
	if len(got) != 5 || dropped != 0 {
		t.Fatalf("expected 5 items and no drops, got %d, %d", len(got), dropped)
	}
	for i, msg := range got {
		if msg.payload[0] != byte(i) {
			t.Errorf("item %d: expected payload %d, got %d", i, i, msg.payload[0])
		}
	}

	if again, _ := o.drain(); again != nil {
		t.Errorf("expected nil from second drain, got %d items", len(again))
	}
}

func TestOutboxOverflowDropsOldest(t *testing.T) {
	o := newOutbox(5)

	// Push 0..7; the most recent 5 (3..7) survive.
	for i := 0; i < 8; i++ {
		ok := o.push(message{topic: "t", payload: []byte{byte(i)}})
		if want := i < 5; ok != want {
			t.Errorf("push %d: got %v, want %v", i, ok, want)
		}
	}

	got, dropped := o.drain()
	if dropped != 3 {
		t.Errorf("dropped: got %d, want 3", dropped)
	}
	if len(got) != 5 {
		t.Fatalf("expected 5 items, got %d", len(got))
	}
	for i, msg := range got {
		if want := byte(i + 3); msg.payload[0] != want {
			t.Errorf("item %d: expected payload %d, got %d", i, want, msg.payload[0])
		}
	}
}

func TestOutboxReusableAfterDrain(t *testing.T) {
	o := newOutbox(3)
	for i := 0; i < 4; i++ {
		o.push(message{payload: []byte{byte(i)}})
	}
	o.drain()

	o.push(message{payload: []byte{10}})
	o.push(message{payload: []byte{11}})
	got, dropped := o.drain()
	if dropped != 0 {
		t.Errorf("dropped count not reset: %d", dropped)
	}
	if len(got) != 2 || got[0].payload[0] != 10 || got[1].payload[0] != 11 {
		t.Errorf("unexpected items after reuse: %v", got)
	}
}

func TestOutboxLen(t *testing.T) {
	o := newOutbox(2)
	if o.len() != 0 {
		t.Errorf("expected len 0, got %d", o.len())
	}

	o.push(message{topic: "t"})
	o.push(message{topic: "t"})
	o.push(message{topic: "t"})
	if o.len() != 2 {
		t.Errorf("expected len capped at 2, got %d", o.len())
	}

	o.drain()
	if o.len() != 0 {
		t.Errorf("expected len 0 after drain, got %d", o.len())
	}
}

func TestOutboxMinimumCapacity(t *testing.T) {
	o := newOutbox(0)
	o.push(message{topic: "a"})
	o.push(message{topic: "b"})

	got, dropped := o.drain()
	if len(got) != 1 || got[0].topic != "b" || dropped != 1 {
		t.Errorf("got %v (dropped %d), want [b] (dropped 1)", got, dropped)
	}
}

func TestOutboxPreservesFields(t *testing.T) {
	o := newOutbox(10)
	o.push(message{
		topic:    TopicSystem,
		payload:  []byte(`{"test":true}`),
		qos:      1,
		retained: true,
	})

	got, _ := o.drain()
	if len(got) != 1 {
		t.Fatalf("expected 1 item, got %d", len(got))
	}
	if got[0].topic != TopicSystem {
		t.Errorf("topic: got %s, want %s", got[0].topic, TopicSystem)
	}
	if string(got[0].payload) != `{"test":true}` {
		t.Errorf("payload: got %s", got[0].payload)
	}
	if got[0].qos != 1 {
		t.Errorf("qos: got %d, want 1", got[0].qos)
	}
	if !got[0].retained {
		t.Error("retained: got false, want true")
	}
}
