package mqtt

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/sweeney/uv-beacon/internal/logic"
)

type fakeToken struct{ err error }

func (t fakeToken) Wait() bool                     { return true }
func (t fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t fakeToken) Error() error                   { return t.err }
func (t fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

// fakeClient implements the parts of paho.Client the publisher uses.
type fakeClient struct {
	paho.Client

	open       bool
	publishErr error
	sent       []message
	disconnect bool
}

func (c *fakeClient) IsConnectionOpen() bool { return c.open }

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token {
	if c.publishErr != nil {
		return fakeToken{err: c.publishErr}
	}
	c.sent = append(c.sent, message{topic: topic, qos: qos, retained: retained, payload: payload.([]byte)})
	return fakeToken{}
}

func (c *fakeClient) Disconnect(uint) { c.disconnect = true }

func reading(raw int) logic.Reading {
	return logic.NewReading(time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC), logic.RawSample(raw), logic.Millivolts(raw))
}

func TestRealPublisherPublishConnected(t *testing.T) {
	c := &fakeClient{open: true}
	p := newPublisher(c)

	if err := p.Publish(reading(695)); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(c.sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(c.sent))
	}
	if c.sent[0].topic != Topic || c.sent[0].qos != 0 || c.sent[0].retained {
		t.Errorf("unexpected publish options: %+v", c.sent[0])
	}
}

func TestRealPublisherSystemQoS(t *testing.T) {
	c := &fakeClient{open: true}
	p := newPublisher(c)

	p.PublishSystem(SystemEvent{Event: "STARTUP", Retained: true})

	if len(c.sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(c.sent))
	}
	if c.sent[0].topic != TopicSystem || c.sent[0].qos != 1 || !c.sent[0].retained {
		t.Errorf("unexpected publish options: %+v", c.sent[0])
	}
}

func TestRealPublisherQueuesWhileDisconnected(t *testing.T) {
	c := &fakeClient{}
	p := newPublisher(c)

	for _, raw := range []int{100, 200, 300} {
		if err := p.Publish(reading(raw)); err != nil {
			t.Fatalf("Publish while disconnected should queue, got %v", err)
		}
	}
	if len(c.sent) != 0 {
		t.Fatalf("sent %d messages while disconnected", len(c.sent))
	}
	if p.Queued() != 3 {
		t.Errorf("Queued: got %d, want 3", p.Queued())
	}

	c.open = true
	p.onConnect()

	if p.Queued() != 0 {
		t.Errorf("Queued after connect: got %d, want 0", p.Queued())
	}
	if len(c.sent) != 3 {
		t.Fatalf("expected 3 replayed messages, got %d", len(c.sent))
	}
	for i, want := range []int32{100, 200, 300} {
		var parsed Payload
		if err := json.Unmarshal(c.sent[i].payload, &parsed); err != nil {
			t.Fatalf("message %d: %v", i, err)
		}
		if parsed.UV.Raw != want {
			t.Errorf("message %d: raw %d, want %d", i, parsed.UV.Raw, want)
		}
	}
}

func TestRealPublisherAnnouncesReconnect(t *testing.T) {
	c := &fakeClient{open: true}
	p := newPublisher(c)

	p.onConnect()
	if len(c.sent) != 0 {
		t.Fatalf("first connect should not announce, sent %d", len(c.sent))
	}

	p.onConnect()
	if len(c.sent) != 1 {
		t.Fatalf("expected RECONNECTED event, sent %d", len(c.sent))
	}
	var parsed SystemPayload
	json.Unmarshal(c.sent[0].payload, &parsed)
	if parsed.System.Event != "RECONNECTED" {
		t.Errorf("event: got %q, want RECONNECTED", parsed.System.Event)
	}
}

func TestRealPublisherReplayFailureRequeues(t *testing.T) {
	c := &fakeClient{}
	p := newPublisher(c)
	p.Publish(reading(1))
	p.Publish(reading(2))

	c.open = true
	c.publishErr = errors.New("broker gone")
	p.onConnect()

	if p.Queued() != 2 {
		t.Errorf("Queued after failed replay: got %d, want 2", p.Queued())
	}
}

func TestRealPublisherPublishError(t *testing.T) {
	c := &fakeClient{open: true, publishErr: errors.New("not authorized")}
	p := newPublisher(c)

	if err := p.Publish(reading(1)); err == nil {
		t.Error("expected error")
	}
}

func TestRealPublisherClose(t *testing.T) {
	c := &fakeClient{}
	p := newPublisher(c)

	if err := p.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !c.disconnect {
		t.Error("Close should disconnect the client")
	}
	if p.IsConnected() {
		t.Error("IsConnected should follow the client")
	}
}
