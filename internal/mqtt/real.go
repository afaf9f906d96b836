package mqtt

import (
	"fmt"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"

	"github.com/sweeney/uv-beacon/internal/logic"
)

// OutboxCapacity is how many messages are held while disconnected.
const OutboxCapacity = 256

const publishTimeout = 5 * time.Second

// RealPublisher publishes to an actual MQTT broker.
// Messages published while the connection is down are queued and sent,
// oldest first, once the client reconnects.
type RealPublisher struct {
	client paho.Client
	log    *log.Entry

	mu        sync.Mutex
	outbox    *outbox
	connected bool // has connected at least once
}

// NewRealPublisher creates a publisher for the given broker. The broker
// retains an OFFLINE event on TopicSystem if the daemon disappears.
// A broker that is unreachable at startup is not an error: the client
// keeps retrying in the background and readings are queued meanwhile.
func NewRealPublisher(broker string) (*RealPublisher, error) {
	p := &RealPublisher{
		log:    log.WithField("component", "mqtt"),
		outbox: newOutbox(OutboxCapacity),
	}

	will, err := FormatSystemPayload(SystemEvent{
		Timestamp: time.Now(),
		Event:     "OFFLINE",
		Reason:    "MQTT_DISCONNECT",
	})
	if err != nil {
		return nil, fmt.Errorf("format will payload: %w", err)
	}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("uv-beacon").
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetBinaryWill(TopicSystem, will, 1, true).
		SetOnConnectHandler(func(paho.Client) { go p.onConnect() }).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			p.log.Warnf("connection lost: %v", err)
		})

	p.client = paho.NewClient(opts)
	token := p.client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		p.log.Warnf("broker %s not reachable yet, queueing messages", broker)
		return p, nil
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	return p, nil
}

// newPublisher wraps an existing client.
func newPublisher(client paho.Client) *RealPublisher {
	return &RealPublisher{
		client: client,
		log:    log.WithField("component", "mqtt"),
		outbox: newOutbox(OutboxCapacity),
	}
}

// Publish sends a reading to the MQTT broker.
func (p *RealPublisher) Publish(r logic.Reading) error {
	payload, err := FormatPayload(r)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}

	// QoS 0 (at-most-once), not retained
	return p.send(message{topic: Topic, payload: payload})
}

// PublishSystem sends a system lifecycle event to the MQTT broker.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}

	// QoS 1 (at-least-once) for lifecycle events
	return p.send(message{topic: TopicSystem, payload: payload, qos: 1, retained: event.Retained})
}

func (p *RealPublisher) send(msg message) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.client.IsConnectionOpen() {
		if !p.outbox.push(msg) && p.outbox.dropped == 1 {
			p.log.Warnf("outbox full (%d messages), dropping oldest", OutboxCapacity)
		}
		return nil
	}
	return p.publish(msg)
}

// publish must be called with p.mu held.
func (p *RealPublisher) publish(msg message) error {
	token := p.client.Publish(msg.topic, msg.qos, msg.retained, msg.payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish %s timeout", msg.topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", msg.topic, err)
	}
	return nil
}

// onConnect replays queued messages and, on a reconnect, announces it.
func (p *RealPublisher) onConnect() {
	p.mu.Lock()
	defer p.mu.Unlock()

	reconnect := p.connected
	p.connected = true

	queued, dropped := p.outbox.drain()
	if len(queued) > 0 || dropped > 0 {
		p.log.Infof("replaying %d queued messages (%d dropped)", len(queued), dropped)
	}
	for i, msg := range queued {
		if err := p.publish(msg); err != nil {
			p.log.Errorf("replay: %v", err)
			// requeue what is left for the next connect
			for _, m := range queued[i:] {
				p.outbox.push(m)
			}
			return
		}
	}

	if reconnect {
		payload, _ := FormatSystemPayload(SystemEvent{Timestamp: time.Now(), Event: "RECONNECTED"})
		if err := p.publish(message{topic: TopicSystem, payload: payload, qos: 1}); err != nil {
			p.log.Errorf("publish RECONNECTED: %v", err)
		}
	}
}

// Queued returns the number of messages waiting for a connection.
func (p *RealPublisher) Queued() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.outbox.len()
}

// IsConnected reports whether the client currently has a broker connection.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnectionOpen()
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}
