package mqtt

// message is a serialized MQTT publish held for replay after reconnection.
type message struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// outbox is a fixed-capacity FIFO of messages published while the broker
// was unreachable. When full, the oldest message is overwritten.
// Not safe for concurrent use; caller must synchronize.
type outbox struct {
	ring    []message
	next    int // next write position
	count   int
	dropped int // overwritten since last drain
}

func newOutbox(capacity int) *outbox {
	if capacity < 1 {
		capacity = 1
	}
	return &outbox{ring: make([]message, capacity)}
}

// push appends msg, reporting false if an older message was dropped.
func (o *outbox) push(msg message) bool {
	o.ring[o.next] = msg
	o.next = (o.next + 1) % len(o.ring)
	if o.count == len(o.ring) {
		o.dropped++
		return false
	}
	o.count++
	return true
}

// drain returns the held messages oldest first and how many were lost
// to overflow, then empties the outbox.
func (o *outbox) drain() ([]message, int) {
	if o.count == 0 {
		return nil, 0
	}

	out := make([]message, 0, o.count)
	first := (o.next - o.count + len(o.ring)) % len(o.ring)
	for i := 0; i < o.count; i++ {
		out = append(out, o.ring[(first+i)%len(o.ring)])
	}
	dropped := o.dropped

	o.ring = make([]message, len(o.ring))
	o.next, o.count, o.dropped = 0, 0, 0
	return out, dropped
}

func (o *outbox) len() int {
	return o.count
}
