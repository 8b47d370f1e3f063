// Package activity implements the optional activity broadcaster
// (spec.md §6 "Activity tracking"): a ZeroMQ PUB socket publishing one
// ActivityEvent per successful mutating operation, serialized with
// json-iterator.
package activity

import (
	"context"
	"log"
	"time"

	"github.com/go-zeromq/zmq4"
	json "github.com/json-iterator/go"

	"ficengine/internal/domain"
)

// ActivityTopic is the single topic frame every event is published under.
const ActivityTopic = "activity"

// eventMessage is the wire shape published on the socket.
type eventMessage struct {
	EventID   string `json:"event_id"`
	Table     string `json:"table"`
	Operation string `json:"operation"`
	RecordID  uint32 `json:"record_id"`
	Timestamp int64  `json:"timestamp"`
}

// Broadcaster publishes ActivityEvents on a ZeroMQ PUB socket. A publish
// failure is logged and swallowed: per SPEC_FULL.md §6, the broadcaster is
// additive and must never affect write-path outcome.
type Broadcaster struct {
	pub zmq4.Socket
}

// NewBroadcaster creates a PUB socket bound to address (e.g. "tcp://*:7001")
// with automatic reconnect, mirroring the teacher's transaction broadcaster.
func NewBroadcaster(address string) (*Broadcaster, error) {
	reconnectOpt := zmq4.WithAutomaticReconnect(true)
	retryOpt := zmq4.WithDialerRetry(time.Second * 5)
	socket := zmq4.NewPub(context.Background(), reconnectOpt, retryOpt)

	if err := socket.Listen(address); err != nil {
		return nil, err
	}
	log.Println("started activity publisher on", address)
	return &Broadcaster{pub: socket}, nil
}

// Publish implements domain.ActivityPublisher.
func (b *Broadcaster) Publish(event domain.ActivityEvent) {
	payload, err := json.Marshal(eventMessage{
		EventID:   event.EventID,
		Table:     event.Table,
		Operation: event.Operation,
		RecordID:  event.RecordID,
		Timestamp: event.Timestamp,
	})
	if err != nil {
		log.Println("activity: marshal failed:", err)
		return
	}
	msg := zmq4.NewMsgFrom([]byte(ActivityTopic), payload)
	if err := b.pub.Send(msg); err != nil {
		log.Println("activity: publish failed:", err)
	}
}

// Close releases the underlying socket.
func (b *Broadcaster) Close() error {
	return b.pub.Close()
}

// NoopPublisher is the disabled-by-default ActivityPublisher: publishing is
// a deliberate no-op rather than nil-checked at every call site.
type NoopPublisher struct{}

// Publish implements domain.ActivityPublisher.
func (NoopPublisher) Publish(domain.ActivityEvent) {}
