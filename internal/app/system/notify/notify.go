// Package notify publishes request lifecycle events for out-of-process
// consumers (the mailer that tells requesters their material is ready).
//
// Publication is best-effort: Notifier logs failures and never returns them,
// so a broker outage cannot fail a status change or a fulfillment.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dalemusser/libraryhub/internal/domain/models"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultChannel is the Redis channel events are published on.
const DefaultChannel = "libraryhub:requests:events"

// EventType names a lifecycle transition.
type EventType string

const (
	EventStatusChanged EventType = "status_changed"
	EventFulfilled     EventType = "fulfilled"
)

// Event is the JSON payload published for each transition.
type Event struct {
	Type           EventType `json:"type"`
	RequestID      string    `json:"requestId"`
	RequesterID    string    `json:"requesterId"`
	RequesterName  string    `json:"requesterName,omitempty"`
	Title          string    `json:"title"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previousStatus,omitempty"`
	ResourceID     string    `json:"resourceId,omitempty"`
	OccurredAt     time.Time `json:"occurredAt"`
}

// Publisher delivers one event.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

/*─────────────────────────────────────────────────────────────────────────────*
| Redis                                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

// RedisBus publishes and subscribes to events over Redis pub/sub.
type RedisBus struct {
	client  *redis.Client
	channel string
	log     *zap.Logger
}

// NewRedisBus returns a bus on channel (DefaultChannel when empty).
func NewRedisBus(client *redis.Client, channel string, log *zap.Logger) *RedisBus {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisBus{client: client, channel: channel, log: log}
}

// Channel returns the channel name.
func (b *RedisBus) Channel() string { return b.channel }

// Publish encodes ev as JSON and publishes it.
func (b *RedisBus) Publish(ctx context.Context, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := b.client.Publish(ctx, b.channel, data).Err(); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	b.log.Debug("request event published",
		zap.String("channel", b.channel),
		zap.String("type", string(ev.Type)),
		zap.String("request_id", ev.RequestID))
	return nil
}

// Subscribe delivers events to handler until ctx is cancelled or the
// subscription closes. Undecodable payloads are logged and skipped.
func (b *RedisBus) Subscribe(ctx context.Context, handler func(context.Context, Event)) error {
	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe to %s: %w", b.channel, err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				b.log.Warn("undecodable request event", zap.String("payload", msg.Payload), zap.Error(err))
				continue
			}
			handler(ctx, ev)
		}
	}
}

// LogPublisher writes events to the structured log. It is used when no
// broker is configured.
type LogPublisher struct {
	Log *zap.Logger
}

func (p LogPublisher) Publish(_ context.Context, ev Event) error {
	p.Log.Info("request event",
		zap.String("type", string(ev.Type)),
		zap.String("request_id", ev.RequestID),
		zap.String("requester_id", ev.RequesterID),
		zap.String("status", ev.Status),
		zap.String("previous_status", ev.PreviousStatus),
		zap.String("resource_id", ev.ResourceID))
	return nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Notifier                                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

// Notifier turns request transitions into events. A nil *Notifier is a
// no-op.
type Notifier struct {
	pub Publisher
	log *zap.Logger
	now func() time.Time
}

// New returns a Notifier publishing through pub.
func New(pub Publisher, log *zap.Logger) *Notifier {
	return &Notifier{pub: pub, log: log, now: func() time.Time { return time.Now().UTC() }}
}

// StatusChanged announces an admin status update.
func (n *Notifier) StatusChanged(ctx context.Context, req models.ResourceRequest, previous models.RequestStatus) {
	if n == nil {
		return
	}
	ev := n.base(EventStatusChanged, req)
	ev.PreviousStatus = string(previous)
	n.send(ctx, ev)
}

// Fulfilled announces that req has been linked to resource.
func (n *Notifier) Fulfilled(ctx context.Context, req models.ResourceRequest, resource models.Resource) {
	if n == nil {
		return
	}
	ev := n.base(EventFulfilled, req)
	ev.ResourceID = resource.ID.Hex()
	n.send(ctx, ev)
}

func (n *Notifier) base(t EventType, req models.ResourceRequest) Event {
	return Event{
		Type:          t,
		RequestID:     req.ID.Hex(),
		RequesterID:   req.RequestedByID.Hex(),
		RequesterName: req.RequestedByName,
		Title:         req.Title,
		Status:        string(req.Status),
		OccurredAt:    n.now(),
	}
}

func (n *Notifier) send(ctx context.Context, ev Event) {
	if err := n.pub.Publish(ctx, ev); err != nil {
		n.log.Warn("request notification not delivered",
			zap.String("type", string(ev.Type)),
			zap.String("request_id", ev.RequestID),
			zap.Error(err))
	}
}
