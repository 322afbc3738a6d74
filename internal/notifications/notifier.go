// Package notifications publishes domain events to Redis.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"recordhub/internal/middleware"
	"recordhub/internal/observability"

	"github.com/redis/go-redis/v9"
)

// EventsChannel is the pub/sub channel every domain event is sent to.
const EventsChannel = "recordhub:events"

// Event types.
const (
	EventUserRegistered = "user_registered"
	EventUserDeleted    = "user_deleted"
	EventPostCreated    = "post_created"
)

// Event is the JSON envelope published on EventsChannel.
type Event struct {
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// Publisher sends domain events. Implementations must not fail the caller's
// request when the transport is down.
type Publisher interface {
	Publish(ctx context.Context, eventType string, payload any)
}

// Notifier provides helpers to publish events into Redis. A nil client
// turns every publish into a no-op.
type Notifier struct {
	rdb *redis.Client
	now func() time.Time
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb, now: time.Now}
}

// Publish is best effort: failures are logged and counted, never returned.
func (n *Notifier) Publish(ctx context.Context, eventType string, payload any) {
	if n == nil || n.rdb == nil {
		return
	}
	if err := n.publish(ctx, eventType, payload); err != nil {
		observability.RedisErrorRate.WithLabelValues("publish").Inc()
		middleware.Logger.WarnContext(ctx, "failed to publish event",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()),
		)
		return
	}
	observability.EventsPublished.WithLabelValues(eventType).Inc()
}

func (n *Notifier) publish(ctx context.Context, eventType string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", eventType, err)
	}
	msg, err := json.Marshal(Event{Type: eventType, OccurredAt: n.now().UTC(), Payload: body})
	if err != nil {
		return fmt.Errorf("encode %s event: %w", eventType, err)
	}
	return n.rdb.Publish(ctx, EventsChannel, msg).Err()
}

// Subscribe delivers every event on EventsChannel to onEvent until ctx is
// done. Malformed messages are skipped.
func (n *Notifier) Subscribe(ctx context.Context, onEvent func(Event)) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	sub := n.rdb.Subscribe(ctx, EventsChannel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("subscribe %s: %w", EventsChannel, err)
	}
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var ev Event
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					middleware.Logger.Warn("dropping malformed event", slog.String("error", err.Error()))
					continue
				}
				onEvent(ev)
			}
		}
	}()
	return nil
}
