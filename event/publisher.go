// Package event fans out domain events to live subscribers over redis pub/sub.
// Events are a notification layer, not part of the consistency boundary: they
// are published only after the durable write committed, and a publish failure
// is logged for operators but never fails the request that triggered it.
package event

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	TopicRentalCreated   = "RentalCreated"
	TopicRentalReturned  = "RentalReturned"
	TopicCustomerCreated = "CustomerCreated"
	TopicCustomerUpdated = "CustomerUpdated"
	TopicCustomerDeleted = "CustomerDeleted"
)

// Topics lists every topic this service publishes.
func Topics() []string {
	return []string{
		TopicRentalCreated,
		TopicRentalReturned,
		TopicCustomerCreated,
		TopicCustomerUpdated,
		TopicCustomerDeleted,
	}
}

type Envelope struct {
	Topic string          `json:"topic"`
	At    time.Time       `json:"at"`
	Data  json.RawMessage `json:"data"`
}

type Publisher interface {
	// Publish marshals payload into an envelope and fans it out. Best-effort:
	// failures are logged, never returned.
	Publish(ctx context.Context, topic string, payload any)

	// Subscribe returns a channel of envelopes for the given topics and a stop
	// function. The channel closes on stop or when ctx is done.
	Subscribe(ctx context.Context, topics ...string) (<-chan Envelope, func())
}

type redisPublisher struct {
	rdb *redis.Client
	log *slog.Logger
}

func NewRedisPublisher(rdb *redis.Client, log *slog.Logger) Publisher {
	return &redisPublisher{rdb: rdb, log: log}
}

func (p *redisPublisher) Publish(ctx context.Context, topic string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		p.log.Error("event marshal failed", "topic", topic, "err", err)
		return
	}
	env := Envelope{Topic: topic, At: time.Now().UTC(), Data: data}
	b, err := json.Marshal(env)
	if err != nil {
		p.log.Error("event envelope marshal failed", "topic", topic, "err", err)
		return
	}
	if err := p.rdb.Publish(ctx, topic, b).Err(); err != nil {
		p.log.Error("event publish failed", "topic", topic, "err", err)
	}
}

func (p *redisPublisher) Subscribe(ctx context.Context, topics ...string) (<-chan Envelope, func()) {
	if len(topics) == 0 {
		topics = Topics()
	}
	ps := p.rdb.Subscribe(ctx, topics...)
	out := make(chan Envelope, 16)

	go func() {
		defer close(out)
		for msg := range ps.Channel() {
			var env Envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				p.log.Warn("event decode failed", "channel", msg.Channel, "err", err)
				continue
			}
			select {
			case out <- env:
			case <-ctx.Done():
				return
			}
		}
	}()

	stop := func() { _ = ps.Close() }
	return out, stop
}
