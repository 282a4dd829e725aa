package category

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// RedisRelay forwards store events between processes sharing one Redis.
// Local events go to the in-process broker and to the Redis channel; events
// from other processes are delivered to the local broker only.
type RedisRelay struct {
	client  *redis.Client
	channel string
	origin  string
	local   Publisher
}

// NewRedisRelay creates a relay publishing on channel. Each relay has its own
// origin id so it can skip its own messages.
func NewRedisRelay(client *redis.Client, channel string, local Publisher) *RedisRelay {
	return &RedisRelay{
		client:  client,
		channel: channel,
		origin:  uuid.NewString(),
		local:   local,
	}
}

func (r *RedisRelay) Publish(e Event) {
	e.Origin = r.origin
	r.local.Publish(e)

	payload, err := json.Marshal(e)
	if err != nil {
		slog.Error("failed to encode category event", "error", err)
		return
	}
	if err := r.client.Publish(context.Background(), r.channel, payload).Err(); err != nil {
		slog.Error("failed to relay category event", "channel", r.channel, "error", err)
	}
}

// Run subscribes to the channel and forwards foreign events until ctx is
// done. ready, when non-nil, is closed once the subscription is active.
func (r *RedisRelay) Run(ctx context.Context, ready chan<- struct{}) error {
	pubsub := r.client.Subscribe(ctx, r.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return err
	}
	if ready != nil {
		close(ready)
	}

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var e Event
			if err := json.Unmarshal([]byte(msg.Payload), &e); err != nil {
				slog.Warn("ignoring malformed category event", "error", err)
				continue
			}
			if e.Origin == r.origin {
				continue
			}
			r.local.Publish(e)
		}
	}
}
