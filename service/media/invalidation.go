package media

import (
	"context"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"sareeadmin.GO/core/log"
)

// DefaultInvalidationChannel is the pub/sub channel shared by all instances.
const DefaultInvalidationChannel = "media:invalidate"

// Notifier tells other instances that the reference set changed.
type Notifier interface {
	Publish(ctx context.Context) error
}

type nopNotifier struct{}

func (nopNotifier) Publish(context.Context) error { return nil }

// RedisNotifier broadcasts invalidations over Redis pub/sub.
type RedisNotifier struct {
	client  *redis.Client
	channel string
	origin  string
}

func NewRedisNotifier(client *redis.Client, channel string) *RedisNotifier {
	if channel == "" {
		channel = DefaultInvalidationChannel
	}
	return &RedisNotifier{client: client, channel: channel, origin: uuid.NewString()}
}

func (n *RedisNotifier) Publish(ctx context.Context) error {
	return n.client.Publish(ctx, n.channel, n.origin).Err()
}

// Listen invalidates c for every message published by another instance, until ctx is done.
func (n *RedisNotifier) Listen(ctx context.Context, c *ReconciliationCache) error {
	sub := n.client.Subscribe(ctx, n.channel)
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		return err
	}
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			if msg.Payload == n.origin {
				continue
			}
			c.Invalidate()
			log.Debug().Str("from", msg.Payload).Msg("media: reference set invalidated by peer")
		}
	}
}
