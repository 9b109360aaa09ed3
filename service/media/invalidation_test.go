package media

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func unreachableRedis() *redis.Client {
	return redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
}

func TestRedisNotifier_DefaultsAndUnreachable(t *testing.T) {
	client := unreachableRedis()
	defer client.Close()
	n := NewRedisNotifier(client, "")
	if n.channel != DefaultInvalidationChannel || n.origin == "" {
		t.Fatalf("notifier = %+v", n)
	}
	if other := NewRedisNotifier(client, ""); other.origin == n.origin {
		t.Error("two notifiers share an origin id")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := n.Publish(ctx); err == nil {
		t.Error("Publish to unreachable Redis: want error")
	}
	rc := NewReconciliationCache(NewAssetIndex(&fakeSource{}), nil, time.Minute)
	if err := n.Listen(ctx, rc); err == nil {
		t.Error("Listen on unreachable Redis: want error")
	}
}
