package config

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient is a global Redis client instance, nil when REDIS_ADDR is unset or unreachable.
var RedisClient *redis.Client

func InitRedis() {
	addr := GetEnv("REDIS_ADDR", "")
	if addr == "" {
		RedisClient = nil
		return
	}
	RedisClient = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: GetEnv("REDIS_PASS", ""),
		DB:       GetEnvInt("REDIS_DB", 0),
	})
}

// PingRedis drops the client when the server does not answer.
func PingRedis() string {
	if RedisClient == nil {
		return "Redis not configured, cross-instance cache invalidation disabled."
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := RedisClient.Ping(ctx).Err(); err != nil {
		_ = RedisClient.Close()
		RedisClient = nil
		return "Redis configured but not reachable, cross-instance cache invalidation disabled."
	}
	return "Redis connection successful."
}
