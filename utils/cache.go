package utils

import (
	"context"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"george/config"
)

// CacheClient is the Redis client backing conversation memory and
// booking-draft session state.
var CacheClient *redis.Client

// InitCache initializes the Redis client using the AppConfig settings.
func InitCache() {
	CacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := CacheClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
}

// GetCacheClient returns the Redis client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		InitCache()
	}
	return CacheClient
}
