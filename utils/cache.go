// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"mindease/config"

	"github.com/go-redis/redis/v8"
)

// OrderCacheClient holds in-flight payment orders between initiation and the
// asynchronous checkout callback.
var OrderCacheClient *redis.Client

// InitOrderCache initializes the Redis client used for payment order state.
func InitOrderCache() {
	OrderCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisOrderDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := OrderCacheClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Orders): %v", err)
	}
}

// GetOrderCacheClient returns the Redis client for payment order state.
func GetOrderCacheClient() *redis.Client {
	if OrderCacheClient == nil {
		InitOrderCache()
	}
	return OrderCacheClient
}
