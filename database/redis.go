package database

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis 建立 Redis 連線。Redis 只用於出題去重的輔助快取，
// 連不上時僅記錄警告，出題邏輯會自動退化成純隨機抽樣
func ConnectRedis(addr string) *redis.Client {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Warning: failed to ping Redis at %s: %v (question de-dup disabled)", addr, err)
	} else {
		log.Println("Connected to Redis successfully!")
	}
	return client
}
