package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/bittworld/bg-affiliate-service/internal/config"
	"github.com/go-redis/redis/v8"
)

func MustInitRedis(cfg *config.RedisService) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}

	return client
}

// DownlineCache keeps recently built downline views out of the hot path.
// Entries are small JSON blobs keyed by wallet, aged out by TTL and dropped
// eagerly when a tree mutation touches the wallet's downline.
type DownlineCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewDownlineCache(client *redis.Client, ttl time.Duration) *DownlineCache {
	return &DownlineCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *DownlineCache) Get(walletID string, v interface{}) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	data, err := c.client.Get(ctx, c.key(walletID)).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(data, v) == nil
}

func (c *DownlineCache) Set(walletID string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := c.client.Set(ctx, c.key(walletID), data, c.ttl).Err(); err != nil {
		log.Printf("downline cache set failed for %s: %v", walletID, err)
	}
}

func (c *DownlineCache) Invalidate(walletIDs ...string) {
	if len(walletIDs) == 0 {
		return
	}

	keys := make([]string, len(walletIDs))
	for i, walletID := range walletIDs {
		keys[i] = c.key(walletID)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		log.Printf("downline cache invalidation failed: %v", err)
	}
}

func (c *DownlineCache) key(walletID string) string {
	return "affiliate:downline:" + walletID
}
