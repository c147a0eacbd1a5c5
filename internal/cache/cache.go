package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

// Client is a thin JSON read-through cache over redis, used by the public
// catalog endpoints. A nil *Client is a no-op so the API keeps working when
// redis is unreachable at startup.
type Client struct {
	rdb *redis.Client
}

func New(redisURL string) *Client {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("cache disabled, bad redis url: %v", err)
		return nil
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Printf("cache disabled, redis unreachable: %v", err)
		return nil
	}

	return &Client{rdb: rdb}
}

func (c *Client) GetJSON(ctx context.Context, key string, dest any) bool {
	if c == nil {
		return false
	}

	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("cache get %s: %v", key, err)
		}
		return false
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return false
	}
	return true
}

func (c *Client) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) {
	if c == nil {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return
	}

	if err := c.rdb.Set(ctx, key, raw, ttl).Err(); err != nil {
		log.Printf("cache set %s: %v", key, err)
	}
}

// InvalidatePrefix drops every key under the given prefix. Used after listing
// mutations so the public catalog never serves stale deals for long.
func (c *Client) InvalidatePrefix(ctx context.Context, prefix string) {
	if c == nil {
		return
	}

	iter := c.rdb.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			log.Printf("cache del %s: %v", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		log.Printf("cache scan %s: %v", prefix, err)
	}
}
