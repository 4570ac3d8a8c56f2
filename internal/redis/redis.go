package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var Rdb *redis.Client

func InitRedis(reddisAddress string, redisUsername string, redisPassword string) {
	Rdb = redis.NewClient(&redis.Options{
		Addr:     reddisAddress,
		Username: redisUsername,
		Password: redisPassword,
		DB:       0,
	})
}

// ScreenETagKey is where the last served presentation ETag of a screen lives.
func ScreenETagKey(screenID int) string {
	return fmt.Sprintf("screen:%d:etag", screenID)
}

// ETagCache records the last presentation ETag served per screen. The tag
// is informational and is reported by the state endpoint; presentation
// requests always recompose. A nil client disables it.
type ETagCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewETagCache(client *redis.Client, ttl time.Duration) *ETagCache {
	return &ETagCache{client: client, ttl: ttl}
}

// Get returns the cached tag, or "" on a miss or when disabled.
func (c *ETagCache) Get(ctx context.Context, screenID int) string {
	if c == nil || c.client == nil {
		return ""
	}
	tag, err := c.client.Get(ctx, ScreenETagKey(screenID)).Result()
	if err == redis.Nil {
		return ""
	}
	if err != nil {
		log.Warn().Err(err).Int("screen_id", screenID).Msg("[redis] etag lookup failed")
		return ""
	}
	return tag
}

func (c *ETagCache) Set(ctx context.Context, screenID int, tag string) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Set(ctx, ScreenETagKey(screenID), tag, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Int("screen_id", screenID).Msg("[redis] failed to store etag")
	}
}

// Invalidate drops the cached tag after the screen's state moved on.
func (c *ETagCache) Invalidate(ctx context.Context, screenID int) {
	if c == nil || c.client == nil {
		return
	}
	key := ScreenETagKey(screenID)
	if err := c.client.Del(ctx, key).Err(); err != nil {
		log.Warn().Err(err).Int("screen_id", screenID).Str("etag_key", key).Msg("[redis] failed to invalidate etag")
		return
	}
	log.Debug().Int("screen_id", screenID).Str("etag_key", key).Msg("[redis] invalidated screen etag")
}
