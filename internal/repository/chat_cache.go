package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"projectk_backend/internal/model"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

// ChatCache 基于 Redis 的回答缓存与会话轮次计数；Redis 不可用时全部退化为未命中
type ChatCache struct {
	Redis *redis.Client
	TTL   time.Duration
}

func NewChatCache(rdb *redis.Client, ttl time.Duration) *ChatCache {
	return &ChatCache{Redis: rdb, TTL: ttl}
}

// ResponseKey 相同学科下规范化后完全相同的问题共享一个缓存键
func ResponseKey(subject model.Subject, message string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(message)), " ")
	sum := sha256.Sum256([]byte(string(subject) + "|" + normalized))
	return "chat:response:" + hex.EncodeToString(sum[:])
}

func (c *ChatCache) GetResponse(ctx context.Context, subject model.Subject, message string) (string, bool) {
	if c == nil || c.Redis == nil {
		return "", false
	}
	val, err := c.Redis.Get(ctx, ResponseKey(subject, message)).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (c *ChatCache) SetResponse(ctx context.Context, subject model.Subject, message, response string) error {
	if c == nil || c.Redis == nil {
		return nil
	}
	return c.Redis.Set(ctx, ResponseKey(subject, message), response, c.TTL).Err()
}

// NextTurn 递增并返回会话轮次
func (c *ChatCache) NextTurn(ctx context.Context, sessionID string) (int64, error) {
	if c == nil || c.Redis == nil {
		return 0, nil
	}
	key := fmt.Sprintf("chat:turns:%s", sessionID)
	pipe := c.Redis.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, 24*time.Hour)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}
