package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/BigManDrewskii/greekgpt/config"
	"github.com/BigManDrewskii/greekgpt/models"
)

// Chatbot configs change rarely, so a short TTL is enough even without
// perfect invalidation.
const chatbotTTL = 10 * time.Minute

// ChatbotCache is an optional Redis-backed cache for chatbot records.
// A nil *ChatbotCache is valid and behaves as a cache that always misses,
// so callers never need to branch on whether Redis is configured.
type ChatbotCache struct {
	client *redis.Client
}

// New connects to Redis if the cache is enabled in configuration. It
// returns nil (no cache) when disabled or when Redis is unreachable; the
// application degrades to plain database reads.
func New(cfg config.RedisConfig) *ChatbotCache {
	if !cfg.Enabled {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("WARN: [Cache] Redis at '%s' unreachable (%v). Running without chatbot cache.", cfg.Addr, err)
		return nil
	}
	log.Printf("INFO: [Cache] Connected to Redis at '%s'.", cfg.Addr)
	return &ChatbotCache{client: client}
}

func chatbotKey(id uint) string {
	return fmt.Sprintf("chatbot:%d", id)
}

// GetChatbot returns the cached chatbot and true on a hit.
func (c *ChatbotCache) GetChatbot(ctx context.Context, id uint) (*models.Chatbot, bool) {
	if c == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, chatbotKey(id)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("WARN: [Cache] Failed to read chatbot %d from cache: %v", id, err)
		}
		return nil, false
	}
	var chatbot models.Chatbot
	if err := json.Unmarshal(data, &chatbot); err != nil {
		log.Printf("WARN: [Cache] Corrupt cache entry for chatbot %d, dropping it: %v", id, err)
		c.client.Del(ctx, chatbotKey(id))
		return nil, false
	}
	return &chatbot, true
}

// SetChatbot stores the chatbot with a fixed TTL. Errors are logged only;
// the cache is best-effort.
func (c *ChatbotCache) SetChatbot(ctx context.Context, chatbot *models.Chatbot) {
	if c == nil || chatbot == nil {
		return
	}
	data, err := json.Marshal(chatbot)
	if err != nil {
		log.Printf("WARN: [Cache] Failed to marshal chatbot %d for cache: %v", chatbot.ID, err)
		return
	}
	if err := c.client.Set(ctx, chatbotKey(chatbot.ID), data, chatbotTTL).Err(); err != nil {
		log.Printf("WARN: [Cache] Failed to cache chatbot %d: %v", chatbot.ID, err)
	}
}

// InvalidateChatbot drops the cache entry after an update.
func (c *ChatbotCache) InvalidateChatbot(ctx context.Context, id uint) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, chatbotKey(id)).Err(); err != nil {
		log.Printf("WARN: [Cache] Failed to invalidate chatbot %d: %v", id, err)
	}
}
