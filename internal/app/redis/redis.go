package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"procurement/internal/app/config"

	"github.com/go-redis/redis/v8"
)

const servicePrefix = "procurement."

type Client struct {
	cfg    config.RedisConfig
	client *redis.Client
}

func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	client := &Client{}

	client.cfg = cfg

	redisClient := redis.NewClient(&redis.Options{
		Password:    cfg.Password,
		Username:    cfg.User,
		Addr:        cfg.Host + ":" + strconv.Itoa(cfg.Port),
		DB:          0,
		DialTimeout: cfg.DialTimeout,
		ReadTimeout: cfg.ReadTimeout,
	})

	client.client = redisClient

	if _, err := redisClient.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("cant ping redis: %w", err)
	}

	return client, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

// LoadExtraction отдает закэшированный результат распознавания документа
func (c *Client) LoadExtraction(ctx context.Context, digest string) ([]byte, bool, error) {
	payload, err := c.client.Get(ctx, extractionKey(digest)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	return payload, true, nil
}

func (c *Client) StoreExtraction(ctx context.Context, digest string, payload []byte) error {
	if err := c.client.Set(ctx, extractionKey(digest), payload, c.cfg.ExtractionTTL).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func extractionKey(digest string) string {
	return servicePrefix + "extraction." + digest
}
