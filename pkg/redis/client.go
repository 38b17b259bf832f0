package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/icognita1702/festalog/environments"
	"github.com/icognita1702/festalog/internal/domain"
	"github.com/icognita1702/festalog/pkg/logger"
)

type Client struct {
	client valkey.Client
}

const (
	sentReplyKeyPrefix = "bot_reply:"
	sentReplyTTL       = 24 * time.Hour
)

func NewRedisClient(cfg environments.RedisConfig) (*Client, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)},
		Password:    cfg.Password,
		SelectDB:    cfg.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Valkey client: %w", err)
	}

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()

		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Infof("Connected to Redis (via Valkey client)")

	return &Client{client: client}, nil
}

// CacheSentReply stores the last reply delivered to a sender so the
// dashboard conversation view can show it without hitting the gateway.
func (c *Client) CacheSentReply(ctx context.Context, phoneNumber, reply string, sentAt time.Time) error {
	cache := domain.SentReplyCache{
		Reply:  reply,
		SentAt: sentAt,
	}

	data, err := json.Marshal(cache)
	if err != nil {
		return fmt.Errorf("failed to marshal cache data: %w", err)
	}

	key := sentReplyKeyPrefix + phoneNumber

	err = c.client.Do(ctx, c.client.B().Set().Key(key).Value(string(data)).Ex(sentReplyTTL).Build()).Error()
	if err != nil {
		return fmt.Errorf("failed to cache sent reply: %w", err)
	}

	logger.Debugf("Cached reply for %s in Redis", phoneNumber)

	return nil
}

func (c *Client) GetCachedReply(ctx context.Context, phoneNumber string) (*domain.SentReplyCache, error) {
	key := sentReplyKeyPrefix + phoneNumber

	result := c.client.Do(ctx, c.client.B().Get().Key(key).Build())
	if result.Error() != nil {
		if valkey.IsValkeyNil(result.Error()) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cached reply: %w", result.Error())
	}

	data, err := result.ToString()
	if err != nil {
		return nil, fmt.Errorf("failed to read cached reply: %w", err)
	}

	var cache domain.SentReplyCache
	if err := json.Unmarshal([]byte(data), &cache); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache data: %w", err)
	}

	return &cache, nil
}

// GetAllCachedReplies scans every cached reply, keyed by sender phone.
func (c *Client) GetAllCachedReplies(ctx context.Context) (map[string]*domain.SentReplyCache, error) {
	pattern := sentReplyKeyPrefix + "*"

	var keys []string
	var cursor uint64
	for {
		result := c.client.Do(ctx, c.client.B().Scan().Cursor(cursor).Match(pattern).Count(100).Build())
		if result.Error() != nil {
			return nil, fmt.Errorf("failed to scan cache keys: %w", result.Error())
		}

		scanResult, err := result.AsScanEntry()
		if err != nil {
			return nil, fmt.Errorf("failed to parse scan result: %w", err)
		}

		keys = append(keys, scanResult.Elements...)
		cursor = scanResult.Cursor

		if cursor == 0 {
			break
		}
	}

	replies := make(map[string]*domain.SentReplyCache)

	for _, key := range keys {
		getResult := c.client.Do(ctx, c.client.B().Get().Key(key).Build())
		if getResult.Error() != nil {
			continue
		}

		data, err := getResult.ToString()
		if err != nil {
			continue
		}

		var cache domain.SentReplyCache
		if err := json.Unmarshal([]byte(data), &cache); err != nil {
			continue
		}

		phone := key[len(sentReplyKeyPrefix):]
		replies[phone] = &cache
	}

	return replies, nil
}

func (c *Client) Close() error {
	c.client.Close()
	return nil
}

func (c *Client) Ping(ctx context.Context) error {
	return c.client.Do(ctx, c.client.B().Ping().Build()).Error()
}
