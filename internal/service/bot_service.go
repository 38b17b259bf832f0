package service

import (
	"context"
	"fmt"
	"time"

	"github.com/icognita1702/festalog/internal/domain"
	"github.com/icognita1702/festalog/pkg/logger"
)

// Small internal interfaces so we can test without the real gateway/Redis.
type replyEngine interface {
	Reply(ctx context.Context, sender, message string) string
}

type gatewayClient interface {
	SendText(ctx context.Context, phoneNumber, text string) (bool, error)
}

type redisClient interface {
	CacheSentReply(ctx context.Context, phoneNumber, reply string, sentAt time.Time) error
	GetAllCachedReplies(ctx context.Context) (map[string]*domain.SentReplyCache, error)
}

// BotService runs the bot pipeline for one inbound message: compute the
// reply, deliver it through the gateway, cache it for the dashboard.
type BotService struct {
	engine  replyEngine
	gateway gatewayClient
	redis   redisClient
}

func NewBotService(engine replyEngine, gateway gatewayClient, redis redisClient) *BotService {
	return &BotService{
		engine:  engine,
		gateway: gateway,
		redis:   redis,
	}
}

// HandleIncoming computes and delivers exactly one reply for the message.
// The reply text is always returned, even when delivery failed.
func (s *BotService) HandleIncoming(ctx context.Context, msg domain.InboundMessage) (string, error) {
	reply := s.engine.Reply(ctx, msg.SenderNumber, msg.Text)

	ok, err := s.gateway.SendText(ctx, msg.SenderNumber, reply)
	if err != nil {
		logger.Errorf("Failed to deliver reply to %s: %v", msg.SenderNumber, err)
		return reply, fmt.Errorf("failed to deliver reply: %w", err)
	}
	if !ok {
		logger.Errorf("Gateway refused reply to %s", msg.SenderNumber)
		return reply, fmt.Errorf("gateway refused reply")
	}

	if s.redis != nil {
		if err := s.redis.CacheSentReply(ctx, msg.SenderNumber, reply, time.Now()); err != nil {
			logger.Warnf("Failed to cache reply for %s: %v", msg.SenderNumber, err)
		}
	}

	logger.Infof("Replied to %s (%d chars)", msg.SenderNumber, len(reply))

	return reply, nil
}

// SendTest delivers an arbitrary text, used by the dashboard test-send.
func (s *BotService) SendTest(ctx context.Context, phoneNumber, text string) error {
	ok, err := s.gateway.SendText(ctx, phoneNumber, text)
	if err != nil {
		return fmt.Errorf("failed to send test message: %w", err)
	}
	if !ok {
		return fmt.Errorf("gateway refused test message")
	}
	return nil
}

func (s *BotService) GetCachedReplies(ctx context.Context) (map[string]*domain.SentReplyCache, error) {
	if s.redis == nil {
		return nil, fmt.Errorf("redis client not configured")
	}
	return s.redis.GetAllCachedReplies(ctx)
}
