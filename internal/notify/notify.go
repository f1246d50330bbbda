// Package notify hands newly emitted insights to delivery surfaces.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/blaisecz/insight-engine/internal/domain"
	"github.com/blaisecz/insight-engine/internal/logger"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// Publisher announces insights. Publication is best-effort: the insight is
// already persisted and delivery surfaces can always poll the due listing.
type Publisher interface {
	Publish(ctx context.Context, insight *domain.Insight) error
}

// Message is the payload published for each emitted insight.
type Message struct {
	Event        string               `json:"event"`
	InsightID    uuid.UUID            `json:"insight_id"`
	UserID       uuid.UUID            `json:"user_id"`
	Type         domain.InsightType   `json:"insight_type"`
	Priority     domain.Priority      `json:"priority"`
	Title        string               `json:"title"`
	DeliveryTime time.Time            `json:"delivery_time"`
	Status       domain.InsightStatus `json:"status"`
}

func NewMessage(insight *domain.Insight) Message {
	return Message{
		Event:        "insight.created",
		InsightID:    insight.ID,
		UserID:       insight.UserID,
		Type:         insight.Type,
		Priority:     insight.Priority,
		Title:        insight.Title,
		DeliveryTime: insight.DeliveryTime.UTC(),
		Status:       insight.Status,
	}
}

type redisPublisher struct {
	log     *logger.Logger
	rdb     goredis.UniversalClient
	channel string
}

func NewRedisPublisher(log *logger.Logger, rdb goredis.UniversalClient, channel string) Publisher {
	if channel == "" {
		channel = "pie:insights"
	}
	return &redisPublisher{
		log:     log.With("component", "RedisPublisher"),
		rdb:     rdb,
		channel: channel,
	}
}

func (p *redisPublisher) Publish(ctx context.Context, insight *domain.Insight) error {
	raw, err := json.Marshal(NewMessage(insight))
	if err != nil {
		return err
	}
	if err := p.rdb.Publish(ctx, p.channel, raw).Err(); err != nil {
		return fmt.Errorf("publish insight %s: %w", insight.ID, err)
	}
	p.log.Debug("Published insight", "insight_id", insight.ID, "channel", p.channel)
	return nil
}

type noop struct{}

// Noop drops every message.
func Noop() Publisher { return noop{} }

func (noop) Publish(context.Context, *domain.Insight) error { return nil }
