package service

import (
	"context"
	"encoding/json"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/flashmind-analytics-api/internal/dto"
)

// DashboardEventPublisher announces freshly computed dashboards.
type DashboardEventPublisher interface {
	PublishDashboardComputed(ctx context.Context, event dto.DashboardComputedEvent) error
}

// BroadcastPublisher fans dashboard events out to NATS and Redis pub/sub.
// Either transport may be nil.
type BroadcastPublisher struct {
	nats    *nats.Conn
	redis   *redis.Client
	subject string
}

// NewBroadcastPublisher returns nil when no transport or subject is configured.
func NewBroadcastPublisher(natsConn *nats.Conn, redisClient *redis.Client, subject string) *BroadcastPublisher {
	if subject == "" || (natsConn == nil && redisClient == nil) {
		return nil
	}
	return &BroadcastPublisher{nats: natsConn, redis: redisClient, subject: subject}
}

// PublishDashboardComputed marshals the event once and sends it on every transport.
func (p *BroadcastPublisher) PublishDashboardComputed(ctx context.Context, event dto.DashboardComputedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if p.redis != nil {
		if err := p.redis.Publish(ctx, p.subject, payload).Err(); err != nil {
			return err
		}
	}

	if p.nats != nil {
		if err := p.nats.Publish(p.subject, payload); err != nil {
			return err
		}
	}

	return nil
}
