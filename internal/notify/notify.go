// Package notify delivers push notifications to customers without ever
// holding up the request that triggered them.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/BruksfildServices01/hyperlocal-booking/internal/queue"
)

type Notification struct {
	UserID uuid.UUID         `json:"user_id"`
	Title  string            `json:"title"`
	Body   string            `json:"body"`
	Data   map[string]string `json:"data,omitempty"`
	SentAt time.Time         `json:"sent_at"`
}

type Sender interface {
	Send(ctx context.Context, n Notification) error
}

// RedisPublisher hands notifications to the push gateway over redis Pub/Sub.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel}
}

func (p *RedisPublisher) Send(ctx context.Context, n Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	return p.client.Publish(ctx, p.channel, payload).Err()
}

// LogSender is used when no redis is configured.
type LogSender struct{}

func (LogSender) Send(_ context.Context, n Notification) error {
	log.Info().
		Str("user_id", n.UserID.String()).
		Str("title", n.Title).
		Msg("notification")
	return nil
}

const sendTimeout = 5 * time.Second

type Dispatcher struct {
	queue *queue.Queue[Notification]
}

func NewDispatcher(sender Sender, size int) *Dispatcher {
	return &Dispatcher{
		queue: queue.New("notifications", size, func(n Notification) {
			ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
			defer cancel()
			if err := sender.Send(ctx, n); err != nil {
				log.Warn().Err(err).Str("user_id", n.UserID.String()).Msg("notification failed")
			}
		}),
	}
}

// Notify queues n and returns immediately; a full queue drops it.
func (d *Dispatcher) Notify(n Notification) {
	if n.SentAt.IsZero() {
		n.SentAt = time.Now().UTC()
	}
	d.queue.Push(n)
}

func (d *Dispatcher) Close() {
	d.queue.Close()
}
