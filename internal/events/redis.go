package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/isdelr/social-be/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// streamMaxLen caps the stream so it does not grow without bound.
const streamMaxLen = 10000

// RedisStream appends events to a Redis stream so other processes can consume them.
type RedisStream struct {
	client *redis.Client
	stream string
}

// NewRedisStream connects to Redis at addr and checks the connection.
func NewRedisStream(ctx context.Context, addr, stream string) (*RedisStream, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	log.Info().Str("addr", addr).Str("stream", stream).Msg("Connected to redis")

	return &RedisStream{client: client, stream: stream}, nil
}

// Publish implements Publisher with XADD.
func (r *RedisStream) Publish(ctx context.Context, event models.Event) error {
	values, err := streamValues(event)
	if err != nil {
		return err
	}
	return r.client.XAdd(ctx, &redis.XAddArgs{
		Stream: r.stream,
		MaxLen: streamMaxLen,
		Approx: true,
		Values: values,
	}).Err()
}

// Close releases the underlying connection pool.
func (r *RedisStream) Close() error {
	return r.client.Close()
}

func streamValues(event models.Event) (map[string]interface{}, error) {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s payload: %w", event.Type, err)
	}
	return map[string]interface{}{
		"id":         event.ID,
		"type":       event.Type,
		"payload":    string(payload),
		"created_at": event.CreatedAt.Format(time.RFC3339Nano),
	}, nil
}
