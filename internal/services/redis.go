package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

// ParcelUpdatesChannel is the pub/sub channel parcel events travel on, so
// every API instance can feed its own websocket subscribers.
const ParcelUpdatesChannel = "parcel:updates"

// InitRedis parses redisURL and verifies the connection.
func InitRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

// RedisPublisher publishes parcel events on ParcelUpdatesChannel.
type RedisPublisher struct {
	client *redis.Client
}

func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

func (p *RedisPublisher) Publish(ctx context.Context, event ParcelEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, ParcelUpdatesChannel, data).Err()
}

// RelayParcelEvents forwards events from ParcelUpdatesChannel into hub until
// ctx is cancelled.
func RelayParcelEvents(ctx context.Context, client *redis.Client, hub *Hub) {
	sub := client.Subscribe(ctx, ParcelUpdatesChannel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var event ParcelEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Printf("Error unmarshaling parcel event: %v", err)
				continue
			}
			deliver(hub, event)
		}
	}
}
