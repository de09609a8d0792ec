package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"bhangari/internal/infrastructure/websocket"
	"bhangari/pkg/logger"
)

const DefaultChannel = "bhangari:realtime"

// LocalBroker delivers straight to sockets held by this instance.
type LocalBroker struct {
	manager *websocket.Manager
}

func NewLocalBroker(manager *websocket.Manager) *LocalBroker {
	return &LocalBroker{manager: manager}
}

func (b *LocalBroker) Publish(ctx context.Context, userID, eventType string, data interface{}) error {
	payload, err := websocket.NewEvent(eventType, data).Encode()
	if err != nil {
		return fmt.Errorf("encode %s event: %w", eventType, err)
	}
	b.manager.SendToUser(userID, payload)
	return nil
}

type envelope struct {
	UserID  string          `json:"user_id"`
	Payload json.RawMessage `json:"payload"`
}

// RedisBroker fans events out over Redis pub/sub so that whichever instance
// holds the user's socket delivers it.
type RedisBroker struct {
	client  *redis.Client
	channel string
	manager *websocket.Manager
}

func NewRedisBroker(client *redis.Client, channel string, manager *websocket.Manager) *RedisBroker {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisBroker{client: client, channel: channel, manager: manager}
}

func (b *RedisBroker) Publish(ctx context.Context, userID, eventType string, data interface{}) error {
	payload, err := websocket.NewEvent(eventType, data).Encode()
	if err != nil {
		return fmt.Errorf("encode %s event: %w", eventType, err)
	}

	msg, err := json.Marshal(envelope{UserID: userID, Payload: payload})
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, b.channel, msg).Err()
}

// Run subscribes to the channel and hands every envelope to the local
// manager until ctx is done.
func (b *RedisBroker) Run(ctx context.Context) error {
	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", b.channel, err)
	}
	logger.Info("realtime broker subscribed to %s", b.channel)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			b.dispatch(msg.Payload)
		}
	}
}

func (b *RedisBroker) dispatch(raw string) {
	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		logger.Warn("realtime broker: dropping malformed message: %v", err)
		return
	}
	if env.UserID == "" {
		return
	}
	b.manager.SendToUser(env.UserID, env.Payload)
}
