package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"bhangari/internal/domain/entity"
	"bhangari/pkg/logger"
)

// Consumer reads pickup events from Kafka in a consumer group and feeds
// them to the handlers one at a time.
type Consumer struct {
	reader   *kafkago.Reader
	handlers []Handler
}

func NewConsumer(brokers []string, topic, groupID string, handlers ...Handler) *Consumer {
	if topic == "" {
		topic = DefaultTopic
	}
	return &Consumer{
		reader: kafkago.NewReader(kafkago.ReaderConfig{
			Brokers:  brokers,
			Topic:    topic,
			GroupID:  groupID,
			MinBytes: 1,
			MaxBytes: 10e6,
		}),
		handlers: handlers,
	}
}

// Start blocks until ctx is done.
func (c *Consumer) Start(ctx context.Context) error {
	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			logger.Error("kafka read error: %v", err)
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
				return nil
			}
			continue
		}

		event, err := decode(m.Value)
		if err != nil {
			logger.Warn("skipping malformed pickup event at offset %d: %v", m.Offset, err)
			continue
		}
		dispatch(ctx, c.handlers, event)
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}

func decode(value []byte) (entity.PickupEvent, error) {
	var event entity.PickupEvent
	err := json.Unmarshal(value, &event)
	return event, err
}
