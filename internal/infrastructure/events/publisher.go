package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"bhangari/internal/domain/entity"
	"bhangari/pkg/logger"
)

const DefaultTopic = "pickup-events"

// Handler consumes one pickup event.
type Handler func(ctx context.Context, event entity.PickupEvent) error

// KafkaPublisher writes pickup events keyed by request id, so every event
// of one request lands on the same partition in order.
type KafkaPublisher struct {
	writer *kafkago.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	if topic == "" {
		topic = DefaultTopic
	}
	return &KafkaPublisher{
		writer: &kafkago.Writer{
			Addr:                   kafkago.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafkago.Hash{},
			RequiredAcks:           kafkago.RequireAll,
			AllowAutoTopicCreation: true,
			BatchTimeout:           50 * time.Millisecond,
		},
	}
}

func (p *KafkaPublisher) PublishPickupEvent(ctx context.Context, event entity.PickupEvent) error {
	msg, err := encode(event)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish pickup event %s: %w", event.RequestID, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func encode(event entity.PickupEvent) (kafkago.Message, error) {
	b, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("encode pickup event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.RequestID),
		Value: b,
		Time:  event.OccurredAt,
	}, nil
}

// InProcessPublisher runs the handlers in a goroutine instead of going
// through a broker. It is used when no Kafka brokers are configured.
type InProcessPublisher struct {
	handlers []Handler
	timeout  time.Duration
}

func NewInProcessPublisher(handlers ...Handler) *InProcessPublisher {
	return &InProcessPublisher{handlers: handlers, timeout: 10 * time.Second}
}

func (p *InProcessPublisher) PublishPickupEvent(_ context.Context, event entity.PickupEvent) error {
	go func() {
		// detached from the request context, which ends with the response
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		defer cancel()
		dispatch(ctx, p.handlers, event)
	}()
	return nil
}

func dispatch(ctx context.Context, handlers []Handler, event entity.PickupEvent) {
	for _, h := range handlers {
		if err := h(ctx, event); err != nil {
			logger.Error("pickup event handler failed for %s (%s): %v", event.RequestID, event.To, err)
		}
	}
}
