package events

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/allkinds24/allkinds-backend/internal/domain"
	"go.uber.org/zap"
)

// Bus publishes domain events on an in-process watermill pub/sub. External
// collectors (metrics, audit) subscribe by topic; the core only emits.
type Bus struct {
	pubSub *gochannel.GoChannel
	logger *zap.Logger
}

func NewBus(logger *zap.Logger) *Bus {
	watermillLogger := watermill.NewStdLogger(false, false)
	return &Bus{
		pubSub: gochannel.NewGoChannel(gochannel.Config{}, watermillLogger),
		logger: logger,
	}
}

// Publish is fire-and-forget: a failed publish is logged, never propagated,
// so observability cannot fail a user operation.
func (b *Bus) Publish(event domain.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("marshal event", zap.String("topic", event.EventTopic()), zap.Error(err))
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("topic", event.EventTopic())
	msg.Metadata.Set("occurred_at", event.OccurredAt().Format("2006-01-02T15:04:05Z07:00"))

	if err := b.pubSub.Publish(event.EventTopic(), msg); err != nil {
		b.logger.Error("publish event", zap.String("topic", event.EventTopic()), zap.Error(err))
	}
}

func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return b.pubSub.Subscribe(ctx, topic)
}

func (b *Bus) Close() error {
	return b.pubSub.Close()
}

// LogConsumer drains the given topics into the structured log. It stands in
// for an external collector and demonstrates the subscriber side of the bus.
func LogConsumer(ctx context.Context, bus *Bus, logger *zap.Logger, topics ...string) error {
	for _, topic := range topics {
		messages, err := bus.Subscribe(ctx, topic)
		if err != nil {
			return err
		}
		go func(topic string, messages <-chan *message.Message) {
			for msg := range messages {
				logger.Info("event",
					zap.String("topic", topic),
					zap.ByteString("payload", msg.Payload),
				)
				msg.Ack()
			}
		}(topic, messages)
	}
	return nil
}
