package kafka

import (
	"context"

	"analog-alley-be/internal/messaging"

	kafkaGo "github.com/segmentio/kafka-go"
)

type publisher struct {
	writer *kafkaGo.Writer
}

// NewPublisher builds a Kafka-backed publisher. The writer is reused
// across Publish calls and flushed on Close.
func NewPublisher(brokers []string, topic string) messaging.Publisher {
	return &publisher{
		writer: &kafkaGo.Writer{
			Addr:     kafkaGo.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafkaGo.LeastBytes{},
		},
	}
}

func (p *publisher) Publish(ctx context.Context, key string, value []byte) error {
	return p.writer.WriteMessages(ctx, kafkaGo.Message{
		Key:   []byte(key),
		Value: value,
	})
}

func (p *publisher) Close() error {
	return p.writer.Close()
}
