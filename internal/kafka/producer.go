package kafkax

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
)

// Topics used by the briefing pipeline and the data-quality audit trail.
const (
	TopicBriefings    = "briefings"
	TopicBriefingsDLQ = "briefings-dlq"
	TopicDataQuality  = "data-quality"
)

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	return &Producer{writer: &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		RequiredAcks: kafka.RequireAll,
		Balancer:     &kafka.Hash{},
	}}
}

func (p *Producer) Publish(ctx context.Context, key, value []byte) error {
	msg := kafka.Message{
		Key:   key,
		Value: value,
		Time:  time.Now(),
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *Producer) Close() error { return p.writer.Close() }
