package kafkax

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

type Consumer struct {
	reader *kafka.Reader
}

func NewConsumer(brokers []string, group, topic string) *Consumer {
	return &Consumer{reader: kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		GroupID:  group,
		Topic:    topic,
		MinBytes: 1,
		MaxBytes: 10e6,
	})}
}

func (c *Consumer) Fetch(ctx context.Context) (kafka.Message, error) {
	return c.reader.FetchMessage(ctx)
}

func (c *Consumer) Commit(ctx context.Context, m kafka.Message) error {
	return c.reader.CommitMessages(ctx, m)
}

func (c *Consumer) Close() error { return c.reader.Close() }

// BriefingEvent is the payload published to the briefings topic and
// consumed by the mail dispatcher.
type BriefingEvent struct {
	Type      string `json:"type"` // "daily_briefing"
	Date      string `json:"date"` // YYYY-MM-DD
	Recipient string `json:"recipient"`
	Body      string `json:"body"`
}

// QualityEvent records one data-quality warning for the operator audit
// trail on the data-quality topic.
type QualityEvent struct {
	Type          string    `json:"type"` // "data_quality"
	ReservationID string    `json:"reservation_id"`
	Reason        string    `json:"reason"`
	At            time.Time `json:"at"`
}

func ParseBriefingEvent(b []byte) (BriefingEvent, error) {
	var e BriefingEvent
	err := json.Unmarshal(b, &e)
	return e, err
}
