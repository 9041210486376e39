package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	TypeQuoteSubmitted     = "quote_request.submitted"
	TypeQuoteStatusChanged = "quote_request.status_changed"
)

// QuoteEvent is the message written to the quote events topic
type QuoteEvent struct {
	Type       string    `json:"type"`
	RequestID  string    `json:"request_id"`
	MerchantID string    `json:"merchant_id"`
	Status     string    `json:"status"`
	ItemCount  int       `json:"item_count,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher delivers quote events to downstream consumers
type Publisher interface {
	Publish(ctx context.Context, event QuoteEvent) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
}

// NewKafkaPublisher writes to topic, hashing on the merchant id so one merchant's events stay ordered
func NewKafkaPublisher(brokers []string, topic string, writeTimeout time.Duration) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			WriteTimeout:           writeTimeout,
			BatchTimeout:           10 * time.Millisecond,
			AllowAutoTopicCreation: true,
		},
	}
}

func (k *KafkaPublisher) Publish(ctx context.Context, event QuoteEvent) error {
	msg, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event.Type, err)
	}

	return k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.MerchantID),
		Value: msg,
		Time:  event.OccurredAt,
	})
}

func (k *KafkaPublisher) Close() error {
	return k.writer.Close()
}

// NoopPublisher drops every event. Used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, QuoteEvent) error { return nil }

func (NoopPublisher) Close() error { return nil }
