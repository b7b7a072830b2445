package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"webcensus/internal/models"
)

// envelope wraps every event with its kind so consumers can route without
// trying each payload shape.
type envelope struct {
	Kind    string `json:"kind"`
	Payload any    `json:"payload"`
}

// KafkaPublisher streams crawl events to a Kafka topic, keyed by run ID so
// one run's events land on one partition in order.
type KafkaPublisher struct {
	writer MessageWriter
}

// NewKafkaPublisher creates a publisher for the given broker and topic.
func NewKafkaPublisher(broker, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(broker),
			Topic:                  topic,
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: true,
		},
	}
}

// NewKafkaPublisherWithWriter builds a publisher using a custom writer (tests).
func NewKafkaPublisherWithWriter(writer MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: writer}
}

// Close shuts down the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func (p *KafkaPublisher) Progress(ctx context.Context, ev models.ProgressEvent) error {
	return p.publish(ctx, ev.RunID, models.EventProgress, ev)
}

func (p *KafkaPublisher) Checked(ctx context.Context, ev models.CheckedEvent) error {
	return p.publish(ctx, ev.RunID, models.EventChecked, ev)
}

func (p *KafkaPublisher) Summary(ctx context.Context, ev models.SummaryEvent) error {
	return p.publish(ctx, ev.RunID, models.EventSummary, ev)
}

func (p *KafkaPublisher) publish(ctx context.Context, runID, kind string, payload any) error {
	value, err := json.Marshal(envelope{Kind: kind, Payload: payload})
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   []byte(runID),
		Value: value,
		Time:  time.Now().UTC(),
	}
	return p.writer.WriteMessages(ctx, msg)
}
