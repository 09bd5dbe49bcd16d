package events

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

//go:generate mockgen -destination=../../mocks/mock_message_writer.go -package=mocks -mock_names=MessageWriter=MockMessageWriter . MessageWriter

const (
	JobCreated     = "job.created"
	JobUpdated     = "job.updated"
	JobDeactivated = "job.deactivated"
	JobDeleted     = "job.deleted"
	JobsScraped    = "jobs.scraped"
)

// JobEvent is published whenever the listing set changes.
type JobEvent struct {
	Type       string    `json:"type"`
	JobID      uuid.UUID `json:"jobId,omitempty"`
	Title      string    `json:"title,omitempty"`
	Department string    `json:"department,omitempty"`
	Count      int       `json:"count,omitempty"`
	At         time.Time `json:"at"`
}

type Publisher interface {
	PublishJobEvent(ctx context.Context, ev JobEvent) error
	Close() error
}

// MessageWriter is the subset of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// publishTimeout caps how long a listing write waits on the broker.
const publishTimeout = 2 * time.Second

type KafkaPublisher struct {
	writer  MessageWriter
	timeout time.Duration
}

// NewPublisher returns a Kafka publisher, or a no-op one when broker is empty.
func NewPublisher(broker, topic string) Publisher {
	broker = strings.TrimSpace(broker)
	if broker == "" {
		return NoopPublisher{}
	}
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(strings.Split(broker, ",")...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: false,
			BatchTimeout:           50 * time.Millisecond,
			WriteTimeout:           publishTimeout,
			MaxAttempts:            3,
		},
		timeout: publishTimeout,
	}
}

// NewPublisherWithWriter builds a publisher on a custom writer (tests).
func NewPublisherWithWriter(writer MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: writer, timeout: publishTimeout}
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// PublishJobEvent keys messages by job id so events for one job stay ordered
// within a partition.
func (p *KafkaPublisher) PublishJobEvent(ctx context.Context, ev JobEvent) error {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	key := ev.Type
	if ev.JobID != uuid.Nil {
		key = ev.JobID.String()
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: payload,
		Time:  ev.At,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(ev.Type)},
		},
	})
}

type NoopPublisher struct{}

func (NoopPublisher) PublishJobEvent(context.Context, JobEvent) error { return nil }
func (NoopPublisher) Close() error                                    { return nil }
