package events_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	kgo "github.com/segmentio/kafka-go"

	"govtjobs/internal/infrastructure/events"
	"govtjobs/internal/mocks"
)

func TestPublishJobEvent(t *testing.T) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	writer := mocks.NewMockMessageWriter(ctrl)
	pub := events.NewPublisherWithWriter(writer)

	ev := events.JobEvent{Type: events.JobCreated, JobID: uuid.New(), Title: "Station Master", Department: "Indian Railways"}

	writer.EXPECT().
		WriteMessages(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msgs ...kgo.Message) error {
			if len(msgs) != 1 {
				t.Fatalf("expected 1 message, got %d", len(msgs))
			}
			if string(msgs[0].Key) != ev.JobID.String() {
				t.Fatalf("unexpected key %s", msgs[0].Key)
			}
			if len(msgs[0].Headers) != 1 || string(msgs[0].Headers[0].Value) != events.JobCreated {
				t.Fatalf("unexpected headers %+v", msgs[0].Headers)
			}
			var got events.JobEvent
			if err := json.Unmarshal(msgs[0].Value, &got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got.JobID != ev.JobID || got.Type != ev.Type || got.At.IsZero() {
				t.Fatalf("unexpected payload %+v", got)
			}
			return nil
		})

	if err := pub.PublishJobEvent(context.Background(), ev); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestPublishJobEvent_KeyFallsBackToType(t *testing.T) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	writer := mocks.NewMockMessageWriter(ctrl)
	writer.EXPECT().
		WriteMessages(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msgs ...kgo.Message) error {
			if string(msgs[0].Key) != events.JobsScraped {
				t.Fatalf("unexpected key %s", msgs[0].Key)
			}
			return errors.New("broker down")
		})

	err := events.NewPublisherWithWriter(writer).PublishJobEvent(context.Background(), events.JobEvent{Type: events.JobsScraped, Count: 5})
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestNewPublisher_NoBrokerIsNoop(t *testing.T) {
	pub := events.NewPublisher("  ", "topic")
	if _, ok := pub.(events.NoopPublisher); !ok {
		t.Fatalf("expected noop publisher, got %T", pub)
	}
	if err := pub.PublishJobEvent(context.Background(), events.JobEvent{Type: events.JobDeleted}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestPublishJobEvent_BoundsBrokerWait(t *testing.T) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	writer := mocks.NewMockMessageWriter(ctrl)
	writer.EXPECT().
		WriteMessages(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ ...kgo.Message) error {
			deadline, ok := ctx.Deadline()
			if !ok || time.Until(deadline) > 2*time.Second {
				t.Fatalf("expected a deadline within 2s, got %v ok=%v", deadline, ok)
			}
			<-ctx.Done()
			return ctx.Err()
		})

	start := time.Now()
	err := events.NewPublisherWithWriter(writer).PublishJobEvent(context.Background(), events.JobEvent{Type: events.JobUpdated, JobID: uuid.New()})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Fatalf("publish blocked for %v", time.Since(start))
	}
}
