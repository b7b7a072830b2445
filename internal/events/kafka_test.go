package events_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	kgo "github.com/segmentio/kafka-go"

	"webcensus/internal/events"
	"webcensus/internal/models"
	"webcensus/mocks"
)

func TestKafkaPublisherChecked(t *testing.T) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	writer := mocks.NewMockMessageWriter(ctrl)
	pub := events.NewKafkaPublisherWithWriter(writer)

	ev := models.CheckedEvent{
		RunID:       "run-1",
		URL:         "https://ex.com/a.png",
		Status:      200,
		Inbound:     true,
		SourcePages: []string{"https://ex.com"},
	}

	writer.EXPECT().
		WriteMessages(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msgs ...kgo.Message) error {
			if len(msgs) != 1 {
				t.Fatalf("expected 1 message, got %d", len(msgs))
			}
			if string(msgs[0].Key) != ev.RunID {
				t.Fatalf("unexpected message key: %s", string(msgs[0].Key))
			}
			var env struct {
				Kind    string              `json:"kind"`
				Payload models.CheckedEvent `json:"payload"`
			}
			if err := json.Unmarshal(msgs[0].Value, &env); err != nil {
				t.Fatalf("failed to decode message: %v", err)
			}
			if env.Kind != models.EventChecked {
				t.Fatalf("unexpected kind: %s", env.Kind)
			}
			if env.Payload.URL != ev.URL || env.Payload.Status != ev.Status || !env.Payload.Inbound {
				t.Fatalf("unexpected payload: %+v", env.Payload)
			}
			return nil
		})

	if err := pub.Checked(context.Background(), ev); err != nil {
		t.Fatalf("Checked returned error: %v", err)
	}
}

func TestKafkaPublisherProgressWriteError(t *testing.T) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	writer := mocks.NewMockMessageWriter(ctrl)
	pub := events.NewKafkaPublisherWithWriter(writer)

	writer.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).Return(errors.New("write failed"))
	if err := pub.Progress(context.Background(), models.ProgressEvent{RunID: "run-err"}); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestKafkaPublisherSummaryKind(t *testing.T) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	writer := mocks.NewMockMessageWriter(ctrl)
	pub := events.NewKafkaPublisherWithWriter(writer)

	writer.EXPECT().
		WriteMessages(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msgs ...kgo.Message) error {
			var env struct {
				Kind string `json:"kind"`
			}
			if err := json.Unmarshal(msgs[0].Value, &env); err != nil {
				t.Fatalf("failed to decode message: %v", err)
			}
			if env.Kind != models.EventSummary {
				t.Fatalf("unexpected kind: %s", env.Kind)
			}
			return nil
		})

	ev := models.SummaryEvent{RunID: "run-2", Report: models.Report{Seed: "https://ex.com"}}
	if err := pub.Summary(context.Background(), ev); err != nil {
		t.Fatalf("Summary returned error: %v", err)
	}
}
