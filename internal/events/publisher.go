package events

import (
	"context"
	"log"

	"webcensus/internal/models"
)

// Publisher receives crawl domain events. The core emits; transports
// (console, Kafka, a future socket) live behind this interface.
type Publisher interface {
	Progress(ctx context.Context, ev models.ProgressEvent) error
	Checked(ctx context.Context, ev models.CheckedEvent) error
	Summary(ctx context.Context, ev models.SummaryEvent) error
	Close() error
}

// NopPublisher discards all events.
type NopPublisher struct{}

func (NopPublisher) Progress(context.Context, models.ProgressEvent) error { return nil }
func (NopPublisher) Checked(context.Context, models.CheckedEvent) error   { return nil }
func (NopPublisher) Summary(context.Context, models.SummaryEvent) error   { return nil }
func (NopPublisher) Close() error                                         { return nil }

// LogPublisher prints events to the process log for console consumers.
type LogPublisher struct{}

func (LogPublisher) Progress(_ context.Context, ev models.ProgressEvent) error {
	log.Printf("progress checked=%d total=%d", ev.Checked, ev.Total)
	return nil
}

func (LogPublisher) Checked(_ context.Context, ev models.CheckedEvent) error {
	scope := "outbound"
	if ev.Inbound {
		scope = "inbound"
	}
	log.Printf("checked url=%s status=%d scope=%s sources=%d", ev.URL, ev.Status, scope, len(ev.SourcePages))
	return nil
}

func (LogPublisher) Summary(_ context.Context, ev models.SummaryEvent) error {
	log.Printf("summary total=%d internal=%d external=%d",
		ev.Report.Summary.Total, ev.Report.Summary.Internal, ev.Report.Summary.External)
	return nil
}

func (LogPublisher) Close() error { return nil }
