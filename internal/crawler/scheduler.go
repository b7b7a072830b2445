package crawler

import (
	"context"
	"log"

	"webcensus/internal/events"
	"webcensus/internal/link"
	"webcensus/internal/models"
	"webcensus/internal/store"
)

// Scheduler owns the crawl frontier: the FIFO work queue, the visited set
// and the in-flight counter. Only the coordinating loop claims URLs and pops
// the queue; workers run concurrently but hand their results back over a
// channel, so no two workers can ever claim the same URL.
type Scheduler struct {
	cfg    models.CrawlConfig
	store  store.ResultStore
	worker *Worker
	pub    events.Publisher

	queue    []models.FrontierItem
	visited  map[string]bool
	inFlight int
	checked  int
}

// NewScheduler builds a scheduler for one crawl run.
func NewScheduler(cfg models.CrawlConfig, st store.ResultStore, worker *Worker, pub events.Publisher) *Scheduler {
	if pub == nil {
		pub = events.NopPublisher{}
	}
	return &Scheduler{
		cfg:     cfg,
		store:   st,
		worker:  worker,
		pub:     pub,
		visited: make(map[string]bool),
	}
}

// Run drives the crawl to completion: seeds the queue, dispatches up to the
// concurrency limit, and terminates when the queue is empty and nothing is
// in flight. The summary is computed exactly once, after termination.
// Cancelling ctx stops new dispatches; in-flight fetches finish (or time
// out) and partial results already stored remain valid.
func (s *Scheduler) Run(ctx context.Context) (models.Report, error) {
	norm, err := link.NewNormalizer(s.cfg.SeedURL)
	if err != nil {
		return models.Report{}, err
	}
	seedURL := norm.Normalize(s.cfg.SeedURL, s.cfg.SeedURL)

	seed := models.FrontierItem{URL: seedURL, Depth: 0, AssetType: models.AssetLink}
	if err := s.store.PutStub(ctx, models.ResourceRecord{
		URL:       seedURL,
		AssetType: models.AssetLink,
		IsInbound: true,
	}); err != nil {
		log.Printf("store stub error url=%s: %v", seedURL, err)
	}
	s.queue = append(s.queue, seed)

	done := make(chan Completion)
	for {
		if ctx.Err() != nil {
			s.queue = nil
		}
		s.dispatch(ctx, done)
		if s.inFlight == 0 {
			break
		}

		comp := <-done
		s.inFlight--
		s.checked++
		s.complete(ctx, comp)
	}

	// Partial results are still worth reporting after a cancellation, so
	// the summary reads with a context that survives it.
	sumCtx := context.WithoutCancel(ctx)
	report, err := Summarize(sumCtx, s.store, s.cfg.RunID, seedURL)
	if err != nil {
		return report, err
	}
	if err := s.pub.Summary(sumCtx, models.SummaryEvent{RunID: s.cfg.RunID, Report: report}); err != nil {
		log.Printf("event publish error: %v", err)
	}
	return report, ctx.Err()
}

// dispatch fills free worker slots from the queue front. Re-discoveries and
// inadmissible items are consumed without dispatch, so after it returns the
// queue is empty or every slot is busy.
func (s *Scheduler) dispatch(ctx context.Context, done chan<- Completion) {
	for s.inFlight < s.cfg.Concurrency && len(s.queue) > 0 {
		item := s.queue[0]
		s.queue = s.queue[1:]

		if s.visited[item.URL] {
			// Already claimed: remember the new referrer, skip the fetch.
			s.mergeProvenance(ctx, item)
			continue
		}
		if !s.admit(item) {
			continue
		}

		s.visited[item.URL] = true
		s.inFlight++
		go func(it models.FrontierItem) {
			done <- s.worker.Process(ctx, it)
		}(item)
	}
}

// complete folds one worker result back into scheduler state and emits the
// progress events for it.
func (s *Scheduler) complete(ctx context.Context, comp Completion) {
	if ctx.Err() == nil {
		s.queue = append(s.queue, comp.Discovered...)
	}

	if err := s.pub.Checked(ctx, models.CheckedEvent{
		RunID:       s.cfg.RunID,
		URL:         comp.Record.URL,
		Status:      comp.Record.Status,
		Inbound:     comp.Record.IsInbound,
		SourcePages: comp.Item.SourcePages,
	}); err != nil {
		log.Printf("event publish error: %v", err)
	}
	if err := s.pub.Progress(ctx, models.ProgressEvent{
		RunID:   s.cfg.RunID,
		Checked: s.checked,
		Total:   len(s.visited) + len(s.queue),
	}); err != nil {
		log.Printf("event publish error: %v", err)
	}
}

// admit decides whether a popped item may be claimed for fetching.
func (s *Scheduler) admit(item models.FrontierItem) bool {
	if item.Depth > s.cfg.MaxDepth {
		return false
	}
	if isDataURL(item.URL) && s.cfg.SkipDataImages && !isDataImage(item.URL) {
		return false
	}
	if excluded(s.cfg.ExcludePrefixes, item.URL) {
		return false
	}
	return true
}

// mergeProvenance records one more referrer for a URL that is already
// claimed or completed. This is what keeps provenance complete while the
// fetch itself happens at most once.
func (s *Scheduler) mergeProvenance(ctx context.Context, item models.FrontierItem) {
	if item.Referrer == "" {
		return
	}
	if err := s.store.AddProvenance(ctx, item.URL, item.Referrer); err != nil {
		log.Printf("store provenance error url=%s: %v", item.URL, err)
	}
}
