// Package crawler implements the crawl engine: the frontier scheduler, the
// fetch-and-extract workers and the summary aggregation over the result
// store.
package crawler

import (
	"context"

	"webcensus/internal/events"
	"webcensus/internal/link"
	"webcensus/internal/models"
	"webcensus/internal/store"
)

// Crawl runs one complete crawl against the given store and event publisher
// and returns the final report.
func Crawl(ctx context.Context, cfg models.CrawlConfig, st store.ResultStore, pub events.Publisher) (models.Report, error) {
	if err := cfg.Validate(); err != nil {
		return models.Report{}, err
	}
	norm, err := link.NewNormalizer(cfg.SeedURL)
	if err != nil {
		return models.Report{}, err
	}
	fetch := NewFetcher(cfg.RequestTimeout, cfg.UserAgent)
	worker := NewWorker(cfg, fetch, st, norm)
	return NewScheduler(cfg, st, worker, pub).Run(ctx)
}
