package crawler

import (
	"context"
	"log"

	"webcensus/internal/models"
	"webcensus/internal/store"
)

// maxStatusSamples bounds the example URLs kept per status bucket.
const maxStatusSamples = 5

// Summarize drains the final store state into the aggregate report: totals,
// counts per asset type, and per-status buckets with an internal/external
// split plus a bounded sample of inbound example URLs and the first page
// each was found on.
func Summarize(ctx context.Context, st store.ResultStore, runID, seed string) (models.Report, error) {
	urls, err := st.SetMembers(ctx, store.AllURLsKey)
	if err != nil {
		return models.Report{}, err
	}

	report := models.Report{
		RunID:       runID,
		Seed:        seed,
		Types:       make(map[models.AssetType]int),
		StatusCodes: make(map[int]*models.StatusBucket),
	}

	for _, u := range urls {
		rec, ok, err := st.GetRecord(ctx, u)
		if err != nil || !ok {
			log.Printf("summary read error url=%s ok=%v: %v", u, ok, err)
			continue
		}

		report.Summary.Total++
		if rec.IsInbound {
			report.Summary.Internal++
		} else {
			report.Summary.External++
		}
		report.Types[rec.AssetType]++

		bucket := report.StatusCodes[rec.Status]
		if bucket == nil {
			bucket = &models.StatusBucket{}
			report.StatusCodes[rec.Status] = bucket
		}
		bucket.Total++
		if rec.IsInbound {
			bucket.Internal++
			if len(bucket.Samples) < maxStatusSamples {
				sample := models.StatusSample{URL: u}
				if prov, err := st.Provenance(ctx, u); err == nil && len(prov) > 0 {
					sample.FoundOn = prov[0]
				}
				bucket.Samples = append(bucket.Samples, sample)
			}
		} else {
			bucket.External++
		}
	}
	return report, nil
}
