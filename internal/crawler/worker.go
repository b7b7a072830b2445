package crawler

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"webcensus/internal/link"
	"webcensus/internal/models"
	"webcensus/internal/store"
)

// Worker fetches one claimed URL, persists its record and provenance, and
// reports newly discovered references back to the scheduler.
type Worker struct {
	cfg   models.CrawlConfig
	fetch *Fetcher
	store store.ResultStore
	norm  *link.Normalizer
}

// NewWorker wires a worker against the run's config, fetcher and store.
func NewWorker(cfg models.CrawlConfig, fetch *Fetcher, st store.ResultStore, norm *link.Normalizer) *Worker {
	return &Worker{cfg: cfg, fetch: fetch, store: st, norm: norm}
}

// Completion is what one processed frontier item yields: the final record
// and the references discovered inside it.
type Completion struct {
	Item       models.FrontierItem
	Record     models.ResourceRecord
	Discovered []models.FrontierItem
}

// Process handles one frontier item end to end. The item's own record is
// persisted before any child stub is written or returned, so a concurrent
// re-discovery of this URL mid-extraction already sees it claimed.
func (w *Worker) Process(ctx context.Context, item models.FrontierItem) Completion {
	if isDataImage(item.URL) && w.cfg.SkipDataImages {
		rec := models.ResourceRecord{
			URL:       item.URL,
			Status:    http.StatusOK,
			Depth:     item.Depth,
			AssetType: models.AssetImage,
			IsInbound: true,
			CheckedAt: time.Now().UTC(),
		}
		w.persist(ctx, rec, item)
		return Completion{Item: item, Record: rec}
	}

	inbound := link.Inbound(w.norm.Host(), item.URL)
	method := http.MethodHead
	if item.AssetType == models.AssetLink {
		method = http.MethodGet
	}

	res, err := w.fetch.Do(ctx, item.URL, method)

	// A cheap existence check that turns out to be an inbound HTML page
	// within depth is worth a full fetch so its links get extracted.
	if err == nil && method == http.MethodHead && isHTML(res.ContentType) && inbound && item.Depth < w.cfg.MaxDepth {
		method = http.MethodGet
		res, err = w.fetch.Do(ctx, item.URL, method)
	}

	rec := models.ResourceRecord{
		URL:         item.URL,
		Status:      res.Status,
		ContentType: res.ContentType,
		FinalURL:    res.FinalURL,
		IsRedirect:  res.Redirected,
		Depth:       item.Depth,
		AssetType:   item.AssetType,
		IsInbound:   inbound,
		CheckedAt:   time.Now().UTC(),
	}
	if err != nil {
		// Terminal for this URL: no retry, the crawl moves on.
		rec.Error = err.Error()
		rec.FinalURL = ""
		rec.IsRedirect = false
	}
	if rec.FinalURL == "" {
		rec.FinalURL = item.URL
	}
	w.persist(ctx, rec, item)

	if err != nil || !isHTML(res.ContentType) || !inbound || item.Depth >= w.cfg.MaxDepth {
		return Completion{Item: item, Record: rec}
	}
	return Completion{Item: item, Record: rec, Discovered: w.discover(ctx, item, res.Body)}
}

// discover extracts, normalizes and classifies the references in a fetched
// page, writes their stubs and provenance, and returns the frontier items.
func (w *Worker) discover(ctx context.Context, item models.FrontierItem, body []byte) []models.FrontierItem {
	refs, err := ExtractRefs(body)
	if err != nil {
		log.Printf("parse error url=%s: %v", item.URL, err)
		return nil
	}

	sources := make([]string, 0, len(item.SourcePages)+1)
	sources = append(sources, item.SourcePages...)
	sources = append(sources, item.URL)

	var out []models.FrontierItem
	seen := make(map[string]bool)
	for _, ref := range refs {
		if skipRef(ref) {
			continue
		}
		target := w.norm.Normalize(ref.Target, item.URL)
		if target == "" || seen[target] {
			continue
		}
		seen[target] = true

		if isDataURL(target) && w.cfg.SkipDataImages && !isDataImage(target) {
			continue
		}
		if excluded(w.cfg.ExcludePrefixes, target) {
			continue
		}

		assetType := link.Classify(target, ref.Tag)
		inbound := link.Inbound(w.norm.Host(), target) || isDataImage(target)

		// Outbound links are existence-checked once but never expanded:
		// pinning them to max depth keeps them out of further extraction.
		depth := w.cfg.MaxDepth
		if inbound {
			depth = item.Depth + 1
		}

		stub := models.ResourceRecord{
			URL:       target,
			Depth:     depth,
			AssetType: assetType,
			IsInbound: inbound,
		}
		if err := w.store.PutStub(ctx, stub); err != nil {
			log.Printf("store stub error url=%s: %v", target, err)
		}
		// Provenance is a set of direct referrers; the full chain travels on
		// the frontier item for event consumers.
		if err := w.store.AddProvenance(ctx, target, item.URL); err != nil {
			log.Printf("store provenance error url=%s: %v", target, err)
		}

		out = append(out, models.FrontierItem{
			URL:         target,
			Referrer:    item.URL,
			Depth:       depth,
			SourcePages: sources,
			AssetType:   assetType,
		})
	}
	return out
}

// persist writes the completed record and its index memberships. Store
// failures are logged and swallowed; losing one fact must not abort the
// crawl.
func (w *Worker) persist(ctx context.Context, rec models.ResourceRecord, item models.FrontierItem) {
	if err := w.store.PutRecord(ctx, rec); err != nil {
		log.Printf("store record error url=%s: %v", rec.URL, err)
	}
	if err := w.store.AddToSet(ctx, store.AllURLsKey, rec.URL); err != nil {
		log.Printf("store index error url=%s: %v", rec.URL, err)
	}
	if err := w.store.AddToSet(ctx, store.TypeKey(rec.AssetType), rec.URL); err != nil {
		log.Printf("store index error url=%s: %v", rec.URL, err)
	}
	if err := w.store.AddToSet(ctx, store.StatusKey(rec.Status), rec.URL); err != nil {
		log.Printf("store index error url=%s: %v", rec.URL, err)
	}
	if item.Referrer != "" {
		if err := w.store.AddProvenance(ctx, rec.URL, item.Referrer); err != nil {
			log.Printf("store provenance error url=%s: %v", rec.URL, err)
		}
	}
}

// excluded reports whether the URL's path (not query) starts with any
// configured exclusion prefix.
func excluded(prefixes []string, rawURL string) bool {
	if len(prefixes) == 0 {
		return false
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(u.Path, p) {
			return true
		}
	}
	return false
}
