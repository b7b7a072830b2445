package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/rodaine/table"
	"golang.org/x/sync/errgroup"

	"webcensus/common"
	"webcensus/internal/crawler"
	"webcensus/internal/events"
	"webcensus/internal/export"
	"webcensus/internal/models"
	"webcensus/internal/store"
)

func main() {
	seed := flag.String("seed", common.GetEnv("CRAWL_SEED", ""), "seed URL to crawl")
	maxDepth := flag.Int("max-depth", common.ParseInt(common.GetEnv("CRAWL_MAX_DEPTH", "3"), 3), "maximum link depth from the seed")
	concurrency := flag.Int("concurrency", common.ParseInt(common.GetEnv("CRAWL_CONCURRENCY", "8"), 8), "maximum concurrent fetches")
	timeout := flag.Duration("timeout", common.ParseDuration(common.GetEnv("CRAWL_TIMEOUT", "10s"), 0), "per-request timeout")
	userAgent := flag.String("user-agent", common.GetEnv("CRAWL_USER_AGENT", models.DefaultUserAgent), "User-Agent header")
	exclude := flag.String("exclude", common.GetEnv("CRAWL_EXCLUDE", ""), "comma-separated path prefixes to exclude")
	skipDataImages := flag.Bool("skip-data-images", common.GetEnv("CRAWL_SKIP_DATA_IMAGES", "") != "", "record inline data:image URIs without decoding them")
	cleanup := flag.Bool("cleanup", common.GetEnv("CRAWL_CLEANUP", "") != "", "clear prior state for this store prefix before crawling")
	backend := flag.String("store", common.GetEnv("CRAWL_STORE", "memory"), "result store backend: redis | sqlite | memory")
	redisAddr := flag.String("redis-addr", common.GetEnv("REDIS_ADDR", "localhost:6379"), "redis address for -store redis")
	sqlitePath := flag.String("sqlite-path", common.GetEnv("SQLITE_PATH", "webcensus.db"), "sqlite database path for -store sqlite")
	prefix := flag.String("prefix", common.GetEnv("CRAWL_PREFIX", "webcensus:"), "key prefix in the result store")
	kafkaBroker := flag.String("kafka-broker", common.GetEnv("KAFKA_BROKER", ""), "publish crawl events to this Kafka broker (empty = log only)")
	kafkaTopic := flag.String("kafka-topic", common.GetEnv("KAFKA_EVENTS_TOPIC", "webcensus.crawl.events"), "Kafka topic for crawl events")
	exportFormats := flag.String("export", common.GetEnv("CRAWL_EXPORT", ""), "comma-separated report formats: json, csv, xlsx")
	exportBase := flag.String("export-file", common.GetEnv("CRAWL_EXPORT_FILE", "webcensus-report"), "base filename for exports (extension appended)")
	flag.Parse()

	cfg := models.CrawlConfig{
		SeedURL:        *seed,
		MaxDepth:       *maxDepth,
		Concurrency:    *concurrency,
		RequestTimeout: *timeout,
		UserAgent:      *userAgent,
		SkipDataImages: *skipDataImages,
		CleanupPrior:   *cleanup,
		RunID:          uuid.NewString(),
	}
	for _, p := range strings.Split(*exclude, ",") {
		if p = strings.TrimSpace(p); p != "" {
			cfg.ExcludePrefixes = append(cfg.ExcludePrefixes, p)
		}
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st := openStore(ctx, *backend, *redisAddr, *sqlitePath, *prefix)
	defer func() {
		if err := st.Close(); err != nil {
			log.Printf("store close error: %v", err)
		}
	}()

	if cfg.CleanupPrior {
		if err := st.Cleanup(ctx); err != nil {
			log.Fatalf("store cleanup error: %v", err)
		}
	}

	var pub events.Publisher = events.LogPublisher{}
	if *kafkaBroker != "" {
		kp := events.NewKafkaPublisher(*kafkaBroker, *kafkaTopic)
		defer func() {
			if err := kp.Close(); err != nil {
				log.Printf("publisher close error: %v", err)
			}
		}()
		pub = kp
	}

	log.Printf("crawl starting run_id=%s seed=%s max_depth=%d concurrency=%d store=%s",
		cfg.RunID, cfg.SeedURL, cfg.MaxDepth, cfg.Concurrency, *backend)

	report, err := crawler.Crawl(ctx, cfg, st, pub)
	if err != nil {
		log.Printf("crawl stopped early: %v", err)
	}

	printReport(report)

	if *exportFormats != "" {
		if err := runExports(&report, *exportFormats, *exportBase); err != nil {
			log.Fatalf("export error: %v", err)
		}
	}
}

// openStore connects the selected backend and fails fast if it is
// unreachable.
func openStore(ctx context.Context, backend, redisAddr, sqlitePath, prefix string) store.ResultStore {
	var st store.ResultStore
	switch backend {
	case "redis":
		st = store.NewRedisStore(redisAddr, prefix)
	case "sqlite":
		s, err := store.NewSQLiteStore(sqlitePath)
		if err != nil {
			log.Fatalf("sqlite open error: %v", err)
		}
		st = s
	case "memory":
		st = store.NewMemoryStore()
	default:
		log.Fatalf("unknown store backend %q", backend)
	}
	if err := st.Ping(ctx); err != nil {
		log.Fatalf("store unreachable: %v", err)
	}
	return st
}

func printReport(report models.Report) {
	fmt.Printf("\nCrawl of %s: %d resources (%d internal, %d external)\n\n",
		report.Seed, report.Summary.Total, report.Summary.Internal, report.Summary.External)

	typeTbl := table.New("Type", "Count")
	for _, at := range []models.AssetType{models.AssetLink, models.AssetCSS, models.AssetScript, models.AssetImage, models.AssetOther} {
		if n := report.Types[at]; n > 0 {
			typeTbl.AddRow(string(at), n)
		}
	}
	typeTbl.Print()
	fmt.Println()

	statusTbl := table.New("Status", "Total", "Internal", "External", "Example")
	for _, status := range sortedStatuses(report.StatusCodes) {
		bucket := report.StatusCodes[status]
		example := ""
		if len(bucket.Samples) > 0 {
			example = bucket.Samples[0].URL
		}
		statusTbl.AddRow(statusLabel(status), bucket.Total, bucket.Internal, bucket.External, example)
	}
	statusTbl.Print()
}

func sortedStatuses(buckets map[int]*models.StatusBucket) []int {
	statuses := make([]int, 0, len(buckets))
	for status := range buckets {
		statuses = append(statuses, status)
	}
	sort.Ints(statuses)
	return statuses
}

func statusLabel(status int) string {
	if status == 0 {
		return "unreachable"
	}
	return fmt.Sprintf("%d", status)
}

// runExports writes the requested formats in parallel; any failure fails the
// whole export.
func runExports(report *models.Report, formats, base string) error {
	var g errgroup.Group
	for _, format := range strings.Split(formats, ",") {
		format = strings.TrimSpace(format)
		if format == "" {
			continue
		}
		exporter := export.New(format)
		if exporter == nil {
			return fmt.Errorf("unknown export format %q", format)
		}
		g.Go(func() error {
			return exporter.Export(report, base)
		})
	}
	return g.Wait()
}
