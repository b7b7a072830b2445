package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/rodaine/table"

	"webcensus/common"
	"webcensus/internal/models"
	"webcensus/internal/store"
)

// lookup prints the stored facts and provenance for one URL from a prior
// crawl, without fetching anything.
func main() {
	rawURL := flag.String("url", "", "URL to look up")
	backend := flag.String("store", common.GetEnv("CRAWL_STORE", "redis"), "result store backend: redis | sqlite")
	redisAddr := flag.String("redis-addr", common.GetEnv("REDIS_ADDR", "localhost:6379"), "redis address for -store redis")
	sqlitePath := flag.String("sqlite-path", common.GetEnv("SQLITE_PATH", "webcensus.db"), "sqlite database path for -store sqlite")
	prefix := flag.String("prefix", common.GetEnv("CRAWL_PREFIX", "webcensus:"), "key prefix in the result store")
	flag.Parse()

	if *rawURL == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx := context.Background()
	st := openStore(ctx, *backend, *redisAddr, *sqlitePath, *prefix)
	defer func() {
		if err := st.Close(); err != nil {
			log.Printf("store close error: %v", err)
		}
	}()

	rec, ok, err := st.GetRecord(ctx, *rawURL)
	if err != nil {
		log.Fatalf("store read error: %v", err)
	}
	if !ok {
		fmt.Printf("no record for %s\n", *rawURL)
		os.Exit(1)
	}

	printRecord(rec)

	prov, err := st.Provenance(ctx, *rawURL)
	if err != nil {
		log.Fatalf("store read error: %v", err)
	}
	if len(prov) == 0 {
		fmt.Println("\nNo recorded referrers (seed URL).")
		return
	}
	fmt.Println()
	tbl := table.New("Found On")
	for _, referrer := range prov {
		tbl.AddRow(referrer)
	}
	tbl.Print()
}

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
	default:
		log.Fatalf("unknown store backend %q", backend)
	}
	if err := st.Ping(ctx); err != nil {
		log.Fatalf("store unreachable: %v", err)
	}
	return st
}

func printRecord(rec models.ResourceRecord) {
	tbl := table.New("Field", "Value")
	tbl.AddRow("URL", rec.URL)
	if rec.Checked() {
		tbl.AddRow("Status", rec.Status)
		tbl.AddRow("Checked At", rec.CheckedAt.Format("2006-01-02 15:04:05 MST"))
	} else {
		tbl.AddRow("Status", "discovered, not fetched")
	}
	tbl.AddRow("Type", string(rec.AssetType))
	tbl.AddRow("Depth", rec.Depth)
	tbl.AddRow("Inbound", rec.IsInbound)
	if rec.ContentType != "" {
		tbl.AddRow("Content-Type", rec.ContentType)
	}
	if rec.IsRedirect {
		tbl.AddRow("Redirected To", rec.FinalURL)
	}
	if rec.Error != "" {
		tbl.AddRow("Error", rec.Error)
	}
	tbl.Print()
}
