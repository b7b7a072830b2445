package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/segmentio/kafka-go"

	"webcensus/common"
	"webcensus/internal/events"
	"webcensus/internal/graph"
	"webcensus/internal/models"
)

// edgeWriter turns url-checked events into provenance edges in Neo4j.
type edgeWriter struct {
	driver graph.DriverSessioner
}

var (
	// Counters for edge-writer throughput and failures exposed on /metrics.
	// received: messages fetched from Kafka; skipped: non-edge event kinds;
	// failed: write errors against Neo4j.
	edgeWriterEventsReceived uint64
	edgeWriterEventsSkipped  uint64
	edgeWriterEdgesFailed    uint64
	edgeWriterEdgesWritten   uint64
)

type neo4jDriver struct {
	driver neo4j.DriverWithContext
}

func (d *neo4jDriver) NewSession(ctx context.Context, config neo4j.SessionConfig) graph.SessionRunner {
	return d.driver.NewSession(ctx, config)
}

func (d *neo4jDriver) Close(ctx context.Context) error {
	return d.driver.Close(ctx)
}

func main() {
	broker := common.GetEnv("KAFKA_BROKER", "localhost:9092")
	eventsTopic := common.GetEnv("KAFKA_EVENTS_TOPIC", "webcensus.crawl.events")
	eventsGroup := common.GetEnv("KAFKA_EVENTS_GROUP", "webcensus-edge-writer")
	metricsAddr := common.GetEnv("METRICS_ADDR", ":9091")

	neo4jURI := common.GetEnv("NEO4J_URI", "neo4j://localhost:7687")
	neo4jUser := common.GetEnv("NEO4J_USER", "neo4j")
	neo4jPassword := common.GetEnv("NEO4J_PASSWORD", "neo4j")

	driver, err := neo4j.NewDriverWithContext(neo4jURI, neo4j.BasicAuth(neo4jUser, neo4jPassword, ""))
	if err != nil {
		log.Fatalf("neo4j driver error: %v", err)
	}
	defer func() {
		if err := driver.Close(context.Background()); err != nil {
			log.Printf("neo4j close error: %v", err)
		}
	}()

	writer := &edgeWriter{driver: &neo4jDriver{driver: driver}}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{broker},
		Topic:   eventsTopic,
		GroupID: eventsGroup,
	})
	defer func() {
		if err := reader.Close(); err != nil {
			log.Printf("events reader close error: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if metricsAddr != "" {
		startMetricsServer(ctx, metricsAddr)
	}

	go consumeEvents(ctx, reader, writer)

	<-ctx.Done()
}

func startMetricsServer(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", handleMetrics)

	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("metrics shutdown error: %v", err)
		}
	}()

	go func() {
		log.Printf("metrics listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("metrics server error: %v", err)
		}
	}()
}

func handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	w.WriteHeader(http.StatusOK)
	body := fmt.Sprintf(
		"webcensus_edge_writer_up 1\n"+
			"webcensus_edge_writer_events_received_total %d\n"+
			"webcensus_edge_writer_events_skipped_total %d\n"+
			"webcensus_edge_writer_edges_failed_total %d\n"+
			"webcensus_edge_writer_edges_written_total %d\n",
		atomic.LoadUint64(&edgeWriterEventsReceived),
		atomic.LoadUint64(&edgeWriterEventsSkipped),
		atomic.LoadUint64(&edgeWriterEdgesFailed),
		atomic.LoadUint64(&edgeWriterEdgesWritten),
	)
	_, _ = w.Write([]byte(body))
}

func consumeEvents(ctx context.Context, reader events.MessageReader, writer *edgeWriter) {
	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("events fetch error: %v", err)
			time.Sleep(500 * time.Millisecond)
			continue
		}

		atomic.AddUint64(&edgeWriterEventsReceived, 1)
		wrote, err := writer.writeEvent(ctx, msg.Value)
		if err != nil {
			atomic.AddUint64(&edgeWriterEdgesFailed, 1)
			log.Printf("edge write error: %v", err)
			continue
		}
		if wrote {
			atomic.AddUint64(&edgeWriterEdgesWritten, 1)
		} else {
			atomic.AddUint64(&edgeWriterEventsSkipped, 1)
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Printf("events commit error: %v", err)
		}
	}
}

// eventEnvelope mirrors the publisher's wire format with the payload left
// raw so only url-checked events are decoded fully.
type eventEnvelope struct {
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

// writeEvent handles one Kafka message. It reports whether an edge was
// written; progress and summary events are skipped, not failed.
func (w *edgeWriter) writeEvent(ctx context.Context, payload []byte) (bool, error) {
	var env eventEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return false, err
	}
	if env.Kind != models.EventChecked {
		return false, nil
	}

	var ev models.CheckedEvent
	if err := json.Unmarshal(env.Payload, &ev); err != nil {
		return false, err
	}
	if ev.URL == "" || len(ev.SourcePages) == 0 {
		return false, nil
	}

	// The direct referrer is the tail of the source-page chain.
	from := ev.SourcePages[len(ev.SourcePages)-1]
	query, params := buildEdgeQuery(ev, from)
	return true, w.runWrite(ctx, query, params)
}

func (w *edgeWriter) runWrite(ctx context.Context, query string, params map[string]any) error {
	session := w.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer func() {
		if err := session.Close(ctx); err != nil {
			log.Printf("neo4j session close error: %v", err)
		}
	}()

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx, query, params)
		return nil, err
	})
	return err
}

func buildEdgeQuery(ev models.CheckedEvent, from string) (string, map[string]any) {
	query := "MERGE (p:Page {url: $from}) " +
		"MERGE (r:Resource {url: $to}) " +
		"SET r.status = $status, r.inbound = $inbound " +
		"MERGE (p)-[e:REFERENCES {run_id: $run_id}]->(r)"

	params := map[string]any{
		"from":    from,
		"to":      ev.URL,
		"status":  ev.Status,
		"inbound": ev.Inbound,
		"run_id":  ev.RunID,
	}
	return query, params
}
