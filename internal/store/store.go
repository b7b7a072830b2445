package store

import (
	"context"
	"strconv"

	"webcensus/internal/link"
	"webcensus/internal/models"
)

// Index set names shared by every backend.
const AllURLsKey = "all_urls"

// TypeKey names the index set holding all URLs of one asset type.
func TypeKey(t models.AssetType) string { return "type:" + string(t) }

// StatusKey names the index set holding all URLs that returned one status.
func StatusKey(code int) string { return "status:" + strconv.Itoa(code) }

// RecordKey and ProvKey namespace per-URL data under a collision-free
// encoding of the exact URL.
func RecordKey(url string) string { return "url:" + link.Key(url) }
func ProvKey(url string) string   { return "src:" + link.Key(url) }

// ResultStore is the narrow persistence contract the crawl core writes to
// and the report reader queries. Implementations must tolerate concurrent
// calls for different URLs; set operations are idempotent unions.
type ResultStore interface {
	// PutRecord overwrites the record for rec.URL.
	PutRecord(ctx context.Context, rec models.ResourceRecord) error
	// PutStub creates the record for rec.URL only if none exists yet, so a
	// discovery stub never clobbers a completed fetch.
	PutStub(ctx context.Context, rec models.ResourceRecord) error
	GetRecord(ctx context.Context, url string) (models.ResourceRecord, bool, error)
	// AddProvenance unions referrers into the URL's source-page set.
	AddProvenance(ctx context.Context, url string, referrers ...string) error
	Provenance(ctx context.Context, url string) ([]string, error)
	AddToSet(ctx context.Context, key, member string) error
	SetMembers(ctx context.Context, key string) ([]string, error)
	SetCard(ctx context.Context, key string) (int64, error)
	// Cleanup removes all state written by prior runs.
	Cleanup(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
