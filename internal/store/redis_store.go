package store

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"webcensus/internal/models"
)

// RedisStore persists crawl results in Redis: one hash per record, one set
// per provenance/index key, everything under a configurable prefix.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore initializes a Redis-backed ResultStore.
func NewRedisStore(addr, prefix string) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		prefix: prefix,
	}
}

// Close closes the Redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ping verifies store connectivity; a failure at startup aborts the run.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// PutRecord writes all record fields, overwriting any stub.
func (s *RedisStore) PutRecord(ctx context.Context, rec models.ResourceRecord) error {
	return s.client.HSet(ctx, s.prefix+RecordKey(rec.URL), recordToMap(rec)).Err()
}

// PutStub creates the record only on first discovery. HSetNX on the url
// field decides ownership; losers leave the existing record alone.
func (s *RedisStore) PutStub(ctx context.Context, rec models.ResourceRecord) error {
	key := s.prefix + RecordKey(rec.URL)
	created, err := s.client.HSetNX(ctx, key, "url", rec.URL).Result()
	if err != nil || !created {
		return err
	}
	m := recordToMap(rec)
	delete(m, "url")
	return s.client.HSet(ctx, key, m).Err()
}

func (s *RedisStore) GetRecord(ctx context.Context, url string) (models.ResourceRecord, bool, error) {
	m, err := s.client.HGetAll(ctx, s.prefix+RecordKey(url)).Result()
	if err != nil {
		return models.ResourceRecord{}, false, err
	}
	if len(m) == 0 {
		return models.ResourceRecord{}, false, nil
	}
	return recordFromMap(m), true, nil
}

func (s *RedisStore) AddProvenance(ctx context.Context, url string, referrers ...string) error {
	if len(referrers) == 0 {
		return nil
	}
	members := make([]any, len(referrers))
	for i, r := range referrers {
		members[i] = r
	}
	return s.client.SAdd(ctx, s.prefix+ProvKey(url), members...).Err()
}

func (s *RedisStore) Provenance(ctx context.Context, url string) ([]string, error) {
	return s.client.SMembers(ctx, s.prefix+ProvKey(url)).Result()
}

func (s *RedisStore) AddToSet(ctx context.Context, key, member string) error {
	return s.client.SAdd(ctx, s.prefix+key, member).Err()
}

func (s *RedisStore) SetMembers(ctx context.Context, key string) ([]string, error) {
	return s.client.SMembers(ctx, s.prefix+key).Result()
}

func (s *RedisStore) SetCard(ctx context.Context, key string) (int64, error) {
	return s.client.SCard(ctx, s.prefix+key).Result()
}

// Cleanup scans and deletes every key under the store prefix.
func (s *RedisStore) Cleanup(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, s.prefix+"*", 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := s.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

func recordToMap(rec models.ResourceRecord) map[string]any {
	checkedAt := ""
	if !rec.CheckedAt.IsZero() {
		checkedAt = rec.CheckedAt.UTC().Format(time.RFC3339Nano)
	}
	return map[string]any{
		"url":          rec.URL,
		"status":       rec.Status,
		"content_type": rec.ContentType,
		"final_url":    rec.FinalURL,
		"is_redirect":  boolField(rec.IsRedirect),
		"depth":        rec.Depth,
		"asset_type":   string(rec.AssetType),
		"is_inbound":   boolField(rec.IsInbound),
		"checked_at":   checkedAt,
		"error":        rec.Error,
	}
}

func recordFromMap(m map[string]string) models.ResourceRecord {
	rec := models.ResourceRecord{
		URL:         m["url"],
		ContentType: m["content_type"],
		FinalURL:    m["final_url"],
		IsRedirect:  m["is_redirect"] == "1",
		AssetType:   models.AssetType(m["asset_type"]),
		IsInbound:   m["is_inbound"] == "1",
		Error:       m["error"],
	}
	rec.Status, _ = strconv.Atoi(m["status"])
	rec.Depth, _ = strconv.Atoi(m["depth"])
	if m["checked_at"] != "" {
		rec.CheckedAt, _ = time.Parse(time.RFC3339Nano, m["checked_at"])
	}
	return rec
}

func boolField(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
