package store

import (
	"context"
	"testing"
	"time"

	"webcensus/internal/models"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStoreRecordRoundTrip(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	rec := models.ResourceRecord{
		URL:         "https://ex.com/p?a=1&b=2",
		Status:      301,
		ContentType: "text/html",
		FinalURL:    "https://ex.com/q",
		IsRedirect:  true,
		Depth:       1,
		AssetType:   models.AssetLink,
		IsInbound:   true,
		CheckedAt:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := s.PutRecord(ctx, rec); err != nil {
		t.Fatalf("PutRecord: %v", err)
	}

	got, ok, err := s.GetRecord(ctx, rec.URL)
	if err != nil || !ok {
		t.Fatalf("GetRecord: ok=%v err=%v", ok, err)
	}
	if got.URL != rec.URL || got.Status != 301 || !got.IsRedirect || got.FinalURL != rec.FinalURL {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if !got.CheckedAt.Equal(rec.CheckedAt) {
		t.Fatalf("checked_at mismatch: %v != %v", got.CheckedAt, rec.CheckedAt)
	}
}

func TestSQLiteStoreGetRecordMissing(t *testing.T) {
	s := newTestSQLiteStore(t)
	if _, ok, err := s.GetRecord(context.Background(), "https://ex.com/nope"); ok || err != nil {
		t.Fatalf("expected not found without error, ok=%v err=%v", ok, err)
	}
}

func TestSQLiteStoreStubIgnoredWhenRecordExists(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	done := models.ResourceRecord{URL: "https://ex.com/a", Status: 200, CheckedAt: time.Now()}
	if err := s.PutRecord(ctx, done); err != nil {
		t.Fatalf("PutRecord: %v", err)
	}
	if err := s.PutStub(ctx, models.ResourceRecord{URL: "https://ex.com/a"}); err != nil {
		t.Fatalf("PutStub: %v", err)
	}
	got, _, _ := s.GetRecord(ctx, "https://ex.com/a")
	if got.Status != 200 {
		t.Fatalf("stub overwrote record: %+v", got)
	}
}

func TestSQLiteStoreSetsAndProvenance(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	url := "https://ex.com/shared.css"
	if err := s.AddProvenance(ctx, url, "https://ex.com/p1", "https://ex.com/p2", "https://ex.com/p1"); err != nil {
		t.Fatalf("AddProvenance: %v", err)
	}
	prov, err := s.Provenance(ctx, url)
	if err != nil {
		t.Fatalf("Provenance: %v", err)
	}
	if len(prov) != 2 {
		t.Fatalf("expected 2 referrers, got %v", prov)
	}

	_ = s.AddToSet(ctx, StatusKey(200), url)
	_ = s.AddToSet(ctx, StatusKey(200), url)
	if n, _ := s.SetCard(ctx, StatusKey(200)); n != 1 {
		t.Fatalf("expected set dedupe, got %d", n)
	}
}

func TestSQLiteStoreCleanup(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	_ = s.PutRecord(ctx, models.ResourceRecord{URL: "https://ex.com"})
	_ = s.AddToSet(ctx, AllURLsKey, "https://ex.com")
	if err := s.Cleanup(ctx); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	if _, ok, _ := s.GetRecord(ctx, "https://ex.com"); ok {
		t.Fatal("expected records cleared")
	}
	if members, _ := s.SetMembers(ctx, AllURLsKey); len(members) != 0 {
		t.Fatalf("expected sets cleared, got %v", members)
	}
}
