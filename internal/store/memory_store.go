package store

import (
	"context"
	"sort"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"

	"webcensus/internal/models"
)

// MemoryStore is an in-process ResultStore for tests and single-shot runs
// that don't need persistence.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]models.ResourceRecord
	sets    map[string]mapset.Set[string]
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]models.ResourceRecord),
		sets:    make(map[string]mapset.Set[string]),
	}
}

func (s *MemoryStore) Close() error                   { return nil }
func (s *MemoryStore) Ping(ctx context.Context) error { return nil }

func (s *MemoryStore) PutRecord(ctx context.Context, rec models.ResourceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.URL] = rec
	return nil
}

func (s *MemoryStore) PutStub(ctx context.Context, rec models.ResourceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[rec.URL]; ok {
		return nil
	}
	s.records[rec.URL] = rec
	return nil
}

func (s *MemoryStore) GetRecord(ctx context.Context, url string) (models.ResourceRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[url]
	return rec, ok, nil
}

func (s *MemoryStore) AddProvenance(ctx context.Context, url string, referrers ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := s.set(ProvKey(url))
	for _, r := range referrers {
		set.Add(r)
	}
	return nil
}

func (s *MemoryStore) Provenance(ctx context.Context, url string) ([]string, error) {
	return s.SetMembers(ctx, ProvKey(url))
}

func (s *MemoryStore) AddToSet(ctx context.Context, key, member string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set(key).Add(member)
	return nil
}

func (s *MemoryStore) SetMembers(ctx context.Context, key string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set, ok := s.sets[key]
	if !ok {
		return nil, nil
	}
	members := set.ToSlice()
	sort.Strings(members)
	return members, nil
}

func (s *MemoryStore) SetCard(ctx context.Context, key string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set, ok := s.sets[key]
	if !ok {
		return 0, nil
	}
	return int64(set.Cardinality()), nil
}

func (s *MemoryStore) Cleanup(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[string]models.ResourceRecord)
	s.sets = make(map[string]mapset.Set[string])
	return nil
}

// set returns the named set, creating it if needed. Caller holds s.mu.
func (s *MemoryStore) set(key string) mapset.Set[string] {
	if existing, ok := s.sets[key]; ok {
		return existing
	}
	created := mapset.NewThreadUnsafeSet[string]()
	s.sets[key] = created
	return created
}
