package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"mercator-hq/odrlcheck/pkg/history"
)

// MemoryStorage implements history.Storage in process memory.
// When MaxRecords is reached the oldest record is evicted on each Store.
type MemoryStorage struct {
	mu         sync.RWMutex
	records    map[string]*history.Record
	order      []string // IDs in insertion order
	maxRecords int
}

// NewMemoryStorage creates an in-memory backend holding at most maxRecords
// records. Zero means unbounded.
func NewMemoryStorage(maxRecords int) *MemoryStorage {
	return &MemoryStorage{
		records:    make(map[string]*history.Record),
		maxRecords: maxRecords,
	}
}

// Store persists a copy of record.
func (s *MemoryStorage) Store(ctx context.Context, record *history.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.records == nil {
		return history.NewStorageError("memory", "store", fmt.Errorf("storage is closed"))
	}
	if _, exists := s.records[record.ID]; exists {
		return history.NewStorageError("memory", "store", fmt.Errorf("duplicate id %s", record.ID))
	}

	s.records[record.ID] = copyRecord(record)
	s.order = append(s.order, record.ID)

	for s.maxRecords > 0 && len(s.order) > s.maxRecords {
		delete(s.records, s.order[0])
		s.order = s.order[1:]
	}
	return nil
}

// Get returns a copy of the record with the given ID.
func (s *MemoryStorage) Get(ctx context.Context, id string) (*history.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[id]
	if !ok {
		return nil, history.ErrNotFound
	}
	return copyRecord(record), nil
}

// List returns copies of the records matching query, sorted by creation time.
func (s *MemoryStorage) List(ctx context.Context, query *history.Query) ([]*history.Record, error) {
	q := *query
	q.ApplyDefaults()
	if err := q.Validate(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	results := []*history.Record{}
	for _, id := range s.order {
		if record := s.records[id]; q.Matches(record) {
			results = append(results, copyRecord(record))
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(results, func(i, j int) bool {
		if q.SortOrder == "asc" {
			return results[i].CreatedAt.Before(results[j].CreatedAt)
		}
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})

	if q.Offset >= len(results) {
		return []*history.Record{}, nil
	}
	end := q.Offset + q.Limit
	if end > len(results) {
		end = len(results)
	}
	return results[q.Offset:end], nil
}

// Count returns the number of records matching query.
func (s *MemoryStorage) Count(ctx context.Context, query *history.Query) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, record := range s.records {
		if query.Matches(record) {
			count++
		}
	}
	return count, nil
}

// DeleteBefore removes records created before cutoff.
func (s *MemoryStorage) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	kept := s.order[:0]
	for _, id := range s.order {
		if s.records[id].CreatedAt.Before(cutoff) {
			delete(s.records, id)
			deleted++
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept
	return deleted, nil
}

// Ping fails once the storage is closed.
func (s *MemoryStorage) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.records == nil {
		return history.NewStorageError("memory", "ping", fmt.Errorf("storage is closed"))
	}
	return nil
}

// Close drops all records.
func (s *MemoryStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
	s.order = nil
	return nil
}

// Size returns the number of records held.
func (s *MemoryStorage) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.records)
}

func copyRecord(r *history.Record) *history.Record {
	c := *r
	c.IssueTypes = append([]string(nil), r.IssueTypes...)
	c.Report = append([]byte(nil), r.Report...)
	return &c
}
