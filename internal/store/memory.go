package store

import (
	"context"
	"sort"
	"sync"

	"github.com/salespipe/salespipe/internal/core"
)

// Memory is an in-memory core.Store with the same contract as Postgres:
// mutex-serialized mutations, max+1 id assignment, atomic replace. It backs
// the test suites and is handy wherever a throwaway store is enough.
type Memory struct {
	mu      sync.RWMutex
	records map[int64]core.Record
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{records: make(map[int64]core.Record)}
}

// ReplaceAll swaps the whole table for the given records in one step.
func (s *Memory) ReplaceAll(_ context.Context, records []core.Record) error {
	next := make(map[int64]core.Record, len(records))
	for _, rec := range records {
		next[rec.ID] = rec
	}

	s.mu.Lock()
	s.records = next
	s.mu.Unlock()
	return nil
}

// GetAll returns all records in id order.
func (s *Memory) GetAll(_ context.Context) ([]core.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]core.Record, 0, len(s.records))
	for _, rec := range s.records {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	if len(records) == 0 {
		return nil, nil
	}
	return records, nil
}

// GetByID returns the record with the given id, or core.ErrNotFound.
func (s *Memory) GetByID(_ context.Context, id int64) (core.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return core.Record{}, core.ErrNotFound
	}
	return rec, nil
}

// Insert assigns id = max(existing)+1 and stores the record.
func (s *Memory) Insert(_ context.Context, rec core.Record) (core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var max int64
	for id := range s.records {
		if id > max {
			max = id
		}
	}
	rec.ID = max + 1
	s.records[rec.ID] = rec
	return rec, nil
}

// Update merges fields into the stored record, recomputing the derived
// total via core.UpdateFields.
func (s *Memory) Update(_ context.Context, id int64, fields core.UpdateFields) (core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return core.Record{}, core.ErrNotFound
	}
	fields.ApplyTo(&rec)
	s.records[id] = rec
	return rec, nil
}

// DeleteByID removes the row if present, reporting core.ErrNotFound when
// there was nothing to delete.
func (s *Memory) DeleteByID(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return core.ErrNotFound
	}
	delete(s.records, id)
	return nil
}
