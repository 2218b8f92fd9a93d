package store

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryRecords is an in-memory Records implementation. It backs tests and
// local development and preserves insertion order like the remote store.
type MemoryRecords[T any] struct {
	mu       sync.RWMutex
	records  map[string]T
	order    []string
	identity Identity[T]

	// FailNext makes the next operation fail with the given error,
	// simulating a store outage. FailNextDelete fails only the next
	// Delete, so list-then-delete flows can fail mid-way. Test hooks only.
	FailNext       error
	FailNextDelete error
}

func NewMemoryRecords[T any](identity Identity[T]) *MemoryRecords[T] {
	return &MemoryRecords[T]{
		records:  make(map[string]T),
		identity: identity,
	}
}

func (s *MemoryRecords[T]) failure() error {
	err := s.FailNext
	s.FailNext = nil
	return err
}

func (s *MemoryRecords[T]) List(_ context.Context, _ Fields) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failure(); err != nil {
		return nil, err
	}

	result := make([]T, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.records[id])
	}
	return result, nil
}

func (s *MemoryRecords[T]) Get(_ context.Context, id string, _ Fields) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failure(); err != nil {
		return nil, err
	}

	rec, exists := s.records[id]
	if !exists {
		return nil, nil
	}
	return &rec, nil
}

func (s *MemoryRecords[T]) Create(_ context.Context, rec T) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failure(); err != nil {
		return nil, err
	}

	if s.identity.Get(rec) == "" {
		rec = s.identity.Set(rec, uuid.New().String())
	}

	id := s.identity.Get(rec)
	if _, exists := s.records[id]; !exists {
		s.order = append(s.order, id)
	}
	s.records[id] = rec

	return &rec, nil
}

func (s *MemoryRecords[T]) Update(_ context.Context, id string, updates map[string]any) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failure(); err != nil {
		return nil, err
	}

	rec, exists := s.records[id]
	if !exists {
		return nil, nil
	}

	if s.identity.Apply != nil {
		rec = s.identity.Apply(rec, updates)
	}
	s.records[id] = rec

	return &rec, nil
}

func (s *MemoryRecords[T]) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failure(); err != nil {
		return false, err
	}
	if err := s.FailNextDelete; err != nil {
		s.FailNextDelete = nil
		return false, err
	}

	if _, exists := s.records[id]; !exists {
		return false, nil
	}

	delete(s.records, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	return true, nil
}
